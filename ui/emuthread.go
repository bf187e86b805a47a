package ui

import (
	"sync"

	"github.com/user-none/emsms/emu"
)

// SharedInput holds controller state written by the Ebiten thread
// and read by the emulation goroutine. Each player's state is a button
// bitmask in the layout used by Emulator.SetInput.
type SharedInput struct {
	mu      sync.Mutex
	buttons [2]uint32
}

// Set updates the button mask for a player from the Ebiten thread.
// Players outside the two controller ports are ignored.
func (si *SharedInput) Set(player int, buttons uint32) {
	if player < 0 || player >= len(si.buttons) {
		return
	}
	si.mu.Lock()
	si.buttons[player] = buttons
	si.mu.Unlock()
}

// Read returns the current input state for both players.
func (si *SharedInput) Read() [2]uint32 {
	si.mu.Lock()
	b := si.buttons
	si.mu.Unlock()
	return b
}

// SharedFramebuffer hands completed frames from the emulation goroutine
// to Ebiten's Draw. Update copies into a back buffer; Read copies the back
// buffer into a front buffer the caller may hold until its next Read.
type SharedFramebuffer struct {
	mu           sync.Mutex
	back         []byte
	front        []byte
	stride       int
	activeHeight int
	frames       uint64
}

// frameBytes is the size of one full RGBA frame.
const frameBytes = emu.ScreenWidth * emu.MaxScreenHeight * 4

// NewSharedFramebuffer creates a framebuffer sized for the largest frame.
func NewSharedFramebuffer() *SharedFramebuffer {
	return &SharedFramebuffer{
		back:  make([]byte, frameBytes),
		front: make([]byte, frameBytes),
	}
}

// Update publishes a completed frame.
func (sf *SharedFramebuffer) Update(pixels []byte, stride, activeHeight int) {
	n := min(stride*activeHeight, frameBytes, len(pixels))

	sf.mu.Lock()
	copy(sf.back[:n], pixels[:n])
	sf.stride = stride
	sf.activeHeight = activeHeight
	sf.frames++
	sf.mu.Unlock()
}

// Read returns a snapshot of the latest frame. The pixels stay valid
// until the next call to Read.
func (sf *SharedFramebuffer) Read() (pixels []byte, stride, activeHeight int) {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	if n := min(sf.stride*sf.activeHeight, frameBytes); n > 0 {
		copy(sf.front[:n], sf.back[:n])
	}
	return sf.front, sf.stride, sf.activeHeight
}

// Frames returns how many frames have been published.
func (sf *SharedFramebuffer) Frames() uint64 {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.frames
}

// EmuControl coordinates pausing and stopping the emulation goroutine from
// the Ebiten thread. The goroutine calls CheckPause between frames.
type EmuControl struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pauseReq bool
	paused   bool
	stopped  bool
}

// NewEmuControl creates a control in the running state.
func NewEmuControl() *EmuControl {
	ec := &EmuControl{}
	ec.cond = sync.NewCond(&ec.mu)
	return ec
}

// RequestPause asks the emulation goroutine to pause and blocks until it
// has parked between frames, or until Stop is called.
func (ec *EmuControl) RequestPause() {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	ec.pauseReq = true
	for !ec.paused && !ec.stopped {
		ec.cond.Wait()
	}
}

// RequestResume lets a paused emulation goroutine continue.
func (ec *EmuControl) RequestResume() {
	ec.mu.Lock()
	ec.pauseReq = false
	ec.mu.Unlock()
	ec.cond.Broadcast()
}

// CheckPause parks the calling goroutine while a pause is requested.
// It returns false once the goroutine should exit.
func (ec *EmuControl) CheckPause() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if ec.pauseReq && !ec.stopped {
		ec.paused = true
		ec.cond.Broadcast()
		for ec.pauseReq && !ec.stopped {
			ec.cond.Wait()
		}
		ec.paused = false
	}
	return !ec.stopped
}

// Stop tells the emulation goroutine to exit and releases any waiter.
func (ec *EmuControl) Stop() {
	ec.mu.Lock()
	ec.stopped = true
	ec.pauseReq = false
	ec.mu.Unlock()
	ec.cond.Broadcast()
}

// ShouldRun reports whether the emulation goroutine should keep running.
func (ec *EmuControl) ShouldRun() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return !ec.stopped
}

// IsPaused reports whether the emulation goroutine is parked.
func (ec *EmuControl) IsPaused() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.paused
}
