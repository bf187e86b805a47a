package emu

import (
	"errors"

	emucore "github.com/user-none/eblitui/api"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.MemoryInspector = (*Emulator)(nil)
var _ emucore.MemoryMapper = (*Emulator)(nil)

// Button bits of the emucore input mask beyond the four directions.
const (
	Button1     = 4
	Button2     = 5
	ButtonPause = 6
)

// Emulator owns the CPU, bus and VDP of one console and runs them a frame
// at a time. The three are not safe for concurrent use; a frontend that
// presents from another goroutine hands off completed frames instead.
type Emulator struct {
	cpu *CPU
	bus *Bus
	vdp *VDP

	region         Region
	timing         RegionTiming
	cyclesPerFrame int

	lastFrameCycles int

	// Pre-allocated silent audio for external consumption
	audioBuffer []int16

	// Per-player pressed-button masks in port bit order.
	pads [2]uint8

	pauseHeld  bool
	nmiPending bool
}

// NewEmulator builds a console with rom inserted and powered on.
func NewEmulator(rom []byte, region Region) (Emulator, error) {
	if len(rom) == 0 {
		return Emulator{}, errors.New("empty ROM image")
	}

	vdp := NewVDP()
	bus := NewBus(vdp)
	cpu := NewCPU(bus)

	e := Emulator{
		cpu: cpu,
		bus: bus,
		vdp: vdp,
	}
	e.SetRegion(region)
	e.LoadRom(rom)
	return e, nil
}

// LoadRom inserts a new cartridge image and resets the console.
func (e *Emulator) LoadRom(rom []byte) {
	e.bus.LoadRom(rom)
	e.Reset()
}

// Reset resets the bus, VDP and CPU, in that order.
func (e *Emulator) Reset() {
	e.bus.Reset()
	e.vdp.Reset()
	e.cpu.Reset()
	e.pads = [2]uint8{}
	e.pauseHeld = false
	e.nmiPending = false
}

// RunFrame executes one frame's worth of CPU cycles, feeding every
// instruction's cost to the VDP and delivering its interrupts.
func (e *Emulator) RunFrame() {
	remaining := e.cyclesPerFrame
	executed := 0

	e.vdp.BeginFrame()

	if e.nmiPending {
		e.nmiPending = false
		n := e.cpu.RequestNMI()
		remaining -= n
		executed += n
		e.vdp.StepCpuCycles(n)
	}

	for remaining > 0 {
		cycles := e.cpu.Step()
		if cycles <= 0 {
			cycles = 1
		}
		remaining -= cycles
		executed += cycles
		e.vdp.StepCpuCycles(cycles)

		if e.vdp.GetInterruptPending() {
			if ack := e.cpu.RequestInterrupt(); ack > 0 {
				e.vdp.ClearInterrupts()
				remaining -= ack
				executed += ack
				e.vdp.StepCpuCycles(ack)
			}
		}
	}

	e.lastFrameCycles = executed
}

// LastFrameCycles returns the CPU cycles executed by the last RunFrame.
func (e *Emulator) LastFrameCycles() int {
	return e.lastFrameCycles
}

// SetJoypads writes both joypad port bytes verbatim (active low).
func (e *Emulator) SetJoypads(port1, port2 uint8) {
	e.bus.SetJoypads(port1, port2)
}

// SetInput unpacks a button bitmask and sets controller state for the given
// player. A press of Pause on player 1 raises an NMI at the next frame.
func (e *Emulator) SetInput(player int, buttons uint32) {
	if player < 0 || player > 1 {
		return
	}
	var pad uint8
	if buttons&(1<<emucore.ButtonUp) != 0 {
		pad |= padUp
	}
	if buttons&(1<<emucore.ButtonDown) != 0 {
		pad |= padDown
	}
	if buttons&(1<<emucore.ButtonLeft) != 0 {
		pad |= padLeft
	}
	if buttons&(1<<emucore.ButtonRight) != 0 {
		pad |= padRight
	}
	if buttons&(1<<Button1) != 0 {
		pad |= padButton1
	}
	if buttons&(1<<Button2) != 0 {
		pad |= padButton2
	}
	e.pads[player] = pad
	e.bus.SetJoypads(packJoypads(e.pads[0], e.pads[1]))

	if player == 0 {
		pause := buttons&(1<<ButtonPause) != 0
		if pause && !e.pauseHeld {
			e.nmiPending = true
		}
		e.pauseHeld = pause
	}
}

// CPU returns the processor, for tests and debuggers.
func (e *Emulator) CPU() *CPU { return e.cpu }

// Bus returns the memory bus.
func (e *Emulator) Bus() *Bus { return e.bus }

// VDP returns the video processor.
func (e *Emulator) VDP() *VDP { return e.vdp }

// GetFramebuffer returns raw RGBA pixel data for current frame.
func (e *Emulator) GetFramebuffer() []byte {
	return e.vdp.GetFramebuffer()
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return e.vdp.GetStride()
}

// GetActiveHeight returns the current active display height.
func (e *Emulator) GetActiveHeight() int {
	return ScreenHeight
}

// GetAudioSamples returns one frame of silence.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}

// GetRegion returns the emulator's region setting.
func (e *Emulator) GetRegion() Region {
	return e.region
}

// GetTiming returns FPS and scanline count for the current region.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.timing.FPS,
		Scanlines: e.timing.Scanlines,
	}
}

// SetRegion updates the frame budget and the VDP's line count.
func (e *Emulator) SetRegion(region Region) {
	e.region = region
	e.timing = GetTimingForRegion(region)
	e.cyclesPerFrame = e.timing.CyclesPerFrame()
	e.audioBuffer = silenceFrame(e.timing)
	e.vdp.SetRegion(region)
}

// SetOption applies a core option change identified by key. The core has
// no options.
func (e *Emulator) SetOption(key string, value string) {}

// Close releases any resources held by the emulator.
func (e *Emulator) Close() {}

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read. System RAM is mapped at flat address 0.
func (e *Emulator) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		if cur >= systemRAMSize {
			return count
		}
		buf[i] = e.bus.ram[cur]
		count++
	}
	return count
}

// MemoryMap returns a list of available memory regions with sizes.
func (e *Emulator) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: systemRAMSize},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (e *Emulator) ReadRegion(regionType int) []byte {
	if regionType != emucore.MemorySystemRAM {
		return nil
	}
	out := make([]byte, systemRAMSize)
	copy(out, e.bus.ram[:])
	return out
}

// WriteRegion writes data to the specified memory region.
func (e *Emulator) WriteRegion(regionType int, data []byte) {
	if regionType == emucore.MemorySystemRAM {
		copy(e.bus.ram[:], data)
	}
}
