// Package cli provides a command-line runner for the emulator.
// It polls input and runs the emulator in a window without the full UI.
package cli

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	emucore "github.com/user-none/eblitui/api"
	emubridge "github.com/user-none/emsms/bridge/ebiten"
	"github.com/user-none/emsms/emu"
	"github.com/user-none/emsms/ui"
)

// Queued audio bounds for pacing. Below the low mark frames run early,
// above the high mark they run late.
const (
	adtLowWater  = 50 * time.Millisecond
	adtHighWater = 100 * time.Millisecond
)

// stickDeadzone is the analog stick travel treated as a d-pad press.
const stickDeadzone = 0.5

// Runner wraps an emulator for command-line mode.
// The emulator runs on a dedicated goroutine paced by the audio clock.
// The Ebiten thread polls input and draws from the shared framebuffer.
type Runner struct {
	emulator    *emubridge.Emulator
	audioPlayer *ui.AudioPlayer

	emuControl        *ui.EmuControl
	sharedInput       *ui.SharedInput
	sharedFramebuffer *ui.SharedFramebuffer
	emuDone           chan struct{}
}

// NewRunner creates a Runner and starts emulation.
// Audio initialization failure is non-fatal; frames are then paced by
// the wall clock alone.
func NewRunner(e *emubridge.Emulator) *Runner {
	player, err := ui.NewAudioPlayer(1.0)
	if err != nil {
		log.Printf("Warning: audio initialization failed: %v", err)
	}

	r := &Runner{
		emulator:          e,
		audioPlayer:       player,
		emuControl:        ui.NewEmuControl(),
		sharedInput:       &ui.SharedInput{},
		sharedFramebuffer: ui.NewSharedFramebuffer(),
		emuDone:           make(chan struct{}),
	}

	go r.emulationLoop()

	return r
}

// Close stops emulation and releases audio.
func (r *Runner) Close() {
	if r.emuControl != nil {
		r.emuControl.Stop()
		<-r.emuDone
	}

	if r.audioPlayer != nil {
		r.audioPlayer.Close()
		r.audioPlayer = nil
	}
}

// emulationLoop runs frames on a dedicated goroutine until stopped.
func (r *Runner) emulationLoop() {
	defer close(r.emuDone)

	timing := r.emulator.GetTiming()
	frameTime := time.Second / time.Duration(timing.FPS)
	lastFrameTime := time.Now()

	for {
		if !r.emuControl.CheckPause() {
			return
		}

		for player, buttons := range r.sharedInput.Read() {
			r.emulator.SetInput(player, buttons)
		}

		r.emulator.RunFrame()

		if r.audioPlayer != nil {
			r.audioPlayer.QueueSamples(r.emulator.GetAudioSamples())
		}

		r.sharedFramebuffer.Update(
			r.emulator.GetFramebuffer(),
			r.emulator.GetFramebufferStride(),
			r.emulator.GetActiveHeight(),
		)

		sleepTime := frameTime - time.Since(lastFrameTime)
		if r.audioPlayer != nil {
			sleepTime = adjustForAudio(sleepTime, r.audioPlayer.Buffered())
		}
		if sleepTime > time.Millisecond {
			time.Sleep(sleepTime)
		}

		lastFrameTime = time.Now()
	}
}

// adjustForAudio stretches or shrinks a frame sleep to keep the queued
// audio between the low and high water marks.
func adjustForAudio(sleep, queued time.Duration) time.Duration {
	switch {
	case queued < adtLowWater:
		return sleep * 9 / 10
	case queued > adtHighWater:
		return sleep * 11 / 10
	}
	return sleep
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		return nil
	}

	r.pollInputToShared()
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	if r.sharedFramebuffer.Frames() == 0 {
		return
	}
	pixels, stride, height := r.sharedFramebuffer.Read()
	if height == 0 {
		return
	}
	r.emulator.DrawCachedFramebuffer(screen, pixels, stride, height)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.emulator.Layout(outsideWidth, outsideHeight)
}

// keyBindings maps keyboard keys to player 1 buttons. WASD and the arrows
// both drive the d-pad.
var keyBindings = []struct {
	key    ebiten.Key
	button int
}{
	{ebiten.KeyW, emucore.ButtonUp},
	{ebiten.KeyArrowUp, emucore.ButtonUp},
	{ebiten.KeyS, emucore.ButtonDown},
	{ebiten.KeyArrowDown, emucore.ButtonDown},
	{ebiten.KeyA, emucore.ButtonLeft},
	{ebiten.KeyArrowLeft, emucore.ButtonLeft},
	{ebiten.KeyD, emucore.ButtonRight},
	{ebiten.KeyArrowRight, emucore.ButtonRight},
	{ebiten.KeyJ, emu.Button1},
	{ebiten.KeyK, emu.Button2},
	{ebiten.KeyEnter, emu.ButtonPause},
}

// padBindings maps standard gamepad buttons to console buttons.
var padBindings = []struct {
	pad    ebiten.StandardGamepadButton
	button int
}{
	{ebiten.StandardGamepadButtonLeftTop, emucore.ButtonUp},
	{ebiten.StandardGamepadButtonLeftBottom, emucore.ButtonDown},
	{ebiten.StandardGamepadButtonLeftLeft, emucore.ButtonLeft},
	{ebiten.StandardGamepadButtonLeftRight, emucore.ButtonRight},
	{ebiten.StandardGamepadButtonRightBottom, emu.Button1},
	{ebiten.StandardGamepadButtonRightRight, emu.Button2},
	{ebiten.StandardGamepadButtonCenterRight, emu.ButtonPause},
}

// pollInputToShared reads keyboard and gamepad input and writes it to
// shared state. The keyboard and the first gamepad drive player 1; the
// second gamepad drives player 2.
func (r *Runner) pollInputToShared() {
	var buttons [2]uint32

	for _, b := range keyBindings {
		if ebiten.IsKeyPressed(b.key) {
			buttons[0] |= 1 << b.button
		}
	}

	player := 0
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if player >= len(buttons) {
			break
		}
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		buttons[player] |= gamepadButtons(id)
		player++
	}

	for p, b := range buttons {
		r.sharedInput.Set(p, b)
	}
}

// gamepadButtons returns the button mask for one standard-layout gamepad,
// including the left stick as a d-pad.
func gamepadButtons(id ebiten.GamepadID) uint32 {
	var mask uint32
	for _, b := range padBindings {
		if ebiten.IsStandardGamepadButtonPressed(id, b.pad) {
			mask |= 1 << b.button
		}
	}

	axisX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	axisY := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	if axisX < -stickDeadzone {
		mask |= 1 << emucore.ButtonLeft
	}
	if axisX > stickDeadzone {
		mask |= 1 << emucore.ButtonRight
	}
	if axisY < -stickDeadzone {
		mask |= 1 << emucore.ButtonUp
	}
	if axisY > stickDeadzone {
		mask |= 1 << emucore.ButtonDown
	}
	return mask
}
