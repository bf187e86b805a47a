// Package ebiten draws the Master System core through Ebiten.
package ebiten

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/emsms/emu"
)

// Emulator wraps emu.Emulator with an offscreen image at native
// resolution that is scaled into the window on every draw.
type Emulator struct {
	emu.Emulator

	// IntegerScale snaps the window scale down to a whole multiple of
	// the native size when the window is at least that large.
	IntegerScale bool

	offscreen *ebiten.Image
	packed    []byte // row-packed copy when the stride has padding
	drawOpts  ebiten.DrawImageOptions
}

// NewEmulator creates an emulator for the ROM. A copier header in front
// of the image is dropped first.
func NewEmulator(rom []byte, region emu.Region) (*Emulator, error) {
	core, err := emu.NewEmulator(emu.StripCopierHeader(rom), region)
	if err != nil {
		return nil, err
	}
	return &Emulator{Emulator: core}, nil
}

// Close releases the offscreen image and the core.
func (e *Emulator) Close() {
	if e.offscreen != nil {
		e.offscreen.Deallocate()
		e.offscreen = nil
	}
	e.Emulator.Close()
}

// Layout implements ebiten.Game.
func (e *Emulator) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// fit returns the scale and top-left offset that center a w x h image in
// the screen while keeping its aspect ratio.
func fit(screenW, screenH, w, h int, integer bool) (scale, offX, offY float64) {
	scale = math.Min(float64(screenW)/float64(w), float64(screenH)/float64(h))
	if integer && scale >= 1 {
		scale = math.Floor(scale)
	}
	offX = (float64(screenW) - float64(w)*scale) / 2
	offY = (float64(screenH) - float64(h)*scale) / 2
	return scale, offX, offY
}

// DrawCachedFramebuffer draws a framebuffer snapshot taken from the
// emulation goroutine.
func (e *Emulator) DrawCachedFramebuffer(screen *ebiten.Image, pixels []byte, stride, activeHeight int) {
	const rowBytes = emu.ScreenWidth * 4
	if activeHeight == 0 || stride < rowBytes || len(pixels) < stride*activeHeight {
		return
	}

	if e.offscreen == nil || e.offscreen.Bounds().Dy() != activeHeight {
		if e.offscreen != nil {
			e.offscreen.Deallocate()
		}
		e.offscreen = ebiten.NewImage(emu.ScreenWidth, activeHeight)
	}

	// WritePixels wants tightly packed rows.
	src := pixels[:rowBytes*activeHeight]
	if stride != rowBytes {
		if cap(e.packed) < rowBytes*activeHeight {
			e.packed = make([]byte, rowBytes*activeHeight)
		}
		src = e.packed[:rowBytes*activeHeight]
		for y := 0; y < activeHeight; y++ {
			copy(src[y*rowBytes:(y+1)*rowBytes], pixels[y*stride:])
		}
	}
	e.offscreen.WritePixels(src)

	b := screen.Bounds()
	scale, offX, offY := fit(b.Dx(), b.Dy(), emu.ScreenWidth, activeHeight, e.IntegerScale)

	e.drawOpts = ebiten.DrawImageOptions{}
	e.drawOpts.GeoM.Scale(scale, scale)
	e.drawOpts.GeoM.Translate(offX, offY)
	e.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(e.offscreen, &e.drawOpts)
}
