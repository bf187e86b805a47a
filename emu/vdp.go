package emu

import (
	"image"
	"image/color"
)

const (
	ScreenWidth  = 256
	ScreenHeight = 192

	// MaxScreenHeight is the tallest frame the core produces. Only the
	// 192-line Mode 4 layout is modeled.
	MaxScreenHeight = ScreenHeight

	// CyclesPerLine is the CPU time of one scanline: 684 VDP master clocks
	// at three master clocks per CPU cycle.
	CyclesPerLine = 228

	vramSize = 0x4000
	cramSize = 0x20
)

// Status register bits.
const (
	statusVBlank    uint8 = 0x80
	statusOverflow  uint8 = 0x40
	statusCollision uint8 = 0x20
)

// Control port command codes (top two bits of the second control byte).
const (
	codeVRAMRead  uint8 = 0
	codeVRAMWrite uint8 = 1
	codeRegister  uint8 = 2
	codeCRAMWrite uint8 = 3
)

// hCounterTable maps a cycle offset within a scanline to the value exposed
// on the H counter port. The internal counter is 9 bits wide and only its
// upper 8 bits are visible, so the sequence runs $00-$93 across the active
// area and then jumps to $E9-$FF and wraps through $00 in the blanking period.
var hCounterTable = func() [CyclesPerLine]uint8 {
	var t [CyclesPerLine]uint8
	for cycle := range t {
		master := cycle * 3
		var h int
		switch {
		case master < 256:
			h = master / 2
		case master < 512:
			h = min(0x80+(master-256)*20/256, 0x93)
		default:
			h = (0xE9 + (master-512)*32/172) & 0xFF
		}
		t[cycle] = uint8(h)
	}
	return t
}()

// VDP is the Mode 4 video display processor.
type VDP struct {
	vram [vramSize]uint8
	cram [cramSize]uint8
	regs [16]uint8

	// palette caches the RGBA expansion of each CRAM entry.
	palette [cramSize]color.RGBA

	// Control port
	latched    bool
	latchByte  uint8
	addr       uint16
	code       uint8
	readBuffer uint8

	status        uint8
	vblankPending bool
	linePending   bool
	lineCounter   int

	line       int
	cycles     int
	totalLines int

	// vScroll is register 9 latched at the start of each frame.
	vScroll uint8

	framebuffer *image.RGBA

	// Scanline working buffers
	lineColor   [ScreenWidth]uint8
	bgPriority  [ScreenWidth]bool
	spriteDrawn [ScreenWidth]bool
}

// NewVDP creates a VDP configured for NTSC timing.
func NewVDP() *VDP {
	v := &VDP{
		framebuffer: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
		totalLines:  NTSCTiming.Scanlines,
	}
	v.Reset()
	return v
}

// SetRegion selects the number of lines per frame.
func (v *VDP) SetRegion(region Region) {
	v.totalLines = GetTimingForRegion(region).Scanlines
}

// Reset clears video memory, registers and all port state.
func (v *VDP) Reset() {
	clear(v.vram[:])
	clear(v.cram[:])
	clear(v.regs[:])
	for i := range v.palette {
		v.palette[i] = cramToColor(0)
	}
	v.latched = false
	v.latchByte = 0
	v.addr = 0
	v.code = 0
	v.readBuffer = 0
	v.status = 0
	v.vblankPending = false
	v.linePending = false
	v.lineCounter = 0xFF
	v.line = 0
	v.cycles = 0
	v.vScroll = 0
	clear(v.framebuffer.Pix)
}

// BeginFrame clears the framebuffer and rewinds the line timing.
func (v *VDP) BeginFrame() {
	clear(v.framebuffer.Pix)
	v.line = 0
	v.cycles = 0
	v.vScroll = v.regs[9]
}

// StepCpuCycles advances the VDP by n CPU cycles, finishing one scanline
// each time a full line's worth of cycles has accumulated.
func (v *VDP) StepCpuCycles(n int) {
	v.cycles += n
	for v.cycles >= CyclesPerLine {
		v.cycles -= CyclesPerLine
		v.endLine()
	}
}

func (v *VDP) endLine() {
	if v.line < ScreenHeight {
		v.renderScanline(v.line)
	}
	v.updateLineCounter()

	v.line++
	if v.line == ScreenHeight {
		v.status |= statusVBlank
		if v.regs[1]&0x20 != 0 {
			v.vblankPending = true
		}
	}
	if v.line >= v.totalLines {
		v.line = 0
		v.vScroll = v.regs[9]
	}
}

// updateLineCounter runs the register 10 down-counter. It counts on lines
// 0 through 192 and is reloaded on every other line.
func (v *VDP) updateLineCounter() {
	if v.line > ScreenHeight {
		v.lineCounter = int(v.regs[10])
		return
	}
	v.lineCounter--
	if v.lineCounter < 0 {
		v.lineCounter = int(v.regs[10])
		if v.regs[0]&0x10 != 0 {
			v.linePending = true
		}
	}
}

// GetInterruptPending reports whether the VDP is asserting its interrupt.
func (v *VDP) GetInterruptPending() bool {
	return v.vblankPending || v.linePending
}

// ClearInterrupts drops both pending interrupt sources.
func (v *VDP) ClearInterrupts() {
	v.vblankPending = false
	v.linePending = false
}

// ReadStatus returns the status register and clears it, along with the
// control latch and both pending interrupts.
func (v *VDP) ReadStatus() uint8 {
	s := v.status
	v.status = 0
	v.latched = false
	v.ClearInterrupts()
	return s
}

// WriteControl takes one byte of the two-byte control sequence.
func (v *VDP) WriteControl(value uint8) {
	if !v.latched {
		v.latchByte = value
		v.addr = v.addr&0x3F00 | uint16(value)
		v.latched = true
		return
	}
	v.latched = false
	v.addr = uint16(value&0x3F)<<8 | uint16(v.latchByte)
	v.code = value >> 6

	switch v.code {
	case codeVRAMRead:
		v.readBuffer = v.vram[v.addr]
		v.incAddr()
	case codeRegister:
		reg := int(value & 0x0F)
		if reg < len(v.regs) {
			v.regs[reg] = v.latchByte
		}
		// Enabling frame interrupts with the flag already set asserts at once.
		if reg == 1 && v.latchByte&0x20 != 0 && v.status&statusVBlank != 0 {
			v.vblankPending = true
		}
	}
}

// ReadData returns the read-ahead buffer and refills it from the current
// address.
func (v *VDP) ReadData() uint8 {
	v.latched = false
	data := v.readBuffer
	v.readBuffer = v.vram[v.addr]
	v.incAddr()
	return data
}

// WriteData stores a byte to CRAM when the command code selects it and to
// VRAM otherwise. The byte also lands in the read-ahead buffer.
func (v *VDP) WriteData(value uint8) {
	v.latched = false
	if v.code == codeCRAMWrite {
		i := v.addr & (cramSize - 1)
		v.cram[i] = value
		v.palette[i] = cramToColor(value)
	} else {
		v.vram[v.addr] = value
	}
	v.readBuffer = value
	v.incAddr()
}

func (v *VDP) incAddr() {
	v.addr = (v.addr + 1) & (vramSize - 1)
}

// ReadVCounter returns the 8-bit V counter. The raw line number does not
// fit in 8 bits, so the counter jumps back partway through blanking.
func (v *VDP) ReadVCounter() uint8 {
	if v.totalLines == PALTiming.Scanlines {
		if v.line <= 242 {
			return uint8(v.line)
		}
		return uint8(v.line - 57)
	}
	if v.line <= 218 {
		return uint8(v.line)
	}
	return uint8(v.line - 6)
}

// ReadHCounter returns the H counter for the current position in the line.
func (v *VDP) ReadHCounter() uint8 {
	return hCounterTable[v.cycles%CyclesPerLine]
}

// cramToColor expands a packed --BBGGRR entry to opaque RGBA.
func cramToColor(c uint8) color.RGBA {
	return color.RGBA{
		R: (c & 0x03) * 85,
		G: ((c >> 2) & 0x03) * 85,
		B: ((c >> 4) & 0x03) * 85,
		A: 0xFF,
	}
}

// Framebuffer returns the persistent 256x192 output image.
func (v *VDP) Framebuffer() *image.RGBA {
	return v.framebuffer
}

// GetFramebuffer returns raw RGBA pixel data for the current frame.
func (v *VDP) GetFramebuffer() []byte {
	return v.framebuffer.Pix
}

// GetStride returns the framebuffer row length in bytes.
func (v *VDP) GetStride() int {
	return v.framebuffer.Stride
}

func (v *VDP) VRAM() []uint8 { return v.vram[:] }
func (v *VDP) CRAM() []uint8 { return v.cram[:] }
func (v *VDP) Address() uint16 { return v.addr }
func (v *VDP) Code() uint8 { return v.code }
func (v *VDP) Latched() bool { return v.latched }
func (v *VDP) Line() int { return v.line }

// Status returns the status register without the read side effects.
func (v *VDP) Status() uint8 { return v.status }

// Register returns register n, or 0 when n is out of range.
func (v *VDP) Register(n int) uint8 {
	if n < 0 || n >= len(v.regs) {
		return 0
	}
	return v.regs[n]
}
