package emu

import "testing"

const (
	testSAT         = 0x3F00
	testSpriteTiles = 0x2000
)

// makeSpriteVDP returns a display-enabled VDP with the sprite attribute
// table at 0x3F00 and sprite patterns at 0x2000. Pattern 1 is a solid
// color-1 block, pattern 2 a solid color-2 block. The sprite list is empty.
func makeSpriteVDP() *VDP {
	vdp := makeRenderVDP()
	writeReg(vdp, 5, 0xFF)
	writeReg(vdp, 6, 0xFF)
	writeCRAM(vdp, 17, 0x30)
	writeCRAM(vdp, 18, 0x03)
	for row := uint16(0); row < 8; row++ {
		writeVRAM(vdp, testSpriteTiles+1*32+row*4, 0xFF, 0x00, 0x00, 0x00)
		writeVRAM(vdp, testSpriteTiles+2*32+row*4, 0x00, 0xFF, 0x00, 0x00)
	}
	writeVRAM(vdp, testSAT, spriteTerminator)
	return vdp
}

// putSprite writes sprite i and terminates the list after it.
func putSprite(vdp *VDP, i int, x, y uint8, pattern uint8) {
	writeVRAM(vdp, testSAT+uint16(i), y, spriteTerminator)
	writeVRAM(vdp, testSAT+0x80+uint16(i)*2, x, pattern)
}

func TestSprite_Draw(t *testing.T) {
	vdp := makeSpriteVDP()
	putSprite(vdp, 0, 20, 9, 1)

	vdp.renderScanline(9)
	vdp.renderScanline(10)

	if got := pixelAt(vdp, 20, 9); got != testBlack {
		t.Errorf("sprite starts on the line after its Y: got %+v at line 9", got)
	}
	for x := 20; x < 28; x++ {
		if got := pixelAt(vdp, x, 10); got != testBlue {
			t.Errorf("x=%d: expected sprite color 17, got %+v", x, got)
		}
	}
	if got := pixelAt(vdp, 28, 10); got != testBlack {
		t.Errorf("sprite is 8 pixels wide: got %+v at x=28", got)
	}
}

func TestSprite_Terminator(t *testing.T) {
	vdp := makeSpriteVDP()
	putSprite(vdp, 1, 20, 9, 1)
	writeVRAM(vdp, testSAT, spriteTerminator)

	vdp.renderScanline(10)

	if got := pixelAt(vdp, 20, 10); got != testBlack {
		t.Errorf("sprites after the terminator must not draw: got %+v", got)
	}
}

func TestSprite_TransparentPixels(t *testing.T) {
	vdp := makeSpriteVDP()
	writeVRAM(vdp, testSpriteTiles+3*32, 0x0F, 0x00, 0x00, 0x00)
	setNameEntry(vdp, 0, 0, 1, 0)
	putSprite(vdp, 0, 0, 0xFF, 3)

	vdp.renderScanline(0)

	if got := pixelAt(vdp, 0, 0); got != testGreen {
		t.Errorf("transparent sprite pixel should show background: got %+v", got)
	}
	if got := pixelAt(vdp, 4, 0); got != testBlue {
		t.Errorf("opaque sprite pixel: got %+v", got)
	}
}

func TestSprite_FirstSpriteWins(t *testing.T) {
	vdp := makeSpriteVDP()
	putSprite(vdp, 0, 20, 9, 1)
	putSprite(vdp, 1, 24, 9, 2)

	vdp.renderScanline(10)

	if got := pixelAt(vdp, 24, 10); got != testBlue {
		t.Errorf("overlap should show sprite 0: got %+v", got)
	}
	if got := pixelAt(vdp, 30, 10); got != testRed {
		t.Errorf("non-overlapping part of sprite 1: got %+v", got)
	}
	if vdp.Status()&statusCollision == 0 {
		t.Error("overlapping opaque pixels should set the collision flag")
	}
}

func TestSprite_NoCollisionWhenApart(t *testing.T) {
	vdp := makeSpriteVDP()
	putSprite(vdp, 0, 20, 9, 1)
	putSprite(vdp, 1, 28, 9, 2)

	vdp.renderScanline(10)

	if vdp.Status()&statusCollision != 0 {
		t.Error("adjacent sprites must not collide")
	}
}

func TestSprite_Overflow(t *testing.T) {
	vdp := makeSpriteVDP()
	for i := 0; i < 8; i++ {
		putSprite(vdp, i, uint8(i*16), 9, 1)
	}

	vdp.renderScanline(10)
	if vdp.Status()&statusOverflow != 0 {
		t.Fatal("eight sprites must not overflow")
	}

	putSprite(vdp, 8, 200, 9, 2)
	vdp.renderScanline(10)

	if vdp.Status()&statusOverflow == 0 {
		t.Error("a ninth sprite should set the overflow flag")
	}
	if got := pixelAt(vdp, 200, 10); got == testRed {
		t.Error("the ninth sprite must not be drawn")
	}
}

func TestSprite_BackgroundPriority(t *testing.T) {
	vdp := makeSpriteVDP()
	setNameEntry(vdp, 0, 0, 1, tilePriority)
	putSprite(vdp, 0, 0, 0xFF, 1)

	vdp.renderScanline(0)

	if got := pixelAt(vdp, 0, 0); got != testGreen {
		t.Errorf("priority tile pixel should cover the sprite: got %+v", got)
	}
	if got := pixelAt(vdp, 1, 0); got != testBlue {
		t.Errorf("priority tile's color 0 pixel should not cover the sprite: got %+v", got)
	}
}

func TestSprite_ShiftLeft(t *testing.T) {
	vdp := makeSpriteVDP()
	writeReg(vdp, 0, 0x08)
	putSprite(vdp, 0, 4, 9, 1)

	vdp.renderScanline(10)

	if got := pixelAt(vdp, 0, 10); got != testBlue {
		t.Errorf("shifted sprite should reach x=0: got %+v", got)
	}
	if got := pixelAt(vdp, 4, 10); got != testBlack {
		t.Errorf("shifted sprite ends at x=3: got %+v at x=4", got)
	}
}

func TestSprite_RightEdgeClip(t *testing.T) {
	vdp := makeSpriteVDP()
	putSprite(vdp, 0, 252, 9, 1)

	vdp.renderScanline(10)

	if got := pixelAt(vdp, 255, 10); got != testBlue {
		t.Errorf("visible part at x=255: got %+v", got)
	}
	if got := pixelAt(vdp, 0, 10); got != testBlack {
		t.Errorf("sprites do not wrap horizontally: got %+v at x=0", got)
	}
}

func TestSprite_Zoom(t *testing.T) {
	vdp := makeSpriteVDP()
	writeReg(vdp, 1, 0x41)
	putSprite(vdp, 0, 20, 9, 1)

	vdp.renderScanline(25)

	if got := pixelAt(vdp, 35, 25); got != testBlue {
		t.Errorf("zoomed sprite is 16 pixels wide: got %+v at x=35", got)
	}
	if got := pixelAt(vdp, 36, 25); got != testBlack {
		t.Errorf("zoomed sprite ends at x=35: got %+v", got)
	}
}

func TestSprite_TallSprites(t *testing.T) {
	vdp := makeSpriteVDP()
	writeReg(vdp, 1, 0x42)
	// Pattern 3 uses the even pattern 2 for the top half and 3 for the bottom.
	writeVRAM(vdp, testSpriteTiles+3*32, 0xFF, 0x00, 0x00, 0x00)
	putSprite(vdp, 0, 20, 9, 3)

	vdp.renderScanline(10)
	vdp.renderScanline(18)

	if got := pixelAt(vdp, 20, 10); got != testRed {
		t.Errorf("top half should use pattern 2: got %+v", got)
	}
	if got := pixelAt(vdp, 20, 18); got != testBlue {
		t.Errorf("bottom half should use pattern 3: got %+v", got)
	}
}

func TestSprite_PartiallyAboveTop(t *testing.T) {
	vdp := makeSpriteVDP()
	putSprite(vdp, 0, 20, 0xFC, 1)

	vdp.renderScanline(4)
	vdp.renderScanline(5)

	if got := pixelAt(vdp, 20, 4); got != testBlue {
		t.Errorf("sprite at Y=0xFC covers lines 0-4: got %+v at line 4", got)
	}
	if got := pixelAt(vdp, 20, 5); got == testBlue {
		t.Error("sprite at Y=0xFC ends at line 4")
	}
}

func TestSprite_HiddenWhenDisplayOff(t *testing.T) {
	vdp := makeSpriteVDP()
	writeReg(vdp, 1, 0x00)
	putSprite(vdp, 0, 20, 9, 1)

	vdp.renderScanline(10)

	if got := pixelAt(vdp, 20, 10); got == testBlue {
		t.Error("sprites must not draw with the display disabled")
	}
	if vdp.Status() != 0 {
		t.Errorf("no sprite flags with the display disabled, got 0x%02X", vdp.Status())
	}
}
