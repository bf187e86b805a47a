package emu

const (
	maxSprites        = 64
	maxSpritesPerLine = 8

	// spriteTerminator in the Y table ends the sprite list in 192-line mode.
	spriteTerminator = 0xD0
)

type lineSprite struct {
	x       int
	pattern uint16
	row     int
}

// renderSprites overlays up to eight sprites on lineColor. Earlier table
// entries win where sprites overlap. Opaque pixels of overlapping sprites
// set the collision flag, and a ninth sprite on the line sets overflow.
func (v *VDP) renderSprites(line int) {
	sat := uint16(v.regs[5]&0x7E) << 7
	patternBase := uint16(v.regs[6]&0x04) << 11

	height := 8
	if v.regs[1]&0x02 != 0 {
		height = 16
	}
	zoom := 0
	if v.regs[1]&0x01 != 0 {
		zoom = 1
	}
	shift := 0
	if v.regs[0]&0x08 != 0 {
		shift = 8
	}

	var found [maxSpritesPerLine]lineSprite
	n := 0
	for i := 0; i < maxSprites; i++ {
		y := int(v.vram[(sat+uint16(i))&(vramSize-1)])
		if y == spriteTerminator {
			break
		}
		top := y + 1
		if y >= 0xE0 {
			// Sprites partially above the top edge.
			top -= 256
		}
		if line < top || line >= top+height<<zoom {
			continue
		}
		if n == maxSpritesPerLine {
			v.status |= statusOverflow
			break
		}
		attr := sat + 0x80 + uint16(i)*2
		pattern := uint16(v.vram[(attr+1)&(vramSize-1)])
		if height == 16 {
			pattern &^= 1
		}
		found[n] = lineSprite{
			x:       int(v.vram[attr&(vramSize-1)]) - shift,
			pattern: pattern,
			row:     (line - top) >> zoom,
		}
		n++
	}

	clear(v.spriteDrawn[:])
	for _, s := range found[:n] {
		pattern := s.pattern
		row := s.row
		if row >= 8 {
			pattern++
			row -= 8
		}
		addr := patternBase + pattern*32 + uint16(row)*4

		for px := 0; px < 8<<zoom; px++ {
			x := s.x + px
			if x < 0 || x >= ScreenWidth {
				continue
			}
			idx := v.tilePixel(addr, uint8(px>>zoom))
			if idx == 0 {
				continue
			}
			if v.spriteDrawn[x] {
				v.status |= statusCollision
				continue
			}
			v.spriteDrawn[x] = true
			if v.bgPriority[x] {
				continue
			}
			v.lineColor[x] = 16 + idx
		}
	}
}
