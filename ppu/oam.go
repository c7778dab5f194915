package ppu

// spriteSlot is one entry of primary or secondary OAM as staged for
// rendering.
type spriteSlot struct {
	yPos       uint8
	tileIndex  uint8
	attributes uint8
	xPos       uint8
	id         uint8 // OAM index, 64 means "unused slot"

	lsb, msb uint8 // pattern bytes loaded at cycle 321
}

func reverseByte(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

// clearSecondaryOAM resets the secondary OAM to its power-up fill value of
// $FF, run at cycle 1 of every visible/pre-render scanline.
func (p *PPU) clearSecondaryOAM() {
	for i := range p.secOAM {
		p.secOAM[i] = spriteSlot{yPos: 0xFF, tileIndex: 0xFF, attributes: 0xFF, xPos: 0xFF, id: 64}
	}
}

// evaluateSprites scans primary OAM for sprites intersecting the *next*
// scanline and copies them into secondary OAM, setting the overflow flag on
// the ninth hit regardless of the sprite limit. This reproduces the
// documented behavior rather than the hardware's diagonal read-pointer
// overflow bug; see DESIGN.md.
//
// storeLimit is len(p.secOAM): 8 with the hardware's per-scanline sprite
// cap enabled (the default), 64 — enough for every sprite on the line —
// with SetSpriteLimit(false). Only the storage cap changes; a ninth
// matching sprite always raises SpriteOverflow, and evaluation only stops
// early once the cap is enforced, since with the cap lifted every further
// match still needs to be staged for rendering.
//
// It checks scanline+1, not scanline: cycle 257's evaluation and cycle
// 321's loadSprites both run during scanline N but stage sprites for
// scanline N+1's visible-cycle compositing. Comparing against the current
// scanline instead would be off by one row versus real hardware; see
// DESIGN.md.
func (p *PPU) evaluateSprites() {
	height := int(p.spriteHeight())
	target := p.scanline + 1
	storeLimit := len(p.secOAM)
	count := 0
	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4+0])
		if target >= y && target < y+height {
			if count < storeLimit {
				p.secOAM[count] = spriteSlot{
					yPos:       p.oam[i*4+0],
					tileIndex:  p.oam[i*4+1],
					attributes: p.oam[i*4+2],
					xPos:       p.oam[i*4+3],
					id:         uint8(i),
				}
			}
			count++
			if count == 9 {
				p.status |= statusSpriteOverflow
			}
			if p.spriteLimit && count > 8 {
				break
			}
		}
	}
}

// loadSprites fetches pattern data for every sprite staged in secondary OAM
// into primary (rendering) OAM, applying vertical/horizontal flips. Grounded
// on old_ppu.go's loadSprites, generalized to 8x16 sprites.
func (p *PPU) loadSprites() {
	height := int(p.spriteHeight())
	for i := range p.secOAM {
		s := p.secOAM[i]
		p.renderOAM[i] = s
		r := &p.renderOAM[i]
		if s.id == 64 {
			r.lsb, r.msb = 0, 0
			continue
		}

		var addr uint16
		if height == 16 {
			addr = (uint16(s.tileIndex&1) * 0x1000) + (uint16(s.tileIndex&^1) * 16)
		} else {
			addr = p.spritePatternTable() + uint16(s.tileIndex)*16
		}

		row := (p.scanline + 1 - int(s.yPos)) % height
		if s.attributes&0x80 != 0 { // vertical flip
			row ^= height - 1
		}
		addr += uint16(row) + uint16(row&8)

		r.lsb = p.bus.PPURead(addr)
		r.msb = p.bus.PPURead(addr + 8)
		p.trackA12(addr)

		if s.attributes&0x40 != 0 { // horizontal flip
			r.lsb = reverseByte(r.lsb)
			r.msb = reverseByte(r.msb)
		}
	}
}
