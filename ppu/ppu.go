// Package ppu implements the 2C02: the per-dot background/sprite pixel
// pipeline, the eight CPU-visible registers, and a corrected CHR-address
// bit-12 edge detector used by MMC3-style scanline counters.
package ppu

import (
	"image/color"

	"github.com/embervale/nescore/cartridge"
)

// Bus is the CHR-space memory a PPU renders from: pattern tables through
// the cartridge mapper, nametables through this package's own internal
// VRAM (mirrored per the cartridge's Mirroring()).
type Bus interface {
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, val uint8)
	Mirroring() cartridge.Mirroring
	OnA12Edge(rising bool)
}

// NMILine is implemented by *cpu.CPU. Kept as a narrow interface, the same
// structural-typing trick cartridge.MapperFactory uses, so this package
// never imports cpu.
type NMILine interface {
	SetNMI(asserted bool)
}

// a12FilterCycles is the minimum number of consecutive CHR-bus accesses
// (pattern fetches and $2007 accesses below $2000, each one trackA12 call)
// made with bit 12 low before a subsequent rising edge is forwarded to the
// mapper. The count is of accesses, not of elapsed PPU cycles: dots with no
// CHR access do not advance it. Real MMC3 boards debounce address-bus
// glitching this way; a cycle==260/324 heuristic tied to the background
// pattern table select does not model the filter at all.
const a12FilterCycles = 8

// PPU is the 2C02 core.
type PPU struct {
	bus Bus
	nmi NMILine

	ctrl, mask, status uint8
	oamAddr            uint8
	v, t               loopy
	fineX              uint8
	writeToggle        bool
	vramBuffer         uint8
	openBus            uint8

	oam         [256]byte
	secOAM      []spriteSlot
	renderOAM   []spriteSlot
	spriteLimit bool

	nt            [4096]byte
	paletteRAM    [32]byte
	masterPalette [64]color.RGBA

	// frame holds a raw NES palette index (0-63) per pixel, per the
	// scheduler's palette-indexed framebuffer contract; a host maps these
	// through Palette() to RGB when presenting.
	frame [256 * 240]uint8

	cycle, scanline int
	frameOdd        bool
	nmiPrevious     bool

	// background shift pipeline, grounded on lib/ppu/ppu.go's rowShifter.
	nametableByte  uint8
	attributeByte  uint8
	patternLo      uint8
	patternHi      uint8
	rowShifter     uint64

	a12High    bool
	a12LowRun  int

	// region selects the scanline count and odd-frame skip behavior;
	// RegionNTSC (the zero value) is the default until SetRegion is called.
	region cartridge.Region

	// FrameReady is invoked once per frame, at the start of vblank, so a
	// host can present the just-finished frame before rendering resumes.
	FrameReady func()
}

// New builds a PPU wired to the given CHR bus and CPU NMI line, with the
// hardware's 8-sprites-per-scanline limit enabled by default.
func New(bus Bus, nmi NMILine) *PPU {
	p := &PPU{bus: bus, nmi: nmi, masterPalette: buildDefaultPalette()}
	p.scanline = -1
	p.SetSpriteLimit(true)
	return p
}

// SetSpriteLimit toggles the hardware's cap of 8 sprites staged per
// scanline. Disabling it grows secondary/render OAM to 64 entries, the
// worst case of every sprite overlapping one scanline, so none are dropped
// from rendering; SpriteOverflow status detection still latches on the
// ninth match either way; only the storage cap changes; see
// evaluateSprites.
func (p *PPU) SetSpriteLimit(limit bool) {
	p.spriteLimit = limit
	n := 8
	if !limit {
		n = 64
	}
	p.secOAM = make([]spriteSlot, n)
	p.renderOAM = make([]spriteSlot, n)
}

// SetRegion selects NTSC's 262-scanline frame with its odd-frame dot skip,
// or PAL's 312-scanline frame with no dot skip. Call before the first Tick;
// changing it mid-frame is not supported.
func (p *PPU) SetRegion(r cartridge.Region) { p.region = r }

// lastScanline is the pre-render line's predecessor: 260 for NTSC's 262
// total lines (-1..260), 310 for PAL's 312 (-1..310).
func (p *PPU) lastScanline() int {
	if p.region == cartridge.RegionPAL {
		return 310
	}
	return 260
}

// Reset returns the PPU to its power-up state.
func (p *PPU) Reset() {
	p.ctrl, p.mask = 0, 0
	p.writeToggle = false
	p.cycle, p.scanline = 0, -1
	p.frameOdd = false
}

// Frame returns the completed framebuffer of NES palette indices (0-63) in
// row-major, top-to-bottom order.
func (p *PPU) Frame() *[256 * 240]uint8 { return &p.frame }

// Palette returns the current master palette, used by a host to map the
// indices Frame returns to displayable RGB.
func (p *PPU) Palette() [64]color.RGBA { return p.masterPalette }

// oamRenderingGlitch reports whether $2004 access falls inside the OAM
// evaluation/sprite-fetch window (dots 1-64 clearing secondary OAM, dots
// 257-320 fetching sprite pattern data) of a visible or pre-render scanline
// with rendering enabled. In that window the real PPU exposes internal
// sprite-evaluation state instead of OAM through $2004; reads return 0xFF
// and writes only advance OAMADDR without storing anything.
func (p *PPU) oamRenderingGlitch() bool {
	if !p.renderingEnabled() {
		return false
	}
	activeLine := p.scanline == -1 || p.scanline < 240
	if !activeLine {
		return false
	}
	return (p.cycle >= 1 && p.cycle <= 64) || (p.cycle >= 257 && p.cycle <= 320)
}

// ReadRegister services a CPU read of $2000-$2007 (reg = addr & 7).
func (p *PPU) ReadRegister(reg uint8) uint8 {
	switch reg {
	case 2: // PPUSTATUS
		val := (p.status & 0xE0) | (p.openBus & 0x1F)
		p.status &^= statusVBlank
		p.writeToggle = false
		p.openBus = val
		return val
	case 4: // OAMDATA: reading does not advance OAMADDR on real hardware.
		if p.oamRenderingGlitch() {
			p.openBus = 0xFF
			return 0xFF
		}
		p.openBus = p.oam[p.oamAddr]
		return p.openBus
	case 7: // PPUDATA
		addr := uint16(p.v) & 0x3FFF
		val := p.busRead(addr)
		if addr < 0x3F00 {
			val, p.vramBuffer = p.vramBuffer, val
		} else {
			p.vramBuffer = p.busRead(addr - 0x1000)
		}
		p.v += loopy(p.vramAddrInc())
		p.openBus = val
		return val
	default: // write-only registers read back as open bus
		return p.openBus
	}
}

// WriteRegister services a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(reg uint8, val uint8) {
	p.openBus = val
	switch reg {
	case 0: // PPUCTRL
		// sampleNMI recomputes nmiOccurred&&nmiOutput every cycle, so
		// enabling NMI generation here while VBlank is already flagged
		// raises it on the very next Tick instead of waiting for the next
		// vblank edge; a fixed interruptDelay counter would never re-sample
		// after the initial vblank-start trigger.
		p.ctrl = val
		p.t.setNameTables(uint16(val))
	case 1: // PPUMASK
		p.mask = val
	case 3: // OAMADDR
		p.oamAddr = val
	case 4: // OAMDATA
		if p.oamRenderingGlitch() {
			p.oamAddr += 4
			return
		}
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.writeToggle {
			p.t.setCoarseX(uint16(val) >> 3)
			p.fineX = val & 0x7
			p.writeToggle = true
		} else {
			p.t.setFineY(uint16(val))
			p.t.setCoarseY(uint16(val) >> 3)
			p.writeToggle = false
		}
	case 6: // PPUADDR
		if !p.writeToggle {
			p.t.setMsb(val)
			p.writeToggle = true
		} else {
			p.t.setLsb(val)
			p.v = p.t
			p.writeToggle = false
		}
	case 7: // PPUDATA
		p.busWrite(uint16(p.v)&0x3FFF, val)
		p.v += loopy(p.vramAddrInc())
	}
}

// WriteOAMDMA is used by the scheduler's OAM DMA to copy a full page
// starting at the current OAMADDR, wrapping at 256 bytes.
func (p *PPU) WriteOAMDMA(page [256]byte) {
	for i := 0; i < 256; i++ {
		p.oam[uint8(int(p.oamAddr)+i)] = page[i]
	}
}

func (p *PPU) busRead(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		p.trackA12(addr)
		return p.bus.PPURead(addr)
	case addr < 0x3F00:
		return p.nt[p.mirrorNametable(addr)]
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) busWrite(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		p.trackA12(addr)
		p.bus.PPUWrite(addr, val)
	case addr < 0x3F00:
		p.nt[p.mirrorNametable(addr)] = val
	default:
		p.writePalette(addr, val)
	}
}

func (p *PPU) readPalette(addr uint16) uint8 {
	i := addr & 0x1F
	if i >= 16 && i%4 == 0 {
		i -= 16
	}
	val := p.paletteRAM[i]
	if p.greyscale() {
		val &= 0x30
	}
	return val
}

func (p *PPU) writePalette(addr uint16, val uint8) {
	i := addr & 0x1F
	if i >= 16 && i%4 == 0 {
		i -= 16
	}
	p.paletteRAM[i] = val & 0x3F
}

// mirrorNametable maps a $2000-$2FFF address onto one of the two physical
// 1KiB tables per the cartridge's mirroring mode. Single-screen and
// four-screen are both handled here (see DESIGN.md); four-screen falls
// back to an extra 2KiB of internal RAM rather than modeling cartridge-side
// VRAM.
func (p *PPU) mirrorNametable(addr uint16) uint16 {
	addr = (addr - 0x2000) % 0x1000
	table := addr / 0x400
	offset := addr % 0x400
	switch p.bus.Mirroring() {
	case cartridge.MirrorVertical:
		return (table%2)*0x400 + offset
	case cartridge.MirrorHorizontal:
		return (table/2)*0x400 + offset
	case cartridge.MirrorSingleScreenA:
		return offset
	case cartridge.MirrorSingleScreenB:
		return 0x400 + offset
	default: // four-screen
		return table*0x400 + offset
	}
}

// trackA12 implements the filtered rising-edge detector described above
// a12FilterCycles.
func (p *PPU) trackA12(addr uint16) {
	high := addr&0x1000 != 0
	if high {
		if !p.a12High && p.a12LowRun >= a12FilterCycles {
			p.bus.OnA12Edge(true)
		}
		p.a12High = true
		p.a12LowRun = 0
	} else {
		if p.a12High {
			p.bus.OnA12Edge(false)
		}
		p.a12High = false
		p.a12LowRun++
	}
}

// Tick advances the PPU by one PPU cycle (one dot). The scheduler calls
// this three times per CPU cycle on NTSC.
func (p *PPU) Tick() {
	p.exec()
	p.sampleNMI()
}

// sampleNMI reproduces the NMI-occurred/NMI-output edge combination from
// the NMI timing docs, using a model that also raises immediately when
// PPUCTRL enables NMI while VBlank is already flagged (see the comment in
// WriteRegister case 0) rather than a fixed interruptDelay counter.
func (p *PPU) sampleNMI() {
	now := p.status&statusVBlank != 0 && p.nmiOnVBlank()
	if now && !p.nmiPrevious {
		p.nmi.SetNMI(true)
	} else if !now {
		p.nmi.SetNMI(false)
	}
	p.nmiPrevious = now
}

func (p *PPU) updateShifter() { p.rowShifter <<= 4 }

func (p *PPU) buildBgPixelRow() {
	attr := (p.attributeByte & 0x3) << 2
	for i := uint(0); i < 8; i++ {
		pixel := uint64(attr | (p.patternHi>>6)&2 | (p.patternLo>>7)&1)
		p.rowShifter |= pixel << ((7 - i) * 4)
		p.patternHi <<= 1
		p.patternLo <<= 1
	}
}

func (p *PPU) bgPixel() uint8 {
	return uint8(p.rowShifter >> (32 + (7-uint(p.fineX))*4))
}

// exec runs the state machine for a single dot.
func (p *PPU) exec() {
	x := p.cycle - 1
	y := p.scanline

	var bgIndex, bgPalette, fgIndex, fgPalette uint8
	fgPriority := false
	fgIsSprite0 := false

	visibleFrame := y >= 0 && y < 240
	preRenderLn := y == -1
	vBlankLn := y == 241
	renderFrame := visibleFrame || preRenderLn
	copyVertCycle := p.cycle >= 280 && p.cycle <= 304
	copyHoriCycle := p.cycle == 257
	incVert := p.cycle == 256
	visibleCycle := p.cycle >= 1 && p.cycle <= 256
	bgTileFetch := visibleCycle || (p.cycle >= 321 && p.cycle <= 336)

	if p.renderingEnabled() {
		if renderFrame && bgTileFetch {
			if visibleFrame && visibleCycle && p.showBackground() {
				if p.showBackgroundLeft() || x > 7 {
					pix := p.bgPixel()
					bgIndex = pix & 0x3
					bgPalette = (pix >> 2) & 0x3
				}
			}

			p.updateShifter()
			switch p.cycle % 8 {
			case 1:
				p.nametableByte = p.busRead(0x2000 | (uint16(p.v) & 0x0FFF))
			case 3:
				vv := 0x2000 | 0x03C0 | (p.v.nameTables() << 10) | ((p.v.coarseY() >> 2) << 3) | (p.v.coarseX() >> 2)
				p.attributeByte = p.busRead(vv)
				if p.v.coarseY()&0x02 != 0 {
					p.attributeByte >>= 4
				}
				if p.v.coarseX()&0x02 != 0 {
					p.attributeByte >>= 2
				}
			case 5:
				addr := p.backgroundPatternTable() | uint16(p.nametableByte)<<4 | p.v.fineY()
				p.patternLo = p.busRead(addr)
			case 7:
				addr := p.backgroundPatternTable() | uint16(p.nametableByte)<<4 | p.v.fineY() | 8
				p.patternHi = p.busRead(addr)
			case 0:
				p.buildBgPixelRow()
				if p.v.coarseX() == 31 {
					p.v.setCoarseX(0)
					p.v.flipNameTableH()
				} else {
					p.v.setCoarseX(p.v.coarseX() + 1)
				}
			}
		}

		if renderFrame {
			if incVert {
				fy := p.v.fineY()
				if fy < 7 {
					p.v.setFineY(fy + 1)
				} else {
					p.v.setFineY(0)
					cy := p.v.coarseY()
					switch cy {
					case 29:
						cy = 0
						p.v.flipNameTableV()
					case 31:
						cy = 0
					default:
						cy++
					}
					p.v.setCoarseY(cy)
				}
			}
			if copyHoriCycle {
				p.v.copyHori(p.t)
			}
		}
		if preRenderLn && copyVertCycle {
			p.v.copyVert(p.t)
		}
	}

	if renderFrame && p.showSprites() {
		switch p.cycle {
		case 1:
			p.clearSecondaryOAM()
		case 257:
			p.evaluateSprites()
		case 321:
			p.loadSprites()
		}

		if visibleFrame && visibleCycle {
			for i := 0; i < len(p.renderOAM); i++ {
				s := &p.renderOAM[i]
				if s.id == 64 {
					continue
				}
				xi := x - int(s.xPos)
				if xi < 0 || xi >= 8 {
					continue
				}
				if !p.showSpritesLeft() && x <= 7 {
					continue
				}
				bit := uint(7 - xi)
				b0 := (s.lsb >> bit) & 1
				b1 := (s.msb >> bit) & 1
				idx := b0 | (b1 << 1)
				if idx == 0 {
					continue
				}
				fgIndex = idx
				fgPalette = s.attributes & 0x3
				fgPriority = s.attributes&0x20 == 0
				fgIsSprite0 = s.id == 0
				break
			}
			if fgIsSprite0 && bgIndex != 0 && fgIndex != 0 && x != 255 {
				p.status |= statusSprite0Hit
			}
		}
	}

	if visibleFrame && visibleCycle {
		var idx uint8
		switch {
		case bgIndex == 0 && fgIndex == 0:
			idx = p.readPalette(0x3F00)
		case fgIndex == 0:
			idx = p.readPalette(0x3F00 + uint16(bgPalette)*4 + uint16(bgIndex))
		case bgIndex == 0:
			idx = p.readPalette(0x3F00 + uint16(fgPalette+4)*4 + uint16(fgIndex))
		case fgPriority:
			idx = p.readPalette(0x3F00 + uint16(fgPalette+4)*4 + uint16(fgIndex))
		default:
			idx = p.readPalette(0x3F00 + uint16(bgPalette)*4 + uint16(bgIndex))
		}
		p.frame[y*256+x] = idx
	}

	p.cycle++
	if p.cycle > 340 {
		finishingPreRender := p.scanline == -1
		p.scanline++
		p.cycle = 0
		if p.scanline > p.lastScanline() {
			p.scanline = -1
		}
		if finishingPreRender {
			// Odd-frame dot skip: the pre-render line's last dot is
			// dropped when rendering is enabled, so scanline 0 starts one
			// cycle early every other frame. PAL has no such skip; its
			// extra scanlines already give it a clean division into the
			// host's frame rate.
			p.frameOdd = !p.frameOdd
			if p.frameOdd && p.region == cartridge.RegionNTSC && p.renderingEnabled() {
				p.cycle = 1
			}
		}
	} else if p.cycle == 1 {
		switch {
		case vBlankLn:
			p.status |= statusVBlank
			if p.FrameReady != nil {
				p.FrameReady()
			}
		case preRenderLn:
			p.status &^= statusVBlank | statusSprite0Hit | statusSpriteOverflow
		}
	}
}
