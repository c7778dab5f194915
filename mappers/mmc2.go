package mappers

import "github.com/embervale/nescore/cartridge"

// mmc2mmc4 implements both PxROM/MMC2 (Punch-Out!!) and FxROM/MMC4: two
// CHR banks each switchable between two register values, the choice
// latched by which of two "trigger" tiles ($FD/$FE) the PPU last fetched
// from that half of pattern-table space. MMC2 fixes PRG to one switchable
// 8 KiB window plus three fixed banks; MMC4 uses the UxROM-style single
// switchable 16 KiB window plus a fixed last bank.
type mmc2mmc4 struct {
	prgRAMReadWrite
	noIRQ
	mem    *cartridge.Memory
	mmc4   bool
	mirror cartridge.Mirroring

	prgBank uint8

	chrBank0FD, chrBank0FE uint8
	chrBank1FD, chrBank1FE uint8
	latch0, latch1         bool // false selects FD variant, true selects FE
}

func newMMC2(mem *cartridge.Memory) *mmc2mmc4 {
	return &mmc2mmc4{prgRAMReadWrite: prgRAMReadWrite{mem}, mem: mem, mirror: mem.Mirroring}
}
func newMMC4(mem *cartridge.Memory) *mmc2mmc4 {
	return &mmc2mmc4{prgRAMReadWrite: prgRAMReadWrite{mem}, mem: mem, mirror: mem.Mirroring, mmc4: true}
}

func (m *mmc2mmc4) prgBanks8k() int { return max1(len(m.mem.PRG) / 8192) }

func (m *mmc2mmc4) CPURead(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return m.readPRGRAM(addr)
	}
	if addr < 0x8000 {
		return 0xFF
	}
	if m.mmc4 {
		banks16k := max1(len(m.mem.PRG) / 16384)
		if addr < 0xC000 {
			return m.mem.PRG[int(m.prgBank)%banks16k*16384+int(addr-0x8000)]
		}
		return m.mem.PRG[(banks16k-1)*16384+int(addr-0xC000)]
	}
	n := m.prgBanks8k()
	switch {
	case addr < 0xA000:
		return m.mem.PRG[int(m.prgBank)%n*8192+int(addr-0x8000)]
	case addr < 0xC000:
		return m.mem.PRG[(n-3+n)%n*8192+int(addr-0xA000)]
	case addr < 0xE000:
		return m.mem.PRG[(n-2+n)%n*8192+int(addr-0xC000)]
	default:
		return m.mem.PRG[(n-1)*8192+int(addr-0xE000)]
	}
}

func (m *mmc2mmc4) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.writePRGRAM(addr, v)
	case addr >= 0xA000 && addr < 0xB000:
		m.prgBank = v & 0x0F
	case addr >= 0xB000 && addr < 0xC000:
		m.chrBank0FD = v & 0x1F
	case addr >= 0xC000 && addr < 0xD000:
		m.chrBank0FE = v & 0x1F
	case addr >= 0xD000 && addr < 0xE000:
		m.chrBank1FD = v & 0x1F
	case addr >= 0xE000 && addr < 0xF000:
		m.chrBank1FE = v & 0x1F
	case addr >= 0xF000:
		m.mirror = cartridge.MirrorVertical
		if v&1 != 0 {
			m.mirror = cartridge.MirrorHorizontal
		}
	}
}

func (m *mmc2mmc4) PPURead(addr uint16) uint8 {
	if len(m.mem.CHR) == 0 {
		return 0
	}
	n := max1(len(m.mem.CHR) / 4096)
	var bank uint8
	if addr < 0x1000 {
		if m.latch0 {
			bank = m.chrBank0FE
		} else {
			bank = m.chrBank0FD
		}
	} else {
		if m.latch1 {
			bank = m.chrBank1FE
		} else {
			bank = m.chrBank1FD
		}
	}
	v := m.mem.CHR[int(bank)%n*4096+int(addr)%4096]
	m.updateLatch(addr)
	return v
}

func (m *mmc2mmc4) updateLatch(addr uint16) {
	switch addr {
	case 0x0FD8:
		m.latch0 = false
	case 0x0FE8:
		m.latch0 = true
	case 0x1FD8, 0x1FD9, 0x1FDA, 0x1FDB, 0x1FDC, 0x1FDD, 0x1FDE, 0x1FDF:
		m.latch1 = false
	case 0x1FE8, 0x1FE9, 0x1FEA, 0x1FEB, 0x1FEC, 0x1FED, 0x1FEE, 0x1FEF:
		m.latch1 = true
	}
}

func (m *mmc2mmc4) PPUWrite(uint16, uint8) {}

func (m *mmc2mmc4) Mirroring() cartridge.Mirroring { return m.mirror }
