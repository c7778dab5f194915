package mappers

import "github.com/embervale/nescore/cartridge"

// mmc1 implements the SxROM/MMC1 board: a 5-bit serial shift register
// loaded one bit per CPU write, selecting PRG/CHR bank mode and mirroring.
// It also enforces the same-CPU-cycle consecutive-write suppression rule
// real MMC1 boards apply: two writes landing on the same CPU cycle (as
// happens with certain RMW instructions) only take the first one's data,
// which requires tracking CPU cycle count that a bank-math-only model
// wouldn't otherwise need.
type mmc1 struct {
	prgRAMReadWrite
	noIRQ
	mem *cartridge.Memory

	shift   uint8
	counter uint8

	control  uint8
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	mirror      cartridge.Mirroring
	prgBankMode uint8
	chrBankMode uint8

	prgOffsets [2]int
	chrOffsets [2]int

	// lastWriteCycle suppresses the second of two writes landing on the
	// same CPU cycle (some games' RMW instructions on $8000-$FFFF would
	// otherwise corrupt the shift register).
	cycle          uint64
	lastWriteCycle uint64
	haveLastWrite  bool
}

func newMMC1(mem *cartridge.Memory) *mmc1 {
	m := &mmc1{prgRAMReadWrite: prgRAMReadWrite{mem}, mem: mem, mirror: mem.Mirroring, control: 0x0C}
	m.updateBanks()
	return m
}

func (m *mmc1) ClockCPUCycle() { m.cycle++ }

func (m *mmc1) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.readPRGRAM(addr)
	case addr >= 0x8000 && addr < 0xC000:
		return m.mem.PRG[m.prgOffsets[0]+int(addr-0x8000)]
	case addr >= 0xC000:
		return m.mem.PRG[m.prgOffsets[1]+int(addr-0xC000)]
	}
	return 0xFF
}

func (m *mmc1) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.writePRGRAM(addr, v)
		return
	}
	if addr < 0x8000 {
		return
	}

	if m.haveLastWrite && m.cycle == m.lastWriteCycle {
		// Consecutive writes within the same CPU cycle (e.g. an
		// unofficial RMW addressing mode) only the first is honored.
		return
	}
	m.lastWriteCycle = m.cycle
	m.haveLastWrite = true

	if v&0x80 != 0 {
		m.shift = 0
		m.counter = 0
		m.control |= 0x0C
		m.updateBanks()
		return
	}

	m.shift |= (v & 1) << m.counter
	m.counter++
	if m.counter == 5 {
		m.writeRegister(addr, m.shift)
		m.shift = 0
		m.counter = 0
	}
}

func (m *mmc1) writeRegister(addr uint16, v uint8) {
	switch {
	case addr < 0xA000:
		m.control = v
		switch v & 0x3 {
		case 0:
			m.mirror = cartridge.MirrorSingleScreenA
		case 1:
			m.mirror = cartridge.MirrorSingleScreenB
		case 2:
			m.mirror = cartridge.MirrorVertical
		case 3:
			m.mirror = cartridge.MirrorHorizontal
		}
		m.prgBankMode = (v >> 2) & 0x3
		m.chrBankMode = v >> 4
	case addr < 0xC000:
		m.chrBank0 = v & 0x1F
	case addr < 0xE000:
		m.chrBank1 = v & 0x1F
	default:
		m.prgBank = v & 0x1F
	}
	m.updateBanks()
}

func (m *mmc1) updateBanks() {
	prgBanks16k := max1(len(m.mem.PRG) / 16384)
	switch m.prgBankMode {
	case 0, 1:
		bank := int(m.prgBank>>1) % max1(prgBanks16k/2)
		m.prgOffsets[0] = bank * 32768
		m.prgOffsets[1] = bank*32768 + 16384
	case 2:
		m.prgOffsets[0] = 0
		m.prgOffsets[1] = int(m.prgBank%uint8(prgBanks16k)) * 16384
	case 3:
		m.prgOffsets[0] = int(m.prgBank%uint8(prgBanks16k)) * 16384
		m.prgOffsets[1] = (prgBanks16k - 1) * 16384
	}

	if len(m.mem.CHR) == 0 {
		return
	}
	chrBanks4k := max1(len(m.mem.CHR) / 4096)
	switch m.chrBankMode {
	case 0:
		bank := int(m.chrBank0>>1) % max1(chrBanks4k/2)
		m.chrOffsets[0] = bank * 8192
		m.chrOffsets[1] = bank*8192 + 4096
	case 1:
		m.chrOffsets[0] = int(m.chrBank0) % chrBanks4k * 4096
		m.chrOffsets[1] = int(m.chrBank1) % chrBanks4k * 4096
	}
}

func (m *mmc1) PPURead(addr uint16) uint8 {
	if len(m.mem.CHR) == 0 {
		return 0
	}
	if addr < 0x1000 {
		return m.mem.CHR[m.chrOffsets[0]+int(addr)]
	}
	return m.mem.CHR[m.chrOffsets[1]+int(addr-0x1000)]
}

func (m *mmc1) PPUWrite(addr uint16, v uint8) {
	if !m.mem.ChrIsRAM || len(m.mem.CHR) == 0 {
		return
	}
	if addr < 0x1000 {
		m.mem.CHR[m.chrOffsets[0]+int(addr)] = v
	} else {
		m.mem.CHR[m.chrOffsets[1]+int(addr-0x1000)] = v
	}
}

func (m *mmc1) Mirroring() cartridge.Mirroring { return m.mirror }
