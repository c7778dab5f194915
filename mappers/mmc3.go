package mappers

import "github.com/embervale/nescore/cartridge"

// mmc3 implements the TxROM/MMC3 board: bank-register decode and update
// logic plus an A12-edge-clocked scanline IRQ counter, the feature that
// makes MMC3 boards able to raise a mid-frame interrupt tied to PPU
// rendering rather than a fixed CPU-cycle count.
type mmc3 struct {
	prgRAMReadWrite
	mem *cartridge.Memory

	bankSelect    uint8
	registers     [8]uint8
	prgRAMProtect uint8
	mirror        cartridge.Mirroring

	prgOffsets [4]int
	chrOffsets [8]int

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqPending bool
}

func newMMC3(mem *cartridge.Memory) *mmc3 {
	m := &mmc3{prgRAMReadWrite: prgRAMReadWrite{mem}, mem: mem, mirror: mem.Mirroring}
	m.updateBanks()
	return m
}

func (m *mmc3) ClockCPUCycle() {}

func (m *mmc3) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.readPRGRAM(addr)
	case addr >= 0x8000:
		bank := int((addr - 0x8000) / 0x2000)
		return m.mem.PRG[m.prgOffsets[bank]+int(addr-0x8000)%0x2000]
	}
	return 0xFF
}

func (m *mmc3) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		if m.prgRAMProtect&0x40 != 0 && m.prgRAMProtect&0x80 == 0 {
			m.writePRGRAM(addr, v)
		}
		return
	}
	if addr < 0x8000 {
		return
	}

	even := addr&1 == 0
	switch {
	case addr < 0xA000 && even:
		m.bankSelect = v
	case addr < 0xA000:
		m.registers[m.bankSelect&0x7] = v
	case addr < 0xC000 && even:
		m.mirror = cartridge.MirrorVertical
		if v&1 != 0 {
			m.mirror = cartridge.MirrorHorizontal
		}
	case addr < 0xC000:
		m.prgRAMProtect = v
	case addr < 0xE000 && even:
		m.irqLatch = v
	case addr < 0xE000:
		m.irqReload = true
	case even:
		m.irqEnabled = false
		m.irqPending = false
	default:
		m.irqEnabled = true
	}
	m.updateBanks()
}

func (m *mmc3) updateBanks() {
	prgBanks8k := max1(len(m.mem.PRG) / 8192)
	r6 := int(m.registers[6]) % prgBanks8k
	r7 := int(m.registers[7]) % prgBanks8k
	secondLast := (prgBanks8k - 2 + prgBanks8k) % prgBanks8k
	last := prgBanks8k - 1
	if m.bankSelect&0x40 == 0 {
		m.prgOffsets[0] = r6 * 8192
		m.prgOffsets[1] = r7 * 8192
		m.prgOffsets[2] = secondLast * 8192
		m.prgOffsets[3] = last * 8192
	} else {
		m.prgOffsets[0] = secondLast * 8192
		m.prgOffsets[1] = r7 * 8192
		m.prgOffsets[2] = r6 * 8192
		m.prgOffsets[3] = last * 8192
	}

	if len(m.mem.CHR) == 0 {
		return
	}
	chrBanks1k := max1(len(m.mem.CHR) / 1024)
	r := func(i int) int { return int(m.registers[i]) % chrBanks1k }
	if m.bankSelect&0x80 == 0 {
		m.chrOffsets[0] = (r(0) &^ 1) * 1024
		m.chrOffsets[1] = m.chrOffsets[0] + 1024
		m.chrOffsets[2] = (r(1) &^ 1) * 1024
		m.chrOffsets[3] = m.chrOffsets[2] + 1024
		m.chrOffsets[4] = r(2) * 1024
		m.chrOffsets[5] = r(3) * 1024
		m.chrOffsets[6] = r(4) * 1024
		m.chrOffsets[7] = r(5) * 1024
	} else {
		m.chrOffsets[4] = (r(0) &^ 1) * 1024
		m.chrOffsets[5] = m.chrOffsets[4] + 1024
		m.chrOffsets[6] = (r(1) &^ 1) * 1024
		m.chrOffsets[7] = m.chrOffsets[6] + 1024
		m.chrOffsets[0] = r(2) * 1024
		m.chrOffsets[1] = r(3) * 1024
		m.chrOffsets[2] = r(4) * 1024
		m.chrOffsets[3] = r(5) * 1024
	}
}

func (m *mmc3) PPURead(addr uint16) uint8 {
	if len(m.mem.CHR) == 0 {
		return 0
	}
	bank := int(addr / 0x400)
	return m.mem.CHR[m.chrOffsets[bank]+int(addr)%0x400]
}

func (m *mmc3) PPUWrite(addr uint16, v uint8) {
	if !m.mem.ChrIsRAM || len(m.mem.CHR) == 0 {
		return
	}
	bank := int(addr / 0x400)
	m.mem.CHR[m.chrOffsets[bank]+int(addr)%0x400] = v
}

func (m *mmc3) Mirroring() cartridge.Mirroring { return m.mirror }

// OnA12Edge clocks the scanline counter on filtered rising edges only
// (the filtering itself lives in the PPU/scheduler, so this only ever sees
// clean edges).
//
// The reload-to-0 edge case reproduces a known real-hardware deviation
// (see DESIGN.md decision #2): a reload of 0 clocks the "already zero"
// branch and fires the IRQ.
func (m *mmc3) OnA12Edge(rising bool) {
	if !rising {
		return
	}
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *mmc3) IRQLine() bool { return m.irqPending }
