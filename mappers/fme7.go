package mappers

import "github.com/embervale/nescore/cartridge"

// fme7 implements Sunsoft's FME-7 / 5A/5B boards (mapper 69): an
// address/data register pair selects one of sixteen internal registers
// covering eight 1 KiB CHR windows, an 8 KiB window at 0x6000 holding
// either a PRG ROM bank or PRG RAM, three switchable 8 KiB PRG windows at
// 0x8000-0xDFFF plus a fixed last bank, a CPU-
// cycle down-counting IRQ, and independent mirroring select. The 5B variant
// adds three extra square-wave channels; only the banking/IRQ half is
// modeled here, matching the scope of the mapper-layer ExpansionAudio
// interface used elsewhere (see vrc6.go/vrc7.go for the pattern this
// would extend to if a 5B title needed it).
type fme7 struct {
	mem *cartridge.Memory

	addrReg uint8

	chrBanks [8]uint8
	prgBanks [4]uint8 // 0-3 are the $6000/$8000/$A000/$C000 windows; the fixed last bank at $E000 is not stored
	prgRAMEnabled bool
	prgRAMSelected bool
	mirror   cartridge.Mirroring

	irqEnabled bool
	irqCounterEnabled bool
	irqCounter uint16
	irqPending bool
}

func newFME7(mem *cartridge.Memory) *fme7 {
	return &fme7{mem: mem, mirror: mem.Mirroring}
}

func (m *fme7) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMSelected {
			if !m.prgRAMEnabled || len(m.mem.PRGRAM) == 0 {
				return 0xFF
			}
			return m.mem.PRGRAM[int(addr-0x6000)%len(m.mem.PRGRAM)]
		}
		n := max1(len(m.mem.PRG) / 8192)
		return m.mem.PRG[int(m.prgBanks[0])%n*8192+int(addr-0x6000)]
	case addr >= 0x8000 && addr < 0xA000:
		n := max1(len(m.mem.PRG) / 8192)
		return m.mem.PRG[int(m.prgBanks[1])%n*8192+int(addr-0x8000)]
	case addr >= 0xA000 && addr < 0xC000:
		n := max1(len(m.mem.PRG) / 8192)
		return m.mem.PRG[int(m.prgBanks[2])%n*8192+int(addr-0xA000)]
	case addr >= 0xC000 && addr < 0xE000:
		n := max1(len(m.mem.PRG) / 8192)
		return m.mem.PRG[int(m.prgBanks[3])%n*8192+int(addr-0xC000)]
	case addr >= 0xE000:
		n := max1(len(m.mem.PRG) / 8192)
		return m.mem.PRG[(n-1)*8192+int(addr-0xE000)]
	}
	return 0xFF
}

func (m *fme7) CPUWrite(addr uint16, val uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000 && m.prgRAMSelected:
		if m.prgRAMEnabled && len(m.mem.PRGRAM) > 0 {
			m.mem.PRGRAM[int(addr-0x6000)%len(m.mem.PRGRAM)] = val
		}
	case addr >= 0x8000 && addr < 0xA000:
		m.addrReg = val & 0x0F
	case addr >= 0xA000 && addr < 0xC000:
		m.writeRegister(val)
	}
}

func (m *fme7) writeRegister(v uint8) {
	switch {
	case m.addrReg <= 0x07:
		m.chrBanks[m.addrReg] = v
	case m.addrReg == 0x08:
		m.prgRAMSelected = v&0x40 != 0
		m.prgRAMEnabled = v&0x80 != 0
		m.prgBanks[0] = v & 0x3F
	case m.addrReg <= 0x0B:
		m.prgBanks[m.addrReg-0x08] = v & 0x3F
	case m.addrReg == 0x0C:
		switch v & 0x3 {
		case 0:
			m.mirror = cartridge.MirrorVertical
		case 1:
			m.mirror = cartridge.MirrorHorizontal
		case 2:
			m.mirror = cartridge.MirrorSingleScreenA
		case 3:
			m.mirror = cartridge.MirrorSingleScreenB
		}
	case m.addrReg == 0x0D:
		m.irqEnabled = v&1 != 0
		m.irqCounterEnabled = v&0x80 != 0
		m.irqPending = false
	case m.addrReg == 0x0E:
		m.irqCounter = (m.irqCounter &^ 0x00FF) | uint16(v)
	case m.addrReg == 0x0F:
		m.irqCounter = (m.irqCounter &^ 0xFF00) | (uint16(v) << 8)
	}
}

func (m *fme7) ClockCPUCycle() {
	if !m.irqCounterEnabled {
		return
	}
	m.irqCounter--
	if m.irqCounter == 0xFFFF && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *fme7) PPURead(addr uint16) uint8 {
	if len(m.mem.CHR) == 0 {
		return 0
	}
	n := max1(len(m.mem.CHR) / 1024)
	bank := int(addr / 0x400)
	return m.mem.CHR[int(m.chrBanks[bank])%n*1024+int(addr)%0x400]
}

func (m *fme7) PPUWrite(addr uint16, val uint8) {
	if !m.mem.ChrIsRAM || len(m.mem.CHR) == 0 {
		return
	}
	n := max1(len(m.mem.CHR) / 1024)
	bank := int(addr / 0x400)
	m.mem.CHR[int(m.chrBanks[bank])%n*1024+int(addr)%0x400] = val
}

func (m *fme7) OnA12Edge(bool)               {}
func (m *fme7) IRQLine() bool                { return m.irqPending }
func (m *fme7) Mirroring() cartridge.Mirroring { return m.mirror }
func (m *fme7) PRGRAM() []byte               { return m.mem.PRGRAM }
