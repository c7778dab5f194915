package mappers

import "github.com/embervale/nescore/cartridge"

// namco108 implements the Namco 108/129/163-adjacent thin discrete boards
// grouped under mappers 88, 95, 154, 206 (and the near-identical NAMCOT-
// 3425/3446/3453 boards) — an address/data bank-select register pair
// selecting 2 KiB CHR windows and 8 KiB PRG windows, structurally the same
// register file as MMC3 minus the IRQ counter and PRG-RAM protect bits.
// mapperNum only changes the mirroring source: 88/154 take single-screen
// A/B from bit 6 of any write at $A000 and up, while the other boards keep
// the header's mirroring. The CHR layout is the same for every mapperNum.
type namco108 struct {
	prgRAMReadWrite
	noIRQ
	mem       *cartridge.Memory
	mapperNum uint16

	bankSelect uint8
	registers  [8]uint8
	mirror     cartridge.Mirroring

	prgOffsets [4]int
	chrOffsets [8]int
}

func newNamco108(mem *cartridge.Memory, mapperNum uint16) *namco108 {
	n := &namco108{prgRAMReadWrite: prgRAMReadWrite{mem}, mem: mem, mapperNum: mapperNum, mirror: mem.Mirroring}
	n.updateBanks()
	return n
}

func (m *namco108) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.readPRGRAM(addr)
	case addr >= 0x8000:
		bank := int((addr - 0x8000) / 0x2000)
		return m.mem.PRG[m.prgOffsets[bank]+int(addr-0x8000)%0x2000]
	}
	return 0xFF
}

func (m *namco108) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.writePRGRAM(addr, v)
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
	case m.mapperNum == 88 || m.mapperNum == 154:
		if v&0x40 != 0 {
			m.mirror = cartridge.MirrorSingleScreenB
		} else {
			m.mirror = cartridge.MirrorSingleScreenA
		}
	}
	m.updateBanks()
}

func (m *namco108) updateBanks() {
	prgBanks8k := max1(len(m.mem.PRG) / 8192)
	r6 := int(m.registers[6]) % prgBanks8k
	r7 := int(m.registers[7]) % prgBanks8k
	m.prgOffsets[0] = r6 * 8192
	m.prgOffsets[1] = r7 * 8192
	m.prgOffsets[2] = (prgBanks8k - 2 + prgBanks8k) % prgBanks8k * 8192
	m.prgOffsets[3] = (prgBanks8k - 1) * 8192

	if len(m.mem.CHR) == 0 {
		return
	}
	chrBanks1k := max1(len(m.mem.CHR) / 1024)
	r := func(i int) int { return int(m.registers[i]) % chrBanks1k }
	m.chrOffsets[0] = (r(0) &^ 1) * 1024
	m.chrOffsets[1] = m.chrOffsets[0] + 1024
	m.chrOffsets[2] = (r(1) &^ 1) * 1024
	m.chrOffsets[3] = m.chrOffsets[2] + 1024
	for i := 2; i < 6; i++ {
		m.chrOffsets[i+2] = r(i) * 1024
	}
}

func (m *namco108) PPURead(addr uint16) uint8 {
	if len(m.mem.CHR) == 0 {
		return 0
	}
	bank := int(addr / 0x400)
	if bank > 7 {
		bank = 7
	}
	return m.mem.CHR[m.chrOffsets[bank]+int(addr)%0x400]
}

func (m *namco108) PPUWrite(addr uint16, v uint8) {
	if !m.mem.ChrIsRAM || len(m.mem.CHR) == 0 {
		return
	}
	bank := int(addr / 0x400)
	if bank > 7 {
		bank = 7
	}
	m.mem.CHR[m.chrOffsets[bank]+int(addr)%0x400] = v
}

func (m *namco108) Mirroring() cartridge.Mirroring { return m.mirror }

// namco175 implements the discrete Namco 175/340 boards (essentially
// Namco 108 without the mirroring-select register — mirroring is fixed by
// the solder pads/header bit instead) — sharing all banking logic with
// namco108 through a thin wrapper that stubs out the mirroring write.
type namco175 struct {
	*namco108
}

func newNamco175(mem *cartridge.Memory) *namco175 {
	return &namco175{namco108: newNamco108(mem, 175)}
}

func (m *namco175) CPUWrite(addr uint16, v uint8) {
	if addr >= 0xA000 && addr < 0xC000 {
		return // fixed mirroring: ignore board's would-be mirroring register
	}
	m.namco108.CPUWrite(addr, v)
}

// namco163 implements the Namco 163 board (Erika/King of Kings, Family
// Circuit): 8 KiB PRG windows, 1 KiB CHR/nametable windows with internal
// 128-byte sound RAM shared by an 8-channel wavetable synthesizer, and an
// IRQ counter clocked once per CPU cycle. Expansion audio is exposed
// through cartridge.ExpansionAudio; the real chip's time-division
// synthesis is approximated here as an average over the active channels.
type namco163 struct {
	mem *cartridge.Memory

	prgBanks [3]uint8
	chrBanks [12]uint8
	mirror   cartridge.Mirroring

	soundRAM   [128]byte
	soundAddr  uint8
	soundAutoInc bool

	irqEnabled bool
	irqCounter uint16
	irqPending bool
}

func newNamco163(mem *cartridge.Memory) *namco163 {
	return &namco163{mem: mem, mirror: mem.Mirroring}
}

func (m *namco163) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x4800 && addr < 0x5000:
		return m.soundRAM[m.soundAddr&0x7F]
	case addr >= 0x5000 && addr < 0x5800:
		return uint8(m.irqCounter)
	case addr >= 0x5800 && addr < 0x6000:
		v := uint8(m.irqCounter >> 8)
		if m.irqPending {
			v |= 0x80
		}
		return v
	case addr >= 0x6000 && addr < 0x8000:
		if len(m.mem.PRGRAM) == 0 {
			return 0xFF
		}
		return m.mem.PRGRAM[int(addr-0x6000)%len(m.mem.PRGRAM)]
	case addr >= 0x8000:
		n := max1(len(m.mem.PRG) / 8192)
		bank := int((addr - 0x8000) / 0x2000)
		if bank == 3 {
			return m.mem.PRG[(n-1)*8192+int(addr-0xE000)]
		}
		return m.mem.PRG[int(m.prgBanks[bank])%n*8192+int(addr)%0x2000]
	}
	return 0xFF
}

func (m *namco163) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x4800 && addr < 0x5000:
		m.soundRAM[m.soundAddr&0x7F] = v
		if m.soundAutoInc {
			m.soundAddr = (m.soundAddr + 1) & 0x7F
		}
	case addr >= 0x5000 && addr < 0x5800:
		m.irqCounter = (m.irqCounter &^ 0x00FF) | uint16(v)
		m.irqPending = false
	case addr >= 0x5800 && addr < 0x6000:
		m.irqCounter = (m.irqCounter &^ 0x7F00) | (uint16(v&0x7F) << 8)
		m.irqEnabled = v&0x80 != 0
		m.irqPending = false
	case addr >= 0x6000 && addr < 0x8000:
		if len(m.mem.PRGRAM) > 0 {
			m.mem.PRGRAM[int(addr-0x6000)%len(m.mem.PRGRAM)] = v
		}
	case addr >= 0x8000 && addr < 0xC000:
		m.chrBanks[(addr-0x8000)/0x800] = v
	case addr >= 0xC000 && addr < 0xE000:
		m.chrBanks[8+(addr-0xC000)/0x800] = v
	case addr >= 0xE000 && addr < 0xE800:
		m.prgBanks[0] = v & 0x3F
	case addr >= 0xE800 && addr < 0xF000:
		m.prgBanks[1] = v & 0x3F
		switch v >> 6 {
		case 0:
			m.mirror = cartridge.MirrorSingleScreenA
		case 1, 2:
			m.mirror = cartridge.MirrorVertical
		case 3:
			m.mirror = cartridge.MirrorHorizontal
		}
	case addr >= 0xF000 && addr < 0xF800:
		m.prgBanks[2] = v & 0x3F
	case addr >= 0xF800:
		m.soundAddr = v & 0x7F
		m.soundAutoInc = v&0x80 != 0
	}
}

func (m *namco163) ClockCPUCycle() {
	if !m.irqEnabled {
		return
	}
	if m.irqCounter < 0x7FFF {
		m.irqCounter++
		if m.irqCounter == 0x7FFF {
			m.irqPending = true
		}
	}
}

func (m *namco163) PPURead(addr uint16) uint8 {
	if len(m.mem.CHR) == 0 {
		return 0
	}
	n := max1(len(m.mem.CHR) / 1024)
	bank := int(addr / 0x400)
	return m.mem.CHR[int(m.chrBanks[bank])%n*1024+int(addr)%0x400]
}

func (m *namco163) PPUWrite(addr uint16, val uint8) {
	if !m.mem.ChrIsRAM || len(m.mem.CHR) == 0 {
		return
	}
	n := max1(len(m.mem.CHR) / 1024)
	bank := int(addr / 0x400)
	m.mem.CHR[int(m.chrBanks[bank])%n*1024+int(addr)%0x400] = val
}

func (m *namco163) OnA12Edge(bool)               {}
func (m *namco163) IRQLine() bool                { return m.irqPending }
func (m *namco163) Mirroring() cartridge.Mirroring { return m.mirror }

// Sample implements cartridge.ExpansionAudio by averaging the 4-bit
// volumes of the up-to-8 active channels, read directly from sound RAM:
// the active-channel count from byte $7F, each channel's volume from its
// 8-byte block at $40+8n. Frequency, phase and the wavetable samples are
// not read, so each active channel contributes a constant level rather
// than a waveform.
func (m *namco163) Sample() float64 {
	total := 0.0
	active := int(m.soundRAM[0x7F]>>4)&0x7 + 1
	for ch := 0; ch < active; ch++ {
		base := 0x40 + ch*8
		if base+7 >= len(m.soundRAM) {
			continue
		}
		vol := m.soundRAM[base+7] & 0x0F
		if vol == 0 {
			continue
		}
		total += float64(vol) / 15
	}
	return total / float64(max1(active))
}
