package mappers

import "github.com/embervale/nescore/cartridge"

// vrc24 implements Konami's VRC2 and VRC4 boards. Both share the same
// register layout (8 KiB switchable PRG windows, eight 1 KiB CHR windows,
// four-way mirroring select); they differ only in which address lines
// (A0/A1, sometimes swapped) select each register, and VRC4 additionally
// has a CPU-cycle IRQ counter that VRC2 lacks. mapperNum selects the
// wiring variant the way jgnes-core's board-family grouping does; the
// submapper is not consulted.
type vrc24 struct {
	prgRAMReadWrite
	mem *cartridge.Memory

	hasIRQ bool
	a0a1swap bool // true when the board wires A1 before A0 (some VRC4 boards)

	prgBank0 uint8
	prgMode  uint8
	chrBanks [8]uint8
	mirror   cartridge.Mirroring

	irqLatch    uint8
	irqCounter  uint8
	irqEnabled  bool
	irqAckMode  bool
	irqPending  bool
	irqPrescale int
}

func newVRC24(mem *cartridge.Memory, mapperNum, submapper uint16) *vrc24 {
	v := &vrc24{prgRAMReadWrite: prgRAMReadWrite{mem}, mem: mem, mirror: mem.Mirroring}
	v.hasIRQ = mapperNum != 22 // 22 is VRC2a, no IRQ; 21/23/25 are VRC4 variants
	v.a0a1swap = mapperNum == 23 || mapperNum == 25
	return v
}

func (v *vrc24) prgBanks8k() int { return max1(len(v.mem.PRG) / 8192) }

func (v *vrc24) CPURead(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return v.readPRGRAM(addr)
	}
	if addr < 0x8000 {
		return 0xFF
	}
	n := v.prgBanks8k()
	switch {
	case addr < 0xA000:
		if v.prgMode == 0 {
			return v.mem.PRG[int(v.prgBank0)%n*8192+int(addr-0x8000)]
		}
		return v.mem.PRG[(n-2+n)%n*8192+int(addr-0x8000)]
	case addr < 0xC000:
		// $A000-$BFFF has no bank-select register on VRC2/4; always the
		// second-to-last 8 KiB bank.
		return v.mem.PRG[(n-2+n)%n*8192+int(addr-0xA000)]
	case addr < 0xE000:
		if v.prgMode == 0 {
			return v.mem.PRG[(n-2+n)%n*8192+int(addr-0xC000)]
		}
		return v.mem.PRG[int(v.prgBank0)%n*8192+int(addr-0xC000)]
	default:
		return v.mem.PRG[(n-1)*8192+int(addr-0xE000)]
	}
}

func (v *vrc24) CPUWrite(addr uint16, val uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		v.writePRGRAM(addr, val)
		return
	}
	if addr < 0x8000 {
		return
	}

	reg := v.decodeAddr(addr)
	switch {
	case reg == 0x0:
		v.prgBank0 = val & 0x1F
	case reg == 0x1:
		switch val & 0x3 {
		case 0:
			v.mirror = cartridge.MirrorVertical
		case 1:
			v.mirror = cartridge.MirrorHorizontal
		case 2:
			v.mirror = cartridge.MirrorSingleScreenA
		case 3:
			v.mirror = cartridge.MirrorSingleScreenB
		}
	case reg == 0x2:
		v.prgMode = (val >> 1) & 1
	case reg >= 0x3 && reg <= 0x12:
		i := reg - 3
		if i%2 == 0 {
			v.chrBanks[i/2] = (v.chrBanks[i/2] &^ 0x0F) | (val & 0x0F)
		} else {
			v.chrBanks[i/2] = (v.chrBanks[i/2] &^ 0xF0) | ((val & 0x0F) << 4)
		}
	case reg == 0x13:
		v.irqLatch = (v.irqLatch &^ 0x0F) | (val & 0x0F)
	case reg == 0x14:
		v.irqLatch = (v.irqLatch &^ 0xF0) | ((val & 0x0F) << 4)
	case reg == 0x15:
		v.irqAckMode = val&1 != 0
		v.irqEnabled = val&2 != 0
		v.irqPending = false
		if v.irqEnabled {
			v.irqCounter = v.irqLatch
			v.irqPrescale = 341
		}
	case reg == 0x16:
		v.irqPending = false
		v.irqEnabled = v.irqAckMode
	}
}

// decodeAddr resolves which internal register a CPU write targets. VRC2/4
// select the register from address bits 0-3 combined with which of the
// four 0x8000-aligned register groups the write landed in; some board
// wirings swap which of A0/A1 carries the low bit (a0a1swap).
func (v *vrc24) decodeAddr(addr uint16) int {
	group := int((addr >> 12) & 0x7) // 0x8xxx..0xExxx -> 0..6, we only use 0/1/2/3/4/5/6
	low := addr & 0x3
	if v.a0a1swap {
		low = (low >> 1) | ((low & 1) << 1)
	}
	switch group {
	case 0: // $8000-$8FFF: PRG bank 0
		return 0x0
	case 1: // $9000-$9FFF: mirroring / PRG mode (low bit selects which)
		if low < 2 {
			return 0x1
		}
		return 0x2
	case 2: // $A000-$AFFF: no register, fixed second-to-last PRG bank
		return -1
	case 3: // $B000-$BFFF: CHR banks 0/1
		return 0x3 + int(low)
	case 4: // $C000-$CFFF: CHR banks 2/3
		return 0x7 + int(low)
	case 5: // $D000-$DFFF: CHR banks 4/5
		return 0xB + int(low)
	case 6: // $E000-$EFFF: CHR banks 6/7
		return 0xF + int(low)
	case 7: // $F000-$FFFF: IRQ latch/control/ack
		if low < 2 {
			return 0x13 + int(low)
		}
		if low == 2 {
			return 0x15
		}
		return 0x16
	}
	return -1
}

func (v *vrc24) ClockCPUCycle() {
	if !v.hasIRQ || !v.irqEnabled {
		return
	}
	v.irqPrescale -= 3
	if v.irqPrescale <= 0 {
		v.irqPrescale += 341
		if v.irqCounter == 0xFF {
			v.irqCounter = v.irqLatch
			v.irqPending = true
		} else {
			v.irqCounter++
		}
	}
}

func (v *vrc24) PPURead(addr uint16) uint8 {
	if len(v.mem.CHR) == 0 {
		return 0
	}
	n := max1(len(v.mem.CHR) / 1024)
	bank := int(addr / 0x400)
	return v.mem.CHR[int(v.chrBanks[bank])%n*1024+int(addr)%0x400]
}

func (v *vrc24) PPUWrite(addr uint16, val uint8) {
	if !v.mem.ChrIsRAM || len(v.mem.CHR) == 0 {
		return
	}
	n := max1(len(v.mem.CHR) / 1024)
	bank := int(addr / 0x400)
	v.mem.CHR[int(v.chrBanks[bank])%n*1024+int(addr)%0x400] = val
}

func (v *vrc24) OnA12Edge(bool) {}
func (v *vrc24) IRQLine() bool  { return v.irqPending }
func (v *vrc24) Mirroring() cartridge.Mirroring { return v.mirror }
