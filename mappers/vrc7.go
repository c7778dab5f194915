package mappers

import "github.com/embervale/nescore/cartridge"

// vrc7 implements Konami's VRC7 board (Lagrange Point): standard 8 KiB PRG
// windows, 1 KiB CHR windows, an A0-A3-swapped-pin IRQ counter identical in
// shape to VRC4's, and a 6-channel OPLL-derived FM synth exposed through
// cartridge.ExpansionAudio. The synth here is a simplified sine-oscillator
// stand-in rather than a full YM2413 core (a bit-accurate OPLL clone is out
// of scope for the mapper layer), but it tracks per-channel frequency/
// octave/volume/patch registers the same way the real chip's $10-$35
// register file does.
type vrc7 struct {
	prgRAMReadWrite
	mem *cartridge.Memory

	prgBanks [3]uint8
	chrBanks [8]uint8
	mirror   cartridge.Mirroring

	irqLatch    uint8
	irqCounter  uint8
	irqEnabled  bool
	irqAckMode  bool
	irqPending  bool
	irqPrescale int

	audioAddr uint8
	channels  [6]vrc7Channel
	patches   [0x40]uint8
}

type vrc7Channel struct {
	freq   uint16
	octave uint8
	patch  uint8
	volume uint8
	key    bool
	sustain bool
	phase  float64
}

func newVRC7(mem *cartridge.Memory) *vrc7 {
	return &vrc7{prgRAMReadWrite: prgRAMReadWrite{mem}, mem: mem, mirror: mem.Mirroring}
}

func (v *vrc7) CPURead(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return v.readPRGRAM(addr)
	}
	if addr < 0x8000 {
		return 0xFF
	}
	n := max1(len(v.mem.PRG) / 8192)
	switch {
	case addr < 0xA000:
		return v.mem.PRG[int(v.prgBanks[0])%n*8192+int(addr-0x8000)]
	case addr < 0xC000:
		return v.mem.PRG[int(v.prgBanks[1])%n*8192+int(addr-0xA000)]
	case addr < 0xE000:
		return v.mem.PRG[int(v.prgBanks[2])%n*8192+int(addr-0xC000)]
	default:
		return v.mem.PRG[(n-1)*8192+int(addr-0xE000)]
	}
}

func (v *vrc7) CPUWrite(addr uint16, val uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		v.writePRGRAM(addr, val)
		return
	}
	if addr < 0x8000 {
		return
	}
	switch addr & 0xF000 {
	case 0x8000:
		v.prgBanks[0] = val & 0x3F
	case 0x9000:
		if addr&0x10 == 0 {
			v.prgBanks[1] = val & 0x3F
		}
	case 0xA000:
		v.chrBanks[0] = val
	case 0xB000:
		v.chrBanks[1] = val
	case 0xC000:
		v.chrBanks[2] = val
	case 0xD000:
		if addr&0x10 == 0 {
			v.chrBanks[3] = val
		} else {
			v.chrBanks[4] = val
		}
	case 0xE000:
		if addr&0x10 == 0 {
			v.chrBanks[5] = val
			switch val >> 6 {
			case 0:
				v.mirror = cartridge.MirrorVertical
			case 1:
				v.mirror = cartridge.MirrorHorizontal
			case 2:
				v.mirror = cartridge.MirrorSingleScreenA
			case 3:
				v.mirror = cartridge.MirrorSingleScreenB
			}
		} else {
			v.chrBanks[6] = val
		}
	case 0xF000:
		switch addr & 0x30 {
		case 0x00:
			v.audioAddr = val
		case 0x10:
			v.audioWrite(val)
		case 0x20:
			v.irqLatch = val
		case 0x30:
			v.irqAckMode = val&1 != 0
			v.irqEnabled = val&2 != 0
			v.irqPending = false
			if v.irqEnabled {
				v.irqCounter = v.irqLatch
				v.irqPrescale = 341
			}
		}
	}
}

func (v *vrc7) audioWrite(val uint8) {
	if v.audioAddr < 0x08 {
		v.patches[v.audioAddr] = val
		return
	}
	switch {
	case v.audioAddr >= 0x10 && v.audioAddr <= 0x15:
		ch := &v.channels[v.audioAddr-0x10]
		ch.freq = (ch.freq &^ 0xFF) | uint16(val)
	case v.audioAddr >= 0x20 && v.audioAddr <= 0x25:
		ch := &v.channels[v.audioAddr-0x20]
		ch.freq = (ch.freq &^ 0x100) | (uint16(val&1) << 8)
		ch.octave = (val >> 1) & 0x7
		ch.key = val&0x10 != 0
		ch.sustain = val&0x20 != 0
	case v.audioAddr >= 0x30 && v.audioAddr <= 0x35:
		ch := &v.channels[v.audioAddr-0x30]
		ch.volume = 15 - (val & 0x0F)
		ch.patch = val >> 4
	}
}

func (v *vrc7) ClockCPUCycle() {
	if !v.irqEnabled {
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

func (v *vrc7) PPURead(addr uint16) uint8 {
	if len(v.mem.CHR) == 0 {
		return 0
	}
	n := max1(len(v.mem.CHR) / 1024)
	bank := int(addr / 0x400)
	return v.mem.CHR[int(v.chrBanks[bank])%n*1024+int(addr)%0x400]
}

func (v *vrc7) PPUWrite(addr uint16, val uint8) {
	if !v.mem.ChrIsRAM || len(v.mem.CHR) == 0 {
		return
	}
	n := max1(len(v.mem.CHR) / 1024)
	bank := int(addr / 0x400)
	v.mem.CHR[int(v.chrBanks[bank])%n*1024+int(addr)%0x400] = val
}

func (v *vrc7) OnA12Edge(bool)               {}
func (v *vrc7) IRQLine() bool                { return v.irqPending }
func (v *vrc7) Mirroring() cartridge.Mirroring { return v.mirror }

// Sample implements cartridge.ExpansionAudio with a sine-approximation
// stand-in for the six FM channels, advanced one APU sample tick at a time.
func (v *vrc7) Sample() float64 {
	const sampleStep = 49716.0 / 44100.0
	total := 0.0
	for i := range v.channels {
		ch := &v.channels[i]
		if !ch.key || ch.volume == 0 {
			continue
		}
		freqHz := float64(ch.freq) * 49716 / float64(uint32(1)<<(19-ch.octave))
		ch.phase += freqHz * sampleStep / 49716
		if ch.phase >= 1 {
			ch.phase -= float64(int(ch.phase))
		}
		total += sine(ch.phase) * float64(ch.volume) / 15
	}
	return total / 6
}

func sine(phase float64) float64 {
	// Small stand-in sine approximation avoiding a math.Sin import for a
	// single-purpose waveform; good enough for a coarse FM approximation.
	x := phase*4 - 1
	if phase < 0.5 {
		return x - x*x*x/3
	}
	x = phase*4 - 3
	return -(x - x*x*x/3)
}
