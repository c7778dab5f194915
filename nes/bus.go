package nes

import (
	"github.com/embervale/nescore/apu"
	"github.com/embervale/nescore/cartridge"
	"github.com/embervale/nescore/cpu"
	"github.com/embervale/nescore/ppu"
)

// Bus is the shared memory/clock fabric wiring the CPU, PPU, APU, cartridge
// and controllers together. It implements cpu.Bus (CPU address space plus
// the per-cycle clock hook), ppu.Bus (the CHR address space plus A12 edge
// reporting) and apu.DMCBus (DMC's DMA reads and CPU stalls), the same
// structural-interface pattern the cpu/ppu packages use to avoid an import
// cycle back into this package. Dispatch is a direct set of address-range
// switches rather than a generic mapped-device table, since this bus only
// ever serves one CPU and one PPU rather than an arbitrary number of
// mapped devices.
type Bus struct {
	ram   [0x0800]byte
	cart  *cartridge.Cartridge
	ppu   *ppu.PPU
	apu   *apu.APU
	ctrl  *Controllers
	cpu   *cpu.CPU

	cycles uint64
}

func newBus() *Bus { return &Bus{} }

func (b *Bus) attach(cart *cartridge.Cartridge, p *ppu.PPU, a *apu.APU, ctrl *Controllers, c *cpu.CPU) {
	b.cart, b.ppu, b.apu, b.ctrl, b.cpu = cart, p, a, ctrl, c
}

// Read8 implements cpu.Bus over the full 64KiB CPU address space: 2KiB
// internal RAM mirrored through $1FFF, PPU registers mirrored every 8
// bytes through $3FFF, APU/IO at $4000-$4017 (write-only registers read
// as 0), $4018-$401F read as 0, and the cartridge (PRG ROM/RAM, mapper
// registers) from $4020 up.
func (b *Bus) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadRegister(uint8(addr & 0x0007))
	case addr == 0x4015:
		return b.apu.ReadRegister()
	case addr == 0x4016:
		return b.ctrl.ReadPort(0)
	case addr == 0x4017:
		return b.ctrl.ReadPort(1)
	case addr < 0x4020:
		return 0 // write-only APU registers and unused test-mode range
	default:
		return b.cart.CPURead(addr)
	}
}

func (b *Bus) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = val
	case addr < 0x4000:
		b.ppu.WriteRegister(uint8(addr&0x0007), val)
	case addr == 0x4014:
		b.startOAMDMA(val)
	case addr == 0x4016:
		b.ctrl.WriteStrobe(val)
	case addr < 0x4018:
		b.apu.WriteRegister(addr, val)
	case addr < 0x4020:
		// open bus
	default:
		b.cart.CPUWrite(addr, val)
	}
}

// ClockCycle advances every bus-side component by one CPU cycle: the APU
// runs at the CPU rate, the PPU at 3x, the mapper's optional CPU-cycle IRQ
// counter once, then the combined IRQ line is resampled.
func (b *Bus) ClockCycle() {
	b.apu.Tick()
	b.ppu.Tick()
	b.ppu.Tick()
	b.ppu.Tick()
	b.cart.ClockCPUCycle()
	b.cpu.SetIRQ(b.apu.IRQ() || b.cart.IRQLine())
	b.cycles++
}

// startOAMDMA implements the $4014 write: 256 paired reads/writes are
// performed immediately (the intervening 513-514 idle CPU cycles are all
// spent inside cpu.Stall, which still clocks the bus once per cycle so
// the PPU/APU advance normally during the stall) and the CPU is stalled
// 513 cycles, or 514 if the write landed on an odd CPU cycle.
func (b *Bus) startOAMDMA(page uint8) {
	var buf [256]byte
	base := uint16(page) << 8
	for i := range buf {
		buf[i] = b.Read8(base + uint16(i))
	}
	b.ppu.WriteOAMDMA(buf)

	cycles := 513
	if b.cycles%2 == 1 {
		cycles = 514
	}
	b.cpu.Stall(cycles)
}

// PPURead/PPUWrite/Mirroring/OnA12Edge implement ppu.Bus over the CHR
// address space, delegated straight to the cartridge mapper.
func (b *Bus) PPURead(addr uint16) uint8       { return b.cart.PPURead(addr) }
func (b *Bus) PPUWrite(addr uint16, val uint8) { b.cart.PPUWrite(addr, val) }
func (b *Bus) Mirroring() cartridge.Mirroring  { return b.cart.Mirroring() }
func (b *Bus) OnA12Edge(rising bool)           { b.cart.OnA12Edge(rising) }

// DMARead/StallCPU implement apu.DMCBus for the DMC channel's sample
// fetches, which read through the same CPU address space as the 6502.
func (b *Bus) DMARead(addr uint16) uint8 { return b.Read8(addr) }
func (b *Bus) StallCPU(cycles int)       { b.cpu.Stall(cycles) }
