package cartridge

import "fmt"

// Mapper is the operation set every cartridge board variant implements. The
// scheduler and PPU only ever see this interface; bank layout, shift
// registers and IRQ counters are private to each variant.
//
// Implementations must not hold a reference back to the bus or to any other
// component: a mapper's only inputs are the four read/write calls, the A12
// edge hook and the per-CPU-cycle clock.
type Mapper interface {
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, val uint8)
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, val uint8)

	// OnA12Edge is invoked by the PPU/scheduler on every filtered rising
	// edge of the CHR address bus's bit 12. Most mappers ignore this.
	OnA12Edge(rising bool)
	// ClockCPUCycle is invoked once per CPU cycle for mappers with a
	// CPU-clocked IRQ counter (VRC6, Bandai FCG). Most mappers ignore it.
	ClockCPUCycle()

	IRQLine() bool
	Mirroring() Mirroring
}

// ExpansionAudio is implemented by mappers that mix an extra channel group
// into the APU output (VRC6's pulses+sawtooth, VRC7's FM channels, Namco
// 163's wavetable channel). The scheduler queries it via a type assertion.
type ExpansionAudio interface {
	Sample() float64
}

// Battery is implemented by mappers whose PRG RAM should be persisted
// across power cycles when the header's battery bit is set.
type Battery interface {
	PRGRAM() []byte
}

// Memory is the raw storage a mapper variant banks over. It is plain data,
// never a reference to the bus, so mappers stay free of object-graph
// cycles.
type Memory struct {
	PRG      []byte
	CHR      []byte
	ChrIsRAM bool
	PRGRAM   []byte
	Battery  bool

	// Mirroring seeds the mapper's own mirroring field; mappers with fixed
	// mirroring ignore it, mappers with mirroring control (MMC1, MMC3, ...)
	// treat it as the power-on default.
	Mirroring Mirroring
}

// MapperFactory builds the concrete Mapper for a given iNES mapper/submapper
// number. It is a plain function type rather than an interface so that the
// mappers package (which implements it) never needs to import this one —
// the caller wires the two together, keeping cartridge and mappers from
// forming an import cycle.
type MapperFactory func(mapperNum, submapper uint16, mem *Memory) (Mapper, error)

// Cartridge is a fully constructed cartridge: header metadata plus the
// dispatched Mapper implementation. It is built once and mutated only by
// mapper-register writes arriving through the CPU bus.
type Cartridge struct {
	hdr    header
	mem    *Memory
	Mapper Mapper
}

// New parses raw iNES/NES 2.0 ROM bytes and builds a Cartridge, dispatching
// to newMapper for the board-specific logic. newMapper is normally
// mappers.New; it is passed in rather than imported to avoid a package
// cycle (see MapperFactory).
func New(data []byte, newMapper MapperFactory) (*Cartridge, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	off := 16
	if h.trainer {
		off += 512
	}

	if off+h.prgROMSize > len(data) {
		return nil, fmt.Errorf("%w: need %d PRG bytes at offset %d, have %d", ErrRomSizeMismatch, h.prgROMSize, off, len(data))
	}
	prg := make([]byte, h.prgROMSize)
	copy(prg, data[off:off+h.prgROMSize])
	off += h.prgROMSize

	chrIsRAM := h.chrROMSize == 0
	var chr []byte
	if chrIsRAM {
		chr = make([]byte, h.chrRAMSize)
	} else {
		if off+h.chrROMSize > len(data) {
			return nil, fmt.Errorf("%w: need %d CHR bytes at offset %d, have %d", ErrRomSizeMismatch, h.chrROMSize, off, len(data))
		}
		chr = make([]byte, h.chrROMSize)
		copy(chr, data[off:off+h.chrROMSize])
	}

	mem := &Memory{
		PRG:       prg,
		CHR:       chr,
		ChrIsRAM:  chrIsRAM,
		PRGRAM:    make([]byte, h.prgRAMSize),
		Battery:   h.battery,
		Mirroring: h.mirroring,
	}

	mapper, err := newMapper(h.mapper, uint16(h.submapper), mem)
	if err != nil {
		return nil, err
	}

	return &Cartridge{hdr: h, mem: mem, Mapper: mapper}, nil
}

func (c *Cartridge) CPURead(addr uint16) uint8      { return c.Mapper.CPURead(addr) }
func (c *Cartridge) CPUWrite(addr uint16, v uint8)  { c.Mapper.CPUWrite(addr, v) }
func (c *Cartridge) PPURead(addr uint16) uint8      { return c.Mapper.PPURead(addr) }
func (c *Cartridge) PPUWrite(addr uint16, v uint8)  { c.Mapper.PPUWrite(addr, v) }
func (c *Cartridge) OnA12Edge(rising bool)          { c.Mapper.OnA12Edge(rising) }
func (c *Cartridge) ClockCPUCycle()                 { c.Mapper.ClockCPUCycle() }
func (c *Cartridge) IRQLine() bool                  { return c.Mapper.IRQLine() }
func (c *Cartridge) Mirroring() Mirroring           { return c.Mapper.Mirroring() }
func (c *Cartridge) HasBattery() bool               { return c.hdr.battery }
func (c *Cartridge) Region() Region                 { return c.hdr.region }
func (c *Cartridge) MapperNumber() (uint16, uint8)  { return c.hdr.mapper, c.hdr.submapper }

// ExpansionAudio returns the mapper's extra mixer channel, if it has one.
func (c *Cartridge) ExpansionAudio() (ExpansionAudio, bool) {
	ea, ok := c.Mapper.(ExpansionAudio)
	return ea, ok
}

// ReadPRGRAM/WritePRGRAM support battery-backed save persistence; the host
// calls these outside of frame execution, never the running core itself.
func (c *Cartridge) ReadPRGRAM() []byte {
	if b, ok := c.Mapper.(Battery); ok {
		return b.PRGRAM()
	}
	return c.mem.PRGRAM
}

func (c *Cartridge) WritePRGRAM(data []byte) {
	dst := c.mem.PRGRAM
	if b, ok := c.Mapper.(Battery); ok {
		dst = b.PRGRAM()
	}
	copy(dst, data)
}
