package mappers

import "github.com/embervale/nescore/cartridge"

// prgRAMReadWrite is embedded by every board that exposes a plain,
// unbanked 8 KiB PRG RAM window at $6000-$7FFF.
type prgRAMReadWrite struct {
	mem *cartridge.Memory
}

func (p prgRAMReadWrite) readPRGRAM(addr uint16) uint8 {
	if len(p.mem.PRGRAM) == 0 {
		return 0xFF
	}
	return p.mem.PRGRAM[int(addr-0x6000)%len(p.mem.PRGRAM)]
}
func (p prgRAMReadWrite) writePRGRAM(addr uint16, v uint8) {
	if len(p.mem.PRGRAM) == 0 {
		return
	}
	p.mem.PRGRAM[int(addr-0x6000)%len(p.mem.PRGRAM)] = v
}
func (p prgRAMReadWrite) PRGRAM() []byte { return p.mem.PRGRAM }

// noIRQ is embedded by boards with no IRQ line and no per-cycle clocking.
type noIRQ struct{}

func (noIRQ) OnA12Edge(bool)   {}
func (noIRQ) ClockCPUCycle()   {}
func (noIRQ) IRQLine() bool    { return false }

// fixedMirror is embedded by boards whose mirroring is set once at
// construction and never changed by a register write.
type fixedMirror struct{ mirror cartridge.Mirroring }

func (f fixedMirror) Mirroring() cartridge.Mirroring { return f.mirror }

// ---- Mapper 0: NROM ----------------------------------------------------
// 16 or 32 KiB PRG, no banking at all; 8 KiB CHR ROM or RAM.
type nrom struct {
	prgRAMReadWrite
	noIRQ
	fixedMirror
	mem *cartridge.Memory
}

func newNROM(mem *cartridge.Memory) *nrom {
	return &nrom{prgRAMReadWrite{mem}, noIRQ{}, fixedMirror{mem.Mirroring}, mem}
}
func (m *nrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.readPRGRAM(addr)
	case addr >= 0x8000:
		return m.mem.PRG[int(addr-0x8000)%len(m.mem.PRG)]
	}
	return 0xFF
}
func (m *nrom) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.writePRGRAM(addr, v)
	}
}
func (m *nrom) PPURead(addr uint16) uint8     { return m.mem.CHR[int(addr)%len(m.mem.CHR)] }
func (m *nrom) PPUWrite(addr uint16, v uint8) {
	if m.mem.ChrIsRAM {
		m.mem.CHR[int(addr)%len(m.mem.CHR)] = v
	}
}

// ---- Mapper 2: UxROM ----------------------------------------------------
// Switchable 16 KiB bank at $8000, fixed last 16 KiB bank at $C000.
type uxrom struct {
	prgRAMReadWrite
	noIRQ
	fixedMirror
	mem  *cartridge.Memory
	bank uint8
}

func newUxROM(mem *cartridge.Memory) *uxrom {
	return &uxrom{prgRAMReadWrite{mem}, noIRQ{}, fixedMirror{mem.Mirroring}, mem, 0}
}
func (m *uxrom) prgBanks() int { return len(m.mem.PRG) / 16384 }
func (m *uxrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.readPRGRAM(addr)
	case addr >= 0x8000 && addr < 0xC000:
		bank := int(m.bank) % m.prgBanks()
		return m.mem.PRG[bank*16384+int(addr-0x8000)]
	case addr >= 0xC000:
		bank := m.prgBanks() - 1
		return m.mem.PRG[bank*16384+int(addr-0xC000)]
	}
	return 0xFF
}
func (m *uxrom) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.writePRGRAM(addr, v)
	case addr >= 0x8000:
		m.bank = v & 0x0F
	}
}
func (m *uxrom) PPURead(addr uint16) uint8 { return m.mem.CHR[int(addr)%len(m.mem.CHR)] }
func (m *uxrom) PPUWrite(addr uint16, v uint8) {
	if m.mem.ChrIsRAM {
		m.mem.CHR[int(addr)%len(m.mem.CHR)] = v
	}
}

// ---- Mapper 3: CNROM -----------------------------------------------------
// Fixed PRG (16 or 32 KiB), switchable 8 KiB CHR bank.
type cnrom struct {
	prgRAMReadWrite
	noIRQ
	fixedMirror
	mem  *cartridge.Memory
	bank uint8
}

func newCNROM(mem *cartridge.Memory) *cnrom {
	return &cnrom{prgRAMReadWrite{mem}, noIRQ{}, fixedMirror{mem.Mirroring}, mem, 0}
}
func (m *cnrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.readPRGRAM(addr)
	case addr >= 0x8000:
		return m.mem.PRG[int(addr-0x8000)%len(m.mem.PRG)]
	}
	return 0xFF
}
func (m *cnrom) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.writePRGRAM(addr, v)
	case addr >= 0x8000:
		m.bank = v & 0x03
	}
}
func (m *cnrom) chrBanks() int { return len(m.mem.CHR) / 8192 }
func (m *cnrom) PPURead(addr uint16) uint8 {
	bank := int(m.bank) % max1(m.chrBanks())
	return m.mem.CHR[bank*8192+int(addr)%8192]
}
func (m *cnrom) PPUWrite(addr uint16, v uint8) {
	if m.mem.ChrIsRAM {
		bank := int(m.bank) % max1(m.chrBanks())
		m.mem.CHR[bank*8192+int(addr)%8192] = v
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ---- Mapper 7: AxROM ------------------------------------------------------
// Switchable 32 KiB PRG bank, single-screen mirroring selected by bit 4.
type axrom struct {
	prgRAMReadWrite
	noIRQ
	mem     *cartridge.Memory
	bank    uint8
	mirror  cartridge.Mirroring
}

func newAxROM(mem *cartridge.Memory) *axrom {
	return &axrom{prgRAMReadWrite{mem}, noIRQ{}, mem, 0, cartridge.MirrorSingleScreenA}
}
func (m *axrom) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		bank := int(m.bank) % max1(len(m.mem.PRG)/32768)
		return m.mem.PRG[bank*32768+int(addr-0x8000)]
	}
	return 0xFF
}
func (m *axrom) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.bank = v & 0x07
		if v&0x10 != 0 {
			m.mirror = cartridge.MirrorSingleScreenB
		} else {
			m.mirror = cartridge.MirrorSingleScreenA
		}
	}
}
func (m *axrom) PPURead(addr uint16) uint8 { return m.mem.CHR[int(addr)%len(m.mem.CHR)] }
func (m *axrom) PPUWrite(addr uint16, v uint8) {
	if m.mem.ChrIsRAM {
		m.mem.CHR[int(addr)%len(m.mem.CHR)] = v
	}
}
func (m *axrom) Mirroring() cartridge.Mirroring { return m.mirror }

// ---- Mapper 34 (submapper 2/BNROM): switchable 32 KiB PRG, fixed 8 KiB CHR RAM ----
type bnrom struct {
	prgRAMReadWrite
	noIRQ
	fixedMirror
	mem  *cartridge.Memory
	bank uint8
}

func newBNROM(mem *cartridge.Memory) *bnrom {
	return &bnrom{prgRAMReadWrite{mem}, noIRQ{}, fixedMirror{mem.Mirroring}, mem, 0}
}
func (m *bnrom) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		bank := int(m.bank) % max1(len(m.mem.PRG)/32768)
		return m.mem.PRG[bank*32768+int(addr-0x8000)]
	}
	return 0xFF
}
func (m *bnrom) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.bank = v & 0x0F
	}
}
func (m *bnrom) PPURead(addr uint16) uint8     { return m.mem.CHR[int(addr)%len(m.mem.CHR)] }
func (m *bnrom) PPUWrite(addr uint16, v uint8) {
	if m.mem.ChrIsRAM {
		m.mem.CHR[int(addr)%len(m.mem.CHR)] = v
	}
}

// ---- Mapper 34 (submapper 1/NINA-001): one switchable 32 KiB PRG bank and two 4 KiB CHR banks ----
type nina001 struct {
	prgRAMReadWrite
	noIRQ
	fixedMirror
	mem       *cartridge.Memory
	prgBank   uint8
	chrBank0  uint8
	chrBank1  uint8
}

func newNINA001(mem *cartridge.Memory) *nina001 {
	return &nina001{prgRAMReadWrite{mem}, noIRQ{}, fixedMirror{mem.Mirroring}, mem, 0, 0, 0}
}
func (m *nina001) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.readPRGRAM(addr)
	case addr >= 0x8000:
		bank := int(m.prgBank) % max1(len(m.mem.PRG)/32768)
		return m.mem.PRG[bank*32768+int(addr-0x8000)]
	}
	return 0xFF
}
func (m *nina001) CPUWrite(addr uint16, v uint8) {
	switch addr {
	case 0x7FFD:
		m.prgBank = v & 0x01
	case 0x7FFE:
		m.chrBank0 = v & 0x0F
	case 0x7FFF:
		m.chrBank1 = v & 0x0F
	default:
		if addr >= 0x6000 && addr < 0x8000 {
			m.writePRGRAM(addr, v)
		}
	}
}
func (m *nina001) PPURead(addr uint16) uint8 {
	if addr < 0x1000 {
		bank := int(m.chrBank0) % max1(len(m.mem.CHR)/4096)
		return m.mem.CHR[bank*4096+int(addr)]
	}
	bank := int(m.chrBank1) % max1(len(m.mem.CHR)/4096)
	return m.mem.CHR[bank*4096+int(addr-0x1000)]
}
func (m *nina001) PPUWrite(uint16, uint8) {}

// ---- Mapper 66: GxROM -----------------------------------------------------
// One register selects both a 32 KiB PRG bank and an 8 KiB CHR bank.
type gxrom struct {
	prgRAMReadWrite
	noIRQ
	fixedMirror
	mem      *cartridge.Memory
	prgBank  uint8
	chrBank  uint8
}

func newGxROM(mem *cartridge.Memory) *gxrom {
	return &gxrom{prgRAMReadWrite{mem}, noIRQ{}, fixedMirror{mem.Mirroring}, mem, 0, 0}
}
func (m *gxrom) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		bank := int(m.prgBank) % max1(len(m.mem.PRG)/32768)
		return m.mem.PRG[bank*32768+int(addr-0x8000)]
	}
	return 0xFF
}
func (m *gxrom) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.prgBank = (v >> 4) & 0x03
		m.chrBank = v & 0x03
	}
}
func (m *gxrom) PPURead(addr uint16) uint8 {
	bank := int(m.chrBank) % max1(len(m.mem.CHR)/8192)
	return m.mem.CHR[bank*8192+int(addr)]
}
func (m *gxrom) PPUWrite(addr uint16, v uint8) {
	if m.mem.ChrIsRAM {
		bank := int(m.chrBank) % max1(len(m.mem.CHR)/8192)
		m.mem.CHR[bank*8192+int(addr)] = v
	}
}

// ---- Mapper 11: Color Dreams ----------------------------------------------
// Like GxROM but a single write sets both banks from separate nibbles, and
// PRG is 32 KiB windows too, with a slightly different bit layout.
type colorDreams struct {
	prgRAMReadWrite
	noIRQ
	fixedMirror
	mem      *cartridge.Memory
	prgBank  uint8
	chrBank  uint8
}

func newColorDreams(mem *cartridge.Memory) *colorDreams {
	return &colorDreams{prgRAMReadWrite{mem}, noIRQ{}, fixedMirror{mem.Mirroring}, mem, 0, 0}
}
func (m *colorDreams) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		bank := int(m.prgBank) % max1(len(m.mem.PRG)/32768)
		return m.mem.PRG[bank*32768+int(addr-0x8000)]
	}
	return 0xFF
}
func (m *colorDreams) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.prgBank = v & 0x03
		m.chrBank = (v >> 4) & 0x0F
	}
}
func (m *colorDreams) PPURead(addr uint16) uint8 {
	bank := int(m.chrBank) % max1(len(m.mem.CHR)/8192)
	return m.mem.CHR[bank*8192+int(addr)]
}
func (m *colorDreams) PPUWrite(addr uint16, v uint8) {
	if m.mem.ChrIsRAM {
		bank := int(m.chrBank) % max1(len(m.mem.CHR)/8192)
		m.mem.CHR[bank*8192+int(addr)] = v
	}
}

// ---- Mapper 71: Codemasters (UNROM clone with mirroring control) ---------
type codemasters struct {
	prgRAMReadWrite
	noIRQ
	mem    *cartridge.Memory
	bank   uint8
	mirror cartridge.Mirroring
}

func newCodemasters(mem *cartridge.Memory) *codemasters {
	return &codemasters{prgRAMReadWrite{mem}, noIRQ{}, mem, 0, mem.Mirroring}
}
func (m *codemasters) prgBanks() int { return max1(len(m.mem.PRG) / 16384) }
func (m *codemasters) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x8000 && addr < 0xC000:
		return m.mem.PRG[int(m.bank)%m.prgBanks()*16384+int(addr-0x8000)]
	case addr >= 0xC000:
		bank := m.prgBanks() - 1
		return m.mem.PRG[bank*16384+int(addr-0xC000)]
	}
	return 0xFF
}
func (m *codemasters) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x8000 && addr < 0xA000 {
		m.bank = v & 0x1F
		// mapper 71 submapper 1 (Fire Hawk) uses bit 4 for single-screen
		// mirroring; boards without that wiring simply never set it.
		if v&0x10 != 0 {
			m.mirror = cartridge.MirrorSingleScreenB
		} else {
			m.mirror = cartridge.MirrorSingleScreenA
		}
	}
}
func (m *codemasters) PPURead(addr uint16) uint8 { return m.mem.CHR[int(addr)%len(m.mem.CHR)] }
func (m *codemasters) PPUWrite(addr uint16, v uint8) {
	if m.mem.ChrIsRAM {
		m.mem.CHR[int(addr)%len(m.mem.CHR)] = v
	}
}
func (m *codemasters) Mirroring() cartridge.Mirroring { return m.mirror }

// ---- Mapper 140: Jaleco JF-11/14 (GNROM-family discrete-logic board) -----
// One write to the PRG range selects both a 32 KiB PRG bank and an 8 KiB
// CHR bank, like GxROM but wired through $6000-$7FFF instead of $8000+.
type jaleco struct {
	prgRAMReadWrite
	noIRQ
	fixedMirror
	mem     *cartridge.Memory
	prgBank uint8
	chrBank uint8
}

func newJaleco(mem *cartridge.Memory) *jaleco {
	return &jaleco{prgRAMReadWrite{mem}, noIRQ{}, fixedMirror{mem.Mirroring}, mem, 0, 0}
}
func (m *jaleco) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		bank := int(m.prgBank) % max1(len(m.mem.PRG)/32768)
		return m.mem.PRG[bank*32768+int(addr-0x8000)]
	}
	return 0xFF
}
func (m *jaleco) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.prgBank = (v >> 4) & 0x03
		m.chrBank = v & 0x0F
	}
}
func (m *jaleco) PPURead(addr uint16) uint8 {
	bank := int(m.chrBank) % max1(len(m.mem.CHR)/8192)
	return m.mem.CHR[bank*8192+int(addr)]
}
func (m *jaleco) PPUWrite(addr uint16, v uint8) {
	if m.mem.ChrIsRAM {
		bank := int(m.chrBank) % max1(len(m.mem.CHR)/8192)
		m.mem.CHR[bank*8192+int(addr)] = v
	}
}
