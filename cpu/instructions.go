package cpu

// Instruction bodies. Read-class instructions take the already-fetched
// operand value; write-class instructions return the value to store;
// read-modify-write instructions take the old value and return the new
// one, applying any side effect (accumulator combine, comparison) inline.
// Addressing and bus timing are entirely the addrKind builders' concern
// (addressing.go); nothing here touches the bus directly except through
// the register file.

func opLDA(c *CPU, v uint8) { c.Rg.A.Write(v); c.Rg.setZN(v) }
func opLDX(c *CPU, v uint8) { c.Rg.X.Write(v); c.Rg.setZN(v) }
func opLDY(c *CPU, v uint8) { c.Rg.Y.Write(v); c.Rg.setZN(v) }

func opSTA(c *CPU) uint8 { return c.Rg.A.Read() }
func opSTX(c *CPU) uint8 { return c.Rg.X.Read() }
func opSTY(c *CPU) uint8 { return c.Rg.Y.Read() }

func opTAX(c *CPU) { c.Rg.X.Write(c.Rg.A.Read()); c.Rg.setZN(c.Rg.X.Read()) }
func opTAY(c *CPU) { c.Rg.Y.Write(c.Rg.A.Read()); c.Rg.setZN(c.Rg.Y.Read()) }
func opTXA(c *CPU) { c.Rg.A.Write(c.Rg.X.Read()); c.Rg.setZN(c.Rg.A.Read()) }
func opTYA(c *CPU) { c.Rg.A.Write(c.Rg.Y.Read()); c.Rg.setZN(c.Rg.A.Read()) }
func opTSX(c *CPU) { c.Rg.X.Write(c.Rg.SP.Read()); c.Rg.setZN(c.Rg.X.Read()) }
func opTXS(c *CPU) { c.Rg.SP.Write(c.Rg.X.Read()) }

func opPHAValue(c *CPU) uint8 { return c.Rg.A.Read() }
func opPHPValue(c *CPU) uint8 { return c.Rg.P | FlagB | FlagU }
func opPLA(c *CPU, v uint8)   { c.Rg.A.Write(v); c.Rg.setZN(v) }
func opPLP(c *CPU, v uint8)   { c.Rg.P = (v &^ FlagB) | FlagU }

func opAND(c *CPU, v uint8) {
	a := c.Rg.A.Read() & v
	c.Rg.A.Write(a)
	c.Rg.setZN(a)
}
func opORA(c *CPU, v uint8) {
	a := c.Rg.A.Read() | v
	c.Rg.A.Write(a)
	c.Rg.setZN(a)
}
func opEOR(c *CPU, v uint8) {
	a := c.Rg.A.Read() ^ v
	c.Rg.A.Write(a)
	c.Rg.setZN(a)
}
func opBIT(c *CPU, v uint8) {
	c.Rg.setFlag(FlagZ, c.Rg.A.Read()&v == 0)
	c.Rg.setFlag(FlagV, v&FlagV != 0)
	c.Rg.setFlag(FlagN, v&FlagN != 0)
}

// add is the shared ADC/SBC accumulator-plus-operand-plus-carry adder;
// decimal mode is deliberately not implemented (the 2A03 lacks it, unlike
// the original 6502).
func (c *CPU) add(operand uint8) {
	a := c.Rg.A.Read()
	carry := uint16(0)
	if c.Rg.flag(FlagC) {
		carry = 1
	}
	sum := uint16(a) + uint16(operand) + carry
	c.Rg.setFlag(FlagC, sum > 0xFF)
	result := uint8(sum)
	c.Rg.setFlag(FlagV, (a^operand)&0x80 == 0 && (a^result)&0x80 != 0)
	c.Rg.A.Write(result)
	c.Rg.setZN(result)
}

func opADC(c *CPU, v uint8) { c.add(v) }
func opSBC(c *CPU, v uint8) { c.add(v ^ 0xFF) }

func (c *CPU) compare(reg, v uint8) {
	c.Rg.setFlag(FlagC, reg >= v)
	c.Rg.setZN(reg - v)
}
func opCMP(c *CPU, v uint8) { c.compare(c.Rg.A.Read(), v) }
func opCPX(c *CPU, v uint8) { c.compare(c.Rg.X.Read(), v) }
func opCPY(c *CPU, v uint8) { c.compare(c.Rg.Y.Read(), v) }

func opINX(c *CPU) { v := c.Rg.X.Read() + 1; c.Rg.X.Write(v); c.Rg.setZN(v) }
func opINY(c *CPU) { v := c.Rg.Y.Read() + 1; c.Rg.Y.Write(v); c.Rg.setZN(v) }
func opDEX(c *CPU) { v := c.Rg.X.Read() - 1; c.Rg.X.Write(v); c.Rg.setZN(v) }
func opDEY(c *CPU) { v := c.Rg.Y.Read() - 1; c.Rg.Y.Write(v); c.Rg.setZN(v) }

func rmwINC(c *CPU, v uint8) uint8 { v++; c.Rg.setZN(v); return v }
func rmwDEC(c *CPU, v uint8) uint8 { v--; c.Rg.setZN(v); return v }

func rmwASL(c *CPU, v uint8) uint8 {
	c.Rg.setFlag(FlagC, v&0x80 != 0)
	v <<= 1
	c.Rg.setZN(v)
	return v
}
func rmwLSR(c *CPU, v uint8) uint8 {
	c.Rg.setFlag(FlagC, v&1 != 0)
	v >>= 1
	c.Rg.setZN(v)
	return v
}
func rmwROL(c *CPU, v uint8) uint8 {
	carry := uint8(0)
	if c.Rg.flag(FlagC) {
		carry = 1
	}
	c.Rg.setFlag(FlagC, v&0x80 != 0)
	v = (v << 1) | carry
	c.Rg.setZN(v)
	return v
}
func rmwROR(c *CPU, v uint8) uint8 {
	carry := uint8(0)
	if c.Rg.flag(FlagC) {
		carry = 0x80
	}
	c.Rg.setFlag(FlagC, v&1 != 0)
	v = (v >> 1) | carry
	c.Rg.setZN(v)
	return v
}

func opCLC(c *CPU) { c.Rg.setFlag(FlagC, false) }
func opSEC(c *CPU) { c.Rg.setFlag(FlagC, true) }
func opCLI(c *CPU) { c.Rg.setFlag(FlagI, false) }
func opSEI(c *CPU) { c.Rg.setFlag(FlagI, true) }
func opCLV(c *CPU) { c.Rg.setFlag(FlagV, false) }
func opCLD(c *CPU) { c.Rg.setFlag(FlagD, false) }
func opSED(c *CPU) { c.Rg.setFlag(FlagD, true) }

func opNOP(c *CPU)             {}
func opNOPRead(c *CPU, v uint8) {}

// Unofficial combined opcodes.
func opLAX(c *CPU, v uint8) {
	c.Rg.A.Write(v)
	c.Rg.X.Write(v)
	c.Rg.setZN(v)
}
func opSAX(c *CPU) uint8 { return c.Rg.A.Read() & c.Rg.X.Read() }

func rmwDCP(c *CPU, v uint8) uint8 {
	v--
	c.Rg.setFlag(FlagC, c.Rg.A.Read() >= v)
	c.Rg.setZN(c.Rg.A.Read() - v)
	return v
}
func rmwISC(c *CPU, v uint8) uint8 {
	v++
	c.add(v ^ 0xFF)
	return v
}
func rmwSLO(c *CPU, v uint8) uint8 {
	v = rmwASL(c, v)
	a := c.Rg.A.Read() | v
	c.Rg.A.Write(a)
	c.Rg.setZN(a)
	return v
}
func rmwRLA(c *CPU, v uint8) uint8 {
	v = rmwROL(c, v)
	a := c.Rg.A.Read() & v
	c.Rg.A.Write(a)
	c.Rg.setZN(a)
	return v
}
func rmwSRE(c *CPU, v uint8) uint8 {
	v = rmwLSR(c, v)
	a := c.Rg.A.Read() ^ v
	c.Rg.A.Write(a)
	c.Rg.setZN(a)
	return v
}
func rmwRRA(c *CPU, v uint8) uint8 {
	v = rmwROR(c, v)
	c.add(v)
	return v
}
