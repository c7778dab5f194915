package cpu

// opcode describes one instruction as a queue builder: given the CPU
// state right after its opcode byte has been fetched, build returns the
// micro-ops for the instruction's remaining cycles. There is no static
// cycle count to look up — the queue's length (including cycles some
// builders append lazily, like a page-crossing indexed read) is exactly
// how many more cycles the instruction takes.
type opcode struct {
	name  string
	build func(c *CPU) []microOp
}

func (c *CPU) buildOpcodeTable() {
	def := func(op uint8, name string, build func(c *CPU) []microOp) {
		c.ops[op] = opcode{name: name, build: build}
	}

	// Load/store
	def(0xA9, "LDA", readOp(kindImmediate, opLDA))
	def(0xA5, "LDA", readOp(kindZeroPage, opLDA))
	def(0xB5, "LDA", readOp(kindZeroPageX, opLDA))
	def(0xAD, "LDA", readOp(kindAbsolute, opLDA))
	def(0xBD, "LDA", readOp(kindAbsoluteX, opLDA))
	def(0xB9, "LDA", readOp(kindAbsoluteY, opLDA))
	def(0xA1, "LDA", readOp(kindIndirectX, opLDA))
	def(0xB1, "LDA", readOp(kindIndirectY, opLDA))

	def(0xA2, "LDX", readOp(kindImmediate, opLDX))
	def(0xA6, "LDX", readOp(kindZeroPage, opLDX))
	def(0xB6, "LDX", readOp(kindZeroPageY, opLDX))
	def(0xAE, "LDX", readOp(kindAbsolute, opLDX))
	def(0xBE, "LDX", readOp(kindAbsoluteY, opLDX))

	def(0xA0, "LDY", readOp(kindImmediate, opLDY))
	def(0xA4, "LDY", readOp(kindZeroPage, opLDY))
	def(0xB4, "LDY", readOp(kindZeroPageX, opLDY))
	def(0xAC, "LDY", readOp(kindAbsolute, opLDY))
	def(0xBC, "LDY", readOp(kindAbsoluteX, opLDY))

	def(0x85, "STA", writeOp(kindZeroPage, opSTA))
	def(0x95, "STA", writeOp(kindZeroPageX, opSTA))
	def(0x8D, "STA", writeOp(kindAbsolute, opSTA))
	def(0x9D, "STA", writeOp(kindAbsoluteX, opSTA))
	def(0x99, "STA", writeOp(kindAbsoluteY, opSTA))
	def(0x81, "STA", writeOp(kindIndirectX, opSTA))
	def(0x91, "STA", writeOp(kindIndirectY, opSTA))

	def(0x86, "STX", writeOp(kindZeroPage, opSTX))
	def(0x96, "STX", writeOp(kindZeroPageY, opSTX))
	def(0x8E, "STX", writeOp(kindAbsolute, opSTX))

	def(0x84, "STY", writeOp(kindZeroPage, opSTY))
	def(0x94, "STY", writeOp(kindZeroPageX, opSTY))
	def(0x8C, "STY", writeOp(kindAbsolute, opSTY))

	// Register transfers
	def(0xAA, "TAX", impliedOp(opTAX))
	def(0xA8, "TAY", impliedOp(opTAY))
	def(0x8A, "TXA", impliedOp(opTXA))
	def(0x98, "TYA", impliedOp(opTYA))
	def(0xBA, "TSX", impliedOp(opTSX))
	def(0x9A, "TXS", impliedOp(opTXS))

	// Stack
	def(0x48, "PHA", pushOp(opPHAValue))
	def(0x68, "PLA", pullOp(opPLA))
	def(0x08, "PHP", pushOp(opPHPValue))
	def(0x28, "PLP", pullOp(opPLP))

	// Logical
	def(0x29, "AND", readOp(kindImmediate, opAND))
	def(0x25, "AND", readOp(kindZeroPage, opAND))
	def(0x35, "AND", readOp(kindZeroPageX, opAND))
	def(0x2D, "AND", readOp(kindAbsolute, opAND))
	def(0x3D, "AND", readOp(kindAbsoluteX, opAND))
	def(0x39, "AND", readOp(kindAbsoluteY, opAND))
	def(0x21, "AND", readOp(kindIndirectX, opAND))
	def(0x31, "AND", readOp(kindIndirectY, opAND))

	def(0x09, "ORA", readOp(kindImmediate, opORA))
	def(0x05, "ORA", readOp(kindZeroPage, opORA))
	def(0x15, "ORA", readOp(kindZeroPageX, opORA))
	def(0x0D, "ORA", readOp(kindAbsolute, opORA))
	def(0x1D, "ORA", readOp(kindAbsoluteX, opORA))
	def(0x19, "ORA", readOp(kindAbsoluteY, opORA))
	def(0x01, "ORA", readOp(kindIndirectX, opORA))
	def(0x11, "ORA", readOp(kindIndirectY, opORA))

	def(0x49, "EOR", readOp(kindImmediate, opEOR))
	def(0x45, "EOR", readOp(kindZeroPage, opEOR))
	def(0x55, "EOR", readOp(kindZeroPageX, opEOR))
	def(0x4D, "EOR", readOp(kindAbsolute, opEOR))
	def(0x5D, "EOR", readOp(kindAbsoluteX, opEOR))
	def(0x59, "EOR", readOp(kindAbsoluteY, opEOR))
	def(0x41, "EOR", readOp(kindIndirectX, opEOR))
	def(0x51, "EOR", readOp(kindIndirectY, opEOR))

	def(0x24, "BIT", readOp(kindZeroPage, opBIT))
	def(0x2C, "BIT", readOp(kindAbsolute, opBIT))

	// Arithmetic
	def(0x69, "ADC", readOp(kindImmediate, opADC))
	def(0x65, "ADC", readOp(kindZeroPage, opADC))
	def(0x75, "ADC", readOp(kindZeroPageX, opADC))
	def(0x6D, "ADC", readOp(kindAbsolute, opADC))
	def(0x7D, "ADC", readOp(kindAbsoluteX, opADC))
	def(0x79, "ADC", readOp(kindAbsoluteY, opADC))
	def(0x61, "ADC", readOp(kindIndirectX, opADC))
	def(0x71, "ADC", readOp(kindIndirectY, opADC))

	def(0xE9, "SBC", readOp(kindImmediate, opSBC))
	def(0xE5, "SBC", readOp(kindZeroPage, opSBC))
	def(0xF5, "SBC", readOp(kindZeroPageX, opSBC))
	def(0xED, "SBC", readOp(kindAbsolute, opSBC))
	def(0xFD, "SBC", readOp(kindAbsoluteX, opSBC))
	def(0xF9, "SBC", readOp(kindAbsoluteY, opSBC))
	def(0xE1, "SBC", readOp(kindIndirectX, opSBC))
	def(0xF1, "SBC", readOp(kindIndirectY, opSBC))
	def(0xEB, "SBC", readOp(kindImmediate, opSBC)) // unofficial USBC alias

	def(0xC9, "CMP", readOp(kindImmediate, opCMP))
	def(0xC5, "CMP", readOp(kindZeroPage, opCMP))
	def(0xD5, "CMP", readOp(kindZeroPageX, opCMP))
	def(0xCD, "CMP", readOp(kindAbsolute, opCMP))
	def(0xDD, "CMP", readOp(kindAbsoluteX, opCMP))
	def(0xD9, "CMP", readOp(kindAbsoluteY, opCMP))
	def(0xC1, "CMP", readOp(kindIndirectX, opCMP))
	def(0xD1, "CMP", readOp(kindIndirectY, opCMP))

	def(0xE0, "CPX", readOp(kindImmediate, opCPX))
	def(0xE4, "CPX", readOp(kindZeroPage, opCPX))
	def(0xEC, "CPX", readOp(kindAbsolute, opCPX))

	def(0xC0, "CPY", readOp(kindImmediate, opCPY))
	def(0xC4, "CPY", readOp(kindZeroPage, opCPY))
	def(0xCC, "CPY", readOp(kindAbsolute, opCPY))

	// Increments/decrements
	def(0xE6, "INC", rmwOp(kindZeroPage, rmwINC))
	def(0xF6, "INC", rmwOp(kindZeroPageX, rmwINC))
	def(0xEE, "INC", rmwOp(kindAbsolute, rmwINC))
	def(0xFE, "INC", rmwOp(kindAbsoluteX, rmwINC))
	def(0xE8, "INX", impliedOp(opINX))
	def(0xC8, "INY", impliedOp(opINY))

	def(0xC6, "DEC", rmwOp(kindZeroPage, rmwDEC))
	def(0xD6, "DEC", rmwOp(kindZeroPageX, rmwDEC))
	def(0xCE, "DEC", rmwOp(kindAbsolute, rmwDEC))
	def(0xDE, "DEC", rmwOp(kindAbsoluteX, rmwDEC))
	def(0xCA, "DEX", impliedOp(opDEX))
	def(0x88, "DEY", impliedOp(opDEY))

	// Shifts/rotates
	def(0x0A, "ASL", accumulatorOp(rmwASL))
	def(0x06, "ASL", rmwOp(kindZeroPage, rmwASL))
	def(0x16, "ASL", rmwOp(kindZeroPageX, rmwASL))
	def(0x0E, "ASL", rmwOp(kindAbsolute, rmwASL))
	def(0x1E, "ASL", rmwOp(kindAbsoluteX, rmwASL))

	def(0x4A, "LSR", accumulatorOp(rmwLSR))
	def(0x46, "LSR", rmwOp(kindZeroPage, rmwLSR))
	def(0x56, "LSR", rmwOp(kindZeroPageX, rmwLSR))
	def(0x4E, "LSR", rmwOp(kindAbsolute, rmwLSR))
	def(0x5E, "LSR", rmwOp(kindAbsoluteX, rmwLSR))

	def(0x2A, "ROL", accumulatorOp(rmwROL))
	def(0x26, "ROL", rmwOp(kindZeroPage, rmwROL))
	def(0x36, "ROL", rmwOp(kindZeroPageX, rmwROL))
	def(0x2E, "ROL", rmwOp(kindAbsolute, rmwROL))
	def(0x3E, "ROL", rmwOp(kindAbsoluteX, rmwROL))

	def(0x6A, "ROR", accumulatorOp(rmwROR))
	def(0x66, "ROR", rmwOp(kindZeroPage, rmwROR))
	def(0x76, "ROR", rmwOp(kindZeroPageX, rmwROR))
	def(0x6E, "ROR", rmwOp(kindAbsolute, rmwROR))
	def(0x7E, "ROR", rmwOp(kindAbsoluteX, rmwROR))

	// Jumps/calls
	def(0x4C, "JMP", jmpAbsOp())
	def(0x6C, "JMP", jmpIndOp())
	def(0x20, "JSR", jsrOp())
	def(0x60, "RTS", rtsOp())
	def(0x40, "RTI", rtiOp())

	// Branches
	def(0x90, "BCC", branchOp(FlagC, false))
	def(0xB0, "BCS", branchOp(FlagC, true))
	def(0xF0, "BEQ", branchOp(FlagZ, true))
	def(0xD0, "BNE", branchOp(FlagZ, false))
	def(0x30, "BMI", branchOp(FlagN, true))
	def(0x10, "BPL", branchOp(FlagN, false))
	def(0x50, "BVC", branchOp(FlagV, false))
	def(0x70, "BVS", branchOp(FlagV, true))

	// Status flag changes
	def(0x18, "CLC", impliedOp(opCLC))
	def(0x38, "SEC", impliedOp(opSEC))
	def(0x58, "CLI", impliedOp(opCLI))
	def(0x78, "SEI", impliedOp(opSEI))
	def(0xB8, "CLV", impliedOp(opCLV))
	def(0xD8, "CLD", impliedOp(opCLD))
	def(0xF8, "SED", impliedOp(opSED))

	// System
	def(0x00, "BRK", interruptTail(true, 0xFFFE))
	def(0xEA, "NOP", impliedOp(opNOP))

	// Unofficial: LAX (load A and X together)
	def(0xA7, "LAX", readOp(kindZeroPage, opLAX))
	def(0xB7, "LAX", readOp(kindZeroPageY, opLAX))
	def(0xAF, "LAX", readOp(kindAbsolute, opLAX))
	def(0xBF, "LAX", readOp(kindAbsoluteY, opLAX))
	def(0xA3, "LAX", readOp(kindIndirectX, opLAX))
	def(0xB3, "LAX", readOp(kindIndirectY, opLAX))

	// Unofficial: SAX (store A&X)
	def(0x87, "SAX", writeOp(kindZeroPage, opSAX))
	def(0x97, "SAX", writeOp(kindZeroPageY, opSAX))
	def(0x8F, "SAX", writeOp(kindAbsolute, opSAX))
	def(0x83, "SAX", writeOp(kindIndirectX, opSAX))

	// Unofficial: DCP (DEC then CMP)
	def(0xC7, "DCP", rmwOp(kindZeroPage, rmwDCP))
	def(0xD7, "DCP", rmwOp(kindZeroPageX, rmwDCP))
	def(0xCF, "DCP", rmwOp(kindAbsolute, rmwDCP))
	def(0xDF, "DCP", rmwOp(kindAbsoluteX, rmwDCP))
	def(0xDB, "DCP", rmwOp(kindAbsoluteY, rmwDCP))
	def(0xC3, "DCP", rmwOp(kindIndirectX, rmwDCP))
	def(0xD3, "DCP", rmwOp(kindIndirectY, rmwDCP))

	// Unofficial: ISC/ISB (INC then SBC)
	def(0xE7, "ISC", rmwOp(kindZeroPage, rmwISC))
	def(0xF7, "ISC", rmwOp(kindZeroPageX, rmwISC))
	def(0xEF, "ISC", rmwOp(kindAbsolute, rmwISC))
	def(0xFF, "ISC", rmwOp(kindAbsoluteX, rmwISC))
	def(0xFB, "ISC", rmwOp(kindAbsoluteY, rmwISC))
	def(0xE3, "ISC", rmwOp(kindIndirectX, rmwISC))
	def(0xF3, "ISC", rmwOp(kindIndirectY, rmwISC))

	// Unofficial: SLO (ASL then ORA)
	def(0x07, "SLO", rmwOp(kindZeroPage, rmwSLO))
	def(0x17, "SLO", rmwOp(kindZeroPageX, rmwSLO))
	def(0x0F, "SLO", rmwOp(kindAbsolute, rmwSLO))
	def(0x1F, "SLO", rmwOp(kindAbsoluteX, rmwSLO))
	def(0x1B, "SLO", rmwOp(kindAbsoluteY, rmwSLO))
	def(0x03, "SLO", rmwOp(kindIndirectX, rmwSLO))
	def(0x13, "SLO", rmwOp(kindIndirectY, rmwSLO))

	// Unofficial: RLA (ROL then AND)
	def(0x27, "RLA", rmwOp(kindZeroPage, rmwRLA))
	def(0x37, "RLA", rmwOp(kindZeroPageX, rmwRLA))
	def(0x2F, "RLA", rmwOp(kindAbsolute, rmwRLA))
	def(0x3F, "RLA", rmwOp(kindAbsoluteX, rmwRLA))
	def(0x3B, "RLA", rmwOp(kindAbsoluteY, rmwRLA))
	def(0x23, "RLA", rmwOp(kindIndirectX, rmwRLA))
	def(0x33, "RLA", rmwOp(kindIndirectY, rmwRLA))

	// Unofficial: SRE (LSR then EOR)
	def(0x47, "SRE", rmwOp(kindZeroPage, rmwSRE))
	def(0x57, "SRE", rmwOp(kindZeroPageX, rmwSRE))
	def(0x4F, "SRE", rmwOp(kindAbsolute, rmwSRE))
	def(0x5F, "SRE", rmwOp(kindAbsoluteX, rmwSRE))
	def(0x5B, "SRE", rmwOp(kindAbsoluteY, rmwSRE))
	def(0x43, "SRE", rmwOp(kindIndirectX, rmwSRE))
	def(0x53, "SRE", rmwOp(kindIndirectY, rmwSRE))

	// Unofficial: RRA (ROR then ADC)
	def(0x67, "RRA", rmwOp(kindZeroPage, rmwRRA))
	def(0x77, "RRA", rmwOp(kindZeroPageX, rmwRRA))
	def(0x6F, "RRA", rmwOp(kindAbsolute, rmwRRA))
	def(0x7F, "RRA", rmwOp(kindAbsoluteX, rmwRRA))
	def(0x7B, "RRA", rmwOp(kindAbsoluteY, rmwRRA))
	def(0x63, "RRA", rmwOp(kindIndirectX, rmwRRA))
	def(0x73, "RRA", rmwOp(kindIndirectY, rmwRRA))

	// Stable unofficial NOPs (with and without an operand fetch) — the set
	// games are documented to actually execute.
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		def(op, "NOP", impliedOp(opNOP))
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		def(op, "NOP", readOp(kindImmediate, opNOPRead))
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		def(op, "NOP", readOp(kindZeroPage, opNOPRead))
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		def(op, "NOP", readOp(kindZeroPageX, opNOPRead))
	}
	def(0x0C, "NOP", readOp(kindAbsolute, opNOPRead))
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		def(op, "NOP", readOp(kindAbsoluteX, opNOPRead))
	}
}
