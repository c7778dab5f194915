package cpu

// addrKind selects which cycle-by-cycle bus-access pattern a read/write/
// read-modify-write instruction uses to form its effective address. Each
// builder below reproduces the exact sequence of accesses real hardware
// performs for that combination, including the dummy reads/writes that
// have no effect on the result but still tick PPU/APU/mapper state on
// their real cycle.
type addrKind int

const (
	kindImmediate addrKind = iota
	kindZeroPage
	kindZeroPageX
	kindZeroPageY
	kindAbsolute
	kindAbsoluteX
	kindAbsoluteY
	kindIndirectX
	kindIndirectY
)

func (c *CPU) indexReg(kind addrKind) uint8 {
	switch kind {
	case kindZeroPageX, kindAbsoluteX:
		return c.Rg.X.Read()
	case kindZeroPageY, kindAbsoluteY:
		return c.Rg.Y.Read()
	}
	return 0
}

// readOp builds the micro-op queue for an instruction that only reads an
// operand and folds the result into commit. Indexed absolute/indirect-Y
// modes append their operand-read cycle(s) lazily once the effective
// address (and whether it crossed a page) is known, so the queue only
// grows the extra cycle when hardware actually spends it.
func readOp(kind addrKind, commit func(c *CPU, v uint8)) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		switch kind {
		case kindImmediate:
			return []microOp{
				func(c *CPU) { commit(c, c.fetch8()) },
			}
		case kindZeroPage:
			return []microOp{
				func(c *CPU) { c.opAddr = uint16(c.fetch8()) },
				func(c *CPU) { commit(c, c.read8(c.opAddr)) },
			}
		case kindZeroPageX, kindZeroPageY:
			return []microOp{
				func(c *CPU) { c.opBaseLo = c.fetch8() },
				func(c *CPU) {
					c.read8(uint16(c.opBaseLo))
					c.opAddr = uint16(c.opBaseLo + c.indexReg(kind))
				},
				func(c *CPU) { commit(c, c.read8(c.opAddr)) },
			}
		case kindAbsolute:
			return []microOp{
				func(c *CPU) { c.opBaseLo = c.fetch8() },
				func(c *CPU) { hi := c.fetch8(); c.opAddr = uint16(c.opBaseLo) | uint16(hi)<<8 },
				func(c *CPU) { commit(c, c.read8(c.opAddr)) },
			}
		case kindAbsoluteX, kindAbsoluteY:
			return []microOp{
				func(c *CPU) { c.opBaseLo = c.fetch8() },
				func(c *CPU) {
					hi := c.fetch8()
					base := uint16(c.opBaseLo) | uint16(hi)<<8
					index := c.indexReg(kind)
					final := base + uint16(index)
					c.opAddr = (base & 0xFF00) | uint16(uint8(base)+index)
					c.opFinal = final
					if pageCrossed(base, final) {
						c.queue = append(c.queue,
							func(c *CPU) { c.read8(c.opAddr) },
							func(c *CPU) { commit(c, c.read8(c.opFinal)) },
						)
					} else {
						c.opAddr = final
						c.queue = append(c.queue, func(c *CPU) { commit(c, c.read8(c.opAddr)) })
					}
				},
			}
		case kindIndirectX:
			return []microOp{
				func(c *CPU) { c.opPtr = c.fetch8() },
				func(c *CPU) { c.read8(uint16(c.opPtr)); c.opPtr += c.Rg.X.Read() },
				func(c *CPU) { c.opBaseLo = c.read8(uint16(c.opPtr)) },
				func(c *CPU) { hi := c.read8(uint16(c.opPtr + 1)); c.opAddr = uint16(c.opBaseLo) | uint16(hi)<<8 },
				func(c *CPU) { commit(c, c.read8(c.opAddr)) },
			}
		case kindIndirectY:
			return []microOp{
				func(c *CPU) { c.opPtr = c.fetch8() },
				func(c *CPU) { c.opBaseLo = c.read8(uint16(c.opPtr)) },
				func(c *CPU) {
					hi := c.read8(uint16(c.opPtr + 1))
					base := uint16(c.opBaseLo) | uint16(hi)<<8
					final := base + uint16(c.Rg.Y.Read())
					c.opAddr = (base & 0xFF00) | uint16(uint8(base)+c.Rg.Y.Read())
					c.opFinal = final
					if pageCrossed(base, final) {
						c.queue = append(c.queue,
							func(c *CPU) { c.read8(c.opAddr) },
							func(c *CPU) { commit(c, c.read8(c.opFinal)) },
						)
					} else {
						c.opAddr = final
						c.queue = append(c.queue, func(c *CPU) { commit(c, c.read8(c.opAddr)) })
					}
				},
			}
		}
		panic("readOp: unhandled addressing kind")
	}
}

// writeOp builds the micro-op queue for a store instruction. Unlike reads,
// indexed absolute/indirect-Y stores always spend the extra cycle: real
// hardware can't skip forming the corrected address just because the value
// being written doesn't depend on the read it throws away.
func writeOp(kind addrKind, value func(c *CPU) uint8) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		switch kind {
		case kindZeroPage:
			return []microOp{
				func(c *CPU) { c.opAddr = uint16(c.fetch8()) },
				func(c *CPU) { c.write8(c.opAddr, value(c)) },
			}
		case kindZeroPageX, kindZeroPageY:
			return []microOp{
				func(c *CPU) { c.opBaseLo = c.fetch8() },
				func(c *CPU) { c.read8(uint16(c.opBaseLo)); c.opAddr = uint16(c.opBaseLo + c.indexReg(kind)) },
				func(c *CPU) { c.write8(c.opAddr, value(c)) },
			}
		case kindAbsolute:
			return []microOp{
				func(c *CPU) { c.opBaseLo = c.fetch8() },
				func(c *CPU) { hi := c.fetch8(); c.opAddr = uint16(c.opBaseLo) | uint16(hi)<<8 },
				func(c *CPU) { c.write8(c.opAddr, value(c)) },
			}
		case kindAbsoluteX, kindAbsoluteY:
			return []microOp{
				func(c *CPU) { c.opBaseLo = c.fetch8() },
				func(c *CPU) {
					hi := c.fetch8()
					base := uint16(c.opBaseLo) | uint16(hi)<<8
					index := c.indexReg(kind)
					c.opAddr = (base & 0xFF00) | uint16(uint8(base)+index)
					c.opFinal = base + uint16(index)
				},
				func(c *CPU) { c.read8(c.opAddr) },
				func(c *CPU) { c.write8(c.opFinal, value(c)) },
			}
		case kindIndirectX:
			return []microOp{
				func(c *CPU) { c.opPtr = c.fetch8() },
				func(c *CPU) { c.read8(uint16(c.opPtr)); c.opPtr += c.Rg.X.Read() },
				func(c *CPU) { c.opBaseLo = c.read8(uint16(c.opPtr)) },
				func(c *CPU) { hi := c.read8(uint16(c.opPtr + 1)); c.opAddr = uint16(c.opBaseLo) | uint16(hi)<<8 },
				func(c *CPU) { c.write8(c.opAddr, value(c)) },
			}
		case kindIndirectY:
			return []microOp{
				func(c *CPU) { c.opPtr = c.fetch8() },
				func(c *CPU) { c.opBaseLo = c.read8(uint16(c.opPtr)) },
				func(c *CPU) {
					hi := c.read8(uint16(c.opPtr + 1))
					base := uint16(c.opBaseLo) | uint16(hi)<<8
					c.opFinal = base + uint16(c.Rg.Y.Read())
					c.opAddr = (base & 0xFF00) | uint16(uint8(base)+c.Rg.Y.Read())
				},
				func(c *CPU) { c.read8(c.opAddr) },
				func(c *CPU) { c.write8(c.opFinal, value(c)) },
			}
		}
		panic("writeOp: unhandled addressing kind")
	}
}

// rmwOp builds the micro-op queue for a read-modify-write instruction:
// read the old value, write it straight back unmodified (the dummy
// write-back real 6502 hardware always performs before committing the
// real result), then write transform's result. Indexed forms always take
// the full fixed cycle count regardless of page crossing, matching
// hardware exactly rather than approximating it as a conditional cycle.
func rmwOp(kind addrKind, transform func(c *CPU, v uint8) uint8) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		switch kind {
		case kindZeroPage:
			return []microOp{
				func(c *CPU) { c.opAddr = uint16(c.fetch8()) },
				func(c *CPU) { c.opVal = c.read8(c.opAddr) },
				func(c *CPU) { c.write8(c.opAddr, c.opVal) },
				func(c *CPU) { c.write8(c.opAddr, transform(c, c.opVal)) },
			}
		case kindZeroPageX:
			return []microOp{
				func(c *CPU) { c.opBaseLo = c.fetch8() },
				func(c *CPU) { c.read8(uint16(c.opBaseLo)); c.opAddr = uint16(c.opBaseLo + c.Rg.X.Read()) },
				func(c *CPU) { c.opVal = c.read8(c.opAddr) },
				func(c *CPU) { c.write8(c.opAddr, c.opVal) },
				func(c *CPU) { c.write8(c.opAddr, transform(c, c.opVal)) },
			}
		case kindAbsolute:
			return []microOp{
				func(c *CPU) { c.opBaseLo = c.fetch8() },
				func(c *CPU) { hi := c.fetch8(); c.opAddr = uint16(c.opBaseLo) | uint16(hi)<<8 },
				func(c *CPU) { c.opVal = c.read8(c.opAddr) },
				func(c *CPU) { c.write8(c.opAddr, c.opVal) },
				func(c *CPU) { c.write8(c.opAddr, transform(c, c.opVal)) },
			}
		case kindAbsoluteX, kindAbsoluteY:
			return []microOp{
				func(c *CPU) { c.opBaseLo = c.fetch8() },
				func(c *CPU) {
					hi := c.fetch8()
					base := uint16(c.opBaseLo) | uint16(hi)<<8
					index := c.indexReg(kind)
					c.opAddr = (base & 0xFF00) | uint16(uint8(base)+index)
					c.opFinal = base + uint16(index)
				},
				func(c *CPU) { c.read8(c.opAddr) },
				func(c *CPU) { c.opVal = c.read8(c.opFinal) },
				func(c *CPU) { c.write8(c.opFinal, c.opVal) },
				func(c *CPU) { c.write8(c.opFinal, transform(c, c.opVal)) },
			}
		case kindIndirectX:
			return []microOp{
				func(c *CPU) { c.opPtr = c.fetch8() },
				func(c *CPU) { c.read8(uint16(c.opPtr)); c.opPtr += c.Rg.X.Read() },
				func(c *CPU) { c.opBaseLo = c.read8(uint16(c.opPtr)) },
				func(c *CPU) { hi := c.read8(uint16(c.opPtr + 1)); c.opAddr = uint16(c.opBaseLo) | uint16(hi)<<8 },
				func(c *CPU) { c.opVal = c.read8(c.opAddr) },
				func(c *CPU) { c.write8(c.opAddr, c.opVal) },
				func(c *CPU) { c.write8(c.opAddr, transform(c, c.opVal)) },
			}
		case kindIndirectY:
			return []microOp{
				func(c *CPU) { c.opPtr = c.fetch8() },
				func(c *CPU) { c.opBaseLo = c.read8(uint16(c.opPtr)) },
				func(c *CPU) {
					hi := c.read8(uint16(c.opPtr + 1))
					base := uint16(c.opBaseLo) | uint16(hi)<<8
					c.opFinal = base + uint16(c.Rg.Y.Read())
					c.opAddr = (base & 0xFF00) | uint16(uint8(base)+c.Rg.Y.Read())
				},
				func(c *CPU) { c.read8(c.opAddr) },
				func(c *CPU) { c.opVal = c.read8(c.opFinal) },
				func(c *CPU) { c.write8(c.opFinal, c.opVal) },
				func(c *CPU) { c.write8(c.opFinal, transform(c, c.opVal)) },
			}
		}
		panic("rmwOp: unhandled addressing kind")
	}
}

// accumulatorOp builds the 1-cycle-remaining queue shared by ASL/LSR/ROL/
// ROR's accumulator form: a dummy fetch of the next opcode byte (thrown
// away, PC not advanced) on the same cycle the ALU operation happens.
func accumulatorOp(transform func(c *CPU, v uint8) uint8) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) {
				c.read8(c.Rg.PC.Read())
				c.Rg.A.Write(transform(c, c.Rg.A.Read()))
			},
		}
	}
}

// impliedOp builds the 1-cycle-remaining queue for register-only
// instructions (flag changes, transfers, INX/DEX/...): a dummy fetch of
// the next opcode byte, with the register/flag effect folded into the
// same cycle.
func impliedOp(action func(c *CPU)) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) { c.read8(c.Rg.PC.Read()); action(c) },
		}
	}
}

// pushOp builds PHA/PHP's queue: a dummy fetch, then the actual push.
func pushOp(value func(c *CPU) uint8) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) { c.read8(c.Rg.PC.Read()) },
			func(c *CPU) { c.push8(value(c)) },
		}
	}
}

// pullOp builds PLA/PLP's queue: a dummy fetch, a dummy read of the stack
// slot before S is incremented, then the real pull.
func pullOp(commit func(c *CPU, v uint8)) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) { c.read8(c.Rg.PC.Read()) },
			func(c *CPU) { c.read8(0x100 + uint16(c.Rg.SP.Read())) },
			func(c *CPU) { commit(c, c.pull8()) },
		}
	}
}

// branchOp builds a conditional branch's variable-length queue: the
// offset fetch always happens; a taken branch appends a cycle that
// commits the low-byte-adjusted PC, which in turn appends one more cycle
// to fix the high byte only if that adjustment crossed a page.
func branchOp(flag uint8, when bool) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) {
				offset := int8(c.fetch8())
				if c.Rg.flag(flag) != when {
					return
				}
				oldPC := c.Rg.PC.Read()
				target := uint16(int32(oldPC) + int32(offset))
				c.queue = append(c.queue, func(c *CPU) {
					c.Rg.PC.Write((oldPC &^ 0xFF) | (target & 0xFF))
					if pageCrossed(oldPC, target) {
						c.queue = append(c.queue, func(c *CPU) { c.Rg.PC.Write(target) })
					}
				})
			},
		}
	}
}

// jmpAbsOp builds JMP $nnnn's 2-cycle-remaining queue.
func jmpAbsOp() func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) { c.opBaseLo = c.fetch8() },
			func(c *CPU) { hi := c.fetch8(); c.Rg.PC.Write(uint16(c.opBaseLo) | uint16(hi)<<8) },
		}
	}
}

// jmpIndOp builds JMP ($nnnn)'s 4-cycle-remaining queue, reproducing the
// well-known page-wrap bug: if the pointer's low byte is 0xFF, the high
// byte of the target is fetched from the start of the same page rather
// than crossing into the next one.
func jmpIndOp() func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) { c.opBaseLo = c.fetch8() },
			func(c *CPU) { hi := c.fetch8(); c.opAddr = uint16(c.opBaseLo) | uint16(hi)<<8 },
			func(c *CPU) { c.opVal = c.read8(c.opAddr) },
			func(c *CPU) {
				hiAddr := (c.opAddr & 0xFF00) | uint16(uint8(c.opAddr)+1)
				hi := c.read8(hiAddr)
				c.Rg.PC.Write(uint16(c.opVal) | uint16(hi)<<8)
			},
		}
	}
}

// jsrOp builds JSR's 5-cycle-remaining queue. PC is pushed after the
// target's low byte has been fetched (advancing PC past it) but before
// the high byte fetch, so it naturally points at the instruction's last
// byte the way real hardware leaves it for RTS to correct.
func jsrOp() func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) { c.opBaseLo = c.fetch8() },
			func(c *CPU) { c.read8(0x100 + uint16(c.Rg.SP.Read())) },
			func(c *CPU) { c.push8(uint8(c.Rg.PC.Read() >> 8)) },
			func(c *CPU) { c.push8(uint8(c.Rg.PC.Read())) },
			func(c *CPU) { hi := c.fetch8(); c.Rg.PC.Write(uint16(c.opBaseLo) | uint16(hi)<<8) },
		}
	}
}

// rtsOp builds RTS's 5-cycle-remaining queue.
func rtsOp() func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) { c.read8(c.Rg.PC.Read()) },
			func(c *CPU) { c.read8(0x100 + uint16(c.Rg.SP.Read())) },
			func(c *CPU) { c.opBaseLo = c.pull8() },
			func(c *CPU) { hi := c.pull8(); c.opAddr = uint16(c.opBaseLo) | uint16(hi)<<8 },
			func(c *CPU) { c.read8(c.opAddr); c.Rg.PC.Write(c.opAddr + 1) },
		}
	}
}

// rtiOp builds RTI's 5-cycle-remaining queue.
func rtiOp() func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) { c.read8(c.Rg.PC.Read()) },
			func(c *CPU) { c.read8(0x100 + uint16(c.Rg.SP.Read())) },
			func(c *CPU) { c.Rg.P = (c.pull8() &^ FlagB) | FlagU },
			func(c *CPU) { c.opBaseLo = c.pull8() },
			func(c *CPU) { hi := c.pull8(); c.Rg.PC.Write(uint16(c.opBaseLo) | uint16(hi)<<8) },
		}
	}
}

// interruptTail builds the 6-cycle-remaining queue shared by BRK, NMI and
// IRQ: one padding/dummy read, push PCH/PCL/P, then fetch the vector.
// BRK's padding cycle advances PC past the signature byte that follows
// the opcode; a hardware interrupt's padding cycle is a dummy re-read of
// the not-yet-executed opcode's address, PC left untouched.
func interruptTail(brk bool, vector uint16) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{
			func(c *CPU) {
				if brk {
					c.fetch8()
				} else {
					c.read8(c.Rg.PC.Read())
				}
			},
			func(c *CPU) { c.push8(uint8(c.Rg.PC.Read() >> 8)) },
			func(c *CPU) { c.push8(uint8(c.Rg.PC.Read())) },
			func(c *CPU) {
				flags := c.Rg.P | FlagU
				if brk {
					flags |= FlagB
				} else {
					flags &^= FlagB
				}
				c.push8(flags)
			},
			func(c *CPU) { c.opBaseLo = c.read8(vector); c.Rg.P |= FlagI },
			func(c *CPU) { hi := c.read8(vector + 1); c.Rg.PC.Write(uint16(c.opBaseLo) | uint16(hi)<<8) },
		}
	}
}
