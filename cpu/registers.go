package cpu

import (
	"fmt"

	"github.com/embervale/nescore/memory"
)

// Status flag bit positions within the processor status register.
const (
	FlagC = 1 << 0 // Carry
	FlagZ = 1 << 1 // Zero
	FlagI = 1 << 2 // Interrupt disable
	FlagD = 1 << 3 // Decimal (accepted, arithmetic effect not implemented)
	FlagB = 1 << 4 // Break (only meaningful in the pushed copy)
	FlagU = 1 << 5 // Unused, always reads 1
	FlagV = 1 << 6 // Overflow
	FlagN = 1 << 7 // Negative
)

// Registers holds the 2A03's visible register file, kept flat rather than
// grouped into nested structs: the CPU has exactly six registers and they
// are named directly.
type Registers struct {
	A  memory.Register
	X  memory.Register
	Y  memory.Register
	SP memory.Register
	PC memory.Register16
	P  uint8
}

func (r *Registers) init() {
	r.A.Init("A", 0)
	r.X.Init("X", 0)
	r.Y.Init("Y", 0)
	r.SP.Init("SP", 0xFD)
	r.PC.Init("PC", 0)
	r.P = FlagI | FlagU
}

func (r *Registers) setZN(v uint8) {
	if v == 0 {
		r.P |= FlagZ
	} else {
		r.P &^= FlagZ
	}
	if v&0x80 != 0 {
		r.P |= FlagN
	} else {
		r.P &^= FlagN
	}
}

func (r *Registers) setFlag(flag uint8, set bool) {
	if set {
		r.P |= flag
	} else {
		r.P &^= flag
	}
}

func (r *Registers) flag(flag uint8) bool { return r.P&flag != 0 }

func (r Registers) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X SP:%02X PC:%04X P:%02X", r.A.Read(), r.X.Read(), r.Y.Read(), r.SP.Read(), r.PC.Read(), r.P)
}
