package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBus is a flat 64 KiB RAM used to drive the CPU in isolation: a plain
// array behind the interface, no real PPU/APU wired in.
type testBus struct {
	ram    [65536]byte
	cycles int
}

func (b *testBus) Read8(addr uint16) uint8     { return b.ram[addr] }
func (b *testBus) Write8(addr uint16, v uint8) { b.ram[addr] = v }
func (b *testBus) ClockCycle()                 { b.cycles++ }

func newTestCPU(program []byte) (*CPU, *testBus) {
	bus := &testBus{}
	copy(bus.ram[0x8000:], program)
	bus.ram[0xFFFC] = 0x00
	bus.ram[0xFFFD] = 0x80
	c := New(bus)
	c.Reset()
	for c.stallCycles > 0 {
		c.Step()
	}
	return c, bus
}

// runInstruction drives the CPU one cycle at a time through Step until it
// reaches the next instruction boundary, returning how many cycles the
// instruction (or interrupt sequence) actually took.
func runInstruction(c *CPU) int {
	cycles := 0
	for {
		c.Step()
		cycles++
		if c.AtInstructionBoundary() {
			return cycles
		}
	}
}

func TestLDAImmediateSetsZeroAndNegativeFlags(t *testing.T) {
	c, _ := newTestCPU([]byte{0xA9, 0x00, 0xA9, 0x80})
	runInstruction(c)
	assert.Equal(t, uint8(0), c.Rg.A.Read())
	assert.True(t, c.Rg.flag(FlagZ))
	assert.False(t, c.Rg.flag(FlagN))

	runInstruction(c)
	assert.Equal(t, uint8(0x80), c.Rg.A.Read())
	assert.False(t, c.Rg.flag(FlagZ))
	assert.True(t, c.Rg.flag(FlagN))
}

func TestADCSetsCarryAndOverflow(t *testing.T) {
	c, _ := newTestCPU([]byte{0xA9, 0x7F, 0x69, 0x01})
	runInstruction(c) // LDA #$7F
	runInstruction(c) // ADC #$01 -> 0x80, signed overflow
	assert.Equal(t, uint8(0x80), c.Rg.A.Read())
	assert.True(t, c.Rg.flag(FlagV))
	assert.False(t, c.Rg.flag(FlagC))
}

func TestJSRRTSRoundTrips(t *testing.T) {
	program := []byte{
		0x20, 0x05, 0x80, // JSR $8005
		0x00, // BRK (should be skipped)
		0xEA, // padding
		0x60, // RTS at $8005
	}
	c, _ := newTestCPU(program)
	cycles := runInstruction(c) // JSR
	require.Equal(t, 6, cycles)
	assert.Equal(t, uint16(0x8005), c.Rg.PC.Read())
	cycles = runInstruction(c) // RTS
	require.Equal(t, 6, cycles)
	assert.Equal(t, uint16(0x8003), c.Rg.PC.Read())
}

func TestBranchTakenAddsCycles(t *testing.T) {
	program := []byte{0xA9, 0x00, 0xF0, 0x02, 0xEA, 0xEA, 0xEA}
	c, bus := newTestCPU(program)
	runInstruction(c) // LDA #$00
	before := bus.cycles
	cycles := runInstruction(c) // BEQ, taken, no page cross
	require.Equal(t, 3, cycles)
	assert.Equal(t, before+3, bus.cycles)
}

func TestStackPushPull(t *testing.T) {
	c, _ := newTestCPU([]byte{0xA9, 0x42, 0x48, 0xA9, 0x00, 0x68})
	runInstruction(c) // LDA #$42
	runInstruction(c) // PHA
	runInstruction(c) // LDA #$00
	runInstruction(c) // PLA
	assert.Equal(t, uint8(0x42), c.Rg.A.Read())
}

func TestResetSequenceSetsPCFromVectorAndDecrementsSP(t *testing.T) {
	bus := &testBus{}
	bus.ram[0xFFFC] = 0x34
	bus.ram[0xFFFD] = 0x12
	c := New(bus)
	initialSP := c.Rg.SP.Read()
	c.Reset()
	assert.Equal(t, uint16(0x1234), c.Rg.PC.Read())
	assert.Equal(t, initialSP-3, c.Rg.SP.Read())
	assert.True(t, c.Rg.flag(FlagI))
}

func TestNMIPushesStateAndJumpsToVector(t *testing.T) {
	bus := &testBus{}
	bus.ram[0xFFFA] = 0x00
	bus.ram[0xFFFB] = 0x90
	bus.ram[0xFFFC] = 0x00
	bus.ram[0xFFFD] = 0x80
	c := New(bus)
	c.Reset()
	for c.stallCycles > 0 {
		c.Step()
	}
	c.SetNMI(true)
	cycles := runInstruction(c)
	require.Equal(t, 7, cycles)
	assert.Equal(t, uint16(0x9000), c.Rg.PC.Read())
}

func TestCLIDelaysIRQRecognitionByOneInstruction(t *testing.T) {
	program := []byte{0x58, 0xEA, 0xEA, 0xEA} // CLI, NOP, NOP, NOP
	c, bus := newTestCPU(program)
	bus.ram[0xFFFE] = 0x00
	bus.ram[0xFFFF] = 0x90
	require.True(t, c.Rg.flag(FlagI), "reset leaves interrupts masked")
	c.SetIRQ(true)

	runInstruction(c) // CLI
	require.False(t, c.Rg.flag(FlagI))

	pcAfterCLI := c.Rg.PC.Read()
	runInstruction(c) // the instruction right after CLI must not be hijacked
	assert.Equal(t, pcAfterCLI+1, c.Rg.PC.Read(), "IRQ recognition is delayed one instruction past CLI")

	runInstruction(c) // only now does the pending IRQ get serviced
	assert.Equal(t, uint16(0x9000), c.Rg.PC.Read())
}

func TestOAMDMAStallConsumesCyclesWithoutExecuting(t *testing.T) {
	c, bus := newTestCPU([]byte{0xEA})
	c.Stall(513)
	total := 0
	for c.stallCycles > 0 {
		total += c.Step()
	}
	assert.Equal(t, 513, total)
	assert.Equal(t, uint16(0x8000), c.Rg.PC.Read())
	_ = bus
}
