package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testDMCBus struct {
	mem     [0x10000]byte
	stalled int
}

func (b *testDMCBus) DMARead(addr uint16) uint8 { return b.mem[addr] }
func (b *testDMCBus) StallCPU(cycles int)       { b.stalled += cycles }

func newTestAPU() (*APU, *testDMCBus) {
	bus := &testDMCBus{}
	return New(bus, 48000), bus
}

func TestPulseLengthCounterMutesChannel(t *testing.T) {
	a, _ := newTestAPU()
	a.WriteRegister(0x4000, 0x30) // halt + constant volume 0
	a.WriteRegister(0x4002, 0x00)
	a.WriteRegister(0x4003, 0x08) // length load index 1 -> 254, timer high bits 0
	assert.True(t, a.pulse1.Enabled())

	a.WriteRegister(0x4015, 0x00) // disable clears length counter
	assert.False(t, a.pulse1.Enabled())
}

func TestSweepNegateDiffersByChannel(t *testing.T) {
	pulse1 := newPulse(true)
	pulse2 := newPulse(false)
	pulse1.timer.period = 100
	pulse2.timer.period = 100
	pulse1.sweep.negate = true
	pulse2.sweep.negate = true
	pulse1.sweep.shift = 1
	pulse2.sweep.shift = 1

	target1 := pulse1.sweep.targetPeriod(pulse1.timer.period)
	target2 := pulse2.sweep.targetPeriod(pulse2.timer.period)
	assert.Equal(t, uint16(49), target1, "pulse 1 negates with the ones' complement, one lower than pulse 2")
	assert.Equal(t, uint16(50), target2, "pulse 2 negates with the two's complement")
}

func TestFrameSequencerRaisesIRQOnFourStepMode(t *testing.T) {
	a, _ := newTestAPU()
	a.WriteRegister(0x4017, 0x00) // 4-step, IRQ enabled

	for i := 0; i < 29829; i++ {
		a.Tick()
	}
	assert.True(t, a.frameIRQ)
}

func TestFrameSequencerFiveStepNeverSetsIRQ(t *testing.T) {
	a, _ := newTestAPU()
	a.WriteRegister(0x4017, 0x80) // 5-step

	for i := 0; i < 37281*2; i++ {
		a.Tick()
	}
	assert.False(t, a.frameIRQ)
}

func TestStatusReadClearsFrameIRQButNotDMCIRQ(t *testing.T) {
	a, _ := newTestAPU()
	a.frameIRQ = true
	a.dmc.irqFlag = true

	status := a.ReadRegister()
	assert.True(t, status&0x40 != 0)
	assert.True(t, status&0x80 != 0)
	assert.False(t, a.frameIRQ)
	assert.True(t, a.dmc.irqFlag)
}

func TestDMCFetchesSampleAndStallsCPU(t *testing.T) {
	a, bus := newTestAPU()
	bus.mem[0xC000] = 0xFF
	a.WriteRegister(0x4012, 0x00) // sample addr $C000
	a.WriteRegister(0x4013, 0x00) // sample len 1 byte
	a.WriteRegister(0x4015, 0x10) // enable DMC, starts sample since len was 0

	for i := 0; i < 1000; i++ {
		a.dmc.Tick()
	}
	assert.Equal(t, 1, bus.stalled)
}

func TestMixPulsesIsZeroWhenSilent(t *testing.T) {
	assert.Equal(t, float64(0), mixPulses(0, 0))
}

func TestMixTNDIsZeroWhenSilent(t *testing.T) {
	assert.Equal(t, float64(0), mixTND(0, 0, 0))
}

func TestTriangleAdvancesWhenLengthAndLinearCounterNonzero(t *testing.T) {
	tr := &Triangle{}
	tr.WriteControl(0x7F) // linear counter load 127, control clear
	tr.WriteTimerLow(0x10)
	tr.WriteTimerHigh(0x08) // length load index 1

	for i := 0; i < 10; i++ {
		tr.QuarterFrameTick() // reload linear counter
		tr.Tick()
	}
	assert.NotEqual(t, uint8(0), tr.step, "sequencer should have advanced once gated on")
}
