package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildNROM assembles a minimal iNES image (mapper 0, one 16KiB PRG bank,
// one 8KiB CHR bank) with program bytes placed at the reset vector, in the
// style of cpu_test.go's plain-byte-array test fixtures.
func buildNROM(program []byte) []byte {
	rom := make([]byte, 16+16384+8192)
	copy(rom[0:4], []byte{'N', 'E', 'S', 0x1A})
	rom[4] = 1 // 1x16KiB PRG
	rom[5] = 1 // 1x8KiB CHR

	prg := rom[16 : 16+16384]
	copy(prg, program)
	// reset vector at $FFFC-$FFFD -> $8000
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80
	return rom
}

func newTestNES(t *testing.T, program []byte) *NES {
	t.Helper()
	n, err := New(buildNROM(program))
	require.NoError(t, err)
	return n
}

func TestNewRejectsBadMagic(t *testing.T) {
	_, err := New([]byte("not a rom"))
	assert.Error(t, err)
}

func TestRunFrameCompletesAndInvokesFrameCallback(t *testing.T) {
	frames := 0
	var lastAudio []float32
	n, err := New(buildNROM([]byte{0x4C, 0x00, 0x80}), // JMP $8000, infinite loop
		WithFrameCallback(func(f *[256 * 240]uint8) { frames++ }),
		WithAudioCallback(func(samples []float32) { lastAudio = samples }),
	)
	require.NoError(t, err)

	n.RunFrame()
	assert.Equal(t, 1, frames)
	assert.NotNil(t, lastAudio)
}

func TestPollInputsSampledOncePerFrame(t *testing.T) {
	n := newTestNES(t, []byte{0x4C, 0x00, 0x80})
	polls := 0
	n.inputs = pollFunc(func(port int) uint8 {
		polls++
		if port == 0 {
			return 0x01 // A held
		}
		return 0
	})

	n.RunFrame()
	assert.Equal(t, 2, polls, "one poll per port per frame")
	assert.Equal(t, uint8(0x01), n.ctrl.buttons[0])
}

func TestOAMDMAStallsCPUAndWritesOAM(t *testing.T) {
	n := newTestNES(t, nil)
	// Fill page $02 of RAM with a marker pattern.
	for i := 0; i < 256; i++ {
		n.bus.ram[0x0200+i] = 0xAB
	}
	before := n.cpu.Stalled()
	n.bus.Write8(0x4014, 0x02)
	assert.Equal(t, 513, n.cpu.Stalled()-before, "DMA started on an even CPU cycle stalls 513 cycles")
	assert.Equal(t, uint8(0xAB), n.ppu.ReadRegister(4), "OAM byte 0 holds the copied marker")
}

type pollFunc func(port int) uint8

func (f pollFunc) PollInputs(port int) uint8 { return f(port) }
