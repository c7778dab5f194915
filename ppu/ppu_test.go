package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embervale/nescore/cartridge"
)

// testBus is a flat 8KiB CHR RAM plus a settable mirroring mode, in the
// style of cpu_test.go's testBus stub.
type testBus struct {
	chr       [0x2000]byte
	mirroring cartridge.Mirroring
	a12Rises  int
}

func (b *testBus) PPURead(addr uint16) uint8     { return b.chr[addr&0x1FFF] }
func (b *testBus) PPUWrite(addr uint16, v uint8) { b.chr[addr&0x1FFF] = v }
func (b *testBus) Mirroring() cartridge.Mirroring { return b.mirroring }
func (b *testBus) OnA12Edge(rising bool) {
	if rising {
		b.a12Rises++
	}
}

type testNMI struct{ asserted bool }

func (n *testNMI) SetNMI(asserted bool) { n.asserted = asserted }

func newTestPPU() (*PPU, *testBus, *testNMI) {
	bus := &testBus{mirroring: cartridge.MirrorVertical}
	nmi := &testNMI{}
	return New(bus, nmi), bus, nmi
}

func TestPPUAddrWriteSetsVRAMAddress(t *testing.T) {
	p, _, _ := newTestPPU()
	p.WriteRegister(6, 0x21)
	p.WriteRegister(6, 0x08)
	assert.Equal(t, uint16(0x2108), uint16(p.v))
}

func TestPPUDataWriteReadThroughNametableIsBuffered(t *testing.T) {
	p, _, _ := newTestPPU()
	p.WriteRegister(6, 0x20)
	p.WriteRegister(6, 0x00)
	p.WriteRegister(7, 0x42)

	p.WriteRegister(6, 0x20)
	p.WriteRegister(6, 0x00)
	first := p.ReadRegister(7)
	assert.NotEqual(t, uint8(0x42), first, "first PPUDATA read returns the stale buffer, not the just-written byte")
	second := p.ReadRegister(7)
	assert.Equal(t, uint8(0x42), second)
}

func TestPPUDataPaletteReadIsNotBuffered(t *testing.T) {
	p, _, _ := newTestPPU()
	p.WriteRegister(6, 0x3F)
	p.WriteRegister(6, 0x00)
	p.WriteRegister(7, 0x16)

	p.WriteRegister(6, 0x3F)
	p.WriteRegister(6, 0x00)
	val := p.ReadRegister(7)
	assert.Equal(t, uint8(0x16), val, "palette reads bypass the read buffer")
}

func TestPPUStatusReadClearsVBlankAndWriteToggle(t *testing.T) {
	p, _, _ := newTestPPU()
	p.status |= statusVBlank
	p.writeToggle = true
	val := p.ReadRegister(2)
	assert.True(t, val&statusVBlank != 0)
	assert.False(t, p.status&statusVBlank != 0)
	assert.False(t, p.writeToggle)
}

func TestOAMDataWriteAdvancesAddrReadDoesNot(t *testing.T) {
	p, _, _ := newTestPPU()
	p.WriteRegister(3, 0x10)
	p.WriteRegister(4, 0xAB)
	assert.Equal(t, uint8(0x11), p.oamAddr)

	p.WriteRegister(3, 0x10)
	got := p.ReadRegister(4)
	assert.Equal(t, uint8(0xAB), got)
	assert.Equal(t, uint8(0x10), p.oamAddr)
}

func TestOAMDataDuringRenderingReadsFFAndWriteGlitchesAddr(t *testing.T) {
	p, _, _ := newTestPPU()
	p.WriteRegister(1, 0x18) // show background + sprites
	p.oamAddr = 0x10
	p.oam[0x10] = 0xAB
	p.scanline = 100
	p.cycle = 10 // inside the 1-64 clear window

	got := p.ReadRegister(4)
	assert.Equal(t, uint8(0xFF), got, "OAMDATA reads during the evaluation window expose the clear, not OAM contents")

	p.WriteRegister(4, 0x77)
	assert.Equal(t, uint8(0x14), p.oamAddr, "OAMDATA writes during rendering only bump OAMADDR by 4")
	assert.Equal(t, uint8(0xAB), p.oam[0x10], "the glitched write must not touch OAM contents")
}

func TestOAMDataOutsideRenderingWindowUnaffected(t *testing.T) {
	p, _, _ := newTestPPU()
	p.WriteRegister(1, 0x18)
	p.oamAddr = 0x10
	p.scanline = 100
	p.cycle = 100 // evaluation is running but outside the 1-64/257-320 glitch windows

	p.WriteRegister(4, 0x77)
	assert.Equal(t, uint8(0x77), p.oam[0x10])
	assert.Equal(t, uint8(0x11), p.oamAddr)
}

func TestSpriteLimitCapsSecondaryOAMAtEight(t *testing.T) {
	p, _, _ := newTestPPU()
	p.WriteRegister(1, 0x18)
	for i := 0; i < 64; i++ {
		p.oam[i*4+0] = 10 // every sprite occupies row 10
	}
	p.scanline = 9 // evaluating for scanline+1 == 10
	p.evaluateSprites()

	assert.Equal(t, 8, len(p.secOAM))
	assert.True(t, p.status&statusSpriteOverflow != 0, "a 9th matching sprite still raises overflow")
}

func TestSpriteLimitDisabledKeepsAllOverlappingSprites(t *testing.T) {
	p, _, _ := newTestPPU()
	p.SetSpriteLimit(false)
	p.WriteRegister(1, 0x18)
	for i := 0; i < 64; i++ {
		p.oam[i*4+0] = 10
	}
	p.scanline = 9
	p.evaluateSprites()

	assert.Equal(t, 64, len(p.secOAM))
	for i := 0; i < 64; i++ {
		assert.Equal(t, uint8(i), p.secOAM[i].id, "every overlapping sprite must be staged when the limit is removed")
	}
	assert.True(t, p.status&statusSpriteOverflow != 0, "SpriteOverflow detection is unaffected by removing the storage cap")
}

func TestMirrorNametableVertical(t *testing.T) {
	p, bus, _ := newTestPPU()
	bus.mirroring = cartridge.MirrorVertical
	require.Equal(t, p.mirrorNametable(0x2000), p.mirrorNametable(0x2800))
	require.Equal(t, p.mirrorNametable(0x2400), p.mirrorNametable(0x2C00))
	assert.NotEqual(t, p.mirrorNametable(0x2000), p.mirrorNametable(0x2400))
}

func TestMirrorNametableHorizontal(t *testing.T) {
	p, bus, _ := newTestPPU()
	bus.mirroring = cartridge.MirrorHorizontal
	require.Equal(t, p.mirrorNametable(0x2000), p.mirrorNametable(0x2400))
	require.Equal(t, p.mirrorNametable(0x2800), p.mirrorNametable(0x2C00))
	assert.NotEqual(t, p.mirrorNametable(0x2000), p.mirrorNametable(0x2800))
}

func TestA12EdgeFiltersShortLowPeriods(t *testing.T) {
	p, bus, _ := newTestPPU()

	for i := 0; i < a12FilterCycles; i++ {
		p.trackA12(0x0000)
	}
	p.trackA12(0x1000)
	assert.Equal(t, 1, bus.a12Rises, "a low period at least as long as the filter allows an edge")

	p.trackA12(0x0000) // low for only 2 accesses then back high: filtered
	p.trackA12(0x0000)
	p.trackA12(0x1000)
	assert.Equal(t, 1, bus.a12Rises, "short low period must not count as a new edge")

	for i := 0; i < a12FilterCycles; i++ {
		p.trackA12(0x0000)
	}
	p.trackA12(0x1000)
	assert.Equal(t, 2, bus.a12Rises, "a low period at least as long as the filter allows a new edge")
}

func TestNMIRaisedOnVBlankWhenEnabled(t *testing.T) {
	p, _, nmi := newTestPPU()
	p.WriteRegister(0, 0x80) // enable NMI generation
	p.status |= statusVBlank
	p.sampleNMI()
	assert.True(t, nmi.asserted)
}

func TestNMINotRaisedWhenDisabled(t *testing.T) {
	p, _, nmi := newTestPPU()
	p.status |= statusVBlank
	p.sampleNMI()
	assert.False(t, nmi.asserted)
}

func TestFullFrameAdvancesScanlinesAndSetsVBlank(t *testing.T) {
	p, _, _ := newTestPPU()
	frameReady := 0
	p.FrameReady = func() { frameReady++ }

	// One full NTSC frame is 341*262 dots (ignoring the odd-frame skip,
	// which only applies once rendering is enabled).
	for i := 0; i < 341*262; i++ {
		p.exec()
	}
	assert.Equal(t, 1, frameReady)
}
