// Package nes wires the cpu, ppu, apu, cartridge and controller packages
// into a runnable machine: a shared Bus, a cycle-by-cycle scheduler and the
// host-facing callback surface (push_frame/push_audio/poll_inputs).
//
// Construction wires the components together and applies functional
// options; RunFrame drives a cycle-accurate frame loop rather than a
// wall-clock-paced Step(seconds), since cpu.CPU already self-clocks the
// bus once per consumed cycle rather than reporting a tick count for the
// caller to fan out.
package nes

import (
	"fmt"

	"github.com/embervale/nescore/apu"
	"github.com/embervale/nescore/cartridge"
	"github.com/embervale/nescore/cpu"
	"github.com/embervale/nescore/mappers"
	"github.com/embervale/nescore/ppu"
)

// Region selects NTSC or PAL timing: scanline count, odd-frame dot skip and
// APU frame-sequencer cadence. It is an alias of cartridge.Region so a ROM's
// own header value (Cartridge.Region) can be passed to WithRegion directly.
type Region = cartridge.Region

const (
	RegionNTSC = cartridge.RegionNTSC
	RegionPAL  = cartridge.RegionPAL
)

// InputSource supplies one port's live 8-bit button mask, polled once per
// frame boundary. Bit order: A, B, Select, Start, Up, Down, Left, Right
// (LSB to bit 7).
type InputSource interface {
	PollInputs(port int) uint8
}

// NES is a fully wired machine ready to run frames.
type NES struct {
	bus  *Bus
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	apu  *apu.APU
	ctrl Controllers
	cart *cartridge.Cartridge

	inputs     InputSource
	pushFrame  func(frame *[256 * 240]uint8)
	pushAudio  func(samples []float32)
	sampleRate float64

	region      Region
	regionForce bool
	spriteLimit bool

	audioBuf  []float32
	frameDone bool
}

// Option configures a NES at construction time.
type Option func(*NES) error

// WithSampleRate sets the host audio sample rate the APU downsamples to;
// defaults to 48000 if unset.
func WithSampleRate(hz float64) Option {
	return func(n *NES) error { n.sampleRate = hz; return nil }
}

// WithInputSource wires the host's controller-polling callback.
func WithInputSource(src InputSource) Option {
	return func(n *NES) error { n.inputs = src; return nil }
}

// WithFrameCallback wires push_frame: invoked once per completed frame with
// the PPU's palette-indexed framebuffer. The slice/array must not be
// retained past the callback's return; RunFrame reuses it next call.
func WithFrameCallback(fn func(frame *[256 * 240]uint8)) Option {
	return func(n *NES) error { n.pushFrame = fn; return nil }
}

// WithAudioCallback wires push_audio: invoked once per completed frame with
// that frame's filtered, downsampled audio block.
func WithAudioCallback(fn func(samples []float32)) Option {
	return func(n *NES) error { n.pushAudio = fn; return nil }
}

// WithRegion forces NTSC or PAL timing regardless of what the ROM's own
// header reports. Without this option, New reads the region straight off
// cartridge.Cartridge.Region (the iNES/NES 2.0 TV-system byte).
func WithRegion(r Region) Option {
	return func(n *NES) error { n.region = r; n.regionForce = true; return nil }
}

// WithSpriteLimit toggles the hardware's cap of 8 sprites rendered per
// scanline. Defaults to true (the real 2C02's behavior); pass false to
// remove it, a common accuracy trade-off for reducing sprite flicker.
// SpriteOverflow status detection is unaffected either way.
func WithSpriteLimit(limit bool) Option {
	return func(n *NES) error { n.spriteLimit = limit; return nil }
}

// New parses romData as an iNES/NES 2.0 image, dispatches its mapper and
// wires a complete machine. Returns cartridge.ErrInvalidHeader,
// ErrUnsupportedMapper, ErrUnsupportedSubmapper or ErrRomSizeMismatch on a
// malformed or unrecognized ROM.
func New(romData []byte, opts ...Option) (*NES, error) {
	n := &NES{sampleRate: 48000, spriteLimit: true}
	for i, opt := range opts {
		if err := opt(n); err != nil {
			return nil, fmt.Errorf("nes: option %d: %w", i, err)
		}
	}

	cart, err := cartridge.New(romData, mappers.New)
	if err != nil {
		return nil, err
	}
	n.cart = cart
	if !n.regionForce {
		n.region = cart.Region()
	}

	n.bus = newBus()
	n.cpu = cpu.New(n.bus)
	n.ppu = ppu.New(n.bus, n.cpu)
	n.ppu.SetRegion(n.region)
	n.ppu.SetSpriteLimit(n.spriteLimit)
	n.apu = apu.New(n.bus, n.sampleRate)
	n.apu.SetRegion(n.region)
	if ea, ok := cart.ExpansionAudio(); ok {
		n.apu.SetExpansionAudio(ea)
	}
	n.bus.attach(cart, n.ppu, n.apu, &n.ctrl, n.cpu)

	n.ppu.FrameReady = func() { n.frameDone = true }
	n.apu.AudioOut = func(sample float32) { n.audioBuf = append(n.audioBuf, sample) }

	n.cpu.Reset()
	return n, nil
}

// Reset performs a soft reset: RAM and PRG RAM are preserved, every
// component re-runs its own power-on sequence the way the real console's
// reset line does.
func (n *NES) Reset() {
	n.cpu.Reset()
	n.ppu.Reset()
	n.apu.Reset()
	n.ctrl.Reset()
}

// PowerCycle performs a full re-init: internal RAM is cleared in addition
// to everything Reset() does.
func (n *NES) PowerCycle() {
	n.bus.ram = [0x0800]byte{}
	n.Reset()
}

// RunFrame advances the machine to the next VBlank, sampling controller
// input once at the frame boundary and delivering the completed
// framebuffer and audio block to the host callbacks before returning. The
// per-cycle scheduling steps live inside Bus.ClockCycle, invoked once per
// CPU cycle by cpu.CPU.Step itself, with audio resampling folded into
// apu.APU.Tick.
func (n *NES) RunFrame() {
	if n.inputs != nil {
		n.ctrl.SetButtons(0, n.inputs.PollInputs(0))
		n.ctrl.SetButtons(1, n.inputs.PollInputs(1))
	}

	n.frameDone = false
	for !n.frameDone {
		n.cpu.Step()
	}

	if n.pushFrame != nil {
		n.pushFrame(n.ppu.Frame())
	}
	if n.pushAudio != nil {
		n.pushAudio(n.audioBuf)
	}
	n.audioBuf = n.audioBuf[:0]
}

// CPU, PPU and APU expose the wired components for hosts that need direct
// access (a debugger, a snapshot tool, save-state serialization).
func (n *NES) CPU() *cpu.CPU                   { return n.cpu }
func (n *NES) PPU() *ppu.PPU                   { return n.ppu }
func (n *NES) APU() *apu.APU                   { return n.apu }
func (n *NES) Cartridge() *cartridge.Cartridge { return n.cart }
