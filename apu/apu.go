package apu

import "github.com/embervale/nescore/cartridge"

// frameMode selects the frame counter's sequencing, stored as a bool
// rather than a raw register byte: a design that stores $4017 bit 7
// verbatim (0 or 0x80) and then does frameStep == frameMode+3-style
// arithmetic on it only works if the stored value is normalized to 0 or
// 1 first; see DESIGN.md.
type frameMode bool

const (
	fourStep frameMode = false
	fiveStep frameMode = true
)

// APU is the 2A03 sound generator: five channels, a shared frame sequencer,
// and a nonlinear mixer feeding a first-order high-pass/low-pass filter
// chain and a block-averaging downsampler.
type APU struct {
	bus DMCBus

	pulse1   *Pulse
	pulse2   *Pulse
	triangle *Triangle
	noise    *Noise
	dmc      *Dmc

	cycle uint64

	frameCounter uint16
	mode         frameMode
	irqInhibit   bool
	frameIRQ     bool

	filters filterChain

	sampleRate    float64
	cpuFreq       float64
	sampleAcc     float64
	sampleAccN    int
	sampleTarget  float64
	AudioOut      func(sample float32)

	expansion cartridge.ExpansionAudio

	region cartridge.Region
}

// SetExpansionAudio wires a cartridge mapper's extra audio channel(s) (VRC6
// pulses/sawtooth, VRC7 FM, Namco 163 wavetable) into the final mix step.
// Passing nil (a cartridge with no expansion audio) silences the extra
// input without disturbing the five built-in channels.
func (a *APU) SetExpansionAudio(ea cartridge.ExpansionAudio) { a.expansion = ea }

// palCPUFreq is the PAL NES's CPU clock, driven by a 26.6017 MHz crystal
// divided by 16 rather than NTSC's 21.4772 MHz crystal divided by 12.
const palCPUFreq = 1662607

// SetRegion switches the frame sequencer's quarter-/half-frame step timings
// and the CPU clock used for sample-rate downsampling between NTSC and PAL.
// Call before the first Tick; changing it mid-run leaves sampleAcc/frameCounter
// state built up under the old cadence.
func (a *APU) SetRegion(r cartridge.Region) {
	a.region = r
	if r == cartridge.RegionPAL {
		a.cpuFreq = palCPUFreq
	} else {
		a.cpuFreq = ntscCPUFreq
	}
	a.filters = newFilterChain(a.cpuFreq)
	a.sampleTarget = a.cpuFreq / a.sampleRate
}

// ntscCPUFreq is the NTSC NES's ~1.789773 MHz CPU clock, the default until
// SetRegion selects PAL.
const ntscCPUFreq = 1789773

// New builds an APU driving DMC DMA fetches/stalls through bus, targeting
// sampleRate output samples per second from the NTSC CPU clock; call
// SetRegion(cartridge.RegionPAL) for a PAL cartridge.
func New(bus DMCBus, sampleRate float64) *APU {
	a := &APU{
		bus:        bus,
		pulse1:     newPulse(true),
		pulse2:     newPulse(false),
		triangle:   &Triangle{},
		noise:      newNoise(),
		dmc:        newDmc(bus),
		sampleRate: sampleRate,
		cpuFreq:    ntscCPUFreq,
	}
	a.filters = newFilterChain(a.cpuFreq)
	a.sampleTarget = a.cpuFreq / sampleRate
	return a
}

func (a *APU) Reset() {
	a.WriteRegister(0x4015, 0)
	a.mode = fourStep
	a.irqInhibit = false
	a.frameIRQ = false
	a.frameCounter = 0
	a.cycle = 0
}

// Tick advances the APU by one CPU cycle: the frame sequencer and triangle
// channel are clocked every cycle, the remaining channels every other
// cycle, since the APU runs at half the CPU rate for everything but the
// frame divider and triangle timer.
func (a *APU) Tick() {
	a.clockFrameSequencer()
	a.triangle.Tick()
	if a.cycle%2 == 0 {
		a.pulse1.Tick()
		a.pulse2.Tick()
		a.noise.Tick()
		a.dmc.Tick()
	}
	a.cycle++

	a.sample()
}

// IRQ reports the APU's share of the CPU's level-sensed IRQ line: the
// frame counter's end-of-sequence IRQ (4-step mode only, and only if not
// inhibited) ORed with the DMC's end-of-sample IRQ.
func (a *APU) IRQ() bool {
	return (a.frameIRQ && !a.irqInhibit) || a.dmc.IRQ()
}

// frameSteps holds the quarter-frame boundaries (in CPU cycles) for a
// region: the first four are shared between 4-step and 5-step mode, the
// fifth is 5-step mode's own reset point. NTSC and PAL run the same divider
// off different crystals, so PAL's steps land at different absolute cycle
// counts, per the NESdev APU frame counter reference.
type frameSteps [5]uint16

var (
	ntscFrameSteps = frameSteps{7457, 14913, 22371, 29829, 37281}
	palFrameSteps  = frameSteps{8313, 16627, 24939, 33252, 41565}
)

func (a *APU) frameSteps() frameSteps {
	if a.region == cartridge.RegionPAL {
		return palFrameSteps
	}
	return ntscFrameSteps
}

// clockFrameSequencer paces the quarter-frame (envelope/linear counter) and
// half-frame (length counter/sweep) updates, plus the 4-step mode's IRQ.
// Step timings are in CPU cycles.
func (a *APU) clockFrameSequencer() {
	a.frameCounter++
	steps := a.frameSteps()
	switch a.mode {
	case fourStep:
		switch a.frameCounter {
		case steps[0]:
			a.quarterFrame()
		case steps[1]:
			a.quarterFrame()
			a.halfFrame()
		case steps[2]:
			a.quarterFrame()
		case steps[3]:
			a.quarterFrame()
			a.halfFrame()
			if !a.irqInhibit {
				a.frameIRQ = true
			}
			a.frameCounter = 0
		}
	case fiveStep:
		switch a.frameCounter {
		case steps[0]:
			a.quarterFrame()
		case steps[1]:
			a.quarterFrame()
			a.halfFrame()
		case steps[2]:
			a.quarterFrame()
		case steps[3]:
			// no-op step, distinguishes 5-step from 4-step's IRQ step
		case steps[4]:
			a.quarterFrame()
			a.halfFrame()
			a.frameCounter = 0
		}
	}
}

func (a *APU) quarterFrame() {
	a.pulse1.QuarterFrameTick()
	a.pulse2.QuarterFrameTick()
	a.triangle.QuarterFrameTick()
	a.noise.QuarterFrameTick()
}

func (a *APU) halfFrame() {
	a.pulse1.HalfFrameTick()
	a.pulse2.HalfFrameTick()
	a.triangle.HalfFrameTick()
	a.noise.HalfFrameTick()
}

// mixPulses and mix implement the NESdev nonlinear mixer formulas
// (https://wiki.nesdev.org/w/index.php/APU_Mixer) rather than a linear-gain
// approximation; see DESIGN.md.
func mixPulses(pulse1, pulse2 float64) float64 {
	if pulse1+pulse2 == 0 {
		return 0
	}
	return 95.88 / (8128/(pulse1+pulse2) + 100)
}

func mixTND(triangle, noise, dmc float64) float64 {
	if triangle+noise+dmc == 0 {
		return 0
	}
	return 159.79 / (1/(triangle/8227+noise/12241+dmc/22638) + 100)
}

// expansionGain scales a cartridge's extra audio channel(s) relative to the
// built-in five: real expansion boards mix onto the cartridge edge
// connector's own audio pin rather than through the 2A03's DAC, so there is
// no single correct nonlinear formula to fold them into; a flat attenuated
// sum keeps a loud VRC6/VRC7/N163 track from swamping the APU's own output.
const expansionGain = 0.5

func (a *APU) mix() float64 {
	pulseOut := mixPulses(a.pulse1.Sample(), a.pulse2.Sample())
	tndOut := mixTND(a.triangle.Sample(), a.noise.Sample(), a.dmc.Sample())
	out := pulseOut + tndOut
	if a.expansion != nil {
		out += a.expansion.Sample() * expansionGain
	}
	return out
}

// sample runs the raw ~1.79MHz mix through the filter chain and emits one
// downsampled block average per sampleTarget CPU cycles, via AudioOut.
func (a *APU) sample() {
	filtered := a.filters.process(a.mix())
	a.sampleAcc += filtered
	a.sampleAccN++
	if float64(a.sampleAccN) < a.sampleTarget {
		return
	}
	avg := a.sampleAcc / float64(a.sampleAccN)
	a.sampleAcc = 0
	a.sampleAccN = 0
	if a.AudioOut != nil {
		a.AudioOut(float32(avg))
	}
}

// ReadRegister handles $4015: length-counter status bits, the frame IRQ
// flag (cleared by the read) and the DMC IRQ flag (not cleared by reads).
func (a *APU) ReadRegister() uint8 {
	var val uint8
	if a.pulse1.Enabled() {
		val |= 1 << 0
	}
	if a.pulse2.Enabled() {
		val |= 1 << 1
	}
	if a.triangle.Enabled() {
		val |= 1 << 2
	}
	if a.noise.Enabled() {
		val |= 1 << 3
	}
	if a.dmc.Enabled() {
		val |= 1 << 4
	}
	if a.frameIRQ {
		val |= 1 << 6
	}
	if a.dmc.IRQ() {
		val |= 1 << 7
	}
	a.frameIRQ = false
	return val
}

// WriteRegister dispatches $4000-$4013 and $4015/$4017 to the owning
// channel or frame-counter state.
func (a *APU) WriteRegister(addr uint16, val uint8) {
	switch addr {
	case 0x4000:
		a.pulse1.WriteControl(val)
	case 0x4001:
		a.pulse1.WriteSweep(val)
	case 0x4002:
		a.pulse1.WriteTimerLow(val)
	case 0x4003:
		a.pulse1.WriteTimerHigh(val)
	case 0x4004:
		a.pulse2.WriteControl(val)
	case 0x4005:
		a.pulse2.WriteSweep(val)
	case 0x4006:
		a.pulse2.WriteTimerLow(val)
	case 0x4007:
		a.pulse2.WriteTimerHigh(val)
	case 0x4008:
		a.triangle.WriteControl(val)
	case 0x400A:
		a.triangle.WriteTimerLow(val)
	case 0x400B:
		a.triangle.WriteTimerHigh(val)
	case 0x400C:
		a.noise.WriteControl(val)
	case 0x400E:
		a.noise.WritePeriod(val)
	case 0x400F:
		a.noise.WriteLength(val)
	case 0x4010:
		a.dmc.WriteControl(val)
	case 0x4011:
		a.dmc.WriteDirectLoad(val)
	case 0x4012:
		a.dmc.WriteSampleAddr(val)
	case 0x4013:
		a.dmc.WriteSampleLen(val)
	case 0x4015:
		a.pulse1.SetEnabled(val&0x01 != 0)
		a.pulse2.SetEnabled(val&0x02 != 0)
		a.triangle.SetEnabled(val&0x04 != 0)
		a.noise.SetEnabled(val&0x08 != 0)
		a.dmc.SetEnabled(val&0x10 != 0)
	case 0x4017:
		a.mode = frameMode(val&0x80 != 0)
		a.irqInhibit = val&0x40 != 0
		if a.irqInhibit {
			a.frameIRQ = false
		}
		a.frameCounter = 0
		if a.mode == fiveStep {
			a.quarterFrame()
			a.halfFrame()
		}
	}
}
