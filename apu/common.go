// Package apu implements the 2A03's five-channel audio processing unit:
// two pulse channels, a triangle channel, a noise channel and a delta
// modulation channel, driven by a shared frame-sequencer, mixed with the
// standard NESdev nonlinear formulas and filtered/decimated to a host
// sample rate.
//
// Each channel owns its own Timer/Envelope/Sweep/LengthCounter building
// blocks rather than sharing a generic Sequencer. Behavioral details
// called out in DESIGN.md include: the sweep unit differentiates pulse 1's
// ones'-complement negation from pulse 2's two's-complement negation, the
// frame counter's 4-step/5-step mode is stored as a bool instead of a raw
// 0/0x80 byte, the mixer uses the real nonlinear NESdev formula, and the DMC
// fetches one sample byte per consumed byte.
package apu

// lengthCounterTable is the 32-entry length load lookup, indexed by the top
// 5 bits written to $4003/$4007/$400B/$400F.
var lengthCounterTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// LengthCounter gates a channel's output once it decrements to zero. It is
// clocked at half-frame ticks and can be frozen with the halt/loop flag
// each channel exposes through its own control register.
type LengthCounter struct {
	halt    bool
	counter uint8
}

func (l *LengthCounter) load(index uint8) {
	l.counter = lengthCounterTable[index&0x1F]
}

func (l *LengthCounter) clock() {
	if l.counter > 0 && !l.halt {
		l.counter--
	}
}

func (l *LengthCounter) mute() bool { return l.counter == 0 }

func (l *LengthCounter) setEnabled(enabled bool) {
	if !enabled {
		l.counter = 0
	}
}

// Timer is the down-counting divider common to every channel: it reloads
// from period on every tick that reaches zero and reports the reload so
// callers can advance their own sequencer/LFSR/shift-register on it.
type Timer struct {
	period uint16
	value  uint16
}

func (t *Timer) tick() bool {
	if t.value == 0 {
		t.value = t.period
		return true
	}
	t.value--
	return false
}

func (t *Timer) reset() { t.value = t.period }

// Envelope implements the constant-volume/decay envelope generator shared
// by both pulse channels and the noise channel.
type Envelope struct {
	startFlag bool
	loop      bool
	constant  bool
	volume    uint8

	divider uint8
	decay   uint8
}

func (e *Envelope) restart() { e.startFlag = true }

func (e *Envelope) clock() {
	if e.startFlag {
		e.startFlag = false
		e.decay = 15
		e.divider = e.volume
		return
	}
	if e.divider == 0 {
		e.divider = e.volume
		if e.decay > 0 {
			e.decay--
		} else if e.loop {
			e.decay = 15
		}
		return
	}
	e.divider--
}

func (e *Envelope) output() uint8 {
	if e.constant {
		return e.volume
	}
	return e.decay
}

// Sweep implements the pulse channels' period-sweep unit. onesComplement is
// true only for pulse 1: on a negate write pulse 1 subtracts one more than
// pulse 2 does, since pulse 1 negates with the ones' complement and pulse 2
// with the two's complement; treating both channels identically is a common
// mistake, see DESIGN.md.
type Sweep struct {
	onesComplement bool

	enabled bool
	negate  bool
	shift   uint8

	dividerPeriod uint8
	divider       uint8
	reload        bool
}

func (s *Sweep) targetPeriod(rawPeriod uint16) uint16 {
	change := rawPeriod >> s.shift
	if !s.negate {
		return rawPeriod + change
	}
	if s.onesComplement {
		if change > rawPeriod {
			return 0
		}
		return rawPeriod - change - 1
	}
	if change+1 > rawPeriod {
		return 0
	}
	return rawPeriod - change
}

func (s *Sweep) mute(rawPeriod uint16) bool {
	return rawPeriod < 8 || s.targetPeriod(rawPeriod) > 0x7FF
}

// clock advances the sweep divider and, on reload, applies the target
// period to *period if the unit isn't muted. Returns the value to store.
func (s *Sweep) clock(rawPeriod uint16) uint16 {
	target := s.targetPeriod(rawPeriod)
	if s.divider == 0 && s.enabled && s.shift != 0 && !s.mute(rawPeriod) {
		rawPeriod = target
	}
	if s.divider == 0 || s.reload {
		s.divider = s.dividerPeriod
		s.reload = false
	} else {
		s.divider--
	}
	return rawPeriod
}

// LinearCounter is the triangle channel's extra length gate, reloaded from
// $4008's low 7 bits and clocked every quarter frame.
type LinearCounter struct {
	control bool
	reload  bool
	load    uint8
	counter uint8
}

func (c *LinearCounter) clock() {
	if c.reload {
		c.counter = c.load
	} else if c.counter > 0 {
		c.counter--
	}
	if !c.control {
		c.reload = false
	}
}

func (c *LinearCounter) mute() bool { return c.counter == 0 }
