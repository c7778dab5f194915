package apu

// filterChain is the two-stage high-pass plus single low-pass first-order
// IIR chain NES audio hardware effectively applies between the DAC and the
// speaker, run here at the raw ~1.79MHz mix rate before downsampling.
// Coefficients follow the standard RC first-order digital filter formulas:
// alpha = dt/(dt+RC) for the low-pass and alpha = RC/(RC+dt) for the
// high-passes; see DESIGN.md.
type filterChain struct {
	highPass90  firstOrderHighPass
	highPass440 firstOrderHighPass
	lowPass14k  firstOrderLowPass
}

func newFilterChain(sampleRate float64) filterChain {
	return filterChain{
		highPass90:  newHighPass(90, sampleRate),
		highPass440: newHighPass(440, sampleRate),
		lowPass14k:  newLowPass(14000, sampleRate),
	}
}

func (f *filterChain) process(sample float64) float64 {
	sample = f.highPass90.process(sample)
	sample = f.highPass440.process(sample)
	sample = f.lowPass14k.process(sample)
	return sample
}

type firstOrderHighPass struct {
	alpha  float64
	prevIn float64
	prevOut float64
}

func newHighPass(cutoffHz, sampleRate float64) firstOrderHighPass {
	rc := 1 / (2 * 3.141592653589793 * cutoffHz)
	dt := 1 / sampleRate
	return firstOrderHighPass{alpha: rc / (rc + dt)}
}

func (h *firstOrderHighPass) process(in float64) float64 {
	out := h.alpha * (h.prevOut + in - h.prevIn)
	h.prevIn = in
	h.prevOut = out
	return out
}

type firstOrderLowPass struct {
	alpha   float64
	prevOut float64
}

func newLowPass(cutoffHz, sampleRate float64) firstOrderLowPass {
	rc := 1 / (2 * 3.141592653589793 * cutoffHz)
	dt := 1 / sampleRate
	return firstOrderLowPass{alpha: dt / (rc + dt)}
}

func (l *firstOrderLowPass) process(in float64) float64 {
	out := l.prevOut + l.alpha*(in-l.prevOut)
	l.prevOut = out
	return out
}
