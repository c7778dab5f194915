// Package speakers is the host-facing audio sink a nes.NES's push_audio
// callback feeds. It exposes a per-frame Write([]float32) call rather than
// a per-sample callback driven by a background goroutine draining a
// circular buffer, since nes.NES already batches one filtered/downsampled
// block per completed frame rather than handing over samples one at a time.
package speakers

// AudioSpeaker is the interface a host wires to nes.WithAudioCallback.
type AudioSpeaker interface {
	// Play opens the output device/stream.
	Play() error
	// Write pushes one frame's worth of samples to the device. It may
	// block if the device's internal buffer is full; nes.NES calls this
	// synchronously from RunFrame, so a speaker that can't keep up with
	// real time will pace the emulator down to match rather than drop
	// samples.
	Write(samples []float32) error
	// Stop closes the output device/stream.
	Stop() error
}
