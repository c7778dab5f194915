package speakers

import (
	"github.com/hajimehoshi/oto"
)

// OtoSpeaker plays mono 16-bit PCM through oto (context/player setup,
// float-to-int16 clamp-and-scale conversion). It doesn't own a background-
// goroutine circular buffer: nes.NES already hands over one complete
// audio block per frame.
type OtoSpeaker struct {
	sampleRate int
	context    *oto.Context
	player     *oto.Player
	buf        []byte
}

// NewOtoSpeaker opens an oto playback context at sampleRate, mono, 16-bit,
// with a quarter-second internal device buffer.
func NewOtoSpeaker(sampleRate int) (*OtoSpeaker, error) {
	const channels = 1
	const bytesPerSample = 2
	bufferSize := sampleRate / 4 * bytesPerSample
	ctx, err := oto.NewContext(sampleRate, channels, bytesPerSample, bufferSize)
	if err != nil {
		return nil, err
	}
	return &OtoSpeaker{sampleRate: sampleRate, context: ctx}, nil
}

func (s *OtoSpeaker) Play() error {
	s.player = s.context.NewPlayer()
	return nil
}

func (s *OtoSpeaker) Stop() error {
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}

// Write converts a block of [-1, 1] float samples to little-endian 16-bit
// PCM and blocks until oto's device buffer accepts it.
func (s *OtoSpeaker) Write(samples []float32) error {
	if s.player == nil {
		return nil
	}
	needed := len(samples) * 2
	if cap(s.buf) < needed {
		s.buf = make([]byte, needed)
	}
	buf := s.buf[:needed]
	for i, v := range samples {
		if v < -1 {
			v = -1
		} else if v > 1 {
			v = 1
		}
		sample := int16(v * (1<<15 - 1))
		buf[i*2] = byte(sample)
		buf[i*2+1] = byte(sample >> 8)
	}
	_, err := s.player.Write(buf)
	return err
}

func (s *OtoSpeaker) SampleRate() int { return s.sampleRate }
