// Command nescore is a minimal CLI shell around the emulator core: it
// loads an iNES ROM, runs it for a fixed number of frames, optionally
// plays audio through an oto speaker and can dump a PNG snapshot of the
// final framebuffer for inspection. It runs a headless run-N-frames driver
// rather than opening a windowed renderer, since interactive display is
// out of scope for this core.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/embervale/nescore/nes"
	"github.com/embervale/nescore/speakers"
)

func validRomPath(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("rom file %q does not exist or is not accessible: %w", path, err)
	}
	if stat.IsDir() {
		return fmt.Errorf("rom file %q points to a directory", path)
	}
	return nil
}

// padPoller is a fixed-input InputSource: nescore has no interactive front
// end, so it always reports every button released.
type padPoller struct{}

func (padPoller) PollInputs(port int) uint8 { return 0 }

func main() {
	romPath := flag.String("rom", "", "path to the iNES ROM file to run")
	frames := flag.Int("frames", 60, "number of frames to run before exiting")
	audio := flag.Bool("audio", false, "play audio through the default oto output device")
	sampleRate := flag.Int("sample-rate", 48000, "audio sample rate in Hz")
	snapshot := flag.String("snapshot", "", "if set, write a PNG snapshot of the final frame to this path")
	snapshotScale := flag.Int("snapshot-scale", 3, "integer upscale factor applied to the snapshot")
	flag.Parse()
	defer glog.Flush()

	if *romPath == "" {
		glog.Exit("missing required -rom flag")
	}
	if err := validRomPath(*romPath); err != nil {
		glog.Exit(err)
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		glog.Exitf("reading rom: %v", err)
	}

	var speaker speakers.AudioSpeaker
	opts := []nes.Option{
		nes.WithSampleRate(float64(*sampleRate)),
		nes.WithInputSource(padPoller{}),
	}
	if *audio {
		otoSpeaker, err := speakers.NewOtoSpeaker(*sampleRate)
		if err != nil {
			glog.Exitf("opening audio device: %v", err)
		}
		speaker = otoSpeaker
		opts = append(opts, nes.WithAudioCallback(func(samples []float32) {
			if err := speaker.Write(samples); err != nil {
				glog.Warningf("audio write: %v", err)
			}
		}))
	}

	machine, err := nes.New(romData, opts...)
	if err != nil {
		glog.Exitf("loading rom %q: %v", *romPath, err)
	}
	glog.Infof("loaded %s, running %d frames", *romPath, *frames)

	if speaker != nil {
		if err := speaker.Play(); err != nil {
			glog.Exitf("starting audio playback: %v", err)
		}
		defer speaker.Stop()
	}

	for i := 0; i < *frames; i++ {
		machine.RunFrame()
	}

	if *snapshot != "" {
		frame := machine.PPU().Frame()
		palette := machine.PPU().Palette()
		if err := writeSnapshot(*snapshot, frame, palette, *snapshotScale); err != nil {
			glog.Exitf("writing snapshot: %v", err)
		}
		glog.Infof("wrote snapshot to %s", *snapshot)
	}
}
