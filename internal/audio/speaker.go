package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the rate the speaker is opened at. Tracks at other rates are resampled.
const SampleRate = beep.SampleRate(48000)

var (
	speakerMu   sync.Mutex
	speakerInit bool
)

func initSpeaker() error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInit {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speakerInit = true
	return nil
}

// BeepClock plays a decoded track through the system speaker. Position follows the samples
// the speaker has pulled.
type BeepClock struct {
	*StreamClock
	out     beep.Streamer
	playing bool
}

// Open decodes path and prepares it for playback. The speaker is not touched until Start.
func Open(path string) (*BeepClock, error) {
	s, format, err := Decode(path)
	if err != nil {
		return nil, err
	}
	clock := NewStreamClock(s, format)

	var out beep.Streamer = clock
	if format.SampleRate != SampleRate {
		out = beep.Resample(4, format.SampleRate, SampleRate, clock)
	}
	return &BeepClock{StreamClock: clock, out: out}, nil
}

// Start opens the speaker on first use and resumes playback. A speaker that cannot be
// opened yields ErrPlaybackBlocked.
func (c *BeepClock) Start() error {
	if err := initSpeaker(); err != nil {
		return fmt.Errorf("%w: %v", ErrPlaybackBlocked, err)
	}
	if !c.playing {
		speaker.Play(c.out)
		c.playing = true
	}
	return c.StreamClock.Start()
}

// Close stops output and releases the decoder.
func (c *BeepClock) Close() error {
	if c.playing {
		speaker.Clear()
		c.playing = false
	}
	return c.StreamClock.Close()
}
