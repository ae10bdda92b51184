package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// StreamClock derives playback position from the samples pulled out of a seekable stream.
// It is itself a beep.Streamer: whoever pulls samples through it (the speaker, or Advance)
// moves the clock. While paused it yields silence.
type StreamClock struct {
	mu     sync.Mutex
	src    beep.StreamSeeker
	format beep.Format
	ctrl   *beep.Ctrl
	ended  bool
	buf    [][2]float64
}

// NewStreamClock wraps src. The clock starts paused at position zero.
func NewStreamClock(src beep.StreamSeeker, format beep.Format) *StreamClock {
	return &StreamClock{
		src:    src,
		format: format,
		ctrl:   &beep.Ctrl{Streamer: src, Paused: true},
	}
}

// Format returns the stream format.
func (c *StreamClock) Format() beep.Format {
	return c.format
}

// Stream implements beep.Streamer. It always fills samples so that a speaker keeps pulling
// after the track ends.
func (c *StreamClock) Stream(samples [][2]float64) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	if !c.ended {
		var ok bool
		n, ok = c.ctrl.Stream(samples)
		if !ok || (!c.ctrl.Paused && n < len(samples)) {
			c.ended = true
			c.ctrl.Paused = true
		}
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

// Err reports a decoding error from the source.
func (c *StreamClock) Err() error {
	return c.src.Err()
}

// Advance pulls d worth of samples through the clock and discards them.
func (c *StreamClock) Advance(d time.Duration) {
	n := c.format.SampleRate.N(d)
	if cap(c.buf) < 512 {
		c.buf = make([][2]float64, 512)
	}
	for n > 0 {
		chunk := c.buf[:min(n, len(c.buf))]
		c.Stream(chunk)
		n -= len(chunk)
	}
}

// Start resumes pulling samples. An ended clock stays put until Seek.
func (c *StreamClock) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ended {
		c.ctrl.Paused = false
	}
	return nil
}

// Pause stops the position; the stream keeps yielding silence.
func (c *StreamClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.Paused = true
}

// Seek moves to seconds, clamped to the track. Seeking clears the ended flag unless the
// target is the very end.
func (c *StreamClock) Seek(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	p = max(0, min(p, c.src.Len()))
	if err := c.src.Seek(p); err != nil {
		return fmt.Errorf("audio: seek to %.3fs: %w", seconds, err)
	}
	c.ended = p >= c.src.Len()
	return nil
}

// Position returns seconds played.
func (c *StreamClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format.SampleRate.D(c.src.Position()).Seconds()
}

// Length returns the track length in seconds.
func (c *StreamClock) Length() float64 {
	return c.format.SampleRate.D(c.src.Len()).Seconds()
}

// Ended reports whether the source ran out of samples.
func (c *StreamClock) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

// Close pauses the clock and closes the source if it is closable.
func (c *StreamClock) Close() error {
	c.Pause()
	if closer, ok := c.src.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("audio: close stream: %w", err)
		}
	}
	return nil
}

// Decode opens an audio file, choosing the decoder by extension (.wav, .mp3, .ogg).
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audio: open %s: %w", path, err)
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		s, format, err = wav.Decode(f)
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".ogg", ".oga":
		s, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	return s, format, nil
}
