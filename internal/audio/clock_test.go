package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

var testFormat = beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

// silence returns a seekable stream of the given length.
func silence(d time.Duration) beep.StreamSeeker {
	buf := beep.NewBuffer(testFormat)
	buf.Append(beep.Silence(testFormat.SampleRate.N(d)))
	return buf.Streamer(0, buf.Len())
}

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time          { return f.t }
func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestTimerClock(t *testing.T) {
	fn := &fakeNow{t: time.Unix(1000, 0)}
	c := NewTimerClock(3).WithNow(fn.now)

	fn.advance(time.Second)
	if c.Position() != 0 {
		t.Errorf("position before start = %v, want 0", c.Position())
	}

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	fn.advance(1500 * time.Millisecond)
	if !near(c.Position(), 1.5) {
		t.Errorf("position = %v, want 1.5", c.Position())
	}

	c.Pause()
	fn.advance(10 * time.Second)
	if !near(c.Position(), 1.5) {
		t.Errorf("position while paused = %v, want 1.5", c.Position())
	}

	c.Start()
	fn.advance(2 * time.Second)
	if !c.Ended() {
		t.Error("clock should have ended after its length")
	}
	if c.Position() != 3 {
		t.Errorf("position = %v, want clamped to 3", c.Position())
	}

	c.Seek(0)
	if c.Ended() || c.Position() != 0 {
		t.Errorf("after seek: ended=%v position=%v", c.Ended(), c.Position())
	}
}

func TestTimerClockWithoutLength(t *testing.T) {
	fn := &fakeNow{t: time.Unix(0, 0)}
	c := NewTimerClock(0).WithNow(fn.now)
	c.Start()
	fn.advance(time.Hour)
	if c.Ended() {
		t.Error("a clock without length should never end")
	}
}

func TestStreamClock(t *testing.T) {
	c := NewStreamClock(silence(2*time.Second), testFormat)
	if !near(c.Length(), 2) {
		t.Fatalf("length = %v, want 2", c.Length())
	}

	c.Advance(500 * time.Millisecond)
	if c.Position() != 0 {
		t.Errorf("paused clock moved to %v", c.Position())
	}

	c.Start()
	c.Advance(500 * time.Millisecond)
	if !near(c.Position(), 0.5) {
		t.Errorf("position = %v, want 0.5", c.Position())
	}
	if c.Ended() {
		t.Error("ended too early")
	}

	c.Advance(3 * time.Second)
	if !c.Ended() {
		t.Error("clock should end when the stream runs out")
	}
	if !near(c.Position(), 2) {
		t.Errorf("position = %v, want 2", c.Position())
	}

	if err := c.Seek(0.25); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if c.Ended() || !near(c.Position(), 0.25) {
		t.Errorf("after seek: ended=%v position=%v", c.Ended(), c.Position())
	}
}

func TestStreamClockSeekClamps(t *testing.T) {
	c := NewStreamClock(silence(time.Second), testFormat)
	if err := c.Seek(-4); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if c.Position() != 0 {
		t.Errorf("position = %v, want 0", c.Position())
	}
	if err := c.Seek(9); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if !c.Ended() {
		t.Error("seeking to the end should end the clock")
	}
}

func TestDecodeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.Encode(f, silence(time.Second), testFormat); err != nil {
		t.Fatalf("wav.Encode: %v", err)
	}
	f.Close()

	s, format, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	c := NewStreamClock(s, format)
	defer c.Close()

	if format.SampleRate != testFormat.SampleRate {
		t.Errorf("sample rate = %v, want %v", format.SampleRate, testFormat.SampleRate)
	}
	if !near(c.Length(), 1) {
		t.Errorf("length = %v, want 1", c.Length())
	}
}

func TestDecodeUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.flac")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Decode(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Decode error = %v, want ErrUnsupportedFormat", err)
	}
}
