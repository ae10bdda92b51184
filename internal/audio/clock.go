// Package audio provides the playback clock the simulation is timed against.
package audio

import (
	"errors"
)

var (
	// ErrPlaybackBlocked is returned by Start when the output device refused to play.
	// The caller may retry.
	ErrPlaybackBlocked = errors.New("audio: playback blocked")

	// ErrUnsupportedFormat is returned for audio files with an unknown extension.
	ErrUnsupportedFormat = errors.New("audio: unsupported format")
)

// Clock is the authoritative playback clock. Position is in seconds from the start of the
// track and Ended reports that the track has played out.
type Clock interface {
	Start() error
	Pause()
	Seek(seconds float64) error
	Position() float64
	Length() float64
	Ended() bool
	Close() error
}
