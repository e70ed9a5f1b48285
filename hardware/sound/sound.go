// Package sound implements the TK2000's one-bit speaker toggle at
// 0xC030-0xC03F and the audio sink abstraction games' square waves are
// rendered to.
package sound

import (
	"sync"

	"github.com/tk2emu/tk2000/emuerrors"
	"github.com/tk2emu/tk2000/hardware/clock"
)

// SampleRate is the host audio sink's fixed sample rate.
const SampleRate = 16000

// bufferSamples clamps a single toggle's output: a segment whose computed
// sample count would exceed one second of audio is dropped rather than
// flushed, guarding against a huge write after a long silent gap.
const bufferSamples = SampleRate

// highAmplitude and lowAmplitude are the two levels of the emitted square
// wave, as signed-looking unsigned 8-bit PCM (the sink format used
// throughout is unsigned 8-bit with a silence level of 0, matching the
// emulated 1-bit line rather than centering on 128).
const (
	highAmplitude byte = 120
	lowAmplitude  byte = 0
)

// AudioSink receives the PCM samples the speaker emits. Implementations
// must be safe to call from the CPU's goroutine.
type AudioSink interface {
	Write(samples []byte) error
}

// NullSink discards everything written to it. It is the default sink when
// no host audio device is available.
type NullSink struct{}

// Write implements AudioSink.
func (NullSink) Write([]byte) error { return nil }

// Sound is the memory-mapped speaker toggle. Every bus access to its
// address range flips a one-bit line and emits the square-wave segment
// that elapsed since the previous toggle.
type Sound struct {
	clk  *clock.Counter
	sink AudioSink

	mu        sync.Mutex
	line      bool
	lastEdge  clock.Cycles
	enabled   bool
	available bool
	lastErr   error
}

// New returns a Sound driven by clk and emitting to sink. A nil sink is
// treated as unavailable audio, matching the "audio device cannot be
// opened" error kind.
func New(clk *clock.Counter, sink AudioSink) *Sound {
	s := &Sound{clk: clk, sink: sink, enabled: true, available: sink != nil}
	if sink == nil {
		s.lastErr = emuerrors.ErrAudioUnavailable
	}
	return s
}

// SetEnabled mutes (false) or unmutes (true) the speaker. While muted the
// line still toggles and the edge timestamp still advances, so unmuting
// does not produce a catch-up burst.
func (s *Sound) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// IsAvailable reports whether the sink is currently accepting audio.
func (s *Sound) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// LastError returns the most recent sink error, or nil.
func (s *Sound) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// toggle implements the shared read/write side effect: emit the elapsed
// segment at the current line level, then flip the line.
func (s *Sound) toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	duration := now - s.lastEdge
	s.lastEdge = now

	samples := int(float64(duration) * clock.TickSeconds * SampleRate)
	if samples > 0 && samples <= bufferSamples && s.available && s.enabled {
		amp := lowAmplitude
		if s.line {
			amp = highAmplitude
		}
		buf := make([]byte, samples)
		for i := range buf {
			buf[i] = amp
		}
		if err := s.sink.Write(buf); err != nil {
			s.available = false
			s.lastErr = err
		}
	}

	s.line = !s.line
}

// Read implements bus.Device.
func (s *Sound) Read(addr uint16) (uint8, error) {
	s.toggle()
	return 0, nil
}

// Write implements bus.Device.
func (s *Sound) Write(addr uint16, value uint8) error {
	s.toggle()
	return nil
}
