// Package tape implements the TK2000's cassette interface: decoding .ct2
// tape images into an expanded half-wave cycle-duration buffer, and
// replaying that buffer against 0xC010 (CASIN) driven by the CPU's clock.
package tape

import (
	"fmt"
	"sync"

	"github.com/tk2emu/tk2000/hardware/bus"
	"github.com/tk2emu/tk2000/hardware/clock"
)

// CACycles is the number of (502, 502) half-cycle pairs a "CA" leader
// chunk expands to. Exposed as a variable, not a constant, so the leader
// length can be tuned for picky software without rebuilding.
var CACycles = 500

// CBCycles is the number of (679, 679) half-cycle pairs in the body of a
// "CB" sync chunk, between its leading (464, 679) and trailing (199, 250)
// pairs.
var CBCycles = 32

// magicHeaderSize is the length of the .ct2 file's leading magic header,
// skipped without validation: it has no meaning beyond identifying the
// format.
const magicHeaderSize = 4

const chunkHeaderSize = 4

// Decode expands a .ct2 file's contents into a half-wave buffer: a
// sequence of CPU-cycle durations for alternating CASIN half-cycles.
func Decode(data []byte) ([]int, error) {
	if len(data) < magicHeaderSize {
		return nil, fmt.Errorf("tape: file too short for magic header (%d bytes)", len(data))
	}

	var wave []int
	pos := magicHeaderSize
	for pos < len(data) {
		if pos+chunkHeaderSize > len(data) {
			return nil, fmt.Errorf("tape: truncated chunk header at offset %d", pos)
		}
		tag := string(data[pos : pos+2])

		switch tag {
		case "CA":
			for i := 0; i < CACycles; i++ {
				wave = append(wave, 502, 502)
			}
			pos += chunkHeaderSize

		case "CB":
			wave = append(wave, 464, 679)
			for i := 0; i < CBCycles; i++ {
				wave = append(wave, 679, 679)
			}
			wave = append(wave, 199, 250)
			pos += chunkHeaderSize

		case "DA":
			n := int(data[pos+2]) | int(data[pos+3])<<8
			pos += chunkHeaderSize
			if pos+n > len(data) {
				return nil, fmt.Errorf("tape: DA chunk of %d bytes truncated at offset %d", n, pos)
			}
			for _, b := range data[pos : pos+n] {
				for bit := 7; bit >= 0; bit-- {
					if b&(1<<uint(bit)) != 0 {
						wave = append(wave, 500, 500)
					} else {
						wave = append(wave, 250, 250)
					}
				}
			}
			pos += n

		default:
			// Unknown chunk tags are ignored: the header format defines no
			// payload for anything but DA, so we can only skip the header.
			pos += chunkHeaderSize
		}
	}

	return wave, nil
}

// Tape is the memory-mapped cassette player, attached to 0xC010 (CASIN,
// shared with the keyboard strobe-clear cell) and 0xC020 (CASOUT). The
// transport controls are called from the host goroutine while CASIN reads
// come from the CPU goroutine, so state is guarded by a mutex.
type Tape struct {
	b   *bus.Bus
	clk *clock.Counter

	mu       sync.Mutex
	wave     []int
	playhead int
	active   bool
	edge     clock.Cycles
	casin    uint8

	play  bool
	sound bool
}

// New returns an empty Tape with no program loaded. b is used to redirect
// CASOUT reads and tape-sound clicks to the speaker device at 0xC030.
func New(b *bus.Bus, clk *clock.Counter) *Tape {
	return &Tape{b: b, clk: clk}
}

// Insert loads a decoded wave buffer, rewinding the playhead and stopping
// any playback in progress.
func (t *Tape) Insert(wave []int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.wave = wave
	t.playhead = 0
	t.active = false
	t.casin = 0x00
	t.play = false
}

// Play starts (or resumes) playback from the current playhead.
func (t *Tape) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.play = true
}

// Stop halts playback without rewinding.
func (t *Tape) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.play = false
}

// Playing reports whether the transport is currently running.
func (t *Tape) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.play
}

// SetSound controls whether edge transitions also click the speaker.
func (t *Tape) SetSound(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sound = enabled
}

// AtEnd reports whether the playhead has consumed the whole wave buffer.
func (t *Tape) AtEnd() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playhead >= len(t.wave)
}

// Ended reports whether a loaded tape has played through to the end. It is
// distinct from AtEnd in that an empty transport never reports true, which
// lets the machine raise a single tape-end event per play.
func (t *Tape) Ended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.wave) > 0 && t.playhead >= len(t.wave)
}

// Read implements bus.Device.
func (t *Tape) Read(addr uint16) (uint8, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch addr {
	case 0xC010:
		if t.play {
			t.step()
		}
		return t.casin, nil

	case 0xC020:
		if t.b != nil {
			t.b.Read(0xC030)
		}
		return 0, nil
	}
	return bus.OpenBus, nil
}

// Write implements bus.Device; the tape has no write-sensitive addresses
// of its own (CASOUT is handled as a read redirect).
func (t *Tape) Write(addr uint16, value uint8) error {
	return nil
}

// atEnd is AtEnd without the lock, for use from step.
func (t *Tape) atEnd() bool {
	return t.playhead >= len(t.wave)
}

// step advances the playback state machine by one CASIN read: arm a
// half-cycle if none is active, toggle CASIN once the armed duration has
// elapsed, stop at the end of the buffer. The caller holds the mutex.
func (t *Tape) step() {
	if t.atEnd() {
		t.play = false
		return
	}

	now := t.clk.Now()

	if !t.active {
		t.edge = now
		t.casin = 0x80
		t.active = true
		return
	}

	elapsed := now - t.edge
	armed := clock.Cycles(t.wave[t.playhead])
	if elapsed <= armed {
		return
	}

	if t.casin == 0x80 {
		t.casin = 0x00
	} else {
		t.casin = 0x80
	}
	t.playhead++
	t.edge = now

	if t.sound && t.b != nil {
		t.b.Read(0xC030)
	}

	if t.atEnd() {
		t.play = false
		t.active = false
	}
}
