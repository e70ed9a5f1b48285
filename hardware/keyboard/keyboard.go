// Package keyboard implements the TK2000's memory-mapped 8x8 keyboard
// matrix scanner. It is the "direct" variant: at most one key is
// considered held at a time, with separate ctrl/shift modifier flags,
// rather than a buffered queue of events. The buffered/queued variant is
// not implemented -- see DESIGN.md.
package keyboard

import (
	"sync"

	"github.com/tk2emu/tk2000/hardware/bus"
)

// Key identifies a physical key on the TK2000 keyboard, independent of any
// host keyboard layout. The host is responsible for translating its own
// key events into these values before calling PushKey.
type Key int

// Letters, digits and control keys of the matrix.
const (
	KeyNone Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEnter
	KeyBackspace
	KeySpace
	KeyColon
	KeyComma
	KeyPeriod
	KeyQuestion
)

// cell identifies a matrix row/column position.
type cell struct {
	row, col uint8
}

// matrix is the TK2000's 8x8 row/KBIN-column table. Only the
// populated cells are listed; row/column combinations not present here are
// never selected.
var matrix = map[Key]cell{
	KeyB: {0, 1}, KeyV: {0, 2}, KeyC: {0, 3}, KeyX: {0, 4}, KeyZ: {0, 5},
	KeyG: {1, 1}, KeyF: {1, 2}, KeyD: {1, 3}, KeyS: {1, 4}, KeyA: {1, 5},
	KeySpace: {2, 0}, KeyT: {2, 1}, KeyR: {2, 2}, KeyE: {2, 3}, KeyW: {2, 4}, KeyQ: {2, 5},
	KeyLeft: {3, 0}, Key5: {3, 1}, Key4: {3, 2}, Key3: {3, 3}, Key2: {3, 4}, Key1: {3, 5},
	KeyRight: {4, 0}, Key6: {4, 1}, Key7: {4, 2}, Key8: {4, 3}, Key9: {4, 4}, Key0: {4, 5},
	KeyDown: {5, 0}, KeyY: {5, 1}, KeyU: {5, 2}, KeyI: {5, 3}, KeyO: {5, 4}, KeyP: {5, 5},
	KeyUp: {6, 0}, KeyH: {6, 1}, KeyJ: {6, 2}, KeyK: {6, 3}, KeyL: {6, 4}, KeyColon: {6, 5},
	KeyEnter: {7, 0}, KeyN: {7, 1}, KeyM: {7, 2}, KeyComma: {7, 3}, KeyPeriod: {7, 4}, KeyQuestion: {7, 5},

	// Backspace shares the Left arrow's cell.
	KeyBackspace: {3, 0},
}

// Symbol is a punctuation character produced by holding shift while
// pressing a digit-row key (!"#$%&/()=). The keyboard's remaining legends
// (-+*^@) have no documented cell in the 8x8 matrix and are not mapped;
// see DESIGN.md.
type Symbol rune

// symbolKeys maps each supported shifted symbol to the digit-row key that,
// combined with SHIFT, produces it.
var symbolKeys = map[Symbol]Key{
	'!': Key1, '"': Key2, '#': Key3, '$': Key4, '%': Key5,
	'&': Key6, '/': Key7, '(': Key8, ')': Key9, '=': Key0,
}

// Keyboard is the direct-variant matrix scanner. Matrix state is mutated
// by host input events and read by the CPU goroutine, so every method
// serializes on an internal mutex.
type Keyboard struct {
	mu     sync.Mutex
	kbin   uint8
	active *cell
	shift  bool
	ctrl   bool
}

// New returns a Keyboard with no key held.
func New() *Keyboard {
	return &Keyboard{}
}

// PushKey marks key as held, with the given modifier state. Only one key
// can be active at a time; pushing a new key replaces the previous one.
// A Symbol can be pushed directly via PushSymbol.
func (k *Keyboard) PushKey(key Key, shift, ctrl bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.shift = shift
	k.ctrl = ctrl

	if c, ok := matrix[key]; ok {
		cc := c
		k.active = &cc
		return
	}
	k.active = nil
}

// PushSymbol presses the digit-row key that, combined with SHIFT, produces
// sym. Unsupported symbols are a no-op.
func (k *Keyboard) PushSymbol(sym Symbol, ctrl bool) {
	key, ok := symbolKeys[sym]
	if !ok {
		return
	}
	k.PushKey(key, true, ctrl)
}

// ReleaseKey clears the held key and both modifier flags.
func (k *Keyboard) ReleaseKey() {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.active = nil
	k.shift = false
	k.ctrl = false
}

// Read implements bus.Device.
func (k *Keyboard) Read(addr uint16) (uint8, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch {
	case addr >= 0xC000 && addr <= 0xC01F:
		var v uint8
		if k.active != nil && k.kbin == 1<<k.active.row {
			v |= 1 << k.active.col
		}
		if k.kbin == 0x01 && k.shift {
			v |= 1
		}
		return v, nil

	case addr == 0xC05E || addr == 0xC05F:
		if k.ctrl {
			return 1, nil
		}
		return 0, nil
	}

	return bus.OpenBus, nil
}

// Write implements bus.Device. Writes to the matrix range set KBIN, the
// one-hot row selector; writes to 0xC05F arm the control-line query (here
// the query is simply always active -- see DESIGN.md).
func (k *Keyboard) Write(addr uint16, value uint8) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if addr >= 0xC000 && addr <= 0xC01F {
		k.kbin = value
	}
	return nil
}
