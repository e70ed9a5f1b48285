package main

import (
	"strings"
	"time"

	"github.com/pkg/term"

	"github.com/tk2emu/tk2000/hardware/keyboard"
	"github.com/tk2emu/tk2000/hardware/machine"
)

// keyHold is how long a terminal keystroke is held down on the emulated
// matrix. Terminals deliver key presses, not press/release pairs, so each
// byte becomes a press followed by a timed release.
const keyHold = 75 * time.Millisecond

// shiftedSymbols are the punctuation characters reachable as SHIFT plus a
// digit-row key on the TK2000.
const shiftedSymbols = `!"#$%&/()=`

// mapByte translates a single raw terminal byte to a matrix key. ok is
// false for bytes with no mapping.
func mapByte(b byte) (key keyboard.Key, shift, ctrl, ok bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return keyboard.KeyA + keyboard.Key(b-'a'), false, false, true
	case b >= 'A' && b <= 'Z':
		return keyboard.KeyA + keyboard.Key(b-'A'), true, false, true
	case b >= '0' && b <= '9':
		return keyboard.Key0 + keyboard.Key(b-'0'), false, false, true
	case b == '\r' || b == '\n':
		return keyboard.KeyEnter, false, false, true
	case b == ' ':
		return keyboard.KeySpace, false, false, true
	case b == 0x7F || b == 0x08:
		return keyboard.KeyBackspace, false, false, true
	case b == ':':
		return keyboard.KeyColon, false, false, true
	case b == ',':
		return keyboard.KeyComma, false, false, true
	case b == '.':
		return keyboard.KeyPeriod, false, false, true
	case b == '?':
		return keyboard.KeyQuestion, false, false, true
	case b >= 0x01 && b <= 0x1A:
		// control codes: ctrl plus the corresponding letter
		return keyboard.KeyA + keyboard.Key(b-0x01), false, true, true
	}
	return keyboard.KeyNone, false, false, false
}

// arrowKey translates the final byte of an ANSI cursor sequence.
func arrowKey(b byte) (keyboard.Key, bool) {
	switch b {
	case 'A':
		return keyboard.KeyUp, true
	case 'B':
		return keyboard.KeyDown, true
	case 'C':
		return keyboard.KeyRight, true
	case 'D':
		return keyboard.KeyLeft, true
	}
	return keyboard.KeyNone, false
}

// readKeys puts the controlling terminal into raw mode and feeds
// keystrokes to the machine until ESC is pressed.
func readKeys(m *machine.Machine) error {
	t, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return err
	}
	defer func() {
		t.Restore()
		t.Close()
	}()

	var release *time.Timer
	press := func(f func()) {
		if release != nil {
			release.Stop()
		}
		f()
		release = time.AfterFunc(keyHold, m.ReleaseKey)
	}

	buf := make([]byte, 8)
	for {
		n, err := t.Read(buf)
		if err != nil || n == 0 {
			return err
		}

		// ANSI cursor sequence: ESC [ A/B/C/D
		if buf[0] == 0x1B {
			if n >= 3 && buf[1] == '[' {
				if key, ok := arrowKey(buf[2]); ok {
					press(func() { m.PushKey(key, false, false) })
				}
				continue
			}
			// a lone ESC quits
			return nil
		}

		for _, b := range buf[:n] {
			if strings.IndexByte(shiftedSymbols, b) >= 0 {
				sym := keyboard.Symbol(b)
				press(func() { m.PushSymbol(sym, false) })
				continue
			}
			if key, shift, ctrl, ok := mapByte(b); ok {
				press(func() { m.PushKey(key, shift, ctrl) })
			}
		}
	}
}
