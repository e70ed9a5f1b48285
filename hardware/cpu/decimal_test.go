package cpu_test

import (
	"testing"

	"github.com/tk2emu/tk2000/hardware/cpu"
)

// bcdBytes enumerates every valid packed-BCD byte, 0x00-0x99.
func bcdBytes() []uint8 {
	var out []uint8
	for hi := 0; hi <= 9; hi++ {
		for lo := 0; lo <= 9; lo++ {
			out = append(out, uint8(hi<<4|lo))
		}
	}
	return out
}

func decimalOf(v uint8) int {
	return int(v>>4)*10 + int(v&0x0F)
}

func packBCD(v int) uint8 {
	return uint8(v/10)<<4 | uint8(v%10)
}

// TestDecimalAdcExhaustive checks ADC with D=1 against the decimal sum for
// every valid BCD operand pair and both carry-in values.
func TestDecimalAdcExhaustive(t *testing.T) {
	for _, carry := range []int{0, 1} {
		for _, a := range bcdBytes() {
			for _, b := range bcdBytes() {
				// SED; CLC/SEC; LDA #a; ADC #b
				carryOp := byte(0x18)
				if carry == 1 {
					carryOp = 0x38
				}
				_, _, c := newCPU(t, 0x0800, []byte{0xF8, carryOp, 0xA9, a, 0x69, b})
				step(c, 3)

				total := decimalOf(a) + decimalOf(b) + carry
				wantA := packBCD(total % 100)
				wantC := total >= 100

				if c.A != wantA {
					t.Fatalf("ADC D=1: %#02x + %#02x + %d: A = %#02x, want %#02x", a, b, carry, c.A, wantA)
				}
				if gotC := c.StatusByte()&cpu.FlagC != 0; gotC != wantC {
					t.Fatalf("ADC D=1: %#02x + %#02x + %d: C = %v, want %v", a, b, carry, gotC, wantC)
				}
			}
		}
	}
}

// TestDecimalSbcExhaustive checks SBC with D=1 against the decimal
// difference: C=1 means no borrow, and a borrow wraps the result mod 100.
func TestDecimalSbcExhaustive(t *testing.T) {
	for _, carry := range []int{0, 1} {
		for _, a := range bcdBytes() {
			for _, b := range bcdBytes() {
				carryOp := byte(0x18)
				if carry == 1 {
					carryOp = 0x38
				}
				_, _, c := newCPU(t, 0x0800, []byte{0xF8, carryOp, 0xA9, a, 0xE9, b})
				step(c, 3)

				diff := decimalOf(a) - decimalOf(b) - (1 - carry)
				wantA := packBCD(((diff % 100) + 100) % 100)
				wantC := diff >= 0

				if c.A != wantA {
					t.Fatalf("SBC D=1: %#02x - %#02x - %d: A = %#02x, want %#02x", a, b, 1-carry, c.A, wantA)
				}
				if gotC := c.StatusByte()&cpu.FlagC != 0; gotC != wantC {
					t.Fatalf("SBC D=1: %#02x - %#02x - %d: C = %v, want %v", a, b, 1-carry, gotC, wantC)
				}
			}
		}
	}
}

// TestBinaryAdcSweep spot-checks binary-mode ADC against int arithmetic
// over a spread of operands.
func TestBinaryAdcSweep(t *testing.T) {
	for a := 0; a < 256; a += 7 {
		for b := 0; b < 256; b += 13 {
			_, _, c := newCPU(t, 0x0800, []byte{0x18, 0xA9, uint8(a), 0x69, uint8(b)})
			step(c, 3)

			want := a + b
			if c.A != uint8(want) {
				t.Fatalf("ADC %#02x + %#02x: A = %#02x, want %#02x", a, b, c.A, uint8(want))
			}
			if gotC := c.StatusByte()&cpu.FlagC != 0; gotC != (want > 0xFF) {
				t.Fatalf("ADC %#02x + %#02x: C = %v, want %v", a, b, gotC, want > 0xFF)
			}
		}
	}
}
