package cpu_test

import (
	"testing"

	"github.com/tk2emu/tk2000/hardware/bus"
	"github.com/tk2emu/tk2000/hardware/clock"
	"github.com/tk2emu/tk2000/hardware/cpu"
	"github.com/tk2emu/tk2000/hardware/memory/ram"
)

// newCPU builds a CPU over a bus backed entirely by RAM, with the reset
// vector pointing at org and the given program installed there. The
// returned CPU has already serviced its power-on reset and executed the
// first instruction at org.
func newCPU(t *testing.T, org uint16, program []byte) (*ram.RAM, *clock.Counter, *cpu.CPU) {
	t.Helper()

	b := bus.New()
	r := ram.New()
	b.Attach(0x0000, 0xFFFF, r, bus.Replace)

	for i, v := range program {
		r.Write(org+uint16(i), v)
	}
	r.Write(0xFFFC, uint8(org))
	r.Write(0xFFFD, uint8(org>>8))

	clk := &clock.Counter{}
	c := cpu.New(b, clk)
	c.Step() // service reset, execute first instruction

	return r, clk, c
}

// step executes n further instructions.
func step(c *cpu.CPU, n int) {
	for i := 0; i < n; i++ {
		c.Step()
	}
}

func TestResetVectorsAndState(t *testing.T) {
	_, _, c := newCPU(t, 0x0800, []byte{0xEA})
	// the single Step in newCPU executed the NOP at 0x0800
	if c.PC != 0x0801 {
		t.Fatalf("PC = %#04x, want 0x0801", c.PC)
	}
	if c.A != 0 || c.X != 0 || c.Y != 0 {
		t.Fatalf("registers not cleared on reset: A=%#02x X=%#02x Y=%#02x", c.A, c.X, c.Y)
	}
}

func TestLdaStaRoundTrip(t *testing.T) {
	// LDA #$42; STA $2000; LDA $2000
	r, _, c := newCPU(t, 0x0800, []byte{0xA9, 0x42, 0x8D, 0x00, 0x20, 0xAD, 0x00, 0x20})
	step(c, 2)

	if c.A != 0x42 {
		t.Fatalf("A = %#02x, want 0x42", c.A)
	}
	if got := r.Peek(0x2000); got != 0x42 {
		t.Fatalf("RAM[0x2000] = %#02x, want 0x42", got)
	}
}

func TestDecimalADCScenario(t *testing.T) {
	// SED; CLC; LDA #$25; ADC #$17
	_, _, c := newCPU(t, 0x0800, []byte{0xF8, 0x18, 0xA9, 0x25, 0x69, 0x17})
	step(c, 3)

	if c.A != 0x42 {
		t.Fatalf("decimal ADC: A = %#02x, want 0x42", c.A)
	}
	if c.StatusByte()&cpu.FlagC != 0 {
		t.Fatalf("decimal ADC: C set, want clear")
	}
}

func TestEveryStepAdvancesClock(t *testing.T) {
	// program of zeros: opcode 0x00 is BRK, which vectors through 0xFFFE
	// (also zero) and keeps executing BRKs. Clock must still advance.
	_, clk, c := newCPU(t, 0x0800, nil)
	for i := 0; i < 100; i++ {
		before := clk.Now()
		c.Step()
		if clk.Now() <= before {
			t.Fatalf("step %d did not advance the clock", i)
		}
	}
}

func TestFreeRunFromROMStaysInROMWindow(t *testing.T) {
	// Scenario: run a million cycles of a tight ROM-resident loop and
	// check the CPU never escapes. JMP $C100 at $C100.
	_, clk, c := newCPU(t, 0xC100, []byte{0x4C, 0x00, 0xC1})
	for clk.Now() < 1000000 {
		c.Step()
	}
	if c.PC < 0xC000 {
		t.Fatalf("PC = %#04x, want within ROM window", c.PC)
	}
}

func TestInstructionCycleCounts(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		cycles  int
	}{
		{"LDA imm", []byte{0xA9, 0x01}, 2},
		{"LDA zp", []byte{0xA5, 0x10}, 3},
		{"LDA abs", []byte{0xAD, 0x00, 0x20}, 4},
		{"LDA (zp),Y", []byte{0xB1, 0x10}, 5},
		{"LDA (zp,X)", []byte{0xA1, 0x10}, 6},
		{"LDA (zp)", []byte{0xB2, 0x10}, 5},
		{"STA abs,X", []byte{0x9D, 0x00, 0x20}, 5},
		{"INC abs", []byte{0xEE, 0x00, 0x20}, 6},
		{"ASL abs,X", []byte{0x1E, 0x00, 0x20}, 7},
		{"JMP abs", []byte{0x4C, 0x00, 0x09}, 3},
		{"JMP (abs)", []byte{0x6C, 0x00, 0x20}, 5},
		{"JMP (abs,X)", []byte{0x7C, 0x00, 0x20}, 6},
		{"JSR", []byte{0x20, 0x00, 0x09}, 6},
		{"NOP", []byte{0xEA}, 2},
		{"PHX", []byte{0xDA}, 3},
		{"PLY", []byte{0x7A}, 4},
		{"STZ zp", []byte{0x64, 0x10}, 3},
		{"TSB zp", []byte{0x04, 0x10}, 5},
		{"TRB abs", []byte{0x1C, 0x00, 0x20}, 6},
		{"BRA", []byte{0x80, 0x02}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// a leading NOP is consumed by newCPU's reset step
			_, _, c := newCPU(t, 0x0800, append([]byte{0xEA}, tt.program...))
			if got := c.Step(); got != tt.cycles {
				t.Fatalf("cycles = %d, want %d", got, tt.cycles)
			}
		})
	}
}

func TestBranchTakenCostsExtraCycle(t *testing.T) {
	// BNE with Z clear (taken), then BNE with Z set (not taken)
	_, _, c := newCPU(t, 0x0800, append([]byte{0xA9, 0x01}, // LDA #$01 -> Z clear
		0xD0, 0x00, // BNE +0: taken
		0xA9, 0x00, // LDA #$00 -> Z set
		0xD0, 0x00, // BNE: not taken
	))
	if got := c.Step(); got != 3 {
		t.Fatalf("taken branch cycles = %d, want 3", got)
	}
	c.Step()
	if got := c.Step(); got != 2 {
		t.Fatalf("untaken branch cycles = %d, want 2", got)
	}
}

func TestBackwardBranchWraps(t *testing.T) {
	// BEQ -2 at 0x0802 with Z set loops back onto itself.
	_, _, c := newCPU(t, 0x0800, []byte{0xA9, 0x00, 0xF0, 0xFE})
	c.Step() // BEQ
	if c.PC != 0x0802 {
		t.Fatalf("PC = %#04x, want 0x0802", c.PC)
	}
}

func TestStackPushPop(t *testing.T) {
	// LDA #$AA; PHA; LDA #$00; PLA
	r, _, c := newCPU(t, 0x0800, []byte{0xA9, 0xAA, 0x48, 0xA9, 0x00, 0x68})
	step(c, 3)
	if c.A != 0xAA {
		t.Fatalf("A after PLA = %#02x, want 0xAA", c.A)
	}
	if got := r.Peek(0x01FF); got != 0xAA {
		t.Fatalf("stack top = %#02x, want 0xAA (S starts at 0xFF)", got)
	}
}

func TestPhpPlpRoundTripForcesUnused(t *testing.T) {
	// SEC; SED; PHP; CLC; CLD; PLP
	_, _, c := newCPU(t, 0x0800, []byte{0x38, 0xF8, 0x08, 0x18, 0xD8, 0x28})
	step(c, 5)

	p := c.StatusByte()
	if p&cpu.FlagC == 0 || p&cpu.FlagD == 0 {
		t.Fatalf("PLP did not restore C and D: P = %#02x", p)
	}
	if p&cpu.FlagUnused == 0 {
		t.Fatalf("unused bit must always read back as 1: P = %#02x", p)
	}
}

func TestBrkAndRti(t *testing.T) {
	program := []byte{
		0xA9, 0x07, // LDA #$07
		0x00, 0x00, // BRK (+ signature byte)
		0xA9, 0x99, // LDA #$99 (resumed here after RTI)
	}
	r, _, c := newCPU(t, 0x0800, program)
	// IRQ/BRK vector -> 0x0900: LDX #$01; RTI
	r.Write(0x0900, 0xA2)
	r.Write(0x0901, 0x01)
	r.Write(0x0902, 0x40)
	r.Write(0xFFFE, 0x00)
	r.Write(0xFFFF, 0x09)

	c.Step() // BRK
	if c.PC != 0x0900 {
		t.Fatalf("PC after BRK = %#04x, want 0x0900", c.PC)
	}
	// pushed status must carry B and unused
	if got := r.Peek(0x01FD); got&(cpu.FlagB|cpu.FlagUnused) != cpu.FlagB|cpu.FlagUnused {
		t.Fatalf("pushed P = %#02x, want B and unused set", got)
	}

	step(c, 2) // LDX; RTI
	if c.PC != 0x0804 {
		t.Fatalf("PC after RTI = %#04x, want 0x0804", c.PC)
	}
	c.Step()
	if c.A != 0x99 {
		t.Fatalf("A after resume = %#02x, want 0x99", c.A)
	}
}

func TestIRQDeferredWhileIMaskedAndReplayedOnCLI(t *testing.T) {
	program := []byte{
		0x78,       // SEI
		0xEA,       // NOP -- IRQ raised here is deferred
		0x58,       // CLI -- replays the deferred IRQ
		0xEA, 0xEA, // filler
	}
	r, _, c := newCPU(t, 0x0800, program)
	r.Write(0xFFFE, 0x00)
	r.Write(0xFFFF, 0x09)
	r.Write(0x0900, 0xEA) // handler: NOP

	// SEI already ran in newCPU's reset step
	c.Raise(cpu.ExceptionIRQ)
	c.Step() // NOP: IRQ seen but I is set, so deferred
	if c.PC != 0x0802 {
		t.Fatalf("IRQ should have been deferred, PC = %#04x", c.PC)
	}

	c.Step() // CLI re-asserts the pending IRQ...
	c.Step() // ...which is serviced before the next instruction
	if c.PC != 0x0901 {
		t.Fatalf("replayed IRQ not serviced: PC = %#04x, want 0x0901", c.PC)
	}
}

func TestNMIServicedRegardlessOfI(t *testing.T) {
	program := []byte{0x78, 0xEA, 0xEA} // SEI; NOP; NOP
	r, _, c := newCPU(t, 0x0800, program)
	r.Write(0xFFFA, 0x00)
	r.Write(0xFFFB, 0x0A)
	r.Write(0x0A00, 0xEA) // handler: NOP

	c.Step() // NOP (SEI already ran in newCPU's reset step)
	c.Raise(cpu.ExceptionNMI)
	c.Step()
	if c.PC != 0x0A01 {
		t.Fatalf("NMI not serviced: PC = %#04x", c.PC)
	}
}

func TestUnknownOpcodeChargesTwoCycles(t *testing.T) {
	// 0x02 is unassigned on the 6502/65C02 subset we implement
	_, _, c := newCPU(t, 0x0800, []byte{0xEA, 0x02})
	if got := c.Step(); got != 2 {
		t.Fatalf("unknown opcode cycles = %d, want 2", got)
	}
}

func TestZeroPageIndirectWrap(t *testing.T) {
	// (zp) with zp=0xFF: the high byte comes from 0x00, not 0x100.
	r, _, c := newCPU(t, 0x0800, []byte{0xEA, 0xB2, 0xFF}) // NOP; LDA ($FF)
	r.Write(0x00FF, 0x34)
	r.Write(0x0000, 0x12)
	r.Write(0x1234, 0x5A)

	c.Step()
	if c.A != 0x5A {
		t.Fatalf("A = %#02x, want 0x5A (zero-page wrap)", c.A)
	}
}

func TestCompareSetsCarryAndZero(t *testing.T) {
	// LDA #$40; CMP #$40 -> Z and C set. CMP #$50 -> both clear, N set.
	_, _, c := newCPU(t, 0x0800, []byte{0xA9, 0x40, 0xC9, 0x40, 0xC9, 0x50})
	c.Step()
	p := c.StatusByte()
	if p&cpu.FlagZ == 0 || p&cpu.FlagC == 0 {
		t.Fatalf("CMP equal: P = %#02x, want Z and C set", p)
	}
	c.Step()
	p = c.StatusByte()
	if p&cpu.FlagZ != 0 || p&cpu.FlagC != 0 || p&cpu.FlagN == 0 {
		t.Fatalf("CMP less: P = %#02x, want N set only", p)
	}
}

func TestAdcOverflowFlag(t *testing.T) {
	// 0x50 + 0x50 = 0xA0: signed overflow
	_, _, c := newCPU(t, 0x0800, []byte{0x18, 0xA9, 0x50, 0x69, 0x50})
	step(c, 3)
	if c.StatusByte()&cpu.FlagV == 0 {
		t.Fatalf("ADC 0x50+0x50 should set V")
	}
	if c.A != 0xA0 {
		t.Fatalf("A = %#02x, want 0xA0", c.A)
	}
}

func TestRolThroughCarry(t *testing.T) {
	// SEC; LDA #$80; ROL -> A=0x01, C=1
	_, _, c := newCPU(t, 0x0800, []byte{0x38, 0xA9, 0x80, 0x2A})
	step(c, 3)
	if c.A != 0x01 {
		t.Fatalf("ROL A = %#02x, want 0x01", c.A)
	}
	if c.StatusByte()&cpu.FlagC == 0 {
		t.Fatalf("ROL should have carried out bit 7")
	}
}

func TestBitSetsNFromOperand(t *testing.T) {
	// LDA #$01; BIT $10 where $10 holds 0xC0 -> Z set (A&v==0), N set, V set
	r, _, c := newCPU(t, 0x0800, []byte{0xA9, 0x01, 0x24, 0x10})
	r.Write(0x0010, 0xC0)
	step(c, 1)
	p := c.StatusByte()
	if p&cpu.FlagZ == 0 || p&cpu.FlagN == 0 || p&cpu.FlagV == 0 {
		t.Fatalf("BIT: P = %#02x, want Z, N and V set", p)
	}
}

func TestTsbTrb(t *testing.T) {
	// LDA #$0F; TSB $10; TRB $10
	r, _, c := newCPU(t, 0x0800, []byte{0xA9, 0x0F, 0x04, 0x10, 0x14, 0x10})
	r.Write(0x0010, 0xF0)
	step(c, 1)
	if got := r.Peek(0x0010); got != 0xFF {
		t.Fatalf("TSB result = %#02x, want 0xFF", got)
	}
	c.Step()
	if got := r.Peek(0x0010); got != 0xF0 {
		t.Fatalf("TRB result = %#02x, want 0xF0", got)
	}
}
