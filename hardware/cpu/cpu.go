package cpu

import (
	"context"
	"time"

	"github.com/tk2emu/tk2000/hardware/bus"
	"github.com/tk2emu/tk2000/hardware/clock"
)

// Exception is a bit in the CPU's exception register: an asserted RESET,
// NMI or IRQ line waiting to be serviced at the next instruction boundary.
type Exception uint8

const (
	ExceptionReset Exception = 1 << iota
	ExceptionNMI
	ExceptionIRQ
)

// Interrupt vector locations.
const (
	vectorNMI   uint16 = 0xFFFA
	vectorReset uint16 = 0xFFFC
	vectorIRQ   uint16 = 0xFFFE
)

// throttleBatch is the number of simulated cycles executed between
// wall-clock throttle checks: 100ms of simulated time at the nominal rate.
const throttleBatch = 100000

// throttleWindow is the wall-clock time a throttleBatch is supposed to
// take at the nominal 1MHz.
const throttleWindow = 100 * time.Millisecond

// CPU is the 6502/65C02 interpreter. The register fields are exported for
// the benefit of tests and a debugging host; everything else goes through
// Step and the bus.
type CPU struct {
	b   *bus.Bus
	clk *clock.Counter

	A, X, Y, S uint8
	PC         uint16

	// p holds the directly-stored status bits (I, D, V and the always-set
	// unused bit). C, Z and N live in the nz/result shadows between
	// reconciliation points -- see flags.go.
	p      uint8
	nz     int
	result int

	exceptionRegister Exception
	pendingIRQ        int
}

// New returns a CPU wired to b, advancing clk as it executes. The RESET
// exception is asserted so that the first Step boots from the reset
// vector.
func New(b *bus.Bus, clk *clock.Counter) *CPU {
	c := &CPU{b: b, clk: clk, S: 0xFF, p: FlagUnused}
	c.nz = 1
	c.Raise(ExceptionReset)
	return c
}

// Raise asserts an exception line. It is serviced before the next
// instruction fetch.
func (c *CPU) Raise(e Exception) {
	c.exceptionRegister |= e
}

// StatusByte returns the status register as PHP would push it (B and
// unused set), reconciling the flag shadows.
func (c *CPU) StatusByte() uint8 {
	return c.flagsByte(true)
}

// SetStatus loads the status register from a full P byte, reconstructing
// the flag shadows, as PLP would.
func (c *CPU) SetStatus(v uint8) {
	c.restoreFlags(v)
}

// Clock returns the current cycle count.
func (c *CPU) Clock() clock.Cycles {
	return c.clk.Now()
}

func (c *CPU) read(addr uint16) uint8 {
	return c.b.Read(addr)
}

func (c *CPU) write(addr uint16, v uint8) {
	c.b.Write(addr, v)
}

// fetchPC reads the byte at PC and advances PC, wrapping mod 65536.
func (c *CPU) fetchPC() uint8 {
	v := c.read(c.PC)
	c.PC++
	return v
}

// fetchPC16 reads a little-endian word at PC.
func (c *CPU) fetchPC16() uint16 {
	lo := c.fetchPC()
	hi := c.fetchPC()
	return uint16(hi)<<8 | uint16(lo)
}

// read16 reads a little-endian word at addr.
func (c *CPU) read16(addr uint16) uint16 {
	lo := c.read(addr)
	hi := c.read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// read16ZP reads a little-endian word from the zero page, with the high
// byte fetched from (zp+1)&0xFF -- the 6502's zero-page wrap.
func (c *CPU) read16ZP(zp uint8) uint16 {
	lo := c.read(uint16(zp))
	hi := c.read(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// The stack lives in page 1. Push stores then decrements; pop increments
// then loads. S wraps within the page.
func (c *CPU) push(v uint8) {
	c.write(0x0100|uint16(c.S), v)
	c.S--
}

func (c *CPU) pop() uint8 {
	c.S++
	return c.read(0x0100 | uint16(c.S))
}

func (c *CPU) push16(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.pop()
	hi := c.pop()
	return uint16(hi)<<8 | uint16(lo)
}

// serviceExceptions handles any asserted RESET/NMI/IRQ lines, in that
// priority order, and returns the cycles charged.
func (c *CPU) serviceExceptions() int {
	cycles := 0

	if c.exceptionRegister&ExceptionReset != 0 {
		c.A, c.X, c.Y = 0, 0, 0
		c.S = 0xFF
		c.restoreFlags(FlagUnused)
		c.pendingIRQ = 0
		c.PC = c.read16(vectorReset)
		c.exceptionRegister &^= ExceptionReset
	}

	if c.exceptionRegister&ExceptionNMI != 0 {
		c.push16(c.PC)
		c.push(c.flagsByte(false))
		c.PC = c.read16(vectorNMI)
		cycles += 7
		c.exceptionRegister &^= ExceptionNMI
	}

	if c.exceptionRegister&ExceptionIRQ != 0 {
		if c.testFlag(FlagI) {
			// deferred: replayed when CLI or PLP clears I
			c.pendingIRQ++
		} else {
			c.push16(c.PC)
			c.push(c.flagsByte(false))
			c.setFlag(FlagI, true)
			c.PC = c.read16(vectorIRQ)
			cycles += 7
		}
		c.exceptionRegister &^= ExceptionIRQ
	}

	return cycles
}

// Step services pending exceptions, then fetches and executes a single
// instruction, advancing the shared clock. It returns the total cycles
// consumed, always positive.
func (c *CPU) Step() int {
	cycles := 0
	if c.exceptionRegister != 0 {
		cycles += c.serviceExceptions()
	}

	opcodeAddr := c.PC
	cycles += c.execute(c.fetchPC(), opcodeAddr)
	c.clk.Add(cycles)
	return cycles
}

// Run executes instructions until ctx is cancelled, throttling to the
// nominal 1MHz: after every throttleBatch simulated cycles the goroutine
// sleeps off whatever remains of the batch's wall-clock window.
func (c *CPU) Run(ctx context.Context) error {
	for {
		start := time.Now()
		target := c.clk.Now() + throttleBatch

		for c.clk.Now() < target {
			c.Step()
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		if remaining := throttleWindow - time.Since(start); remaining > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(remaining):
			}
		}
	}
}
