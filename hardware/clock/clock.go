// Package clock defines the monotonic cycle counter shared by the CPU and
// the devices that schedule behaviour against it (Tape, Sound). It is a
// tiny, dependency-free package: the speed constants and the counter type,
// which needs a home of its own because several devices read it
// independently of the CPU.
package clock

// Hz is the nominal, un-throttled clock rate of the emulated 6502/65C02.
const Hz = 1000000

// TickSeconds is the nominal duration of a single cycle at Hz.
const TickSeconds = 1.0 / Hz

// Cycles counts CPU cycles elapsed since power-on. It is wide enough that
// it will not wrap in any realistic emulation session (at 1MHz, 64 bits
// covers more than 584,000 years).
type Cycles uint64

// Counter is the shared, monotonically increasing cycle count. The CPU is
// the sole writer; Tape and Sound are readers. Per the concurrency model,
// reads only need to observe monotonic progress, not a linearizable
// snapshot, so a plain value behind the CPU's own read/write dispatch is
// sufficient -- devices are only ever consulted synchronously from within
// the CPU's bus access, never from an independent goroutine.
type Counter struct {
	value Cycles
}

// Now returns the current cycle count.
func (c *Counter) Now() Cycles {
	return c.value
}

// Add advances the counter by n cycles.
func (c *Counter) Add(n int) {
	c.value += Cycles(n)
}

// Reset sets the counter back to zero.
func (c *Counter) Reset() {
	c.value = 0
}
