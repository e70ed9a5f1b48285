// Package ram implements the TK2000's 64KiB linear RAM store.
package ram

// Size is the full TK2000 address space; RAM occupies all of it by default
// (the 0xC100-0xFFFF window is usually shadowed by ROM, see bankswitch).
const Size = 0x10000

// RAM is a flat 64KiB byte store. The zero value is a RAM full of zeroes,
// matching the TK2000's power-on state (contents are not randomised the
// way some emulators do).
type RAM struct {
	mem [Size]byte
}

// New returns a zeroed RAM.
func New() *RAM {
	return &RAM{}
}

// Read returns the stored byte at addr.
func (r *RAM) Read(addr uint16) (uint8, error) {
	return r.mem[addr], nil
}

// Write stores value at addr.
func (r *RAM) Write(addr uint16, value uint8) error {
	r.mem[addr] = value
	return nil
}

// Peek reads without side effects; RAM reads never have side effects, so
// this is identical to Read, but the separate method lets callers (such as
// tests) express read-only intent.
func (r *RAM) Peek(addr uint16) uint8 {
	return r.mem[addr]
}

// Clear fills the entire 64KiB with zero, used on power-off.
func (r *RAM) Clear() {
	for i := range r.mem {
		r.mem[i] = 0
	}
}
