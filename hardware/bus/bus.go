// Package bus implements the TK2000's 64KiB address-mapped I/O bus: a
// plain Read/Write contract every memory-mapped area implements, plus the
// multi-device "wired-OR" cell the machine's address map needs. A handful
// of addresses (0xC010 in particular) are deliberately bound to more than
// one device, and a read must aggregate every device's contribution.
package bus

// Device is implemented by anything attached to the bus: RAM, ROM, the
// bank switch, the keyboard matrix, the tape player, the speaker and the
// video softswitches.
type Device interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, value uint8) error
}

// Mode controls how Attach behaves when a range overlaps an existing
// binding.
type Mode int

const (
	// Replace removes any existing binding overlapping the range before
	// attaching the new device.
	Replace Mode = iota
	// Add appends the device to the range without disturbing existing
	// bindings, so that reads of the range OR together every device's
	// result.
	Add
)

// OpenBus is the value returned by Read when no device is mapped at the
// requested address.
const OpenBus uint8 = 0xFF

type binding struct {
	lo, hi uint16
	dev    Device
}

func (b binding) contains(addr uint16) bool {
	return addr >= b.lo && addr <= b.hi
}

func overlaps(aLo, aHi, bLo, bHi uint16) bool {
	return aLo <= bHi && bLo <= aHi
}

// Bus is the TK2000's 64KiB address space. The zero value is ready to use.
type Bus struct {
	bindings []binding
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Attach maps dev to every address in [lo, hi] (inclusive). mode decides
// whether pre-existing bindings in the range are removed (Replace) or kept
// alongside the new device (Add).
func (b *Bus) Attach(lo, hi uint16, dev Device, mode Mode) {
	if mode == Replace {
		kept := b.bindings[:0]
		for _, existing := range b.bindings {
			if overlaps(lo, hi, existing.lo, existing.hi) {
				continue
			}
			kept = append(kept, existing)
		}
		b.bindings = kept
	}

	b.bindings = append(b.bindings, binding{lo: lo, hi: hi, dev: dev})
}

// devicesAt returns every device bound to addr, in attachment order.
func (b *Bus) devicesAt(addr uint16) []Device {
	var devs []Device
	for _, bnd := range b.bindings {
		if bnd.contains(addr) {
			devs = append(devs, bnd.dev)
		}
	}
	return devs
}

// Read returns OpenBus if nothing is mapped at addr, the device's value if
// exactly one device is mapped, or the bitwise OR of every mapped device's
// value otherwise. Errors returned by individual devices are discarded (a
// read never fails outright); Read never returns an error.
func (b *Bus) Read(addr uint16) uint8 {
	devs := b.devicesAt(addr)
	if len(devs) == 0 {
		return OpenBus
	}

	var result uint8
	for _, dev := range devs {
		v, _ := dev.Read(addr)
		result |= v
	}
	return result
}

// Write fans the value out to every device mapped at addr. An address with
// no device attached is a no-op.
func (b *Bus) Write(addr uint16, value uint8) {
	for _, dev := range b.devicesAt(addr) {
		_ = dev.Write(addr, value)
	}
}

// DeviceAt returns the first device attached at addr and whether one
// exists, used by BankSW to probe for a cartridge occupying part of the
// bank-switched window.
func (b *Bus) DeviceAt(addr uint16) (Device, bool) {
	devs := b.devicesAt(addr)
	if len(devs) == 0 {
		return nil, false
	}
	return devs[0], true
}
