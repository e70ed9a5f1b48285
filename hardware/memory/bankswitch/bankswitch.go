// Package bankswitch implements the TK2000's 0xC05A/0xC05B (and
// 0xC080-0xC08B mirror) softswitch that swaps RAM and ROM into the
// 0xC100-0xFFFF window.
package bankswitch

import "github.com/tk2emu/tk2000/hardware/bus"

// Bank identifies which memory area currently backs the bank-switched
// window.
type Bank int

const (
	BankROM Bank = iota
	BankRAM
)

// window is the full bank-switched range when no cartridge is present.
const (
	windowLo        = 0xC100
	windowHi        = 0xFFFF
	cartridgeProbe  = 0xC101
	cartridgeWindow = 0xC200
)

// BankSW is attached to 0xC05A, 0xC05B and the 0xC080-0xC08B mirror. Any
// access, read or write, selects a bank; the accessed byte value is always
// ignored.
type BankSW struct {
	b    *bus.Bus
	ram  bus.Device
	rom  bus.Device
	bank Bank
}

// New returns a BankSW wired to remap ram/rom into b. The window starts
// selecting rom, matching the TK2000's power-on/reset state. The initial
// mapping covers the whole window unconditionally -- the cartridge probe
// only applies to later switches, once a cartridge has had a chance to
// claim 0xC100-0xC1FF.
func New(b *bus.Bus, ram, rom bus.Device) *BankSW {
	sw := &BankSW{b: b, ram: ram, rom: rom, bank: BankROM}
	b.Attach(windowLo, windowHi, rom, bus.Replace)
	return sw
}

// Bank returns the currently selected bank.
func (sw *BankSW) Bank() Bank {
	return sw.bank
}

// targetBank decides which bank an access to addr requests. 0xC05A and the
// even addresses of the mirror range select ROM; 0xC05B and the odd
// addresses select RAM.
func targetBank(addr uint16) Bank {
	if addr&0x0001 == 0 {
		return BankROM
	}
	return BankRAM
}

// Read implements bus.Device; any access selects a bank and returns the
// open-bus convention byte.
func (sw *BankSW) Read(addr uint16) (uint8, error) {
	sw.Select(targetBank(addr))
	return bus.OpenBus, nil
}

// Write implements bus.Device; the written value is ignored.
func (sw *BankSW) Write(addr uint16, value uint8) error {
	sw.Select(targetBank(addr))
	return nil
}

// Select switches the bank-switched window to bank. A request for the
// already-selected bank is a no-op.
func (sw *BankSW) Select(bank Bank) {
	if bank == sw.bank {
		return
	}
	sw.bank = bank
	sw.remap(bank)
}

// otherDevice returns the device backing the bank NOT being switched to.
func (sw *BankSW) otherDevice(bank Bank) bus.Device {
	if bank == BankROM {
		return sw.ram
	}
	return sw.rom
}

func (sw *BankSW) device(bank Bank) bus.Device {
	if bank == BankROM {
		return sw.rom
	}
	return sw.ram
}

// remap rewrites the bus bindings for the bank-switched window. It probes
// 0xC101 to detect a cartridge occupying 0xC100-0xC1FF: if the device
// currently mapped there is the bank we're switching away from, there is no
// cartridge and the whole window can be remapped; otherwise something else
// (a cartridge) owns the low part of the window and only 0xC200-0xFFFF is
// touched.
func (sw *BankSW) remap(bank Bank) {
	lo := uint16(windowLo)

	if current, ok := sw.b.DeviceAt(cartridgeProbe); !ok || current != sw.otherDevice(bank) {
		lo = cartridgeWindow
	}

	sw.b.Attach(lo, windowHi, sw.device(bank), bus.Replace)
}
