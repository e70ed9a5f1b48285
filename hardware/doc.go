// Package hardware is the base package for the TK2000 emulation. Its
// sub-packages contain everything required for a headless emulation of the
// machine: the 6502/65C02 CPU, the address-mapped bus, the RAM/ROM/bank-switch
// memory model, the keyboard matrix scanner, the cassette player, the speaker
// toggler and the hi-res artifact-color video rasterizer.
//
// The machine sub-package is the root of the emulation and wires every device
// to the bus. From there, the emulation can either be run continuously on its
// own goroutines or stepped instruction by instruction.
package hardware
