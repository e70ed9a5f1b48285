// Package cpu implements the MOS 6502/65C02 fetch-decode-execute loop:
// the documented 6502 instruction set plus the 65C02 additions used by
// TK2000 software (BRA, STZ, PHX/PLX/PHY/PLY, INA/DEA, the extra BIT
// forms, TRB/TSB, and JMP (abs,X)).
package cpu

// Flag bits of the status register P.
const (
	FlagC uint8 = 1 << 0
	FlagZ uint8 = 1 << 1
	FlagI uint8 = 1 << 2
	FlagD uint8 = 1 << 3
	FlagB uint8 = 1 << 4
	// FlagUnused is bit 5, always read back as 1.
	FlagUnused uint8 = 1 << 5
	FlagV      uint8 = 1 << 6
	FlagN      uint8 = 1 << 7
)

// zFlag reports the Z flag from the NZFlags shadow: the low 8 bits of the
// shadow hold the last data-producing result, zero exactly when Z should
// be set.
func (c *CPU) zFlag() bool {
	return c.nz&0xFF == 0
}

// nFlag reports the N flag. Bit 7 carries N for ordinary data-producing
// ops; bit 9 is used by BIT, whose N comes from the operand byte rather
// than from the AND result that drives Z.
func (c *CPU) nFlag() bool {
	return c.nz&0x280 != 0
}

// cFlag reports the C flag from the result shadow: bit 8 of the last
// carry-producing 9-bit result.
func (c *CPU) cFlag() bool {
	return c.result&0x100 != 0
}

// setNZ updates the shadow from an ordinary 8-bit data-producing result
// (loads, transfers, increments, logical ops).
func (c *CPU) setNZ(v uint8) {
	c.nz = int(v)
}

// setNZPreserveN updates Z only, leaving N as it was. Used by TRB/TSB,
// which the 6502 defines as Z-only.
func (c *CPU) setNZPreserveN(zero bool) {
	n := c.nz & 0x280
	if zero {
		c.nz = n
	} else {
		c.nz = n | 1
	}
}

// setNZForBit implements BIT's split shadow: Z from the AND of A and the
// operand, N from the operand's own bit 7.
func (c *CPU) setNZForBit(andResult, operand uint8) {
	c.nz = int(andResult) | (int(operand&0x80) << 2)
}

// setResult updates both the carry shadow and the ordinary NZ shadow from
// a carry-producing 9-bit (or wider) result.
func (c *CPU) setResult(r int) {
	c.result = r
	c.nz = r
}

// setC forces the C flag independent of the rest of the result shadow,
// used by CLC/SEC and when rebuilding the shadows from a popped P byte.
func (c *CPU) setC(v bool) {
	if v {
		c.result |= 0x100
	} else {
		c.result &^= 0x100
	}
}

// testFlag reports whether the given directly-stored bit (I, D, V or B)
// is set in P.
func (c *CPU) testFlag(mask uint8) bool {
	return c.p&mask != 0
}

// setFlag sets or clears a directly-stored bit (I, D or V) in P.
func (c *CPU) setFlag(mask uint8, v bool) {
	if v {
		c.p |= mask
	} else {
		c.p &^= mask
	}
}

// setI sets or clears the I flag. When I transitions from set to clear
// and IRQs were deferred while it was set, one deferred IRQ is
// re-asserted for replay.
func (c *CPU) setI(v bool) {
	wasSet := c.testFlag(FlagI)
	c.setFlag(FlagI, v)
	if wasSet && !v && c.pendingIRQ > 0 {
		c.pendingIRQ--
		c.exceptionRegister |= ExceptionIRQ
	}
}

// flagsByte reconciles the shadows and directly-stored bits into a single
// P byte, as pushed by PHP/BRK/interrupt entry. brk selects the B bit
// (always 1 for PHP/BRK, always 0 for hardware interrupt entry).
func (c *CPU) flagsByte(brk bool) uint8 {
	f := c.p &^ (FlagC | FlagZ | FlagN | FlagB)
	if c.cFlag() {
		f |= FlagC
	}
	if c.zFlag() {
		f |= FlagZ
	}
	if c.nFlag() {
		f |= FlagN
	}
	f |= FlagUnused
	if brk {
		f |= FlagB
	}
	return f
}

// restoreFlags reconstructs P and the shadows from a popped status byte,
// forcing unused=1, per the PLP/RTI ROM-compatibility quirk.
func (c *CPU) restoreFlags(v uint8) {
	v |= FlagUnused

	nz := 0
	if v&FlagZ == 0 {
		nz = 1
	}
	if v&FlagN != 0 {
		nz |= 0x80
	}

	wasISet := c.testFlag(FlagI)
	c.p = v
	c.nz = nz
	c.setC(v&FlagC != 0)

	if wasISet && v&FlagI == 0 && c.pendingIRQ > 0 {
		c.pendingIRQ--
		c.exceptionRegister |= ExceptionIRQ
	}
}
