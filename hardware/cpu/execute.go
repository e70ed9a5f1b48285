package cpu

import "github.com/tk2emu/tk2000/logger"

// execute dispatches a single fetched opcode and returns its cycle charge.
// The table is written out as a dense switch, one case per opcode, rather
// than factoring addressing mode against operation -- the 6502's
// irregularities make the explicit form both clearer and faster.
//
// Cycle counts are the textbook values without page-crossing penalties.
// Taken branches charge their extra cycle inside branch.
func (c *CPU) execute(op uint8, opcodeAddr uint16) int {
	switch op {
	// ORA
	case 0x09:
		c.ora(c.fetchPC())
		return 2
	case 0x05:
		c.ora(c.read(c.addrZP()))
		return 3
	case 0x15:
		c.ora(c.read(c.addrZPX()))
		return 4
	case 0x0D:
		c.ora(c.read(c.addrAbs()))
		return 4
	case 0x1D:
		c.ora(c.read(c.addrAbsX()))
		return 4
	case 0x19:
		c.ora(c.read(c.addrAbsY()))
		return 4
	case 0x01:
		c.ora(c.read(c.addrIndX()))
		return 6
	case 0x11:
		c.ora(c.read(c.addrIndY()))
		return 5
	case 0x12:
		c.ora(c.read(c.addrInd()))
		return 5

	// AND
	case 0x29:
		c.and(c.fetchPC())
		return 2
	case 0x25:
		c.and(c.read(c.addrZP()))
		return 3
	case 0x35:
		c.and(c.read(c.addrZPX()))
		return 4
	case 0x2D:
		c.and(c.read(c.addrAbs()))
		return 4
	case 0x3D:
		c.and(c.read(c.addrAbsX()))
		return 4
	case 0x39:
		c.and(c.read(c.addrAbsY()))
		return 4
	case 0x21:
		c.and(c.read(c.addrIndX()))
		return 6
	case 0x31:
		c.and(c.read(c.addrIndY()))
		return 5
	case 0x32:
		c.and(c.read(c.addrInd()))
		return 5

	// EOR
	case 0x49:
		c.eor(c.fetchPC())
		return 2
	case 0x45:
		c.eor(c.read(c.addrZP()))
		return 3
	case 0x55:
		c.eor(c.read(c.addrZPX()))
		return 4
	case 0x4D:
		c.eor(c.read(c.addrAbs()))
		return 4
	case 0x5D:
		c.eor(c.read(c.addrAbsX()))
		return 4
	case 0x59:
		c.eor(c.read(c.addrAbsY()))
		return 4
	case 0x41:
		c.eor(c.read(c.addrIndX()))
		return 6
	case 0x51:
		c.eor(c.read(c.addrIndY()))
		return 5
	case 0x52:
		c.eor(c.read(c.addrInd()))
		return 5

	// ADC
	case 0x69:
		c.adc(c.fetchPC())
		return 2
	case 0x65:
		c.adc(c.read(c.addrZP()))
		return 3
	case 0x75:
		c.adc(c.read(c.addrZPX()))
		return 4
	case 0x6D:
		c.adc(c.read(c.addrAbs()))
		return 4
	case 0x7D:
		c.adc(c.read(c.addrAbsX()))
		return 4
	case 0x79:
		c.adc(c.read(c.addrAbsY()))
		return 4
	case 0x61:
		c.adc(c.read(c.addrIndX()))
		return 6
	case 0x71:
		c.adc(c.read(c.addrIndY()))
		return 5
	case 0x72:
		c.adc(c.read(c.addrInd()))
		return 5

	// SBC
	case 0xE9:
		c.sbc(c.fetchPC())
		return 2
	case 0xE5:
		c.sbc(c.read(c.addrZP()))
		return 3
	case 0xF5:
		c.sbc(c.read(c.addrZPX()))
		return 4
	case 0xED:
		c.sbc(c.read(c.addrAbs()))
		return 4
	case 0xFD:
		c.sbc(c.read(c.addrAbsX()))
		return 4
	case 0xF9:
		c.sbc(c.read(c.addrAbsY()))
		return 4
	case 0xE1:
		c.sbc(c.read(c.addrIndX()))
		return 6
	case 0xF1:
		c.sbc(c.read(c.addrIndY()))
		return 5
	case 0xF2:
		c.sbc(c.read(c.addrInd()))
		return 5

	// CMP
	case 0xC9:
		c.cmp(c.A, c.fetchPC())
		return 2
	case 0xC5:
		c.cmp(c.A, c.read(c.addrZP()))
		return 3
	case 0xD5:
		c.cmp(c.A, c.read(c.addrZPX()))
		return 4
	case 0xCD:
		c.cmp(c.A, c.read(c.addrAbs()))
		return 4
	case 0xDD:
		c.cmp(c.A, c.read(c.addrAbsX()))
		return 4
	case 0xD9:
		c.cmp(c.A, c.read(c.addrAbsY()))
		return 4
	case 0xC1:
		c.cmp(c.A, c.read(c.addrIndX()))
		return 6
	case 0xD1:
		c.cmp(c.A, c.read(c.addrIndY()))
		return 5
	case 0xD2:
		c.cmp(c.A, c.read(c.addrInd()))
		return 5

	// CPX / CPY
	case 0xE0:
		c.cmp(c.X, c.fetchPC())
		return 2
	case 0xE4:
		c.cmp(c.X, c.read(c.addrZP()))
		return 3
	case 0xEC:
		c.cmp(c.X, c.read(c.addrAbs()))
		return 4
	case 0xC0:
		c.cmp(c.Y, c.fetchPC())
		return 2
	case 0xC4:
		c.cmp(c.Y, c.read(c.addrZP()))
		return 3
	case 0xCC:
		c.cmp(c.Y, c.read(c.addrAbs()))
		return 4

	// LDA
	case 0xA9:
		c.lda(c.fetchPC())
		return 2
	case 0xA5:
		c.lda(c.read(c.addrZP()))
		return 3
	case 0xB5:
		c.lda(c.read(c.addrZPX()))
		return 4
	case 0xAD:
		c.lda(c.read(c.addrAbs()))
		return 4
	case 0xBD:
		c.lda(c.read(c.addrAbsX()))
		return 4
	case 0xB9:
		c.lda(c.read(c.addrAbsY()))
		return 4
	case 0xA1:
		c.lda(c.read(c.addrIndX()))
		return 6
	case 0xB1:
		c.lda(c.read(c.addrIndY()))
		return 5
	case 0xB2:
		c.lda(c.read(c.addrInd()))
		return 5

	// LDX / LDY
	case 0xA2:
		c.ldx(c.fetchPC())
		return 2
	case 0xA6:
		c.ldx(c.read(c.addrZP()))
		return 3
	case 0xB6:
		c.ldx(c.read(c.addrZPY()))
		return 4
	case 0xAE:
		c.ldx(c.read(c.addrAbs()))
		return 4
	case 0xBE:
		c.ldx(c.read(c.addrAbsY()))
		return 4
	case 0xA0:
		c.ldy(c.fetchPC())
		return 2
	case 0xA4:
		c.ldy(c.read(c.addrZP()))
		return 3
	case 0xB4:
		c.ldy(c.read(c.addrZPX()))
		return 4
	case 0xAC:
		c.ldy(c.read(c.addrAbs()))
		return 4
	case 0xBC:
		c.ldy(c.read(c.addrAbsX()))
		return 4

	// STA
	case 0x85:
		c.write(c.addrZP(), c.A)
		return 3
	case 0x95:
		c.write(c.addrZPX(), c.A)
		return 4
	case 0x8D:
		c.write(c.addrAbs(), c.A)
		return 4
	case 0x9D:
		c.write(c.addrAbsX(), c.A)
		return 5
	case 0x99:
		c.write(c.addrAbsY(), c.A)
		return 5
	case 0x81:
		c.write(c.addrIndX(), c.A)
		return 6
	case 0x91:
		c.write(c.addrIndY(), c.A)
		return 6
	case 0x92:
		c.write(c.addrInd(), c.A)
		return 5

	// STX / STY / STZ
	case 0x86:
		c.write(c.addrZP(), c.X)
		return 3
	case 0x96:
		c.write(c.addrZPY(), c.X)
		return 4
	case 0x8E:
		c.write(c.addrAbs(), c.X)
		return 4
	case 0x84:
		c.write(c.addrZP(), c.Y)
		return 3
	case 0x94:
		c.write(c.addrZPX(), c.Y)
		return 4
	case 0x8C:
		c.write(c.addrAbs(), c.Y)
		return 4
	case 0x64:
		c.write(c.addrZP(), 0)
		return 3
	case 0x74:
		c.write(c.addrZPX(), 0)
		return 4
	case 0x9C:
		c.write(c.addrAbs(), 0)
		return 4
	case 0x9E:
		c.write(c.addrAbsX(), 0)
		return 5

	// transfers
	case 0xAA:
		c.X = c.A
		c.setNZ(c.X)
		return 2
	case 0xA8:
		c.Y = c.A
		c.setNZ(c.Y)
		return 2
	case 0x8A:
		c.A = c.X
		c.setNZ(c.A)
		return 2
	case 0x98:
		c.A = c.Y
		c.setNZ(c.A)
		return 2
	case 0xBA:
		c.X = c.S
		c.setNZ(c.X)
		return 2
	case 0x9A:
		c.S = c.X
		return 2

	// increments and decrements
	case 0xE8:
		c.X = c.inc(c.X)
		return 2
	case 0xC8:
		c.Y = c.inc(c.Y)
		return 2
	case 0xCA:
		c.X = c.dec(c.X)
		return 2
	case 0x88:
		c.Y = c.dec(c.Y)
		return 2
	case 0x1A: // INA
		c.A = c.inc(c.A)
		return 2
	case 0x3A: // DEA
		c.A = c.dec(c.A)
		return 2
	case 0xE6:
		c.rmw(c.addrZP(), c.inc)
		return 5
	case 0xF6:
		c.rmw(c.addrZPX(), c.inc)
		return 6
	case 0xEE:
		c.rmw(c.addrAbs(), c.inc)
		return 6
	case 0xFE:
		c.rmw(c.addrAbsX(), c.inc)
		return 7
	case 0xC6:
		c.rmw(c.addrZP(), c.dec)
		return 5
	case 0xD6:
		c.rmw(c.addrZPX(), c.dec)
		return 6
	case 0xCE:
		c.rmw(c.addrAbs(), c.dec)
		return 6
	case 0xDE:
		c.rmw(c.addrAbsX(), c.dec)
		return 7

	// shifts and rotates
	case 0x0A:
		c.A = c.asl(c.A)
		return 2
	case 0x06:
		c.rmw(c.addrZP(), c.asl)
		return 5
	case 0x16:
		c.rmw(c.addrZPX(), c.asl)
		return 6
	case 0x0E:
		c.rmw(c.addrAbs(), c.asl)
		return 6
	case 0x1E:
		c.rmw(c.addrAbsX(), c.asl)
		return 7
	case 0x4A:
		c.A = c.lsr(c.A)
		return 2
	case 0x46:
		c.rmw(c.addrZP(), c.lsr)
		return 5
	case 0x56:
		c.rmw(c.addrZPX(), c.lsr)
		return 6
	case 0x4E:
		c.rmw(c.addrAbs(), c.lsr)
		return 6
	case 0x5E:
		c.rmw(c.addrAbsX(), c.lsr)
		return 7
	case 0x2A:
		c.A = c.rol(c.A)
		return 2
	case 0x26:
		c.rmw(c.addrZP(), c.rol)
		return 5
	case 0x36:
		c.rmw(c.addrZPX(), c.rol)
		return 6
	case 0x2E:
		c.rmw(c.addrAbs(), c.rol)
		return 6
	case 0x3E:
		c.rmw(c.addrAbsX(), c.rol)
		return 7
	case 0x6A:
		c.A = c.ror(c.A)
		return 2
	case 0x66:
		c.rmw(c.addrZP(), c.ror)
		return 5
	case 0x76:
		c.rmw(c.addrZPX(), c.ror)
		return 6
	case 0x6E:
		c.rmw(c.addrAbs(), c.ror)
		return 6
	case 0x7E:
		c.rmw(c.addrAbsX(), c.ror)
		return 7

	// BIT / TRB / TSB
	case 0x24:
		c.bit(c.read(c.addrZP()))
		return 3
	case 0x2C:
		c.bit(c.read(c.addrAbs()))
		return 4
	case 0x34:
		c.bit(c.read(c.addrZPX()))
		return 4
	case 0x3C:
		c.bit(c.read(c.addrAbsX()))
		return 4
	case 0x89:
		c.bitImm(c.fetchPC())
		return 2
	case 0x14:
		c.trb(c.addrZP())
		return 5
	case 0x1C:
		c.trb(c.addrAbs())
		return 6
	case 0x04:
		c.tsb(c.addrZP())
		return 5
	case 0x0C:
		c.tsb(c.addrAbs())
		return 6

	// branches
	case 0x10:
		return c.branch(!c.nFlag())
	case 0x30:
		return c.branch(c.nFlag())
	case 0x50:
		return c.branch(!c.testFlag(FlagV))
	case 0x70:
		return c.branch(c.testFlag(FlagV))
	case 0x90:
		return c.branch(!c.cFlag())
	case 0xB0:
		return c.branch(c.cFlag())
	case 0xD0:
		return c.branch(!c.zFlag())
	case 0xF0:
		return c.branch(c.zFlag())
	case 0x80: // BRA
		return c.branch(true)

	// jumps and subroutines
	case 0x4C:
		c.PC = c.addrAbs()
		return 3
	case 0x6C:
		c.PC = c.read16(c.fetchPC16())
		return 5
	case 0x7C: // JMP (abs,X)
		c.PC = c.read16(c.fetchPC16() + uint16(c.X))
		return 6
	case 0x20:
		target := c.fetchPC16()
		c.push16(c.PC - 1)
		c.PC = target
		return 6
	case 0x60:
		c.PC = c.pop16() + 1
		return 6

	// interrupt-related
	case 0x00: // BRK
		c.push16(c.PC + 1)
		c.push(c.flagsByte(true))
		c.setFlag(FlagI, true)
		c.PC = c.read16(vectorIRQ)
		return 7
	case 0x40: // RTI
		c.restoreFlags(c.pop())
		c.PC = c.pop16()
		return 6

	// stack
	case 0x48:
		c.push(c.A)
		return 3
	case 0x68:
		c.A = c.pop()
		c.setNZ(c.A)
		return 4
	case 0xDA: // PHX
		c.push(c.X)
		return 3
	case 0xFA: // PLX
		c.X = c.pop()
		c.setNZ(c.X)
		return 4
	case 0x5A: // PHY
		c.push(c.Y)
		return 3
	case 0x7A: // PLY
		c.Y = c.pop()
		c.setNZ(c.Y)
		return 4
	case 0x08: // PHP
		c.push(c.flagsByte(true))
		return 3
	case 0x28: // PLP
		c.restoreFlags(c.pop())
		return 4

	// flag manipulation
	case 0x18:
		c.setC(false)
		return 2
	case 0x38:
		c.setC(true)
		return 2
	case 0x58: // CLI
		c.setI(false)
		return 2
	case 0x78: // SEI
		c.setFlag(FlagI, true)
		return 2
	case 0xD8:
		c.setFlag(FlagD, false)
		return 2
	case 0xF8:
		c.setFlag(FlagD, true)
		return 2
	case 0xB8:
		c.setFlag(FlagV, false)
		return 2

	case 0xEA: // NOP
		return 2
	}

	logger.Logf("cpu", "unknown opcode %#02x at %#04x", op, opcodeAddr)
	return 2
}
