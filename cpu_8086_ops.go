// cpu_8086_ops.go - 8086 CPU Instruction Implementations
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// =============================================================================
// ADD Instructions
// =============================================================================

func (c *CPU_8086) opADD_Eb_Gb() {
	c.fetchModRM()
	a := c.readRM8()
	b := c.getReg8(c.getModRMReg())
	result := uint16(a) + uint16(b)
	c.setFlagsArith8(result, a, b, false)
	c.writeRM8(byte(result))
	c.Cycles += 2
}

func (c *CPU_8086) opADD_Ev_Gv() {
	c.fetchModRM()
	a := c.readRM16()
	b := c.getReg16(c.getModRMReg())
	result := uint32(a) + uint32(b)
	c.setFlagsArith16(result, a, b, false)
	c.writeRM16(uint16(result))
	c.Cycles += 2
}

func (c *CPU_8086) opADD_Gb_Eb() {
	c.fetchModRM()
	a := c.getReg8(c.getModRMReg())
	b := c.readRM8()
	result := uint16(a) + uint16(b)
	c.setFlagsArith8(result, a, b, false)
	c.setReg8(c.getModRMReg(), byte(result))
	c.Cycles += 2
}

func (c *CPU_8086) opADD_Gv_Ev() {
	c.fetchModRM()
	a := c.getReg16(c.getModRMReg())
	b := c.readRM16()
	result := uint32(a) + uint32(b)
	c.setFlagsArith16(result, a, b, false)
	c.setReg16(c.getModRMReg(), uint16(result))
	c.Cycles += 2
}

func (c *CPU_8086) opADD_AL_Ib() {
	a := c.AL()
	b := c.fetch8()
	result := uint16(a) + uint16(b)
	c.setFlagsArith8(result, a, b, false)
	c.SetAL(byte(result))
	c.Cycles += 2
}

func (c *CPU_8086) opADD_AX_Iv() {
	a := c.AX
	b := c.fetch16()
	result := uint32(a) + uint32(b)
	c.setFlagsArith16(result, a, b, false)
	c.AX = uint16(result)
	c.Cycles += 2
}

// =============================================================================
// ADC Instructions (Add with Carry)
// =============================================================================

func (c *CPU_8086) carry8() byte {
	if c.CF() {
		return 1
	}
	return 0
}

func (c *CPU_8086) carry16() uint16 {
	if c.CF() {
		return 1
	}
	return 0
}

// adc8 computes a+b+CF with correct OF/AF across both partial sums.
func (c *CPU_8086) adc8(a, b byte) byte {
	carry := c.carry8()
	result := uint16(a) + uint16(b) + uint16(carry)
	r := byte(result)
	c.setFlag(x86FlagCF, result > 0xFF)
	c.setFlag(x86FlagZF, r == 0)
	c.setFlag(x86FlagSF, (r&0x80) != 0)
	c.setFlag(x86FlagPF, parity(r))
	c.setFlag(x86FlagOF, ((^(a ^ b))&(a^r)&0x80) != 0)
	c.setFlag(x86FlagAF, (a^b^r)&0x10 != 0)
	return r
}

func (c *CPU_8086) adc16(a, b uint16) uint16 {
	carry := c.carry16()
	result := uint32(a) + uint32(b) + uint32(carry)
	r := uint16(result)
	c.setFlag(x86FlagCF, result > 0xFFFF)
	c.setFlag(x86FlagZF, r == 0)
	c.setFlag(x86FlagSF, (r&0x8000) != 0)
	c.setFlag(x86FlagPF, parity(byte(r)))
	c.setFlag(x86FlagOF, ((^(a ^ b))&(a^r)&0x8000) != 0)
	c.setFlag(x86FlagAF, (a^b^r)&0x10 != 0)
	return r
}

// sbb8 computes a-b-CF with correct OF/AF across both partial differences.
func (c *CPU_8086) sbb8(a, b byte) byte {
	borrow := c.carry8()
	result := uint16(a) - uint16(b) - uint16(borrow)
	r := byte(result)
	c.setFlag(x86FlagCF, result > 0xFF)
	c.setFlag(x86FlagZF, r == 0)
	c.setFlag(x86FlagSF, (r&0x80) != 0)
	c.setFlag(x86FlagPF, parity(r))
	c.setFlag(x86FlagOF, ((a^b)&(a^r)&0x80) != 0)
	c.setFlag(x86FlagAF, (a^b^r)&0x10 != 0)
	return r
}

func (c *CPU_8086) sbb16(a, b uint16) uint16 {
	borrow := c.carry16()
	result := uint32(a) - uint32(b) - uint32(borrow)
	r := uint16(result)
	c.setFlag(x86FlagCF, result > 0xFFFF)
	c.setFlag(x86FlagZF, r == 0)
	c.setFlag(x86FlagSF, (r&0x8000) != 0)
	c.setFlag(x86FlagPF, parity(byte(r)))
	c.setFlag(x86FlagOF, ((a^b)&(a^r)&0x8000) != 0)
	c.setFlag(x86FlagAF, (a^b^r)&0x10 != 0)
	return r
}

func (c *CPU_8086) opADC_Eb_Gb() {
	c.fetchModRM()
	a := c.readRM8()
	b := c.getReg8(c.getModRMReg())
	c.writeRM8(c.adc8(a, b))
	c.Cycles += 2
}

func (c *CPU_8086) opADC_Ev_Gv() {
	c.fetchModRM()
	a := c.readRM16()
	b := c.getReg16(c.getModRMReg())
	c.writeRM16(c.adc16(a, b))
	c.Cycles += 2
}

func (c *CPU_8086) opADC_Gb_Eb() {
	c.fetchModRM()
	a := c.getReg8(c.getModRMReg())
	b := c.readRM8()
	c.setReg8(c.getModRMReg(), c.adc8(a, b))
	c.Cycles += 2
}

func (c *CPU_8086) opADC_Gv_Ev() {
	c.fetchModRM()
	a := c.getReg16(c.getModRMReg())
	b := c.readRM16()
	c.setReg16(c.getModRMReg(), c.adc16(a, b))
	c.Cycles += 2
}

func (c *CPU_8086) opADC_AL_Ib() {
	c.SetAL(c.adc8(c.AL(), c.fetch8()))
	c.Cycles += 2
}

func (c *CPU_8086) opADC_AX_Iv() {
	c.AX = c.adc16(c.AX, c.fetch16())
	c.Cycles += 2
}

// =============================================================================
// SUB Instructions
// =============================================================================

func (c *CPU_8086) opSUB_Eb_Gb() {
	c.fetchModRM()
	a := c.readRM8()
	b := c.getReg8(c.getModRMReg())
	result := uint16(a) - uint16(b)
	c.setFlagsArith8(result, a, b, true)
	c.writeRM8(byte(result))
	c.Cycles += 2
}

func (c *CPU_8086) opSUB_Ev_Gv() {
	c.fetchModRM()
	a := c.readRM16()
	b := c.getReg16(c.getModRMReg())
	result := uint32(a) - uint32(b)
	c.setFlagsArith16(result, a, b, true)
	c.writeRM16(uint16(result))
	c.Cycles += 2
}

func (c *CPU_8086) opSUB_Gb_Eb() {
	c.fetchModRM()
	a := c.getReg8(c.getModRMReg())
	b := c.readRM8()
	result := uint16(a) - uint16(b)
	c.setFlagsArith8(result, a, b, true)
	c.setReg8(c.getModRMReg(), byte(result))
	c.Cycles += 2
}

func (c *CPU_8086) opSUB_Gv_Ev() {
	c.fetchModRM()
	a := c.getReg16(c.getModRMReg())
	b := c.readRM16()
	result := uint32(a) - uint32(b)
	c.setFlagsArith16(result, a, b, true)
	c.setReg16(c.getModRMReg(), uint16(result))
	c.Cycles += 2
}

func (c *CPU_8086) opSUB_AL_Ib() {
	a := c.AL()
	b := c.fetch8()
	result := uint16(a) - uint16(b)
	c.setFlagsArith8(result, a, b, true)
	c.SetAL(byte(result))
	c.Cycles += 2
}

func (c *CPU_8086) opSUB_AX_Iv() {
	a := c.AX
	b := c.fetch16()
	result := uint32(a) - uint32(b)
	c.setFlagsArith16(result, a, b, true)
	c.AX = uint16(result)
	c.Cycles += 2
}

// =============================================================================
// SBB Instructions (Subtract with Borrow)
// =============================================================================

func (c *CPU_8086) opSBB_Eb_Gb() {
	c.fetchModRM()
	a := c.readRM8()
	b := c.getReg8(c.getModRMReg())
	c.writeRM8(c.sbb8(a, b))
	c.Cycles += 2
}

func (c *CPU_8086) opSBB_Ev_Gv() {
	c.fetchModRM()
	a := c.readRM16()
	b := c.getReg16(c.getModRMReg())
	c.writeRM16(c.sbb16(a, b))
	c.Cycles += 2
}

func (c *CPU_8086) opSBB_Gb_Eb() {
	c.fetchModRM()
	a := c.getReg8(c.getModRMReg())
	b := c.readRM8()
	c.setReg8(c.getModRMReg(), c.sbb8(a, b))
	c.Cycles += 2
}

func (c *CPU_8086) opSBB_Gv_Ev() {
	c.fetchModRM()
	a := c.getReg16(c.getModRMReg())
	b := c.readRM16()
	c.setReg16(c.getModRMReg(), c.sbb16(a, b))
	c.Cycles += 2
}

func (c *CPU_8086) opSBB_AL_Ib() {
	c.SetAL(c.sbb8(c.AL(), c.fetch8()))
	c.Cycles += 2
}

func (c *CPU_8086) opSBB_AX_Iv() {
	c.AX = c.sbb16(c.AX, c.fetch16())
	c.Cycles += 2
}

// =============================================================================
// CMP Instructions
// =============================================================================

func (c *CPU_8086) opCMP_Eb_Gb() {
	c.fetchModRM()
	a := c.readRM8()
	b := c.getReg8(c.getModRMReg())
	c.setFlagsArith8(uint16(a)-uint16(b), a, b, true)
	c.Cycles += 2
}

func (c *CPU_8086) opCMP_Ev_Gv() {
	c.fetchModRM()
	a := c.readRM16()
	b := c.getReg16(c.getModRMReg())
	c.setFlagsArith16(uint32(a)-uint32(b), a, b, true)
	c.Cycles += 2
}

func (c *CPU_8086) opCMP_Gb_Eb() {
	c.fetchModRM()
	a := c.getReg8(c.getModRMReg())
	b := c.readRM8()
	c.setFlagsArith8(uint16(a)-uint16(b), a, b, true)
	c.Cycles += 2
}

func (c *CPU_8086) opCMP_Gv_Ev() {
	c.fetchModRM()
	a := c.getReg16(c.getModRMReg())
	b := c.readRM16()
	c.setFlagsArith16(uint32(a)-uint32(b), a, b, true)
	c.Cycles += 2
}

func (c *CPU_8086) opCMP_AL_Ib() {
	a := c.AL()
	b := c.fetch8()
	c.setFlagsArith8(uint16(a)-uint16(b), a, b, true)
	c.Cycles += 2
}

func (c *CPU_8086) opCMP_AX_Iv() {
	a := c.AX
	b := c.fetch16()
	c.setFlagsArith16(uint32(a)-uint32(b), a, b, true)
	c.Cycles += 2
}

// =============================================================================
// Logic Instructions (AND, OR, XOR, TEST)
// =============================================================================

func (c *CPU_8086) opAND_Eb_Gb() {
	c.fetchModRM()
	result := c.readRM8() & c.getReg8(c.getModRMReg())
	c.setFlagsLogic8(result)
	c.writeRM8(result)
	c.Cycles += 2
}

func (c *CPU_8086) opAND_Ev_Gv() {
	c.fetchModRM()
	result := c.readRM16() & c.getReg16(c.getModRMReg())
	c.setFlagsLogic16(result)
	c.writeRM16(result)
	c.Cycles += 2
}

func (c *CPU_8086) opAND_Gb_Eb() {
	c.fetchModRM()
	result := c.getReg8(c.getModRMReg()) & c.readRM8()
	c.setFlagsLogic8(result)
	c.setReg8(c.getModRMReg(), result)
	c.Cycles += 2
}

func (c *CPU_8086) opAND_Gv_Ev() {
	c.fetchModRM()
	result := c.getReg16(c.getModRMReg()) & c.readRM16()
	c.setFlagsLogic16(result)
	c.setReg16(c.getModRMReg(), result)
	c.Cycles += 2
}

func (c *CPU_8086) opAND_AL_Ib() {
	result := c.AL() & c.fetch8()
	c.setFlagsLogic8(result)
	c.SetAL(result)
	c.Cycles += 2
}

func (c *CPU_8086) opAND_AX_Iv() {
	result := c.AX & c.fetch16()
	c.setFlagsLogic16(result)
	c.AX = result
	c.Cycles += 2
}

func (c *CPU_8086) opOR_Eb_Gb() {
	c.fetchModRM()
	result := c.readRM8() | c.getReg8(c.getModRMReg())
	c.setFlagsLogic8(result)
	c.writeRM8(result)
	c.Cycles += 2
}

func (c *CPU_8086) opOR_Ev_Gv() {
	c.fetchModRM()
	result := c.readRM16() | c.getReg16(c.getModRMReg())
	c.setFlagsLogic16(result)
	c.writeRM16(result)
	c.Cycles += 2
}

func (c *CPU_8086) opOR_Gb_Eb() {
	c.fetchModRM()
	result := c.getReg8(c.getModRMReg()) | c.readRM8()
	c.setFlagsLogic8(result)
	c.setReg8(c.getModRMReg(), result)
	c.Cycles += 2
}

func (c *CPU_8086) opOR_Gv_Ev() {
	c.fetchModRM()
	result := c.getReg16(c.getModRMReg()) | c.readRM16()
	c.setFlagsLogic16(result)
	c.setReg16(c.getModRMReg(), result)
	c.Cycles += 2
}

func (c *CPU_8086) opOR_AL_Ib() {
	result := c.AL() | c.fetch8()
	c.setFlagsLogic8(result)
	c.SetAL(result)
	c.Cycles += 2
}

func (c *CPU_8086) opOR_AX_Iv() {
	result := c.AX | c.fetch16()
	c.setFlagsLogic16(result)
	c.AX = result
	c.Cycles += 2
}

func (c *CPU_8086) opXOR_Eb_Gb() {
	c.fetchModRM()
	result := c.readRM8() ^ c.getReg8(c.getModRMReg())
	c.setFlagsLogic8(result)
	c.writeRM8(result)
	c.Cycles += 2
}

func (c *CPU_8086) opXOR_Ev_Gv() {
	c.fetchModRM()
	result := c.readRM16() ^ c.getReg16(c.getModRMReg())
	c.setFlagsLogic16(result)
	c.writeRM16(result)
	c.Cycles += 2
}

func (c *CPU_8086) opXOR_Gb_Eb() {
	c.fetchModRM()
	result := c.getReg8(c.getModRMReg()) ^ c.readRM8()
	c.setFlagsLogic8(result)
	c.setReg8(c.getModRMReg(), result)
	c.Cycles += 2
}

func (c *CPU_8086) opXOR_Gv_Ev() {
	c.fetchModRM()
	result := c.getReg16(c.getModRMReg()) ^ c.readRM16()
	c.setFlagsLogic16(result)
	c.setReg16(c.getModRMReg(), result)
	c.Cycles += 2
}

func (c *CPU_8086) opXOR_AL_Ib() {
	result := c.AL() ^ c.fetch8()
	c.setFlagsLogic8(result)
	c.SetAL(result)
	c.Cycles += 2
}

func (c *CPU_8086) opXOR_AX_Iv() {
	result := c.AX ^ c.fetch16()
	c.setFlagsLogic16(result)
	c.AX = result
	c.Cycles += 2
}

func (c *CPU_8086) opTEST_Eb_Gb() {
	c.fetchModRM()
	c.setFlagsLogic8(c.readRM8() & c.getReg8(c.getModRMReg()))
	c.Cycles += 2
}

func (c *CPU_8086) opTEST_Ev_Gv() {
	c.fetchModRM()
	c.setFlagsLogic16(c.readRM16() & c.getReg16(c.getModRMReg()))
	c.Cycles += 2
}

func (c *CPU_8086) opTEST_AL_Ib() {
	c.setFlagsLogic8(c.AL() & c.fetch8())
	c.Cycles += 2
}

func (c *CPU_8086) opTEST_AX_Iv() {
	c.setFlagsLogic16(c.AX & c.fetch16())
	c.Cycles += 2
}

// =============================================================================
// BCD Adjust Instructions
// =============================================================================

func (c *CPU_8086) opDAA() {
	al := c.AL()
	oldAL := al
	oldCF := c.CF()
	cf := false
	if (al&0x0F) > 9 || c.AF() {
		al += 6
		cf = oldCF || al < 6 // carry out of the byte add
		c.setFlag(x86FlagAF, true)
	} else {
		c.setFlag(x86FlagAF, false)
	}
	if oldAL > 0x99 || oldCF {
		al += 0x60
		cf = true
	}
	c.SetAL(al)
	c.setFlag(x86FlagCF, cf)
	c.setFlagsZSP8(al)
	c.Cycles += 4
}

func (c *CPU_8086) opDAS() {
	al := c.AL()
	oldAL := al
	oldCF := c.CF()
	cf := false
	if (al&0x0F) > 9 || c.AF() {
		cf = oldCF || al < 6
		al -= 6
		c.setFlag(x86FlagAF, true)
	} else {
		c.setFlag(x86FlagAF, false)
	}
	if oldAL > 0x99 || oldCF {
		al -= 0x60
		cf = true
	}
	c.SetAL(al)
	c.setFlag(x86FlagCF, cf)
	c.setFlagsZSP8(al)
	c.Cycles += 4
}

func (c *CPU_8086) opAAA() {
	if (c.AL()&0x0F) > 9 || c.AF() {
		c.AX += 0x106
		c.setFlag(x86FlagAF, true)
		c.setFlag(x86FlagCF, true)
	} else {
		c.setFlag(x86FlagAF, false)
		c.setFlag(x86FlagCF, false)
	}
	c.SetAL(c.AL() & 0x0F)
	c.Cycles += 4
}

func (c *CPU_8086) opAAS() {
	if (c.AL()&0x0F) > 9 || c.AF() {
		c.AX -= 6
		c.SetAH(c.AH() - 1)
		c.setFlag(x86FlagAF, true)
		c.setFlag(x86FlagCF, true)
	} else {
		c.setFlag(x86FlagAF, false)
		c.setFlag(x86FlagCF, false)
	}
	c.SetAL(c.AL() & 0x0F)
	c.Cycles += 4
}

func (c *CPU_8086) opAAM() {
	div := c.fetch8()
	if div == 0 {
		c.interrupt(vecDivideError)
		return
	}
	al := c.AL()
	c.SetAH(al / div)
	c.SetAL(al % div)
	c.setFlagsZSP8(c.AL())
	c.Cycles += 10
}

func (c *CPU_8086) opAAD() {
	mul := c.fetch8()
	al := c.AL() + c.AH()*mul
	c.SetAL(al)
	c.SetAH(0)
	c.setFlagsZSP8(al)
	c.Cycles += 10
}

// =============================================================================
// INC / DEC (register short forms; CF untouched)
// =============================================================================

func (c *CPU_8086) opINC_reg(idx byte) {
	cf := c.CF()
	a := c.getReg16(idx)
	result := uint32(a) + 1
	c.setFlagsArith16(result, a, 1, false)
	c.setFlag(x86FlagCF, cf)
	c.setReg16(idx, uint16(result))
	c.Cycles++
}

func (c *CPU_8086) opDEC_reg(idx byte) {
	cf := c.CF()
	a := c.getReg16(idx)
	result := uint32(a) - 1
	c.setFlagsArith16(result, a, 1, true)
	c.setFlag(x86FlagCF, cf)
	c.setReg16(idx, uint16(result))
	c.Cycles++
}

// =============================================================================
// PUSH / POP
// =============================================================================

func (c *CPU_8086) opPUSH_reg(idx byte) {
	if idx == 4 {
		// 8086 quirk: PUSH SP stores the post-decrement value
		c.push16(c.SP - 2)
	} else {
		c.push16(c.getReg16(idx))
	}
	c.Cycles += 2
}

func (c *CPU_8086) opPOP_reg(idx byte) {
	c.setReg16(idx, c.pop16())
	c.Cycles += 2
}

func (c *CPU_8086) opPUSH_ES() { c.push16(c.ES); c.Cycles += 2 }
func (c *CPU_8086) opPOP_ES()  { c.ES = c.pop16(); c.Cycles += 2 }
func (c *CPU_8086) opPUSH_CS() { c.push16(c.CS); c.Cycles += 2 }

// opPOP_CS is the 8086-only 0Fh encoding; later CPUs repurpose the byte.
func (c *CPU_8086) opPOP_CS() { c.CS = c.pop16(); c.Cycles += 2 }

func (c *CPU_8086) opPUSH_SS() { c.push16(c.SS); c.Cycles += 2 }

func (c *CPU_8086) opPOP_SS() {
	c.SS = c.pop16()
	c.stiShadow = true
	c.Cycles += 2
}

func (c *CPU_8086) opPUSH_DS() { c.push16(c.DS); c.Cycles += 2 }
func (c *CPU_8086) opPOP_DS()  { c.DS = c.pop16(); c.Cycles += 2 }

func (c *CPU_8086) opPOP_Ev() {
	c.fetchModRM()
	c.writeRM16(c.pop16())
	c.Cycles += 3
}

func (c *CPU_8086) opPUSHF() {
	c.push16(fixFlags(c.Flags))
	c.Cycles += 2
}

func (c *CPU_8086) opPOPF() {
	c.Flags = fixFlags(c.pop16())
	c.Cycles += 2
}

// =============================================================================
// MOV Instructions
// =============================================================================

func (c *CPU_8086) opMOV_Eb_Gb() {
	c.fetchModRM()
	c.writeRM8(c.getReg8(c.getModRMReg()))
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_Ev_Gv() {
	c.fetchModRM()
	c.writeRM16(c.getReg16(c.getModRMReg()))
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_Gb_Eb() {
	c.fetchModRM()
	c.setReg8(c.getModRMReg(), c.readRM8())
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_Gv_Ev() {
	c.fetchModRM()
	c.setReg16(c.getModRMReg(), c.readRM16())
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_Ev_Sw() {
	c.fetchModRM()
	c.writeRM16(c.getSeg(int(c.getModRMReg())))
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_Sw_Ew() {
	c.fetchModRM()
	c.setSeg(int(c.getModRMReg()), c.readRM16())
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_r8_imm8(idx byte) {
	c.setReg8(idx, c.fetch8())
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_r16_imm16(idx byte) {
	c.setReg16(idx, c.fetch16())
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_Eb_Ib() {
	c.fetchModRM()
	if c.getModRMMod() != 3 {
		c.calcEffectiveAddress() // displacement precedes the immediate
	}
	c.writeRM8(c.fetch8())
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_Ev_Iv() {
	c.fetchModRM()
	if c.getModRMMod() != 3 {
		c.calcEffectiveAddress()
	}
	c.writeRM16(c.fetch16())
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_AL_moffs() {
	off := c.fetch16()
	c.SetAL(c.memRead8(c.segForIndex(x86SegDS), off))
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_AX_moffs() {
	off := c.fetch16()
	c.AX = c.memRead16(c.segForIndex(x86SegDS), off)
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_moffs_AL() {
	off := c.fetch16()
	c.memWrite8(c.segForIndex(x86SegDS), off, c.AL())
	c.Cycles += 2
}

func (c *CPU_8086) opMOV_moffs_AX() {
	off := c.fetch16()
	c.memWrite16(c.segForIndex(x86SegDS), off, c.AX)
	c.Cycles += 2
}

// =============================================================================
// XCHG / LEA / LDS / LES / XLAT
// =============================================================================

func (c *CPU_8086) opXCHG_Eb_Gb() {
	c.fetchModRM()
	reg := c.getModRMReg()
	a := c.readRM8()
	b := c.getReg8(reg)
	c.writeRM8(b)
	c.setReg8(reg, a)
	c.Cycles += 3
}

func (c *CPU_8086) opXCHG_Ev_Gv() {
	c.fetchModRM()
	reg := c.getModRMReg()
	a := c.readRM16()
	b := c.getReg16(reg)
	c.writeRM16(b)
	c.setReg16(reg, a)
	c.Cycles += 3
}

func (c *CPU_8086) opXCHG_AX_reg(idx byte) {
	tmp := c.AX
	c.AX = c.getReg16(idx)
	c.setReg16(idx, tmp)
	c.Cycles += 2
}

func (c *CPU_8086) opNOP() {
	c.Cycles++
}

func (c *CPU_8086) opLEA() {
	c.fetchModRM()
	if c.getModRMMod() == 3 {
		c.invalidOpcode()
		return
	}
	_, off := c.calcEffectiveAddress()
	c.setReg16(c.getModRMReg(), off)
	c.Cycles += 2
}

func (c *CPU_8086) opLES() {
	c.fetchModRM()
	if c.getModRMMod() == 3 {
		c.invalidOpcode()
		return
	}
	seg, off := c.calcEffectiveAddress()
	c.setReg16(c.getModRMReg(), c.memRead16(seg, off))
	c.ES = c.memRead16(seg, off+2)
	c.Cycles += 4
}

func (c *CPU_8086) opLDS() {
	c.fetchModRM()
	if c.getModRMMod() == 3 {
		c.invalidOpcode()
		return
	}
	seg, off := c.calcEffectiveAddress()
	c.setReg16(c.getModRMReg(), c.memRead16(seg, off))
	c.DS = c.memRead16(seg, off+2)
	c.Cycles += 4
}

func (c *CPU_8086) opXLAT() {
	c.SetAL(c.memRead8(c.segForIndex(x86SegDS), c.BX+uint16(c.AL())))
	c.Cycles += 3
}

// =============================================================================
// LAHF / SAHF / CBW / CWD
// =============================================================================

func (c *CPU_8086) opLAHF() {
	c.SetAH(byte(fixFlags(c.Flags) & 0xFF))
	c.Cycles++
}

func (c *CPU_8086) opSAHF() {
	const mask = x86FlagCF | x86FlagPF | x86FlagAF | x86FlagZF | x86FlagSF
	c.Flags = fixFlags((c.Flags &^ mask) | uint16(c.AH())&mask)
	c.Cycles++
}

func (c *CPU_8086) opCBW() {
	c.AX = uint16(int16(int8(c.AL())))
	c.Cycles++
}

func (c *CPU_8086) opCWD() {
	if c.AX&0x8000 != 0 {
		c.DX = 0xFFFF
	} else {
		c.DX = 0
	}
	c.Cycles++
}

// =============================================================================
// String Instructions
//
// REP forms execute one element per step and rewind IP while CX remains,
// so hardware interrupts can be taken between iterations.
// =============================================================================

// stringBegin reports whether a string iteration should run at all
// (REP with CX=0 is a no-op).
func (c *CPU_8086) stringBegin() bool {
	return c.prefixRep == 0 || c.CX != 0
}

// stringNext consumes one REP iteration and schedules the next.
// condOK carries the REPE/REPNE continuation test for CMPS/SCAS.
func (c *CPU_8086) stringNext(condOK bool) {
	if c.prefixRep == 0 {
		return
	}
	c.CX--
	if condOK {
		c.repPending()
	}
}

func (c *CPU_8086) opMOVSB() {
	if !c.stringBegin() {
		return
	}
	src := c.segForIndex(x86SegDS)
	c.memWrite8(c.ES, c.DI, c.memRead8(src, c.SI))
	d := c.stringDelta(1)
	c.SI += d
	c.DI += d
	c.stringNext(true)
	c.Cycles++
}

func (c *CPU_8086) opMOVSW() {
	if !c.stringBegin() {
		return
	}
	src := c.segForIndex(x86SegDS)
	c.memWrite16(c.ES, c.DI, c.memRead16(src, c.SI))
	d := c.stringDelta(2)
	c.SI += d
	c.DI += d
	c.stringNext(true)
	c.Cycles++
}

func (c *CPU_8086) opCMPSB() {
	if !c.stringBegin() {
		return
	}
	a := c.memRead8(c.segForIndex(x86SegDS), c.SI)
	b := c.memRead8(c.ES, c.DI)
	c.setFlagsArith8(uint16(a)-uint16(b), a, b, true)
	d := c.stringDelta(1)
	c.SI += d
	c.DI += d
	c.stringNext(c.repCondition())
	c.Cycles++
}

func (c *CPU_8086) opCMPSW() {
	if !c.stringBegin() {
		return
	}
	a := c.memRead16(c.segForIndex(x86SegDS), c.SI)
	b := c.memRead16(c.ES, c.DI)
	c.setFlagsArith16(uint32(a)-uint32(b), a, b, true)
	d := c.stringDelta(2)
	c.SI += d
	c.DI += d
	c.stringNext(c.repCondition())
	c.Cycles++
}

func (c *CPU_8086) opSTOSB() {
	if !c.stringBegin() {
		return
	}
	c.memWrite8(c.ES, c.DI, c.AL())
	c.DI += c.stringDelta(1)
	c.stringNext(true)
	c.Cycles++
}

func (c *CPU_8086) opSTOSW() {
	if !c.stringBegin() {
		return
	}
	c.memWrite16(c.ES, c.DI, c.AX)
	c.DI += c.stringDelta(2)
	c.stringNext(true)
	c.Cycles++
}

func (c *CPU_8086) opLODSB() {
	if !c.stringBegin() {
		return
	}
	c.SetAL(c.memRead8(c.segForIndex(x86SegDS), c.SI))
	c.SI += c.stringDelta(1)
	c.stringNext(true)
	c.Cycles++
}

func (c *CPU_8086) opLODSW() {
	if !c.stringBegin() {
		return
	}
	c.AX = c.memRead16(c.segForIndex(x86SegDS), c.SI)
	c.SI += c.stringDelta(2)
	c.stringNext(true)
	c.Cycles++
}

func (c *CPU_8086) opSCASB() {
	if !c.stringBegin() {
		return
	}
	a := c.AL()
	b := c.memRead8(c.ES, c.DI)
	c.setFlagsArith8(uint16(a)-uint16(b), a, b, true)
	c.DI += c.stringDelta(1)
	c.stringNext(c.repCondition())
	c.Cycles++
}

func (c *CPU_8086) opSCASW() {
	if !c.stringBegin() {
		return
	}
	a := c.AX
	b := c.memRead16(c.ES, c.DI)
	c.setFlagsArith16(uint32(a)-uint32(b), a, b, true)
	c.DI += c.stringDelta(2)
	c.stringNext(c.repCondition())
	c.Cycles++
}

// repCondition evaluates the REPE/REPNE early-exit test against ZF.
func (c *CPU_8086) repCondition() bool {
	switch c.prefixRep {
	case 1: // REPE
		return c.ZF()
	case 2: // REPNE
		return !c.ZF()
	}
	return true
}

// =============================================================================
// Conditional Jumps
// =============================================================================

func (c *CPU_8086) jumpRel8(taken bool) {
	rel := int8(c.fetch8())
	if taken {
		c.IP = uint16(int16(c.IP) + int16(rel))
		c.Cycles += 3
	}
	c.Cycles++
}

func (c *CPU_8086) opJO_rel8()  { c.jumpRel8(c.OF()) }
func (c *CPU_8086) opJNO_rel8() { c.jumpRel8(!c.OF()) }
func (c *CPU_8086) opJB_rel8()  { c.jumpRel8(c.CF()) }
func (c *CPU_8086) opJNB_rel8() { c.jumpRel8(!c.CF()) }
func (c *CPU_8086) opJZ_rel8()  { c.jumpRel8(c.ZF()) }
func (c *CPU_8086) opJNZ_rel8() { c.jumpRel8(!c.ZF()) }
func (c *CPU_8086) opJBE_rel8() { c.jumpRel8(c.CF() || c.ZF()) }
func (c *CPU_8086) opJNBE_rel8() {
	c.jumpRel8(!c.CF() && !c.ZF())
}
func (c *CPU_8086) opJS_rel8()  { c.jumpRel8(c.SF()) }
func (c *CPU_8086) opJNS_rel8() { c.jumpRel8(!c.SF()) }
func (c *CPU_8086) opJP_rel8()  { c.jumpRel8(c.PF()) }
func (c *CPU_8086) opJNP_rel8() { c.jumpRel8(!c.PF()) }
func (c *CPU_8086) opJL_rel8()  { c.jumpRel8(c.SF() != c.OF()) }
func (c *CPU_8086) opJNL_rel8() { c.jumpRel8(c.SF() == c.OF()) }
func (c *CPU_8086) opJLE_rel8() { c.jumpRel8(c.ZF() || c.SF() != c.OF()) }
func (c *CPU_8086) opJNLE_rel8() {
	c.jumpRel8(!c.ZF() && c.SF() == c.OF())
}

// =============================================================================
// LOOP / JCXZ
// =============================================================================

func (c *CPU_8086) opLOOP() {
	c.CX--
	c.jumpRel8(c.CX != 0)
}

func (c *CPU_8086) opLOOPE() {
	c.CX--
	c.jumpRel8(c.CX != 0 && c.ZF())
}

func (c *CPU_8086) opLOOPNE() {
	c.CX--
	c.jumpRel8(c.CX != 0 && !c.ZF())
}

func (c *CPU_8086) opJCXZ() {
	c.jumpRel8(c.CX == 0)
}

// =============================================================================
// CALL / RET / JMP
// =============================================================================

func (c *CPU_8086) opCALL_rel16() {
	rel := int16(c.fetch16())
	c.push16(c.IP)
	c.IP = uint16(int16(c.IP) + rel)
	c.Cycles += 4
}

func (c *CPU_8086) opCALL_far() {
	off := c.fetch16()
	seg := c.fetch16()
	c.push16(c.CS)
	c.push16(c.IP)
	c.CS = seg
	c.IP = off
	c.Cycles += 6
}

func (c *CPU_8086) opRET() {
	c.IP = c.pop16()
	c.Cycles += 4
}

func (c *CPU_8086) opRET_imm16() {
	adjust := c.fetch16()
	c.IP = c.pop16()
	c.SP += adjust
	c.Cycles += 4
}

func (c *CPU_8086) opRETF() {
	c.IP = c.pop16()
	c.CS = c.pop16()
	c.Cycles += 6
}

func (c *CPU_8086) opRETF_imm16() {
	adjust := c.fetch16()
	c.IP = c.pop16()
	c.CS = c.pop16()
	c.SP += adjust
	c.Cycles += 6
}

func (c *CPU_8086) opJMP_rel16() {
	rel := int16(c.fetch16())
	c.IP = uint16(int16(c.IP) + rel)
	c.Cycles += 3
}

func (c *CPU_8086) opJMP_far() {
	off := c.fetch16()
	seg := c.fetch16()
	c.CS = seg
	c.IP = off
	c.Cycles += 3
}

func (c *CPU_8086) opJMP_rel8() {
	rel := int8(c.fetch8())
	c.IP = uint16(int16(c.IP) + int16(rel))
	c.Cycles += 3
}

// =============================================================================
// INT / IRET
// =============================================================================

func (c *CPU_8086) opINT3() {
	c.interrupt(vecBreakpoint)
	c.Cycles += 5
}

func (c *CPU_8086) opINT_imm8() {
	c.interrupt(c.fetch8())
	c.Cycles += 5
}

func (c *CPU_8086) opINTO() {
	if c.OF() {
		c.interrupt(vecOverflow)
	}
	c.Cycles += 4
}

func (c *CPU_8086) opIRET() {
	c.IP = c.pop16()
	c.CS = c.pop16()
	c.Flags = fixFlags(c.pop16())
	c.Cycles += 8
}

// opBIOSTrap implements the F1h ROM trap: the following byte selects the BIOS
// service. Outside the ROM segment (or with no hook wired) it decodes as an
// invalid opcode.
func (c *CPU_8086) opBIOSTrap() {
	if c.biosHook == nil || c.CS != biosSegment {
		c.invalidOpcode()
		return
	}
	service := c.fetch8()
	c.biosHook(service)
	c.Cycles += 10
}

// =============================================================================
// Flag Instructions
// =============================================================================

func (c *CPU_8086) opCLC() { c.setFlag(x86FlagCF, false); c.Cycles++ }
func (c *CPU_8086) opSTC() { c.setFlag(x86FlagCF, true); c.Cycles++ }
func (c *CPU_8086) opCMC() { c.setFlag(x86FlagCF, !c.CF()); c.Cycles++ }
func (c *CPU_8086) opCLI() { c.setFlag(x86FlagIF, false); c.Cycles++ }

func (c *CPU_8086) opSTI() {
	if !c.IF() {
		// interrupts recognized after the next instruction
		c.stiShadow = true
	}
	c.setFlag(x86FlagIF, true)
	c.Cycles++
}

func (c *CPU_8086) opCLD() { c.setFlag(x86FlagDF, false); c.Cycles++ }
func (c *CPU_8086) opSTD() { c.setFlag(x86FlagDF, true); c.Cycles++ }

// =============================================================================
// I/O Instructions
// =============================================================================

func (c *CPU_8086) opIN_AL_imm8() {
	c.SetAL(c.bus.In(uint16(c.fetch8())))
	c.Cycles += 3
}

func (c *CPU_8086) opIN_AX_imm8() {
	c.AX = c.bus.InW(uint16(c.fetch8()))
	c.Cycles += 3
}

func (c *CPU_8086) opOUT_imm8_AL() {
	c.bus.Out(uint16(c.fetch8()), c.AL())
	c.Cycles += 3
}

func (c *CPU_8086) opOUT_imm8_AX() {
	c.bus.OutW(uint16(c.fetch8()), c.AX)
	c.Cycles += 3
}

func (c *CPU_8086) opIN_AL_DX() {
	c.SetAL(c.bus.In(c.DX))
	c.Cycles += 3
}

func (c *CPU_8086) opIN_AX_DX() {
	c.AX = c.bus.InW(c.DX)
	c.Cycles += 3
}

func (c *CPU_8086) opOUT_DX_AL() {
	c.bus.Out(c.DX, c.AL())
	c.Cycles += 3
}

func (c *CPU_8086) opOUT_DX_AX() {
	c.bus.OutW(c.DX, c.AX)
	c.Cycles += 3
}

// =============================================================================
// HLT / WAIT / ESC / SALC
// =============================================================================

func (c *CPU_8086) opHLT() {
	c.Halted = true
	c.Cycles += 2
}

func (c *CPU_8086) opWAIT() {
	// No coprocessor: TEST# is never asserted
	c.Cycles += 3
}

// opESC consumes the coprocessor escape's ModR/M operand and discards it.
func (c *CPU_8086) opESC() {
	c.fetchModRM()
	if c.getModRMMod() != 3 {
		c.calcEffectiveAddress()
	}
	c.Cycles += 2
}

// opSALC is the undocumented D6h encoding: AL = CF ? FFh : 00h.
func (c *CPU_8086) opSALC() {
	if c.CF() {
		c.SetAL(0xFF)
	} else {
		c.SetAL(0)
	}
	c.Cycles++
}

// =============================================================================
// 80186 extensions (gated by cpu186)
// =============================================================================

func (c *CPU_8086) opPUSH_Iv() {
	c.push16(c.fetch16())
	c.Cycles += 2
}

func (c *CPU_8086) opPUSH_Ib() {
	c.push16(uint16(int16(int8(c.fetch8()))))
	c.Cycles += 2
}

func (c *CPU_8086) opPUSHA() {
	sp := c.SP
	c.push16(c.AX)
	c.push16(c.CX)
	c.push16(c.DX)
	c.push16(c.BX)
	c.push16(sp)
	c.push16(c.BP)
	c.push16(c.SI)
	c.push16(c.DI)
	c.Cycles += 8
}

func (c *CPU_8086) opPOPA() {
	c.DI = c.pop16()
	c.SI = c.pop16()
	c.BP = c.pop16()
	c.pop16() // SP image discarded
	c.BX = c.pop16()
	c.DX = c.pop16()
	c.CX = c.pop16()
	c.AX = c.pop16()
	c.Cycles += 8
}

func (c *CPU_8086) opIMUL_Gv_Ev_Iv() {
	c.fetchModRM()
	a := int16(c.readRM16())
	b := int16(c.fetch16())
	product := int32(a) * int32(b)
	c.setReg16(c.getModRMReg(), uint16(product))
	overflow := product != int32(int16(product))
	c.setFlag(x86FlagCF, overflow)
	c.setFlag(x86FlagOF, overflow)
	c.Cycles += 9
}

func (c *CPU_8086) opIMUL_Gv_Ev_Ib() {
	c.fetchModRM()
	a := int16(c.readRM16())
	b := int16(int8(c.fetch8()))
	product := int32(a) * int32(b)
	c.setReg16(c.getModRMReg(), uint16(product))
	overflow := product != int32(int16(product))
	c.setFlag(x86FlagCF, overflow)
	c.setFlag(x86FlagOF, overflow)
	c.Cycles += 9
}

func (c *CPU_8086) opINSB() {
	if !c.stringBegin() {
		return
	}
	c.memWrite8(c.ES, c.DI, c.bus.In(c.DX))
	c.DI += c.stringDelta(1)
	c.stringNext(true)
	c.Cycles += 2
}

func (c *CPU_8086) opINSW() {
	if !c.stringBegin() {
		return
	}
	c.memWrite16(c.ES, c.DI, c.bus.InW(c.DX))
	c.DI += c.stringDelta(2)
	c.stringNext(true)
	c.Cycles += 2
}

func (c *CPU_8086) opOUTSB() {
	if !c.stringBegin() {
		return
	}
	c.bus.Out(c.DX, c.memRead8(c.segForIndex(x86SegDS), c.SI))
	c.SI += c.stringDelta(1)
	c.stringNext(true)
	c.Cycles += 2
}

func (c *CPU_8086) opOUTSW() {
	if !c.stringBegin() {
		return
	}
	c.bus.OutW(c.DX, c.memRead16(c.segForIndex(x86SegDS), c.SI))
	c.SI += c.stringDelta(2)
	c.stringNext(true)
	c.Cycles += 2
}

func (c *CPU_8086) opENTER() {
	frameSize := c.fetch16()
	level := c.fetch8() & 0x1F
	c.push16(c.BP)
	framePtr := c.SP
	if level > 0 {
		for i := byte(1); i < level; i++ {
			c.BP -= 2
			c.push16(c.memRead16(c.SS, c.BP))
		}
		c.push16(framePtr)
	}
	c.BP = framePtr
	c.SP -= frameSize
	c.Cycles += 10
}

func (c *CPU_8086) opLEAVE() {
	c.SP = c.BP
	c.BP = c.pop16()
	c.Cycles += 4
}

func (c *CPU_8086) opInvalid() {
	c.invalidOpcode()
}

// =============================================================================
// Instruction Table Initialization
// =============================================================================

// initBaseOps builds the 256-entry dispatch table. The 8086 has no undefined
// holes: unassigned encodings alias documented neighbours (60h-6Fh mirror the
// conditional jumps, C0h/C1h and C8h/C9h mirror the RET forms, 0Fh is POP CS).
// With cpu186 set those encodings take their 80186 meanings instead.
func (c *CPU_8086) initBaseOps() {
	c.baseOps[0x00] = (*CPU_8086).opADD_Eb_Gb
	c.baseOps[0x01] = (*CPU_8086).opADD_Ev_Gv
	c.baseOps[0x02] = (*CPU_8086).opADD_Gb_Eb
	c.baseOps[0x03] = (*CPU_8086).opADD_Gv_Ev
	c.baseOps[0x04] = (*CPU_8086).opADD_AL_Ib
	c.baseOps[0x05] = (*CPU_8086).opADD_AX_Iv

	c.baseOps[0x06] = (*CPU_8086).opPUSH_ES
	c.baseOps[0x07] = (*CPU_8086).opPOP_ES

	c.baseOps[0x08] = (*CPU_8086).opOR_Eb_Gb
	c.baseOps[0x09] = (*CPU_8086).opOR_Ev_Gv
	c.baseOps[0x0A] = (*CPU_8086).opOR_Gb_Eb
	c.baseOps[0x0B] = (*CPU_8086).opOR_Gv_Ev
	c.baseOps[0x0C] = (*CPU_8086).opOR_AL_Ib
	c.baseOps[0x0D] = (*CPU_8086).opOR_AX_Iv

	c.baseOps[0x0E] = (*CPU_8086).opPUSH_CS
	if c.cpu186 {
		c.baseOps[0x0F] = (*CPU_8086).opInvalid
	} else {
		c.baseOps[0x0F] = (*CPU_8086).opPOP_CS
	}

	c.baseOps[0x10] = (*CPU_8086).opADC_Eb_Gb
	c.baseOps[0x11] = (*CPU_8086).opADC_Ev_Gv
	c.baseOps[0x12] = (*CPU_8086).opADC_Gb_Eb
	c.baseOps[0x13] = (*CPU_8086).opADC_Gv_Ev
	c.baseOps[0x14] = (*CPU_8086).opADC_AL_Ib
	c.baseOps[0x15] = (*CPU_8086).opADC_AX_Iv

	c.baseOps[0x16] = (*CPU_8086).opPUSH_SS
	c.baseOps[0x17] = (*CPU_8086).opPOP_SS

	c.baseOps[0x18] = (*CPU_8086).opSBB_Eb_Gb
	c.baseOps[0x19] = (*CPU_8086).opSBB_Ev_Gv
	c.baseOps[0x1A] = (*CPU_8086).opSBB_Gb_Eb
	c.baseOps[0x1B] = (*CPU_8086).opSBB_Gv_Ev
	c.baseOps[0x1C] = (*CPU_8086).opSBB_AL_Ib
	c.baseOps[0x1D] = (*CPU_8086).opSBB_AX_Iv

	c.baseOps[0x1E] = (*CPU_8086).opPUSH_DS
	c.baseOps[0x1F] = (*CPU_8086).opPOP_DS

	c.baseOps[0x20] = (*CPU_8086).opAND_Eb_Gb
	c.baseOps[0x21] = (*CPU_8086).opAND_Ev_Gv
	c.baseOps[0x22] = (*CPU_8086).opAND_Gb_Eb
	c.baseOps[0x23] = (*CPU_8086).opAND_Gv_Ev
	c.baseOps[0x24] = (*CPU_8086).opAND_AL_Ib
	c.baseOps[0x25] = (*CPU_8086).opAND_AX_Iv

	c.baseOps[0x27] = (*CPU_8086).opDAA

	c.baseOps[0x28] = (*CPU_8086).opSUB_Eb_Gb
	c.baseOps[0x29] = (*CPU_8086).opSUB_Ev_Gv
	c.baseOps[0x2A] = (*CPU_8086).opSUB_Gb_Eb
	c.baseOps[0x2B] = (*CPU_8086).opSUB_Gv_Ev
	c.baseOps[0x2C] = (*CPU_8086).opSUB_AL_Ib
	c.baseOps[0x2D] = (*CPU_8086).opSUB_AX_Iv

	c.baseOps[0x2F] = (*CPU_8086).opDAS

	c.baseOps[0x30] = (*CPU_8086).opXOR_Eb_Gb
	c.baseOps[0x31] = (*CPU_8086).opXOR_Ev_Gv
	c.baseOps[0x32] = (*CPU_8086).opXOR_Gb_Eb
	c.baseOps[0x33] = (*CPU_8086).opXOR_Gv_Ev
	c.baseOps[0x34] = (*CPU_8086).opXOR_AL_Ib
	c.baseOps[0x35] = (*CPU_8086).opXOR_AX_Iv

	c.baseOps[0x37] = (*CPU_8086).opAAA

	c.baseOps[0x38] = (*CPU_8086).opCMP_Eb_Gb
	c.baseOps[0x39] = (*CPU_8086).opCMP_Ev_Gv
	c.baseOps[0x3A] = (*CPU_8086).opCMP_Gb_Eb
	c.baseOps[0x3B] = (*CPU_8086).opCMP_Gv_Ev
	c.baseOps[0x3C] = (*CPU_8086).opCMP_AL_Ib
	c.baseOps[0x3D] = (*CPU_8086).opCMP_AX_Iv

	c.baseOps[0x3F] = (*CPU_8086).opAAS

	for i := 0; i < 8; i++ {
		idx := byte(i)
		c.baseOps[0x40+i] = func(cpu *CPU_8086) { cpu.opINC_reg(idx) }
		c.baseOps[0x48+i] = func(cpu *CPU_8086) { cpu.opDEC_reg(idx) }
		c.baseOps[0x50+i] = func(cpu *CPU_8086) { cpu.opPUSH_reg(idx) }
		c.baseOps[0x58+i] = func(cpu *CPU_8086) { cpu.opPOP_reg(idx) }
	}

	if c.cpu186 {
		c.baseOps[0x60] = (*CPU_8086).opPUSHA
		c.baseOps[0x61] = (*CPU_8086).opPOPA
		c.baseOps[0x62] = (*CPU_8086).opInvalid // BOUND not modeled
		c.baseOps[0x63] = (*CPU_8086).opInvalid
		c.baseOps[0x64] = (*CPU_8086).opInvalid
		c.baseOps[0x65] = (*CPU_8086).opInvalid
		c.baseOps[0x66] = (*CPU_8086).opInvalid
		c.baseOps[0x67] = (*CPU_8086).opInvalid
		c.baseOps[0x68] = (*CPU_8086).opPUSH_Iv
		c.baseOps[0x69] = (*CPU_8086).opIMUL_Gv_Ev_Iv
		c.baseOps[0x6A] = (*CPU_8086).opPUSH_Ib
		c.baseOps[0x6B] = (*CPU_8086).opIMUL_Gv_Ev_Ib
		c.baseOps[0x6C] = (*CPU_8086).opINSB
		c.baseOps[0x6D] = (*CPU_8086).opINSW
		c.baseOps[0x6E] = (*CPU_8086).opOUTSB
		c.baseOps[0x6F] = (*CPU_8086).opOUTSW
	} else {
		// 8086: 60h-6Fh decode as the 70h-7Fh conditional jumps
		for i := 0x60; i <= 0x6F; i++ {
			c.baseOps[i] = nil // filled from the jcc block below
		}
	}

	c.baseOps[0x70] = (*CPU_8086).opJO_rel8
	c.baseOps[0x71] = (*CPU_8086).opJNO_rel8
	c.baseOps[0x72] = (*CPU_8086).opJB_rel8
	c.baseOps[0x73] = (*CPU_8086).opJNB_rel8
	c.baseOps[0x74] = (*CPU_8086).opJZ_rel8
	c.baseOps[0x75] = (*CPU_8086).opJNZ_rel8
	c.baseOps[0x76] = (*CPU_8086).opJBE_rel8
	c.baseOps[0x77] = (*CPU_8086).opJNBE_rel8
	c.baseOps[0x78] = (*CPU_8086).opJS_rel8
	c.baseOps[0x79] = (*CPU_8086).opJNS_rel8
	c.baseOps[0x7A] = (*CPU_8086).opJP_rel8
	c.baseOps[0x7B] = (*CPU_8086).opJNP_rel8
	c.baseOps[0x7C] = (*CPU_8086).opJL_rel8
	c.baseOps[0x7D] = (*CPU_8086).opJNL_rel8
	c.baseOps[0x7E] = (*CPU_8086).opJLE_rel8
	c.baseOps[0x7F] = (*CPU_8086).opJNLE_rel8

	if !c.cpu186 {
		for i := 0x60; i <= 0x6F; i++ {
			c.baseOps[i] = c.baseOps[i+0x10]
		}
	}

	c.baseOps[0x80] = (*CPU_8086).opGrp1_Eb_Ib
	c.baseOps[0x81] = (*CPU_8086).opGrp1_Ev_Iv
	c.baseOps[0x82] = (*CPU_8086).opGrp1_Eb_Ib // documented alias
	c.baseOps[0x83] = (*CPU_8086).opGrp1_Ev_Ib

	c.baseOps[0x84] = (*CPU_8086).opTEST_Eb_Gb
	c.baseOps[0x85] = (*CPU_8086).opTEST_Ev_Gv
	c.baseOps[0x86] = (*CPU_8086).opXCHG_Eb_Gb
	c.baseOps[0x87] = (*CPU_8086).opXCHG_Ev_Gv

	c.baseOps[0x88] = (*CPU_8086).opMOV_Eb_Gb
	c.baseOps[0x89] = (*CPU_8086).opMOV_Ev_Gv
	c.baseOps[0x8A] = (*CPU_8086).opMOV_Gb_Eb
	c.baseOps[0x8B] = (*CPU_8086).opMOV_Gv_Ev
	c.baseOps[0x8C] = (*CPU_8086).opMOV_Ev_Sw
	c.baseOps[0x8D] = (*CPU_8086).opLEA
	c.baseOps[0x8E] = (*CPU_8086).opMOV_Sw_Ew
	c.baseOps[0x8F] = (*CPU_8086).opPOP_Ev

	c.baseOps[0x90] = (*CPU_8086).opNOP
	for i := 1; i < 8; i++ {
		idx := byte(i)
		c.baseOps[0x90+i] = func(cpu *CPU_8086) { cpu.opXCHG_AX_reg(idx) }
	}

	c.baseOps[0x98] = (*CPU_8086).opCBW
	c.baseOps[0x99] = (*CPU_8086).opCWD
	c.baseOps[0x9A] = (*CPU_8086).opCALL_far
	c.baseOps[0x9B] = (*CPU_8086).opWAIT
	c.baseOps[0x9C] = (*CPU_8086).opPUSHF
	c.baseOps[0x9D] = (*CPU_8086).opPOPF
	c.baseOps[0x9E] = (*CPU_8086).opSAHF
	c.baseOps[0x9F] = (*CPU_8086).opLAHF

	c.baseOps[0xA0] = (*CPU_8086).opMOV_AL_moffs
	c.baseOps[0xA1] = (*CPU_8086).opMOV_AX_moffs
	c.baseOps[0xA2] = (*CPU_8086).opMOV_moffs_AL
	c.baseOps[0xA3] = (*CPU_8086).opMOV_moffs_AX

	c.baseOps[0xA4] = (*CPU_8086).opMOVSB
	c.baseOps[0xA5] = (*CPU_8086).opMOVSW
	c.baseOps[0xA6] = (*CPU_8086).opCMPSB
	c.baseOps[0xA7] = (*CPU_8086).opCMPSW

	c.baseOps[0xA8] = (*CPU_8086).opTEST_AL_Ib
	c.baseOps[0xA9] = (*CPU_8086).opTEST_AX_Iv

	c.baseOps[0xAA] = (*CPU_8086).opSTOSB
	c.baseOps[0xAB] = (*CPU_8086).opSTOSW
	c.baseOps[0xAC] = (*CPU_8086).opLODSB
	c.baseOps[0xAD] = (*CPU_8086).opLODSW
	c.baseOps[0xAE] = (*CPU_8086).opSCASB
	c.baseOps[0xAF] = (*CPU_8086).opSCASW

	for i := 0; i < 8; i++ {
		idx := byte(i)
		c.baseOps[0xB0+i] = func(cpu *CPU_8086) { cpu.opMOV_r8_imm8(idx) }
		c.baseOps[0xB8+i] = func(cpu *CPU_8086) { cpu.opMOV_r16_imm16(idx) }
	}

	if c.cpu186 {
		c.baseOps[0xC0] = (*CPU_8086).opGrp2_Eb_Ib
		c.baseOps[0xC1] = (*CPU_8086).opGrp2_Ev_Ib
	} else {
		c.baseOps[0xC0] = (*CPU_8086).opRET_imm16 // 8086 alias of C2h
		c.baseOps[0xC1] = (*CPU_8086).opRET       // 8086 alias of C3h
	}
	c.baseOps[0xC2] = (*CPU_8086).opRET_imm16
	c.baseOps[0xC3] = (*CPU_8086).opRET
	c.baseOps[0xC4] = (*CPU_8086).opLES
	c.baseOps[0xC5] = (*CPU_8086).opLDS
	c.baseOps[0xC6] = (*CPU_8086).opMOV_Eb_Ib
	c.baseOps[0xC7] = (*CPU_8086).opMOV_Ev_Iv
	if c.cpu186 {
		c.baseOps[0xC8] = (*CPU_8086).opENTER
		c.baseOps[0xC9] = (*CPU_8086).opLEAVE
	} else {
		c.baseOps[0xC8] = (*CPU_8086).opRETF_imm16 // 8086 alias of CAh
		c.baseOps[0xC9] = (*CPU_8086).opRETF       // 8086 alias of CBh
	}
	c.baseOps[0xCA] = (*CPU_8086).opRETF_imm16
	c.baseOps[0xCB] = (*CPU_8086).opRETF
	c.baseOps[0xCC] = (*CPU_8086).opINT3
	c.baseOps[0xCD] = (*CPU_8086).opINT_imm8
	c.baseOps[0xCE] = (*CPU_8086).opINTO
	c.baseOps[0xCF] = (*CPU_8086).opIRET

	c.baseOps[0xD0] = (*CPU_8086).opGrp2_Eb_1
	c.baseOps[0xD1] = (*CPU_8086).opGrp2_Ev_1
	c.baseOps[0xD2] = (*CPU_8086).opGrp2_Eb_CL
	c.baseOps[0xD3] = (*CPU_8086).opGrp2_Ev_CL

	c.baseOps[0xD4] = (*CPU_8086).opAAM
	c.baseOps[0xD5] = (*CPU_8086).opAAD
	c.baseOps[0xD6] = (*CPU_8086).opSALC
	c.baseOps[0xD7] = (*CPU_8086).opXLAT

	for i := 0xD8; i <= 0xDF; i++ {
		c.baseOps[i] = (*CPU_8086).opESC
	}

	c.baseOps[0xE0] = (*CPU_8086).opLOOPNE
	c.baseOps[0xE1] = (*CPU_8086).opLOOPE
	c.baseOps[0xE2] = (*CPU_8086).opLOOP
	c.baseOps[0xE3] = (*CPU_8086).opJCXZ

	c.baseOps[0xE4] = (*CPU_8086).opIN_AL_imm8
	c.baseOps[0xE5] = (*CPU_8086).opIN_AX_imm8
	c.baseOps[0xE6] = (*CPU_8086).opOUT_imm8_AL
	c.baseOps[0xE7] = (*CPU_8086).opOUT_imm8_AX

	c.baseOps[0xE8] = (*CPU_8086).opCALL_rel16
	c.baseOps[0xE9] = (*CPU_8086).opJMP_rel16
	c.baseOps[0xEA] = (*CPU_8086).opJMP_far
	c.baseOps[0xEB] = (*CPU_8086).opJMP_rel8

	c.baseOps[0xEC] = (*CPU_8086).opIN_AL_DX
	c.baseOps[0xED] = (*CPU_8086).opIN_AX_DX
	c.baseOps[0xEE] = (*CPU_8086).opOUT_DX_AL
	c.baseOps[0xEF] = (*CPU_8086).opOUT_DX_AX

	c.baseOps[0xF1] = (*CPU_8086).opBIOSTrap
	c.baseOps[0xF4] = (*CPU_8086).opHLT
	c.baseOps[0xF5] = (*CPU_8086).opCMC

	c.baseOps[0xF6] = (*CPU_8086).opGrp3_Eb
	c.baseOps[0xF7] = (*CPU_8086).opGrp3_Ev

	c.baseOps[0xF8] = (*CPU_8086).opCLC
	c.baseOps[0xF9] = (*CPU_8086).opSTC
	c.baseOps[0xFA] = (*CPU_8086).opCLI
	c.baseOps[0xFB] = (*CPU_8086).opSTI
	c.baseOps[0xFC] = (*CPU_8086).opCLD
	c.baseOps[0xFD] = (*CPU_8086).opSTD

	c.baseOps[0xFE] = (*CPU_8086).opGrp4_Eb
	c.baseOps[0xFF] = (*CPU_8086).opGrp5_Ev

	// Anything still unassigned decodes as invalid
	for i := range c.baseOps {
		if c.baseOps[i] == nil {
			c.baseOps[i] = (*CPU_8086).opInvalid
		}
	}
}
