// disasm_8086.go - one-line 8086 disassembly for instruction tracing
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"strings"
)

var disasmReg8 = [8]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}
var disasmReg16 = [8]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}
var disasmSeg = [4]string{"es", "cs", "ss", "ds"}
var disasmRM = [8]string{"bx+si", "bx+di", "bp+si", "bp+di", "si", "di", "bp", "bx"}

var disasmGrp1 = [8]string{"add", "or", "adc", "sbb", "and", "sub", "xor", "cmp"}
var disasmGrp2 = [8]string{"rol", "ror", "rcl", "rcr", "shl", "shr", "sal", "sar"}
var disasmGrp3 = [8]string{"test", "test", "not", "neg", "mul", "imul", "div", "idiv"}
var disasmGrp5 = [8]string{"inc", "dec", "call", "call far", "jmp", "jmp far", "push", "push"}

var disasmJcc = [16]string{
	"jo", "jno", "jb", "jnb", "jz", "jnz", "jbe", "ja",
	"js", "jns", "jp", "jnp", "jl", "jnl", "jle", "jg",
}

// disasmCursor walks the instruction stream during disassembly.
type disasmCursor struct {
	read func(uint32) byte
	seg  uint16
	off  uint16
	n    int
}

func (d *disasmCursor) b() byte {
	v := d.read(PhysAddr(d.seg, d.off+uint16(d.n)))
	d.n++
	return v
}

func (d *disasmCursor) w() uint16 {
	lo := d.b()
	hi := d.b()
	return uint16(lo) | uint16(hi)<<8
}

// modRM renders the register-or-memory operand and returns it with the reg
// field. wide selects 16-bit register names.
func (d *disasmCursor) modRM(wide bool, segOverride string) (string, byte) {
	modrm := d.b()
	mod := modrm >> 6
	reg := (modrm >> 3) & 7
	rm := modrm & 7

	if mod == 3 {
		if wide {
			return disasmReg16[rm], reg
		}
		return disasmReg8[rm], reg
	}

	var expr string
	switch {
	case mod == 0 && rm == 6:
		expr = fmt.Sprintf("%04x", d.w())
	case mod == 0:
		expr = disasmRM[rm]
	case mod == 1:
		disp := int8(d.b())
		if disp < 0 {
			expr = fmt.Sprintf("%s-%02x", disasmRM[rm], -int16(disp))
		} else {
			expr = fmt.Sprintf("%s+%02x", disasmRM[rm], disp)
		}
	default:
		expr = fmt.Sprintf("%s+%04x", disasmRM[rm], d.w())
	}
	return fmt.Sprintf("[%s%s]", segOverride, expr), reg
}

// Disasm8086 renders the instruction at seg:off and returns its text with
// the byte length consumed.
func Disasm8086(read func(uint32) byte, seg, off uint16) (string, int) {
	d := &disasmCursor{read: read, seg: seg, off: off}

	prefix := ""
	segOverride := ""
	for {
		op := d.b()
		switch op {
		case 0x26, 0x2E, 0x36, 0x3E:
			segOverride = disasmSeg[(op>>3)&3] + ":"
			continue
		case 0xF0:
			prefix += "lock "
			continue
		case 0xF2:
			prefix += "repne "
			continue
		case 0xF3:
			prefix += "rep "
			continue
		}
		text := d.instruction(op, segOverride)
		return prefix + text, d.n
	}
}

func (d *disasmCursor) instruction(op byte, so string) string {
	// The arithmetic block 00h-3Fh is regular: eight operations in six
	// addressing forms plus the segment push/pop and BCD columns.
	if op < 0x40 {
		name := disasmGrp1[op>>3]
		switch op & 7 {
		case 0:
			rm, reg := d.modRM(false, so)
			return fmt.Sprintf("%s %s, %s", name, rm, disasmReg8[reg])
		case 1:
			rm, reg := d.modRM(true, so)
			return fmt.Sprintf("%s %s, %s", name, rm, disasmReg16[reg])
		case 2:
			rm, reg := d.modRM(false, so)
			return fmt.Sprintf("%s %s, %s", name, disasmReg8[reg], rm)
		case 3:
			rm, reg := d.modRM(true, so)
			return fmt.Sprintf("%s %s, %s", name, disasmReg16[reg], rm)
		case 4:
			return fmt.Sprintf("%s al, %02x", name, d.b())
		case 5:
			return fmt.Sprintf("%s ax, %04x", name, d.w())
		case 6:
			switch op {
			case 0x06, 0x0E, 0x16, 0x1E:
				return "push " + disasmSeg[op>>3]
			case 0x26, 0x2E, 0x36, 0x3E:
				// prefixes, handled by the caller
			}
		case 7:
			switch op {
			case 0x07, 0x17, 0x1F:
				return "pop " + disasmSeg[op>>3]
			case 0x0F:
				return "pop cs"
			case 0x27:
				return "daa"
			case 0x2F:
				return "das"
			case 0x37:
				return "aaa"
			case 0x3F:
				return "aas"
			}
		}
	}

	switch {
	case op >= 0x40 && op <= 0x47:
		return "inc " + disasmReg16[op&7]
	case op >= 0x48 && op <= 0x4F:
		return "dec " + disasmReg16[op&7]
	case op >= 0x50 && op <= 0x57:
		return "push " + disasmReg16[op&7]
	case op >= 0x58 && op <= 0x5F:
		return "pop " + disasmReg16[op&7]
	case op >= 0x60 && op <= 0x7F:
		// 60h-6Fh alias the conditional jumps on the 8086
		rel := int8(d.b())
		target := d.off + uint16(d.n) + uint16(int16(rel))
		return fmt.Sprintf("%s %04x", disasmJcc[op&0x0F], target)
	case op >= 0x91 && op <= 0x97:
		return "xchg ax, " + disasmReg16[op&7]
	case op >= 0xB0 && op <= 0xB7:
		return fmt.Sprintf("mov %s, %02x", disasmReg8[op&7], d.b())
	case op >= 0xB8 && op <= 0xBF:
		return fmt.Sprintf("mov %s, %04x", disasmReg16[op&7], d.w())
	case op >= 0xD8 && op <= 0xDF:
		rm, _ := d.modRM(true, so)
		return "esc " + rm
	}

	switch op {
	case 0x80, 0x82:
		rm, reg := d.modRM(false, so)
		return fmt.Sprintf("%s %s, %02x", disasmGrp1[reg], rm, d.b())
	case 0x81:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("%s %s, %04x", disasmGrp1[reg], rm, d.w())
	case 0x83:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("%s %s, %02x", disasmGrp1[reg], rm, d.b())
	case 0x84:
		rm, reg := d.modRM(false, so)
		return fmt.Sprintf("test %s, %s", rm, disasmReg8[reg])
	case 0x85:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("test %s, %s", rm, disasmReg16[reg])
	case 0x86:
		rm, reg := d.modRM(false, so)
		return fmt.Sprintf("xchg %s, %s", rm, disasmReg8[reg])
	case 0x87:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("xchg %s, %s", rm, disasmReg16[reg])
	case 0x88:
		rm, reg := d.modRM(false, so)
		return fmt.Sprintf("mov %s, %s", rm, disasmReg8[reg])
	case 0x89:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("mov %s, %s", rm, disasmReg16[reg])
	case 0x8A:
		rm, reg := d.modRM(false, so)
		return fmt.Sprintf("mov %s, %s", disasmReg8[reg], rm)
	case 0x8B:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("mov %s, %s", disasmReg16[reg], rm)
	case 0x8C:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("mov %s, %s", rm, disasmSeg[reg&3])
	case 0x8D:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("lea %s, %s", disasmReg16[reg], rm)
	case 0x8E:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("mov %s, %s", disasmSeg[reg&3], rm)
	case 0x8F:
		rm, _ := d.modRM(true, so)
		return "pop " + rm
	case 0x90:
		return "nop"
	case 0x98:
		return "cbw"
	case 0x99:
		return "cwd"
	case 0x9A:
		off := d.w()
		seg := d.w()
		return fmt.Sprintf("call %04x:%04x", seg, off)
	case 0x9B:
		return "wait"
	case 0x9C:
		return "pushf"
	case 0x9D:
		return "popf"
	case 0x9E:
		return "sahf"
	case 0x9F:
		return "lahf"
	case 0xA0:
		return fmt.Sprintf("mov al, [%s%04x]", so, d.w())
	case 0xA1:
		return fmt.Sprintf("mov ax, [%s%04x]", so, d.w())
	case 0xA2:
		return fmt.Sprintf("mov [%s%04x], al", so, d.w())
	case 0xA3:
		return fmt.Sprintf("mov [%s%04x], ax", so, d.w())
	case 0xA4:
		return "movsb"
	case 0xA5:
		return "movsw"
	case 0xA6:
		return "cmpsb"
	case 0xA7:
		return "cmpsw"
	case 0xA8:
		return fmt.Sprintf("test al, %02x", d.b())
	case 0xA9:
		return fmt.Sprintf("test ax, %04x", d.w())
	case 0xAA:
		return "stosb"
	case 0xAB:
		return "stosw"
	case 0xAC:
		return "lodsb"
	case 0xAD:
		return "lodsw"
	case 0xAE:
		return "scasb"
	case 0xAF:
		return "scasw"
	case 0xC0, 0xC2:
		return fmt.Sprintf("ret %04x", d.w())
	case 0xC1, 0xC3:
		return "ret"
	case 0xC4:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("les %s, %s", disasmReg16[reg], rm)
	case 0xC5:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("lds %s, %s", disasmReg16[reg], rm)
	case 0xC6:
		rm, _ := d.modRM(false, so)
		return fmt.Sprintf("mov %s, %02x", rm, d.b())
	case 0xC7:
		rm, _ := d.modRM(true, so)
		return fmt.Sprintf("mov %s, %04x", rm, d.w())
	case 0xC8, 0xCA:
		return fmt.Sprintf("retf %04x", d.w())
	case 0xC9, 0xCB:
		return "retf"
	case 0xCC:
		return "int3"
	case 0xCD:
		return fmt.Sprintf("int %02x", d.b())
	case 0xCE:
		return "into"
	case 0xCF:
		return "iret"
	case 0xD0:
		rm, reg := d.modRM(false, so)
		return fmt.Sprintf("%s %s, 1", disasmGrp2[reg], rm)
	case 0xD1:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("%s %s, 1", disasmGrp2[reg], rm)
	case 0xD2:
		rm, reg := d.modRM(false, so)
		return fmt.Sprintf("%s %s, cl", disasmGrp2[reg], rm)
	case 0xD3:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("%s %s, cl", disasmGrp2[reg], rm)
	case 0xD4:
		d.b()
		return "aam"
	case 0xD5:
		d.b()
		return "aad"
	case 0xD6:
		return "salc"
	case 0xD7:
		return "xlat"
	case 0xE0:
		return d.rel8("loopne")
	case 0xE1:
		return d.rel8("loope")
	case 0xE2:
		return d.rel8("loop")
	case 0xE3:
		return d.rel8("jcxz")
	case 0xE4:
		return fmt.Sprintf("in al, %02x", d.b())
	case 0xE5:
		return fmt.Sprintf("in ax, %02x", d.b())
	case 0xE6:
		return fmt.Sprintf("out %02x, al", d.b())
	case 0xE7:
		return fmt.Sprintf("out %02x, ax", d.b())
	case 0xE8:
		rel := int16(d.w())
		return fmt.Sprintf("call %04x", d.off+uint16(d.n)+uint16(rel))
	case 0xE9:
		rel := int16(d.w())
		return fmt.Sprintf("jmp %04x", d.off+uint16(d.n)+uint16(rel))
	case 0xEA:
		off := d.w()
		seg := d.w()
		return fmt.Sprintf("jmp %04x:%04x", seg, off)
	case 0xEB:
		return d.rel8("jmp")
	case 0xEC:
		return "in al, dx"
	case 0xED:
		return "in ax, dx"
	case 0xEE:
		return "out dx, al"
	case 0xEF:
		return "out dx, ax"
	case 0xF1:
		return fmt.Sprintf("biostrap %02x", d.b())
	case 0xF4:
		return "hlt"
	case 0xF5:
		return "cmc"
	case 0xF6:
		rm, reg := d.modRM(false, so)
		if reg <= 1 {
			return fmt.Sprintf("test %s, %02x", rm, d.b())
		}
		return fmt.Sprintf("%s %s", disasmGrp3[reg], rm)
	case 0xF7:
		rm, reg := d.modRM(true, so)
		if reg <= 1 {
			return fmt.Sprintf("test %s, %04x", rm, d.w())
		}
		return fmt.Sprintf("%s %s", disasmGrp3[reg], rm)
	case 0xF8:
		return "clc"
	case 0xF9:
		return "stc"
	case 0xFA:
		return "cli"
	case 0xFB:
		return "sti"
	case 0xFC:
		return "cld"
	case 0xFD:
		return "std"
	case 0xFE:
		rm, reg := d.modRM(false, so)
		if reg == 0 {
			return "inc " + rm
		}
		return "dec " + rm
	case 0xFF:
		rm, reg := d.modRM(true, so)
		return fmt.Sprintf("%s %s", disasmGrp5[reg], rm)
	}

	return fmt.Sprintf("db %02x", op)
}

func (d *disasmCursor) rel8(name string) string {
	rel := int8(d.b())
	return fmt.Sprintf("%s %04x", name, d.off+uint16(d.n)+uint16(int16(rel)))
}

// disasmBytes renders the raw bytes consumed by a disassembly.
func disasmBytes(read func(uint32) byte, seg, off uint16, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%02X", read(PhysAddr(seg, off+uint16(i))))
	}
	return sb.String()
}
