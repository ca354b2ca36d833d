// disasm_8086_test.go - disassembler spot checks
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"testing"
)

func disasmOne(code ...byte) (string, int) {
	mem := make([]byte, 0x1000)
	copy(mem[0x100:], code)
	return Disasm8086(func(addr uint32) byte { return mem[addr&0xFFF] }, 0, 0x100)
}

func TestDisasm_Basics(t *testing.T) {
	cases := []struct {
		code []byte
		want string
		len  int
	}{
		{[]byte{0x90}, "nop", 1},
		{[]byte{0xF4}, "hlt", 1},
		{[]byte{0xEA, 0x5B, 0xE0, 0x00, 0xF0}, "jmp f000:e05b", 5},
		{[]byte{0xB8, 0x34, 0x12}, "mov ax, 1234", 3},
		{[]byte{0xB4, 0x0E}, "mov ah, 0e", 2},
		{[]byte{0xCD, 0x13}, "int 13", 2},
		{[]byte{0x01, 0xD8}, "add ax, bx", 2},
		{[]byte{0x8B, 0x47, 0x04}, "mov ax, [bx+04]", 3},
		{[]byte{0x8B, 0x46, 0xFE}, "mov ax, [bp-02]", 3},
		{[]byte{0xF3, 0xA4}, "rep movsb", 2},
		{[]byte{0x26, 0x8A, 0x07}, "mov al, [es:bx+si]", 3},
		{[]byte{0xF7, 0xF3}, "div bx", 2},
		{[]byte{0xD3, 0xE0}, "shl ax, cl", 2},
		{[]byte{0xFF, 0x26, 0x00, 0x7C}, "jmp [7c00]", 4},
		{[]byte{0x74, 0x10}, "jz 0112", 2},
		{[]byte{0xE8, 0x00, 0x10}, "call 1103", 3},
	}
	for _, tc := range cases {
		got, n := disasmOne(tc.code...)
		if got != tc.want {
			t.Errorf("%X: got %q, want %q", tc.code, got, tc.want)
		}
		if n != tc.len {
			t.Errorf("%X: length %d, want %d", tc.code, n, tc.len)
		}
	}
}
