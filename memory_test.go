// memory_test.go - guest memory unit tests
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"testing"
)

func TestMemory_PhysAddr(t *testing.T) {
	cases := []struct {
		seg, off uint16
		want     uint32
	}{
		{0x0000, 0x0000, 0x00000},
		{0xF000, 0xFFF0, 0xFFFF0},
		{0x1234, 0x5678, 0x179B8},
		{0xFFFF, 0xFFFF, 0x0FFEF}, // HMA wraps on the 20-bit bus
		{0xFFFF, 0x0010, 0x00000},
	}
	for _, c := range cases {
		if got := PhysAddr(c.seg, c.off); got != c.want {
			t.Errorf("PhysAddr(%04X, %04X): got %05X, want %05X", c.seg, c.off, got, c.want)
		}
	}
}

func TestMemory_ByteAndWord(t *testing.T) {
	m := NewMemory(memorySize)
	m.Write8(0x1234, 0xAB)
	if got := m.Read8(0x1234); got != 0xAB {
		t.Errorf("Read8: got 0x%02X, want 0xAB", got)
	}

	m.Write16(0x2000, 0xBEEF)
	if m.Read8(0x2000) != 0xEF || m.Read8(0x2001) != 0xBE {
		t.Error("Write16 must store little-endian")
	}
	if got := m.Read16(0x2000); got != 0xBEEF {
		t.Errorf("Read16: got 0x%04X, want 0xBEEF", got)
	}
}

func TestMemory_WordWrapsAtTop(t *testing.T) {
	m := NewMemory(memorySize)
	m.Write8(0xFFFFF, 0x11)
	m.Write8(0x00000, 0x22)
	if got := m.Read16(0xFFFFF); got != 0x2211 {
		t.Errorf("word across the 20-bit boundary: got 0x%04X, want 0x2211", got)
	}
	m.Write16(0xFFFFF, 0x4433)
	if m.Read8(0xFFFFF) != 0x33 || m.Read8(0x00000) != 0x44 {
		t.Error("word write must wrap the high byte to address 0")
	}
}

func TestMemory_ROMWritesDropped(t *testing.T) {
	m := NewMemory(memorySize)
	m.Load(0xF0000, []byte{0xAA})
	m.MarkROM(0xF0000, 0xFFFFF)

	m.Write8(0xF0000, 0x55)
	if got := m.Read8(0xF0000); got != 0xAA {
		t.Errorf("ROM byte changed: got 0x%02X, want 0xAA", got)
	}
	if m.ROMDrops() != 1 {
		t.Errorf("ROMDrops: got %d, want 1", m.ROMDrops())
	}

	// Load bypasses the mark
	m.Load(0xF0000, []byte{0xBB})
	if got := m.Read8(0xF0000); got != 0xBB {
		t.Errorf("Load through ROM: got 0x%02X, want 0xBB", got)
	}
}

func TestMemory_UnpopulatedReadsZero(t *testing.T) {
	m := NewMemory(0xA0000) // 640 KiB
	m.Load(0xE0000, []byte{0x77})
	if got := m.Read8(0xE0000); got != 0 {
		t.Errorf("read above ram_size: got 0x%02X, want 0", got)
	}
	m.Write8(0xE0000, 0x99)
	// Text video memory stays writable regardless of ram_size
	m.Write8(vramTextBase, 0x42)
	if got := m.Read8(vramTextBase); got != 0x42 {
		t.Errorf("video memory: got 0x%02X, want 0x42", got)
	}
}

func TestMemory_BytesRoundTrip(t *testing.T) {
	m := NewMemory(memorySize)
	data := []byte{1, 2, 3, 4, 5}
	m.WriteBytes(0x3000, data)
	got := m.ReadBytes(0x3000, 5)
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], data[i])
		}
	}
}
