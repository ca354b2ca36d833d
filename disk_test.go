// disk_test.go - disk geometry and transfer unit tests
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"testing"
)

func testGeometry() Geometry {
	return Geometry{Cylinders: 20, Heads: 16, Sectors: 63, SectorSize: 512}
}

func testImage(g Geometry) []byte {
	return make([]byte, g.TotalSectors()*int64(g.SectorSize))
}

func TestDisk_CHSRoundTrip(t *testing.T) {
	g := testGeometry()
	d, err := NewDiskFromBytes(testImage(g), g, false)
	if err != nil {
		t.Fatal(err)
	}
	for c := 0; c < g.Cylinders; c += 3 {
		for h := 0; h < g.Heads; h++ {
			for s := 1; s <= g.Sectors; s += 7 {
				lba, err := d.LBA(c, h, s)
				if err != nil {
					t.Fatalf("LBA(%d,%d,%d): %v", c, h, s, err)
				}
				c2, h2, s2, err := d.CHS(lba)
				if err != nil {
					t.Fatalf("CHS(%d): %v", lba, err)
				}
				if c2 != c || h2 != h || s2 != s {
					t.Fatalf("round trip (%d,%d,%d) -> %d -> (%d,%d,%d)", c, h, s, lba, c2, h2, s2)
				}
			}
		}
	}
}

func TestDisk_LBAFormula(t *testing.T) {
	g := testGeometry()
	d, _ := NewDiskFromBytes(testImage(g), g, false)
	lba, err := d.LBA(2, 5, 9)
	if err != nil {
		t.Fatal(err)
	}
	want := int64((2*16+5)*63 + 8)
	if lba != want {
		t.Errorf("LBA: got %d, want %d", lba, want)
	}
}

func TestDisk_InvalidCHS(t *testing.T) {
	g := testGeometry()
	d, _ := NewDiskFromBytes(testImage(g), g, false)
	if _, err := d.LBA(0, 0, 0); err == nil {
		t.Error("sector 0 must be rejected")
	}
	if _, err := d.LBA(0, g.Heads, 1); err == nil {
		t.Error("head out of range must be rejected")
	}
	if _, err := d.LBA(g.Cylinders, 0, 1); err == nil {
		t.Error("cylinder out of range must be rejected")
	}
}

func TestDisk_ReadWrite(t *testing.T) {
	g := testGeometry()
	img := testImage(g)
	for i := 0; i < 512; i++ {
		img[512+i] = byte(i)
	}
	d, _ := NewDiskFromBytes(img, g, false)

	data, err := d.ReadSectors(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if data[10] != 10 {
		t.Errorf("read: got %d, want 10", data[10])
	}

	sector := make([]byte, 512)
	sector[0] = 0xEE
	if err := d.WriteSectors(2, sector); err != nil {
		t.Fatal(err)
	}
	back, _ := d.ReadSectors(2, 1)
	if back[0] != 0xEE {
		t.Errorf("write-back: got 0x%02X, want 0xEE", back[0])
	}
}

func TestDisk_ReadBeyondImage(t *testing.T) {
	g := testGeometry()
	d, _ := NewDiskFromBytes(testImage(g), g, false)
	if _, err := d.ReadSectors(g.TotalSectors(), 1); err == nil {
		t.Error("read past the image must fail")
	}
	if _, ok := err2DiskError(d.WriteSectors(g.TotalSectors()-1, make([]byte, 1024))); !ok {
		t.Error("write crossing the image end must fail with a DiskError")
	}
}

func err2DiskError(err error) (*DiskError, bool) {
	de, ok := err.(*DiskError)
	return de, ok
}

func TestDisk_WriteProtect(t *testing.T) {
	g := testGeometry()
	d, _ := NewDiskFromBytes(testImage(g), g, true)
	err := d.WriteSectors(0, make([]byte, 512))
	if err == nil {
		t.Fatal("write to a protected disk must fail")
	}
}

func TestDisk_AutoGeometry(t *testing.T) {
	// 10 MB image: 16 heads x 63 sectors
	size := int64(10 * 1024 * 1024)
	g, err := resolveGeometry(DiskConfig{Geometry: "auto"}, size)
	if err != nil {
		t.Fatal(err)
	}
	if g.Heads != 16 || g.Sectors != 63 {
		t.Errorf("layout: got %d/%d, want 16/63", g.Heads, g.Sectors)
	}
	if g.TotalSectors()*512 > size {
		t.Error("detected geometry exceeds the image")
	}

	// Small image falls back to an XT-style layout
	g, err = resolveGeometry(DiskConfig{Geometry: "auto"}, 512*4*17*10)
	if err != nil {
		t.Fatal(err)
	}
	if g.TotalSectors()*512 > 512*4*17*10 {
		t.Error("small-image geometry exceeds the image")
	}
}

func TestDisk_GeometryRejectsOddSize(t *testing.T) {
	if _, err := resolveGeometry(DiskConfig{Geometry: "auto"}, 1000); err == nil {
		t.Error("size not a multiple of the sector size must be rejected")
	}
}

func TestDisk_CustomGeometryBounds(t *testing.T) {
	cfg := DiskConfig{Geometry: "custom", Cylinders: 100, Heads: 16, Sectors: 63, SectorSize: 512}
	if _, err := resolveGeometry(cfg, 512); err == nil {
		t.Error("custom geometry larger than the image must be rejected")
	}
}

func TestDisk_Partitions(t *testing.T) {
	g := testGeometry()
	img := testImage(g)
	img[510] = 0x55
	img[511] = 0xAA
	e := img[partTableOff:]
	e[0] = 0x80 // bootable
	e[4] = 0x06 // FAT16
	e[8] = 63   // LBA start
	e[12] = 0x10
	e[13] = 0x27 // length 0x2710
	d, _ := NewDiskFromBytes(img, g, false)

	parts := d.Partitions()
	if len(parts) != 1 {
		t.Fatalf("partitions: got %d, want 1", len(parts))
	}
	p := parts[0]
	if !p.Bootable || p.Type != 0x06 || p.LBAStart != 63 || p.LBALen != 0x2710 {
		t.Errorf("entry: %+v", p)
	}
}

func TestDisk_BootSignature(t *testing.T) {
	g := testGeometry()
	img := testImage(g)
	img[510] = 0x55
	img[511] = 0xAA
	d, _ := NewDiskFromBytes(img, g, false)
	if !d.HasBootSignature() {
		t.Error("signature 55 AA should be detected")
	}
	img[510] = 0
	if d.HasBootSignature() {
		t.Error("cleared signature should not be detected")
	}
}
