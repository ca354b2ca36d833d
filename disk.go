// disk.go - fixed-disk image backing for the BIOS disk services
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"os"
)

// DiskError covers bad geometry, out-of-range transfers and host I/O failure.
// The BIOS layer converts it to INT 13h status codes; it only reaches the
// host when the image itself is unusable.
type DiskError struct {
	Op     string
	Reason string
}

func (e *DiskError) Error() string {
	return fmt.Sprintf("disk: %s: %s", e.Op, e.Reason)
}

// Geometry is a CHS description of the disk.
type Geometry struct {
	Cylinders  int
	Heads      int
	Sectors    int
	SectorSize int
}

// TotalSectors returns cylinders*heads*sectors.
func (g Geometry) TotalSectors() int64 {
	return int64(g.Cylinders) * int64(g.Heads) * int64(g.Sectors)
}

// Disk is a byte-addressable fixed disk backed by an image file. The image is
// held in memory; writes go back to the file immediately unless the disk is
// write protected.
type Disk struct {
	data         []byte
	file         *os.File
	geom         Geometry
	writeProtect bool
}

// MBR constants
const (
	mbrSignatureOff = 510
	mbrSigLo        = 0x55
	mbrSigHi        = 0xAA
	partTableOff    = 446
	partEntrySize   = 16
)

// OpenDisk loads a raw sector image and resolves its geometry.
func OpenDisk(cfg DiskConfig) (*Disk, error) {
	if cfg.ImagePath == "" {
		return nil, &ConfigError{Option: "disk.image_path", Reason: "no image configured"}
	}
	file, err := os.OpenFile(cfg.ImagePath, rwFlag(cfg.WriteProtect), 0)
	if err != nil {
		return nil, &DiskError{Op: "open", Reason: err.Error()}
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &DiskError{Op: "stat", Reason: err.Error()}
	}
	data := make([]byte, info.Size())
	if _, err := file.ReadAt(data, 0); err != nil {
		file.Close()
		return nil, &DiskError{Op: "read", Reason: err.Error()}
	}

	geom, err := resolveGeometry(cfg, int64(len(data)))
	if err != nil {
		file.Close()
		return nil, err
	}
	return &Disk{
		data:         data,
		file:         file,
		geom:         geom,
		writeProtect: cfg.WriteProtect,
	}, nil
}

func rwFlag(writeProtect bool) int {
	if writeProtect {
		return os.O_RDONLY
	}
	return os.O_RDWR
}

// NewDiskFromBytes wraps an in-memory image; used by tests and by callers
// that manage persistence themselves.
func NewDiskFromBytes(data []byte, geom Geometry, writeProtect bool) (*Disk, error) {
	if geom.SectorSize == 0 {
		geom.SectorSize = 512
	}
	if geom.TotalSectors()*int64(geom.SectorSize) > int64(len(data)) {
		return nil, &DiskError{Op: "geometry", Reason: "total sectors exceed image size"}
	}
	return &Disk{data: data, geom: geom, writeProtect: writeProtect}, nil
}

// resolveGeometry applies a custom geometry or detects one from the image
// size. Detection walks the classic head/sector layouts from largest to
// smallest until the cylinder count lands in range.
func resolveGeometry(cfg DiskConfig, size int64) (Geometry, error) {
	sectorSize := cfg.SectorSize
	if sectorSize == 0 {
		sectorSize = 512
	}
	if size == 0 || size%int64(sectorSize) != 0 {
		return Geometry{}, &DiskError{Op: "geometry", Reason: "image size is not a multiple of the sector size"}
	}

	if cfg.Geometry == "custom" {
		g := Geometry{
			Cylinders:  cfg.Cylinders,
			Heads:      cfg.Heads,
			Sectors:    cfg.Sectors,
			SectorSize: sectorSize,
		}
		if g.TotalSectors()*int64(sectorSize) > size {
			return Geometry{}, &DiskError{Op: "geometry", Reason: "total sectors exceed image size"}
		}
		return g, nil
	}

	totalSectors := size / int64(sectorSize)
	layouts := [][2]int{{16, 63}, {8, 32}, {4, 17}, {2, 17}, {1, 17}}
	for _, hs := range layouts {
		heads, sectors := hs[0], hs[1]
		cylinders := totalSectors / int64(heads*sectors)
		if cylinders >= 1 && cylinders <= 1024 {
			return Geometry{
				Cylinders:  int(cylinders),
				Heads:      heads,
				Sectors:    sectors,
				SectorSize: sectorSize,
			}, nil
		}
	}
	return Geometry{}, &DiskError{Op: "geometry", Reason: "no CHS layout fits the image size"}
}

// Geometry returns the resolved CHS description.
func (d *Disk) Geometry() Geometry {
	return d.geom
}

// WriteProtected reports the write-protect state.
func (d *Disk) WriteProtected() bool {
	return d.writeProtect
}

// LBA converts a CHS address to a linear block address:
// lba = (c*heads + h)*sectors + (s-1). Sector numbering starts at 1.
func (d *Disk) LBA(cylinder, head, sector int) (int64, error) {
	if sector < 1 || sector > d.geom.Sectors ||
		head < 0 || head >= d.geom.Heads ||
		cylinder < 0 || cylinder >= d.geom.Cylinders {
		return 0, &DiskError{Op: "chs", Reason: fmt.Sprintf("address %d/%d/%d outside geometry", cylinder, head, sector)}
	}
	return (int64(cylinder)*int64(d.geom.Heads)+int64(head))*int64(d.geom.Sectors) + int64(sector-1), nil
}

// CHS converts a linear block address back to cylinder/head/sector.
func (d *Disk) CHS(lba int64) (int, int, int, error) {
	if lba < 0 || lba >= d.geom.TotalSectors() {
		return 0, 0, 0, &DiskError{Op: "lba", Reason: fmt.Sprintf("block %d outside geometry", lba)}
	}
	sector := int(lba%int64(d.geom.Sectors)) + 1
	lba /= int64(d.geom.Sectors)
	head := int(lba % int64(d.geom.Heads))
	cylinder := int(lba / int64(d.geom.Heads))
	return cylinder, head, sector, nil
}

// ReadSectors returns count sectors starting at lba.
func (d *Disk) ReadSectors(lba int64, count int) ([]byte, error) {
	ss := int64(d.geom.SectorSize)
	end := (lba + int64(count)) * ss
	if lba < 0 || count <= 0 || end > int64(len(d.data)) {
		return nil, &DiskError{Op: "read", Reason: fmt.Sprintf("blocks %d+%d beyond image", lba, count)}
	}
	return d.data[lba*ss : end], nil
}

// WriteSectors stores sectors starting at lba and persists them to the image
// file. Writes never extend the image.
func (d *Disk) WriteSectors(lba int64, data []byte) error {
	if d.writeProtect {
		return &DiskError{Op: "write", Reason: "write protected"}
	}
	ss := int64(d.geom.SectorSize)
	if len(data)%int(ss) != 0 {
		return &DiskError{Op: "write", Reason: "partial sector"}
	}
	end := lba*ss + int64(len(data))
	if lba < 0 || end > int64(len(d.data)) {
		return &DiskError{Op: "write", Reason: fmt.Sprintf("blocks %d+%d beyond image", lba, len(data)/int(ss))}
	}
	copy(d.data[lba*ss:end], data)
	if d.file != nil {
		if _, err := d.file.WriteAt(data, lba*ss); err != nil {
			return &DiskError{Op: "write", Reason: err.Error()}
		}
	}
	return nil
}

// Partition is one 16-byte MBR partition table entry.
type Partition struct {
	Bootable bool
	Type     byte
	LBAStart uint32
	LBALen   uint32
}

// Partitions parses the four MBR partition table entries. Empty slots
// (type 0) are skipped.
func (d *Disk) Partitions() []Partition {
	if !d.HasBootSignature() {
		return nil
	}
	var parts []Partition
	for i := 0; i < 4; i++ {
		e := d.data[partTableOff+i*partEntrySize : partTableOff+(i+1)*partEntrySize]
		if e[4] == 0 {
			continue
		}
		parts = append(parts, Partition{
			Bootable: e[0]&0x80 != 0,
			Type:     e[4],
			LBAStart: uint32(e[8]) | uint32(e[9])<<8 | uint32(e[10])<<16 | uint32(e[11])<<24,
			LBALen:   uint32(e[12]) | uint32(e[13])<<8 | uint32(e[14])<<16 | uint32(e[15])<<24,
		})
	}
	return parts
}

// HasBootSignature checks the 55h AAh mark at the end of the MBR.
func (d *Disk) HasBootSignature() bool {
	if len(d.data) < mbrSignatureOff+2 {
		return false
	}
	return d.data[mbrSignatureOff] == mbrSigLo && d.data[mbrSignatureOff+1] == mbrSigHi
}

// Close releases the backing file.
func (d *Disk) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}
