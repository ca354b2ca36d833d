// bios_disk.go - INT 13h fixed-disk services
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// INT 13h status codes
const (
	diskStatusOK         = 0x00
	diskStatusBadCommand = 0x01
	diskStatusWriteProt  = 0x03
	diskStatusNotFound   = 0x04
	diskStatusTimeout    = 0x80
)

// diskFail sets the caller's CF, the status in AH and the BDA last-status.
func (b *BIOS) diskFail(status byte) {
	b.lastDiskStatus = status
	b.cpu.SetAH(status)
	b.setReturnCF(true)
}

func (b *BIOS) diskOK() {
	b.lastDiskStatus = diskStatusOK
	b.cpu.SetAH(diskStatusOK)
	b.setReturnCF(false)
}

// chsFromRegs decodes the packed CH/CL/DH request registers: the cylinder's
// high two bits live in CL[7:6].
func chsFromRegs(c *CPU_8086) (int, int, int) {
	cylinder := int(c.CH()) | int(c.CL()&0xC0)<<2
	sector := int(c.CL() & 0x3F)
	head := int(c.DH())
	return cylinder, head, sector
}

// svcDisk dispatches INT 13h on AH.
func (b *BIOS) svcDisk() {
	c := b.cpu
	disk, ok := b.disks[c.DL()]

	switch c.AH() {
	case 0x00: // reset
		if !ok {
			b.diskFail(diskStatusTimeout)
			return
		}
		b.diskOK()
	case 0x01: // last status
		c.SetAH(b.lastDiskStatus)
		c.SetAL(b.lastDiskStatus)
		b.setReturnCF(false)
	case 0x02: // read sectors into ES:BX
		if !ok {
			b.diskFail(diskStatusTimeout)
			return
		}
		b.diskTransfer(disk, false)
	case 0x03: // write sectors from ES:BX
		if !ok {
			b.diskFail(diskStatusTimeout)
			return
		}
		b.diskTransfer(disk, true)
	case 0x04: // verify sectors: bounds check only
		if !ok {
			b.diskFail(diskStatusTimeout)
			return
		}
		cyl, head, sec := chsFromRegs(c)
		lba, err := disk.LBA(cyl, head, sec)
		if err != nil {
			b.diskFail(diskStatusNotFound)
			return
		}
		if _, err := disk.ReadSectors(lba, int(c.AL())); err != nil {
			b.diskFail(diskStatusNotFound)
			return
		}
		b.diskOK()
	case 0x08: // drive parameters
		if !ok {
			b.diskFail(diskStatusTimeout)
			return
		}
		g := disk.Geometry()
		maxCyl := g.Cylinders - 1
		c.SetCH(byte(maxCyl))
		c.SetCL(byte(maxCyl>>8)<<6 | byte(g.Sectors))
		c.SetDH(byte(g.Heads - 1))
		c.SetDL(byte(len(b.disks)))
		b.diskOK()
	case 0x15: // drive type
		if !ok {
			c.SetAH(0) // no such drive
			b.setReturnCF(false)
			return
		}
		total := disk.Geometry().TotalSectors()
		c.SetAH(0x03) // fixed disk
		c.CX = uint16(total >> 16)
		c.DX = uint16(total)
		b.setReturnCF(false)
	default:
		b.diskFail(diskStatusBadCommand)
	}
}

// diskTransfer moves AL sectors between the image and guest memory at ES:BX.
// Reads copy directly into guest memory, programmed-I/O style.
func (b *BIOS) diskTransfer(disk *Disk, write bool) {
	c := b.cpu
	count := int(c.AL())
	if count == 0 {
		b.diskFail(diskStatusBadCommand)
		return
	}
	cyl, head, sec := chsFromRegs(c)
	lba, err := disk.LBA(cyl, head, sec)
	if err != nil {
		b.diskFail(diskStatusNotFound)
		return
	}

	ss := disk.Geometry().SectorSize
	if write {
		if disk.WriteProtected() {
			b.diskFail(diskStatusWriteProt)
			return
		}
		data := make([]byte, count*ss)
		for i := range data {
			data[i] = c.memRead8(c.ES, c.BX+uint16(i))
		}
		if err := disk.WriteSectors(lba, data); err != nil {
			b.diskFail(diskStatusNotFound)
			return
		}
	} else {
		data, err := disk.ReadSectors(lba, count)
		if err != nil {
			b.diskFail(diskStatusNotFound)
			return
		}
		for i, v := range data {
			c.memWrite8(c.ES, c.BX+uint16(i), v)
		}
	}
	c.SetAL(byte(count))
	b.diskOK()
}
