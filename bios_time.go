// bios_time.go - INT 1Ah time-of-day services
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// svcTime dispatches INT 1Ah on AH.
func (b *BIOS) svcTime() {
	c := b.cpu
	switch c.AH() {
	case 0x00: // read tick counter; AL = midnight rollover, cleared by the read
		c.SetAL(b.mem.Read8(bdaMidnight))
		b.mem.Write8(bdaMidnight, 0)
		c.DX = b.mem.Read16(bdaTickCount)
		c.CX = b.mem.Read16(bdaTickCount + 2)
	case 0x01: // set tick counter from CX:DX
		b.mem.Write16(bdaTickCount, c.DX)
		b.mem.Write16(bdaTickCount+2, c.CX)
		b.mem.Write8(bdaMidnight, 0)
	case 0x02: // read RTC time, BCD
		now := b.rtc.clock.Now()
		c.SetCH(toBCD(now.Hour()))
		c.SetCL(toBCD(now.Minute()))
		c.SetDH(toBCD(now.Second()))
		c.SetDL(0) // no DST
		b.setReturnCF(false)
	case 0x03: // set RTC time: accepted and discarded
		b.setReturnCF(false)
	case 0x04: // read RTC date, BCD
		now := b.rtc.clock.Now()
		c.SetCH(toBCD(now.Year() / 100))
		c.SetCL(toBCD(now.Year() % 100))
		c.SetDH(toBCD(int(now.Month())))
		c.SetDL(toBCD(now.Day()))
		b.setReturnCF(false)
	case 0x05: // set RTC date: accepted and discarded
		b.setReturnCF(false)
	}
}
