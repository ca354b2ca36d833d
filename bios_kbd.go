// bios_kbd.go - INT 16h keyboard services over the BDA ring
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "time"

// svcKeyboard dispatches INT 16h on AH.
func (b *BIOS) svcKeyboard() {
	c := b.cpu
	switch c.AH() {
	case 0x00: // read key, blocking
		for {
			b.drainKeyboard()
			if key, ok := b.kbdBufPop(); ok {
				c.AX = key
				return
			}
			if b.stopped() || !c.Running() {
				return
			}
			b.pump()
			time.Sleep(500 * time.Microsecond)
		}
	case 0x01: // peek: ZF set when the buffer is empty
		b.drainKeyboard()
		if key, ok := b.kbdBufPeek(); ok {
			c.AX = key
			b.setReturnFlag(x86FlagZF, false)
		} else {
			b.setReturnFlag(x86FlagZF, true)
		}
	case 0x02: // shift flags
		c.SetAL(b.mem.Read8(bdaShiftFlags))
	}
}
