// bios_serial.go - INT 14h serial port services
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "time"

// int14BaudTable maps the AL[7:5] field of the init call to a baud rate.
var int14BaudTable = [8]int{110, 150, 300, 600, 1200, 2400, 4800, 9600}

// svcSerial dispatches INT 14h on AH. DX selects the port (0-3).
func (b *BIOS) svcSerial() {
	c := b.cpu
	if c.DX > 3 || b.uarts[c.DX] == nil {
		c.SetAH(0x80)
		b.setReturnCF(true)
		return
	}
	u := b.uarts[c.DX]

	switch c.AH() {
	case 0x00: // initialize: AL packs baud/parity/stop/data
		al := c.AL()
		cfg := u.cfg
		cfg.BaudRate = int14BaudTable[al>>5]
		switch (al >> 3) & 3 {
		case 1:
			cfg.Parity = "odd"
		case 3:
			cfg.Parity = "even"
		default:
			cfg.Parity = "none"
		}
		if al&0x04 != 0 {
			cfg.StopBits = 2
		} else {
			cfg.StopBits = 1
		}
		cfg.DataBits = 5 + int(al&3)
		u.applyConfig(cfg)
		c.SetAH(u.lineStatus())
		c.SetAL(u.msr)
		b.setReturnCF(false)
	case 0x01: // transmit AL
		u.transmit(c.AL())
		c.SetAH(u.lineStatus())
		b.setReturnCF(false)
	case 0x02: // receive with wait
		for !u.RxPending() {
			if b.stopped() || !b.cpu.Running() || u.hostDead {
				c.SetAH(0x80) // timeout
				b.setReturnCF(true)
				return
			}
			b.pump()
			time.Sleep(500 * time.Microsecond)
		}
		c.SetAL(u.recvByte())
		c.SetAH(u.lineStatus() &^ uartLSRDataReady)
		b.setReturnCF(false)
	case 0x03: // status
		c.SetAH(u.lineStatus())
		c.SetAL(u.msr)
		b.setReturnCF(false)
	default:
		c.SetAH(0x80)
		b.setReturnCF(true)
	}
}
