// bios_test.go - BIOS service layer scenario tests
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"bytes"
	"testing"
)

// bootableImage builds a small disk whose MBR halts immediately.
func bootableImage(g Geometry) []byte {
	img := make([]byte, g.TotalSectors()*int64(g.SectorSize))
	img[0] = 0xFA // CLI
	img[1] = 0xF4 // HLT
	img[510] = 0x55
	img[511] = 0xAA
	// Recognizable payload for the read tests
	for i := 0; i < 256; i++ {
		img[2+i] = byte(i)
	}
	return img
}

func newBootMachine(t *testing.T, img []byte, g Geometry, writeProtect bool) (*Machine, *testConsole) {
	t.Helper()
	m, console, _ := newTestMachine(t, nil)
	d, err := NewDiskFromBytes(img, g, writeProtect)
	if err != nil {
		t.Fatal(err)
	}
	m.BIOS().AttachDisk(0x80, d)
	return m, console
}

// runUntilHaltOrBoot steps until the CPU halts or reaches the boot sector.
func runUntilHaltOrBoot(t *testing.T, m *Machine, limit int) {
	t.Helper()
	c := m.CPU()
	for i := 0; i < limit; i++ {
		if c.Halted || (c.CS == 0 && c.IP == 0x7C00) {
			return
		}
		m.Step()
	}
	t.Fatal("machine neither booted nor halted")
}

// =============================================================================
// Bootstrap scenarios
// =============================================================================

func TestBIOS_BootSignatureAccepted(t *testing.T) {
	g := testGeometry()
	m, _ := newBootMachine(t, bootableImage(g), g, false)

	runUntilHaltOrBoot(t, m, 50)
	c := m.CPU()
	if c.CS != 0 || c.IP != 0x7C00 {
		t.Fatalf("boot transfer: got %04X:%04X, want 0000:7C00", c.CS, c.IP)
	}
	if c.DL() != 0x80 {
		t.Errorf("DL: got %02X, want 80 (boot drive)", c.DL())
	}
	if m.Memory().Read8(0x7C00) != 0xFA || m.Memory().Read8(0x7DFE) != 0x55 {
		t.Error("MBR was not copied to 0000:7C00")
	}
}

func TestBIOS_BootSignatureRejected(t *testing.T) {
	g := testGeometry()
	img := bootableImage(g)
	img[510] = 0x00
	img[511] = 0x00
	m, console := newBootMachine(t, img, g, false)

	runUntilHaltOrBoot(t, m, 200)
	if !m.BIOS().BootFailed() {
		t.Error("INT 18h should fire without a boot signature")
	}
	if !m.CPU().Halted {
		t.Error("boot failure should halt")
	}
	if !bytes.Contains(console.out, []byte("No bootable device")) {
		t.Error("boot failure message missing from the console")
	}
}

// =============================================================================
// INT 10h teletype
// =============================================================================

func TestBIOS_TTYOutput(t *testing.T) {
	m, console, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()

	c.SetAH(0x0E)
	c.SetAL('A')
	b.Service(0x10)

	if !bytes.Contains(console.out, []byte{0x41}) {
		t.Error("byte 41h should reach the host sink")
	}
	row, col := b.cursor(0)
	if row != 0 || col != 1 {
		t.Errorf("cursor: got %d/%d, want 0/1", row, col)
	}
	if m.Memory().Read8(cellAddr(0, 0, 0)) != 'A' {
		t.Error("glyph missing from the text page")
	}

	c.SetAL(0x0A)
	b.Service(0x10)
	row, col = b.cursor(0)
	if row != 1 || col != 1 {
		t.Errorf("cursor after LF: got %d/%d, want 1/1", row, col)
	}

	c.SetAL(0x0D)
	b.Service(0x10)
	_, col = b.cursor(0)
	if col != 0 {
		t.Errorf("cursor after CR: col got %d, want 0", col)
	}
}

func TestBIOS_TTYScrollsOnLastRow(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()

	// Put a marker on row 1 and the cursor on the last row
	m.Memory().Write8(cellAddr(0, 1, 0), 'M')
	b.setCursor(0, textRows-1, 0)

	c.SetAH(0x0E)
	c.SetAL(0x0A)
	b.Service(0x10)

	row, _ := b.cursor(0)
	if row != textRows-1 {
		t.Errorf("cursor row: got %d, want %d", row, textRows-1)
	}
	if m.Memory().Read8(cellAddr(0, 0, 0)) != 'M' {
		t.Error("rows should scroll up by one")
	}
}

func TestBIOS_VideoModeAndCursor(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()

	c.SetAH(0x02) // set cursor
	c.SetBH(0)
	c.SetDH(5)
	c.SetDL(10)
	b.Service(0x10)

	c.SetAH(0x03)
	b.Service(0x10)
	if c.DH() != 5 || c.DL() != 10 {
		t.Errorf("get cursor: got %d/%d, want 5/10", c.DH(), c.DL())
	}

	c.SetAH(0x0F)
	b.Service(0x10)
	if c.AL() != 0x03 {
		t.Errorf("video mode: got %02X, want 03", c.AL())
	}
	if c.AH() != textCols {
		t.Errorf("columns: got %d, want %d", c.AH(), textCols)
	}
}

// =============================================================================
// INT 13h through guest code (exercises the IRET flag patching)
// =============================================================================

func runDiskRequest(t *testing.T, m *Machine, setup func(c *CPU_8086)) {
	t.Helper()
	loadProgram(m, 0xCD, 0x13, 0xF4) // INT 13h; HLT
	setup(m.CPU())
	stepUntilHalt(t, m, 50)
}

func TestBIOS_DiskReadSuccess(t *testing.T) {
	g := testGeometry()
	m, _ := newBootMachine(t, bootableImage(g), g, false)

	runDiskRequest(t, m, func(c *CPU_8086) {
		c.SetAH(0x02)
		c.SetAL(1)
		c.SetCH(0)
		c.SetCL(1)
		c.SetDH(0)
		c.SetDL(0x80)
		c.ES = 0
		c.BX = 0x7C00
	})

	c := m.CPU()
	if c.CF() {
		t.Fatal("CF should be clear on success")
	}
	if c.AH() != 0 || c.AL() != 1 {
		t.Errorf("AH/AL: got %02X/%02X, want 00/01", c.AH(), c.AL())
	}
	if m.Memory().Read8(0x7C00) != 0xFA || m.Memory().Read8(0x7C05) != 3 {
		t.Error("sector contents missing at 0000:7C00")
	}
	if m.Memory().Read8(0x7DFE) != 0x55 || m.Memory().Read8(0x7DFF) != 0xAA {
		t.Error("all 512 bytes should be transferred")
	}
}

func TestBIOS_DiskReadInvalidSector(t *testing.T) {
	g := testGeometry()
	m, _ := newBootMachine(t, bootableImage(g), g, false)

	runDiskRequest(t, m, func(c *CPU_8086) {
		c.SetAH(0x02)
		c.SetAL(1)
		c.SetCH(0)
		c.SetCL(0) // sector numbering starts at 1
		c.SetDH(0)
		c.SetDL(0x80)
		c.ES = 0
		c.BX = 0x7C00
	})

	c := m.CPU()
	if !c.CF() {
		t.Fatal("CF should be set for an invalid sector")
	}
	if c.AH() != diskStatusNotFound {
		t.Errorf("AH: got %02X, want %02X", c.AH(), diskStatusNotFound)
	}
}

func TestBIOS_DiskWriteProtected(t *testing.T) {
	g := testGeometry()
	m, _ := newBootMachine(t, bootableImage(g), g, true)

	runDiskRequest(t, m, func(c *CPU_8086) {
		c.SetAH(0x03)
		c.SetAL(1)
		c.SetCH(0)
		c.SetCL(1)
		c.SetDH(0)
		c.SetDL(0x80)
		c.ES = 0
		c.BX = 0x7C00
	})

	c := m.CPU()
	if !c.CF() || c.AH() != diskStatusWriteProt {
		t.Errorf("CF/AH: got %v/%02X, want set/03", c.CF(), c.AH())
	}
}

func TestBIOS_DiskParams(t *testing.T) {
	g := testGeometry()
	m, _ := newBootMachine(t, bootableImage(g), g, false)

	runDiskRequest(t, m, func(c *CPU_8086) {
		c.SetAH(0x08)
		c.SetDL(0x80)
	})

	c := m.CPU()
	if c.CF() {
		t.Fatal("CF should be clear")
	}
	if int(c.CH()) != g.Cylinders-1 {
		t.Errorf("CH: got %d, want %d", c.CH(), g.Cylinders-1)
	}
	if int(c.CL()&0x3F) != g.Sectors {
		t.Errorf("CL sectors: got %d, want %d", c.CL()&0x3F, g.Sectors)
	}
	if int(c.DH()) != g.Heads-1 {
		t.Errorf("DH: got %d, want %d", c.DH(), g.Heads-1)
	}
	if c.DL() != 1 {
		t.Errorf("DL drive count: got %d, want 1", c.DL())
	}
}

func TestBIOS_DiskMissingDrive(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	runDiskRequest(t, m, func(c *CPU_8086) {
		c.SetAH(0x02)
		c.SetAL(1)
		c.SetCL(1)
		c.SetDL(0x81)
	})
	c := m.CPU()
	if !c.CF() || c.AH() != diskStatusTimeout {
		t.Errorf("CF/AH: got %v/%02X, want set/80", c.CF(), c.AH())
	}
}

// =============================================================================
// INT 16h keyboard
// =============================================================================

func TestBIOS_ReadKeyBlocks(t *testing.T) {
	m, console, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()
	c.SS = 0
	c.SP = 0xFFFE

	console.in = []byte{'x'} // arrives through the pump while blocked
	c.SetAH(0x00)
	b.Service(0x16)

	if c.AL() != 'x' {
		t.Errorf("AL: got %02X, want %02X", c.AL(), 'x')
	}
	if c.AH() != 0x2D {
		t.Errorf("AH scancode: got %02X, want 2D", c.AH())
	}
}

func TestBIOS_PeekKey(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()
	c.SS = 0
	c.SP = 0xFF00 // fake stub frame below

	// Build a plausible interrupt frame so the ZF patch has a target
	c.push16(fixFlags(0))
	c.push16(0)
	c.push16(0)

	c.SetAH(0x01)
	b.Service(0x16)
	if c.memRead16(c.SS, c.SP+4)&x86FlagZF == 0 {
		t.Error("ZF should be set in the returned flags when the buffer is empty")
	}

	b.kbdBufPush(KeyEvent{Scan: 0x10, ASCII: 'q'})
	c.SetAH(0x01)
	b.Service(0x16)
	if c.AX != 0x1071 {
		t.Errorf("AX: got %04X, want 1071", c.AX)
	}
	if c.memRead16(c.SS, c.SP+4)&x86FlagZF != 0 {
		t.Error("ZF should be clear when a key is pending")
	}
}

func TestBIOS_KeyboardOverflowBeeps(t *testing.T) {
	m, console, _ := newTestMachine(t, nil)
	b := m.BIOS()

	for i := 0; i < 15; i++ {
		if !b.kbdBufPush(KeyEvent{Scan: 0x1E, ASCII: 'a'}) {
			t.Fatalf("push %d should fit", i)
		}
	}
	if b.kbdBufPush(KeyEvent{Scan: 0x1E, ASCII: 'a'}) {
		t.Fatal("16th entry must not fit in the 32-byte ring")
	}

	m.kbd.HostKey('z')
	b.drainKeyboard()
	if !bytes.Contains(console.out, []byte{0x07}) {
		t.Error("overflow should emit BEL")
	}
}

// =============================================================================
// INT 11h / 12h / 1Ah
// =============================================================================

func TestBIOS_EquipmentAndMemory(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()

	b.Service(0x11)
	if (c.AX>>9)&7 == 0 {
		t.Error("equipment word should report at least one serial port")
	}

	b.Service(0x12)
	if c.AX != 640 {
		t.Errorf("memory size: got %d KB, want 640", c.AX)
	}
}

func TestBIOS_TimerTickRead(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()

	m.Memory().Write16(bdaTickCount, 0x5678)
	m.Memory().Write16(bdaTickCount+2, 0x0012)
	m.Memory().Write8(bdaMidnight, 1)

	c.SetAH(0x00)
	b.Service(0x1A)
	if c.CX != 0x0012 || c.DX != 0x5678 {
		t.Errorf("CX:DX: got %04X:%04X, want 0012:5678", c.CX, c.DX)
	}
	if c.AL() != 1 {
		t.Error("AL should carry the midnight flag")
	}
	if m.Memory().Read8(bdaMidnight) != 0 {
		t.Error("midnight flag should clear on read")
	}
}

func TestBIOS_RTCTime(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()
	c.SS = 0
	c.SP = 0xFF00
	c.push16(fixFlags(0))
	c.push16(0)
	c.push16(0)

	c.SetAH(0x02)
	b.Service(0x1A)
	if c.CH() != 0x10 || c.CL() != 0x30 {
		t.Errorf("BCD time: got %02X:%02X, want 10:30", c.CH(), c.CL())
	}

	c.SetAH(0x04)
	b.Service(0x1A)
	if c.CH() != 0x20 || c.CL() != 0x26 || c.DH() != 0x08 || c.DL() != 0x02 {
		t.Errorf("BCD date: got %02X%02X-%02X-%02X, want 2026-08-02", c.CH(), c.CL(), c.DH(), c.DL())
	}
}

// =============================================================================
// INT 14h serial
// =============================================================================

func TestBIOS_SerialInit(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()
	c.SS = 0
	c.SP = 0xFF00
	c.push16(fixFlags(0))
	c.push16(0)
	c.push16(0)

	// 9600 baud (111), even parity (11), 1 stop (0), 8 data (11)
	c.SetAH(0x00)
	c.SetAL(0xFB)
	c.DX = 0
	b.Service(0x14)

	u := m.uarts[0]
	if u.cfg.BaudRate != 9600 {
		t.Errorf("baud: got %d, want 9600", u.cfg.BaudRate)
	}
	if u.cfg.Parity != "even" {
		t.Errorf("parity: got %s, want even", u.cfg.Parity)
	}
	if u.cfg.DataBits != 8 {
		t.Errorf("data bits: got %d, want 8", u.cfg.DataBits)
	}
	if c.AH()&uartLSRTHRE == 0 {
		t.Error("AH should report the transmitter ready")
	}
}

func TestBIOS_SerialTransmitReceive(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()
	c.SS = 0
	c.SP = 0xFF00
	c.push16(fixFlags(0))
	c.push16(0)
	c.push16(0)

	var sent []byte
	m.uarts[0].SetSink(func(v byte) { sent = append(sent, v) })

	c.SetAH(0x01)
	c.SetAL('H')
	c.DX = 0
	b.Service(0x14)
	if len(sent) != 1 || sent[0] != 'H' {
		t.Fatalf("sink: got %v, want [H]", sent)
	}

	m.uarts[0].Recv('y')
	c.SetAH(0x02)
	b.Service(0x14)
	if c.AL() != 'y' {
		t.Errorf("AL: got %02X, want %02X", c.AL(), 'y')
	}
}

func TestBIOS_SerialBadPort(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	b := m.BIOS()
	c := m.CPU()
	c.SS = 0
	c.SP = 0xFF00
	c.push16(fixFlags(0))
	c.push16(0)
	c.push16(0)

	c.SetAH(0x03)
	c.DX = 3 // COM4 is not enabled by default
	b.Service(0x14)
	if c.AH() != 0x80 {
		t.Errorf("AH: got %02X, want 80", c.AH())
	}
}
