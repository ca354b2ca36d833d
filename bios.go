// bios.go - BIOS core: ROM stubs, vector table, BIOS data area, dispatch
//
// The BIOS is guest-visible code: every interrupt vector points at a small
// stub in ROM at F000:xxxx whose trap opcode calls back into this layer, then
// IRETs. The guest can install its own vectors that shadow these stubs and
// the dispatch path stays uniform.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// ROM layout
const (
	biosSegment  = 0xF000
	biosStubBase = 0xE100 // 8 bytes per vector
	biosStubSize = 8
	biosBootCode = 0xE05B // power-on entry reached from the reset vector
	resetVectOff = 0xFFF0
)

// BIOS data area offsets (physical addresses)
const (
	bdaComBase      = 0x400 // 4 words: COM1-4 port bases
	bdaEquipment    = 0x410
	bdaMemSizeKB    = 0x413
	bdaShiftFlags   = 0x417
	bdaKbdHead      = 0x41A
	bdaKbdTail      = 0x41C
	bdaKbdBufStart  = 0x41E // offsets within segment 40h
	bdaKbdBufEnd    = 0x43E
	bdaVideoMode    = 0x449
	bdaVideoCols    = 0x44A
	bdaVideoPageLen = 0x44C
	bdaCursorPos    = 0x450 // 8 words, one per page
	bdaCursorShape  = 0x460
	bdaActivePage   = 0x462
	bdaCRTCBase     = 0x463
	bdaTickCount    = 0x46C // dword
	bdaMidnight     = 0x470
	bdaResetFlag    = 0x472
	bdaDiskCount    = 0x475
)

// ticksPerDay is the channel-0 tick count at which the BDA counter rolls over.
const ticksPerDay = 0x1800B0

// Console is the host character sink/source the BIOS talks to. GetByte must
// not block; the machine pump feeds it.
type Console interface {
	PutByte(b byte)
	GetByte() (byte, bool)
}

// BIOS implements the software-interrupt service surface over machine state.
type BIOS struct {
	mem     *Memory
	cpu     *CPU_8086
	pic     *PIC
	kbd     *Keyboard
	rtc     *RTC
	uarts   [4]*UART
	disks   map[byte]*Disk
	console Console

	// pump drains host input and advances device time while a service
	// blocks; stopped lets a block unwind on host cancellation.
	pump    func()
	stopped func() bool

	lastDiskStatus byte
	bootFailed     bool
}

// NewBIOS wires the service layer to the machine's parts.
func NewBIOS(mem *Memory, cpu *CPU_8086, pic *PIC, kbd *Keyboard, rtc *RTC, console Console) *BIOS {
	b := &BIOS{
		mem:     mem,
		cpu:     cpu,
		pic:     pic,
		kbd:     kbd,
		rtc:     rtc,
		console: console,
		disks:   make(map[byte]*Disk),
		pump:    func() {},
		stopped: func() bool { return false },
	}
	cpu.SetBIOSHook(b.Service)
	return b
}

// SetPump installs the host pump used by blocking services.
func (b *BIOS) SetPump(pump func(), stopped func() bool) {
	b.pump = pump
	b.stopped = stopped
}

// AttachDisk registers a disk under its BIOS drive number (80h up).
func (b *BIOS) AttachDisk(drive byte, d *Disk) {
	b.disks[drive] = d
}

// AttachUART registers COM port n (0-based index).
func (b *BIOS) AttachUART(index int, u *UART) {
	b.uarts[index] = u
}

// BootFailed reports whether INT 18h was reached.
func (b *BIOS) BootFailed() bool {
	return b.bootFailed
}

func stubOffset(vector byte) uint16 {
	return biosStubBase + uint16(vector)*biosStubSize
}

// Install writes the ROM image, the interrupt vector table and the BIOS data
// area into guest memory, then write-protects the ROM segment.
func (b *BIOS) Install(serialPorts []SerialPortConfig, ramSize uint32) {
	// Interrupt stubs: trap (F1h + vector), then IRET. The timer stub
	// chains the user tick vector 1Ch between trap and IRET.
	for v := 0; v < 256; v++ {
		off := uint32(biosSegment)<<4 + uint32(stubOffset(byte(v)))
		if v == 0x08 {
			b.mem.Load(off, []byte{0xF1, 0x08, 0xCD, 0x1C, 0xCF})
		} else {
			b.mem.Load(off, []byte{0xF1, byte(v), 0xCF})
		}
	}

	// Power-on code: enable interrupts, bootstrap, halt if it returns.
	b.mem.Load(uint32(biosSegment)<<4+biosBootCode, []byte{
		0xFB,       // STI
		0xCD, 0x19, // INT 19h
		0xF4,       // HLT
		0xEB, 0xFD, // JMP back to the HLT
	})

	// Reset vector: far JMP to the power-on code.
	bootCode := uint16(biosBootCode)
	b.mem.Load(uint32(biosSegment)<<4+resetVectOff, []byte{
		0xEA, byte(bootCode), byte(bootCode >> 8), 0x00, 0xF0,
	})

	b.mem.MarkROM(romBase, romTop)

	// Interrupt vector table: every vector points at its ROM stub.
	for v := 0; v < 256; v++ {
		b.mem.Write16(uint32(v)*4, stubOffset(byte(v)))
		b.mem.Write16(uint32(v)*4+2, biosSegment)
	}

	b.installBDA(serialPorts, ramSize)
}

func (b *BIOS) installBDA(serialPorts []SerialPortConfig, ramSize uint32) {
	serialCount := 0
	for i, pc := range serialPorts {
		if i >= 4 {
			break
		}
		if pc.Enabled {
			b.mem.Write16(bdaComBase+uint32(i)*2, comPortBases[i])
			serialCount++
		} else {
			b.mem.Write16(bdaComBase+uint32(i)*2, 0)
		}
	}

	// 80x25 color, serial port count; no diskettes
	b.mem.Write16(bdaEquipment, 0x0020|uint16(serialCount)<<9)

	convKB := ramSize / 1024
	if convKB > 640 {
		convKB = 640
	}
	b.mem.Write16(bdaMemSizeKB, uint16(convKB))

	b.mem.Write8(bdaShiftFlags, 0)
	b.mem.Write16(bdaKbdHead, bdaKbdBufStart-0x400)
	b.mem.Write16(bdaKbdTail, bdaKbdBufStart-0x400)

	b.mem.Write8(bdaVideoMode, 0x03)
	b.mem.Write16(bdaVideoCols, textCols)
	b.mem.Write16(bdaVideoPageLen, 0x1000)
	b.mem.Write16(bdaCursorPos, 0)
	b.mem.Write16(bdaCursorShape, 0x0607)
	b.mem.Write8(bdaActivePage, 0)
	b.mem.Write16(bdaCRTCBase, 0x3D4)

	// Seed the tick counter from the wall clock so INT 1Ah tracks the host
	now := b.rtc.clock.Now()
	secs := now.Hour()*3600 + now.Minute()*60 + now.Second()
	ticks := uint32(uint64(secs) * ticksPerDay / 86400)
	b.mem.Write16(bdaTickCount, uint16(ticks))
	b.mem.Write16(bdaTickCount+2, uint16(ticks>>16))
	b.mem.Write8(bdaMidnight, 0)

	b.mem.Write16(bdaResetFlag, 0)
	b.mem.Write8(bdaDiskCount, byte(len(b.disks)))

	b.clearTextPage(0x07)
}

// Service dispatches a ROM stub trap. The service byte is the interrupt
// vector the stub was installed for.
func (b *BIOS) Service(vector byte) {
	switch vector {
	case 0x08:
		b.svcTimerTick()
	case 0x09:
		b.svcKeyboardIRQ()
	case 0x10:
		b.svcVideo()
	case 0x11:
		b.cpu.AX = b.mem.Read16(bdaEquipment)
	case 0x12:
		b.cpu.AX = b.mem.Read16(bdaMemSizeKB)
	case 0x13:
		b.svcDisk()
	case 0x14:
		b.svcSerial()
	case 0x16:
		b.svcKeyboard()
	case 0x18:
		b.svcBootFailure()
	case 0x19:
		b.svcBootstrap()
	case 0x1A:
		b.svcTime()
	default:
		// Unclaimed vectors IRET straight back
	}
}

// -----------------------------------------------------------------------------
// Caller-flag plumbing
//
// Services run between the INT and its IRET, so result flags must be patched
// into the FLAGS image the IRET will pop (SS:SP+4 inside a stub).
// -----------------------------------------------------------------------------

func (b *BIOS) setReturnFlag(flag uint16, set bool) {
	c := b.cpu
	off := c.SP + 4
	flags := c.memRead16(c.SS, off)
	if set {
		flags |= flag
	} else {
		flags &^= flag
	}
	c.memWrite16(c.SS, off, fixFlags(flags))
	c.setFlag(flag, set)
}

func (b *BIOS) setReturnCF(carry bool) {
	b.setReturnFlag(x86FlagCF, carry)
}

// -----------------------------------------------------------------------------
// Hardware interrupt services
// -----------------------------------------------------------------------------

// svcTimerTick is the IRQ0 handler: bump the BDA counter, flag midnight,
// acknowledge the PIC. The stub chains INT 1Ch afterwards.
func (b *BIOS) svcTimerTick() {
	ticks := uint32(b.mem.Read16(bdaTickCount)) | uint32(b.mem.Read16(bdaTickCount+2))<<16
	ticks++
	if ticks >= ticksPerDay {
		ticks = 0
		b.mem.Write8(bdaMidnight, 1)
	}
	b.mem.Write16(bdaTickCount, uint16(ticks))
	b.mem.Write16(bdaTickCount+2, uint16(ticks>>16))
	b.pic.writeCmd(picPortCmd, 0x20)
}

// svcKeyboardIRQ is the IRQ1 handler: drain the controller into the BDA ring.
func (b *BIOS) svcKeyboardIRQ() {
	b.drainKeyboard()
	b.pic.writeCmd(picPortCmd, 0x20)
}

// drainKeyboard moves controller events into the BDA ring. The blocking
// INT 16h wait calls this directly: IRQ1 cannot be dispatched while the CPU
// is inside a service trap.
func (b *BIOS) drainKeyboard() {
	for {
		ev, ok := b.kbd.NextEvent()
		if !ok {
			return
		}
		if !b.kbdBufPush(ev) {
			b.console.PutByte(0x07) // BEL on overflow, key dropped
		}
	}
}

// svcBootFailure is INT 18h: no bootable device.
func (b *BIOS) svcBootFailure() {
	b.bootFailed = true
	for _, ch := range "\r\nNo bootable device\r\n" {
		b.console.PutByte(byte(ch))
	}
	b.cpu.setFlag(x86FlagIF, false)
	b.cpu.Halted = true
}

// svcBootstrap is INT 19h: load the MBR of the first fixed disk to 0000:7C00
// and jump to it when the 55h AAh signature is present.
func (b *BIOS) svcBootstrap() {
	disk, ok := b.disks[0x80]
	if !ok {
		b.cpu.interrupt(0x18)
		return
	}
	sector, err := disk.ReadSectors(0, 1)
	if err != nil {
		b.cpu.interrupt(0x18)
		return
	}
	b.mem.WriteBytes(0x7C00, sector)
	if b.mem.Read8(0x7C00+mbrSignatureOff) != mbrSigLo ||
		b.mem.Read8(0x7C00+mbrSignatureOff+1) != mbrSigHi {
		b.cpu.interrupt(0x18)
		return
	}
	// Discard the stub's interrupt frame and hand over to the boot sector
	c := b.cpu
	c.SP += 6
	c.CS = 0x0000
	c.IP = 0x7C00
	c.DX = (c.DX & 0xFF00) | 0x80 // boot drive in DL
}

// -----------------------------------------------------------------------------
// BDA keyboard ring
// -----------------------------------------------------------------------------

// kbdBufPush appends a keystroke to the 16-entry BDA ring. Returns false when
// the ring is full.
func (b *BIOS) kbdBufPush(ev KeyEvent) bool {
	head := uint32(b.mem.Read16(bdaKbdHead))
	tail := uint32(b.mem.Read16(bdaKbdTail))
	next := tail + 2
	if next >= bdaKbdBufEnd-0x400 {
		next = bdaKbdBufStart - 0x400
	}
	if next == head {
		return false
	}
	b.mem.Write16(0x400+tail, uint16(ev.ASCII)|uint16(ev.Scan)<<8)
	b.mem.Write16(bdaKbdTail, uint16(next))
	return true
}

// kbdBufPop removes the oldest keystroke from the BDA ring.
func (b *BIOS) kbdBufPop() (uint16, bool) {
	head := uint32(b.mem.Read16(bdaKbdHead))
	tail := uint32(b.mem.Read16(bdaKbdTail))
	if head == tail {
		return 0, false
	}
	key := b.mem.Read16(0x400 + head)
	next := head + 2
	if next >= bdaKbdBufEnd-0x400 {
		next = bdaKbdBufStart - 0x400
	}
	b.mem.Write16(bdaKbdHead, uint16(next))
	return key, true
}

// kbdBufPeek returns the oldest keystroke without removing it.
func (b *BIOS) kbdBufPeek() (uint16, bool) {
	head := uint32(b.mem.Read16(bdaKbdHead))
	tail := uint32(b.mem.Read16(bdaKbdTail))
	if head == tail {
		return 0, false
	}
	return b.mem.Read16(0x400 + head), true
}
