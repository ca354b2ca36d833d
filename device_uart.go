// device_uart.go - 8250/16550 UART model for COM1-COM4
//
// Transmitted bytes go to a host sink; host bytes enqueue into the receive
// FIFO and raise the port's IRQ when the fill level reaches the configured
// trigger. A port may optionally be attached to a real host serial device.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"os"

	"go.bug.st/serial"
)

// Standard COM port base addresses and IRQ lines
var comPortBases = [4]uint16{0x3F8, 0x2F8, 0x3E8, 0x2E8}
var comPortIRQs = [4]int{4, 3, 4, 3}

// UART register offsets from the port base
const (
	uartRegData    = 0 // RBR read / THR write / DLL when DLAB
	uartRegIER     = 1 // DLM when DLAB
	uartRegIIR     = 2 // FCR on write
	uartRegLCR     = 3
	uartRegMCR     = 4
	uartRegLSR     = 5
	uartRegMSR     = 6
	uartRegScratch = 7
)

// LSR bits
const (
	uartLSRDataReady = 0x01
	uartLSROverrun   = 0x02
	uartLSRTHRE      = 0x20
	uartLSRTEMT      = 0x40
)

const uartFIFODepth = 16

// UART is one emulated COM port.
type UART struct {
	cfg  SerialPortConfig
	base uint16
	irq  func(int)
	line int // IRQ line number

	rxFIFO  []byte
	overrun bool

	ier     byte
	lcr     byte
	mcr     byte
	msr     byte
	scratch byte
	fcr     byte
	divisor uint16

	threPending bool

	// sink receives transmitted bytes when no host device is attached
	sink func(byte)

	hostPort serial.Port
	hostDead bool

	logTraffic bool
}

// NewUART creates a UART with the given configuration applied as power-on
// register state.
func NewUART(index int, cfg SerialPortConfig, irq func(int)) *UART {
	u := &UART{
		cfg:        cfg,
		base:       comPortBases[index],
		irq:        irq,
		line:       comPortIRQs[index],
		rxFIFO:     make([]byte, 0, uartFIFODepth),
		logTraffic: cfg.LogTraffic,
	}
	u.applyConfig(cfg)
	if cfg.DTROnBoot {
		u.mcr |= 0x01
	}
	if cfg.RTSOnBoot {
		u.mcr |= 0x02
	}
	// Clear to send / data set ready follow DTR/RTS on a loopback-ish host
	u.msr = 0x30
	return u
}

// applyConfig maps baud/framing options onto the divisor latch and LCR.
func (u *UART) applyConfig(cfg SerialPortConfig) {
	u.cfg = cfg
	if cfg.BaudRate > 0 {
		u.divisor = uint16(115200 / cfg.BaudRate)
	}
	lcr := byte(cfg.DataBits-5) & 0x03
	if cfg.StopBits == 2 {
		lcr |= 0x04
	}
	switch cfg.Parity {
	case "odd":
		lcr |= 0x08
	case "even":
		lcr |= 0x18
	case "mark":
		lcr |= 0x28
	case "space":
		lcr |= 0x38
	}
	u.lcr = lcr
	if cfg.FIFOEnabled {
		u.fcr = 0x01 | triggerBits(cfg.FIFOTriggerLevel)
	}
}

func triggerBits(level int) byte {
	switch level {
	case 4:
		return 0x40
	case 8:
		return 0x80
	case 14:
		return 0xC0
	}
	return 0
}

// triggerLevel returns the RX fill level that raises the receive interrupt.
func (u *UART) triggerLevel() int {
	if u.fcr&0x01 == 0 {
		return 1
	}
	switch u.fcr & 0xC0 {
	case 0x40:
		return 4
	case 0x80:
		return 8
	case 0xC0:
		return 14
	}
	return 1
}

// SetSink directs transmitted bytes to fn when no host device is attached.
func (u *UART) SetSink(fn func(byte)) {
	u.sink = fn
}

// OpenHostDevice attaches the UART to a real host serial port. A failure
// degrades the port to disconnected rather than failing the machine.
func (u *UART) OpenHostDevice(device string) error {
	mode := &serial.Mode{
		BaudRate: u.cfg.BaudRate,
		DataBits: u.cfg.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	switch u.cfg.Parity {
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	case "mark":
		mode.Parity = serial.MarkParity
	case "space":
		mode.Parity = serial.SpaceParity
	}
	if u.cfg.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		u.hostDead = true
		return fmt.Errorf("open %s: %w", device, err)
	}
	u.hostPort = port
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := port.Read(buf)
			for i := 0; i < n; i++ {
				u.Recv(buf[i])
			}
			if err != nil {
				u.hostDead = true
				return
			}
		}
	}()
	return nil
}

// Recv enqueues a byte arriving from the host side.
func (u *UART) Recv(b byte) {
	if len(u.rxFIFO) >= uartFIFODepth {
		u.overrun = true
		return
	}
	u.rxFIFO = append(u.rxFIFO, b)
	if u.ier&0x01 != 0 && len(u.rxFIFO) >= u.triggerLevel() {
		u.irq(u.line)
	}
}

// RxPending reports whether received data is waiting.
func (u *UART) RxPending() bool {
	return len(u.rxFIFO) > 0
}

// transmit delivers one guest byte to the host side.
func (u *UART) transmit(b byte) {
	if u.logTraffic {
		fmt.Fprintf(os.Stderr, "uart %04X: tx %02X\n", u.base, b)
	}
	if u.hostPort != nil && !u.hostDead {
		if _, err := u.hostPort.Write([]byte{b}); err != nil {
			u.hostDead = true
		}
		return
	}
	if u.sink != nil {
		u.sink(b)
	}
	if u.ier&0x02 != 0 {
		u.threPending = true
		u.irq(u.line)
	}
}

// recvByte dequeues one byte for the guest.
func (u *UART) recvByte() byte {
	if len(u.rxFIFO) == 0 {
		return 0
	}
	b := u.rxFIFO[0]
	u.rxFIFO = u.rxFIFO[1:]
	if u.logTraffic {
		fmt.Fprintf(os.Stderr, "uart %04X: rx %02X\n", u.base, b)
	}
	return b
}

func (u *UART) dlab() bool {
	return u.lcr&0x80 != 0
}

// lineStatus assembles the LSR; the transmitter is always idle from the
// guest's point of view.
func (u *UART) lineStatus() byte {
	status := byte(uartLSRTHRE | uartLSRTEMT)
	if len(u.rxFIFO) > 0 {
		status |= uartLSRDataReady
	}
	if u.overrun {
		status |= uartLSROverrun
		u.overrun = false
	}
	return status
}

func (u *UART) read(port uint16) byte {
	switch port - u.base {
	case uartRegData:
		if u.dlab() {
			return byte(u.divisor)
		}
		return u.recvByte()
	case uartRegIER:
		if u.dlab() {
			return byte(u.divisor >> 8)
		}
		return u.ier
	case uartRegIIR:
		if u.ier&0x01 != 0 && len(u.rxFIFO) >= u.triggerLevel() {
			return 0x04 // received data available
		}
		if u.threPending {
			u.threPending = false
			return 0x02 // transmitter empty
		}
		return 0x01 // no interrupt pending
	case uartRegLCR:
		return u.lcr
	case uartRegMCR:
		return u.mcr
	case uartRegLSR:
		return u.lineStatus()
	case uartRegMSR:
		return u.msr
	case uartRegScratch:
		return u.scratch
	}
	return 0xFF
}

func (u *UART) write(port uint16, value byte) {
	switch port - u.base {
	case uartRegData:
		if u.dlab() {
			u.divisor = (u.divisor & 0xFF00) | uint16(value)
			return
		}
		u.transmit(value)
	case uartRegIER:
		if u.dlab() {
			u.divisor = (u.divisor & 0x00FF) | uint16(value)<<8
			return
		}
		u.ier = value & 0x0F
	case uartRegIIR: // FCR
		u.fcr = value
		if value&0x02 != 0 {
			u.rxFIFO = u.rxFIFO[:0]
		}
	case uartRegLCR:
		u.lcr = value
	case uartRegMCR:
		u.mcr = value & 0x1F
	case uartRegScratch:
		u.scratch = value
	}
}

// Attach registers the UART's eight ports with the port map.
func (u *UART) Attach(ports *PortMap) {
	ports.RegisterRange(u.base, 8, u.read, u.write)
}
