// device_uart_test.go - UART register model tests
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"testing"
)

func newTestUART(cfg SerialPortConfig) (*UART, *[]int) {
	raised := &[]int{}
	u := NewUART(0, cfg, func(line int) { *raised = append(*raised, line) })
	return u, raised
}

func TestUART_TransmitToSink(t *testing.T) {
	u, _ := newTestUART(defaultSerialPort())
	var got []byte
	u.SetSink(func(b byte) { got = append(got, b) })

	u.write(u.base+uartRegData, 'h')
	u.write(u.base+uartRegData, 'i')
	if string(got) != "hi" {
		t.Errorf("sink: got %q, want \"hi\"", got)
	}
}

func TestUART_ReceiveAndLSR(t *testing.T) {
	u, _ := newTestUART(defaultSerialPort())

	if u.read(u.base+uartRegLSR)&uartLSRDataReady != 0 {
		t.Error("data ready should be clear on an empty FIFO")
	}
	u.Recv(0x42)
	if u.read(u.base+uartRegLSR)&uartLSRDataReady == 0 {
		t.Error("data ready should be set")
	}
	if got := u.read(u.base + uartRegData); got != 0x42 {
		t.Errorf("RBR: got %02X, want 42", got)
	}
	if u.read(u.base+uartRegLSR)&uartLSRDataReady != 0 {
		t.Error("data ready should clear after the read")
	}
}

func TestUART_FIFOOverrun(t *testing.T) {
	u, _ := newTestUART(defaultSerialPort())
	for i := 0; i < uartFIFODepth; i++ {
		u.Recv(byte(i))
	}
	u.Recv(0xFF) // dropped
	if len(u.rxFIFO) != uartFIFODepth {
		t.Errorf("FIFO depth: got %d, want %d", len(u.rxFIFO), uartFIFODepth)
	}
	lsr := u.read(u.base + uartRegLSR)
	if lsr&uartLSROverrun == 0 {
		t.Error("overrun bit should be set")
	}
	if u.read(u.base+uartRegLSR)&uartLSROverrun != 0 {
		t.Error("overrun bit should clear after being read")
	}
}

func TestUART_TriggerLevelIRQ(t *testing.T) {
	cfg := defaultSerialPort()
	cfg.FIFOTriggerLevel = 4
	u, raised := newTestUART(cfg)

	u.write(u.base+uartRegIER, 0x01) // enable received-data interrupt
	u.Recv(1)
	u.Recv(2)
	u.Recv(3)
	if len(*raised) != 0 {
		t.Fatalf("IRQ before the trigger level: %v", *raised)
	}
	u.Recv(4)
	if len(*raised) != 1 || (*raised)[0] != comPortIRQs[0] {
		t.Errorf("IRQ at trigger: got %v, want [%d]", *raised, comPortIRQs[0])
	}
	if u.read(u.base+uartRegIIR) != 0x04 {
		t.Error("IIR should report received data available")
	}
}

func TestUART_DivisorLatch(t *testing.T) {
	u, _ := newTestUART(defaultSerialPort())

	u.write(u.base+uartRegLCR, 0x80) // DLAB
	u.write(u.base+uartRegData, 0x0C)
	u.write(u.base+uartRegIER, 0x00)
	if u.divisor != 0x000C {
		t.Errorf("divisor: got %04X, want 000C (9600 baud)", u.divisor)
	}
	if u.read(u.base+uartRegData) != 0x0C {
		t.Error("DLL readback failed")
	}
	u.write(u.base+uartRegLCR, 0x03) // DLAB off, 8N1
	u.Recv('k')
	if u.read(u.base+uartRegData) != 'k' {
		t.Error("data register should read the FIFO with DLAB off")
	}
}

func TestUART_PowerOnConfig(t *testing.T) {
	cfg := defaultSerialPort()
	cfg.BaudRate = 2400
	cfg.DataBits = 7
	cfg.StopBits = 2
	cfg.Parity = "odd"
	u, _ := newTestUART(cfg)

	if u.divisor != 48 {
		t.Errorf("divisor: got %d, want 48", u.divisor)
	}
	if u.lcr&0x03 != 2 { // 7 data bits
		t.Errorf("LCR word length: got %d, want 2", u.lcr&0x03)
	}
	if u.lcr&0x04 == 0 {
		t.Error("LCR should select 2 stop bits")
	}
	if u.lcr&0x38 != 0x08 {
		t.Errorf("LCR parity: got %02X, want 08 (odd)", u.lcr&0x38)
	}
	if u.mcr&0x03 != 0x03 {
		t.Error("DTR/RTS should be up at boot per configuration")
	}
}
