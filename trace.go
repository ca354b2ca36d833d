// trace.go - instruction/interrupt/IO trace and register inspection
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"io"
	"os"
)

// Tracer emits single-line debug events behind the configured toggles.
// A monitor front end consumes the same hooks.
type Tracer struct {
	cfg DebugConfig
	out io.Writer
	mem *Memory
}

// NewTracer builds a tracer over the machine's memory. Output goes to stderr
// so it interleaves with, but does not corrupt, the guest console on stdout.
func NewTracer(cfg DebugConfig, m *Machine) *Tracer {
	return &Tracer{cfg: cfg, out: os.Stderr, mem: m.mem}
}

// SetOutput redirects trace output; tests capture it.
func (t *Tracer) SetOutput(w io.Writer) {
	t.out = w
}

// Instruction logs the instruction about to execute at CS:IP.
func (t *Tracer) Instruction(c *CPU_8086) {
	if !t.cfg.TraceInstructions {
		return
	}
	text, n := Disasm8086(t.mem.Read8, c.CS, c.IP)
	raw := disasmBytes(t.mem.Read8, c.CS, c.IP, n)
	fmt.Fprintf(t.out, "%04X:%04X  %-14s %s\n", c.CS, c.IP, raw, text)
}

// Interrupt logs a dispatched interrupt vector.
func (t *Tracer) Interrupt(vector int) {
	if !t.cfg.TraceInterrupts {
		return
	}
	fmt.Fprintf(t.out, "int %02Xh\n", vector)
}

// IO logs a port access; unknown ports are flagged.
func (t *Tracer) IO(dir byte, port uint16, value byte, handled bool) {
	if !t.cfg.TraceIO {
		return
	}
	note := ""
	if !handled {
		note = "  (unmapped)"
	}
	if dir == 'I' {
		fmt.Fprintf(t.out, "in  %04X -> %02X%s\n", port, value, note)
	} else {
		fmt.Fprintf(t.out, "out %04X <- %02X%s\n", port, value, note)
	}
}

// Eventf logs a one-off machine event.
func (t *Tracer) Eventf(format string, args ...any) {
	fmt.Fprintf(t.out, format+"\n", args...)
}

// Registers dumps the register file in the classic debugger layout.
func (t *Tracer) Registers(c *CPU_8086) {
	fmt.Fprintf(t.out, "AX=%04X BX=%04X CX=%04X DX=%04X SP=%04X BP=%04X SI=%04X DI=%04X\n",
		c.AX, c.BX, c.CX, c.DX, c.SP, c.BP, c.SI, c.DI)
	fmt.Fprintf(t.out, "DS=%04X ES=%04X SS=%04X CS=%04X IP=%04X %s\n",
		c.DS, c.ES, c.SS, c.CS, c.IP, flagString(c.Flags))
}

// flagString renders FLAGS the way DEBUG.COM did.
func flagString(f uint16) string {
	pick := func(bit uint16, set, clear string) string {
		if f&bit != 0 {
			return set
		}
		return clear
	}
	return pick(x86FlagOF, "OV", "NV") + " " +
		pick(x86FlagDF, "DN", "UP") + " " +
		pick(x86FlagIF, "EI", "DI") + " " +
		pick(x86FlagSF, "NG", "PL") + " " +
		pick(x86FlagZF, "ZR", "NZ") + " " +
		pick(x86FlagAF, "AC", "NA") + " " +
		pick(x86FlagPF, "PE", "PO") + " " +
		pick(x86FlagCF, "CY", "NC")
}
