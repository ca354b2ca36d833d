// machine_test.go - machine loop, breakpoint and device integration tests
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"testing"
	"time"
)

// testConsole is an in-memory Console for tests.
type testConsole struct {
	out []byte
	in  []byte
}

func (c *testConsole) PutByte(b byte) { c.out = append(c.out, b) }

func (c *testConsole) GetByte() (byte, bool) {
	if len(c.in) == 0 {
		return 0, false
	}
	b := c.in[0]
	c.in = c.in[1:]
	return b, true
}

// testClock is a settable wall clock.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 8, 2, 10, 30, 0, 0, time.UTC)}
}

func newTestMachine(t *testing.T, mutate func(*Config)) (*Machine, *testConsole, *testClock) {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	console := &testConsole{}
	clock := newTestClock()
	m, err := NewMachine(cfg, console, clock)
	if err != nil {
		t.Fatal(err)
	}
	return m, console, clock
}

// loadProgram drops code at 0000:0100 with a usable stack and points CS:IP
// at it.
func loadProgram(m *Machine, code ...byte) {
	m.Memory().Load(0x100, code)
	c := m.CPU()
	c.CS = 0
	c.IP = 0x100
	c.SS = 0
	c.SP = 0xFFFE
}

// stepUntilHalt steps the machine until the CPU halts or the limit trips.
func stepUntilHalt(t *testing.T, m *Machine, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		res := m.Step()
		if res.Status == StatusHalted || res.Status == StatusFault {
			return
		}
	}
	t.Fatal("program did not halt")
}

// =============================================================================
// Power-on and reset tests
// =============================================================================

func TestMachine_ResetToFirstFetch(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	c := m.CPU()

	if c.CS != 0xF000 || c.IP != 0xFFF0 {
		t.Fatalf("power-on CS:IP: got %04X:%04X, want F000:FFF0", c.CS, c.IP)
	}

	want := []byte{0xEA, 0x5B, 0xE0, 0x00, 0xF0}
	for i, w := range want {
		got := m.Memory().Read8(0xFFFF0 + uint32(i))
		if got != w {
			t.Fatalf("reset vector byte %d: got %02X, want %02X", i, got, w)
		}
	}

	m.Step() // the far JMP
	if c.CS != 0xF000 || c.IP != 0xE05B {
		t.Errorf("first instruction: got %04X:%04X, want F000:E05B", c.CS, c.IP)
	}
}

func TestMachine_ROMIsProtected(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	before := m.Memory().Read8(0xFFFF0)
	m.Memory().Write8(0xFFFF0, 0x00)
	if m.Memory().Read8(0xFFFF0) != before {
		t.Error("guest write into the BIOS ROM must be dropped")
	}
}

// =============================================================================
// Breakpoints and statuses
// =============================================================================

func TestMachine_InterruptTrap(t *testing.T) {
	m, _, _ := newTestMachine(t, func(cfg *Config) {
		cfg.Emulator.EnableBreakpoints = true
		cfg.Debug.BreakOnInt = []int{0x21}
	})
	loadProgram(m, 0xCD, 0x21, 0xF4) // INT 21h; HLT
	res := m.Step()
	if res.Status != StatusInterruptTrap || res.Vector != 0x21 {
		t.Errorf("status: got %v vector %d, want interrupt trap on 21h", res.Status, res.Vector)
	}
}

func TestMachine_AddressBreakpoint(t *testing.T) {
	m, _, _ := newTestMachine(t, func(cfg *Config) {
		cfg.Emulator.EnableBreakpoints = true
		cfg.Debug.InitialBreakpoints = []uint32{0x101}
	})
	loadProgram(m, 0x90, 0x90, 0xF4)
	res := m.Step()
	if res.Status != StatusBreakpoint || res.Addr != 0x101 {
		t.Errorf("status: got %v addr %05X, want breakpoint at 00101", res.Status, res.Addr)
	}
}

func TestMachine_IOWatch(t *testing.T) {
	m, _, _ := newTestMachine(t, func(cfg *Config) {
		cfg.Emulator.EnableBreakpoints = true
		cfg.Debug.BreakOnIO = []int{0x42}
	})
	loadProgram(m, 0xE6, 0x42, 0xF4) // OUT 42h, AL
	res := m.Step()
	if res.Status != StatusIOWatch || res.Port != 0x42 {
		t.Errorf("status: got %v port %04X, want io watch on 0042", res.Status, res.Port)
	}
}

func TestMachine_DecodeAnomaly(t *testing.T) {
	m, _, _ := newTestMachine(t, func(cfg *Config) {
		cfg.Emulator.EnableBreakpoints = true
	})
	// F1h outside the ROM segment is not a valid encoding
	loadProgram(m, 0xF1, 0x00, 0xF4)
	res := m.Step()
	if res.Status != StatusDecodeAnomaly {
		t.Errorf("status: got %v, want decode anomaly", res.Status)
	}
	if m.CPU().CS != biosSegment {
		t.Error("anomaly should have vectored through INT 6 into the ROM stub")
	}
}

func TestMachine_StopFlag(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	loadProgram(m, 0x90, 0x90)
	m.Step()
	m.Stop()
	res := m.Step()
	if res.Status != StatusStopped {
		t.Errorf("status: got %v, want stopped", res.Status)
	}
	// Register file intact for inspection
	if m.CPU().IP != 0x101 {
		t.Errorf("IP after stop: got 0x%04X, want 0x0101", m.CPU().IP)
	}
}

func TestMachine_HaltedWithoutInterrupts(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	loadProgram(m, 0xFA, 0xF4) // CLI; HLT
	if code := m.Run(); code != ExitHaltedNoIRQ {
		t.Errorf("exit status: got %d, want %d", code, ExitHaltedNoIRQ)
	}
}

// =============================================================================
// PIT and BDA tick integration
// =============================================================================

func TestMachine_TimerTickUpdatesBDA(t *testing.T) {
	m, _, clock := newTestMachine(t, nil)
	loadProgram(m, 0xFB, 0xF4, 0xEB, 0xFD) // STI; HLT; JMP back to HLT

	m.Pump() // arms the PIT baseline
	before := m.Memory().Read16(bdaTickCount)

	for i := 0; i < 4; i++ {
		m.Step()
	}
	clock.advance(60 * time.Millisecond)
	m.Pump()

	// Service the interrupt: wake from HLT, run the stub trap + INT 1C + IRETs
	for i := 0; i < 16; i++ {
		m.Step()
	}

	after := m.Memory().Read16(bdaTickCount)
	if after != before+1 {
		t.Errorf("BDA tick count: got %d, want %d", after, before+1)
	}
}

func TestMachine_KeyboardToBuffer(t *testing.T) {
	m, console, _ := newTestMachine(t, nil)
	loadProgram(m, 0xFB, 0xF4, 0xEB, 0xFD) // STI; HLT; JMP back

	console.in = []byte{'a'}
	for i := 0; i < 4; i++ {
		m.Step()
	}
	m.Pump()
	for i := 0; i < 12; i++ {
		m.Step()
	}

	key, ok := m.BIOS().kbdBufPeek()
	if !ok {
		t.Fatal("keystroke should be in the BDA ring")
	}
	if byte(key) != 'a' || byte(key>>8) != 0x1E {
		t.Errorf("key: got %04X, want 1E61", key)
	}
}

// =============================================================================
// Unknown port policy
// =============================================================================

func TestMachine_UnknownPort(t *testing.T) {
	m, _, _ := newTestMachine(t, nil)
	loadProgram(m,
		0xE4, 0x87, // IN AL, 87h (unmapped)
		0xF4,
	)
	stepUntilHalt(t, m, 10)
	if m.CPU().AL() != 0xFF {
		t.Errorf("unmapped port read: got 0x%02X, want 0xFF", m.CPU().AL())
	}
}
