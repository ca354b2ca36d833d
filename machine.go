// machine.go - machine aggregate: CPU, memory, devices, run loop, debug hooks
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"sync/atomic"
	"time"
)

// MachineStatus is the outcome of one machine step.
type MachineStatus int

const (
	StatusRunning MachineStatus = iota
	StatusHalted
	StatusBreakpoint
	StatusInterruptTrap
	StatusIOWatch
	StatusDecodeAnomaly
	StatusStopped
	StatusFault
)

func (s MachineStatus) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusHalted:
		return "halted"
	case StatusBreakpoint:
		return "breakpoint"
	case StatusInterruptTrap:
		return "interrupt trap"
	case StatusIOWatch:
		return "io watch"
	case StatusDecodeAnomaly:
		return "decode anomaly"
	case StatusStopped:
		return "stopped"
	case StatusFault:
		return "cpu fault"
	}
	return "unknown"
}

// StepResult carries the status plus the detail the monitor hooks want.
type StepResult struct {
	Status MachineStatus
	Addr   uint32 // breakpoint address
	Vector int    // trapped interrupt vector / fatal vector
	Port   uint16 // watched I/O port
}

// Exit statuses at the process boundary
const (
	ExitOK          = 0
	ExitConfigError = 1
	ExitDiskError   = 2
	ExitCPUFault    = 3
	ExitHaltedNoIRQ = 4
)

// Machine is the aggregate root: it owns memory, the CPU, every device and
// the breakpoint sets, and implements the CPU's bus.
type Machine struct {
	cfg *Config

	mem   *Memory
	cpu   *CPU_8086
	ports *PortMap
	pic   *PIC
	pit   *PIT
	rtc   *RTC
	kbd   *Keyboard
	uarts [4]*UART
	disk  *Disk
	bios  *BIOS

	console Console
	clock   WallClock
	tracer  *Tracer

	breakAddrs map[uint32]bool
	breakInts  map[int]bool
	breakIO    map[uint16]bool

	stop atomic.Bool

	ioWatchHit  bool
	ioWatchPort uint16
}

// NewMachine builds and wires a machine from configuration. The console and
// clock come from the host; tests inject fakes.
func NewMachine(cfg *Config, console Console, clock WallClock) (*Machine, error) {
	m := &Machine{
		cfg:        cfg,
		console:    console,
		clock:      clock,
		breakAddrs: make(map[uint32]bool),
		breakInts:  make(map[int]bool),
		breakIO:    make(map[uint16]bool),
	}

	m.mem = NewMemory(cfg.Emulator.RAMSize)
	m.ports = NewPortMap()
	m.ports.onAccess = m.portAccess

	m.pic = NewPIC()
	m.pic.Attach(m.ports)

	m.pit = NewPIT(clock, m.pic.Raise)
	m.pit.Attach(m.ports)

	m.rtc = NewRTC(clock)
	m.rtc.Attach(m.ports)

	m.kbd = NewKeyboard(m.pic.Raise)
	m.kbd.Attach(m.ports)

	m.cpu = NewCPU_8086(m)
	if cfg.Emulator.CPU186 {
		m.cpu.SetCPU186(true)
	}
	m.cpu.SetIntrCheck(m.pic.Acknowledge)

	m.tracer = NewTracer(cfg.Debug, m)

	m.bios = NewBIOS(m.mem, m.cpu, m.pic, m.kbd, m.rtc, console)
	m.bios.SetPump(m.Pump, m.stop.Load)

	serialPorts := make([]SerialPortConfig, 4)
	for i := 0; i < 4; i++ {
		pc, enabled := cfg.ComPort(i + 1)
		serialPorts[i] = pc
		serialPorts[i].Enabled = enabled
		if !enabled {
			continue
		}
		u := NewUART(i, pc, m.pic.Raise)
		u.Attach(m.ports)
		m.uarts[i] = u
		m.bios.AttachUART(i, u)
		if pc.Device != "" {
			if err := u.OpenHostDevice(pc.Device); err != nil {
				// Degrade to disconnected, keep booting
				m.tracer.Eventf("com%d: %v", i+1, err)
			}
		}
	}

	if cfg.Disk.ImagePath != "" {
		disk, err := OpenDisk(cfg.Disk)
		if err != nil {
			return nil, err
		}
		m.disk = disk
		m.bios.AttachDisk(0x80, disk)
	}

	m.bios.Install(serialPorts, cfg.Emulator.RAMSize)

	for _, v := range cfg.Debug.BreakOnInt {
		m.breakInts[v] = true
	}
	for _, p := range cfg.Debug.BreakOnIO {
		m.breakIO[uint16(p)] = true
	}
	for _, a := range cfg.Debug.InitialBreakpoints {
		m.breakAddrs[a&addressMask] = true
	}

	return m, nil
}

// -----------------------------------------------------------------------------
// Bus8086 implementation
// -----------------------------------------------------------------------------

func (m *Machine) Read(addr uint32) byte          { return m.mem.Read8(addr) }
func (m *Machine) Write(addr uint32, value byte)  { m.mem.Write8(addr, value) }
func (m *Machine) In(port uint16) byte            { return m.ports.In(port) }
func (m *Machine) Out(port uint16, value byte)    { m.ports.Out(port, value) }
func (m *Machine) InW(port uint16) uint16         { return m.ports.InW(port) }
func (m *Machine) OutW(port uint16, value uint16) { m.ports.OutW(port, value) }

// portAccess observes every port access for tracing and I/O watchpoints.
func (m *Machine) portAccess(dir byte, port uint16, value byte, handled bool) {
	m.tracer.IO(dir, port, value, handled)
	if m.breakIO[port] {
		m.ioWatchHit = true
		m.ioWatchPort = port
	}
}

// -----------------------------------------------------------------------------
// Debug hooks
// -----------------------------------------------------------------------------

// AddBreakpoint arms a linear-address breakpoint.
func (m *Machine) AddBreakpoint(addr uint32) {
	m.breakAddrs[addr&addressMask] = true
}

// RemoveBreakpoint disarms a linear-address breakpoint.
func (m *Machine) RemoveBreakpoint(addr uint32) {
	delete(m.breakAddrs, addr&addressMask)
}

// CPU exposes the register file for inspection.
func (m *Machine) CPU() *CPU_8086 { return m.cpu }

// Memory exposes guest memory for inspection.
func (m *Machine) Memory() *Memory { return m.mem }

// BIOS exposes the service layer (tests drive it directly).
func (m *Machine) BIOS() *BIOS { return m.bios }

// Stop requests a clean unwind at the next instruction boundary.
func (m *Machine) Stop() {
	m.stop.Store(true)
	m.cpu.SetRunning(false)
}

// -----------------------------------------------------------------------------
// Execution
// -----------------------------------------------------------------------------

// Pump drains host input into the keyboard controller and advances the
// timer against the wall clock. Called at least once per step in
// interactive mode and from blocking BIOS services.
func (m *Machine) Pump() {
	for {
		b, ok := m.console.GetByte()
		if !ok {
			break
		}
		m.kbd.HostKey(b)
	}
	m.pit.Advance()
}

// Step executes one instruction and classifies the machine state.
func (m *Machine) Step() StepResult {
	if m.stop.Load() {
		return StepResult{Status: StatusStopped}
	}

	m.cpu.LastIntr = -1
	m.ioWatchHit = false

	m.tracer.Instruction(m.cpu)
	m.cpu.Step()

	if m.cpu.LastIntr >= 0 {
		m.tracer.Interrupt(m.cpu.LastIntr)
	}

	if m.cpu.FatalVec >= 0 {
		return StepResult{Status: StatusFault, Vector: m.cpu.FatalVec}
	}
	if m.cpu.Anomaly {
		m.tracer.Eventf("decode anomaly: opcode %02X", m.cpu.AnomalyOp)
		if m.cfg.Emulator.EnableBreakpoints {
			return StepResult{Status: StatusDecodeAnomaly, Vector: int(m.cpu.AnomalyOp)}
		}
	}
	if m.cfg.Emulator.EnableBreakpoints {
		if m.ioWatchHit {
			return StepResult{Status: StatusIOWatch, Port: m.ioWatchPort}
		}
		if m.cpu.LastIntr >= 0 && m.breakInts[m.cpu.LastIntr] {
			return StepResult{Status: StatusInterruptTrap, Vector: m.cpu.LastIntr}
		}
		if addr := PhysAddr(m.cpu.CS, m.cpu.IP); m.breakAddrs[addr] {
			return StepResult{Status: StatusBreakpoint, Addr: addr}
		}
	}
	if m.cpu.Halted {
		return StepResult{Status: StatusHalted}
	}
	return StepResult{Status: StatusRunning}
}

// Run executes from the power-on state until shutdown and returns the
// process exit status. The boot delay is observed before the first fetch.
func (m *Machine) Run() int {
	if d := m.cfg.Emulator.BootDelayMS; d > 0 {
		time.Sleep(time.Duration(d) * time.Millisecond)
	}

	for {
		m.Pump()
		res := m.Step()
		switch res.Status {
		case StatusRunning:
		case StatusHalted:
			if !m.cpu.IF() && !m.pic.PendingAny() {
				return ExitHaltedNoIRQ
			}
			// Waiting for an interrupt; don't spin the host CPU
			time.Sleep(time.Millisecond)
		case StatusStopped:
			return ExitOK
		case StatusFault:
			m.tracer.Eventf("cpu fault: INT %02Xh has a null vector", res.Vector)
			return ExitCPUFault
		case StatusBreakpoint:
			m.tracer.Eventf("breakpoint at %05X", res.Addr)
			m.tracer.Registers(m.cpu)
			return ExitOK
		case StatusInterruptTrap:
			m.tracer.Eventf("interrupt trap: INT %02Xh", res.Vector)
			m.tracer.Registers(m.cpu)
			return ExitOK
		case StatusIOWatch:
			m.tracer.Eventf("io watch: port %04X", res.Port)
			m.tracer.Registers(m.cpu)
			return ExitOK
		case StatusDecodeAnomaly:
			m.tracer.Registers(m.cpu)
			return ExitOK
		}
	}
}

// Close releases host resources.
func (m *Machine) Close() error {
	if m.disk != nil {
		return m.disk.Close()
	}
	return nil
}

// ExitStatusFor maps boundary errors onto the documented exit statuses.
func ExitStatusFor(err error) int {
	switch err.(type) {
	case *ConfigError:
		return ExitConfigError
	case *DiskError:
		return ExitDiskError
	}
	if err != nil {
		return ExitConfigError
	}
	return ExitOK
}
