// device_kbd.go - XT keyboard controller and host key translation
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// Keyboard controller ports
const (
	kbdPortData = 0x60
	kbdPortCtrl = 0x61
	kbdPortCmd  = 0x64
)

// KeyEvent is one translated keystroke: set-1 make code plus ASCII.
type KeyEvent struct {
	Scan  byte
	ASCII byte
}

// Keyboard models the XT keyboard interface: host bytes are translated to
// scancode/ASCII pairs, latched for port 60h, and announced with IRQ1. The
// BIOS INT 09h service drains the event queue into the BDA ring.
type Keyboard struct {
	irq     func(int)
	pending []KeyEvent
	latch   byte // scancode visible at port 60h
	ctrl    byte // port 61h shadow
}

// NewKeyboard creates a keyboard bound to an IRQ sink.
func NewKeyboard(irq func(int)) *Keyboard {
	return &Keyboard{irq: irq}
}

// scanFromASCII maps printable ASCII (and the control keys DOS cares about)
// to XT set-1 make codes.
var scanFromASCII = map[byte]byte{
	0x1B: 0x01, // Escape
	'1':  0x02, '!': 0x02,
	'2': 0x03, '@': 0x03,
	'3': 0x04, '#': 0x04,
	'4': 0x05, '$': 0x05,
	'5': 0x06, '%': 0x06,
	'6': 0x07, '^': 0x07,
	'7': 0x08, '&': 0x08,
	'8': 0x09, '*': 0x09,
	'9': 0x0A, '(': 0x0A,
	'0': 0x0B, ')': 0x0B,
	'-': 0x0C, '_': 0x0C,
	'=': 0x0D, '+': 0x0D,
	0x08: 0x0E, // Backspace
	0x09: 0x0F, // Tab
	'q':  0x10, 'Q': 0x10,
	'w': 0x11, 'W': 0x11,
	'e': 0x12, 'E': 0x12,
	'r': 0x13, 'R': 0x13,
	't': 0x14, 'T': 0x14,
	'y': 0x15, 'Y': 0x15,
	'u': 0x16, 'U': 0x16,
	'i': 0x17, 'I': 0x17,
	'o': 0x18, 'O': 0x18,
	'p': 0x19, 'P': 0x19,
	'[': 0x1A, '{': 0x1A,
	']': 0x1B, '}': 0x1B,
	0x0D: 0x1C, // Enter (CR)
	0x0A: 0x1C, // LF arrives from cooked hosts
	'a':  0x1E, 'A': 0x1E,
	's': 0x1F, 'S': 0x1F,
	'd': 0x20, 'D': 0x20,
	'f': 0x21, 'F': 0x21,
	'g': 0x22, 'G': 0x22,
	'h': 0x23, 'H': 0x23,
	'j': 0x24, 'J': 0x24,
	'k': 0x25, 'K': 0x25,
	'l': 0x26, 'L': 0x26,
	';': 0x27, ':': 0x27,
	'\'': 0x28, '"': 0x28,
	'`': 0x29, '~': 0x29,
	'\\': 0x2B, '|': 0x2B,
	'z': 0x2C, 'Z': 0x2C,
	'x': 0x2D, 'X': 0x2D,
	'c': 0x2E, 'C': 0x2E,
	'v': 0x2F, 'V': 0x2F,
	'b': 0x30, 'B': 0x30,
	'n': 0x31, 'N': 0x31,
	'm': 0x32, 'M': 0x32,
	',': 0x33, '<': 0x33,
	'.': 0x34, '>': 0x34,
	'/': 0x35, '?': 0x35,
	' ': 0x39,
}

// translateKey turns a host input byte into a key event.
func translateKey(b byte) KeyEvent {
	ascii := b
	if b == 0x0A {
		ascii = 0x0D // BIOS delivers CR for Enter
	}
	if scan, ok := scanFromASCII[b]; ok {
		return KeyEvent{Scan: scan, ASCII: ascii}
	}
	if b >= 1 && b <= 26 {
		// Ctrl-letter: scancode of the letter, ASCII preserved
		letter := b - 1 + 'a'
		return KeyEvent{Scan: scanFromASCII[letter], ASCII: b}
	}
	return KeyEvent{Scan: 0, ASCII: ascii}
}

// HostKey injects one host input byte: translate, queue, raise IRQ1.
func (k *Keyboard) HostKey(b byte) {
	k.pending = append(k.pending, translateKey(b))
	k.irq(1)
}

// NextEvent pops the oldest pending keystroke and latches its scancode for
// port 60h. Called by the INT 09h service.
func (k *Keyboard) NextEvent() (KeyEvent, bool) {
	if len(k.pending) == 0 {
		return KeyEvent{}, false
	}
	ev := k.pending[0]
	k.pending = k.pending[1:]
	k.latch = ev.Scan
	return ev, true
}

func (k *Keyboard) readData(uint16) byte {
	return k.latch
}

func (k *Keyboard) readCtrl(uint16) byte {
	return k.ctrl
}

func (k *Keyboard) writeCtrl(_ uint16, value byte) {
	k.ctrl = value
}

func (k *Keyboard) readStatus(uint16) byte {
	if len(k.pending) > 0 {
		return 0x01 // output buffer full
	}
	return 0
}

// Attach registers the controller ports with the port map.
func (k *Keyboard) Attach(ports *PortMap) {
	ports.Register(kbdPortData, k.readData, nil)
	ports.Register(kbdPortCtrl, k.readCtrl, k.writeCtrl)
	ports.Register(kbdPortCmd, k.readStatus, nil)
}
