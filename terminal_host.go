// terminal_host.go - interactive host console for the guest's text screen
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TerminalHost adapts the host terminal to the machine's Console interface:
// raw-mode stdin bytes feed the keyboard path, guest TTY output goes straight
// to stdout. Only instantiated in main for interactive use, never in tests.
type TerminalHost struct {
	in      chan byte
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// NewTerminalHost creates the host adapter; call Start before use.
func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		in:     make(chan byte, 256),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start sets stdin to raw non-blocking mode and begins reading in a
// goroutine. Call Stop to restore the terminal.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	if term.IsTerminal(h.fd) {
		oldState, err := term.MakeRaw(h.fd)
		if err != nil {
			close(h.done)
			return fmt.Errorf("terminal_host: raw mode: %w", err)
		}
		h.oldTermState = oldState
	}

	if err := unix.SetNonblock(h.fd, true); err != nil {
		h.restore()
		close(h.done)
		return fmt.Errorf("terminal_host: nonblocking stdin: %w", err)
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := unix.Read(h.fd, buf)
			if n > 0 {
				b := buf[0]
				// Modern terminals send DEL for Backspace
				if b == 0x7F {
					b = 0x08
				}
				select {
				case h.in <- b:
				default: // guest is behind; drop rather than block the host
				}
			}
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK || n == 0 {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
		}
	}()
	return nil
}

// Stop terminates the reader goroutine and restores the terminal.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	h.restore()
}

func (h *TerminalHost) restore() {
	if h.nonblockSet {
		_ = unix.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

// PutByte implements Console: guest output to stdout, exact passthrough.
func (h *TerminalHost) PutByte(b byte) {
	os.Stdout.Write([]byte{b})
}

// GetByte implements Console: non-blocking host key fetch.
func (h *TerminalHost) GetByte() (byte, bool) {
	select {
	case b := <-h.in:
		return b, true
	default:
		return 0, false
	}
}
