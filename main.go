// main.go - Main entry point for the XTEngine PC emulator
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func boilerPlate() {
	fmt.Fprintln(os.Stderr, "XTEngine - an IBM PC/XT (8086) emulator")
	fmt.Fprintln(os.Stderr, "(c) 2024 - 2026 Zayn Otley")
	fmt.Fprintln(os.Stderr, "License: GPLv3 or later")
}

// headlessConsole writes guest output to stdout and supplies no input.
// Used when the process has no interactive terminal.
type headlessConsole struct{}

func (headlessConsole) PutByte(b byte)        { os.Stdout.Write([]byte{b}) }

func (headlessConsole) GetByte() (byte, bool) { return 0, false }

func main() {
	exit := ExitOK

	var (
		configPath string
		imagePath  string
		headless   bool
		traceIns   bool
		traceInt   bool
		traceIO    bool
	)

	rootCmd := &cobra.Command{
		Use:           "xtengine",
		Short:         "Boot a real-mode DOS disk image on an emulated PC/XT",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			boilerPlate()

			cfg := DefaultConfig()
			if configPath != "" {
				loaded, err := LoadConfig(configPath)
				if err != nil {
					exit = ExitStatusFor(err)
					return err
				}
				cfg = loaded
			}
			if imagePath != "" {
				cfg.Disk.ImagePath = imagePath
			}
			if traceIns {
				cfg.Debug.TraceInstructions = true
			}
			if traceInt {
				cfg.Debug.TraceInterrupts = true
			}
			if traceIO {
				cfg.Debug.TraceIO = true
			}
			if err := cfg.Validate(); err != nil {
				exit = ExitStatusFor(err)
				return err
			}

			var console Console
			var host *TerminalHost
			if headless {
				console = headlessConsole{}
			} else {
				host = NewTerminalHost()
				if err := host.Start(); err != nil {
					// Fall back rather than refuse to boot
					fmt.Fprintln(os.Stderr, err)
					console = headlessConsole{}
					host = nil
				} else {
					console = host
					defer host.Stop()
				}
			}

			machine, err := NewMachine(cfg, console, realClock{})
			if err != nil {
				exit = ExitStatusFor(err)
				return err
			}
			defer machine.Close()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				machine.Stop()
			}()

			exit = machine.Run()
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (TOML)")
	rootCmd.Flags().StringVarP(&imagePath, "image", "i", "", "disk image (overrides config)")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "no interactive terminal")
	rootCmd.Flags().BoolVar(&traceIns, "trace", false, "trace executed instructions")
	rootCmd.Flags().BoolVar(&traceInt, "trace-int", false, "trace interrupt dispatch")
	rootCmd.Flags().BoolVar(&traceIO, "trace-io", false, "trace port I/O")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exit == ExitOK {
			exit = ExitConfigError
		}
	}
	os.Exit(exit)
}
