package ui

import (
	"context"
	"os"
	"runtime"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

const resizePollInterval = 250 * time.Millisecond

// openTerminalIOFn is swapped in tests.
var openTerminalIOFn = openTerminalIO

// TerminalOptions returns program options reading keys from the terminal
// device when stdin carries the document. The cleanup closes the devices
// and must be called after the program exits. Without a terminal device
// the program falls back to stdin.
func TerminalOptions(ctx context.Context, stdinPiped bool) ([]tea.ProgramOption, func()) {
	if !stdinPiped {
		return nil, func() {}
	}
	in, out, err := openTerminalIOFn()
	if err != nil {
		return nil, func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	opts := []tea.ProgramOption{tea.WithInput(in)}
	if out != nil {
		opts = append(opts, tea.WithOutput(out), withResizeWatcher(ctx, out))
	}
	return opts, func() {
		cancel()
		_ = in.Close()
		if out != nil && out != in {
			_ = out.Close()
		}
	}
}

func openTerminalIO() (*os.File, *os.File, error) {
	inName, outName := terminalDeviceNames(runtime.GOOS)
	in, err := os.OpenFile(inName, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	if outName == inName {
		return in, in, nil
	}
	out, err := os.OpenFile(outName, os.O_RDWR, 0)
	if err != nil {
		return in, nil, nil
	}
	return in, out, nil
}

func terminalDeviceNames(goos string) (input, output string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}
	return "/dev/tty", "/dev/tty"
}

// withResizeWatcher polls the terminal size, since resize signals do not
// reach a program whose stdin is a pipe on every platform. It stops when
// ctx is done.
func withResizeWatcher(ctx context.Context, out *os.File) tea.ProgramOption {
	return func(p *tea.Program) {
		go func() {
			t := time.NewTicker(resizePollInterval)
			defer t.Stop()
			lastW, lastH := 0, 0
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					w, h, err := term.GetSize(int(out.Fd()))
					if err != nil || (w == lastW && h == lastH) {
						continue
					}
					lastW, lastH = w, h
					p.Send(tea.WindowSizeMsg{Width: w, Height: h})
				}
			}
		}()
	}
}
