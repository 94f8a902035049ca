// Package terminal answers questions about the process's terminal: its
// geometry, whether output is a TTY, and whether the locale can carry UTF-8.
// Every query degrades to a safe default instead of failing.
package terminal

import (
	"os"
	"runtime"

	"golang.org/x/term"
)

// Fallback geometry used when no terminal can be queried (pipes, CI, daemons).
const (
	DefaultWidth  = 80
	DefaultHeight = 25
)

// SizeProvider reports the usable width and height of the output terminal.
type SizeProvider interface {
	Size() (width, height int)
}

// FixedSize is a SizeProvider that always reports the same geometry.
type FixedSize struct {
	Width  int
	Height int
}

// Size implements SizeProvider.
func (f FixedSize) Size() (int, int) { return f.Width, f.Height }

// handle is the subset of *os.File the probe needs from the controlling terminal.
type handle interface {
	Fd() uintptr
	Close() error
}

// Probe queries stdin, stdout, stderr and finally the controlling terminal
// device, returning the first geometry that can be read.
type Probe struct {
	fds     []int
	getSize func(fd int) (width, height int, err error)
	openTTY func() (handle, error)
}

// NewProbe returns a Probe wired to the process's standard streams.
func NewProbe() *Probe {
	return &Probe{
		fds:     []int{int(os.Stdin.Fd()), int(os.Stdout.Fd()), int(os.Stderr.Fd())},
		getSize: term.GetSize,
		openTTY: openControllingTTY,
	}
}

// Size implements SizeProvider. It never fails: when nothing answers it
// reports DefaultWidth x DefaultHeight.
func (p *Probe) Size() (int, int) {
	for _, fd := range p.fds {
		if w, h, ok := p.query(fd); ok {
			return w, h
		}
	}
	if p.openTTY != nil {
		if tty, err := p.openTTY(); err == nil {
			defer func() { _ = tty.Close() }()
			if w, h, ok := p.query(int(tty.Fd())); ok {
				return w, h
			}
		}
	}
	return DefaultWidth, DefaultHeight
}

func (p *Probe) query(fd int) (int, int, bool) {
	if p.getSize == nil {
		return 0, 0, false
	}
	w, h, err := p.getSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func openControllingTTY() (handle, error) {
	return os.OpenFile(ttyDevice(runtime.GOOS), os.O_RDWR, 0)
}

// ttyDevice names the controlling terminal device for goos.
func ttyDevice(goos string) string {
	if goos == "windows" {
		return "CONOUT$"
	}
	return "/dev/tty"
}
