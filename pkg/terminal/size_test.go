package terminal

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTTY struct {
	fd     uintptr
	closed bool
}

func (f *fakeTTY) Fd() uintptr  { return f.fd }
func (f *fakeTTY) Close() error { f.closed = true; return nil }

func TestProbe_FirstSuccessfulDescriptorWins(t *testing.T) {
	var asked []int
	p := &Probe{
		fds: []int{0, 1, 2},
		getSize: func(fd int) (int, int, error) {
			asked = append(asked, fd)
			if fd == 1 {
				return 132, 43, nil
			}
			return 0, 0, errors.New("not a terminal")
		},
	}

	w, h := p.Size()
	assert.Equal(t, 132, w)
	assert.Equal(t, 43, h)
	assert.Equal(t, []int{0, 1}, asked, "stderr must not be queried once stdout answered")
}

func TestProbe_FallsBackToControllingTerminal(t *testing.T) {
	tty := &fakeTTY{fd: 9}
	p := &Probe{
		fds: []int{0, 1, 2},
		getSize: func(fd int) (int, int, error) {
			if fd == 9 {
				return 100, 30, nil
			}
			return 0, 0, errors.New("not a terminal")
		},
		openTTY: func() (handle, error) { return tty, nil },
	}

	w, h := p.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 30, h)
	assert.True(t, tty.closed, "controlling terminal handle must be closed")
}

func TestProbe_HeadlessReturnsDefaults(t *testing.T) {
	p := &Probe{
		fds:     []int{0, 1, 2},
		getSize: func(int) (int, int, error) { return 0, 0, errors.New("inappropriate ioctl for device") },
		openTTY: func() (handle, error) { return nil, os.ErrNotExist },
	}

	w, h := p.Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
}

func TestProbe_IgnoresZeroGeometry(t *testing.T) {
	p := &Probe{
		fds:     []int{0},
		getSize: func(int) (int, int, error) { return 0, 0, nil },
	}

	w, h := p.Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
}

func TestProbe_ZeroValueNeverPanics(t *testing.T) {
	var p Probe
	w, h := p.Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
}

func TestFixedSize(t *testing.T) {
	w, h := FixedSize{Width: 78, Height: 10}.Size()
	assert.Equal(t, 78, w)
	assert.Equal(t, 10, h)
}

func TestTTYDevice(t *testing.T) {
	assert.Equal(t, "CONOUT$", ttyDevice("windows"))
	assert.Equal(t, "/dev/tty", ttyDevice("linux"))
	assert.Equal(t, "/dev/tty", ttyDevice("darwin"))
}
