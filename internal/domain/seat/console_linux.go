//go:build linux

package seat

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ttyAllocator forces kernel allocation of a virtual terminal by
// opening and immediately closing its device node.
type ttyAllocator struct {
	pathFormat string
}

// NewTTYAllocator returns a VTAllocator backed by the kernel's tty
// device nodes. pathFormat is a printf-style template such as
// "/dev/tty%d".
func NewTTYAllocator(pathFormat string) VTAllocator {
	return &ttyAllocator{pathFormat: pathFormat}
}

func (a *ttyAllocator) Allocate(vtnr int) error {
	p := fmt.Sprintf(a.pathFormat, vtnr)

	fd, err := unix.Open(p, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", p, err)
	}
	unix.Close(fd)

	return nil
}
