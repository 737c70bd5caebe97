// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build unix

package native

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// fifoPair is the pair of named pipes the engine's main message circle
// reads requests from and writes responses to.
type fifoPair struct {
	in, out int
}

// openFIFOs creates (or reuses) dir/in and dir/out and opens both for
// reading and writing, so that neither open blocks waiting for a peer.
func openFIFOs(dir string) (*fifoPair, error) {
	in, err := openFIFO(filepath.Join(dir, "in"))
	if err != nil {
		return nil, err
	}
	out, err := openFIFO(filepath.Join(dir, "out"))
	if err != nil {
		unix.Close(in)
		return nil, err
	}
	return &fifoPair{in: in, out: out}, nil
}

func openFIFO(path string) (int, error) {
	if err := unix.Mkfifo(path, unix.S_IRUSR|unix.S_IWUSR); err != nil && !errors.Is(err, unix.EEXIST) {
		return -1, fmt.Errorf("mkfifo(%s): %w", path, err)
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("open(%s): %w", path, err)
	}
	return fd, nil
}

func (p *fifoPair) Close() error {
	return errors.Join(unix.Close(p.in), unix.Close(p.out))
}

// errFIFOsClosed is returned by fifoOwner.open after close.
var errFIFOsClosed = fmt.Errorf("message FIFOs closed: %w", unix.EBADF)

// fifoOwner holds the FIFOs of the main message circle between Serve and
// Close. Once closed it opens nothing, so a Serve that loses the race to
// Close leaves no descriptors behind.
type fifoOwner struct {
	mu     sync.Mutex
	closed bool
	fifo   *fifoPair
}

func (o *fifoOwner) open(dir string) (*fifoPair, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil, errFIFOsClosed
	}
	if o.fifo != nil {
		return nil, fmt.Errorf("message FIFOs already open: %w", unix.EBUSY)
	}
	p, err := openFIFOs(dir)
	if err != nil {
		return nil, err
	}
	o.fifo = p
	return p, nil
}

func (o *fifoOwner) close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	p := o.fifo
	o.fifo = nil
	if p == nil {
		return nil
	}
	return p.Close()
}

// errnoStatus maps a FIFO setup error to the status the wrapper used to
// return for it: the errno, or EINVAL when there is none.
func errnoStatus(err error) int32 {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return int32(errno)
	}
	return int32(unix.EINVAL)
}
