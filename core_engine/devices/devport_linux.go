//go:build linux

package devices

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// DefaultDevPort is the Linux character device exposing the I/O port space.
const DefaultDevPort = "/dev/port"

// DevPort performs port I/O through /dev/port, where the file offset is
// the port number. Opening it needs CAP_SYS_RAWIO.
//
// The kernel services /dev/port one byte at a time, so a 32 bit access
// becomes four byte-wide port cycles. Registers that latch on a full
// dword write may need a sysfs PCI resource file instead.
type DevPort struct {
	fd   int
	path string
}

// OpenDevPort opens path read-write.
func OpenDevPort(path string) (*DevPort, error) {
	if path == "" {
		path = DefaultDevPort
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &DevPort{fd: fd, path: path}, nil
}

// ReadPort32 reads 4 bytes little-endian at port.
func (p *DevPort) ReadPort32(port uint32) (uint32, error) {
	var buf [4]byte
	n, err := unix.Pread(p.fd, buf[:], int64(port))
	if err != nil {
		return 0, fmt.Errorf("failed to read port 0x%x from %s: %w", port, p.path, err)
	}
	if n != len(buf) {
		return 0, fmt.Errorf("short read of port 0x%x from %s: %d bytes", port, p.path, n)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// WritePort32 writes v as 4 bytes little-endian at port.
func (p *DevPort) WritePort32(port uint32, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	n, err := unix.Pwrite(p.fd, buf[:], int64(port))
	if err != nil {
		return fmt.Errorf("failed to write port 0x%x on %s: %w", port, p.path, err)
	}
	if n != len(buf) {
		return fmt.Errorf("short write of port 0x%x on %s: %d bytes", port, p.path, n)
	}
	return nil
}

// Close closes the file descriptor.
func (p *DevPort) Close() error {
	if p.fd < 0 {
		return nil
	}
	err := unix.Close(p.fd)
	p.fd = -1
	return err
}
