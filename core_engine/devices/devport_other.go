//go:build !linux

package devices

import (
	"errors"
	"fmt"
)

const DefaultDevPort = "/dev/port"

var errNoDevPort = errors.New("port I/O through /dev/port is only available on linux")

// DevPort is unavailable on this platform; OpenDevPort always fails.
type DevPort struct{}

func OpenDevPort(path string) (*DevPort, error) {
	return nil, fmt.Errorf("%s: %w", path, errNoDevPort)
}

func (*DevPort) ReadPort32(uint32) (uint32, error) { return 0, errNoDevPort }
func (*DevPort) WritePort32(uint32, uint32) error  { return errNoDevPort }
func (*DevPort) Close() error                      { return nil }
