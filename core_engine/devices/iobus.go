package devices

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
)

// IODirection indicates the direction of an I/O operation.
const (
	IODirectionIn  uint8 = 0 // Reading from the device
	IODirectionOut uint8 = 1 // Writing to the device
)

var (
	ErrUnhandledPort   = errors.New("unhandled I/O port")
	ErrUnsupportedSize = errors.New("unsupported I/O size")
)

// PioDevice defines the interface for a port I/O device.
type PioDevice interface {
	HandleIO(port uint32, direction uint8, size uint8, data []byte) error
}

// IOBus manages port I/O access to registered devices.
type IOBus struct {
	ports  map[uint32]PioDevice // Maps a port number to a device
	logger *slog.Logger
}

// NewIOBus creates and initializes a new IOBus.
func NewIOBus() *IOBus {
	return &IOBus{
		ports:  make(map[uint32]PioDevice),
		logger: slog.Default(),
	}
}

// WithLogger replaces the bus logger.
func (bus *IOBus) WithLogger(l *slog.Logger) *IOBus {
	bus.logger = l
	return bus
}

// RegisterDevice registers a device to handle I/O for ports startPort through
// endPort inclusive. A port already owned by another device is taken over.
func (bus *IOBus) RegisterDevice(startPort, endPort uint32, device PioDevice) {
	if device == nil {
		bus.logger.Warn("iobus: nil device not registered",
			slog.String("start", fmt.Sprintf("%#x", startPort)),
			slog.String("end", fmt.Sprintf("%#x", endPort)))
		return
	}
	for port := startPort; port <= endPort; port++ {
		if existing, ok := bus.ports[port]; ok && existing != device {
			bus.logger.Warn("iobus: port already registered, overwriting",
				slog.String("port", fmt.Sprintf("%#x", port)),
				slog.String("old", fmt.Sprintf("%T", existing)),
				slog.String("new", fmt.Sprintf("%T", device)))
		}
		bus.ports[port] = device
		if port == 0xFFFFFFFF { // Avoid overflow if endPort is the last port
			break
		}
	}
}

// HandleIO routes an I/O operation to the device owning port.
func (bus *IOBus) HandleIO(port uint32, direction uint8, size uint8, data []byte) error {
	device, ok := bus.ports[port]
	if !ok {
		return fmt.Errorf("iobus: port 0x%x: %w", port, ErrUnhandledPort)
	}
	return device.HandleIO(port, direction, size, data)
}

// ReadPort32 reads 4 bytes little-endian starting at port.
func (bus *IOBus) ReadPort32(port uint32) (uint32, error) {
	var buf [4]byte
	if err := bus.HandleIO(port, IODirectionIn, 4, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// WritePort32 writes v as 4 bytes little-endian starting at port.
func (bus *IOBus) WritePort32(port uint32, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return bus.HandleIO(port, IODirectionOut, 4, buf[:])
}

// Read32 is ReadPort32 for callers that cannot handle errors. A failed
// read returns all ones, as an undriven bus would.
func (bus *IOBus) Read32(port uint32) uint32 {
	return readOrFloat(bus, port, bus.warn)
}

// Write32 is WritePort32 with failures logged and dropped.
func (bus *IOBus) Write32(port uint32, v uint32) {
	writeOrDrop(bus, port, v, bus.warn)
}

func (bus *IOBus) warn(op string, port uint32, err error) {
	bus.logger.Warn("iobus: "+op+" failed",
		slog.String("port", fmt.Sprintf("%#x", port)),
		slog.Any("err", err))
}
