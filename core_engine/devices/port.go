package devices

import "log/slog"

// FloatingBus is what a 32 bit read returns when nothing drives the bus.
const FloatingBus uint32 = 0xFFFFFFFF

// Port32 is a 32 bit port accessor that reports failures.
type Port32 interface {
	ReadPort32(port uint32) (uint32, error)
	WritePort32(port uint32, v uint32) error
}

// ErrorHandler receives failed accesses; op is "read" or "write".
type ErrorHandler func(op string, port uint32, err error)

// InfalliblePort adapts a Port32 to accessors without error returns.
type InfalliblePort struct {
	p     Port32
	onErr ErrorHandler
}

// Infallible wraps p. A nil onErr logs failures with slog.Default.
func Infallible(p Port32, onErr ErrorHandler) *InfalliblePort {
	if onErr == nil {
		onErr = func(op string, port uint32, err error) {
			slog.Default().Error("port "+op+" failed", slog.Uint64("port", uint64(port)), slog.Any("err", err))
		}
	}
	return &InfalliblePort{p: p, onErr: onErr}
}

func (i *InfalliblePort) Read32(port uint32) uint32 { return readOrFloat(i.p, port, i.onErr) }

func (i *InfalliblePort) Write32(port uint32, v uint32) { writeOrDrop(i.p, port, v, i.onErr) }

func readOrFloat(p Port32, port uint32, onErr ErrorHandler) uint32 {
	v, err := p.ReadPort32(port)
	if err != nil {
		onErr("read", port, err)
		return FloatingBus
	}
	return v
}

func writeOrDrop(p Port32, port uint32, v uint32, onErr ErrorHandler) {
	if err := p.WritePort32(port, v); err != nil {
		onErr("write", port, err)
	}
}
