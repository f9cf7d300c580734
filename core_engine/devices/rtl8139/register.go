// Package rtl8139 models the receive configuration register of the
// Realtek RTL8139 family.
//
// Nothing here returns an error. A wrong base address or a write the
// hardware ignored is not detected at this layer; the device simply does
// not receive. Callers that care read the register back, see InitAndVerify.
//
// The register performs no locking. A driver that initializes from one
// context and reads from an interrupt path must serialize access itself.
package rtl8139

import (
	"fmt"
	"log/slog"
)

// PortIO performs 32 bit accesses at absolute I/O addresses.
// Accesses are synchronous and are assumed to always succeed.
type PortIO interface {
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
}

// Device is the bus-side handle of a NIC. BaseAddress is the first BAR
// assigned by enumeration.
type Device interface {
	BaseAddress() uint32
}

// RxConfigRegister is bound to one absolute register address.
type RxConfigRegister struct {
	io     PortIO
	addr   uint32
	logger *slog.Logger
}

type Option func(*RxConfigRegister)

// WithLogger sets the logger used for init tracing.
func WithLogger(l *slog.Logger) Option {
	return func(r *RxConfigRegister) { r.logger = l }
}

// Load binds the register of dev. The device is consulted once for its base
// address and not retained. No I/O occurs and no address is validated; a
// zero base yields a register at 0x44.
func Load(dev Device, io PortIO, opts ...Option) *RxConfigRegister {
	r := &RxConfigRegister{
		io:     io,
		addr:   dev.BaseAddress() + uint32(RCR),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Address returns the absolute address of the register.
func (r *RxConfigRegister) Address() uint32 { return r.addr }

// Init writes InitPolicy with a single 32 bit store. Repeating it writes
// the same value again.
func (r *RxConfigRegister) Init() {
	r.logger.Debug("rtl8139: programming receive config",
		slog.String("addr", hex32(r.addr)),
		slog.String("rxconfig", hex32(uint32(InitPolicy))),
		slog.String("flags", InitPolicy.String()),
	)
	r.io.Write32(r.addr, uint32(InitPolicy))
}

// Value reads the register. It is never cached.
func (r *RxConfigRegister) Value() uint32 { return r.io.Read32(r.addr) }

// Config is Value typed as RxConfig.
func (r *RxConfigRegister) Config() RxConfig { return RxConfig(r.Value()) }

func hex32(v uint32) string { return fmt.Sprintf("0x%08x", v) }
