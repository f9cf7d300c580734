// core_engine/devices/rtl8139_window.go
package devices

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"example.com/nic-architect/core_engine/devices/rtl8139"
)

// ErrWindowOverflow is returned when a window would extend past the last
// 32 bit port.
var ErrWindowOverflow = errors.New("I/O window exceeds port space")

// RTL8139Window emulates the register storage behind an RTL8139 I/O window.
// Registers other than RCR are plain storage; no packet engine runs behind
// them.
type RTL8139Window struct {
	base       uint32
	macAddress [6]byte
	eeprom9356 bool
	logger     *slog.Logger

	lock sync.Mutex
	regs [rtl8139.WindowSize]byte
}

// WindowOption configures an RTL8139Window.
type WindowOption func(*RTL8139Window)

// WithWindowLogger sets the logger used by the window. A nil logger keeps
// slog.Default.
func WithWindowLogger(l *slog.Logger) WindowOption {
	return func(w *RTL8139Window) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewRTL8139Window creates a window at base. eeprom9356 is the board strap
// reported in RCR bit 6. The whole window must fit below 1<<32.
func NewRTL8139Window(base uint32, mac [6]byte, eeprom9356 bool, opts ...WindowOption) (*RTL8139Window, error) {
	if uint64(base)+rtl8139.WindowSize > 1<<32 {
		return nil, fmt.Errorf("rtl8139 window: base 0x%x: %w", base, ErrWindowOverflow)
	}
	w := &RTL8139Window{
		base:       base,
		macAddress: mac,
		eeprom9356: eeprom9356,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.Reset()
	w.logger.Debug("rtl8139 window initialized",
		slog.String("base", fmt.Sprintf("%#x", base)),
		slog.String("mac", fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
			mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])))
	return w, nil
}

// Base returns the first port of the window.
func (w *RTL8139Window) Base() uint32 { return w.base }

// End returns the last port of the window.
func (w *RTL8139Window) End() uint32 { return w.base + rtl8139.WindowSize - 1 }

// Reset restores power-on contents: zeroes, the MAC in IDR0-5 and the
// EEPROM strap in RCR.
func (w *RTL8139Window) Reset() {
	w.lock.Lock()
	defer w.lock.Unlock()
	for i := range w.regs {
		w.regs[i] = 0
	}
	copy(w.regs[rtl8139.IDR0:], w.macAddress[:])
	w.fixupRCR()
}

// HandleIO serves 1, 2 and 4 byte accesses anywhere inside the window.
func (w *RTL8139Window) HandleIO(port uint32, direction uint8, size uint8, data []byte) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if size != 1 && size != 2 && size != 4 {
		return fmt.Errorf("rtl8139 window: size %d at port 0x%x: %w", size, port, ErrUnsupportedSize)
	}
	if port < w.base || uint64(port-w.base)+uint64(size) > rtl8139.WindowSize {
		return fmt.Errorf("rtl8139 window: port 0x%x size %d outside window 0x%x-0x%x: %w",
			port, size, w.base, w.End(), ErrUnhandledPort)
	}
	if len(data) < int(size) {
		return fmt.Errorf("rtl8139 window: data slice of %d bytes for %d byte access at port 0x%x", len(data), size, port)
	}
	offset := port - w.base
	reg := w.regs[offset : offset+uint32(size)]

	if direction == IODirectionIn {
		copy(data[:size], reg)
		return nil
	}
	copy(reg, data[:size])
	if overlaps(offset, uint32(size), uint32(rtl8139.RCR), 4) {
		w.fixupRCR()
	}
	return nil
}

// fixupRCR clears reserved bits and forces the read-only strap bit.
func (w *RTL8139Window) fixupRCR() {
	r := w.regs[rtl8139.RCR : rtl8139.RCR+4]
	v := rtl8139.RxConfig(binary.LittleEndian.Uint32(r))
	v &^= rtl8139.RxConfigReserved | rtl8139.EEPROM9356
	if w.eeprom9356 {
		v |= rtl8139.EEPROM9356
	}
	binary.LittleEndian.PutUint32(r, uint32(v))
}

func overlaps(off, n, regOff, regLen uint32) bool {
	return off < regOff+regLen && regOff < off+n
}
