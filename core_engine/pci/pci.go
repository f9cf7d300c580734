// Package pci provides device handles carrying a bus-assigned base address.
package pci

import (
	"errors"
	"fmt"

	"example.com/nic-architect/core_engine/devices/rtl8139"
)

// IORESOURCE_IO in the flags column of a sysfs resource file.
const resourceIO = 0x100

var ErrNotRTL8139 = errors.New("pci: device is not an RTL8139")

// Resource is one BAR as the kernel reports it.
type Resource struct {
	Start, End, Flags uint64
}

// IsIO reports whether the BAR decodes I/O port space.
func (r Resource) IsIO() bool { return r.Flags&resourceIO != 0 }

// Size returns the length of the region, or 0 for an unassigned BAR.
func (r Resource) Size() uint64 {
	if r.End < r.Start || (r.Start == 0 && r.End == 0) {
		return 0
	}
	return r.End - r.Start + 1
}

// Device is a PCI function identified by slot.
type Device struct {
	Slot     string
	VendorID uint16
	DeviceID uint16
	BARs     [6]Resource
}

// BaseAddress returns the start of the first BAR, the RTL8139's I/O window.
func (d *Device) BaseAddress() uint32 { return uint32(d.BARs[0].Start) }

// IsRTL8139 reports whether the vendor and device IDs match the chip.
func (d *Device) IsRTL8139() bool {
	return d.VendorID == rtl8139.VendorRealtek && d.DeviceID == rtl8139.DeviceRTL8139
}

// CheckRTL8139 returns ErrNotRTL8139 for any other device, and an error
// when BAR0 is not an assigned I/O region.
func (d *Device) CheckRTL8139() error {
	if !d.IsRTL8139() {
		return fmt.Errorf("%s: %04x:%04x: %w", d.Slot, d.VendorID, d.DeviceID, ErrNotRTL8139)
	}
	bar := d.BARs[0]
	if !bar.IsIO() || bar.Size() < rtl8139.WindowSize {
		return fmt.Errorf("%s: BAR0 %#x-%#x flags %#x is not a %d byte I/O window",
			d.Slot, bar.Start, bar.End, bar.Flags, rtl8139.WindowSize)
	}
	return nil
}

// Static is a handle with a fixed base address, for devices whose BAR was
// found some other way.
type Static uint32

func (s Static) BaseAddress() uint32 { return uint32(s) }
