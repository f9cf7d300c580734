// core_engine/devices/rtl8139/rxconfig.go
package rtl8139

import (
	"strings"

	"example.com/nic-architect/core_engine/bitpos"
)

// RxConfig is the content of the receive configuration register.
type RxConfig uint32

// Receive configuration register (RCR) bits
const (
	AcceptAllPhysical   = RxConfig(bitpos.Bit0) // AAP: any destination address
	AcceptPhysicalMatch = RxConfig(bitpos.Bit1) // APM: destination equals IDR0-5
	AcceptMulticast     = RxConfig(bitpos.Bit2) // AM
	AcceptBroadcast     = RxConfig(bitpos.Bit3) // AB
	AcceptRunt          = RxConfig(bitpos.Bit4) // AR: 8 < length < 64 bytes
	AcceptError         = RxConfig(bitpos.Bit5) // AER: CRC, alignment or collided fragment

	// EEPROM9356 selects a 9356 EEPROM when set, 9346 otherwise. Read-only
	// on the chip; it reflects a board strap.
	EEPROM9356 = RxConfig(bitpos.Bit6)

	// Wrap (C mode only). 0 wraps an incoming packet to the start of the
	// buffer, 1 lets it overflow past the end.
	Wrap = RxConfig(bitpos.Bit7)

	// Max DMA burst per receive burst, 3 bits.
	// 000 16 bytes, 001 32, 010 64, 011 128, 100 256, 101 512, 110 1024,
	// 111 unlimited.
	MaxDMA0 = RxConfig(bitpos.Bit8)
	MaxDMA1 = RxConfig(bitpos.Bit9)
	MaxDMA2 = RxConfig(bitpos.Bit10)

	// Receive buffer length, 2 bits.
	// 00 8K+16, 01 16K+16, 10 32K+16, 11 64K+16.
	RxBufLen0 = RxConfig(bitpos.Bit11)
	RxBufLen1 = RxConfig(bitpos.Bit12)

	// Receive FIFO threshold, 3 bits. Same encoding as MaxDMA with 111
	// meaning no threshold.
	RxFIFOThresh0 = RxConfig(bitpos.Bit13)
	RxFIFOThresh1 = RxConfig(bitpos.Bit14)
	RxFIFOThresh2 = RxConfig(bitpos.Bit15)

	// RxErr8 receives error packets longer than 8 bytes instead of 64.
	// Only meaningful with AcceptError or AcceptRunt.
	RxErr8 = RxConfig(bitpos.Bit16)

	MultiEarlyInt = RxConfig(bitpos.Bit17)

	// Early receive threshold, 4 bits.
	EarlyRxThresh0 = RxConfig(bitpos.Bit24)
	EarlyRxThresh1 = RxConfig(bitpos.Bit25)
	EarlyRxThresh2 = RxConfig(bitpos.Bit26)
	EarlyRxThresh3 = RxConfig(bitpos.Bit27)
)

// RxConfigReserved are bits 31:28 and 23:18, which read back as zero.
const RxConfigReserved RxConfig = 0xF0FC0000

// Field shifts and widths
const (
	maxDMAShift     = 8
	rxBufLenShift   = 11
	fifoThreshShift = 13
	earlyRxShift    = 24
)

// InitPolicy is what Init programs: broadcast, multicast and physical
// match accepted, 16K+16 receive buffer, 128 byte DMA bursts.
const InitPolicy = AcceptBroadcast | AcceptMulticast | AcceptPhysicalMatch |
	RxBufLen0 | MaxDMA0 | MaxDMA1

var rxConfigNames = []struct {
	bit  RxConfig
	name string
}{
	{AcceptAllPhysical, "AAP"},
	{AcceptPhysicalMatch, "APM"},
	{AcceptMulticast, "AM"},
	{AcceptBroadcast, "AB"},
	{AcceptRunt, "AR"},
	{AcceptError, "AER"},
	{EEPROM9356, "9356SEL"},
	{Wrap, "WRAP"},
	{MaxDMA0, "MXDMA0"},
	{MaxDMA1, "MXDMA1"},
	{MaxDMA2, "MXDMA2"},
	{RxBufLen0, "RBLEN0"},
	{RxBufLen1, "RBLEN1"},
	{RxFIFOThresh0, "RXFTH0"},
	{RxFIFOThresh1, "RXFTH1"},
	{RxFIFOThresh2, "RXFTH2"},
	{RxErr8, "RER8"},
	{MultiEarlyInt, "MULERINT"},
	{EarlyRxThresh0, "ERTH0"},
	{EarlyRxThresh1, "ERTH1"},
	{EarlyRxThresh2, "ERTH2"},
	{EarlyRxThresh3, "ERTH3"},
}

// Has reports whether every bit of f is set in c.
func (c RxConfig) Has(f RxConfig) bool { return c&f == f }

// Flags returns the names of the set bits, lowest first. Reserved bits
// have no name and are skipped.
func (c RxConfig) Flags() (names []string) {
	for _, n := range rxConfigNames {
		if c&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	return
}

func (c RxConfig) String() string {
	f := c.Flags()
	if len(f) == 0 {
		return "0"
	}
	return strings.Join(f, "|")
}

// BufferLength returns the receive ring size in bytes, including the
// 16 byte pad the chip appends.
func (c RxConfig) BufferLength() int {
	n := (uint32(c) >> rxBufLenShift) & 0x3
	return (8*1024)<<n + 16
}

// MaxDMABurst returns the DMA burst size in bytes, or 0 for unlimited.
func (c RxConfig) MaxDMABurst() int {
	return sizeCode((uint32(c) >> maxDMAShift) & 0x7)
}

// FIFOThreshold returns the receive FIFO threshold in bytes, or 0 if the
// chip waits for a whole packet.
func (c RxConfig) FIFOThreshold() int {
	return sizeCode((uint32(c) >> fifoThreshShift) & 0x7)
}

// EarlyThreshold returns the raw 4 bit early receive threshold.
func (c RxConfig) EarlyThreshold() uint32 {
	return (uint32(c) >> earlyRxShift) & 0xF
}

func sizeCode(n uint32) int {
	if n == 7 {
		return 0
	}
	return 16 << n
}
