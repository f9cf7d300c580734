// core_engine/devices/rtl8139/regs.go
package rtl8139

import "fmt"

// PCI identity of the RTL8139 family.
const (
	VendorRealtek uint16 = 0x10EC
	DeviceRTL8139 uint16 = 0x8139
)

// WindowSize is the length of the chip's I/O window in bytes.
const WindowSize = 0x100

// Offset is a register's byte offset from the device's I/O base.
type Offset uint8

// Register offsets
const (
	IDR0    Offset = 0x00 // MAC address, 6 bytes
	MAR0    Offset = 0x08 // Multicast hash, 8 bytes
	TSD0    Offset = 0x10 // Transmit status of descriptor 0 (4 descriptors)
	TSAD0   Offset = 0x20 // Transmit start address of descriptor 0 (4 descriptors)
	RBSTART Offset = 0x30 // Receive buffer start address
	ERBCR   Offset = 0x34 // Early receive byte count
	ERSR    Offset = 0x36 // Early receive status
	CR      Offset = 0x37 // Command
	CAPR    Offset = 0x38 // Current address of packet read
	CBR     Offset = 0x3A // Current buffer address
	IMR     Offset = 0x3C // Interrupt mask
	ISR     Offset = 0x3E // Interrupt status
	TCR     Offset = 0x40 // Transmit configuration
	RCR     Offset = 0x44 // Receive configuration
	TCTR    Offset = 0x48 // Timer count
	MPC     Offset = 0x4C // Missed packet counter
	Cfg9346 Offset = 0x50 // 93C46 command
	Config0 Offset = 0x51
	Config1 Offset = 0x52
	MSR     Offset = 0x58 // Media status
	Config3 Offset = 0x59
	Config4 Offset = 0x5A
	MULINT  Offset = 0x5C // Multiple interrupt select
	BMCR    Offset = 0x62 // Basic mode control
)

var offsetNames = map[Offset]string{
	IDR0:    "IDR0",
	MAR0:    "MAR0",
	TSD0:    "TSD0",
	TSAD0:   "TSAD0",
	RBSTART: "RBSTART",
	ERBCR:   "ERBCR",
	ERSR:    "ERSR",
	CR:      "CR",
	CAPR:    "CAPR",
	CBR:     "CBR",
	IMR:     "IMR",
	ISR:     "ISR",
	TCR:     "TCR",
	RCR:     "RCR",
	TCTR:    "TCTR",
	MPC:     "MPC",
	Cfg9346: "9346CR",
	Config0: "CONFIG0",
	Config1: "CONFIG1",
	MSR:     "MSR",
	Config3: "CONFIG3",
	Config4: "CONFIG4",
	MULINT:  "MULINT",
	BMCR:    "BMCR",
}

func (o Offset) String() string {
	if n, ok := offsetNames[o]; ok {
		return n
	}
	return fmt.Sprintf("reg(0x%02x)", uint8(o))
}
