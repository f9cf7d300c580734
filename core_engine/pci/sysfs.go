package pci

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SysfsRoot is where Linux lists PCI functions.
const SysfsRoot = "/sys/bus/pci/devices"

// ReadSysfsDevice reads the IDs and BARs of the function at dir, for
// example /sys/bus/pci/devices/0000:00:03.0. A bare slot name is resolved
// under SysfsRoot.
func ReadSysfsDevice(dir string) (*Device, error) {
	if !strings.ContainsRune(dir, os.PathSeparator) {
		dir = filepath.Join(SysfsRoot, dir)
	}
	d := &Device{Slot: filepath.Base(dir)}

	var err error
	if d.VendorID, err = readHex16(filepath.Join(dir, "vendor")); err != nil {
		return nil, err
	}
	if d.DeviceID, err = readHex16(filepath.Join(dir, "device")); err != nil {
		return nil, err
	}
	if d.BARs, err = readResources(filepath.Join(dir, "resource")); err != nil {
		return nil, err
	}
	return d, nil
}

func readHex16(path string) (uint16, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("pci: %w", err)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("pci: %s: %w", path, err)
	}
	return uint16(v), nil
}

// readResources parses "start end flags" lines. Lines past the sixth
// describe the expansion ROM and bridge windows and are ignored.
func readResources(path string) (bars [6]Resource, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("pci: %w", err)
		return
	}
	s := bufio.NewScanner(bytes.NewReader(b))
	for i := 0; i < len(bars) && s.Scan(); i++ {
		f := strings.Fields(s.Text())
		if len(f) != 3 {
			err = fmt.Errorf("pci: %s line %d: want 3 fields, got %d", path, i+1, len(f))
			return
		}
		var v [3]uint64
		for j := range f {
			if v[j], err = strconv.ParseUint(f[j], 0, 64); err != nil {
				err = fmt.Errorf("pci: %s line %d: %w", path, i+1, err)
				return
			}
		}
		bars[i] = Resource{Start: v[0], End: v[1], Flags: v[2]}
	}
	err = s.Err()
	return
}
