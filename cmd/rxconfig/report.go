package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"example.com/nic-architect/core_engine/devices/rtl8139"
)

// Report describes one reading of the receive configuration register.
type Report struct {
	Address        string   `json:"address" yaml:"address"`
	Value          string   `json:"value" yaml:"value"`
	Flags          []string `json:"flags" yaml:"flags"`
	BufferLength   int      `json:"buffer_length" yaml:"buffer_length"`
	MaxDMABurst    int      `json:"max_dma_burst" yaml:"max_dma_burst"`
	FIFOThreshold  int      `json:"fifo_threshold" yaml:"fifo_threshold"`
	EarlyThreshold uint32   `json:"early_threshold" yaml:"early_threshold"`
	EEPROM         string   `json:"eeprom" yaml:"eeprom"`

	raw rtl8139.RxConfig
}

func newReport(addr uint32, c rtl8139.RxConfig) Report {
	r := Report{
		Address:        fmt.Sprintf("0x%08x", addr),
		Value:          fmt.Sprintf("0x%08x", uint32(c)),
		Flags:          c.Flags(),
		BufferLength:   c.BufferLength(),
		MaxDMABurst:    c.MaxDMABurst(),
		FIFOThreshold:  c.FIFOThreshold(),
		EarlyThreshold: c.EarlyThreshold(),
		EEPROM:         "9346",
		raw:            c,
	}
	if r.Flags == nil {
		r.Flags = []string{}
	}
	if c.Has(rtl8139.EEPROM9356) {
		r.EEPROM = "9356"
	}
	return r
}

func sizeOrNone(n int, none string) string {
	if n == 0 {
		return none
	}
	return fmt.Sprintf("%d bytes", n)
}

func (r Report) write(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "address\t%s\n", r.Address)
	fmt.Fprintf(tw, "value\t%s\n", r.Value)
	fmt.Fprintf(tw, "flags\t%s\n", r.raw)
	fmt.Fprintf(tw, "rx buffer\t%d bytes\n", r.BufferLength)
	fmt.Fprintf(tw, "max dma burst\t%s\n", sizeOrNone(r.MaxDMABurst, "unlimited"))
	fmt.Fprintf(tw, "fifo threshold\t%s\n", sizeOrNone(r.FIFOThreshold, "none"))
	fmt.Fprintf(tw, "early threshold\t%d\n", r.EarlyThreshold)
	fmt.Fprintf(tw, "eeprom\t%s\n", r.EEPROM)
	return tw.Flush()
}
