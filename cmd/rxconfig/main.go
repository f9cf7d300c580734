// Command rxconfig reads or programs the receive configuration register of
// an RTL8139.
//
// Usage:
//
//	rxconfig [flags] show|init
//
// Flags:
//
//	-config string     YAML configuration file
//	-base addr         I/O base address of the device, e.g. 0xc000
//	-sysfs string      PCI function directory or slot, e.g. 0000:00:03.0
//	-backend string    Port I/O backend: devport, sim (default "devport")
//	-devport string    Path of the port device (default "/dev/port")
//	-format string     Output format: text, json, yaml (default "text")
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-verify            After init, read the register back and compare
//
// Examples:
//
//	# Decode the register of the first NIC found by the BIOS
//	rxconfig -sysfs 0000:00:03.0 show
//
//	# Try the init policy against an emulated chip
//	rxconfig -backend sim -base 0xc000 -verify init
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"example.com/nic-architect/core_engine/devices"
	"example.com/nic-architect/core_engine/devices/rtl8139"
	"example.com/nic-architect/core_engine/pci"
)

// simMAC is the address the emulated window reports in IDR0-5.
var simMAC = [6]byte{0x52, 0x54, 0x00, 0x12, 0x34, 0x56}

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, cmd, err := parseArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "rxconfig: %v\n", err)
		}
		return 2
	}

	level, _ := parseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := execute(cfg, cmd, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "rxconfig: %v\n", err)
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (Config, string, error) {
	fs := flag.NewFlagSet("rxconfig", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var set Config
	configFile := fs.String("config", "", "YAML configuration file")
	fs.Var(hexFlag{&set.BaseAddress}, "base", "I/O base address of the device")
	fs.StringVar(&set.SysfsDevice, "sysfs", "", "PCI function directory or slot")
	fs.StringVar(&set.Backend, "backend", BackendDevPort, "Port I/O backend: devport, sim")
	fs.StringVar(&set.DevPortPath, "devport", devices.DefaultDevPort, "Path of the port device")
	fs.StringVar(&set.Format, "format", "text", "Output format: text, json, yaml")
	fs.StringVar(&set.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&set.Verify, "verify", false, "After init, read the register back and compare")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: rxconfig [flags] show|init")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, "", err
	}

	cfg := defaultConfig()
	if *configFile != "" {
		if err := LoadConfig(*configFile, &cfg); err != nil {
			return Config{}, "", err
		}
	}
	// Flags given on the command line win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base":
			cfg.BaseAddress = set.BaseAddress
		case "sysfs":
			cfg.SysfsDevice = set.SysfsDevice
		case "backend":
			cfg.Backend = set.Backend
		case "devport":
			cfg.DevPortPath = set.DevPortPath
		case "format":
			cfg.Format = set.Format
		case "log-level":
			cfg.LogLevel = set.LogLevel
		case "verify":
			cfg.Verify = set.Verify
		}
	})

	if fs.NArg() != 1 || (fs.Arg(0) != "show" && fs.Arg(0) != "init") {
		fs.Usage()
		return Config{}, "", errUsage
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, fs.Arg(0), nil
}

func execute(cfg Config, cmd string, stdout io.Writer, logger *slog.Logger) error {
	dev, err := resolveDevice(cfg, logger)
	if err != nil {
		return err
	}

	var ioErr error
	port, closePort, err := openBackend(cfg, dev, logger, func(op string, p uint32, err error) {
		logger.Error("port access failed", slog.String("op", op), slog.String("port", fmt.Sprintf("%#x", p)), slog.Any("err", err))
		if ioErr == nil {
			ioErr = err
		}
	})
	if err != nil {
		return err
	}
	defer closePort()

	reg := rtl8139.Load(dev, port, rtl8139.WithLogger(logger))
	logger.Debug("receive config register bound", slog.String("addr", fmt.Sprintf("%#x", reg.Address())))

	if cmd == "init" {
		if cfg.Verify {
			err = rtl8139.InitAndVerify(reg)
		} else {
			reg.Init()
		}
	}
	if ioErr != nil {
		return ioErr
	}
	if err != nil {
		return err
	}

	c := reg.Config()
	if ioErr != nil {
		return ioErr
	}
	return newReport(reg.Address(), c).write(stdout, cfg.Format)
}

func resolveDevice(cfg Config, logger *slog.Logger) (rtl8139.Device, error) {
	if cfg.SysfsDevice == "" {
		return pci.Static(cfg.BaseAddress), nil
	}
	d, err := pci.ReadSysfsDevice(cfg.SysfsDevice)
	if err != nil {
		return nil, err
	}
	if err := d.CheckRTL8139(); err != nil {
		return nil, err
	}
	if cfg.BaseAddress != 0 && cfg.BaseAddress != d.BaseAddress() {
		logger.Warn("base address ignored, using BAR0",
			slog.String("base", fmt.Sprintf("%#x", cfg.BaseAddress)),
			slog.String("bar0", fmt.Sprintf("%#x", d.BaseAddress())))
	}
	return d, nil
}

func openBackend(cfg Config, dev rtl8139.Device, logger *slog.Logger, onErr devices.ErrorHandler) (rtl8139.PortIO, func(), error) {
	switch cfg.Backend {
	case BackendSim:
		bus := devices.NewIOBus().WithLogger(logger)
		win, err := devices.NewRTL8139Window(dev.BaseAddress(), simMAC, false, devices.WithWindowLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		bus.RegisterDevice(win.Base(), win.End(), win)
		return devices.Infallible(bus, onErr), func() {}, nil
	default:
		p, err := devices.OpenDevPort(cfg.DevPortPath)
		if err != nil {
			return nil, nil, err
		}
		return devices.Infallible(p, onErr), func() { p.Close() }, nil
	}
}
