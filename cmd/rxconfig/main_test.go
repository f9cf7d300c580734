package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runTool(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_SimInit(t *testing.T) {
	code, out, stderr := runTool(t, "-backend", "sim", "-base", "0xc000", "-verify", "init")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "0x0000c044")
	assert.Contains(t, out, "0x00000b0e")
	assert.Contains(t, out, "APM|AM|AB|MXDMA0|MXDMA1|RBLEN0")
	assert.Contains(t, out, "16400 bytes")
	assert.Contains(t, out, "128 bytes")
}

func TestRun_SimShowFreshChip(t *testing.T) {
	code, out, _ := runTool(t, "-backend", "sim", "-base", "0xc000", "-format", "json", "show")
	require.Equal(t, 0, code)

	var rep Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "0x0000c044", rep.Address)
	assert.Equal(t, "0x00000000", rep.Value)
	assert.Empty(t, rep.Flags)
	assert.Equal(t, 8*1024+16, rep.BufferLength)
	assert.Equal(t, "9346", rep.EEPROM)
}

func TestRun_YAMLOutput(t *testing.T) {
	code, out, _ := runTool(t, "-backend", "sim", "-base", "0xe000", "-format", "yaml", "init")
	require.Equal(t, 0, code)

	var rep Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "0x0000e044", rep.Address)
	assert.Equal(t, []string{"APM", "AM", "AB", "MXDMA0", "MXDMA1", "RBLEN0"}, rep.Flags)
	assert.Equal(t, 128, rep.MaxDMABurst)
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rxconfig.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_address: 0xd000\nbackend: sim\nformat: json\nverify: true\n"), 0o644))

	code, out, stderr := runTool(t, "-config", path, "init")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, `"address": "0x0000d044"`)

	// Flags override the file.
	code, out, _ = runTool(t, "-config", path, "-base", "0xc000", "-format", "text", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "0x0000c044")
}

func TestRun_Sysfs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "0000:00:03.0")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor"), []byte("0x10ec\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "device"), []byte("0x8139\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resource"),
		[]byte("0x000000000000c100 0x000000000000c1ff 0x0000000000040101\n"), 0o644))

	code, out, stderr := runTool(t, "-backend", "sim", "-sysfs", dir, "init")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "0x0000c144")
}

func TestRun_DevPortFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("/dev/port backend is linux only")
	}
	path := filepath.Join(t.TempDir(), "port")
	require.NoError(t, os.WriteFile(path, make([]byte, 0x10000), 0o600))

	code, out, stderr := runTool(t, "-devport", path, "-base", "0xc000", "-verify", "init")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "0x00000b0e")
}

func TestRun_DevPortReadFails(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("/dev/port backend is linux only")
	}
	path := filepath.Join(t.TempDir(), "port")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	code, _, stderr := runTool(t, "-devport", path, "-base", "0xc000", "show")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "port access failed")
}

func TestRun_SimBaseOverflow(t *testing.T) {
	code, _, stderr := runTool(t, "-backend", "sim", "-base", "0xffffff80", "show")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "exceeds port space")
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runTool(t, "-backend", "sim", "-base", "0xc000")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: rxconfig")

	code, _, _ = runTool(t, "-backend", "sim", "-base", "0xc000", "reset")
	assert.Equal(t, 2, code)
}

func TestRun_InvalidConfig(t *testing.T) {
	code, _, stderr := runTool(t, "-backend", "sim", "show")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "no device")

	code, _, stderr = runTool(t, "-backend", "pio", "-base", "0xc000", "show")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown backend")

	code, _, stderr = runTool(t, "-base", "0xzz", "show")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "bad address")
}
