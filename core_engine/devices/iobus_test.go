package devices_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/nic-architect/core_engine/devices"
)

// MockPioDevice records every access and answers reads from ReadData.
type MockPioDevice struct {
	Accesses []Access
	ReadData []byte
	Err      error
}

type Access struct {
	Port      uint32
	Direction uint8
	Size      uint8
	Data      []byte
}

func (m *MockPioDevice) HandleIO(port uint32, direction uint8, size uint8, data []byte) error {
	if m.Err != nil {
		return m.Err
	}
	if direction == devices.IODirectionIn {
		copy(data, m.ReadData)
	}
	m.Accesses = append(m.Accesses, Access{port, direction, size, append([]byte(nil), data...)})
	return nil
}

func newTestBus(buf *bytes.Buffer) *devices.IOBus {
	return devices.NewIOBus().WithLogger(slog.New(slog.NewTextHandler(buf, nil)))
}

func TestIOBus_RoutesToDevice(t *testing.T) {
	var logs bytes.Buffer
	bus := newTestBus(&logs)
	dev := &MockPioDevice{}
	bus.RegisterDevice(0xC000, 0xC0FF, dev)

	require.NoError(t, bus.HandleIO(0xC044, devices.IODirectionOut, 1, []byte{0x5A}))
	require.Len(t, dev.Accesses, 1)
	assert.Equal(t, Access{0xC044, devices.IODirectionOut, 1, []byte{0x5A}}, dev.Accesses[0])
	assert.Empty(t, logs.String())
}

func TestIOBus_UnhandledPort(t *testing.T) {
	bus := newTestBus(&bytes.Buffer{})
	err := bus.HandleIO(0x300, devices.IODirectionIn, 1, make([]byte, 1))
	assert.ErrorIs(t, err, devices.ErrUnhandledPort)
}

func TestIOBus_NilDeviceIgnored(t *testing.T) {
	var logs bytes.Buffer
	bus := newTestBus(&logs)
	bus.RegisterDevice(0x10, 0x1F, nil)
	assert.Contains(t, logs.String(), "nil device")
	assert.ErrorIs(t, bus.HandleIO(0x10, devices.IODirectionIn, 1, make([]byte, 1)), devices.ErrUnhandledPort)
}

func TestIOBus_OverwriteWarns(t *testing.T) {
	var logs bytes.Buffer
	bus := newTestBus(&logs)
	first, second := &MockPioDevice{}, &MockPioDevice{}
	bus.RegisterDevice(0x10, 0x11, first)
	bus.RegisterDevice(0x11, 0x12, second)

	require.NoError(t, bus.HandleIO(0x11, devices.IODirectionOut, 1, []byte{1}))
	assert.Empty(t, first.Accesses)
	assert.Len(t, second.Accesses, 1)
	assert.Contains(t, logs.String(), "overwriting")
}

func TestIOBus_LastPort(t *testing.T) {
	bus := newTestBus(&bytes.Buffer{})
	dev := &MockPioDevice{}
	bus.RegisterDevice(0xFFFFFFFE, 0xFFFFFFFF, dev)
	assert.NoError(t, bus.HandleIO(0xFFFFFFFF, devices.IODirectionOut, 1, []byte{1}))
}

func TestIOBus_Port32LittleEndian(t *testing.T) {
	bus := newTestBus(&bytes.Buffer{})
	dev := &MockPioDevice{ReadData: []byte{0x0E, 0x0B, 0x00, 0x00}}
	bus.RegisterDevice(0xC000, 0xC0FF, dev)

	require.NoError(t, bus.WritePort32(0xC044, 0x11223344))
	assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, dev.Accesses[0].Data)
	assert.Equal(t, uint8(4), dev.Accesses[0].Size)

	v, err := bus.ReadPort32(0xC044)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00000B0E), v)
}

func TestIOBus_Read32FloatsOnError(t *testing.T) {
	var logs bytes.Buffer
	bus := newTestBus(&logs)
	assert.Equal(t, devices.FloatingBus, bus.Read32(0xC044))
	assert.Contains(t, logs.String(), "read failed")

	bus.RegisterDevice(0xC000, 0xC0FF, &MockPioDevice{Err: errors.New("boom")})
	bus.Write32(0xC044, 1)
	assert.Contains(t, logs.String(), "write failed")
	assert.Contains(t, logs.String(), "boom")
}
