package i2c

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/lm75"
	"github.com/mklimuk/lm75/environment"
)

const addr = 0x48

func TestGenericBus_Registers(t *testing.T) {
	pb := &i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: addr, W: []byte{0x01, 0x08}},
		{Addr: addr, W: []byte{0x00}, R: []byte{0x19, 0x80}},
	}, DontPanic: true}
	bus := NewBus(pb)
	ctx := context.Background()

	require.NoError(t, bus.WriteRegister(ctx, addr, 0x01, []byte{0x08}))
	buf := make([]byte, 2)
	require.NoError(t, bus.ReadRegister(ctx, addr, 0x00, buf))
	assert.Equal(t, []byte{0x19, 0x80}, buf)
	assert.NoError(t, bus.Close())
}

func TestGenericBus_AddressableTransfers(t *testing.T) {
	pb := &i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: addr, W: []byte{0x03}},
		{Addr: addr, R: []byte{0x50, 0x00}},
	}, DontPanic: true}
	bus := NewBus(pb)
	ctx := context.Background()

	require.NoError(t, bus.WriteToAddr(ctx, addr, []byte{0x03}))
	buf := make([]byte, 2)
	require.NoError(t, bus.ReadFromAddr(ctx, addr, buf))
	assert.Equal(t, []byte{0x50, 0x00}, buf)
	assert.NoError(t, bus.Close())
}

func TestGenericBus_UnexpectedTransfer(t *testing.T) {
	pb := &i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: addr, W: []byte{0x00}, R: []byte{0x19, 0x80}},
	}, DontPanic: true}
	bus := NewBus(pb)

	err := bus.WriteRegister(context.Background(), 0x49, 0x01, []byte{0x08})
	assert.Error(t, err)
}

func TestGenericBus_ExpiredContext(t *testing.T) {
	pb := &i2ctest.Playback{DontPanic: true}
	bus := NewBus(pb)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	err := bus.ReadRegister(ctx, addr, 0x00, make([]byte, 2))
	assert.ErrorIs(t, err, lm75.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestGenericBus_LM75 plays back the bus traffic of a full sensor session.
func TestGenericBus_LM75(t *testing.T) {
	pb := &i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: addr, W: []byte{0x01, 0x08}},                  // default configuration
		{Addr: addr, W: []byte{0x02, 0x4b, 0x00}},            // Thyst 75°C
		{Addr: addr, W: []byte{0x03, 0x50, 0x00}},            // Tos 80°C
		{Addr: addr, W: []byte{0x00}, R: []byte{0xe7, 0x00}}, // -25°C
		{Addr: addr, W: []byte{0x01}, R: []byte{0x08}},       // read config
		{Addr: addr, W: []byte{0x01, 0x09}},                  // shutdown
	}, DontPanic: true}
	bus := NewBus(pb)
	ctx := context.Background()

	sensor, err := environment.InitLM75(ctx, bus, environment.NineBit, 75, 80)
	require.NoError(t, err)
	temp, err := sensor.ReadTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(-25), temp)
	require.NoError(t, sensor.EnableShutdown(ctx))
	assert.True(t, sensor.IsShutdown())
	assert.NoError(t, bus.Close())
}

func TestGenericBus_SetSpeed(t *testing.T) {
	bus := NewBus(&i2ctest.Playback{DontPanic: true})
	assert.NoError(t, bus.SetSpeed(400*physic.KiloHertz))
	assert.NotEmpty(t, bus.String())
}
