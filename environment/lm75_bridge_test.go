package environment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/lm75"
)

const bridgeReportWait = 50 * time.Millisecond

// bridgeBus answers like a USB to I2C bridge: every report takes
// bridgeReportWait and a read needs a request report and a get-data report.
type bridgeBus struct {
	pointer   byte
	registers map[byte][]byte
}

func (b *bridgeBus) report(ctx context.Context) error {
	select {
	case <-time.After(bridgeReportWait):
		return nil
	case <-ctx.Done():
		return lm75.ContextError(ctx.Err())
	}
}

func (b *bridgeBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := b.report(ctx); err != nil {
		return err
	}
	b.pointer = buffer[0]
	if len(buffer) > 1 {
		b.registers[b.pointer] = append([]byte(nil), buffer[1:]...)
	}
	return nil
}

func (b *bridgeBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	for i := 0; i < 2; i++ {
		if err := b.report(ctx); err != nil {
			return err
		}
	}
	copy(buffer, b.registers[b.pointer])
	return nil
}

func (b *bridgeBus) Release(ctx context.Context) error {
	return nil
}

func TestLM75_DefaultTimeoutCoversBridge(t *testing.T) {
	bridge := &bridgeBus{registers: map[byte][]byte{
		lm75TempRegister:   {0x19, 0x80},
		lm75ConfigRegister: {0x08},
		lm75HystRegister:   {0x4B, 0x00},
		lm75TosRegister:    {0x50, 0x00},
	}}
	bus := lm75.NewRegisterAdapter(bridge)
	ctx := context.Background()

	sensor, err := AttachLM75(ctx, bus, NineBit)
	require.NoError(t, err)
	assert.Equal(t, float32(75), sensor.Hysteresis())
	assert.Equal(t, float32(80), sensor.ShutdownThreshold())

	temp, err := sensor.ReadTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(25.5), temp)

	require.NoError(t, sensor.EnableShutdown(ctx))
	assert.Equal(t, []byte{0x09}, bridge.registers[lm75ConfigRegister])
}

func TestLM75_BridgeCancelled(t *testing.T) {
	bus := lm75.NewRegisterAdapter(&bridgeBus{registers: map[byte][]byte{}})
	sensor, err := newLM75(bus, NineBit, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = sensor.ReadTemperature(ctx)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, lm75.ErrTimeout)
}
