package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mklimuk/lm75"
)

func TestMCP2221_FrameWrite(t *testing.T) {
	request := make([]byte, reportSize)
	frameTransfer(request, cmdI2CWriteData, 0x48, false, []byte{0x02, 0x4B, 0x00})
	assert.Equal(t, []byte{0x90, 0x03, 0x00, 0x90, 0x02, 0x4B, 0x00, 0x00}, request[:8])
}

func TestMCP2221_FrameRead(t *testing.T) {
	request := make([]byte, reportSize)
	frameTransfer(request, cmdI2CReadData, 0x48, true, make([]byte, 2))
	assert.Equal(t, []byte{0x91, 0x02, 0x00, 0x91, 0x00}, request[:5])
}

func TestMCP2221_BufferToStatus(t *testing.T) {
	buf := make([]byte, reportSize)
	buf[0] = cmdStatusSetParameters
	buf[9], buf[10] = 0x03, 0x00
	buf[11], buf[12] = 0x02, 0x00
	buf[13] = 4
	buf[14] = 118
	buf[15] = 5
	buf[16], buf[17] = 0x90, 0x00
	buf[25] = 1

	assert.Equal(t, &MCP2221Status{
		I2CDataBufferCounter:   4,
		I2CSpeedDivider:        118,
		I2CTimeout:             5,
		CurrentAddress:         "9000",
		LastWriteRequestedSize: 3,
		LastWriteSentSize:      2,
		ReadPending:            1,
	}, bufferToStatus(buf))
}

func TestMCP2221_ResetBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	resetBuffer(buf)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}

func TestMCP2221_Options(t *testing.T) {
	d := NewMCP2221(WithDeviceIndex(1), WithResponseWait(10*time.Millisecond))
	assert.Equal(t, 1, d.id)
	assert.Equal(t, 10*time.Millisecond, d.responseWait)
	assert.Len(t, d.request, reportSize)
}

func TestMCP2221_ExpiredContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	err := NewMCP2221().WriteToAddr(ctx, 0x48, []byte{0x01, 0x08})
	assert.ErrorIs(t, err, lm75.ErrTimeout)
}

func TestMCP2221_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMCP2221().WriteToAddr(ctx, 0x48, []byte{0x01, 0x08})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, lm75.ErrTimeout)
}
