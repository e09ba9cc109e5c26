package lm75

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockI2CBus is a mock implementation of I2CBus using testify/mock
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestRegisterAdapter_WriteRegister(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(0x48), []byte{0x02, 0x4B, 0x00}).Return(nil).Once()

	a := NewRegisterAdapter(bus)
	err := a.WriteRegister(context.Background(), 0x48, 0x02, []byte{0x4B, 0x00})
	require.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestRegisterAdapter_ReadRegister(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(0x49), []byte{0x00}).Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(0x49), mock.Anything).Return([]byte{0x19, 0x80}, nil).Once()

	a := NewRegisterAdapter(bus)
	buf := make([]byte, 2)
	err := a.ReadRegister(context.Background(), 0x49, 0x00, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x19, 0x80}, buf)
	bus.AssertExpectations(t)
}

func TestRegisterAdapter_ReadRegisterPointerFailure(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(0x48), []byte{0x01}).Return(ErrBusBusy).Once()

	a := NewRegisterAdapter(bus)
	err := a.ReadRegister(context.Background(), 0x48, 0x01, make([]byte, 1))
	assert.ErrorIs(t, err, ErrBusBusy)
	bus.AssertNotCalled(t, "ReadFromAddr", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterAdapter_ExpiredDeadline(t *testing.T) {
	bus := new(MockI2CBus)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	a := NewRegisterAdapter(bus)
	err := a.WriteRegister(ctx, 0x48, 0x01, []byte{0x08})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
}

func TestFrameAddress(t *testing.T) {
	assert.Equal(t, byte(0x90), FrameAddress(0x48, false))
	assert.Equal(t, byte(0x91), FrameAddress(0x48, true))
	assert.Equal(t, byte(0x9E), FrameAddress(0x4F, false))
}

func TestContextError(t *testing.T) {
	assert.NoError(t, ContextError(nil))

	err := ContextError(context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = ContextError(context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRegisterAdapter_CancelledContext(t *testing.T) {
	bus := new(MockI2CBus)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRegisterAdapter(bus).ReadRegister(ctx, 0x48, 0x00, make([]byte, 2))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
}
