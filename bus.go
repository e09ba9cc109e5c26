package lm75

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")
var ErrTimeout = fmt.Errorf("bus transaction timed out")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// RegisterBus is a bus able to address registers of a device directly.
// The bounded wait of a single transaction is carried by ctx; an expired
// deadline must be reported as an error, never block further.
type RegisterBus interface {
	WriteRegister(ctx context.Context, address, register byte, data []byte) error
	ReadRegister(ctx context.Context, address, register byte, buffer []byte) error
}

// MaxAddress is the highest 7-bit device address.
const MaxAddress = 0x7F

// FrameAddress returns the address byte put on the wire for a 7-bit device
// address: the address in the top seven bits, R/W flag in bit 0.
func FrameAddress(address byte, read bool) byte {
	framed := address << 1
	if read {
		framed |= 0x01
	}
	return framed
}
