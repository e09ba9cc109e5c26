package environment

import (
	"context"
	"fmt"

	"github.com/mklimuk/lm75"
)

var _ lm75.RegisterBus = &MockLM75Bus{}

// TemperatureBehaviorFunc defines the function signature for temperature behavior.
// It returns the temperature in Celsius or an error.
type TemperatureBehaviorFunc func(ctx context.Context) (float32, error)

// TransferBehaviorFunc is consulted before every register transfer; a non-nil
// error aborts the transfer. write is true for register writes.
type TransferBehaviorFunc func(ctx context.Context, register byte, write bool) error

// MockLM75Bus simulates the register file of a single LM75 so the driver can
// be exercised without hardware. Registers start at the datasheet power-on
// values: configuration 0x00, Thyst 75°C, Tos 80°C.
//
// Example usage:
//
//	bus := NewMockLM75Bus(func(ctx context.Context) (float32, error) { return 21.5, nil })
//	sensor, err := InitLM75(ctx, bus, NineBit, 75, 80)
type MockLM75Bus struct {
	address   byte
	variant   Variant
	registers [4][2]byte
	behavior  TemperatureBehaviorFunc
	transfer  TransferBehaviorFunc
	writes    int
	reads     int
}

// NewMockLM75Bus creates a simulated device at the default address. The
// behavior function, when not nil, produces the temperature register content
// on every read.
func NewMockLM75Bus(behavior TemperatureBehaviorFunc) *MockLM75Bus {
	m := &MockLM75Bus{
		address:  lm75DefaultAddress,
		variant:  NineBit,
		behavior: behavior,
	}
	m.registers[lm75HystRegister] = [2]byte{0x4B, 0x00}
	m.registers[lm75TosRegister] = [2]byte{0x50, 0x00}
	return m
}

// SetAddress changes the address the simulated device answers on.
func (m *MockLM75Bus) SetAddress(address byte) {
	m.address = address
}

// SetVariant selects the layout used to encode behavior temperatures.
func (m *MockLM75Bus) SetVariant(variant Variant) {
	m.variant = variant
}

// SetTransferBehavior installs a hook called before every transfer, typically
// to inject bus failures.
func (m *MockLM75Bus) SetTransferBehavior(behavior TransferBehaviorFunc) {
	m.transfer = behavior
}

// SetTemperatureRaw sets the temperature register content used when no
// behavior function is installed.
func (m *MockLM75Bus) SetTemperatureRaw(raw uint16) {
	m.registers[lm75TempRegister] = [2]byte{byte(raw >> 8), byte(raw)}
}

// Register returns a copy of the register content; the configuration
// register is a single byte.
func (m *MockLM75Bus) Register(register byte) []byte {
	switch {
	case register > lm75TosRegister:
		return nil
	case register == lm75ConfigRegister:
		return []byte{m.registers[register][0]}
	}
	reg := m.registers[register]
	return reg[:]
}

// Writes returns the number of successful register writes.
func (m *MockLM75Bus) Writes() int {
	return m.writes
}

// Reads returns the number of successful register reads.
func (m *MockLM75Bus) Reads() int {
	return m.reads
}

func (m *MockLM75Bus) WriteRegister(ctx context.Context, address, register byte, data []byte) error {
	if err := m.check(ctx, address, register, true); err != nil {
		return err
	}
	switch register {
	case lm75TempRegister:
		return fmt.Errorf("lm75 mock: temperature register is read-only")
	case lm75ConfigRegister:
		if len(data) != 1 {
			return fmt.Errorf("lm75 mock: expected 1 byte for config register, got %d", len(data))
		}
		m.registers[register][0] = data[0]
	default:
		if len(data) != 2 {
			return fmt.Errorf("lm75 mock: expected 2 bytes for register %#x, got %d", register, len(data))
		}
		copy(m.registers[register][:], data)
	}
	m.writes++
	return nil
}

func (m *MockLM75Bus) ReadRegister(ctx context.Context, address, register byte, buffer []byte) error {
	if err := m.check(ctx, address, register, false); err != nil {
		return err
	}
	if register == lm75TempRegister && m.behavior != nil {
		temp, err := m.behavior(ctx)
		if err != nil {
			return err
		}
		m.registers[register] = EncodeTemperature(temp, m.variant)
	}
	if register == lm75ConfigRegister {
		if len(buffer) > 0 {
			buffer[0] = m.registers[register][0]
		}
	} else {
		copy(buffer, m.registers[register][:])
	}
	m.reads++
	return nil
}

func (m *MockLM75Bus) check(ctx context.Context, address, register byte, write bool) error {
	if err := ctx.Err(); err != nil {
		return lm75.ContextError(err)
	}
	if address != m.address {
		return fmt.Errorf("lm75 mock: no acknowledge from %#x", address)
	}
	if register > lm75TosRegister {
		return fmt.Errorf("lm75 mock: no register %#x", register)
	}
	if m.transfer != nil {
		return m.transfer(ctx, register, write)
	}
	return nil
}
