// Package board provides register access through gobot platform adaptors
// (NanoPi, Raspberry Pi, ...).
package board

import (
	"context"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/lm75"
)

var _ lm75.RegisterBus = &ConnectorBus{}

// blockConnection is the part of a gobot i2c.Connection used here.
type blockConnection interface {
	ReadBlockData(reg uint8, b []byte) error
	WriteBlockData(reg uint8, b []byte) error
	Close() error
}

type opener func(address int) (blockConnection, error)

// ConnectorBus opens one gobot connection per device address on a given bus
// number and keeps it until Close.
type ConnectorBus struct {
	mx    sync.Mutex
	open  opener
	conns map[byte]blockConnection
}

// NewConnectorBus uses bus busNr of the connector, or its default bus when
// busNr is negative. The connector must already be connected.
func NewConnectorBus(connector i2c.Connector, busNr int) *ConnectorBus {
	if busNr < 0 {
		busNr = connector.DefaultI2cBus()
	}
	return newConnectorBus(func(address int) (blockConnection, error) {
		return connector.GetI2cConnection(address, busNr)
	})
}

func newConnectorBus(open opener) *ConnectorBus {
	return &ConnectorBus{open: open, conns: make(map[byte]blockConnection)}
}

func (b *ConnectorBus) connection(address byte) (blockConnection, error) {
	conn, ok := b.conns[address]
	if ok {
		return conn, nil
	}
	conn, err := b.open(int(address))
	if err != nil {
		return nil, fmt.Errorf("could not open connection to %#x: %w", address, err)
	}
	b.conns[address] = conn
	return conn, nil
}

func (b *ConnectorBus) WriteRegister(ctx context.Context, address, register byte, data []byte) error {
	return b.do(ctx, address, func(conn blockConnection) error {
		return conn.WriteBlockData(register, data)
	})
}

func (b *ConnectorBus) ReadRegister(ctx context.Context, address, register byte, buffer []byte) error {
	return b.do(ctx, address, func(conn blockConnection) error {
		return conn.ReadBlockData(register, buffer)
	})
}

func (b *ConnectorBus) do(ctx context.Context, address byte, op func(blockConnection) error) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	if err := ctx.Err(); err != nil {
		return lm75.ContextError(err)
	}
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	err = op(conn)
	if err != nil {
		return fmt.Errorf("transfer with %#x failed: %w", address, err)
	}
	return nil
}

// Close closes all opened connections.
func (b *ConnectorBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for address, conn := range b.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not close connection to %#x: %w", address, err)
		}
		delete(b.conns, address)
	}
	return firstErr
}
