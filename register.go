package lm75

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mklimuk/lm75/snsctx"
)

var _ RegisterBus = &RegisterAdapter{}

// RegisterAdapter exposes register access on top of a plain addressable bus.
// A register read sets the device register pointer with a one byte write and
// then reads the register content.
type RegisterAdapter struct {
	transport I2CBus
}

func NewRegisterAdapter(transport I2CBus) *RegisterAdapter {
	return &RegisterAdapter{transport: transport}
}

func (a *RegisterAdapter) WriteRegister(ctx context.Context, address, register byte, data []byte) error {
	if err := checkDeadline(ctx); err != nil {
		return err
	}
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, register)
	buf = append(buf, data...)
	if snsctx.IsVerbose(ctx) {
		slog.Debug("register write", "address", fmt.Sprintf("%#x", address), "register", register, "dump", hex.EncodeToString(buf))
	}
	err := a.transport.WriteToAddr(ctx, address, buf)
	if err != nil {
		return fmt.Errorf("could not write register %#x: %w", register, err)
	}
	return nil
}

func (a *RegisterAdapter) ReadRegister(ctx context.Context, address, register byte, buffer []byte) error {
	if err := checkDeadline(ctx); err != nil {
		return err
	}
	err := a.transport.WriteToAddr(ctx, address, []byte{register})
	if err != nil {
		return fmt.Errorf("could not set register pointer %#x: %w", register, err)
	}
	// the pointer write may have consumed the whole budget
	if err := checkDeadline(ctx); err != nil {
		return err
	}
	err = a.transport.ReadFromAddr(ctx, address, buffer)
	if err != nil {
		return fmt.Errorf("could not read register %#x: %w", register, err)
	}
	if snsctx.IsVerbose(ctx) {
		slog.Debug("register read", "address", fmt.Sprintf("%#x", address), "register", register, "dump", hex.EncodeToString(buffer))
	}
	return nil
}

func checkDeadline(ctx context.Context) error {
	return ContextError(ctx.Err())
}

// ContextError classifies a context error: an expired deadline is reported
// as ErrTimeout, a cancellation is returned as is.
func ContextError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
