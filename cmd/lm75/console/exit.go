package console

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm75/environment"
)

// Exit codes per error kind.
const (
	ExitFailure    = 1
	ExitValidation = 2
	ExitRange      = 3
	ExitTransport  = 4
	ExitConversion = 5
)

func Exit(code int, msg string, args ...interface{}) cli.ExitCoder {
	return cli.Exit(fmt.Sprintf(msg, args...), code)
}

// ExitErr reports err prefixed with msg, picking the exit code from the
// driver error kind.
func ExitErr(msg string, err error) cli.ExitCoder {
	return Exit(ExitCode(err), "%s: %s", msg, Red(err))
}

func ExitCode(err error) int {
	switch {
	case errors.Is(err, environment.ErrValidation):
		return ExitValidation
	case errors.Is(err, environment.ErrRange):
		return ExitRange
	case errors.Is(err, environment.ErrTransport):
		return ExitTransport
	case errors.Is(err, environment.ErrConversion):
		return ExitConversion
	default:
		return ExitFailure
	}
}
