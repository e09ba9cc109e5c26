package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm75/cmd/lm75/console"
	"github.com/mklimuk/lm75/pkg/config"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := newApp().RunContext(ctx, args)
	if err != nil {
		console.Errorf("%s", err)
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			return exerr.ExitCode()
		}
		return console.ExitFailure
	}
	return 0
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lm75"
	app.EnableBashCompletion = true
	app.Version = config.BuildInfo()
	app.Usage = "LM75 temperature sensor and thermal watchdog cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "enable verbose logging and bus dumps",
			EnvVars: []string{"LM75_VERBOSE"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "sensor profile (yaml)",
			EnvVars: []string{"LM75_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "bus adapter: mcp2221, generic, nanopi or sim",
			EnvVars: []string{"LM75_ADAPTER"},
		},
		&cli.StringFlag{
			Name:    "device",
			Usage:   "i2c device used by the generic adapter",
			EnvVars: []string{"LM75_DEVICE"},
		},
		&cli.IntFlag{
			Name:    "bus",
			Usage:   "i2c bus number used by the nanopi adapter (negative for the board default)",
			EnvVars: []string{"LM75_BUS"},
		},
		&cli.StringFlag{
			Name:    "speed",
			Usage:   "bus clock used by the generic adapter (e.g. 400kHz)",
			EnvVars: []string{"LM75_SPEED"},
		},
		&cli.IntFlag{
			Name:    "index",
			Usage:   "MCP2221 index when more than one adapter is plugged in",
			Value:   -1,
			EnvVars: []string{"LM75_MCP2221_INDEX"},
		},
		&cli.StringFlag{
			Name:    "address",
			Usage:   "7-bit sensor address",
			EnvVars: []string{"LM75_ADDRESS"},
		},
		&cli.StringFlag{
			Name:    "variant",
			Usage:   "temperature resolution: 9 or 11 bits",
			EnvVars: []string{"LM75_VARIANT"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "single bus transaction timeout",
			EnvVars: []string{"LM75_TIMEOUT"},
		},
		&cli.Float64Flag{
			Name:  "sim-temp",
			Usage: "temperature reported by the sim adapter",
			Value: 21.5,
		},
	}
	app.Before = func(c *cli.Context) error {
		setupLogging(c.Bool("verbose"))
		return nil
	}
	app.Commands = cli.Commands{
		&initCmd,
		&tempCmd,
		&hystCmd,
		&tosCmd,
		&shutdownCmd,
		&configCmd,
		&statusCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	// exit codes are handled by run
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func setupLogging(verbose bool) {
	charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	charm.SetColorProfile(termenv.TrueColor)
	charm.SetLevel(chlog.InfoLevel)
	if verbose {
		charm.SetLevel(chlog.DebugLevel)
	}
	slog.SetDefault(slog.New(charm))
}
