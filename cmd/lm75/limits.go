package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm75/cmd/lm75/console"
	"github.com/mklimuk/lm75/environment"
)

var initCmd = cli.Command{
	Name:  "init",
	Usage: "write configuration, hysteresis and shutdown threshold",
	Flags: []cli.Flag{
		&cli.Float64Flag{
			Name:  "hyst",
			Usage: "hysteresis temperature in °C",
		},
		&cli.Float64Flag{
			Name:  "tos",
			Usage: "overtemperature shutdown threshold in °C",
		},
		&cli.StringFlag{
			Name:  "configuration",
			Usage: "configuration register byte (hex)",
		},
	},
	Action: func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return console.ExitErr("could not open bus", err)
		}
		defer s.Close()
		hyst, tos := s.settings.Hysteresis, s.settings.ShutdownThreshold
		if c.IsSet("hyst") {
			hyst = float32(c.Float64("hyst"))
		}
		if c.IsSet("tos") {
			tos = float32(c.Float64("tos"))
		}
		opts := s.sensorOptions()
		if c.IsSet("configuration") {
			conf, err := parseConfiguration(c.String("configuration"))
			if err != nil {
				return console.Exit(console.ExitValidation, "%s", console.Red(err))
			}
			opts = append(opts, environment.WithConfiguration(conf))
		}
		sensor, err := environment.InitLM75(s.ctx, s.conn.bus, s.settings.variant, hyst, tos, opts...)
		if err != nil {
			return console.ExitErr("initialization failed", err)
		}
		console.PInfof(console.PictoWrench, "%s initialized: configuration %s, hysteresis %s, shutdown threshold %s",
			sensor, console.White(sensor.Configuration()), console.White(formatTemp(sensor.Hysteresis())),
			console.White(formatTemp(sensor.ShutdownThreshold())))
		return nil
	},
}

var hystCmd = limitCommand("hyst", "hysteresis", limit{
	read: func(ctx context.Context, sensor *environment.LM75) (float32, error) {
		return sensor.ReadHysteresis(ctx)
	},
	set: func(ctx context.Context, sensor *environment.LM75, temp float32) error {
		return sensor.SetHysteresis(ctx, temp)
	},
})

var tosCmd = limitCommand("tos", "overtemperature shutdown threshold", limit{
	read: func(ctx context.Context, sensor *environment.LM75) (float32, error) {
		return sensor.ReadShutdownThreshold(ctx)
	},
	set: func(ctx context.Context, sensor *environment.LM75, temp float32) error {
		return sensor.SetShutdownThreshold(ctx, temp)
	},
})

type limit struct {
	read func(ctx context.Context, sensor *environment.LM75) (float32, error)
	set  func(ctx context.Context, sensor *environment.LM75, temp float32) error
}

// limitCommand reads a threshold register, or writes it with the set
// subcommand.
func limitCommand(name, description string, l limit) cli.Command {
	return cli.Command{
		Name:  name,
		Usage: "read the " + description,
		Action: func(c *cli.Context) error {
			return withSensor(c, func(ctx context.Context, sensor *environment.LM75) error {
				temp, err := l.read(ctx, sensor)
				if err != nil {
					return console.ExitErr("could not read "+description, err)
				}
				console.PInfof(console.PictoThermometer, "%s: %s", description, console.White(formatTemp(temp)))
				return nil
			})
		},
		Subcommands: cli.Commands{
			{
				Name:      "set",
				Usage:     "write the " + description,
				ArgsUsage: "[--] <celsius>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return console.Exit(console.ExitValidation, "expected exactly one temperature argument")
					}
					temp, err := parseTemperature(c.Args().First())
					if err != nil {
						return console.Exit(console.ExitValidation, "%s", console.Red(err))
					}
					return withSensor(c, func(ctx context.Context, sensor *environment.LM75) error {
						err := l.set(ctx, sensor, temp)
						if err != nil {
							return console.ExitErr("could not set "+description, err)
						}
						console.PInfof(console.PictoWrench, "%s set to %s", description, console.White(formatTemp(temp)))
						return nil
					})
				},
			},
		},
	}
}

func formatTemp(temp float32) string {
	return fmt.Sprintf("%.3f°C", temp)
}
