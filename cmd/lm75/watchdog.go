package main

import (
	"context"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/lm75/cmd/lm75/console"
	"github.com/mklimuk/lm75/environment"
)

var shutdownCmd = cli.Command{
	Name:  "shutdown",
	Usage: "control the low power shutdown mode",
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, sensor *environment.LM75) error {
			printShutdown(sensor)
			return nil
		})
	},
	Subcommands: cli.Commands{
		{
			Name:  "on",
			Usage: "stop temperature conversions",
			Action: func(c *cli.Context) error {
				return withSensor(c, func(ctx context.Context, sensor *environment.LM75) error {
					if err := sensor.EnableShutdown(ctx); err != nil {
						return console.ExitErr("could not enable shutdown", err)
					}
					printShutdown(sensor)
					return nil
				})
			},
		},
		{
			Name:  "off",
			Usage: "resume temperature conversions",
			Action: func(c *cli.Context) error {
				return withSensor(c, func(ctx context.Context, sensor *environment.LM75) error {
					if err := sensor.DisableShutdown(ctx); err != nil {
						return console.ExitErr("could not disable shutdown", err)
					}
					printShutdown(sensor)
					return nil
				})
			},
		},
	},
}

func printShutdown(sensor *environment.LM75) {
	if sensor.IsShutdown() {
		console.PInfof(console.PictoSleep, "%s is %s", sensor, console.Yellow("shut down"))
		return
	}
	console.PInfof(console.PictoThermometer, "%s is %s", sensor, console.Green("converting"))
}

var configCmd = cli.Command{
	Name:  "config",
	Usage: "read the configuration register",
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, sensor *environment.LM75) error {
			console.PInfof(console.PictoWrench, "configuration: %s", console.White(sensor.Configuration()))
			return nil
		})
	},
	Subcommands: cli.Commands{
		{
			Name:      "set",
			Usage:     "write a raw configuration byte",
			ArgsUsage: "<hex>",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "do not ask for confirmation",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return console.Exit(console.ExitValidation, "expected exactly one configuration byte")
				}
				conf, err := parseConfiguration(c.Args().First())
				if err != nil {
					return console.Exit(console.ExitValidation, "%s", console.Red(err))
				}
				if !c.Bool("yes") {
					ok, err := console.Confirm("write configuration " + conf.String() + "?")
					if err != nil {
						return console.Exit(console.ExitFailure, "prompt error: %s", console.Red(err))
					}
					if !ok {
						console.Warnf("configuration left unchanged")
						return nil
					}
				}
				return withSensor(c, func(ctx context.Context, sensor *environment.LM75) error {
					if err := sensor.SetConfiguration(ctx, conf); err != nil {
						return console.ExitErr("could not write configuration", err)
					}
					console.PInfof(console.PictoWrench, "configuration: %s", console.White(sensor.Configuration()))
					return nil
				})
			},
		},
	},
}

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "print the sensor state as yaml",
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, sensor *environment.LM75) error {
			_, err := sensor.ReadTemperature(ctx)
			if err != nil {
				console.Warnf("temperature read failed: %s", err)
			}
			enc := yaml.NewEncoder(console.Output())
			defer enc.Close()
			if err := enc.Encode(sensor.Status()); err != nil {
				return console.Exit(console.ExitFailure, "encoding error: %s", console.Red(err))
			}
			return nil
		})
	},
}
