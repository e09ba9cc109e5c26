package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm75/cmd/lm75/console"
	"github.com/mklimuk/lm75/environment"
)

var tempCmd = cli.Command{
	Name:    "temperature",
	Aliases: []string{"temp"},
	Usage:   "read the current temperature",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "count",
			Usage: "number of readings, 0 reads until interrupted",
			Value: 1,
		},
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "pause between readings",
			Value: time.Second,
		},
	},
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, sensor *environment.LM75) error {
			return readTemperatures(ctx, sensor, c.Int("count"), c.Duration("interval"))
		})
	},
}

func readTemperatures(ctx context.Context, sensor *environment.LM75, count int, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 0; count <= 0 || i < count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
		temp, err := sensor.ReadTemperature(ctx)
		if err != nil {
			return console.ExitErr("error getting temperature read", err)
		}
		printTemperature(sensor, temp)
	}
	return nil
}

func printTemperature(sensor *environment.LM75, temp float32) {
	picto := console.PictoThermometer
	switch {
	case temp >= sensor.ShutdownThreshold():
		picto = console.PictoFire
	case temp < 0:
		picto = console.PictoSnowflake
	}
	console.PInfof(picto, "%s", console.Temperature(temp, sensor.Hysteresis(), sensor.ShutdownThreshold()))
}
