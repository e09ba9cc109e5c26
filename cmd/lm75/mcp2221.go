package main

import (
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/lm75/adapter"
	"github.com/mklimuk/lm75/cmd/lm75/console"
	"github.com/mklimuk/lm75/snsctx"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 adapter maintenance",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name:  "status",
	Usage: "print the adapter I2C engine state",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(adapter.WithDeviceIndex(c.Int("index")))
		ctx := snsctx.WithVerbose(c.Context, c.Bool("verbose"))
		status, err := a.Status(ctx)
		return printAdapterStatus(status, err)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the pending transfer and free the bus",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(adapter.WithDeviceIndex(c.Int("index")))
		ctx := snsctx.WithVerbose(c.Context, c.Bool("verbose"))
		status, err := a.ReleaseBus(ctx)
		return printAdapterStatus(status, err)
	},
}

func printAdapterStatus(status *adapter.MCP2221Status, err error) error {
	if err != nil {
		return console.Exit(console.ExitTransport, "adapter communication error: %s", console.Red(err))
	}
	enc := yaml.NewEncoder(console.Output())
	defer enc.Close()
	err = enc.Encode(status)
	if err != nil {
		return console.Exit(console.ExitFailure, "encoding error: %s", console.Red(err))
	}
	return nil
}
