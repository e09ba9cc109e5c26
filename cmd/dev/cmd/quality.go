package cmd

import (
	"fmt"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

type check struct {
	use   string
	short string
	run   func() error
}

var checks = []check{
	{use: "test", short: "Run unit tests", run: func() error { return test.Test() }},
	{use: "lint", short: "Run linting", run: func() error { return test.Lint() }},
	{use: "integration-test", short: "Run integration tests against attached hardware", run: func() error { return test.Integ() }},
}

// QualityCmds returns one command per check plus "check" running test and
// lint in sequence.
func QualityCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(checks)+1)
	for _, c := range checks {
		cmds = append(cmds, &cobra.Command{
			Use:   c.use,
			Short: c.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runChecks(c)
			},
		})
	}
	cmds = append(cmds, &cobra.Command{
		Use:   "check",
		Short: "Run unit tests and linting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(checks[0], checks[1])
		},
	})
	return cmds
}

func runChecks(cs ...check) error {
	for _, c := range cs {
		if err := c.run(); err != nil {
			return fmt.Errorf("%s failed: %w", c.use, err)
		}
	}
	return nil
}
