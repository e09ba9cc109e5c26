package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gophertribe/devtool/build"
)

const (
	binary        = "dist/lm75"
	mainPackage   = "./cmd/lm75"
	configPackage = "github.com/mklimuk/lm75/pkg/config"
	builderImage  = "gophertribe/gobuild:1.25-bookworm"
)

// boards maps target board names to their os and arch.
var boards = map[string]platform{
	"nanopi": {os: "linux", arch: "arm"},
	"rpi":    {os: "linux", arch: "arm64"},
}

type platform struct {
	os   string
	arch string
}

func (p platform) native() bool {
	return p.os == runtime.GOOS && p.arch == runtime.GOARCH
}

func (p platform) String() string {
	return p.os + "-" + p.arch
}

// resolvePlatform picks the build platform; a board preset wins over the
// cross flags, which win over os and arch.
func resolvePlatform(host, cross platform, board string) (platform, error) {
	if board != "" {
		p, ok := boards[board]
		if !ok {
			return platform{}, fmt.Errorf("unknown board %q", board)
		}
		return p, nil
	}
	if cross.os != "" && cross.arch != "" {
		return cross, nil
	}
	return host, nil
}

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the lm75 cli",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			host := platform{os: flags.Lookup("os").Value.String(), arch: flags.Lookup("arch").Value.String()}
			cross := platform{os: flags.Lookup("cross-os").Value.String(), arch: flags.Lookup("cross-arch").Value.String()}
			version := flags.Lookup("version").Value.String()
			board := flags.Lookup("board").Value.String()

			target, err := resolvePlatform(host, cross, board)
			if err != nil {
				return err
			}
			// the hid package needs cgo, so foreign targets go through the builder image
			if host.native() {
				slog.Info("building", "target", target, "version", version)
				return build.GoBuild(binary, mainPackage, build.GoBuildOpts{
					Version:       version,
					InjectVersion: true,
					ConfigPackage: configPackage,
					EnableCgo:     true,
					Arch:          target.arch,
					OS:            target.os,
				})
			}

			noCache, err := flags.GetBool("no-cache")
			if err != nil {
				return fmt.Errorf("could not get no-cache flag: %w", err)
			}
			return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s", host), []string{"build", "--version", version, "--cross-os", target.os, "--cross-arch", target.arch}, build.DockerBuildOpts{
				NoCache: noCache,
				Image:   builderImage,
			})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building the app")
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for")
	cmd.Flags().String("board", "", "target board preset (nanopi, rpi)")

	return cmd
}
