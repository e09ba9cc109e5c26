// Package config holds build information injected at link time and the
// sensor profile read by the command line tool.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Set with -ldflags "-X github.com/mklimuk/lm75/pkg/config.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func BuildInfo() string {
	return fmt.Sprintf("%s-%s-%s", Version, Date, Commit)
}

// Profile describes how to reach a sensor and the limits it is initialized
// with.
type Profile struct {
	Adapter           string        `yaml:"adapter"`
	Device            string        `yaml:"device"`
	Bus               int           `yaml:"bus"`
	Address           uint8         `yaml:"address"`
	Variant           string        `yaml:"variant"`
	Timeout           time.Duration `yaml:"timeout"`
	Hysteresis        float32       `yaml:"hysteresis"`
	ShutdownThreshold float32       `yaml:"shutdown_threshold"`
	Configuration     uint8         `yaml:"configuration"`
}

// DefaultProfile matches the power-on state of an LM75 at its default
// address behind an MCP2221 adapter.
func DefaultProfile() Profile {
	return Profile{
		Adapter:           "mcp2221",
		Device:            "/dev/i2c-1",
		Bus:               -1,
		Address:           0x48,
		Variant:           "9",
		Timeout:           500 * time.Millisecond,
		Hysteresis:        75,
		ShutdownThreshold: 80,
		Configuration:     0x08,
	}
}

// LoadProfile reads a YAML profile; keys missing from the file keep their
// default values.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()
	f, err := os.Open(path)
	if err != nil {
		return profile, fmt.Errorf("could not open profile: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	err = dec.Decode(&profile)
	if err != nil {
		return profile, fmt.Errorf("could not decode profile %s: %w", path, err)
	}
	return profile, nil
}
