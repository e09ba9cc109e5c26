package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/lm75"
	"github.com/mklimuk/lm75/adapter"
	"github.com/mklimuk/lm75/board"
	"github.com/mklimuk/lm75/cmd/lm75/console"
	"github.com/mklimuk/lm75/environment"
	"github.com/mklimuk/lm75/i2c"
	"github.com/mklimuk/lm75/pkg/config"
	"github.com/mklimuk/lm75/snsctx"
)

// settings is the profile after command line overrides are applied.
type settings struct {
	config.Profile
	variant environment.Variant
	index   int
	speed   physic.Frequency
	simTemp float32
}

// resolveSettings layers defaults, the optional profile file and flags set
// on the command line, in that order.
func resolveSettings(c *cli.Context) (settings, error) {
	profile := config.DefaultProfile()
	if path := c.String("config"); path != "" {
		var err error
		profile, err = config.LoadProfile(path)
		if err != nil {
			return settings{}, err
		}
	}
	if c.IsSet("adapter") {
		profile.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		profile.Device = c.String("device")
	}
	if c.IsSet("bus") {
		profile.Bus = c.Int("bus")
	}
	if c.IsSet("address") {
		address, err := parseAddress(c.String("address"))
		if err != nil {
			return settings{}, err
		}
		profile.Address = address
	}
	if c.IsSet("variant") {
		profile.Variant = c.String("variant")
	}
	if c.IsSet("timeout") {
		profile.Timeout = c.Duration("timeout")
	}
	variant, err := environment.ParseVariant(profile.Variant)
	if err != nil {
		return settings{}, err
	}
	var speed physic.Frequency
	if c.IsSet("speed") {
		if err := speed.Set(c.String("speed")); err != nil {
			return settings{}, fmt.Errorf("invalid bus speed: %w", err)
		}
	}
	return settings{
		Profile: profile,
		variant: variant,
		index:   c.Int("index"),
		speed:   speed,
		simTemp: float32(c.Float64("sim-temp")),
	}, nil
}

func (s settings) sensorOptions() []environment.LM75ConfigOption {
	return []environment.LM75ConfigOption{
		environment.WithAddress(s.Address),
		environment.WithTimeout(s.Timeout),
		environment.WithConfiguration(environment.Configuration(s.Configuration)),
	}
}

func parseAddress(s string) (uint8, error) {
	address, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if address > lm75.MaxAddress {
		return 0, fmt.Errorf("address %#x is not a 7-bit address", address)
	}
	return uint8(address), nil
}

func parseTemperature(s string) (float32, error) {
	temp, err := strconv.ParseFloat(strings.TrimSuffix(s, "C"), 32)
	if err != nil {
		return 0, fmt.Errorf("invalid temperature %q: %w", s, err)
	}
	return float32(temp), nil
}

func parseConfiguration(s string) (environment.Configuration, error) {
	value, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid configuration byte %q: %w", s, err)
	}
	return environment.Configuration(value), nil
}

// connection is an open register bus together with its cleanup.
type connection struct {
	bus   lm75.RegisterBus
	close func()
}

func openBus(s settings) (*connection, error) {
	switch s.Adapter {
	case "mcp2221":
		mcp := adapter.NewMCP2221(adapter.WithDeviceIndex(s.index))
		err := mcp.Init()
		if err != nil {
			return nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		return &connection{bus: lm75.NewRegisterAdapter(mcp), close: func() {}}, nil
	case "generic":
		bus, err := i2c.NewGenericBus(s.Device)
		if err != nil {
			return nil, err
		}
		if s.speed > 0 {
			if err := bus.SetSpeed(s.speed); err != nil {
				_ = bus.Close()
				return nil, err
			}
		}
		return &connection{bus: bus, close: func() {
			if err := bus.Close(); err != nil {
				slog.Warn("could not close bus", "bus", bus, "error", err)
			}
		}}, nil
	case "nanopi":
		npi := nanopi.NewNeoAdaptor()
		err := npi.I2cBusAdaptor.Connect()
		if err != nil {
			return nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := board.NewConnectorBus(npi, s.Bus)
		return &connection{bus: bus, close: func() {
			if err := bus.Close(); err != nil {
				slog.Warn("could not close connections", "error", err)
			}
			if err := npi.I2cBusAdaptor.Finalize(); err != nil {
				slog.Warn("could not finalize adaptor", "error", err)
			}
		}}, nil
	case "sim":
		temp := s.simTemp
		bus := environment.NewMockLM75Bus(func(ctx context.Context) (float32, error) {
			return temp, nil
		})
		bus.SetAddress(s.Address)
		bus.SetVariant(s.variant)
		return &connection{bus: bus, close: func() {}}, nil
	default:
		return nil, fmt.Errorf("unknown adapter %q", s.Adapter)
	}
}

// session is what a sensor command works with.
type session struct {
	ctx      context.Context
	settings settings
	conn     *connection
}

func newSession(c *cli.Context) (*session, error) {
	s, err := resolveSettings(c)
	if err != nil {
		return nil, err
	}
	conn, err := openBus(s)
	if err != nil {
		return nil, err
	}
	slog.Debug("bus open", "adapter", s.Adapter, "address", fmt.Sprintf("%#x", s.Address), "variant", s.variant)
	return &session{
		ctx:      snsctx.WithVerbose(c.Context, c.Bool("verbose")),
		settings: s,
		conn:     conn,
	}, nil
}

// attach adopts the sensor without changing its registers.
func (s *session) attach() (*environment.LM75, error) {
	return environment.AttachLM75(s.ctx, s.conn.bus, s.settings.variant, s.sensorOptions()...)
}

func (s *session) sensorOptions() []environment.LM75ConfigOption {
	return s.settings.sensorOptions()
}

func (s *session) Close() {
	s.conn.close()
}

// withSensor runs fn against an attached sensor.
func withSensor(c *cli.Context, fn func(ctx context.Context, sensor *environment.LM75) error) error {
	s, err := newSession(c)
	if err != nil {
		return console.ExitErr("could not open bus", err)
	}
	defer s.Close()
	sensor, err := s.attach()
	if err != nil {
		return console.ExitErr("could not reach sensor", err)
	}
	return fn(s.ctx, sensor)
}
