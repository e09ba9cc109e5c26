package environment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mklimuk/lm75"
)

const lm75DefaultAddress = 0x48

const (
	lm75TempRegister   = 0x00
	lm75ConfigRegister = 0x01
	lm75HystRegister   = 0x02
	lm75TosRegister    = 0x03
)

const (
	// LM75MinThreshold and LM75MaxThreshold bound the values accepted by the
	// hysteresis and shutdown threshold registers.
	LM75MinThreshold float32 = -55
	LM75MaxThreshold float32 = 125

	// LM75DefaultTimeout covers a register read through a USB bridge, which
	// takes three request/response round trips.
	LM75DefaultTimeout = 500 * time.Millisecond

	// TemperatureConversionError is cached as the last temperature when a
	// read could not produce a value.
	TemperatureConversionError float32 = -999
)

var (
	ErrValidation = errors.New("invalid sensor limits")
	ErrRange      = errors.New("temperature out of range")
	ErrTransport  = errors.New("bus transfer failed")
	ErrConversion = errors.New("temperature conversion failed")
)

// LM75 represents an LM75 family digital temperature sensor with thermal
// watchdog. See: https://www.ti.com/lit/ds/symlink/lm75b.pdf
//
// The handle mirrors the last values written to or read from the device. It
// does no locking; callers sharing a handle between goroutines must serialize
// access themselves.
//
// Usage: Initialize with InitLM75 (or adopt a configured device with
// AttachLM75), then call ReadTemperature(ctx).
type LM75 struct {
	bus     lm75.RegisterBus
	variant Variant
	address byte
	timeout time.Duration

	config            Configuration
	hysteresis        float32
	shutdownThreshold float32
	lastTemp          float32
}

type LM75Config struct {
	Address       byte
	Timeout       time.Duration
	Configuration Configuration
}

type LM75ConfigOption func(*LM75Config)

// WithAddress sets the 7-bit device address (0x48 by default).
func WithAddress(address byte) LM75ConfigOption {
	return func(c *LM75Config) {
		c.Address = address
	}
}

// WithTimeout bounds every single bus transaction.
func WithTimeout(timeout time.Duration) LM75ConfigOption {
	return func(c *LM75Config) {
		c.Timeout = timeout
	}
}

// WithConfiguration replaces the configuration written by InitLM75.
func WithConfiguration(config Configuration) LM75ConfigOption {
	return func(c *LM75Config) {
		c.Configuration = config
	}
}

func newLM75(bus lm75.RegisterBus, variant Variant, opts []LM75ConfigOption) (*LM75, error) {
	config := &LM75Config{
		Address:       lm75DefaultAddress,
		Timeout:       LM75DefaultTimeout,
		Configuration: DefaultConfiguration,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.Address > lm75.MaxAddress {
		return nil, fmt.Errorf("lm75: %w: address %#x is not a 7-bit address", ErrValidation, config.Address)
	}
	if config.Timeout <= 0 {
		config.Timeout = LM75DefaultTimeout
	}
	return &LM75{
		bus:     bus,
		variant: variant,
		address: config.Address,
		timeout: config.Timeout,
		config:  config.Configuration,
	}, nil
}

// InitLM75 validates the limits, writes the configuration register and both
// threshold registers. Writes that succeeded before a failure are not
// rolled back; a failed initialization leaves the device configuration
// undefined and should be retried as a whole.
func InitLM75(ctx context.Context, bus lm75.RegisterBus, variant Variant, hysteresis, shutdownThreshold float32, opts ...LM75ConfigOption) (*LM75, error) {
	if !(hysteresis < shutdownThreshold) {
		return nil, fmt.Errorf("lm75: %w: hysteresis %.3f°C must be below shutdown threshold %.3f°C", ErrValidation, hysteresis, shutdownThreshold)
	}
	sensor, err := newLM75(bus, variant, opts)
	if err != nil {
		return nil, err
	}
	err = sensor.SetConfiguration(ctx, sensor.config)
	if err != nil {
		return nil, err
	}
	err = sensor.SetHysteresis(ctx, hysteresis)
	if err != nil {
		return nil, err
	}
	err = sensor.SetShutdownThreshold(ctx, shutdownThreshold)
	if err != nil {
		return nil, err
	}
	slog.Debug("lm75 initialized", "address", fmt.Sprintf("%#x", sensor.address), "variant", variant,
		"hysteresis", hysteresis, "shutdown_threshold", shutdownThreshold)
	return sensor, nil
}

// AttachLM75 returns a handle for a device that has already been configured.
// Nothing is written; the configuration and both thresholds are read back to
// fill the handle.
func AttachLM75(ctx context.Context, bus lm75.RegisterBus, variant Variant, opts ...LM75ConfigOption) (*LM75, error) {
	sensor, err := newLM75(bus, variant, opts)
	if err != nil {
		return nil, err
	}
	if _, err = sensor.ReadConfiguration(ctx); err != nil {
		return nil, err
	}
	if _, err = sensor.ReadHysteresis(ctx); err != nil {
		return nil, err
	}
	if _, err = sensor.ReadShutdownThreshold(ctx); err != nil {
		return nil, err
	}
	return sensor, nil
}

// SetHysteresis writes the hysteresis (Thyst) register.
func (sensor *LM75) SetHysteresis(ctx context.Context, tempC float32) error {
	if err := checkThreshold(tempC); err != nil {
		return fmt.Errorf("lm75: hysteresis: %w", err)
	}
	raw := EncodeTemperature(tempC, sensor.variant)
	if err := sensor.writeRegister(ctx, lm75HystRegister, raw[:]); err != nil {
		return fmt.Errorf("lm75: could not write hysteresis register: %w", err)
	}
	sensor.hysteresis = tempC
	return nil
}

// SetShutdownThreshold writes the overtemperature shutdown (Tos) register.
func (sensor *LM75) SetShutdownThreshold(ctx context.Context, tempC float32) error {
	if err := checkThreshold(tempC); err != nil {
		return fmt.Errorf("lm75: shutdown threshold: %w", err)
	}
	raw := EncodeTemperature(tempC, sensor.variant)
	if err := sensor.writeRegister(ctx, lm75TosRegister, raw[:]); err != nil {
		return fmt.Errorf("lm75: could not write shutdown threshold register: %w", err)
	}
	sensor.shutdownThreshold = tempC
	return nil
}

func checkThreshold(tempC float32) error {
	if !(tempC >= LM75MinThreshold && tempC <= LM75MaxThreshold) {
		return fmt.Errorf("%w: %.3f°C outside [%.0f, %.0f]", ErrRange, tempC, LM75MinThreshold, LM75MaxThreshold)
	}
	return nil
}

// ReadTemperature reads the current temperature in Celsius. On failure the
// cached temperature is set to TemperatureConversionError.
func (sensor *LM75) ReadTemperature(ctx context.Context) (float32, error) {
	buf := make([]byte, 2)
	err := sensor.readRegister(ctx, lm75TempRegister, buf)
	if err != nil {
		sensor.lastTemp = TemperatureConversionError
		return sensor.lastTemp, fmt.Errorf("lm75: could not read temperature register: %w", err)
	}
	temp, err := DecodeTemperature(RawFromBytes(buf), sensor.variant)
	if err != nil {
		sensor.lastTemp = TemperatureConversionError
		return sensor.lastTemp, err
	}
	sensor.lastTemp = temp
	return temp, nil
}

// ReadHysteresis reads back the hysteresis register and refreshes the cache.
func (sensor *LM75) ReadHysteresis(ctx context.Context) (float32, error) {
	temp, err := sensor.readThreshold(ctx, lm75HystRegister)
	if err != nil {
		return sensor.hysteresis, fmt.Errorf("lm75: could not read hysteresis register: %w", err)
	}
	sensor.hysteresis = temp
	return temp, nil
}

// ReadShutdownThreshold reads back the Tos register and refreshes the cache.
func (sensor *LM75) ReadShutdownThreshold(ctx context.Context) (float32, error) {
	temp, err := sensor.readThreshold(ctx, lm75TosRegister)
	if err != nil {
		return sensor.shutdownThreshold, fmt.Errorf("lm75: could not read shutdown threshold register: %w", err)
	}
	sensor.shutdownThreshold = temp
	return temp, nil
}

func (sensor *LM75) readThreshold(ctx context.Context, register byte) (float32, error) {
	buf := make([]byte, 2)
	if err := sensor.readRegister(ctx, register, buf); err != nil {
		return 0, err
	}
	return DecodeTemperature(RawFromBytes(buf), sensor.variant)
}

// ReadConfiguration reads the configuration register (0x01).
func (sensor *LM75) ReadConfiguration(ctx context.Context) (Configuration, error) {
	buf := make([]byte, 1)
	err := sensor.readRegister(ctx, lm75ConfigRegister, buf)
	if err != nil {
		return sensor.config, fmt.Errorf("lm75: could not read config register: %w", err)
	}
	sensor.config = Configuration(buf[0])
	return sensor.config, nil
}

// SetConfiguration writes the configuration register as is.
func (sensor *LM75) SetConfiguration(ctx context.Context, config Configuration) error {
	err := sensor.writeRegister(ctx, lm75ConfigRegister, []byte{byte(config)})
	if err != nil {
		return fmt.Errorf("lm75: could not write config register: %w", err)
	}
	sensor.config = config
	return nil
}

// EnableShutdown puts the device in low power shutdown, keeping the other
// configuration bits.
func (sensor *LM75) EnableShutdown(ctx context.Context) error {
	config, err := sensor.ReadConfiguration(ctx)
	if err != nil {
		return err
	}
	err = sensor.SetConfiguration(ctx, config|ConfigShutdown)
	if err != nil {
		return err
	}
	slog.Debug("lm75 shutdown enabled", "address", fmt.Sprintf("%#x", sensor.address))
	return nil
}

// DisableShutdown resumes temperature conversion, keeping the other
// configuration bits.
func (sensor *LM75) DisableShutdown(ctx context.Context) error {
	config, err := sensor.ReadConfiguration(ctx)
	if err != nil {
		return err
	}
	err = sensor.SetConfiguration(ctx, config&^ConfigShutdown)
	if err != nil {
		return err
	}
	slog.Debug("lm75 shutdown disabled", "address", fmt.Sprintf("%#x", sensor.address))
	return nil
}

func (sensor *LM75) writeRegister(ctx context.Context, register byte, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, sensor.timeout)
	defer cancel()
	err := sensor.bus.WriteRegister(ctx, sensor.address, register, data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

func (sensor *LM75) readRegister(ctx context.Context, register byte, buffer []byte) error {
	ctx, cancel := context.WithTimeout(ctx, sensor.timeout)
	defer cancel()
	err := sensor.bus.ReadRegister(ctx, sensor.address, register, buffer)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

// Hysteresis returns the last hysteresis value written or read back.
func (sensor *LM75) Hysteresis() float32 {
	return sensor.hysteresis
}

// ShutdownThreshold returns the last Tos value written or read back.
func (sensor *LM75) ShutdownThreshold() float32 {
	return sensor.shutdownThreshold
}

// Temperature returns the last temperature read, TemperatureConversionError
// if the last read failed.
func (sensor *LM75) Temperature() float32 {
	return sensor.lastTemp
}

func (sensor *LM75) Configuration() Configuration {
	return sensor.config
}

func (sensor *LM75) IsShutdown() bool {
	return sensor.config.Shutdown()
}

func (sensor *LM75) Variant() Variant {
	return sensor.variant
}

func (sensor *LM75) Address() byte {
	return sensor.address
}

func (sensor *LM75) String() string {
	return fmt.Sprintf("lm75 %s @%#x", sensor.variant, sensor.address)
}

type LM75Status struct {
	Variant           string  `yaml:"variant"`
	Address           string  `yaml:"address"`
	Configuration     string  `yaml:"configuration"`
	Shutdown          bool    `yaml:"shutdown"`
	Hysteresis        float32 `yaml:"hysteresis"`
	ShutdownThreshold float32 `yaml:"shutdown_threshold"`
	Temperature       float32 `yaml:"temperature"`
}

// Status returns a snapshot of the cached state.
func (sensor *LM75) Status() LM75Status {
	return LM75Status{
		Variant:           sensor.variant.String(),
		Address:           fmt.Sprintf("%#x", sensor.address),
		Configuration:     sensor.config.String(),
		Shutdown:          sensor.IsShutdown(),
		Hysteresis:        sensor.hysteresis,
		ShutdownThreshold: sensor.shutdownThreshold,
		Temperature:       sensor.lastTemp,
	}
}
