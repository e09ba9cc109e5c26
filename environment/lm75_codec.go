package environment

import (
	"fmt"
	"math"
)

// Variant selects how many bits of the LM75 temperature register carry data.
type Variant byte

const (
	// NineBit parts (LM75, LM75B in 9-bit mode) resolve 0.5°C.
	NineBit Variant = iota
	// ElevenBit parts (LM75A, LM75B) resolve 0.125°C.
	ElevenBit
)

func (v Variant) String() string {
	switch v {
	case NineBit:
		return "9-bit"
	case ElevenBit:
		return "11-bit"
	default:
		return fmt.Sprintf("unknown(%d)", byte(v))
	}
}

// Resolution returns the temperature step of a single count in degrees
// Celsius, or 0 for an unknown variant.
func (v Variant) Resolution() float32 {
	_, step, ok := v.layout()
	if !ok {
		return 0
	}
	return step
}

// layout returns the number of unused low bits of the 16-bit register word
// and the value of one count.
func (v Variant) layout() (uint, float32, bool) {
	switch v {
	case NineBit:
		return 7, 0.5, true
	case ElevenBit:
		return 5, 0.125, true
	default:
		return 0, 0, false
	}
}

// ParseVariant accepts the bit width as written on the command line or in a
// profile ("9", "11", "9-bit", "11-bit").
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "9", "9-bit", "9bit":
		return NineBit, nil
	case "11", "11-bit", "11bit":
		return ElevenBit, nil
	}
	return 0, fmt.Errorf("lm75: %w: unknown variant %q", ErrValidation, s)
}

// EncodeTemperature converts degrees Celsius into the two register bytes
// (MSB first) used by the hysteresis and overtemperature shutdown registers.
// The value is truncated toward zero to the resolution of the variant and
// stored as a two's complement count. Unknown variants use the 9-bit layout.
// The caller is responsible for range checking.
func EncodeTemperature(tempC float32, variant Variant) [2]byte {
	shift, step, ok := variant.layout()
	if !ok {
		shift, step, _ = NineBit.layout()
	}
	count := int32(math.Trunc(float64(tempC) / float64(step)))
	raw := uint16(count << shift)
	return [2]byte{byte(raw >> 8), byte(raw)}
}

// DecodeTemperature converts a raw register word (MSB first) into degrees
// Celsius.
func DecodeTemperature(raw uint16, variant Variant) (float32, error) {
	shift, step, ok := variant.layout()
	if !ok {
		return 0, fmt.Errorf("lm75: %w: unsupported variant %s", ErrConversion, variant)
	}
	if raw&0x8000 != 0 {
		// recover the magnitude of the negative count; discarded low bits are
		// shifted out before the increment
		count := (^raw >> shift) + 1
		return -float32(count) * step, nil
	}
	return float32(raw>>shift) * step, nil
}

// RawFromBytes assembles the register word from the bytes as they come off
// the wire.
func RawFromBytes(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
