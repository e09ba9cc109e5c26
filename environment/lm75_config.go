package environment

import (
	"fmt"
	"strings"
)

// Configuration is the content of the LM75 configuration register (0x01).
//
//	bit 0    shutdown
//	bit 2    OS polarity, active low (0) / active high (1)
//	bits 3-4 fault queue
//	bit 5    comparator (0) / interrupt (1) mode
type Configuration byte

const (
	ConfigShutdown           Configuration = 0x01
	ConfigPolarityActiveHigh Configuration = 0x04
	ConfigModeInterrupt      Configuration = 0x20

	FaultQueue1 Configuration = 0x00
	FaultQueue2 Configuration = 0x08
	FaultQueue4 Configuration = 0x10
	FaultQueue6 Configuration = 0x18

	faultQueueMask Configuration = 0x18

	// DefaultConfiguration is comparator mode, OS active low, two faults.
	DefaultConfiguration = FaultQueue2
)

func (c Configuration) Shutdown() bool {
	return c&ConfigShutdown != 0
}

func (c Configuration) Interrupt() bool {
	return c&ConfigModeInterrupt != 0
}

func (c Configuration) ActiveHigh() bool {
	return c&ConfigPolarityActiveHigh != 0
}

// FaultQueue returns the number of consecutive faults needed to trip OS.
func (c Configuration) FaultQueue() int {
	switch c & faultQueueMask {
	case FaultQueue2:
		return 2
	case FaultQueue4:
		return 4
	case FaultQueue6:
		return 6
	default:
		return 1
	}
}

func (c Configuration) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "0x%02x", byte(c))
	mode := "comparator"
	if c.Interrupt() {
		mode = "interrupt"
	}
	polarity := "active-low"
	if c.ActiveHigh() {
		polarity = "active-high"
	}
	fmt.Fprintf(&b, " (%s, %s, %d faults", mode, polarity, c.FaultQueue())
	if c.Shutdown() {
		b.WriteString(", shutdown")
	}
	b.WriteString(")")
	return b.String()
}
