package console

import "github.com/fatih/color"

// Available ANSI colors
var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	White  = color.New(color.FgHiWhite).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Temperature renders a reading against the sensor limits: red at or above
// the shutdown threshold, yellow above hysteresis, cyan below zero.
func Temperature(temp, hysteresis, threshold float32) string {
	s := color.New(color.FgHiWhite).Sprintf("%.3f°C", temp)
	switch {
	case temp >= threshold:
		s = Red(s)
	case temp > hysteresis:
		s = Yellow(s)
	case temp < 0:
		s = Cyan(s)
	}
	return s
}
