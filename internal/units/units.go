// Package units converts harness-facing physical units (forward seek
// frequency, spindle RPM) into the raw tick counts the disk state machine
// consumes. This conversion is explicitly a harness responsibility, never
// performed inside internal/disk.
package units

import "math"

// ForwardSpeedTicks converts a forward-seek frequency in Hz into the
// ticks-per-track-movement value Disk.New expects.
func ForwardSpeedTicks(fwdHz float64) int {
	return int(math.Floor((1.0 / fwdHz) * 1e6))
}

// SpinSpeedTicks converts a spindle speed in RPM into the
// ticks-per-degree value Disk.New expects.
func SpinSpeedTicks(spinRPM float64) int {
	return int(math.Floor((1.0 / spinRPM) * 60 * 1e9))
}
