package actuator

import "errors"

var (
	// ErrShortPath is returned for a swipe with fewer than two points.
	ErrShortPath = errors.New("swipe path needs at least two points")

	// ErrDevice is returned when a serial device answers with anything but
	// an acknowledgement.
	ErrDevice = errors.New("device rejected command")
)
