// Package gpio manages the digital output pins of a Raspberry Pi. It keeps a
// registry of claimed pins and their last known level, and serializes all
// hardware access behind a single lock so that concurrent HTTP requests can
// safely share one driver.
package gpio

import (
	"errors"
	"fmt"
)

// Level is the logical voltage state of a pin.
type Level int

const (
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Valid BCM pin numbers on the Raspberry Pi header.
const (
	MinPin = 2
	MaxPin = 27
)

// ValidPin reports whether pin is a usable BCM number.
func ValidPin(pin int) bool {
	return pin >= MinPin && pin <= MaxPin
}

var (
	// ErrInvalidPin is returned for pin numbers outside the BCM 2-27 range.
	ErrInvalidPin = errors.New("invalid pin")

	// ErrNotConfigured is returned when a pin is queried before being
	// configured. It is distinct from a driver failure: the caller asked
	// about a pin the registry has never claimed.
	ErrNotConfigured = errors.New("pin not configured")
)

// IsNotConfigured reports whether err stems from querying an unclaimed pin,
// as opposed to a driver fault.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

func invalidPin(pin int) error {
	return fmt.Errorf("pin %d outside valid range %d-%d: %w", pin, MinPin, MaxPin, ErrInvalidPin)
}
