//go:build !gpio
// +build !gpio

package gpio

// NewPlatformDriver returns the simulation backend. Build with -tags gpio on
// the Pi to get the real character-device driver instead.
func NewPlatformDriver() Driver {
	return NewSimDriver()
}
