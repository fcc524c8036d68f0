//go:build gpio
// +build gpio

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// chipName is the GPIO character device of the Pi's main header.
const chipName = "gpiochip0"

// chipDriver drives real pins through the Linux GPIO character device. It
// requests one output line per claimed pin and holds it until Close.
type chipDriver struct {
	lines map[int]*gpiocdev.Line
}

// NewPlatformDriver returns the hardware backend.
func NewPlatformDriver() Driver {
	return &chipDriver{lines: make(map[int]*gpiocdev.Line)}
}

func (d *chipDriver) Init() error { return nil }

func (d *chipDriver) SetMode(pin int, initial Level) error {
	if line, ok := d.lines[pin]; ok {
		if err := line.Reconfigure(gpiocdev.AsOutput(int(initial))); err != nil {
			return fmt.Errorf("reconfiguring pin %d: %w", pin, err)
		}
		return nil
	}
	line, err := gpiocdev.RequestLine(chipName, pin, gpiocdev.AsOutput(int(initial)))
	if err != nil {
		return fmt.Errorf("requesting pin %d on %s: %w", pin, chipName, err)
	}
	d.lines[pin] = line
	return nil
}

func (d *chipDriver) Write(pin int, level Level) error {
	line, ok := d.lines[pin]
	if !ok {
		return fmt.Errorf("pin %d not claimed", pin)
	}
	return line.SetValue(int(level))
}

func (d *chipDriver) Read(pin int) (Level, error) {
	line, ok := d.lines[pin]
	if !ok {
		return Low, fmt.Errorf("pin %d not claimed", pin)
	}
	v, err := line.Value()
	if err != nil {
		return Low, err
	}
	if v != 0 {
		return High, nil
	}
	return Low, nil
}

func (d *chipDriver) Close() error {
	var firstErr error
	for pin, line := range d.lines {
		if err := line.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing pin %d: %w", pin, err)
		}
		delete(d.lines, pin)
	}
	return firstErr
}

func (d *chipDriver) Name() string { return chipName }
