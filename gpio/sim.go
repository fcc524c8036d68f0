package gpio

import "fmt"

// SimDriver is an in-memory Driver used when real hardware is unavailable.
// It mimics the hardware backend's contract: writes and reads against a pin
// that was never claimed fail.
type SimDriver struct {
	levels map[int]Level
}

func NewSimDriver() *SimDriver {
	return &SimDriver{levels: make(map[int]Level)}
}

func (d *SimDriver) Init() error { return nil }

func (d *SimDriver) SetMode(pin int, initial Level) error {
	d.levels[pin] = initial
	return nil
}

func (d *SimDriver) Write(pin int, level Level) error {
	if _, ok := d.levels[pin]; !ok {
		return fmt.Errorf("simulated pin %d not claimed", pin)
	}
	d.levels[pin] = level
	return nil
}

func (d *SimDriver) Read(pin int) (Level, error) {
	level, ok := d.levels[pin]
	if !ok {
		return Low, fmt.Errorf("simulated pin %d not claimed", pin)
	}
	return level, nil
}

func (d *SimDriver) Close() error {
	d.levels = make(map[int]Level)
	return nil
}

func (d *SimDriver) Name() string { return "simulated" }
