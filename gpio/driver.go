package gpio

// Driver is the raw pin capability set the controller drives. Two
// implementations exist: a hardware backend built on the Linux GPIO character
// device (behind the "gpio" build tag) and SimDriver, an in-memory substitute
// for development machines and tests.
type Driver interface {
	// Init performs one-time global setup (addressing mode, chip handle).
	// The controller calls it before the first pin is configured.
	Init() error

	// SetMode claims pin as an output and drives it to initial. Claiming an
	// already claimed pin resets its level.
	SetMode(pin int, initial Level) error

	// Write sets the output level of a claimed pin. Writing to a pin that
	// was never claimed is an error.
	Write(pin int, level Level) error

	// Read returns the current level of a claimed pin.
	Read(pin int) (Level, error)

	// Close releases every claimed pin and any global resources. It is safe
	// to call more than once.
	Close() error

	// Name identifies the backend in status reports.
	Name() string
}
