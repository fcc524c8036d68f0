package gpio

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PinStatus describes one configured pin in a snapshot.
type PinStatus struct {
	State      Level  `json:"state"`
	StateName  string `json:"state_name"`
	Configured bool   `json:"configured"`
}

// SystemInfo reports the registry and driver state.
type SystemInfo struct {
	Driver          string `json:"driver"`
	Initialized     bool   `json:"initialized"`
	ConfiguredPins  []int  `json:"configured_pins"`
	TotalConfigured int    `json:"total_configured"`
}

// Controller owns the pin registry: which pins are claimed and their last
// known level. Every mutation and read goes through one mutex; critical
// sections are short and the operation rate is low, so a single coarse lock
// is enough. The driver is injected so tests and dev builds can run against
// SimDriver.
type Controller struct {
	mu          sync.Mutex
	drv         Driver
	levels      map[int]Level
	initialized bool
	log         *logrus.Entry
}

func NewController(drv Driver, log *logrus.Entry) *Controller {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Controller{
		drv:    drv,
		levels: make(map[int]Level),
		log:    log,
	}
}

// Configure claims pin as an output driven to initial. Reconfiguring an
// already claimed pin resets its level. A driver failure leaves the registry
// unchanged for that pin.
func (c *Controller) Configure(pin int, initial Level) error {
	if !ValidPin(pin) {
		c.log.WithField("pin", pin).Error("rejected invalid pin")
		return invalidPin(pin)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.initLocked(); err != nil {
		return err
	}
	if err := c.drv.SetMode(pin, initial); err != nil {
		c.log.WithField("pin", pin).WithError(err).Error("configuring pin failed")
		return fmt.Errorf("configuring pin %d: %w", pin, err)
	}
	c.levels[pin] = initial
	c.log.WithFields(logrus.Fields{"pin": pin, "initial": initial.String()}).Info("pin configured as output")
	return nil
}

// initLocked performs the one-time driver setup. Callers hold c.mu.
func (c *Controller) initLocked() error {
	if c.initialized {
		return nil
	}
	if err := c.drv.Init(); err != nil {
		c.log.WithError(err).Error("driver initialization failed")
		return fmt.Errorf("initializing driver: %w", err)
	}
	c.initialized = true
	c.log.WithField("driver", c.drv.Name()).Info("driver initialized")
	return nil
}

// ConfigureMany configures each pin independently, in order. One pin failing
// never stops the rest from being attempted; the result maps every input pin
// to its outcome.
func (c *Controller) ConfigureMany(pins []int, initial Level) map[int]bool {
	results := make(map[int]bool, len(pins))
	for _, pin := range pins {
		results[pin] = c.Configure(pin, initial) == nil
	}
	return results
}

// SetLevel drives pin to level. An unconfigured pin is configured on the fly
// with the default Low initial level; the pin number still has to pass the
// validity check.
func (c *Controller) SetLevel(pin int, level Level) error {
	if !c.IsConfigured(pin) {
		c.log.WithField("pin", pin).Warn("pin not configured, configuring automatically")
		if err := c.Configure(pin, Low); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.drv.Write(pin, level); err != nil {
		c.log.WithField("pin", pin).WithError(err).Error("write failed")
		return fmt.Errorf("writing pin %d: %w", pin, err)
	}
	c.levels[pin] = level
	c.log.WithFields(logrus.Fields{"pin": pin, "level": level.String()}).Debug("pin level set")
	return nil
}

// Toggle inverts the pin's level. An unconfigured pin ends up High: it is
// auto-configured Low by SetLevel and then inverted.
func (c *Controller) Toggle(pin int) error {
	level, err := c.ReadLevel(pin)
	switch {
	case err == nil && level == High:
		return c.SetLevel(pin, Low)
	case err == nil || IsNotConfigured(err):
		return c.SetLevel(pin, High)
	default:
		return err
	}
}

// ReadLevel reads the pin from the hardware and refreshes the cached level.
// The hardware is trusted over the cache. Returns ErrNotConfigured for pins
// the registry has never claimed.
func (c *Controller) ReadLevel(pin int) (Level, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.levels[pin]; !ok {
		c.log.WithField("pin", pin).Warn("status requested for unconfigured pin")
		return Low, fmt.Errorf("pin %d: %w", pin, ErrNotConfigured)
	}
	level, err := c.drv.Read(pin)
	if err != nil {
		c.log.WithField("pin", pin).WithError(err).Error("read failed")
		return Low, fmt.Errorf("reading pin %d: %w", pin, err)
	}
	c.levels[pin] = level
	return level, nil
}

// SnapshotAll reads every configured pin and reports its fresh level. Pins
// are always reported as configured; unconfigured pins never appear.
func (c *Controller) SnapshotAll() map[int]PinStatus {
	status := make(map[int]PinStatus)
	for _, pin := range c.ConfiguredPins() {
		level, err := c.ReadLevel(pin)
		if err != nil {
			// Released concurrently or a driver fault; skip rather than
			// report a level that was never observed.
			continue
		}
		status[pin] = PinStatus{State: level, StateName: level.String(), Configured: true}
	}
	return status
}

// AllOff drives every configured pin Low. Best effort: every pin is
// attempted even when an earlier one fails, and the first failure is
// returned.
func (c *Controller) AllOff() error {
	var firstErr error
	for _, pin := range c.ConfiguredPins() {
		if err := c.SetLevel(pin, Low); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		c.log.WithError(firstErr).Warn("some pins could not be switched off")
	} else {
		c.log.Info("all pins off")
	}
	return firstErr
}

// Pulse drives the pin High, waits, and drives it Low. The registry lock is
// only held for the two discrete level changes, never across the sleep.
func (c *Controller) Pulse(pin int, duration time.Duration) error {
	if err := c.SetLevel(pin, High); err != nil {
		return err
	}
	time.Sleep(duration)
	return c.SetLevel(pin, Low)
}

// Blink toggles the pin High/Low the given number of times, sleeping for
// interval after each change. It aborts on the first failed write. There is
// no cancellation: a blink runs to completion, and later calls simply
// overwrite whatever level it left behind.
func (c *Controller) Blink(pin int, times int, interval time.Duration) error {
	for i := 0; i < times; i++ {
		if err := c.SetLevel(pin, High); err != nil {
			return err
		}
		time.Sleep(interval)
		if err := c.SetLevel(pin, Low); err != nil {
			return err
		}
		time.Sleep(interval)
	}
	return nil
}

// Release switches every pin off, releases the driver and empties the
// registry. Calling it again (or before anything was configured) is a no-op,
// so the signal path and the deferred shutdown path can both call it.
// Cleanup errors are logged and swallowed: shutdown always completes.
func (c *Controller) Release() {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Best effort; a stuck pin must not block the driver release.
	_ = c.AllOff()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.drv.Close(); err != nil {
		c.log.WithError(err).Error("driver release failed")
	}
	c.levels = make(map[int]Level)
	c.initialized = false
	c.log.Info("gpio released")
}

// ConfiguredPins returns the claimed pin numbers in ascending order.
func (c *Controller) ConfiguredPins() []int {
	c.mu.Lock()
	pins := make([]int, 0, len(c.levels))
	for pin := range c.levels {
		pins = append(pins, pin)
	}
	c.mu.Unlock()
	sort.Ints(pins)
	return pins
}

// IsConfigured reports whether the pin is currently claimed.
func (c *Controller) IsConfigured(pin int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.levels[pin]
	return ok
}

// Info reports the driver name and registry state.
func (c *Controller) Info() SystemInfo {
	pins := c.ConfiguredPins()
	c.mu.Lock()
	defer c.mu.Unlock()
	return SystemInfo{
		Driver:          c.drv.Name(),
		Initialized:     c.initialized,
		ConfiguredPins:  pins,
		TotalConfigured: len(pins),
	}
}
