package protocol

// Tick is the simulation's logical time unit. All timers, delays and budgets
// are tick counts compared against the same clock the driver advances; no
// component reads the wall clock.
type Tick int64

const noTimer Tick = -1

// Clock is the injectable time source shared by the channel, the senders and
// the driver.
type Clock interface {
	Now() Tick
}

// VirtualClock is a monotonic counter advanced explicitly by the driver.
type VirtualClock struct {
	now Tick
}

func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

func (c *VirtualClock) Now() Tick {
	return c.now
}

func (c *VirtualClock) Advance(d Tick) {
	c.now += d
}
