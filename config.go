package granary

// Config holds global configuration for the storage system
var Config config = config{}

type config struct {
	checkedColumnAccess   bool
	initialColumnCapacity int
}

// SetCheckedColumnAccess toggles per-call element type verification on the
// column fast path. Off by default; intended for debug builds and tests.
func (c *config) SetCheckedColumnAccess(enabled bool) {
	c.checkedColumnAccess = enabled
}

// CheckedColumnAccess reports whether column access is type-verified per call
func (c *config) CheckedColumnAccess() bool {
	return c.checkedColumnAccess
}

// SetInitialColumnCapacity sets the slot capacity newly created columns reserve
func (c *config) SetInitialColumnCapacity(n int) {
	c.initialColumnCapacity = n
}
