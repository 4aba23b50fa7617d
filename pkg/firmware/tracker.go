package firmware

// Tracker is the single source of truth for the current absolute
// position, in step units, and validates targets against the travel
// limits. With no limit switches on the machine there is no homing
// reference: Set redefines the position without motion, trusting the
// caller that the carriage is already there.
type Tracker struct {
	maxX, maxY int64
	x, y       int64
}

// NewTracker creates a tracker at the origin with the given travel
// limits.
func NewTracker(maxX, maxY int64) *Tracker {
	return &Tracker{maxX: maxX, maxY: maxY}
}

// Position returns the current absolute position in steps.
func (t *Tracker) Position() (x, y int64) {
	return t.x, t.y
}

// InBounds reports whether a step-unit target is within travel limits.
func (t *Tracker) InBounds(x, y int64) bool {
	return x >= 0 && x <= t.maxX && y >= 0 && y <= t.maxY
}

// Set overwrites the tracked position without motion.
func (t *Tracker) Set(x, y int64) {
	t.x, t.y = x, y
}
