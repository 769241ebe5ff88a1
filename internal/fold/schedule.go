package fold

// Throttle coalesces scroll events into at most one detection pass per
// frame. Request reports whether the caller must schedule a frame; Done is
// called when that frame runs.
type Throttle struct {
	pending bool
}

// Request marks a detection pass as wanted.
func (t *Throttle) Request() bool {
	if t.pending {
		return false
	}
	t.pending = true
	return true
}

// Done clears the pending frame.
func (t *Throttle) Done() {
	t.pending = false
}

// Pending reports whether a frame is scheduled.
func (t *Throttle) Pending() bool {
	return t.pending
}

// Debouncer hands out generations for fold requests. Only the most recent
// generation is due when its timer fires; older timers are ignored.
type Debouncer struct {
	gen uint64
}

// Trigger starts a new generation and returns it.
func (d *Debouncer) Trigger() uint64 {
	d.gen++
	return d.gen
}

// Due reports whether gen is still the latest request.
func (d *Debouncer) Due(gen uint64) bool {
	return gen == d.gen
}
