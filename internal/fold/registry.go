package fold

import "github.com/henri123lemoine/foldtree/internal/tree"

// Slot is the state of one mounted folder header.
type Slot struct {
	Path       string
	Depth      int
	NominalTop int

	// Open is whether the header's own folder is expanded.
	Open bool

	// Visible is false while an ancestor folder is collapsed.
	Visible bool

	Stuck  bool
	Folded bool

	header   Measurable
	attached bool
}

// Mount describes a header the presentation layer currently has mounted.
type Mount struct {
	Path    string
	Depth   int
	Open    bool
	Visible bool
	Header  Measurable
}

// SyncResult tells the caller what to schedule after Sync.
type SyncResult struct {
	// Detect is set when a detector was attached and needs its eager pass.
	Detect bool

	// Changed holds paths whose stuck flag changed during Sync.
	Changed []string
}

// Registry owns every mounted header slot, in document order.
type Registry struct {
	headerHeight int
	container    Container
	slots        []*Slot
	byPath       map[string]*Slot
}

// NewRegistry returns an empty registry for headers of the given height.
func NewRegistry(headerHeight int) *Registry {
	return &Registry{
		headerHeight: headerHeight,
		byPath:       make(map[string]*Slot),
	}
}

// SetContainer sets the scroll container detectors measure against.
// A nil container disables detection.
func (r *Registry) SetContainer(c Container) {
	r.container = c
}

// Sync replaces the mounted set. Slots missing from mounts are unmounted.
// New slots start neither stuck nor folded. Closing a folder detaches its
// detector and clears its stuck flag immediately; opening one attaches it
// and asks for an eager detection pass.
func (r *Registry) Sync(mounts []Mount) SyncResult {
	var res SyncResult

	next := make([]*Slot, 0, len(mounts))
	byPath := make(map[string]*Slot, len(mounts))

	for _, m := range mounts {
		s, ok := r.byPath[m.Path]
		if !ok {
			s = &Slot{Path: m.Path}
		}

		s.Depth = m.Depth
		s.NominalTop = NominalTop(m.Depth, r.headerHeight)
		s.Visible = m.Visible
		s.Open = m.Open
		s.header = m.Header

		switch {
		case m.Open && !s.attached:
			s.attached = true
			res.Detect = true
		case !m.Open && s.attached:
			s.attached = false
		}
		if !s.attached && s.Stuck {
			s.Stuck = false
			res.Changed = append(res.Changed, s.Path)
		}

		next = append(next, s)
		byPath[s.Path] = s
	}

	r.slots = next
	r.byPath = byPath
	return res
}

// Detect re-evaluates every attached detector and returns the paths whose
// stuck flag flipped. It does nothing without a container.
func (r *Registry) Detect() []string {
	if r.container == nil {
		return nil
	}

	var changed []string
	for _, s := range r.slots {
		if !s.attached {
			continue
		}
		m, ok := Measure(r.container, s.header, s.NominalTop, s.Open)
		stuck := ok && IsStuck(m)
		if stuck != s.Stuck {
			s.Stuck = stuck
			changed = append(changed, s.Path)
		}
	}
	return changed
}

// Resolve recomputes folded flags from the current stuck flags and returns
// the paths whose folded flag changed.
func (r *Registry) Resolve() []string {
	states := make([]State, len(r.slots))
	for i, s := range r.slots {
		states[i] = State{Visible: s.Visible, Stuck: s.Stuck, Folded: s.Folded}
	}

	var changed []string
	for i, folded := range Resolve(states) {
		s := r.slots[i]
		if s.Folded != folded {
			s.Folded = folded
			changed = append(changed, s.Path)
		}
	}
	return changed
}

// ClearFoldedWithin unfolds every header inside folder.
func (r *Registry) ClearFoldedWithin(folder string) {
	for _, s := range r.slots {
		if s.Folded && tree.IsWithin(s.Path, folder) {
			s.Folded = false
		}
	}
}

// Flags returns the stuck and folded flags for the header at path.
func (r *Registry) Flags(path string) (stuck, folded bool) {
	s, ok := r.byPath[path]
	if !ok {
		return false, false
	}
	return s.Stuck, s.Folded
}

// Slot returns a copy of the slot at path.
func (r *Registry) Slot(path string) (Slot, bool) {
	s, ok := r.byPath[path]
	if !ok {
		return Slot{}, false
	}
	return *s, true
}

// Stack returns the stuck headers in document order, shallow to deep.
func (r *Registry) Stack() []Slot {
	var stack []Slot
	for _, s := range r.slots {
		if s.Stuck {
			stack = append(stack, *s)
		}
	}
	return stack
}

// Len returns the number of mounted slots.
func (r *Registry) Len() int {
	return len(r.slots)
}
