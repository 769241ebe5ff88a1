package fold

import (
	"slices"
	"testing"
)

type fakeBox struct {
	rect Rect
	ok   bool
}

func (b *fakeBox) Rect() (Rect, bool) { return b.rect, b.ok }

type fakeContainer struct {
	fakeBox
	scroll  int
	border  int
	padding int
}

func (c *fakeContainer) ScrollTop() int     { return c.scroll }
func (c *fakeContainer) Insets() (int, int) { return c.border, c.padding }

func newContainer(top, scroll int) *fakeContainer {
	return &fakeContainer{
		fakeBox: fakeBox{rect: Rect{Top: top, Height: 400}, ok: true},
		scroll:  scroll,
		border:  1,
		padding: 2,
	}
}

// headerAt returns a header whose measured offset inside c equals offset.
func headerAt(c *fakeContainer, offset, height int) *fakeBox {
	return &fakeBox{rect: Rect{Top: c.rect.Top + c.border + c.padding + offset, Height: height}, ok: true}
}

func TestIsStuck(t *testing.T) {
	tests := []struct {
		name string
		m    Measurement
		want bool
	}{
		{"pinned at slot", Measurement{Offset: 0, HeaderHeight: 28, NominalTop: 0, ScrollTop: 10, Open: true}, true},
		{"past the band", Measurement{Offset: 30, HeaderHeight: 28, NominalTop: 0, ScrollTop: 10, Open: true}, false},
		{"unscrolled container", Measurement{Offset: 0, HeaderHeight: 28, NominalTop: 0, ScrollTop: 0, Open: true}, false},
		{"unscrolled container any offset", Measurement{Offset: -10, HeaderHeight: 28, NominalTop: 0, ScrollTop: 0, Open: true}, false},
		{"folder closed", Measurement{Offset: 0, HeaderHeight: 28, NominalTop: 0, ScrollTop: 10, Open: false}, false},
		{"partially pushed up", Measurement{Offset: -27, HeaderHeight: 28, NominalTop: 0, ScrollTop: 10, Open: true}, true},
		{"fully pushed up", Measurement{Offset: -28, HeaderHeight: 28, NominalTop: 0, ScrollTop: 10, Open: true}, false},
		{"not yet reached slot", Measurement{Offset: 29, HeaderHeight: 28, NominalTop: 28, ScrollTop: 10, Open: true}, false},
		{"deeper slot", Measurement{Offset: 28, HeaderHeight: 28, NominalTop: 28, ScrollTop: 10, Open: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStuck(tt.m); got != tt.want {
				t.Errorf("IsStuck(%+v) = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestNominalTop(t *testing.T) {
	if NominalTop(1, 28) != 0 || NominalTop(3, 28) != 56 {
		t.Error("NominalTop should be headerHeight * (depth - 1)")
	}
	if NominalTop(0, 28) != 0 {
		t.Error("NominalTop should clamp depth to 1")
	}
}

func TestMeasure(t *testing.T) {
	c := newContainer(5, 10)
	h := headerAt(c, 7, 28)

	m, ok := Measure(c, h, 28, true)
	if !ok {
		t.Fatal("Expected measurement")
	}
	if m.Offset != 7 || m.HeaderHeight != 28 || m.ScrollTop != 10 || m.NominalTop != 28 || !m.Open {
		t.Errorf("Unexpected measurement %+v", m)
	}

	if _, ok := Measure(nil, h, 0, true); ok {
		t.Error("Expected no measurement without a container")
	}
	if _, ok := Measure(c, &fakeBox{}, 0, true); ok {
		t.Error("Expected no measurement for a header that is not laid out")
	}
	c.ok = false
	if _, ok := Measure(c, h, 0, true); ok {
		t.Error("Expected no measurement for a container that is not laid out")
	}
}

func TestResolveFoldUniqueness(t *testing.T) {
	got := Resolve([]State{
		{Visible: true, Stuck: true},
		{Visible: true, Stuck: true},
		{Visible: true, Stuck: true},
	})
	if !slices.Equal(got, []bool{false, false, true}) {
		t.Errorf("Resolve = %v, want only the deepest folded", got)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		headers []State
		want    []bool
	}{
		{
			name:    "nothing stuck unfolds everything visible",
			headers: []State{{Visible: true, Folded: true}, {Visible: true}},
			want:    []bool{false, false},
		},
		{
			name:    "hidden headers keep their flag",
			headers: []State{{Visible: true, Stuck: true}, {Visible: false, Stuck: true, Folded: true}},
			want:    []bool{true, true},
		},
		{
			name:    "visible non-stuck after match is unfolded",
			headers: []State{{Visible: true, Folded: true}, {Visible: true, Stuck: true}, {Visible: true}},
			want:    []bool{false, true, false},
		},
		{
			name:    "empty",
			headers: nil,
			want:    []bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.headers); !slices.Equal(got, tt.want) {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

// stackedRegistry mounts three open headers at depths 1-3, each sitting in
// its pinned slot.
func stackedRegistry(c *fakeContainer) *Registry {
	r := NewRegistry(28)
	r.SetContainer(c)
	r.Sync([]Mount{
		{Path: "a", Depth: 1, Open: true, Visible: true, Header: headerAt(c, 0, 28)},
		{Path: "a/b", Depth: 2, Open: true, Visible: true, Header: headerAt(c, 28, 28)},
		{Path: "a/b/c", Depth: 3, Open: true, Visible: true, Header: headerAt(c, 56, 28)},
	})
	return r
}

func TestRegistryFoldUniqueness(t *testing.T) {
	r := stackedRegistry(newContainer(0, 100))

	changed := r.Detect()
	if len(changed) != 3 {
		t.Fatalf("Expected 3 stuck changes, got %v", changed)
	}
	if len(r.Stack()) != 3 {
		t.Fatalf("Expected stuck stack of 3, got %d", len(r.Stack()))
	}

	r.Resolve()
	for path, want := range map[string]bool{"a": false, "a/b": false, "a/b/c": true} {
		if _, folded := r.Flags(path); folded != want {
			t.Errorf("%s folded = %v, want %v", path, folded, want)
		}
	}
}

func TestRegistryFoldReactivity(t *testing.T) {
	c := newContainer(0, 100)
	r := stackedRegistry(c)
	var d Debouncer

	r.Detect()
	r.Resolve()

	// Collapse the deepest folder.
	res := r.Sync([]Mount{
		{Path: "a", Depth: 1, Open: true, Visible: true, Header: headerAt(c, 0, 28)},
		{Path: "a/b", Depth: 2, Open: true, Visible: true, Header: headerAt(c, 28, 28)},
		{Path: "a/b/c", Depth: 3, Open: false, Visible: true, Header: headerAt(c, 56, 28)},
	})
	if !slices.Equal(res.Changed, []string{"a/b/c"}) {
		t.Fatalf("Expected a/b/c stuck change, got %v", res.Changed)
	}

	gen := d.Trigger()

	// Before the debounce fires, folding is unchanged.
	if _, folded := r.Flags("a/b/c"); !folded {
		t.Error("a/b/c should stay folded until resolution runs")
	}

	if !d.Due(gen) {
		t.Fatal("Latest generation should be due")
	}
	r.Resolve()

	if _, folded := r.Flags("a/b"); !folded {
		t.Error("a/b should be folded after a/b/c stops being stuck")
	}
	if _, folded := r.Flags("a/b/c"); folded {
		t.Error("a/b/c should no longer be folded")
	}
}

func TestRegistryScrollToTop(t *testing.T) {
	c := newContainer(0, 100)
	r := stackedRegistry(c)
	r.Detect()

	c.scroll = 0
	changed := r.Detect()
	if len(changed) != 3 {
		t.Errorf("Expected all headers to unstick, got %v", changed)
	}
	if len(r.Stack()) != 0 {
		t.Errorf("Expected empty stack at scroll top")
	}
}

func TestRegistryWithoutContainer(t *testing.T) {
	c := newContainer(0, 100)
	r := stackedRegistry(c)
	r.SetContainer(nil)

	if changed := r.Detect(); changed != nil {
		t.Errorf("Expected no work without a container, got %v", changed)
	}
	if stuck, _ := r.Flags("a"); stuck {
		t.Error("Nothing should be stuck without a container")
	}
}

func TestRegistryUnlaidHeaderIsNotStuck(t *testing.T) {
	c := newContainer(0, 100)
	r := NewRegistry(28)
	r.SetContainer(c)
	r.Sync([]Mount{{Path: "a", Depth: 1, Open: true, Visible: true, Header: &fakeBox{}}})

	if changed := r.Detect(); len(changed) != 0 {
		t.Errorf("Expected no stuck header, got %v", changed)
	}
}

func TestRegistrySyncLifecycle(t *testing.T) {
	c := newContainer(0, 100)
	r := NewRegistry(28)
	r.SetContainer(c)

	res := r.Sync([]Mount{{Path: "a", Depth: 1, Open: false, Visible: true, Header: headerAt(c, 0, 28)}})
	if res.Detect {
		t.Error("Closed folders should not request detection")
	}
	if changed := r.Detect(); len(changed) != 0 {
		t.Errorf("Detached detector should not run, got %v", changed)
	}

	res = r.Sync([]Mount{{Path: "a", Depth: 1, Open: true, Visible: true, Header: headerAt(c, 0, 28)}})
	if !res.Detect {
		t.Error("Opening a folder should request an eager detection pass")
	}
	r.Detect()
	if stuck, _ := r.Flags("a"); !stuck {
		t.Error("Expected a to be stuck after opening")
	}

	r.Sync(nil)
	if r.Len() != 0 {
		t.Errorf("Expected all slots unmounted, got %d", r.Len())
	}
	if _, ok := r.Slot("a"); ok {
		t.Error("Unmounted slot should be gone")
	}

	// Remounting starts from a clean slate.
	r.Sync([]Mount{{Path: "a", Depth: 1, Open: false, Visible: true, Header: headerAt(c, 0, 28)}})
	if s, _ := r.Slot("a"); s.Stuck || s.Folded {
		t.Errorf("Remounted slot should start clean, got %+v", s)
	}
}

func TestRegistryClearFoldedWithin(t *testing.T) {
	r := stackedRegistry(newContainer(0, 100))
	r.Detect()
	r.Resolve()

	r.ClearFoldedWithin("a/b")
	if _, folded := r.Flags("a/b/c"); folded {
		t.Error("a/b/c should be unfolded")
	}

	r.Resolve()
	r.ClearFoldedWithin("a/b/c")
	if _, folded := r.Flags("a/b/c"); !folded {
		t.Error("A folder's own header is not inside its content")
	}
}

func TestThrottle(t *testing.T) {
	var th Throttle

	if !th.Request() {
		t.Fatal("First request should schedule a frame")
	}
	if th.Request() || th.Request() {
		t.Error("Requests within a frame should coalesce")
	}
	if !th.Pending() {
		t.Error("Frame should be pending")
	}

	th.Done()
	if th.Pending() {
		t.Error("Frame should not be pending after Done")
	}
	if !th.Request() {
		t.Error("A request after the frame should schedule a new one")
	}
}

func TestDebouncer(t *testing.T) {
	var d Debouncer

	first := d.Trigger()
	second := d.Trigger()

	if d.Due(first) {
		t.Error("Superseded generation should not be due")
	}
	if !d.Due(second) {
		t.Error("Latest generation should be due")
	}
}
