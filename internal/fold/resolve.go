package fold

// State is the part of a header the resolver looks at.
type State struct {
	Visible bool
	Stuck   bool
	Folded  bool
}

// Resolve returns the folded flag for each header, given in document order.
//
// Headers are examined deepest-last-first. The first visible stuck header
// found is folded; every other visible header is unfolded. Hidden headers
// keep whatever flag they had.
func Resolve(headers []State) []bool {
	folded := make([]bool, len(headers))
	found := false

	for i := len(headers) - 1; i >= 0; i-- {
		h := headers[i]
		folded[i] = h.Folded
		if !h.Visible {
			continue
		}
		if !found && h.Stuck {
			folded[i] = true
			found = true
			continue
		}
		folded[i] = false
	}

	return folded
}
