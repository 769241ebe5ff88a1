// Package app provides the Bubble Tea model for foldtree.
//
// The model loads a path set, builds the forest and flattens it into rows,
// then shows those rows in a scrolling viewport. Every change of the scroll
// offset schedules a detection frame; stuck changes are debounced before
// the fold resolver runs. Filtering, folder toggling, file selection and
// live reloads all rebuild the forest while open state and selection,
// keyed by path, survive.
package app
