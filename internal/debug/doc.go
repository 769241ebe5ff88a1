// Package debug provides debug logging for foldtree.
//
// When enabled via the --debug flag, it logs tree rebuilds, path
// collisions, stuck and fold transitions, and watcher events to a file.
// Nothing is written while logging is off.
package debug
