// Package presence implements the in-memory presence registry and the
// background reaper that expires stale records.
//
// The registry is a single mutex-guarded map keyed by player uuid. All
// operations are in-memory and complete in microseconds, so one coarse
// lock covers every operation; reads hand out copies, never references
// into the backing map.
package presence
