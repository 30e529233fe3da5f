// Package progress tracks multi-iteration loop execution with step-level
// detail. A Tracker owns a sequence of Iterations, each grouping the Steps
// of one stabilization attempt; steps re-executed after a blocking condition
// are recorded as revisions, and the final summary reports how much work
// needed to be redone.
//
// The tracker is a pure in-memory model. It performs no I/O, no logging and
// no locking: all calls on one Tracker must come from a single goroutine,
// and the driver that feeds it is responsible for serializing events from
// the execution engine. Misuse of the state machine (completing a finished
// step, skipping an iteration number, stabilizing twice) is reported as an
// error and never silently corrected.
package progress
