// Package scheduler implements the two disk-scheduling policies: SimpleDriver
// (first-come-first-served) and ElevatorDriver (direction-batched SCAN).
package scheduler

import "github.com/diskscan/diskscan/internal/task"

// Driver is the contract both policies implement: accept tasks as they
// arrive, advance the underlying disk by one tick, and report completions.
//
// Step must call the disk's Step at most once per invocation, and must
// return exactly one completion per call — 0 means nothing completed this
// tick.
type Driver interface {
	AddNewTask(t *task.Task)
	Step() int
}
