// Package task defines the immutable request descriptor serviced by the
// disk drivers.
package task

import "github.com/diskscan/diskscan/internal/domain"

// Task is an immutable request: complete a read at (Track, Angle), reported
// back to the harness by ID once serviced. Equality is by ID.
type Task struct {
	id    int
	track int
	angle int
}

// New constructs a Task, validating it at the harness boundary: id must be
// positive (id 0 is the driver's "no completion this tick" sentinel) and
// angle must fall within a single revolution. Track has no upper bound
// enforced here — the disk has no notion of a maximum track; a harness
// wanting to bound tracks to a hardware profile's max_track does so before
// calling New (see internal/generator).
func New(id, track, angle int) (*Task, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("task id must be positive", nil).WithContext("id", id)
	}
	if track < 0 {
		return nil, domain.NewValidationError("track is outside the disk's addressable range", nil).WithContext("track", track)
	}
	if angle < 0 || angle > 359 {
		return nil, domain.NewValidationError("angle must fall within a single revolution", nil).WithContext("angle", angle)
	}
	return &Task{id: id, track: track, angle: angle}, nil
}

// ID returns the task's identifier.
func (t *Task) ID() int { return t.id }

// Track returns the task's target track.
func (t *Task) Track() int { return t.track }

// Angle returns the task's target angle.
func (t *Task) Angle() int { return t.angle }

// Equal reports equality by ID, per the task's value semantics.
func (t *Task) Equal(other *Task) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.id == other.id
}
