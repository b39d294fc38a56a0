// Package disk implements the rotating-head mechanics: position, motion
// mode, and the per-tick advancement rules derived from the two mechanical
// time constants (forward_speed, spin_speed).
package disk

import (
	"sync"

	"github.com/diskscan/diskscan/internal/domain"
)

// Disk is the discrete-time state machine for a single rotating head. It is
// mutated from exactly one goroutine (the harness/driver loop). Every method
// takes the disk's mutex; Snapshot returns all fields in one consistent view
// for instrumentation goroutines that only ever read.
type Disk struct {
	mu sync.RWMutex

	currentTrack int
	currentAngle int
	mode         headMode

	forwardSpeed int
	spinSpeed    int

	subTickCounter int

	lastCompletion int
}

// New constructs a fresh disk at track 1, angle 0, mode Idle. forwardSpeed
// and spinSpeed are stored verbatim as tick counts; any Hz/RPM conversion is
// the harness's job (internal/units), not the disk's.
func New(forwardSpeed, spinSpeed int) *Disk {
	return &Disk{
		currentTrack: 1,
		currentAngle: 0,
		mode:         idleMode(),
		forwardSpeed: forwardSpeed,
		spinSpeed:    spinSpeed,
	}
}

// AddMoveTask requests a seek to destination. No-op unless the disk is
// currently Idle and destination differs from the current track.
func (d *Disk) AddMoveTask(destination int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mode.kind != modeIdle || destination == d.currentTrack {
		return
	}

	direction := domain.SeekBackward
	if destination > d.currentTrack {
		direction = domain.SeekForward
	}
	d.mode = seekingMode(destination, direction)
}

// AddReadingTask unconditionally switches the head into Reading(angle). The
// disk does not check that it is parked at the right track first; callers
// (the drivers) are responsible for only invoking this when stationary at
// the task's track.
func (d *Disk) AddReadingTask(angle int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mode = readingMode(angle)
}

// Step advances one simulation tick according to the current mode.
func (d *Disk) Step() {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.mode.kind {
	case modeIdle:
		// no effect
	case modeReading:
		d.subTickCounter++
		if d.subTickCounter == d.spinSpeed {
			d.currentAngle = (d.currentAngle + 1) % 360
			d.subTickCounter = 0
		}
		if d.currentAngle == d.mode.targetAngle {
			d.mode = idleMode()
		}
	case modeSeeking:
		d.subTickCounter++
		if d.subTickCounter == d.forwardSpeed {
			d.subTickCounter = 0
		}
		// The track advances every tick regardless of the counter above.
		// forward_speed therefore never changes seek duration; preserved
		// as-is rather than gated on the reset (see design notes).
		if d.mode.seek.direction == domain.SeekForward {
			d.currentTrack++
		} else {
			d.currentTrack--
		}
		if d.currentTrack == d.mode.seek.destination {
			d.mode = idleMode()
		}
	}
}

// IsIdle reports whether the head is stationary with no pending operation.
func (d *Disk) IsIdle() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mode.kind == modeIdle
}

// IsRotating reports whether the head is in the Reading mode.
func (d *Disk) IsRotating() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mode.kind == modeReading
}

// IsSeeking reports whether the head is mid-seek.
func (d *Disk) IsSeeking() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mode.kind == modeSeeking
}

// CurrentTrack returns the head's current track.
func (d *Disk) CurrentTrack() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.currentTrack
}

// CurrentAngle returns the head's current angular position.
func (d *Disk) CurrentAngle() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.currentAngle
}

// DetachMode forces the disk back to Idle, discarding whatever operation was
// in progress; it returns nothing. Used by the elevator driver to preempt an
// in-progress seek.
func (d *Disk) DetachMode() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mode = idleMode()
}

// DirectionTowards reports the sweep direction a seek to track would take
// from the head's current position: Forward iff track >= currentTrack.
func (d *Disk) DirectionTowards(track int) domain.SeekDirection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if track >= d.currentTrack {
		return domain.SeekForward
	}
	return domain.SeekBackward
}

// SeekDirection reports the direction of an in-progress seek, or "" if the
// head is not currently seeking.
func (d *Disk) SeekDirection() domain.SeekDirection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.mode.kind != modeSeeking {
		return ""
	}
	return d.mode.seek.direction
}

// RecordCompletion stashes the most recently completed task id for
// Snapshot's benefit. It does not affect the state machine.
func (d *Disk) RecordCompletion(taskID int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastCompletion = taskID
}

// Snapshot returns a point-in-time, concurrency-safe view of the disk,
// intended for metrics/websocket consumers running on other goroutines.
func (d *Disk) Snapshot(tick int64) domain.DiskStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()

	status := domain.DiskStatus{
		Tick:           tick,
		Track:          d.currentTrack,
		Angle:          d.currentAngle,
		Mode:           d.mode.kindName(),
		LastCompletion: d.lastCompletion,
	}
	switch d.mode.kind {
	case modeReading:
		status.ReadTarget = d.mode.targetAngle
	case modeSeeking:
		status.SeekDirection = d.mode.seek.direction
		status.SeekTarget = d.mode.seek.destination
	}
	return status
}
