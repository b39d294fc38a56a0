package scheduler

import (
	"github.com/diskscan/diskscan/internal/disk"
	"github.com/diskscan/diskscan/internal/task"
)

// ElevatorDriver implements the SCAN-style policy: tasks are classified as
// belonging to the current sweep (same_dir) or the next one (opp_dir), keyed
// by track. When the current sweep runs dry, the two buckets swap and the
// opposite direction becomes the new sweep.
//
// A task is at all times in exactly one of sameDir, oppDir, or active.
type ElevatorDriver struct {
	disk *disk.Disk

	sameDir map[int][]*task.Task
	oppDir  map[int][]*task.Task

	active *task.Task
}

// NewElevatorDriver takes ownership of d for the driver's lifetime.
func NewElevatorDriver(d *disk.Disk) *ElevatorDriver {
	return &ElevatorDriver{
		disk:    d,
		sameDir: make(map[int][]*task.Task),
		oppDir:  make(map[int][]*task.Task),
	}
}

// AddNewTask classifies t into sameDir or oppDir based on the disk's current
// mode and direction relative to t's track.
func (e *ElevatorDriver) AddNewTask(t *task.Task) {
	switch {
	case e.disk.IsIdle():
		e.pushSameDir(t)

	case e.disk.IsRotating():
		if t.Track() == e.disk.CurrentTrack() {
			e.pushSameDir(t) // piggyback on the current rotation
		} else {
			e.pushOppDir(t)
		}

	case e.disk.IsSeeking():
		if t.Track() == e.disk.CurrentTrack() {
			// head has just left this track; catch it on the return sweep
			e.pushOppDir(t)
			return
		}
		if e.disk.DirectionTowards(t.Track()) == e.disk.SeekDirection() {
			e.pushSameDir(t)
		} else {
			e.pushOppDir(t)
		}
	}
}

func (e *ElevatorDriver) pushSameDir(t *task.Task) {
	e.sameDir[t.Track()] = append(e.sameDir[t.Track()], t)
}

func (e *ElevatorDriver) pushOppDir(t *task.Task) {
	e.oppDir[t.Track()] = append(e.oppDir[t.Track()], t)
}

// popFrom removes and returns the last task queued at track from m (LIFO;
// tasks at identical coordinates are interchangeable beyond id tracking),
// deleting the key once its bucket empties.
func popFrom(m map[int][]*task.Task, track int) *task.Task {
	bucket := m[track]
	n := len(bucket)
	popped := bucket[n-1]
	if n == 1 {
		delete(m, track)
	} else {
		m[track] = bucket[:n-1]
	}
	return popped
}

// anyKey returns an arbitrary track present in m. Go's map iteration order
// is randomized, which is an intentional match for the unspecified "pick
// some key" selection this policy is ported from — see the open question
// about sweep-order determinism.
func anyKey(m map[int][]*task.Task) (int, bool) {
	for k := range m {
		return k, true
	}
	return 0, false
}

// Step implements Driver.
func (e *ElevatorDriver) Step() int {
	if e.active == nil {
		return e.stepIdleActive()
	}
	return e.stepActiveTask()
}

func (e *ElevatorDriver) stepIdleActive() int {
	track := e.disk.CurrentTrack()

	if bucket, ok := e.sameDir[track]; ok && len(bucket) > 0 {
		e.active = popFrom(e.sameDir, track)
		return 0
	}

	if len(e.sameDir) > 0 {
		nextTrack, _ := anyKey(e.sameDir)
		popped := popFrom(e.sameDir, nextTrack)
		e.active = popped
		e.disk.AddMoveTask(popped.Track())
		return 0
	}

	if len(e.oppDir) > 0 {
		e.sameDir, e.oppDir = e.oppDir, e.sameDir
		return 0
	}

	return 0
}

func (e *ElevatorDriver) stepActiveTask() int {
	track := e.disk.CurrentTrack()

	if track == e.active.Track() {
		if e.disk.CurrentAngle() == e.active.Angle() {
			completed := e.active.ID()
			e.disk.RecordCompletion(completed)
			e.active = nil
			return completed
		}
		if e.disk.IsRotating() {
			e.disk.Step()
			return 0
		}
		e.disk.AddReadingTask(e.active.Angle())
		return 0
	}

	if bucket, ok := e.sameDir[track]; ok && len(bucket) > 0 && e.disk.IsSeeking() {
		promoted := popFrom(e.sameDir, track)
		demoted := e.active
		e.sameDir[demoted.Track()] = append(e.sameDir[demoted.Track()], demoted)
		e.disk.DetachMode()
		e.active = promoted
		return 0
	}

	e.disk.Step()
	return 0
}
