package scheduler

import (
	"github.com/diskscan/diskscan/internal/disk"
	"github.com/diskscan/diskscan/internal/task"
)

// SimpleDriver services tasks strictly in arrival order (FCFS), with no
// reordering by track proximity.
type SimpleDriver struct {
	disk    *disk.Disk
	pending []*task.Task
	active  *task.Task
}

// NewSimpleDriver takes ownership of d for the driver's lifetime.
func NewSimpleDriver(d *disk.Disk) *SimpleDriver {
	return &SimpleDriver{disk: d}
}

// AddNewTask appends t to the FIFO queue.
func (s *SimpleDriver) AddNewTask(t *task.Task) {
	s.pending = append(s.pending, t)
}

// Step implements Driver.
func (s *SimpleDriver) Step() int {
	if s.active == nil {
		if len(s.pending) == 0 {
			return 0
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.active = next
		s.disk.AddMoveTask(next.Track())
		return 0
	}

	if s.disk.CurrentTrack() == s.active.Track() {
		if s.disk.CurrentAngle() == s.active.Angle() {
			completed := s.active.ID()
			s.disk.RecordCompletion(completed)
			s.active = nil
			return completed
		}
		if s.disk.IsRotating() {
			s.disk.Step()
			return 0
		}
		s.disk.AddReadingTask(s.active.Angle())
		return 0
	}

	s.disk.Step()
	return 0
}
