package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diskscan/diskscan/internal/disk"
)

// Scenario B — Elevator piggyback: a same_dir task enqueued mid-seek
// preempts the active task and completes first.
func TestElevatorDriver_PiggybackPreemptsMidSeek(t *testing.T) {
	d := disk.New(1, 1)
	e := NewElevatorDriver(d)

	e.AddNewTask(mustTask(t, 1, 10, 0))
	require.Equal(t, 0, e.Step()) // picks up task 1, issues seek forward

	for d.CurrentTrack() != 5 {
		require.Equal(t, 0, e.Step())
	}

	e.AddNewTask(mustTask(t, 2, 7, 0)) // disk is Seeking Forward, track 7 is ahead -> same_dir

	var completions []int
	for ticks := 0; len(completions) < 2 && ticks < 1000; ticks++ {
		if id := e.Step(); id != 0 {
			completions = append(completions, id)
		}
	}

	require.Len(t, completions, 2)
	assert.Equal(t, []int{2, 1}, completions, "preempted task completes before the resumed sweep")
}

// Scenario C — Elevator deferred to opposite sweep.
func TestElevatorDriver_DefersToOppositeSweep(t *testing.T) {
	d := disk.New(1, 1)
	e := NewElevatorDriver(d)

	e.AddNewTask(mustTask(t, 1, 10, 0))
	require.Equal(t, 0, e.Step())

	for d.CurrentTrack() != 5 {
		require.Equal(t, 0, e.Step())
	}

	e.AddNewTask(mustTask(t, 3, 2, 0)) // behind the head while seeking forward -> opp_dir

	var completions []int
	for ticks := 0; len(completions) < 2 && ticks < 10000; ticks++ {
		if id := e.Step(); id != 0 {
			completions = append(completions, id)
		}
	}

	require.Len(t, completions, 2)
	assert.Equal(t, []int{1, 3}, completions, "opp_dir task waits for the return sweep")
}

// Scenario D — Read completes angle wait. With spin_speed=2, reaching a
// 90-degree target costs 2*90=180 disk-level rotation ticks; the driver
// needs three additional calls around that window (issue the pickup, issue
// the read, and notice the angle match), so completion lands on call 183.
func TestElevatorDriver_ReadCompletesAfterAngleWait(t *testing.T) {
	d := disk.New(1, 2)
	e := NewElevatorDriver(d)

	e.AddNewTask(mustTask(t, 1, 1, 90))

	calls := 0
	var completedAt int
	for completedAt == 0 && calls < 10000 {
		if id := e.Step(); id != 0 {
			completedAt = calls + 1
		}
		calls++
	}

	require.NotZero(t, completedAt)
	assert.Equal(t, 183, completedAt)
}

// Scenario E — No-op seek: a task at the starting track/angle resolves via
// the read path without any seek ticks: one call picks it up, the next
// completes it.
func TestElevatorDriver_NoOpSeekResolvesViaReadPath(t *testing.T) {
	d := disk.New(1, 1)
	e := NewElevatorDriver(d)

	e.AddNewTask(mustTask(t, 1, 1, 0))

	id := e.Step()
	assert.Equal(t, 0, id, "same_dir pickup only sets the active task")
	id = e.Step()
	assert.Equal(t, 1, id, "disk starts idle at the task's track/angle; the read path completes on the next step")
}

// Scenario F — Piggyback at same track while reading.
func TestElevatorDriver_PiggybackWhileReading(t *testing.T) {
	d := disk.New(1, 3)
	e := NewElevatorDriver(d)

	e.AddNewTask(mustTask(t, 1, 7, 90))
	require.Equal(t, 0, e.Step()) // picks up task 1, seeks to track 7

	for d.CurrentTrack() != 7 {
		require.Equal(t, 0, e.Step())
	}
	require.Equal(t, 0, e.Step()) // now idle at track 7, issues the read for angle 90
	require.True(t, d.IsRotating())

	e.AddNewTask(mustTask(t, 5, 7, 45)) // same track while reading -> same_dir piggyback

	var completions []int
	for ticks := 0; len(completions) < 2 && ticks < 10000; ticks++ {
		if id := e.Step(); id != 0 {
			completions = append(completions, id)
		}
	}

	require.Len(t, completions, 2)
	assert.Equal(t, []int{1, 5}, completions)
}

func TestElevatorDriver_SweepSwapIsInvolutive(t *testing.T) {
	d := disk.New(1, 1)
	e := NewElevatorDriver(d)
	e.oppDir[9] = append(e.oppDir[9], mustTask(t, 1, 9, 0))

	// two successive reversals with no intervening classification must
	// leave state unchanged: swap once while sameDir is empty and active is
	// nil (valid reversal), then swap back the same way.
	e.sameDir, e.oppDir = e.oppDir, e.sameDir
	e.sameDir, e.oppDir = e.oppDir, e.sameDir

	require.Contains(t, e.oppDir, 9)
	assert.Empty(t, e.sameDir)
}

func TestElevatorDriver_EachTaskIDReturnedExactlyOnce(t *testing.T) {
	d := disk.New(1, 1)
	e := NewElevatorDriver(d)
	for i, track := range []int{3, 7, 2, 9, 1} {
		e.AddNewTask(mustTask(t, i+1, track, 0))
	}

	seen := map[int]int{}
	for ticks := 0; ticks < 10000; ticks++ {
		if id := e.Step(); id != 0 {
			seen[id]++
		}
	}

	assert.Len(t, seen, 5)
	for id, count := range seen {
		assert.Equal(t, 1, count, "task %d should complete exactly once", id)
	}
}
