// Package harness drives a scheduler.Driver through its tick loop and
// records the response times the core itself never computes: spec.md keeps
// the core total and timing-agnostic; the harness is where wall-clock-free
// "tick bookkeeping" belongs.
package harness

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/diskscan/diskscan/internal/scheduler"
	"github.com/diskscan/diskscan/internal/task"
)

// Completion records when a task arrived and when it was observed complete.
type Completion struct {
	TaskID       int
	ArrivalTick  int64
	CompleteTick int64
}

// ResponseTime is CompleteTick - ArrivalTick, the quantity the log file
// format in spec §6 reports per task.
func (c Completion) ResponseTime() int64 {
	return c.CompleteTick - c.ArrivalTick
}

// Result is the outcome of a run: completions in the order step() returned
// them, plus the total tick count the harness spent.
type Result struct {
	Completions []Completion
	Ticks       int64
}

// Arrival pairs a task with the tick at which it should be submitted.
type Arrival struct {
	Tick int64
	Task *task.Task
}

// Harness coordinates a Driver's tick loop. It holds no simulation state of
// its own beyond tracking arrival/completion ticks for reporting.
type Harness struct {
	logger *slog.Logger
}

// New returns a Harness that logs via logger. A nil logger falls back to
// slog.Default().
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.Default()
	}
	return &Harness{logger: logger}
}

// RunBatch submits every task at tick 0, then steps until all have
// completed.
func (h *Harness) RunBatch(driver scheduler.Driver, tasks []*task.Task) Result {
	arrivals := make([]Arrival, len(tasks))
	for i, t := range tasks {
		arrivals[i] = Arrival{Tick: 0, Task: t}
	}
	return h.RunArrivals(driver, arrivals)
}

// RunArrivals submits each task at its chosen tick and steps until every
// submitted task has completed.
func (h *Harness) RunArrivals(driver scheduler.Driver, arrivals []Arrival) Result {
	arrivalTick := make(map[int]int64, len(arrivals))
	byTick := make(map[int64][]*task.Task)
	for _, a := range arrivals {
		byTick[a.Tick] = append(byTick[a.Tick], a.Task)
	}

	var result Result
	pending := len(arrivals)
	var tick int64

	for pending > 0 {
		for _, t := range byTick[tick] {
			driver.AddNewTask(t)
			arrivalTick[t.ID()] = tick
		}
		delete(byTick, tick)

		if id := driver.Step(); id != 0 {
			result.Completions = append(result.Completions, Completion{
				TaskID:       id,
				ArrivalTick:  arrivalTick[id],
				CompleteTick: tick,
			})
			pending--
		}
		tick++
	}

	result.Ticks = tick
	return result
}

// RunProbabilistic ports run_naive_approach_simulation: every tick, while
// tasks remain unsubmitted, one is drawn with the given probability. This is
// the arrival scheme the original interactive menu actually ran, as opposed
// to the literal batch/test-scenario submission of RunBatch.
func (h *Harness) RunProbabilistic(ctx context.Context, driver scheduler.Driver, tasks []*task.Task, injectionProbability float64) (Result, error) {
	arrivalTick := make(map[int]int64, len(tasks))

	var result Result
	submitted := 0
	pending := 0
	var tick int64

	for submitted < len(tasks) || pending > 0 {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if submitted < len(tasks) && rand.Float64() < injectionProbability {
			t := tasks[submitted]
			driver.AddNewTask(t)
			arrivalTick[t.ID()] = tick
			submitted++
			pending++
			h.logger.Debug("task submitted", "task_id", t.ID(), "tick", tick)
		}

		if id := driver.Step(); id != 0 {
			result.Completions = append(result.Completions, Completion{
				TaskID:       id,
				ArrivalTick:  arrivalTick[id],
				CompleteTick: tick,
			})
			pending--
			h.logger.Debug("task completed", "task_id", id, "tick", tick)
		}

		tick++
	}

	result.Ticks = tick
	return result, nil
}
