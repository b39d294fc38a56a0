// Package generator produces randomized read requests for scripted and
// interactive simulation runs, ported from the original menu's
// generate_random_request.
package generator

import (
	"math/rand/v2"

	"github.com/diskscan/diskscan/internal/task"
)

// Generator emits sequential-id tasks at uniformly random tracks and
// angles.
type Generator struct {
	maxTrack int
	nextID   int
}

// New returns a Generator that places tasks on tracks in [1, maxTrack] with
// angles in [0, 359], handing out ids starting at 1.
func New(maxTrack int) *Generator {
	return &Generator{maxTrack: maxTrack, nextID: 1}
}

// Next produces the next task in the sequence.
func (g *Generator) Next() (*task.Task, error) {
	id := g.nextID
	g.nextID++

	track := rand.IntN(g.maxTrack) + 1
	angle := rand.IntN(360)

	return task.New(id, track, angle)
}

// NextN produces n tasks in sequence.
func (g *Generator) NextN(n int) ([]*task.Task, error) {
	tasks := make([]*task.Task, 0, n)
	for i := 0; i < n; i++ {
		t, err := g.Next()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
