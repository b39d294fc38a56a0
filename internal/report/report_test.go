package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diskscan/diskscan/internal/harness"
)

func TestWrite_HeaderAndBodyMatchFormat(t *testing.T) {
	result := harness.Result{
		Ticks: 42,
		Completions: []harness.Completion{
			{TaskID: 1, ArrivalTick: 0, CompleteTick: 10},
			{TaskID: 2, ArrivalTick: 5, CompleteTick: 20},
		},
	}

	var buf bytes.Buffer
	err := Write(&buf, Naive, Config{ForwardSpeed: 3, SpinSpeed: 7, MaxTrack: 100}, result, []int{1, 2})
	require.NoError(t, err)

	lines := bytes.Split(buf.Bytes(), []byte("\n"))
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "algorithm: Naive, forward_speed: 3, spin_speed: 7, max_track: 100, steps: 42", string(lines[0]))
	assert.Equal(t, "10,15,", string(lines[1]))
}

func TestWrite_OmitsSubmittedTasksWithoutCompletion(t *testing.T) {
	result := harness.Result{
		Ticks:       5,
		Completions: []harness.Completion{{TaskID: 1, ArrivalTick: 0, CompleteTick: 3}},
	}

	var buf bytes.Buffer
	err := Write(&buf, Elevator, Config{ForwardSpeed: 1, SpinSpeed: 1, MaxTrack: 10}, result, []int{1, 2})
	require.NoError(t, err)

	lines := bytes.Split(buf.Bytes(), []byte("\n"))
	assert.Equal(t, "3,", string(lines[1]))
}

func TestWriteFile_CreatesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	result := harness.Result{
		Ticks:       1,
		Completions: []harness.Completion{{TaskID: 1, ArrivalTick: 0, CompleteTick: 1}},
	}

	path, err := WriteFile(dir, 1700000000000, Naive, Config{ForwardSpeed: 1, SpinSpeed: 1, MaxTrack: 1}, result, []int{1})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1700000000000.txt"), path)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "algorithm: Naive")
}
