// Package report writes the simulation's run log, the one piece of output
// format existing tooling depends on byte-for-byte.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/diskscan/diskscan/internal/domain"
	"github.com/diskscan/diskscan/internal/harness"
)

// Algorithm names the scheduling policy a run used, for the header line.
type Algorithm string

const (
	Naive    Algorithm = "Naive"
	Elevator Algorithm = "Elevator"
)

// Config captures the hardware parameters a run used, for the header line.
type Config struct {
	ForwardSpeed int
	SpinSpeed    int
	MaxTrack     int
}

// Write renders a run's header and response times to w in submission order.
func Write(w io.Writer, algo Algorithm, cfg Config, result harness.Result, submissionOrder []int) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "algorithm: %s, forward_speed: %d, spin_speed: %d, max_track: %d, steps: %d\n",
		algo, cfg.ForwardSpeed, cfg.SpinSpeed, cfg.MaxTrack, result.Ticks); err != nil {
		return domain.NewExternalError("failed to write report header", err)
	}

	byID := make(map[int]harness.Completion, len(result.Completions))
	for _, c := range result.Completions {
		byID[c.TaskID] = c
	}

	var line strings.Builder
	for _, id := range submissionOrder {
		c, ok := byID[id]
		if !ok {
			continue
		}
		line.WriteString(strconv.FormatInt(c.ResponseTime(), 10))
		line.WriteByte(',')
	}
	line.WriteByte('\n')

	if _, err := bw.WriteString(line.String()); err != nil {
		return domain.NewExternalError("failed to write report body", err)
	}

	if err := bw.Flush(); err != nil {
		return domain.NewExternalError("failed to flush report", err)
	}
	return nil
}

// WriteFile creates <timestampMillis>.txt under dir and writes the run log
// into it.
func WriteFile(dir string, timestampMillis int64, algo Algorithm, cfg Config, result harness.Result, submissionOrder []int) (string, error) {
	path := fmt.Sprintf("%s/%d.txt", dir, timestampMillis)

	f, err := os.Create(path)
	if err != nil {
		return "", domain.NewExternalError("failed to create report file", err).WithContext("path", path)
	}
	defer f.Close()

	if err := Write(f, algo, cfg, result, submissionOrder); err != nil {
		return "", err
	}
	return path, nil
}
