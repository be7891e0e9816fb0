// Package joblog accumulates the per-job log that is returned to the
// caller verbatim, mirroring every line into the process-wide zerolog
// sink. The mirror is a side channel: it never fails the job.
package joblog

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Log struct {
	diag zerolog.Logger

	mu    sync.Mutex
	lines []string
}

func New(diag zerolog.Logger, jobID, matchID string) *Log {
	return &Log{
		diag: diag.With().Str("job_id", jobID).Str("match_id", matchID).Logger(),
	}
}

// Printf appends a timestamped line to the job log. Append-only: lines
// are never removed or reordered.
func (l *Log) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	line := time.Now().Format("15:04:05") + " " + msg

	l.mu.Lock()
	l.lines = append(l.lines, line)
	l.mu.Unlock()

	l.diag.Info().Msg(msg)
}

// Lines returns a copy of the accumulated lines. Safe to call at any
// point: mid-job for partial logs, after the terminal state for the
// full trail.
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
