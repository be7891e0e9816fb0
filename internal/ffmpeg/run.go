// Package ffmpeg builds argument vectors for the external transcoder
// and runs it with bounded output capture. Commands are always executed
// as an argument vector, never through a shell.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandError reports a non-zero exit or a spawn failure, carrying the
// truncated stderr tail for diagnostics.
type CommandError struct {
	ExitCode int // -1 when the process never started
	Stderr   string
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffmpeg exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("ffmpeg exited with code %d: %s", e.ExitCode, e.Stderr)
}

// Output holds the captured (truncated) streams of one invocation.
type Output struct {
	Stdout string
	Stderr string
}

// tailBuffer keeps only the last max bytes written. ffmpeg puts the
// actual error at the end of stderr, so the tail is the part worth
// keeping.
type tailBuffer struct {
	max int
	buf []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if len(b.buf) > b.max {
		b.buf = append(b.buf[:0:0], b.buf[len(b.buf)-b.max:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string { return string(b.buf) }

// Run executes bin with args to completion. stdout and stderr are each
// captured into an independent bounded tail. Non-zero exit or spawn
// failure yields a *CommandError.
func Run(ctx context.Context, bin string, args []string, maxCapture int) (Output, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	stdout := &tailBuffer{max: maxCapture}
	stderr := &tailBuffer{max: maxCapture}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, &CommandError{ExitCode: exitErr.ExitCode(), Stderr: out.Stderr}
		}
		// spawn failure (binary missing, etc.)
		return out, &CommandError{ExitCode: -1, Stderr: err.Error()}
	}
	return out, nil
}

// Runner is the transcoder used by the pipeline.
type Runner struct {
	Bin          string
	Profile      Profile
	CaptureLimit int
}

func (r *Runner) Remux(ctx context.Context, inPath, outPath string) error {
	_, err := Run(ctx, r.Bin, BuildRemuxArgs(inPath, outPath), r.CaptureLimit)
	if err != nil {
		return fmt.Errorf("remux: %w", err)
	}
	return nil
}

func (r *Runner) Transcode(ctx context.Context, inPath, outPath string) error {
	_, err := Run(ctx, r.Bin, BuildTranscodeArgs(inPath, outPath, r.Profile), r.CaptureLimit)
	if err != nil {
		return fmt.Errorf("transcode: %w", err)
	}
	return nil
}
