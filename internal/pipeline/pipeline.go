// Package pipeline drives one job through download -> transcode ->
// upload -> cleanup and produces the result returned to the caller.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"video-normalizer-service/internal/config"
	"video-normalizer-service/internal/entity"
	"video-normalizer-service/internal/joblog"
	"video-normalizer-service/internal/metrics"
)

// Порты пайплайна. Реализации: transfer.Client, ffmpeg.Runner,
// supabase.Reporter; в тестах — фейки.
type Downloader interface {
	DownloadToFile(ctx context.Context, srcURL, destPath string) (int64, error)
}

type Transcoder interface {
	Remux(ctx context.Context, inPath, outPath string) error
	Transcode(ctx context.Context, inPath, outPath string) error
}

type Uploader interface {
	Upload(ctx context.Context, srcPath string, job entity.Job) (string, error)
}

// StatusReporter mirrors job status into an external row. Optional;
// failures are logged and never change the job outcome.
type StatusReporter interface {
	ReportStatus(ctx context.Context, job entity.Job, patch map[string]any) error
}

// Result is the pipeline's output contract to the request boundary.
type Result struct {
	Status       entity.JobStatus
	JobID        string
	MatchID      string
	ResultURL    string // non-empty iff Status == success
	ErrorMessage string
	Code         int // HTTP-style class, set on error (400 caller fault, 500 downstream)
	Logs         []string
}

type Runner struct {
	workDir string
	policy  config.Policy

	dlTimeout time.Duration
	tcTimeout time.Duration
	upTimeout time.Duration

	downloader Downloader
	transcoder Transcoder
	uploader   Uploader
	reporter   StatusReporter // nil = callbacks disabled

	diag    zerolog.Logger
	metrics *metrics.Metrics
}

func New(cfg config.Config, d Downloader, t Transcoder, u Uploader, rep StatusReporter, diag zerolog.Logger, m *metrics.Metrics) *Runner {
	return &Runner{
		workDir:    cfg.WorkDir,
		policy:     cfg.Policy,
		dlTimeout:  cfg.DownloadTimeout,
		tcTimeout:  cfg.TranscodeTimeout,
		upTimeout:  cfg.UploadTimeout,
		downloader: d,
		transcoder: t,
		uploader:   u,
		reporter:   rep,
		diag:       diag,
		metrics:    m,
	}
}

type jobError struct {
	code int
	err  error
}

// Run executes one job to a terminal state. Stages are strictly
// sequential; the only built-in retry is the remux -> transcode
// fallback. Every terminal path passes cleanup before the result (and
// its log snapshot) is produced.
func (r *Runner) Run(ctx context.Context, job entity.Job) Result {
	job.JobID = uuid.NewString()
	jl := joblog.New(r.diag, job.JobID, job.MatchID)

	if err := validate(job); err != nil {
		jl.Printf("rejected: %v", err)
		r.metrics.JobsTotal.WithLabelValues("error").Inc()
		return Result{
			Status:       entity.StatusError,
			JobID:        job.JobID,
			MatchID:      job.MatchID,
			ErrorMessage: err.Error(),
			Code:         http.StatusBadRequest,
			Logs:         jl.Lines(),
		}
	}

	r.metrics.JobsInFlight.Inc()
	defer r.metrics.JobsInFlight.Dec()

	// Пути детерминированы от match_id: два конкурентных job'а с одним
	// ключом — ошибка вызывающей стороны (precondition).
	inPath := filepath.Join(r.workDir, job.MatchID+"_input.mp4")
	outPath := filepath.Join(r.workDir, job.MatchID+"_output.mp4")

	r.report(ctx, jl, job, map[string]any{"status": "running", "error_message": nil})

	resultURL, jobErr := r.execute(ctx, jl, job, inPath, outPath)

	// Cleanup runs on every terminal path, before the log is drained.
	r.cleanup(jl, inPath, outPath)

	if jobErr != nil {
		r.report(ctx, jl, job, map[string]any{"status": "failed", "error_message": jobErr.err.Error()})
		r.metrics.JobsTotal.WithLabelValues("error").Inc()
		return Result{
			Status:       entity.StatusError,
			JobID:        job.JobID,
			MatchID:      job.MatchID,
			ErrorMessage: jobErr.err.Error(),
			Code:         jobErr.code,
			Logs:         jl.Lines(),
		}
	}

	r.report(ctx, jl, job, map[string]any{"status": "done", "normalized_video_url": resultURL})
	r.metrics.JobsTotal.WithLabelValues("success").Inc()
	return Result{
		Status:    entity.StatusSuccess,
		JobID:     job.JobID,
		MatchID:   job.MatchID,
		ResultURL: resultURL,
		Logs:      jl.Lines(),
	}
}

func (r *Runner) execute(ctx context.Context, jl *joblog.Log, job entity.Job, inPath, outPath string) (string, *jobError) {
	// --- download ---
	jl.Printf("downloading %s", job.InputURL)
	n, err := r.timedStage(ctx, "download", r.dlTimeout, func(sctx context.Context) (int64, error) {
		return r.downloader.DownloadToFile(sctx, job.InputURL, inPath)
	})
	if err != nil {
		jl.Printf("download failed: %v", err)
		return "", &jobError{code: http.StatusInternalServerError, err: fmt.Errorf("download: %w", err)}
	}
	r.metrics.BytesMoved.WithLabelValues("download").Add(float64(n))
	jl.Printf("downloaded %d bytes", n)

	// --- transcode stage ---
	if err := r.normalize(ctx, jl, inPath, outPath); err != nil {
		return "", &jobError{code: http.StatusInternalServerError, err: err}
	}

	// --- upload ---
	jl.Printf("uploading to %s destination", job.Dest.Kind())
	var resultURL string
	_, err = r.timedStage(ctx, "upload", r.upTimeout, func(sctx context.Context) (int64, error) {
		u, uerr := r.uploader.Upload(sctx, outPath, job)
		resultURL = u
		return 0, uerr
	})
	if err != nil {
		jl.Printf("upload failed: %v", err)
		return "", &jobError{code: http.StatusInternalServerError, err: fmt.Errorf("upload: %w", err)}
	}
	if st, serr := os.Stat(outPath); serr == nil {
		r.metrics.BytesMoved.WithLabelValues("upload").Add(float64(st.Size()))
	}
	jl.Printf("uploaded, result url: %s", resultURL)
	return resultURL, nil
}

// normalize runs the transcode stage per the configured policy.
func (r *Runner) normalize(ctx context.Context, jl *joblog.Log, inPath, outPath string) error {
	if r.policy == config.PolicySafe {
		jl.Printf("transcoding (safe mode)")
		_, err := r.timedStage(ctx, "transcode", r.tcTimeout, func(sctx context.Context) (int64, error) {
			return 0, r.transcoder.Transcode(sctx, inPath, outPath)
		})
		if err != nil {
			jl.Printf("transcode failed: %v", err)
			return fmt.Errorf("transcode: %w", err)
		}
		jl.Printf("transcode ok")
		return nil
	}

	// remux-first: быстрый copy без перекодирования, при неудаче —
	// полный transcode тем же профилем.
	jl.Printf("remuxing (container copy)")
	_, err := r.timedStage(ctx, "remux", r.tcTimeout, func(sctx context.Context) (int64, error) {
		return 0, r.transcoder.Remux(sctx, inPath, outPath)
	})
	if err == nil {
		jl.Printf("remux ok")
		return nil
	}
	jl.Printf("remux failed: %v", err)

	// Partial remux output must not survive into the fallback.
	if rmErr := os.Remove(outPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		jl.Printf("remove partial output failed: %v", rmErr)
	}

	jl.Printf("falling back to full transcode")
	_, err = r.timedStage(ctx, "transcode", r.tcTimeout, func(sctx context.Context) (int64, error) {
		return 0, r.transcoder.Transcode(sctx, inPath, outPath)
	})
	if err != nil {
		jl.Printf("transcode failed: %v", err)
		return fmt.Errorf("transcode: %w", err)
	}
	jl.Printf("transcode ok")
	return nil
}

// timedStage applies the per-stage timeout (0 = none) and records the
// stage duration.
func (r *Runner) timedStage(ctx context.Context, stage string, timeout time.Duration, fn func(context.Context) (int64, error)) (int64, error) {
	sctx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	n, err := fn(sctx)
	r.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return n, err
}

// cleanup is best-effort: failures are logged, never escalate.
func (r *Runner) cleanup(jl *joblog.Log, paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			jl.Printf("cleanup failed for %s: %v", p, err)
		}
	}
}

func (r *Runner) report(ctx context.Context, jl *joblog.Log, job entity.Job, patch map[string]any) {
	if r.reporter == nil {
		return
	}
	if err := r.reporter.ReportStatus(ctx, job, patch); err != nil {
		jl.Printf("status callback failed: %v", err)
	}
}

func validate(job entity.Job) error {
	if job.InputURL == "" {
		return fmt.Errorf("input_video_url is required")
	}
	if job.MatchID == "" {
		return fmt.Errorf("match_id is required")
	}
	if !entity.ValidMatchID(job.MatchID) {
		return fmt.Errorf("match_id contains unsafe characters")
	}
	if job.Dest.Kind() == entity.DestUnknown {
		return fmt.Errorf("destination is required: upload_url, supabase or s3 fields")
	}
	return nil
}
