package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"video-normalizer-service/internal/entity"
	"video-normalizer-service/internal/pipeline"
)

// Порт пайплайна (реализация: pipeline.Runner)
type JobRunner interface {
	Run(ctx context.Context, job entity.Job) pipeline.Result
}

type Handler struct {
	runner JobRunner

	// Admission semaphore; nil = unlimited.
	sem chan struct{}
}

func NewHandler(runner JobRunner, maxConcurrentJobs int) *Handler {
	h := &Handler{runner: runner}
	if maxConcurrentJobs > 0 {
		h.sem = make(chan struct{}, maxConcurrentJobs)
	}
	return h
}

type normalizeDTO struct {
	MatchID  string `json:"match_id"`
	InputURL string `json:"input_video_url"`

	// Presigned destination.
	UploadURL string `json:"upload_url,omitempty"`
	Public    *bool  `json:"public,omitempty"`

	// Supabase storage destination.
	StorageBucket string `json:"storage_bucket,omitempty"`
	SupabaseURL   string `json:"supabase_url,omitempty"`
	SupabaseKey   string `json:"supabase_key,omitempty"`

	// S3-compatible destination.
	S3Endpoint      string `json:"s3_endpoint,omitempty"`
	S3Bucket        string `json:"s3_bucket,omitempty"`
	S3AccessKey     string `json:"s3_access_key,omitempty"`
	S3SecretKey     string `json:"s3_secret_key,omitempty"`
	S3UseSSL        bool   `json:"s3_use_ssl,omitempty"`
	S3PublicBaseURL string `json:"s3_public_base_url,omitempty"`
}

type normalizeResp struct {
	Status    string   `json:"status"`
	JobID     string   `json:"job_id"`
	MatchID   string   `json:"match_id"`
	ResultURL string   `json:"result_url,omitempty"`
	Error     string   `json:"error,omitempty"`
	Logs      []string `json:"logs"`
}

// Normalize godoc
// @Summary Normalize a video
// @Description Downloads the source video, remuxes or transcodes it to web-playable MP4 and uploads it to the requested destination. Runs the whole job synchronously.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body normalizeDTO true "job descriptor (exactly one destination variant)"
// @Success 200 {object} normalizeResp
// @Failure 400 {object} normalizeResp
// @Failure 401 {object} apiError
// @Failure 500 {object} normalizeResp
// @Router /normalize [post]
func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	var dto normalizeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
			defer func() { <-h.sem }()
		case <-r.Context().Done():
			return
		}
	}

	job := entity.Job{
		MatchID:  dto.MatchID,
		InputURL: dto.InputURL,
		Dest: entity.Destination{
			UploadURL:       dto.UploadURL,
			Public:          dto.Public,
			SupabaseURL:     dto.SupabaseURL,
			SupabaseKey:     dto.SupabaseKey,
			StorageBucket:   dto.StorageBucket,
			S3Endpoint:      dto.S3Endpoint,
			S3Bucket:        dto.S3Bucket,
			S3AccessKey:     dto.S3AccessKey,
			S3SecretKey:     dto.S3SecretKey,
			S3UseSSL:        dto.S3UseSSL,
			S3PublicBaseURL: dto.S3PublicBaseURL,
		},
	}

	res := h.runner.Run(r.Context(), job)

	code := http.StatusOK
	if res.Status != entity.StatusSuccess {
		code = res.Code
		if code == 0 {
			code = http.StatusInternalServerError
		}
	}

	logs := res.Logs
	if logs == nil {
		logs = []string{}
	}

	writeJSON(w, code, normalizeResp{
		Status:    string(res.Status),
		JobID:     res.JobID,
		MatchID:   res.MatchID,
		ResultURL: res.ResultURL,
		Error:     res.ErrorMessage,
		Logs:      logs,
	})
}
