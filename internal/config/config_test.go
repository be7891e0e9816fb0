package config_test

import (
	"testing"
	"time"

	"video-normalizer-service/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "WORK_DIR", "FFMPEG_PATH", "TRANSCODE_POLICY",
		"FFMPEG_PRESET", "VIDEO_CRF", "AUDIO_BITRATE", "CAPTURE_LIMIT_BYTES",
		"DOWNLOAD_TIMEOUT", "TRANSCODE_TIMEOUT", "UPLOAD_TIMEOUT",
		"WORKER_SECRET", "MAX_CONCURRENT_JOBS", "SUPABASE_STATUS_TABLE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := config.FromEnv()

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.Policy != config.PolicyRemuxFirst {
		t.Fatalf("expected default policy remux-first, got %s", cfg.Policy)
	}
	if cfg.VideoCRF != 23 {
		t.Fatalf("expected default CRF 23, got %d", cfg.VideoCRF)
	}
	if cfg.CaptureLimit != 8192 {
		t.Fatalf("expected default capture limit 8192, got %d", cfg.CaptureLimit)
	}
	if cfg.DownloadTimeout != 0 || cfg.TranscodeTimeout != 0 || cfg.UploadTimeout != 0 {
		t.Fatalf("expected no default timeouts, got %v/%v/%v",
			cfg.DownloadTimeout, cfg.TranscodeTimeout, cfg.UploadTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TRANSCODE_POLICY", "safe")
	t.Setenv("VIDEO_CRF", "28")
	t.Setenv("DOWNLOAD_TIMEOUT", "90s")
	t.Setenv("MAX_CONCURRENT_JOBS", "4")

	cfg := config.FromEnv()

	if cfg.Policy != config.PolicySafe {
		t.Fatalf("expected policy safe, got %s", cfg.Policy)
	}
	if cfg.VideoCRF != 28 {
		t.Fatalf("expected CRF 28, got %d", cfg.VideoCRF)
	}
	if cfg.DownloadTimeout != 90*time.Second {
		t.Fatalf("expected 90s download timeout, got %v", cfg.DownloadTimeout)
	}
	if cfg.MaxConcurrentJobs != 4 {
		t.Fatalf("expected 4 max jobs, got %d", cfg.MaxConcurrentJobs)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown policy", func(c *config.Config) { c.Policy = "fastest" }},
		{"crf out of range", func(c *config.Config) { c.VideoCRF = 99 }},
		{"zero capture limit", func(c *config.Config) { c.CaptureLimit = 0 }},
		{"negative max jobs", func(c *config.Config) { c.MaxConcurrentJobs = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Config{
				Policy:       config.PolicyRemuxFirst,
				VideoCRF:     23,
				CaptureLimit: 8192,
			}
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
