package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Policy selects the transcode stage behaviour.
type Policy string

const (
	// PolicyRemuxFirst tries a container remux (-c copy) and falls back
	// to a full transcode when the remux fails.
	PolicyRemuxFirst Policy = "remux-first"
	// PolicySafe always runs the full transcode.
	PolicySafe Policy = "safe"
)

type Config struct {
	HTTPAddr string

	WorkDir    string
	FFmpegPath string

	Policy       Policy
	Preset       string
	VideoCRF     int
	AudioBitrate string

	// Per-stream cap for captured subprocess output.
	CaptureLimit int

	// 0 = без дедлайна (historical behaviour).
	DownloadTimeout  time.Duration
	TranscodeTimeout time.Duration
	UploadTimeout    time.Duration

	// Empty = auth disabled.
	WorkerSecret string

	// 0 = unlimited.
	MaxConcurrentJobs int

	// Empty = status callbacks disabled.
	SupabaseStatusTable string

	LogLevel string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:            envOr("HTTP_ADDR", ":8080"),
		WorkDir:             envOr("WORK_DIR", os.TempDir()),
		FFmpegPath:          envOr("FFMPEG_PATH", "ffmpeg"),
		Policy:              Policy(envOr("TRANSCODE_POLICY", string(PolicyRemuxFirst))),
		Preset:              envOr("FFMPEG_PRESET", "veryfast"),
		VideoCRF:            envIntOr("VIDEO_CRF", 23),
		AudioBitrate:        envOr("AUDIO_BITRATE", "128k"),
		CaptureLimit:        envIntOr("CAPTURE_LIMIT_BYTES", 8192),
		DownloadTimeout:     envDurOr("DOWNLOAD_TIMEOUT", 0),
		TranscodeTimeout:    envDurOr("TRANSCODE_TIMEOUT", 0),
		UploadTimeout:       envDurOr("UPLOAD_TIMEOUT", 0),
		WorkerSecret:        os.Getenv("WORKER_SECRET"),
		MaxConcurrentJobs:   envIntOr("MAX_CONCURRENT_JOBS", 0),
		SupabaseStatusTable: os.Getenv("SUPABASE_STATUS_TABLE"),
		LogLevel:            envOr("LOG_LEVEL", "info"),
	}
}

func (c Config) Validate() error {
	switch c.Policy {
	case PolicyRemuxFirst, PolicySafe:
	default:
		return fmt.Errorf("unknown TRANSCODE_POLICY %q (want %q or %q)", c.Policy, PolicyRemuxFirst, PolicySafe)
	}
	if c.VideoCRF < 0 || c.VideoCRF > 51 {
		return fmt.Errorf("VIDEO_CRF out of range: %d", c.VideoCRF)
	}
	if c.CaptureLimit <= 0 {
		return fmt.Errorf("CAPTURE_LIMIT_BYTES must be positive, got %d", c.CaptureLimit)
	}
	if c.MaxConcurrentJobs < 0 {
		return fmt.Errorf("MAX_CONCURRENT_JOBS must be >= 0, got %d", c.MaxConcurrentJobs)
	}
	return nil
}

func envOr(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envDurOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
