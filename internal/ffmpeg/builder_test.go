package ffmpeg_test

import (
	"strings"
	"testing"

	"video-normalizer-service/internal/ffmpeg"
)

func TestBuildRemuxArgs(t *testing.T) {
	args := ffmpeg.BuildRemuxArgs("/tmp/in.mp4", "/tmp/out.mp4")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-i /tmp/in.mp4",
		"-c copy",
		"-movflags +faststart",
		"-f mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args, got %s", want, joined)
		}
	}
	if strings.Contains(joined, "libx264") {
		t.Fatalf("remux must not re-encode, got %s", joined)
	}
	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Fatalf("expected output path last, got %s", args[len(args)-1])
	}
}

func TestBuildTranscodeArgs(t *testing.T) {
	p := ffmpeg.Profile{Preset: "veryfast", CRF: 23, AudioBitrate: "128k"}
	args := ffmpeg.BuildTranscodeArgs("/tmp/in.mp4", "/tmp/out.mp4", p)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-c:v libx264",
		"-profile:v baseline",
		"-preset veryfast",
		"-crf 23",
		"-c:a aac",
		"-b:a 128k",
		"-movflags +faststart",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args, got %s", want, joined)
		}
	}
	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Fatalf("expected output path last, got %s", args[len(args)-1])
	}
}
