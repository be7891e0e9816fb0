package ffmpeg

import "strconv"

// Profile holds the encode settings for the full-transcode path.
type Profile struct {
	Preset       string // x264 preset
	CRF          int
	AudioBitrate string
}

// BuildRemuxArgs repackages the streams into an mp4 container without
// re-encoding. Fast-start moves the moov atom to the front so playback
// can begin while the file is still downloading.
func BuildRemuxArgs(inPath, outPath string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", inPath,
		"-c", "copy",
		"-movflags", "+faststart",
		"-f", "mp4",
		outPath,
	}
}

// BuildTranscodeArgs re-encodes to baseline H.264 + AAC. Used when the
// source codecs don't survive a plain remux.
func BuildTranscodeArgs(inPath, outPath string, p Profile) []string {
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", inPath,
		"-c:v", "libx264",
		"-profile:v", "baseline",
		"-preset", p.Preset,
		"-crf", strconv.Itoa(p.CRF),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", p.AudioBitrate,
		"-movflags", "+faststart",
		"-f", "mp4",
		outPath,
	}
}
