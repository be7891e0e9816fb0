package entity

import "regexp"

type JobStatus string

const (
	StatusRunning JobStatus = "running"
	StatusSuccess JobStatus = "success"
	StatusError   JobStatus = "error"
)

// Job — одна прогонка пайплайна: скачать, нормализовать, залить.
type Job struct {
	JobID    string
	MatchID  string
	InputURL string
	Dest     Destination
}

type DestKind string

const (
	DestUnknown   DestKind = ""
	DestPresigned DestKind = "presigned"
	DestSupabase  DestKind = "supabase"
	DestS3        DestKind = "s3"
)

// Destination is one of three upload targets; the variant is detected
// from which fields the caller filled in.
type Destination struct {
	// Presigned PUT target. Public=false keeps the signed URL in the
	// response instead of stripping the query (the stripped form is not
	// guaranteed to be fetchable).
	UploadURL string
	Public    *bool

	// Supabase storage API.
	SupabaseURL   string
	SupabaseKey   string
	StorageBucket string

	// S3-compatible endpoint (minio).
	S3Endpoint      string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3UseSSL        bool
	S3PublicBaseURL string
}

func (d Destination) Kind() DestKind {
	switch {
	case d.UploadURL != "":
		return DestPresigned
	case d.SupabaseURL != "" && d.SupabaseKey != "" && d.StorageBucket != "":
		return DestSupabase
	case d.S3Endpoint != "" && d.S3Bucket != "":
		return DestS3
	}
	return DestUnknown
}

// PresignedPublic defaults to true: исторически сервис всегда отдавал
// URL без query-параметров.
func (d Destination) PresignedPublic() bool {
	if d.Public == nil {
		return true
	}
	return *d.Public
}

// match_id попадает в пути файлов и в имя объекта, поэтому строго
// ограничиваем алфавит.
var matchIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func ValidMatchID(s string) bool {
	return matchIDRe.MatchString(s)
}
