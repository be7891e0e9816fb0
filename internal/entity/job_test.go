package entity_test

import (
	"strings"
	"testing"

	"video-normalizer-service/internal/entity"
)

func TestDestination_Kind(t *testing.T) {
	cases := []struct {
		name string
		dest entity.Destination
		want entity.DestKind
	}{
		{"presigned", entity.Destination{UploadURL: "https://x/put?sig=abc"}, entity.DestPresigned},
		{"supabase", entity.Destination{SupabaseURL: "https://p.supabase.co", SupabaseKey: "k", StorageBucket: "videos"}, entity.DestSupabase},
		{"supabase missing key", entity.Destination{SupabaseURL: "https://p.supabase.co", StorageBucket: "videos"}, entity.DestUnknown},
		{"s3", entity.Destination{S3Endpoint: "minio:9000", S3Bucket: "videos"}, entity.DestS3},
		{"empty", entity.Destination{}, entity.DestUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.dest.Kind(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPresignedPublic_DefaultsTrue(t *testing.T) {
	d := entity.Destination{UploadURL: "https://x/put"}
	if !d.PresignedPublic() {
		t.Fatalf("public must default to true")
	}

	private := false
	d.Public = &private
	if d.PresignedPublic() {
		t.Fatalf("explicit public=false must be honoured")
	}
}

func TestValidMatchID(t *testing.T) {
	for _, ok := range []string{"m1", "match_42", "a-b-c", "ABC123"} {
		if !entity.ValidMatchID(ok) {
			t.Fatalf("expected %q to be valid", ok)
		}
	}
	for _, bad := range []string{"", "../etc", "a b", "m1;rm -rf /", "x/y", strings.Repeat("a", 65)} {
		if entity.ValidMatchID(bad) {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
