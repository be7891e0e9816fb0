// Package transfer moves bytes between the local disk and remote HTTP
// endpoints: GET-to-file for the source video, PUT/POST-from-file for
// the three destination variants.
package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"video-normalizer-service/internal/entity"
)

const contentTypeMP4 = "video/mp4"

// StatusError reports a non-2xx response, carrying the status code and
// a truncated body excerpt for diagnostics.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

type Client struct {
	http *http.Client
	// cap for error-body excerpts
	bodyLimit int64
}

func NewClient(httpClient *http.Client, bodyLimit int64) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if bodyLimit <= 0 {
		bodyLimit = 1024
	}
	return &Client{http: httpClient, bodyLimit: bodyLimit}
}

// DownloadToFile streams the GET body straight to destPath without
// buffering it in memory and returns the byte count. Any error return
// means no usable file was produced: the partial file is removed so a
// caller cannot mistake it for a complete one.
func (c *Client) DownloadToFile(ctx context.Context, srcURL, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", srcURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &StatusError{Status: resp.StatusCode, Body: c.readExcerpt(resp.Body)}
	}

	f, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", destPath, err)
	}

	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return 0, fmt.Errorf("stream to %s: %w", destPath, err)
	}
	return n, nil
}

// Upload dispatches to the destination variant and returns the
// caller-usable reference URL of the uploaded object.
func (c *Client) Upload(ctx context.Context, srcPath string, job entity.Job) (string, error) {
	objectPath := "matches/" + job.MatchID + ".mp4"

	switch job.Dest.Kind() {
	case entity.DestPresigned:
		return c.UploadPresigned(ctx, srcPath, job.Dest.UploadURL, job.Dest.PresignedPublic())
	case entity.DestSupabase:
		return c.UploadSupabase(ctx, srcPath, job.Dest.SupabaseURL, job.Dest.SupabaseKey, job.Dest.StorageBucket, objectPath)
	case entity.DestS3:
		return c.UploadS3(ctx, srcPath, job.Dest, objectPath)
	}
	return "", fmt.Errorf("unknown destination kind")
}

// UploadPresigned PUTs the file to a presigned URL. With public=true
// the returned URL is the target stripped of its query (historical
// behaviour); otherwise the presigned URL is returned untouched.
func (c *Client) UploadPresigned(ctx context.Context, srcPath, uploadURL string, public bool) (string, error) {
	if err := c.sendFile(ctx, http.MethodPut, uploadURL, srcPath, nil); err != nil {
		return "", err
	}
	if !public {
		return uploadURL, nil
	}
	return stripQuery(uploadURL), nil
}

// UploadSupabase POSTs the file to the storage API with upsert enabled
// and returns the computed public object URL.
func (c *Client) UploadSupabase(ctx context.Context, srcPath, baseURL, key, bucket, objectPath string) (string, error) {
	base := strings.TrimRight(baseURL, "/")
	target := base + "/storage/v1/object/" + bucket + "/" + objectPath

	headers := map[string]string{
		"Authorization": "Bearer " + key,
		"apikey":        key,
		"x-upsert":      "true",
	}
	if err := c.sendFile(ctx, http.MethodPost, target, srcPath, headers); err != nil {
		return "", err
	}
	return base + "/storage/v1/object/public/" + bucket + "/" + objectPath, nil
}

// UploadS3 puts the file on an S3-compatible endpoint via minio.
func (c *Client) UploadS3(ctx context.Context, srcPath string, dest entity.Destination, objectPath string) (string, error) {
	mc, err := minio.New(dest.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(dest.S3AccessKey, dest.S3SecretKey, ""),
		Secure: dest.S3UseSSL,
	})
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	_, err = mc.FPutObject(ctx, dest.S3Bucket, objectPath, srcPath, minio.PutObjectOptions{
		ContentType: contentTypeMP4,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s/%s: %w", dest.S3Bucket, objectPath, err)
	}

	if dest.S3PublicBaseURL != "" {
		return strings.TrimRight(dest.S3PublicBaseURL, "/") + "/" + objectPath, nil
	}
	scheme := "http"
	if dest.S3UseSSL {
		scheme = "https"
	}
	return scheme + "://" + dest.S3Endpoint + "/" + dest.S3Bucket + "/" + objectPath, nil
}

// sendFile streams srcPath as the request body. ContentLength is set
// from Stat so the file is never buffered in memory.
func (c *Client) sendFile(ctx context.Context, method, target, srcPath string, headers map[string]string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", srcPath, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, f)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.ContentLength = st.Size()
	req.Header.Set("Content-Type", contentTypeMP4)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Body: c.readExcerpt(resp.Body)}
	}
	return nil
}

func (c *Client) readExcerpt(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, c.bodyLimit))
	return strings.TrimSpace(string(b))
}

func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
