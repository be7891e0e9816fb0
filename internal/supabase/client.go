// Package supabase is a thin client for the Supabase REST API, used to
// report job status into a match row alongside the upload.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"video-normalizer-service/internal/entity"
)

type Client struct {
	http *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient}
}

// PatchMatch PATCHes the row with id == matchID in the given table.
func (c *Client) PatchMatch(ctx context.Context, baseURL, key, table, matchID string, patch map[string]any) error {
	target := strings.TrimRight(baseURL, "/") + "/rest/v1/" + table + "?id=eq." + matchID

	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("patch %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("patch %s: status %d: %s", table, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}
	return nil
}

// Reporter adapts the client to the pipeline's status port. The
// destination row carries its own credentials, so a job against a
// non-Supabase destination is a silent no-op.
type Reporter struct {
	Client *Client
	Table  string
}

func (r *Reporter) ReportStatus(ctx context.Context, job entity.Job, patch map[string]any) error {
	if r.Table == "" || job.Dest.Kind() != entity.DestSupabase {
		return nil
	}
	return r.Client.PatchMatch(ctx, job.Dest.SupabaseURL, job.Dest.SupabaseKey, r.Table, job.MatchID, patch)
}
