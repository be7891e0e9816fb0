package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"video-normalizer-service/internal/entity"
	"video-normalizer-service/internal/supabase"
)

func TestPatchMatch_RequestShape(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotAuth, gotAPIKey, gotPrefer string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		gotPrefer = r.Header.Get("Prefer")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := supabase.NewClient(srv.Client())
	err := c.PatchMatch(context.Background(), srv.URL, "service-key", "matches", "m1",
		map[string]any{"status": "running"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Fatalf("expected PATCH, got %s", gotMethod)
	}
	if gotPath != "/rest/v1/matches" || gotQuery != "id=eq.m1" {
		t.Fatalf("unexpected target %s?%s", gotPath, gotQuery)
	}
	if gotAuth != "Bearer service-key" || gotAPIKey != "service-key" {
		t.Fatalf("bad auth headers: %q / %q", gotAuth, gotAPIKey)
	}
	if gotPrefer != "return=representation" {
		t.Fatalf("expected Prefer return=representation, got %q", gotPrefer)
	}
	if gotBody["status"] != "running" {
		t.Fatalf("expected status=running in body, got %#v", gotBody)
	}
}

func TestPatchMatch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "row not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := supabase.NewClient(srv.Client())
	err := c.PatchMatch(context.Background(), srv.URL, "k", "matches", "m1", map[string]any{"status": "done"})
	if err == nil {
		t.Fatalf("expected error on 404")
	}
}

func TestReporter_SkipsNonSupabaseDestination(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rep := &supabase.Reporter{Client: supabase.NewClient(srv.Client()), Table: "matches"}
	job := entity.Job{
		MatchID: "m1",
		Dest:    entity.Destination{UploadURL: "https://x/put?sig=abc"},
	}

	if err := rep.ReportStatus(context.Background(), job, map[string]any{"status": "running"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if called {
		t.Fatalf("reporter must not call out for non-supabase destinations")
	}
}

func TestReporter_PatchesSupabaseDestination(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rep := &supabase.Reporter{Client: supabase.NewClient(srv.Client()), Table: "matches"}
	job := entity.Job{
		MatchID: "m1",
		Dest: entity.Destination{
			SupabaseURL:   srv.URL,
			SupabaseKey:   "k",
			StorageBucket: "videos",
		},
	}

	if err := rep.ReportStatus(context.Background(), job, map[string]any{"status": "done"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if gotPath != "/rest/v1/matches" {
		t.Fatalf("expected patch against matches table, got %s", gotPath)
	}
}
