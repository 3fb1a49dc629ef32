// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package registry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/outfitter/internal/logging"
)

func newMLflowServer(t *testing.T, versions string, artifact []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/2.0/mlflow/registered-models/get-latest-versions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Name   string   `json:"name"`
			Stages []string `json:"stages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Name != "wardrobe-compatibility" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error_code":"RESOURCE_DOES_NOT_EXIST","message":"no such model"}`)
			return
		}
		_, _ = io.WriteString(w, versions)
	})
	mux.HandleFunc("/api/2.0/mlflow/model-versions/get-download-uri", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("version") != "4" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"artifact_uri":"mlflow-artifacts:/7/abc123/artifacts/model"}`)
	})
	mux.HandleFunc("/api/2.0/mlflow-artifacts/artifacts/7/abc123/artifacts/model/compat.ckpt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(artifact)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMLflowClient_LatestVersionAndFetch(t *testing.T) {
	srv := newMLflowServer(t,
		`{"model_versions":[{"name":"wardrobe-compatibility","version":"4","current_stage":"Production","run_id":"abc123"}]}`,
		[]byte("checkpoint-bytes"))
	c := NewMLflowClient(srv.URL+"/", "compat.ckpt", 2*time.Second, logging.NewTestLogger(io.Discard))

	ref, err := c.LatestVersion(context.Background(), "wardrobe-compatibility", "Production")
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if ref == nil || ref.Version != "4" || ref.URI() != "models:/wardrobe-compatibility/4" {
		t.Fatalf("ref = %+v", ref)
	}

	raw, err := c.FetchModel(context.Background(), *ref)
	if err != nil {
		t.Fatalf("FetchModel() error = %v", err)
	}
	if string(raw.Data) != "checkpoint-bytes" {
		t.Errorf("data = %q", raw.Data)
	}
}

func TestMLflowClient_FetchRejectsOversizedArtifact(t *testing.T) {
	srv := newMLflowServer(t,
		`{"model_versions":[{"name":"wardrobe-compatibility","version":"4","current_stage":"Production"}]}`,
		[]byte("0123456789"))
	c := NewMLflowClient(srv.URL, "compat.ckpt", 2*time.Second, logging.NewTestLogger(io.Discard))
	ref := VersionRef{Name: "wardrobe-compatibility", Version: "4"}

	c.maxArtifact = 10
	if raw, err := c.FetchModel(context.Background(), ref); err != nil || len(raw.Data) != 10 {
		t.Fatalf("FetchModel() at the limit = %v, %v", raw, err)
	}

	c.maxArtifact = 9
	if _, err := c.FetchModel(context.Background(), ref); !errors.Is(err, ErrArtifactTooLarge) {
		t.Errorf("FetchModel() error = %v, want ErrArtifactTooLarge", err)
	}
}

func TestMLflowClient_NoCandidates(t *testing.T) {
	srv := newMLflowServer(t, `{}`, nil)
	c := NewMLflowClient(srv.URL, "compat.ckpt", time.Second, logging.NewTestLogger(io.Discard))

	ref, err := c.LatestVersion(context.Background(), "wardrobe-compatibility", "Production")
	if err != nil || ref != nil {
		t.Errorf("empty stage = %v, %v; want nil, nil", ref, err)
	}

	ref, err = c.LatestVersion(context.Background(), "unknown-model", "Production")
	if err != nil || ref != nil {
		t.Errorf("unknown model = %v, %v; want nil, nil", ref, err)
	}
}

func TestMLflowClient_StageFilter(t *testing.T) {
	srv := newMLflowServer(t,
		`{"model_versions":[{"name":"wardrobe-compatibility","version":"2","current_stage":"Staging"}]}`, nil)
	c := NewMLflowClient(srv.URL, "compat.ckpt", time.Second, logging.NewTestLogger(io.Discard))

	ref, err := c.LatestVersion(context.Background(), "wardrobe-compatibility", "Production")
	if err != nil || ref != nil {
		t.Errorf("mismatched stage = %v, %v; want nil, nil", ref, err)
	}
}

func TestMLflowClient_FetchMissingVersion(t *testing.T) {
	srv := newMLflowServer(t, `{}`, nil)
	c := NewMLflowClient(srv.URL, "compat.ckpt", time.Second, logging.NewTestLogger(io.Discard))

	_, err := c.FetchModel(context.Background(), VersionRef{Name: "wardrobe-compatibility", Version: "9"})
	if !errors.Is(err, ErrNoVersion) {
		t.Errorf("error = %v, want ErrNoVersion", err)
	}
}

func TestMLflowClient_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := NewMLflowClient(srv.URL, "compat.ckpt", time.Second, logging.NewTestLogger(io.Discard))

	_, err := c.LatestVersion(context.Background(), "wardrobe-compatibility", "Production")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestArtifactURL(t *testing.T) {
	c := NewMLflowClient("http://mlflow:5000", "compat.ckpt", time.Second, logging.NewTestLogger(io.Discard))

	got, err := c.artifactURL("mlflow-artifacts:/1/run/artifacts/model")
	if err != nil || got != "http://mlflow:5000/api/2.0/mlflow-artifacts/artifacts/1/run/artifacts/model/compat.ckpt" {
		t.Errorf("artifactURL = %q, %v", got, err)
	}
	if _, err := c.artifactURL("s3://bucket/model"); err == nil || !strings.Contains(err.Error(), "s3") {
		t.Errorf("expected unsupported scheme error, got %v", err)
	}
}
