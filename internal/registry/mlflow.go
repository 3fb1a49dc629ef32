// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package registry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// maxArtifactBytes bounds a downloaded checkpoint.
const maxArtifactBytes = 512 << 20

// MLflowClient queries an MLflow tracking server.
type MLflowClient struct {
	baseURL      string
	artifactFile string
	maxArtifact  int64
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewMLflowClient creates a client for trackingURI. artifactFile is the
// checkpoint file name inside each version's artifact directory.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewMLflowClient(trackingURI, artifactFile string, timeout time.Duration, logger zerolog.Logger) *MLflowClient {
	return &MLflowClient{
		baseURL:      strings.TrimRight(trackingURI, "/"),
		artifactFile: artifactFile,
		maxArtifact:  maxArtifactBytes,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger.With().Str("component", "mlflow").Logger(),
	}
}

type modelVersion struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	CurrentStage string `json:"current_stage"`
	Source       string `json:"source"`
	RunID        string `json:"run_id"`
}

type latestVersionsResponse struct {
	ModelVersions []modelVersion `json:"model_versions"`
}

type downloadURIResponse struct {
	ArtifactURI string `json:"artifact_uri"`
}

type mlflowError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// LatestVersion calls registered-models/get-latest-versions.
func (c *MLflowClient) LatestVersion(ctx context.Context, name, stage string) (*VersionRef, error) {
	body, err := json.Marshal(map[string]interface{}{"name": name, "stages": []string{stage}})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var resp latestVersionsResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/api/2.0/mlflow/registered-models/get-latest-versions", bytes.NewReader(body), &resp)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, mv := range resp.ModelVersions {
		if !strings.EqualFold(mv.CurrentStage, stage) {
			continue
		}
		c.logger.Debug().Str("model", name).Str("version", mv.Version).Str("stage", stage).Msg("Registry version found")
		return &VersionRef{Name: mv.Name, Version: mv.Version, Stage: mv.CurrentStage, RunID: mv.RunID, Source: mv.Source}, nil
	}
	return nil, nil
}

// FetchModel resolves the artifact location of ref and downloads the
// checkpoint file through the tracking server's artifact proxy.
func (c *MLflowClient) FetchModel(ctx context.Context, ref VersionRef) (*RawModel, error) {
	q := url.Values{"name": {ref.Name}, "version": {ref.Version}}
	var dl downloadURIResponse
	status, err := c.doJSON(ctx, http.MethodGet, "/api/2.0/mlflow/model-versions/get-download-uri?"+q.Encode(), nil, &dl)
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNoVersion, ref.URI())
	}
	if err != nil {
		return nil, err
	}

	artifactURL, err := c.artifactURL(dl.ArtifactURI)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build artifact request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", ErrUnavailable, ref.URI(), err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // body close errors are not actionable

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download %s: status %d", ErrUnavailable, ref.URI(), resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxArtifact+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read artifact: %v", ErrUnavailable, err)
	}
	if int64(len(data)) > c.maxArtifact {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrArtifactTooLarge, ref.URI(), c.maxArtifact)
	}
	return &RawModel{Ref: ref, Data: data}, nil
}

// artifactURL maps an artifact URI onto the tracking server's artifact
// proxy. Only proxied (mlflow-artifacts:) and plain http(s) locations are
// supported.
func (c *MLflowClient) artifactURL(artifactURI string) (string, error) {
	u, err := url.Parse(artifactURI)
	if err != nil {
		return "", fmt.Errorf("parse artifact uri %q: %w", artifactURI, err)
	}
	switch u.Scheme {
	case "mlflow-artifacts":
		p := strings.TrimLeft(u.Path, "/")
		return c.baseURL + "/api/2.0/mlflow-artifacts/artifacts/" + p + "/" + c.artifactFile, nil
	case "http", "https":
		return strings.TrimRight(artifactURI, "/") + "/" + c.artifactFile, nil
	default:
		return "", fmt.Errorf("unsupported artifact uri scheme %q", u.Scheme)
	}
}

func (c *MLflowClient) doJSON(ctx context.Context, method, path string, body io.Reader, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // body close errors are not actionable

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var me mlflowError
		if json.Unmarshal(raw, &me) == nil && me.ErrorCode != "" {
			return resp.StatusCode, fmt.Errorf("%w: %s: %s", ErrUnavailable, me.ErrorCode, me.Message)
		}
		return resp.StatusCode, fmt.Errorf("%w: %s %s: status %d", ErrUnavailable, method, path, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return resp.StatusCode, nil
}
