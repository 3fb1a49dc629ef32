// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package api

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/outfitter/internal/backup"
	"github.com/tomtom215/outfitter/internal/compat"
	"github.com/tomtom215/outfitter/internal/config"
	"github.com/tomtom215/outfitter/internal/events"
	"github.com/tomtom215/outfitter/internal/logging"
	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/provision"
	"github.com/tomtom215/outfitter/internal/wardrobe"
)

// fakeModels is a ModelService with scripted state.
type fakeModels struct {
	mu        sync.Mutex
	current   *provision.Handle
	status    provision.Status
	reloadOK  bool
	reloads   int
	reloadsTo *provision.Handle
}

func (f *fakeModels) Current() *provision.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeModels) ReloadFromRegistry(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	if f.reloadOK {
		f.current = f.reloadsTo
	}
	return f.reloadOK
}

func (f *fakeModels) Status() provision.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// fakeScorer ranks pairs with a fixed score function and records its inputs.
type fakeScorer struct {
	score      func(i, j int) float64
	err        error
	gotTops    []models.GarmentRecord
	gotBottoms []models.GarmentRecord
}

func (f *fakeScorer) BestOutfits(_ context.Context, topImages, bottomImages [][]byte,
	topMeta, bottomMeta []models.GarmentRecord, k int) ([]compat.OutfitCandidate, error) {
	f.gotTops, f.gotBottoms = topMeta, bottomMeta
	if f.err != nil {
		return nil, f.err
	}
	scores := make([][]float64, len(topImages))
	for i := range scores {
		scores[i] = make([]float64, len(bottomImages))
		for j := range scores[i] {
			scores[i][j] = f.score(i, j)
		}
	}
	return compat.RankPairs(scores, topMeta, bottomMeta, k), nil
}

type fakeWeather struct {
	obs    *models.WeatherObservation
	cities []string
}

func (f *fakeWeather) Fetch(_ context.Context, city string) *models.WeatherObservation {
	f.cities = append(f.cities, city)
	return f.obs
}

type fakeEvents []events.ModelEvent

func (f fakeEvents) Recent() []events.ModelEvent { return f }

type testServer struct {
	cfg     *config.Config
	handler http.Handler
	repo    *wardrobe.BadgerRepository
	images  *wardrobe.ImageStore
	models  *fakeModels
	scorer  *fakeScorer
	weather *fakeWeather
}

func setupTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.Security.RateLimitDisabled = true
	for _, m := range mutate {
		m(cfg)
	}

	db, err := wardrobe.OpenDB("")
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	images, err := wardrobe.NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewImageStore: %v", err)
	}

	logger := logging.NewTestLogger(io.Discard)
	ts := &testServer{
		cfg:     cfg,
		repo:    wardrobe.NewBadgerRepository(db),
		images:  images,
		models:  &fakeModels{status: provision.Status{State: provision.StateUnloaded}},
		scorer:  &fakeScorer{score: func(i, j int) float64 { return 0.5 }},
		weather: &fakeWeather{},
	}
	var backups BackupService
	if cfg.Backup.Dir != "" {
		m, err := backup.NewManager(backup.Config{
			Dir:       cfg.Backup.Dir,
			Retention: backup.RetentionPolicy{MinCount: cfg.Backup.Retain},
		}, db, ts.repo, images, logger)
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
		backups = m
	}
	h := NewHandler(cfg, Deps{
		Wardrobe: ts.repo,
		Images:   images,
		Ingester: wardrobe.NewIngester(ts.repo, images, logger),
		Scorer:   ts.scorer,
		Models:   ts.models,
		Weather:  ts.weather,
		Events: fakeEvents{
			{EventID: "e1", Topic: events.TopicModelLoaded, Model: "wardrobe-compatibility"},
		},
		Backups: backups,
	}, logger)
	mw := NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security))
	ts.handler = NewRouter(h, mw, logger).SetupChi()
	return ts
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (ts *testServer) postJSON(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return ts.do(t, req)
}

// addGarment stores a garment with a real photo unless photo is nil.
func (ts *testServer) addGarment(t *testing.T, class string, photo []byte) models.GarmentRecord {
	t.Helper()
	name := wardrobe.NewID()[:16] + ".jpg"
	if photo != nil {
		var err error
		if name, err = ts.images.Save(photo); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	rec := &models.GarmentRecord{Filename: name, ClassName: class, Confidence: 0.9, ColorHex: "#336699"}
	if err := ts.repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return *rec
}

type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec, nil)
	if env.Status != "error" || env.Error == nil || env.Error.Code != code {
		t.Errorf("error = %+v, want code %s", env.Error, code)
	}
}

func solidPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("file", "photo.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wardrobe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
