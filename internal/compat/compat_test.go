// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package compat

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/outfitter/internal/logging"
	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/provision"
	"github.com/tomtom215/outfitter/internal/siamese"
)

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// redModel scores a pair by the red channel of both images.
type redModel struct{}

func (redModel) InputSize() int { return 8 }

func (redModel) Score(top, bottom *siamese.Tensor) (float64, error) {
	return (float64(top.Data[0]) + float64(bottom.Data[0]) + 4.5) / 9, nil
}

type staticSource struct {
	h   *provision.Handle
	err error
}

func (s staticSource) Obtain(context.Context, bool) (*provision.Handle, error) {
	return s.h, s.err
}

func newEngine(m provision.Model) *Engine {
	return NewEngine(staticSource{h: &provision.Handle{
		Model:  m,
		Device: provision.Device{Name: "cpu:2", Parallelism: 2},
	}}, logging.NewTestLogger(io.Discard))
}

func records(ids ...string) []models.GarmentRecord {
	out := make([]models.GarmentRecord, len(ids))
	for i, id := range ids {
		out[i] = models.GarmentRecord{ID: id}
	}
	return out
}

func TestPreprocessor_Normalises(t *testing.T) {
	pre := Preprocessor{Size: 4}
	tensor, err := pre.Tensor(solidPNG(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}))
	if err != nil {
		t.Fatal(err)
	}
	if got := tensor.Shape; len(got) != 3 || got[0] != 3 || got[1] != 4 || got[2] != 4 {
		t.Fatalf("shape = %v", got)
	}
	for c := 0; c < 3; c++ {
		want := (1 - channelMean[c]) / channelStd[c]
		if got := tensor.Data[c*16]; math.Abs(float64(got-want)) > 1e-5 {
			t.Errorf("channel %d = %v, want %v", c, got, want)
		}
	}
}

func TestPreprocessor_DropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 64})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	tensor, err := Preprocessor{Size: 4}.Tensor(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	for c := 0; c < 3; c++ {
		want := (1 - channelMean[c]) / channelStd[c]
		for _, i := range []int{0, 5, 15} {
			if got := tensor.Data[c*16+i]; math.Abs(float64(got-want)) > 1e-5 {
				t.Errorf("channel %d pixel %d = %v, want %v", c, i, got, want)
			}
		}
	}
}

func TestPreprocessor_Errors(t *testing.T) {
	pre := Preprocessor{Size: 4}
	if _, err := pre.Tensor(nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty payload error = %v", err)
	}
	if _, err := pre.Tensor([]byte("definitely not an image")); err == nil {
		t.Error("expected decode error")
	}
}

func TestComputeBatch_ShapeAndRange(t *testing.T) {
	net, err := siamese.New(siamese.Architecture{
		InputSize: 8, InChannels: 3, Stages: []int{4, 6}, EmbeddingDim: 4, Hidden: []int{6, 3},
	}, siamese.VariantFlat, 1)
	if err != nil {
		t.Fatal(err)
	}
	e := newEngine(net)

	tops := [][]byte{solidPNG(t, color.White), solidPNG(t, color.Black), solidPNG(t, color.RGBA{R: 200, A: 255})}
	bottoms := [][]byte{solidPNG(t, color.RGBA{B: 180, A: 255}), solidPNG(t, color.Gray{Y: 90})}

	scores, err := e.ComputeBatch(context.Background(), tops, bottoms)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 3 {
		t.Fatalf("rows = %d, want 3", len(scores))
	}
	for i, row := range scores {
		if len(row) != 2 {
			t.Fatalf("row %d has %d columns, want 2", i, len(row))
		}
		for j, s := range row {
			if s < 0 || s > 1 {
				t.Errorf("score[%d][%d] = %v outside [0,1]", i, j, s)
			}
		}
	}
}

func TestComputeBatch_ZeroDevice(t *testing.T) {
	e := NewEngine(staticSource{h: &provision.Handle{Model: redModel{}}}, logging.NewTestLogger(io.Discard))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tops, bottoms := [][]byte{solidPNG(t, color.White)}, [][]byte{solidPNG(t, color.Black)}
	done := make(chan error, 1)
	go func() {
		_, err := e.ComputeBatch(ctx, tops, bottoms)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ComputeBatch() error = %v", err)
		}
	case <-ctx.Done():
		t.Fatal("ComputeBatch did not return with a zero-value Device")
	}
}

func TestComputeBatch_PreprocessingErrorIsScoped(t *testing.T) {
	e := newEngine(redModel{})
	_, err := e.ComputeBatch(context.Background(),
		[][]byte{solidPNG(t, color.White)},
		[][]byte{solidPNG(t, color.White), []byte("broken")})

	var pe *ImagePreprocessingError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ImagePreprocessingError", err)
	}
	if pe.Side != "bottom" || pe.Index != 1 {
		t.Errorf("error scoped to %s %d", pe.Side, pe.Index)
	}
}

func TestComputeBatch_ModelUnavailable(t *testing.T) {
	e := NewEngine(staticSource{err: provision.ErrModelNotFound}, logging.NewTestLogger(io.Discard))
	_, err := e.ComputeBatch(context.Background(), [][]byte{{1}}, [][]byte{{1}})
	if !errors.Is(err, provision.ErrModelNotFound) {
		t.Errorf("error = %v", err)
	}
}

func TestBestOutfits_OrdersAndTruncates(t *testing.T) {
	e := newEngine(redModel{})
	tops := [][]byte{solidPNG(t, color.RGBA{R: 50, A: 255}), solidPNG(t, color.RGBA{R: 250, A: 255})}
	bottoms := [][]byte{solidPNG(t, color.RGBA{R: 100, A: 255}), solidPNG(t, color.RGBA{R: 200, A: 255})}

	got, err := e.BestOutfits(context.Background(), tops, bottoms, records("t1", "t2"), records("b1", "b2"), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Top.ID != "t2" || got[0].Bottom.ID != "b2" {
		t.Errorf("best pair = %s/%s, want t2/b2", got[0].Top.ID, got[0].Bottom.ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("not sorted at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestBestOutfits_TrimsMismatchedLists(t *testing.T) {
	e := newEngine(redModel{})
	img := solidPNG(t, color.White)

	got, err := e.BestOutfits(context.Background(),
		[][]byte{img, img, img}, [][]byte{img},
		records("t1", "t2"), records("b1", "b2", "b3"), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.Top.ID == "" || c.Bottom.ID != "b1" {
			t.Errorf("candidate from trimmed index: %+v", c)
		}
	}
}

func TestBestOutfits_EmptySide(t *testing.T) {
	e := newEngine(redModel{})
	img := solidPNG(t, color.White)

	for name, call := range map[string]func() ([]OutfitCandidate, error){
		"no tops": func() ([]OutfitCandidate, error) {
			return e.BestOutfits(context.Background(), nil, [][]byte{img}, nil, records("b1"), 5)
		},
		"no bottoms": func() ([]OutfitCandidate, error) {
			return e.BestOutfits(context.Background(), [][]byte{img}, nil, records("t1"), nil, 5)
		},
	} {
		got, err := call()
		if err != nil || got == nil || len(got) != 0 {
			t.Errorf("%s: got %v, %v; want empty slice", name, got, err)
		}
	}
}

func TestRankPairs(t *testing.T) {
	tops := records("t1", "t2", "t3")
	bottoms := records("b1", "b2")

	t.Run("skips out of range", func(t *testing.T) {
		scores := [][]float64{{0.1, 0.9}, {0.5}}
		got := RankPairs(scores, tops, bottoms, 10)
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if got[0].Top.ID != "t1" || got[0].Bottom.ID != "b2" {
			t.Errorf("first = %+v", got[0])
		}
	})

	t.Run("ties keep enumeration order", func(t *testing.T) {
		scores := [][]float64{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}}
		got := RankPairs(scores, tops, bottoms, 4)
		want := [][2]string{{"t1", "b1"}, {"t1", "b2"}, {"t2", "b1"}, {"t2", "b2"}}
		for i, w := range want {
			if got[i].Top.ID != w[0] || got[i].Bottom.ID != w[1] {
				t.Errorf("got[%d] = %s/%s, want %s/%s", i, got[i].Top.ID, got[i].Bottom.ID, w[0], w[1])
			}
		}
	})

	t.Run("k bounds", func(t *testing.T) {
		scores := [][]float64{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}}
		for _, k := range []int{-1, 0, 1, 6, 50} {
			got := RankPairs(scores, tops, bottoms, k)
			if limit := max(k, 0); len(got) > limit {
				t.Errorf("k=%d returned %d", k, len(got))
			}
		}
	})
}
