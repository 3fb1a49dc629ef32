// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package wardrobe

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/outfitter/internal/logging"
	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/validation"
)

func setupTestRepository(t *testing.T) *BadgerRepository {
	t.Helper()
	db, err := OpenDB("")
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewBadgerRepository(db)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	repo.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return repo
}

func mustCreate(t *testing.T, repo Repository, class string, confidence float64) *models.GarmentRecord {
	t.Helper()
	rec := &models.GarmentRecord{Filename: class + ".jpg", ClassName: class, Confidence: confidence, ColorHex: "#112233"}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create(%s): %v", class, err)
	}
	return rec
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// part is a run of rows painted one colour.
type part struct {
	c    color.RGBA
	rows int
}

// stripes stacks the parts top to bottom in an image w pixels wide.
func stripes(w int, parts ...part) *image.RGBA {
	h := 0
	for _, p := range parts {
		h += p.rows
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	y := 0
	for _, p := range parts {
		for end := y + p.rows; y < end; y++ {
			for x := 0; x < w; x++ {
				img.SetRGBA(x, y, p.c)
			}
		}
	}
	return img
}

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{200, 30, 30, 255}
	blue  = color.RGBA{20, 20, 200, 255}
)

func TestBadgerRepository_CreateAndGet(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	rec := mustCreate(t, repo, "Tshirts", 0.91)
	if !validation.IsGarmentID(rec.ID) {
		t.Errorf("ID = %q, want 32 hex characters", rec.ID)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if rec.Thickness != models.ThicknessUltraLight {
		t.Errorf("Thickness = %q, want estimate from class", rec.Thickness)
	}

	got, err := repo.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ClassName != "Tshirts" || got.Confidence != 0.91 || got.ColorHex != "#112233" || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("Get = %+v, want %+v", got, rec)
	}

	if _, err := repo.Get(ctx, NewID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}
	if err := repo.Create(ctx, &models.GarmentRecord{ID: rec.ID, Filename: "x.jpg", ClassName: "Jeans"}); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrAlreadyExists", err)
	}
}

func TestBadgerRepository_CreateRejectsInvalid(t *testing.T) {
	repo := setupTestRepository(t)
	tests := []struct {
		name string
		rec  *models.GarmentRecord
	}{
		{"nil", nil},
		{"no filename", &models.GarmentRecord{ClassName: "Jeans"}},
		{"blank class", &models.GarmentRecord{Filename: "a.jpg", ClassName: "  "}},
		{"confidence", &models.GarmentRecord{Filename: "a.jpg", ClassName: "Jeans", Confidence: 1.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Create(context.Background(), tt.rec); !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("Create error = %v, want ErrInvalidRecord", err)
			}
		})
	}
}

func TestBadgerRepository_ListNewestFirst(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	first := mustCreate(t, repo, "Shirts", 0.5)
	second := mustCreate(t, repo, "Jeans", 0.9)
	third := mustCreate(t, repo, "Shorts", 0.7)

	all, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{third.ID, second.ID, first.ID}
	if len(all) != len(want) {
		t.Fatalf("List returned %d records, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("List[%d] = %s, want %s", i, all[i].ClassName, id)
		}
	}

	limited, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2): %v", err)
	}
	if len(limited) != 2 || limited[0].ID != third.ID {
		t.Errorf("List(2) = %v", limited)
	}
}

func TestBadgerRepository_ListEmpty(t *testing.T) {
	repo := setupTestRepository(t)
	recs, err := repo.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("List = %#v, want empty non-nil slice", recs)
	}
}

func TestBadgerRepository_ListByClass(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	mustCreate(t, repo, "Shirts", 0.6)
	mustCreate(t, repo, "Jeans", 0.99)
	best := mustCreate(t, repo, "Sweatshirts", 0.95)
	mustCreate(t, repo, "TSHIRTS", 0.8)

	got, err := repo.ListByClass(ctx, "shirt", 10)
	if err != nil {
		t.Fatalf("ListByClass: %v", err)
	}
	wantClasses := []string{"Sweatshirts", "TSHIRTS", "Shirts"}
	if len(got) != len(wantClasses) {
		t.Fatalf("ListByClass returned %d records, want %d", len(got), len(wantClasses))
	}
	for i, c := range wantClasses {
		if got[i].ClassName != c {
			t.Errorf("ListByClass[%d] = %s, want %s", i, got[i].ClassName, c)
		}
	}

	top, err := repo.ListByClass(ctx, "SHIRT", 1)
	if err != nil {
		t.Fatalf("ListByClass(limit 1): %v", err)
	}
	if len(top) != 1 || top[0].ID != best.ID {
		t.Errorf("ListByClass(limit 1) = %v, want %s", top, best.ID)
	}
}

func TestBadgerRepository_CanceledContext(t *testing.T) {
	repo := setupTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.Create(ctx, &models.GarmentRecord{Filename: "a.jpg", ClassName: "Jeans"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Create error = %v, want context.Canceled", err)
	}
	if _, err := repo.Get(ctx, NewID()); !errors.Is(err, context.Canceled) {
		t.Errorf("Get error = %v, want context.Canceled", err)
	}
}

func TestBadgerRepository_PersistsOnDisk(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenDB(dir)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	rec := mustCreate(t, NewBadgerRepository(db), "Jackets", 0.7)
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err = OpenDB(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	got, err := NewBadgerRepository(db).Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Thickness != models.ThicknessHeavyweight {
		t.Errorf("Thickness = %q, want Heavyweight", got.Thickness)
	}
}

func TestImageStore(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewImageStore: %v", err)
	}

	name, err := store.Save([]byte("payload"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(name) != len("0123456789abcdef.jpg") {
		t.Errorf("Save name = %q", name)
	}
	if !store.Exists(name) {
		t.Error("Exists = false after Save")
	}
	data, err := store.Read(name)
	if err != nil || string(data) != "payload" {
		t.Errorf("Read = %q, %v", data, err)
	}

	for _, bad := range []string{"", ".", "..", "../etc/passwd", "a/b.jpg", `a\b.jpg`} {
		if _, err := store.Path(bad); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("Path(%q) error = %v, want ErrInvalidFilename", bad, err)
		}
		if store.Exists(bad) {
			t.Errorf("Exists(%q) = true", bad)
		}
	}

	if n, err := store.Put(name, strings.NewReader("replaced")); err != nil || n != 8 {
		t.Fatalf("Put = %d, %v", n, err)
	}
	if data, _ := store.Read(name); string(data) != "replaced" {
		t.Errorf("Read after Put = %q", data)
	}
	if _, err := store.Put("../escape.jpg", strings.NewReader("x")); !errors.Is(err, ErrInvalidFilename) {
		t.Errorf("Put(../escape.jpg) error = %v, want ErrInvalidFilename", err)
	}

	if err := store.Remove(name); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Exists(name) {
		t.Error("Exists = true after Remove")
	}
	if err := store.Remove(name); err != nil {
		t.Errorf("Remove(missing) = %v, want nil", err)
	}
}

func TestLoadImages_DropsUnresolvable(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewImageStore: %v", err)
	}
	good, _ := store.Save([]byte("img"))
	empty, _ := store.Save(nil)

	recs := []models.GarmentRecord{
		{ID: "a", Filename: good},
		{ID: "b", Filename: "missing.jpg"},
		{ID: "c", Filename: empty},
		{ID: "d", Filename: "../escape.jpg"},
		{ID: "e", Filename: good},
	}
	images, kept := LoadImages(store, recs, logging.NewTestLogger(io.Discard))

	if len(images) != 2 || len(kept) != 2 {
		t.Fatalf("LoadImages kept %d images and %d records, want 2 and 2", len(images), len(kept))
	}
	if kept[0].ID != "a" || kept[1].ID != "e" {
		t.Errorf("kept = %s, %s, want a, e", kept[0].ID, kept[1].ID)
	}
	if string(images[0]) != "img" {
		t.Errorf("images[0] = %q", images[0])
	}
}

func TestDominantColor(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want string
	}{
		{
			name: "background ignored",
			img:  stripes(10, part{white, 6}, part{red, 3}, part{blue, 1}),
			want: "#c81e1e",
		},
		{
			name: "black background ignored",
			img:  stripes(10, part{black, 8}, part{blue, 2}),
			want: "#1414c8",
		},
		{
			name: "all background falls back to every pixel",
			img:  stripes(4, part{white, 3}, part{black, 1}),
			want: "#ffffff",
		},
		{
			name: "large image is thumbnailed",
			img:  stripes(640, part{color.RGBA{10, 150, 10, 255}, 480}),
			want: "#0a960a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := DominantColor(tt.img)
			if err != nil {
				t.Fatalf("DominantColor: %v", err)
			}
			if got := HexColor(c); got != tt.want {
				t.Errorf("DominantColor = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := DominantColor(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrNoPixels) {
		t.Errorf("empty image error = %v, want ErrNoPixels", err)
	}
}

func TestHexColor(t *testing.T) {
	if got := HexColor(color.RGBA{1, 171, 255, 255}); got != "#01abff" {
		t.Errorf("HexColor = %s, want #01abff", got)
	}
}

type failingRepository struct{ Repository }

func (failingRepository) Create(context.Context, *models.GarmentRecord) error {
	return errors.New("disk full")
}

func TestIngest(t *testing.T) {
	repo := setupTestRepository(t)
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	if err != nil {
		t.Fatalf("NewImageStore: %v", err)
	}
	in := NewIngester(repo, store, logging.NewTestLogger(io.Discard))
	photo := encodePNG(t, stripes(12, part{white, 4}, part{red, 8}))

	t.Run("creates record", func(t *testing.T) {
		rec, err := in.Ingest(context.Background(), IngestRequest{Image: photo, ClassName: "Tshirts", Confidence: 0.88})
		if err != nil {
			t.Fatalf("Ingest: %v", err)
		}
		if rec.ColorHex != "#c81e1e" {
			t.Errorf("ColorHex = %s, want #c81e1e", rec.ColorHex)
		}
		if rec.Thickness != models.ThicknessUltraLight {
			t.Errorf("Thickness = %s", rec.Thickness)
		}
		stored, err := store.Read(rec.Filename)
		if err != nil || !bytes.Equal(stored, photo) {
			t.Errorf("stored image mismatch: %v", err)
		}
		if _, err := repo.Get(context.Background(), rec.ID); err != nil {
			t.Errorf("Get: %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		_, err := in.Ingest(context.Background(), IngestRequest{Image: photo, ClassName: "Jeans", Confidence: 2})
		var verr *validation.RequestValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("error = %v, want *validation.RequestValidationError", err)
		}
		if verr.Errors()[0].Field() != "confidence" {
			t.Errorf("field = %s", verr.Errors()[0].Field())
		}
	})

	t.Run("empty upload", func(t *testing.T) {
		if _, err := in.Ingest(context.Background(), IngestRequest{ClassName: "Jeans"}); !errors.Is(err, ErrEmptyUpload) {
			t.Errorf("error = %v, want ErrEmptyUpload", err)
		}
	})

	t.Run("undecodable", func(t *testing.T) {
		before := countFiles(t, dir)
		_, err := in.Ingest(context.Background(), IngestRequest{Image: []byte("not an image"), ClassName: "Jeans"})
		if !errors.Is(err, ErrUndecodableImage) {
			t.Fatalf("error = %v, want ErrUndecodableImage", err)
		}
		if after := countFiles(t, dir); after != before {
			t.Errorf("files = %d, want %d", after, before)
		}
	})

	t.Run("repository failure removes image", func(t *testing.T) {
		failing := NewIngester(failingRepository{repo}, store, logging.NewTestLogger(io.Discard))
		before := countFiles(t, dir)
		if _, err := failing.Ingest(context.Background(), IngestRequest{Image: photo, ClassName: "Jeans"}); err == nil {
			t.Fatal("Ingest succeeded with failing repository")
		}
		if after := countFiles(t, dir); after != before {
			t.Errorf("files = %d, want %d", after, before)
		}
	})
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	return len(entries)
}

func TestKeywordFilters(t *testing.T) {
	tests := []struct {
		class  string
		top    bool
		bottom bool
	}{
		{"Tshirts", true, false},
		{"Rain Jacket", true, false},
		{"Kurtas", true, false},
		{"Jeans", false, true},
		{"Track Pants", false, true},
		{"Shorts", false, true},
		{"Leggings", false, true},
		{"Belts", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			if got := IsTop(tt.class); got != tt.top {
				t.Errorf("IsTop(%q) = %v, want %v", tt.class, got, tt.top)
			}
			if got := IsBottom(tt.class); got != tt.bottom {
				t.Errorf("IsBottom(%q) = %v, want %v", tt.class, got, tt.bottom)
			}
		})
	}

	recs := []models.GarmentRecord{{ClassName: "Shirts"}, {ClassName: "Jeans"}, {ClassName: "Belts"}}
	if got := Filter(recs, IsBottom); len(got) != 1 || got[0].ClassName != "Jeans" {
		t.Errorf("Filter(IsBottom) = %v", got)
	}
}
