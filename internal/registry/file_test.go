// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseModelFilename(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		version int
	}{
		{"wardrobe-compatibility_v3", "wardrobe-compatibility", 3},
		{"a_b_v12", "a_b", 12},
		{"noversion", "", 0},
		{"bad_vx", "", 0},
		{"_v1", "", 0},
		{"zero_v0", "", 0},
	}
	for _, tt := range tests {
		name, version := parseModelFilename(tt.in)
		if name != tt.name || version != tt.version {
			t.Errorf("parseModelFilename(%q) = %q, %d; want %q, %d", tt.in, name, version, tt.name, tt.version)
		}
	}
}

func TestFileRegistry_PublishTransitionFetch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	reg, err := NewFileRegistry(dir)
	if err != nil {
		t.Fatal(err)
	}

	ref, err := reg.LatestVersion(ctx, "wardrobe-compatibility", "Production")
	if err != nil || ref != nil {
		t.Fatalf("empty registry = %v, %v", ref, err)
	}

	v1, _ := reg.Publish(ctx, "wardrobe-compatibility", []byte("one"))
	v2, _ := reg.Publish(ctx, "wardrobe-compatibility", []byte("two"))
	if v1 != 1 || v2 != 2 {
		t.Fatalf("versions = %d, %d", v1, v2)
	}
	if err := reg.Transition(ctx, "wardrobe-compatibility", 1, "Production"); err != nil {
		t.Fatal(err)
	}

	ref, err = reg.LatestVersion(ctx, "wardrobe-compatibility", "production")
	if err != nil || ref == nil || ref.Version != "1" {
		t.Fatalf("LatestVersion() = %+v, %v", ref, err)
	}
	raw, err := reg.FetchModel(ctx, *ref)
	if err != nil || string(raw.Data) != "one" {
		t.Fatalf("FetchModel() = %q, %v", raw.Data, err)
	}

	// Stage assignments and versions survive a reopen.
	reopened, err := NewFileRegistry(dir)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := reopened.LatestPublished("wardrobe-compatibility"); !ok || v != 2 {
		t.Errorf("LatestPublished() = %d, %v", v, ok)
	}
	if ref, _ := reopened.LatestVersion(ctx, "wardrobe-compatibility", "Production"); ref == nil || ref.Version != "1" {
		t.Errorf("reopened stage = %+v", ref)
	}
}

func TestFileRegistry_Errors(t *testing.T) {
	ctx := context.Background()
	reg, err := NewFileRegistry(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := reg.Transition(ctx, "m", 5, "Production"); !errors.Is(err, ErrNoVersion) {
		t.Errorf("Transition() error = %v, want ErrNoVersion", err)
	}
	if _, err := reg.FetchModel(ctx, VersionRef{Name: "m", Version: "1"}); !errors.Is(err, ErrNoVersion) {
		t.Errorf("FetchModel() error = %v, want ErrNoVersion", err)
	}
	if _, err := reg.Publish(ctx, "../escape", []byte("x")); err == nil {
		t.Error("expected invalid name error")
	}
}

func TestFileRegistry_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.txt", "junk.ckpt", "m_v3.ckpt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	reg, err := NewFileRegistry(dir)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := reg.LatestPublished("m"); !ok || v != 3 {
		t.Errorf("LatestPublished(m) = %d, %v", v, ok)
	}
	if _, ok := reg.LatestPublished("junk"); ok {
		t.Error("junk.ckpt should be ignored")
	}
}
