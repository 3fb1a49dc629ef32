// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package backup

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/outfitter/internal/metrics"
	"github.com/tomtom215/outfitter/internal/wardrobe"
)

const (
	archivePrefix   = "wardrobe_"
	archiveExt      = ".tar.gz"
	checksumExt     = ".sha256"
	partialExt      = ".partial"
	metadataEntry   = "metadata.json"
	databaseEntry   = "wardrobe.badger"
	uploadsPrefix   = "uploads/"
	timestampLayout = "20060102T150405Z"
)

// ErrChecksumMismatch is returned when an archive does not match its sidecar.
var ErrChecksumMismatch = errors.New("backup checksum mismatch")

// Backup describes one archive.
type Backup struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `json:"checksum,omitempty"`
	Items     int       `json:"items"`
	Images    int       `json:"images"`
}

// RetentionPolicy decides which archives survive a new backup.
type RetentionPolicy struct {
	MinCount   int
	KeepRecent time.Duration
}

// Config configures a Manager.
type Config struct {
	Dir       string
	Retention RetentionPolicy
}

// Manager creates and prunes wardrobe archives.
type Manager struct {
	cfg    Config
	db     *badger.DB
	repo   wardrobe.Repository
	images *wardrobe.ImageStore
	logger zerolog.Logger
	now    func() time.Time

	// mu serializes Create so retention never races a write.
	mu sync.Mutex
}

// NewManager creates the backup directory if needed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewManager(cfg Config, db *badger.DB, repo wardrobe.Repository, images *wardrobe.ImageStore, logger zerolog.Logger) (*Manager, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("backup directory is required")
	}
	if cfg.Retention.MinCount < 1 {
		cfg.Retention.MinCount = 1
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}
	return &Manager{
		cfg:    cfg,
		db:     db,
		repo:   repo,
		images: images,
		logger: logger.With().Str("component", "backup").Logger(),
		now:    time.Now,
	}, nil
}

// Dir returns the backup directory.
func (m *Manager) Dir() string { return m.cfg.Dir }

// Create writes a new archive and applies retention.
func (m *Manager) Create(ctx context.Context) (*Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	b, err := m.create(ctx)
	metrics.RecordBackup(err == nil, time.Since(start))
	if err != nil {
		m.logger.Error().Err(err).Msg("Backup failed")
		return nil, err
	}

	removed, err := m.applyRetention()
	if err != nil {
		m.logger.Warn().Err(err).Msg("Backup retention failed")
	}
	m.logger.Info().
		Str("file", b.FileName).
		Int("items", b.Items).
		Int("images", b.Images).
		Int64("size_bytes", b.SizeBytes).
		Int("pruned", removed).
		Dur("duration", time.Since(start)).
		Msg("Backup completed")
	return b, nil
}

func (m *Manager) create(ctx context.Context) (b *Backup, err error) {
	recs, err := m.repo.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list wardrobe: %w", err)
	}
	photos := make([]string, 0, len(recs))
	for i := range recs {
		if m.images.Exists(recs[i].Filename) {
			photos = append(photos, recs[i].Filename)
		}
	}

	var stream bytes.Buffer
	if _, err := m.db.Backup(&stream, 0); err != nil {
		return nil, fmt.Errorf("stream wardrobe store: %w", err)
	}

	now := m.now().UTC()
	b = &Backup{
		ID:        wardrobe.NewID()[:8],
		CreatedAt: now,
		Items:     len(recs),
		Images:    len(photos),
	}
	b.FileName = archivePrefix + now.Format(timestampLayout) + "_" + b.ID + archiveExt
	final := filepath.Join(m.cfg.Dir, b.FileName)
	partial := final + partialExt

	aw, err := newArchiveWriter(partial)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = aw.Close() //nolint:errcheck // already failing
			_ = os.Remove(partial)
		}
	}()

	meta, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	if err = addBytes(aw.tw, metadataEntry, meta, now); err != nil {
		return nil, err
	}
	if err = addBytes(aw.tw, databaseEntry, stream.Bytes(), now); err != nil {
		return nil, err
	}
	for _, name := range photos {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		path, pathErr := m.images.Path(name)
		if pathErr != nil {
			err = pathErr
			return nil, err
		}
		if err = addFile(aw.tw, path, uploadsPrefix+name); err != nil {
			return nil, err
		}
	}

	if err = aw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	b.Checksum = hex.EncodeToString(aw.hasher.Sum(nil))
	b.SizeBytes = aw.size()

	if err = os.WriteFile(final+checksumExt, []byte(b.Checksum+"  "+b.FileName+"\n"), 0o640); err != nil {
		return nil, fmt.Errorf("write checksum: %w", err)
	}
	if err = os.Rename(partial, final); err != nil {
		_ = os.Remove(final + checksumExt)
		return nil, fmt.Errorf("publish archive: %w", err)
	}
	return b, nil
}

// List returns every readable archive, newest first.
func (m *Manager) List() ([]Backup, error) {
	paths, err := filepath.Glob(filepath.Join(m.cfg.Dir, archivePrefix+"*"+archiveExt))
	if err != nil {
		return nil, err
	}
	out := make([]Backup, 0, len(paths))
	for _, p := range paths {
		b, err := readMetadata(p)
		if err != nil {
			m.logger.Warn().Err(err).Str("file", filepath.Base(p)).Msg("Skipping unreadable backup")
			continue
		}
		out = append(out, *b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Verify checks path against its checksum sidecar. A missing sidecar is
// reported as ok=false with a nil error.
func Verify(path string) (ok bool, err error) {
	want, err := readChecksum(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	got, err := fileChecksum(path)
	if err != nil {
		return false, err
	}
	if got != want {
		return false, fmt.Errorf("%w: %s", ErrChecksumMismatch, filepath.Base(path))
	}
	return true, nil
}

type archiveWriter struct {
	file    *os.File
	counter *countingWriter
	hasher  hash.Hash
	gz      *gzip.Writer
	tw      *tar.Writer
	closed  bool
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

//nolint:gosec // path is built from the configured backup directory
func newArchiveWriter(path string) (*archiveWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}
	h := sha256.New()
	cw := &countingWriter{w: io.MultiWriter(f, h)}
	gz := gzip.NewWriter(cw)
	return &archiveWriter{file: f, counter: cw, hasher: h, gz: gz, tw: tar.NewWriter(gz)}, nil
}

// Close flushes tar, gzip and the file in that order.
func (a *archiveWriter) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	var firstErr error
	for _, c := range []io.Closer{a.tw, a.gz, a.file} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *archiveWriter) size() int64 { return a.counter.n }

func addBytes(tw *tar.Writer, name string, data []byte, modTime time.Time) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    0o640,
		Size:    int64(len(data)),
		ModTime: modTime,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write tar header for %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

//nolint:gosec // srcPath is resolved by the image store
func addFile(tw *tar.Writer, srcPath, name string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", srcPath, err)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("tar header for %s: %w", srcPath, err)
	}
	hdr.Name = name
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write tar header for %s: %w", name, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("copy %s: %w", srcPath, err)
	}
	return nil
}

// archiveReader opens path for sequential tar reads.
type archiveReader struct {
	file *os.File
	gz   *gzip.Reader
	tr   *tar.Reader
}

//nolint:gosec // path comes from the backup directory or the operator
func openArchive(path string) (*archiveReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	return &archiveReader{file: f, gz: gz, tr: tar.NewReader(gz)}, nil
}

func (a *archiveReader) Close() error {
	gzErr := a.gz.Close()
	if err := a.file.Close(); err != nil {
		return err
	}
	return gzErr
}

func readMetadata(path string) (*Backup, error) {
	ar, err := openArchive(path)
	if err != nil {
		return nil, err
	}
	defer ar.Close() //nolint:errcheck // read-only

	hdr, err := ar.tr.Next()
	if err != nil {
		return nil, fmt.Errorf("read first entry: %w", err)
	}
	if hdr.Name != metadataEntry {
		return nil, fmt.Errorf("first entry is %q, want %s", hdr.Name, metadataEntry)
	}
	var b Backup
	if err := json.NewDecoder(ar.tr).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	b.FileName = filepath.Base(path)
	if info, err := ar.file.Stat(); err == nil {
		b.SizeBytes = info.Size()
	}
	if sum, err := readChecksum(path); err == nil {
		b.Checksum = sum
	}
	return &b, nil
}

func readChecksum(archivePath string) (string, error) {
	data, err := os.ReadFile(archivePath + checksumExt) //nolint:gosec // sidecar of a known archive
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty checksum file for %s", filepath.Base(archivePath))
	}
	return fields[0], nil
}

//nolint:gosec // path comes from the backup directory or the operator
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck // read-only

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
