// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package wardrobe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/outfitter/internal/models"
)

const itemKeyPrefix = "item:"

// OpenDB opens the badger database at path. An empty path opens an
// in-memory database.
func OpenDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for wardrobe: %w", err)
	}
	return db, nil
}

// BadgerRepository implements Repository on badger. The caller owns the
// database and closes it.
type BadgerRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerRepository wraps an open database.
func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db, now: time.Now}
}

func itemKey(id string) []byte {
	return []byte(itemKeyPrefix + id)
}

// Create implements Repository.
func (r *BadgerRepository) Create(ctx context.Context, rec *models.GarmentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil || rec.Filename == "" || strings.TrimSpace(rec.ClassName) == "" {
		return fmt.Errorf("%w: filename and class name are required", ErrInvalidRecord)
	}
	if rec.Confidence < 0 || rec.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidRecord, rec.Confidence)
	}
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	if rec.Thickness == "" {
		rec.Thickness = models.EstimateThickness(rec.ClassName)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal garment: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key := itemKey(rec.ID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, rec.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
}

// Get implements Repository.
func (r *BadgerRepository) Get(ctx context.Context, id string) (*models.GarmentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec models.GarmentRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(itemKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get garment %s: %w", id, err)
	}
	return &rec, nil
}

// List implements Repository.
func (r *BadgerRepository) List(ctx context.Context, limit int) ([]models.GarmentRecord, error) {
	recs, err := r.scan(ctx, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
	return truncate(recs, limit), nil
}

// ListByClass implements Repository.
func (r *BadgerRepository) ListByClass(ctx context.Context, className string, limit int) ([]models.GarmentRecord, error) {
	needle := strings.ToLower(className)
	recs, err := r.scan(ctx, func(rec *models.GarmentRecord) bool {
		return strings.Contains(strings.ToLower(rec.ClassName), needle)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Confidence != recs[j].Confidence {
			return recs[i].Confidence > recs[j].Confidence
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return truncate(recs, limit), nil
}

// scan decodes every record under the item prefix that keep accepts.
func (r *BadgerRepository) scan(ctx context.Context, keep func(*models.GarmentRecord) bool) ([]models.GarmentRecord, error) {
	var recs []models.GarmentRecord
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(itemKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec models.GarmentRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if keep == nil || keep(&rec) {
				recs = append(recs, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan garments: %w", err)
	}
	if recs == nil {
		recs = []models.GarmentRecord{}
	}
	return recs, nil
}

func truncate(recs []models.GarmentRecord, limit int) []models.GarmentRecord {
	if limit > 0 && len(recs) > limit {
		return recs[:limit]
	}
	return recs
}
