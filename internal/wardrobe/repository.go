// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package wardrobe

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"

	"github.com/tomtom215/outfitter/internal/models"
)

// Repository errors.
var (
	ErrNotFound      = errors.New("garment not found")
	ErrAlreadyExists = errors.New("garment already exists")
	ErrInvalidRecord = errors.New("invalid garment record")
)

// Repository persists garment records.
type Repository interface {
	// Create stores rec, filling in ID, CreatedAt and Thickness when unset.
	Create(ctx context.Context, rec *models.GarmentRecord) error

	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*models.GarmentRecord, error)

	// List returns up to limit records, newest first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]models.GarmentRecord, error)

	// ListByClass returns up to limit records whose class label contains
	// className, ignoring case, highest confidence first.
	ListByClass(ctx context.Context, className string, limit int) ([]models.GarmentRecord, error)
}

// NewID returns a random 32 character hex identifier.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
