// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/outfitter/internal/backup"
)

type backupListResponse struct {
	Backups []backup.Backup `json:"backups"`
}

func (h *Handler) backupsDisabled(w http.ResponseWriter) bool {
	if h.backups != nil {
		return false
	}
	respondError(w, http.StatusServiceUnavailable, "BACKUPS_DISABLED",
		"Backups are not configured; set BACKUP_DIR to enable them.", nil)
	return true
}

// BackupList returns the stored wardrobe archives, newest first.
func (h *Handler) BackupList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.backupsDisabled(w) {
		return
	}
	list, err := h.backups.List()
	if err != nil {
		h.logger.Error().Err(err).Msg("Listing backups failed")
		respondError(w, http.StatusInternalServerError, "BACKUP_LIST_FAILED", "Failed to list backups", nil)
		return
	}
	respondData(w, http.StatusOK, backupListResponse{Backups: list}, start)
}

// BackupCreate writes a new archive now.
func (h *Handler) BackupCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.backupsDisabled(w) {
		return
	}
	b, err := h.backups.Create(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "BACKUP_FAILED", "Backup failed; check server logs.", nil)
		return
	}
	respondData(w, http.StatusCreated, b, start)
}
