// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package checkpoint

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/outfitter/internal/siamese"
)

// ErrCorrupt is returned when a checkpoint cannot be decoded.
var ErrCorrupt = errors.New("corrupt checkpoint")

// ErrChecksumMismatch is returned by Verify when the payload hash does not
// match the metadata.
var ErrChecksumMismatch = errors.New("checkpoint checksum mismatch")

// Section names the payload field parameters were read from.
type Section string

// Payload sections, in lookup order.
const (
	SectionModelStateDict Section = "model_state_dict"
	SectionStateDict      Section = "state_dict"
	SectionRaw            Section = "raw"
	SectionNone           Section = ""
)

// Metadata describes a stored checkpoint.
type Metadata struct {
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	SavedAt   time.Time `json:"saved_at"`
	Checksum  string    `json:"checksum"`
	SizeBytes int64     `json:"size_bytes"`
	Epoch     int       `json:"epoch,omitempty"`
	ValLoss   float64   `json:"val_loss,omitempty"`
}

// Payload holds the parameters. A trainer fills exactly one of the three
// maps; Parameters picks the first non-empty one.
type Payload struct {
	ModelStateDict siamese.StateDict
	StateDict      siamese.StateDict
	Raw            siamese.StateDict

	// Architecture is optional. When nil the loader uses its configured shape.
	Architecture *siamese.Architecture
}

// Parameters returns the parameter map and the section it came from.
func (p *Payload) Parameters() (siamese.StateDict, Section) {
	switch {
	case len(p.ModelStateDict) > 0:
		return p.ModelStateDict, SectionModelStateDict
	case len(p.StateDict) > 0:
		return p.StateDict, SectionStateDict
	case len(p.Raw) > 0:
		return p.Raw, SectionRaw
	default:
		return nil, SectionNone
	}
}

// Checkpoint is a decoded file.
type Checkpoint struct {
	Metadata      Metadata
	Payload       Payload
	ChecksumValid bool
}

type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Encode serialises p. Name, Version, Epoch and ValLoss are taken from meta;
// Checksum, SizeBytes and SavedAt are filled in.
//
//nolint:gocritic // meta passed by value is acceptable for this write path
func Encode(meta Metadata, p *Payload) ([]byte, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(p); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	if meta.SavedAt.IsZero() {
		meta.SavedAt = time.Now().UTC()
	}

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return out.Bytes(), nil
}

// Decode parses a checkpoint. Undecodable input yields ErrCorrupt; a
// checksum mismatch only clears ChecksumValid.
func Decode(data []byte) (*Checkpoint, error) {
	var sf storedFile
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: read envelope: %v", ErrCorrupt, err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrCorrupt, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close after full read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: read payload: %v", ErrCorrupt, err)
	}

	hash := sha256.Sum256(raw)
	ck := &Checkpoint{
		Metadata:      sf.Metadata,
		ChecksumValid: hex.EncodeToString(hash[:]) == sf.Metadata.Checksum,
	}
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&ck.Payload); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", ErrCorrupt, err)
	}
	return ck, nil
}

// Verify reports a checksum mismatch as an error wrapping ErrChecksumMismatch.
func (ck *Checkpoint) Verify() error {
	if ck.ChecksumValid {
		return nil
	}
	return fmt.Errorf("%w: %s v%d", ErrChecksumMismatch, ck.Metadata.Name, ck.Metadata.Version)
}

// Summary is a human-oriented description of a checkpoint.
type Summary struct {
	Metadata      Metadata `json:"metadata"`
	Section       Section  `json:"section"`
	KeyCount      int      `json:"key_count"`
	Variant       string   `json:"variant"`
	SampleKeys    []string `json:"sample_keys"`
	ChecksumValid bool     `json:"checksum_valid"`
}

// Inspect decodes data and summarises it.
func Inspect(data []byte) (*Summary, error) {
	ck, err := Decode(data)
	if err != nil {
		return nil, err
	}
	params, section := ck.Payload.Parameters()
	keys := params.Keys()
	sample := keys
	if len(sample) > 5 {
		sample = sample[:5]
	}
	return &Summary{
		Metadata:      ck.Metadata,
		Section:       section,
		KeyCount:      len(keys),
		Variant:       siamese.ClassifyVariant(keys).String(),
		SampleKeys:    sample,
		ChecksumValid: ck.ChecksumValid,
	}, nil
}
