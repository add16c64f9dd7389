// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest serializes the accepted asset set. Two forms are
// written, a structured JSON record list and a flat CSV table, and a run
// produces either both or neither.
package manifest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/yselmaoui/bac-harvester/pkg/types"
)

// csvHeader fixes the column order of the tabular form; it mirrors the
// Asset field order.
var csvHeader = []string{
	"subject_code", "subject_label", "year", "session", "asset_type",
	"source_title", "source_page", "pdf_url", "local_path",
}

// Write emits both manifest serializations for the accepted assets. Both
// documents are rendered up front and land via temp files, so a failure
// leaves any previous manifests untouched. An empty accepted set writes
// nothing.
func Write(assets []types.Asset, cfg types.ManifestConfig) error {
	if len(assets) == 0 {
		log.Warn().Msg("no accepted assets, manifests not written")
		return nil
	}

	jsonData, err := renderJSON(assets)
	if err != nil {
		return err
	}
	csvData, err := renderCSV(assets)
	if err != nil {
		return err
	}

	if err := commitFile(cfg.JSONPath, jsonData); err != nil {
		return fmt.Errorf("writing JSON manifest: %w", err)
	}
	if err := commitFile(cfg.CSVPath, csvData); err != nil {
		// Keep the both-or-neither contract: withdraw the JSON half.
		os.Remove(cfg.JSONPath)
		return fmt.Errorf("writing CSV manifest: %w", err)
	}

	log.Info().Int("entries", len(assets)).
		Str("json", cfg.JSONPath).Str("csv", cfg.CSVPath).
		Msg("manifests written")
	return nil
}

func renderJSON(assets []types.Asset) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(assets); err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCSV(assets []types.Asset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, a := range assets {
		record := []string{
			a.SubjectCode, a.SubjectLabel, a.Year, string(a.Session),
			string(a.AssetType), a.SourceTitle, a.SourcePage, a.PDFURL,
			a.LocalPath,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// commitFile writes data to path through a temp file in the same directory.
func commitFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return closeErr
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
