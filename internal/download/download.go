// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download materializes reconciled assets on disk. Downloads are
// idempotent (existing destinations are skipped), atomic (streamed to a
// temp file and renamed only after validation), and individually fallible:
// one bad document never aborts the batch.
package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/yselmaoui/bac-harvester/internal/httputil"
	"github.com/yselmaoui/bac-harvester/pkg/types"
)

// pdfMagic is the signature the first streamed chunk must carry, after any
// leading whitespace.
var pdfMagic = []byte("%PDF")

const firstChunkSize = 8192

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int

	// Accepted lists the assets whose destination is now valid on disk:
	// fresh downloads plus idempotent skips. This is the manifest input.
	Accepted []types.Asset
}

// Total returns the total number of assets processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any asset failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Run downloads each asset in the given order, which callers compute with
// the stable reconciled sort. Failures are logged and excluded from the
// accepted set; the batch always runs to completion. A politeness delay is
// applied between consecutive network downloads, never before skips.
func Run(ctx context.Context, client *http.Client, assets []types.Asset, cfg types.DownloadConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, asset := range assets {
		skipped, err := fetchOne(ctx, client, asset, &result, cfg.Delay)
		name := filepath.Base(asset.LocalPath)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			log.Error().Str("url", asset.PDFURL).Err(err).Msg("download failed")
			result.Failed++
		case skipped:
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
			result.Skipped++
			result.Accepted = append(result.Accepted, asset)
		default:
			fmt.Fprintf(w, "downloaded: %s\n", name)
			result.Downloaded++
			result.Accepted = append(result.Accepted, asset)
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// fetchOne materializes one asset. The destination never ends up holding a
// truncated or non-PDF body: the stream lands in a temp file that is
// renamed into place only after the signature check and a clean copy.
func fetchOne(ctx context.Context, client *http.Client, asset types.Asset, result *BatchResult, delay time.Duration) (skipped bool, err error) {
	if _, err := os.Stat(asset.LocalPath); err == nil {
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(asset.LocalPath), 0o755); err != nil {
		return false, fmt.Errorf("creating directory: %w", err)
	}

	if result.Downloaded+result.Failed > 0 && delay > 0 {
		time.Sleep(delay)
	}

	resp, err := httputil.Get(ctx, client, asset.PDFURL)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if ct := strings.ToLower(resp.Header.Get("Content-Type")); ct != "" && !strings.Contains(ct, "pdf") {
		log.Warn().Str("url", asset.PDFURL).Str("content_type", ct).
			Msg("unexpected content type for document")
	}

	if err := streamValidated(resp.Body, asset.LocalPath); err != nil {
		return false, err
	}
	return false, nil
}

// streamValidated copies body to destPath through a temp file, checking the
// first chunk for the PDF signature before committing anything.
func streamValidated(body io.Reader, destPath string) error {
	first := make([]byte, firstChunkSize)
	n, err := io.ReadFull(body, first)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("reading document: %w", err)
	}
	first = first[:n]

	if !bytes.HasPrefix(bytes.TrimLeftFunc(first, unicode.IsSpace), pdfMagic) {
		return fmt.Errorf("content does not look like a PDF")
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".harvest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := tmpFile.Write(first)
	if copyErr == nil {
		_, copyErr = io.Copy(tmpFile, body)
	}
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
