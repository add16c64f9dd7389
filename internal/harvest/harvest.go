// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest turns configured source pages into raw asset candidates.
// It extracts anchors from content regions, normalizes indirect links into
// direct document URLs, and classifies year, session, and asset type from
// the anchor text. Candidates are returned in source/page/anchor order; the
// reconciliation stage depends on that order for deterministic tie-breaking.
package harvest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/yselmaoui/bac-harvester/internal/httputil"
	"github.com/yselmaoui/bac-harvester/internal/sources"
	"github.com/yselmaoui/bac-harvester/pkg/types"
)

// ParseExamLinks builds asset candidates from one page's HTML. Anchors that
// fail normalization, do not point at a document, carry no usable title, or
// refer to excluded material are skipped silently; a noisy page must never
// abort the harvest. Duplicate document URLs within a page are collapsed to
// the first occurrence.
func ParseExamLinks(html, pageURL string, subject sources.Subject, rootDir string, selectors []string) ([]types.Asset, error) {
	anchors, err := ExtractAnchors(strings.NewReader(html), selectors)
	if err != nil {
		return nil, err
	}

	var assets []types.Asset
	seen := make(map[string]bool)

	for _, a := range anchors {
		pdfURL, ok := NormalizeDocumentURL(a.Href, pageURL)
		if !ok || !IsDocumentURL(pdfURL) {
			continue
		}
		if a.Text == "" {
			continue
		}
		if Excluded(a.Text) {
			continue
		}
		assetType, ok := AssetTypeOf(a.Text)
		if !ok {
			continue
		}
		pdfURL = strings.TrimSpace(pdfURL)
		if seen[pdfURL] {
			continue
		}
		seen[pdfURL] = true

		year, _ := Year(a.Text)
		session, _ := SessionOf(a.Text)

		assets = append(assets, types.Asset{
			SubjectCode:  subject.Code,
			SubjectLabel: subject.Label,
			Year:         year,
			Session:      session,
			AssetType:    assetType,
			SourceTitle:  a.Text,
			SourcePage:   pageURL,
			PDFURL:       pdfURL,
			LocalPath:    sources.AssetPath(rootDir, subject, year, session, assetType),
		})
	}
	return assets, nil
}

// pageResult carries one fetched page through the fan-out.
type pageResult struct {
	html string
	err  error
}

// Subjects fetches every configured page concurrently, then parses the
// results sequentially in catalog order so the returned candidate sequence
// is identical run to run. A failed page contributes nothing and the
// harvest continues.
func Subjects(ctx context.Context, client *http.Client, catalog sources.Catalog, cfg types.HarvestConfig, rootDir string, w io.Writer) []types.Asset {
	results := make([][]pageResult, len(catalog.Subjects))
	var wg sync.WaitGroup

	for si, subject := range catalog.Subjects {
		results[si] = make([]pageResult, len(subject.Pages))
		for pi, pageURL := range subject.Pages {
			wg.Add(1)
			go func(si, pi int, pageURL string) {
				defer wg.Done()
				html, err := fetchPage(ctx, client, pageURL)
				results[si][pi] = pageResult{html: html, err: err}
			}(si, pi, pageURL)
		}
	}
	wg.Wait()

	var assets []types.Asset
	for si, subject := range catalog.Subjects {
		count := 0
		for pi, pageURL := range subject.Pages {
			fmt.Fprintf(w, "processing: %s\n", pageURL)
			res := results[si][pi]
			if res.err != nil {
				log.Warn().Str("page", pageURL).Err(res.err).Msg("page fetch failed")
				continue
			}
			pageAssets, err := ParseExamLinks(res.html, pageURL, subject, rootDir, cfg.Selectors)
			if err != nil {
				log.Warn().Str("page", pageURL).Err(err).Msg("page parse failed")
				continue
			}
			if len(pageAssets) == 0 {
				log.Warn().Str("page", pageURL).Msg("no document links detected")
			}
			count += len(pageAssets)
			assets = append(assets, pageAssets...)
		}
		log.Info().Str("subject", subject.Code).Int("candidates", count).Msg("subject harvested")
	}
	return assets
}

func fetchPage(ctx context.Context, client *http.Client, pageURL string) (string, error) {
	resp, err := httputil.Get(ctx, client, pageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 20*1024*1024))
	if err != nil {
		return "", fmt.Errorf("reading page body: %w", err)
	}
	return string(body), nil
}
