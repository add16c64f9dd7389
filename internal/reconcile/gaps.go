// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yselmaoui/bac-harvester/internal/httputil"
	"github.com/yselmaoui/bac-harvester/internal/sources"
	"github.com/yselmaoui/bac-harvester/pkg/types"
)

// SynthesizeArchiveAsset constructs the deterministic fallback candidate
// for key from the subject's archive template. The second return is false
// when the catalog has no template or labels for the key. Construction is
// side-effect free: the candidate holds no claim until it passes a probe
// and is committed by the caller.
func SynthesizeArchiveAsset(catalog sources.Catalog, subject sources.Subject, key types.Key, rootDir string) (types.Asset, bool) {
	tmpl, ok := catalog.Templates[subject.Code]
	if !ok {
		return types.Asset{}, false
	}
	sessionLabel, ok := sources.SessionLabels[key.Session]
	if !ok {
		return types.Asset{}, false
	}
	typeLabel, ok := sources.TypeLabels[key.AssetType]
	if !ok {
		return types.Asset{}, false
	}

	filename := fmt.Sprintf(tmpl.FileTemplate, key.Year, sessionLabel, typeLabel)
	year := fmt.Sprintf("%d", key.Year)

	return types.Asset{
		SubjectCode:  subject.Code,
		SubjectLabel: subject.Label,
		Year:         year,
		Session:      key.Session,
		AssetType:    key.AssetType,
		SourceTitle:  fmt.Sprintf(tmpl.TitleTemplate, key.Year, sessionLabel, typeLabel),
		SourcePage:   tmpl.BaseURL,
		PDFURL:       tmpl.BaseURL + url.PathEscape(filename),
		LocalPath:    sources.AssetPath(rootDir, subject, year, key.Session, key.AssetType),
	}, true
}

// FillGaps walks the expected key space and, for every vacant key, builds
// the archive fallback candidate and probes its URL with a metadata-only
// request. Only a successful probe commits the candidate; a failed probe
// leaves the key vacant and the walk continues. Returns the number of keys
// filled.
func FillGaps(ctx context.Context, client *http.Client, ix *Index, rootDir string, cfg types.ProbeConfig) int {
	filled := 0
	probed := 0
	for _, subject := range ix.catalog.Subjects {
		for _, year := range ix.catalog.Years() {
			for _, session := range types.TargetSessions {
				for _, assetType := range types.TargetAssetTypes {
					key := types.Key{
						SubjectCode: subject.Code,
						Year:        year,
						Session:     session,
						AssetType:   assetType,
					}
					if ix.Has(key) {
						continue
					}
					candidate, ok := SynthesizeArchiveAsset(ix.catalog, subject, key, rootDir)
					if !ok {
						continue
					}
					if probed > 0 && cfg.Delay > 0 {
						time.Sleep(cfg.Delay)
					}
					probed++
					if !httputil.Exists(ctx, client, candidate.PDFURL) {
						log.Debug().Str("key", key.String()).Str("url", candidate.PDFURL).
							Msg("archive probe failed, key stays vacant")
						continue
					}
					if ix.Put(candidate) {
						filled++
						log.Info().Str("key", key.String()).Msg("gap filled from archive template")
					}
				}
			}
		}
	}
	return filled
}

// ReportMissing logs every expected key that remains vacant after gap
// filling. Missing assets are an expected steady state with unreliable
// sources; they are observability output, never an error.
func ReportMissing(ix *Index) []types.Key {
	missing := ix.Missing()
	for _, key := range missing {
		log.Warn().Str("key", key.String()).Msg("missing asset after fallback search")
	}
	if len(missing) == 0 {
		log.Info().Msg("all target assets located")
	}
	return missing
}
