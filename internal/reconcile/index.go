// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile merges raw harvested candidates into a canonical
// inventory: one asset per (subject, year, session, type) key, with
// conflicts settled by a fixed host-trust ranking, and gaps filled from
// archive templates after a successful existence probe.
package reconcile

import (
	"net/url"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/yselmaoui/bac-harvester/internal/sources"
	"github.com/yselmaoui/bac-harvester/pkg/types"
)

// Index holds the reconciled key → asset map. It is owned by the
// orchestrating run and is not safe for concurrent use.
type Index struct {
	catalog sources.Catalog
	assets  map[types.Key]types.Asset
}

// New returns an empty index bound to catalog's host ranking.
func New(catalog sources.Catalog) *Index {
	return &Index{
		catalog: catalog,
		assets:  make(map[types.Key]types.Asset),
	}
}

// Put offers a candidate to the index. Candidates without a canonical key
// are rejected. A vacant key is claimed outright; an occupied key changes
// hands only when the candidate's document host ranks strictly higher than
// the incumbent's, so between equally trusted hosts the first-seen
// candidate wins. Put reports whether the candidate now occupies its key.
func (ix *Index) Put(asset types.Asset) bool {
	key, ok := asset.CanonicalKey()
	if !ok {
		log.Debug().
			Str("title", asset.SourceTitle).
			Str("url", asset.PDFURL).
			Msg("candidate has no canonical identity, dropped")
		return false
	}

	incumbent, occupied := ix.assets[key]
	if occupied && ix.hostRank(asset.PDFURL) >= ix.hostRank(incumbent.PDFURL) {
		return false
	}
	ix.assets[key] = asset
	return true
}

// PutAll offers candidates in order and returns how many claims or
// replacements happened. The input order must be the stable harvest order.
func (ix *Index) PutAll(assets []types.Asset) int {
	placed := 0
	for _, a := range assets {
		if ix.Put(a) {
			placed++
		}
	}
	return placed
}

// Get returns the asset occupying key, if any.
func (ix *Index) Get(key types.Key) (types.Asset, bool) {
	a, ok := ix.assets[key]
	return a, ok
}

// Has reports whether key is occupied.
func (ix *Index) Has(key types.Key) bool {
	_, ok := ix.assets[key]
	return ok
}

// Len returns the number of occupied keys.
func (ix *Index) Len() int {
	return len(ix.assets)
}

// Sorted returns the reconciled assets in the stable download order:
// subject, numeric year, session rank, type rank, destination filename.
func (ix *Index) Sorted() []types.Asset {
	assets := make([]types.Asset, 0, len(ix.assets))
	for _, a := range ix.assets {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool {
		a, b := assets[i], assets[j]
		if a.SubjectCode != b.SubjectCode {
			return a.SubjectCode < b.SubjectCode
		}
		if a.YearInt() != b.YearInt() {
			return a.YearInt() < b.YearInt()
		}
		if a.Session.Rank() != b.Session.Rank() {
			return a.Session.Rank() < b.Session.Rank()
		}
		if a.AssetType.Rank() != b.AssetType.Rank() {
			return a.AssetType.Rank() < b.AssetType.Rank()
		}
		return filepath.Base(a.LocalPath) < filepath.Base(b.LocalPath)
	})
	return assets
}

// Missing returns the expected keys that remain unoccupied, in expected-key
// order.
func (ix *Index) Missing() []types.Key {
	var missing []types.Key
	for _, key := range ExpectedKeys(ix.catalog) {
		if !ix.Has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// ExpectedKeys enumerates the full key space the catalog promises: every
// subject × year × target session × target asset type, in a fixed order.
func ExpectedKeys(catalog sources.Catalog) []types.Key {
	var keys []types.Key
	for _, subject := range catalog.Subjects {
		for _, year := range catalog.Years() {
			for _, session := range types.TargetSessions {
				for _, assetType := range types.TargetAssetTypes {
					keys = append(keys, types.Key{
						SubjectCode: subject.Code,
						Year:        year,
						Session:     session,
						AssetType:   assetType,
					})
				}
			}
		}
	}
	return keys
}

func (ix *Index) hostRank(rawURL string) int {
	u, err := url.Parse(rawURL)
	if err != nil {
		return len(ix.catalog.PreferredHosts)
	}
	return ix.catalog.HostRank(u.Hostname())
}
