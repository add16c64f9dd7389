// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
)

// Session identifies the exam sitting within a year.
type Session string

const (
	SessionNormale    Session = "Normale"
	SessionRattrapage Session = "Rattrapage"
)

// TargetSessions lists the sessions the inventory tracks, in rank order.
var TargetSessions = []Session{SessionNormale, SessionRattrapage}

// Rank returns the session's position in the stable download order.
// Unknown sessions sort last.
func (s Session) Rank() int {
	switch s {
	case SessionNormale:
		return 0
	case SessionRattrapage:
		return 1
	default:
		return 99
	}
}

// AssetType distinguishes exam papers from their corrections.
type AssetType string

const (
	TypeMainExam   AssetType = "MainExam"
	TypeCorrection AssetType = "Correction"
)

// TargetAssetTypes lists the asset types the inventory tracks, in rank order.
var TargetAssetTypes = []AssetType{TypeMainExam, TypeCorrection}

// Rank returns the asset type's position in the stable download order.
func (t AssetType) Rank() int {
	switch t {
	case TypeMainExam:
		return 0
	case TypeCorrection:
		return 1
	default:
		return 99
	}
}

// Asset holds metadata and file paths for one exam or correction document.
// An Asset is built once, by the harvester or the gap synthesizer, and is
// never mutated afterward; reconciliation replaces whole entries.
type Asset struct {
	// SubjectCode is the short subject identifier (e.g. "Math", "PC", "SVT").
	SubjectCode string `json:"subject_code" yaml:"subject_code"`

	// SubjectLabel is the display name of the subject.
	SubjectLabel string `json:"subject_label" yaml:"subject_label"`

	// Year is the four-digit exam year as classified from the source title.
	// Empty when no year token was found.
	Year string `json:"year" yaml:"year"`

	// Session is the classified exam session, or empty when unknown.
	Session Session `json:"session" yaml:"session"`

	// AssetType is "MainExam" or "Correction".
	AssetType AssetType `json:"asset_type" yaml:"asset_type"`

	// SourceTitle is the raw anchor text the classification was derived from.
	SourceTitle string `json:"source_title" yaml:"source_title"`

	// SourcePage is the page URL the link was harvested from.
	SourcePage string `json:"source_page" yaml:"source_page"`

	// PDFURL is the direct, fetchable document URL after normalization.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// LocalPath is the deterministic destination path for the download.
	LocalPath string `json:"local_path" yaml:"local_path"`
}

// Key is the canonical identity of an asset: one slot per
// (subject, year, session, type) combination.
type Key struct {
	SubjectCode string
	Year        int
	Session     Session
	AssetType   AssetType
}

func (k Key) String() string {
	return fmt.Sprintf("%s %d %s %s", k.SubjectCode, k.Year, k.Session, k.AssetType)
}

// CanonicalKey returns the asset's canonical identity. The second return is
// false when the asset has no identity: missing or unparsable year, a
// session outside the target sessions, or an unrecognized asset type. Such
// assets are excluded from reconciliation.
func (a Asset) CanonicalKey() (Key, bool) {
	if a.Year == "" || a.Session == "" {
		return Key{}, false
	}
	year, err := strconv.Atoi(a.Year)
	if err != nil {
		return Key{}, false
	}
	if a.Session.Rank() >= len(TargetSessions) {
		return Key{}, false
	}
	if a.AssetType.Rank() >= len(TargetAssetTypes) {
		return Key{}, false
	}
	return Key{
		SubjectCode: a.SubjectCode,
		Year:        year,
		Session:     a.Session,
		AssetType:   a.AssetType,
	}, true
}

// YearInt returns the numeric year, or 0 when the year is absent or not a
// number. Used only for ordering.
func (a Asset) YearInt() int {
	year, err := strconv.Atoi(a.Year)
	if err != nil {
		return 0
	}
	return year
}
