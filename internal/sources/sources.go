// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources holds the harvesting catalog: which subjects exist, which
// pages list their documents, how archive fallback URLs are assembled, and
// which hosts are trusted. The catalog is loaded once at startup and passed
// explicitly into every stage.
package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/yselmaoui/bac-harvester/pkg/types"
)

// Subject describes one exam subject and where its documents are listed.
type Subject struct {
	// Code is the short identifier used in keys and filenames (e.g. "Math").
	Code string `yaml:"code"`

	// Label is the display name (e.g. "Mathématiques").
	Label string `yaml:"label"`

	// Folder is the storage directory name, relative to the download root.
	Folder string `yaml:"folder"`

	// Pages lists source page URLs in harvest order. Order matters: it
	// fixes tie-breaking between equally trusted candidates.
	Pages []string `yaml:"pages"`
}

// ArchiveTemplate describes how to assemble a fallback document URL for a
// subject when no page listed it.
type ArchiveTemplate struct {
	// BaseURL is the archive directory the filename is appended to.
	BaseURL string `yaml:"base_url"`

	// FileTemplate is a fmt template with verbs for year, session label,
	// and type label, in that order.
	FileTemplate string `yaml:"file_template"`

	// TitleTemplate is a fmt template for the synthesized source title.
	TitleTemplate string `yaml:"title_template"`
}

// Catalog is the full harvesting configuration.
type Catalog struct {
	// Subjects in harvest order.
	Subjects []Subject `yaml:"subjects"`

	// Templates maps subject code to its archive fallback template.
	Templates map[string]ArchiveTemplate `yaml:"templates"`

	// PreferredHosts ranks trusted hosts; index position is rank, lower is
	// better. Hosts not in the list rank last.
	PreferredHosts []string `yaml:"preferred_hosts"`

	// YearFrom and YearTo bound the expected year range, inclusive.
	YearFrom int `yaml:"year_from"`
	YearTo   int `yaml:"year_to"`
}

// SessionLabels maps a session to the label used in archive filenames.
var SessionLabels = map[types.Session]string{
	types.SessionNormale:    "Normale",
	types.SessionRattrapage: "Rattrapage",
}

// TypeLabels maps an asset type to its French label used in archive filenames.
var TypeLabels = map[types.AssetType]string{
	types.TypeMainExam:   "Sujet",
	types.TypeCorrection: "Corrigé",
}

// Default returns the built-in catalog: Mathématiques, Sciences Physiques,
// and SVT national exams from TelmidTICE and taalime.ma, years 2008-2024.
func Default() Catalog {
	return Catalog{
		Subjects: []Subject{
			{
				Code:   "Math",
				Label:  "Mathématiques",
				Folder: "Math",
				Pages: []string{
					"https://telmidtice.com/2bac-pc-mathematiques-examens-nationaux/",
					"https://www.taalime.ma/examen-national-math-bac-sciences-mathematique-avec-correction-biof-pdf-maroc/",
				},
			},
			{
				Code:   "PC",
				Label:  "Sciences Physiques (PC)",
				Folder: "PC",
				Pages: []string{
					"https://telmidtice.com/2bac-pc-pc-examens-nationaux/",
					"https://www.taalime.ma/examen-national-physique-chimie-bac-sciences-physique-svt-avec-correction-biof-pdf-maroc/",
				},
			},
			{
				Code:   "SVT",
				Label:  "Sciences de la Vie et de la Terre (SVT)",
				Folder: "SVT",
				Pages: []string{
					"https://telmidtice.com/2bac-pc-svt-examens-nationaux/",
					"https://www.taalime.ma/examen-national-svt-bac-sciences-de-la-vie-et-de-la-terre-avec-correction-biof-pdf-maroc/",
				},
			},
		},
		Templates: map[string]ArchiveTemplate{
			"Math": {
				BaseURL:       "https://telmidtice.com/assets/2bac-pc/maths-fr/Examens Nationaux/",
				FileTemplate:  "TelmidTice - Examen National Maths Sciences et Technologies %d %s - %s.pdf",
				TitleTemplate: "TelmidTICE Mathématiques %d %s – %s",
			},
			"PC": {
				BaseURL:       "https://telmidtice.com/assets/2bac-pc/pc-fr/Examens Nationaux/",
				FileTemplate:  "TelmidTice - Examen National Physique-Chimie SPC %d %s - %s.pdf",
				TitleTemplate: "TelmidTICE Physique-Chimie %d %s – %s",
			},
			"SVT": {
				BaseURL:       "https://telmidtice.com/assets/2bac-pc/svt-fr/Examens Nationaux/",
				FileTemplate:  "TelmidTice - Examen National SVT Sciences Physiques %d %s - %s.pdf",
				TitleTemplate: "TelmidTICE SVT %d %s – %s",
			},
		},
		PreferredHosts: []string{
			"telmidtice.com",
			"men.gov.ma",
			"drive.google.com",
			"docs.google.com",
		},
		YearFrom: 2008,
		YearTo:   2024,
	}
}

// Years enumerates the configured year range in ascending order.
func (c Catalog) Years() []int {
	if c.YearTo < c.YearFrom {
		return nil
	}
	years := make([]int, 0, c.YearTo-c.YearFrom+1)
	for y := c.YearFrom; y <= c.YearTo; y++ {
		years = append(years, y)
	}
	return years
}

// HostRank returns the trust rank of a host: its index in PreferredHosts
// using suffix matching, or len(PreferredHosts) for unlisted hosts.
func (c Catalog) HostRank(host string) int {
	host = strings.ToLower(host)
	for i, domain := range c.PreferredHosts {
		if strings.HasSuffix(host, domain) {
			return i
		}
	}
	return len(c.PreferredHosts)
}

// Validate reports catalog problems that would make a run meaningless.
func (c Catalog) Validate() error {
	if len(c.Subjects) == 0 {
		return fmt.Errorf("catalog has no subjects")
	}
	seen := make(map[string]bool)
	for _, s := range c.Subjects {
		if s.Code == "" {
			return fmt.Errorf("subject with empty code")
		}
		if seen[s.Code] {
			return fmt.Errorf("duplicate subject code %q", s.Code)
		}
		seen[s.Code] = true
		if len(s.Pages) == 0 {
			return fmt.Errorf("subject %s has no source pages", s.Code)
		}
	}
	if c.YearTo < c.YearFrom {
		return fmt.Errorf("invalid year range %d-%d", c.YearFrom, c.YearTo)
	}
	return nil
}

// Load reads a catalog from a YAML file. An empty path returns the built-in
// default catalog.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog file: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Write saves the catalog to a YAML file, used to seed a starting point for
// a customized catalog.
func Write(c Catalog, path string) error {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// nonAlnum matches runs of characters outside the ASCII-safe filename set.
var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Filename builds the deterministic destination filename from its parts:
// each part is reduced to ASCII alphanumerics with underscores, empty parts
// are dropped, and the pieces are joined with underscores.
func Filename(parts ...string) string {
	var safe []string
	for _, part := range parts {
		clean := strings.Trim(nonAlnum.ReplaceAllString(part, "_"), "_")
		if clean != "" {
			safe = append(safe, clean)
		}
	}
	if len(safe) == 0 {
		return "document.pdf"
	}
	return strings.Join(safe, "_") + ".pdf"
}

// AssetPath builds the destination path for an asset under rootDir. Missing
// year or session fall back to the "unknown_year" and "session" placeholders
// so unclassified harvests still have a stable destination.
func AssetPath(rootDir string, subject Subject, year string, session types.Session, assetType types.AssetType) string {
	if year == "" {
		year = "unknown_year"
	}
	sess := string(session)
	if sess == "" {
		sess = "session"
	}
	name := Filename(subject.Code, year, sess, string(assetType))
	return filepath.Join(rootDir, subject.Folder, name)
}
