// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"regexp"
	"strings"

	"github.com/yselmaoui/bac-harvester/pkg/types"
)

// yearPattern matches the first plausible exam year in a title. Titles that
// mention several years (e.g. ranges) yield the first occurrence; that is a
// known limitation of the heuristic, kept deliberately.
var yearPattern = regexp.MustCompile(`(20\d{2}|19\d{2})`)

// sessionKeywords maps keyword groups to sessions. Groups are checked in
// order and the first matching group wins.
var sessionKeywords = []struct {
	keywords []string
	session  types.Session
}{
	{[]string{"normale", "normal", "principale", "main", "regular"}, types.SessionNormale},
	{[]string{"rattrap", "retake", "extraordinaire"}, types.SessionRattrapage},
}

// skipKeywords mark titles for non-exam material (drill and preparation
// sheets) that must be excluded before any classification runs.
var skipKeywords = []string{"préparation", "preparation"}

// Year extracts the first four-digit year token from text.
func Year(text string) (string, bool) {
	if m := yearPattern.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

// SessionOf classifies the exam session from title text by case-insensitive
// keyword matching. No keyword present means the session is unknown.
func SessionOf(text string) (types.Session, bool) {
	lowered := strings.ToLower(text)
	for _, group := range sessionKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				return group.session, true
			}
		}
	}
	return "", false
}

// AssetTypeOf classifies a title as an exam paper or a correction.
// Correction keywords win when both appear: an item titled "exam +
// correction" is conservatively treated as a correction link only when
// explicitly labeled so.
func AssetTypeOf(text string) (types.AssetType, bool) {
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "corrig") {
		return types.TypeCorrection, true
	}
	if strings.Contains(lowered, "sujet") || strings.Contains(lowered, "examen") {
		return types.TypeMainExam, true
	}
	return "", false
}

// Excluded reports whether a title refers to non-target material. The check
// runs on raw text, independent of any classification outcome.
func Excluded(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range skipKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
