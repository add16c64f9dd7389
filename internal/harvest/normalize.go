// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"net/url"
	"strings"
)

// driveHosts are the cloud-storage hosts whose share links we can rewrite
// into direct-download endpoints.
var driveHosts = map[string]bool{
	"drive.google.com": true,
	"docs.google.com":  true,
}

const driveDownloadBase = "https://drive.google.com/uc?export=download&id="

// NormalizeDocumentURL resolves href against pageURL and unwraps indirect
// links into a direct document URL:
//
//   - "telecharger" redirect helpers carry the real target URL-encoded in a
//     "url" query parameter; the target is extracted and decoded.
//   - Google Drive share links of the /file/d/<id>/ shape are rewritten to
//     the direct-download endpoint for that file id.
//
// Anything else passes through resolved. The second return is false only
// when the href cannot be parsed at all.
func NormalizeDocumentURL(href, pageURL string) (string, bool) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)

	if strings.Contains(abs.Path, "telecharger") {
		if target := abs.Query().Get("url"); target != "" {
			// The wrapper carries a double-encoded target; decode the
			// remaining layer.
			if decoded, err := url.QueryUnescape(target); err == nil {
				return decoded, true
			}
			return target, true
		}
	}

	if driveHosts[abs.Host] {
		if id, ok := driveFileID(abs.Path); ok {
			return driveDownloadBase + id, true
		}
	}

	return abs.String(), true
}

// driveFileID extracts the file id from a /file/d/<id>/... path.
func driveFileID(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if part == "d" && i > 0 && parts[i-1] == "file" && i+1 < len(parts) {
			return parts[i+1], true
		}
	}
	return "", false
}

// IsDocumentURL reports whether a normalized URL is worth harvesting: either
// a direct PDF link or a recognized cloud-storage host. Everything else is
// skipped; a bad candidate must never abort the page harvest.
func IsDocumentURL(rawURL string) bool {
	if strings.HasSuffix(strings.ToLower(rawURL), ".pdf") {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return driveHosts[u.Host]
}
