// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// VerifyResult summarizes a structural verification pass over stored files.
type VerifyResult struct {
	Checked int
	Valid   int

	// Broken maps file path to the reason it failed verification.
	Broken map[string]string
}

// VerifyTree walks every .pdf file under rootDir and checks that it parses
// as a PDF with at least one page. This is a deeper, on-demand check than
// the signature sniff done at download time; a file that slipped through
// with a valid header but a mangled body is caught here.
func VerifyTree(rootDir string, w io.Writer) (VerifyResult, error) {
	var paths []string
	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return VerifyResult{}, fmt.Errorf("walking %s: %w", rootDir, err)
	}
	sort.Strings(paths)

	result := VerifyResult{Broken: make(map[string]string)}
	for _, path := range paths {
		result.Checked++
		if reason := verifyFile(path); reason != "" {
			result.Broken[path] = reason
			fmt.Fprintf(w, "broken: %s (%s)\n", path, reason)
			continue
		}
		result.Valid++
	}
	fmt.Fprintf(w, "\nVerified %d file(s): %d valid, %d broken\n",
		result.Checked, result.Valid, len(result.Broken))
	return result, nil
}

// verifyFile returns an empty string when path parses as a readable PDF, or
// the failure reason otherwise.
func verifyFile(path string) string {
	f, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Sprintf("unreadable: %v", err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return "no pages"
	}
	return ""
}
