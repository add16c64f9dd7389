// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"testing"

	"github.com/yselmaoui/bac-harvester/internal/sources"
	"github.com/yselmaoui/bac-harvester/pkg/types"
)

func testCatalog() sources.Catalog {
	return sources.Catalog{
		Subjects: []sources.Subject{
			{Code: "Math", Label: "Mathématiques", Folder: "Math", Pages: []string{"https://telmidtice.com/math/"}},
		},
		PreferredHosts: []string{"telmidtice.com", "men.gov.ma", "drive.google.com", "docs.google.com"},
		YearFrom:       2020,
		YearTo:         2021,
	}
}

func asset(year string, session types.Session, assetType types.AssetType, pdfURL string) types.Asset {
	return types.Asset{
		SubjectCode: "Math",
		Year:        year,
		Session:     session,
		AssetType:   assetType,
		PDFURL:      pdfURL,
		LocalPath:   "downloads/Math/Math_" + year + ".pdf",
	}
}

func TestPutClaimsVacantKey(t *testing.T) {
	ix := New(testCatalog())
	a := asset("2021", types.SessionNormale, types.TypeMainExam, "https://example.org/a.pdf")
	if !ix.Put(a) {
		t.Fatalf("Put() on vacant key should claim")
	}
	if ix.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ix.Len())
	}
}

func TestPutRejectsIncompleteCandidate(t *testing.T) {
	ix := New(testCatalog())
	tests := []types.Asset{
		asset("", types.SessionNormale, types.TypeMainExam, "https://telmidtice.com/a.pdf"),
		asset("2021", "", types.TypeMainExam, "https://telmidtice.com/a.pdf"),
		asset("2021", types.SessionNormale, "", "https://telmidtice.com/a.pdf"),
	}
	for _, a := range tests {
		if ix.Put(a) {
			t.Errorf("Put(%+v) should reject candidate without canonical key", a)
		}
	}
	if ix.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ix.Len())
	}
}

func TestPutPreferenceIsOrderIndependent(t *testing.T) {
	trusted := asset("2021", types.SessionNormale, types.TypeMainExam, "https://telmidtice.com/a.pdf")
	untrusted := asset("2021", types.SessionNormale, types.TypeMainExam, "https://random.example.org/a.pdf")

	// Trusted first: untrusted must not displace it.
	ix := New(testCatalog())
	ix.Put(trusted)
	if ix.Put(untrusted) {
		t.Errorf("untrusted host displaced trusted incumbent")
	}
	got, _ := ix.Get(types.Key{SubjectCode: "Math", Year: 2021, Session: types.SessionNormale, AssetType: types.TypeMainExam})
	if got.PDFURL != trusted.PDFURL {
		t.Errorf("winner = %q, want trusted", got.PDFURL)
	}

	// Untrusted first: trusted must take over.
	ix = New(testCatalog())
	ix.Put(untrusted)
	if !ix.Put(trusted) {
		t.Errorf("trusted host failed to displace untrusted incumbent")
	}
	got, _ = ix.Get(types.Key{SubjectCode: "Math", Year: 2021, Session: types.SessionNormale, AssetType: types.TypeMainExam})
	if got.PDFURL != trusted.PDFURL {
		t.Errorf("winner = %q, want trusted", got.PDFURL)
	}
}

func TestPutFirstSeenWinsOnEqualRank(t *testing.T) {
	first := asset("2021", types.SessionNormale, types.TypeMainExam, "https://telmidtice.com/first.pdf")
	second := asset("2021", types.SessionNormale, types.TypeMainExam, "https://telmidtice.com/second.pdf")

	ix := New(testCatalog())
	ix.Put(first)
	if ix.Put(second) {
		t.Errorf("equal-rank candidate displaced the incumbent")
	}
	got, _ := ix.Get(types.Key{SubjectCode: "Math", Year: 2021, Session: types.SessionNormale, AssetType: types.TypeMainExam})
	if got.PDFURL != first.PDFURL {
		t.Errorf("winner = %q, want first-seen", got.PDFURL)
	}
}

func TestSortedOrder(t *testing.T) {
	ix := New(testCatalog())
	ix.PutAll([]types.Asset{
		asset("2021", types.SessionRattrapage, types.TypeMainExam, "https://t.com/1.pdf"),
		asset("2020", types.SessionNormale, types.TypeCorrection, "https://t.com/2.pdf"),
		asset("2021", types.SessionNormale, types.TypeMainExam, "https://t.com/3.pdf"),
		asset("2021", types.SessionNormale, types.TypeCorrection, "https://t.com/4.pdf"),
	})

	sorted := ix.Sorted()
	if len(sorted) != 4 {
		t.Fatalf("Sorted() returned %d assets, want 4", len(sorted))
	}
	wantURLs := []string{"https://t.com/2.pdf", "https://t.com/3.pdf", "https://t.com/4.pdf", "https://t.com/1.pdf"}
	for i, a := range sorted {
		if a.PDFURL != wantURLs[i] {
			t.Errorf("Sorted()[%d] = %q, want %q", i, a.PDFURL, wantURLs[i])
		}
	}
}

func TestExpectedKeysAndMissing(t *testing.T) {
	catalog := testCatalog()
	keys := ExpectedKeys(catalog)
	// 1 subject x 2 years x 2 sessions x 2 types.
	if len(keys) != 8 {
		t.Fatalf("ExpectedKeys() returned %d keys, want 8", len(keys))
	}

	ix := New(catalog)
	ix.Put(asset("2020", types.SessionNormale, types.TypeMainExam, "https://t.com/a.pdf"))
	missing := ix.Missing()
	if len(missing) != 7 {
		t.Fatalf("Missing() returned %d keys, want 7", len(missing))
	}
	for _, key := range missing {
		if ix.Has(key) {
			t.Errorf("Missing() returned occupied key %v", key)
		}
	}
}
