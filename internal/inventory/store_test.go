// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inventory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/yselmaoui/bac-harvester/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.InventoryConfig{DBPath: filepath.Join(t.TempDir(), "inventory.db")})
	if err != nil {
		t.Fatalf("NewStore(): %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func summaryAt(started time.Time) RunSummary {
	return RunSummary{
		Started:    started,
		Finished:   started.Add(time.Minute),
		Harvested:  12,
		Reconciled: 6,
		GapFilled:  2,
		Downloaded: 5,
		Skipped:    1,
		Failed:     2,
		Missing:    3,
	}
}

func storedAsset(subject, year string, session types.Session, assetType types.AssetType) types.Asset {
	return types.Asset{
		SubjectCode:  subject,
		SubjectLabel: subject + " label",
		Year:         year,
		Session:      session,
		AssetType:    assetType,
		SourceTitle:  "Examen " + subject + " " + year,
		SourcePage:   "https://telmidtice.com/" + subject,
		PDFURL:       "https://telmidtice.com/" + subject + "_" + year + ".pdf",
		LocalPath:    "downloads/" + subject + "/" + subject + "_" + year + ".pdf",
	}
}

func TestRecordRunAndListAssets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	accepted := []types.Asset{
		storedAsset("Math", "2021", types.SessionNormale, types.TypeMainExam),
		storedAsset("Math", "2020", types.SessionNormale, types.TypeCorrection),
		storedAsset("PC", "2021", types.SessionRattrapage, types.TypeMainExam),
	}
	if err := s.RecordRun(ctx, summaryAt(time.Now()), accepted); err != nil {
		t.Fatalf("RecordRun(): %v", err)
	}

	all, err := s.ListAssets(ctx, "")
	if err != nil {
		t.Fatalf("ListAssets(): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListAssets() returned %d assets, want 3", len(all))
	}
	// Stable order: subject, then year.
	if all[0].Year != "2020" || all[1].Year != "2021" || all[2].SubjectCode != "PC" {
		t.Errorf("unexpected order: %+v", all)
	}
	if all[0].PDFURL != "https://telmidtice.com/Math_2020.pdf" {
		t.Errorf("round-tripped URL = %q", all[0].PDFURL)
	}

	math, err := s.ListAssets(ctx, "Math")
	if err != nil {
		t.Fatalf("ListAssets(Math): %v", err)
	}
	if len(math) != 2 {
		t.Errorf("ListAssets(Math) returned %d assets, want 2", len(math))
	}
}

func TestRecordRunUpsertKeepsFirstSeen(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := storedAsset("Math", "2021", types.SessionNormale, types.TypeMainExam)
	first := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	if err := s.RecordRun(ctx, summaryAt(first), []types.Asset{a}); err != nil {
		t.Fatalf("first RecordRun(): %v", err)
	}

	a.PDFURL = "https://men.gov.ma/better.pdf"
	second := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	if err := s.RecordRun(ctx, summaryAt(second), []types.Asset{a}); err != nil {
		t.Fatalf("second RecordRun(): %v", err)
	}

	all, err := s.ListAssets(ctx, "")
	if err != nil {
		t.Fatalf("ListAssets(): %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("upsert created %d rows, want 1", len(all))
	}
	if all[0].PDFURL != "https://men.gov.ma/better.pdf" {
		t.Errorf("upsert did not refresh URL: %q", all[0].PDFURL)
	}

	var firstSeen, lastRun string
	err = s.db.QueryRow(`SELECT first_seen, last_run FROM assets`).Scan(&firstSeen, &lastRun)
	if err != nil {
		t.Fatalf("querying timestamps: %v", err)
	}
	if firstSeen == lastRun {
		t.Errorf("first_seen %q should predate last_run %q", firstSeen, lastRun)
	}
	wantFirst := first.Add(time.Minute).UTC().Format(time.RFC3339)
	if firstSeen != wantFirst {
		t.Errorf("first_seen = %q, want %q", firstSeen, wantFirst)
	}
}

func TestSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	accepted := []types.Asset{
		storedAsset("Math", "2021", types.SessionNormale, types.TypeMainExam),
		storedAsset("Math", "2020", types.SessionNormale, types.TypeMainExam),
		storedAsset("SVT", "2021", types.SessionNormale, types.TypeMainExam),
	}
	if err := s.RecordRun(ctx, summaryAt(time.Now()), accepted); err != nil {
		t.Fatalf("RecordRun(): %v", err)
	}

	counts, err := s.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary(): %v", err)
	}
	want := []SubjectCount{{"Math", 2}, {"SVT", 1}}
	if len(counts) != len(want) {
		t.Fatalf("Summary() returned %d entries, want %d", len(counts), len(want))
	}
	for i, c := range counts {
		if c != want[i] {
			t.Errorf("Summary()[%d] = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestLastRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := s.RecordRun(ctx, summaryAt(base.Add(time.Duration(i)*time.Hour)), nil); err != nil {
			t.Fatalf("RecordRun() %d: %v", i, err)
		}
	}

	runs, err := s.LastRuns(ctx, 2)
	if err != nil {
		t.Fatalf("LastRuns(): %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("LastRuns(2) returned %d runs, want 2", len(runs))
	}
	if !runs[0].Started.After(runs[1].Started) {
		t.Errorf("runs not newest first: %v then %v", runs[0].Started, runs[1].Started)
	}
	if runs[0].Harvested != 12 || runs[0].Missing != 3 {
		t.Errorf("run counters = %+v", runs[0])
	}
}
