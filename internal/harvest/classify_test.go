// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"testing"

	"github.com/yselmaoui/bac-harvester/pkg/types"
)

func TestYear(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"Examen National Math 2021 Session Normale", "2021", true},
		{"Bac 1999 rattrapage", "1999", true},
		{"corrigé sans année", "", false},
		{"Sujets 2019-2020", "2019", true},
		{"Tome 3 page 2048", "2048", true},
	}
	for _, tt := range tests {
		got, ok := Year(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Year(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSessionOf(t *testing.T) {
	tests := []struct {
		text   string
		want   types.Session
		wantOK bool
	}{
		{"Session Normale 2021", types.SessionNormale, true},
		{"session NORMALE", types.SessionNormale, true},
		{"épreuve principale", types.SessionNormale, true},
		{"Session de Rattrapage", types.SessionRattrapage, true},
		{"rattrap. 2020", types.SessionRattrapage, true},
		{"session extraordinaire", types.SessionRattrapage, true},
		{"Examen National Math 2021", "", false},
	}
	for _, tt := range tests {
		got, ok := SessionOf(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("SessionOf(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAssetTypeOf(t *testing.T) {
	tests := []struct {
		text   string
		want   types.AssetType
		wantOK bool
	}{
		{"Sujet de l'examen 2021", types.TypeMainExam, true},
		{"Examen National Math", types.TypeMainExam, true},
		{"Corrigé de l'examen 2021", types.TypeCorrection, true},
		{"CORRIGE session normale", types.TypeCorrection, true},
		// Correction wins when both keywords appear.
		{"Sujet et corrigé 2021", types.TypeCorrection, true},
		{"Cours de mathématiques", "", false},
	}
	for _, tt := range tests {
		got, ok := AssetTypeOf(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("AssetTypeOf(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Fiche de préparation examen 2021", true},
		{"Preparation sheet", true},
		{"Examen National Math 2021", false},
	}
	for _, tt := range tests {
		if got := Excluded(tt.text); got != tt.want {
			t.Errorf("Excluded(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
