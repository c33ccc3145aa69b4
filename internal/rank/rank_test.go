// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"
	"testing"
	"time"

	"github.com/pdiddy/scholar-search/pkg/types"
)

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func paperFrom(year, citations int) types.Paper {
	return types.Paper{
		ID:            "p1",
		Date:          time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		CitationCount: citations,
	}
}

func TestCitationVelocity(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		citations int
		want      float64
	}{
		{"hundred citations over five years", 2021, 100, 20},
		{"published this year counts one year", 2026, 30, 30},
		{"zero citations", 2020, 0, 0},
		{"one year old", 2025, 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CitationVelocity(paperFrom(tt.year, tt.citations), testNow)
			if got != tt.want {
				t.Errorf("CitationVelocity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecencyScore(t *testing.T) {
	if got := RecencyScore(paperFrom(2026, 0), testNow); got != 100 {
		t.Errorf("current-year recency = %v, want 100", got)
	}

	got := RecencyScore(paperFrom(2016, 0), testNow)
	if math.Abs(got-36.78794) > 0.001 {
		t.Errorf("ten-year recency = %v, want ≈36.788", got)
	}
}

func TestNormalizedCitations(t *testing.T) {
	tests := []struct {
		name      string
		citations int
		want      float64
		tol       float64
	}{
		{"zero citations score zero", 0, 0, 0},
		{"nine citations", 9, 100.0 / 3.0, 0.001},
		{"thousand citations near cap", 999, 100, 0.001},
		{"saturates at cap", 100000, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizedCitations(paperFrom(2020, tt.citations))
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("NormalizedCitations(%d) = %v, want %v", tt.citations, got, tt.want)
			}
		})
	}
}

func TestYearsSinceNeverNegative(t *testing.T) {
	future := paperFrom(2030, 0)
	if got := YearsSince(future, testNow); got != 0 {
		t.Errorf("YearsSince(future paper) = %d, want 0", got)
	}
}

func TestBlendWeights(t *testing.T) {
	// All components at their cap: blend equals the weight sum times 100.
	got := Blend(100, 50, 100, 100, DefaultProfile)
	if math.Abs(got-100) > 1e-9 {
		t.Errorf("Blend at cap = %v, want 100", got)
	}

	// Velocity doubles before weighting: velocity 10 contributes 20·0.25.
	got = Blend(0, 10, 0, 0, DefaultProfile)
	if math.Abs(got-5) > 1e-9 {
		t.Errorf("velocity-only blend = %v, want 5", got)
	}
}

func TestProfileByName(t *testing.T) {
	if ProfileByName("classic") != ClassicProfile {
		t.Error("classic profile not resolved")
	}
	if ProfileByName("") != DefaultProfile {
		t.Error("empty name should resolve to default")
	}
	if ProfileByName("unknown") != DefaultProfile {
		t.Error("unknown name should resolve to default")
	}
}

func TestClassicProfileFavorsCitations(t *testing.T) {
	seminal := paperFrom(2010, 900)
	fresh := paperFrom(2025, 40)

	classicSeminal := Score(seminal, 50, testNow, ClassicProfile)
	classicFresh := Score(fresh, 50, testNow, ClassicProfile)
	if classicSeminal <= classicFresh {
		t.Errorf("classic profile: seminal %v <= fresh %v", classicSeminal, classicFresh)
	}

	defaultSeminal := Score(seminal, 50, testNow, DefaultProfile)
	defaultFresh := Score(fresh, 50, testNow, DefaultProfile)
	if defaultFresh <= defaultSeminal {
		t.Errorf("default profile: fresh %v <= seminal %v", defaultFresh, defaultSeminal)
	}
}
