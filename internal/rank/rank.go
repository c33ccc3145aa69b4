// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank computes per-paper relevance metrics: citation velocity,
// exponential recency decay, and log-normalized citation magnitude. All
// functions are pure; callers pass the reference time explicitly so results
// are reproducible in tests.
package rank

import (
	"math"
	"time"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// YearsSince returns the whole years between the paper's publication year
// and now, never negative. Papers without a date count as year zero, which
// pushes their age-derived metrics toward the floor.
func YearsSince(p types.Paper, now time.Time) int {
	age := now.Year() - p.Year()
	if age < 0 {
		return 0
	}
	return age
}

// CitationVelocity returns citations accumulated per year since publication.
// The first year counts as one full year, so a paper published this year
// with 30 citations has velocity 30.
func CitationVelocity(p types.Paper, now time.Time) float64 {
	years := YearsSince(p, now)
	if years < 1 {
		years = 1
	}
	return float64(p.CitationCount) / float64(years)
}

// RecencyScore returns 100·e^(−0.1·age) with age in years: 100 for a paper
// published this year, ≈36.8 for one ten years old.
func RecencyScore(p types.Paper, now time.Time) float64 {
	return 100 * math.Exp(-0.1*float64(YearsSince(p, now)))
}

// NormalizedCitations maps the citation count onto a 0–100 log scale that
// saturates at 1,000 citations. Zero citations score zero.
func NormalizedCitations(p types.Paper) float64 {
	if p.CitationCount <= 0 {
		return 0
	}
	score := math.Log10(float64(p.CitationCount)+1) / math.Log10(1000) * 100
	return math.Min(100, score)
}

// WeightProfile blends the text-match score with the citation metrics.
// Weights are expected to sum to 1.
type WeightProfile struct {
	Text     float64
	Velocity float64
	Recency  float64
	Citation float64
}

// DefaultProfile favors textual match and citation velocity: good for
// surfacing active, on-topic work.
var DefaultProfile = WeightProfile{Text: 0.40, Velocity: 0.25, Recency: 0.20, Citation: 0.15}

// ClassicProfile favors total citation count, surfacing seminal papers even
// when their yearly velocity has flattened.
var ClassicProfile = WeightProfile{Text: 0.25, Velocity: 0.10, Recency: 0.15, Citation: 0.50}

// ProfileByName resolves a named weight profile, defaulting to
// DefaultProfile for unknown names.
func ProfileByName(name string) WeightProfile {
	if name == "classic" {
		return ClassicProfile
	}
	return DefaultProfile
}

// Blend combines a 0–100 text-match score with precomputed metrics under a
// weight profile. Velocity is doubled and capped at 100 before weighting so
// a sustained 50 citations/year saturates that component.
func Blend(textScore, velocity, recency, normCitations float64, w WeightProfile) float64 {
	return textScore*w.Text +
		math.Min(100, velocity*2)*w.Velocity +
		recency*w.Recency +
		normCitations*w.Citation
}

// Score computes the full relevance score for one paper given its 0–100
// text-match score.
func Score(p types.Paper, textScore float64, now time.Time, w WeightProfile) float64 {
	return Blend(textScore, CitationVelocity(p, now), RecencyScore(p, now), NormalizedCitations(p), w)
}
