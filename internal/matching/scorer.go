package matching

import (
	"strings"
	"time"
)

// Scoring weights and windows. The four terms sum to at most 100.
const (
	tagWeight      = 40.0
	distanceWeight = 30.0
	fameWeight     = 20.0
	recencyWeight  = 10.0

	// Distance term: linear falloff over a 100 km window. When the
	// distance is unknown a fixed 50 km default is substituted.
	distanceWindowMeters  = 100_000.0
	defaultDistanceMeters = 50_000.0

	// Fame term: ratings live on a 0-100 scale; missing ratings count
	// as 50.
	defaultFameRating = 50.0

	// Recency term: linear falloff over 24 hours since last online.
	recencyWindowHours = 24.0
)

// ScoreBreakdown exposes the individual weighted terms of a score, used
// by the compatibility endpoint so clients can explain a ranking.
type ScoreBreakdown struct {
	TagTerm      float64 `json:"tag_term"`
	DistanceTerm float64 `json:"distance_term"`
	FameTerm     float64 `json:"fame_term"`
	RecencyTerm  float64 `json:"recency_term"`
	Total        float64 `json:"total"`
}

// Scorer computes the weighted desirability score of a candidate
// relative to a viewer. Pure over its inputs; the clock is injectable
// for tests.
type Scorer struct {
	now func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// Score returns the candidate's score in [0,100] from the viewer's
// perspective. Missing tags, location or fame rating never fail; they
// fall back to the documented defaults.
func (s *Scorer) Score(viewer, candidate *User) float64 {
	return s.Breakdown(viewer, candidate).Total
}

// Breakdown computes the four weighted terms and their clamped total.
func (s *Scorer) Breakdown(viewer, candidate *User) ScoreBreakdown {
	b := ScoreBreakdown{
		TagTerm:      tagTerm(viewer.Tags, candidate.Tags),
		DistanceTerm: distanceTerm(viewer, candidate),
		FameTerm:     fameTerm(candidate.FameRating),
		RecencyTerm:  s.recencyTerm(candidate.LastOnline),
	}

	total := b.TagTerm + b.DistanceTerm + b.FameTerm + b.RecencyTerm
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	b.Total = total

	return b
}

// tagTerm scores tag overlap. The count is the candidate's tags that
// case-insensitively appear in the viewer's set, normalized by the
// smaller of the two set sizes. Deliberately not symmetric between
// viewer and candidate; browse ranking depends on this exact behavior.
func tagTerm(viewerTags, candidateTags []string) float64 {
	common := CommonTagCount(viewerTags, candidateTags)

	denom := len(viewerTags)
	if len(candidateTags) < denom {
		denom = len(candidateTags)
	}
	if denom < 1 {
		denom = 1
	}

	return float64(common) / float64(denom) * tagWeight
}

// CommonTagCount counts candidate tags that case-insensitively match any
// viewer tag.
func CommonTagCount(viewerTags, candidateTags []string) int {
	if len(viewerTags) == 0 || len(candidateTags) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(viewerTags))
	for _, tag := range viewerTags {
		seen[strings.ToLower(tag)] = true
	}

	common := 0
	for _, tag := range candidateTags {
		if seen[strings.ToLower(tag)] {
			common++
		}
	}
	return common
}

func distanceTerm(viewer, candidate *User) float64 {
	meters := defaultDistanceMeters
	if d := distanceBetween(viewer, candidate); d != nil {
		meters = *d * 1000
	}
	if meters > distanceWindowMeters {
		meters = distanceWindowMeters
	}
	return (distanceWindowMeters - meters) / distanceWindowMeters * distanceWeight
}

func fameTerm(rating *float64) float64 {
	fame := defaultFameRating
	if rating != nil {
		fame = *rating
	}
	if fame < 0 {
		fame = 0
	}
	if fame > 100 {
		fame = 100
	}
	return fame / 100 * fameWeight
}

func (s *Scorer) recencyTerm(lastOnline time.Time) float64 {
	if lastOnline.IsZero() {
		return 0
	}
	hours := s.now().Sub(lastOnline).Hours()
	if hours < 0 {
		hours = 0
	}
	if hours > recencyWindowHours {
		hours = recencyWindowHours
	}
	return (recencyWindowHours - hours) / recencyWindowHours * recencyWeight
}
