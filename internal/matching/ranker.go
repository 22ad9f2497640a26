package matching

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Ranker filters and orders browse candidates for a viewer. Filtering
// happens before scoring so excluded profiles never contribute to the
// ranked output.
type Ranker struct {
	scorer *Scorer
	now    func() time.Time
}

func NewRanker(scorer *Scorer) *Ranker {
	return &Ranker{scorer: scorer, now: time.Now}
}

// Rank applies filters in a fixed order, scores the survivors and sorts
// them by the requested key. blocked holds every user id that blocks or
// is blocked by the viewer; candidates present in it never appear in the
// output regardless of any other filter.
func (r *Ranker) Rank(viewer *User, candidates []*User, filters BrowseFilters, blocked map[int64]bool, sortBy SortKey, requireCompatible bool) []*ScoredCandidate {
	today := r.now()
	out := make([]*ScoredCandidate, 0, len(candidates))

	for _, c := range candidates {
		if c.ID == viewer.ID {
			continue
		}
		if blocked[c.ID] {
			continue
		}
		if requireCompatible && !IsCompatible(viewer, c) {
			continue
		}

		age := AgeAt(c.BirthDate, today)
		if filters.AgeMin != nil && age < *filters.AgeMin {
			continue
		}
		if filters.AgeMax != nil && age > *filters.AgeMax {
			continue
		}

		fame := defaultFameRating
		if c.FameRating != nil {
			fame = *c.FameRating
		}
		if filters.FameMin != nil && fame < *filters.FameMin {
			continue
		}
		if filters.FameMax != nil && fame > *filters.FameMax {
			continue
		}

		dist := distanceBetween(viewer, c)
		// Unknown distance never excludes a candidate.
		if filters.DistanceMaxKm != nil && dist != nil && *dist > *filters.DistanceMaxKm {
			continue
		}

		if hasAnyTag(c.Tags, filters.ExcludeTags) {
			continue
		}
		if len(filters.Interests) > 0 && !hasAnyTag(c.Tags, filters.Interests) {
			continue
		}

		score := r.scorer.Score(viewer, c)
		RecordScore(score)

		out = append(out, &ScoredCandidate{
			User:       c,
			Score:      score,
			Age:        age,
			DistanceKm: dist,
			CommonTags: CommonTagCount(viewer.Tags, c.Tags),
		})
	}

	sortCandidates(out, sortBy)
	return out
}

// hasAnyTag reports whether any candidate tag contains any of the wanted
// terms, case-insensitively. Substring match keeps "rock climbing"
// reachable via "climbing".
func hasAnyTag(tags, wanted []string) bool {
	for _, w := range wanted {
		lw := strings.ToLower(w)
		if lw == "" {
			continue
		}
		for _, t := range tags {
			if strings.Contains(strings.ToLower(t), lw) {
				return true
			}
		}
	}
	return false
}

// AgeAt returns whole completed years between birth and today,
// calendar-exact: the year only counts once the birthday has occurred.
func AgeAt(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

func sortCandidates(cs []*ScoredCandidate, key SortKey) {
	less := lessFunc(key)
	sort.SliceStable(cs, func(i, j int) bool { return less(cs[i], cs[j]) })
}

// distanceForSort maps an unknown distance to +Inf so that candidates
// without a location sort last ascending and, via the 0 default on the
// descending key, last descending too.
func distanceForSort(c *ScoredCandidate, asc bool) float64 {
	if c.DistanceKm == nil {
		if asc {
			return math.Inf(1)
		}
		return 0
	}
	return *c.DistanceKm
}

func fameForSort(c *ScoredCandidate) float64 {
	if c.User.FameRating == nil {
		return defaultFameRating
	}
	return *c.User.FameRating
}

func lessFunc(key SortKey) func(a, b *ScoredCandidate) bool {
	switch key {
	case SortAgeAsc:
		return func(a, b *ScoredCandidate) bool { return a.Age < b.Age }
	case SortAgeDesc:
		return func(a, b *ScoredCandidate) bool { return a.Age > b.Age }
	case SortDistanceAsc:
		return func(a, b *ScoredCandidate) bool {
			return distanceForSort(a, true) < distanceForSort(b, true)
		}
	case SortDistanceDesc:
		return func(a, b *ScoredCandidate) bool {
			return distanceForSort(a, false) > distanceForSort(b, false)
		}
	case SortFameAsc:
		return func(a, b *ScoredCandidate) bool { return fameForSort(a) < fameForSort(b) }
	case SortFameDesc:
		return func(a, b *ScoredCandidate) bool { return fameForSort(a) > fameForSort(b) }
	case SortTagsDesc:
		return func(a, b *ScoredCandidate) bool { return a.CommonTags > b.CommonTags }
	default: // SortRecommended
		return func(a, b *ScoredCandidate) bool { return a.Score > b.Score }
	}
}
