package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrI(n int) *int { return &n }

func fixedRanker(now time.Time) *Ranker {
	return &Ranker{
		scorer: fixedScorer(now),
		now:    func() time.Time { return now },
	}
}

func birthDateForAge(today time.Time, age int) time.Time {
	return time.Date(today.Year()-age, today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
}

func browseUser(id int64, age int, today time.Time) *User {
	return &User{
		ID:               id,
		Gender:           GenderFemale,
		SexualPreference: PrefBoth,
		BirthDate:        birthDateForAge(today, age),
		LastOnline:       today,
	}
}

func TestAgeAt(t *testing.T) {
	today := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday already passed", time.Date(2000, 3, 1, 0, 0, 0, 0, time.UTC), 26},
		{"birthday today", time.Date(2000, 8, 29, 0, 0, 0, 0, time.UTC), 26},
		{"birthday tomorrow", time.Date(2000, 8, 30, 0, 0, 0, 0, time.UTC), 25},
		{"birthday later this year", time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC), 25},
		{"born this year", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"future birth date", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeAt(tt.birth, today))
		})
	}
}

// The age filter must be calendar-exact: a candidate one day short of
// their 26th birthday still passes ageMax=25, one whose birthday was
// yesterday does not.
func TestRankAgeFilterCalendarExact(t *testing.T) {
	today := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	r := fixedRanker(today)
	viewer := browseUser(1, 30, today)

	turned26Yesterday := browseUser(2, 25, today)
	turned26Yesterday.BirthDate = time.Date(2000, 8, 28, 0, 0, 0, 0, time.UTC)

	turns26Tomorrow := browseUser(3, 25, today)
	turns26Tomorrow.BirthDate = time.Date(2000, 8, 30, 0, 0, 0, 0, time.UTC)

	filters := BrowseFilters{AgeMin: ptrI(18), AgeMax: ptrI(25)}
	got := r.Rank(viewer, []*User{turned26Yesterday, turns26Tomorrow}, filters, nil, SortRecommended, false)

	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].User.ID)
	assert.Equal(t, 25, got[0].Age)
}

func TestRankExcludesSelfAndBlocked(t *testing.T) {
	today := time.Now()
	r := fixedRanker(today)
	viewer := browseUser(1, 30, today)

	self := browseUser(1, 30, today)
	blocked := browseUser(2, 30, today)
	visible := browseUser(3, 30, today)

	got := r.Rank(viewer, []*User{self, blocked, visible}, BrowseFilters{}, map[int64]bool{2: true}, SortRecommended, false)

	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].User.ID)
}

func TestRankCompatibilityGate(t *testing.T) {
	today := time.Now()
	r := fixedRanker(today)

	viewer := browseUser(1, 30, today)
	viewer.Gender = GenderMale
	viewer.SexualPreference = PrefFemale

	incompatible := browseUser(2, 30, today)
	incompatible.Gender = GenderMale
	incompatible.SexualPreference = PrefFemale

	compatible := browseUser(3, 30, today)
	compatible.Gender = GenderFemale
	compatible.SexualPreference = PrefMale

	got := r.Rank(viewer, []*User{incompatible, compatible}, BrowseFilters{}, nil, SortRecommended, true)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].User.ID)

	// With the gate off both survive.
	got = r.Rank(viewer, []*User{incompatible, compatible}, BrowseFilters{}, nil, SortRecommended, false)
	assert.Len(t, got, 2)
}

func TestRankDistanceFilterKeepsUnknown(t *testing.T) {
	today := time.Now()
	r := fixedRanker(today)

	viewer := browseUser(1, 30, today)
	viewer.Latitude, viewer.Longitude = ptrF(48.0), ptrF(2.0)

	far := browseUser(2, 30, today)
	far.Latitude, far.Longitude = ptrF(49.0), ptrF(2.0) // ~111 km away

	unknown := browseUser(3, 30, today)

	maxKm := 50.0
	got := r.Rank(viewer, []*User{far, unknown}, BrowseFilters{DistanceMaxKm: &maxKm}, nil, SortRecommended, false)

	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].User.ID)
	assert.Nil(t, got[0].DistanceKm)
}

func TestRankTagFilters(t *testing.T) {
	today := time.Now()
	r := fixedRanker(today)
	viewer := browseUser(1, 30, today)

	smoker := browseUser(2, 30, today)
	smoker.Tags = []string{"Smoking", "art"}

	climber := browseUser(3, 30, today)
	climber.Tags = []string{"rock climbing"}

	reader := browseUser(4, 30, today)
	reader.Tags = []string{"books"}

	// Substring, case-insensitive exclusion.
	got := r.Rank(viewer, []*User{smoker, climber, reader}, BrowseFilters{ExcludeTags: []string{"smoking"}}, nil, SortRecommended, false)
	require.Len(t, got, 2)

	// Interests keep anyone matching at least one term.
	got = r.Rank(viewer, []*User{smoker, climber, reader}, BrowseFilters{Interests: []string{"climbing", "books"}}, nil, SortRecommended, false)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.NotEqual(t, int64(2), c.User.ID)
	}
}

func TestRankSortKeys(t *testing.T) {
	today := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	r := fixedRanker(today)

	viewer := browseUser(1, 30, today)
	viewer.Latitude, viewer.Longitude = ptrF(48.0), ptrF(2.0)
	viewer.Tags = []string{"hiking", "art"}

	near := browseUser(2, 22, today)
	near.Latitude, near.Longitude = ptrF(48.05), ptrF(2.0)
	near.FameRating = ptrF(20)
	near.Tags = []string{"hiking", "art"}

	far := browseUser(3, 35, today)
	far.Latitude, far.Longitude = ptrF(49.0), ptrF(2.0)
	far.FameRating = ptrF(90)

	nowhere := browseUser(4, 28, today)
	nowhere.FameRating = ptrF(60)
	nowhere.Tags = []string{"art"}

	candidates := []*User{far, nowhere, near}

	ids := func(cs []*ScoredCandidate) []int64 {
		out := make([]int64, len(cs))
		for i, c := range cs {
			out[i] = c.User.ID
		}
		return out
	}

	tests := []struct {
		key  SortKey
		want []int64
	}{
		{SortAgeAsc, []int64{2, 4, 3}},
		{SortAgeDesc, []int64{3, 4, 2}},
		{SortFameAsc, []int64{2, 4, 3}},
		{SortFameDesc, []int64{3, 4, 2}},
		{SortTagsDesc, []int64{2, 4, 3}},
		// Unknown distance sinks to the bottom in both directions.
		{SortDistanceAsc, []int64{2, 3, 4}},
		{SortDistanceDesc, []int64{3, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := r.Rank(viewer, candidates, BrowseFilters{}, nil, tt.key, false)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRankRecommendedOrdersByScore(t *testing.T) {
	today := time.Now()
	r := fixedRanker(today)

	viewer := browseUser(1, 30, today)
	viewer.Tags = []string{"hiking"}

	strong := browseUser(2, 30, today)
	strong.Tags = []string{"hiking"}
	strong.FameRating = ptrF(90)

	weak := browseUser(3, 30, today)
	weak.LastOnline = today.Add(-48 * time.Hour)

	got := r.Rank(viewer, []*User{weak, strong}, BrowseFilters{}, nil, SortRecommended, false)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].User.ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}
