package matching

import (
	"time"
)

// Gender is the normalized gender of a profile. Free-form values coming
// from the API or the database are mapped onto this closed set by
// NormalizeGender before any rule logic sees them.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non-binary"
	GenderOther     Gender = "other"
)

// Preference is the normalized sexual preference of a profile.
type Preference string

const (
	PrefMale   Preference = "male"
	PrefFemale Preference = "female"
	PrefBoth   Preference = "both"
)

// User is the profile view the engine works with. It is loaded once per
// request from the store; latitude/longitude and fame rating are optional
// and substituted with documented defaults when scoring.
type User struct {
	ID               int64      `json:"id" db:"id"`
	Username         string     `json:"username" db:"username"`
	Gender           Gender     `json:"gender" db:"gender"`
	SexualPreference Preference `json:"sexual_preference" db:"sexual_preference"`
	BirthDate        time.Time  `json:"birth_date" db:"birth_date"`
	Latitude         *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64   `json:"longitude,omitempty" db:"longitude"`
	FameRating       *float64   `json:"fame_rating,omitempty" db:"fame_rating"`
	Tags             []string   `json:"tags" db:"-"`
	LastOnline       time.Time  `json:"last_online" db:"last_online"`
}

// HasLocation reports whether both coordinates are known.
func (u *User) HasLocation() bool {
	return u != nil && u.Latitude != nil && u.Longitude != nil
}

// ConnectionStatus is the computed like/match view of a viewer/target
// pair. It is never persisted; every read derives it from the two like
// edges.
type ConnectionStatus struct {
	TargetID  int64 `json:"target_id"`
	Matched   bool  `json:"matched"`
	Liked     bool  `json:"liked"`
	LikedBack bool  `json:"liked_back"`
}

// SortKey selects the ordering of a browse result.
type SortKey string

const (
	SortRecommended  SortKey = "recommended"
	SortAgeAsc       SortKey = "age-asc"
	SortAgeDesc      SortKey = "age-desc"
	SortDistanceAsc  SortKey = "distance-asc"
	SortDistanceDesc SortKey = "distance-desc"
	SortFameAsc      SortKey = "fame-asc"
	SortFameDesc     SortKey = "fame-desc"
	SortTagsDesc     SortKey = "tags-desc"
)

// ParseSortKey maps a raw query value onto a supported ordering. The
// empty value is accepted and treated as SortRecommended.
func ParseSortKey(raw string) (SortKey, bool) {
	switch key := SortKey(raw); key {
	case "":
		return SortRecommended, true
	case SortRecommended, SortAgeAsc, SortAgeDesc,
		SortDistanceAsc, SortDistanceDesc,
		SortFameAsc, SortFameDesc, SortTagsDesc:
		return key, true
	}
	return "", false
}

// BrowseFilters are the hard filters applied before ranking. Nil bounds
// are "not specified". Distances are kilometers.
type BrowseFilters struct {
	AgeMin        *int
	AgeMax        *int
	FameMin       *float64
	FameMax       *float64
	DistanceMaxKm *float64
	ExcludeTags   []string
	Interests     []string
}

// Validate rejects malformed bounds (min above max, negative distance).
func (f *BrowseFilters) Validate() error {
	if f == nil {
		return nil
	}
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return &ValidationError{Field: "age", Reason: "min is greater than max"}
	}
	if f.FameMin != nil && f.FameMax != nil && *f.FameMin > *f.FameMax {
		return &ValidationError{Field: "fame", Reason: "min is greater than max"}
	}
	if f.DistanceMaxKm != nil && *f.DistanceMaxKm < 0 {
		return &ValidationError{Field: "distance_max", Reason: "must not be negative"}
	}
	return nil
}

// ScoredCandidate is one ranked browse entry. DistanceKm is nil when
// either party has no known location.
type ScoredCandidate struct {
	User       *User    `json:"user"`
	Score      float64  `json:"score"`
	Age        int      `json:"age"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	CommonTags int      `json:"common_tags"`
}
