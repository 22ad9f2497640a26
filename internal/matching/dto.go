package matching

import (
	"net/url"
	"strconv"
	"strings"
)

// BrowseQueryDTO carries the browse query parameters before they are
// turned into engine filters.
type BrowseQueryDTO struct {
	AgeMin        *int     `validate:"omitempty,gte=18,lte=150"`
	AgeMax        *int     `validate:"omitempty,gte=18,lte=150"`
	FameMin       *float64 `validate:"omitempty,gte=0,lte=100"`
	FameMax       *float64 `validate:"omitempty,gte=0,lte=100"`
	DistanceMaxKm *float64 `validate:"omitempty,gt=0"`
	ExcludeTags   []string
	Interests     []string
	SortBy        string `validate:"omitempty,oneof=recommended age-asc age-desc distance-asc distance-desc fame-asc fame-desc tags-desc"`
}

// ParseBrowseQuery reads the DTO out of URL query values. Malformed
// numbers are reported per field instead of silently ignored.
func ParseBrowseQuery(values url.Values) (*BrowseQueryDTO, error) {
	dto := &BrowseQueryDTO{
		SortBy: values.Get("sort_by"),
	}

	var err error
	if dto.AgeMin, err = intParam(values, "age_min"); err != nil {
		return nil, err
	}
	if dto.AgeMax, err = intParam(values, "age_max"); err != nil {
		return nil, err
	}
	if dto.FameMin, err = floatParam(values, "fame_min"); err != nil {
		return nil, err
	}
	if dto.FameMax, err = floatParam(values, "fame_max"); err != nil {
		return nil, err
	}
	if dto.DistanceMaxKm, err = floatParam(values, "distance_max_km"); err != nil {
		return nil, err
	}

	dto.ExcludeTags = listParam(values, "exclude_tags")
	dto.Interests = listParam(values, "interests")
	return dto, nil
}

// Filters converts the DTO to engine filters.
func (d *BrowseQueryDTO) Filters() BrowseFilters {
	return BrowseFilters{
		AgeMin:        d.AgeMin,
		AgeMax:        d.AgeMax,
		FameMin:       d.FameMin,
		FameMax:       d.FameMax,
		DistanceMaxKm: d.DistanceMaxKm,
		ExcludeTags:   d.ExcludeTags,
		Interests:     d.Interests,
	}
}

func intParam(values url.Values, name string) (*int, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ValidationError{Field: name, Reason: "must be an integer"}
	}
	return &n, nil
}

func floatParam(values url.Values, name string) (*float64, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &ValidationError{Field: name, Reason: "must be a number"}
	}
	return &f, nil
}

func listParam(values url.Values, name string) []string {
	raw := values.Get(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
