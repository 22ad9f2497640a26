package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in   string
		want Gender
	}{
		{"male", GenderMale},
		{"Man", GenderMale},
		{"MEN", GenderMale},
		{"m", GenderMale},
		{"female", GenderFemale},
		{"woman", GenderFemale},
		{"women", GenderFemale},
		{"f", GenderFemale},
		{"non-binary", GenderNonBinary},
		{"nonbinary", GenderNonBinary},
		{"nb", GenderNonBinary},
		{"", GenderOther},
		{"xyz", GenderOther},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeGender(tt.in))
		})
	}
}

func TestNormalizePreference(t *testing.T) {
	tests := []struct {
		in   string
		want Preference
	}{
		{"male", PrefMale},
		{"men", PrefMale},
		{"female", PrefFemale},
		{"women", PrefFemale},
		{"both", PrefBoth},
		{"bisexual", PrefBoth},
		{"bi", PrefBoth},
		{"", PrefBoth},
		{"whatever", PrefBoth},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePreference(tt.in))
		})
	}
}

func compatUser(gender Gender, pref Preference) *User {
	return &User{Gender: gender, SexualPreference: pref}
}

func TestIsCompatible(t *testing.T) {
	tests := []struct {
		name string
		a, b *User
		want bool
	}{
		{
			name: "straight man and straight woman",
			a:    compatUser(GenderMale, PrefFemale),
			b:    compatUser(GenderFemale, PrefMale),
			want: true,
		},
		{
			name: "one-sided interest",
			a:    compatUser(GenderMale, PrefFemale),
			b:    compatUser(GenderFemale, PrefFemale),
			want: false,
		},
		{
			name: "both bisexual",
			a:    compatUser(GenderMale, PrefBoth),
			b:    compatUser(GenderNonBinary, PrefBoth),
			want: true,
		},
		{
			name: "both interest covers non-binary",
			a:    compatUser(GenderNonBinary, PrefBoth),
			b:    compatUser(GenderFemale, PrefBoth),
			want: true,
		},
		{
			name: "specific preference excludes non-binary",
			a:    compatUser(GenderNonBinary, PrefBoth),
			b:    compatUser(GenderMale, PrefFemale),
			want: false,
		},
		{
			name: "two gay men",
			a:    compatUser(GenderMale, PrefMale),
			b:    compatUser(GenderMale, PrefMale),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompatible(tt.a, tt.b))
		})
	}
}

// Compatibility is a symmetric predicate; exhaust the whole input space
// to make sure no combination breaks that.
func TestIsCompatibleSymmetric(t *testing.T) {
	genders := []Gender{GenderMale, GenderFemale, GenderNonBinary, GenderOther}
	prefs := []Preference{PrefMale, PrefFemale, PrefBoth}

	for _, ga := range genders {
		for _, pa := range prefs {
			for _, gb := range genders {
				for _, pb := range prefs {
					a := compatUser(ga, pa)
					b := compatUser(gb, pb)
					name := fmt.Sprintf("%s/%s vs %s/%s", ga, pa, gb, pb)
					assert.Equal(t, IsCompatible(a, b), IsCompatible(b, a), name)
				}
			}
		}
	}
}

func TestIsCompatibleNilUsers(t *testing.T) {
	assert.False(t, IsCompatible(nil, compatUser(GenderMale, PrefBoth)))
	assert.False(t, IsCompatible(compatUser(GenderMale, PrefBoth), nil))
	assert.False(t, IsCompatible(nil, nil))
}
