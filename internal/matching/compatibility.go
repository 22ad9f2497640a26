package matching

import "strings"

// NormalizeGender maps a free-form gender value onto the closed Gender
// set. Unrecognized values become GenderOther so they still take part in
// "both"-preference matching.
func NormalizeGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "man", "men", "m":
		return GenderMale
	case "female", "woman", "women", "f":
		return GenderFemale
	case "non-binary", "nonbinary", "nb":
		return GenderNonBinary
	default:
		return GenderOther
	}
}

// NormalizePreference maps a free-form sexual-preference value onto the
// closed Preference set. Empty and unrecognized values are treated as
// "both".
func NormalizePreference(raw string) Preference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "man", "men", "m":
		return PrefMale
	case "female", "woman", "women", "f":
		return PrefFemale
	default:
		// "both", "bisexual", "bi", "" and anything unrecognized.
		return PrefBoth
	}
}

// interestedIn reports whether a user with the given preference is
// interested in profiles of the given gender.
func interestedIn(pref Preference, gender Gender) bool {
	switch pref {
	case PrefMale:
		return gender == GenderMale
	case PrefFemale:
		return gender == GenderFemale
	default:
		// PrefBoth covers male, female, non-binary and other.
		return true
	}
}

// IsCompatible reports mutual gender/preference eligibility between two
// users. Symmetric by construction: each side's preference is checked
// against the other side's gender. Self-pairs must be excluded by the
// caller before invoking this predicate.
func IsCompatible(a, b *User) bool {
	if a == nil || b == nil {
		return false
	}
	return interestedIn(a.SexualPreference, b.Gender) &&
		interestedIn(b.SexualPreference, a.Gender)
}
