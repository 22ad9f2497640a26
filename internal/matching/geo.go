package matching

import "math"

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance in kilometers between two
// WGS84 points using the Haversine formula. Inputs are assumed to be
// valid decimal degrees; callers validate ranges at the boundary.
// Symmetric, and zero for identical points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// distanceBetween returns the distance in kilometers between two users,
// or nil when either party has no known location. Unknown distance is a
// distinct state, never zero.
func distanceBetween(a, b *User) *float64 {
	if !a.HasLocation() || !b.HasLocation() {
		return nil
	}
	if !validCoordinates(*a.Latitude, *a.Longitude) || !validCoordinates(*b.Latitude, *b.Longitude) {
		return nil
	}
	d := DistanceKm(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
	return &d
}

// validCoordinates reports whether the pair is inside WGS84 bounds.
func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
