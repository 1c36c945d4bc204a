package geo

import "math"

const earthRadiusKm = 6371.0088

// DistanceKm returns the great-circle distance between two points in
// kilometers, computed with the haversine formula.
func DistanceKm(a, b Point) float64 {
	lat1 := radians(a.Latitude())
	lat2 := radians(b.Latitude())
	dLat := radians(b.Latitude() - a.Latitude())
	dLong := radians(b.Longitude() - a.Longitude())

	sinLat := math.Sin(dLat / 2)
	sinLong := math.Sin(dLong / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLong*sinLong

	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
