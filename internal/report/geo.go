package report

import "math"

const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad, lat2Rad := radians(lat1), radians(lat2)
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// float rounding can push a past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}

// WithDistance sets the drop-off to pickup distance, rounded to 2 decimals.
// The distance stays unset unless both points carry coordinates.
func WithDistance(row Row) Row {
	if !row.Located || !row.StoreLocated {
		row.DistanceKM = nil
		return row
	}
	km := math.Round(Haversine(row.Lat, row.Lon, row.StoreLat, row.StoreLon)*100) / 100
	row.DistanceKM = &km
	return row
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
