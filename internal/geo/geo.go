// Package geo holds the spherical-earth helpers used for candidate search.
package geo

import "math"

// EarthRadiusKm is the mean earth radius.
const EarthRadiusKm = 6371.0

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Haversine returns the great-circle distance in km between two points
// given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	a = math.Min(1, math.Max(0, a))
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// LatitudeSpan converts a north-south distance in km to degrees of latitude.
func LatitudeSpan(km float64) float64 {
	return toDeg(km / EarthRadiusKm)
}

// LongitudeSpan converts an east-west distance in km to degrees of longitude
// at the given latitude. Near the poles, where any longitude is within reach,
// it saturates at 180.
func LongitudeSpan(km, atLatitude float64) float64 {
	c := math.Cos(toRad(atLatitude))
	if c <= 0 {
		return 180
	}
	ratio := math.Sin(km/(2*EarthRadiusKm)) / c
	if ratio >= 1 {
		return 180
	}
	return 2 * toDeg(math.Asin(ratio))
}

// BoundingBox is an axis-aligned lat/lon rectangle in degrees.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// BoxAround returns the box of half-width km around a point.
func BoxAround(lat, lon, km float64) BoundingBox {
	dLat := LatitudeSpan(km)
	dLon := LongitudeSpan(km, math.Min(90, math.Abs(lat)+dLat))
	return BoundingBox{MinLat: lat - dLat, MaxLat: lat + dLat, MinLon: lon - dLon, MaxLon: lon + dLon}
}

// Extend grows the box to include a point.
func (b BoundingBox) Extend(lat, lon float64) BoundingBox {
	b.MinLat = math.Min(b.MinLat, lat)
	b.MaxLat = math.Max(b.MaxLat, lat)
	b.MinLon = math.Min(b.MinLon, lon)
	b.MaxLon = math.Max(b.MaxLon, lon)
	return b
}

// Expand pads the box by dLat and dLon degrees on every side.
func (b BoundingBox) Expand(dLat, dLon float64) BoundingBox {
	return BoundingBox{
		MinLat: b.MinLat - dLat,
		MaxLat: b.MaxLat + dLat,
		MinLon: b.MinLon - dLon,
		MaxLon: b.MaxLon + dLon,
	}
}

func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

func (b BoundingBox) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// ExtremeLatitude is the largest absolute latitude inside the box, where
// longitude degrees are shortest.
func (b BoundingBox) ExtremeLatitude() float64 {
	return math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))
}

// ZoomLevel picks a web-map zoom that fits the box, clamped to [0, 18].
func ZoomLevel(b BoundingBox) int {
	zoom := func(span float64) float64 {
		if span <= 0 {
			return 18
		}
		return math.Floor(math.Log2(720 / span))
	}
	z := math.Min(zoom(b.MaxLat-b.MinLat), zoom(b.MaxLon-b.MinLon))
	return int(math.Max(0, math.Min(18, z)))
}
