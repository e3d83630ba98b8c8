package geo

import (
	"math"
	"testing"
)

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestHaversineKnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want, tol              float64
	}{
		{"same point", 40.4, -3.7, 40.4, -3.7, 0, 1e-9},
		{"one degree of longitude on the equator", 0, 0, 0, 1, 111.195, 0.01},
		{"one degree of latitude", 10, 20, 11, 20, 111.195, 0.01},
		{"paris to london", 48.8566, 2.3522, 51.5074, -0.1278, 343.5, 1.0},
		{"antipodes", 0, 0, 0, 180, math.Pi * EarthRadiusKm, 1e-6},
	}
	for _, tt := range tests {
		got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
		if !approx(got, tt.want, tt.tol) {
			t.Fatalf("%s: Haversine = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestHaversineIsSymmetric(t *testing.T) {
	a := Haversine(41.38, 2.17, 39.47, -0.38)
	b := Haversine(39.47, -0.38, 41.38, 2.17)
	if a != b {
		t.Fatalf("Haversine not symmetric: %f vs %f", a, b)
	}
}

func TestLatitudeSpanRoundTrip(t *testing.T) {
	for _, km := range []float64{0.5, 5, 50, 500} {
		d := Haversine(0, 0, LatitudeSpan(km), 0)
		if !approx(d, km, 1e-6) {
			t.Fatalf("LatitudeSpan(%g) covers %f km", km, d)
		}
	}
}

func TestLongitudeSpanRoundTrip(t *testing.T) {
	for _, lat := range []float64{0, 30, 45, 60, -70} {
		for _, km := range []float64{1, 10, 100} {
			d := Haversine(lat, 0, lat, LongitudeSpan(km, lat))
			if !approx(d, km, 1e-6) {
				t.Fatalf("LongitudeSpan(%g, %g) covers %f km", km, lat, d)
			}
		}
	}
}

func TestLongitudeSpanGrowsWithLatitude(t *testing.T) {
	if LongitudeSpan(10, 60) <= LongitudeSpan(10, 0) {
		t.Fatal("longitude span should widen away from the equator")
	}
}

func TestLongitudeSpanSaturatesAtPoles(t *testing.T) {
	if got := LongitudeSpan(10, 90); got != 180 {
		t.Fatalf("LongitudeSpan at pole = %f, want 180", got)
	}
	if got := LongitudeSpan(10, 89.99999); got != 180 {
		t.Fatalf("LongitudeSpan near pole = %f, want 180", got)
	}
}

func TestBoundingBox(t *testing.T) {
	b := BoundingBox{MinLat: 1, MaxLat: 1, MinLon: 2, MaxLon: 2}
	b = b.Extend(-1, 5)
	if b.MinLat != -1 || b.MaxLat != 1 || b.MinLon != 2 || b.MaxLon != 5 {
		t.Fatalf("Extend = %+v", b)
	}
	if !b.Contains(0, 3) || b.Contains(2, 3) {
		t.Fatal("Contains gave wrong answer")
	}
	e := b.Expand(0.5, 1)
	if e.MinLat != -1.5 || e.MaxLon != 6 {
		t.Fatalf("Expand = %+v", e)
	}
	lat, lon := b.Center()
	if lat != 0 || lon != 3.5 {
		t.Fatalf("Center = (%f, %f)", lat, lon)
	}
	if got := b.ExtremeLatitude(); got != 1 {
		t.Fatalf("ExtremeLatitude = %f, want 1", got)
	}
}

func TestBoxAroundContainsRadius(t *testing.T) {
	b := BoxAround(40, -3, 10)
	if !b.Contains(40+LatitudeSpan(9.9), -3) {
		t.Fatal("box should contain a point 9.9 km north")
	}
	if b.Contains(40+LatitudeSpan(10.1), -3) {
		t.Fatal("box should not contain a point 10.1 km north")
	}
}

func TestZoomLevel(t *testing.T) {
	if got := ZoomLevel(BoundingBox{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}); got != 1 {
		t.Fatalf("world zoom = %d, want 1", got)
	}
	if got := ZoomLevel(BoundingBox{MinLat: 1, MaxLat: 1, MinLon: 1, MaxLon: 1}); got != 18 {
		t.Fatalf("point zoom = %d, want 18", got)
	}
	if got := ZoomLevel(BoundingBox{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 3}); got != 7 {
		t.Fatalf("zoom = %d, want 7", got)
	}
}
