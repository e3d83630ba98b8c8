package routing

import (
	"context"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/geo"
	"testing"
)

func TestStraightLinePathResolution(t *testing.T) {
	p := NewStraightLineProvider()
	a := domain.Coordinates{Lat: 0, Lon: 0}
	b := domain.Coordinates{Lat: 0, Lon: 1}

	pts, err := p.Path(context.Background(), []domain.Coordinates{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 111.19 km at 5 km resolution: 1 + ceil(22.24) = 24 samples plus the end point.
	if len(pts) != 25 {
		t.Fatalf("len(path) = %d, want 25", len(pts))
	}
	if pts[0] != a || pts[len(pts)-1] != b {
		t.Fatalf("path endpoints = %v, %v", pts[0], pts[len(pts)-1])
	}
	for i := 1; i < len(pts); i++ {
		gap := geo.Haversine(pts[i-1].Lat, pts[i-1].Lon, pts[i].Lat, pts[i].Lon)
		if gap > 5 {
			t.Fatalf("gap %d = %f km, want <= 5", i, gap)
		}
	}
}

func TestStraightLinePathThroughWaypoints(t *testing.T) {
	p := NewStraightLineProvider()
	wps := []domain.Coordinates{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.1}, {Lat: 0.1, Lon: 0.1}}

	pts, err := p.Path(context.Background(), wps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, pt := range pts {
		if pt == wps[1] {
			found = true
		}
	}
	if !found {
		t.Fatal("path should pass through the middle waypoint")
	}

	single, _ := p.Path(context.Background(), wps[:1])
	if len(single) != 1 {
		t.Fatalf("single waypoint path has %d points", len(single))
	}
}

func TestStraightLineDistances(t *testing.T) {
	p := NewStraightLineProvider()
	coords := []domain.Coordinates{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}

	m, err := p.Distances(context.Background(), coords)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range m {
		if m[i][i] != 0 {
			t.Fatalf("m[%d][%d] = %f, want 0", i, i, m[i][i])
		}
		for j := range m {
			if m[i][j] != m[j][i] {
				t.Fatalf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}
	if m[0][1] < 111.19 || m[0][1] > 111.20 {
		t.Fatalf("m[0][1] = %f, want ~111.195", m[0][1])
	}
}

func TestStraightLineHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStraightLineProvider().Distances(ctx, nil); err == nil {
		t.Fatal("expected context error")
	}
}
