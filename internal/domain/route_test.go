package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNewRouteDepartureLevels(t *testing.T) {
	r := NewRoute(55, []int{7, 9}, []float64{40, 10}, []float64{10, 40})

	if len(r.Stops) != 2 {
		t.Fatalf("len(Stops) = %d, want 2", len(r.Stops))
	}
	if got := r.Stops[0].TankLevelOnDeparture; got != 50 {
		t.Fatalf("stop 0 departure = %f, want 50", got)
	}
	if got := r.Stops[1].TankLevelOnDeparture; got != 50 {
		t.Fatalf("stop 1 departure = %f, want 50", got)
	}
	ids := r.StationIDs()
	if ids[0] != 7 || ids[1] != 9 {
		t.Fatalf("StationIDs() = %v, want [7 9]", ids)
	}
}

func TestPathArclength(t *testing.T) {
	p, err := NewPath([]Coordinates{{0, 0}, {0, 1}, {0, 2}})
	if err != nil {
		t.Fatalf("NewPath: %v", err)
	}
	if p.Arclength[0] != 0 {
		t.Fatalf("Arclength[0] = %f, want 0", p.Arclength[0])
	}
	for i := 1; i < len(p.Arclength); i++ {
		if p.Arclength[i] < p.Arclength[i-1] {
			t.Fatalf("arclength decreases at %d", i)
		}
	}
	if l := p.Length(); l < 222.38 || l > 222.40 {
		t.Fatalf("Length() = %f, want ~222.39", l)
	}
	if idx := p.ClosestIndex(Coordinates{Lat: 0.01, Lon: 1.2}); idx != 1 {
		t.Fatalf("ClosestIndex = %d, want 1", idx)
	}

	if _, err := NewPath(nil); err == nil {
		t.Fatal("NewPath(nil) should fail")
	}
}

func TestCheapestStationFirstWins(t *testing.T) {
	s, ok := CheapestStation([]Station{{ID: 1, Price: 1.2}, {ID: 2, Price: 1.1}, {ID: 3, Price: 1.1}})
	if !ok || s.ID != 2 {
		t.Fatalf("CheapestStation = %d, %v; want 2, true", s.ID, ok)
	}
	if _, ok := CheapestStation(nil); ok {
		t.Fatal("CheapestStation(nil) should report false")
	}
}

func TestPlanErrorClassification(t *testing.T) {
	cause := errors.New("connection refused")

	err := StorageFailure("load stations", cause)
	if !errors.Is(err, ErrStorage) || !errors.Is(err, cause) {
		t.Fatalf("StorageFailure lost its kind or cause: %v", err)
	}
	if KindOf(err) != KindStorage {
		t.Fatalf("KindOf = %v, want storage", KindOf(err))
	}

	// already classified errors pass through
	wrapped := ProviderFailure("route", err)
	if KindOf(wrapped) != KindStorage {
		t.Fatalf("KindOf(wrapped) = %v, want storage", KindOf(wrapped))
	}

	ctxErr := ProviderFailure("route", fmt.Errorf("get path: %w", context.DeadlineExceeded))
	if !errors.Is(ctxErr, ErrCancelled) {
		t.Fatalf("deadline should classify as cancelled: %v", ctxErr)
	}

	if StorageFailure("noop", nil) != nil {
		t.Fatal("StorageFailure(nil) should be nil")
	}
	if KindOf(cause) != KindUnknown {
		t.Fatal("plain errors have no kind")
	}
}
