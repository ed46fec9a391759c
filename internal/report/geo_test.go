package report

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	if d := Haversine(19.43, -99.13, 19.43, -99.13); d != 0 {
		t.Fatalf("expected zero distance for identical points, got %f", d)
	}
	oneDegree := earthRadiusKM * math.Pi / 180
	if d := Haversine(0, 0, 1, 0); math.Abs(d-oneDegree) > 1e-9 {
		t.Fatalf("expected %f got %f", oneDegree, d)
	}
	if a, b := Haversine(19.4, -99.1, 20.6, -103.3), Haversine(20.6, -103.3, 19.4, -99.1); math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance should be symmetric: %f vs %f", a, b)
	}
}

func TestHaversineAntipodalIsFinite(t *testing.T) {
	d := Haversine(19.4326, -99.1332, -19.4326, 80.8668)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		t.Fatalf("expected a finite distance, got %v", d)
	}
	if half := earthRadiusKM * math.Pi; math.Abs(d-half) > 1e-3 {
		t.Fatalf("expected half circumference %f got %f", half, d)
	}
}

func TestWithDistanceRoundsToTwoDecimals(t *testing.T) {
	row := Row{Lat: 0, Lon: 0, StoreLat: 1, StoreLon: 0, Located: true, StoreLocated: true}
	got := WithDistance(row)
	km, ok := got.Distance()
	if !ok || km != 111.19 {
		t.Fatalf("expected 111.19 got %v (%v)", km, ok)
	}
	if row.DistanceKM != nil {
		t.Fatalf("input row must not change")
	}
}

func TestWithDistanceNeedsBothPoints(t *testing.T) {
	for name, row := range map[string]Row{
		"no drop-off": {StoreLat: 19.43, StoreLon: -99.13, StoreLocated: true},
		"no pickup":   {Lat: 19.41, Lon: -99.16, Located: true},
	} {
		got := WithDistance(row)
		if _, ok := got.Distance(); ok {
			t.Fatalf("%s: expected no distance, got %v", name, *got.DistanceKM)
		}
	}

	stale := WithDistance(Row{Located: true, StoreLocated: true, Lat: 1})
	stale.StoreLocated = false
	if _, ok := WithDistance(stale).Distance(); ok {
		t.Fatalf("distance must be cleared once a point is unlocated")
	}
}
