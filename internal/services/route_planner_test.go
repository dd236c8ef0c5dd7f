package services

import (
	"testing"

	"binwatch-backend/internal/models"
)

func coord(v float64) *float64 { return &v }

func TestPlanCollectionRouteNearestNeighbor(t *testing.T) {
	depot := GetDepotLocation()

	// Three bins roughly north of the depot at increasing distance
	bins := []models.Bin{
		{ID: "far", LocationName: "North End", Latitude: coord(depot.Latitude + 0.03), Longitude: coord(depot.Longitude)},
		{ID: "near", LocationName: "Depot Side", Latitude: coord(depot.Latitude + 0.01), Longitude: coord(depot.Longitude)},
		{ID: "mid", LocationName: "Midway", Latitude: coord(depot.Latitude + 0.02), Longitude: coord(depot.Longitude)},
	}

	route := PlanCollectionRoute(bins, depot)

	if len(route.Stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(route.Stops))
	}
	wantOrder := []string{"near", "mid", "far"}
	for i, want := range wantOrder {
		if route.Stops[i].BinID != want {
			t.Errorf("stop %d = %s, want %s", i, route.Stops[i].BinID, want)
		}
	}

	sum := 0.0
	for _, stop := range route.Stops {
		if stop.DistanceKm <= 0 {
			t.Errorf("stop %s has non-positive leg distance %v", stop.BinID, stop.DistanceKm)
		}
		sum += stop.DistanceKm
	}
	if diff := route.TotalDistanceKm - sum; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("total = %v, want sum of legs %v", route.TotalDistanceKm, sum)
	}
}

func TestPlanCollectionRouteSkipsUnmappedBins(t *testing.T) {
	depot := GetDepotLocation()

	bins := []models.Bin{
		{ID: "mapped", LocationName: "Main St", Latitude: coord(depot.Latitude + 0.01), Longitude: coord(depot.Longitude)},
		{ID: "no-coords", LocationName: "Unknown"},
		{ID: "half-coords", LocationName: "Partial", Latitude: coord(depot.Latitude)},
	}

	route := PlanCollectionRoute(bins, depot)
	if len(route.Stops) != 1 || route.Stops[0].BinID != "mapped" {
		t.Fatalf("stops = %+v, want only the mapped bin", route.Stops)
	}
	if route.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", route.Skipped)
	}
}

func TestPlanCollectionRouteEmpty(t *testing.T) {
	route := PlanCollectionRoute(nil, GetDepotLocation())
	if len(route.Stops) != 0 || route.TotalDistanceKm != 0 {
		t.Fatalf("empty fleet route = %+v", route)
	}
}

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude is about 111 km
	d := haversineDistance(37.0, -121.0, 38.0, -121.0)
	if d < 110 || d > 112 {
		t.Fatalf("distance = %v, want about 111 km", d)
	}

	if d := haversineDistance(37.0, -121.0, 37.0, -121.0); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}
