package services

import (
	"log"
	"math"

	"binwatch-backend/internal/models"
)

// Depot constants - all collection rounds start here
const (
	DEPOT_LAT = 37.34692
	DEPOT_LNG = -121.92984
)

// Location represents a geographic point
type Location struct {
	Latitude  float64
	Longitude float64
}

// GetDepotLocation returns the default depot location
func GetDepotLocation() Location {
	return Location{
		Latitude:  DEPOT_LAT,
		Longitude: DEPOT_LNG,
	}
}

// RouteStop is one bin visit in a planned collection round
type RouteStop struct {
	BinID        string  `json:"bin_id"`
	LocationName string  `json:"location_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RiskScore    int     `json:"risk_score"`
	DistanceKm   float64 `json:"distance_km"` // from the previous stop
}

// PlannedRoute is a full collection round
type PlannedRoute struct {
	Stops           []RouteStop `json:"stops"`
	TotalDistanceKm float64     `json:"total_distance_km"`
	Skipped         int         `json:"skipped"` // bins without coordinates
}

// PlanCollectionRoute orders bins into a visit sequence using nearest
// neighbor from the depot. Bins without coordinates cannot be routed and
// are skipped.
func PlanCollectionRoute(bins []models.Bin, start Location) PlannedRoute {
	remaining := make([]models.Bin, 0, len(bins))
	skipped := 0
	for _, bin := range bins {
		if bin.Latitude == nil || bin.Longitude == nil {
			skipped++
			continue
		}
		remaining = append(remaining, bin)
	}

	if len(remaining) == 0 {
		return PlannedRoute{Skipped: skipped}
	}

	log.Printf("🎯 Planning collection route from (%.6f, %.6f) over %d bins",
		start.Latitude, start.Longitude, len(remaining))

	stops := make([]RouteStop, 0, len(remaining))
	current := start
	totalDistance := 0.0

	// Nearest neighbor - always visit the closest remaining bin next
	for len(remaining) > 0 {
		bestIdx := 0
		bestDistance := math.MaxFloat64

		for i, bin := range remaining {
			distance := haversineDistance(
				current.Latitude,
				current.Longitude,
				*bin.Latitude,
				*bin.Longitude,
			)
			if distance < bestDistance {
				bestDistance = distance
				bestIdx = i
			}
		}

		best := remaining[bestIdx]
		stops = append(stops, RouteStop{
			BinID:        best.ID,
			LocationName: best.LocationName,
			Latitude:     *best.Latitude,
			Longitude:    *best.Longitude,
			RiskScore:    best.RiskScore,
			DistanceKm:   bestDistance,
		})
		totalDistance += bestDistance

		current = Location{Latitude: *best.Latitude, Longitude: *best.Longitude}
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	log.Printf("✅ Route planned: %d stops, %.2f km total", len(stops), totalDistance)

	return PlannedRoute{
		Stops:           stops,
		TotalDistanceKm: totalDistance,
		Skipped:         skipped,
	}
}

// haversineDistance calculates the distance between two GPS coordinates in kilometers
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0 // Earth's radius in kilometers

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
