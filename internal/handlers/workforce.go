package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"binwatch-backend/internal/database"
	"binwatch-backend/internal/engine"
	"binwatch-backend/internal/services"
	"binwatch-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// GetWorkforceAllocation distributes the available workers across zones by
// workload
// GET /api/workforce/allocation?workers=N
func GetWorkforceAllocation(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workers, err := strconv.Atoi(r.URL.Query().Get("workers"))
		if err != nil || workers <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "workers must be a positive integer")
			return
		}

		bins, err := database.GetAllBins(db)
		if err != nil {
			log.Printf("❌ [WORKFORCE] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		reports, err := database.GetRecentReports(db, 48)
		if err != nil {
			log.Printf("❌ [WORKFORCE] Failed to fetch reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().Unix()
		assignment := engine.AssignWorkersToZones(bins, reports, workers, now)

		log.Printf("✅ [WORKFORCE] Assigned %d of %d worker(s) across %d zone(s)",
			assignment.Summary.Assigned, workers, len(assignment.Assignments))
		utils.RespondJSON(w, http.StatusOK, assignment)
	}
}

// GetOptimalWorkerCount reports how many workers the current fleet workload
// needs
// GET /api/workforce/optimal
func GetOptimalWorkerCount(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, err := database.GetAllBins(db)
		if err != nil {
			log.Printf("❌ [WORKFORCE-OPTIMAL] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		reports, err := database.GetRecentReports(db, 48)
		if err != nil {
			log.Printf("❌ [WORKFORCE-OPTIMAL] Failed to fetch reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().Unix()
		optimal := engine.OptimalWorkerCount(bins, reports, now)

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"optimal_workers": optimal,
			"total_bins":      len(bins),
			"timestamp":       now,
		})
	}
}

// GetZoneRoute previews a collection route through one zone's bins, nearest
// neighbour from the depot
// GET /api/workforce/zones/{zone}/route
func GetZoneRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zone := chi.URLParam(r, "zone")

		bins, err := database.GetBinsInZone(db, zone)
		if err != nil {
			log.Printf("❌ [ZONE-ROUTE] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		if len(bins) == 0 {
			utils.RespondError(w, http.StatusNotFound, "No bins in zone")
			return
		}

		route := services.PlanCollectionRoute(bins, services.GetDepotLocation())

		log.Printf("✅ [ZONE-ROUTE] Planned %d stop(s) in zone %s (%.1f km)",
			len(route.Stops), zone, route.TotalDistanceKm)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"zone":  zone,
			"route": route,
		})
	}
}
