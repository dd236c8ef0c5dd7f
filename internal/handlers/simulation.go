package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"binwatch-backend/internal/database"
	"binwatch-backend/internal/engine"
	"binwatch-backend/internal/services"
	"binwatch-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// SimulateSkipRequest names the bins whose collection would be skipped and
// how far ahead to project
type SimulateSkipRequest struct {
	BinIDs       []string `json:"bin_ids"`
	HoursForward int      `json:"hours_forward"`
}

// SimulateWorkforceRequest asks what happens with a reduced crew
type SimulateWorkforceRequest struct {
	AvailableWorkers int `json:"available_workers"`
}

// SimulateSkip projects fleet-wide risk if the named bins miss their next
// collection. Pure what-if: nothing is persisted.
// POST /api/simulate/skip
func SimulateSkip(db *sqlx.DB, weather *services.WeatherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SimulateSkipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if len(req.BinIDs) == 0 {
			utils.RespondError(w, http.StatusBadRequest, "bin_ids is required")
			return
		}
		if req.HoursForward <= 0 {
			req.HoursForward = 24
		}

		bins, err := database.GetAllBins(db)
		if err != nil {
			log.Printf("❌ [SIMULATE-SKIP] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		reports, err := database.GetRecentReports(db, 48)
		if err != nil {
			log.Printf("❌ [SIMULATE-SKIP] Failed to fetch reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().Unix()
		current := weather.Current()
		simulation := engine.SimulateCollectionSkip(bins, reports, req.BinIDs, &current, req.HoursForward, now)

		log.Printf("✅ [SIMULATE-SKIP] Skipped %d bin(s), %dh forward: total risk +%d",
			len(req.BinIDs), req.HoursForward, simulation.Summary.TotalRiskIncrease)
		utils.RespondJSON(w, http.StatusOK, simulation)
	}
}

// SimulateWorkforce projects risk if only the given number of workers runs
// the next shift. The top-risk bins get covered, the rest are skipped for a
// day.
// POST /api/simulate/workforce
func SimulateWorkforce(db *sqlx.DB, weather *services.WeatherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SimulateWorkforceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.AvailableWorkers <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "available_workers must be positive")
			return
		}

		bins, err := database.GetAllBins(db)
		if err != nil {
			log.Printf("❌ [SIMULATE-WORKFORCE] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		reports, err := database.GetRecentReports(db, 48)
		if err != nil {
			log.Printf("❌ [SIMULATE-WORKFORCE] Failed to fetch reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().Unix()
		current := weather.Current()
		simulation := engine.SimulateWorkforceReduction(bins, reports, req.AvailableWorkers, &current, now)

		log.Printf("✅ [SIMULATE-WORKFORCE] %d worker(s): %d bin(s) required, %.0f%% utilization",
			req.AvailableWorkers, simulation.Workforce.Required, simulation.Workforce.Utilization)
		utils.RespondJSON(w, http.StatusOK, simulation)
	}
}
