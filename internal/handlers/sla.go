package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"binwatch-backend/internal/database"
	"binwatch-backend/internal/engine"
	"binwatch-backend/internal/services"
	"binwatch-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// GetBinSLA evaluates a single bin's collection SLA
// GET /api/bins/{id}/sla
func GetBinSLA(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		binID := chi.URLParam(r, "id")

		bin, err := database.GetBin(db, binID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
			return
		} else if err != nil {
			log.Printf("❌ [GET-SLA] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		reports, err := database.GetBinReports(db, binID, 72)
		if err != nil {
			log.Printf("❌ [GET-SLA] Failed to fetch reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().Unix()
		sla := engine.EvaluateSLA(*bin, engine.LatestReport(reports), now)

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"bin_id": bin.ID,
			"sla":    sla,
		})
	}
}

// GetZoneBreaches aggregates breached-bin counts per zone
// GET /api/analytics/breaches
func GetZoneBreaches(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, err := database.GetAllBins(db)
		if err != nil {
			log.Printf("❌ [ZONE-BREACHES] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		reports, err := database.GetRecentReports(db, 72)
		if err != nil {
			log.Printf("❌ [ZONE-BREACHES] Failed to fetch reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().Unix()
		counts := engine.ZoneBreachCounts(bins, reports, now)

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"zones":     counts,
			"timestamp": now,
		})
	}
}

// TriggerSLASweep runs one SLA monitoring pass on demand. The same sweep
// runs on the background ticker; this endpoint exists for dashboards and
// debugging.
// POST /api/monitor/sla
func TriggerSLASweep(monitor *services.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := monitor.MonitorSLA()
		if err != nil {
			log.Printf("❌ [SLA-SWEEP] Sweep failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "SLA sweep failed")
			return
		}

		utils.RespondJSON(w, http.StatusOK, result)
	}
}
