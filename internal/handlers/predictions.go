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

// GetBinPrediction forecasts overflow for one bin from its recent reports
// GET /api/bins/{id}/prediction
func GetBinPrediction(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		binID := chi.URLParam(r, "id")

		bin, err := database.GetBin(db, binID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
			return
		} else if err != nil {
			log.Printf("❌ [GET-PREDICTION] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		reports, err := database.GetBinReports(db, binID, 48)
		if err != nil {
			log.Printf("❌ [GET-PREDICTION] Failed to fetch reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().Unix()
		prediction := engine.PredictOverflow(*bin, reports, now)

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"bin_id":     bin.ID,
			"prediction": prediction,
			"timestamp":  now,
		})
	}
}

// TriggerPredictionSweep forecasts overflow for the whole fleet and persists
// the per-bin snapshots
// POST /api/monitor/predictions
func TriggerPredictionSweep(monitor *services.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := monitor.PredictAllBins()
		if err != nil {
			log.Printf("❌ [PREDICT-SWEEP] Sweep failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Prediction sweep failed")
			return
		}

		utils.RespondJSON(w, http.StatusOK, result)
	}
}
