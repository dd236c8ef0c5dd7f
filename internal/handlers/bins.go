package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"binwatch-backend/internal/database"
	"binwatch-backend/internal/models"
	"binwatch-backend/internal/services"
	"binwatch-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func GetBins(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zone := r.URL.Query().Get("zone")

		var bins []models.Bin
		var err error
		if zone != "" {
			bins, err = database.GetBinsInZone(db, zone)
		} else {
			bins, err = database.GetAllBins(db)
		}
		if err != nil {
			log.Printf("❌ [GET-BINS] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch bins")
			return
		}

		responses := make([]models.BinResponse, len(bins))
		for i, bin := range bins {
			responses[i] = bin.ToBinResponse()
		}

		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

func GetBin(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		bin, err := database.GetBin(db, id)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		utils.RespondJSON(w, http.StatusOK, bin.ToBinResponse())
	}
}

func CreateBin(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateBinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.LocationName = strings.TrimSpace(req.LocationName)
		if req.LocationName == "" {
			utils.RespondError(w, http.StatusBadRequest, "location_name is required")
			return
		}
		if req.Zone == "" {
			req.Zone = "default"
		}
		if req.SLADuration != nil && *req.SLADuration <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "sla_duration must be positive")
			return
		}

		id := uuid.New().String()
		_, err := db.Exec(`
			INSERT INTO bins (id, location_name, zone, latitude, longitude, sla_duration)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, req.LocationName, req.Zone, req.Latitude, req.Longitude, req.SLADuration)
		if err != nil {
			log.Printf("❌ [CREATE-BIN] Insert failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create bin")
			return
		}

		bin, err := database.GetBin(db, id)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load created bin")
			return
		}

		log.Printf("✅ [CREATE-BIN] Created bin %s at %s (%s zone)", id, bin.LocationName, bin.Zone)
		utils.RespondJSON(w, http.StatusCreated, bin.ToBinResponse())
	}
}

func UpdateBin(db *sqlx.DB, monitor *services.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req models.UpdateBinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		existing, err := database.GetBin(db, id)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		locationName := existing.LocationName
		if req.LocationName != nil && strings.TrimSpace(*req.LocationName) != "" {
			locationName = strings.TrimSpace(*req.LocationName)
		}
		zone := existing.Zone
		if req.Zone != nil && *req.Zone != "" {
			zone = *req.Zone
		}
		latitude := existing.Latitude
		if req.Latitude != nil {
			latitude = req.Latitude
		}
		longitude := existing.Longitude
		if req.Longitude != nil {
			longitude = req.Longitude
		}
		slaDuration := existing.SLADuration
		if req.SLADuration != nil {
			if *req.SLADuration <= 0 {
				utils.RespondError(w, http.StatusBadRequest, "sla_duration must be positive")
				return
			}
			slaDuration = req.SLADuration
		}

		_, err = db.Exec(`
			UPDATE bins
			SET location_name = $1, zone = $2, latitude = $3, longitude = $4,
			    sla_duration = $5, updated_at = $6
			WHERE id = $7
		`, locationName, zone, latitude, longitude, slaDuration, time.Now().Unix(), id)
		if err != nil {
			log.Printf("❌ [UPDATE-BIN] Update failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update bin")
			return
		}

		// Risk inputs may have changed (location weight, SLA duration)
		if _, err := monitor.RecalculateBinRisk(id); err != nil {
			log.Printf("⚠️  [UPDATE-BIN] Risk recalculation failed: %v", err)
		}

		bin, err := database.GetBin(db, id)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load updated bin")
			return
		}

		utils.RespondJSON(w, http.StatusOK, bin.ToBinResponse())
	}
}

func DeleteBin(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		result, err := db.Exec(`DELETE FROM bins WHERE id = $1`, id)
		if err != nil {
			log.Printf("❌ [DELETE-BIN] Delete failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete bin")
			return
		}

		rows, _ := result.RowsAffected()
		if rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
			return
		}

		log.Printf("✅ [DELETE-BIN] Deleted bin %s", id)
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Bin deleted"})
	}
}

// CollectBin marks a bin as collected now, resetting its service clock
// POST /api/bins/{id}/collect
func CollectBin(db *sqlx.DB, monitor *services.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		now := time.Now().Unix()
		if err := database.MarkBinCollected(db, id, now); err != nil {
			log.Printf("❌ [COLLECT-BIN] %v", err)
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
			return
		}

		riskScore, err := monitor.RecalculateBinRisk(id)
		if err != nil {
			log.Printf("⚠️  [COLLECT-BIN] Risk recalculation failed: %v", err)
		}

		log.Printf("✅ [COLLECT-BIN] Bin %s collected, risk now %d", id, riskScore)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"message":    "Bin collected",
			"risk_score": riskScore,
		})
	}
}
