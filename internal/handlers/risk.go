package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"sort"
	"time"

	"binwatch-backend/internal/database"
	"binwatch-backend/internal/engine"
	"binwatch-backend/internal/services"
	"binwatch-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// GetBinRisk returns a bin's live risk score, with a factor-by-factor
// explanation when ?explain=true
// GET /api/bins/{id}/risk
func GetBinRisk(db *sqlx.DB, weather *services.WeatherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		binID := chi.URLParam(r, "id")

		bin, err := database.GetBin(db, binID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
			return
		} else if err != nil {
			log.Printf("❌ [GET-RISK] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		reports, err := database.GetBinReports(db, binID, 48)
		if err != nil {
			log.Printf("❌ [GET-RISK] Failed to fetch reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().Unix()
		current := weather.Current()
		sla := engine.EvaluateSLA(*bin, engine.LatestReport(reports), now)
		opts := engine.ScoreOptions{Weather: &current, SLA: &sla}

		if r.URL.Query().Get("explain") == "true" {
			explanation := engine.ExplainRiskScore(*bin, reports, opts, now)
			utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
				"bin_id":       bin.ID,
				"risk_score":   explanation.Score,
				"risk_level":   engine.RiskLevel(explanation.Score),
				"explanations": explanation.Explanations,
				"breakdown":    explanation.Breakdown,
				"location":     explanation.Location,
			})
			return
		}

		score := engine.CalculateRiskScore(*bin, reports, opts, now)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"bin_id":     bin.ID,
			"risk_score": score,
			"risk_level": engine.RiskLevel(score),
		})
	}
}

// GetFleetRisk scores every bin in one pass, ranked highest risk first
// GET /api/risk
func GetFleetRisk(db *sqlx.DB, weather *services.WeatherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, err := database.GetAllBins(db)
		if err != nil {
			log.Printf("❌ [FLEET-RISK] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		reports, err := database.GetRecentReports(db, 48)
		if err != nil {
			log.Printf("❌ [FLEET-RISK] Failed to fetch reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		byBin := engine.GroupReportsByBin(reports)

		now := time.Now().Unix()
		current := weather.Current()

		type binRisk struct {
			BinID        string `json:"bin_id"`
			LocationName string `json:"location_name"`
			Zone         string `json:"zone"`
			RiskScore    int    `json:"risk_score"`
			RiskLevel    string `json:"risk_level"`
			SLAStatus    string `json:"sla_status"`
			CrowdLabel   string `json:"crowd_label"`
		}

		hour := time.Unix(now, 0).Hour()
		results := make([]binRisk, 0, len(bins))
		for _, bin := range bins {
			binReports := byBin[bin.ID]
			sla := engine.EvaluateSLA(bin, engine.LatestReport(binReports), now)
			score := engine.CalculateRiskScore(bin, binReports, engine.ScoreOptions{Weather: &current, SLA: &sla}, now)
			results = append(results, binRisk{
				BinID:        bin.ID,
				LocationName: bin.LocationName,
				Zone:         bin.Zone,
				RiskScore:    score,
				RiskLevel:    engine.RiskLevel(score),
				SLAStatus:    sla.Status,
				CrowdLabel:   engine.CrowdIntensityLabel(bin.LocationName, hour),
			})
		}

		// Highest risk first, stable so equal scores keep bin order
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].RiskScore > results[j].RiskScore
		})

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"bins":      results,
			"weather":   current,
			"timestamp": now,
		})
	}
}
