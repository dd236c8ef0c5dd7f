package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"binwatch-backend/internal/database"
	"binwatch-backend/internal/models"
	"binwatch-backend/internal/services"
	"binwatch-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// credibilityScore rates a new report by its agreement with the recent
// majority for the same bin. First report on a bin starts at 0.7; agreeing
// with the majority earns up to 0.9, disagreeing drops as low as 0.3. The
// score is fixed at submission time and never recomputed.
func credibilityScore(recent []models.Report, status string) float64 {
	if len(recent) == 0 {
		return 0.7
	}

	counts := make(map[string]int)
	order := make([]string, 0, 3)
	for _, r := range recent {
		if _, seen := counts[r.Status]; !seen {
			order = append(order, r.Status)
		}
		counts[r.Status]++
	}

	mostCommon := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[mostCommon] {
			mostCommon = s
		}
	}

	n := float64(len(recent))
	if status == mostCommon {
		score := 0.5 + n*0.05
		if score > 0.9 {
			score = 0.9
		}
		return score
	}

	score := 0.7 - n*0.05
	if score < 0.3 {
		score = 0.3
	}
	return score
}

// CreateReport ingests a citizen fill-level report
// POST /api/reports
func CreateReport(db *sqlx.DB, monitor *services.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.BinID == "" {
			utils.RespondError(w, http.StatusBadRequest, "bin_id is required")
			return
		}
		if !models.IsValidReportStatus(req.Status) {
			utils.RespondError(w, http.StatusBadRequest, "status must be 'empty', 'half' or 'full'")
			return
		}

		if _, err := database.GetBin(db, req.BinID); err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
			return
		} else if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		recent, err := database.GetLatestBinReports(db, req.BinID, 10)
		if err != nil {
			log.Printf("⚠️  [CREATE-REPORT] Failed to load recent reports: %v", err)
		}

		now := time.Now().Unix()
		report := models.Report{
			ID:               uuid.New().String(),
			BinID:            req.BinID,
			Status:           req.Status,
			CredibilityScore: credibilityScore(recent, req.Status),
			Description:      req.Description,
			CreatedAt:        &now,
		}

		if err := database.InsertReport(db, report); err != nil {
			log.Printf("❌ [CREATE-REPORT] Insert failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create report")
			return
		}

		// New evidence changes the bin's risk
		if _, err := monitor.RecalculateBinRisk(req.BinID); err != nil {
			log.Printf("⚠️  [CREATE-REPORT] Risk recalculation failed: %v", err)
		}

		log.Printf("✅ [CREATE-REPORT] Report %s for bin %s (%s, credibility %.2f)",
			report.ID, report.BinID, report.Status, report.CredibilityScore)
		utils.RespondJSON(w, http.StatusCreated, report.ToReportResponse())
	}
}

// GetBinReports returns one bin's reports from the last 48 hours
// GET /api/bins/{id}/reports
func GetBinReports(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		binID := chi.URLParam(r, "id")

		reports, err := database.GetBinReports(db, binID, 48)
		if err != nil {
			log.Printf("❌ [GET-REPORTS] Database query failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch reports")
			return
		}

		responses := make([]models.ReportResponse, len(reports))
		for i, report := range reports {
			responses[i] = report.ToReportResponse()
		}

		utils.RespondJSON(w, http.StatusOK, responses)
	}
}
