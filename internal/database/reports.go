package database

import (
	"fmt"
	"time"

	"binwatch-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetRecentReports retrieves all reports created within the last limitHours,
// newest first. Reports without a timestamp never enter a time window.
func GetRecentReports(db *sqlx.DB, limitHours int) ([]models.Report, error) {
	cutoff := time.Now().Add(-time.Duration(limitHours) * time.Hour).Unix()

	var reports []models.Report
	err := db.Select(&reports, `
		SELECT * FROM reports
		WHERE created_at IS NOT NULL AND created_at >= $1
		ORDER BY created_at DESC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent reports: %w", err)
	}
	return reports, nil
}

// GetBinReports retrieves one bin's reports within the last limitHours,
// newest first
func GetBinReports(db *sqlx.DB, binID string, limitHours int) ([]models.Report, error) {
	cutoff := time.Now().Add(-time.Duration(limitHours) * time.Hour).Unix()

	var reports []models.Report
	err := db.Select(&reports, `
		SELECT * FROM reports
		WHERE bin_id = $1 AND created_at IS NOT NULL AND created_at >= $2
		ORDER BY created_at DESC
	`, binID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get reports for bin %s: %w", binID, err)
	}
	return reports, nil
}

// GetLatestBinReports retrieves the newest reports for a bin regardless of
// age, capped at limit. Used for credibility scoring on submission.
func GetLatestBinReports(db *sqlx.DB, binID string, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := db.Select(&reports, `
		SELECT * FROM reports
		WHERE bin_id = $1 AND created_at IS NOT NULL
		ORDER BY created_at DESC
		LIMIT $2
	`, binID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reports for bin %s: %w", binID, err)
	}
	return reports, nil
}

// InsertReport persists a new report. Reports are immutable afterwards.
func InsertReport(db *sqlx.DB, report models.Report) error {
	_, err := db.Exec(`
		INSERT INTO reports (id, bin_id, status, credibility_score, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, report.ID, report.BinID, report.Status, report.CredibilityScore, report.Description, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}
