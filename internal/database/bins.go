package database

import (
	"fmt"
	"time"

	"binwatch-backend/internal/engine"
	"binwatch-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetAllBins retrieves the full fleet ordered by zone then location name
func GetAllBins(db *sqlx.DB) ([]models.Bin, error) {
	var bins []models.Bin
	err := db.Select(&bins, `
		SELECT * FROM bins
		ORDER BY zone ASC, location_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get bins: %w", err)
	}
	return bins, nil
}

// GetBin retrieves a single bin by ID
func GetBin(db *sqlx.DB, binID string) (*models.Bin, error) {
	var bin models.Bin
	err := db.Get(&bin, `SELECT * FROM bins WHERE id = $1`, binID)
	if err != nil {
		return nil, err
	}
	return &bin, nil
}

// GetBinsInZone retrieves all bins of one zone
func GetBinsInZone(db *sqlx.DB, zone string) ([]models.Bin, error) {
	var bins []models.Bin
	err := db.Select(&bins, `
		SELECT * FROM bins
		WHERE zone = $1
		ORDER BY location_name ASC
	`, zone)
	if err != nil {
		return nil, fmt.Errorf("failed to get bins for zone %s: %w", zone, err)
	}
	return bins, nil
}

// UpdateBinRiskScore writes a freshly computed risk score back onto a bin
func UpdateBinRiskScore(db *sqlx.DB, binID string, riskScore int) error {
	_, err := db.Exec(`
		UPDATE bins
		SET risk_score = $1, updated_at = $2
		WHERE id = $3
	`, riskScore, time.Now().Unix(), binID)
	if err != nil {
		return fmt.Errorf("failed to update risk score for bin %s: %w", binID, err)
	}
	return nil
}

// UpdateBinSLASnapshot persists an SLA evaluation onto a bin. When the
// evaluation is a new breach the overflow count is incremented in the same
// statement.
func UpdateBinSLASnapshot(db *sqlx.DB, binID string, sla engine.SLAStatus, newBreach bool, now int64) error {
	query := `
		UPDATE bins
		SET sla_status = $1, sla_progress = $2, sla_checked_at = $3, updated_at = $3
		WHERE id = $4
	`
	if newBreach {
		query = `
			UPDATE bins
			SET sla_status = $1, sla_progress = $2, sla_checked_at = $3, updated_at = $3,
			    overflow_count = overflow_count + 1
			WHERE id = $4
		`
	}

	_, err := db.Exec(query, sla.Status, sla.ProgressPercent, now, binID)
	if err != nil {
		return fmt.Errorf("failed to update SLA snapshot for bin %s: %w", binID, err)
	}
	return nil
}

// UpdateBinPrediction persists an overflow prediction onto a bin
func UpdateBinPrediction(db *sqlx.DB, binID string, prediction engine.Prediction, now int64) error {
	_, err := db.Exec(`
		UPDATE bins
		SET will_overflow = $1, overflow_confidence = $2, hours_until_overflow = $3,
		    predicted_at = $4, updated_at = $4
		WHERE id = $5
	`, prediction.WillOverflow, prediction.Confidence, prediction.HoursUntilOverflow, now, binID)
	if err != nil {
		return fmt.Errorf("failed to update prediction for bin %s: %w", binID, err)
	}
	return nil
}

// MarkBinCollected resets a bin's collection clock
func MarkBinCollected(db *sqlx.DB, binID string, collectedAt int64) error {
	result, err := db.Exec(`
		UPDATE bins
		SET last_collected_at = $1, updated_at = $1
		WHERE id = $2
	`, collectedAt, binID)
	if err != nil {
		return fmt.Errorf("failed to mark bin %s collected: %w", binID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("bin %s not found", binID)
	}
	return nil
}
