package services

import (
	"fmt"
	"log"
	"time"

	"binwatch-backend/internal/database"
	"binwatch-backend/internal/engine"
	"binwatch-backend/internal/models"
	"binwatch-backend/internal/websocket"

	"github.com/jmoiron/sqlx"
)

// Monitor runs the fleet sweeps: it feeds persisted bins and reports through
// the engine, writes the computed snapshots back, and fans out updates to
// dashboard clients and manager devices. The engine itself stays pure; all
// I/O happens here.
type Monitor struct {
	db      *sqlx.DB
	weather *WeatherService
	hub     *websocket.Hub
	fcm     *FCMService // nil when push notifications are disabled
}

func NewMonitor(db *sqlx.DB, weather *WeatherService, hub *websocket.Hub, fcm *FCMService) *Monitor {
	return &Monitor{db: db, weather: weather, hub: hub, fcm: fcm}
}

// SLASweepResult summarizes one SLA monitoring pass
type SLASweepResult struct {
	BinsChecked      int   `json:"bins_checked"`
	BreachesDetected int   `json:"breaches_detected"`
	Timestamp        int64 `json:"timestamp"`
}

// PredictionSweepResult summarizes one prediction pass
type PredictionSweepResult struct {
	BinsAnalyzed        int   `json:"bins_analyzed"`
	OverflowPredictions int   `json:"overflow_predictions"`
	Timestamp           int64 `json:"timestamp"`
}

// RecalculateBinRisk recomputes and persists one bin's risk score. Called
// after bin or report mutations.
func (m *Monitor) RecalculateBinRisk(binID string) (int, error) {
	bin, err := database.GetBin(m.db, binID)
	if err != nil {
		return 0, fmt.Errorf("failed to load bin %s: %w", binID, err)
	}

	reports, err := database.GetBinReports(m.db, binID, 48)
	if err != nil {
		return 0, err
	}

	now := time.Now().Unix()
	weather := m.weather.Current()
	sla := engine.EvaluateSLA(*bin, engine.LatestReport(reports), now)
	riskScore := engine.CalculateRiskScore(*bin, reports, engine.ScoreOptions{Weather: &weather, SLA: &sla}, now)

	if err := database.UpdateBinRiskScore(m.db, binID, riskScore); err != nil {
		return 0, err
	}

	log.Printf("✅ [RISK-RECALC] Bin %s risk score updated to %d", binID, riskScore)

	if m.hub != nil {
		m.hub.BroadcastAll(map[string]interface{}{
			"type":       "risk_updated",
			"bin_id":     binID,
			"risk_score": riskScore,
			"risk_level": engine.RiskLevel(riskScore),
		})
	}

	return riskScore, nil
}

// MonitorSLA evaluates the SLA of every bin, persists the snapshots, bumps
// the overflow count on new breaches and alerts managers about them.
func (m *Monitor) MonitorSLA() (SLASweepResult, error) {
	now := time.Now().Unix()

	bins, err := database.GetAllBins(m.db)
	if err != nil {
		return SLASweepResult{}, err
	}

	reports, err := database.GetRecentReports(m.db, 72)
	if err != nil {
		return SLASweepResult{}, err
	}
	byBin := engine.GroupReportsByBin(reports)

	breachCount := 0
	for _, bin := range bins {
		sla := engine.EvaluateSLA(bin, engine.LatestReport(byBin[bin.ID]), now)

		previousStatus := engine.SLAOnTime
		if bin.SLAStatus != nil {
			previousStatus = *bin.SLAStatus
		}
		newBreach := sla.Status == engine.SLABreached && previousStatus != engine.SLABreached

		if err := database.UpdateBinSLASnapshot(m.db, bin.ID, sla, newBreach, now); err != nil {
			log.Printf("⚠️  [SLA-SWEEP] Failed to persist snapshot for bin %s: %v", bin.ID, err)
			continue
		}

		if newBreach {
			breachCount++
			log.Printf("🚨 [SLA-SWEEP] New breach: %s (%s zone, %d%% elapsed)",
				bin.LocationName, bin.Zone, int(sla.ProgressPercent))
			m.alertBreach(bin.ID, bin.LocationName, bin.Zone, bin.OverflowCount+1)
		}
	}

	if m.hub != nil && breachCount > 0 {
		m.hub.BroadcastAll(map[string]interface{}{
			"type":         "sla_sweep",
			"bins_checked": len(bins),
			"new_breaches": breachCount,
		})
	}

	log.Printf("✅ [SLA-SWEEP] Checked %d bins, %d new breach(es)", len(bins), breachCount)

	return SLASweepResult{
		BinsChecked:      len(bins),
		BreachesDetected: breachCount,
		Timestamp:        now,
	}, nil
}

// PredictAllBins forecasts overflow for every bin and persists the
// predictions.
func (m *Monitor) PredictAllBins() (PredictionSweepResult, error) {
	now := time.Now().Unix()

	bins, err := database.GetAllBins(m.db)
	if err != nil {
		return PredictionSweepResult{}, err
	}

	reports, err := database.GetRecentReports(m.db, 48)
	if err != nil {
		return PredictionSweepResult{}, err
	}
	byBin := engine.GroupReportsByBin(reports)

	overflowCount := 0
	for _, bin := range bins {
		prediction := engine.PredictOverflow(bin, byBin[bin.ID], now)
		newWarning := isNewOverflowWarning(bin, prediction)

		if err := database.UpdateBinPrediction(m.db, bin.ID, prediction, now); err != nil {
			log.Printf("⚠️  [PREDICT-SWEEP] Failed to persist prediction for bin %s: %v", bin.ID, err)
			continue
		}

		if prediction.WillOverflow {
			overflowCount++
		}

		if newWarning {
			log.Printf("🚨 [PREDICT-SWEEP] Overflow expected: %s (%dh horizon)",
				bin.LocationName, prediction.HoursUntilOverflow)
			m.alertOverflow(bin.ID, bin.LocationName, prediction.HoursUntilOverflow)
		}
	}

	log.Printf("✅ [PREDICT-SWEEP] Analyzed %d bins, %d predicted overflow(s)", len(bins), overflowCount)

	return PredictionSweepResult{
		BinsAnalyzed:        len(bins),
		OverflowPredictions: overflowCount,
		Timestamp:           now,
	}, nil
}

// isNewOverflowWarning reports whether a prediction newly calls overflow for
// a bin whose stored snapshot did not. Bins already flagged stay quiet until
// the prediction clears, so managers get one warning per episode.
func isNewOverflowWarning(bin models.Bin, prediction engine.Prediction) bool {
	if !prediction.WillOverflow {
		return false
	}
	return bin.WillOverflow == nil || !*bin.WillOverflow
}

// alertBreach pushes an FCM notification to every registered manager device
func (m *Monitor) alertBreach(binID, locationName, zone string, overflowCount int) {
	if m.fcm == nil {
		return
	}

	var tokens []string
	err := m.db.Select(&tokens, `SELECT fcm_token FROM users WHERE fcm_token IS NOT NULL`)
	if err != nil {
		log.Printf("⚠️  [SLA-SWEEP] Failed to fetch manager tokens: %v", err)
		return
	}

	for _, token := range tokens {
		if err := m.fcm.SendSLABreachAlert(token, binID, locationName, zone, overflowCount); err != nil {
			log.Printf("⚠️  [SLA-SWEEP] Failed to send breach alert: %v", err)
		}
	}
}

// alertOverflow warns every registered manager device about a predicted
// overflow
func (m *Monitor) alertOverflow(binID, locationName string, hoursUntilOverflow int) {
	if m.fcm == nil {
		return
	}

	var tokens []string
	err := m.db.Select(&tokens, `SELECT fcm_token FROM users WHERE fcm_token IS NOT NULL`)
	if err != nil {
		log.Printf("⚠️  [PREDICT-SWEEP] Failed to fetch manager tokens: %v", err)
		return
	}

	for _, token := range tokens {
		if err := m.fcm.SendOverflowWarning(token, binID, locationName, hoursUntilOverflow); err != nil {
			log.Printf("⚠️  [PREDICT-SWEEP] Failed to send overflow warning: %v", err)
		}
	}
}
