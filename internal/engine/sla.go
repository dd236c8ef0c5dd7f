package engine

import (
	"binwatch-backend/internal/models"
)

// SLA statuses
const (
	SLAOnTime   = "ON_TIME"
	SLAAtRisk   = "AT_RISK"
	SLABreached = "BREACHED"
)

// SLAStatus is the computed service-level state of a bin. It is recomputed on
// every call; callers decide whether to persist it back onto the bin.
type SLAStatus struct {
	Status          string  `json:"status"`
	ElapsedHours    float64 `json:"elapsed_hours"`
	RemainingHours  float64 `json:"remaining_hours"`
	ProgressPercent float64 `json:"progress_percent"`
	SLADuration     int     `json:"sla_duration"`
}

// EvaluateSLA computes elapsed/remaining service time and a tri-state status
// for a bin. The service clock starts at the latest report if one exists,
// otherwise at the last collection, otherwise at now. Bins without an
// explicit SLA duration fall back to their location category default.
func EvaluateSLA(bin models.Bin, latestReport *models.Report, now int64) SLAStatus {
	slaDuration := DefaultSLADuration(bin.LocationName)
	if bin.SLADuration != nil && *bin.SLADuration > 0 {
		slaDuration = *bin.SLADuration
	}

	start := now
	if latestReport != nil && latestReport.CreatedAt != nil {
		start = *latestReport.CreatedAt
	} else if bin.LastCollectedAt != nil {
		start = *bin.LastCollectedAt
	}

	elapsedHours := float64(now-start) / 3600
	remainingHours := float64(slaDuration) - elapsedHours
	progressPercent := elapsedHours / float64(slaDuration) * 100

	status := SLAOnTime
	if progressPercent >= 100 {
		status = SLABreached
	} else if progressPercent >= 80 {
		status = SLAAtRisk
	}

	if elapsedHours < 0 {
		elapsedHours = 0
	}
	if remainingHours < 0 {
		remainingHours = 0
	}
	if progressPercent < 0 {
		progressPercent = 0
	}
	if progressPercent > 100 {
		progressPercent = 100
	}

	return SLAStatus{
		Status:          status,
		ElapsedHours:    elapsedHours,
		RemainingHours:  remainingHours,
		ProgressPercent: progressPercent,
		SLADuration:     slaDuration,
	}
}

// LatestReport returns the newest report by creation time. Reports without a
// timestamp are treated as unparseable and skipped; returns nil when no
// usable report exists.
func LatestReport(reports []models.Report) *models.Report {
	var latest *models.Report
	for i := range reports {
		if reports[i].CreatedAt == nil {
			continue
		}
		if latest == nil || *reports[i].CreatedAt > *latest.CreatedAt {
			latest = &reports[i]
		}
	}
	return latest
}

// ZoneBreachCounts counts SLA-breached bins per zone. Bins without a zone
// fall into "default".
func ZoneBreachCounts(bins []models.Bin, reports []models.Report, now int64) map[string]int {
	byBin := GroupReportsByBin(reports)

	breaches := make(map[string]int)
	for _, bin := range bins {
		zone := bin.Zone
		if zone == "" {
			zone = "default"
		}
		if _, ok := breaches[zone]; !ok {
			breaches[zone] = 0
		}

		sla := EvaluateSLA(bin, LatestReport(byBin[bin.ID]), now)
		if sla.Status == SLABreached {
			breaches[zone]++
		}
	}

	return breaches
}

// GroupReportsByBin indexes reports by bin ID, preserving input order within
// each bin.
func GroupReportsByBin(reports []models.Report) map[string][]models.Report {
	byBin := make(map[string][]models.Report)
	for _, r := range reports {
		byBin[r.BinID] = append(byBin[r.BinID], r)
	}
	return byBin
}
