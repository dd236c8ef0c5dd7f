package engine

import (
	"math"
	"sort"

	"binwatch-backend/internal/models"
)

// Fill-level trends
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Prediction is an overflow forecast for one bin.
type Prediction struct {
	WillOverflow       bool    `json:"will_overflow"`
	Confidence         float64 `json:"confidence"`            // 0.0-0.95
	HoursUntilOverflow int     `json:"hours_until_overflow"` // rounded, floored at 0
}

// analyzeTrend classifies the fill-level direction of reports ordered oldest
// to newest by counting adjacent increases vs decreases. Ties are stable.
func analyzeTrend(reports []models.Report) string {
	if len(reports) < 2 {
		return TrendStable
	}

	values := make([]int, len(reports))
	for i, r := range reports {
		values[i] = statusValue(r.Status)
	}

	increasing := 0
	decreasing := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			increasing++
		}
		if values[i] < values[i-1] {
			decreasing++
		}
	}

	if increasing > decreasing {
		return TrendIncreasing
	}
	if decreasing > increasing {
		return TrendDecreasing
	}
	return TrendStable
}

func statusValue(status string) int {
	switch status {
	case models.ReportStatusHalf:
		return 1
	case models.ReportStatusFull:
		return 2
	default:
		return 0
	}
}

func averageFillRate(reports []models.Report) float64 {
	if len(reports) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range reports {
		switch r.Status {
		case models.ReportStatusHalf:
			sum += 0.5
		case models.ReportStatusFull:
			sum += 1.0
		}
	}
	return sum / float64(len(reports))
}

// PredictOverflow forecasts whether and when a bin will overflow from its
// recent report trend and fill rate. Only reports younger than 48h count;
// without any the forecast falls back to collection staleness alone.
func PredictOverflow(bin models.Bin, reports []models.Report, now int64) Prediction {
	hoursSinceCollection := HoursSinceCollection(bin, now)

	var recent []models.Report
	for _, r := range reports {
		if r.CreatedAt == nil {
			continue
		}
		if float64(now-*r.CreatedAt)/3600 < 48 {
			recent = append(recent, r)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return *recent[i].CreatedAt < *recent[j].CreatedAt
	})

	if len(recent) == 0 {
		if hoursSinceCollection > 48 {
			return Prediction{WillOverflow: true, Confidence: 0.3, HoursUntilOverflow: 0}
		}
		return Prediction{
			WillOverflow:       false,
			Confidence:         0.3,
			HoursUntilOverflow: clampHours(24 - hoursSinceCollection),
		}
	}

	trend := analyzeTrend(recent)
	latestStatus := recent[len(recent)-1].Status
	avgFillRate := averageFillRate(recent)

	willOverflow := false
	confidence := 0.5
	hoursUntilOverflow := 12.0

	// Decision table, first match wins.
	if latestStatus == models.ReportStatusFull {
		willOverflow = true
		confidence = 0.9
		hoursUntilOverflow = 0
	} else if latestStatus == models.ReportStatusHalf && trend == TrendIncreasing {
		willOverflow = avgFillRate > 0.6
		confidence = avgFillRate
		hoursUntilOverflow = (1 - avgFillRate) * 12
	} else if trend == TrendIncreasing && hoursSinceCollection > 24 {
		willOverflow = true
		confidence = 0.7
		hoursUntilOverflow = 6
	} else if hoursSinceCollection > 36 {
		willOverflow = true
		confidence = 0.6
		hoursUntilOverflow = 12 - (hoursSinceCollection - 36)
	}

	if confidence > 0.95 {
		confidence = 0.95
	}

	return Prediction{
		WillOverflow:       willOverflow,
		Confidence:         confidence,
		HoursUntilOverflow: clampHours(hoursUntilOverflow),
	}
}

func clampHours(hours float64) int {
	rounded := int(math.Round(hours))
	if rounded < 0 {
		return 0
	}
	return rounded
}
