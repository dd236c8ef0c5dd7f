package engine

import (
	"fmt"
	"math"
	"time"

	"binwatch-backend/internal/models"
)

// ScoreOptions carries the optional inputs of the risk scorer. Weather and
// SLA boosts are only applied when supplied.
type ScoreOptions struct {
	Weather *models.Weather
	SLA     *SLAStatus
}

// RiskFactor is one entry of the factor-by-factor explanation.
type RiskFactor struct {
	Factor       string `json:"factor"`
	Contribution int    `json:"contribution"`
	Details      string `json:"details"`
}

// RiskBreakdown is the post-weight base score plus each additive boost.
type RiskBreakdown struct {
	BaseScore    int `json:"base_score"`
	SLABoost     int `json:"sla_boost"`
	WeatherBoost int `json:"weather_boost"`
	CrowdBoost   int `json:"crowd_boost"`
}

// RiskExplanation is the structured scorer output. The plain numeric score is
// a projection of it, so the two can never drift apart.
type RiskExplanation struct {
	Score        int             `json:"score"`
	Explanations []RiskFactor    `json:"explanations"`
	Breakdown    RiskBreakdown   `json:"breakdown"`
	Location     LocationProfile `json:"location"`
}

// HoursSinceCollection returns the hours elapsed since the bin was last
// collected. A bin never observed being collected is treated as 72h stale.
func HoursSinceCollection(bin models.Bin, now int64) float64 {
	if bin.LastCollectedAt == nil {
		return 72
	}
	return float64(now-*bin.LastCollectedAt) / 3600
}

// scoreBin computes the full risk breakdown in one pass.
//
// Scoring factors, in order:
//  1. Time since collection (<12h: 10, <24h: 30, <48h: 50, else 70)
//  2. Overflow history (10 per overflow, capped at 30)
//  3. Recent report consensus (full-report fraction * 20 * avg credibility,
//     over reports younger than 24h)
//  4. The sum so far is multiplied by the location weight
//  5. SLA boost (BREACHED: +25, AT_RISK: +10) when an SLA status is supplied
//  6. Weather boost (raining: +15, humidity >75: +8, >60: +4) when supplied
//  7. Crowd boost from location category and hour of day (always applied)
//
// The final score is rounded and clamped to [0, 100].
func scoreBin(bin models.Bin, reports []models.Report, opts ScoreOptions, now int64) RiskExplanation {
	var explanations []RiskFactor

	hoursSinceCollection := HoursSinceCollection(bin, now)

	collectionScore := 0.0
	if hoursSinceCollection < 12 {
		collectionScore = 10
	} else if hoursSinceCollection < 24 {
		collectionScore = 30
	} else if hoursSinceCollection < 48 {
		collectionScore = 50
	} else {
		collectionScore = 70
	}
	explanations = append(explanations, RiskFactor{
		Factor:       "Time Since Collection",
		Contribution: int(collectionScore),
		Details:      fmt.Sprintf("%d hours since last collection", int(math.Round(hoursSinceCollection))),
	})

	overflowScore := 0.0
	if bin.OverflowCount > 0 {
		overflowScore = math.Min(float64(bin.OverflowCount)*10, 30)
		explanations = append(explanations, RiskFactor{
			Factor:       "Overflow History",
			Contribution: int(overflowScore),
			Details:      fmt.Sprintf("%d previous overflow(s)", bin.OverflowCount),
		})
	}

	// Reports younger than 24h; reports without a timestamp are unparseable
	// and excluded rather than failing the computation.
	recentCount := 0
	fullCount := 0
	credibilitySum := 0.0
	for _, r := range reports {
		if r.CreatedAt == nil {
			continue
		}
		if float64(now-*r.CreatedAt)/3600 >= 24 {
			continue
		}
		recentCount++
		if r.Status == models.ReportStatusFull {
			fullCount++
		}
		credibility := r.CredibilityScore
		if credibility == 0 {
			credibility = 0.5
		}
		credibilitySum += credibility
	}

	reportScore := 0.0
	if recentCount > 0 {
		avgCredibility := credibilitySum / float64(recentCount)
		reportScore = float64(fullCount) / float64(recentCount) * 20 * avgCredibility
		if reportScore > 0 {
			explanations = append(explanations, RiskFactor{
				Factor:       "Recent Reports",
				Contribution: int(math.Round(reportScore)),
				Details:      fmt.Sprintf("%d/%d full reports in last 24h", fullCount, recentCount),
			})
		}
	}

	locationWeight := LocationWeight(bin.LocationName)
	score := (collectionScore + overflowScore + reportScore) * locationWeight
	baseScore := int(math.Round(score))

	slaBoost := 0
	if opts.SLA != nil {
		switch opts.SLA.Status {
		case SLABreached:
			slaBoost = 25
		case SLAAtRisk:
			slaBoost = 10
		}
		if slaBoost > 0 {
			explanations = append(explanations, RiskFactor{
				Factor:       "SLA Status",
				Contribution: slaBoost,
				Details:      fmt.Sprintf("SLA %s (%d%% elapsed)", opts.SLA.Status, int(math.Round(opts.SLA.ProgressPercent))),
			})
		}
	}
	score += float64(slaBoost)

	weatherBoost := 0
	if opts.Weather != nil {
		if opts.Weather.IsRaining {
			weatherBoost += 15
		}
		if opts.Weather.Humidity > 75 {
			weatherBoost += 8
		} else if opts.Weather.Humidity > 60 {
			weatherBoost += 4
		}
		if weatherBoost > 0 {
			details := fmt.Sprintf("High humidity (%d%%)", int(math.Round(opts.Weather.Humidity)))
			if opts.Weather.IsRaining {
				details = fmt.Sprintf("Raining (%d%% humidity)", int(math.Round(opts.Weather.Humidity)))
			}
			explanations = append(explanations, RiskFactor{
				Factor:       "Weather Conditions",
				Contribution: weatherBoost,
				Details:      details,
			})
		}
	}
	score += float64(weatherBoost)

	hour := time.Unix(now, 0).Hour()
	crowdBoost := CrowdRiskBoost(bin.LocationName, hour)
	if crowdBoost != 0 {
		details := "High traffic expected for this location/time"
		if crowdBoost < 0 {
			details = "Low traffic expected for this location/time"
		}
		explanations = append(explanations, RiskFactor{
			Factor:       "Crowd Density",
			Contribution: crowdBoost,
			Details:      details,
		})
	}
	score += float64(crowdBoost)

	finalScore := int(math.Round(score))
	if finalScore > 100 {
		finalScore = 100
	}
	if finalScore < 0 {
		finalScore = 0
	}

	return RiskExplanation{
		Score:        finalScore,
		Explanations: explanations,
		Breakdown: RiskBreakdown{
			BaseScore:    baseScore,
			SLABoost:     slaBoost,
			WeatherBoost: weatherBoost,
			CrowdBoost:   crowdBoost,
		},
		Location: ClassifyLocation(bin.LocationName, hour),
	}
}

// CalculateRiskScore combines collection staleness, overflow history, recent
// report consensus, location weight and the optional SLA/weather boosts into
// a 0-100 urgency score.
func CalculateRiskScore(bin models.Bin, reports []models.Report, opts ScoreOptions, now int64) int {
	return scoreBin(bin, reports, opts, now).Score
}

// ExplainRiskScore returns the risk score together with its factor-by-factor
// breakdown.
func ExplainRiskScore(bin models.Bin, reports []models.Report, opts ScoreOptions, now int64) RiskExplanation {
	return scoreBin(bin, reports, opts, now)
}

// WorkloadRiskScore is the simplified scoring mode used for workload sizing:
// weather and SLA boosts are deliberately omitted so that worker demand
// reflects the bin itself, not transient urgency. The dashboard display uses
// the full score.
func WorkloadRiskScore(bin models.Bin, reports []models.Report, now int64) int {
	return scoreBin(bin, reports, ScoreOptions{}, now).Score
}

// RiskLevel maps a risk score to its display band.
func RiskLevel(score int) string {
	if score >= 70 {
		return "high"
	}
	if score >= 40 {
		return "medium"
	}
	return "low"
}
