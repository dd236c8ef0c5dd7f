package engine

import (
	"math"
	"sort"

	"binwatch-backend/internal/models"
)

// SimulationResult is the counterfactual outcome for one bin.
type SimulationResult struct {
	BinID         string `json:"bin_id"`
	LocationName  string `json:"location_name"`
	CurrentRisk   int    `json:"current_risk"`
	ProjectedRisk int    `json:"projected_risk"`
	RiskChange    int    `json:"risk_change"`
	SLAStatus     string `json:"sla_status,omitempty"` // projected status, skipped bins only
}

// SimulationSummary aggregates a simulation fleet-wide.
type SimulationSummary struct {
	TotalRiskIncrease int `json:"total_risk_increase"`
	BinsAtRisk        int `json:"bins_at_risk"`
	BinsBreached      int `json:"bins_breached"`
	AvgRiskChange     int `json:"avg_risk_change"`
}

// Simulation is a full what-if outcome over the fleet.
type Simulation struct {
	Results []SimulationResult `json:"results"`
	Summary SimulationSummary  `json:"summary"`
}

// WorkforceImpact summarizes worker coverage for a workforce-reduction
// simulation.
type WorkforceImpact struct {
	Available   int     `json:"available"`
	Required    int     `json:"required"` // bins at risk score >= 70
	Utilization float64 `json:"utilization"`
}

// WorkforceSimulation is a workforce-reduction simulation plus its coverage
// summary.
type WorkforceSimulation struct {
	Simulation
	Workforce WorkforceImpact `json:"workforce"`
}

// SimulateCollectionSkip replays the risk scorer and SLA evaluator against a
// hypothetical fleet where the given bins were not collected for another
// hoursForward hours. Unskipped bins project unchanged.
func SimulateCollectionSkip(bins []models.Bin, reports []models.Report, skippedBinIDs []string, weather *models.Weather, hoursForward int, now int64) Simulation {
	byBin := GroupReportsByBin(reports)
	skipped := make(map[string]bool, len(skippedBinIDs))
	for _, id := range skippedBinIDs {
		skipped[id] = true
	}

	results := make([]SimulationResult, 0, len(bins))
	for _, bin := range bins {
		binReports := byBin[bin.ID]
		latest := LatestReport(binReports)

		currentSLA := EvaluateSLA(bin, latest, now)
		currentRisk := CalculateRiskScore(bin, binReports, ScoreOptions{Weather: weather, SLA: &currentSLA}, now)

		if !skipped[bin.ID] {
			results = append(results, SimulationResult{
				BinID:         bin.ID,
				LocationName:  bin.LocationName,
				CurrentRisk:   currentRisk,
				ProjectedRisk: currentRisk,
				RiskChange:    0,
			})
			continue
		}

		// Hypothetical state: the skipped collection pushes the last
		// collection further into the past. A bin never observed stays null.
		simulated := bin
		if bin.LastCollectedAt != nil {
			shifted := *bin.LastCollectedAt - int64(hoursForward)*3600
			simulated.LastCollectedAt = &shifted
		}

		projectedSLA := EvaluateSLA(simulated, latest, now)
		projectedRisk := CalculateRiskScore(simulated, binReports, ScoreOptions{Weather: weather, SLA: &projectedSLA}, now)

		results = append(results, SimulationResult{
			BinID:         bin.ID,
			LocationName:  bin.LocationName,
			CurrentRisk:   currentRisk,
			ProjectedRisk: projectedRisk,
			RiskChange:    projectedRisk - currentRisk,
			SLAStatus:     projectedSLA.Status,
		})
	}

	totalRiskIncrease := 0
	binsAtRisk := 0
	binsBreached := 0
	for _, r := range results {
		if r.RiskChange > 0 {
			totalRiskIncrease += r.RiskChange
		}
		if r.ProjectedRisk >= 70 {
			binsAtRisk++
		}
		if r.SLAStatus == SLABreached {
			binsBreached++
		}
	}

	// Averaged over the whole fleet, not just skipped bins: the summary
	// measures fleet-wide impact dilution.
	avgRiskChange := 0
	if len(bins) > 0 {
		avgRiskChange = int(math.Round(float64(totalRiskIncrease) / float64(len(bins))))
	}

	return Simulation{
		Results: results,
		Summary: SimulationSummary{
			TotalRiskIncrease: totalRiskIncrease,
			BinsAtRisk:        binsAtRisk,
			BinsBreached:      binsBreached,
			AvgRiskChange:     avgRiskChange,
		},
	}
}

// SimulateWorkforceReduction covers the highest-risk bins with the available
// workers and simulates skipping the rest for 24 hours.
func SimulateWorkforceReduction(bins []models.Bin, reports []models.Report, availableWorkers int, weather *models.Weather, now int64) WorkforceSimulation {
	byBin := GroupReportsByBin(reports)

	type rankedBin struct {
		id   string
		risk int
	}
	ranked := make([]rankedBin, 0, len(bins))
	for _, bin := range bins {
		binReports := byBin[bin.ID]
		sla := EvaluateSLA(bin, LatestReport(binReports), now)
		risk := CalculateRiskScore(bin, binReports, ScoreOptions{Weather: weather, SLA: &sla}, now)
		ranked = append(ranked, rankedBin{id: bin.ID, risk: risk})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].risk > ranked[j].risk
	})

	covered := availableWorkers
	if covered > len(ranked) {
		covered = len(ranked)
	}
	if covered < 0 {
		covered = 0
	}

	required := 0
	for _, b := range ranked {
		if b.risk >= 70 {
			required++
		}
	}

	skippedIDs := make([]string, 0, len(ranked)-covered)
	for _, b := range ranked[covered:] {
		skippedIDs = append(skippedIDs, b.id)
	}

	simulation := SimulateCollectionSkip(bins, reports, skippedIDs, weather, 24, now)

	utilization := 0.0
	if len(bins) > 0 {
		utilization = float64(covered) / float64(len(bins)) * 100
		if utilization > 100 {
			utilization = 100
		}
	}

	return WorkforceSimulation{
		Simulation: simulation,
		Workforce: WorkforceImpact{
			Available:   availableWorkers,
			Required:    required,
			Utilization: utilization,
		},
	}
}
