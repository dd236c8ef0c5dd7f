package engine

import (
	"math"
	"sort"

	"binwatch-backend/internal/models"
)

// BinWorkload is the risk-derived collection effort for one bin.
type BinWorkload struct {
	BinID        string  `json:"bin_id"`
	LocationName string  `json:"location_name"`
	Zone         string  `json:"zone"`
	RiskScore    int     `json:"risk_score"`
	Workload     float64 `json:"workload"`
}

// ZoneAssignment is the worker allocation outcome for one zone.
type ZoneAssignment struct {
	Assigned    int     `json:"assigned"`
	Required    int     `json:"required"`
	Workload    float64 `json:"workload"`
	Bins        int     `json:"bins"`
	HighRisk    int     `json:"high_risk"`
	Utilization float64 `json:"utilization"` // workload per assigned worker, percent
}

// AllocationSummary aggregates the allocation fleet-wide.
type AllocationSummary struct {
	Available        int     `json:"available"`
	Required         int     `json:"required"`
	Assigned         int     `json:"assigned"`
	Remaining        int     `json:"remaining"`
	Coverage         float64 `json:"coverage"`
	Overload         bool    `json:"overload"`
	Underutilization bool    `json:"underutilization"`
}

// WorkforceAssignment is the full allocation of a worker pool across zones.
type WorkforceAssignment struct {
	Assignments map[string]ZoneAssignment `json:"assignments"`
	Summary     AllocationSummary         `json:"summary"`
}

// CalculateWorkload sizes the collection effort per bin: 1.0 baseline, 1.5
// for medium risk (40-69), 2.0 for high risk (>=70). Uses the workload
// scoring mode, which excludes weather and SLA boosts.
func CalculateWorkload(bins []models.Bin, reports []models.Report, now int64) []BinWorkload {
	byBin := GroupReportsByBin(reports)

	workloads := make([]BinWorkload, 0, len(bins))
	for _, bin := range bins {
		riskScore := WorkloadRiskScore(bin, byBin[bin.ID], now)

		workload := 1.0
		if riskScore >= 70 {
			workload = 2.0
		} else if riskScore >= 40 {
			workload = 1.5
		}

		zone := bin.Zone
		if zone == "" {
			zone = "default"
		}

		workloads = append(workloads, BinWorkload{
			BinID:        bin.ID,
			LocationName: bin.LocationName,
			Zone:         zone,
			RiskScore:    riskScore,
			Workload:     workload,
		})
	}

	return workloads
}

// AssignWorkersToZones greedily assigns a finite worker pool across zones.
// Zones are served in urgency order: most high-risk bins first, then heaviest
// workload; ties keep input order. Each zone demands ceil(totalWorkload)
// workers and receives at most what remains in the pool.
func AssignWorkersToZones(bins []models.Bin, reports []models.Report, availableWorkers int, now int64) WorkforceAssignment {
	workloads := CalculateWorkload(bins, reports, now)

	type zoneLoad struct {
		zone          string
		bins          int
		totalWorkload float64
		highRiskCount int
	}

	// First-appearance order keeps the ranking deterministic.
	zoneIndex := make(map[string]int)
	var zones []zoneLoad
	for _, item := range workloads {
		idx, ok := zoneIndex[item.Zone]
		if !ok {
			idx = len(zones)
			zoneIndex[item.Zone] = idx
			zones = append(zones, zoneLoad{zone: item.Zone})
		}
		zones[idx].bins++
		zones[idx].totalWorkload += item.Workload
		if item.RiskScore >= 70 {
			zones[idx].highRiskCount++
		}
	}

	sort.SliceStable(zones, func(i, j int) bool {
		if zones[i].highRiskCount != zones[j].highRiskCount {
			return zones[i].highRiskCount > zones[j].highRiskCount
		}
		return zones[i].totalWorkload > zones[j].totalWorkload
	})

	assignments := make(map[string]ZoneAssignment, len(zones))
	remainingWorkers := availableWorkers
	totalRequired := 0

	for _, zone := range zones {
		required := int(math.Ceil(zone.totalWorkload))
		totalRequired += required

		assigned := required
		if assigned > remainingWorkers {
			assigned = remainingWorkers
		}

		utilization := 0.0
		if assigned > 0 {
			utilization = zone.totalWorkload / float64(assigned) * 100
		}

		assignments[zone.zone] = ZoneAssignment{
			Assigned:    assigned,
			Required:    required,
			Workload:    zone.totalWorkload,
			Bins:        zone.bins,
			HighRisk:    zone.highRiskCount,
			Utilization: utilization,
		}
		remainingWorkers -= assigned
	}

	totalAssigned := availableWorkers - remainingWorkers
	coverage := 100.0
	if totalRequired > 0 {
		coverage = float64(totalAssigned) / float64(totalRequired) * 100
	}

	// Leftover workers mean every zone already received its full demand, so a
	// non-empty remainder is exactly the underutilization signal.

	return WorkforceAssignment{
		Assignments: assignments,
		Summary: AllocationSummary{
			Available:        availableWorkers,
			Required:         totalRequired,
			Assigned:         totalAssigned,
			Remaining:        remainingWorkers,
			Coverage:         coverage,
			Overload:         totalRequired > availableWorkers,
			Underutilization: remainingWorkers > 0,
		},
	}
}

// OptimalWorkerCount is the worker pool size that would cover the entire
// fleet's workload.
func OptimalWorkerCount(bins []models.Bin, reports []models.Report, now int64) int {
	total := 0.0
	for _, item := range CalculateWorkload(bins, reports, now) {
		total += item.Workload
	}
	return int(math.Ceil(total))
}
