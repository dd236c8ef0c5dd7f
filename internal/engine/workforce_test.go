package engine

import (
	"testing"

	"binwatch-backend/internal/models"
)

// workforceFleet builds a fleet whose risk bands are stable at any hour of
// day: the crowd adjustment moves scores by at most [-5, +12], which never
// crosses a band boundary for these bins.
func workforceFleet(now int64) []models.Bin {
	return []models.Bin{
		// High risk (>= 70): never collected plus overflow history
		{ID: "a1", LocationName: "Depot 1", Zone: "downtown", OverflowCount: 3},
		{ID: "a2", LocationName: "Depot 2", Zone: "downtown", OverflowCount: 3},
		// Medium risk (40-69): a day-and-change stale
		{ID: "b1", LocationName: "Depot 3", Zone: "west", LastCollectedAt: i64(now - 25*3600)},
		{ID: "b2", LocationName: "Depot 4", Zone: "west", LastCollectedAt: i64(now - 25*3600)},
	}
}

func TestCalculateWorkload(t *testing.T) {
	now := int64(1_700_000_000)
	workloads := CalculateWorkload(workforceFleet(now), nil, now)

	want := map[string]float64{"a1": 2.0, "a2": 2.0, "b1": 1.5, "b2": 1.5}
	for _, w := range workloads {
		if w.Workload != want[w.BinID] {
			t.Errorf("bin %s workload = %v (risk %d), want %v", w.BinID, w.Workload, w.RiskScore, want[w.BinID])
		}
	}

	// Fresh bins take the 1.0 baseline, and an empty zone maps to "default"
	fresh := []models.Bin{{ID: "f", LocationName: "Depot 9", LastCollectedAt: i64(now - 3600)}}
	workloads = CalculateWorkload(fresh, nil, now)
	if workloads[0].Workload != 1.0 {
		t.Errorf("fresh bin workload = %v, want 1.0", workloads[0].Workload)
	}
	if workloads[0].Zone != "default" {
		t.Errorf("zone = %q, want %q", workloads[0].Zone, "default")
	}
}

func TestAssignWorkersToZonesOverloaded(t *testing.T) {
	now := int64(1_700_000_000)

	// downtown needs ceil(4.0) = 4 workers, west needs ceil(3.0) = 3. With 5
	// available, downtown (more high-risk bins) is served first and west gets
	// the single leftover.
	result := AssignWorkersToZones(workforceFleet(now), nil, 5, now)

	downtown := result.Assignments["downtown"]
	if downtown.Required != 4 || downtown.Assigned != 4 {
		t.Fatalf("downtown = %+v, want required 4 assigned 4", downtown)
	}
	if downtown.HighRisk != 2 || downtown.Bins != 2 {
		t.Errorf("downtown = %+v, want 2 bins both high risk", downtown)
	}

	west := result.Assignments["west"]
	if west.Required != 3 || west.Assigned != 1 {
		t.Fatalf("west = %+v, want required 3 assigned 1", west)
	}

	s := result.Summary
	if s.Available != 5 || s.Required != 7 || s.Assigned != 5 || s.Remaining != 0 {
		t.Fatalf("summary = %+v, want available 5 required 7 assigned 5 remaining 0", s)
	}
	if !s.Overload {
		t.Error("summary should flag overload")
	}
	if s.Underutilization {
		t.Error("no workers left over, underutilization should be false")
	}

	// Conservation: assigned workers plus the remainder equals the pool
	total := 0
	for _, a := range result.Assignments {
		total += a.Assigned
	}
	if total+s.Remaining != s.Available {
		t.Errorf("conservation broken: assigned %d + remaining %d != available %d", total, s.Remaining, s.Available)
	}
}

func TestAssignWorkersToZonesSurplus(t *testing.T) {
	now := int64(1_700_000_000)
	result := AssignWorkersToZones(workforceFleet(now), nil, 10, now)

	s := result.Summary
	if s.Assigned != 7 || s.Remaining != 3 {
		t.Fatalf("summary = %+v, want assigned 7 remaining 3", s)
	}
	if s.Overload {
		t.Error("surplus pool should not flag overload")
	}
	if !s.Underutilization {
		t.Error("leftover workers should flag underutilization")
	}
	if s.Coverage != 100 {
		t.Errorf("coverage = %v, want 100", s.Coverage)
	}

	// Fully staffed zones run at their exact workload
	downtown := result.Assignments["downtown"]
	if downtown.Utilization != 100 {
		t.Errorf("downtown utilization = %v, want 100 (workload 4.0 over 4 workers)", downtown.Utilization)
	}
	west := result.Assignments["west"]
	if west.Utilization != 100 {
		t.Errorf("west utilization = %v, want 100 (workload 3.0 over 3 workers)", west.Utilization)
	}
}

func TestAssignWorkersToZonesStarvedZone(t *testing.T) {
	now := int64(1_700_000_000)

	// Only 2 workers: downtown absorbs both, west gets nothing and reads as
	// zero utilization rather than dividing by zero.
	result := AssignWorkersToZones(workforceFleet(now), nil, 2, now)

	west := result.Assignments["west"]
	if west.Assigned != 0 {
		t.Fatalf("west assigned = %d, want 0", west.Assigned)
	}
	if west.Utilization != 0 {
		t.Errorf("west utilization = %v, want 0", west.Utilization)
	}
	if !result.Summary.Overload {
		t.Error("summary should flag overload")
	}
}

func TestAssignWorkersToZonesEmptyFleet(t *testing.T) {
	result := AssignWorkersToZones(nil, nil, 5, 1_700_000_000)
	if len(result.Assignments) != 0 {
		t.Fatalf("assignments = %+v, want none", result.Assignments)
	}
	s := result.Summary
	if s.Required != 0 || s.Assigned != 0 || s.Remaining != 5 || s.Coverage != 100 {
		t.Fatalf("summary = %+v, want no demand and full coverage", s)
	}
	if !s.Underutilization {
		t.Error("an entirely idle pool should flag underutilization")
	}
}

func TestOptimalWorkerCount(t *testing.T) {
	now := int64(1_700_000_000)
	if got := OptimalWorkerCount(workforceFleet(now), nil, now); got != 7 {
		t.Fatalf("optimal = %d, want 7 (ceil of 7.0 total workload)", got)
	}
	if got := OptimalWorkerCount(nil, nil, now); got != 0 {
		t.Fatalf("optimal for empty fleet = %d, want 0", got)
	}
}
