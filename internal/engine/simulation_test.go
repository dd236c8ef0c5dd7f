package engine

import (
	"testing"

	"binwatch-backend/internal/models"
)

func simFleet(now int64) []models.Bin {
	return []models.Bin{
		{ID: "a", LocationName: "Depot 1", Zone: "downtown", LastCollectedAt: i64(now - 2*3600), SLADuration: intp(24)},
		{ID: "b", LocationName: "Depot 2", Zone: "downtown", LastCollectedAt: i64(now - 20*3600), SLADuration: intp(24)},
		{ID: "c", LocationName: "Depot 3", Zone: "west", LastCollectedAt: i64(now - 30*3600), SLADuration: intp(24), OverflowCount: 3},
	}
}

func TestSimulateCollectionSkip(t *testing.T) {
	now := int64(1_700_000_000)
	bins := simFleet(now)

	sim := SimulateCollectionSkip(bins, nil, []string{"a"}, nil, 24, now)

	if len(sim.Results) != len(bins) {
		t.Fatalf("results = %d, want %d", len(sim.Results), len(bins))
	}

	byID := make(map[string]SimulationResult)
	for _, r := range sim.Results {
		byID[r.BinID] = r
	}

	// Unskipped bins project unchanged and carry no projected SLA status
	for _, id := range []string{"b", "c"} {
		r := byID[id]
		if r.RiskChange != 0 || r.ProjectedRisk != r.CurrentRisk {
			t.Errorf("unskipped bin %s changed: %+v", id, r)
		}
		if r.SLAStatus != "" {
			t.Errorf("unskipped bin %s has projected SLA status %q", id, r.SLAStatus)
		}
	}

	// The skipped bin goes from 2h to 26h stale: staleness band jumps from 10
	// to 50 and the SLA breaches, so the risk must rise.
	a := byID["a"]
	if a.RiskChange <= 0 {
		t.Fatalf("skipped bin risk change = %d, want positive", a.RiskChange)
	}
	if a.SLAStatus != SLABreached {
		t.Errorf("projected SLA = %q, want %q", a.SLAStatus, SLABreached)
	}
	if a.ProjectedRisk != a.CurrentRisk+a.RiskChange {
		t.Errorf("inconsistent result: %+v", a)
	}
}

func TestSimulateCollectionSkipSummary(t *testing.T) {
	now := int64(1_700_000_000)
	bins := simFleet(now)

	sim := SimulateCollectionSkip(bins, nil, []string{"a", "b"}, nil, 24, now)

	total := 0
	for _, r := range sim.Results {
		if r.RiskChange > 0 {
			total += r.RiskChange
		}
	}
	if sim.Summary.TotalRiskIncrease != total {
		t.Errorf("total increase = %d, want %d", sim.Summary.TotalRiskIncrease, total)
	}

	// Averaged over the whole fleet, not only the skipped bins
	wantAvg := (total + len(bins)/2) / len(bins) // round to nearest
	if diff := sim.Summary.AvgRiskChange - wantAvg; diff > 1 || diff < -1 {
		t.Errorf("avg change = %d, want about %d", sim.Summary.AvgRiskChange, wantAvg)
	}

	atRisk := 0
	for _, r := range sim.Results {
		if r.ProjectedRisk >= 70 {
			atRisk++
		}
	}
	if sim.Summary.BinsAtRisk != atRisk {
		t.Errorf("bins at risk = %d, want %d", sim.Summary.BinsAtRisk, atRisk)
	}
}

func TestSimulateCollectionSkipNeverCollectedBin(t *testing.T) {
	now := int64(1_700_000_000)
	bins := []models.Bin{
		{ID: "x", LocationName: "Depot 9", Zone: "north", SLADuration: intp(24)},
	}

	// A bin with no collection history is already treated as maximally stale;
	// skipping it cannot push it further.
	sim := SimulateCollectionSkip(bins, nil, []string{"x"}, nil, 24, now)
	if sim.Results[0].RiskChange != 0 {
		t.Fatalf("never-collected bin changed: %+v", sim.Results[0])
	}
}

func TestSimulateCollectionSkipEmptyFleet(t *testing.T) {
	sim := SimulateCollectionSkip(nil, nil, []string{"a"}, nil, 24, 1_700_000_000)
	if len(sim.Results) != 0 || sim.Summary.AvgRiskChange != 0 {
		t.Fatalf("empty fleet simulation = %+v", sim)
	}
}

func TestSimulateWorkforceReduction(t *testing.T) {
	now := int64(1_700_000_000)
	bins := simFleet(now)

	sim := SimulateWorkforceReduction(bins, nil, 1, nil, now)

	if sim.Workforce.Available != 1 {
		t.Errorf("available = %d, want 1", sim.Workforce.Available)
	}

	// One worker covers the single highest-risk bin; the other two get
	// skipped, so at least one projection must worsen.
	worsened := 0
	for _, r := range sim.Results {
		if r.RiskChange > 0 {
			worsened++
		}
	}
	if worsened == 0 {
		t.Error("no bin worsened despite two skipped collections")
	}

	wantUtilization := 1.0 / float64(len(bins)) * 100
	if diff := sim.Workforce.Utilization - wantUtilization; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("utilization = %v, want %v", sim.Workforce.Utilization, wantUtilization)
	}

	// Enough workers for everyone: nothing is skipped, nothing worsens
	full := SimulateWorkforceReduction(bins, nil, 10, nil, now)
	for _, r := range full.Results {
		if r.RiskChange != 0 {
			t.Errorf("fully staffed fleet still worsened: %+v", r)
		}
	}
	if full.Workforce.Utilization != 100 {
		t.Errorf("utilization = %v, want capped at 100", full.Workforce.Utilization)
	}
}

func TestSimulateWorkforceReductionCoversHighestRisk(t *testing.T) {
	now := int64(1_700_000_000)
	bins := simFleet(now)

	// Bin c (30h stale, 3 overflows) scores highest; with one worker it must
	// be the bin that keeps its collection.
	sim := SimulateWorkforceReduction(bins, nil, 1, nil, now)
	for _, r := range sim.Results {
		if r.BinID == "c" && r.RiskChange != 0 {
			t.Fatalf("highest-risk bin was skipped: %+v", r)
		}
	}
}
