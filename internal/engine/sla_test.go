package engine

import (
	"testing"

	"binwatch-backend/internal/models"
)

func i64(v int64) *int64 { return &v }
func intp(v int) *int    { return &v }

func TestEvaluateSLAStatusThresholds(t *testing.T) {
	now := int64(1_700_000_000)

	tests := []struct {
		name        string
		elapsedH    int64
		slaDuration int
		want        string
	}{
		{"fresh", 1, 24, SLAOnTime},
		{"just under risk threshold", 19, 24, SLAOnTime},
		{"at risk", 20, 24, SLAAtRisk}, // 83% elapsed
		{"breached exactly", 24, 24, SLABreached},
		{"well past deadline", 40, 24, SLABreached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := models.Bin{
				ID:              "bin-1",
				LocationName:    "Depot 7",
				LastCollectedAt: i64(now - tt.elapsedH*3600),
				SLADuration:     intp(tt.slaDuration),
			}
			sla := EvaluateSLA(bin, nil, now)
			if sla.Status != tt.want {
				t.Fatalf("status = %q, want %q", sla.Status, tt.want)
			}
			if sla.SLADuration != tt.slaDuration {
				t.Errorf("sla duration = %d, want %d", sla.SLADuration, tt.slaDuration)
			}
		})
	}
}

func TestEvaluateSLAClockPrecedence(t *testing.T) {
	now := int64(1_700_000_000)

	// Latest report beats last collection as the clock start
	reportAt := now - 2*3600
	report := models.Report{BinID: "bin-1", Status: models.ReportStatusHalf, CreatedAt: &reportAt}
	bin := models.Bin{
		ID:              "bin-1",
		LocationName:    "Depot 7",
		LastCollectedAt: i64(now - 30*3600),
		SLADuration:     intp(24),
	}

	sla := EvaluateSLA(bin, &report, now)
	if sla.ElapsedHours != 2 {
		t.Fatalf("elapsed = %v, want 2 (report timestamp should win)", sla.ElapsedHours)
	}
	if sla.Status != SLAOnTime {
		t.Errorf("status = %q, want %q", sla.Status, SLAOnTime)
	}

	// Without a report the collection timestamp is the clock start
	sla = EvaluateSLA(bin, nil, now)
	if sla.ElapsedHours != 30 {
		t.Fatalf("elapsed = %v, want 30", sla.ElapsedHours)
	}
	if sla.Status != SLABreached {
		t.Errorf("status = %q, want %q", sla.Status, SLABreached)
	}

	// Neither report nor collection: the clock starts now
	bin.LastCollectedAt = nil
	sla = EvaluateSLA(bin, nil, now)
	if sla.ElapsedHours != 0 {
		t.Fatalf("elapsed = %v, want 0", sla.ElapsedHours)
	}
	if sla.Status != SLAOnTime {
		t.Errorf("status = %q, want %q", sla.Status, SLAOnTime)
	}
}

func TestEvaluateSLADurationFallback(t *testing.T) {
	now := int64(1_700_000_000)

	// No explicit duration: the location category default applies
	bin := models.Bin{ID: "bin-1", LocationName: "Central Park", LastCollectedAt: i64(now - 13*3600)}
	sla := EvaluateSLA(bin, nil, now)
	if sla.SLADuration != 12 {
		t.Fatalf("sla duration = %d, want 12 (park default)", sla.SLADuration)
	}
	if sla.Status != SLABreached {
		t.Errorf("status = %q, want %q", sla.Status, SLABreached)
	}

	// Zero duration is invalid and also falls back
	bin.SLADuration = intp(0)
	sla = EvaluateSLA(bin, nil, now)
	if sla.SLADuration != 12 {
		t.Fatalf("sla duration = %d, want 12 when explicit duration is 0", sla.SLADuration)
	}
}

func TestEvaluateSLAClampsOutputs(t *testing.T) {
	now := int64(1_700_000_000)

	// Far past the deadline: remaining floors at 0, progress caps at 100, but
	// status still reflects the breach
	bin := models.Bin{ID: "bin-1", LocationName: "Depot 7", LastCollectedAt: i64(now - 100*3600), SLADuration: intp(24)}
	sla := EvaluateSLA(bin, nil, now)
	if sla.Status != SLABreached {
		t.Fatalf("status = %q, want %q", sla.Status, SLABreached)
	}
	if sla.RemainingHours != 0 {
		t.Errorf("remaining = %v, want 0", sla.RemainingHours)
	}
	if sla.ProgressPercent != 100 {
		t.Errorf("progress = %v, want 100", sla.ProgressPercent)
	}

	// Clock start in the future clamps elapsed and progress to 0
	bin.LastCollectedAt = i64(now + 3600)
	sla = EvaluateSLA(bin, nil, now)
	if sla.ElapsedHours != 0 {
		t.Errorf("elapsed = %v, want 0", sla.ElapsedHours)
	}
	if sla.ProgressPercent != 0 {
		t.Errorf("progress = %v, want 0", sla.ProgressPercent)
	}
	if sla.Status != SLAOnTime {
		t.Errorf("status = %q, want %q", sla.Status, SLAOnTime)
	}
}

func TestLatestReport(t *testing.T) {
	now := int64(1_700_000_000)
	old := now - 10*3600
	newer := now - 1*3600

	reports := []models.Report{
		{ID: "r1", BinID: "bin-1", Status: models.ReportStatusHalf, CreatedAt: &old},
		{ID: "r2", BinID: "bin-1", Status: models.ReportStatusFull, CreatedAt: nil},
		{ID: "r3", BinID: "bin-1", Status: models.ReportStatusFull, CreatedAt: &newer},
	}

	latest := LatestReport(reports)
	if latest == nil || latest.ID != "r3" {
		t.Fatalf("latest = %+v, want r3", latest)
	}

	if got := LatestReport(nil); got != nil {
		t.Errorf("LatestReport(nil) = %+v, want nil", got)
	}
	if got := LatestReport([]models.Report{{ID: "r4", CreatedAt: nil}}); got != nil {
		t.Errorf("reports without timestamps should yield nil, got %+v", got)
	}
}

func TestZoneBreachCounts(t *testing.T) {
	now := int64(1_700_000_000)

	bins := []models.Bin{
		{ID: "a", LocationName: "Depot 1", Zone: "downtown", LastCollectedAt: i64(now - 30*3600), SLADuration: intp(24)},
		{ID: "b", LocationName: "Depot 2", Zone: "downtown", LastCollectedAt: i64(now - 1*3600), SLADuration: intp(24)},
		{ID: "c", LocationName: "Depot 3", Zone: "", LastCollectedAt: i64(now - 50*3600), SLADuration: intp(24)},
		{ID: "d", LocationName: "Depot 4", Zone: "west", LastCollectedAt: i64(now - 2*3600), SLADuration: intp(24)},
	}

	counts := ZoneBreachCounts(bins, nil, now)

	if counts["downtown"] != 1 {
		t.Errorf("downtown = %d, want 1", counts["downtown"])
	}
	if counts["default"] != 1 {
		t.Errorf("default = %d, want 1 (empty zone falls back)", counts["default"])
	}
	if got, ok := counts["west"]; !ok || got != 0 {
		t.Errorf("west = %d (present %v), want 0 and present", got, ok)
	}
}

func TestGroupReportsByBin(t *testing.T) {
	now := int64(1_700_000_000)
	reports := []models.Report{
		{ID: "r1", BinID: "a", CreatedAt: &now},
		{ID: "r2", BinID: "b", CreatedAt: &now},
		{ID: "r3", BinID: "a", CreatedAt: &now},
	}

	byBin := GroupReportsByBin(reports)
	if len(byBin["a"]) != 2 || len(byBin["b"]) != 1 {
		t.Fatalf("grouping = a:%d b:%d, want a:2 b:1", len(byBin["a"]), len(byBin["b"]))
	}
	if byBin["a"][0].ID != "r1" || byBin["a"][1].ID != "r3" {
		t.Errorf("input order not preserved within bin: %v", byBin["a"])
	}
}
