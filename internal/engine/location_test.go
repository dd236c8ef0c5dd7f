package engine

import "testing"

func TestClassifyLocationCategories(t *testing.T) {
	tests := []struct {
		name     string
		location string
		category string
		weight   float64
		slaHours int
	}{
		{"park keyword", "Riverside Park North", "park", 1.2, 12},
		{"beach keyword", "Santana Beach Promenade", "park", 1.2, 12},
		{"tourist keyword", "Tourist Info Plaza", "park", 1.2, 12},
		{"residential keyword", "Willow Residential Block", "residential", 1.1, 24},
		{"apartment keyword", "Oakwood Apartment Complex", "residential", 1.1, 24},
		{"office keyword", "Tech Office Tower", "office", 0.9, 36},
		{"commercial keyword", "Commercial District East", "office", 0.9, 36},
		{"mall keyword", "Valley Mall Entrance", "shopping", 1.0, 24},
		{"market keyword", "Farmers Market Square", "shopping", 1.0, 24},
		{"food keyword", "Food Court Alley", "food", 1.0, 24},
		{"cafe keyword", "Cafe Row", "food", 1.0, 24},
		{"no keyword", "Depot 7", "general", 1.0, 24},
		{"case insensitive", "CENTRAL PARK EAST", "park", 1.2, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := ClassifyLocation(tt.location, 10)
			if profile.Category != tt.category {
				t.Fatalf("category = %q, want %q", profile.Category, tt.category)
			}
			if profile.Weight != tt.weight {
				t.Errorf("weight = %v, want %v", profile.Weight, tt.weight)
			}
			if profile.SLAHours != tt.slaHours {
				t.Errorf("sla hours = %d, want %d", profile.SLAHours, tt.slaHours)
			}
		})
	}
}

func TestClassifyLocationPriorityOrder(t *testing.T) {
	// Multiple keywords match; the category order decides, not text position.
	tests := []struct {
		location string
		category string
	}{
		{"Apartment Park Lane", "park"},           // park beats residential
		{"Office Apartment Building", "residential"}, // residential beats office
		{"Mall Office Wing", "office"},            // office beats shopping
		{"Market Food Stalls", "shopping"},        // shopping beats food
	}

	for _, tt := range tests {
		profile := ClassifyLocation(tt.location, 10)
		if profile.Category != tt.category {
			t.Errorf("ClassifyLocation(%q) = %q, want %q", tt.location, profile.Category, tt.category)
		}
	}
}

func TestCrowdMultiplierByPeriod(t *testing.T) {
	tests := []struct {
		name     string
		location string
		hour     int
		want     float64
	}{
		{"park morning", "Central Park", 8, 0.7 * 1.3},
		{"park evening", "Central Park", 19, 1.0 * 1.3},
		{"office morning", "Office Tower", 9, 0.7 * 1.2},
		{"office evening", "Office Tower", 20, 0.6},
		{"food afternoon", "Food Court", 14, 0.9 * 1.5},
		{"food morning", "Food Court", 7, 0.7 * 0.8},
		{"general evening", "Depot 7", 19, 1.0},
		{"general night floors at 0.3", "Depot 7", 2, 0.3},
		{"shopping afternoon clamps at 1.5", "Valley Mall", 14, 0.9 * 1.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CrowdMultiplier(tt.location, tt.hour)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("CrowdMultiplier(%q, %d) = %v, want %v", tt.location, tt.hour, got, tt.want)
			}
		})
	}
}

func TestCrowdMultiplierClamped(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for _, location := range []string{"Central Park", "Food Court", "Office Tower", "Depot 7"} {
			m := CrowdMultiplier(location, hour)
			if m < 0.3 || m > 1.5 {
				t.Errorf("CrowdMultiplier(%q, %d) = %v, outside [0.3, 1.5]", location, hour, m)
			}
		}
	}
}

func TestCrowdRiskBoost(t *testing.T) {
	tests := []struct {
		name     string
		location string
		hour     int
		want     int
	}{
		{"high traffic", "Food Court", 14, 12},   // 1.35 > 1.2
		{"medium traffic", "Central Park", 14, 6}, // 1.17 > 1.0
		{"neutral", "Depot 7", 19, 0},             // exactly 1.0
		{"low traffic", "Depot 7", 2, -5},         // 0.3 < 0.7
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CrowdRiskBoost(tt.location, tt.hour); got != tt.want {
				t.Fatalf("CrowdRiskBoost(%q, %d) = %d, want %d", tt.location, tt.hour, got, tt.want)
			}
		})
	}
}

func TestCrowdIntensityLabel(t *testing.T) {
	tests := []struct {
		location string
		hour     int
		want     string
	}{
		{"Food Court", 14, "High"},    // 1.35
		{"Central Park", 14, "Medium"}, // 1.17
		{"Depot 7", 19, "Low"},         // 1.0
		{"Depot 7", 2, "Very Low"},     // 0.3
	}

	for _, tt := range tests {
		if got := CrowdIntensityLabel(tt.location, tt.hour); got != tt.want {
			t.Errorf("CrowdIntensityLabel(%q, %d) = %q, want %q", tt.location, tt.hour, got, tt.want)
		}
	}
}

func TestDefaultSLADuration(t *testing.T) {
	if got := DefaultSLADuration("Central Park"); got != 12 {
		t.Errorf("park SLA = %d, want 12", got)
	}
	if got := DefaultSLADuration("Office Tower"); got != 36 {
		t.Errorf("office SLA = %d, want 36", got)
	}
	if got := DefaultSLADuration("Depot 7"); got != 24 {
		t.Errorf("general SLA = %d, want 24", got)
	}
}
