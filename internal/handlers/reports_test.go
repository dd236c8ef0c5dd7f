package handlers

import (
	"testing"

	"binwatch-backend/internal/models"
)

func reportWithStatus(status string) models.Report {
	return models.Report{Status: status}
}

func TestCredibilityScore(t *testing.T) {
	mk := func(statuses ...string) []models.Report {
		reports := make([]models.Report, len(statuses))
		for i, s := range statuses {
			reports[i] = reportWithStatus(s)
		}
		return reports
	}

	tests := []struct {
		name   string
		recent []models.Report
		status string
		want   float64
	}{
		{"first report on a bin", nil, "full", 0.7},
		{"agrees with single prior", mk("full"), "full", 0.55},
		{"agrees with strong consensus", mk("full", "full", "full", "full"), "full", 0.7},
		{"agreement caps at 0.9", mk("full", "full", "full", "full", "full", "full", "full", "full", "full", "full"), "full", 0.9},
		{"disagrees with single prior", mk("full"), "empty", 0.65},
		{"disagrees with strong consensus", mk("full", "full", "full", "full"), "empty", 0.5},
		{"disagreement floors at 0.3", mk("full", "full", "full", "full", "full", "full", "full", "full", "full", "full"), "empty", 0.3},
		{"majority decides agreement", mk("full", "full", "half"), "full", 0.65},
		{"minority counts as disagreement", mk("full", "full", "half"), "half", 0.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := credibilityScore(tt.recent, tt.status)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("credibilityScore = %v, want %v", got, tt.want)
			}
		})
	}
}
