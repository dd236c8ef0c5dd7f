package services

import (
	"testing"

	"binwatch-backend/internal/engine"
	"binwatch-backend/internal/models"
)

func boolp(v bool) *bool { return &v }

func TestIsNewOverflowWarning(t *testing.T) {
	overflow := engine.Prediction{WillOverflow: true, Confidence: 0.9}
	calm := engine.Prediction{WillOverflow: false, Confidence: 0.5}

	tests := []struct {
		name     string
		snapshot *bool
		pred     engine.Prediction
		want     bool
	}{
		{"first overflow call on an unflagged bin", nil, overflow, true},
		{"overflow call after a clear snapshot", boolp(false), overflow, true},
		{"already flagged stays quiet", boolp(true), overflow, false},
		{"calm prediction never warns", nil, calm, false},
		{"calm prediction on a flagged bin never warns", boolp(true), calm, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := models.Bin{ID: "bin-1", LocationName: "Depot 7", WillOverflow: tt.snapshot}
			if got := isNewOverflowWarning(bin, tt.pred); got != tt.want {
				t.Fatalf("isNewOverflowWarning = %v, want %v", got, tt.want)
			}
		})
	}
}
