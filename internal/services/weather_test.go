package services

import (
	"testing"
	"time"

	"binwatch-backend/internal/models"
)

func TestSimulateWeatherRanges(t *testing.T) {
	for _, month := range []time.Month{time.January, time.July} {
		now := time.Date(2026, month, 15, 14, 0, 0, 0, time.UTC)
		for i := 0; i < 50; i++ {
			w := simulateWeather(now)
			if w.Humidity < 0 || w.Humidity > 100 {
				t.Fatalf("humidity = %v, outside [0, 100]", w.Humidity)
			}
			if w.Temperature < 20 || w.Temperature > 35 {
				t.Fatalf("temperature = %v, outside [20, 35]", w.Temperature)
			}
			if w.Timestamp != now.Unix() {
				t.Fatalf("timestamp = %d, want %d", w.Timestamp, now.Unix())
			}
		}
	}
}

func TestWeatherServiceCachesReading(t *testing.T) {
	s := NewWeatherService()
	first := s.Current()
	second := s.Current()
	if first != second {
		t.Fatalf("cached readings differ: %+v vs %+v", first, second)
	}
}

func TestIsWeatherCritical(t *testing.T) {
	tests := []struct {
		name    string
		weather models.Weather
		want    bool
	}{
		{"clear", models.Weather{Humidity: 50}, false},
		{"raining", models.Weather{IsRaining: true, Humidity: 50}, true},
		{"very humid", models.Weather{Humidity: 80}, true},
		{"borderline humidity", models.Weather{Humidity: 75}, false},
	}
	for _, tt := range tests {
		if got := IsWeatherCritical(tt.weather); got != tt.want {
			t.Errorf("%s: IsWeatherCritical = %v, want %v", tt.name, got, tt.want)
		}
	}
}
