package services

import (
	"math/rand"
	"sync"
	"time"

	"binwatch-backend/internal/models"
)

const weatherCacheDuration = 30 * time.Minute

// WeatherService simulates an external weather feed. Readings are cached for
// 30 minutes so a fleet sweep sees one consistent reading. The cache lives
// here, outside the engine, which only ever receives weather as a parameter.
type WeatherService struct {
	mu        sync.Mutex
	cached    *models.Weather
	fetchedAt time.Time
}

func NewWeatherService() *WeatherService {
	return &WeatherService{}
}

// Current returns the cached reading, refreshing it when stale
func (s *WeatherService) Current() models.Weather {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.cached != nil && now.Sub(s.fetchedAt) < weatherCacheDuration {
		return *s.cached
	}

	weather := simulateWeather(now)
	s.cached = &weather
	s.fetchedAt = now
	return weather
}

// simulateWeather produces a plausible reading for the current season and
// hour. June through October counts as the rainy season.
func simulateWeather(now time.Time) models.Weather {
	month := int(now.Month())
	isRainySeason := month >= 6 && month <= 10

	baseRainChance := 0.1
	baseHumidity := 50.0
	if isRainySeason {
		baseRainChance = 0.3
		baseHumidity = 70.0
	}

	rainChance := baseRainChance + rand.Float64()*0.2
	humidity := baseHumidity + rand.Float64()*20 - 10
	if humidity < 0 {
		humidity = 0
	}
	if humidity > 100 {
		humidity = 100
	}

	return models.Weather{
		IsRaining:   rand.Float64() < rainChance,
		Humidity:    humidity,
		Temperature: 20 + rand.Float64()*15,
		Timestamp:   now.Unix(),
	}
}

// IsWeatherCritical reports whether conditions warrant accelerated collection
func IsWeatherCritical(weather models.Weather) bool {
	return weather.IsRaining || weather.Humidity > 75
}
