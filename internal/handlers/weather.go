package handlers

import (
	"net/http"

	"binwatch-backend/internal/services"
	"binwatch-backend/pkg/utils"
)

// GetWeather returns the current cached weather reading
// GET /api/weather
func GetWeather(weather *services.WeatherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := weather.Current()

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"weather":  current,
			"critical": services.IsWeatherCritical(current),
		})
	}
}
