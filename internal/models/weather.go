package models

// Weather is an external environmental reading supplied to the engine per
// invocation. The engine never fetches weather itself.
type Weather struct {
	IsRaining   bool    `json:"is_raining"`
	Humidity    float64 `json:"humidity"`    // 0-100
	Temperature float64 `json:"temperature"` // celsius
	Timestamp   int64   `json:"timestamp"`   // Unix timestamp
}
