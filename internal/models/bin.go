package models

import "time"

type Bin struct {
	ID              string   `json:"id" db:"id"`
	LocationName    string   `json:"location_name" db:"location_name"`
	Zone            string   `json:"zone" db:"zone"`
	Latitude        *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude       *float64 `json:"longitude,omitempty" db:"longitude"`
	LastCollectedAt *int64   `json:"last_collected_at,omitempty" db:"last_collected_at"` // Unix timestamp, nil = never observed
	OverflowCount   int      `json:"overflow_count" db:"overflow_count"`
	SLADuration     *int     `json:"sla_duration,omitempty" db:"sla_duration"` // hours; nil = derived from location name
	RiskScore       int      `json:"risk_score" db:"risk_score"`               // last computed value, 0-100

	// Last computed SLA snapshot (written back by the SLA sweep)
	SLAStatus    *string  `json:"sla_status,omitempty" db:"sla_status"`
	SLAProgress  *float64 `json:"sla_progress,omitempty" db:"sla_progress"`
	SLACheckedAt *int64   `json:"sla_checked_at,omitempty" db:"sla_checked_at"`

	// Last computed overflow prediction (written back by the prediction sweep)
	WillOverflow       *bool    `json:"will_overflow,omitempty" db:"will_overflow"`
	OverflowConfidence *float64 `json:"overflow_confidence,omitempty" db:"overflow_confidence"`
	HoursUntilOverflow *int     `json:"hours_until_overflow,omitempty" db:"hours_until_overflow"`
	PredictedAt        *int64   `json:"predicted_at,omitempty" db:"predicted_at"`

	CreatedAt int64 `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt int64 `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// BinResponse is what we send to the client with ISO timestamps
type BinResponse struct {
	ID                 string   `json:"id"`
	LocationName       string   `json:"location_name"`
	Zone               string   `json:"zone"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	LastCollectedIso   *string  `json:"lastCollectedIso,omitempty"`
	OverflowCount      int      `json:"overflow_count"`
	SLADuration        *int     `json:"sla_duration,omitempty"`
	RiskScore          int      `json:"risk_score"`
	SLAStatus          *string  `json:"sla_status,omitempty"`
	SLAProgress        *float64 `json:"sla_progress,omitempty"`
	WillOverflow       *bool    `json:"will_overflow,omitempty"`
	OverflowConfidence *float64 `json:"overflow_confidence,omitempty"`
	HoursUntilOverflow *int     `json:"hours_until_overflow,omitempty"`
}

// CreateBinRequest is the request body for POST /api/bins
type CreateBinRequest struct {
	LocationName string   `json:"location_name"`
	Zone         string   `json:"zone"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	SLADuration  *int     `json:"sla_duration,omitempty"`
}

// UpdateBinRequest is the request body for PATCH /api/bins/:id
type UpdateBinRequest struct {
	LocationName *string  `json:"location_name,omitempty"`
	Zone         *string  `json:"zone,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	SLADuration  *int     `json:"sla_duration,omitempty"`
}

// ToBinResponse converts a Bin to BinResponse
func (b *Bin) ToBinResponse() BinResponse {
	resp := BinResponse{
		ID:                 b.ID,
		LocationName:       b.LocationName,
		Zone:               b.Zone,
		Latitude:           b.Latitude,
		Longitude:          b.Longitude,
		OverflowCount:      b.OverflowCount,
		SLADuration:        b.SLADuration,
		RiskScore:          b.RiskScore,
		SLAStatus:          b.SLAStatus,
		SLAProgress:        b.SLAProgress,
		WillOverflow:       b.WillOverflow,
		OverflowConfidence: b.OverflowConfidence,
		HoursUntilOverflow: b.HoursUntilOverflow,
	}

	if b.LastCollectedAt != nil {
		t := time.Unix(*b.LastCollectedAt, 0)
		iso := t.Format(time.RFC3339)
		resp.LastCollectedIso = &iso
	}

	return resp
}
