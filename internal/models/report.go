package models

import "time"

// Report statuses submitted by citizens
const (
	ReportStatusEmpty = "empty"
	ReportStatusHalf  = "half"
	ReportStatusFull  = "full"
)

// Report is a citizen-submitted observation of one bin's fill state.
// Reports are immutable after submission; the engine only reads them.
type Report struct {
	ID               string  `json:"id" db:"id"`
	BinID            string  `json:"bin_id" db:"bin_id"`
	Status           string  `json:"status" db:"status"` // "empty", "half" or "full"
	CredibilityScore float64 `json:"credibility_score" db:"credibility_score"`
	Description      string  `json:"description" db:"description"`
	CreatedAt        *int64  `json:"created_at,omitempty" db:"created_at"` // Unix timestamp; nil reports are excluded from time windows
}

// ReportResponse is what we send to the client
type ReportResponse struct {
	ID               string  `json:"id"`
	BinID            string  `json:"binId"`
	Status           string  `json:"status"`
	CredibilityScore float64 `json:"credibilityScore"`
	Description      string  `json:"description,omitempty"`
	CreatedAtIso     string  `json:"createdAtIso,omitempty"`
}

// CreateReportRequest is the request body for POST /api/reports
type CreateReportRequest struct {
	BinID       string `json:"bin_id"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// ToReportResponse converts a Report to ReportResponse
func (r *Report) ToReportResponse() ReportResponse {
	resp := ReportResponse{
		ID:               r.ID,
		BinID:            r.BinID,
		Status:           r.Status,
		CredibilityScore: r.CredibilityScore,
		Description:      r.Description,
	}

	if r.CreatedAt != nil {
		resp.CreatedAtIso = time.Unix(*r.CreatedAt, 0).Format(time.RFC3339)
	}

	return resp
}

// IsValidReportStatus reports whether s is a known fill status
func IsValidReportStatus(s string) bool {
	return s == ReportStatusEmpty || s == ReportStatusHalf || s == ReportStatusFull
}
