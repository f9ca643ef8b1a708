package models

import (
	"encoding/json"
	"time"
)

// ItineraryCore is the field set shared by trips and the posts cloned from
// them. Keeping it in one place stops the two record shapes drifting apart.
type ItineraryCore struct {
	Title            string          `db:"title" json:"title"`
	ImageURL         string          `db:"image_url" json:"image_url"`
	Location         string          `db:"location" json:"location"`
	ViewDetails      bool            `db:"view_details" json:"view_details"`
	Share            bool            `db:"share" json:"share"`
	IsSaved          bool            `db:"is_saved" json:"is_saved"`
	IsShared         bool            `db:"is_shared" json:"is_shared"`
	RegeneratePlan   bool            `db:"regenerate_plan" json:"regenerate_plan"`
	DurationDays     int             `db:"duration_days" json:"duration_days"`
	DurationNights   int             `db:"duration_nights" json:"duration_nights"`
	SpotsCount       int             `db:"spots_count" json:"spots_count"`
	Categories       []string        `db:"categories" json:"categories"`
	Description      string          `db:"description" json:"description"`
	SummaryItinerary []ItineraryDay  `db:"summary_itinerary" json:"summary_itinerary"`
	Details          json.RawMessage `db:"details" json:"details"`
}

// ItineraryDay is one entry of summary_itinerary, e.g.
// {"day": "Day 1", "title": "Historical Landmarks", "activities": ["..."]}.
type ItineraryDay struct {
	Day        string   `json:"day"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
}

type Trip struct {
	ID int64 `db:"id" json:"id"`
	ItineraryCore
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy *int64    `db:"created_by" json:"created_by"`
	UpdatedBy *int64    `db:"updated_by" json:"updated_by"`
}

// DefaultCore returns the flag defaults a fresh record starts from:
// everything on except is_shared.
func DefaultCore() ItineraryCore {
	return ItineraryCore{
		ViewDetails:    true,
		Share:          true,
		IsSaved:        true,
		IsShared:       false,
		RegeneratePlan: true,
	}
}
