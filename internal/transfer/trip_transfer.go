package transfer

import (
	"encoding/json"

	"github.com/wanderhq/tour-api/internal/models"
)

// TripFields is the flat, optional-field shape every creation/update payload
// is reduced to. nil means "not sent" and leaves the stored value alone.
// Caption, latitude and longitude only apply to posts; the trip path
// ignores them.
type TripFields struct {
	Title            *string               `json:"title,omitempty"`
	ImageURL         *string               `json:"image_url,omitempty"`
	Location         *string               `json:"location,omitempty"`
	ViewDetails      *bool                 `json:"view_details,omitempty"`
	Share            *bool                 `json:"share,omitempty"`
	IsSaved          *bool                 `json:"is_saved,omitempty"`
	IsShared         *bool                 `json:"is_shared,omitempty"`
	RegeneratePlan   *bool                 `json:"regenerate_plan,omitempty"`
	DurationDays     *int                  `json:"duration_days,omitempty"`
	DurationNights   *int                  `json:"duration_nights,omitempty"`
	SpotsCount       *int                  `json:"spots_count,omitempty"`
	Categories       []string              `json:"categories,omitempty"`
	Description      *string               `json:"description,omitempty"`
	SummaryItinerary []models.ItineraryDay `json:"summary_itinerary,omitempty"`
	Details          json.RawMessage       `json:"details,omitempty"`
	Caption          *string               `json:"caption,omitempty"`
	Latitude         *float64              `json:"latitude,omitempty"`
	Longitude        *float64              `json:"longitude,omitempty"`
}

type TripListResponse struct {
	Trips         []*models.Trip `json:"trips"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalPages    int64          `json:"total_pages"`
	TotalElements int64          `json:"total_elements"`
}
