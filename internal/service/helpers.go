package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wanderhq/tour-api/internal/models"
	"github.com/wanderhq/tour-api/internal/transfer"
)

// applyCoreFields copies the sent fields onto the shared record shape.
func applyCoreFields(core *models.ItineraryCore, fields *transfer.TripFields) {
	if fields.Title != nil {
		core.Title = *fields.Title
	}
	if fields.ImageURL != nil {
		core.ImageURL = *fields.ImageURL
	}
	if fields.Location != nil {
		core.Location = *fields.Location
	}
	if fields.ViewDetails != nil {
		core.ViewDetails = *fields.ViewDetails
	}
	if fields.Share != nil {
		core.Share = *fields.Share
	}
	if fields.IsSaved != nil {
		core.IsSaved = *fields.IsSaved
	}
	if fields.IsShared != nil {
		core.IsShared = *fields.IsShared
	}
	if fields.RegeneratePlan != nil {
		core.RegeneratePlan = *fields.RegeneratePlan
	}
	if fields.DurationDays != nil {
		core.DurationDays = *fields.DurationDays
	}
	if fields.DurationNights != nil {
		core.DurationNights = *fields.DurationNights
	}
	if fields.SpotsCount != nil {
		core.SpotsCount = *fields.SpotsCount
	}
	if fields.Categories != nil {
		core.Categories = fields.Categories
	}
	if fields.Description != nil {
		core.Description = *fields.Description
	}
	if fields.SummaryItinerary != nil {
		core.SummaryItinerary = fields.SummaryItinerary
	}
	if fields.Details != nil {
		core.Details = fields.Details
	}
}

// BuildMapURL returns a Google Maps link for the post, preferring exact
// coordinates over a place-name search. Nil when neither is available.
func BuildMapURL(post *models.Post) *string {
	if post.Latitude != nil && post.Longitude != nil {
		u := fmt.Sprintf("https://www.google.com/maps?q=%v,%v", *post.Latitude, *post.Longitude)
		return &u
	}
	if post.Location != "" {
		u := "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(post.Location)
		return &u
	}
	return nil
}

// absoluteURL resolves stored file paths against the service base URL.
// Already-absolute URLs (e.g. Google avatars) pass through.
func absoluteURL(baseURL, path string) *string {
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return &path
	}
	u := strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	return &u
}
