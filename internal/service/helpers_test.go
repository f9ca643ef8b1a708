package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderhq/tour-api/internal/models"
	"github.com/wanderhq/tour-api/internal/transfer"
)

func TestBuildMapURL(t *testing.T) {
	lat, lng := 41.9028, 12.4964

	withCoords := &models.Post{Latitude: &lat, Longitude: &lng}
	withCoords.Location = "Rome"
	url := BuildMapURL(withCoords)
	require.NotNil(t, url)
	assert.Equal(t, "https://www.google.com/maps?q=41.9028,12.4964", *url)

	withLocation := &models.Post{}
	withLocation.Location = "Rome, Italy"
	url = BuildMapURL(withLocation)
	require.NotNil(t, url)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=Rome%2C+Italy", *url)

	assert.Nil(t, BuildMapURL(&models.Post{}))
}

func TestAbsoluteURL(t *testing.T) {
	assert.Nil(t, absoluteURL("http://localhost:3000", ""))

	passthrough := absoluteURL("http://localhost:3000", "https://cdn.example/avatar.png")
	require.NotNil(t, passthrough)
	assert.Equal(t, "https://cdn.example/avatar.png", *passthrough)

	joined := absoluteURL("http://localhost:3000/", "/media/avatar.png")
	require.NotNil(t, joined)
	assert.Equal(t, "http://localhost:3000/media/avatar.png", *joined)
}

func TestApplyCoreFields(t *testing.T) {
	core := models.DefaultCore()
	core.Title = "Old"
	core.DurationDays = 5

	title := "New"
	shared := true
	fields := &transfer.TripFields{
		Title:    &title,
		IsShared: &shared,
	}

	applyCoreFields(&core, fields)

	assert.Equal(t, "New", core.Title)
	assert.True(t, core.IsShared)
	// untouched fields keep their values
	assert.Equal(t, 5, core.DurationDays)
	assert.True(t, core.ViewDetails)
}
