package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderhq/tour-api/internal/transfer"
)

func parseThrough(t *testing.T, contentType string, body *bytes.Buffer) *transfer.TripFields {
	t.Helper()

	var got *transfer.TripFields
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		fields, image, err := parsePostPayload(c)
		require.NoError(t, err)
		assert.Nil(t, image)
		got = fields
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	return got
}

func TestParsePostPayload_MultipartForm(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.WriteField("title", "Rome Weekend")
	w.WriteField("caption", "Best weekend ever")
	w.WriteField("location", "")     // unset sentinel
	w.WriteField("description", "0") // unset sentinel
	w.WriteField("is_shared", "true")
	w.WriteField("view_details", "false")
	w.WriteField("duration_days", "3")
	w.WriteField("duration_nights", "2")
	w.WriteField("spots_count", "0") // "0" means unset on this path too
	w.WriteField("latitude", "41.9028")
	w.WriteField("categories", "History")
	w.WriteField("categories", "Food")
	require.NoError(t, w.Close())

	got := parseThrough(t, w.FormDataContentType(), &body)

	require.NotNil(t, got.Title)
	assert.Equal(t, "Rome Weekend", *got.Title)
	require.NotNil(t, got.Caption)
	assert.Equal(t, "Best weekend ever", *got.Caption)
	assert.Nil(t, got.Location)
	assert.Nil(t, got.Description)
	require.NotNil(t, got.IsShared)
	assert.True(t, *got.IsShared)
	require.NotNil(t, got.ViewDetails)
	assert.False(t, *got.ViewDetails)
	require.NotNil(t, got.DurationDays)
	assert.Equal(t, 3, *got.DurationDays)
	require.NotNil(t, got.DurationNights)
	assert.Equal(t, 2, *got.DurationNights)
	assert.Nil(t, got.SpotsCount)
	require.NotNil(t, got.Latitude)
	assert.InDelta(t, 41.9028, *got.Latitude, 1e-9)
	assert.Nil(t, got.Longitude)
	assert.Equal(t, []string{"History", "Food"}, got.Categories)

	// fields the form never mentions stay unset
	assert.Nil(t, got.Share)
	assert.Nil(t, got.RegeneratePlan)
}

func TestParsePostPayload_JSONBody(t *testing.T) {
	body := bytes.NewBufferString(`{
		"trip": {
			"title": "Kyoto",
			"duration": {"days": 4, "nights": 3},
			"buttons": {"share": false}
		},
		"details": {"tour_spots_title": "Temples"}
	}`)

	got := parseThrough(t, "application/json", body)

	require.NotNil(t, got.Title)
	assert.Equal(t, "Kyoto", *got.Title)
	require.NotNil(t, got.DurationDays)
	assert.Equal(t, 4, *got.DurationDays)
	require.NotNil(t, got.Share)
	assert.False(t, *got.Share)
	require.NotNil(t, got.Details)
	assert.True(t, strings.Contains(string(got.Details), "Temples"))
}
