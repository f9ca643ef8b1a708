package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenTripPayload_NestedForm(t *testing.T) {
	data := map[string]any{
		"trip": map[string]any{
			"title":    "Rome Weekend",
			"location": "Rome",
			"duration": map[string]any{
				"days":   float64(3),
				"nights": float64(2),
			},
			"buttons": map[string]any{
				"view_details":    true,
				"share":           false,
				"save":            false,
				"regenerate_plan": true,
			},
			"spots_count": float64(7),
		},
		"details": map[string]any{
			"static_map":       map[string]any{"url": "https://maps.example/rome"},
			"tour_spots_title": "Top spots",
		},
	}

	out := FlattenTripPayload(data)

	assert.Equal(t, "Rome Weekend", out["title"])
	assert.Equal(t, "Rome", out["location"])
	assert.Equal(t, float64(3), out["duration_days"])
	assert.Equal(t, float64(2), out["duration_nights"])
	assert.Equal(t, true, out["view_details"])
	assert.Equal(t, false, out["share"])
	assert.Equal(t, false, out["is_saved"])
	assert.Equal(t, true, out["regenerate_plan"])
	assert.Equal(t, float64(7), out["spots_count"])
	assert.Equal(t, data["details"], out["details"])

	// the nested wrappers never survive flattening
	assert.NotContains(t, out, "duration")
	assert.NotContains(t, out, "buttons")
	assert.NotContains(t, out, "trip")
}

func TestFlattenTripPayload_NestedDefaults(t *testing.T) {
	data := map[string]any{
		"trip": map[string]any{
			"title":    "Kyoto",
			"duration": map[string]any{},
			"buttons":  map[string]any{"share": false},
		},
		"details": map[string]any{},
	}

	out := FlattenTripPayload(data)

	// missing duration keys fall back to zero, missing buttons to true
	assert.Equal(t, float64(0), out["duration_days"])
	assert.Equal(t, float64(0), out["duration_nights"])
	assert.Equal(t, true, out["view_details"])
	assert.Equal(t, false, out["share"])
	assert.Equal(t, true, out["is_saved"])
	assert.Equal(t, true, out["regenerate_plan"])
}

func TestFlattenTripPayload_FlatPassthrough(t *testing.T) {
	data := map[string]any{
		"title":         "Paris",
		"duration_days": float64(2),
	}

	out := FlattenTripPayload(data)

	assert.Equal(t, "Paris", out["title"])
	assert.Equal(t, float64(2), out["duration_days"])
}

func TestFlattenTripPayload_DropsUnsetSentinels(t *testing.T) {
	data := map[string]any{
		"title":       "Lisbon",
		"location":    "",
		"image_url":   "0",
		"spots_count": float64(0), // numeric zero is not a sentinel
		"description": "00",       // only the exact string "0" is
	}

	out := FlattenTripPayload(data)

	assert.NotContains(t, out, "location")
	assert.NotContains(t, out, "image_url")
	assert.Equal(t, float64(0), out["spots_count"])
	assert.Equal(t, "00", out["description"])
	assert.Equal(t, "Lisbon", out["title"])
}

func TestFlattenTripPayload_RenormalizingIsNoop(t *testing.T) {
	data := map[string]any{
		"trip": map[string]any{
			"title":    "Oslo",
			"duration": map[string]any{"days": float64(4), "nights": float64(3)},
			"buttons":  map[string]any{},
			"bad":      "",
		},
		"details": map[string]any{"days": []any{}},
	}

	once := FlattenTripPayload(data)
	twice := FlattenTripPayload(once)

	assert.Equal(t, once, twice)
}

func TestNormalizeTripPayload_TypedDecode(t *testing.T) {
	body := []byte(`{
		"trip": {
			"title": "Rome Weekend",
			"duration": {"days": 3, "nights": 2},
			"buttons": {"save": false},
			"categories": ["History", "Food"],
			"summary_itinerary": [{"day": "Day 1", "title": "Landmarks", "activities": ["Colosseum"]}]
		},
		"details": {"tour_spots_title": "Top spots"}
	}`)

	fields, err := NormalizeTripPayload(body)
	require.NoError(t, err)

	require.NotNil(t, fields.Title)
	assert.Equal(t, "Rome Weekend", *fields.Title)
	require.NotNil(t, fields.DurationDays)
	assert.Equal(t, 3, *fields.DurationDays)
	require.NotNil(t, fields.DurationNights)
	assert.Equal(t, 2, *fields.DurationNights)
	require.NotNil(t, fields.IsSaved)
	assert.False(t, *fields.IsSaved)
	require.NotNil(t, fields.ViewDetails)
	assert.True(t, *fields.ViewDetails)
	assert.Equal(t, []string{"History", "Food"}, fields.Categories)
	require.Len(t, fields.SummaryItinerary, 1)
	assert.Equal(t, "Day 1", fields.SummaryItinerary[0].Day)

	var details map[string]any
	require.NoError(t, json.Unmarshal(fields.Details, &details))
	assert.Equal(t, "Top spots", details["tour_spots_title"])

	// fields never sent stay nil
	assert.Nil(t, fields.IsShared)
	assert.Nil(t, fields.Location)
}

func TestNormalizeTripPayload_InvalidBody(t *testing.T) {
	_, err := NormalizeTripPayload([]byte(`not json`))
	assert.ErrorIs(t, err, ErrValidation)
}
