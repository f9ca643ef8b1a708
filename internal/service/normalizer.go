package service

import (
	"encoding/json"

	"github.com/wanderhq/tour-api/internal/transfer"
)

// FlattenTripPayload reduces a creation/update body to the flat record shape.
//
// A body carrying both "trip" and "details" keys is the nested client form:
// trip.duration.{days,nights} become duration_days/duration_nights,
// trip.buttons.{view_details,share,save,regenerate_plan} become the four
// flags (save -> is_saved), every other trip key is copied verbatim and the
// details object is attached whole. Any other body is taken as already flat.
//
// Both forms then drop every value that is exactly "" or the string "0".
// That is a lossy quirk the mobile client relies on: a legitimate empty
// string or a literal "0" can never be persisted through this path. Numeric
// zero is unaffected.
func FlattenTripPayload(data map[string]any) map[string]any {
	flattened := data

	_, hasTrip := data["trip"]
	_, hasDetails := data["details"]
	if hasTrip && hasDetails {
		tripData, _ := data["trip"].(map[string]any)
		flattened = make(map[string]any, len(tripData)+1)
		for key, value := range tripData {
			switch {
			case key == "duration":
				if duration, ok := value.(map[string]any); ok {
					flattened["duration_days"] = valueOr(duration, "days", float64(0))
					flattened["duration_nights"] = valueOr(duration, "nights", float64(0))
				} else {
					flattened[key] = value
				}
			case key == "buttons":
				if buttons, ok := value.(map[string]any); ok {
					flattened["view_details"] = valueOr(buttons, "view_details", true)
					flattened["share"] = valueOr(buttons, "share", true)
					flattened["is_saved"] = valueOr(buttons, "save", true)
					flattened["regenerate_plan"] = valueOr(buttons, "regenerate_plan", true)
				} else {
					flattened[key] = value
				}
			default:
				flattened[key] = value
			}
		}
		flattened["details"] = data["details"]
	}

	filtered := make(map[string]any, len(flattened))
	for key, value := range flattened {
		if s, ok := value.(string); ok && (s == "" || s == "0") {
			continue
		}
		filtered[key] = value
	}
	return filtered
}

// NormalizeTripPayload decodes a raw body, flattens it and types the result.
func NormalizeTripPayload(body []byte) (*transfer.TripFields, error) {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, validationf("Invalid request body")
	}

	filtered := FlattenTripPayload(data)

	buf, err := json.Marshal(filtered)
	if err != nil {
		return nil, validationf("Invalid request body")
	}
	var fields transfer.TripFields
	if err := json.Unmarshal(buf, &fields); err != nil {
		return nil, validationf("Invalid request body")
	}
	return &fields, nil
}

func valueOr(m map[string]any, key string, fallback any) any {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}
