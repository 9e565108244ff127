package assist

import (
	"encoding/json"

	"github.com/wayplan/backend/pkg/assistant"
)

var suggestionsSchema = assistant.JSONSchema{
	Name:   "activity_suggestions",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"suggestions": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"name": {"type": "string"},
						"notes": {"type": "string"},
						"estimated_duration": {"type": "string"},
						"categories": {"type": "array", "items": {"type": "string"}},
						"time_of_day": {"type": "string", "enum": ["morning", "afternoon", "evening"]}
					},
					"required": ["name", "notes", "estimated_duration", "categories", "time_of_day"],
					"additionalProperties": false
				}
			}
		},
		"required": ["suggestions"],
		"additionalProperties": false
	}`),
}

var autofillSchema = assistant.JSONSchema{
	Name:   "activity_autofill",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"notes": {"type": "string"},
			"categories": {"type": "array", "items": {"type": "string"}},
			"suggested_start_time": {"type": "string"},
			"suggested_end_time": {"type": "string"}
		},
		"required": ["notes", "categories", "suggested_start_time", "suggested_end_time"],
		"additionalProperties": false
	}`),
}

var itinerarySchema = assistant.JSONSchema{
	Name:   "optimized_itinerary",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"optimized_order": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"activity_id": {"type": "string"},
						"activity_name": {"type": "string"},
						"suggested_date": {"type": "string"},
						"suggested_time_slot": {"type": "string"},
						"reasoning": {"type": "string"}
					},
					"required": ["activity_id", "activity_name", "suggested_date", "suggested_time_slot", "reasoning"],
					"additionalProperties": false
				}
			},
			"overall_reasoning": {"type": "string"}
		},
		"required": ["optimized_order", "overall_reasoning"],
		"additionalProperties": false
	}`),
}
