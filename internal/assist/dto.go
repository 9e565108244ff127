package assist

// TripContext describes the destination the assistant reasons about.
type TripContext struct {
	Country      string  `json:"country" validate:"required,max=100"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
	NumberOfDays *int    `json:"number_of_days,omitempty" validate:"omitempty,gte=1,lte=60"`
}

// SuggestionsRequest asks for activity ideas for a destination.
type SuggestionsRequest struct {
	Trip TripContext `json:"trip" validate:"required"`
}

// Suggestion is one proposed activity.
type Suggestion struct {
	Name              string   `json:"name"`
	Notes             string   `json:"notes"`
	EstimatedDuration string   `json:"estimated_duration"`
	Categories        []string `json:"categories"`
	TimeOfDay         string   `json:"time_of_day"`
}

// SuggestionsResponse is the assistant's list of ideas.
type SuggestionsResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// AutofillRequest names a place to fill in details for.
type AutofillRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=200"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Country string  `json:"country" validate:"required,max=100"`
}

// AutofillResponse carries the generated details. Times are HH:MM, 24-hour.
type AutofillResponse struct {
	Notes              string   `json:"notes"`
	Categories         []string `json:"categories"`
	SuggestedStartTime string   `json:"suggested_start_time"`
	SuggestedEndTime   string   `json:"suggested_end_time"`
}

// ItineraryActivity is one existing activity the optimizer orders.
type ItineraryActivity struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Categories []string `json:"categories,omitempty"`
	AvgScore   float64  `json:"avg_score"`
}

// ItineraryRequest asks for an optimized ordering of a trip's activities.
type ItineraryRequest struct {
	Trip       TripContext         `json:"trip" validate:"required"`
	Activities []ItineraryActivity `json:"activities" validate:"required,min=1,dive"`
}

// ItineraryEntry is one slot in the optimized ordering.
type ItineraryEntry struct {
	ActivityID        string `json:"activity_id"`
	ActivityName      string `json:"activity_name"`
	SuggestedDate     string `json:"suggested_date"`
	SuggestedTimeSlot string `json:"suggested_time_slot"`
	Reasoning         string `json:"reasoning"`
}

// ItineraryResponse is the full optimized plan.
type ItineraryResponse struct {
	OptimizedOrder   []ItineraryEntry `json:"optimized_order"`
	OverallReasoning string           `json:"overall_reasoning"`
}

// ChatMessage is one turn of the travel chat.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest is the user's message plus optional history and trip context.
type ChatRequest struct {
	Message    string        `json:"message" validate:"required,min=1,max=4000"`
	History    []ChatMessage `json:"history,omitempty" validate:"omitempty,dive"`
	Trip       *TripContext  `json:"trip,omitempty"`
	Activities []string      `json:"activities,omitempty"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}
