package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/wayplan/backend/pkg/assistant"
	pkgerrors "github.com/wayplan/backend/pkg/errors"
	"github.com/wayplan/backend/pkg/metrics"
)

// Service defines the behavior needed by the assist controller.
type Service interface {
	Suggestions(ctx context.Context, req SuggestionsRequest) (*SuggestionsResponse, error)
	Autofill(ctx context.Context, req AutofillRequest) (*AutofillResponse, error)
	Itinerary(ctx context.Context, req ItineraryRequest) (*ItineraryResponse, error)
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type completer interface {
	Complete(ctx context.Context, messages []assistant.Message) (string, error)
	CompleteJSON(ctx context.Context, messages []assistant.Message, schema assistant.JSONSchema, out any) error
}

// ServiceParams bundles the dependencies required to build an assist service.
type ServiceParams struct {
	Client  completer
	Metrics *metrics.APIMetrics
}

type service struct {
	client    completer
	collector *metrics.APIMetrics
}

// NewService constructs an assist service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("assistant client is required")
	}
	return &service{client: params.Client, collector: params.Metrics}, nil
}

func (s *service) Suggestions(ctx context.Context, req SuggestionsRequest) (*SuggestionsResponse, error) {
	messages := []assistant.Message{
		{Role: "user", Content: buildSuggestionsPrompt(req.Trip)},
	}

	var resp SuggestionsResponse
	if err := s.client.CompleteJSON(ctx, messages, suggestionsSchema, &resp); err != nil {
		return nil, err
	}

	s.observe("suggestions")
	return &resp, nil
}

func (s *service) Autofill(ctx context.Context, req AutofillRequest) (*AutofillResponse, error) {
	messages := []assistant.Message{
		{Role: "user", Content: buildAutofillPrompt(req)},
	}

	var resp AutofillResponse
	if err := s.client.CompleteJSON(ctx, messages, autofillSchema, &resp); err != nil {
		return nil, err
	}
	if !validClockTime(resp.SuggestedStartTime) || !validClockTime(resp.SuggestedEndTime) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "assistant returned malformed times")
	}

	s.observe("autofill")
	return &resp, nil
}

func (s *service) Itinerary(ctx context.Context, req ItineraryRequest) (*ItineraryResponse, error) {
	messages := []assistant.Message{
		{Role: "user", Content: buildItineraryPrompt(req)},
	}

	var resp ItineraryResponse
	if err := s.client.CompleteJSON(ctx, messages, itinerarySchema, &resp); err != nil {
		return nil, err
	}

	s.observe("itinerary")
	return &resp, nil
}

func (s *service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	messages := make([]assistant.Message, 0, len(req.History)+2)
	messages = append(messages, assistant.Message{
		Role:    "system",
		Content: buildChatSystemPrompt(req.Trip, req.Activities),
	})
	for _, turn := range req.History {
		messages = append(messages, assistant.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, assistant.Message{Role: "user", Content: req.Message})

	reply, err := s.client.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	s.observe("chat")
	return &ChatResponse{Reply: reply}, nil
}

func (s *service) observe(kind string) {
	if s.collector != nil {
		s.collector.IncAssistRequests(kind)
	}
}

// validClockTime accepts HH:MM in 24-hour format.
func validClockTime(value string) bool {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	hour := (int(parts[0][0]-'0') * 10) + int(parts[0][1]-'0')
	minute := (int(parts[1][0]-'0') * 10) + int(parts[1][1]-'0')
	for _, r := range parts[0] + parts[1] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}
