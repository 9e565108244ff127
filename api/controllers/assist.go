package controllers

import (
	"net/http"

	"github.com/wayplan/backend/api/responses"
	"github.com/wayplan/backend/api/validators"
	"github.com/wayplan/backend/internal/assist"
	"github.com/wayplan/backend/pkg/logger"
)

// AssistController exposes the AI planning endpoints.
type AssistController struct {
	service assist.Service
	logg    *logger.Logger
}

func NewAssistController(service assist.Service, logg *logger.Logger) *AssistController {
	return &AssistController{service: service, logg: logg}
}

func (c *AssistController) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req assist.SuggestionsRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.service.Suggestions(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

func (c *AssistController) Autofill(w http.ResponseWriter, r *http.Request) {
	var req assist.AutofillRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.service.Autofill(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

func (c *AssistController) Itinerary(w http.ResponseWriter, r *http.Request) {
	var req assist.ItineraryRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.service.Itinerary(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

func (c *AssistController) Chat(w http.ResponseWriter, r *http.Request) {
	var req assist.ChatRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.service.Chat(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}
