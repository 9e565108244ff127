package controllers

import (
	"net/http"

	"github.com/wayplan/backend/api/responses"
	"github.com/wayplan/backend/api/validators"
	"github.com/wayplan/backend/internal/geo"
	"github.com/wayplan/backend/pkg/logger"
)

// GeoController proxies geocoding and timezone lookups.
type GeoController struct {
	service geo.Service
	logg    *logger.Logger
}

func NewGeoController(service geo.Service, logg *logger.Logger) *GeoController {
	return &GeoController{service: service, logg: logg}
}

func (c *GeoController) Geocode(w http.ResponseWriter, r *http.Request) {
	var req geo.GeocodeRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.service.Geocode(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

func (c *GeoController) Timezone(w http.ResponseWriter, r *http.Request) {
	var req geo.TimezoneRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.service.Timezone(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}
