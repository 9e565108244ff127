package geo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wayplan/backend/pkg/maps"
	"github.com/wayplan/backend/pkg/metrics"
)

// GeocodeRequest carries a free-form address to resolve.
type GeocodeRequest struct {
	Address string `json:"address" validate:"required,min=1,max=500"`
}

// GeocodeResponse is the normalized first match for an address.
type GeocodeResponse struct {
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Country    string   `json:"country"`
	City       string   `json:"city"`
	Address    string   `json:"address"`
	Categories []string `json:"categories"`
}

// TimezoneRequest carries the coordinates to resolve.
type TimezoneRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// TimezoneResponse carries the raw UTC offset in milliseconds. Clients store
// the string verbatim on trips and activities.
type TimezoneResponse struct {
	Timezone string `json:"timezone"`
}

// Service defines the behavior needed by the geo controller.
type Service interface {
	Geocode(ctx context.Context, req GeocodeRequest) (*GeocodeResponse, error)
	Timezone(ctx context.Context, req TimezoneRequest) (*TimezoneResponse, error)
}

type geoClient interface {
	Geocode(ctx context.Context, address string) (*maps.GeocodeResult, error)
	Timezone(ctx context.Context, latitude, longitude float64) (*maps.TimezoneResult, error)
}

// ServiceParams bundles the dependencies required to build a geo service.
type ServiceParams struct {
	Client  geoClient
	Metrics *metrics.APIMetrics
}

type service struct {
	client    geoClient
	collector *metrics.APIMetrics
}

// NewService constructs a geo service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("maps client is required")
	}
	return &service{client: params.Client, collector: params.Metrics}, nil
}

func (s *service) Geocode(ctx context.Context, req GeocodeRequest) (*GeocodeResponse, error) {
	result, err := s.client.Geocode(ctx, req.Address)
	if err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.IncGeoLookups("geocode")
	}
	return &GeocodeResponse{
		Latitude:   result.Latitude,
		Longitude:  result.Longitude,
		Country:    result.Country,
		City:       result.City,
		Address:    result.Address,
		Categories: result.Categories,
	}, nil
}

func (s *service) Timezone(ctx context.Context, req TimezoneRequest) (*TimezoneResponse, error) {
	result, err := s.client.Timezone(ctx, req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.IncGeoLookups("timezone")
	}

	// offset is stored as milliseconds, stringified
	offsetMs := result.RawOffsetSeconds * 1000
	return &TimezoneResponse{Timezone: strconv.FormatInt(offsetMs, 10)}, nil
}
