package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayplan/backend/api/responses"
	"github.com/wayplan/backend/api/validators"
	"github.com/wayplan/backend/internal/memberships"
	"github.com/wayplan/backend/internal/trips"
	"github.com/wayplan/backend/pkg/logger"
)

type joinRequest struct {
	JoinCode string `json:"join_code" validate:"required,min=1,max=32"`
}

// TripsController handles trip CRUD, join codes, and membership endpoints.
type TripsController struct {
	trips   trips.Service
	members memberships.Service
	logg    *logger.Logger
}

func NewTripsController(tripSvc trips.Service, memberSvc memberships.Service, logg *logger.Logger) *TripsController {
	return &TripsController{trips: tripSvc, members: memberSvc, logg: logg}
}

func (c *TripsController) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req trips.CreateRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	trip, err := c.trips.Create(r.Context(), userID, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, trip)
}

func (c *TripsController) Get(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	trip, err := c.trips.Get(r.Context(), tripID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, trip)
}

func (c *TripsController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	tripList, err := c.trips.ListMine(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, tripList)
}

// MyMemberships lists the caller's membership rows across all trips,
// including the role held on each.
func (c *TripsController) MyMemberships(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	rows, err := c.members.ListMine(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, rows)
}

func (c *TripsController) Delete(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.trips.Delete(r.Context(), tripID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"message": "trip deleted"})
}

func (c *TripsController) ValidateJoinCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	resp, err := c.trips.ValidateJoinCode(r.Context(), code)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

func (c *TripsController) ByJoinCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	trip, err := c.trips.FindByJoinCode(r.Context(), code)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, trip)
}

func (c *TripsController) Join(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req joinRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.members.Join(r.Context(), userID, tripID, req.JoinCode)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	status := http.StatusCreated
	if resp.AlreadyMember {
		status = http.StatusOK
	}
	responses.WriteSuccessStatus(w, status, resp)
}

func (c *TripsController) Members(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	members, err := c.members.ListMembers(r.Context(), tripID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, members)
}
