package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/wayplan/backend/api/responses"
	"github.com/wayplan/backend/api/validators"
	"github.com/wayplan/backend/internal/activities"
	"github.com/wayplan/backend/internal/memberships"
	pkgerrors "github.com/wayplan/backend/pkg/errors"
	"github.com/wayplan/backend/pkg/logger"
	"github.com/wayplan/backend/pkg/pagination"
)

// ActivitiesController handles activity CRUD and voting. Routes addressed by
// activity id resolve the trip first and gate on membership here, since the
// path-based role middleware only covers tripId routes.
type ActivitiesController struct {
	service activities.Service
	members memberships.Service
	logg    *logger.Logger
}

func NewActivitiesController(service activities.Service, members memberships.Service, logg *logger.Logger) *ActivitiesController {
	return &ActivitiesController{service: service, members: members, logg: logg}
}

func (c *ActivitiesController) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req activities.CreateRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.requireMember(r, userID, req.TripID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	activity, err := c.service.Create(r.Context(), userID, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, activity)
}

func (c *ActivitiesController) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	activityID, err := pathUUID(r, "activityId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	activity, err := c.service.Get(r.Context(), activityID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.requireMember(r, userID, activity.TripID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, activity)
}

func (c *ActivitiesController) ListByTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	params := activities.ListParams{
		Limit:    limit,
		Cursor:   r.URL.Query().Get("cursor"),
		Category: r.URL.Query().Get("category"),
	}
	if raw := r.URL.Query().Get("suggester_id"); raw != "" {
		suggesterID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid suggester_id"))
			return
		}
		params.SuggesterID = &suggesterID
	}

	resp, err := c.service.ListByTrip(r.Context(), tripID, params)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

func (c *ActivitiesController) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	activityID, err := pathUUID(r, "activityId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req activities.UpdateRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	activity, err := c.service.Update(r.Context(), userID, activityID, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, activity)
}

func (c *ActivitiesController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	activityID, err := pathUUID(r, "activityId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.service.Delete(r.Context(), userID, activityID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"message": "activity deleted"})
}

func (c *ActivitiesController) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	activityID, err := pathUUID(r, "activityId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req activities.CastVoteRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	activity, err := c.service.Get(r.Context(), activityID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.requireMember(r, userID, activity.TripID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	updated, err := c.service.CastVote(r.Context(), userID, activityID, req.Score)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, updated)
}

func (c *ActivitiesController) requireMember(r *http.Request, userID, tripID uuid.UUID) error {
	ok, err := c.members.UserHasRole(r.Context(), userID, tripID)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "you are not a member of this trip")
	}
	return nil
}
