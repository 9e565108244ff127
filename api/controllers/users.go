package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wayplan/backend/api/middleware"
	"github.com/wayplan/backend/api/responses"
	"github.com/wayplan/backend/api/validators"
	"github.com/wayplan/backend/internal/users"
	pkgerrors "github.com/wayplan/backend/pkg/errors"
	"github.com/wayplan/backend/pkg/logger"
)

// UsersController handles profile reads and owner-only writes.
type UsersController struct {
	service users.Service
	logg    *logger.Logger
}

func NewUsersController(service users.Service, logg *logger.Logger) *UsersController {
	return &UsersController{service: service, logg: logg}
}

func (c *UsersController) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	user, err := c.service.Get(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, user)
}

func (c *UsersController) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	user, err := c.service.Get(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, user)
}

func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := c.ownedTargetID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req users.UpdateRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.service.Update(r.Context(), userID, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := c.ownedTargetID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.service.Delete(r.Context(), userID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

// ownedTargetID resolves the {userId} path param and rejects callers
// targeting anyone but themselves.
func (c *UsersController) ownedTargetID(r *http.Request) (uuid.UUID, error) {
	targetID, err := pathUUID(r, "userId")
	if err != nil {
		return uuid.Nil, err
	}
	callerID, err := callerID(r)
	if err != nil {
		return uuid.Nil, err
	}
	if targetID != callerID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "you may only modify your own account")
	}
	return targetID, nil
}

func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return userID, nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+param)
	}
	return id, nil
}
