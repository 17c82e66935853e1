package controllers

import (
	"net/http"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/middleware"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// callerID pulls the authenticated user's ID out of the request context.
// The auth middleware guarantees the value exists on protected routes.
func callerID(r *http.Request) (uuid.UUID, error) {
	ctxID := r.Context().Value(middleware.ContextKeyUserID)
	if ctxID == nil {
		return uuid.Nil, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeUnauthorized,
			Message:    "Missing user ID in context",
		}
	}
	id, err := uuid.Parse(ctxID.(string))
	if err != nil {
		return uuid.Nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    "Invalid user ID format",
			Err:        err,
		}
	}
	return id, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    "Invalid request ID in path",
			Err:        err,
		}
	}
	return id, nil
}
