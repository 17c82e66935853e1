package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/access"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/dtos"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/repositories"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/google/uuid"
)

// mapWorkflowError translates repository sentinels into AppErrors the
// controllers can hand straight to HandleAppError. `latest` is the
// freshest request row the repository saw; on a version conflict it rides
// along in Details so the client can re-present the form.
func mapWorkflowError(err error, latest *models.EmployerRequest) error {
	switch {
	case errors.Is(err, utils.ErrRowVersionConflict):
		var details any
		if latest != nil {
			details = latest
		}
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeRowVersionConflict,
			Message:    "The request was modified concurrently; refetch and retry",
			Details:    details,
			Err:        utils.NewRowVersionConflictError(latest),
		}
	case errors.Is(err, utils.ErrAlreadyInState):
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeAlreadyInState,
			Message:    "The action was already applied",
			Err:        err,
		}
	case errors.Is(err, utils.ErrInvalidTransition):
		msg := "The action does not apply to the request's current state"
		if latest != nil {
			msg = "Action not allowed while the request is in state '" + string(latest.Status) + "'"
		}
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeInvalidTransition,
			Message:    msg,
			Err:        err,
		}
	case errors.Is(err, utils.ErrActivePaymentExists):
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeConflict,
			Message:    "An active payment of this type already exists for the request",
			Err:        err,
		}
	case errors.Is(err, utils.ErrPaymentNotPending),
		errors.Is(err, utils.ErrPaymentNotConfirmed):
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeInvalidTransition,
			Message:    "The payment is not in a state that allows this action",
			Err:        err,
		}
	case errors.Is(err, utils.ErrNoActivePayment):
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeInvalidTransition,
			Message:    "No active payment of the required type exists for the request",
			Err:        err,
		}
	default:
		return &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to apply the request action",
			Err:        err,
		}
	}
}

func notFoundErr(what string) error {
	return &utils.AppError{
		StatusCode: http.StatusNotFound,
		Code:       utils.ErrCodeNotFound,
		Message:    what + " not found",
	}
}

func forbiddenErr() error {
	return &utils.AppError{
		StatusCode: http.StatusForbidden,
		Code:       utils.ErrCodeForbidden,
		Message:    "You do not own this request",
		Err:        utils.ErrNotRequestOwner,
	}
}

// requireOwnership gates employer actions on another employer's request.
func requireOwnership(req *models.EmployerRequest, employerID uuid.UUID) error {
	if req.EmployerID != employerID {
		return forbiddenErr()
	}
	return nil
}

// buildRequestDTO assembles the response shape every workflow endpoint
// returns: the request, its payments, and the viewer's access decision —
// always resolved through the access package, never re-derived.
func buildRequestDTO(
	ctx context.Context,
	payRepo repositories.PaymentRepository,
	req *models.EmployerRequest,
	role access.Role,
) (*dtos.EmployerRequestDTO, error) {
	payments, err := payRepo.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	d := access.Resolve(req, payments, role)
	dto := dtos.NewEmployerRequestDTO(req, payments, d)
	return &dto, nil
}

func auditLog(
	ctx context.Context,
	auditRepo repositories.AdminAuditLogRepository,
	adminID, targetID uuid.UUID,
	action models.AuditAction,
	targetType models.AuditTargetType,
	details any,
) {
	var detailsJSON json.RawMessage
	if details != nil {
		detailsJSON, _ = json.Marshal(details)
	}
	if err := auditRepo.Create(ctx, &models.AdminAuditLog{
		ID:         uuid.New(),
		AdminID:    adminID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		Details:    detailsJSON,
	}); err != nil {
		utils.Logger.WithError(err).Warn("Failed to write admin audit log entry")
	}
}
