package services

import (
	"context"
	"net/http"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/access"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/dtos"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/repositories"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/google/uuid"
)

/*
RequestLifecycleService drives every non-payment status transition of an
employer request. The repository re-checks each transition under the row
lock; this layer owns authorization (who may act), side effects
(notifications, audit log, cache invalidation) and DTO assembly.
*/
type RequestLifecycleService struct {
	reqRepo    repositories.EmployerRequestRepository
	payRepo    repositories.PaymentRepository
	empRepo    repositories.EmployerRepository
	candidates *CandidateDirectory
	auditRepo  repositories.AdminAuditLogRepository
	notifier   *NotificationService
}

func NewRequestLifecycleService(
	reqRepo repositories.EmployerRequestRepository,
	payRepo repositories.PaymentRepository,
	empRepo repositories.EmployerRepository,
	candidates *CandidateDirectory,
	auditRepo repositories.AdminAuditLogRepository,
	notifier *NotificationService,
) *RequestLifecycleService {
	return &RequestLifecycleService{
		reqRepo:    reqRepo,
		payRepo:    payRepo,
		empRepo:    empRepo,
		candidates: candidates,
		auditRepo:  auditRepo,
		notifier:   notifier,
	}
}

func (s *RequestLifecycleService) loadRequest(ctx context.Context, id uuid.UUID) (*models.EmployerRequest, error) {
	req, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to load the request",
			Err:        err,
		}
	}
	if req == nil {
		return nil, notFoundErr("Employer request")
	}
	return req, nil
}

func (s *RequestLifecycleService) notifyOwner(ctx context.Context, req *models.EmployerRequest, send func(*models.Employer)) {
	employer, err := s.empRepo.GetByID(ctx, req.EmployerID)
	if err != nil || employer == nil {
		utils.Logger.WithField("employer_id", req.EmployerID).Warn("Could not resolve employer for notification")
		return
	}
	go send(employer)
}

// CreateRequest opens a new introduction request in `pending`. Requests
// against unknown candidates are rejected up front; unavailable candidates
// are allowed through so the admin can decide.
func (s *RequestLifecycleService) CreateRequest(
	ctx context.Context,
	employerID uuid.UUID,
	in dtos.CreateEmployerRequestRequest,
) (*dtos.EmployerRequestDTO, error) {
	candidate, err := s.candidates.Get(ctx, in.CandidateID)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to look up the candidate",
			Err:        err,
		}
	}
	if candidate == nil {
		return nil, notFoundErr("Candidate")
	}

	priority := models.RequestPriority(in.Priority)
	if priority == "" {
		priority = models.PriorityNormal
	}

	req := &models.EmployerRequest{
		ID:          uuid.New(),
		EmployerID:  employerID,
		CandidateID: in.CandidateID,
		Message:     in.Message,
		Status:      models.StatusPending,
		Priority:    priority,
	}
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to create the request",
			Err:        err,
		}
	}

	created, err := s.loadRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return buildRequestDTO(ctx, s.payRepo, created, access.RoleEmployer)
}

// ApproveRequest moves pending -> approved.
func (s *RequestLifecycleService) ApproveRequest(
	ctx context.Context,
	adminID, requestID uuid.UUID,
	expectedVersion int64,
) (*dtos.EmployerRequestDTO, error) {
	updated, err := s.reqRepo.TransitionAtomic(ctx, requestID, expectedVersion, models.ActionApprove, nil)
	if err != nil {
		return nil, mapWorkflowError(err, updated)
	}

	auditLog(ctx, s.auditRepo, adminID, requestID, models.AuditApproveRequest, models.TargetEmployerRequest, nil)
	s.notifyOwner(ctx, updated, func(e *models.Employer) {
		s.notifier.NotifyRequestApproved(e, updated)
	})
	return buildRequestDTO(ctx, s.payRepo, updated, access.RoleAdmin)
}

// RejectRequest moves pending -> rejected with a mandatory reason.
func (s *RequestLifecycleService) RejectRequest(
	ctx context.Context,
	adminID, requestID uuid.UUID,
	expectedVersion int64,
	reason string,
) (*dtos.EmployerRequestDTO, error) {
	updated, err := s.reqRepo.TransitionAtomic(ctx, requestID, expectedVersion, models.ActionReject,
		func(r *models.EmployerRequest) {
			r.RejectionReason = &reason
		})
	if err != nil {
		return nil, mapWorkflowError(err, updated)
	}

	auditLog(ctx, s.auditRepo, adminID, requestID, models.AuditRejectRequest, models.TargetEmployerRequest,
		map[string]string{"reason": reason})
	s.notifyOwner(ctx, updated, func(e *models.Employer) {
		s.notifier.NotifyRequestRejected(e, updated, reason)
	})
	return buildRequestDTO(ctx, s.payRepo, updated, access.RoleAdmin)
}

// ReopenRequest returns a rejected request to the moderation queue. The
// prior rejection reason is cleared so the new review starts clean.
func (s *RequestLifecycleService) ReopenRequest(
	ctx context.Context,
	adminID, requestID uuid.UUID,
	expectedVersion int64,
) (*dtos.EmployerRequestDTO, error) {
	updated, err := s.reqRepo.TransitionAtomic(ctx, requestID, expectedVersion, models.ActionReopen,
		func(r *models.EmployerRequest) {
			r.RejectionReason = nil
		})
	if err != nil {
		return nil, mapWorkflowError(err, updated)
	}

	auditLog(ctx, s.auditRepo, adminID, requestID, models.AuditReopenRequest, models.TargetEmployerRequest, nil)
	return buildRequestDTO(ctx, s.payRepo, updated, access.RoleAdmin)
}

// RequestFullDetails is the employer asking for tier-two disclosure.
func (s *RequestLifecycleService) RequestFullDetails(
	ctx context.Context,
	employerID, requestID uuid.UUID,
	expectedVersion int64,
	reason string,
) (*dtos.EmployerRequestDTO, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnership(req, employerID); err != nil {
		return nil, err
	}

	updated, err := s.reqRepo.TransitionAtomic(ctx, requestID, expectedVersion, models.ActionRequestFullDetails,
		func(r *models.EmployerRequest) {
			r.FullDetailsReason = &reason
		})
	if err != nil {
		return nil, mapWorkflowError(err, updated)
	}
	return buildRequestDTO(ctx, s.payRepo, updated, access.RoleEmployer)
}

// RejectFullDetailsRequest sends the request back to photo-level access.
// Photo access granted by the first payment is untouched.
func (s *RequestLifecycleService) RejectFullDetailsRequest(
	ctx context.Context,
	adminID, requestID uuid.UUID,
	expectedVersion int64,
	notes string,
) (*dtos.EmployerRequestDTO, error) {
	updated, err := s.reqRepo.TransitionAtomic(ctx, requestID, expectedVersion, models.ActionRejectFullDetailsRequest, nil)
	if err != nil {
		return nil, mapWorkflowError(err, updated)
	}

	auditLog(ctx, s.auditRepo, adminID, requestID, models.AuditRejectFullDetails, models.TargetEmployerRequest,
		map[string]string{"notes": notes})
	s.notifyOwner(ctx, updated, func(e *models.Employer) {
		s.notifier.NotifyFullDetailsDecision(e, updated, false)
	})
	return buildRequestDTO(ctx, s.payRepo, updated, access.RoleAdmin)
}

// MarkHiringDecision completes the request. A "hired" decision also flips
// the candidate to unavailable inside the same transaction, so the cache
// entry for the candidate must be dropped.
func (s *RequestLifecycleService) MarkHiringDecision(
	ctx context.Context,
	employerID, requestID uuid.UUID,
	expectedVersion int64,
	decision models.HiringDecision,
	notes *string,
) (*dtos.EmployerRequestDTO, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnership(req, employerID); err != nil {
		return nil, err
	}

	updated, err := s.reqRepo.CompleteWithHiringDecisionAtomic(ctx, requestID, expectedVersion, decision, notes)
	if err != nil {
		return nil, mapWorkflowError(err, updated)
	}

	if decision == models.DecisionHired {
		s.candidates.Invalidate(updated.CandidateID)
	}
	return buildRequestDTO(ctx, s.payRepo, updated, access.RoleEmployer)
}

// UpdateCandidateAvailability is the admin override on the hiring
// outcome's default. It only applies once the request is completed with a
// hired decision; anything else is a state error.
func (s *RequestLifecycleService) UpdateCandidateAvailability(
	ctx context.Context,
	adminID, requestID uuid.UUID,
	keepAvailable bool,
) (*dtos.EmployerRequestDTO, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusCompleted || req.HiringDecision == nil || *req.HiringDecision != models.DecisionHired {
		return nil, &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeInvalidTransition,
			Message:    "Availability can only be overridden on a completed request with a hired decision",
			Err:        utils.ErrInvalidTransition,
		}
	}

	err = s.candidates.repo.UpdateWithRetry(ctx, req.CandidateID, func(c *models.Candidate) error {
		c.Available = keepAvailable
		return nil
	})
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to update candidate availability",
			Err:        err,
		}
	}
	s.candidates.Invalidate(req.CandidateID)

	auditLog(ctx, s.auditRepo, adminID, req.CandidateID, models.AuditUpdateCandidateAvail, models.TargetCandidate,
		map[string]bool{"available": keepAvailable})
	return buildRequestDTO(ctx, s.payRepo, req, access.RoleAdmin)
}
