package services

import (
	"context"
	"net/http"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/access"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/constants"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/dtos"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/repositories"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/google/uuid"
)

/*
PaymentService implements the two-phase payment protocol. The admin fixes
the amount when issuing a payment; the employer confirms the transfer; the
admin verifies and approves or rejects. All state flips happen inside the
repository's transactions, so a crash can never leave an approved payment
with an unadvanced request.
*/
type PaymentService struct {
	reqRepo   repositories.EmployerRequestRepository
	payRepo   repositories.PaymentRepository
	empRepo   repositories.EmployerRepository
	auditRepo repositories.AdminAuditLogRepository
	notifier  *NotificationService
}

func NewPaymentService(
	reqRepo repositories.EmployerRequestRepository,
	payRepo repositories.PaymentRepository,
	empRepo repositories.EmployerRepository,
	auditRepo repositories.AdminAuditLogRepository,
	notifier *NotificationService,
) *PaymentService {
	return &PaymentService{
		reqRepo:   reqRepo,
		payRepo:   payRepo,
		empRepo:   empRepo,
		auditRepo: auditRepo,
		notifier:  notifier,
	}
}

func (s *PaymentService) notifyOwner(ctx context.Context, req *models.EmployerRequest, send func(*models.Employer)) {
	employer, err := s.empRepo.GetByID(ctx, req.EmployerID)
	if err != nil || employer == nil {
		utils.Logger.WithField("employer_id", req.EmployerID).Warn("Could not resolve employer for notification")
		return
	}
	go send(employer)
}

// requestAction maps the payment type being issued to the request action
// that issues it. Issuing the second payment doubles as approving the
// full-details request.
func requestAction(t models.PaymentType) models.RequestAction {
	if t == models.PaymentTypeFullDetails {
		return models.ActionApproveFullDetailsRequest
	}
	return models.ActionRequestFirstPayment
}

// RequestPayment issues a payment of the given type with an admin-fixed
// amount and advances the request in the same transaction.
func (s *PaymentService) RequestPayment(
	ctx context.Context,
	adminID, requestID uuid.UUID,
	expectedVersion int64,
	t models.PaymentType,
	in dtos.RequestPaymentRequest,
) (*dtos.EmployerRequestDTO, error) {
	currency := in.Currency
	if currency == "" {
		currency = constants.DefaultCurrency
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		RequestID:     requestID,
		Type:          t,
		Status:        models.PaymentStatusPending,
		Amount:        in.Amount,
		Currency:      currency,
		PaymentMethod: in.PaymentMethod,
	}

	updated, err := s.reqRepo.CreatePaymentAtomic(ctx, requestID, expectedVersion, requestAction(t), payment)
	if err != nil {
		return nil, mapWorkflowError(err, updated)
	}

	auditLog(ctx, s.auditRepo, adminID, payment.ID, models.AuditRequestPayment, models.TargetPayment,
		map[string]any{"request_id": requestID, "payment_type": t, "amount": in.Amount, "currency": currency})
	s.notifyOwner(ctx, updated, func(e *models.Employer) {
		s.notifier.NotifyPaymentRequired(e, updated, payment)
		if t == models.PaymentTypeFullDetails {
			s.notifier.NotifyFullDetailsDecision(e, updated, true)
		}
	})
	return buildRequestDTO(ctx, s.payRepo, updated, access.RoleAdmin)
}

// ConfirmPayment is the employer declaring "I transferred the money". The
// amount is never taken from the employer; it was fixed at issuance.
func (s *PaymentService) ConfirmPayment(
	ctx context.Context,
	employerID uuid.UUID,
	in dtos.ConfirmPaymentRequest,
) (*dtos.ConfirmPaymentResponse, error) {
	payment, err := s.payRepo.GetByID(ctx, in.PaymentID)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to load the payment",
			Err:        err,
		}
	}
	if payment == nil {
		return nil, notFoundErr("Payment")
	}

	req, err := s.reqRepo.GetByID(ctx, payment.RequestID)
	if err != nil || req == nil {
		return nil, notFoundErr("Employer request")
	}
	if err := requireOwnership(req, employerID); err != nil {
		return nil, err
	}

	conf := repositories.PaymentConfirmation{
		ConfirmationName:  in.ConfirmationName,
		ConfirmationPhone: in.ConfirmationPhone,
		PaymentReference:  in.PaymentReference,
		TransferDate:      in.TransferDate,
		Notes:             in.Notes,
	}
	updatedReq, updatedPay, err := s.reqRepo.ConfirmPaymentAtomic(ctx, in.PaymentID, req.RowVersion, conf)
	if err != nil {
		return nil, mapWorkflowError(err, updatedReq)
	}

	reqDTO, err := buildRequestDTO(ctx, s.payRepo, updatedReq, access.RoleEmployer)
	if err != nil {
		return nil, err
	}
	return &dtos.ConfirmPaymentResponse{
		Request: *reqDTO,
		Payment: dtos.NewPaymentDTO(updatedPay),
	}, nil
}

// activePayment resolves the single active payment of the given type, or a
// state error when none exists.
func (s *PaymentService) activePayment(
	ctx context.Context,
	requestID uuid.UUID,
	t models.PaymentType,
) (*models.Payment, error) {
	payment, err := s.payRepo.GetActiveByRequestAndType(ctx, requestID, t)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to load the payment",
			Err:        err,
		}
	}
	if payment == nil {
		return nil, mapWorkflowError(utils.ErrNoActivePayment, nil)
	}
	return payment, nil
}

// ApprovePayment verifies a confirmed payment. Approval, the request's
// status advance and the access grant flip commit together.
func (s *PaymentService) ApprovePayment(
	ctx context.Context,
	adminID, requestID uuid.UUID,
	expectedVersion int64,
	t models.PaymentType,
	notes *string,
) (*dtos.EmployerRequestDTO, error) {
	payment, err := s.activePayment(ctx, requestID, t)
	if err != nil {
		return nil, err
	}

	updatedReq, updatedPay, err := s.reqRepo.ApprovePaymentAtomic(ctx, payment.ID, expectedVersion, notes)
	if err != nil {
		return nil, mapWorkflowError(err, updatedReq)
	}

	auditLog(ctx, s.auditRepo, adminID, updatedPay.ID, models.AuditApprovePayment, models.TargetPayment,
		map[string]any{"request_id": requestID, "payment_type": t})
	s.notifyOwner(ctx, updatedReq, func(e *models.Employer) {
		s.notifier.NotifyPaymentApproved(e, updatedReq, updatedPay)
	})
	return buildRequestDTO(ctx, s.payRepo, updatedReq, access.RoleAdmin)
}

// RejectPayment terminally rejects a confirmed payment and reopens the
// payment-required step. A retry needs a freshly issued payment.
func (s *PaymentService) RejectPayment(
	ctx context.Context,
	adminID, requestID uuid.UUID,
	expectedVersion int64,
	t models.PaymentType,
	reason string,
) (*dtos.EmployerRequestDTO, error) {
	payment, err := s.activePayment(ctx, requestID, t)
	if err != nil {
		return nil, err
	}

	updatedReq, updatedPay, err := s.reqRepo.RejectPaymentAtomic(ctx, payment.ID, expectedVersion, reason)
	if err != nil {
		return nil, mapWorkflowError(err, updatedReq)
	}

	auditLog(ctx, s.auditRepo, adminID, updatedPay.ID, models.AuditRejectPayment, models.TargetPayment,
		map[string]any{"request_id": requestID, "payment_type": t, "reason": reason})
	s.notifyOwner(ctx, updatedReq, func(e *models.Employer) {
		s.notifier.NotifyPaymentRejected(e, updatedReq, reason)
	})
	return buildRequestDTO(ctx, s.payRepo, updatedReq, access.RoleAdmin)
}
