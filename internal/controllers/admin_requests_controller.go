package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/dtos"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/services"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/go-playground/validator/v10"
)

type AdminRequestsController struct {
	lifecycle *services.RequestLifecycleService
	payments  *services.PaymentService
	queries   *services.AdminRequestService
	validate  *validator.Validate
}

func NewAdminRequestsController(
	lifecycle *services.RequestLifecycleService,
	payments *services.PaymentService,
	queries *services.AdminRequestService,
) *AdminRequestsController {
	return &AdminRequestsController{
		lifecycle: lifecycle,
		payments:  payments,
		queries:   queries,
		validate:  validator.New(),
	}
}

func (c *AdminRequestsController) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if err := c.validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return false
	}
	return true
}

// ListHandler -> GET /api/v1/admin/employer-requests?status=&page=&size=
func (c *AdminRequestsController) ListHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status *models.RequestStatus
	if raw := q.Get("status"); raw != "" {
		s := models.RequestStatus(raw)
		status = &s
	}
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	resp, err := c.queries.List(r.Context(), status, page, size)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetHandler -> GET /api/v1/admin/employer-requests/{id}
func (c *AdminRequestsController) GetHandler(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	dto, err := c.queries.Get(r.Context(), requestID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ApproveHandler -> POST /api/v1/admin/employer-requests/{id}/approve
func (c *AdminRequestsController) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	adminID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.VersionedActionRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := c.lifecycle.ApproveRequest(r.Context(), adminID, requestID, req.RowVersion)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// RejectHandler -> POST /api/v1/admin/employer-requests/{id}/reject
func (c *AdminRequestsController) RejectHandler(w http.ResponseWriter, r *http.Request) {
	adminID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.RejectRequestRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := c.lifecycle.RejectRequest(r.Context(), adminID, requestID, req.RowVersion, req.Reason)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ReopenHandler -> POST /api/v1/admin/employer-requests/{id}/reopen
func (c *AdminRequestsController) ReopenHandler(w http.ResponseWriter, r *http.Request) {
	adminID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.VersionedActionRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := c.lifecycle.ReopenRequest(r.Context(), adminID, requestID, req.RowVersion)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

func (c *AdminRequestsController) requestPayment(w http.ResponseWriter, r *http.Request, t models.PaymentType) {
	adminID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.RequestPaymentRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := c.payments.RequestPayment(r.Context(), adminID, requestID, req.RowVersion, t, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

func (c *AdminRequestsController) approvePayment(w http.ResponseWriter, r *http.Request, t models.PaymentType) {
	adminID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.ApprovePaymentRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := c.payments.ApprovePayment(r.Context(), adminID, requestID, req.RowVersion, t, req.Notes)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

func (c *AdminRequestsController) rejectPayment(w http.ResponseWriter, r *http.Request, t models.PaymentType) {
	adminID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.RejectPaymentRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := c.payments.RejectPayment(r.Context(), adminID, requestID, req.RowVersion, t, req.Reason)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// RequestFirstPaymentHandler -> POST .../{id}/request-first-payment
func (c *AdminRequestsController) RequestFirstPaymentHandler(w http.ResponseWriter, r *http.Request) {
	c.requestPayment(w, r, models.PaymentTypePhotoAccess)
}

// ApproveFirstPaymentHandler -> POST .../{id}/approve-first-payment
func (c *AdminRequestsController) ApproveFirstPaymentHandler(w http.ResponseWriter, r *http.Request) {
	c.approvePayment(w, r, models.PaymentTypePhotoAccess)
}

// RejectFirstPaymentHandler -> POST .../{id}/reject-first-payment
func (c *AdminRequestsController) RejectFirstPaymentHandler(w http.ResponseWriter, r *http.Request) {
	c.rejectPayment(w, r, models.PaymentTypePhotoAccess)
}

// ApproveFullDetailsHandler -> POST .../{id}/approve-full-details-request
// Approving the full-details request and issuing the second payment are
// the same act; /request-second-payment is an alias kept for older admin
// dashboards.
func (c *AdminRequestsController) ApproveFullDetailsHandler(w http.ResponseWriter, r *http.Request) {
	c.requestPayment(w, r, models.PaymentTypeFullDetails)
}

// RejectFullDetailsHandler -> POST .../{id}/reject-full-details-request
func (c *AdminRequestsController) RejectFullDetailsHandler(w http.ResponseWriter, r *http.Request) {
	adminID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.RejectFullDetailsRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := c.lifecycle.RejectFullDetailsRequest(r.Context(), adminID, requestID, req.RowVersion, req.Notes)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ApproveSecondPaymentHandler -> POST .../{id}/approve-second-payment
func (c *AdminRequestsController) ApproveSecondPaymentHandler(w http.ResponseWriter, r *http.Request) {
	c.approvePayment(w, r, models.PaymentTypeFullDetails)
}

// RejectSecondPaymentHandler -> POST .../{id}/reject-second-payment
func (c *AdminRequestsController) RejectSecondPaymentHandler(w http.ResponseWriter, r *http.Request) {
	c.rejectPayment(w, r, models.PaymentTypeFullDetails)
}

// UpdateCandidateAvailabilityHandler -> POST .../{id}/update-candidate-availability
func (c *AdminRequestsController) UpdateCandidateAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	adminID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.UpdateCandidateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	dto, err := c.lifecycle.UpdateCandidateAvailability(r.Context(), adminID, requestID, req.KeepAvailable)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}
