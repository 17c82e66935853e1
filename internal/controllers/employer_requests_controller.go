package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/dtos"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/services"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/go-playground/validator/v10"
)

type EmployerRequestsController struct {
	lifecycle *services.RequestLifecycleService
	queries   *services.EmployerRequestService
	validate  *validator.Validate
}

func NewEmployerRequestsController(
	lifecycle *services.RequestLifecycleService,
	queries *services.EmployerRequestService,
) *EmployerRequestsController {
	return &EmployerRequestsController{
		lifecycle: lifecycle,
		queries:   queries,
		validate:  validator.New(),
	}
}

// CreateHandler -> POST /api/v1/employer-requests
func (c *EmployerRequestsController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	employerID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.CreateEmployerRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	dto, err := c.lifecycle.CreateRequest(r.Context(), employerID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto)
}

// ListHandler -> GET /api/v1/employer-requests
func (c *EmployerRequestsController) ListHandler(w http.ResponseWriter, r *http.Request) {
	employerID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	out, err := c.queries.List(r.Context(), employerID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GetHandler -> GET /api/v1/employer-requests/{id}
func (c *EmployerRequestsController) GetHandler(w http.ResponseWriter, r *http.Request) {
	employerID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	dto, err := c.queries.Get(r.Context(), employerID, requestID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// RequestFullDetailsHandler -> POST /api/v1/employer-requests/{id}/request-full-details
func (c *EmployerRequestsController) RequestFullDetailsHandler(w http.ResponseWriter, r *http.Request) {
	employerID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.RequestFullDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	dto, err := c.lifecycle.RequestFullDetails(r.Context(), employerID, requestID, req.RowVersion, req.Reason)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

func (c *EmployerRequestsController) markDecision(
	w http.ResponseWriter,
	r *http.Request,
	decision models.HiringDecision,
) {
	employerID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.MarkHiringDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	dto, err := c.lifecycle.MarkHiringDecision(r.Context(), employerID, requestID, req.RowVersion, decision, req.Notes)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// MarkHiredHandler -> POST /api/v1/employer-requests/{id}/mark-hired
func (c *EmployerRequestsController) MarkHiredHandler(w http.ResponseWriter, r *http.Request) {
	c.markDecision(w, r, models.DecisionHired)
}

// MarkNotHiredHandler -> POST /api/v1/employer-requests/{id}/mark-not-hired
func (c *EmployerRequestsController) MarkNotHiredHandler(w http.ResponseWriter, r *http.Request) {
	c.markDecision(w, r, models.DecisionNotHired)
}

// PhotoAccessHandler -> GET /api/v1/employer-requests/{id}/photo-access
func (c *EmployerRequestsController) PhotoAccessHandler(w http.ResponseWriter, r *http.Request) {
	employerID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	dto, err := c.queries.GetCandidatePhoto(r.Context(), employerID, requestID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// FullDetailsHandler -> GET /api/v1/employer-requests/{id}/full-details
func (c *EmployerRequestsController) FullDetailsHandler(w http.ResponseWriter, r *http.Request) {
	employerID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	dto, err := c.queries.GetCandidateFullDetails(r.Context(), employerID, requestID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}
