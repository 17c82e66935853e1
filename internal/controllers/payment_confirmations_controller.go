package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/dtos"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/services"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/go-playground/validator/v10"
)

type PaymentConfirmationsController struct {
	payments *services.PaymentService
	validate *validator.Validate
}

func NewPaymentConfirmationsController(payments *services.PaymentService) *PaymentConfirmationsController {
	return &PaymentConfirmationsController{
		payments: payments,
		validate: validator.New(),
	}
}

// ConfirmHandler -> POST /api/v1/payment-confirmations/confirm
func (c *PaymentConfirmationsController) ConfirmHandler(w http.ResponseWriter, r *http.Request) {
	employerID, err := callerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	resp, err := c.payments.ConfirmPayment(r.Context(), employerID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
