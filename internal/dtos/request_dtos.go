package dtos

import (
	"time"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/access"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/google/uuid"
)

// ----- Employer-side requests -----

type CreateEmployerRequestRequest struct {
	CandidateID uuid.UUID `json:"candidate_id" validate:"required"`
	Message     string    `json:"message" validate:"max=2000"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

type RequestFullDetailsRequest struct {
	Reason     string `json:"reason" validate:"required,min=3,max=1000"`
	RowVersion int64  `json:"row_version" validate:"required,gt=0"`
}

type MarkHiringDecisionRequest struct {
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	RowVersion int64   `json:"row_version" validate:"required,gt=0"`
}

// VersionedActionRequest is the body of actions that carry nothing but
// the optimistic concurrency check.
type VersionedActionRequest struct {
	RowVersion int64 `json:"row_version" validate:"required,gt=0"`
}

// ----- Admin-side requests -----

type RejectRequestRequest struct {
	Reason     string `json:"reason" validate:"required,min=3,max=1000"`
	RowVersion int64  `json:"row_version" validate:"required,gt=0"`
}

type RequestPaymentRequest struct {
	Amount        int64   `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
	PaymentMethod *string `json:"payment_method,omitempty" validate:"omitempty,max=100"`
	RowVersion    int64   `json:"row_version" validate:"required,gt=0"`
}

type ApprovePaymentRequest struct {
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	RowVersion int64   `json:"row_version" validate:"required,gt=0"`
}

type RejectPaymentRequest struct {
	Reason     string `json:"reason" validate:"required,min=3,max=1000"`
	RowVersion int64  `json:"row_version" validate:"required,gt=0"`
}

type RejectFullDetailsRequest struct {
	Notes      string `json:"notes" validate:"required,min=3,max=1000"`
	RowVersion int64  `json:"row_version" validate:"required,gt=0"`
}

type UpdateCandidateAvailabilityRequest struct {
	KeepAvailable bool `json:"keep_available"`
}

// ----- Responses -----

type PaymentDTO struct {
	ID                uuid.UUID  `json:"id"`
	RequestID         uuid.UUID  `json:"request_id"`
	PaymentType       string     `json:"payment_type"`
	Status            string     `json:"status"`
	Amount            int64      `json:"amount"`
	Currency          string     `json:"currency"`
	PaymentMethod     *string    `json:"payment_method,omitempty"`
	ConfirmationName  *string    `json:"confirmation_name,omitempty"`
	ConfirmationPhone *string    `json:"confirmation_phone,omitempty"`
	PaymentReference  *string    `json:"payment_reference,omitempty"`
	TransferDate      *time.Time `json:"transfer_date,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	AdminNotes        *string    `json:"admin_notes,omitempty"`
	RejectionReason   *string    `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type EmployerRequestDTO struct {
	ID          uuid.UUID `json:"id"`
	EmployerID  uuid.UUID `json:"employer_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`

	Access access.Decision `json:"access"`

	RejectionReason   *string      `json:"rejection_reason,omitempty"`
	FullDetailsReason *string      `json:"full_details_reason,omitempty"`
	HiringDecision    *string      `json:"hiring_decision,omitempty"`
	HiringNotes       *string      `json:"hiring_notes,omitempty"`
	FlaggedForReview  bool         `json:"flagged_for_review"`
	Payments          []PaymentDTO `json:"payments,omitempty"`

	RowVersion int64     `json:"row_version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PagedEmployerRequestsResponse struct {
	Data     []EmployerRequestDTO `json:"data"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

type CandidatePhotoResponse struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	PhotoURL    string    `json:"photo_url"`
	CanDownload bool      `json:"can_download"`
}

type CandidateFullDetailsResponse struct {
	CandidateID  uuid.UUID `json:"candidate_id"`
	FullName     string    `json:"full_name"`
	Headline     string    `json:"headline"`
	Summary      string    `json:"summary"`
	PhotoURL     string    `json:"photo_url"`
	ContactPhone string    `json:"contact_phone"`
	ContactEmail string    `json:"contact_email"`
	Available    bool      `json:"available"`
}

// NewPaymentDTO maps a Payment model to its response shape.
func NewPaymentDTO(p *models.Payment) PaymentDTO {
	return PaymentDTO{
		ID:                p.ID,
		RequestID:         p.RequestID,
		PaymentType:       string(p.Type),
		Status:            string(p.Status),
		Amount:            p.Amount,
		Currency:          p.Currency,
		PaymentMethod:     p.PaymentMethod,
		ConfirmationName:  p.ConfirmationName,
		ConfirmationPhone: p.ConfirmationPhone,
		PaymentReference:  p.PaymentReference,
		TransferDate:      p.TransferDate,
		Notes:             p.Notes,
		AdminNotes:        p.AdminNotes,
		RejectionReason:   p.RejectionReason,
		CreatedAt:         p.CreatedAt,
	}
}

// NewEmployerRequestDTO maps a request plus its resolved access decision.
func NewEmployerRequestDTO(req *models.EmployerRequest, payments []*models.Payment, d access.Decision) EmployerRequestDTO {
	dto := EmployerRequestDTO{
		ID:                req.ID,
		EmployerID:        req.EmployerID,
		CandidateID:       req.CandidateID,
		Message:           req.Message,
		Status:            string(req.Status),
		Priority:          string(req.Priority),
		Access:            d,
		RejectionReason:   req.RejectionReason,
		FullDetailsReason: req.FullDetailsReason,
		HiringNotes:       req.HiringNotes,
		FlaggedForReview:  req.FlaggedForReview,
		RowVersion:        req.RowVersion,
		CreatedAt:         req.CreatedAt,
		UpdatedAt:         req.UpdatedAt,
	}
	if req.HiringDecision != nil {
		s := string(*req.HiringDecision)
		dto.HiringDecision = &s
	}
	for _, p := range payments {
		dto.Payments = append(dto.Payments, NewPaymentDTO(p))
	}
	return dto
}
