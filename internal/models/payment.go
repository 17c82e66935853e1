package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentType is mandatory and explicit on every Payment at creation time.
// Downstream code must never re-infer it from request status.
type PaymentType string

const (
	PaymentTypePhotoAccess PaymentType = "photo_access"
	PaymentTypeFullDetails PaymentType = "full_details"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusRejected  PaymentStatus = "rejected"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	Versioned

	ID        uuid.UUID     `json:"id"`
	RequestID uuid.UUID     `json:"request_id"`
	Type      PaymentType   `json:"payment_type"`
	Status    PaymentStatus `json:"status"`

	// Amount is fixed by the admin at creation and immutable thereafter.
	// RWF carries no minor units.
	Amount        int64   `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod *string `json:"payment_method,omitempty"`

	// Confirmation fields, populated exactly once by the employer.
	ConfirmationName  *string    `json:"confirmation_name,omitempty"`
	ConfirmationPhone *string    `json:"confirmation_phone,omitempty"`
	PaymentReference  *string    `json:"payment_reference,omitempty"`
	TransferDate      *time.Time `json:"transfer_date,omitempty"`
	Notes             *string    `json:"notes,omitempty"`

	AdminNotes      *string `json:"admin_notes,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) GetID() string {
	return p.ID.String()
}

// IsActive reports whether this payment still occupies its
// (request, type) slot. A rejected or failed payment may be superseded
// by a fresh one.
func (p *Payment) IsActive() bool {
	return p.Status != PaymentStatusRejected && p.Status != PaymentStatusFailed
}

// RequiredStatusFor maps a payment type to the request status that awaits
// the employer's confirmation of that payment.
func RequiredStatusFor(t PaymentType) RequestStatus {
	if t == PaymentTypeFullDetails {
		return StatusSecondPaymentRequired
	}
	return StatusFirstPaymentRequired
}

// ConfirmedStatusFor maps a payment type to the request status reached
// once the employer confirms the transfer.
func ConfirmedStatusFor(t PaymentType) RequestStatus {
	if t == PaymentTypeFullDetails {
		return StatusSecondPaymentConfirmed
	}
	return StatusFirstPaymentConfirmed
}

// ConfirmActionFor maps a payment type to the lifecycle action the
// employer's confirmation drives through the transition guard.
func ConfirmActionFor(t PaymentType) RequestAction {
	if t == PaymentTypeFullDetails {
		return ActionConfirmSecondPayment
	}
	return ActionConfirmFirstPayment
}

// ApproveActionFor / RejectActionFor are the admin counterparts.
func ApproveActionFor(t PaymentType) RequestAction {
	if t == PaymentTypeFullDetails {
		return ActionApproveSecondPayment
	}
	return ActionApproveFirstPayment
}

func RejectActionFor(t PaymentType) RequestAction {
	if t == PaymentTypeFullDetails {
		return ActionRejectSecondPayment
	}
	return ActionRejectFirstPayment
}
