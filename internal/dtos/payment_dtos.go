package dtos

import (
	"time"

	"github.com/google/uuid"
)

/*
ConfirmPaymentRequest is the employer's unilateral claim of having made
the transfer. There is no amount field on purpose: the authoritative
amount is the one the admin set when the payment was requested, and any
amount a client submits is ignored.
*/
type ConfirmPaymentRequest struct {
	PaymentID         uuid.UUID  `json:"payment_id" validate:"required"`
	ConfirmationName  string     `json:"confirmation_name" validate:"required,min=2,max=200"`
	ConfirmationPhone string     `json:"confirmation_phone" validate:"required,min=7,max=20"`
	PaymentReference  *string    `json:"payment_reference,omitempty" validate:"omitempty,max=100"`
	TransferDate      *time.Time `json:"transfer_date,omitempty"`
	Notes             *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ConfirmPaymentResponse struct {
	Request EmployerRequestDTO `json:"request"`
	Payment PaymentDTO         `json:"payment"`
}
