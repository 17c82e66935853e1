package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusPending                RequestStatus = "pending"
	StatusApproved               RequestStatus = "approved"
	StatusRejected               RequestStatus = "rejected"
	StatusFirstPaymentRequired   RequestStatus = "first_payment_required"
	StatusFirstPaymentConfirmed  RequestStatus = "first_payment_confirmed"
	StatusPhotoAccessGranted     RequestStatus = "photo_access_granted"
	StatusFullDetailsRequested   RequestStatus = "full_details_requested"
	StatusSecondPaymentRequired  RequestStatus = "second_payment_required"
	StatusSecondPaymentConfirmed RequestStatus = "second_payment_confirmed"
	StatusFullAccessGranted      RequestStatus = "full_access_granted"
	StatusCompleted              RequestStatus = "completed"

	// LegacyStatusPaymentConfirmed is a retired write state. Old rows may
	// still carry it; NormalizeStatus resolves it using the active
	// payment's type. It is never written by this codebase.
	LegacyStatusPaymentConfirmed RequestStatus = "payment_confirmed"
)

type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityNormal RequestPriority = "normal"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

type HiringDecision string

const (
	DecisionHired    HiringDecision = "hired"
	DecisionNotHired HiringDecision = "not_hired"
)

// RequestAction names every status-mutating action on an EmployerRequest.
// Actions prefixed "Admin"/"Employer" in the service layer map 1:1 onto
// these; the transition table below is the only place legal source states
// are defined.
type RequestAction string

const (
	ActionApprove                   RequestAction = "approve"
	ActionReject                    RequestAction = "reject"
	ActionReopen                    RequestAction = "reopen"
	ActionRequestFirstPayment       RequestAction = "request_first_payment"
	ActionConfirmFirstPayment       RequestAction = "confirm_first_payment"
	ActionApproveFirstPayment       RequestAction = "approve_first_payment"
	ActionRejectFirstPayment        RequestAction = "reject_first_payment"
	ActionRequestFullDetails        RequestAction = "request_full_details"
	ActionApproveFullDetailsRequest RequestAction = "approve_full_details_request"
	ActionRejectFullDetailsRequest  RequestAction = "reject_full_details_request"
	ActionConfirmSecondPayment      RequestAction = "confirm_second_payment"
	ActionApproveSecondPayment      RequestAction = "approve_second_payment"
	ActionRejectSecondPayment       RequestAction = "reject_second_payment"
	ActionMarkHiringDecision        RequestAction = "mark_hiring_decision"
)

type transition struct {
	sources []RequestStatus
	target  RequestStatus
}

// transitions is the canonical state machine. Every caller goes through
// CheckTransition; nothing else may decide whether an action applies.
var transitions = map[RequestAction]transition{
	ActionApprove:                   {[]RequestStatus{StatusPending}, StatusApproved},
	ActionReject:                    {[]RequestStatus{StatusPending}, StatusRejected},
	ActionReopen:                    {[]RequestStatus{StatusRejected}, StatusPending},
	ActionRequestFirstPayment:       {[]RequestStatus{StatusApproved}, StatusFirstPaymentRequired},
	ActionConfirmFirstPayment:       {[]RequestStatus{StatusFirstPaymentRequired}, StatusFirstPaymentConfirmed},
	ActionApproveFirstPayment:       {[]RequestStatus{StatusFirstPaymentConfirmed}, StatusPhotoAccessGranted},
	ActionRejectFirstPayment:        {[]RequestStatus{StatusFirstPaymentConfirmed}, StatusFirstPaymentRequired},
	ActionRequestFullDetails:        {[]RequestStatus{StatusPhotoAccessGranted}, StatusFullDetailsRequested},
	ActionApproveFullDetailsRequest: {[]RequestStatus{StatusFullDetailsRequested}, StatusSecondPaymentRequired},
	ActionRejectFullDetailsRequest:  {[]RequestStatus{StatusFullDetailsRequested}, StatusPhotoAccessGranted},
	ActionConfirmSecondPayment:      {[]RequestStatus{StatusSecondPaymentRequired}, StatusSecondPaymentConfirmed},
	ActionApproveSecondPayment:      {[]RequestStatus{StatusSecondPaymentConfirmed}, StatusFullAccessGranted},
	ActionRejectSecondPayment:       {[]RequestStatus{StatusSecondPaymentConfirmed}, StatusSecondPaymentRequired},
	ActionMarkHiringDecision:        {[]RequestStatus{StatusFullAccessGranted}, StatusCompleted},
}

type TransitionCheck int

const (
	TransitionOK TransitionCheck = iota
	TransitionInvalid
	// TransitionAlreadyApplied means the request already sits in the
	// action's target state. Re-submitting the same action is a no-op,
	// not an error worth retrying.
	TransitionAlreadyApplied
)

// CheckTransition returns the resulting status for applying action to
// current, or a non-OK check result. It is total: unknown actions are
// TransitionInvalid.
func CheckTransition(current RequestStatus, action RequestAction) (RequestStatus, TransitionCheck) {
	t, ok := transitions[action]
	if !ok {
		return current, TransitionInvalid
	}
	for _, src := range t.sources {
		if current == src {
			return t.target, TransitionOK
		}
	}
	if current == t.target {
		return current, TransitionAlreadyApplied
	}
	return current, TransitionInvalid
}

// IsTerminal reports whether no further lifecycle action applies.
// `rejected` can still be reopened by an admin; `completed` cannot.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// NormalizeStatus resolves the retired `payment_confirmed` alias into the
// explicit first/second confirmed state using the active payment's type.
// Rows written by this codebase never need normalizing.
func NormalizeStatus(s RequestStatus, activeType PaymentType) RequestStatus {
	if s != LegacyStatusPaymentConfirmed {
		return s
	}
	if activeType == PaymentTypeFullDetails {
		return StatusSecondPaymentConfirmed
	}
	return StatusFirstPaymentConfirmed
}

type EmployerRequest struct {
	Versioned

	ID          uuid.UUID       `json:"id"`
	EmployerID  uuid.UUID       `json:"employer_id"`
	CandidateID uuid.UUID       `json:"candidate_id"`
	Message     string          `json:"message"`
	Status      RequestStatus   `json:"status"`
	Priority    RequestPriority `json:"priority"`

	// Materialized access grants. Monotonic within a request's lifetime;
	// only explicit admin reversal may clear them.
	PhotoAccess   bool `json:"photo_access"`
	ContactAccess bool `json:"contact_access"`
	FullAccess    bool `json:"full_access"`

	RejectionReason   *string         `json:"rejection_reason,omitempty"`
	FullDetailsReason *string         `json:"full_details_reason,omitempty"`
	HiringDecision    *HiringDecision `json:"hiring_decision,omitempty"`
	HiringNotes       *string         `json:"hiring_notes,omitempty"`

	FlaggedForReview bool       `json:"flagged_for_review"`
	ArchivedAt       *time.Time `json:"archived_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *EmployerRequest) GetID() string {
	return r.ID.String()
}
