package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditApproveRequest       AuditAction = "APPROVE_REQUEST"
	AuditRejectRequest        AuditAction = "REJECT_REQUEST"
	AuditReopenRequest        AuditAction = "REOPEN_REQUEST"
	AuditRequestPayment       AuditAction = "REQUEST_PAYMENT"
	AuditApprovePayment       AuditAction = "APPROVE_PAYMENT"
	AuditRejectPayment        AuditAction = "REJECT_PAYMENT"
	AuditRejectFullDetails    AuditAction = "REJECT_FULL_DETAILS"
	AuditUpdateCandidateAvail AuditAction = "UPDATE_CANDIDATE_AVAILABILITY"
)

type AuditTargetType string

const (
	TargetEmployerRequest AuditTargetType = "EMPLOYER_REQUEST"
	TargetPayment         AuditTargetType = "PAYMENT"
	TargetCandidate       AuditTargetType = "CANDIDATE"
)

type AdminAuditLog struct {
	ID         uuid.UUID       `json:"id"`
	AdminID    uuid.UUID       `json:"admin_id"`
	Action     AuditAction     `json:"action"`
	TargetID   uuid.UUID       `json:"target_id"`
	TargetType AuditTargetType `json:"target_type"`
	Details    json.RawMessage `json:"details,omitempty"` // JSONB field for before/after states
	CreatedAt  time.Time       `json:"created_at"`
}
