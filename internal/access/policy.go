// Package access is the single source of truth for what a viewer may see
// of a candidate behind an employer request. Every consumer (dashboards,
// detail endpoints, photo/full-details reads, exports) must go through
// Resolve; re-deriving these booleans from raw status strings elsewhere is
// a bug.
package access

import (
	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployer Role = "employer"
)

// Decision is the three-tier disclosure result. It is a total function of
// its inputs: Resolve never fails, it only returns flags.
type Decision struct {
	CanViewPhoto     bool `json:"can_view_photo"`
	CanViewContact   bool `json:"can_view_contact"`
	CanDownloadPhoto bool `json:"can_download_photo"`
	HasFullAccess    bool `json:"has_full_access"`
}

// photoVisibleStatuses are the request states at or beyond the first
// payment's approval.
var photoVisibleStatuses = map[models.RequestStatus]bool{
	models.StatusPhotoAccessGranted:     true,
	models.StatusFullDetailsRequested:   true,
	models.StatusSecondPaymentRequired:  true,
	models.StatusSecondPaymentConfirmed: true,
	models.StatusFullAccessGranted:      true,
	models.StatusCompleted:              true,
}

var contactVisibleStatuses = map[models.RequestStatus]bool{
	models.StatusFullAccessGranted: true,
	models.StatusCompleted:         true,
}

// Resolve computes the disclosure tier for one viewer of one request.
// The employer branch assumes the caller has already checked ownership;
// ownership is an authorization concern, not a disclosure one.
func Resolve(req *models.EmployerRequest, payments []*models.Payment, role Role) Decision {
	switch role {
	case RoleAdmin:
		return Decision{
			CanViewPhoto:     true,
			CanViewContact:   true,
			CanDownloadPhoto: true,
			HasFullAccess:    true,
		}
	case RoleEmployer:
		d := Decision{
			CanViewPhoto:   req.PhotoAccess || photoVisibleStatuses[req.Status],
			CanViewContact: req.ContactAccess || contactVisibleStatuses[req.Status],
		}
		d.HasFullAccess = d.CanViewPhoto && d.CanViewContact
		// Downloading requires an admin-approved photo payment even if the
		// status flags look advanced due to a race.
		d.CanDownloadPhoto = d.CanViewPhoto && hasApprovedPhotoPayment(payments)
		return d
	default:
		return Decision{}
	}
}

func hasApprovedPhotoPayment(payments []*models.Payment) bool {
	for _, p := range payments {
		if p.Type == models.PaymentTypePhotoAccess && p.Status == models.PaymentStatusApproved {
			return true
		}
	}
	return false
}
