package routes

const (
	Health = "/health"

	// Employer endpoints
	EmployerRequests            = "/api/v1/employer-requests"
	EmployerRequestByID         = "/api/v1/employer-requests/{id}"
	EmployerRequestFullDetails  = "/api/v1/employer-requests/{id}/request-full-details"
	EmployerRequestMarkHired    = "/api/v1/employer-requests/{id}/mark-hired"
	EmployerRequestMarkNotHired = "/api/v1/employer-requests/{id}/mark-not-hired"
	EmployerCandidatePhoto      = "/api/v1/employer-requests/{id}/photo-access"
	EmployerCandidateDetails    = "/api/v1/employer-requests/{id}/full-details"

	PaymentConfirm = "/api/v1/payment-confirmations/confirm"

	// Admin endpoints
	AdminRequests              = "/api/v1/admin/employer-requests"
	AdminRequestByID           = "/api/v1/admin/employer-requests/{id}"
	AdminApprove               = "/api/v1/admin/employer-requests/{id}/approve"
	AdminReject                = "/api/v1/admin/employer-requests/{id}/reject"
	AdminReopen                = "/api/v1/admin/employer-requests/{id}/reopen"
	AdminRequestFirstPayment   = "/api/v1/admin/employer-requests/{id}/request-first-payment"
	AdminApproveFirstPayment   = "/api/v1/admin/employer-requests/{id}/approve-first-payment"
	AdminRejectFirstPayment    = "/api/v1/admin/employer-requests/{id}/reject-first-payment"
	AdminApproveFullDetails    = "/api/v1/admin/employer-requests/{id}/approve-full-details-request"
	AdminRejectFullDetails     = "/api/v1/admin/employer-requests/{id}/reject-full-details-request"
	AdminRequestSecondPayment  = "/api/v1/admin/employer-requests/{id}/request-second-payment"
	AdminApproveSecondPayment  = "/api/v1/admin/employer-requests/{id}/approve-second-payment"
	AdminRejectSecondPayment   = "/api/v1/admin/employer-requests/{id}/reject-second-payment"
	AdminCandidateAvailability = "/api/v1/admin/employer-requests/{id}/update-candidate-availability"
)
