package services

import (
	"context"
	"time"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/constants"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/repositories"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
)

// MaintenanceService holds the scheduled jobs. Currently one: flagging
// requests that have sat in a payment-required state too long so an admin
// can chase the employer.
type MaintenanceService struct {
	reqRepo repositories.EmployerRequestRepository
}

func NewMaintenanceService(reqRepo repositories.EmployerRequestRepository) *MaintenanceService {
	return &MaintenanceService{reqRepo: reqRepo}
}

// FlagStaleRequests marks payment-required requests older than the stale
// window for review. Flagging is idempotent; already-flagged rows are not
// re-listed.
func (s *MaintenanceService) FlagStaleRequests(ctx context.Context) {
	cutoff := time.Now().Add(-constants.StaleRequiredAfter)
	stale, err := s.reqRepo.ListStaleRequired(ctx, cutoff)
	if err != nil {
		utils.Logger.WithError(err).Error("Stale request sweep failed to list requests")
		return
	}

	flagged := 0
	for _, req := range stale {
		if err := s.reqRepo.SetFlaggedForReview(ctx, req.ID); err != nil {
			utils.Logger.WithError(err).WithField("request_id", req.ID).Warn("Failed to flag stale request")
			continue
		}
		flagged++
	}
	if flagged > 0 {
		utils.Logger.WithField("count", flagged).Info("Flagged stale payment-required requests for review")
	}
}
