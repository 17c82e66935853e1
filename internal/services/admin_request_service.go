package services

import (
	"context"
	"net/http"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/access"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/constants"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/dtos"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/repositories"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/google/uuid"
)

// AdminRequestService is the moderation dashboard's read side.
type AdminRequestService struct {
	reqRepo repositories.EmployerRequestRepository
	payRepo repositories.PaymentRepository
}

func NewAdminRequestService(
	reqRepo repositories.EmployerRequestRepository,
	payRepo repositories.PaymentRepository,
) *AdminRequestService {
	return &AdminRequestService{reqRepo: reqRepo, payRepo: payRepo}
}

// List returns a page of requests, optionally filtered by status. Page
// and size are clamped rather than rejected.
func (s *AdminRequestService) List(
	ctx context.Context,
	status *models.RequestStatus,
	page, size int,
) (*dtos.PagedEmployerRequestsResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = constants.DefaultPageSize
	}
	if size > constants.MaxPageSize {
		size = constants.MaxPageSize
	}

	reqs, total, err := s.reqRepo.List(ctx, status, page, size)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to list requests",
			Err:        err,
		}
	}

	out := make([]dtos.EmployerRequestDTO, 0, len(reqs))
	for _, req := range reqs {
		dto, err := buildRequestDTO(ctx, s.payRepo, req, access.RoleAdmin)
		if err != nil {
			return nil, err
		}
		out = append(out, *dto)
	}
	return &dtos.PagedEmployerRequestsResponse{
		Data:     out,
		Total:    total,
		Page:     page,
		PageSize: size,
	}, nil
}

func (s *AdminRequestService) Get(ctx context.Context, requestID uuid.UUID) (*dtos.EmployerRequestDTO, error) {
	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to load the request",
			Err:        err,
		}
	}
	if req == nil {
		return nil, notFoundErr("Employer request")
	}
	return buildRequestDTO(ctx, s.payRepo, req, access.RoleAdmin)
}
