package services

import (
	"context"
	"net/http"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/access"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/dtos"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/repositories"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/google/uuid"
)

// EmployerRequestService is the employer's read side: their own requests
// and the candidate disclosure endpoints. Every candidate read goes
// through the access package; nothing here inspects status strings.
type EmployerRequestService struct {
	reqRepo    repositories.EmployerRequestRepository
	payRepo    repositories.PaymentRepository
	candidates *CandidateDirectory
}

func NewEmployerRequestService(
	reqRepo repositories.EmployerRequestRepository,
	payRepo repositories.PaymentRepository,
	candidates *CandidateDirectory,
) *EmployerRequestService {
	return &EmployerRequestService{
		reqRepo:    reqRepo,
		payRepo:    payRepo,
		candidates: candidates,
	}
}

func (s *EmployerRequestService) ownedRequest(
	ctx context.Context,
	employerID, requestID uuid.UUID,
) (*models.EmployerRequest, error) {
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
	if err := requireOwnership(req, employerID); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *EmployerRequestService) List(ctx context.Context, employerID uuid.UUID) ([]dtos.EmployerRequestDTO, error) {
	reqs, err := s.reqRepo.ListByEmployer(ctx, employerID)
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
		dto, err := buildRequestDTO(ctx, s.payRepo, req, access.RoleEmployer)
		if err != nil {
			return nil, err
		}
		out = append(out, *dto)
	}
	return out, nil
}

func (s *EmployerRequestService) Get(
	ctx context.Context,
	employerID, requestID uuid.UUID,
) (*dtos.EmployerRequestDTO, error) {
	req, err := s.ownedRequest(ctx, employerID, requestID)
	if err != nil {
		return nil, err
	}
	return buildRequestDTO(ctx, s.payRepo, req, access.RoleEmployer)
}

// resolveAccess loads the request's payments and resolves the viewer's
// disclosure tier in one place for the two candidate endpoints.
func (s *EmployerRequestService) resolveAccess(
	ctx context.Context,
	req *models.EmployerRequest,
) (access.Decision, error) {
	payments, err := s.payRepo.ListByRequest(ctx, req.ID)
	if err != nil {
		return access.Decision{}, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to load payments",
			Err:        err,
		}
	}
	return access.Resolve(req, payments, access.RoleEmployer), nil
}

func (s *EmployerRequestService) loadCandidate(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	candidate, err := s.candidates.Get(ctx, id)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to load the candidate",
			Err:        err,
		}
	}
	if candidate == nil {
		return nil, notFoundErr("Candidate")
	}
	return candidate, nil
}

// GetCandidatePhoto is the tier-one disclosure read.
func (s *EmployerRequestService) GetCandidatePhoto(
	ctx context.Context,
	employerID, requestID uuid.UUID,
) (*dtos.CandidatePhotoResponse, error) {
	req, err := s.ownedRequest(ctx, employerID, requestID)
	if err != nil {
		return nil, err
	}

	d, err := s.resolveAccess(ctx, req)
	if err != nil {
		return nil, err
	}
	if !d.CanViewPhoto {
		return nil, &utils.AppError{
			StatusCode: http.StatusForbidden,
			Code:       utils.ErrCodeForbidden,
			Message:    "Photo access has not been granted on this request",
		}
	}

	candidate, err := s.loadCandidate(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	return &dtos.CandidatePhotoResponse{
		CandidateID: candidate.ID,
		PhotoURL:    candidate.PhotoURL,
		CanDownload: d.CanDownloadPhoto,
	}, nil
}

// GetCandidateFullDetails is the tier-two disclosure read: contact data
// plus the photo.
func (s *EmployerRequestService) GetCandidateFullDetails(
	ctx context.Context,
	employerID, requestID uuid.UUID,
) (*dtos.CandidateFullDetailsResponse, error) {
	req, err := s.ownedRequest(ctx, employerID, requestID)
	if err != nil {
		return nil, err
	}

	d, err := s.resolveAccess(ctx, req)
	if err != nil {
		return nil, err
	}
	if !d.CanViewContact {
		return nil, &utils.AppError{
			StatusCode: http.StatusForbidden,
			Code:       utils.ErrCodeForbidden,
			Message:    "Full access has not been granted on this request",
		}
	}

	candidate, err := s.loadCandidate(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	return &dtos.CandidateFullDetailsResponse{
		CandidateID:  candidate.ID,
		FullName:     candidate.FullName,
		Headline:     candidate.Headline,
		Summary:      candidate.Summary,
		PhotoURL:     candidate.PhotoURL,
		ContactPhone: candidate.ContactPhone,
		ContactEmail: candidate.ContactEmail,
		Available:    candidate.Available,
	}, nil
}
