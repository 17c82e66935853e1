package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/dtos"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store       *fakeStore
	payRepo     *fakePaymentRepo
	lifecycle   *RequestLifecycleService
	payments    *PaymentService
	queries     *EmployerRequestService
	admin       *AdminRequestService
	maintenance *MaintenanceService

	adminID     uuid.UUID
	employerID  uuid.UUID
	candidateID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	reqRepo := &fakeRequestRepo{store: store}
	payRepo := &fakePaymentRepo{store: store}
	candRepo := &fakeCandidateRepo{store: store}
	empRepo := &fakeEmployerRepo{store: store}
	auditRepo := &fakeAuditRepo{store: store}

	notifier := NewNotificationService(nil, nil, "", "", "")
	candidates := NewCandidateDirectory(candRepo, cache.New(time.Minute, time.Minute))

	env := &testEnv{
		store:       store,
		payRepo:     payRepo,
		lifecycle:   NewRequestLifecycleService(reqRepo, payRepo, empRepo, candidates, auditRepo, notifier),
		payments:    NewPaymentService(reqRepo, payRepo, empRepo, auditRepo, notifier),
		queries:     NewEmployerRequestService(reqRepo, payRepo, candidates),
		admin:       NewAdminRequestService(reqRepo, payRepo),
		maintenance: NewMaintenanceService(reqRepo),
		adminID:     uuid.New(),
		employerID:  uuid.New(),
		candidateID: uuid.New(),
	}

	phone := "+250788000001"
	require.NoError(t, empRepo.Create(context.Background(), &models.Employer{
		ID:          env.employerID,
		CompanyName: "Test Employer Ltd",
		ContactName: "Test Contact",
		Email:       "employer@example.test",
		PhoneNumber: &phone,
	}))
	require.NoError(t, candRepo.Create(context.Background(), &models.Candidate{
		ID:           env.candidateID,
		FullName:     "Test Candidate",
		Headline:     "Housekeeper",
		Summary:      "Summary",
		PhotoURL:     "https://cdn.example.test/photo.jpg",
		ContactPhone: "+250788000002",
		ContactEmail: "candidate@example.test",
		Available:    true,
	}))
	return env
}

func requireAppError(t *testing.T, err error, status int, code string) *utils.AppError {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func (e *testEnv) create(t *testing.T) *dtos.EmployerRequestDTO {
	t.Helper()
	dto, err := e.lifecycle.CreateRequest(context.Background(), e.employerID, dtos.CreateEmployerRequestRequest{
		CandidateID: e.candidateID,
		Message:     "We would like to meet this candidate",
	})
	require.NoError(t, err)
	return dto
}

// advanceToPhotoAccess drives a fresh request to photo_access_granted and
// returns its latest DTO.
func (e *testEnv) advanceToPhotoAccess(t *testing.T) *dtos.EmployerRequestDTO {
	t.Helper()
	ctx := context.Background()

	dto := e.create(t)
	dto, err := e.lifecycle.ApproveRequest(ctx, e.adminID, dto.ID, dto.RowVersion)
	require.NoError(t, err)

	dto, err = e.payments.RequestPayment(ctx, e.adminID, dto.ID, dto.RowVersion,
		models.PaymentTypePhotoAccess, dtos.RequestPaymentRequest{Amount: 5000})
	require.NoError(t, err)

	p, err := e.payRepo.GetActiveByRequestAndType(ctx, dto.ID, models.PaymentTypePhotoAccess)
	require.NoError(t, err)
	require.NotNil(t, p)

	resp, err := e.payments.ConfirmPayment(ctx, e.employerID, dtos.ConfirmPaymentRequest{
		PaymentID:         p.ID,
		ConfirmationName:  "Test Contact",
		ConfirmationPhone: "+250788000001",
	})
	require.NoError(t, err)

	dto, err = e.payments.ApprovePayment(ctx, e.adminID, resp.Request.ID, resp.Request.RowVersion,
		models.PaymentTypePhotoAccess, nil)
	require.NoError(t, err)
	return dto
}

// advanceToFullAccess continues from photo access to full_access_granted.
func (e *testEnv) advanceToFullAccess(t *testing.T) *dtos.EmployerRequestDTO {
	t.Helper()
	ctx := context.Background()

	dto := e.advanceToPhotoAccess(t)
	dto, err := e.lifecycle.RequestFullDetails(ctx, e.employerID, dto.ID, dto.RowVersion, "Need to verify references")
	require.NoError(t, err)

	dto, err = e.payments.RequestPayment(ctx, e.adminID, dto.ID, dto.RowVersion,
		models.PaymentTypeFullDetails, dtos.RequestPaymentRequest{Amount: 10000})
	require.NoError(t, err)

	p, err := e.payRepo.GetActiveByRequestAndType(ctx, dto.ID, models.PaymentTypeFullDetails)
	require.NoError(t, err)
	require.NotNil(t, p)

	resp, err := e.payments.ConfirmPayment(ctx, e.employerID, dtos.ConfirmPaymentRequest{
		PaymentID:         p.ID,
		ConfirmationName:  "Test Contact",
		ConfirmationPhone: "+250788000001",
	})
	require.NoError(t, err)

	dto, err = e.payments.ApprovePayment(ctx, e.adminID, resp.Request.ID, resp.Request.RowVersion,
		models.PaymentTypeFullDetails, nil)
	require.NoError(t, err)
	return dto
}

func TestCreateRequestStartsPending(t *testing.T) {
	env := newTestEnv(t)
	dto := env.create(t)

	assert.Equal(t, string(models.StatusPending), dto.Status)
	assert.Equal(t, string(models.PriorityNormal), dto.Priority)
	assert.Equal(t, int64(1), dto.RowVersion)
	assert.False(t, dto.Access.CanViewPhoto)
	assert.False(t, dto.Access.CanViewContact)
}

func TestCreateRequestUnknownCandidate(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.lifecycle.CreateRequest(context.Background(), env.employerID, dtos.CreateEmployerRequestRequest{
		CandidateID: uuid.New(),
	})
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestFullWorkflowHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.advanceToPhotoAccess(t)
	assert.Equal(t, string(models.StatusPhotoAccessGranted), dto.Status)
	assert.True(t, dto.Access.CanViewPhoto)
	assert.True(t, dto.Access.CanViewContact) // admin view

	// Employer view at photo stage: photo yes, contact no.
	empDTO, err := env.queries.Get(ctx, env.employerID, dto.ID)
	require.NoError(t, err)
	assert.True(t, empDTO.Access.CanViewPhoto)
	assert.True(t, empDTO.Access.CanDownloadPhoto)
	assert.False(t, empDTO.Access.CanViewContact)
	assert.False(t, empDTO.Access.HasFullAccess)

	dto = env.advanceToFullAccess(t)
	assert.Equal(t, string(models.StatusFullAccessGranted), dto.Status)

	empDTO, err = env.queries.Get(ctx, env.employerID, dto.ID)
	require.NoError(t, err)
	assert.True(t, empDTO.Access.HasFullAccess)
	assert.True(t, empDTO.Access.CanViewContact)

	// Full details endpoint now discloses contact data.
	details, err := env.queries.GetCandidateFullDetails(ctx, env.employerID, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "+250788000002", details.ContactPhone)

	// Hiring decision completes the request and retires the candidate.
	notes := "Starts on the first of next month"
	dto, err = env.lifecycle.MarkHiringDecision(ctx, env.employerID, dto.ID, empDTO.RowVersion, models.DecisionHired, &notes)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusCompleted), dto.Status)
	require.NotNil(t, dto.HiringDecision)
	assert.Equal(t, string(models.DecisionHired), *dto.HiringDecision)
	require.NotNil(t, dto.HiringNotes)
	assert.Equal(t, notes, *dto.HiringNotes)

	cand := env.store.candidates[env.candidateID]
	assert.False(t, cand.Available)
}

func TestPaymentAmountFixedByAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.create(t)
	dto, err := env.lifecycle.ApproveRequest(ctx, env.adminID, dto.ID, dto.RowVersion)
	require.NoError(t, err)

	dto, err = env.payments.RequestPayment(ctx, env.adminID, dto.ID, dto.RowVersion,
		models.PaymentTypePhotoAccess, dtos.RequestPaymentRequest{Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusFirstPaymentRequired), dto.Status)

	p, err := env.payRepo.GetActiveByRequestAndType(ctx, dto.ID, models.PaymentTypePhotoAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), p.Amount)
	assert.Equal(t, "RWF", p.Currency)

	// The confirmation carries no amount; the stored one must survive.
	resp, err := env.payments.ConfirmPayment(ctx, env.employerID, dtos.ConfirmPaymentRequest{
		PaymentID:         p.ID,
		ConfirmationName:  "Test Contact",
		ConfirmationPhone: "+250788000001",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), resp.Payment.Amount)
	assert.Equal(t, string(models.PaymentStatusConfirmed), resp.Payment.Status)
	assert.Equal(t, string(models.StatusFirstPaymentConfirmed), resp.Request.Status)
}

func TestLegacyPaymentConfirmedRowIsActionable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A row written before the first/second payment split still carries
	// the retired status alias alongside its confirmed payment.
	requestID := uuid.New()
	paymentID := uuid.New()
	name := "Test Contact"
	phone := "+250788000001"
	env.store.mu.Lock()
	env.store.requests[requestID] = &models.EmployerRequest{
		Versioned:   models.Versioned{RowVersion: 4},
		ID:          requestID,
		EmployerID:  env.employerID,
		CandidateID: env.candidateID,
		Status:      models.LegacyStatusPaymentConfirmed,
		Priority:    models.PriorityNormal,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	env.store.payments[paymentID] = &models.Payment{
		Versioned:         models.Versioned{RowVersion: 2},
		ID:                paymentID,
		RequestID:         requestID,
		Type:              models.PaymentTypePhotoAccess,
		Status:            models.PaymentStatusConfirmed,
		Amount:            5000,
		Currency:          "RWF",
		ConfirmationName:  &name,
		ConfirmationPhone: &phone,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	env.store.mu.Unlock()

	// Reads surface the resolved status, never the alias.
	dto, err := env.queries.Get(ctx, env.employerID, requestID)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusFirstPaymentConfirmed), dto.Status)

	// And the row moves through the workflow like any other.
	dto, err = env.payments.ApprovePayment(ctx, env.adminID, requestID, dto.RowVersion,
		models.PaymentTypePhotoAccess, nil)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPhotoAccessGranted), dto.Status)
	assert.True(t, dto.Access.CanViewPhoto)
}

func TestApproveRequestIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.create(t)
	approved, err := env.lifecycle.ApproveRequest(ctx, env.adminID, dto.ID, dto.RowVersion)
	require.NoError(t, err)

	_, err = env.lifecycle.ApproveRequest(ctx, env.adminID, dto.ID, approved.RowVersion)
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeAlreadyInState)
}

func TestApprovePaymentIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.advanceToPhotoAccess(t)
	assert.True(t, dto.Access.CanViewPhoto)

	// Approving the already-approved payment with the fresh row version is
	// a no-op conflict, not a second grant application.
	_, err := env.payments.ApprovePayment(ctx, env.adminID, dto.ID, dto.RowVersion,
		models.PaymentTypePhotoAccess, nil)
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeAlreadyInState)

	env.store.mu.Lock()
	stored := env.store.requests[dto.ID]
	assert.Equal(t, models.StatusPhotoAccessGranted, stored.Status)
	assert.Equal(t, dto.RowVersion, stored.RowVersion)
	assert.True(t, stored.PhotoAccess)
	env.store.mu.Unlock()
}

func TestRowVersionConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.create(t)
	_, err := env.lifecycle.ApproveRequest(ctx, env.adminID, dto.ID, dto.RowVersion+5)
	appErr := requireAppError(t, err, http.StatusConflict, utils.ErrCodeRowVersionConflict)

	// The latest row rides along so the client can re-present the form.
	latest, ok := appErr.Details.(*models.EmployerRequest)
	require.True(t, ok)
	assert.Equal(t, dto.RowVersion, latest.RowVersion)
}

func TestInvalidTransitionRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.create(t)
	// Cannot issue a payment while still pending moderation.
	_, err := env.payments.RequestPayment(ctx, env.adminID, dto.ID, dto.RowVersion,
		models.PaymentTypePhotoAccess, dtos.RequestPaymentRequest{Amount: 5000})
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeInvalidTransition)
}

func TestRequestFullDetailsOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.advanceToPhotoAccess(t)
	stranger := uuid.New()

	_, err := env.lifecycle.RequestFullDetails(ctx, stranger, dto.ID, dto.RowVersion, "reason")
	requireAppError(t, err, http.StatusForbidden, utils.ErrCodeForbidden)
}

func TestConfirmPaymentOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.create(t)
	dto, err := env.lifecycle.ApproveRequest(ctx, env.adminID, dto.ID, dto.RowVersion)
	require.NoError(t, err)
	_, err = env.payments.RequestPayment(ctx, env.adminID, dto.ID, dto.RowVersion,
		models.PaymentTypePhotoAccess, dtos.RequestPaymentRequest{Amount: 5000})
	require.NoError(t, err)

	p, err := env.payRepo.GetActiveByRequestAndType(ctx, dto.ID, models.PaymentTypePhotoAccess)
	require.NoError(t, err)

	_, err = env.payments.ConfirmPayment(ctx, uuid.New(), dtos.ConfirmPaymentRequest{
		PaymentID:         p.ID,
		ConfirmationName:  "Stranger",
		ConfirmationPhone: "+250788999999",
	})
	requireAppError(t, err, http.StatusForbidden, utils.ErrCodeForbidden)
}

func TestRejectedPaymentCanBeReissued(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.create(t)
	dto, err := env.lifecycle.ApproveRequest(ctx, env.adminID, dto.ID, dto.RowVersion)
	require.NoError(t, err)
	dto, err = env.payments.RequestPayment(ctx, env.adminID, dto.ID, dto.RowVersion,
		models.PaymentTypePhotoAccess, dtos.RequestPaymentRequest{Amount: 5000})
	require.NoError(t, err)

	// A duplicate while the first is active must be refused.
	_, err = env.payments.RequestPayment(ctx, env.adminID, dto.ID, dto.RowVersion,
		models.PaymentTypePhotoAccess, dtos.RequestPaymentRequest{Amount: 9999})
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeConflict)

	p, err := env.payRepo.GetActiveByRequestAndType(ctx, dto.ID, models.PaymentTypePhotoAccess)
	require.NoError(t, err)
	resp, err := env.payments.ConfirmPayment(ctx, env.employerID, dtos.ConfirmPaymentRequest{
		PaymentID:         p.ID,
		ConfirmationName:  "Test Contact",
		ConfirmationPhone: "+250788000001",
	})
	require.NoError(t, err)

	dto, err = env.payments.RejectPayment(ctx, env.adminID, resp.Request.ID, resp.Request.RowVersion,
		models.PaymentTypePhotoAccess, "reference not found")
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusFirstPaymentRequired), dto.Status)

	// The slot is free again: a fresh payment can be issued without a
	// status change.
	dto, err = env.payments.RequestPayment(ctx, env.adminID, dto.ID, dto.RowVersion,
		models.PaymentTypePhotoAccess, dtos.RequestPaymentRequest{Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusFirstPaymentRequired), dto.Status)

	fresh, err := env.payRepo.GetActiveByRequestAndType(ctx, dto.ID, models.PaymentTypePhotoAccess)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.NotEqual(t, p.ID, fresh.ID)
	assert.Equal(t, string(models.PaymentStatusPending), string(fresh.Status))
}

func TestRejectFullDetailsKeepsPhotoAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.advanceToPhotoAccess(t)
	dto, err := env.lifecycle.RequestFullDetails(ctx, env.employerID, dto.ID, dto.RowVersion, "checking references")
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusFullDetailsRequested), dto.Status)
	require.NotNil(t, dto.FullDetailsReason)

	dto, err = env.lifecycle.RejectFullDetailsRequest(ctx, env.adminID, dto.ID, dto.RowVersion, "not eligible")
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPhotoAccessGranted), dto.Status)

	empDTO, err := env.queries.Get(ctx, env.employerID, dto.ID)
	require.NoError(t, err)
	assert.True(t, empDTO.Access.CanViewPhoto)
	assert.False(t, empDTO.Access.CanViewContact)
}

func TestReopenClearsRejectionReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.create(t)
	dto, err := env.lifecycle.RejectRequest(ctx, env.adminID, dto.ID, dto.RowVersion, "incomplete company profile")
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusRejected), dto.Status)
	require.NotNil(t, dto.RejectionReason)

	dto, err = env.lifecycle.ReopenRequest(ctx, env.adminID, dto.ID, dto.RowVersion)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPending), dto.Status)
	assert.Nil(t, dto.RejectionReason)
}

func TestUpdateCandidateAvailability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.advanceToFullAccess(t)

	// Not yet completed: the override must refuse.
	_, err := env.lifecycle.UpdateCandidateAvailability(ctx, env.adminID, dto.ID, true)
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeInvalidTransition)

	dto, err = env.lifecycle.MarkHiringDecision(ctx, env.employerID, dto.ID, dto.RowVersion, models.DecisionHired, nil)
	require.NoError(t, err)
	assert.False(t, env.store.candidates[env.candidateID].Available)

	_, err = env.lifecycle.UpdateCandidateAvailability(ctx, env.adminID, dto.ID, true)
	require.NoError(t, err)
	assert.True(t, env.store.candidates[env.candidateID].Available)
}

func TestNotHiredKeepsCandidateAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.advanceToFullAccess(t)
	dto, err := env.lifecycle.MarkHiringDecision(ctx, env.employerID, dto.ID, dto.RowVersion, models.DecisionNotHired, nil)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusCompleted), dto.Status)
	assert.True(t, env.store.candidates[env.candidateID].Available)
}

func TestPhotoEndpointGatedByAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.create(t)
	_, err := env.queries.GetCandidatePhoto(ctx, env.employerID, dto.ID)
	requireAppError(t, err, http.StatusForbidden, utils.ErrCodeForbidden)

	_, err = env.queries.GetCandidateFullDetails(ctx, env.employerID, dto.ID)
	requireAppError(t, err, http.StatusForbidden, utils.ErrCodeForbidden)

	adv := env.advanceToPhotoAccess(t)
	photo, err := env.queries.GetCandidatePhoto(ctx, env.employerID, adv.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.test/photo.jpg", photo.PhotoURL)
	assert.True(t, photo.CanDownload)

	// Contact remains gated until the second payment is approved.
	_, err = env.queries.GetCandidateFullDetails(ctx, env.employerID, adv.ID)
	requireAppError(t, err, http.StatusForbidden, utils.ErrCodeForbidden)
}

func TestAdminListFiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.create(t)
	second := env.create(t)
	_, err := env.lifecycle.ApproveRequest(ctx, env.adminID, second.ID, second.RowVersion)
	require.NoError(t, err)

	pending := models.StatusPending
	resp, err := env.admin.List(ctx, &pending, 1, 20)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, first.ID, resp.Data[0].ID)
	assert.Equal(t, 1, resp.Total)

	all, err := env.admin.List(ctx, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
}

func TestMaintenanceFlagsStaleRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.create(t)
	dto, err := env.lifecycle.ApproveRequest(ctx, env.adminID, dto.ID, dto.RowVersion)
	require.NoError(t, err)
	_, err = env.payments.RequestPayment(ctx, env.adminID, dto.ID, dto.RowVersion,
		models.PaymentTypePhotoAccess, dtos.RequestPaymentRequest{Amount: 5000})
	require.NoError(t, err)

	// Age the row past the stale window.
	env.store.mu.Lock()
	env.store.requests[dto.ID].UpdatedAt = time.Now().Add(-96 * time.Hour)
	env.store.mu.Unlock()

	env.maintenance.FlagStaleRequests(ctx)

	env.store.mu.Lock()
	flagged := env.store.requests[dto.ID].FlaggedForReview
	env.store.mu.Unlock()
	assert.True(t, flagged)
}
