package services

import (
	"context"
	"sync"
	"time"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/repositories"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
)

// fakeStore is the shared in-memory backing for all fake repositories.
// The single mutex stands in for the database's row locks, so the fakes
// reproduce the same guard-under-lock semantics as the real repositories.
type fakeStore struct {
	mu         sync.Mutex
	requests   map[uuid.UUID]*models.EmployerRequest
	payments   map[uuid.UUID]*models.Payment
	candidates map[uuid.UUID]*models.Candidate
	employers  map[uuid.UUID]*models.Employer
	audits     []*models.AdminAuditLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests:   map[uuid.UUID]*models.EmployerRequest{},
		payments:   map[uuid.UUID]*models.Payment{},
		candidates: map[uuid.UUID]*models.Candidate{},
		employers:  map[uuid.UUID]*models.Employer{},
	}
}

func copyRequest(r *models.EmployerRequest) *models.EmployerRequest {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func copyPayment(p *models.Payment) *models.Payment {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// ---------------------------------------------------------------
// Employer request repository
// ---------------------------------------------------------------

type fakeRequestRepo struct {
	store *fakeStore
}

var _ repositories.EmployerRequestRepository = (*fakeRequestRepo)(nil)

func (f *fakeRequestRepo) Create(ctx context.Context, req *models.EmployerRequest) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	c := copyRequest(req)
	c.RowVersion = 1
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.store.requests[c.ID] = c
	return nil
}

// resolveLegacyStatus mirrors the read path of the real repository: a row
// still carrying the retired `payment_confirmed` alias is resolved into
// the explicit first/second state via its active payment before any guard
// or policy sees it.
func (f *fakeRequestRepo) resolveLegacyStatus(r *models.EmployerRequest) {
	if r == nil || r.Status != models.LegacyStatusPaymentConfirmed {
		return
	}
	t := models.PaymentTypePhotoAccess
	for _, p := range f.store.payments {
		if p.RequestID == r.ID && p.IsActive() {
			t = p.Type
		}
	}
	r.Status = models.NormalizeStatus(r.Status, t)
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EmployerRequest, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	c := copyRequest(f.store.requests[id])
	f.resolveLegacyStatus(c)
	return c, nil
}

func (f *fakeRequestRepo) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]*models.EmployerRequest, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*models.EmployerRequest
	for _, r := range f.store.requests {
		if r.EmployerID == employerID && r.ArchivedAt == nil {
			c := copyRequest(r)
			f.resolveLegacyStatus(c)
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) List(ctx context.Context, status *models.RequestStatus, page, size int) ([]*models.EmployerRequest, int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*models.EmployerRequest
	for _, r := range f.store.requests {
		if status != nil && r.Status != *status {
			continue
		}
		c := copyRequest(r)
		f.resolveLegacyStatus(c)
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeRequestRepo) lock(id uuid.UUID, expectedVersion int64) (*models.EmployerRequest, error) {
	req, ok := f.store.requests[id]
	if !ok {
		return nil, utils.ErrNoRowsUpdated
	}
	f.resolveLegacyStatus(req)
	if req.RowVersion != expectedVersion {
		return copyRequest(req), utils.ErrRowVersionConflict
	}
	return req, nil
}

func guardAction(req *models.EmployerRequest, action models.RequestAction) (models.RequestStatus, error) {
	next, check := models.CheckTransition(req.Status, action)
	switch check {
	case models.TransitionAlreadyApplied:
		return next, utils.ErrAlreadyInState
	case models.TransitionInvalid:
		return next, utils.ErrInvalidTransition
	}
	return next, nil
}

func (f *fakeRequestRepo) TransitionAtomic(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
	action models.RequestAction,
	apply func(*models.EmployerRequest),
) (*models.EmployerRequest, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	req, err := f.lock(id, expectedVersion)
	if err != nil {
		return req, err
	}
	next, err := guardAction(req, action)
	if err != nil {
		return copyRequest(req), err
	}

	req.Status = next
	if apply != nil {
		apply(req)
	}
	req.RowVersion++
	req.UpdatedAt = time.Now()
	return copyRequest(req), nil
}

func (f *fakeRequestRepo) CreatePaymentAtomic(
	ctx context.Context,
	requestID uuid.UUID,
	expectedVersion int64,
	action models.RequestAction,
	payment *models.Payment,
) (*models.EmployerRequest, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	req, err := f.lock(requestID, expectedVersion)
	if err != nil {
		return req, err
	}
	next, check := models.CheckTransition(req.Status, action)
	if check == models.TransitionInvalid {
		return copyRequest(req), utils.ErrInvalidTransition
	}

	for _, p := range f.store.payments {
		if p.RequestID == requestID && p.Type == payment.Type && p.IsActive() {
			return copyRequest(req), utils.ErrActivePaymentExists
		}
	}

	c := copyPayment(payment)
	c.RowVersion = 1
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.store.payments[c.ID] = c

	req.Status = next
	req.RowVersion++
	req.UpdatedAt = time.Now()
	return copyRequest(req), nil
}

func (f *fakeRequestRepo) ConfirmPaymentAtomic(
	ctx context.Context,
	paymentID uuid.UUID,
	expectedVersion int64,
	conf repositories.PaymentConfirmation,
) (*models.EmployerRequest, *models.Payment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	p, ok := f.store.payments[paymentID]
	if !ok {
		return nil, nil, utils.ErrNoRowsUpdated
	}
	req, err := f.lock(p.RequestID, expectedVersion)
	if err != nil {
		return req, copyPayment(p), err
	}

	switch p.Status {
	case models.PaymentStatusPending:
	case models.PaymentStatusConfirmed:
		return copyRequest(req), copyPayment(p), utils.ErrAlreadyInState
	default:
		return copyRequest(req), copyPayment(p), utils.ErrPaymentNotPending
	}

	next, err := guardAction(req, models.ConfirmActionFor(p.Type))
	if err != nil {
		return copyRequest(req), copyPayment(p), err
	}

	p.Status = models.PaymentStatusConfirmed
	p.ConfirmationName = &conf.ConfirmationName
	p.ConfirmationPhone = &conf.ConfirmationPhone
	p.PaymentReference = conf.PaymentReference
	p.TransferDate = conf.TransferDate
	p.Notes = conf.Notes
	p.RowVersion++

	req.Status = next
	req.RowVersion++
	req.UpdatedAt = time.Now()
	return copyRequest(req), copyPayment(p), nil
}

func (f *fakeRequestRepo) ApprovePaymentAtomic(
	ctx context.Context,
	paymentID uuid.UUID,
	expectedVersion int64,
	adminNotes *string,
) (*models.EmployerRequest, *models.Payment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	p, ok := f.store.payments[paymentID]
	if !ok {
		return nil, nil, utils.ErrNoRowsUpdated
	}
	req, err := f.lock(p.RequestID, expectedVersion)
	if err != nil {
		return req, copyPayment(p), err
	}

	switch p.Status {
	case models.PaymentStatusConfirmed:
	case models.PaymentStatusApproved:
		return copyRequest(req), copyPayment(p), utils.ErrAlreadyInState
	default:
		return copyRequest(req), copyPayment(p), utils.ErrPaymentNotConfirmed
	}

	next, err := guardAction(req, models.ApproveActionFor(p.Type))
	if err != nil {
		return copyRequest(req), copyPayment(p), err
	}

	p.Status = models.PaymentStatusApproved
	p.AdminNotes = adminNotes
	p.RowVersion++

	req.Status = next
	switch p.Type {
	case models.PaymentTypePhotoAccess:
		req.PhotoAccess = true
	case models.PaymentTypeFullDetails:
		req.ContactAccess = true
		req.FullAccess = req.PhotoAccess && req.ContactAccess
	}
	req.RowVersion++
	req.UpdatedAt = time.Now()
	return copyRequest(req), copyPayment(p), nil
}

func (f *fakeRequestRepo) RejectPaymentAtomic(
	ctx context.Context,
	paymentID uuid.UUID,
	expectedVersion int64,
	reason string,
) (*models.EmployerRequest, *models.Payment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	p, ok := f.store.payments[paymentID]
	if !ok {
		return nil, nil, utils.ErrNoRowsUpdated
	}
	req, err := f.lock(p.RequestID, expectedVersion)
	if err != nil {
		return req, copyPayment(p), err
	}

	switch p.Status {
	case models.PaymentStatusConfirmed:
	case models.PaymentStatusRejected:
		return copyRequest(req), copyPayment(p), utils.ErrAlreadyInState
	default:
		return copyRequest(req), copyPayment(p), utils.ErrPaymentNotConfirmed
	}

	next, err := guardAction(req, models.RejectActionFor(p.Type))
	if err != nil {
		return copyRequest(req), copyPayment(p), err
	}

	p.Status = models.PaymentStatusRejected
	p.RejectionReason = &reason
	p.RowVersion++

	req.Status = next
	req.RowVersion++
	req.UpdatedAt = time.Now()
	return copyRequest(req), copyPayment(p), nil
}

func (f *fakeRequestRepo) CompleteWithHiringDecisionAtomic(
	ctx context.Context,
	requestID uuid.UUID,
	expectedVersion int64,
	decision models.HiringDecision,
	notes *string,
) (*models.EmployerRequest, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	req, err := f.lock(requestID, expectedVersion)
	if err != nil {
		return req, err
	}
	next, err := guardAction(req, models.ActionMarkHiringDecision)
	if err != nil {
		return copyRequest(req), err
	}

	req.Status = next
	req.HiringDecision = &decision
	req.HiringNotes = notes
	req.RowVersion++
	req.UpdatedAt = time.Now()

	if decision == models.DecisionHired {
		if cand, ok := f.store.candidates[req.CandidateID]; ok {
			cand.Available = false
			cand.RowVersion++
		}
	}
	return copyRequest(req), nil
}

func (f *fakeRequestRepo) ListStaleRequired(ctx context.Context, olderThan time.Time) ([]*models.EmployerRequest, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*models.EmployerRequest
	for _, r := range f.store.requests {
		required := r.Status == models.StatusFirstPaymentRequired || r.Status == models.StatusSecondPaymentRequired
		if required && !r.FlaggedForReview && r.UpdatedAt.Before(olderThan) {
			out = append(out, copyRequest(r))
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) SetFlaggedForReview(ctx context.Context, id uuid.UUID) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if r, ok := f.store.requests[id]; ok {
		r.FlaggedForReview = true
	}
	return nil
}

// ---------------------------------------------------------------
// Payment repository
// ---------------------------------------------------------------

type fakePaymentRepo struct {
	store *fakeStore
}

var _ repositories.PaymentRepository = (*fakePaymentRepo)(nil)

func (f *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return copyPayment(f.store.payments[id]), nil
}

func (f *fakePaymentRepo) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*models.Payment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*models.Payment
	for _, p := range f.store.payments {
		if p.RequestID == requestID {
			out = append(out, copyPayment(p))
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) GetActiveByRequestAndType(ctx context.Context, requestID uuid.UUID, t models.PaymentType) (*models.Payment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, p := range f.store.payments {
		if p.RequestID == requestID && p.Type == t && p.IsActive() {
			return copyPayment(p), nil
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------
// Candidate, employer and audit repositories
// ---------------------------------------------------------------

type fakeCandidateRepo struct {
	store *fakeStore
}

var _ repositories.CandidateRepository = (*fakeCandidateRepo)(nil)

func (f *fakeCandidateRepo) Create(ctx context.Context, c *models.Candidate) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	cp := *c
	cp.RowVersion = 1
	f.store.candidates[cp.ID] = &cp
	return nil
}

func (f *fakeCandidateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	c, ok := f.store.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCandidateRepo) ListAvailable(ctx context.Context) ([]*models.Candidate, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*models.Candidate
	for _, c := range f.store.candidates {
		if c.Available {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCandidateRepo) UpdateIfVersion(ctx context.Context, c *models.Candidate, expected int64) (pgconn.CommandTag, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	existing, ok := f.store.candidates[c.ID]
	if !ok || existing.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := *c
	cp.RowVersion = expected + 1
	f.store.candidates[c.ID] = &cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (f *fakeCandidateRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Candidate) error) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	c, ok := f.store.candidates[id]
	if !ok {
		return utils.ErrNoRowsUpdated
	}
	if err := mutate(c); err != nil {
		return err
	}
	c.RowVersion++
	return nil
}

type fakeEmployerRepo struct {
	store *fakeStore
}

var _ repositories.EmployerRepository = (*fakeEmployerRepo)(nil)

func (f *fakeEmployerRepo) Create(ctx context.Context, e *models.Employer) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	cp := *e
	f.store.employers[cp.ID] = &cp
	return nil
}

func (f *fakeEmployerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Employer, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	e, ok := f.store.employers[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployerRepo) GetByEmail(ctx context.Context, email string) (*models.Employer, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, e := range f.store.employers {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeAuditRepo struct {
	store *fakeStore
}

var _ repositories.AdminAuditLogRepository = (*fakeAuditRepo)(nil)

func (f *fakeAuditRepo) Create(ctx context.Context, entry *models.AdminAuditLog) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	cp := *entry
	f.store.audits = append(f.store.audits, &cp)
	return nil
}
