package repositories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// PaymentConfirmation carries the employer-supplied confirmation fields.
// The amount is deliberately absent: it was fixed by the admin at creation
// and is never taken from the employer.
type PaymentConfirmation struct {
	ConfirmationName  string
	ConfirmationPhone string
	PaymentReference  *string
	TransferDate      *time.Time
	Notes             *string
}

/*
EmployerRequestRepository owns the request row and every transaction that
spans it. All workflow mutations lock the request row first (FOR UPDATE),
re-check the row version and the transition guard under the lock, and
commit the full multi-row change or nothing.
*/
type EmployerRequestRepository interface {
	Create(ctx context.Context, req *models.EmployerRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EmployerRequest, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]*models.EmployerRequest, error)
	List(ctx context.Context, status *models.RequestStatus, page, size int) ([]*models.EmployerRequest, int, error)

	// TransitionAtomic applies a single-table lifecycle action. The apply
	// callback mutates non-status fields (rejection reason, hiring notes)
	// after the guard has passed.
	TransitionAtomic(
		ctx context.Context,
		id uuid.UUID,
		expectedVersion int64,
		action models.RequestAction,
		apply func(*models.EmployerRequest),
	) (*models.EmployerRequest, error)

	CreatePaymentAtomic(
		ctx context.Context,
		requestID uuid.UUID,
		expectedVersion int64,
		action models.RequestAction,
		payment *models.Payment,
	) (*models.EmployerRequest, error)

	ConfirmPaymentAtomic(
		ctx context.Context,
		paymentID uuid.UUID,
		expectedVersion int64,
		conf PaymentConfirmation,
	) (*models.EmployerRequest, *models.Payment, error)

	ApprovePaymentAtomic(
		ctx context.Context,
		paymentID uuid.UUID,
		expectedVersion int64,
		adminNotes *string,
	) (*models.EmployerRequest, *models.Payment, error)

	RejectPaymentAtomic(
		ctx context.Context,
		paymentID uuid.UUID,
		expectedVersion int64,
		reason string,
	) (*models.EmployerRequest, *models.Payment, error)

	// CompleteWithHiringDecisionAtomic closes the request and, when the
	// decision is "hired", flips the candidate's availability in the same
	// transaction.
	CompleteWithHiringDecisionAtomic(
		ctx context.Context,
		requestID uuid.UUID,
		expectedVersion int64,
		decision models.HiringDecision,
		notes *string,
	) (*models.EmployerRequest, error)

	ListStaleRequired(ctx context.Context, olderThan time.Time) ([]*models.EmployerRequest, error)
	SetFlaggedForReview(ctx context.Context, id uuid.UUID) error
}

type employerRequestRepo struct {
	db DB
}

func NewEmployerRequestRepository(db DB) EmployerRequestRepository {
	return &employerRequestRepo{db: db}
}

// baseSelectRequest also resolves the payment type backing the retired
// `payment_confirmed` status alias, so scanRequest can normalize it before
// any guard or policy reads the row.
func baseSelectRequest() string {
	return `
        SELECT
            id, employer_id, candidate_id, message, status, priority,
            photo_access, contact_access, full_access,
            rejection_reason, full_details_reason, hiring_decision, hiring_notes,
            flagged_for_review, archived_at,
            row_version, created_at, updated_at,
            CASE WHEN status = 'payment_confirmed' THEN (
                SELECT p.payment_type FROM payments p
                WHERE p.request_id = employer_requests.id
                  AND p.status NOT IN ('rejected','failed')
                ORDER BY p.created_at DESC
                LIMIT 1
            ) END AS legacy_payment_type
        FROM employer_requests
    `
}

func scanRequest(row pgx.Row) (*models.EmployerRequest, error) {
	var req models.EmployerRequest
	var legacyType *string
	err := row.Scan(
		&req.ID,
		&req.EmployerID,
		&req.CandidateID,
		&req.Message,
		&req.Status,
		&req.Priority,
		&req.PhotoAccess,
		&req.ContactAccess,
		&req.FullAccess,
		&req.RejectionReason,
		&req.FullDetailsReason,
		&req.HiringDecision,
		&req.HiringNotes,
		&req.FlaggedForReview,
		&req.ArchivedAt,
		&req.RowVersion,
		&req.CreatedAt,
		&req.UpdatedAt,
		&legacyType,
	)
	if err != nil {
		return nil, err
	}
	t := models.PaymentTypePhotoAccess
	if legacyType != nil {
		t = models.PaymentType(*legacyType)
	}
	req.Status = models.NormalizeStatus(req.Status, t)
	return &req, nil
}

func (r *employerRequestRepo) Create(ctx context.Context, req *models.EmployerRequest) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO employer_requests (
            id, employer_id, candidate_id, message, status, priority,
            photo_access, contact_access, full_access,
            flagged_for_review, created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,FALSE,FALSE,FALSE,FALSE,NOW(),NOW(),1
        )
    `,
		req.ID,
		req.EmployerID,
		req.CandidateID,
		req.Message,
		req.Status,
		req.Priority,
	)
	return err
}

func (r *employerRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EmployerRequest, error) {
	row := r.db.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1", id)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

func (r *employerRequestRepo) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]*models.EmployerRequest, error) {
	rows, err := r.db.Query(ctx, baseSelectRequest()+`
        WHERE employer_id=$1 AND archived_at IS NULL
        ORDER BY created_at DESC
    `, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.EmployerRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *employerRequestRepo) List(
	ctx context.Context,
	status *models.RequestStatus,
	page, size int,
) ([]*models.EmployerRequest, int, error) {
	where := " WHERE archived_at IS NULL"
	args := []any{}
	if status != nil {
		where += " AND status=$1"
		args = append(args, *status)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM employer_requests"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size
	q := baseSelectRequest() + where +
		" ORDER BY created_at DESC" +
		" LIMIT " + strconv.Itoa(size) + " OFFSET " + strconv.Itoa(offset)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.EmployerRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, req)
	}
	return out, total, rows.Err()
}

// ---------------------------------------------------------------
// Atomic workflow operations
// ---------------------------------------------------------------

// lockRequest reads the request row FOR UPDATE and verifies the caller's
// expected row version. On a version mismatch the fresh row is returned
// alongside ErrRowVersionConflict so callers can surface the latest state.
func lockRequest(
	ctx context.Context,
	tx pgx.Tx,
	id uuid.UUID,
	expectedVersion int64,
) (*models.EmployerRequest, error) {
	row := tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1 FOR UPDATE", id)
	req, err := scanRequest(row)
	if err != nil {
		return nil, err
	}
	if req.RowVersion != expectedVersion {
		return req, utils.ErrRowVersionConflict
	}
	return req, nil
}

// guard re-checks the transition under the row lock. The pre-flight check
// in the service layer is advisory; this one is authoritative.
func guard(req *models.EmployerRequest, action models.RequestAction) (models.RequestStatus, error) {
	next, check := models.CheckTransition(req.Status, action)
	switch check {
	case models.TransitionAlreadyApplied:
		return next, utils.ErrAlreadyInState
	case models.TransitionInvalid:
		return next, utils.ErrInvalidTransition
	}
	return next, nil
}

func updateRequestTx(ctx context.Context, tx pgx.Tx, req *models.EmployerRequest) error {
	_, err := tx.Exec(ctx, `
        UPDATE employer_requests
        SET status=$1,
            photo_access=$2, contact_access=$3, full_access=$4,
            rejection_reason=$5, full_details_reason=$6, hiring_decision=$7,
            hiring_notes=$8, flagged_for_review=$9,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$10
    `,
		req.Status,
		req.PhotoAccess,
		req.ContactAccess,
		req.FullAccess,
		req.RejectionReason,
		req.FullDetailsReason,
		req.HiringDecision,
		req.HiringNotes,
		req.FlaggedForReview,
		req.ID,
	)
	return err
}

func (r *employerRequestRepo) TransitionAtomic(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
	action models.RequestAction,
	apply func(*models.EmployerRequest),
) (*models.EmployerRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	req, err := lockRequest(ctx, tx, id, expectedVersion)
	if err != nil {
		return req, err
	}

	next, gErr := guard(req, action)
	if gErr != nil {
		err = gErr
		return req, err
	}

	req.Status = next
	if apply != nil {
		apply(req)
	}
	if err = updateRequestTx(ctx, tx, req); err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1", id)
	return scanRequest(newRow)
}

func (r *employerRequestRepo) CreatePaymentAtomic(
	ctx context.Context,
	requestID uuid.UUID,
	expectedVersion int64,
	action models.RequestAction,
	payment *models.Payment,
) (*models.EmployerRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	req, err := lockRequest(ctx, tx, requestID, expectedVersion)
	if err != nil {
		return req, err
	}

	// Re-issuing while already in the payment-required state is allowed:
	// that is exactly the retry path after a rejected payment. The
	// active-payment check below still blocks duplicates.
	next, check := models.CheckTransition(req.Status, action)
	if check == models.TransitionInvalid {
		err = utils.ErrInvalidTransition
		return req, err
	}

	// At most one active payment per (request, type).
	var active int
	err = tx.QueryRow(ctx, `
        SELECT COUNT(*) FROM payments
        WHERE request_id=$1 AND payment_type=$2
          AND status NOT IN ('rejected','failed')
    `, requestID, payment.Type).Scan(&active)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		err = utils.ErrActivePaymentExists
		return req, err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO payments (
            id, request_id, payment_type, status,
            amount, currency, payment_method,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW(),1)
    `,
		payment.ID,
		payment.RequestID,
		payment.Type,
		payment.Status,
		payment.Amount,
		payment.Currency,
		payment.PaymentMethod,
	)
	if err != nil {
		return nil, err
	}

	req.Status = next
	if err = updateRequestTx(ctx, tx, req); err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1", requestID)
	return scanRequest(newRow)
}

// lockPaymentAndRequest resolves the payment's owning request, then takes
// the locks in a fixed order: request row first, payment row second. Every
// workflow op follows the same order, so two racing ops serialize on the
// request lock instead of deadlocking.
func lockPaymentAndRequest(
	ctx context.Context,
	tx pgx.Tx,
	paymentID uuid.UUID,
	expectedVersion int64,
) (*models.EmployerRequest, *models.Payment, error) {
	var requestID uuid.UUID
	if err := tx.QueryRow(ctx, "SELECT request_id FROM payments WHERE id=$1", paymentID).Scan(&requestID); err != nil {
		return nil, nil, err
	}

	req, err := lockRequest(ctx, tx, requestID, expectedVersion)
	if err != nil {
		return req, nil, err
	}

	row := tx.QueryRow(ctx, baseSelectPayment()+" WHERE id=$1 FOR UPDATE", paymentID)
	p, err := scanPayment(row)
	if err != nil {
		return req, nil, err
	}
	return req, p, nil
}

func (r *employerRequestRepo) ConfirmPaymentAtomic(
	ctx context.Context,
	paymentID uuid.UUID,
	expectedVersion int64,
	conf PaymentConfirmation,
) (*models.EmployerRequest, *models.Payment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	req, p, err := lockPaymentAndRequest(ctx, tx, paymentID, expectedVersion)
	if err != nil {
		return req, p, err
	}

	switch p.Status {
	case models.PaymentStatusPending:
		// proceed
	case models.PaymentStatusConfirmed:
		err = utils.ErrAlreadyInState
		return req, p, err
	default:
		err = utils.ErrPaymentNotPending
		return req, p, err
	}

	next, gErr := guard(req, models.ConfirmActionFor(p.Type))
	if gErr != nil {
		err = gErr
		return req, p, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE payments
        SET status='confirmed',
            confirmation_name=$1, confirmation_phone=$2,
            payment_reference=$3, transfer_date=$4, notes=$5,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$6
    `,
		conf.ConfirmationName,
		conf.ConfirmationPhone,
		conf.PaymentReference,
		conf.TransferDate,
		conf.Notes,
		paymentID,
	)
	if err != nil {
		return nil, nil, err
	}

	req.Status = next
	if err = updateRequestTx(ctx, tx, req); err != nil {
		return nil, nil, err
	}

	return reloadPair(ctx, tx, req.ID, paymentID)
}

func (r *employerRequestRepo) ApprovePaymentAtomic(
	ctx context.Context,
	paymentID uuid.UUID,
	expectedVersion int64,
	adminNotes *string,
) (*models.EmployerRequest, *models.Payment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	req, p, err := lockPaymentAndRequest(ctx, tx, paymentID, expectedVersion)
	if err != nil {
		return req, p, err
	}

	switch p.Status {
	case models.PaymentStatusConfirmed:
		// proceed
	case models.PaymentStatusApproved:
		err = utils.ErrAlreadyInState
		return req, p, err
	default:
		err = utils.ErrPaymentNotConfirmed
		return req, p, err
	}

	next, gErr := guard(req, models.ApproveActionFor(p.Type))
	if gErr != nil {
		err = gErr
		return req, p, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE payments
        SET status='approved', admin_notes=$1,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, adminNotes, paymentID)
	if err != nil {
		return nil, nil, err
	}

	req.Status = next
	switch p.Type {
	case models.PaymentTypePhotoAccess:
		req.PhotoAccess = true
	case models.PaymentTypeFullDetails:
		req.ContactAccess = true
		req.FullAccess = req.PhotoAccess && req.ContactAccess
	}
	if err = updateRequestTx(ctx, tx, req); err != nil {
		return nil, nil, err
	}

	return reloadPair(ctx, tx, req.ID, paymentID)
}

func (r *employerRequestRepo) RejectPaymentAtomic(
	ctx context.Context,
	paymentID uuid.UUID,
	expectedVersion int64,
	reason string,
) (*models.EmployerRequest, *models.Payment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	req, p, err := lockPaymentAndRequest(ctx, tx, paymentID, expectedVersion)
	if err != nil {
		return req, p, err
	}

	switch p.Status {
	case models.PaymentStatusConfirmed:
		// proceed
	case models.PaymentStatusRejected:
		err = utils.ErrAlreadyInState
		return req, p, err
	default:
		err = utils.ErrPaymentNotConfirmed
		return req, p, err
	}

	next, gErr := guard(req, models.RejectActionFor(p.Type))
	if gErr != nil {
		err = gErr
		return req, p, err
	}

	// Payments are never reused: this one is terminally rejected and a
	// fresh row must be issued for a retry.
	_, err = tx.Exec(ctx, `
        UPDATE payments
        SET status='rejected', rejection_reason=$1,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, reason, paymentID)
	if err != nil {
		return nil, nil, err
	}

	req.Status = next
	if err = updateRequestTx(ctx, tx, req); err != nil {
		return nil, nil, err
	}

	return reloadPair(ctx, tx, req.ID, paymentID)
}

func (r *employerRequestRepo) CompleteWithHiringDecisionAtomic(
	ctx context.Context,
	requestID uuid.UUID,
	expectedVersion int64,
	decision models.HiringDecision,
	notes *string,
) (*models.EmployerRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	req, err := lockRequest(ctx, tx, requestID, expectedVersion)
	if err != nil {
		return req, err
	}

	next, gErr := guard(req, models.ActionMarkHiringDecision)
	if gErr != nil {
		err = gErr
		return req, err
	}

	req.Status = next
	req.HiringDecision = &decision
	req.HiringNotes = notes
	if err = updateRequestTx(ctx, tx, req); err != nil {
		return nil, err
	}

	// Cross-aggregate side effect: a hired candidate stops being available
	// the instant the request completes, in the same transaction.
	if decision == models.DecisionHired {
		_, err = tx.Exec(ctx, `
            UPDATE candidates
            SET available=FALSE, row_version=row_version+1, updated_at=NOW()
            WHERE id=$1
        `, req.CandidateID)
		if err != nil {
			return nil, err
		}
	}

	newRow := tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1", requestID)
	return scanRequest(newRow)
}

func (r *employerRequestRepo) ListStaleRequired(ctx context.Context, olderThan time.Time) ([]*models.EmployerRequest, error) {
	rows, err := r.db.Query(ctx, baseSelectRequest()+`
        WHERE status IN ('first_payment_required','second_payment_required')
          AND flagged_for_review=FALSE
          AND updated_at < $1
    `, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.EmployerRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *employerRequestRepo) SetFlaggedForReview(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
        UPDATE employer_requests
        SET flagged_for_review=TRUE, updated_at=NOW()
        WHERE id=$1
    `, id)
	return err
}

func reloadPair(
	ctx context.Context,
	tx pgx.Tx,
	requestID, paymentID uuid.UUID,
) (*models.EmployerRequest, *models.Payment, error) {
	req, err := scanRequest(tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1", requestID))
	if err != nil {
		return nil, nil, err
	}
	p, err := scanPayment(tx.QueryRow(ctx, baseSelectPayment()+" WHERE id=$1", paymentID))
	if err != nil {
		return nil, nil, err
	}
	return req, p, nil
}
