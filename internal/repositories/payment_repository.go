package repositories

import (
	"context"
	"errors"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type PaymentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*models.Payment, error)
	GetActiveByRequestAndType(ctx context.Context, requestID uuid.UUID, t models.PaymentType) (*models.Payment, error)
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepository(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func baseSelectPayment() string {
	return `
        SELECT
            id, request_id, payment_type, status,
            amount, currency, payment_method,
            confirmation_name, confirmation_phone, payment_reference,
            transfer_date, notes, admin_notes, rejection_reason,
            row_version, created_at, updated_at
        FROM payments
    `
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(
		&p.ID,
		&p.RequestID,
		&p.Type,
		&p.Status,
		&p.Amount,
		&p.Currency,
		&p.PaymentMethod,
		&p.ConfirmationName,
		&p.ConfirmationPhone,
		&p.PaymentReference,
		&p.TransferDate,
		&p.Notes,
		&p.AdminNotes,
		&p.RejectionReason,
		&p.RowVersion,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, baseSelectPayment()+" WHERE id=$1", id)
	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *paymentRepo) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, baseSelectPayment()+" WHERE request_id=$1 ORDER BY created_at", requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetActiveByRequestAndType returns the single non-rejected, non-failed
// payment for a (request, type) pair, or nil when none exists.
func (r *paymentRepo) GetActiveByRequestAndType(
	ctx context.Context,
	requestID uuid.UUID,
	t models.PaymentType,
) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, baseSelectPayment()+`
        WHERE request_id=$1 AND payment_type=$2
          AND status NOT IN ('rejected','failed')
        ORDER BY created_at DESC
        LIMIT 1
    `, requestID, t)
	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}
