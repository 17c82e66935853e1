package repositories

import (
	"context"
	"errors"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

type CandidateRepository interface {
	Create(ctx context.Context, c *models.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	ListAvailable(ctx context.Context) ([]*models.Candidate, error)
	UpdateIfVersion(ctx context.Context, c *models.Candidate, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Candidate) error) error
}

type candidateRepo struct {
	*BaseVersionedRepo[*models.Candidate]
	db DB
}

func NewCandidateRepository(db DB) CandidateRepository {
	r := &candidateRepo{db: db}
	selectStmt := baseSelectCandidate() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanCandidate)
	return r
}

func baseSelectCandidate() string {
	return `
        SELECT
            id, full_name, headline, summary,
            photo_url, contact_phone, contact_email,
            available, row_version, created_at, updated_at
        FROM candidates
    `
}

func scanCandidate(row pgx.Row) (*models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(
		&c.ID,
		&c.FullName,
		&c.Headline,
		&c.Summary,
		&c.PhotoURL,
		&c.ContactPhone,
		&c.ContactEmail,
		&c.Available,
		&c.RowVersion,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepo) Create(ctx context.Context, c *models.Candidate) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO candidates (
            id, full_name, headline, summary,
            photo_url, contact_phone, contact_email,
            available, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW(),1)
    `,
		c.ID,
		c.FullName,
		c.Headline,
		c.Summary,
		c.PhotoURL,
		c.ContactPhone,
		c.ContactEmail,
		c.Available,
	)
	return err
}

func (r *candidateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	row := r.db.QueryRow(ctx, baseSelectCandidate()+" WHERE id=$1", id)
	c, err := scanCandidate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *candidateRepo) ListAvailable(ctx context.Context) ([]*models.Candidate, error) {
	rows, err := r.db.Query(ctx, baseSelectCandidate()+" WHERE available=TRUE ORDER BY full_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *candidateRepo) UpdateIfVersion(ctx context.Context, c *models.Candidate, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE candidates
        SET full_name=$1, headline=$2, summary=$3,
            photo_url=$4, contact_phone=$5, contact_email=$6,
            available=$7,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$8 AND row_version=$9
    `,
		c.FullName,
		c.Headline,
		c.Summary,
		c.PhotoURL,
		c.ContactPhone,
		c.ContactEmail,
		c.Available,
		c.ID,
		expected,
	)
}

func (r *candidateRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Candidate) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}
