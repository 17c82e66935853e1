package repositories

import (
	"context"
	"errors"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type EmployerRepository interface {
	Create(ctx context.Context, e *models.Employer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Employer, error)
	GetByEmail(ctx context.Context, email string) (*models.Employer, error)
}

type employerRepo struct {
	db DB
}

func NewEmployerRepository(db DB) EmployerRepository {
	return &employerRepo{db: db}
}

func baseSelectEmployer() string {
	return `
        SELECT id, company_name, contact_name, email, phone_number,
               created_at, updated_at
        FROM employers
    `
}

func scanEmployer(row pgx.Row) (*models.Employer, error) {
	var e models.Employer
	err := row.Scan(
		&e.ID,
		&e.CompanyName,
		&e.ContactName,
		&e.Email,
		&e.PhoneNumber,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employerRepo) Create(ctx context.Context, e *models.Employer) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO employers (
            id, company_name, contact_name, email, phone_number,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
    `,
		e.ID,
		e.CompanyName,
		e.ContactName,
		e.Email,
		e.PhoneNumber,
	)
	return err
}

func (r *employerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Employer, error) {
	row := r.db.QueryRow(ctx, baseSelectEmployer()+" WHERE id=$1", id)
	e, err := scanEmployer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *employerRepo) GetByEmail(ctx context.Context, email string) (*models.Employer, error) {
	row := r.db.QueryRow(ctx, baseSelectEmployer()+" WHERE email=$1 LIMIT 1", email)
	e, err := scanEmployer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}
