package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacq/booking-service/internal/domain"
)

const hospitalsNameConstraint = "hospitals_name_key"

// HospitalRepository manages hospital persistence.
type HospitalRepository interface {
	Create(ctx context.Context, hospital *domain.Hospital) error
	Update(ctx context.Context, hospital *domain.Hospital) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Hospital, error)
	List(ctx context.Context) ([]domain.Hospital, error)
}

type hospitalRepository struct {
	pool *pgxpool.Pool
}

// NewHospitalRepository builds the Postgres repository.
func NewHospitalRepository(pool *pgxpool.Pool) HospitalRepository {
	return &hospitalRepository{pool: pool}
}

func (r *hospitalRepository) Create(ctx context.Context, h *domain.Hospital) error {
	const query = `
        INSERT INTO hospitals (id, name, address, district, province, postal_code, tel, region)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		h.ID,
		h.Name,
		h.Address,
		h.District,
		h.Province,
		h.PostalCode,
		h.Tel,
		h.Region,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if isUniqueViolation(err, hospitalsNameConstraint) {
		return ErrDuplicateName
	}
	return err
}

func (r *hospitalRepository) Update(ctx context.Context, h *domain.Hospital) error {
	const query = `
        UPDATE hospitals
        SET name=$1, address=$2, district=$3, province=$4, postal_code=$5, tel=$6, region=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		h.Name,
		h.Address,
		h.District,
		h.Province,
		h.PostalCode,
		h.Tel,
		h.Region,
		h.ID,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if isUniqueViolation(err, hospitalsNameConstraint) {
		return ErrDuplicateName
	}
	return mapNoRows(err)
}

func (r *hospitalRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM hospitals WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *hospitalRepository) GetByID(ctx context.Context, id string) (*domain.Hospital, error) {
	const query = `
        SELECT id, name, address, district, province, postal_code, tel, region, created_at, updated_at
        FROM hospitals WHERE id=$1`
	h, err := scanHospital(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return h, nil
}

func (r *hospitalRepository) List(ctx context.Context) ([]domain.Hospital, error) {
	const query = `
        SELECT id, name, address, district, province, postal_code, tel, region, created_at, updated_at
        FROM hospitals ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hospitals []domain.Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, err
		}
		hospitals = append(hospitals, *h)
	}
	return hospitals, rows.Err()
}

func scanHospital(row pgx.Row) (*domain.Hospital, error) {
	var h domain.Hospital
	if err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Address,
		&h.District,
		&h.Province,
		&h.PostalCode,
		&h.Tel,
		&h.Region,
		&h.CreatedAt,
		&h.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &h, nil
}
