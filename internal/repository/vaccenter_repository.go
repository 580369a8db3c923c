package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vacq/booking-service/internal/domain"
)

// VacCenterRepository reads the legacy vaccination center table.
type VacCenterRepository interface {
	List(ctx context.Context) ([]domain.VacCenter, error)
}

// Querier is the subset of database/sql the raw repositories need.
// Both *sql.DB and *sql.Tx satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type vacCenterRepository struct {
	db Querier
}

// NewVacCenterRepository wraps a database/sql handle. A nil handle yields an
// empty listing.
func NewVacCenterRepository(db Querier) VacCenterRepository {
	return &vacCenterRepository{db: db}
}

func (r *vacCenterRepository) List(ctx context.Context) ([]domain.VacCenter, error) {
	if r.db == nil {
		return []domain.VacCenter{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, tel FROM vac_centers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	centers := []domain.VacCenter{}
	for rows.Next() {
		var (
			c   domain.VacCenter
			tel sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &tel); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		c.Tel = tel.String
		centers = append(centers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return centers, nil
}
