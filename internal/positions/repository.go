package positions

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sellside/underwriter/internal/contracts"
)

// Repository loads the open-positions book used by portfolio-level
// concentration checks.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new positions repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Open returns all open positions.
func (r *Repository) Open(ctx context.Context) ([]contracts.Position, error) {
	query := `
		SELECT ticker, COALESCE(sector, ''), collateral, COALESCE(beta, 1.0)
		FROM positions
		WHERE status = 'open'
		ORDER BY ticker
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query open positions: %w", err)
	}
	defer rows.Close()

	positions := make([]contracts.Position, 0)
	for rows.Next() {
		var p contracts.Position
		if err := rows.Scan(&p.Ticker, &p.Sector, &p.Collateral, &p.Beta); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate positions: %w", rows.Err())
	}

	return positions, nil
}
