package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"rydes/internal/domain"
	"rydes/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q     Querier
	query string
}

// NewRideRepository creates a new PostgreSQL ride repository writing into table.
func NewRideRepository(db *sql.DB, table string) *RideRepository {
	return newRideRepository(db, table)
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx, table string) *RideRepository {
	return newRideRepository(tx, table)
}

func newRideRepository(q Querier, table string) *RideRepository {
	query := fmt.Sprintf(`
		INSERT INTO %s (ride_id, "user", unicorn, request_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ride_id) DO UPDATE
		SET "user" = EXCLUDED."user", unicorn = EXCLUDED.unicorn, request_time = EXCLUDED.request_time
	`, pq.QuoteIdentifier(table))

	return &RideRepository{q: q, query: query}
}

// Put inserts the ride, overwriting any row with the same ride_id.
func (r *RideRepository) Put(ctx context.Context, ride *domain.Ride) error {
	item, err := repository.NewRideItem(ride)
	if err != nil {
		return err
	}

	unicorn, err := json.Marshal(item.Unicorn)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, r.query,
		item.RideID,
		item.User,
		string(unicorn),
		item.RequestTime,
	)

	return err
}
