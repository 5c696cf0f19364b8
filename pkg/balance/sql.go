package balance

import (
	"context"
	"database/sql"
	"errors"
)

// SQLStore keeps balances in the `balances` table
// The queries work with both postgres and sqlite3
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore returns a store backed by the database handle
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// GetBalance returns the balance for the player
func (s *SQLStore) GetBalance(ctx context.Context, playerID string) (int, error) {
	const query = `
SELECT balance
FROM balances
WHERE player_id = $1`

	var amount int
	if err := s.db.QueryRowContext(ctx, query, playerID).Scan(&amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}

		return 0, err
	}

	return amount, nil
}

// UpdateBalance inserts or updates the balance for the player
func (s *SQLStore) UpdateBalance(ctx context.Context, playerID string, amount int) (bool, error) {
	const query = `
INSERT INTO balances (player_id, balance)
VALUES ($1, $2)
ON CONFLICT (player_id) DO UPDATE
SET balance = excluded.balance, updated = CURRENT_TIMESTAMP`

	res, err := s.db.ExecContext(ctx, query, playerID, amount)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
