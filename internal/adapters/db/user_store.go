package db

import (
	"context"
	"database/sql"
	"fmt"

	"gavel-bidding-service/internal/domain/shared"

	"github.com/google/uuid"
)

// UserStore implements the user store interface against postgres
type UserStore struct {
	q       querier
	locking bool
}

// NewUserStore creates a user store for plain reads
func NewUserStore(conn *Connection) *UserStore {
	return &UserStore{q: conn.GetDB()}
}

// newTxUserStore creates a transaction-scoped store whose Get locks the
// bidder's row. The auction row is always locked first, so lock order is
// consistent across attempts.
func newTxUserStore(tx *sql.Tx) *UserStore {
	return &UserStore{q: tx, locking: true}
}

// Get retrieves a user by ID
func (s *UserStore) Get(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	query := `
		SELECT id, username, wallet_balance, reserved_balance
		FROM users
		WHERE id = $1
	`
	if s.locking {
		query += " FOR UPDATE"
	}

	var user shared.User
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.WalletBalance,
		&user.ReservedBalance,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Save persists the user's wallet balances
func (s *UserStore) Save(ctx context.Context, user *shared.User) error {
	query := `
		UPDATE users
		SET wallet_balance = $2, reserved_balance = $3
		WHERE id = $1
	`

	result, err := s.q.ExecContext(ctx, query,
		user.ID,
		user.WalletBalance,
		user.ReservedBalance,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrUserNotFound
	}

	return nil
}
