package db

import (
	"context"
	"database/sql"
	"fmt"

	"gavel-bidding-service/internal/domain/auction"
	"gavel-bidding-service/internal/domain/shared"

	"github.com/google/uuid"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so the same store code
// serves plain reads and transaction-scoped access.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// AuctionStore implements the auction store interface against postgres
type AuctionStore struct {
	q       querier
	locking bool
}

// NewAuctionStore creates an auction store for plain reads
func NewAuctionStore(conn *Connection) *AuctionStore {
	return &AuctionStore{q: conn.GetDB()}
}

// newTxAuctionStore creates a transaction-scoped store whose Get takes a row
// lock, serializing concurrent bid attempts on the same auction
func newTxAuctionStore(tx *sql.Tx) *AuctionStore {
	return &AuctionStore{q: tx, locking: true}
}

// Get retrieves an auction by ID
func (s *AuctionStore) Get(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	query := `
		SELECT id, start_time, end_time, active, starting_bid, current_bid, highest_bidder_id, created_at, updated_at
		FROM auctions
		WHERE id = $1
	`
	if s.locking {
		query += " FOR UPDATE"
	}

	var a auction.Auction
	var highestBidder uuid.NullUUID
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.StartTime,
		&a.EndTime,
		&a.Active,
		&a.StartingBid,
		&a.CurrentBid,
		&highestBidder,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}

	if highestBidder.Valid {
		a.HighestBidderID = &highestBidder.UUID
	}

	return &a, nil
}

// Save persists the fields the bidding engine mutates
func (s *AuctionStore) Save(ctx context.Context, a *auction.Auction) error {
	query := `
		UPDATE auctions
		SET current_bid = $2, highest_bidder_id = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := s.q.ExecContext(ctx, query,
		a.ID,
		a.CurrentBid,
		a.HighestBidderID,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update auction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrAuctionNotFound
	}

	return nil
}
