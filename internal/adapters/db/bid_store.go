package db

import (
	"context"
	"database/sql"
	"fmt"

	"gavel-bidding-service/internal/domain/bid"

	"github.com/google/uuid"
)

// BidStore implements the bid store interface against postgres. Bid rows are
// append-only; there is no update path.
type BidStore struct {
	q querier
}

// NewBidStore creates a bid store for plain reads
func NewBidStore(conn *Connection) *BidStore {
	return &BidStore{q: conn.GetDB()}
}

func newTxBidStore(tx *sql.Tx) *BidStore {
	return &BidStore{q: tx}
}

// Append stores a new bid record
func (s *BidStore) Append(ctx context.Context, b *bid.Bid) error {
	query := `
		INSERT INTO bids (id, auction_id, user_id, amount, bid_time)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.q.ExecContext(ctx, query,
		b.ID,
		b.AuctionID,
		b.UserID,
		b.Amount,
		b.BidTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}

	return nil
}

// ExistsFor reports whether the user has any prior bid on the auction
func (s *BidStore) ExistsFor(ctx context.Context, auctionID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bids WHERE auction_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := s.q.QueryRowContext(ctx, query, auctionID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check prior bids: %w", err)
	}

	return exists, nil
}

// ListByAuction retrieves all bids for an auction, highest amount first with
// bid time ascending as tie-break
func (s *BidStore) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error) {
	query := `
		SELECT id, auction_id, user_id, amount, bid_time
		FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC, bid_time ASC
	`

	rows, err := s.q.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	var bids []*bid.Bid
	for rows.Next() {
		var b bid.Bid
		err := rows.Scan(
			&b.ID,
			&b.AuctionID,
			&b.UserID,
			&b.Amount,
			&b.BidTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, &b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bids: %w", err)
	}

	return bids, nil
}
