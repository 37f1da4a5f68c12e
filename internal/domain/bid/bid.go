package bid

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid is an accepted bid record. Records are append-only: one is created per
// accepted attempt and never updated or deleted, so the set of bids for an
// auction is its full bidding history.
type Bid struct {
	ID        uuid.UUID       `json:"id"`
	AuctionID uuid.UUID       `json:"auction_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	BidTime   time.Time       `json:"bid_time"`
}

// New creates a bid record for an accepted attempt
func New(auctionID, userID uuid.UUID, amount decimal.Decimal, at time.Time) *Bid {
	return &Bid{
		ID:        uuid.New(),
		AuctionID: auctionID,
		UserID:    userID,
		Amount:    amount,
		BidTime:   at,
	}
}
