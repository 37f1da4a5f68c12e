package auction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixed bidding rates. The minimum increment is relative to the current bid,
// the entry guarantee is relative to the starting bid.
var (
	MinIncrementRate = decimal.NewFromFloat(0.10)
	GuaranteeRate    = decimal.NewFromFloat(0.10)
)

// Auction represents a live auction as seen by the bidding engine. Lifecycle
// management (creation, scheduling, closing) is owned by an external
// collaborator; the engine only reads auction state and records accepted bids.
type Auction struct {
	ID              uuid.UUID       `json:"id"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	Active          bool            `json:"active"`
	StartingBid     decimal.Decimal `json:"starting_bid"`
	CurrentBid      decimal.Decimal `json:"current_bid"`
	HighestBidderID *uuid.UUID      `json:"highest_bidder_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Open returns true if the auction accepts bids at the given time
func (a *Auction) Open(at time.Time) bool {
	return a.Active && a.EndTime.After(at)
}

// Started returns true if the auction start time has been reached
func (a *Auction) Started(at time.Time) bool {
	return !a.StartTime.After(at)
}

// IsHighestBidder returns true if the given user currently holds the highest bid
func (a *Auction) IsHighestBidder(userID uuid.UUID) bool {
	return a.HighestBidderID != nil && *a.HighestBidderID == userID
}

// MinimumNextBid returns the smallest acceptable bid amount: the current bid
// plus the fixed 10% increment.
func (a *Auction) MinimumNextBid() decimal.Decimal {
	return a.CurrentBid.Add(a.CurrentBid.Mul(MinIncrementRate))
}

// EntryGuarantee returns the hold required before a user's first bid on this
// auction: 10% of the starting bid. It does not change as bidding progresses.
func (a *Auction) EntryGuarantee() decimal.Decimal {
	return a.StartingBid.Mul(GuaranteeRate)
}

// RecordBid applies an accepted bid to the auction state
func (a *Auction) RecordBid(userID uuid.UUID, amount decimal.Decimal, at time.Time) {
	bidder := userID
	a.CurrentBid = amount
	a.HighestBidderID = &bidder
	a.UpdatedAt = at
}
