package bid

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is the caller-facing result of a bid attempt. A rejection is a
// normal outcome carried as a value, never as an error; only missing entities
// and persistence failures surface as errors.
type Receipt struct {
	Accepted  bool            `json:"accepted"`
	AuctionID uuid.UUID       `json:"auction_id"`
	Amount    decimal.Decimal `json:"amount,omitempty"`
	Bidder    string          `json:"bidder,omitempty"`
	BidTime   time.Time       `json:"bid_time,omitempty"`
	Reason    RejectReason    `json:"reason,omitempty"`
	Message   string          `json:"message"`
}

// AcceptedReceipt builds the receipt for an accepted bid
func AcceptedReceipt(accepted *Bid, bidder string) *Receipt {
	return &Receipt{
		Accepted:  true,
		AuctionID: accepted.AuctionID,
		Amount:    accepted.Amount,
		Bidder:    bidder,
		BidTime:   accepted.BidTime,
		Message:   "Bid placed successfully",
	}
}

// RejectedReceipt builds the receipt for a rejected bid attempt
func RejectedReceipt(auctionID uuid.UUID, outcome Outcome) *Receipt {
	return &Receipt{
		AuctionID: auctionID,
		Reason:    outcome.Reason,
		Message:   outcome.Message,
	}
}
