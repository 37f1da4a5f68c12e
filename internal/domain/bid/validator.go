package bid

import (
	"fmt"
	"time"

	"gavel-bidding-service/internal/domain/auction"
	"gavel-bidding-service/internal/domain/shared"

	"github.com/shopspring/decimal"
)

// RejectReason is a machine-checkable code for a rejected bid attempt.
// Callers act on the code; the message text is display-only.
type RejectReason string

const (
	ReasonAuctionClosed         RejectReason = "auction_closed"
	ReasonAuctionNotStarted     RejectReason = "auction_not_started"
	ReasonAlreadyHighestBidder  RejectReason = "already_highest_bidder"
	ReasonBelowMinimumIncrement RejectReason = "below_minimum_increment"
	ReasonInsufficientGuarantee RejectReason = "insufficient_guarantee"
)

// Outcome is the result of evaluating a bid attempt. On acceptance, Guarantee
// carries the hold to place on the bidder's wallet (zero unless this is the
// bidder's first bid on the auction).
type Outcome struct {
	Accepted  bool
	Reason    RejectReason
	Message   string
	Guarantee decimal.Decimal
}

func rejected(reason RejectReason, message string) Outcome {
	return Outcome{Reason: reason, Message: message}
}

// Evaluate decides whether a bid attempt is acceptable. It is a pure function
// of its inputs: checks run in a fixed order and the first failing check wins,
// so a rejection never depends on state past the failed check.
func Evaluate(a *auction.Auction, u *shared.User, priorBidExists bool, amount decimal.Decimal, at time.Time) Outcome {
	if !a.Open(at) {
		return rejected(ReasonAuctionClosed, "Auction is closed")
	}

	if !a.Started(at) {
		return rejected(ReasonAuctionNotStarted, "Auction hasn't started yet")
	}

	if a.IsHighestBidder(u.ID) {
		return rejected(ReasonAlreadyHighestBidder, "You already have the highest bid")
	}

	minAcceptable := a.MinimumNextBid()
	if amount.LessThan(minAcceptable) {
		return rejected(ReasonBelowMinimumIncrement,
			fmt.Sprintf("Minimum bid must be at least 10%% higher than current bid (min: %s)", minAcceptable))
	}

	// The guarantee is held once per bidder per auction. Later bids by the
	// same bidder skip the check entirely: their hold is already in place.
	guarantee := decimal.Zero
	if !priorBidExists {
		guarantee = a.EntryGuarantee()
		if !u.CanCover(guarantee) {
			return rejected(ReasonInsufficientGuarantee, "Insufficient balance for entry guarantee")
		}
	}

	return Outcome{Accepted: true, Guarantee: guarantee}
}
