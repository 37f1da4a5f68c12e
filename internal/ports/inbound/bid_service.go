package inbound

import (
	"context"

	"gavel-bidding-service/internal/domain/bid"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidService defines the interface for bid operations
type BidService interface {
	// PlaceBid runs one bid attempt end-to-end and returns its receipt.
	// A business rejection is a receipt with Accepted=false, not an error.
	PlaceBid(ctx context.Context, req PlaceBidRequest) (*bid.Receipt, error)

	// ListBids retrieves the full bid history for an auction, highest first
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error)
}

// request to place a bid
type PlaceBidRequest struct {
	AuctionID uuid.UUID       `json:"auction_id"`
	UserID    uuid.UUID       `json:"user_id"`
	ClientID  string          `json:"client_id"`
	Amount    decimal.Decimal `json:"amount"`
}
