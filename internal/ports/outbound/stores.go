package outbound

import (
	"context"

	"gavel-bidding-service/internal/domain/auction"
	"gavel-bidding-service/internal/domain/bid"
	"gavel-bidding-service/internal/domain/shared"

	"github.com/google/uuid"
)

// AuctionStore defines the interface for auction data operations
type AuctionStore interface {
	// Get retrieves an auction by ID
	Get(ctx context.Context, id uuid.UUID) (*auction.Auction, error)

	// Save persists the mutable auction fields (current bid, highest bidder)
	Save(ctx context.Context, auction *auction.Auction) error
}

// UserStore defines the interface for user data operations
type UserStore interface {
	// Get retrieves a user by ID
	Get(ctx context.Context, id uuid.UUID) (*shared.User, error)

	// Save persists the user's wallet balances
	Save(ctx context.Context, user *shared.User) error
}

// BidStore defines the interface for bid record operations
type BidStore interface {
	// Append stores a new bid record; records are never updated or deleted
	Append(ctx context.Context, bid *bid.Bid) error

	// ExistsFor reports whether the user has any prior bid on the auction
	ExistsFor(ctx context.Context, auctionID, userID uuid.UUID) (bool, error)

	// ListByAuction retrieves all bids for an auction, ordered by amount
	// descending with bid time ascending as tie-break
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error)
}

// Stores bundles the three stores as seen from inside one unit of work
type Stores struct {
	Auctions AuctionStore
	Users    UserStore
	Bids     BidStore
}

// BidUnitOfWork runs a function against transaction-scoped stores. Everything
// the function saves commits as one atomic unit; any error rolls the whole
// attempt back. Execution is serialized per auction: two concurrent calls for
// the same auction never observe the same starting state, while calls for
// different auctions do not block each other.
type BidUnitOfWork interface {
	WithinAuction(ctx context.Context, auctionID uuid.UUID, fn func(Stores) error) error
}
