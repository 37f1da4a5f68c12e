package memory

import (
	"context"
	"sort"
	"sync"

	"gavel-bidding-service/internal/domain/auction"
	"gavel-bidding-service/internal/domain/bid"
	"gavel-bidding-service/internal/domain/shared"
	"gavel-bidding-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// Store is a concurrency-safe in-memory backend implementing all three stores
// and the bid unit of work. It backs tests and single-node deployments without
// postgres. Reads hand out copies so callers never alias shared state.
type Store struct {
	mu       sync.RWMutex
	auctions map[uuid.UUID]*auction.Auction
	users    map[uuid.UUID]*shared.User
	bids     map[uuid.UUID][]*bid.Bid // auctionID -> bids in insertion order

	lockMu       sync.Mutex
	auctionLocks map[uuid.UUID]*sync.Mutex
}

// NewStore creates a new in-memory store
func NewStore() *Store {
	return &Store{
		auctions:     make(map[uuid.UUID]*auction.Auction),
		users:        make(map[uuid.UUID]*shared.User),
		bids:         make(map[uuid.UUID][]*bid.Bid),
		auctionLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Get retrieves an auction by ID
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.auctions[id]
	if !ok {
		return nil, shared.ErrAuctionNotFound
	}
	cp := *a
	return &cp, nil
}

// Save persists an auction
func (s *Store) Save(ctx context.Context, a *auction.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[a.ID]; !ok {
		return shared.ErrAuctionNotFound
	}
	cp := *a
	s.auctions[a.ID] = &cp
	return nil
}

// PutAuction seeds an auction, bypassing the lifecycle owner. Intended for
// tests and local setups.
func (s *Store) PutAuction(a *auction.Auction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.auctions[a.ID] = &cp
}

// PutUser seeds a user
func (s *Store) PutUser(u *shared.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

// Users returns a UserStore view of the store
func (s *Store) Users() outbound.UserStore { return (*userView)(s) }

// Bids returns a BidStore view of the store
func (s *Store) Bids() outbound.BidStore { return (*bidView)(s) }

// userView exposes the user half of the store under the UserStore interface
// without a second copy of the maps
type userView Store

func (v *userView) Get(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	s := (*Store)(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (v *userView) Save(ctx context.Context, u *shared.User) error {
	s := (*Store)(v)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return shared.ErrUserNotFound
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

type bidView Store

func (v *bidView) Append(ctx context.Context, b *bid.Bid) error {
	s := (*Store)(v)
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *b
	s.bids[b.AuctionID] = append(s.bids[b.AuctionID], &cp)
	return nil
}

func (v *bidView) ExistsFor(ctx context.Context, auctionID, userID uuid.UUID) (bool, error) {
	s := (*Store)(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bids[auctionID] {
		if b.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (v *bidView) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error) {
	s := (*Store)(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.bids[auctionID]
	out := make([]*bid.Bid, 0, len(records))
	for _, b := range records {
		cp := *b
		out = append(out, &cp)
	}

	// Amount descending, bid time ascending as tie-break
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount.Equal(out[j].Amount) {
			return out[i].BidTime.Before(out[j].BidTime)
		}
		return out[i].Amount.GreaterThan(out[j].Amount)
	})

	return out, nil
}

// auctionLock returns the mutex serializing bid attempts on one auction
func (s *Store) auctionLock(auctionID uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	l, ok := s.auctionLocks[auctionID]
	if !ok {
		l = &sync.Mutex{}
		s.auctionLocks[auctionID] = l
	}
	return l
}

// WithinAuction implements the bid unit of work: the per-auction mutex
// serializes attempts on one auction while leaving other auctions free, and
// writes are staged so a failed attempt leaves no partial mutation behind.
func (s *Store) WithinAuction(ctx context.Context, auctionID uuid.UUID, fn func(outbound.Stores) error) error {
	l := s.auctionLock(auctionID)
	l.Lock()
	defer l.Unlock()

	staged := newStagedTx(s)
	if err := fn(outbound.Stores{
		Auctions: staged,
		Users:    (*stagedUsers)(staged),
		Bids:     (*stagedBids)(staged),
	}); err != nil {
		return err
	}

	staged.commit()
	return nil
}
