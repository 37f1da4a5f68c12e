package memory

import (
	"context"
	"sort"

	"gavel-bidding-service/internal/domain/auction"
	"gavel-bidding-service/internal/domain/bid"
	"gavel-bidding-service/internal/domain/shared"

	"github.com/google/uuid"
)

// stagedTx buffers writes made inside a unit of work. Reads see staged writes
// first, then the backing store; nothing touches the backing store until
// commit, so an attempt that errors out mutates nothing.
type stagedTx struct {
	store    *Store
	auctions map[uuid.UUID]*auction.Auction
	users    map[uuid.UUID]*shared.User
	appended []*bid.Bid
}

func newStagedTx(store *Store) *stagedTx {
	return &stagedTx{
		store:    store,
		auctions: make(map[uuid.UUID]*auction.Auction),
		users:    make(map[uuid.UUID]*shared.User),
	}
}

func (t *stagedTx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range t.auctions {
		s.auctions[id] = a
	}
	for id, u := range t.users {
		s.users[id] = u
	}
	for _, b := range t.appended {
		s.bids[b.AuctionID] = append(s.bids[b.AuctionID], b)
	}
}

// Get retrieves an auction, preferring a staged write
func (t *stagedTx) Get(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	if a, ok := t.auctions[id]; ok {
		cp := *a
		return &cp, nil
	}
	return t.store.Get(ctx, id)
}

// Save stages an auction write
func (t *stagedTx) Save(ctx context.Context, a *auction.Auction) error {
	if _, staged := t.auctions[a.ID]; !staged {
		if _, err := t.store.Get(ctx, a.ID); err != nil {
			return err
		}
	}
	cp := *a
	t.auctions[a.ID] = &cp
	return nil
}

type stagedUsers stagedTx

func (t *stagedUsers) Get(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	if u, ok := t.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return (*stagedTx)(t).store.Users().Get(ctx, id)
}

func (t *stagedUsers) Save(ctx context.Context, u *shared.User) error {
	tx := (*stagedTx)(t)
	if _, staged := t.users[u.ID]; !staged {
		if _, err := tx.store.Users().Get(ctx, u.ID); err != nil {
			return err
		}
	}
	cp := *u
	t.users[u.ID] = &cp
	return nil
}

type stagedBids stagedTx

func (t *stagedBids) Append(ctx context.Context, b *bid.Bid) error {
	cp := *b
	t.appended = append(t.appended, &cp)
	return nil
}

func (t *stagedBids) ExistsFor(ctx context.Context, auctionID, userID uuid.UUID) (bool, error) {
	for _, b := range t.appended {
		if b.AuctionID == auctionID && b.UserID == userID {
			return true, nil
		}
	}
	return (*stagedTx)(t).store.Bids().ExistsFor(ctx, auctionID, userID)
}

func (t *stagedBids) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error) {
	out, err := (*stagedTx)(t).store.Bids().ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	// Merge staged appends so reads inside the unit of work see their own
	// writes, then restore the listing order
	for _, b := range t.appended {
		if b.AuctionID != auctionID {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount.Equal(out[j].Amount) {
			return out[i].BidTime.Before(out[j].BidTime)
		}
		return out[i].Amount.GreaterThan(out[j].Amount)
	})

	return out, nil
}
