package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"gavel-bidding-service/internal/domain/auction"
	"gavel-bidding-service/internal/domain/bid"
	"gavel-bidding-service/internal/domain/shared"
	"gavel-bidding-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testAuction() *auction.Auction {
	now := time.Now()
	return &auction.Auction{
		ID:          uuid.New(),
		StartTime:   now.Add(-1 * time.Hour),
		EndTime:     now.Add(1 * time.Hour),
		Active:      true,
		StartingBid: decimal.NewFromInt(50),
		CurrentBid:  decimal.NewFromInt(100),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestStoreGetReturnsCopies(t *testing.T) {
	t.Parallel()

	store := NewStore()
	a := testAuction()
	store.PutAuction(a)

	first, err := store.Get(context.Background(), a.ID)
	require.NoError(t, err)

	// Mutating what Get handed out must not leak into the store
	first.CurrentBid = decimal.NewFromInt(999)

	second, err := store.Get(context.Background(), a.ID)
	require.NoError(t, err)
	require.True(t, second.CurrentBid.Equal(decimal.NewFromInt(100)))
}

func TestStoreNotFound(t *testing.T) {
	t.Parallel()

	store := NewStore()

	_, err := store.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, shared.ErrAuctionNotFound)

	_, err = store.Users().Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, shared.ErrUserNotFound)

	err = store.Save(context.Background(), testAuction())
	require.ErrorIs(t, err, shared.ErrAuctionNotFound)
}

func TestBidViewExistsFor(t *testing.T) {
	t.Parallel()

	store := NewStore()
	auctionID := uuid.New()
	userID := uuid.New()

	exists, err := store.Bids().ExistsFor(context.Background(), auctionID, userID)
	require.NoError(t, err)
	require.False(t, exists)

	b := bid.New(auctionID, userID, decimal.NewFromInt(110), time.Now())
	require.NoError(t, store.Bids().Append(context.Background(), b))

	exists, err = store.Bids().ExistsFor(context.Background(), auctionID, userID)
	require.NoError(t, err)
	require.True(t, exists)

	// Same user, different auction
	exists, err = store.Bids().ExistsFor(context.Background(), uuid.New(), userID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestBidViewListOrdering(t *testing.T) {
	t.Parallel()

	store := NewStore()
	auctionID := uuid.New()
	base := time.Now()

	early := uuid.New()
	late := uuid.New()

	// Equal amounts differ only in bid time, appended late first
	for _, rec := range []struct {
		userID uuid.UUID
		amount int64
		at     time.Time
	}{
		{late, 150, base.Add(2 * time.Second)},
		{early, 150, base.Add(1 * time.Second)},
		{uuid.New(), 120, base},
	} {
		b := bid.New(auctionID, rec.userID, decimal.NewFromInt(rec.amount), rec.at)
		require.NoError(t, store.Bids().Append(context.Background(), b))
	}

	bids, err := store.Bids().ListByAuction(context.Background(), auctionID)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	require.Equal(t, early, bids[0].UserID)
	require.Equal(t, late, bids[1].UserID)
	require.True(t, bids[2].Amount.Equal(decimal.NewFromInt(120)))
}

func TestWithinAuctionRollsBackOnError(t *testing.T) {
	t.Parallel()

	store := NewStore()
	a := testAuction()
	store.PutAuction(a)
	u := &shared.User{
		ID:            uuid.New(),
		Username:      "alice",
		WalletBalance: decimal.NewFromInt(100),
	}
	store.PutUser(u)

	boom := errors.New("boom")
	err := store.WithinAuction(context.Background(), a.ID, func(stores outbound.Stores) error {
		auc, err := stores.Auctions.Get(context.Background(), a.ID)
		require.NoError(t, err)
		auc.CurrentBid = decimal.NewFromInt(500)
		require.NoError(t, stores.Auctions.Save(context.Background(), auc))

		usr, err := stores.Users.Get(context.Background(), u.ID)
		require.NoError(t, err)
		usr.WalletBalance = decimal.Zero
		require.NoError(t, stores.Users.Save(context.Background(), usr))

		b := bid.New(a.ID, u.ID, decimal.NewFromInt(500), time.Now())
		require.NoError(t, stores.Bids.Append(context.Background(), b))

		return boom
	})
	require.ErrorIs(t, err, boom)

	// Every staged write discarded
	stored, err := store.Get(context.Background(), a.ID)
	require.NoError(t, err)
	require.True(t, stored.CurrentBid.Equal(decimal.NewFromInt(100)))

	storedUser, err := store.Users().Get(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, storedUser.WalletBalance.Equal(decimal.NewFromInt(100)))

	bids, err := store.Bids().ListByAuction(context.Background(), a.ID)
	require.NoError(t, err)
	require.Empty(t, bids)
}

func TestWithinAuctionStagedReadsSeeOwnWrites(t *testing.T) {
	t.Parallel()

	store := NewStore()
	a := testAuction()
	store.PutAuction(a)

	userID := uuid.New()
	err := store.WithinAuction(context.Background(), a.ID, func(stores outbound.Stores) error {
		b := bid.New(a.ID, userID, decimal.NewFromInt(110), time.Now())
		if err := stores.Bids.Append(context.Background(), b); err != nil {
			return err
		}

		exists, err := stores.Bids.ExistsFor(context.Background(), a.ID, userID)
		if err != nil {
			return err
		}
		require.True(t, exists)
		return nil
	})
	require.NoError(t, err)

	// And the commit made it durable
	exists, err := store.Bids().ExistsFor(context.Background(), a.ID, userID)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestWithinAuctionStagedListMergesOwnAppends(t *testing.T) {
	t.Parallel()

	store := NewStore()
	a := testAuction()
	store.PutAuction(a)

	base := time.Now()
	committed := bid.New(a.ID, uuid.New(), decimal.NewFromInt(120), base)
	require.NoError(t, store.Bids().Append(context.Background(), committed))

	err := store.WithinAuction(context.Background(), a.ID, func(stores outbound.Stores) error {
		staged := bid.New(a.ID, uuid.New(), decimal.NewFromInt(150), base.Add(time.Second))
		if err := stores.Bids.Append(context.Background(), staged); err != nil {
			return err
		}

		bids, err := stores.Bids.ListByAuction(context.Background(), a.ID)
		if err != nil {
			return err
		}
		require.Len(t, bids, 2)
		require.True(t, bids[0].Amount.Equal(decimal.NewFromInt(150)))
		require.True(t, bids[1].Amount.Equal(decimal.NewFromInt(120)))
		return nil
	})
	require.NoError(t, err)
}
