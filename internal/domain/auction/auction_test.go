package auction

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMinimumNextBid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		currentBid string
		want       string
	}{
		{"whole_amount", "100", "110"},
		{"fractional_amount", "33.30", "36.63"},
		{"repeated_increments_stay_exact", "146.41", "161.051"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			a := &Auction{CurrentBid: decimal.RequireFromString(tc.currentBid)}
			want := decimal.RequireFromString(tc.want)
			require.True(t, a.MinimumNextBid().Equal(want), "got %s", a.MinimumNextBid())
		})
	}
}

func TestEntryGuaranteeTracksStartingBidOnly(t *testing.T) {
	t.Parallel()

	a := &Auction{
		StartingBid: decimal.NewFromInt(50),
		CurrentBid:  decimal.NewFromInt(900),
	}

	require.True(t, a.EntryGuarantee().Equal(decimal.NewFromInt(5)))
}

func TestOpenAndStarted(t *testing.T) {
	t.Parallel()

	now := time.Now()
	a := &Auction{
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
		Active:    true,
	}

	require.True(t, a.Open(now))
	require.True(t, a.Started(now))

	require.False(t, a.Open(now.Add(2*time.Hour)), "past end time")
	require.False(t, a.Started(now.Add(-2*time.Hour)), "before start time")

	a.Active = false
	require.False(t, a.Open(now), "inactive")
}

func TestRecordBid(t *testing.T) {
	t.Parallel()

	now := time.Now()
	a := &Auction{
		StartingBid: decimal.NewFromInt(50),
		CurrentBid:  decimal.NewFromInt(100),
	}

	userID := uuid.New()
	amount := decimal.NewFromInt(150)
	a.RecordBid(userID, amount, now)

	require.True(t, a.CurrentBid.Equal(amount))
	require.NotNil(t, a.HighestBidderID)
	require.Equal(t, userID, *a.HighestBidderID)
	require.True(t, a.IsHighestBidder(userID))
	require.False(t, a.IsHighestBidder(uuid.New()))
	require.Equal(t, now, a.UpdatedAt)
}
