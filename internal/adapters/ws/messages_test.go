package ws

import (
	"testing"
	"time"

	"gavel-bidding-service/internal/domain/bid"
	"gavel-bidding-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseClientMessage(t *testing.T) {
	t.Parallel()

	auctionID := uuid.New()

	msg, err := ParseClientMessage([]byte(`{
		"type": "place_bid",
		"auction_id": "` + auctionID.String() + `",
		"data": {"amount": "150.50"}
	}`))
	require.NoError(t, err)
	require.Equal(t, MessageTypePlaceBid, msg.Type)
	require.Equal(t, auctionID, *msg.AuctionID)

	_, err = ParseClientMessage([]byte(`{"data": {}}`))
	require.ErrorIs(t, err, shared.ErrMessageTypeRequired)

	_, err = ParseClientMessage([]byte(`not json`))
	require.Error(t, err)
}

func TestClientMessageValidate(t *testing.T) {
	t.Parallel()

	auctionID := uuid.New()

	tests := []struct {
		name    string
		msg     ClientMessage
		wantErr error
	}{
		{
			name: "subscribe_missing_auction",
			msg:  ClientMessage{Type: MessageTypeSubscribe},
			wantErr: shared.ErrAuctionIDRequired,
		},
		{
			name: "subscribe_nil_uuid",
			msg:  ClientMessage{Type: MessageTypeSubscribe, AuctionID: &uuid.Nil},
			wantErr: shared.ErrAuctionIDRequired,
		},
		{
			name: "place_bid_no_amount",
			msg:  ClientMessage{Type: MessageTypePlaceBid, AuctionID: &auctionID, Data: map[string]interface{}{}},
			wantErr: shared.ErrInvalidAmount,
		},
		{
			name: "place_bid_negative_amount",
			msg: ClientMessage{Type: MessageTypePlaceBid, AuctionID: &auctionID,
				Data: map[string]interface{}{"amount": "-5"}},
			wantErr: shared.ErrInvalidAmount,
		},
		{
			name: "place_bid_ok",
			msg: ClientMessage{Type: MessageTypePlaceBid, AuctionID: &auctionID,
				Data: map[string]interface{}{"amount": "150.50"}},
		},
		{
			name: "ping_needs_nothing",
			msg:  ClientMessage{Type: MessageTypePing},
		},
		{
			name:    "unknown_type",
			msg:     ClientMessage{Type: "auction_takeover"},
			wantErr: shared.ErrUnknownMessageType,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.msg.Validate()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClientMessageAmount(t *testing.T) {
	t.Parallel()

	msg := ClientMessage{Data: map[string]interface{}{"amount": "150.50"}}
	amount, err := msg.Amount()
	require.NoError(t, err)
	require.True(t, amount.Equal(decimal.NewFromFloat(150.50)))

	// Bare JSON numbers arrive as float64
	msg = ClientMessage{Data: map[string]interface{}{"amount": float64(200)}}
	amount, err = msg.Amount()
	require.NoError(t, err)
	require.True(t, amount.Equal(decimal.NewFromInt(200)))

	msg = ClientMessage{Data: map[string]interface{}{"amount": "lots"}}
	_, err = msg.Amount()
	require.ErrorIs(t, err, shared.ErrInvalidAmount)
}

func TestNewBidResultMessage(t *testing.T) {
	t.Parallel()

	auctionID := uuid.New()
	now := time.Now()

	accepted := bid.AcceptedReceipt(bid.New(auctionID, uuid.New(), decimal.NewFromInt(200), now), "alice")
	msg := NewBidResultMessage(accepted)
	require.Equal(t, MessageTypeBidResult, msg.Type)
	require.Equal(t, auctionID, *msg.AuctionID)
	require.Equal(t, true, msg.Data["accepted"])
	require.Equal(t, "200", msg.Data["amount"])
	require.Equal(t, "alice", msg.Data["bidder"])

	rejected := bid.RejectedReceipt(auctionID, bid.Outcome{
		Reason:  bid.ReasonAuctionClosed,
		Message: "Auction is closed",
	})
	msg = NewBidResultMessage(rejected)
	require.Equal(t, false, msg.Data["accepted"])
	require.Equal(t, string(bid.ReasonAuctionClosed), msg.Data["reason"])
	require.Equal(t, "Auction is closed", msg.Data["message"])
	require.NotContains(t, msg.Data, "amount")
}
