package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"gavel-bidding-service/internal/domain/bid"
	"gavel-bidding-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"
	MessageTypePlaceBid    MessageType = "place_bid"
	MessageTypeListBids    MessageType = "list_bids"
	MessageTypePing        MessageType = "ping"

	// Server to Client message types
	MessageTypeBidResult    MessageType = "bid_result"
	MessageTypeBidList      MessageType = "bid_list"
	MessageTypeBidAccepted  MessageType = "bid_accepted"
	MessageTypeSubscription MessageType = "subscription"
	MessageTypeError        MessageType = "error"
	MessageTypePong         MessageType = "pong"
)

type ClientMessage struct {
	Type      MessageType            `json:"type"`
	AuctionID *uuid.UUID             `json:"auction_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType            `json:"type"`
	AuctionID *uuid.UUID             `json:"auction_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *string                `json:"error,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Data:      make(map[string]interface{}),
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string, auctionID *uuid.UUID) *ServerMessage {
	return &ServerMessage{
		Type:      MessageTypeError,
		AuctionID: auctionID,
		Error:     &err,
		Timestamp: time.Now().Unix(),
	}
}

// NewBidResultMessage carries a bid receipt back to the bidder, accepted or not
func NewBidResultMessage(receipt *bid.Receipt) *ServerMessage {
	msg := NewServerMessage(MessageTypeBidResult)
	msg.AuctionID = &receipt.AuctionID
	msg.Data["accepted"] = receipt.Accepted
	msg.Data["message"] = receipt.Message
	if receipt.Accepted {
		msg.Data["amount"] = receipt.Amount.String()
		msg.Data["bidder"] = receipt.Bidder
		msg.Data["bid_time"] = receipt.BidTime.Format(time.RFC3339)
	} else {
		msg.Data["reason"] = string(receipt.Reason)
	}
	return msg
}

// NewBidListMessage carries an auction's bid history, highest first
func NewBidListMessage(auctionID uuid.UUID, bids []*bid.Bid) *ServerMessage {
	msg := NewServerMessage(MessageTypeBidList)
	msg.AuctionID = &auctionID

	records := make([]map[string]interface{}, 0, len(bids))
	for _, b := range bids {
		records = append(records, map[string]interface{}{
			"bid_id":   b.ID,
			"user_id":  b.UserID,
			"amount":   b.Amount.String(),
			"bid_time": b.BidTime.Format(time.RFC3339),
		})
	}
	msg.Data["bids"] = records
	msg.Data["count"] = len(records)
	return msg
}

func (m *ClientMessage) validateAuctionID() error {
	if m.AuctionID == nil || *m.AuctionID == uuid.Nil {
		return shared.ErrAuctionIDRequired
	}
	return nil
}

// Amount extracts the bid amount from a place_bid message. String amounts are
// preferred so clients can send exact decimals; bare JSON numbers are accepted
// too.
func (m *ClientMessage) Amount() (decimal.Decimal, error) {
	switch v := m.Data["amount"].(type) {
	case string:
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, shared.ErrInvalidAmount
		}
		return amount, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, shared.ErrInvalidAmount
	}
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	// Validate required fields
	if msg.Type == "" {
		return nil, shared.ErrMessageTypeRequired
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypeSubscribe, MessageTypeUnsubscribe, MessageTypeListBids:
		if err := m.validateAuctionID(); err != nil {
			return err
		}
	case MessageTypePlaceBid:
		if err := m.validateAuctionID(); err != nil {
			return err
		}
		amount, err := m.Amount()
		if err != nil {
			return err
		}
		if !amount.IsPositive() {
			return shared.ErrInvalidAmount
		}
	case MessageTypePing:

	default:
		return shared.ErrUnknownMessageType
	}

	return nil
}
