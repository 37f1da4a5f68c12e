package shared

import "errors"

// Domain-specific errors
var (
	// Not-found errors: caller/integration failures, distinct from business
	// rejections which are returned as receipt values, not errors.
	ErrAuctionNotFound = errors.New("auction not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrNoBidsFound     = errors.New("no bids found")

	// Wallet errors
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// Validation errors
	ErrInvalidRequest = errors.New("invalid request")

	// Database errors. ErrTransientConflict marks commit conflicts and other
	// retryable persistence failures; callers retry the whole attempt with
	// fresh snapshots, never with stale ones.
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrTransientConflict  = errors.New("transient persistence conflict")

	// WebSocket message validation errors
	ErrMessageTypeRequired = errors.New("message type is required")
	ErrAuctionIDRequired   = errors.New("auction_id is required")
	ErrInvalidAmount       = errors.New("valid amount is required")
	ErrUnknownMessageType  = errors.New("unknown message type")

	// Broadcasting errors
	ErrBroadcastFailed            = errors.New("broadcast failed")
	ErrClientEventChannelNotFound = errors.New("client event channel not found")
)
