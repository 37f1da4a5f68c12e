package shared

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a bidder's account as seen by the bidding engine. Account
// management and authentication are external; the engine only reads the wallet
// and moves funds between the available and reserved balances.
type User struct {
	ID              uuid.UUID       `json:"id"`
	Username        string          `json:"username"`
	WalletBalance   decimal.Decimal `json:"wallet_balance"`
	ReservedBalance decimal.Decimal `json:"reserved_balance"`
}

// CanCover returns true if the available wallet balance covers the amount
func (u *User) CanCover(amount decimal.Decimal) bool {
	return u.WalletBalance.GreaterThanOrEqual(amount)
}

// Reserve moves the amount from the available wallet balance to the reserved
// balance. The caller must have checked CanCover first; the sum of the two
// balances is unchanged.
func (u *User) Reserve(amount decimal.Decimal) error {
	if !u.CanCover(amount) {
		return ErrInsufficientBalance
	}
	u.WalletBalance = u.WalletBalance.Sub(amount)
	u.ReservedBalance = u.ReservedBalance.Add(amount)
	return nil
}
