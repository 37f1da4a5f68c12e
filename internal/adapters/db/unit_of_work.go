package db

import (
	"context"
	"database/sql"

	"gavel-bidding-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// UnitOfWork runs bid transactions against postgres. Per-auction serialization
// comes from the FOR UPDATE lock the transaction-scoped auction store takes on
// its first read: concurrent attempts on the same auction queue on that row
// lock, attempts on different auctions touch different rows and proceed in
// parallel. The lock is held only for the duration of the transaction and
// never across external calls.
type UnitOfWork struct {
	conn *Connection
}

// NewUnitOfWork creates a unit of work over the given connection
func NewUnitOfWork(conn *Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

// WithinAuction runs fn against transaction-scoped stores; everything fn saves
// commits atomically or not at all
func (u *UnitOfWork) WithinAuction(ctx context.Context, auctionID uuid.UUID, fn func(outbound.Stores) error) error {
	return u.conn.ExecuteTransaction(ctx, func(tx *sql.Tx) error {
		return fn(outbound.Stores{
			Auctions: newTxAuctionStore(tx),
			Users:    newTxUserStore(tx),
			Bids:     newTxBidStore(tx),
		})
	})
}
