package db

import "fmt"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. Auctions and users are owned
// by external collaborators in production; the tables here carry the fields
// the bidding engine reads and mutates.
const schema = `
CREATE TABLE IF NOT EXISTS auctions (
    id UUID PRIMARY KEY,
    start_time TIMESTAMPTZ NOT NULL,
    end_time TIMESTAMPTZ NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    starting_bid NUMERIC(20, 4) NOT NULL CHECK (starting_bid > 0),
    current_bid NUMERIC(20, 4) NOT NULL,
    highest_bidder_id UUID,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    CHECK (current_bid >= starting_bid)
);

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    username TEXT NOT NULL,
    wallet_balance NUMERIC(20, 4) NOT NULL CHECK (wallet_balance >= 0),
    reserved_balance NUMERIC(20, 4) NOT NULL CHECK (reserved_balance >= 0)
);

CREATE TABLE IF NOT EXISTS bids (
    id UUID PRIMARY KEY,
    auction_id UUID NOT NULL REFERENCES auctions(id),
    user_id UUID NOT NULL REFERENCES users(id),
    amount NUMERIC(20, 4) NOT NULL,
    bid_time TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bids_auction_amount ON bids(auction_id, amount DESC, bid_time ASC);
CREATE INDEX IF NOT EXISTS idx_bids_auction_user ON bids(auction_id, user_id);
`

// EnsureSchema executes the schema setup
func (client *Connection) EnsureSchema() error {
	if _, err := client.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run schema migrations: %w", err)
	}
	return nil
}
