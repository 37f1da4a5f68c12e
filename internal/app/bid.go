package app

import (
	"context"
	"time"

	"gavel-bidding-service/internal/domain/bid"
	"gavel-bidding-service/internal/ports/inbound"
	"gavel-bidding-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BidService implements the bid use cases: the bid-acceptance transaction and
// the read-side bid listing.
type BidService struct {
	uow         outbound.BidUnitOfWork
	auctions    outbound.AuctionStore
	bids        outbound.BidStore
	broadcaster outbound.Broadcaster
	logger      zerolog.Logger
}

type BidServiceParams struct {
	UnitOfWork   outbound.BidUnitOfWork
	AuctionStore outbound.AuctionStore
	BidStore     outbound.BidStore
	Broadcaster  outbound.Broadcaster
	Logger       zerolog.Logger
}

// NewBidService creates a new bid service
func NewBidService(params BidServiceParams) *BidService {
	return &BidService{
		uow:         params.UnitOfWork,
		auctions:    params.AuctionStore,
		bids:        params.BidStore,
		broadcaster: params.Broadcaster,
		logger:      params.Logger.With().Str("component", "bid_service").Logger(),
	}
}

// PlaceBid runs one bid attempt end-to-end. The load, validation, and every
// mutation happen inside a single unit of work scoped to the auction, so a
// concurrent attempt on the same auction always validates against committed
// state. On rejection nothing is mutated; on acceptance the guarantee hold,
// the auction update, and the bid record commit together.
func (service *BidService) PlaceBid(ctx context.Context, req inbound.PlaceBidRequest) (*bid.Receipt, error) {
	service.logger.Info().
		Str("auction_id", req.AuctionID.String()).
		Str("user_id", req.UserID.String()).
		Str("amount", req.Amount.String()).
		Msg("Attempting to place bid")

	var (
		receipt  *bid.Receipt
		accepted *bid.Bid
	)

	err := service.uow.WithinAuction(ctx, req.AuctionID, func(stores outbound.Stores) error {
		auc, err := stores.Auctions.Get(ctx, req.AuctionID)
		if err != nil {
			service.logger.Warn().Err(err).Str("auction_id", req.AuctionID.String()).Msg("Failed to load auction")
			return err
		}

		user, err := stores.Users.Get(ctx, req.UserID)
		if err != nil {
			service.logger.Warn().Err(err).Str("user_id", req.UserID.String()).Msg("Failed to load user")
			return err
		}

		priorBidExists, err := stores.Bids.ExistsFor(ctx, req.AuctionID, req.UserID)
		if err != nil {
			service.logger.Error().Err(err).Str("auction_id", req.AuctionID.String()).Msg("Failed to check prior bids")
			return err
		}

		now := time.Now()
		outcome := bid.Evaluate(auc, user, priorBidExists, req.Amount, now)
		if !outcome.Accepted {
			service.logger.Info().
				Str("auction_id", req.AuctionID.String()).
				Str("user_id", req.UserID.String()).
				Str("reason", string(outcome.Reason)).
				Msg("Bid rejected")
			receipt = bid.RejectedReceipt(req.AuctionID, outcome)
			return nil
		}

		// First bid on this auction: hold the entry guarantee. The debit and
		// the matching reserved credit move the same amount, and they commit
		// with the auction and bid writes below or not at all.
		if !priorBidExists && outcome.Guarantee.IsPositive() {
			if err := user.Reserve(outcome.Guarantee); err != nil {
				return err
			}
			if err := stores.Users.Save(ctx, user); err != nil {
				return err
			}
			service.logger.Debug().
				Str("user_id", user.ID.String()).
				Str("guarantee", outcome.Guarantee.String()).
				Msg("Entry guarantee reserved")
		}

		auc.RecordBid(user.ID, req.Amount, now)
		if err := stores.Auctions.Save(ctx, auc); err != nil {
			return err
		}

		newBid := bid.New(auc.ID, user.ID, req.Amount, now)
		if err := stores.Bids.Append(ctx, newBid); err != nil {
			return err
		}

		accepted = newBid
		receipt = bid.AcceptedReceipt(newBid, user.Username)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if accepted != nil {
		service.logger.Info().
			Str("bid_id", accepted.ID.String()).
			Str("auction_id", accepted.AuctionID.String()).
			Str("user_id", accepted.UserID.String()).
			Str("amount", accepted.Amount.String()).
			Msg("Bid placed successfully")
		service.publishAccepted(ctx, accepted)
	}

	return receipt, nil
}

// publishAccepted broadcasts an accepted bid to auction subscribers. This runs
// after commit and failures are logged, never surfaced: the bid already stands.
func (service *BidService) publishAccepted(ctx context.Context, accepted *bid.Bid) {
	if service.broadcaster == nil {
		return
	}

	event := outbound.Event{
		Type:      outbound.EventTypeBidAccepted,
		AuctionID: accepted.AuctionID,
		Data: map[string]interface{}{
			"bid_id":    accepted.ID,
			"user_id":   accepted.UserID,
			"amount":    accepted.Amount,
			"timestamp": accepted.BidTime.Unix(),
		},
		Timestamp: accepted.BidTime.Unix(),
	}

	if err := service.broadcaster.Publish(ctx, accepted.AuctionID, event); err != nil {
		service.logger.Error().Err(err).Str("bid_id", accepted.ID.String()).Msg("Failed to broadcast accepted bid")
	}
}

// ListBids retrieves the full bid history for an auction, ordered by amount
// descending with bid time ascending as tie-break
func (service *BidService) ListBids(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error) {
	if _, err := service.auctions.Get(ctx, auctionID); err != nil {
		service.logger.Warn().Err(err).Str("auction_id", auctionID.String()).Msg("Failed to load auction for bid listing")
		return nil, err
	}

	return service.bids.ListByAuction(ctx, auctionID)
}
