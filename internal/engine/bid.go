package engine

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/shopspring/decimal"
    "github.com/sirupsen/logrus"

    "github.com/rajveermakkar/justBet-api/internal/model"
    "github.com/rajveermakkar/justBet-api/internal/repository"
)

// casRetries bounds the internal restarts on compare-and-set conflicts
// before the conflict is surfaced to the caller as ErrConcurrentBid.
const casRetries = 3

// BidEngine validates and applies bids.  A single PlaceBid call is one
// atomic unit: the auction row lock, the balance check, the debit, the
// bid insert, the guarded price update and the previous leader's refund
// either all commit or none do.
type BidEngine struct {
    store repository.Store
    live  LiveChannel
    notif Notifier
    log   *logrus.Logger
    now   func() time.Time
}

// NewBidEngine constructs a BidEngine.  live and notif may be nil in
// contexts without a live channel or notification collaborator.
func NewBidEngine(store repository.Store, live LiveChannel, notif Notifier, log *logrus.Logger) *BidEngine {
    return &BidEngine{store: store, live: live, notif: notif, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// BidResult is returned to the caller after a successful bid.
type BidResult struct {
    Bid          model.Bid
    TotalCost    decimal.Decimal
    BuyerPremium decimal.Decimal
    Extended     bool
    NewEndTime   time.Time
}

// PlaceBid applies a bid from bidderID on auctionID.  Validation order
// and failure modes follow the business rules exactly: auction lookup,
// lifecycle and end-time checks, ticket gating for live auctions,
// amount checks against minimum bid and increment, then the balance
// check against the total cost including buyer premium.  The price
// update carries a compare-and-set guard against the price read at the
// start of the transaction; on conflict the whole unit rolls back and
// is retried from fresh state up to casRetries times.
func (e *BidEngine) PlaceBid(ctx context.Context, auctionID, bidderID uint64, amount decimal.Decimal) (*BidResult, error) {
    if amount.Cmp(decimal.Zero) <= 0 {
        return nil, fmt.Errorf("%w: bid amount must be positive", ErrInvalidAmount)
    }

    var (
        res        BidResult
        outbidUser uint64
        outbidSum  decimal.Decimal
        isLive     bool
    )
    attempt := func() error {
        // reset per attempt; a rolled-back try must not leak state
        res = BidResult{}
        outbidUser = 0
        isLive = false
        return e.store.InTx(ctx, func(tx repository.Tx) error {
            now := e.now()

            // Lock order is auction row first, wallet rows second; the
            // sweep acquires its locks in the same order.
            a, err := tx.AuctionForUpdate(ctx, auctionID)
            if err != nil {
                return err
            }
            if a.Status != model.AuctionStatusActive {
                return ErrAuctionNotActive
            }
            if !a.EndTime.After(now) {
                return ErrAuctionEnded
            }
            isLive = a.IsLive()

            if isLive {
                ok, err := tx.HasActiveTicket(ctx, auctionID, bidderID)
                if err != nil {
                    return err
                }
                if !ok {
                    return ErrTicketRequired
                }
                if amount.Cmp(a.MinimumBidAmount) < 0 {
                    return fmt.Errorf("%w: minimum bid amount is %s", ErrBelowMinimumBid, a.MinimumBidAmount)
                }
            }
            floor := a.CurrentPrice.Add(a.MinimumBidIncrement)
            if amount.Cmp(floor) < 0 {
                return fmt.Errorf("%w: next bid must be at least %s", ErrBelowIncrement, floor)
            }

            premium := buyerPremium(amount, a.BuyerPremiumPercentage)
            cost := amount.Add(premium)

            w, err := tx.WalletForUpdate(ctx, bidderID)
            if err != nil {
                return err
            }
            if w.Balance.Cmp(cost) < 0 {
                return fmt.Errorf("%w: required %s including buyer premium", repository.ErrInsufficientFunds, cost)
            }

            txnID, err := tx.Debit(ctx, w.ID, cost, model.TransactionBid, model.TransactionCompleted,
                fmt.Sprintf("Bid on auction #%d", auctionID))
            if err != nil {
                return err
            }

            bid := model.Bid{
                AuctionID:           auctionID,
                BidderID:            bidderID,
                Amount:              amount,
                WalletTransactionID: txnID,
                CreatedAt:           now,
            }
            if err := tx.InsertBid(ctx, &bid); err != nil {
                return err
            }

            if err := tx.UpdatePriceAndLeader(ctx, auctionID, amount, bidderID, a.CurrentPrice); err != nil {
                return err
            }

            // Refund the outbid leader the full sum that was locked for
            // them: their bid price plus its premium.
            if a.CurrentBidderID != nil && *a.CurrentBidderID != bidderID {
                prev := *a.CurrentBidderID
                refund := totalCost(a.CurrentPrice, a.BuyerPremiumPercentage)
                pw, err := tx.WalletForUpdate(ctx, prev)
                if err != nil {
                    return err
                }
                if _, err := tx.Credit(ctx, pw.ID, refund, model.TransactionRefund, model.TransactionCompleted,
                    fmt.Sprintf("Refund for outbid on auction #%d", auctionID)); err != nil {
                    return err
                }
                outbidUser = prev
                outbidSum = refund
            }

            // Live clock extension: a bid landing inside the extension
            // window pushes the close out so the sweep sees the new end
            // time.
            if isLive && a.TimeExtension > 0 {
                ext := time.Duration(a.TimeExtension) * time.Second
                if a.EndTime.Sub(now) <= ext {
                    newEnd := now.Add(ext)
                    if err := tx.ExtendEndTime(ctx, auctionID, newEnd); err != nil {
                        return err
                    }
                    res.Extended = true
                    res.NewEndTime = newEnd
                }
            }

            res.Bid = bid
            res.TotalCost = cost
            res.BuyerPremium = premium
            return nil
        })
    }

    var err error
    for i := 0; i < casRetries; i++ {
        err = attempt()
        if !errors.Is(err, repository.ErrStaleAuctionState) {
            break
        }
        e.log.WithFields(logrus.Fields{"auction_id": auctionID, "bidder_id": bidderID, "attempt": i + 1}).
            Warn("concurrent bid detected, revalidating")
    }
    if errors.Is(err, repository.ErrStaleAuctionState) {
        return nil, ErrConcurrentBid
    }
    if err != nil {
        return nil, err
    }

    e.log.WithFields(logrus.Fields{
        "auction_id": auctionID,
        "bidder_id":  bidderID,
        "amount":     res.Bid.Amount.String(),
        "total_cost": res.TotalCost.String(),
    }).Info("bid placed")

    // Events fire only after the commit; a publish failure never undoes
    // the bid.
    if isLive && e.live != nil {
        ev := NewBidEvent{
            AuctionID:    auctionID,
            BidderID:     bidderID,
            Amount:       res.Bid.Amount,
            TotalCost:    res.TotalCost,
            BuyerPremium: res.BuyerPremium,
            Timestamp:    res.Bid.CreatedAt,
        }
        if err := e.live.Publish(ctx, AuctionRoom(auctionID), EventNewBid, ev); err != nil {
            e.log.WithError(err).Warn("publish newBid event failed")
        }
        if res.Extended {
            ev := TimeExtendedEvent{AuctionID: auctionID, NewEndTime: res.NewEndTime}
            if err := e.live.Publish(ctx, AuctionRoom(auctionID), EventTimeExtended, ev); err != nil {
                e.log.WithError(err).Warn("publish timeExtended event failed")
            }
        }
    }
    if outbidUser != 0 && e.notif != nil {
        if err := e.notif.Outbid(ctx, outbidUser, auctionID, outbidSum); err != nil {
            e.log.WithError(err).Warn("outbid notification failed")
        }
    }
    return &res, nil
}

// BidsByAuction returns all bids on an auction, highest first.
func (e *BidEngine) BidsByAuction(ctx context.Context, auctionID uint64) ([]model.Bid, error) {
    return e.store.ListBidsByAuction(ctx, auctionID)
}

// BidsByUser returns a user's bids, newest first.
func (e *BidEngine) BidsByUser(ctx context.Context, userID uint64) ([]model.Bid, error) {
    return e.store.ListBidsByUser(ctx, userID)
}
