// Package sweep runs the background pass that closes expired auctions
// and hands them to settlement.  It is the only writer of the
// active -> ended and active -> cancelled transitions, so bid placement
// never races a concurrent close on the same state machine edge.
package sweep

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/shopspring/decimal"
    "github.com/sirupsen/logrus"

    "github.com/rajveermakkar/justBet-api/internal/engine"
    "github.com/rajveermakkar/justBet-api/internal/model"
    "github.com/rajveermakkar/justBet-api/internal/repository"
)

// Sweeper periodically closes expired auctions and emits ending-soon
// alerts for live auctions entering their final window.  Each auction is
// processed in its own transaction so one failure never blocks the rest
// of the pass.
type Sweeper struct {
    store  repository.Store
    settle *engine.Settlement
    live   engine.LiveChannel
    notif  engine.Notifier
    log    *logrus.Logger
    now    func() time.Time

    closeInterval time.Duration
    soonInterval  time.Duration
    soonWindow    time.Duration

    mu       sync.Mutex
    notified map[uint64]struct{} // auctions already alerted as ending soon
}

// Config carries the sweep cadence.  Zero values fall back to the
// defaults: close every minute, scan for ending-soon live auctions every
// five minutes with a fifteen-minute window.
type Config struct {
    CloseInterval time.Duration
    SoonInterval  time.Duration
    SoonWindow    time.Duration
}

// New constructs a Sweeper.
func New(store repository.Store, settle *engine.Settlement, live engine.LiveChannel, notif engine.Notifier, cfg Config, log *logrus.Logger) *Sweeper {
    if cfg.CloseInterval <= 0 {
        cfg.CloseInterval = time.Minute
    }
    if cfg.SoonInterval <= 0 {
        cfg.SoonInterval = 5 * time.Minute
    }
    if cfg.SoonWindow <= 0 {
        cfg.SoonWindow = 15 * time.Minute
    }
    return &Sweeper{
        store:         store,
        settle:        settle,
        live:          live,
        notif:         notif,
        log:           log,
        now:           func() time.Time { return time.Now().UTC() },
        closeInterval: cfg.CloseInterval,
        soonInterval:  cfg.SoonInterval,
        soonWindow:    cfg.SoonWindow,
        notified:      make(map[uint64]struct{}),
    }
}

// Run blocks until ctx is cancelled, alternating close and ending-soon
// passes on their respective tickers.  An immediate close pass runs at
// startup so auctions that expired while the server was down are not
// delayed by a full tick.
func (s *Sweeper) Run(ctx context.Context) {
    closeTick := time.NewTicker(s.closeInterval)
    defer closeTick.Stop()
    soonTick := time.NewTicker(s.soonInterval)
    defer soonTick.Stop()

    s.ClosePass(ctx)
    for {
        select {
        case <-ctx.Done():
            return
        case <-closeTick.C:
            s.ClosePass(ctx)
        case <-soonTick.C:
            s.SoonPass(ctx)
        }
    }
}

// ClosePass closes every active auction whose end time has passed and
// settles the ones that attracted bids.
func (s *Sweeper) ClosePass(ctx context.Context) {
    expired, err := s.store.ListExpiredActive(ctx, s.now())
    if err != nil {
        s.log.WithError(err).Error("sweep: listing expired auctions failed")
        return
    }
    for _, a := range expired {
        if err := s.closeOne(ctx, a.ID); err != nil {
            s.log.WithError(err).WithField("auction_id", a.ID).Error("sweep: closing auction failed")
        }
    }

    // Auctions a previous pass closed but could not settle stay in the
    // ended state; retry them here.
    stuck, err := s.store.ListEndedUnsettled(ctx)
    if err != nil {
        s.log.WithError(err).Error("sweep: listing unsettled auctions failed")
        return
    }
    for _, a := range stuck {
        if err := s.settle.Settle(ctx, a.ID); err != nil {
            s.log.WithError(err).WithField("auction_id", a.ID).Error("sweep: settlement retry failed")
        }
    }
}

// closeOne re-reads the auction under lock, decides its outcome from the
// recorded bids, and either closes it for settlement or cancels it.  The
// re-read matters: a late bid may have extended a live auction after the
// list query ran.
func (s *Sweeper) closeOne(ctx context.Context, auctionID uint64) error {
    var (
        winnerID   uint64
        finalPrice decimal.Decimal
        closed     bool
        cancelled  bool
    )
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        a, err := tx.AuctionForUpdate(ctx, auctionID)
        if err != nil {
            return err
        }
        if a.Status != model.AuctionStatusActive || a.EndTime.After(s.now()) {
            return nil // extended or already handled by another pass
        }
        top, err := tx.HighestBid(ctx, auctionID)
        if errors.Is(err, repository.ErrNoBids) {
            cancelled = true
            return tx.MarkCancelled(ctx, auctionID)
        }
        if err != nil {
            return err
        }
        winnerID = top.BidderID
        finalPrice = top.Amount
        closed = true
        return tx.CloseAuction(ctx, auctionID, winnerID, finalPrice, s.now())
    })
    if err != nil {
        return err
    }

    switch {
    case cancelled:
        s.log.WithField("auction_id", auctionID).Info("auction cancelled, no bids")
        payload := engine.CancelledEvent{AuctionID: auctionID, Reason: "no bids received"}
        if err := s.live.Publish(ctx, engine.AuctionRoom(auctionID), engine.EventCancelled, payload); err != nil {
            s.log.WithError(err).Warn("sweep: cancelled event publish failed")
        }
    case closed:
        s.log.WithFields(logrus.Fields{
            "auction_id":  auctionID,
            "winner_id":   winnerID,
            "final_price": finalPrice.String(),
        }).Info("auction closed")
        payload := engine.EndedEvent{AuctionID: auctionID, WinnerID: winnerID, FinalPrice: finalPrice}
        if err := s.live.Publish(ctx, engine.AuctionRoom(auctionID), engine.EventEnded, payload); err != nil {
            s.log.WithError(err).Warn("sweep: ended event publish failed")
        }
        if err := s.notif.AuctionEnded(ctx, auctionID, winnerID, finalPrice); err != nil {
            s.log.WithError(err).Warn("sweep: ended notification failed")
        }
        if err := s.settle.Settle(ctx, auctionID); err != nil {
            // The auction stays ended; the next pass retries settlement.
            return err
        }
    }
    return nil
}

// SoonPass alerts participants of live auctions entering the final
// window.  Each auction is alerted once per process lifetime.
func (s *Sweeper) SoonPass(ctx context.Context) {
    now := s.now()
    soon, err := s.store.ListEndingSoonLive(ctx, now, s.soonWindow)
    if err != nil {
        s.log.WithError(err).Error("sweep: listing ending-soon auctions failed")
        return
    }
    for i := range soon {
        a := &soon[i]
        s.mu.Lock()
        _, seen := s.notified[a.ID]
        if !seen {
            s.notified[a.ID] = struct{}{}
        }
        s.mu.Unlock()
        if seen {
            continue
        }
        payload := engine.EndingSoonEvent{
            AuctionID:       a.ID,
            EndTime:         a.EndTime,
            TimeRemainingMs: a.EndTime.Sub(now).Milliseconds(),
        }
        if err := s.live.Publish(ctx, engine.AuctionRoom(a.ID), engine.EventEndingSoon, payload); err != nil {
            s.log.WithError(err).Warn("sweep: ending-soon event publish failed")
        }
        if err := s.notif.EndingSoon(ctx, a); err != nil {
            s.log.WithError(err).Warn("sweep: ending-soon notification failed")
        }
    }
}
