package engine

import (
    "context"
    "fmt"

    "github.com/shopspring/decimal"
    "github.com/sirupsen/logrus"

    "github.com/rajveermakkar/justBet-api/internal/model"
    "github.com/rajveermakkar/justBet-api/internal/repository"
)

// TicketGate controls participation in live auctions.  Issuance charges
// a flat ticket fee to the buyer and credits it to the platform account
// in the same atomic unit as the ticket insert.
type TicketGate struct {
    store          repository.Store
    platformUserID uint64
    ticketFee      decimal.Decimal
    log            *logrus.Logger
}

// NewTicketGate constructs a TicketGate.
func NewTicketGate(store repository.Store, platformUserID uint64, ticketFee decimal.Decimal, log *logrus.Logger) *TicketGate {
    return &TicketGate{store: store, platformUserID: platformUserID, ticketFee: ticketFee, log: log}
}

// ValidationResult reports eligibility and, when ineligible, the first
// failing rule in human-readable form.
type ValidationResult struct {
    Eligible bool
    Reason   string
}

// Validate checks live-auction eligibility in rule order: the auction
// must exist and be live, an active ticket must exist for the pair, and
// the wallet balance must meet the auction's minimum.  The first
// failing rule wins.
func (g *TicketGate) Validate(ctx context.Context, auctionID, userID uint64) (*ValidationResult, error) {
    var out ValidationResult
    err := g.store.InTx(ctx, func(tx repository.Tx) error {
        a, err := tx.AuctionForUpdate(ctx, auctionID)
        if err != nil {
            return err
        }
        if !a.IsLive() {
            out.Reason = "live auction not found"
            return nil
        }
        ok, err := tx.HasActiveTicket(ctx, auctionID, userID)
        if err != nil {
            return err
        }
        if !ok {
            out.Reason = "no active ticket found"
            return nil
        }
        w, err := tx.WalletForUpdate(ctx, userID)
        if err != nil {
            return err
        }
        if w.Balance.Cmp(a.MinimumWalletBalance) < 0 {
            out.Reason = fmt.Sprintf("insufficient wallet balance, minimum required: %s", a.MinimumWalletBalance)
            return nil
        }
        out.Eligible = true
        return nil
    })
    if err != nil {
        return nil, err
    }
    return &out, nil
}

// Issue creates an active ticket for the user, enforcing at most one
// ticket per (auction, user) pair, the auction's balance floors, and
// the ticket fee.  The fee debit, the platform credit, the TicketFee
// record and the ticket insert commit together or not at all.
func (g *TicketGate) Issue(ctx context.Context, auctionID, userID uint64) (*model.AuctionTicket, error) {
    var ticket model.AuctionTicket
    err := g.store.InTx(ctx, func(tx repository.Tx) error {
        a, err := tx.AuctionForUpdate(ctx, auctionID)
        if err != nil {
            return err
        }
        if !a.IsLive() {
            return ErrNotLiveAuction
        }
        if a.Status != model.AuctionStatusActive {
            return ErrAuctionNotActive
        }
        exists, err := tx.HasTicket(ctx, auctionID, userID)
        if err != nil {
            return err
        }
        if exists {
            return repository.ErrDuplicateTicket
        }
        w, err := tx.WalletForUpdate(ctx, userID)
        if err != nil {
            return err
        }
        if w.Balance.Cmp(a.MinimumWalletBalance) < 0 {
            return fmt.Errorf("%w: minimum wallet balance is %s", repository.ErrInsufficientFunds, a.MinimumWalletBalance)
        }
        if w.Balance.Cmp(a.MinimumBidAmount) < 0 {
            return fmt.Errorf("%w: balance must cover the minimum bid of %s", repository.ErrInsufficientFunds, a.MinimumBidAmount)
        }

        if g.ticketFee.Cmp(decimal.Zero) > 0 {
            if _, err := tx.Debit(ctx, w.ID, g.ticketFee, model.TransactionPlatformFee, model.TransactionCompleted,
                fmt.Sprintf("Ticket fee for auction #%d", auctionID)); err != nil {
                return err
            }
            if err := tx.InsertTicketFee(ctx, auctionID, userID, g.ticketFee); err != nil {
                return err
            }
            pw, err := tx.EnsureWallet(ctx, g.platformUserID)
            if err != nil {
                return err
            }
            if _, err := tx.Credit(ctx, pw.ID, g.ticketFee, model.TransactionPlatformFee, model.TransactionCompleted,
                fmt.Sprintf("Ticket fee from auction #%d", auctionID)); err != nil {
                return err
            }
            if err := tx.AddEarnings(ctx, pw.ID, g.ticketFee); err != nil {
                return err
            }
        }

        ticket = model.AuctionTicket{AuctionID: auctionID, UserID: userID, Status: model.TicketActive}
        return tx.InsertTicket(ctx, &ticket)
    })
    if err != nil {
        return nil, err
    }
    g.log.WithFields(logrus.Fields{"auction_id": auctionID, "user_id": userID}).Info("ticket issued")
    return &ticket, nil
}

// TicketsByUser returns a user's tickets, newest first.
func (g *TicketGate) TicketsByUser(ctx context.Context, userID uint64) ([]model.AuctionTicket, error) {
    return g.store.ListTicketsByUser(ctx, userID)
}
