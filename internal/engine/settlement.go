package engine

import (
    "context"
    "crypto/rand"
    "encoding/hex"
    "fmt"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/rajveermakkar/justBet-api/internal/model"
    "github.com/rajveermakkar/justBet-api/internal/repository"
)

// Settlement distributes the proceeds of a closed auction: the seller
// earning, the platform fee plus buyer premium to the platform account,
// and the purchased-item record for the document collaborator.  The
// platform account id is resolved from configuration once at startup
// and injected here; settlement never scans the user table for a role.
type Settlement struct {
    store          repository.Store
    platformUserID uint64
    log            *logrus.Logger
    now            func() time.Time
}

// NewSettlement constructs a Settlement engine.
func NewSettlement(store repository.Store, platformUserID uint64, log *logrus.Logger) *Settlement {
    return &Settlement{store: store, platformUserID: platformUserID, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Settle resolves one auction in one atomic unit.  Invariants:
//
//   - sellerEarning + platformFee == finalPrice
//   - totalPlatformEarning == platformFee + buyerPremium
//   - exactly one PurchasedItem per settled auction with a winner
//
// A completed auction is a no-op, so invoking Settle twice moves no
// additional funds.  An auction without a winner transitions to unsold
// with no fund movement.  On any error the transaction rolls back and
// the auction stays ended for the next sweep pass to retry.
func (s *Settlement) Settle(ctx context.Context, auctionID uint64) error {
    var settled bool
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        a, err := tx.AuctionForUpdate(ctx, auctionID)
        if err != nil {
            return err
        }
        switch a.Status {
        case model.AuctionStatusCompleted, model.AuctionStatusCancelled, model.AuctionStatusUnsold:
            return nil
        }

        winner := a.WinnerID
        if winner == nil {
            winner = a.CurrentBidderID
        }
        if winner == nil {
            return tx.MarkUnsold(ctx, auctionID)
        }

        finalPrice := a.CurrentPrice
        if a.FinalPrice != nil {
            finalPrice = *a.FinalPrice
        }

        premium := buyerPremium(finalPrice, a.BuyerPremiumPercentage)
        platformFee := percentOf(finalPrice, a.FeePercentage())
        sellerEarning := finalPrice.Sub(platformFee)
        totalPlatformEarning := platformFee.Add(premium)

        item := model.PurchasedItem{
            AuctionID:         auctionID,
            BuyerID:           *winner,
            SellerID:          a.SellerID,
            PurchasePrice:     finalPrice,
            BuyerPremium:      premium,
            TotalAmount:       finalPrice.Add(premium),
            CertificateNumber: certificateNumber(s.now()),
            InvoiceNumber:     invoiceNumber(s.now()),
            CreatedAt:         s.now(),
        }
        if err := tx.InsertPurchasedItem(ctx, &item); err != nil {
            return err
        }

        if err := tx.InsertPlatformFee(ctx, auctionID, totalPlatformEarning); err != nil {
            return err
        }
        if err := tx.InsertEarning(ctx, a.SellerID, auctionID, sellerEarning, model.EarningSeller); err != nil {
            return err
        }

        sw, err := tx.EnsureWallet(ctx, a.SellerID)
        if err != nil {
            return err
        }
        if _, err := tx.Credit(ctx, sw.ID, sellerEarning, model.TransactionSellerEarning, model.TransactionCompleted,
            fmt.Sprintf("Earning from auction #%d", auctionID)); err != nil {
            return err
        }
        if err := tx.AddEarnings(ctx, sw.ID, sellerEarning); err != nil {
            return err
        }

        pw, err := tx.EnsureWallet(ctx, s.platformUserID)
        if err != nil {
            return err
        }
        if _, err := tx.Credit(ctx, pw.ID, totalPlatformEarning, model.TransactionPlatformFee, model.TransactionCompleted,
            fmt.Sprintf("Platform fee and buyer premium from auction #%d", auctionID)); err != nil {
            return err
        }
        if err := tx.AddEarnings(ctx, pw.ID, totalPlatformEarning); err != nil {
            return err
        }

        if err := tx.MarkCompleted(ctx, auctionID); err != nil {
            return err
        }
        settled = true
        return nil
    })
    if err != nil {
        return err
    }
    if settled {
        s.log.WithField("auction_id", auctionID).Info("auction settled")
    }
    return nil
}

// certificateNumber and invoiceNumber build human-readable unique
// references: prefix, millisecond timestamp, and a random suffix wide
// enough that concurrent settlements in the same millisecond cannot
// realistically collide.
func certificateNumber(now time.Time) string { return documentNumber("CERT", now) }

func invoiceNumber(now time.Time) string { return documentNumber("INV", now) }

func documentNumber(prefix string, now time.Time) string {
    b := make([]byte, 3)
    _, _ = rand.Read(b)
    return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), hex.EncodeToString(b))
}
