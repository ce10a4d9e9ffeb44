package repository

import (
    "context"

    "github.com/shopspring/decimal"

    "github.com/rajveermakkar/justBet-api/internal/model"
)

// ListPurchasesByBuyer returns the buyer's purchased items, newest first.
func (s *SQLStore) ListPurchasesByBuyer(ctx context.Context, buyerID uint64) ([]model.PurchasedItem, error) {
    rows, err := s.db.QueryContext(ctx,
        `SELECT id, auction_id, buyer_id, seller_id, purchase_price, buyer_premium, total_amount,
                certificate_number, invoice_number, created_at
         FROM purchased_items WHERE buyer_id = ? ORDER BY created_at DESC`, buyerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.PurchasedItem, 0)
    for rows.Next() {
        var p model.PurchasedItem
        if err := rows.Scan(&p.ID, &p.AuctionID, &p.BuyerID, &p.SellerID, &p.PurchasePrice, &p.BuyerPremium,
            &p.TotalAmount, &p.CertificateNumber, &p.InvoiceNumber, &p.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// InsertPurchasedItem creates the purchased_items row and populates the
// generated id.  The unique index on auction_id makes a second
// settlement of the same auction fail loudly instead of duplicating
// the record.
func (t *sqlTx) InsertPurchasedItem(ctx context.Context, p *model.PurchasedItem) error {
    res, err := t.tx.ExecContext(ctx,
        `INSERT INTO purchased_items (auction_id, buyer_id, seller_id, purchase_price, buyer_premium,
                                      total_amount, certificate_number, invoice_number)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
        p.AuctionID, p.BuyerID, p.SellerID, p.PurchasePrice, p.BuyerPremium,
        p.TotalAmount, p.CertificateNumber, p.InvoiceNumber)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

// InsertPlatformFee records the platform's take from a settled auction.
func (t *sqlTx) InsertPlatformFee(ctx context.Context, auctionID uint64, amount decimal.Decimal) error {
    _, err := t.tx.ExecContext(ctx,
        `INSERT INTO platform_fees (auction_id, amount, status) VALUES (?, ?, 'settled')`,
        auctionID, amount)
    return err
}

// InsertEarning records revenue credited to a user from an auction.
func (t *sqlTx) InsertEarning(ctx context.Context, userID, auctionID uint64, amount decimal.Decimal, typ model.EarningType) error {
    _, err := t.tx.ExecContext(ctx,
        `INSERT INTO earnings (user_id, auction_id, amount, type, status) VALUES (?, ?, ?, ?, 'settled')`,
        userID, auctionID, amount, typ)
    return err
}

// InsertListingFee records the flat listing fee charged at creation.
func (t *sqlTx) InsertListingFee(ctx context.Context, auctionID uint64, amount decimal.Decimal) error {
    _, err := t.tx.ExecContext(ctx,
        `INSERT INTO listing_fees (auction_id, amount, status) VALUES (?, ?, 'settled')`,
        auctionID, amount)
    return err
}

// InsertTicketFee records the flat fee charged for a live-auction ticket.
func (t *sqlTx) InsertTicketFee(ctx context.Context, auctionID, userID uint64, amount decimal.Decimal) error {
    _, err := t.tx.ExecContext(ctx,
        `INSERT INTO ticket_fees (auction_id, user_id, amount, status) VALUES (?, ?, ?, 'settled')`,
        auctionID, userID, amount)
    return err
}
