package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/shopspring/decimal"

    "github.com/rajveermakkar/justBet-api/internal/model"
)

// auctionColumns is the canonical column list used by every auction
// query so scanAuction stays in sync with the schema.
const auctionColumns = `id, title, description, starting_price, current_price, end_time, status,
       seller_id, current_bidder_id, winner_id, final_price, settlement_time, type,
       minimum_bid_increment, time_extension, minimum_wallet_balance, minimum_bid_amount,
       platform_fee_percentage, live_auction_fee_percentage, buyer_premium_percentage,
       listing_fee, last_bid_time, created_at, updated_at`

type rowScanner interface {
    Scan(dest ...interface{}) error
}

// scanAuction maps one auctions row onto a model.Auction.  Nullable
// columns (leader, winner, final price, settlement and last-bid times)
// become pointers.
func scanAuction(row rowScanner) (*model.Auction, error) {
    var a model.Auction
    var bidderID, winnerID sql.NullInt64
    var finalPrice decimal.NullDecimal
    var settlementTime, lastBidTime sql.NullTime
    err := row.Scan(
        &a.ID, &a.Title, &a.Description, &a.StartingPrice, &a.CurrentPrice, &a.EndTime, &a.Status,
        &a.SellerID, &bidderID, &winnerID, &finalPrice, &settlementTime, &a.Type,
        &a.MinimumBidIncrement, &a.TimeExtension, &a.MinimumWalletBalance, &a.MinimumBidAmount,
        &a.PlatformFeePercentage, &a.LiveAuctionFeePercentage, &a.BuyerPremiumPercentage,
        &a.ListingFee, &lastBidTime, &a.CreatedAt, &a.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if bidderID.Valid {
        v := uint64(bidderID.Int64)
        a.CurrentBidderID = &v
    }
    if winnerID.Valid {
        v := uint64(winnerID.Int64)
        a.WinnerID = &v
    }
    if finalPrice.Valid {
        v := finalPrice.Decimal
        a.FinalPrice = &v
    }
    if settlementTime.Valid {
        t := settlementTime.Time.UTC()
        a.SettlementTime = &t
    }
    if lastBidTime.Valid {
        t := lastBidTime.Time.UTC()
        a.LastBidTime = &t
    }
    return &a, nil
}

// GetAuction loads an auction without locking.  Returns
// ErrAuctionNotFound when the row does not exist.
func (s *SQLStore) GetAuction(ctx context.Context, id uint64) (*model.Auction, error) {
    a, err := scanAuction(s.db.QueryRowContext(ctx,
        `SELECT `+auctionColumns+` FROM auctions WHERE id = ?`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrAuctionNotFound
    }
    return a, err
}

// ListAuctions returns auctions matching the filter, newest first.
func (s *SQLStore) ListAuctions(ctx context.Context, f AuctionFilter) ([]model.Auction, error) {
    q := `SELECT ` + auctionColumns + ` FROM auctions`
    var conds []string
    var args []interface{}
    if f.Type != "" {
        conds = append(conds, "type = ?")
        args = append(args, f.Type)
    }
    if f.Status != "" {
        conds = append(conds, "status = ?")
        args = append(args, f.Status)
    }
    if f.SellerID != 0 {
        conds = append(conds, "seller_id = ?")
        args = append(args, f.SellerID)
    }
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    q += " ORDER BY created_at DESC"
    return s.queryAuctions(ctx, q, args...)
}

// ListExpiredActive returns active auctions whose end time has passed.
func (s *SQLStore) ListExpiredActive(ctx context.Context, now time.Time) ([]model.Auction, error) {
    return s.queryAuctions(ctx,
        `SELECT `+auctionColumns+` FROM auctions WHERE status = 'active' AND end_time <= ? ORDER BY end_time`,
        now.UTC())
}

// ListEndingSoonLive returns active live auctions closing within the window.
func (s *SQLStore) ListEndingSoonLive(ctx context.Context, now time.Time, within time.Duration) ([]model.Auction, error) {
    return s.queryAuctions(ctx,
        `SELECT `+auctionColumns+` FROM auctions
         WHERE status = 'active' AND type = 'live' AND end_time > ? AND end_time <= ?
         ORDER BY end_time`,
        now.UTC(), now.UTC().Add(within))
}

// ListEndedUnsettled returns closed auctions still awaiting settlement.
func (s *SQLStore) ListEndedUnsettled(ctx context.Context) ([]model.Auction, error) {
    return s.queryAuctions(ctx,
        `SELECT `+auctionColumns+` FROM auctions WHERE status = 'ended' ORDER BY end_time`)
}

func (s *SQLStore) queryAuctions(ctx context.Context, q string, args ...interface{}) ([]model.Auction, error) {
    rows, err := s.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Auction, 0)
    for rows.Next() {
        a, err := scanAuction(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// AuctionForUpdate loads an auction inside the transaction and takes a
// row lock, serializing concurrent bids and the sweep on the same
// auction.
func (t *sqlTx) AuctionForUpdate(ctx context.Context, id uint64) (*model.Auction, error) {
    a, err := scanAuction(t.tx.QueryRowContext(ctx,
        `SELECT `+auctionColumns+` FROM auctions WHERE id = ? FOR UPDATE`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrAuctionNotFound
    }
    return a, err
}

// InsertAuction creates the auctions row and populates the generated
// id, current price and timestamps on the given record.
func (t *sqlTx) InsertAuction(ctx context.Context, a *model.Auction) error {
    res, err := t.tx.ExecContext(ctx,
        `INSERT INTO auctions (
            title, description, starting_price, current_price, end_time, status, seller_id, type,
            minimum_bid_increment, time_extension, minimum_wallet_balance, minimum_bid_amount,
            platform_fee_percentage, live_auction_fee_percentage, buyer_premium_percentage, listing_fee
         ) VALUES (?, ?, ?, ?, ?, 'active', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        a.Title, a.Description, a.StartingPrice, a.StartingPrice, a.EndTime.UTC(), a.SellerID, a.Type,
        a.MinimumBidIncrement, a.TimeExtension, a.MinimumWalletBalance, a.MinimumBidAmount,
        a.PlatformFeePercentage, a.LiveAuctionFeePercentage, a.BuyerPremiumPercentage, a.ListingFee,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = uint64(id)
    a.CurrentPrice = a.StartingPrice
    a.Status = model.AuctionStatusActive
    return nil
}

// UpdatePriceAndLeader advances the price with a compare-and-set guard
// on the previously read current_price.  Zero affected rows means
// another bid committed first; the caller must restart validation.
func (t *sqlTx) UpdatePriceAndLeader(ctx context.Context, id uint64, newPrice decimal.Decimal, bidderID uint64, expectedPrev decimal.Decimal) error {
    res, err := t.tx.ExecContext(ctx,
        `UPDATE auctions
         SET current_price = ?, current_bidder_id = ?, last_bid_time = UTC_TIMESTAMP()
         WHERE id = ? AND status = 'active' AND current_price = ?`,
        newPrice, bidderID, id, expectedPrev)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrStaleAuctionState
    }
    return nil
}

// ExtendEndTime pushes a live auction's close out to newEnd.
func (t *sqlTx) ExtendEndTime(ctx context.Context, id uint64, newEnd time.Time) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE auctions SET end_time = ? WHERE id = ? AND status = 'active'`,
        newEnd.UTC(), id)
    return err
}

// CloseAuction transitions active -> ended and records the winner.
func (t *sqlTx) CloseAuction(ctx context.Context, id, winnerID uint64, finalPrice decimal.Decimal, at time.Time) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE auctions
         SET status = 'ended', winner_id = ?, final_price = ?, settlement_time = ?
         WHERE id = ? AND status = 'active'`,
        winnerID, finalPrice, at.UTC(), id)
    return err
}

// MarkUnsold transitions an auction without a bidder out of the active
// lifecycle.
func (t *sqlTx) MarkUnsold(ctx context.Context, id uint64) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE auctions SET status = 'unsold' WHERE id = ? AND status IN ('active', 'ended')`, id)
    return err
}

// MarkCancelled transitions active -> cancelled (no bids at close).
func (t *sqlTx) MarkCancelled(ctx context.Context, id uint64) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE auctions SET status = 'cancelled' WHERE id = ? AND status = 'active'`, id)
    return err
}

// MarkCompleted transitions ended -> completed after settlement.
func (t *sqlTx) MarkCompleted(ctx context.Context, id uint64) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE auctions SET status = 'completed' WHERE id = ? AND status = 'ended'`, id)
    return err
}
