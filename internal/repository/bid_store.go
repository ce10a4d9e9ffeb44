package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/rajveermakkar/justBet-api/internal/model"
)

const bidColumns = `id, auction_id, bidder_id, amount, wallet_transaction_id, created_at`

func scanBid(row rowScanner) (*model.Bid, error) {
    var b model.Bid
    if err := row.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.WalletTransactionID, &b.CreatedAt); err != nil {
        return nil, err
    }
    return &b, nil
}

// ListBidsByAuction returns all bids on an auction, highest first.
func (s *SQLStore) ListBidsByAuction(ctx context.Context, auctionID uint64) ([]model.Bid, error) {
    return s.queryBids(ctx,
        `SELECT `+bidColumns+` FROM bids WHERE auction_id = ? ORDER BY amount DESC, created_at`, auctionID)
}

// ListBidsByUser returns a user's bids, newest first.
func (s *SQLStore) ListBidsByUser(ctx context.Context, userID uint64) ([]model.Bid, error) {
    return s.queryBids(ctx,
        `SELECT `+bidColumns+` FROM bids WHERE bidder_id = ? ORDER BY created_at DESC`, userID)
}

func (s *SQLStore) queryBids(ctx context.Context, q string, args ...interface{}) ([]model.Bid, error) {
    rows, err := s.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Bid, 0)
    for rows.Next() {
        b, err := scanBid(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// InsertBid creates the bids row and populates the generated id.
func (t *sqlTx) InsertBid(ctx context.Context, b *model.Bid) error {
    res, err := t.tx.ExecContext(ctx,
        `INSERT INTO bids (auction_id, bidder_id, amount, wallet_transaction_id) VALUES (?, ?, ?, ?)`,
        b.AuctionID, b.BidderID, b.Amount, b.WalletTransactionID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

// HighestBid returns the top bid by amount, breaking ties by earliest
// placement.  The sweep uses it to determine the winner at close.
func (t *sqlTx) HighestBid(ctx context.Context, auctionID uint64) (*model.Bid, error) {
    b, err := scanBid(t.tx.QueryRowContext(ctx,
        `SELECT `+bidColumns+` FROM bids WHERE auction_id = ? ORDER BY amount DESC, created_at LIMIT 1`,
        auctionID))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNoBids
    }
    return b, err
}
