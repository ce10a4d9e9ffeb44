package repository

import (
    "context"

    "github.com/rajveermakkar/justBet-api/internal/model"
)

// ListTicketsByUser returns a user's tickets, newest first.
func (s *SQLStore) ListTicketsByUser(ctx context.Context, userID uint64) ([]model.AuctionTicket, error) {
    rows, err := s.db.QueryContext(ctx,
        `SELECT id, auction_id, user_id, status, created_at
         FROM auction_tickets WHERE user_id = ? ORDER BY created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.AuctionTicket, 0)
    for rows.Next() {
        var t model.AuctionTicket
        if err := rows.Scan(&t.ID, &t.AuctionID, &t.UserID, &t.Status, &t.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// HasTicket reports whether any ticket exists for the pair, regardless
// of status.  Used by Issue to enforce the one-per-pair invariant.
func (t *sqlTx) HasTicket(ctx context.Context, auctionID, userID uint64) (bool, error) {
    return t.ticketExists(ctx,
        `SELECT COUNT(*) FROM auction_tickets WHERE auction_id = ? AND user_id = ?`, auctionID, userID)
}

// HasActiveTicket reports whether an active ticket exists for the pair.
// The bid engine consults this for live auctions.
func (t *sqlTx) HasActiveTicket(ctx context.Context, auctionID, userID uint64) (bool, error) {
    return t.ticketExists(ctx,
        `SELECT COUNT(*) FROM auction_tickets WHERE auction_id = ? AND user_id = ? AND status = 'active'`,
        auctionID, userID)
}

func (t *sqlTx) ticketExists(ctx context.Context, q string, args ...interface{}) (bool, error) {
    var n int
    if err := t.tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
        return false, err
    }
    return n > 0, nil
}

// InsertTicket creates the auction_tickets row and populates the
// generated id.
func (t *sqlTx) InsertTicket(ctx context.Context, tk *model.AuctionTicket) error {
    res, err := t.tx.ExecContext(ctx,
        `INSERT INTO auction_tickets (auction_id, user_id, status) VALUES (?, ?, ?)`,
        tk.AuctionID, tk.UserID, tk.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    tk.ID = uint64(id)
    return nil
}
