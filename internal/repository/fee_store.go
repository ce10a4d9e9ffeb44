package repository

import (
    "context"

    "github.com/rajveermakkar/justBet-api/internal/model"
)

// ListPlatformFees returns every platform revenue record, newest first.
// Used by the admin revenue view only.
func (s *SQLStore) ListPlatformFees(ctx context.Context) ([]model.PlatformFee, error) {
    rows, err := s.db.QueryContext(ctx,
        `SELECT id, auction_id, amount, status, created_at
         FROM platform_fees ORDER BY created_at DESC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.PlatformFee, 0)
    for rows.Next() {
        var f model.PlatformFee
        if err := rows.Scan(&f.ID, &f.AuctionID, &f.Amount, &f.Status, &f.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, f)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ListEarningsByUser returns the user's earnings records, newest first.
func (s *SQLStore) ListEarningsByUser(ctx context.Context, userID uint64) ([]model.Earning, error) {
    rows, err := s.db.QueryContext(ctx,
        `SELECT id, user_id, auction_id, amount, type, status, created_at
         FROM earnings WHERE user_id = ? ORDER BY created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Earning, 0)
    for rows.Next() {
        var e model.Earning
        if err := rows.Scan(&e.ID, &e.UserID, &e.AuctionID, &e.Amount, &e.Type, &e.Status, &e.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
