package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/rajveermakkar/justBet-api/internal/model"
)

const walletColumns = `id, user_id, balance, pending_earnings, total_earnings, created_at, updated_at`

func scanWallet(row rowScanner) (*model.Wallet, error) {
    var w model.Wallet
    err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.PendingEarnings, &w.TotalEarnings, &w.CreatedAt, &w.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &w, nil
}

// GetWalletByUser loads a wallet without locking.  Returns
// ErrWalletNotFound for users who never deposited.
func (s *SQLStore) GetWalletByUser(ctx context.Context, userID uint64) (*model.Wallet, error) {
    w, err := scanWallet(s.db.QueryRowContext(ctx,
        `SELECT `+walletColumns+` FROM wallets WHERE user_id = ?`, userID))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrWalletNotFound
    }
    return w, err
}

// ListTransactionsByUser returns the user's ledger, newest first.
func (s *SQLStore) ListTransactionsByUser(ctx context.Context, userID uint64) ([]model.WalletTransaction, error) {
    rows, err := s.db.QueryContext(ctx,
        `SELECT wt.id, wt.wallet_id, wt.kind, wt.amount, wt.status, wt.description, wt.reference, wt.created_at
         FROM wallet_transactions wt
         JOIN wallets w ON w.id = wt.wallet_id
         WHERE w.user_id = ?
         ORDER BY wt.created_at DESC, wt.id DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.WalletTransaction, 0)
    for rows.Next() {
        var wt model.WalletTransaction
        if err := rows.Scan(&wt.ID, &wt.WalletID, &wt.Kind, &wt.Amount, &wt.Status, &wt.Description, &wt.Reference, &wt.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, wt)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// WalletForUpdate loads the wallet by owning user and locks its row for
// the remainder of the transaction.  Every balance check and mutation
// in a bid or settlement happens under this lock.
func (t *sqlTx) WalletForUpdate(ctx context.Context, userID uint64) (*model.Wallet, error) {
    w, err := scanWallet(t.tx.QueryRowContext(ctx,
        `SELECT `+walletColumns+` FROM wallets WHERE user_id = ? FOR UPDATE`, userID))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrWalletNotFound
    }
    return w, err
}

// EnsureWallet creates a zero-balance wallet if the user has none and
// returns the wallet either way.  The INSERT IGNORE keeps the call
// idempotent under the unique index on user_id.
func (t *sqlTx) EnsureWallet(ctx context.Context, userID uint64) (*model.Wallet, error) {
    if _, err := t.tx.ExecContext(ctx,
        `INSERT IGNORE INTO wallets (user_id, balance, pending_earnings, total_earnings) VALUES (?, 0, 0, 0)`,
        userID); err != nil {
        return nil, err
    }
    return t.WalletForUpdate(ctx, userID)
}

// Credit adds amount to the balance and appends the paired ledger
// entry.  Both writes happen in the caller's transaction; a ledger
// entry without its balance mutation is never observable.
func (t *sqlTx) Credit(ctx context.Context, walletID uint64, amount decimal.Decimal, kind model.TransactionKind, status model.TransactionStatus, description string) (uint64, error) {
    if _, err := t.tx.ExecContext(ctx,
        `UPDATE wallets SET balance = balance + ? WHERE id = ?`, amount, walletID); err != nil {
        return 0, err
    }
    return t.insertTransaction(ctx, walletID, amount, kind, status, description)
}

// Debit subtracts amount from the balance and appends the paired ledger
// entry.  The balance >= amount guard in the UPDATE keeps the invariant
// balance >= 0 even if the caller's pre-check raced.
func (t *sqlTx) Debit(ctx context.Context, walletID uint64, amount decimal.Decimal, kind model.TransactionKind, status model.TransactionStatus, description string) (uint64, error) {
    res, err := t.tx.ExecContext(ctx,
        `UPDATE wallets SET balance = balance - ? WHERE id = ? AND balance >= ?`,
        amount, walletID, amount)
    if err != nil {
        return 0, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return 0, err
    }
    if n == 0 {
        return 0, ErrInsufficientFunds
    }
    return t.insertTransaction(ctx, walletID, amount, kind, status, description)
}

// RecordPending appends a pending ledger entry without touching the
// balance.  Used when a deposit is initiated and the external provider
// has not yet confirmed it.
func (t *sqlTx) RecordPending(ctx context.Context, walletID uint64, amount decimal.Decimal, kind model.TransactionKind, description string) (uint64, error) {
    return t.insertTransaction(ctx, walletID, amount, kind, model.TransactionPending, description)
}

// CompleteOldestPendingDeposit flips the oldest pending deposit entry
// to completed and returns it.  The row is locked first so two
// confirmations for the same wallet cannot both complete one deposit.
func (t *sqlTx) CompleteOldestPendingDeposit(ctx context.Context, walletID uint64) (*model.WalletTransaction, error) {
    var wt model.WalletTransaction
    err := t.tx.QueryRowContext(ctx,
        `SELECT id, wallet_id, kind, amount, status, description, reference, created_at
         FROM wallet_transactions
         WHERE wallet_id = ? AND kind = 'deposit' AND status = 'pending'
         ORDER BY created_at, id
         LIMIT 1
         FOR UPDATE`, walletID).
        Scan(&wt.ID, &wt.WalletID, &wt.Kind, &wt.Amount, &wt.Status, &wt.Description, &wt.Reference, &wt.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNoPendingDeposit
    }
    if err != nil {
        return nil, err
    }
    if _, err := t.tx.ExecContext(ctx,
        `UPDATE wallet_transactions SET status = 'completed' WHERE id = ?`, wt.ID); err != nil {
        return nil, err
    }
    wt.Status = model.TransactionCompleted
    return &wt, nil
}

// AddBalance credits the balance without inserting a ledger entry; the
// caller must be completing a pending entry that already records the
// movement.
func (t *sqlTx) AddBalance(ctx context.Context, walletID uint64, amount decimal.Decimal) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE wallets SET balance = balance + ? WHERE id = ?`, amount, walletID)
    return err
}

// AddEarnings bumps the earning counters on the receiving wallet.
func (t *sqlTx) AddEarnings(ctx context.Context, walletID uint64, amount decimal.Decimal) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE wallets SET pending_earnings = pending_earnings + ?, total_earnings = total_earnings + ? WHERE id = ?`,
        amount, amount, walletID)
    return err
}

func (t *sqlTx) insertTransaction(ctx context.Context, walletID uint64, amount decimal.Decimal, kind model.TransactionKind, status model.TransactionStatus, description string) (uint64, error) {
    res, err := t.tx.ExecContext(ctx,
        `INSERT INTO wallet_transactions (wallet_id, kind, amount, status, description, reference)
         VALUES (?, ?, ?, ?, ?, ?)`,
        walletID, kind, amount, status, description, uuid.NewString())
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}
