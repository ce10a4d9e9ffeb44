package engine

import (
    "context"
    "fmt"

    "github.com/shopspring/decimal"
    "github.com/sirupsen/logrus"

    "github.com/rajveermakkar/justBet-api/internal/model"
    "github.com/rajveermakkar/justBet-api/internal/repository"
)

// WalletService exposes the ledger operations the HTTP surface needs:
// balance and transaction reads plus the deposit/withdrawal lifecycle.
// The external payment provider confirms deposits and executes payouts;
// here both are ledger-only operations.
type WalletService struct {
    store repository.Store
    log   *logrus.Logger
}

// NewWalletService constructs a WalletService.
func NewWalletService(store repository.Store, log *logrus.Logger) *WalletService {
    return &WalletService{store: store, log: log}
}

// Wallet returns the user's wallet, or repository.ErrWalletNotFound.
func (s *WalletService) Wallet(ctx context.Context, userID uint64) (*model.Wallet, error) {
    return s.store.GetWalletByUser(ctx, userID)
}

// Transactions returns the user's ledger, newest first.
func (s *WalletService) Transactions(ctx context.Context, userID uint64) ([]model.WalletTransaction, error) {
    return s.store.ListTransactionsByUser(ctx, userID)
}

// Deposit initiates a deposit: it lazily creates the wallet and records
// a pending ledger entry.  The balance is untouched until the provider
// callback confirms the deposit.
func (s *WalletService) Deposit(ctx context.Context, userID uint64, amount decimal.Decimal) (uint64, error) {
    if amount.Cmp(decimal.Zero) <= 0 {
        return 0, fmt.Errorf("%w: deposit amount must be positive", ErrInvalidAmount)
    }
    var txnID uint64
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        w, err := tx.EnsureWallet(ctx, userID)
        if err != nil {
            return err
        }
        txnID, err = tx.RecordPending(ctx, w.ID, amount, model.TransactionDeposit, "Wallet deposit")
        return err
    })
    if err != nil {
        return 0, err
    }
    s.log.WithFields(logrus.Fields{"user_id": userID, "amount": amount.String()}).Info("deposit initiated")
    return txnID, nil
}

// ConfirmDeposit completes the user's oldest pending deposit and
// credits the balance, both in one atomic unit.
func (s *WalletService) ConfirmDeposit(ctx context.Context, userID uint64) (*model.WalletTransaction, error) {
    var confirmed *model.WalletTransaction
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        w, err := tx.WalletForUpdate(ctx, userID)
        if err != nil {
            return err
        }
        wt, err := tx.CompleteOldestPendingDeposit(ctx, w.ID)
        if err != nil {
            return err
        }
        if err := tx.AddBalance(ctx, w.ID, wt.Amount); err != nil {
            return err
        }
        confirmed = wt
        return nil
    })
    if err != nil {
        return nil, err
    }
    s.log.WithFields(logrus.Fields{"user_id": userID, "amount": confirmed.Amount.String()}).Info("deposit confirmed")
    return confirmed, nil
}

// Withdraw debits the balance and records a pending withdrawal entry
// for the payout provider to execute.  Fails with
// repository.ErrInsufficientFunds when the balance does not cover the
// amount.
func (s *WalletService) Withdraw(ctx context.Context, userID uint64, amount decimal.Decimal) (uint64, error) {
    if amount.Cmp(decimal.Zero) <= 0 {
        return 0, fmt.Errorf("%w: withdrawal amount must be positive", ErrInvalidAmount)
    }
    var txnID uint64
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        w, err := tx.WalletForUpdate(ctx, userID)
        if err != nil {
            return err
        }
        txnID, err = tx.Debit(ctx, w.ID, amount, model.TransactionWithdrawal, model.TransactionPending, "Wallet withdrawal")
        return err
    })
    if err != nil {
        return 0, err
    }
    s.log.WithFields(logrus.Fields{"user_id": userID, "amount": amount.String()}).Info("withdrawal initiated")
    return txnID, nil
}
