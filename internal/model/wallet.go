package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Wallet holds a user's spendable balance together with earning
// counters.  There is at most one wallet per user and it is created
// lazily on first deposit.  Balance must never be observed negative;
// the bid engine enforces this with a pre-check under the same row
// lock as the debit.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – owning user (unique).
//  Balance         – spendable funds.
//  PendingEarnings – earnings credited but not yet paid out.
//  TotalEarnings   – lifetime earnings, monotonically increasing.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Wallet struct {
    ID              uint64          // wallets.id
    UserID          uint64          // wallets.user_id
    Balance         decimal.Decimal // wallets.balance
    PendingEarnings decimal.Decimal // wallets.pending_earnings
    TotalEarnings   decimal.Decimal // wallets.total_earnings
    CreatedAt       time.Time       // wallets.created_at
    UpdatedAt       time.Time       // wallets.updated_at
}

// TransactionKind enumerates the ledger entry kinds.  Every balance
// mutation is paired 1:1 with exactly one WalletTransaction of the
// matching kind inside the same database transaction.
type TransactionKind string

const (
    TransactionDeposit       TransactionKind = "deposit"
    TransactionWithdrawal    TransactionKind = "withdrawal"
    TransactionBid           TransactionKind = "bid"
    TransactionRefund        TransactionKind = "refund"
    TransactionSellerEarning TransactionKind = "seller_earning"
    TransactionPlatformFee   TransactionKind = "platform_fee"
)

// TransactionStatus tracks the settlement state of a ledger entry.
// Deposits and withdrawals start pending until the external payment
// provider confirms them; all engine-internal entries are written
// completed.
type TransactionStatus string

const (
    TransactionPending   TransactionStatus = "pending"
    TransactionCompleted TransactionStatus = "completed"
    TransactionFailed    TransactionStatus = "failed"
)

// WalletTransaction is an immutable, append-only ledger entry.  Amount is
// always positive; the Kind determines the direction of the balance
// movement.  Reference carries an opaque correlation id (a UUID) so
// external systems can reconcile entries without exposing row ids.
//
// Fields:
//  ID          – primary key identifier.
//  WalletID    – wallet the entry belongs to.
//  Kind        – entry kind, see TransactionKind.
//  Amount      – positive monetary amount.
//  Status      – pending, completed or failed.
//  Description – human-readable reason, references the auction where relevant.
//  Reference   – opaque correlation UUID.
//  CreatedAt   – creation timestamp.
type WalletTransaction struct {
    ID          uint64            // wallet_transactions.id
    WalletID    uint64            // wallet_transactions.wallet_id
    Kind        TransactionKind   // wallet_transactions.kind
    Amount      decimal.Decimal   // wallet_transactions.amount
    Status      TransactionStatus // wallet_transactions.status
    Description string            // wallet_transactions.description
    Reference   string            // wallet_transactions.reference
    CreatedAt   time.Time         // wallet_transactions.created_at
}
