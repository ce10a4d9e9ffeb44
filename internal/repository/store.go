package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/shopspring/decimal"

    "github.com/rajveermakkar/justBet-api/internal/model"
)

// Store is the storage boundary the engines are written against.  Reads
// that need no transactional isolation live directly on the Store;
// every data-mutating sequence runs inside InTx so that the whole
// operation commits or rolls back as one atomic unit.  The production
// implementation is SQLStore below; engine tests substitute an
// in-memory fake with the same all-or-nothing semantics.
type Store interface {
    // InTx runs fn inside a database transaction.  When fn returns an
    // error the transaction is rolled back and the error is returned
    // unchanged; otherwise the transaction is committed.
    InTx(ctx context.Context, fn func(tx Tx) error) error

    GetAuction(ctx context.Context, id uint64) (*model.Auction, error)
    ListAuctions(ctx context.Context, f AuctionFilter) ([]model.Auction, error)
    // ListExpiredActive returns the active auctions whose end time has
    // passed, oldest close first.  The sweep processes each returned
    // auction in its own transaction.
    ListExpiredActive(ctx context.Context, now time.Time) ([]model.Auction, error)
    // ListEndingSoonLive returns active live auctions ending within the
    // given window.  Used for endingSoon notifications only; no state
    // is mutated.
    ListEndingSoonLive(ctx context.Context, now time.Time, within time.Duration) ([]model.Auction, error)
    // ListEndedUnsettled returns auctions a previous pass closed whose
    // settlement did not complete, so the sweep can retry them.
    ListEndedUnsettled(ctx context.Context) ([]model.Auction, error)

    GetWalletByUser(ctx context.Context, userID uint64) (*model.Wallet, error)
    ListTransactionsByUser(ctx context.Context, userID uint64) ([]model.WalletTransaction, error)

    ListBidsByAuction(ctx context.Context, auctionID uint64) ([]model.Bid, error)
    ListBidsByUser(ctx context.Context, userID uint64) ([]model.Bid, error)
    ListTicketsByUser(ctx context.Context, userID uint64) ([]model.AuctionTicket, error)
    ListPurchasesByBuyer(ctx context.Context, buyerID uint64) ([]model.PurchasedItem, error)

    ListPlatformFees(ctx context.Context) ([]model.PlatformFee, error)
    ListEarningsByUser(ctx context.Context, userID uint64) ([]model.Earning, error)

    // GetUser resolves display data for a user provisioned by the
    // external identity service, or ErrUserNotFound.
    GetUser(ctx context.Context, id uint64) (*model.User, error)
}

// Tx exposes the mutating and locking operations available inside a
// transaction started by Store.InTx.  Methods that read for a later
// write (AuctionForUpdate, WalletForUpdate) take row-level locks so a
// concurrent bid and the sweep on the same auction are mutually
// exclusive.
type Tx interface {
    // AuctionForUpdate loads an auction and locks its row for the
    // remainder of the transaction.
    AuctionForUpdate(ctx context.Context, id uint64) (*model.Auction, error)
    InsertAuction(ctx context.Context, a *model.Auction) error
    // UpdatePriceAndLeader is a compare-and-set: it advances
    // current_price and current_bidder_id only while the stored price
    // still equals expectedPrev, and returns ErrStaleAuctionState when
    // another bid committed in between.
    UpdatePriceAndLeader(ctx context.Context, id uint64, newPrice decimal.Decimal, bidderID uint64, expectedPrev decimal.Decimal) error
    // ExtendEndTime pushes a live auction's close out to newEnd.
    ExtendEndTime(ctx context.Context, id uint64, newEnd time.Time) error
    CloseAuction(ctx context.Context, id, winnerID uint64, finalPrice decimal.Decimal, at time.Time) error
    MarkUnsold(ctx context.Context, id uint64) error
    MarkCancelled(ctx context.Context, id uint64) error
    MarkCompleted(ctx context.Context, id uint64) error

    // WalletForUpdate loads a wallet by owning user and locks its row.
    WalletForUpdate(ctx context.Context, userID uint64) (*model.Wallet, error)
    // EnsureWallet creates a zero-balance wallet for the user if none
    // exists and returns the wallet either way (idempotent).
    EnsureWallet(ctx context.Context, userID uint64) (*model.Wallet, error)
    // Credit adds amount to the wallet balance and appends the paired
    // ledger entry, returning the new entry's id.
    Credit(ctx context.Context, walletID uint64, amount decimal.Decimal, kind model.TransactionKind, status model.TransactionStatus, description string) (uint64, error)
    // Debit subtracts amount from the wallet balance and appends the
    // paired ledger entry.  It fails with ErrInsufficientFunds when the
    // balance would go negative.
    Debit(ctx context.Context, walletID uint64, amount decimal.Decimal, kind model.TransactionKind, status model.TransactionStatus, description string) (uint64, error)
    // RecordPending appends a pending ledger entry without touching the
    // balance (deposit initiation, withdrawal payout tracking).
    RecordPending(ctx context.Context, walletID uint64, amount decimal.Decimal, kind model.TransactionKind, description string) (uint64, error)
    // CompleteOldestPendingDeposit flips the oldest pending deposit to
    // completed and returns it, or ErrNoPendingDeposit.
    CompleteOldestPendingDeposit(ctx context.Context, walletID uint64) (*model.WalletTransaction, error)
    // AddBalance credits the balance without a new ledger entry.  Used
    // only when completing a previously recorded pending entry, which
    // already is the paired ledger record.
    AddBalance(ctx context.Context, walletID uint64, amount decimal.Decimal) error
    // AddEarnings bumps pending_earnings and total_earnings by amount.
    AddEarnings(ctx context.Context, walletID uint64, amount decimal.Decimal) error

    InsertBid(ctx context.Context, b *model.Bid) error
    // HighestBid returns the top bid by amount for the auction, or
    // ErrNoBids when none exist.
    HighestBid(ctx context.Context, auctionID uint64) (*model.Bid, error)

    HasTicket(ctx context.Context, auctionID, userID uint64) (bool, error)
    HasActiveTicket(ctx context.Context, auctionID, userID uint64) (bool, error)
    InsertTicket(ctx context.Context, t *model.AuctionTicket) error

    InsertPurchasedItem(ctx context.Context, p *model.PurchasedItem) error
    InsertPlatformFee(ctx context.Context, auctionID uint64, amount decimal.Decimal) error
    InsertEarning(ctx context.Context, userID, auctionID uint64, amount decimal.Decimal, typ model.EarningType) error
    InsertListingFee(ctx context.Context, auctionID uint64, amount decimal.Decimal) error
    InsertTicketFee(ctx context.Context, auctionID, userID uint64, amount decimal.Decimal) error
}

// AuctionFilter narrows ListAuctions.  Zero values mean "any".
type AuctionFilter struct {
    Type     model.AuctionType
    Status   model.AuctionStatus
    SellerID uint64
}

// SQLStore is the MySQL-backed Store.  One SQLStore wraps the single
// shared *sql.DB pool and is injected into every engine at
// construction.
type SQLStore struct {
    db *sql.DB
}

// NewSQLStore returns a SQLStore bound to the given database.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// DB exposes the underlying pool for health checks.
func (s *SQLStore) DB() *sql.DB { return s.db }

// InTx implements Store.  The rollback in the deferred function is a
// no-op after a successful commit.
func (s *SQLStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&sqlTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// sqlTx adapts a *sql.Tx to the Tx interface.  Its methods are split
// across the *_store.go files by concern.
type sqlTx struct {
    tx *sql.Tx
}
