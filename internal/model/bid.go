package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Bid records a single accepted bid.  Rows are immutable once created.
// Amount is the effective bid price excluding buyer premium; the premium
// is computed separately and charged as part of the bidder's total cost.
// WalletTransactionID references the debit that locked the bidder's
// funds, so every bid is traceable to exactly one ledger entry.
//
// Fields:
//  ID                  – primary key identifier.
//  AuctionID           – auction the bid was placed on.
//  BidderID            – user who placed the bid.
//  Amount              – bid price excluding buyer premium.
//  WalletTransactionID – the debit that funded this bid.
//  CreatedAt           – creation timestamp.
type Bid struct {
    ID                  uint64          // bids.id
    AuctionID           uint64          // bids.auction_id
    BidderID            uint64          // bids.bidder_id
    Amount              decimal.Decimal // bids.amount
    WalletTransactionID uint64          // bids.wallet_transaction_id
    CreatedAt           time.Time       // bids.created_at
}
