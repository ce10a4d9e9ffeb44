package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// FeeStatus tracks whether a platform-side revenue record has been
// settled into the platform wallet.
type FeeStatus string

const (
    FeeSettled FeeStatus = "settled"
)

// PlatformFee is the append-only record of the platform's take from a
// settled auction: the platform fee plus the buyer premium.
type PlatformFee struct {
    ID        uint64          // platform_fees.id
    AuctionID uint64          // platform_fees.auction_id
    Amount    decimal.Decimal // platform_fees.amount
    Status    FeeStatus       // platform_fees.status
    CreatedAt time.Time       // platform_fees.created_at
}

// EarningType distinguishes seller earnings from administrative ones.
type EarningType string

const (
    EarningSeller EarningType = "seller"
)

// Earning records revenue credited to a user from a settled auction.
type Earning struct {
    ID        uint64          // earnings.id
    UserID    uint64          // earnings.user_id
    AuctionID uint64          // earnings.auction_id
    Amount    decimal.Decimal // earnings.amount
    Type      EarningType     // earnings.type
    Status    FeeStatus       // earnings.status
    CreatedAt time.Time       // earnings.created_at
}

// ListingFee records the flat fee charged to a seller when an auction
// is created.  The row is written in the same transaction as the
// auction itself, so a seller is never charged without a listing.
type ListingFee struct {
    ID        uint64          // listing_fees.id
    AuctionID uint64          // listing_fees.auction_id
    Amount    decimal.Decimal // listing_fees.amount
    Status    FeeStatus       // listing_fees.status
    CreatedAt time.Time       // listing_fees.created_at
}

// TicketFee records the flat fee charged when a live-auction ticket is
// issued.
type TicketFee struct {
    ID        uint64          // ticket_fees.id
    AuctionID uint64          // ticket_fees.auction_id
    UserID    uint64          // ticket_fees.user_id
    Amount    decimal.Decimal // ticket_fees.amount
    Status    FeeStatus       // ticket_fees.status
    CreatedAt time.Time       // ticket_fees.created_at
}
