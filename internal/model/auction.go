package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// AuctionType distinguishes the two auction formats.  Settled auctions run
// until their end time and are resolved by the sweep; live auctions
// additionally require a participation ticket and support end-time
// extension when a bid lands near the close.
type AuctionType string

const (
    AuctionTypeSettled AuctionType = "settled"
    AuctionTypeLive    AuctionType = "live"
)

// AuctionStatus is the lifecycle state of an auction.  Transitions are
// one-directional: active -> ended (winner found at close), active ->
// cancelled (no bids at close), active/ended -> unsold (settlement found
// no bidder), ended -> completed (settlement succeeded).  No auction
// re-enters active.
type AuctionStatus string

const (
    AuctionStatusActive    AuctionStatus = "active"
    AuctionStatusEnded     AuctionStatus = "ended"
    AuctionStatusCancelled AuctionStatus = "cancelled"
    AuctionStatusUnsold    AuctionStatus = "unsold"
    AuctionStatusCompleted AuctionStatus = "completed"
)

// Auction mirrors the auctions table.  Monetary columns are DECIMAL(10,2)
// and are carried as decimal.Decimal throughout; never float64.
// CurrentPrice starts equal to StartingPrice and only ever increases.
// CurrentBidderID is the current high bidder (nil before the first bid);
// WinnerID, FinalPrice and SettlementTime are set when the sweep closes
// the auction.
//
// Fields:
//  ID                       – primary key identifier.
//  Title, Description       – listing content supplied by the seller.
//  StartingPrice            – opening price; floor for CurrentPrice.
//  CurrentPrice             – highest accepted bid amount so far.
//  EndTime                  – close time; bids at or after it are rejected.
//  Status                   – lifecycle state, see AuctionStatus.
//  SellerID                 – user who listed the item.
//  CurrentBidderID          – current leader (nullable).
//  WinnerID                 – winning bidder, set at close (nullable).
//  FinalPrice               – winning amount, set at close (nullable).
//  SettlementTime           – when the sweep closed the auction (nullable).
//  Type                     – settled or live.
//  MinimumBidIncrement      – a bid must reach CurrentPrice + this value.
//  TimeExtension            – live only: seconds added when a late bid lands.
//  MinimumWalletBalance     – live only: balance floor for ticket issuance.
//  MinimumBidAmount         – live only: absolute bid floor.
//  PlatformFeePercentage    – settled-auction platform cut of the final price.
//  LiveAuctionFeePercentage – live-auction platform cut of the final price.
//  BuyerPremiumPercentage   – surcharge the buyer pays on top of the bid.
//  ListingFee               – flat fee charged to the seller at creation.
type Auction struct {
    ID                       uint64          // auctions.id
    Title                    string          // auctions.title
    Description              string          // auctions.description
    StartingPrice            decimal.Decimal // auctions.starting_price
    CurrentPrice             decimal.Decimal // auctions.current_price
    EndTime                  time.Time       // auctions.end_time
    Status                   AuctionStatus   // auctions.status
    SellerID                 uint64          // auctions.seller_id
    CurrentBidderID          *uint64         // auctions.current_bidder_id (nullable)
    WinnerID                 *uint64         // auctions.winner_id (nullable)
    FinalPrice               *decimal.Decimal // auctions.final_price (nullable)
    SettlementTime           *time.Time      // auctions.settlement_time (nullable)
    Type                     AuctionType     // auctions.type
    MinimumBidIncrement      decimal.Decimal // auctions.minimum_bid_increment
    TimeExtension            int             // auctions.time_extension (seconds)
    MinimumWalletBalance     decimal.Decimal // auctions.minimum_wallet_balance
    MinimumBidAmount         decimal.Decimal // auctions.minimum_bid_amount
    PlatformFeePercentage    decimal.Decimal // auctions.platform_fee_percentage
    LiveAuctionFeePercentage decimal.Decimal // auctions.live_auction_fee_percentage
    BuyerPremiumPercentage   decimal.Decimal // auctions.buyer_premium_percentage
    ListingFee               decimal.Decimal // auctions.listing_fee
    LastBidTime              *time.Time      // auctions.last_bid_time (nullable)
    CreatedAt                time.Time       // auctions.created_at
    UpdatedAt                time.Time       // auctions.updated_at
}

// IsLive reports whether the auction requires a ticket and supports
// end-time extension.
func (a *Auction) IsLive() bool { return a.Type == AuctionTypeLive }

// FeePercentage returns the platform cut that applies to this auction's
// final price: the live rate for live auctions, the settled rate otherwise.
func (a *Auction) FeePercentage() decimal.Decimal {
    if a.IsLive() {
        return a.LiveAuctionFeePercentage
    }
    return a.PlatformFeePercentage
}
