package engine

import (
    "context"
    "strconv"
    "time"

    "github.com/shopspring/decimal"

    "github.com/rajveermakkar/justBet-api/internal/model"
)

// Room and event names for the live channel.  Rooms are keyed per
// auction so only connected participants of that auction receive the
// traffic.
const (
    EventNewBid       = "auction:newBid"
    EventTimeExtended = "auction:timeExtended"
    EventEnded        = "auction:ended"
    EventCancelled    = "auction:cancelled"
    EventEndingSoon   = "auction:endingSoon"
)

// LiveChannel is the publish boundary to connected live-auction
// participants.  Delivery is fire-and-forget: the engines publish only
// after a successful commit and ignore publish errors beyond logging.
type LiveChannel interface {
    Publish(ctx context.Context, room, event string, payload interface{}) error
}

// Notifier is the out-of-band notification collaborator (email, push,
// activity feeds).  It is invoked post-commit; failures must never roll
// back core state, so implementations report errors only for logging.
type Notifier interface {
    AuctionCreated(ctx context.Context, a *model.Auction) error
    Outbid(ctx context.Context, userID, auctionID uint64, refunded decimal.Decimal) error
    AuctionEnded(ctx context.Context, auctionID, winnerID uint64, finalPrice decimal.Decimal) error
    EndingSoon(ctx context.Context, a *model.Auction) error
}

// AuctionRoom returns the live-channel room key for an auction.
func AuctionRoom(auctionID uint64) string {
    return "auction_" + strconv.FormatUint(auctionID, 10)
}

// NewBidEvent is the payload published on EventNewBid.
type NewBidEvent struct {
    AuctionID    uint64          `json:"auctionId"`
    BidderID     uint64          `json:"bidderId"`
    Amount       decimal.Decimal `json:"amount"`
    TotalCost    decimal.Decimal `json:"totalCost"`
    BuyerPremium decimal.Decimal `json:"buyerPremium"`
    Timestamp    time.Time       `json:"timestamp"`
}

// TimeExtendedEvent is the payload published on EventTimeExtended.
type TimeExtendedEvent struct {
    AuctionID  uint64    `json:"auctionId"`
    NewEndTime time.Time `json:"newEndTime"`
}

// EndedEvent is the payload published on EventEnded.
type EndedEvent struct {
    AuctionID  uint64          `json:"auctionId"`
    WinnerID   uint64          `json:"winnerId"`
    FinalPrice decimal.Decimal `json:"finalPrice"`
}

// CancelledEvent is the payload published on EventCancelled.
type CancelledEvent struct {
    AuctionID uint64 `json:"auctionId"`
    Reason    string `json:"reason"`
}

// EndingSoonEvent is the payload published on EventEndingSoon.
// TimeRemainingMs is whole milliseconds so channel consumers never see
// nanosecond durations.
type EndingSoonEvent struct {
    AuctionID       uint64    `json:"auctionId"`
    EndTime         time.Time `json:"endTime"`
    TimeRemainingMs int64     `json:"timeRemainingMs"`
}
