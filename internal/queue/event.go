// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names double as routing keys on the default exchange.  Each event
// kind has its own durable queue so consumers can subscribe selectively.
const (
    QueueAuctionCreated    = "auction.created"
    QueueBidOutbid         = "bid.outbid"
    QueueAuctionEnded      = "auction.ended"
    QueueAuctionEndingSoon = "auction.ending_soon"
)

// AuctionCreatedEvent is published when a seller lists a new auction.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type AuctionCreatedEvent struct {
    AuctionID     uint64 `json:"auction_id"`
    SellerID      uint64 `json:"seller_id"`
    Title         string `json:"title"`
    Type          string `json:"type"`
    StartingPrice string `json:"starting_price"`
    EndTime       string `json:"end_time"`
    CreatedAt     string `json:"created_at"`
}

// BidOutbidEvent is published when a bid displaces the previous leader
// and their locked funds are refunded.
type BidOutbidEvent struct {
    AuctionID      uint64 `json:"auction_id"`
    UserID         uint64 `json:"user_id"`
    RefundedAmount string `json:"refunded_amount"`
    OutbidAt       string `json:"outbid_at"`
}

// AuctionEndedEvent is published when the sweep closes an auction with a
// winning bid.
type AuctionEndedEvent struct {
    AuctionID  uint64 `json:"auction_id"`
    WinnerID   uint64 `json:"winner_id"`
    FinalPrice string `json:"final_price"`
    EndedAt    string `json:"ended_at"`
}

// AuctionEndingSoonEvent is published for live auctions entering their
// final window so ticket holders can be alerted.
type AuctionEndingSoonEvent struct {
    AuctionID    uint64 `json:"auction_id"`
    Title        string `json:"title"`
    CurrentPrice string `json:"current_price"`
    EndTime      string `json:"end_time"`
}
