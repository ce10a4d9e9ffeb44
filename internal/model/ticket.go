package model

import "time"

// TicketStatus is the lifecycle state of a live-auction ticket.
type TicketStatus string

const (
    TicketActive  TicketStatus = "active"
    TicketUsed    TicketStatus = "used"
    TicketExpired TicketStatus = "expired"
)

// AuctionTicket gates participation in a live auction.  At most one
// ticket exists per (auction, user) pair; the database enforces this
// with a unique index and the gate surfaces a violation as
// ErrDuplicateTicket.
//
// Fields:
//  ID        – primary key identifier.
//  AuctionID – live auction the ticket admits the user to.
//  UserID    – ticket holder.
//  Status    – active, used or expired.
//  CreatedAt – creation timestamp.
type AuctionTicket struct {
    ID        uint64       // auction_tickets.id
    AuctionID uint64       // auction_tickets.auction_id
    UserID    uint64       // auction_tickets.user_id
    Status    TicketStatus // auction_tickets.status
    CreatedAt time.Time    // auction_tickets.created_at
}
