// Package engine implements the auction core: bid placement, ticket
// gating, settlement, auction creation with listing fees, and the
// wallet operations they depend on. Every data-mutating operation runs
// as one atomic unit through repository.Store.InTx; partial writes are
// never observable.
package engine

import "errors"

// Business-rule violations. These are surfaced to the caller with the
// transaction rolled back; the system never retries them.
var (
    ErrAuctionNotActive = errors.New("auction is not active")
    ErrAuctionEnded     = errors.New("auction has ended")
    ErrBelowMinimumBid  = errors.New("bid below minimum bid amount")
    ErrBelowIncrement   = errors.New("bid below minimum increment")
    ErrTicketRequired   = errors.New("ticket required for live auction participation")
    ErrNotLiveAuction   = errors.New("tickets apply to live auctions only")
)

// Input validation errors, the caller's fault; no mutation is attempted.
var (
    ErrInvalidAmount = errors.New("invalid amount")
    ErrInvalidInput  = errors.New("invalid input")
)

// ErrConcurrentBid is returned after the engine exhausted its internal
// retries on compare-and-set conflicts. The bid was not applied and is
// safe to resubmit.
var ErrConcurrentBid = errors.New("concurrent bid conflict, please retry")
