// Package repository defines the storage contract for the auction core
// and its MySQL implementation. Sentinel errors declared here let the
// engine and the handlers distinguish failure scenarios with errors.Is
// without depending on driver error codes.
package repository

import "errors"

// ErrAuctionNotFound is returned when the requested auction row does
// not exist. Handlers translate this into an HTTP 404 response.
var ErrAuctionNotFound = errors.New("auction not found")

// ErrWalletNotFound is returned when a user has no wallet row. Wallets
// are created lazily on first deposit, so this is an expected state for
// users who never funded their account.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrInsufficientFunds is returned by a debit that would drive the
// wallet balance negative, and by withdrawal pre-checks.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrStaleAuctionState is returned by the compare-and-set price update
// when the stored current_price no longer matches the price the caller
// read at the start of its transaction. The bid engine treats it as a
// transient conflict and restarts validation from fresh state.
var ErrStaleAuctionState = errors.New("stale auction state")

// ErrDuplicateTicket is returned when a user already holds a ticket for
// the auction. At most one ticket per (auction, user) pair exists.
var ErrDuplicateTicket = errors.New("ticket already exists")

// ErrNoBids is returned when an auction has no bids at all, e.g. when
// the sweep looks for a winner on a closing auction.
var ErrNoBids = errors.New("no bids found for auction")

// ErrNoPendingDeposit is returned when a deposit confirmation arrives
// for a wallet with no pending deposit transaction.
var ErrNoPendingDeposit = errors.New("no pending deposit found")

// ErrUserNotFound is returned when no user row exists for the id.  User
// rows are provisioned by the external identity service, so a missing
// row is tolerated wherever only display data is resolved.
var ErrUserNotFound = errors.New("user not found")
