package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/rajveermakkar/justBet-api/internal/config"     // runtime configuration for middleware
	"github.com/rajveermakkar/justBet-api/internal/handler"    // import the handlers that implement business logic
	"github.com/rajveermakkar/justBet-api/internal/middleware" // import middleware for JWT authentication, caching and rate limiting
)

// Handlers bundles every handler the API mounts.  main wires the
// concrete instances and hands the bundle to RegisterRoutes.
type Handlers struct {
	Auctions  *handler.AuctionHandler
	Bids      *handler.BidHandler
	Wallet    *handler.WalletHandler
	Tickets   *handler.TicketHandler
	Purchases *handler.PurchasedHandler
	Earnings  *handler.EarningsHandler
}

// RegisterRoutes registers the health check, the public catalogue, and
// the authenticated API on the provided Echo instance.
//
// Public reads are cached through Redis when a client is available.
// Bid placement carries a per-user token bucket on top of the global
// limiter so one aggressive bidder cannot starve an auction's close.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	// Health endpoint for load balancers and monitoring systems.
	e.GET("/healthz", handler.Health)

	// Public catalogue: anyone can browse auctions and bid history.  The
	// parameterized routes get the short detail TTL inside the cache
	// middleware because their payloads change with every accepted bid.
	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/v1/auctions", h.Auctions.List, cached)
	e.GET("/v1/auctions/:id", h.Auctions.Get, cached)
	e.GET("/v1/auctions/:id/bids", h.Bids.ListByAuction, cached)

	// Everything below requires a valid access token.  JWTAuth stores the
	// subject and role claims in the context for the handlers.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Listings.
	auth.POST("/auctions", h.Auctions.Create)

	// Bidding.  The dedicated bucket is tighter than the group-wide one
	// so a scripted bidder cannot monopolize an auction's final seconds.
	auth.POST("/auctions/:id/bids", h.Bids.Place,
		middleware.NewTokenBucket(config.LoadBidRateLimitConfig(), rdb))
	auth.GET("/bids", h.Bids.Mine)

	// Live-auction tickets.
	auth.GET("/auctions/:id/ticket/validate", h.Tickets.Validate)
	auth.POST("/auctions/:id/ticket", h.Tickets.Issue)
	auth.GET("/tickets", h.Tickets.Mine)

	// Wallet and ledger.
	auth.GET("/wallet", h.Wallet.Get)
	auth.GET("/wallet/transactions", h.Wallet.Transactions)
	auth.POST("/wallet/deposit", h.Wallet.Deposit)
	auth.POST("/wallet/deposit/confirm", h.Wallet.ConfirmDeposit)
	auth.POST("/wallet/withdraw", h.Wallet.Withdraw)

	// Won items and seller revenue.
	auth.GET("/purchases", h.Purchases.Mine)
	auth.GET("/earnings", h.Earnings.Mine)

	// Platform revenue ledger, admins only.
	auth.GET("/admin/fees", h.Earnings.PlatformFees, middleware.RequireRole("admin"))
}
