package handler // handler defines http handlers

import (
    "errors"   // errors provides sentinel comparisons for error mapping
    "net/http" // net/http provides status codes
    "strconv"  // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/rajveermakkar/justBet-api/internal/engine"
    "github.com/rajveermakkar/justBet-api/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT middleware stores the raw claim value, so the type varies with the
// token issuer: numeric claims arrive as float64, string subjects as string.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// writeError maps engine and repository errors to HTTP responses.  Not-found
// sentinels become 404, the concurrency conflict becomes 409, business rule
// violations become 400, and everything else is a 500 with a generic body so
// internal details never leak to clients.
func writeError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrAuctionNotFound),
        errors.Is(err, repository.ErrWalletNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, engine.ErrConcurrentBid):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrInsufficientFunds),
        errors.Is(err, repository.ErrDuplicateTicket),
        errors.Is(err, repository.ErrNoPendingDeposit),
        errors.Is(err, engine.ErrAuctionNotActive),
        errors.Is(err, engine.ErrAuctionEnded),
        errors.Is(err, engine.ErrBelowMinimumBid),
        errors.Is(err, engine.ErrBelowIncrement),
        errors.Is(err, engine.ErrTicketRequired),
        errors.Is(err, engine.ErrNotLiveAuction),
        errors.Is(err, engine.ErrInvalidAmount),
        errors.Is(err, engine.ErrInvalidInput):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    c.Logger().Errorf("internal error: %v", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
