package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/rajveermakkar/justBet-api/internal/repository"
)

// EarningsHandler serves revenue views: the caller's own seller
// earnings, and the platform-wide fee ledger for administrators.
type EarningsHandler struct {
    Store repository.Store
}

// NewEarningsHandler constructs an EarningsHandler.
func NewEarningsHandler(store repository.Store) *EarningsHandler {
    if store == nil {
        panic("nil store passed to NewEarningsHandler")
    }
    return &EarningsHandler{Store: store}
}

// Mine handles GET /v1/earnings, newest first, with a running total.
func (h *EarningsHandler) Mine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    earnings, err := h.Store.ListEarningsByUser(c.Request().Context(), userID)
    if err != nil {
        return writeError(c, err)
    }
    total := decimal.Zero
    for _, e := range earnings {
        total = total.Add(e.Amount)
    }
    return c.JSON(http.StatusOK, echo.Map{"earnings": earnings, "count": len(earnings), "total": total})
}

// PlatformFees handles GET /v1/admin/fees.  Admin only; the route is
// guarded by the role middleware.
func (h *EarningsHandler) PlatformFees(c echo.Context) error {
    fees, err := h.Store.ListPlatformFees(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    total := decimal.Zero
    for _, f := range fees {
        total = total.Add(f.Amount)
    }
    return c.JSON(http.StatusOK, echo.Map{"fees": fees, "count": len(fees), "total": total})
}
