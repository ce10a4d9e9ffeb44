package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/rajveermakkar/justBet-api/internal/repository"
)

// PurchasedHandler serves the caller's won items with their certificate
// and invoice numbers.  Reads only; rows are written by settlement.
type PurchasedHandler struct {
    Store repository.Store
}

// NewPurchasedHandler constructs a PurchasedHandler.
func NewPurchasedHandler(store repository.Store) *PurchasedHandler {
    if store == nil {
        panic("nil store passed to NewPurchasedHandler")
    }
    return &PurchasedHandler{Store: store}
}

// Mine handles GET /v1/purchases.
func (h *PurchasedHandler) Mine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Store.ListPurchasesByBuyer(c.Request().Context(), userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"purchases": items, "count": len(items)})
}
