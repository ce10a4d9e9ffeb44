package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/rajveermakkar/justBet-api/internal/engine"
)

// BidHandler serves bid placement and bid history.  Placement delegates
// to the bid engine, which owns all funds and price invariants; the
// handler only translates between HTTP and the engine's types.
type BidHandler struct {
    Bids *engine.BidEngine
}

// NewBidHandler constructs a BidHandler.
func NewBidHandler(bids *engine.BidEngine) *BidHandler {
    if bids == nil {
        panic("nil bid engine passed to NewBidHandler")
    }
    return &BidHandler{Bids: bids}
}

// Place handles POST /v1/auctions/:id/bids.  The body carries the bid
// amount as a JSON string.  A lost race against concurrent bidders maps
// to 409 so clients know to refresh the price and retry deliberately.
func (h *BidHandler) Place(c echo.Context) error {
    bidderID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    auctionID, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid auction id"})
    }
    var body struct {
        Amount string `json:"amount"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    amount, err := parseMoney(body.Amount, true)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
    }

    res, err := h.Bids.PlaceBid(c.Request().Context(), auctionID, bidderID, amount)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, res)
}

// ListByAuction handles GET /v1/auctions/:id/bids, highest first.
func (h *BidHandler) ListByAuction(c echo.Context) error {
    auctionID, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid auction id"})
    }
    bids, err := h.Bids.BidsByAuction(c.Request().Context(), auctionID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"bids": bids, "count": len(bids)})
}

// Mine handles GET /v1/bids, the caller's bid history, newest first.
func (h *BidHandler) Mine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bids, err := h.Bids.BidsByUser(c.Request().Context(), userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"bids": bids, "count": len(bids)})
}
