package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/rajveermakkar/justBet-api/internal/engine"
)

// TicketHandler serves live-auction tickets: eligibility checks, ticket
// purchase, and the caller's ticket list.
type TicketHandler struct {
    Gate *engine.TicketGate
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(gate *engine.TicketGate) *TicketHandler {
    if gate == nil {
        panic("nil ticket gate passed to NewTicketHandler")
    }
    return &TicketHandler{Gate: gate}
}

// Validate handles GET /v1/auctions/:id/ticket/validate.  It reports
// whether the caller could bid right now without changing any state, so
// clients can gate their bid UI before the user commits.
func (h *TicketHandler) Validate(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    auctionID, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid auction id"})
    }
    res, err := h.Gate.Validate(c.Request().Context(), auctionID, userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// Issue handles POST /v1/auctions/:id/ticket.  The flat ticket fee is
// debited from the caller in the same transaction that creates the
// ticket; a second purchase for the same auction returns 400.
func (h *TicketHandler) Issue(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    auctionID, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid auction id"})
    }
    tk, err := h.Gate.Issue(c.Request().Context(), auctionID, userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, tk)
}

// Mine handles GET /v1/tickets, the caller's tickets, newest first.
func (h *TicketHandler) Mine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    tickets, err := h.Gate.TicketsByUser(c.Request().Context(), userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"tickets": tickets, "count": len(tickets)})
}
