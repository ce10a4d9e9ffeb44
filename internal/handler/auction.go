package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/rajveermakkar/justBet-api/internal/engine"
    "github.com/rajveermakkar/justBet-api/internal/model"
    "github.com/rajveermakkar/justBet-api/internal/repository"
)

// AuctionHandler serves the listing catalogue: creation by sellers and
// read access for everyone.  Creation requires authentication; the JWT
// middleware has already stored the caller's user id in the context.
type AuctionHandler struct {
    Auctions *engine.AuctionService
}

// NewAuctionHandler constructs an AuctionHandler.
func NewAuctionHandler(auctions *engine.AuctionService) *AuctionHandler {
    if auctions == nil {
        panic("nil auction service passed to NewAuctionHandler")
    }
    return &AuctionHandler{Auctions: auctions}
}

// createAuctionRequest is the body for POST /v1/auctions.  Monetary
// fields travel as JSON strings to avoid float rounding on the wire.
type createAuctionRequest struct {
    Title                string    `json:"title"`
    Description          string    `json:"description"`
    StartingPrice        string    `json:"starting_price"`
    EndTime              time.Time `json:"end_time"`
    Type                 string    `json:"type"`
    MinimumBidIncrement  string    `json:"minimum_bid_increment"`
    TimeExtension        int       `json:"time_extension"`
    MinimumWalletBalance string    `json:"minimum_wallet_balance"`
    MinimumBidAmount     string    `json:"minimum_bid_amount"`
}

// Create handles POST /v1/auctions.  It inserts the listing and charges
// the seller the flat listing fee atomically; a seller whose balance
// cannot cover the fee receives 400 and no listing is created.
func (h *AuctionHandler) Create(c echo.Context) error {
    sellerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body createAuctionRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    in := engine.CreateAuctionInput{
        Title:         body.Title,
        Description:   body.Description,
        EndTime:       body.EndTime,
        Type:          model.AuctionType(body.Type),
        TimeExtension: body.TimeExtension,
    }
    if in.StartingPrice, err = parseMoney(body.StartingPrice, true); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starting_price"})
    }
    if in.MinimumBidIncrement, err = parseMoney(body.MinimumBidIncrement, false); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid minimum_bid_increment"})
    }
    if in.MinimumWalletBalance, err = parseMoney(body.MinimumWalletBalance, false); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid minimum_wallet_balance"})
    }
    if in.MinimumBidAmount, err = parseMoney(body.MinimumBidAmount, false); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid minimum_bid_amount"})
    }

    a, err := h.Auctions.Create(c.Request().Context(), sellerID, in)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, a)
}

// Get handles GET /v1/auctions/:id.  The response pairs the auction
// with the seller's display name.
func (h *AuctionHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid auction id"})
    }
    d, err := h.Auctions.Detail(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, d)
}

// List handles GET /v1/auctions.  Optional query parameters "type",
// "status" and "seller_id" narrow the result.
func (h *AuctionHandler) List(c echo.Context) error {
    f := repository.AuctionFilter{
        Type:   model.AuctionType(c.QueryParam("type")),
        Status: model.AuctionStatus(c.QueryParam("status")),
    }
    if s := c.QueryParam("seller_id"); s != "" {
        id, err := strconv.ParseUint(s, 10, 64)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seller_id"})
        }
        f.SellerID = id
    }
    auctions, err := h.Auctions.List(c.Request().Context(), f)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"auctions": auctions, "count": len(auctions)})
}

// parseMoney converts a JSON money string.  An empty string means
// "unset" and yields zero unless the field is required.
func parseMoney(s string, required bool) (decimal.Decimal, error) {
    if s == "" {
        if required {
            return decimal.Decimal{}, echo.ErrBadRequest
        }
        return decimal.Decimal{}, nil
    }
    return decimal.NewFromString(s)
}
