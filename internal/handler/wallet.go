package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/rajveermakkar/justBet-api/internal/engine"
)

// WalletHandler serves the caller's wallet: balance, ledger, and the
// deposit/withdrawal lifecycle.  All routes require authentication.
type WalletHandler struct {
    Wallet *engine.WalletService
}

// NewWalletHandler constructs a WalletHandler.
func NewWalletHandler(wallet *engine.WalletService) *WalletHandler {
    if wallet == nil {
        panic("nil wallet service passed to NewWalletHandler")
    }
    return &WalletHandler{Wallet: wallet}
}

// Get handles GET /v1/wallet.
func (h *WalletHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    w, err := h.Wallet.Wallet(c.Request().Context(), userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, w)
}

// Transactions handles GET /v1/wallet/transactions, newest first.
func (h *WalletHandler) Transactions(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    txns, err := h.Wallet.Transactions(c.Request().Context(), userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"transactions": txns, "count": len(txns)})
}

// Deposit handles POST /v1/wallet/deposit.  The deposit is recorded as
// pending; the balance changes only once the payment provider confirms.
func (h *WalletHandler) Deposit(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
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
    txnID, err := h.Wallet.Deposit(c.Request().Context(), userID, amount)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"transaction_id": txnID, "status": "pending"})
}

// ConfirmDeposit handles POST /v1/wallet/deposit/confirm.  It completes
// the caller's oldest pending deposit and credits the balance.
func (h *WalletHandler) ConfirmDeposit(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    wt, err := h.Wallet.ConfirmDeposit(c.Request().Context(), userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, wt)
}

// Withdraw handles POST /v1/wallet/withdraw.
func (h *WalletHandler) Withdraw(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
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
    txnID, err := h.Wallet.Withdraw(c.Request().Context(), userID, amount)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"transaction_id": txnID, "status": "pending"})
}
