package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajveermakkar/justBet-api/internal/model"
	"github.com/rajveermakkar/justBet-api/internal/repository"
	"github.com/rajveermakkar/justBet-api/internal/repository/memstore"
)

func liveAuction() model.Auction {
	return model.Auction{
		Title:                    "charity gala lot",
		StartingPrice:            money("100"),
		CurrentPrice:             money("100"),
		EndTime:                  time.Now().UTC().Add(time.Hour),
		Status:                   model.AuctionStatusActive,
		SellerID:                 1,
		Type:                     model.AuctionTypeLive,
		MinimumBidIncrement:      money("1"),
		MinimumWalletBalance:     money("50"),
		MinimumBidAmount:         money("100"),
		LiveAuctionFeePercentage: money("20"),
		BuyerPremiumPercentage:   money("5"),
	}
}

func TestValidateWithoutTicket(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(liveAuction())
	store.SeedWallet(2, money("200"))

	g := NewTicketGate(store, platformUser, money("5"), testLogger())
	res, err := g.Validate(context.Background(), a.ID, 2)
	require.NoError(t, err)
	assert.False(t, res.Eligible)
	assert.Equal(t, "no active ticket found", res.Reason)
}

func TestValidateOnSettledAuction(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(settledAuction("100"))

	g := NewTicketGate(store, platformUser, money("5"), testLogger())
	res, err := g.Validate(context.Background(), a.ID, 2)
	require.NoError(t, err)
	assert.False(t, res.Eligible)
	assert.Equal(t, "live auction not found", res.Reason)
}

func TestIssueThenValidate(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(liveAuction())
	store.SeedWallet(2, money("200"))

	g := NewTicketGate(store, platformUser, money("5"), testLogger())
	ctx := context.Background()
	tk, err := g.Issue(ctx, a.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, model.TicketActive, tk.Status)

	res, err := g.Validate(ctx, a.ID, 2)
	require.NoError(t, err)
	assert.True(t, res.Eligible)
}

func TestIssueChargesTicketFee(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(liveAuction())
	store.SeedWallet(2, money("200"))

	g := NewTicketGate(store, platformUser, money("5"), testLogger())
	_, err := g.Issue(context.Background(), a.ID, 2)
	require.NoError(t, err)

	assert.True(t, store.WalletOf(2).Balance.Equal(money("195")))
	assert.True(t, store.WalletOf(platformUser).Balance.Equal(money("5")))
	require.Len(t, store.TicketFees, 1)
	assert.True(t, store.TicketFees[0].Amount.Equal(money("5")))
}

func TestIssueRejectsDuplicate(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(liveAuction())
	store.SeedWallet(2, money("200"))

	g := NewTicketGate(store, platformUser, money("5"), testLogger())
	ctx := context.Background()
	_, err := g.Issue(ctx, a.ID, 2)
	require.NoError(t, err)
	_, err = g.Issue(ctx, a.ID, 2)
	require.ErrorIs(t, err, repository.ErrDuplicateTicket)
	assert.True(t, store.WalletOf(2).Balance.Equal(money("195")), "the duplicate attempt must not charge again")
}

func TestIssueRejectsSettledAuction(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(settledAuction("100"))
	store.SeedWallet(2, money("200"))

	g := NewTicketGate(store, platformUser, money("5"), testLogger())
	_, err := g.Issue(context.Background(), a.ID, 2)
	require.ErrorIs(t, err, ErrNotLiveAuction)
}

func TestIssueRejectsLowBalance(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(liveAuction())
	store.SeedWallet(2, money("40")) // below the 50 floor

	g := NewTicketGate(store, platformUser, money("5"), testLogger())
	_, err := g.Issue(context.Background(), a.ID, 2)
	require.ErrorIs(t, err, repository.ErrInsufficientFunds)
	assert.Empty(t, store.Tickets)
}

func TestBidAfterTicketIssue(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(liveAuction())
	store.SeedWallet(2, money("500"))

	g := NewTicketGate(store, platformUser, money("5"), testLogger())
	e := NewBidEngine(store, nil, nil, testLogger())
	ctx := context.Background()

	_, err := e.PlaceBid(ctx, a.ID, 2, money("105"))
	require.ErrorIs(t, err, ErrTicketRequired)

	_, err = g.Issue(ctx, a.ID, 2)
	require.NoError(t, err)

	res, err := e.PlaceBid(ctx, a.ID, 2, money("105"))
	require.NoError(t, err)
	assert.True(t, res.TotalCost.Equal(money("110.25")))
}
