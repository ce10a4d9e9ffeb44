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

func createInput() CreateAuctionInput {
	return CreateAuctionInput{
		Title:         "art deco lamp",
		Description:   "original shade",
		StartingPrice: money("100"),
		EndTime:       time.Now().UTC().Add(24 * time.Hour),
		Type:          model.AuctionTypeSettled,
	}
}

func TestCreateChargesListingFee(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(1, money("100"))
	notif := &recordingNotifier{}

	s := NewAuctionService(store, notif, platformUser, testLogger())
	a, err := s.Create(context.Background(), 1, createInput())
	require.NoError(t, err)

	assert.Equal(t, model.AuctionStatusActive, a.Status)
	assert.True(t, a.CurrentPrice.Equal(money("100")))
	assert.True(t, store.WalletOf(1).Balance.Equal(money("90")))
	assert.True(t, store.WalletOf(platformUser).Balance.Equal(money("10")))
	require.Len(t, store.ListingFees, 1)
	assert.Equal(t, []uint64{a.ID}, notif.created)
}

func TestCreateRollsBackWhenFeeUncovered(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(1, money("5"))

	s := NewAuctionService(store, &recordingNotifier{}, platformUser, testLogger())
	_, err := s.Create(context.Background(), 1, createInput())
	require.ErrorIs(t, err, repository.ErrInsufficientFunds)

	listed, err := store.ListAuctions(context.Background(), repository.AuctionFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed, "no listing may exist when the fee was not paid")
	assert.Empty(t, store.ListingFees)
	assert.True(t, store.WalletOf(1).Balance.Equal(money("5")))
}

func TestCreateAppliesLiveDefaults(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(1, money("100"))

	in := createInput()
	in.Type = model.AuctionTypeLive
	s := NewAuctionService(store, &recordingNotifier{}, platformUser, testLogger())
	a, err := s.Create(context.Background(), 1, in)
	require.NoError(t, err)

	assert.Equal(t, defaultTimeExtension, a.TimeExtension)
	assert.True(t, a.MinimumWalletBalance.Equal(money("50")))
	assert.True(t, a.MinimumBidAmount.Equal(money("100")), "minimum bid defaults to the starting price")
}

func TestCreateValidation(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(1, money("100"))
	s := NewAuctionService(store, &recordingNotifier{}, platformUser, testLogger())
	ctx := context.Background()

	in := createInput()
	in.Title = ""
	_, err := s.Create(ctx, 1, in)
	require.ErrorIs(t, err, ErrInvalidInput)

	in = createInput()
	in.StartingPrice = money("0")
	_, err = s.Create(ctx, 1, in)
	require.ErrorIs(t, err, ErrInvalidInput)

	in = createInput()
	in.EndTime = time.Now().UTC().Add(-time.Hour)
	_, err = s.Create(ctx, 1, in)
	require.ErrorIs(t, err, ErrInvalidInput)

	in = createInput()
	in.Type = model.AuctionTypeLive
	in.MinimumBidAmount = money("50") // below the starting price
	_, err = s.Create(ctx, 1, in)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDetailResolvesSellerUsername(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(1, money("100"))
	store.SeedUser(model.User{ID: 1, Username: "dealer_rajveer", Role: "user"})

	s := NewAuctionService(store, &recordingNotifier{}, platformUser, testLogger())
	a, err := s.Create(context.Background(), 1, createInput())
	require.NoError(t, err)

	d, err := s.Detail(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, d.Auction.ID)
	assert.Equal(t, "dealer_rajveer", d.SellerUsername)
}

func TestDetailToleratesSellerWithoutUserRow(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(1, money("100"))

	s := NewAuctionService(store, &recordingNotifier{}, platformUser, testLogger())
	a, err := s.Create(context.Background(), 1, createInput())
	require.NoError(t, err)

	d, err := s.Detail(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Empty(t, d.SellerUsername)
}
