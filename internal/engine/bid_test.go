package engine

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajveermakkar/justBet-api/internal/model"
	"github.com/rajveermakkar/justBet-api/internal/repository"
	"github.com/rajveermakkar/justBet-api/internal/repository/memstore"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// recordingChannel captures live events for assertions.
type recordingChannel struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingChannel) Publish(ctx context.Context, room, event string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// recordingNotifier captures out-of-band notification calls.
type recordingNotifier struct {
	mu        sync.Mutex
	created   []uint64
	outbid    []uint64
	ended     []uint64
	soon      []uint64
}

func (r *recordingNotifier) AuctionCreated(ctx context.Context, a *model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, a.ID)
	return nil
}

func (r *recordingNotifier) Outbid(ctx context.Context, userID, auctionID uint64, refunded decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outbid = append(r.outbid, userID)
	return nil
}

func (r *recordingNotifier) AuctionEnded(ctx context.Context, auctionID, winnerID uint64, finalPrice decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = append(r.ended, auctionID)
	return nil
}

func (r *recordingNotifier) EndingSoon(ctx context.Context, a *model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.soon = append(r.soon, a.ID)
	return nil
}

func settledAuction(price string) model.Auction {
	return model.Auction{
		Title:                  "vintage watch",
		StartingPrice:          money(price),
		CurrentPrice:           money(price),
		EndTime:                time.Now().UTC().Add(time.Hour),
		Status:                 model.AuctionStatusActive,
		SellerID:               1,
		Type:                   model.AuctionTypeSettled,
		MinimumBidIncrement:    money("1"),
		PlatformFeePercentage:  money("10"),
		BuyerPremiumPercentage: money("5"),
	}
}

func TestPlaceBidRejectsBelowIncrement(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(settledAuction("100"))
	store.SeedWallet(2, money("500"))

	e := NewBidEngine(store, nil, nil, testLogger())
	_, err := e.PlaceBid(context.Background(), a.ID, 2, money("100"))
	require.ErrorIs(t, err, ErrBelowIncrement)
	assert.Empty(t, store.Bids)
	assert.True(t, store.WalletOf(2).Balance.Equal(money("500")))
}

func TestPlaceBidRejectsInsufficientFunds(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(settledAuction("100"))
	// 105 + 5% premium = 110.25, just above the balance
	store.SeedWallet(2, money("110"))

	e := NewBidEngine(store, nil, nil, testLogger())
	_, err := e.PlaceBid(context.Background(), a.ID, 2, money("105"))
	require.ErrorIs(t, err, repository.ErrInsufficientFunds)
	assert.Empty(t, store.Bids)
	assert.True(t, store.WalletOf(2).Balance.Equal(money("110")), "failed bid must not touch the balance")
}

func TestPlaceBidDebitsTotalCost(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(settledAuction("100"))
	store.SeedWallet(2, money("200"))

	e := NewBidEngine(store, nil, nil, testLogger())
	res, err := e.PlaceBid(context.Background(), a.ID, 2, money("105"))
	require.NoError(t, err)

	assert.True(t, res.TotalCost.Equal(money("110.25")))
	assert.True(t, res.BuyerPremium.Equal(money("5.25")))
	assert.True(t, store.WalletOf(2).Balance.Equal(money("89.75")))

	got := store.Auction(a.ID)
	assert.True(t, got.CurrentPrice.Equal(money("105")))
	require.NotNil(t, got.CurrentBidderID)
	assert.Equal(t, uint64(2), *got.CurrentBidderID)

	require.Len(t, store.Bids, 1)
	assert.True(t, store.Bids[0].Amount.Equal(money("105")))
	assert.NotZero(t, store.Bids[0].WalletTransactionID)
}

func TestPlaceBidRefundsPreviousLeader(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(settledAuction("100"))
	store.SeedWallet(2, money("200"))
	store.SeedWallet(3, money("200"))
	notif := &recordingNotifier{}

	e := NewBidEngine(store, nil, notif, testLogger())
	ctx := context.Background()
	_, err := e.PlaceBid(ctx, a.ID, 2, money("110"))
	require.NoError(t, err)
	_, err = e.PlaceBid(ctx, a.ID, 3, money("115"))
	require.NoError(t, err)

	// the outbid leader gets back exactly what was locked: 110 + 5.50
	assert.True(t, store.WalletOf(2).Balance.Equal(money("200")))
	assert.True(t, store.WalletOf(3).Balance.Equal(money("79.25")))
	assert.Equal(t, []uint64{2}, notif.outbid)

	got := store.Auction(a.ID)
	assert.True(t, got.CurrentPrice.Equal(money("115")))
}

func TestPlaceBidConcurrentLocksFundsForOneLeaderOnly(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(settledAuction("100"))
	store.SeedWallet(2, money("500"))
	store.SeedWallet(3, money("500"))

	e := NewBidEngine(store, nil, nil, testLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	amounts := []decimal.Decimal{money("110"), money("115")}
	for i, bidder := range []uint64{2, 3} {
		wg.Add(1)
		go func(i int, bidder uint64) {
			defer wg.Done()
			_, errs[i] = e.PlaceBid(ctx, a.ID, bidder, amounts[i])
		}(i, bidder)
	}
	wg.Wait()

	got := store.Auction(a.ID)
	require.NotNil(t, got.CurrentBidderID)
	leader := *got.CurrentBidderID

	// Whatever the interleaving, only the current leader's funds stay
	// locked; the other bidder holds their full starting balance again.
	locked := totalCost(got.CurrentPrice, got.BuyerPremiumPercentage)
	for _, bidder := range []uint64{2, 3} {
		balance := store.WalletOf(bidder).Balance
		if bidder == leader {
			assert.True(t, balance.Equal(money("500").Sub(locked)))
		} else {
			assert.True(t, balance.Equal(money("500")))
		}
	}
	// 115 always wins when both succeed; when the 110 bid lost the race
	// against the already-higher price it was rejected instead.
	if errs[0] == nil && errs[1] == nil {
		assert.True(t, got.CurrentPrice.Equal(money("115")))
	}
}

func TestPlaceBidRetriesOnStaleState(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(settledAuction("100"))
	store.SeedWallet(2, money("500"))
	store.StalePriceUpdates = 1

	e := NewBidEngine(store, nil, nil, testLogger())
	res, err := e.PlaceBid(context.Background(), a.ID, 2, money("105"))
	require.NoError(t, err, "a single conflict must be absorbed by a retry")
	assert.True(t, res.Bid.Amount.Equal(money("105")))
	require.Len(t, store.Bids, 1, "the rolled-back attempt must leave no bid behind")
}

func TestPlaceBidGivesUpAfterRepeatedConflicts(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(settledAuction("100"))
	store.SeedWallet(2, money("500"))
	store.StalePriceUpdates = casRetries

	e := NewBidEngine(store, nil, nil, testLogger())
	_, err := e.PlaceBid(context.Background(), a.ID, 2, money("105"))
	require.ErrorIs(t, err, ErrConcurrentBid)
	assert.Empty(t, store.Bids)
	assert.True(t, store.WalletOf(2).Balance.Equal(money("500")))
}

func TestPlaceBidRejectsEndedAuction(t *testing.T) {
	store := memstore.New()
	a := settledAuction("100")
	a.EndTime = time.Now().UTC().Add(-time.Minute)
	seeded := store.SeedAuction(a)
	store.SeedWallet(2, money("500"))

	e := NewBidEngine(store, nil, nil, testLogger())
	_, err := e.PlaceBid(context.Background(), seeded.ID, 2, money("105"))
	require.ErrorIs(t, err, ErrAuctionEnded)
}

func TestPlaceBidRequiresTicketOnLiveAuction(t *testing.T) {
	store := memstore.New()
	a := settledAuction("100")
	a.Type = model.AuctionTypeLive
	a.MinimumBidAmount = money("100")
	a.MinimumWalletBalance = money("50")
	seeded := store.SeedAuction(a)
	store.SeedWallet(2, money("500"))

	e := NewBidEngine(store, nil, nil, testLogger())
	_, err := e.PlaceBid(context.Background(), seeded.ID, 2, money("105"))
	require.ErrorIs(t, err, ErrTicketRequired)
}

func TestPlaceBidExtendsLiveAuctionNearClose(t *testing.T) {
	store := memstore.New()
	a := settledAuction("100")
	a.Type = model.AuctionTypeLive
	a.MinimumBidAmount = money("100")
	a.TimeExtension = 30
	a.EndTime = time.Now().UTC().Add(10 * time.Second)
	originalEnd := a.EndTime
	seeded := store.SeedAuction(a)
	store.SeedWallet(2, money("500"))
	store.Tickets = append(store.Tickets, model.AuctionTicket{
		ID: 99, AuctionID: seeded.ID, UserID: 2, Status: model.TicketActive,
	})
	channel := &recordingChannel{}

	e := NewBidEngine(store, channel, nil, testLogger())
	res, err := e.PlaceBid(context.Background(), seeded.ID, 2, money("105"))
	require.NoError(t, err)

	assert.True(t, res.Extended)
	got := store.Auction(seeded.ID)
	assert.True(t, got.EndTime.After(originalEnd), "extension must be persisted")
	// the seeded value is detached from store state, so it still carries
	// the pre-bid end time
	assert.True(t, seeded.EndTime.Equal(originalEnd))
	assert.Contains(t, channel.events, EventNewBid)
	assert.Contains(t, channel.events, EventTimeExtended)
}

func TestPlaceBidRejectsNonPositiveAmount(t *testing.T) {
	store := memstore.New()
	e := NewBidEngine(store, nil, nil, testLogger())
	_, err := e.PlaceBid(context.Background(), 1, 2, money("0"))
	require.ErrorIs(t, err, ErrInvalidAmount)
}
