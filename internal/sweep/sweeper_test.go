package sweep

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

	"github.com/rajveermakkar/justBet-api/internal/engine"
	"github.com/rajveermakkar/justBet-api/internal/model"
	"github.com/rajveermakkar/justBet-api/internal/repository/memstore"
)

const platformUser = uint64(1000)

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

// stubChannel records published events and payloads per auction room.
type stubChannel struct {
	mu       sync.Mutex
	events   map[string][]string
	payloads map[string][]interface{}
}

func newStubChannel() *stubChannel {
	return &stubChannel{
		events:   make(map[string][]string),
		payloads: make(map[string][]interface{}),
	}
}

func (s *stubChannel) Publish(ctx context.Context, room, event string, payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[room] = append(s.events[room], event)
	s.payloads[room] = append(s.payloads[room], payload)
	return nil
}

// stubNotifier counts notification calls.
type stubNotifier struct {
	mu    sync.Mutex
	ended []uint64
	soon  []uint64
}

func (s *stubNotifier) AuctionCreated(ctx context.Context, a *model.Auction) error { return nil }

func (s *stubNotifier) Outbid(ctx context.Context, userID, auctionID uint64, refunded decimal.Decimal) error {
	return nil
}

func (s *stubNotifier) AuctionEnded(ctx context.Context, auctionID, winnerID uint64, finalPrice decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = append(s.ended, auctionID)
	return nil
}

func (s *stubNotifier) EndingSoon(ctx context.Context, a *model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.soon = append(s.soon, a.ID)
	return nil
}

func expiredAuction(sellerID uint64) model.Auction {
	return model.Auction{
		Title:                  "estate clock",
		StartingPrice:          money("50"),
		CurrentPrice:           money("50"),
		EndTime:                time.Now().UTC().Add(-time.Minute),
		Status:                 model.AuctionStatusActive,
		SellerID:               sellerID,
		Type:                   model.AuctionTypeSettled,
		MinimumBidIncrement:    money("1"),
		PlatformFeePercentage:  money("10"),
		BuyerPremiumPercentage: money("5"),
	}
}

func newSweeper(store *memstore.Store, ch engine.LiveChannel, notif engine.Notifier) *Sweeper {
	log := testLogger()
	settle := engine.NewSettlement(store, platformUser, log)
	return New(store, settle, ch, notif, Config{}, log)
}

func TestClosePassSettlesAuctionWithBids(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(expiredAuction(1))
	store.SeedWallet(1, money("0"))
	store.SeedWallet(2, money("0"))
	store.Bids = append(store.Bids, model.Bid{
		ID: 500, AuctionID: a.ID, BidderID: 2, Amount: money("100"), CreatedAt: time.Now().UTC(),
	})
	ch := newStubChannel()
	notif := &stubNotifier{}

	s := newSweeper(store, ch, notif)
	s.ClosePass(context.Background())

	got := store.Auction(a.ID)
	assert.Equal(t, model.AuctionStatusCompleted, got.Status)
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, uint64(2), *got.WinnerID)
	require.NotNil(t, got.FinalPrice)
	assert.True(t, got.FinalPrice.Equal(money("100")))

	// settlement ran: 90 to the seller, 15 to the platform
	assert.True(t, store.WalletOf(1).Balance.Equal(money("90")))
	assert.True(t, store.WalletOf(platformUser).Balance.Equal(money("15")))

	room := engine.AuctionRoom(a.ID)
	assert.Contains(t, ch.events[room], engine.EventEnded)
	assert.Equal(t, []uint64{a.ID}, notif.ended)
}

func TestClosePassCancelsAuctionWithoutBids(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(expiredAuction(1))
	ch := newStubChannel()
	notif := &stubNotifier{}

	s := newSweeper(store, ch, notif)
	s.ClosePass(context.Background())

	assert.Equal(t, model.AuctionStatusCancelled, store.Auction(a.ID).Status)
	room := engine.AuctionRoom(a.ID)
	assert.Contains(t, ch.events[room], engine.EventCancelled)
	assert.Empty(t, notif.ended)
}

func TestClosePassIsolatesPerAuctionFailures(t *testing.T) {
	store := memstore.New()
	broken := store.SeedAuction(expiredAuction(1))
	healthy := store.SeedAuction(expiredAuction(1))
	store.SeedWallet(1, money("0"))
	store.SeedWallet(2, money("0"))
	store.Bids = append(store.Bids,
		model.Bid{ID: 500, AuctionID: broken.ID, BidderID: 2, Amount: money("100"), CreatedAt: time.Now().UTC()},
		model.Bid{ID: 501, AuctionID: healthy.ID, BidderID: 2, Amount: money("80"), CreatedAt: time.Now().UTC()},
	)
	// a pre-existing purchase row makes settlement of the first auction
	// fail its uniqueness guarantee
	store.Purchases = append(store.Purchases, model.PurchasedItem{ID: 600, AuctionID: broken.ID, BuyerID: 9})

	s := newSweeper(store, newStubChannel(), &stubNotifier{})
	s.ClosePass(context.Background())

	// the broken auction stays ended for a retry on the next pass; the
	// healthy one still settles
	assert.Equal(t, model.AuctionStatusEnded, store.Auction(broken.ID).Status)
	assert.Equal(t, model.AuctionStatusCompleted, store.Auction(healthy.ID).Status)
}

func TestClosePassRetriesFailedSettlementNextPass(t *testing.T) {
	store := memstore.New()
	a := store.SeedAuction(expiredAuction(1))
	store.SeedWallet(1, money("0"))
	store.SeedWallet(2, money("0"))
	store.Bids = append(store.Bids, model.Bid{
		ID: 500, AuctionID: a.ID, BidderID: 2, Amount: money("100"), CreatedAt: time.Now().UTC(),
	})
	blocker := model.PurchasedItem{ID: 600, AuctionID: a.ID, BuyerID: 9}
	store.Purchases = append(store.Purchases, blocker)

	s := newSweeper(store, newStubChannel(), &stubNotifier{})
	ctx := context.Background()
	s.ClosePass(ctx)
	require.Equal(t, model.AuctionStatusEnded, store.Auction(a.ID).Status)

	// clear the blocker; the next pass picks the ended auction back up
	store.Purchases = nil
	s.ClosePass(ctx)
	assert.Equal(t, model.AuctionStatusCompleted, store.Auction(a.ID).Status)
	assert.True(t, store.WalletOf(1).Balance.Equal(money("90")))
}

func TestSoonPassNotifiesEachAuctionOnce(t *testing.T) {
	store := memstore.New()
	a := expiredAuction(1)
	a.Type = model.AuctionTypeLive
	a.EndTime = time.Now().UTC().Add(10 * time.Minute)
	seeded := store.SeedAuction(a)
	ch := newStubChannel()
	notif := &stubNotifier{}

	s := newSweeper(store, ch, notif)
	ctx := context.Background()
	s.SoonPass(ctx)
	s.SoonPass(ctx)

	room := engine.AuctionRoom(seeded.ID)
	assert.Equal(t, []string{engine.EventEndingSoon}, ch.events[room])
	assert.Equal(t, []uint64{seeded.ID}, notif.soon)

	// the remaining time travels as whole milliseconds
	require.Len(t, ch.payloads[room], 1)
	ev, ok := ch.payloads[room][0].(engine.EndingSoonEvent)
	require.True(t, ok)
	assert.Greater(t, ev.TimeRemainingMs, int64(9*60*1000))
	assert.LessOrEqual(t, ev.TimeRemainingMs, int64(10*60*1000))
}

func TestSoonPassIgnoresSettledAndDistantAuctions(t *testing.T) {
	store := memstore.New()
	settled := expiredAuction(1)
	settled.EndTime = time.Now().UTC().Add(10 * time.Minute)
	store.SeedAuction(settled)
	distant := expiredAuction(1)
	distant.Type = model.AuctionTypeLive
	distant.EndTime = time.Now().UTC().Add(2 * time.Hour)
	store.SeedAuction(distant)
	notif := &stubNotifier{}

	s := newSweeper(store, newStubChannel(), notif)
	s.SoonPass(context.Background())
	assert.Empty(t, notif.soon)
}
