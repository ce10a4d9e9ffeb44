// Package memstore is an in-memory implementation of repository.Store
// for engine and sweep tests.  It reproduces the contract the engines
// rely on: serialized transactions, all-or-nothing rollback, balance
// guards on debit, and the compare-and-set price update.  A mutex
// serializes InTx calls, and a pre-transaction snapshot is restored when
// the callback fails, so a failed transaction leaves no partial state.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rajveermakkar/justBet-api/internal/model"
	"github.com/rajveermakkar/justBet-api/internal/repository"
)

// Store holds all state in maps and slices keyed like the SQL schema.
// The exported record slices let tests assert on written rows directly.
type Store struct {
	mu     sync.Mutex
	nextID uint64

	auctions     map[uint64]*model.Auction
	wallets      map[uint64]*model.Wallet
	walletByUser map[uint64]uint64
	users        map[uint64]model.User

	Transactions []model.WalletTransaction
	Bids         []model.Bid
	Tickets      []model.AuctionTicket
	Purchases    []model.PurchasedItem
	PlatformFees []model.PlatformFee
	Earnings     []model.Earning
	ListingFees  []model.ListingFee
	TicketFees   []model.TicketFee

	// StalePriceUpdates makes the next N UpdatePriceAndLeader calls fail
	// with ErrStaleAuctionState, simulating a lost race against another
	// bidder.
	StalePriceUpdates int
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		auctions:     make(map[uint64]*model.Auction),
		wallets:      make(map[uint64]*model.Wallet),
		walletByUser: make(map[uint64]uint64),
		users:        make(map[uint64]model.User),
	}
}

func (s *Store) id() uint64 {
	s.nextID++
	return s.nextID
}

// SeedAuction inserts an auction, assigning an id when unset.  The
// returned auction is a detached copy; later engine writes to the
// stored row are observed through Auction, never through this value.
func (s *Store) SeedAuction(a model.Auction) *model.Auction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	stored := a
	s.auctions[stored.ID] = &stored
	out := a
	return &out
}

// SeedWallet creates a wallet for the user with the given balance.
func (s *Store) SeedWallet(userID uint64, balance decimal.Decimal) *model.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := &model.Wallet{ID: s.id(), UserID: userID, Balance: balance}
	s.wallets[w.ID] = w
	s.walletByUser[userID] = w.ID
	return w
}

// SeedUser inserts a user row, assigning an id when unset.
func (s *Store) SeedUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = u
	return u
}

// GetUser implements repository.Store.
func (s *Store) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

// Auction returns a copy of the stored auction for assertions.
func (s *Store) Auction(id uint64) model.Auction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.auctions[id]
}

// WalletOf returns a copy of the user's wallet for assertions.
func (s *Store) WalletOf(userID uint64) model.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.wallets[s.walletByUser[userID]]
}

type snapshot struct {
	nextID       uint64
	auctions     map[uint64]model.Auction
	wallets      map[uint64]model.Wallet
	walletByUser map[uint64]uint64
	transactions []model.WalletTransaction
	bids         []model.Bid
	tickets      []model.AuctionTicket
	purchases    []model.PurchasedItem
	platformFees []model.PlatformFee
	earnings     []model.Earning
	listingFees  []model.ListingFee
	ticketFees   []model.TicketFee
}

func (s *Store) snapshot() snapshot {
	sn := snapshot{
		nextID:       s.nextID,
		auctions:     make(map[uint64]model.Auction, len(s.auctions)),
		wallets:      make(map[uint64]model.Wallet, len(s.wallets)),
		walletByUser: make(map[uint64]uint64, len(s.walletByUser)),
		transactions: append([]model.WalletTransaction(nil), s.Transactions...),
		bids:         append([]model.Bid(nil), s.Bids...),
		tickets:      append([]model.AuctionTicket(nil), s.Tickets...),
		purchases:    append([]model.PurchasedItem(nil), s.Purchases...),
		platformFees: append([]model.PlatformFee(nil), s.PlatformFees...),
		earnings:     append([]model.Earning(nil), s.Earnings...),
		listingFees:  append([]model.ListingFee(nil), s.ListingFees...),
		ticketFees:   append([]model.TicketFee(nil), s.TicketFees...),
	}
	for id, a := range s.auctions {
		sn.auctions[id] = *a
	}
	for id, w := range s.wallets {
		sn.wallets[id] = *w
	}
	for u, id := range s.walletByUser {
		sn.walletByUser[u] = id
	}
	return sn
}

func (s *Store) restore(sn snapshot) {
	s.nextID = sn.nextID
	s.auctions = make(map[uint64]*model.Auction, len(sn.auctions))
	for id := range sn.auctions {
		a := sn.auctions[id]
		s.auctions[id] = &a
	}
	s.wallets = make(map[uint64]*model.Wallet, len(sn.wallets))
	for id := range sn.wallets {
		w := sn.wallets[id]
		s.wallets[id] = &w
	}
	s.walletByUser = sn.walletByUser
	s.Transactions = sn.transactions
	s.Bids = sn.bids
	s.Tickets = sn.tickets
	s.Purchases = sn.purchases
	s.PlatformFees = sn.platformFees
	s.Earnings = sn.earnings
	s.ListingFees = sn.listingFees
	s.TicketFees = sn.ticketFees
}

// InTx implements repository.Store.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}

// GetAuction implements repository.Store.
func (s *Store) GetAuction(ctx context.Context, id uint64) (*model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[id]
	if !ok {
		return nil, repository.ErrAuctionNotFound
	}
	cp := *a
	return &cp, nil
}

// ListAuctions implements repository.Store.
func (s *Store) ListAuctions(ctx context.Context, f repository.AuctionFilter) ([]model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Auction
	for _, a := range s.auctions {
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.SellerID != 0 && a.SellerID != f.SellerID {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ListExpiredActive implements repository.Store.
func (s *Store) ListExpiredActive(ctx context.Context, now time.Time) ([]model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Auction
	for _, a := range s.auctions {
		if a.Status == model.AuctionStatusActive && !a.EndTime.After(now) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

// ListEndingSoonLive implements repository.Store.
func (s *Store) ListEndingSoonLive(ctx context.Context, now time.Time, within time.Duration) ([]model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(within)
	var out []model.Auction
	for _, a := range s.auctions {
		if a.Status == model.AuctionStatusActive && a.Type == model.AuctionTypeLive &&
			a.EndTime.After(now) && !a.EndTime.After(cutoff) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

// ListPlatformFees implements repository.Store.
func (s *Store) ListPlatformFees(ctx context.Context) ([]model.PlatformFee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.PlatformFee(nil), s.PlatformFees...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListEarningsByUser implements repository.Store.
func (s *Store) ListEarningsByUser(ctx context.Context, userID uint64) ([]model.Earning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Earning
	for _, e := range s.Earnings {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListEndedUnsettled implements repository.Store.
func (s *Store) ListEndedUnsettled(ctx context.Context) ([]model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Auction
	for _, a := range s.auctions {
		if a.Status == model.AuctionStatusEnded {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

// GetWalletByUser implements repository.Store.
func (s *Store) GetWalletByUser(ctx context.Context, userID uint64) (*model.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.walletByUserLocked(userID)
}

func (s *Store) walletByUserLocked(userID uint64) (*model.Wallet, error) {
	id, ok := s.walletByUser[userID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	cp := *s.wallets[id]
	return &cp, nil
}

// ListTransactionsByUser implements repository.Store.
func (s *Store) ListTransactionsByUser(ctx context.Context, userID uint64) ([]model.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.walletByUser[userID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	var out []model.WalletTransaction
	for _, t := range s.Transactions {
		if t.WalletID == id {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ListBidsByAuction implements repository.Store, highest first.
func (s *Store) ListBidsByAuction(ctx context.Context, auctionID uint64) ([]model.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Bid
	for _, b := range s.Bids {
		if b.AuctionID == auctionID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount.Cmp(out[j].Amount) > 0 })
	return out, nil
}

// ListBidsByUser implements repository.Store, newest first.
func (s *Store) ListBidsByUser(ctx context.Context, userID uint64) ([]model.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Bid
	for _, b := range s.Bids {
		if b.BidderID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ListTicketsByUser implements repository.Store, newest first.
func (s *Store) ListTicketsByUser(ctx context.Context, userID uint64) ([]model.AuctionTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.AuctionTicket
	for _, t := range s.Tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ListPurchasesByBuyer implements repository.Store, newest first.
func (s *Store) ListPurchasesByBuyer(ctx context.Context, buyerID uint64) ([]model.PurchasedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PurchasedItem
	for _, p := range s.Purchases {
		if p.BuyerID == buyerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// memTx mutates the Store directly; InTx already holds the mutex and
// restores the snapshot on error.
type memTx struct {
	s *Store
}

func (t *memTx) AuctionForUpdate(ctx context.Context, id uint64) (*model.Auction, error) {
	a, ok := t.s.auctions[id]
	if !ok {
		return nil, repository.ErrAuctionNotFound
	}
	cp := *a
	return &cp, nil
}

func (t *memTx) InsertAuction(ctx context.Context, a *model.Auction) error {
	a.ID = t.s.id()
	a.CurrentPrice = a.StartingPrice
	a.Status = model.AuctionStatusActive
	cp := *a
	t.s.auctions[cp.ID] = &cp
	return nil
}

func (t *memTx) UpdatePriceAndLeader(ctx context.Context, id uint64, newPrice decimal.Decimal, bidderID uint64, expectedPrev decimal.Decimal) error {
	if t.s.StalePriceUpdates > 0 {
		t.s.StalePriceUpdates--
		return repository.ErrStaleAuctionState
	}
	a, ok := t.s.auctions[id]
	if !ok || a.Status != model.AuctionStatusActive || a.CurrentPrice.Cmp(expectedPrev) != 0 {
		return repository.ErrStaleAuctionState
	}
	a.CurrentPrice = newPrice
	a.CurrentBidderID = &bidderID
	now := time.Now().UTC()
	a.LastBidTime = &now
	return nil
}

func (t *memTx) ExtendEndTime(ctx context.Context, id uint64, newEnd time.Time) error {
	if a, ok := t.s.auctions[id]; ok {
		a.EndTime = newEnd
	}
	return nil
}

func (t *memTx) CloseAuction(ctx context.Context, id, winnerID uint64, finalPrice decimal.Decimal, at time.Time) error {
	a, ok := t.s.auctions[id]
	if !ok {
		return repository.ErrAuctionNotFound
	}
	if a.Status != model.AuctionStatusActive {
		return nil
	}
	a.Status = model.AuctionStatusEnded
	a.WinnerID = &winnerID
	a.FinalPrice = &finalPrice
	a.SettlementTime = &at
	return nil
}

func (t *memTx) MarkUnsold(ctx context.Context, id uint64) error {
	if a, ok := t.s.auctions[id]; ok {
		if a.Status == model.AuctionStatusActive || a.Status == model.AuctionStatusEnded {
			a.Status = model.AuctionStatusUnsold
		}
	}
	return nil
}

func (t *memTx) MarkCancelled(ctx context.Context, id uint64) error {
	if a, ok := t.s.auctions[id]; ok && a.Status == model.AuctionStatusActive {
		a.Status = model.AuctionStatusCancelled
	}
	return nil
}

func (t *memTx) MarkCompleted(ctx context.Context, id uint64) error {
	if a, ok := t.s.auctions[id]; ok && a.Status == model.AuctionStatusEnded {
		a.Status = model.AuctionStatusCompleted
	}
	return nil
}

func (t *memTx) WalletForUpdate(ctx context.Context, userID uint64) (*model.Wallet, error) {
	id, ok := t.s.walletByUser[userID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	cp := *t.s.wallets[id]
	return &cp, nil
}

func (t *memTx) EnsureWallet(ctx context.Context, userID uint64) (*model.Wallet, error) {
	if id, ok := t.s.walletByUser[userID]; ok {
		cp := *t.s.wallets[id]
		return &cp, nil
	}
	w := &model.Wallet{ID: t.s.id(), UserID: userID}
	t.s.wallets[w.ID] = w
	t.s.walletByUser[userID] = w.ID
	cp := *w
	return &cp, nil
}

func (t *memTx) Credit(ctx context.Context, walletID uint64, amount decimal.Decimal, kind model.TransactionKind, status model.TransactionStatus, description string) (uint64, error) {
	w, ok := t.s.wallets[walletID]
	if !ok {
		return 0, repository.ErrWalletNotFound
	}
	w.Balance = w.Balance.Add(amount)
	return t.insertTransaction(walletID, amount, kind, status, description), nil
}

func (t *memTx) Debit(ctx context.Context, walletID uint64, amount decimal.Decimal, kind model.TransactionKind, status model.TransactionStatus, description string) (uint64, error) {
	w, ok := t.s.wallets[walletID]
	if !ok {
		return 0, repository.ErrWalletNotFound
	}
	if w.Balance.Cmp(amount) < 0 {
		return 0, repository.ErrInsufficientFunds
	}
	w.Balance = w.Balance.Sub(amount)
	return t.insertTransaction(walletID, amount, kind, status, description), nil
}

func (t *memTx) RecordPending(ctx context.Context, walletID uint64, amount decimal.Decimal, kind model.TransactionKind, description string) (uint64, error) {
	return t.insertTransaction(walletID, amount, kind, model.TransactionPending, description), nil
}

func (t *memTx) CompleteOldestPendingDeposit(ctx context.Context, walletID uint64) (*model.WalletTransaction, error) {
	for i := range t.s.Transactions {
		wt := &t.s.Transactions[i]
		if wt.WalletID == walletID && wt.Kind == model.TransactionDeposit && wt.Status == model.TransactionPending {
			wt.Status = model.TransactionCompleted
			cp := *wt
			return &cp, nil
		}
	}
	return nil, repository.ErrNoPendingDeposit
}

func (t *memTx) AddBalance(ctx context.Context, walletID uint64, amount decimal.Decimal) error {
	w, ok := t.s.wallets[walletID]
	if !ok {
		return repository.ErrWalletNotFound
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

func (t *memTx) AddEarnings(ctx context.Context, walletID uint64, amount decimal.Decimal) error {
	w, ok := t.s.wallets[walletID]
	if !ok {
		return repository.ErrWalletNotFound
	}
	w.PendingEarnings = w.PendingEarnings.Add(amount)
	w.TotalEarnings = w.TotalEarnings.Add(amount)
	return nil
}

func (t *memTx) insertTransaction(walletID uint64, amount decimal.Decimal, kind model.TransactionKind, status model.TransactionStatus, description string) uint64 {
	wt := model.WalletTransaction{
		ID:          t.s.id(),
		WalletID:    walletID,
		Kind:        kind,
		Amount:      amount,
		Status:      status,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	t.s.Transactions = append(t.s.Transactions, wt)
	return wt.ID
}

func (t *memTx) InsertBid(ctx context.Context, b *model.Bid) error {
	b.ID = t.s.id()
	t.s.Bids = append(t.s.Bids, *b)
	return nil
}

func (t *memTx) HighestBid(ctx context.Context, auctionID uint64) (*model.Bid, error) {
	var top *model.Bid
	for i := range t.s.Bids {
		b := &t.s.Bids[i]
		if b.AuctionID != auctionID {
			continue
		}
		if top == nil || b.Amount.Cmp(top.Amount) > 0 {
			top = b
		}
	}
	if top == nil {
		return nil, repository.ErrNoBids
	}
	cp := *top
	return &cp, nil
}

func (t *memTx) HasTicket(ctx context.Context, auctionID, userID uint64) (bool, error) {
	for _, tk := range t.s.Tickets {
		if tk.AuctionID == auctionID && tk.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) HasActiveTicket(ctx context.Context, auctionID, userID uint64) (bool, error) {
	for _, tk := range t.s.Tickets {
		if tk.AuctionID == auctionID && tk.UserID == userID && tk.Status == model.TicketActive {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertTicket(ctx context.Context, tk *model.AuctionTicket) error {
	tk.ID = t.s.id()
	t.s.Tickets = append(t.s.Tickets, *tk)
	return nil
}

func (t *memTx) InsertPurchasedItem(ctx context.Context, p *model.PurchasedItem) error {
	for _, existing := range t.s.Purchases {
		if existing.AuctionID == p.AuctionID {
			return errors.New("duplicate purchased item for auction")
		}
	}
	p.ID = t.s.id()
	t.s.Purchases = append(t.s.Purchases, *p)
	return nil
}

func (t *memTx) InsertPlatformFee(ctx context.Context, auctionID uint64, amount decimal.Decimal) error {
	t.s.PlatformFees = append(t.s.PlatformFees, model.PlatformFee{
		ID: t.s.id(), AuctionID: auctionID, Amount: amount, Status: model.FeeSettled,
	})
	return nil
}

func (t *memTx) InsertEarning(ctx context.Context, userID, auctionID uint64, amount decimal.Decimal, typ model.EarningType) error {
	t.s.Earnings = append(t.s.Earnings, model.Earning{
		ID: t.s.id(), UserID: userID, AuctionID: auctionID, Amount: amount, Type: typ, Status: model.FeeSettled,
	})
	return nil
}

func (t *memTx) InsertListingFee(ctx context.Context, auctionID uint64, amount decimal.Decimal) error {
	t.s.ListingFees = append(t.s.ListingFees, model.ListingFee{
		ID: t.s.id(), AuctionID: auctionID, Amount: amount, Status: model.FeeSettled,
	})
	return nil
}

func (t *memTx) InsertTicketFee(ctx context.Context, auctionID, userID uint64, amount decimal.Decimal) error {
	t.s.TicketFees = append(t.s.TicketFees, model.TicketFee{
		ID: t.s.id(), AuctionID: auctionID, UserID: userID, Amount: amount, Status: model.FeeSettled,
	})
	return nil
}
