package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajveermakkar/justBet-api/internal/model"
	"github.com/rajveermakkar/justBet-api/internal/repository"
	"github.com/rajveermakkar/justBet-api/internal/repository/memstore"
)

func TestDepositStaysPendingUntilConfirmed(t *testing.T) {
	store := memstore.New()
	s := NewWalletService(store, testLogger())
	ctx := context.Background()

	txnID, err := s.Deposit(ctx, 2, money("50"))
	require.NoError(t, err)
	assert.NotZero(t, txnID)

	// the wallet exists now but holds nothing until confirmation
	w, err := s.Wallet(ctx, 2)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(money("0")))

	wt, err := s.ConfirmDeposit(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionCompleted, wt.Status)
	assert.True(t, wt.Amount.Equal(money("50")))

	w, err = s.Wallet(ctx, 2)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(money("50")))
}

func TestConfirmDepositCompletesOldestFirst(t *testing.T) {
	store := memstore.New()
	s := NewWalletService(store, testLogger())
	ctx := context.Background()

	_, err := s.Deposit(ctx, 2, money("10"))
	require.NoError(t, err)
	_, err = s.Deposit(ctx, 2, money("20"))
	require.NoError(t, err)

	wt, err := s.ConfirmDeposit(ctx, 2)
	require.NoError(t, err)
	assert.True(t, wt.Amount.Equal(money("10")))
}

func TestConfirmDepositWithoutPending(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(2, money("100"))
	s := NewWalletService(store, testLogger())

	_, err := s.ConfirmDeposit(context.Background(), 2)
	require.ErrorIs(t, err, repository.ErrNoPendingDeposit)
}

func TestWithdrawDebitsBalance(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(2, money("100"))
	s := NewWalletService(store, testLogger())

	_, err := s.Withdraw(context.Background(), 2, money("60"))
	require.NoError(t, err)

	w := store.WalletOf(2)
	assert.True(t, w.Balance.Equal(money("40")))

	txns, err := s.Transactions(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.TransactionWithdrawal, txns[0].Kind)
	assert.Equal(t, model.TransactionPending, txns[0].Status)
}

func TestWithdrawRejectsOverdraft(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(2, money("100"))
	s := NewWalletService(store, testLogger())

	_, err := s.Withdraw(context.Background(), 2, money("150"))
	require.ErrorIs(t, err, repository.ErrInsufficientFunds)
	assert.True(t, store.WalletOf(2).Balance.Equal(money("100")))
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	store := memstore.New()
	s := NewWalletService(store, testLogger())

	_, err := s.Deposit(context.Background(), 2, money("-5"))
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = s.Withdraw(context.Background(), 2, money("0"))
	require.ErrorIs(t, err, ErrInvalidAmount)
}
