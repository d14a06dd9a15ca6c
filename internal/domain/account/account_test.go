package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transaction-ledger/internal/domain/shared"
)

func TestNewAccount(t *testing.T) {
	acc := NewAccount()
	require.NotNil(t, acc)
	assert.Zero(t, acc.Available)
	assert.Zero(t, acc.Held)
	assert.Zero(t, acc.Total())
	assert.False(t, acc.IsLocked())
}

func TestAccount_Deposit(t *testing.T) {
	acc := &Account{Available: 5, Held: 2}
	acc.Deposit(3)

	assert.Equal(t, 8.0, acc.Available)
	assert.Equal(t, 2.0, acc.Held)
	assert.Equal(t, 10.0, acc.Total())
}

func TestAccount_Withdraw(t *testing.T) {
	t.Run("SuccessfulWithdrawal", func(t *testing.T) {
		acc := &Account{Available: 5}
		require.NoError(t, acc.Withdraw(5.00))
		assert.Equal(t, 0.0, acc.Available)
	})

	t.Run("InsufficientFundsLeavesAccountUnchanged", func(t *testing.T) {
		acc := &Account{Available: 5, Held: 1}
		err := acc.Withdraw(5.01)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, 5.0, acc.Available)
		assert.Equal(t, 1.0, acc.Held)
	})
}

func TestAccount_CanWithdraw(t *testing.T) {
	acc := &Account{Available: 10}
	assert.True(t, acc.CanWithdraw(5))
	assert.True(t, acc.CanWithdraw(10))
	assert.False(t, acc.CanWithdraw(10.0001))
}

func TestAccount_FreezeAndThaw(t *testing.T) {
	acc := &Account{Available: 10}

	acc.Freeze(4)
	assert.Equal(t, 6.0, acc.Available)
	assert.Equal(t, 4.0, acc.Held)
	assert.Equal(t, 10.0, acc.Total(), "freezing must not change the total")

	acc.Thaw(4)
	assert.Equal(t, 10.0, acc.Available)
	assert.Equal(t, 0.0, acc.Held)
	assert.Equal(t, 10.0, acc.Total())
}

func TestAccount_Chargeback(t *testing.T) {
	acc := &Account{Available: 7, Held: 5}

	acc.Chargeback(5)

	assert.Equal(t, 7.0, acc.Available)
	assert.Equal(t, 0.0, acc.Held)
	assert.Equal(t, 7.0, acc.Total())
	require.True(t, acc.IsLocked())
	assert.Equal(t, shared.LockReasonChargeback, acc.Lock.Reason)
}

func TestAccount_Snapshot(t *testing.T) {
	t.Run("Unlocked", func(t *testing.T) {
		acc := &Account{Available: 5, Held: 1.5}
		s := acc.Snapshot(2)
		assert.Equal(t, Snapshot{ClientID: 2, Available: 5, Held: 1.5, Total: 6.5}, s)
	})

	t.Run("Locked", func(t *testing.T) {
		acc := &Account{Available: 7}
		acc.LockFor(shared.LockReasonChargeback)
		s := acc.Snapshot(1)
		assert.True(t, s.Locked)
		assert.Equal(t, shared.LockReasonChargeback, s.LockReason)
	})
}
