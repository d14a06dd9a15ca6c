package account

import (
	"errors"

	"github.com/transaction-ledger/internal/domain/shared"
)

// ErrInsufficientFunds is returned when a withdrawal exceeds the available funds
var ErrInsufficientFunds = errors.New("insufficient funds for withdrawal")

// Lock records why an account stopped accepting balance mutations
type Lock struct {
	Reason shared.LockReason `json:"reason"`
}

// Account holds the balances of a single client.
// Total is always derived from Available and Held and never stored.
type Account struct {
	Available shared.Amount `json:"available"`
	Held      shared.Amount `json:"held"`
	Lock      *Lock         `json:"lock,omitempty"`
}

// NewAccount creates an empty, unlocked account
func NewAccount() *Account {
	return &Account{}
}

// Total returns the funds that are available or held
func (a *Account) Total() shared.Amount {
	return a.Available + a.Held
}

// IsLocked reports whether a chargeback has frozen the account
func (a *Account) IsLocked() bool {
	return a.Lock != nil
}

// CanWithdraw checks if the account has sufficient available funds for a withdrawal
func (a *Account) CanWithdraw(amount shared.Amount) bool {
	return a.Available >= amount
}

// Deposit adds the amount to the available funds
func (a *Account) Deposit(amount shared.Amount) {
	a.Available += amount
}

// Withdraw removes the amount from the available funds. Nothing changes when the
// account cannot cover it.
func (a *Account) Withdraw(amount shared.Amount) error {
	if !a.CanWithdraw(amount) {
		return ErrInsufficientFunds
	}
	a.Available -= amount
	return nil
}

// Freeze moves the amount from available to held
func (a *Account) Freeze(amount shared.Amount) {
	a.Available -= amount
	a.Held += amount
}

// Thaw moves the amount from held back to available
func (a *Account) Thaw(amount shared.Amount) {
	a.Available += amount
	a.Held -= amount
}

// Chargeback removes the held amount from the account and locks it
func (a *Account) Chargeback(amount shared.Amount) {
	a.Held -= amount
	a.LockFor(shared.LockReasonChargeback)
}

// LockFor locks the account with the given reason
func (a *Account) LockFor(reason shared.LockReason) {
	a.Lock = &Lock{Reason: reason}
}

// Snapshot is a read-only view of an account at the end of (or during) a run
type Snapshot struct {
	ClientID   shared.ClientID   `json:"client"`
	Available  shared.Amount     `json:"available"`
	Held       shared.Amount     `json:"held"`
	Total      shared.Amount     `json:"total"`
	Locked     bool              `json:"locked"`
	LockReason shared.LockReason `json:"lock_reason,omitempty"`
}

// Snapshot copies the account state for the given client
func (a *Account) Snapshot(clientID shared.ClientID) Snapshot {
	s := Snapshot{
		ClientID:  clientID,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total(),
		Locked:    a.IsLocked(),
	}
	if a.Lock != nil {
		s.LockReason = a.Lock.Reason
	}
	return s
}
