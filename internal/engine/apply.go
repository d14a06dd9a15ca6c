package engine

import (
	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/command"
	"github.com/transaction-ledger/internal/domain/ledger"
)

// apply mutates the target account of an already validated command
func (e *Engine) apply(v command.Validated) error {
	acc, err := e.resolveAccount(v)
	if err != nil {
		return err
	}

	switch c := v.(type) {
	case command.ValidDeposit:
		acc.Deposit(c.Amount)
	case command.ValidWithdrawal:
		if err := acc.Withdraw(c.Amount); err != nil {
			return ledger.InvariantError{TxID: c.TxID, ClientID: c.ClientID, Detail: "validated withdrawal could not be covered"}
		}
	case command.ValidDispute:
		acc.Freeze(c.Amount)
	case command.ValidResolve:
		acc.Thaw(c.Amount)
	case command.ValidChargeback:
		acc.Chargeback(c.Amount)
	}
	return nil
}

// resolveAccount finds the account a validated command acts on. Deposits open the
// account on first use; every other command requires it to exist already.
func (e *Engine) resolveAccount(v command.Validated) (*account.Account, error) {
	clientID := v.TargetClient()
	acc, ok := e.accounts[clientID]
	if ok {
		return acc, nil
	}
	if _, isDeposit := v.(command.ValidDeposit); !isDeposit {
		return nil, ledger.InvariantError{TxID: v.Transaction(), ClientID: clientID, Detail: "account missing for validated " + string(v.Type())}
	}

	acc = account.NewAccount()
	e.accounts[clientID] = acc
	return acc, nil
}
