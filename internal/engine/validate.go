package engine

import (
	"fmt"

	"github.com/transaction-ledger/internal/domain/command"
	"github.com/transaction-ledger/internal/domain/ledger"
	"github.com/transaction-ledger/internal/domain/shared"
)

// validate checks a command against the current state and resolves what it needs to
// be applied. Balances are never touched here; dispute flags and the deposit registry are.
func (e *Engine) validate(cmd command.Command) (command.Validated, error) {
	switch c := cmd.(type) {
	case command.Deposit:
		return e.validateDeposit(c)
	case command.Withdrawal:
		return e.validateWithdrawal(c)
	case command.Dispute:
		contention, rec, err := e.contend(c.TxID, c.ClientID)
		if err != nil {
			return nil, err
		}
		if err := rec.Open(c.TxID); err != nil {
			return nil, err
		}
		return command.ValidDispute{Contention: contention}, nil
	case command.Resolve:
		contention, rec, err := e.contend(c.TxID, c.ClientID)
		if err != nil {
			return nil, err
		}
		if err := rec.Release(c.TxID); err != nil {
			return nil, err
		}
		return command.ValidResolve{Contention: contention}, nil
	case command.Chargeback:
		contention, rec, err := e.contend(c.TxID, c.ClientID)
		if err != nil {
			return nil, err
		}
		if err := rec.Close(c.TxID); err != nil {
			return nil, err
		}
		return command.ValidChargeback{Contention: contention}, nil
	default:
		return nil, fmt.Errorf("unsupported command %T", cmd)
	}
}

func (e *Engine) validateDeposit(c command.Deposit) (command.Validated, error) {
	if acc, ok := e.accounts[c.ClientID]; ok && acc.IsLocked() {
		return nil, ledger.RejectionError{Kind: ledger.KindAccountLocked, TxID: c.TxID, ClientID: c.ClientID}
	}
	if _, exists := e.deposits[c.TxID]; exists {
		return nil, ledger.RejectionError{Kind: ledger.KindDuplicateTransaction, TxID: c.TxID, ClientID: c.ClientID}
	}

	e.deposits[c.TxID] = ledger.NewDepositRecord(c.ClientID, c.Amount)
	return command.ValidDeposit{TxID: c.TxID, ClientID: c.ClientID, Amount: c.Amount}, nil
}

func (e *Engine) validateWithdrawal(c command.Withdrawal) (command.Validated, error) {
	acc, ok := e.accounts[c.ClientID]
	if !ok {
		return nil, ledger.RejectionError{Kind: ledger.KindNoSuchAccount, TxID: c.TxID, ClientID: c.ClientID}
	}
	if acc.IsLocked() {
		return nil, ledger.RejectionError{Kind: ledger.KindAccountLocked, TxID: c.TxID, ClientID: c.ClientID}
	}
	if !acc.CanWithdraw(c.Amount) {
		return nil, ledger.RejectionError{Kind: ledger.KindInsufficientFunds, TxID: c.TxID, ClientID: c.ClientID}
	}

	return command.ValidWithdrawal{TxID: c.TxID, ClientID: c.ClientID, Amount: c.Amount}, nil
}

// contend looks up the referenced deposit and checks the lock on the account that owns it.
// The raising client is kept as-is; it may differ from the deposit's owner.
func (e *Engine) contend(txID shared.TxID, raising shared.ClientID) (command.Contention, *ledger.DepositRecord, error) {
	rec, ok := e.deposits[txID]
	if !ok {
		return command.Contention{}, nil, ledger.RejectionError{Kind: ledger.KindUnknownTransaction, TxID: txID, ClientID: raising}
	}
	if acc, ok := e.accounts[rec.ClientID]; ok && acc.IsLocked() {
		return command.Contention{}, nil, ledger.RejectionError{Kind: ledger.KindAccountLocked, TxID: txID, ClientID: rec.ClientID}
	}

	return command.Contention{
		TxID:            txID,
		RaisingClient:   raising,
		ContendedClient: rec.ClientID,
		Amount:          rec.Amount,
	}, rec, nil
}
