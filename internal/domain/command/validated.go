package command

import "github.com/transaction-ledger/internal/domain/shared"

// Validated is a command that passed validation and carries everything needed to
// apply its effect. TargetClient is the account whose balances move.
type Validated interface {
	Type() shared.CommandType
	Transaction() shared.TxID
	TargetClient() shared.ClientID
	isValidated()
}

// ValidDeposit is an accepted Deposit
type ValidDeposit struct {
	TxID     shared.TxID
	ClientID shared.ClientID
	Amount   shared.Amount
}

// ValidWithdrawal is an accepted Withdrawal
type ValidWithdrawal struct {
	TxID     shared.TxID
	ClientID shared.ClientID
	Amount   shared.Amount
}

// Contention is shared by the dispute family. RaisingClient comes from the incoming
// record; ContendedClient and Amount come from the original deposit.
type Contention struct {
	TxID            shared.TxID
	RaisingClient   shared.ClientID
	ContendedClient shared.ClientID
	Amount          shared.Amount
}

func (c Contention) Transaction() shared.TxID      { return c.TxID }
func (c Contention) TargetClient() shared.ClientID { return c.ContendedClient }

// ValidDispute is an accepted Dispute
type ValidDispute struct{ Contention }

// ValidResolve is an accepted Resolve
type ValidResolve struct{ Contention }

// ValidChargeback is an accepted Chargeback
type ValidChargeback struct{ Contention }

func (ValidDeposit) Type() shared.CommandType    { return shared.CommandTypeDeposit }
func (ValidWithdrawal) Type() shared.CommandType { return shared.CommandTypeWithdrawal }
func (ValidDispute) Type() shared.CommandType    { return shared.CommandTypeDispute }
func (ValidResolve) Type() shared.CommandType    { return shared.CommandTypeResolve }
func (ValidChargeback) Type() shared.CommandType { return shared.CommandTypeChargeback }

func (v ValidDeposit) Transaction() shared.TxID    { return v.TxID }
func (v ValidWithdrawal) Transaction() shared.TxID { return v.TxID }

func (v ValidDeposit) TargetClient() shared.ClientID    { return v.ClientID }
func (v ValidWithdrawal) TargetClient() shared.ClientID { return v.ClientID }

func (ValidDeposit) isValidated()    {}
func (ValidWithdrawal) isValidated() {}
func (ValidDispute) isValidated()    {}
func (ValidResolve) isValidated()    {}
func (ValidChargeback) isValidated() {}
