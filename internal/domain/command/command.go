// Package command defines the closed set of commands accepted by the ledger engine and
// their validated counterparts.
package command

import "github.com/transaction-ledger/internal/domain/shared"

// Command is one of Deposit, Withdrawal, Dispute, Resolve or Chargeback.
// The set is closed: the unexported marker keeps other packages from adding variants.
type Command interface {
	Type() shared.CommandType
	Transaction() shared.TxID
	Client() shared.ClientID
	isCommand()
}

// Deposit credits the client's account
type Deposit struct {
	ClientID shared.ClientID
	TxID     shared.TxID
	Amount   shared.Amount
}

// Withdrawal debits the client's account
type Withdrawal struct {
	ClientID shared.ClientID
	TxID     shared.TxID
	Amount   shared.Amount
}

// Dispute claims that a previous deposit should be put on hold
type Dispute struct {
	ClientID shared.ClientID
	TxID     shared.TxID
}

// Resolve releases a dispute
type Resolve struct {
	ClientID shared.ClientID
	TxID     shared.TxID
}

// Chargeback finalizes a dispute against the depositor
type Chargeback struct {
	ClientID shared.ClientID
	TxID     shared.TxID
}

func (Deposit) Type() shared.CommandType    { return shared.CommandTypeDeposit }
func (Withdrawal) Type() shared.CommandType { return shared.CommandTypeWithdrawal }
func (Dispute) Type() shared.CommandType    { return shared.CommandTypeDispute }
func (Resolve) Type() shared.CommandType    { return shared.CommandTypeResolve }
func (Chargeback) Type() shared.CommandType { return shared.CommandTypeChargeback }

func (c Deposit) Transaction() shared.TxID    { return c.TxID }
func (c Withdrawal) Transaction() shared.TxID { return c.TxID }
func (c Dispute) Transaction() shared.TxID    { return c.TxID }
func (c Resolve) Transaction() shared.TxID    { return c.TxID }
func (c Chargeback) Transaction() shared.TxID { return c.TxID }

func (c Deposit) Client() shared.ClientID    { return c.ClientID }
func (c Withdrawal) Client() shared.ClientID { return c.ClientID }
func (c Dispute) Client() shared.ClientID    { return c.ClientID }
func (c Resolve) Client() shared.ClientID    { return c.ClientID }
func (c Chargeback) Client() shared.ClientID { return c.ClientID }

func (Deposit) isCommand()    {}
func (Withdrawal) isCommand() {}
func (Dispute) isCommand()    {}
func (Resolve) isCommand()    {}
func (Chargeback) isCommand() {}
