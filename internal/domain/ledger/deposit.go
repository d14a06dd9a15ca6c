package ledger

import "github.com/transaction-ledger/internal/domain/shared"

// DisputeState tracks where a deposit is in its dispute lifecycle
type DisputeState int

const (
	// Undisputed deposits may be disputed
	Undisputed DisputeState = iota
	// Disputed deposits have their amount held and may be resolved or charged back
	Disputed
	// ChargedBack is terminal: the deposit was reversed and cannot be reopened
	ChargedBack
)

func (s DisputeState) String() string {
	switch s {
	case Undisputed:
		return "UNDISPUTED"
	case Disputed:
		return "DISPUTED"
	case ChargedBack:
		return "CHARGED_BACK"
	default:
		return "UNKNOWN"
	}
}

// DepositRecord is retained for every applied deposit so later disputes can
// reference it. Records are never deleted.
type DepositRecord struct {
	ClientID shared.ClientID
	Amount   shared.Amount
	State    DisputeState
}

// NewDepositRecord registers a fresh, undisputed deposit
func NewDepositRecord(clientID shared.ClientID, amount shared.Amount) *DepositRecord {
	return &DepositRecord{ClientID: clientID, Amount: amount, State: Undisputed}
}

// IsUnderDispute reports whether the deposit's funds are currently held
func (d *DepositRecord) IsUnderDispute() bool {
	return d.State == Disputed
}

// Open moves Undisputed -> Disputed
func (d *DepositRecord) Open(txID shared.TxID) error {
	switch d.State {
	case Disputed:
		return RejectionError{Kind: KindAlreadyDisputed, TxID: txID, ClientID: d.ClientID}
	case ChargedBack:
		return RejectionError{Kind: KindTransactionClosed, TxID: txID, ClientID: d.ClientID}
	}
	d.State = Disputed
	return nil
}

// Release moves Disputed -> Undisputed
func (d *DepositRecord) Release(txID shared.TxID) error {
	if err := d.checkDisputed(txID); err != nil {
		return err
	}
	d.State = Undisputed
	return nil
}

// Close moves Disputed -> ChargedBack
func (d *DepositRecord) Close(txID shared.TxID) error {
	if err := d.checkDisputed(txID); err != nil {
		return err
	}
	d.State = ChargedBack
	return nil
}

func (d *DepositRecord) checkDisputed(txID shared.TxID) error {
	switch d.State {
	case Undisputed:
		return RejectionError{Kind: KindNotDisputed, TxID: txID, ClientID: d.ClientID}
	case ChargedBack:
		return RejectionError{Kind: KindTransactionClosed, TxID: txID, ClientID: d.ClientID}
	}
	return nil
}
