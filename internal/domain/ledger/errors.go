package ledger

import (
	"fmt"

	"github.com/transaction-ledger/internal/domain/shared"
)

// RejectionKind defines why the engine refused a command
type RejectionKind string

const (
	KindInsufficientFunds    RejectionKind = "INSUFFICIENT_FUNDS"
	KindNoSuchAccount        RejectionKind = "NO_SUCH_ACCOUNT"
	KindUnknownTransaction   RejectionKind = "UNKNOWN_TRANSACTION"
	KindAlreadyDisputed      RejectionKind = "ALREADY_DISPUTED"
	KindNotDisputed          RejectionKind = "NOT_DISPUTED"
	KindTransactionClosed    RejectionKind = "TRANSACTION_CLOSED"
	KindAccountLocked        RejectionKind = "ACCOUNT_LOCKED"
	KindDuplicateTransaction RejectionKind = "DUPLICATE_TRANSACTION"
)

var kindMessages = map[RejectionKind]string{
	KindInsufficientFunds:    "insufficient funds",
	KindNoSuchAccount:        "no such account",
	KindUnknownTransaction:   "unknown transaction",
	KindAlreadyDisputed:      "transaction already under dispute",
	KindNotDisputed:          "transaction not under dispute",
	KindTransactionClosed:    "transaction already charged back",
	KindAccountLocked:        "account is locked",
	KindDuplicateTransaction: "duplicate transaction id",
}

// Sentinels for errors.Is; they match any RejectionError of the same kind
var (
	ErrInsufficientFunds    = RejectionError{Kind: KindInsufficientFunds}
	ErrNoSuchAccount        = RejectionError{Kind: KindNoSuchAccount}
	ErrUnknownTransaction   = RejectionError{Kind: KindUnknownTransaction}
	ErrAlreadyDisputed      = RejectionError{Kind: KindAlreadyDisputed}
	ErrNotDisputed          = RejectionError{Kind: KindNotDisputed}
	ErrTransactionClosed    = RejectionError{Kind: KindTransactionClosed}
	ErrAccountLocked        = RejectionError{Kind: KindAccountLocked}
	ErrDuplicateTransaction = RejectionError{Kind: KindDuplicateTransaction}
)

// RejectionError is a recoverable, per-command validation failure.
// Rejected commands leave account state unchanged.
type RejectionError struct {
	Kind     RejectionKind
	TxID     shared.TxID
	ClientID shared.ClientID
}

func (e RejectionError) Error() string {
	msg, ok := kindMessages[e.Kind]
	if !ok {
		msg = string(e.Kind)
	}
	return fmt.Sprintf("%s: tx %d, client %d", msg, e.TxID, e.ClientID)
}

// Is implements the errors.Is interface, matching on Kind only
func (e RejectionError) Is(target error) bool {
	t, ok := target.(RejectionError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// InvariantError signals a broken contract between validation and application, e.g.
// an account that validation vouched for is missing. It is a defect, not bad input.
type InvariantError struct {
	TxID     shared.TxID
	ClientID shared.ClientID
	Detail   string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("ledger invariant violated for tx %d, client %d: %s", e.TxID, e.ClientID, e.Detail)
}
