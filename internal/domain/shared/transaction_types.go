package shared

import "strings"

// ClientID identifies an account holder. The source format limits it to 16 bits.
type ClientID uint16

// TxID identifies a single deposit or withdrawal record across the whole stream
type TxID uint32

// Amount is a fixed-precision value carried as a float; four fractional digits are
// significant at the output boundary.
type Amount = float64

// CommandType defines possible transaction record types
type CommandType string

const (
	CommandTypeDeposit    CommandType = "deposit"
	CommandTypeWithdrawal CommandType = "withdrawal"
	CommandTypeDispute    CommandType = "dispute"
	CommandTypeResolve    CommandType = "resolve"
	CommandTypeChargeback CommandType = "chargeback"
	CommandTypeUnknown    CommandType = "unknown"
)

// ParseCommandType maps a raw type column onto a CommandType. Anything unrecognised
// becomes CommandTypeUnknown so the normalizer can reject it.
func ParseCommandType(raw string) CommandType {
	switch t := CommandType(strings.ToLower(strings.TrimSpace(raw))); t {
	case CommandTypeDeposit, CommandTypeWithdrawal, CommandTypeDispute, CommandTypeResolve, CommandTypeChargeback:
		return t
	default:
		return CommandTypeUnknown
	}
}

// LockReason defines why an account stopped accepting mutations
type LockReason string

const (
	LockReasonChargeback LockReason = "CHARGEBACK"
)
