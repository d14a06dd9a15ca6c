package shared

import "fmt"

// RawRecord is a transaction record as delivered by a record source, before any
// field-presence checks. Amount is nil when the column was empty.
type RawRecord struct {
	Type     CommandType `json:"type"`
	ClientID ClientID    `json:"client"`
	TxID     TxID        `json:"tx"`
	Amount   *Amount     `json:"amount,omitempty"`
}

func (r RawRecord) String() string {
	if r.Amount == nil {
		return fmt.Sprintf("%s client=%d tx=%d", r.Type, r.ClientID, r.TxID)
	}
	return fmt.Sprintf("%s client=%d tx=%d amount=%v", r.Type, r.ClientID, r.TxID, *r.Amount)
}
