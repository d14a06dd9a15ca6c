// Package csvsink renders account snapshots as CSV
package csvsink

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/transaction-ledger/internal/domain/account"
	"github.com/transaction-ledger/internal/domain/shared"
)

var header = []string{"client", "available", "held", "total", "locked"}

// Sorted returns the snapshots ordered by client id
func Sorted(snapshots map[shared.ClientID]account.Snapshot) []account.Snapshot {
	out := make([]account.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b account.Snapshot) int {
		return int(a.ClientID) - int(b.ClientID)
	})
	return out
}

// Write renders one row per account after a header row
func Write(w io.Writer, snapshots map[shared.ClientID]account.Snapshot) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, s := range Sorted(snapshots) {
		row := []string{
			strconv.FormatUint(uint64(s.ClientID), 10),
			shared.FormatAmount(s.Available),
			shared.FormatAmount(s.Held),
			shared.FormatAmount(s.Total),
			strconv.FormatBool(s.Locked),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for client %d: %w", s.ClientID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv output: %w", err)
	}
	return nil
}
