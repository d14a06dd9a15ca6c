// Package csvsource streams transaction records out of a CSV file
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/transaction-ledger/internal/domain/shared"
)

// ErrMissingColumn is returned when the header lacks a required column
var ErrMissingColumn = errors.New("csv header is missing a required column")

const (
	columnType   = "type"
	columnClient = "client"
	columnTx     = "tx"
	columnAmount = "amount"
)

// Reader reads records lazily from a CSV stream with a `type,client,tx,amount` header.
// Column order is taken from the header; the amount column may be absent or empty.
type Reader struct {
	name   string
	r      io.Reader
	closer io.Closer
	logger *slog.Logger

	skipped int
}

// NewReader wraps r. name is used in log lines only.
func NewReader(name string, r io.Reader, logger *slog.Logger) *Reader {
	return &Reader{
		name:   name,
		r:      r,
		logger: logger.With("component", "csv_source", "source", name),
	}
}

// Open opens the file at path. The caller must Close the reader.
func Open(path string, logger *slog.Logger) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file %s: %w", path, err)
	}
	reader := NewReader(path, file, logger)
	reader.closer = file
	return reader, nil
}

// Close releases the underlying file, if any
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Skipped returns the number of rows dropped because they could not be parsed
func (r *Reader) Skipped() int {
	return r.skipped
}

// Stream sends every parsable row to out in file order. Unparsable rows are logged and
// skipped; only a missing header or an I/O failure ends the stream with an error.
// Stream does not close out.
func (r *Reader) Stream(ctx context.Context, out chan<- shared.RawRecord) error {
	reader := csv.NewReader(r.r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s is empty: %w", r.name, ErrMissingColumn)
		}
		return fmt.Errorf("failed to read header from %s: %w", r.name, err)
	}
	cols, err := parseHeader(header)
	if err != nil {
		return fmt.Errorf("%s: %w", r.name, err)
	}

	var sent int
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			r.logger.Info("Finished reading records", "records", sent, "skipped", r.skipped)
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.skipRow(parseErr.StartLine, err)
				continue
			}
			return fmt.Errorf("error reading record from %s: %w", r.name, err)
		}

		record, err := cols.parse(row)
		if err != nil {
			line, _ := reader.FieldPos(0)
			r.skipRow(line, err)
			continue
		}

		select {
		case out <- record:
			sent++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Reader) skipRow(line int, err error) {
	r.skipped++
	r.logger.Warn("Skipping unreadable row", "line", line, "error", err)
}

type columns struct {
	typ, client, tx, amount int
}

func parseHeader(header []string) (columns, error) {
	cols := columns{typ: -1, client: -1, tx: -1, amount: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case columnType:
			cols.typ = i
		case columnClient:
			cols.client = i
		case columnTx:
			cols.tx = i
		case columnAmount:
			cols.amount = i
		}
	}

	var missing []string
	if cols.typ < 0 {
		missing = append(missing, columnType)
	}
	if cols.client < 0 {
		missing = append(missing, columnClient)
	}
	if cols.tx < 0 {
		missing = append(missing, columnTx)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columns) parse(row []string) (shared.RawRecord, error) {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	client, err := strconv.ParseUint(field(c.client), 10, 16)
	if err != nil {
		return shared.RawRecord{}, fmt.Errorf("invalid client id %q: %w", field(c.client), err)
	}
	tx, err := strconv.ParseUint(field(c.tx), 10, 32)
	if err != nil {
		return shared.RawRecord{}, fmt.Errorf("invalid transaction id %q: %w", field(c.tx), err)
	}

	record := shared.RawRecord{
		Type:     shared.ParseCommandType(field(c.typ)),
		ClientID: shared.ClientID(client),
		TxID:     shared.TxID(tx),
	}

	if raw := field(c.amount); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return shared.RawRecord{}, fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		record.Amount = &amount
	}
	return record, nil
}
