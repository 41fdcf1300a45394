package cryptofolio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

// DecodeLedger decodes positions from a stream of JSONL data, one position per
// line, in order. Empty lines are skipped, unknown fields are rejected. Lines
// have no length limit.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	reader := bufio.NewReader(r)

	for n := 1; ; n++ {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("error reading from input: %w", readErr)
		}

		if lineBytes := bytes.TrimSpace(line); len(lineBytes) > 0 {
			p, err := decodePosition(lineBytes)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			ledger.Append(p)
		}

		if readErr == io.EOF {
			return ledger, nil
		}
	}
}

func decodePosition(line []byte) (Position, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.DisallowUnknownFields()
	var p Position
	if err := dec.Decode(&p); err != nil {
		return Position{}, fmt.Errorf("cannot decode position %q: %w", string(line), err)
	}
	if dec.More() {
		return Position{}, fmt.Errorf("trailing data after position")
	}
	if p.Ticker == "" {
		return Position{}, fmt.Errorf("position without ticker")
	}
	return p, nil
}

// EncodePosition marshals a single position to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
//
// JSON strings are UTF-8, a ticker that is not valid UTF-8 is an error
// rather than being silently altered.
func EncodePosition(w io.Writer, p Position) error {
	if !utf8.ValidString(p.Ticker) {
		return fmt.Errorf("ticker %q is not valid UTF-8", p.Ticker)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal position %q: %w", p.Ticker, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write position %q: %w", p.Ticker, err)
	}
	return nil
}

// EncodeLedger writes all positions to w in JSONL format, in ledger order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for _, p := range ledger.Positions() {
		if err := EncodePosition(w, p); err != nil {
			return err
		}
	}
	return nil
}
