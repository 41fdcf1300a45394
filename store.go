package cryptofolio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Format identifies how a ledger is persisted.
type Format int

const (
	// JSONL stores one JSON position per line. It is the default format.
	JSONL Format = iota
	// Msgpack stores the ledger as a single msgpack document.
	Msgpack
	// SQLite stores the ledger in a "positions" table.
	SQLite
)

func (f Format) String() string {
	switch f {
	case JSONL:
		return "jsonl"
	case Msgpack:
		return "msgpack"
	case SQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// FormatOf returns the format used for a file, based on its extension.
// Unknown extensions are stored as JSONL.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return Msgpack
	case ".db", ".sqlite", ".sqlite3":
		return SQLite
	default:
		return JSONL
	}
}

// LoadLedger reads the whole ledger stored at path.
//
// A missing file is an empty ledger. A file that cannot be decoded returns a
// *CorruptStoreError.
func LoadLedger(path string) (*Ledger, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("ledger file does not exist, starting with an empty ledger")
		return NewLedger(), nil
	}

	format := FormatOf(path)
	var (
		ledger *Ledger
		err    error
	)
	switch format {
	case SQLite:
		ledger, err = loadSQLite(path)
	default:
		ledger, err = loadFile(path, format)
	}
	if err != nil {
		return nil, &CorruptStoreError{Path: path, Err: err}
	}
	log.Debug().Str("path", path).Stringer("format", format).Int("positions", ledger.Len()).Msg("ledger loaded")
	return ledger, nil
}

func loadFile(path string, format Format) (*Ledger, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case Msgpack:
		return decodeMsgpack(content)
	default:
		return DecodeLedger(bytes.NewReader(content))
	}
}

// SaveLedger replaces the ledger stored at path.
//
// The write is atomic: either the new ledger is fully stored, or the previous
// file is left untouched and a *StoreWriteError is returned. The parent
// directory must exist.
func SaveLedger(path string, ledger *Ledger) error {
	format := FormatOf(path)
	var err error
	switch format {
	case SQLite:
		err = saveSQLite(path, ledger)
	case Msgpack:
		err = writeFileAtomic(path, func(w io.Writer) error { return encodeMsgpack(w, ledger) })
	default:
		err = writeFileAtomic(path, func(w io.Writer) error { return EncodeLedger(w, ledger) })
	}
	if err != nil {
		return &StoreWriteError{Path: path, Err: err}
	}
	log.Debug().Str("path", path).Stringer("format", format).Int("positions", ledger.Len()).Msg("ledger saved")
	return nil
}

// writeFileAtomic writes to a temporary file next to path and renames it over
// path once it is complete and synced.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = write(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("cannot sync %q: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("cannot close %q: %w", tmp, err)
	}
	// CreateTemp uses 0600, ledger files are readable like any other file.
	if err = os.Chmod(tmp, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// storedPosition is a position with its decimals as strings, so that binary
// stores keep every digit.
type storedPosition struct {
	Ticker       string `msgpack:"ticker"`
	Quantity     string `msgpack:"quantity"`
	BuyPrice     string `msgpack:"buy_price"`
	CurrentPrice string `msgpack:"current_price"`
	PNL          string `msgpack:"pnl"`
}

func stored(p Position) storedPosition {
	return storedPosition{
		Ticker:       p.Ticker,
		Quantity:     p.Quantity.String(),
		BuyPrice:     p.BuyPrice.String(),
		CurrentPrice: p.CurrentPrice.String(),
		PNL:          p.PNL.String(),
	}
}

func (sp storedPosition) position() (Position, error) {
	if sp.Ticker == "" {
		return Position{}, fmt.Errorf("position without ticker")
	}
	p := Position{Ticker: sp.Ticker}
	for _, f := range []struct {
		name string
		src  string
		dst  *decimal.Decimal
	}{
		{"quantity", sp.Quantity, &p.Quantity},
		{"buy_price", sp.BuyPrice, &p.BuyPrice},
		{"current_price", sp.CurrentPrice, &p.CurrentPrice},
		{"pnl", sp.PNL, &p.PNL},
	} {
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return Position{}, fmt.Errorf("%s of %q: %w", f.name, sp.Ticker, err)
		}
		*f.dst = d
	}
	return p, nil
}
