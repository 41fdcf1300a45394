package cryptofolio

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS positions (
  seq INTEGER PRIMARY KEY,
  ticker TEXT NOT NULL,
  quantity TEXT NOT NULL,
  buy_price TEXT NOT NULL,
  current_price TEXT NOT NULL,
  pnl TEXT NOT NULL
);`

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// loadSQLite reads the positions table in seq order. A zero length file is an
// empty ledger, any other file must contain the table.
func loadSQLite(path string) (*Ledger, error) {
	if fi, err := os.Stat(path); err == nil && fi.Size() == 0 {
		return NewLedger(), nil
	}
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT ticker, quantity, buy_price, current_price, pnl FROM positions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := NewLedger()
	for rows.Next() {
		var sp storedPosition
		if err := rows.Scan(&sp.Ticker, &sp.Quantity, &sp.BuyPrice, &sp.CurrentPrice, &sp.PNL); err != nil {
			return nil, err
		}
		p, err := sp.position()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", ledger.Len()+1, err)
		}
		ledger.Append(p)
	}
	return ledger, rows.Err()
}

// saveSQLite replaces all rows of the positions table in a single transaction.
func saveSQLite(path string, ledger *Ledger) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("cannot create positions table: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM positions`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO positions (seq, ticker, quantity, buy_price, current_price, pnl) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range ledger.Positions() {
		if _, err := stmt.Exec(i, p.Ticker, p.Quantity.String(), p.BuyPrice.String(), p.CurrentPrice.String(), p.PNL.String()); err != nil {
			return fmt.Errorf("cannot insert position %q: %w", p.Ticker, err)
		}
	}
	return tx.Commit()
}
