// Package cryptofolio keeps a personal ledger of cryptocurrency purchase lots
// and computes their unrealized profit and loss (PNL) against live prices.
//
// The package is organized around three pieces:
//   - Position and Ledger: the data model, an ordered list of purchase lots
//     identified by their ticker (e.g. "BTCEUR").
//   - Ledger operations: Add, Del, Modify and List, each returning a typed
//     result that the caller renders.
//   - Persistence: LoadLedger and SaveLedger read and atomically rewrite the
//     whole ledger in a local file (JSONL, msgpack or SQLite, chosen by the
//     file extension).
//
// Prices are obtained through the Quoter interface. QuoteService is the HTTP
// implementation used by the `cf` command-line tool.
//
// The ledger is meant to be used by a single short lived process: load it,
// apply one command, save it.
package cryptofolio
