package cryptofolio

import "fmt"

// CorruptStoreError is returned when a store file exists but cannot be
// decoded into a ledger.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt ledger file %q: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() error { return e.Err }

// StoreWriteError is returned when a ledger could not be saved. The previous
// content of the store is left untouched.
type StoreWriteError struct {
	Path string
	Err  error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("cannot write ledger file %q: %v", e.Path, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// QuoteLookupError is returned when the price of a ticker could not be
// obtained or understood.
type QuoteLookupError struct {
	Ticker string
	Err    error
}

func (e *QuoteLookupError) Error() string {
	return fmt.Sprintf("cannot get price for %q: %v", e.Ticker, e.Err)
}

func (e *QuoteLookupError) Unwrap() error { return e.Err }
