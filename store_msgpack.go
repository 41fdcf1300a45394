package cryptofolio

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// msgpackVersion is bumped whenever the binary layout changes.
const msgpackVersion = 1

// mpLedger is the binary layout of a ledger.
type mpLedger struct {
	Version   int              `msgpack:"version"`
	Positions []storedPosition `msgpack:"positions"`
}

func encodeMsgpack(w io.Writer, ledger *Ledger) error {
	doc := mpLedger{Version: msgpackVersion, Positions: make([]storedPosition, 0, ledger.Len())}
	for _, p := range ledger.Positions() {
		doc.Positions = append(doc.Positions, stored(p))
	}
	return msgpack.NewEncoder(w).Encode(&doc)
}

func decodeMsgpack(content []byte) (*Ledger, error) {
	ledger := NewLedger()
	if len(content) == 0 {
		return ledger, nil
	}
	var doc mpLedger
	if err := msgpack.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("cannot decode msgpack ledger: %w", err)
	}
	if doc.Version != msgpackVersion {
		return nil, fmt.Errorf("unsupported msgpack ledger version %d", doc.Version)
	}
	for i, sp := range doc.Positions {
		p, err := sp.position()
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		ledger.Append(p)
	}
	return ledger, nil
}
