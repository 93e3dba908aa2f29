package ledger

// Metrics contadores del libro financiero.
type Metrics interface {
	// LedgerEntryCreated source: transition, sweep o manual.
	LedgerEntryCreated(source string)
}

type nopMetrics struct{}

func (nopMetrics) LedgerEntryCreated(string) {}
