package billing

import (
	"context"
	"fmt"
	"sync"
)

// InvoiceNumberAllocator issues globally unique, strictly increasing invoice
// numbers. Allocation must be atomic with persisting the invoice: the
// production implementation increments a counter row inside the same database
// transaction that inserts the invoice, so a rolled-back run leaks no number.
type InvoiceNumberAllocator interface {
	Next(ctx context.Context) (int64, error)
}

// SequenceAllocator is the in-memory implementation, for embedded storage and
// tests. A plain mutex guards the counter; never read-then-write unguarded.
type SequenceAllocator struct {
	mu   sync.Mutex
	last int64
}

func NewSequenceAllocator(start int64) *SequenceAllocator {
	return &SequenceAllocator{last: start}
}

func (a *SequenceAllocator) Next(ctx context.Context) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last++
	return a.last, nil
}

// FormatInvoiceNumber renders the sequence value the way invoices display it.
func FormatInvoiceNumber(n int64) string {
	return fmt.Sprintf("INV-%06d", n)
}
