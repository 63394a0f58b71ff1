package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
	"github.com/kondetiramya/AccountingTestProject/internal/sheets"
)

type Store struct {
	mu       sync.Mutex
	invoices []*core.Invoice
}

var (
	_ sheets.InvoiceLister = (*Store)(nil)
	_ sheets.InvoiceWriter = (*Store)(nil)
)

func New(invoices ...*core.Invoice) *Store {
	s := &Store{}
	s.Add(invoices...)
	return s
}

// NewFromFile seeds the store from a JSON file. A missing file yields an
// empty store.
func NewFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	invoices, err := sheets.DecodeInvoices(f)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return New(invoices...), nil
}

// SaveInvoices appends invoices to the store.
func (s *Store) SaveInvoices(_ context.Context, invoices []*core.Invoice) error {
	s.Add(invoices...)
	return nil
}

// ListInvoices returns the stored invoices. The slice is a copy; the
// invoices themselves are shared with the store.
func (s *Store) ListInvoices(_ context.Context) ([]*core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.Invoice(nil), s.invoices...), nil
}

// Add appends invoices, ignoring nil entries.
func (s *Store) Add(invoices ...*core.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range invoices {
		if inv != nil {
			s.invoices = append(s.invoices, inv)
		}
	}
}
