package sheets

import (
	"context"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
)

// Ports for invoice sources.
type (
	// InvoiceLister returns a fully materialized snapshot of all invoices.
	InvoiceLister interface {
		ListInvoices(ctx context.Context) ([]*core.Invoice, error)
	}

	// InvoiceWriter stores invoices, e.g. during an import.
	InvoiceWriter interface {
		SaveInvoices(ctx context.Context, invoices []*core.Invoice) error
	}
)
