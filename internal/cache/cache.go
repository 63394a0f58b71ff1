package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
	"github.com/kondetiramya/AccountingTestProject/internal/sheets"
)

// Lister caches the invoice snapshot of a slower InvoiceLister for ttl.
// Cached snapshots are shared between callers and must be treated as
// read-only.
type Lister struct {
	next  sheets.InvoiceLister
	key   string
	cache *TTLCache[[]*core.Invoice]
}

var (
	_ sheets.InvoiceLister = (*Lister)(nil)
	_ sheets.InvoiceWriter = (*Writer)(nil)
	_ Cleaner              = (*Lister)(nil)
)

// NewLister wraps next. A source has exactly one snapshot, so the cache
// holds a single entry; key names the source in logs.
func NewLister(next sheets.InvoiceLister, key string, ttl time.Duration) *Lister {
	return &Lister{next: next, key: key, cache: NewTTLCache[[]*core.Invoice](1, ttl)}
}

func (l *Lister) ListInvoices(ctx context.Context) ([]*core.Invoice, error) {
	if invoices, ok := l.cache.Get(l.key); ok {
		slog.DebugContext(ctx, "Invoice snapshot cache hit", "key", l.key, "invoices", len(invoices))
		return invoices, nil
	}
	invoices, err := l.next.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	l.cache.Set(l.key, invoices)
	return invoices, nil
}

// Invalidate drops the cached snapshot.
func (l *Lister) Invalidate() {
	l.cache.Delete(l.key)
}

// Writer saves through to next and invalidates the cached snapshot of the
// same source, so the next listing sees the write.
type Writer struct {
	next   sheets.InvoiceWriter
	lister *Lister
}

func NewWriter(next sheets.InvoiceWriter, lister *Lister) *Writer {
	return &Writer{next: next, lister: lister}
}

func (w *Writer) SaveInvoices(ctx context.Context, invoices []*core.Invoice) error {
	if err := w.next.SaveInvoices(ctx, invoices); err != nil {
		return err
	}
	w.lister.Invalidate()
	slog.DebugContext(ctx, "Invoice snapshot invalidated", "key", w.lister.key, "saved", len(invoices))
	return nil
}

// CleanExpired drops expired snapshots from the underlying cache.
func (l *Lister) CleanExpired() int {
	return l.cache.CleanExpired()
}

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

// RunCleanup calls CleanExpired on every cache at interval until ctx is done.
func RunCleanup(ctx context.Context, interval time.Duration, caches ...Cleaner) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			total := 0
			for _, c := range caches {
				total += c.CleanExpired()
			}
			if total > 0 {
				slog.DebugContext(ctx, "Expired cache entries removed", "count", total)
			}
		case <-ctx.Done():
			return
		}
	}
}
