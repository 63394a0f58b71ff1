package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kondetiramya/AccountingTestProject/internal/aggregator"
	"github.com/kondetiramya/AccountingTestProject/internal/core"
	applog "github.com/kondetiramya/AccountingTestProject/internal/log"
	"github.com/kondetiramya/AccountingTestProject/internal/sheets"
)

// Summary combines the unpaid total and the items report of one snapshot.
type Summary struct {
	Invoices int
	Unpaid   core.Money
	Items    core.ItemsReport
}

// ReportService loads invoice snapshots and runs aggregator queries on them.
type ReportService struct {
	lister sheets.InvoiceLister
	logger *applog.Logger
}

func NewReportService(lister sheets.InvoiceLister, logger *applog.Logger) *ReportService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ReportService{
		lister: lister,
		logger: logger.WithComponent(applog.ComponentReport),
	}
}

// Total returns the billed total for an invoice id. found is false when the
// aggregator reports no total.
func (s *ReportService) Total(ctx context.Context, invoiceID int32) (total core.Money, found bool, err error) {
	agg, _, err := s.load(ctx, applog.OpTotal)
	if err != nil {
		return core.Zero, false, err
	}
	total, found = agg.GetTotal(invoiceID)
	fields := applog.NewFields().WithOperation(applog.OpTotal).WithInvoiceID(invoiceID)
	fields[applog.FieldTotal] = total.String()
	fields[applog.FieldFound] = found
	s.logger.DebugContext(ctx, "Computed invoice total", fields.ToSlice()...)
	return total, found, nil
}

// TotalOfUnpaid returns the total of invoices without an acceptance date.
func (s *ReportService) TotalOfUnpaid(ctx context.Context) (core.Money, error) {
	agg, _, err := s.load(ctx, applog.OpTotalOfUnpaid)
	if err != nil {
		return core.Zero, err
	}
	return agg.GetTotalOfUnpaid(), nil
}

// ItemsReport returns item quantities for invoices created in [from, to].
// Either bound may be nil.
func (s *ReportService) ItemsReport(ctx context.Context, from, to *time.Time) (core.ItemsReport, error) {
	agg, _, err := s.load(ctx, applog.OpItemsReport)
	if err != nil {
		return nil, err
	}
	return agg.GetItemsReport(from, to), nil
}

// Summary runs the unpaid total and the items report concurrently over a
// single snapshot.
func (s *ReportService) Summary(ctx context.Context, from, to *time.Time) (*Summary, error) {
	agg, n, err := s.load(ctx, applog.OpSummary)
	if err != nil {
		return nil, err
	}

	out := &Summary{Invoices: n}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		out.Unpaid = agg.GetTotalOfUnpaid()
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		out.Items = agg.GetItemsReport(from, to)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return out, nil
}

func (s *ReportService) load(ctx context.Context, op string) (*aggregator.Aggregator, int, error) {
	if s.lister == nil {
		return nil, 0, errors.New("no invoice source configured")
	}
	start := time.Now()
	invoices, err := s.lister.ListInvoices(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load invoices",
			applog.NewFields().WithOperation(op).WithError(err).ToSlice()...)
		return nil, 0, fmt.Errorf("load invoices: %w", err)
	}
	agg, err := aggregator.New(aggregator.FromSlice(invoices))
	if err != nil {
		return nil, 0, err
	}
	s.logger.DebugContext(ctx, "Loaded invoice snapshot",
		applog.NewFields().
			WithOperation(op).
			WithSnapshot(len(invoices), countItems(invoices)).
			WithDuration(time.Since(start).Milliseconds()).
			ToSlice()...)
	return agg, len(invoices), nil
}

func countItems(invoices []*core.Invoice) int {
	n := 0
	for _, inv := range invoices {
		if inv != nil {
			n += len(inv.Items)
		}
	}
	return n
}
