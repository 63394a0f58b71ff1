package worker

import (
	"context"
	"fmt"

	"github.com/kondetiramya/AccountingTestProject/internal/amqp"
	applog "github.com/kondetiramya/AccountingTestProject/internal/log"
	"github.com/kondetiramya/AccountingTestProject/internal/services"
)

// ResultPublisher sends answered requests back to the broker.
type ResultPublisher interface {
	PublishResult(ctx context.Context, res *amqp.ReportResult) error
}

// ReportWorker answers report requests consumed from AMQP
type ReportWorker struct {
	reports   *services.ReportService
	publisher ResultPublisher
}

func NewReportWorker(reports *services.ReportService, publisher ResultPublisher) *ReportWorker {
	return &ReportWorker{
		reports:   reports,
		publisher: publisher,
	}
}

// HandleRequest runs the query named by req.Kind. An unknown kind yields a
// result carrying the error text. A returned error means the invoice source
// could not be read and the request should be retried.
func (w *ReportWorker) HandleRequest(ctx context.Context, req *amqp.ReportRequest) (*amqp.ReportResult, error) {
	logger := requestLogger(ctx, req)
	logger.InfoContext(ctx, "Processing report request")

	res := amqp.NewReportResult(req)

	switch req.Kind {
	case amqp.KindTotal:
		total, found, err := w.reports.Total(ctx, req.InvoiceID)
		if err != nil {
			return nil, fmt.Errorf("total of invoice %d: %w", req.InvoiceID, err)
		}
		res.Found = found
		if found {
			res.Total = &total
		}

	case amqp.KindUnpaid:
		total, err := w.reports.TotalOfUnpaid(ctx)
		if err != nil {
			return nil, fmt.Errorf("total of unpaid: %w", err)
		}
		res.Found = true
		res.Total = &total

	case amqp.KindItems:
		items, err := w.reports.ItemsReport(ctx, req.From, req.To)
		if err != nil {
			return nil, fmt.Errorf("items report: %w", err)
		}
		res.Found = true
		res.Items = items

	default:
		logger.WarnContext(ctx, "Unknown report kind")
		return res.Failed("unknown report kind %q", req.Kind), nil
	}

	return res, nil
}

// HandleMessage answers req and publishes the result. It satisfies
// amqp.RequestHandler.
func (w *ReportWorker) HandleMessage(ctx context.Context, req *amqp.ReportRequest) error {
	res, err := w.HandleRequest(ctx, req)
	if err != nil {
		return err
	}

	logger := requestLogger(ctx, req)
	if w.publisher == nil {
		logger.WarnContext(ctx, "No result publisher configured, dropping result")
		return nil
	}
	if err := w.publisher.PublishResult(ctx, res); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}

	logger.InfoContext(ctx, "Successfully answered report request", applog.FieldFound, res.Found)
	return nil
}

func requestLogger(ctx context.Context, req *amqp.ReportRequest) *applog.Logger {
	return applog.FromContext(ctx).
		WithComponent(applog.ComponentWorker).
		With(applog.FieldRequestID, req.ID.String(), applog.FieldRequestKind, string(req.Kind))
}
