// Command invoices answers invoice total and item quantity queries against
// the configured invoice source.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/kondetiramya/AccountingTestProject/internal/amqp"
	"github.com/kondetiramya/AccountingTestProject/internal/cli"
	"github.com/kondetiramya/AccountingTestProject/internal/config"
	"github.com/kondetiramya/AccountingTestProject/internal/core"
	"github.com/kondetiramya/AccountingTestProject/internal/services"
)

const usage = `usage: invoices <command> [flags]

commands:
  total   -id N                  billed total of invoice N ("-" when absent)
  unpaid                         total of invoices without an acceptance date
  items   [-from D] [-to D]      item quantities of invoices created in [from, to]
  summary [-from D] [-to D]      unpaid total and items report of one snapshot
  request -kind K [-id N] [-from D] [-to D]
                                 publish a report request for invoices-worker

dates are YYYY-MM-DD or RFC 3339
`

var errUsage = errors.New("invalid usage")

// RequestPublisher publishes report requests to the broker.
type RequestPublisher interface {
	PublishRequest(ctx context.Context, req *amqp.ReportRequest) error
}

type app struct {
	reports   *services.ReportService
	publisher func() (RequestPublisher, func() error, error)
	out       io.Writer
	errOut    io.Writer
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLoggerTo(os.Getenv("LOG_LEVEL"), os.Stderr)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be := cli.InitBackend(ctx, logger, cfg)
	if be.Cleanup != nil {
		defer be.Cleanup()
	}

	a := &app{
		reports:   services.NewReportService(be.Lister, logger),
		publisher: amqpPublisher(cfg),
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			logger.Error("Command failed", "error", err)
		}
		if be.Cleanup != nil {
			be.Cleanup()
		}
		os.Exit(1)
	}
}

func amqpPublisher(cfg *config.Config) func() (RequestPublisher, func() error, error) {
	return func() (RequestPublisher, func() error, error) {
		if cfg.AMQPURL == "" {
			return nil, nil, errors.New("AMQP_URL is not set")
		}
		c, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRequestQueue, cfg.AMQPResultQueue)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var id invoiceID
	fs.Func("id", "invoice id (32-bit signed integer)", id.Set)
	from := fs.String("from", "", "lower creation date bound (inclusive)")
	to := fs.String("to", "", "upper creation date bound (inclusive)")
	kind := fs.String("kind", "", "report kind: total, unpaid or items")
	if err := fs.Parse(rest); err != nil {
		return errUsage
	}

	fromT, err := cli.ParseDate(*from)
	if err != nil {
		return err
	}
	toT, err := cli.ParseDate(*to)
	if err != nil {
		return err
	}

	switch cmd {
	case "total":
		if !id.set {
			fmt.Fprintln(a.errOut, "total requires -id")
			return errUsage
		}
		total, found, err := a.reports.Total(ctx, id.value)
		if err != nil {
			return err
		}
		printTotal(a.out, total, found)

	case "unpaid":
		total, err := a.reports.TotalOfUnpaid(ctx)
		if err != nil {
			return err
		}
		printTotal(a.out, total, true)

	case "items":
		report, err := a.reports.ItemsReport(ctx, fromT, toT)
		if err != nil {
			return err
		}
		printItems(a.out, report)

	case "summary":
		sum, err := a.reports.Summary(ctx, fromT, toT)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "invoices\t%d\n", sum.Invoices)
		fmt.Fprint(a.out, "unpaid\t")
		printTotal(a.out, sum.Unpaid, true)
		printItems(a.out, sum.Items)

	case "request":
		return a.request(ctx, amqp.ReportKind(*kind), id, fromT, toT)

	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}
	return nil
}

func (a *app) request(ctx context.Context, kind amqp.ReportKind, id invoiceID, from, to *time.Time) error {
	var req *amqp.ReportRequest
	switch kind {
	case amqp.KindTotal:
		if !id.set {
			fmt.Fprintln(a.errOut, "request -kind total requires -id")
			return errUsage
		}
		req = amqp.NewTotalRequest(id.value)
	case amqp.KindUnpaid:
		req = amqp.NewUnpaidRequest()
	case amqp.KindItems:
		req = amqp.NewItemsRequest(from, to)
	default:
		fmt.Fprintf(a.errOut, "unknown report kind %q\n", kind)
		return errUsage
	}

	pub, closeFn, err := a.publisher()
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	if closeFn != nil {
		defer closeFn()
	}
	if err := pub.PublishRequest(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, req.ID)
	return nil
}

// invoiceID is an -id flag value. It rejects ids outside the int32 range
// instead of narrowing them onto another invoice.
type invoiceID struct {
	value int32
	set   bool
}

func (id *invoiceID) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return fmt.Errorf("invoice id %q: must be a 32-bit integer", s)
	}
	id.value = int32(n)
	id.set = true
	return nil
}

func printTotal(w io.Writer, total core.Money, found bool) {
	if !found {
		fmt.Fprintln(w, "-")
		return
	}
	fmt.Fprintln(w, total.String())
}

func printItems(w io.Writer, report core.ItemsReport) {
	for _, row := range report.Sorted() {
		fmt.Fprintf(w, "%s\t%d\n", row.Name, row.Quantity)
	}
}
