package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
	ports "github.com/kondetiramya/AccountingTestProject/internal/sheets"

	gsheet "google.golang.org/api/sheets/v4"
)

// Client reads invoices from a spreadsheet holding an invoices sheet and an
// items sheet. Columns are located by header name.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	invoicesSheet string
	itemsSheet    string
}

var _ ports.InvoiceLister = (*Client)(nil)

// Options configures a Client.
type Options struct {
	SpreadsheetID   string
	InvoicesSheet   string
	ItemsSheet      string
	CredentialsJSON string
	CredentialsFile string

	// OAuth user credentials, used when no service account is set.
	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenJSON  string
	OAuthTokenFile  string
}

// New creates a Sheets client authenticated with service account credentials,
// or with an OAuth client and token when no service account is configured.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, opts), nil
}

// NewWithService wraps an existing service; credentials in opts are ignored.
func NewWithService(svc *gsheet.Service, opts Options) *Client {
	invoices := strings.TrimSpace(opts.InvoicesSheet)
	if invoices == "" {
		invoices = "Invoices"
	}
	items := strings.TrimSpace(opts.ItemsSheet)
	if items == "" {
		items = "Items"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(opts.SpreadsheetID),
		invoicesSheet: invoices,
		itemsSheet:    items,
	}
}

// ListInvoices implements ports.InvoiceLister.
func (c *Client) ListInvoices(ctx context.Context) ([]*core.Invoice, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	invoiceRows, err := c.readSheet(ctx, c.invoicesSheet)
	if err != nil {
		return nil, err
	}
	itemRows, err := c.readSheet(ctx, c.itemsSheet)
	if err != nil {
		return nil, err
	}

	invoices, skipped, err := parseInvoices(invoiceRows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.invoicesSheet, err)
	}
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped unreadable invoice rows", "sheet", c.invoicesSheet, "rows", skipped)
	}

	dropped, err := attachItems(invoices, itemRows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.itemsSheet, err)
	}
	if dropped > 0 {
		slog.WarnContext(ctx, "Dropped unreadable or orphaned item rows", "sheet", c.itemsSheet, "rows", dropped)
	}

	slog.InfoContext(ctx, "Invoices loaded from Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"invoices", len(invoices))
	return invoices, nil
}

func (c *Client) readSheet(ctx context.Context, sheet string) ([][]interface{}, error) {
	rng := fmt.Sprintf("%s!A:Z", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}
