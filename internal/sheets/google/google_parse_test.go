package google

import (
	"strings"
	"testing"
	"time"
)

func TestParseInvoices(t *testing.T) {
	values := [][]interface{}{
		{"ID", "Number", "Description", "Seller", "Buyer", "Created", "Accepted"},
		{1, "F-1", "groceries", "shop", "me", "2024-01-05", "2024-01-10"},
		{"2", "F-2", "", "shop", "you", "2024-02-05T10:00:00Z", ""},
		{"x", "F-3", "", "", "", "2024-02-06", ""},
		{"4", "F-4", "", "", "", "not a date", ""},
		{"5", "F-5", "", "", "", "2024-02-07", "someday"},
		{},
		{"6", "F-6", "", "", "", "2024-03-01 08:15:00"},
	}
	invoices, skipped, err := parseInvoices(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	if len(invoices) != 3 {
		t.Fatalf("expected 3 invoices, got %d", len(invoices))
	}
	first := invoices[0]
	if first.ID != 1 || first.Number != "F-1" || first.Seller != "shop" || first.Buyer != "me" {
		t.Errorf("unexpected first invoice: %+v", first)
	}
	if !first.CreationDate.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected creation date: %v", first.CreationDate)
	}
	if first.AcceptanceDate == nil || !first.AcceptanceDate.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected acceptance date: %v", first.AcceptanceDate)
	}
	if invoices[1].AcceptanceDate != nil {
		t.Errorf("expected second invoice unpaid")
	}
	if invoices[2].ID != 6 || invoices[2].CreationDate.Hour() != 8 {
		t.Errorf("unexpected last invoice: %+v", invoices[2])
	}
}

func TestParseInvoices_MissingHeader(t *testing.T) {
	_, _, err := parseInvoices([][]interface{}{{"Number", "Created"}})
	if err == nil || !strings.Contains(err.Error(), "need ID and Created") {
		t.Fatalf("expected header error, got %v", err)
	}
}

func TestParseInvoices_Empty(t *testing.T) {
	invoices, skipped, err := parseInvoices(nil)
	if err != nil || skipped != 0 || len(invoices) != 0 {
		t.Fatalf("unexpected result: %v %d %v", invoices, skipped, err)
	}
}

func TestAttachItems(t *testing.T) {
	invoices, _, err := parseInvoices([][]interface{}{
		{"ID", "Created"},
		{"1", "2024-01-05"},
		{"2", "2024-01-06"},
		{"1", "2024-01-07"},
	})
	if err != nil {
		t.Fatal(err)
	}
	dropped, err := attachItems(invoices, [][]interface{}{
		{"Invoice ID", "Name", "Count", "Price"},
		{"1", "eggs", "10", "2,50"},
		{"2", "milk", "2", 3.0},
		{"1", "bread", "1", "1.20"},
		{"9", "orphan", "1", "1"},
		{"2", "bad count", "-1", "1"},
		{"2", "bad price", "1", "free"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	if len(invoices[0].Items) != 2 || invoices[0].Items[0].Name != "eggs" || invoices[0].Items[1].Name != "bread" {
		t.Fatalf("unexpected items on first invoice: %+v", invoices[0].Items)
	}
	if invoices[0].Items[0].Price.String() != "2.5" || invoices[0].Items[0].Count != 10 {
		t.Errorf("unexpected eggs item: %+v", invoices[0].Items[0])
	}
	if len(invoices[1].Items) != 1 || invoices[1].Items[0].Price.String() != "3" {
		t.Errorf("unexpected items on second invoice: %+v", invoices[1].Items)
	}
	if len(invoices[2].Items) != 0 {
		t.Errorf("duplicate id should not receive items: %+v", invoices[2].Items)
	}
}

func TestAttachItems_MissingHeader(t *testing.T) {
	_, err := attachItems(nil, [][]interface{}{{"Invoice ID", "Name"}})
	if err == nil {
		t.Fatal("expected header error")
	}
}
