package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kondetiramya/AccountingTestProject/internal/aggregator"
	"github.com/kondetiramya/AccountingTestProject/internal/core"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "db", "invoices.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	accepted := created.AddDate(0, 0, 7)
	paid := &core.Invoice{
		ID: 1, Number: "F-1", Description: "groceries", Seller: "shop", Buyer: "me",
		CreationDate: created, AcceptanceDate: &accepted,
		Items: []core.InvoiceItem{
			{Name: "eggs", Count: 10, Price: core.MustParseMoney("2.50")},
			{Name: "milk", Count: 2, Price: core.MustParseMoney("3.00")},
		},
	}
	unpaid := &core.Invoice{ID: 2, Number: "F-2", CreationDate: created.AddDate(0, 1, 0)}

	if err := repo.SaveInvoices(ctx, []*core.Invoice{paid, unpaid}); err != nil {
		t.Fatalf("SaveInvoices: %v", err)
	}

	got, err := repo.ListInvoices(ctx)
	if err != nil {
		t.Fatalf("ListInvoices: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(got))
	}

	first := got[0]
	if first.ID != 1 || first.Number != "F-1" || first.Description != "groceries" || first.Seller != "shop" || first.Buyer != "me" {
		t.Errorf("unexpected invoice fields: %+v", first)
	}
	if !first.CreationDate.Equal(created) {
		t.Errorf("creation date: got %v, want %v", first.CreationDate, created)
	}
	if first.AcceptanceDate == nil || !first.AcceptanceDate.Equal(accepted) {
		t.Errorf("acceptance date: got %v, want %v", first.AcceptanceDate, accepted)
	}
	if len(first.Items) != 2 || first.Items[0].Name != "eggs" || first.Items[1].Name != "milk" {
		t.Fatalf("unexpected items: %+v", first.Items)
	}
	if first.Items[0].Count != 10 || !first.Items[0].Price.Equal(core.MustParseMoney("2.5")) {
		t.Errorf("unexpected first item: %+v", first.Items[0])
	}

	second := got[1]
	if second.AcceptanceDate != nil {
		t.Errorf("expected unpaid invoice, got acceptance %v", second.AcceptanceDate)
	}
	if len(second.Items) != 0 {
		t.Errorf("expected no items, got %+v", second.Items)
	}
}

func TestSQLiteRepository_DuplicateInvoiceIDs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	now := time.Now()

	for i := 0; i < 2; i++ {
		inv := &core.Invoice{ID: 5, CreationDate: now, Items: []core.InvoiceItem{{Name: "x", Count: 1, Price: core.MustParseMoney("1")}}}
		if err := repo.SaveInvoice(ctx, inv); err != nil {
			t.Fatalf("SaveInvoice: %v", err)
		}
	}
	n, err := repo.CountInvoices(ctx)
	if err != nil || n != 2 {
		t.Fatalf("CountInvoices = %d, %v; want 2", n, err)
	}

	invoices, err := repo.ListInvoices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	agg, err := aggregator.New(aggregator.FromSlice(invoices))
	if err != nil {
		t.Fatal(err)
	}
	total, ok := agg.GetTotal(5)
	if !ok || !total.Equal(core.MustParseMoney("2")) {
		t.Fatalf("GetTotal = %s, %v; want 2", total, ok)
	}
}

func TestSQLiteRepository_LargePricesRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	inv := &core.Invoice{ID: 9, CreationDate: time.Now(), Items: []core.InvoiceItem{
		{Name: "max", Count: ^uint32(0), Price: core.MaxMoney},
		{Name: "tiny", Count: 1, Price: core.MustParseMoney("0.0000001")},
	}}
	if err := repo.SaveInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}
	got, err := repo.ListInvoices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	items := got[0].Items
	if items[0].Count != ^uint32(0) || !items[0].Price.Equal(core.MaxMoney) {
		t.Errorf("max item did not round trip: %+v", items[0])
	}
	if !items[1].Price.Equal(core.MustParseMoney("0.0000001")) {
		t.Errorf("tiny price did not round trip: %s", items[1].Price)
	}
}

func TestSQLiteRepository_EmptyDatabase(t *testing.T) {
	repo := newTestRepository(t)
	got, err := repo.ListInvoices(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no invoices, got %d", len(got))
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.db")
	for i := 0; i < 2; i++ {
		if err := RunMigrations(path); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}
