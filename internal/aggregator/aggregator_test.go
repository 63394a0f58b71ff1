package aggregator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
)

var baseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fixture builds n paid invoices with distinct ids, increasing creation dates
// and a few items each. Item names repeat across invoices.
func fixture(t *testing.T, seed uint64, n int) []*core.Invoice {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, seed))
	names := []string{"eggs", "milk", "bread", "Eggs", "butter"}
	out := make([]*core.Invoice, 0, n)
	for i := 0; i < n; i++ {
		created := baseDate.AddDate(0, 0, i*5+r.IntN(3))
		accepted := created.AddDate(0, 0, 3+r.IntN(12))
		inv := &core.Invoice{
			ID:             int32(100 + i),
			Description:    fmt.Sprintf("desc%d", i),
			Number:         fmt.Sprintf("number%d", i),
			Seller:         "seller",
			Buyer:          "buyer",
			CreationDate:   created,
			AcceptanceDate: &accepted,
		}
		for j := 0; j < 1+r.IntN(4); j++ {
			inv.Items = append(inv.Items, core.InvoiceItem{
				Name:  names[r.IntN(len(names))],
				Count: uint32(1 + r.IntN(50)),
				Price: core.NewMoney(int64(1+r.IntN(10000)), -2),
			})
		}
		out = append(out, inv)
	}
	return out
}

func newAggregator(t *testing.T, invoices []*core.Invoice) *Aggregator {
	t.Helper()
	a, err := New(FromSlice(invoices))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func subtotal(t *testing.T, inv *core.Invoice) core.Money {
	t.Helper()
	s, err := inv.Subtotal()
	if err != nil {
		t.Fatalf("subtotal: %v", err)
	}
	return s
}

func expectedReport(invoices []*core.Invoice, keep func(*core.Invoice) bool) core.ItemsReport {
	want := core.ItemsReport{}
	for _, inv := range invoices {
		if !keep(inv) {
			continue
		}
		for _, it := range inv.Items {
			want[it.Name] += int64(it.Count)
		}
	}
	return want
}

func assertReport(t *testing.T, got, want core.ItemsReport) {
	t.Helper()
	if got == nil {
		t.Fatal("report must not be nil")
	}
	if len(got) != len(want) {
		t.Fatalf("report size: got %v, want %v", got, want)
	}
	for name, q := range want {
		if got[name] != q {
			t.Fatalf("report[%q]: got %d, want %d (report %v)", name, got[name], q, got)
		}
	}
}

func TestNew_NilSequence(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestNew_NilSliceIsEmpty(t *testing.T) {
	a := newAggregator(t, nil)
	if _, ok := a.GetTotal(1); ok {
		t.Fatal("expected absent total")
	}
}

func TestGetTotal_NoInvoices(t *testing.T) {
	a := newAggregator(t, []*core.Invoice{})
	if total, ok := a.GetTotal(1); ok {
		t.Fatalf("expected absent, got %s", total)
	}
}

func TestGetTotal_NotFound(t *testing.T) {
	a := newAggregator(t, fixture(t, 1, 5))
	if total, ok := a.GetTotal(-1); ok {
		t.Fatalf("expected absent, got %s", total)
	}
}

func TestGetTotal_Found(t *testing.T) {
	invoices := fixture(t, 2, 5)
	first := invoices[0]
	want := subtotal(t, first)

	got, ok := newAggregator(t, invoices).GetTotal(first.ID)
	if !ok || !got.Equal(want) {
		t.Fatalf("GetTotal = %s, %v; want %s", got, ok, want)
	}
}

func TestGetTotal_DuplicateIDsAreSummed(t *testing.T) {
	a := &core.Invoice{ID: 7, Items: []core.InvoiceItem{{Name: "eggs", Count: 10, Price: core.MustParseMoney("2.50")}}}
	b := &core.Invoice{ID: 7, Items: []core.InvoiceItem{{Name: "milk", Count: 2, Price: core.MustParseMoney("3.00")}}}
	got, ok := newAggregator(t, []*core.Invoice{a, b}).GetTotal(7)
	if !ok || !got.Equal(core.MustParseMoney("31")) {
		t.Fatalf("GetTotal = %s, %v; want 31", got, ok)
	}
}

func TestGetTotal_EmptyItems(t *testing.T) {
	invoices := fixture(t, 3, 5)
	invoices[0].Items = invoices[0].Items[:0]

	if total, ok := newAggregator(t, invoices).GetTotal(invoices[0].ID); ok {
		t.Fatalf("expected absent, got %s", total)
	}
}

func TestGetTotal_ZeroSumIsAbsent(t *testing.T) {
	inv := &core.Invoice{ID: 1, Items: []core.InvoiceItem{
		{Name: "free", Count: 3, Price: core.Zero},
		{Name: "refund", Count: 1, Price: core.MustParseMoney("-5")},
		{Name: "charge", Count: 1, Price: core.MustParseMoney("5")},
	}}
	if total, ok := newAggregator(t, []*core.Invoice{inv}).GetTotal(1); ok {
		t.Fatalf("expected absent for zero total, got %s", total)
	}
}

func TestGetTotal_Overflow(t *testing.T) {
	inv := &core.Invoice{ID: 1, Items: []core.InvoiceItem{
		{Name: "x", Count: ^uint32(0), Price: core.MaxMoney},
	}}
	if total, ok := newAggregator(t, []*core.Invoice{inv}).GetTotal(1); ok {
		t.Fatalf("expected absent on overflow, got %s", total)
	}
}

func TestGetTotal_OverflowAcrossInvoices(t *testing.T) {
	a := &core.Invoice{ID: 1, Items: []core.InvoiceItem{{Name: "x", Count: 1, Price: core.MaxMoney}}}
	b := &core.Invoice{ID: 1, Items: []core.InvoiceItem{{Name: "y", Count: 1, Price: core.MaxMoney}}}
	if total, ok := newAggregator(t, []*core.Invoice{a, b}).GetTotal(1); ok {
		t.Fatalf("expected absent on overflow, got %s", total)
	}
}

func TestGetTotal_OrderIndependent(t *testing.T) {
	invoices := fixture(t, 4, 8)
	dup := *invoices[2]
	dup.Items = slices.Clone(invoices[5].Items)
	invoices = append(invoices, &dup)
	id := invoices[2].ID

	want, wantOK := newAggregator(t, invoices).GetTotal(id)
	r := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 10; i++ {
		shuffled := slices.Clone(invoices)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, ok := newAggregator(t, shuffled).GetTotal(id)
		if ok != wantOK || !got.Equal(want) {
			t.Fatalf("shuffle %d: got %s, %v; want %s, %v", i, got, ok, want, wantOK)
		}
	}
}

func TestGetTotal_ObservesLaterMutation(t *testing.T) {
	invoices := fixture(t, 5, 3)
	a := newAggregator(t, invoices)
	if _, ok := a.GetTotal(invoices[1].ID); !ok {
		t.Fatal("expected total before clearing items")
	}
	invoices[1].Items = nil
	if _, ok := a.GetTotal(invoices[1].ID); ok {
		t.Fatal("expected absent after clearing items")
	}
}

func TestGetTotalOfUnpaid_NoInvoices(t *testing.T) {
	if got := newAggregator(t, nil).GetTotalOfUnpaid(); !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestGetTotalOfUnpaid_UnpaidWithEmptyItems(t *testing.T) {
	paid := fixture(t, 6, 4)
	unpaid := fixture(t, 7, 4)
	for _, inv := range unpaid {
		inv.AcceptanceDate = nil
		inv.Items = nil
	}
	got := newAggregator(t, append(paid, unpaid...)).GetTotalOfUnpaid()
	if !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestGetTotalOfUnpaid_ReturnsTotal(t *testing.T) {
	paid := fixture(t, 8, 4)
	unpaid := fixture(t, 9, 4)
	want := core.Zero
	for _, inv := range unpaid {
		inv.AcceptanceDate = nil
		var err error
		if want, err = want.Add(subtotal(t, inv)); err != nil {
			t.Fatal(err)
		}
	}
	got := newAggregator(t, append(paid, unpaid...)).GetTotalOfUnpaid()
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestGetTotalOfUnpaid_OnlyPaid(t *testing.T) {
	if got := newAggregator(t, fixture(t, 10, 5)).GetTotalOfUnpaid(); !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestGetTotalOfUnpaid_Overflow(t *testing.T) {
	inv := &core.Invoice{ID: 1, Items: []core.InvoiceItem{
		{Name: "x", Count: ^uint32(0), Price: core.MaxMoney},
	}}
	got := newAggregator(t, []*core.Invoice{inv}).GetTotalOfUnpaid()
	if !got.IsZero() {
		t.Fatalf("expected 0 on overflow, got %s", got)
	}
}

func TestGetItemsReport_NoInvoices(t *testing.T) {
	assertReport(t, newAggregator(t, nil).GetItemsReport(nil, nil), core.ItemsReport{})
}

func TestGetItemsReport_EmptyItems(t *testing.T) {
	invoices := fixture(t, 11, 4)
	for _, inv := range invoices {
		inv.Items = nil
	}
	assertReport(t, newAggregator(t, invoices).GetItemsReport(nil, nil), core.ItemsReport{})
}

func TestGetItemsReport_Example(t *testing.T) {
	a := &core.Invoice{ID: 1, Items: []core.InvoiceItem{{Name: "eggs", Count: 10, Price: core.MustParseMoney("2.50")}}}
	b := &core.Invoice{ID: 2, Items: []core.InvoiceItem{
		{Name: "eggs", Count: 5, Price: core.MustParseMoney("2.50")},
		{Name: "milk", Count: 2, Price: core.MustParseMoney("3.00")},
	}}
	got := newAggregator(t, []*core.Invoice{a, b}).GetItemsReport(nil, nil)
	assertReport(t, got, core.ItemsReport{"eggs": 15, "milk": 2})
}

func TestGetItemsReport_NamesAreCaseSensitive(t *testing.T) {
	inv := &core.Invoice{Items: []core.InvoiceItem{{Name: "eggs", Count: 1}, {Name: "Eggs", Count: 2}}}
	got := newAggregator(t, []*core.Invoice{inv}).GetItemsReport(nil, nil)
	assertReport(t, got, core.ItemsReport{"eggs": 1, "Eggs": 2})
}

func TestGetItemsReport_Ranges(t *testing.T) {
	invoices := fixture(t, 12, 10)
	earliest, latest := invoices[0].CreationDate, invoices[0].CreationDate
	for _, inv := range invoices {
		if inv.CreationDate.Before(earliest) {
			earliest = inv.CreationDate
		}
		if inv.CreationDate.After(latest) {
			latest = inv.CreationDate
		}
	}
	at := func(t time.Time, days int) *time.Time {
		v := t.AddDate(0, 0, days)
		return &v
	}

	cases := []struct {
		name     string
		from, to *time.Time
	}{
		{"all", nil, nil},
		{"from start", at(earliest, 1), nil},
		{"to end", nil, at(latest, -1)},
		{"between", at(earliest, 2), at(latest, -2)},
		{"from exact", &invoices[3].CreationDate, nil},
		{"to exact", nil, &invoices[3].CreationDate},
		{"single day", &invoices[3].CreationDate, &invoices[3].CreationDate},
		{"after latest", at(latest, 1), nil},
		{"before earliest", nil, at(earliest, -1)},
		{"inverted", at(latest, -2), at(earliest, 2)},
	}
	a := newAggregator(t, invoices)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := expectedReport(invoices, func(inv *core.Invoice) bool {
				if tc.from != nil && inv.CreationDate.Before(*tc.from) {
					return false
				}
				return tc.to == nil || !inv.CreationDate.After(*tc.to)
			})
			assertReport(t, a.GetItemsReport(tc.from, tc.to), want)
		})
	}
}

func TestGetItemsReport_EmptyOutsideRange(t *testing.T) {
	invoices := fixture(t, 13, 6)
	a := newAggregator(t, invoices)
	after := invoices[len(invoices)-1].CreationDate.Add(time.Hour)
	before := invoices[0].CreationDate.Add(-time.Hour)

	assertReport(t, a.GetItemsReport(&after, nil), core.ItemsReport{})
	assertReport(t, a.GetItemsReport(nil, &before), core.ItemsReport{})
	assertReport(t, a.GetItemsReport(&after, &before), core.ItemsReport{})
}

func TestGetItemsReport_ResultIsMaterialized(t *testing.T) {
	invoices := fixture(t, 14, 3)
	a := newAggregator(t, invoices)
	before := a.GetItemsReport(nil, nil)
	snapshot := make(core.ItemsReport, len(before))
	for k, v := range before {
		snapshot[k] = v
	}

	invoices[0].Items = append(invoices[0].Items, core.InvoiceItem{Name: "late", Count: 99})
	assertReport(t, before, snapshot)
	if got := a.GetItemsReport(nil, nil); got["late"] != 99 {
		t.Fatalf("expected new call to see added item, got %v", got)
	}
}

func TestGetItemsReport_SkipsNilInvoices(t *testing.T) {
	inv := &core.Invoice{Items: []core.InvoiceItem{{Name: "eggs", Count: 3}}}
	got := newAggregator(t, []*core.Invoice{nil, inv, nil}).GetItemsReport(nil, nil)
	assertReport(t, got, core.ItemsReport{"eggs": 3})
}

func TestQueriesOverLazySequence(t *testing.T) {
	invoices := fixture(t, 15, 4)
	scans := 0
	seq := func(yield func(*core.Invoice) bool) {
		scans++
		for _, inv := range invoices {
			if !yield(inv) {
				return
			}
		}
	}
	a, err := New(seq)
	if err != nil {
		t.Fatal(err)
	}
	a.GetTotal(invoices[0].ID)
	a.GetTotalOfUnpaid()
	a.GetItemsReport(nil, nil)
	if scans != 3 {
		t.Fatalf("expected one full scan per query, got %d", scans)
	}
}
