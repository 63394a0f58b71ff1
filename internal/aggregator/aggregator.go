// Package aggregator computes totals and quantity reports over a supplied
// sequence of invoices. Every query re-scans the sequence and returns a fully
// materialized value; invoices are read, never copied or modified.
package aggregator

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
)

// Aggregator answers the three invoice queries.
type Aggregator struct {
	invoices iter.Seq[*core.Invoice]
}

// New returns an Aggregator over invoices. The sequence may be empty but not nil.
func New(invoices iter.Seq[*core.Invoice]) (*Aggregator, error) {
	if invoices == nil {
		return nil, fmt.Errorf("%w: invoices sequence is nil", core.ErrInvalidArgument)
	}
	return &Aggregator{invoices: invoices}, nil
}

// FromSlice adapts a slice to the sequence New expects. A nil slice is empty.
func FromSlice(invoices []*core.Invoice) iter.Seq[*core.Invoice] {
	return slices.Values(invoices)
}

// GetTotal returns the billed total of every invoice with the given id.
// The second result is false when nothing matches, the matches carry no
// items, the total is zero, or the sum overflows.
func (a *Aggregator) GetTotal(invoiceID int32) (core.Money, bool) {
	total, err := a.sum(func(inv *core.Invoice) bool { return inv.ID == invoiceID })
	if err != nil || total.IsZero() {
		return core.Zero, false
	}
	return total, true
}

// GetTotalOfUnpaid returns the total of all invoices without an acceptance
// date, or zero when there are none or the sum overflows.
func (a *Aggregator) GetTotalOfUnpaid() core.Money {
	total, err := a.sum((*core.Invoice).IsUnpaid)
	if err != nil {
		return core.Zero
	}
	return total
}

// GetItemsReport sums item counts by name over invoices created in
// [from, to]. A nil bound is open; an inverted range yields an empty report.
// Quantity sums are not checked for overflow.
func (a *Aggregator) GetItemsReport(from, to *time.Time) core.ItemsReport {
	matched := filter(a.invoices, func(inv *core.Invoice) bool { return inv.CreatedWithin(from, to) })
	return reduce(group(flatten(matched)))
}

// sum adds line totals of the invoices keep selects. Each invoice subtotal is
// range checked; the grand total is accumulated exactly and checked once so
// the result does not depend on the order of invoices. Item order inside one
// invoice still matters, see Invoice.Subtotal.
func (a *Aggregator) sum(keep func(*core.Invoice) bool) (core.Money, error) {
	acc := decimal.Zero
	for inv := range filter(a.invoices, keep) {
		sub, err := inv.Subtotal()
		if err != nil {
			return core.Zero, err
		}
		acc = acc.Add(sub.Decimal())
	}
	return core.MoneyFromDecimal(acc)
}
