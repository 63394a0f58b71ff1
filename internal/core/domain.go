package core

import (
	"errors"
	"time"
)

type (
	// InvoiceItem is a single line of an invoice, e.g. 10 eggs at 2.50.
	InvoiceItem struct {
		Name  string
		Count uint32
		Price Money
	}

	Invoice struct {
		ID          int32
		Description string
		Number      string
		Seller      string
		Buyer       string

		CreationDate time.Time
		// AcceptanceDate is nil while the invoice has not been accepted (paid).
		AcceptanceDate *time.Time

		Items []InvoiceItem
	}
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// LineTotal returns Count * Price.
func (it InvoiceItem) LineTotal() (Money, error) {
	return it.Price.MulCount(it.Count)
}

// IsUnpaid reports whether the invoice has no acceptance date.
func (inv *Invoice) IsUnpaid() bool {
	return inv.AcceptanceDate == nil
}

// CreatedWithin reports whether CreationDate lies in [from, to]. A nil bound is open.
func (inv *Invoice) CreatedWithin(from, to *time.Time) bool {
	if from != nil && inv.CreationDate.Before(*from) {
		return false
	}
	if to != nil && inv.CreationDate.After(*to) {
		return false
	}
	return true
}

// Subtotal sums the line totals of the invoice in item order. The running
// sum is range checked after every line, so reordering items can change
// whether it overflows.
func (inv *Invoice) Subtotal() (Money, error) {
	total := Zero
	for _, it := range inv.Items {
		line, err := it.LineTotal()
		if err != nil {
			return Zero, err
		}
		if total, err = total.Add(line); err != nil {
			return Zero, err
		}
	}
	return total, nil
}
