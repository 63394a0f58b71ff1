package core

import "sort"

// ItemsReport maps an item name to the total quantity across invoices.
type ItemsReport map[string]int64

// ItemQuantity is one row of an ItemsReport.
type ItemQuantity struct {
	Name     string
	Quantity int64
}

// Sorted returns the report rows ordered by name.
func (r ItemsReport) Sorted() []ItemQuantity {
	out := make([]ItemQuantity, 0, len(r))
	for name, q := range r {
		out = append(out, ItemQuantity{Name: name, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
