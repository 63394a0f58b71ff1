package aggregator

import (
	"iter"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
)

func filter(in iter.Seq[*core.Invoice], keep func(*core.Invoice) bool) iter.Seq[*core.Invoice] {
	return func(yield func(*core.Invoice) bool) {
		for inv := range in {
			if inv == nil || !keep(inv) {
				continue
			}
			if !yield(inv) {
				return
			}
		}
	}
}

func flatten(in iter.Seq[*core.Invoice]) iter.Seq[core.InvoiceItem] {
	return func(yield func(core.InvoiceItem) bool) {
		for inv := range in {
			for _, it := range inv.Items {
				if !yield(it) {
					return
				}
			}
		}
	}
}

// group buckets item counts by exact name.
func group(in iter.Seq[core.InvoiceItem]) map[string][]uint32 {
	groups := make(map[string][]uint32)
	for it := range in {
		groups[it.Name] = append(groups[it.Name], it.Count)
	}
	return groups
}

func reduce(groups map[string][]uint32) core.ItemsReport {
	report := make(core.ItemsReport, len(groups))
	for name, counts := range groups {
		var total int64
		for _, c := range counts {
			total += int64(c)
		}
		report[name] = total
	}
	return report
}
