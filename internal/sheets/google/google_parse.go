package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseInvoices converts the invoices sheet into invoices without items.
// It expects a header row with at least ID and Created; Number, Description,
// Seller, Buyer and Accepted are optional. Rows with an unreadable ID or date
// are counted in skipped.
func parseInvoices(values [][]interface{}) (invoices []*core.Invoice, skipped int, err error) {
	if len(values) == 0 {
		return nil, 0, nil
	}
	headers := toStrings(values[0])
	colID := indexOf(headers, "ID")
	colCreated := indexOf(headers, "Created")
	if colID == -1 || colCreated == -1 {
		return nil, 0, fmt.Errorf("unexpected invoices header: need ID and Created; got headers=%v", headers)
	}
	colNumber := indexOf(headers, "Number")
	colDesc := indexOf(headers, "Description")
	colSeller := indexOf(headers, "Seller")
	colBuyer := indexOf(headers, "Buyer")
	colAccepted := indexOf(headers, "Accepted")

	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		id, err := strconv.ParseInt(safeGet(row, colID), 10, 32)
		if err != nil {
			skipped++
			continue
		}
		created, ok := parseDate(safeGet(row, colCreated))
		if !ok {
			skipped++
			continue
		}
		inv := &core.Invoice{
			ID:           int32(id),
			Number:       safeGet(row, colNumber),
			Description:  safeGet(row, colDesc),
			Seller:       safeGet(row, colSeller),
			Buyer:        safeGet(row, colBuyer),
			CreationDate: created,
		}
		if s := safeGet(row, colAccepted); s != "" {
			accepted, ok := parseDate(s)
			if !ok {
				skipped++
				continue
			}
			inv.AcceptanceDate = &accepted
		}
		invoices = append(invoices, inv)
	}
	return invoices, skipped, nil
}

// attachItems reads the items sheet (Invoice ID, Name, Count, Price) and
// appends each row to the first invoice with that ID, in sheet order.
func attachItems(invoices []*core.Invoice, values [][]interface{}) (dropped int, err error) {
	if len(values) == 0 {
		return 0, nil
	}
	headers := toStrings(values[0])
	colID := indexOf(headers, "Invoice ID")
	colName := indexOf(headers, "Name")
	colCount := indexOf(headers, "Count")
	colPrice := indexOf(headers, "Price")
	if colID == -1 || colName == -1 || colCount == -1 || colPrice == -1 {
		return 0, fmt.Errorf("unexpected items header: need Invoice ID, Name, Count, Price; got headers=%v", headers)
	}

	byID := make(map[int32]*core.Invoice, len(invoices))
	for _, inv := range invoices {
		if _, seen := byID[inv.ID]; !seen {
			byID[inv.ID] = inv
		}
	}

	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		id, err := strconv.ParseInt(safeGet(row, colID), 10, 32)
		if err != nil {
			dropped++
			continue
		}
		inv, ok := byID[int32(id)]
		if !ok {
			dropped++
			continue
		}
		count, err := strconv.ParseUint(safeGet(row, colCount), 10, 32)
		if err != nil {
			dropped++
			continue
		}
		price, err := core.ParseMoney(safeGet(row, colPrice))
		if err != nil {
			dropped++
			continue
		}
		inv.Items = append(inv.Items, core.InvoiceItem{
			Name:  safeGet(row, colName),
			Count: uint32(count),
			Price: price,
		})
	}
	return dropped, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
