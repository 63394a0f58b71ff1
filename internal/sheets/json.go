package sheets

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
)

// InvoiceRecord is the JSON representation of an invoice used by seed and
// import files.
type InvoiceRecord struct {
	ID             int32        `json:"id"`
	Description    string       `json:"description"`
	Number         string       `json:"number"`
	Seller         string       `json:"seller"`
	Buyer          string       `json:"buyer"`
	CreationDate   time.Time    `json:"creation_date" validate:"required"`
	AcceptanceDate *time.Time   `json:"acceptance_date" validate:"omitempty,gtefield=CreationDate"`
	Items          []ItemRecord `json:"items" validate:"dive"`
}

type ItemRecord struct {
	Name  string     `json:"name" validate:"required"`
	Count uint32     `json:"count"`
	Price core.Money `json:"price"`
}

// DecodeInvoices reads and validates a JSON array of invoice records.
func DecodeInvoices(r io.Reader) ([]*core.Invoice, error) {
	var records []InvoiceRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	out := make([]*core.Invoice, 0, len(records))
	for i, rec := range records {
		if err := ValidateRecord(rec); err != nil {
			return nil, fmt.Errorf("invoice record %d (id %d): %w", i, rec.ID, err)
		}
		out = append(out, rec.Invoice())
	}
	return out, nil
}

// Invoice converts the record to the domain model.
func (rec InvoiceRecord) Invoice() *core.Invoice {
	inv := &core.Invoice{
		ID:             rec.ID,
		Description:    rec.Description,
		Number:         rec.Number,
		Seller:         rec.Seller,
		Buyer:          rec.Buyer,
		CreationDate:   rec.CreationDate,
		AcceptanceDate: rec.AcceptanceDate,
		Items:          make([]core.InvoiceItem, 0, len(rec.Items)),
	}
	for _, it := range rec.Items {
		inv.Items = append(inv.Items, core.InvoiceItem{Name: it.Name, Count: it.Count, Price: it.Price})
	}
	return inv
}
