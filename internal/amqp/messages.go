package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kondetiramya/AccountingTestProject/internal/core"
)

// ReportKind selects the aggregator query a request runs.
type ReportKind string

const (
	KindTotal  ReportKind = "total"
	KindUnpaid ReportKind = "unpaid"
	KindItems  ReportKind = "items"
)

// IsValid reports whether the kind is one the worker knows how to answer.
func (k ReportKind) IsValid() bool {
	switch k {
	case KindTotal, KindUnpaid, KindItems:
		return true
	default:
		return false
	}
}

// ReportRequest asks a worker to run one query against the configured
// invoice source.
type ReportRequest struct {
	ID        uuid.UUID  `json:"id"`
	Kind      ReportKind `json:"kind"`
	InvoiceID int32      `json:"invoice_id,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

func newRequest(kind ReportKind) *ReportRequest {
	return &ReportRequest{
		ID:        uuid.New(),
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// NewTotalRequest creates a request for the total of one invoice id.
func NewTotalRequest(invoiceID int32) *ReportRequest {
	req := newRequest(KindTotal)
	req.InvoiceID = invoiceID
	return req
}

// NewUnpaidRequest creates a request for the total of unpaid invoices.
func NewUnpaidRequest() *ReportRequest {
	return newRequest(KindUnpaid)
}

// NewItemsRequest creates a request for the items report. Nil bounds are open.
func NewItemsRequest(from, to *time.Time) *ReportRequest {
	req := newRequest(KindItems)
	req.From = from
	req.To = to
	return req
}

// ToJSON converts the request to JSON bytes
func (r *ReportRequest) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// ReportRequestFromJSON decodes a request. A request without an id is
// rejected; an unknown kind is left for the worker to answer.
func ReportRequestFromJSON(data []byte) (*ReportRequest, error) {
	var req ReportRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if req.ID == uuid.Nil {
		return nil, errors.New("report request without id")
	}
	return &req, nil
}

// ReportResult answers a ReportRequest. Total is set for total and unpaid
// requests, Items for items requests, Error when the request could not be
// answered.
type ReportResult struct {
	RequestID uuid.UUID        `json:"request_id"`
	Kind      ReportKind       `json:"kind"`
	Found     bool             `json:"found"`
	Total     *core.Money      `json:"total,omitempty"`
	Items     core.ItemsReport `json:"items"`
	Error     string           `json:"error,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewReportResult creates an empty result for req.
func NewReportResult(req *ReportRequest) *ReportResult {
	return &ReportResult{
		RequestID: req.ID,
		Kind:      req.Kind,
		Timestamp: time.Now(),
	}
}

// Failed marks the result as failed with the given reason.
func (r *ReportResult) Failed(format string, args ...any) *ReportResult {
	r.Found = false
	r.Total = nil
	r.Items = nil
	r.Error = fmt.Sprintf(format, args...)
	return r
}

// ToJSON converts the result to JSON bytes
func (r *ReportResult) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
