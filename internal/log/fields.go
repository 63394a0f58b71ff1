package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldDuration    = "duration_ms"
	FieldBackend     = "backend"
	FieldInvoiceID   = "invoice_id"
	FieldInvoices    = "invoices"
	FieldItems       = "items"
	FieldTotal       = "total"
	FieldFound       = "found"
	FieldFrom        = "from"
	FieldTo          = "to"
	FieldRequestID   = "request_id"
	FieldRequestKind = "request_kind"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentSheets  = "sheets"
	ComponentMemory  = "memory"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentImport  = "import"
)

// Operations defines standard operation names
const (
	OpLoad          = "load"
	OpSave          = "save"
	OpTotal         = "total"
	OpTotalOfUnpaid = "total_of_unpaid"
	OpItemsReport   = "items_report"
	OpSummary       = "summary"
	OpPublish       = "publish"
	OpConsume       = "consume"
	OpStartup       = "startup"
	OpShutdown      = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error text; nil errors are ignored.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithInvoiceID(id int32) LogFields {
	f[FieldInvoiceID] = id
	return f
}

// WithSnapshot records the size of a loaded invoice snapshot.
func (f LogFields) WithSnapshot(invoices, items int) LogFields {
	f[FieldInvoices] = invoices
	f[FieldItems] = items
	return f
}

func (f LogFields) WithDuration(ms int64) LogFields {
	f[FieldDuration] = ms
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
