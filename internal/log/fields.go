package log

import (
	"saki/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldSuccess     = "success"
	FieldExpenseID   = "expense_id"
	FieldReportID    = "report_id"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldCount       = "count"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldPath        = "path"
	FieldBackend     = "backend"
	FieldEventType   = "event_type"
	FieldSheetsRange = "sheets_range"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentExpense    = "expense"
	ComponentReport     = "report"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentSheets     = "sheets"
	ComponentCache      = "cache"
	ComponentBackend    = "backend"
	ComponentExport     = "export"
	ComponentCalculator = "calculator"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpExport   = "export"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeCorrupt       = "corrupt_data_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
)

// ErrorType maps err onto one of the ErrorType constants, or "" for nil.
func ErrorType(err error) string {
	switch core.KindOf(err) {
	case core.KindNone:
		return ""
	case core.KindNotFound:
		return ErrorTypeNotFound
	case core.KindValidation:
		return ErrorTypeValidation
	case core.KindIO:
		return ErrorTypeDatabase
	case core.KindCorrupt:
		return ErrorTypeCorrupt
	default:
		return ErrorTypeInternal
	}
}

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds the error message and its classified type
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = ErrorType(err)
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(e core.Expense) LogFields {
	f[FieldExpenseID] = e.ID
	f[FieldDescription] = e.Description
	f[FieldAmount] = e.Amount.StringFixed(core.MoneyPlaces)
	f[FieldCategory] = e.Category.String()
	f[FieldDate] = e.Date.String()
	return f
}

// WithReport adds report-related fields
func (f LogFields) WithReport(r core.ExpenseReport) LogFields {
	f[FieldReportID] = r.ID
	f[FieldCount] = len(r.Expenses)
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
