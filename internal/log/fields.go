package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldDate          = "date"
	FieldYear          = "year"
	FieldMonth         = "month"
	FieldTransactionID = "transaction_id"
	FieldIntent        = "intent"
	FieldResolvedType  = "resolved_type"
	FieldAmount        = "amount"
	FieldDebitAccount  = "debit_account"
	FieldCreditAccount = "credit_account"
	FieldAccountCount  = "account_count"
	FieldTxCount       = "transaction_count"
	FieldBackend       = "backend"
	FieldRowRef        = "row_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentWebApp  = "webapp"
	ComponentSheets  = "sheets"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpSync     = "sync"
	OpValidate = "validate"
	OpClassify = "classify"
	OpRender   = "render"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
