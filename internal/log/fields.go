package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldTransactionID = "transaction_id"
	FieldBudgetID      = "budget_id"
	FieldGoalID        = "goal_id"
	FieldCategory      = "category"
	FieldAmountCents   = "amount_cents"
	FieldSpentCents    = "spent_cents"
	FieldMonth         = "month"
	FieldYear          = "year"
	FieldRawMerchant   = "raw_merchant"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentLedger     = "ledger"
	ComponentReconciler = "reconciler"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentMerchant   = "merchant"
	ComponentCache      = "cache"
)
