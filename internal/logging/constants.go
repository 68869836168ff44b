package logging

// Field keys shared by every component so entries can be filtered uniformly.
const (
	FieldUserID     = "user_id"
	FieldExpenseID  = "expense_id"
	FieldCategory   = "category"
	FieldConfidence = "confidence"
	FieldReason     = "reason"
	FieldKeyword    = "keyword"
	FieldAmount     = "amount"
	FieldOperation  = "operation"
	FieldStrategy   = "strategy"
	FieldError      = "error"
	FieldCount      = "count"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
