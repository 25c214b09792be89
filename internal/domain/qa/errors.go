package qa

// Error codes carried by pkg/errors.AppError values returned from this package.
const (
	CodeInvalidInput      = "invalid_input"
	CodeStorage           = "storage_error"
	CodeDuplicateQuestion = "duplicate_question"
	CodeNotReady          = "store_not_ready"
)
