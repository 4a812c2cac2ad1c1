package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRequestID is the X-Request-ID sent with a remote API call
	FieldRequestID = "request_id"

	// FieldJobID is the remote screenshot job ID
	FieldJobID = "job_id"

	// FieldBulkJobID is the remote bulk job ID
	FieldBulkJobID = "bulk_job_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldURL is the page being captured
	FieldURL = "url"

	// FieldIteration is the watch attempt number
	FieldIteration = "iteration"

	// FieldScheduleID is the remote schedule ID
	FieldScheduleID = "schedule_id"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
