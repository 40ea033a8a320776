package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Tracing fields (context level)
// ============================================

const (
	// FieldRunID identifies one generation run (UUID)
	FieldRunID = "run_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldStage is the pipeline stage
	FieldStage = "stage"

	// FieldTemplate is the selected template name
	FieldTemplate = "template"

	// FieldModel is the completion model
	FieldModel = "model"
)

// ============================================
// Metric fields (entry level)
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
