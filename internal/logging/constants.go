package logging

// Field names shared by all log statements so output can be filtered by key.
const (
	FieldFile       = "file_path"
	FieldFileName   = "file_name"
	FieldParser     = "parser"
	FieldSource     = "source"
	FieldReason     = "reason"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldCount      = "count"
	FieldLine       = "line"
	FieldField      = "field"
	FieldPage       = "page"
	FieldHash       = "transaction_hash"
	FieldRunID      = "run_id"
	FieldOutputFile = "output_file"
	FieldStage      = "stage"
	FieldComponent  = "component"
)
