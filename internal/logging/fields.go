package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldNote is the standardized structured logging key for daily note paths.
	FieldNote = "note"
	// FieldFile is the standardized structured logging key for attachment paths.
	FieldFile = "file"
	// FieldCategory is the standardized structured logging key for attachment categories.
	FieldCategory = "category"
	// FieldOutcome is the standardized structured logging key for ingest outcomes.
	FieldOutcome = "outcome"
)
