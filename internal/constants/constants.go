package constants

// Session / context keys
const (
	ContextKeyUserID = "user_id"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Sync reconciliation
const (
	// CalendarImportWindowDays bounds the calendar import phase to upcoming events.
	CalendarImportWindowDays = 7
	// NotionImportPageLimit bounds how many pages are pulled per database query.
	NotionImportPageLimit = 50
	// ExportLookbackHours bounds the export phase to recently completed tasks.
	ExportLookbackHours = 24
)

// AI
const (
	MaxAIGeneratedTasks = 20
	MaxBrainDumpBatch   = 25
)

// Task constraints
const (
	MinComplexity = 1
	MaxComplexity = 5
	MinMoodScore  = 1
	MaxMoodScore  = 10
)
