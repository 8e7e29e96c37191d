// export_test.go exports private functions for white-box testing.
package logger

// Exported error formatting for the external test package.
var (
	CollectErrorEntriesExported = collectErrorEntries
	FormatErrorEntriesExported  = formatErrorEntries
)
