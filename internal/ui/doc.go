// Package ui renders styled terminal output for the inels CLI.
//
// Output is built with Lipgloss and follows a "print once and exit" pattern:
//
//   - ResourceTable: one row per resource with type, id, value and flags
//   - Result: success/failure boxes with key/value details
//
// Logging stays silent unless INELS_LOG_LEVEL is set, so the styled output
// is not interleaved with log lines.
package ui
