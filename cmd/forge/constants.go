package main

// Default limits for CLI commands.
const (
	DefaultHistoryLimit = 20
)

// Valid table export formats.
var validFormats = []string{"json", "yaml", "csv", "markdown"}
