// Package tools provides the optional tool router handed to job
// processors: a concurrent registry of named capabilities invoked with
// raw JSON arguments.
package tools
