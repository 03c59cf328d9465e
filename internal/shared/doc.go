// Package shared provides small helpers used across the shipreport packages.
//
// This package should only contain generic helpers with no shipment logic.
// The testutil subpackage provides shipment fixtures and a buffered slog
// handler for tests.
package shared
