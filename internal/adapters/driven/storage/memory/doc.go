// Package memory provides in-memory implementations of driven port
// interfaces, used by tests and as a lightweight fallback.
package memory
