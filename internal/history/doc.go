// Package history keeps a journal of processing runs in a local SQLite
// database so users can review what was done to a file and when.
package history
