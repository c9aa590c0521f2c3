// Package history keeps a log of planning runs in a rotating JSONL file or
// a SQLite database.
package history
