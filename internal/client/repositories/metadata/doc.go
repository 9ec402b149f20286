// Package metadata stores client-side key/value state (the session
// credential and its bookkeeping) in the local SQLite database.
package metadata
