// Package kv provides the string key-value stores the library persists into.
//
// Three backends implement Store:
//   - Memory: process-local map, for tests and throwaway sessions
//   - SQLite: a single-file database (WAL mode, one writer connection)
//   - Redis: a shared server, so several front ends see one library
//
// Values are opaque strings; the library stores whole JSON documents under a
// handful of fixed keys.
package kv
