// Package results holds the per-session results table, its pass/fail status
// and the collision-safe writer that persists it.
//
// A table is written once, at session end, as a JSON document (the native
// form carrying session metadata and failure reasons) plus a CSV file of the
// bare 11-column matrix. An optional XLSX copy is produced for operators who
// work in spreadsheets. Files are never overwritten: when any output already
// exists under the base name, "_new" is appended until every name is free.
package results
