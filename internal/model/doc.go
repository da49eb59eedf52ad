// Package model defines the domain data structures shared across the
// service: job records, per-item sub-records, and status enums. Records
// are mutated only through the registry; everything handed to callers is
// a deep copy.
package model
