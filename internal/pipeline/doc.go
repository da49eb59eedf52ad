// Package pipeline owns the per-job execution: one detached worker per
// submitted request drives the record from queued to a terminal state.
// Stage order is fetch, collect, validate, normalize, package, publish.
// A worker never lets a fault escape; every failure lands on the record
// as a terminal error message.
package pipeline
