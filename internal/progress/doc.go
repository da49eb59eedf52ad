// Package progress turns raw engine events into job record mutations.
// Apply is a pure transformation; callers are expected to run it inside
// registry.Mutate so concurrent engine callbacks for the same job are
// serialized.
package progress
