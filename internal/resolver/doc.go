// Package resolver turns whatever the engine left in a job's directory
// into a single deliverable: discover candidates, drop invalid ones,
// normalize the container, and pack collections into an archive.
package resolver
