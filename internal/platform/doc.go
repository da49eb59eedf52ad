// Package platform resolves source URLs into pre-submission metadata so a
// caller can pick playlist entries and a resolution before starting a job.
package platform
