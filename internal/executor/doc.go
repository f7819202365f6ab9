// Package executor drives a plan to completion, one entry at a time. It owns
// the pending to terminal lifecycle of each entry, consulting the conflict
// resolver for occupied destinations and persisting every transition before
// moving on so an interrupted run loses at most the in-flight entry.
package executor
