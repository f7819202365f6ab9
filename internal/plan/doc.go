// Package plan models the deterministic execution plan: one entry per source
// file with its year-bucketed destination, requested action, and lifecycle
// status. Entries sort by source path so a resumed run processes the same
// order as the original. The builder never touches the filesystem beyond the
// capture resolver's timestamp reads.
package plan
