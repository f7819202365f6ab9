// Package journal persists run progress to a single JSON status file so an
// interrupted sort can resume without repeating finished work. Writes go
// through a temp-file-then-rename swap, and a sidecar flock keeps two
// processes from sharing one status file.
package journal
