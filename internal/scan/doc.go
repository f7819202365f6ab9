// Package scan enumerates source trees into immutable MediaFile records.
//
// The walker applies the fixed skip lists (version control, trash, cache
// directories, OS metadata files), the optional hidden-path exclusion, and the
// optional media-extension filter. Output order is deterministic: roots in
// argument order, lexical walk within each root.
package scan
