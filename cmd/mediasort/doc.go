// Command mediasort sorts media files into per-year directories derived from
// filename date patterns, with a creation-time fallback and a resumable
// progress journal.
package main
