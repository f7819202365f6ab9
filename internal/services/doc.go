// Package services defines the shared error taxonomy and context annotations
// used across mediasort components.
//
// Errors are tagged with sentinel markers (validation, configuration, date
// resolution, transfer, journal corruption) so callers can classify failures
// without parsing messages. Per-entry failures keep the run going; IsFatal
// identifies the markers that must abort instead.
package services
