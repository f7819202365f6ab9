package scan

// Recognized media extensions for --media-only filtering.
var mediaExtensions = map[string]struct{}{
	// Images
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {},
	".tiff": {}, ".tif": {}, ".webp": {}, ".heic": {}, ".heif": {},
	".raw": {}, ".cr2": {}, ".nef": {}, ".arw": {}, ".dng": {}, ".svg": {},
	// Videos
	".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {}, ".flv": {},
	".mkv": {}, ".webm": {}, ".m4v": {}, ".mpg": {}, ".mpeg": {},
	".3gp": {}, ".3g2": {}, ".mts": {}, ".m2ts": {}, ".vob": {}, ".ogv": {},
}

// Directories skipped regardless of settings: version control, OS metadata,
// trash folders, dependency caches.
var skipDirectories = map[string]struct{}{
	".git": {}, ".svn": {}, ".hg": {},
	"__MACOSX": {},
	".Trash":   {}, ".Trashes": {},
	"__pycache__": {},
	".cache":      {}, ".tmp": {}, ".temp": {},
}

// Files skipped regardless of settings. The default status file name is in
// the list so a journal kept inside a source tree is never sorted.
var skipFiles = map[string]struct{}{
	".DS_Store":   {},
	"Thumbs.db":   {},
	"desktop.ini": {},
	".gitignore":  {},
	".gitkeep":    {},

	".mediasort-status.json": {},
}
