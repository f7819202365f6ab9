package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"mediasort/internal/logging"
)

// MediaFile describes a single enumerated source file. Immutable once created.
type MediaFile struct {
	// Path is the absolute source path.
	Path string
	// RelPath is the path relative to the source root it was found under.
	RelPath string
	// Size is the file size in bytes.
	Size int64
	// Ext is the lowercase extension including the dot, or empty.
	Ext string
	// Hidden reports whether any path component starts with a dot.
	Hidden bool
}

// Options controls enumeration filtering.
type Options struct {
	// MediaOnly restricts output to recognized media extensions.
	MediaOnly bool
	// ExcludeHidden drops dot-prefixed files and directories.
	ExcludeHidden bool
	// ExtraMediaExtensions extends the built-in media extension set.
	ExtraMediaExtensions []string
	// ExtraSkipNames extends the fixed skip lists.
	ExtraSkipNames []string
}

// Scanner enumerates source trees into MediaFile records.
type Scanner struct {
	opts      Options
	logger    *slog.Logger
	mediaExts map[string]struct{}
	skipNames map[string]struct{}
}

// New constructs a scanner. A nil logger is replaced with a no-op logger.
func New(opts Options, logger *slog.Logger) *Scanner {
	mediaExts := make(map[string]struct{}, len(mediaExtensions)+len(opts.ExtraMediaExtensions))
	for ext := range mediaExtensions {
		mediaExts[ext] = struct{}{}
	}
	for _, ext := range opts.ExtraMediaExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		mediaExts[ext] = struct{}{}
	}
	skipNames := make(map[string]struct{}, len(opts.ExtraSkipNames))
	for _, name := range opts.ExtraSkipNames {
		if name = strings.TrimSpace(name); name != "" {
			skipNames[name] = struct{}{}
		}
	}
	return &Scanner{
		opts:      opts,
		logger:    logging.NewComponentLogger(logger, "scan"),
		mediaExts: mediaExts,
		skipNames: skipNames,
	}
}

// Scan walks every root and returns the filtered file list. Roots are walked
// in the order given and each walk is lexical, so output order is
// deterministic for identical inputs.
func (s *Scanner) Scan(ctx context.Context, roots []string) ([]MediaFile, error) {
	var files []MediaFile
	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve source root %q: %w", root, err)
		}
		rootFiles, err := s.scanRoot(ctx, absRoot)
		if err != nil {
			return nil, err
		}
		files = append(files, rootFiles...)
	}
	s.logger.Info("enumeration complete", logging.Int("files", len(files)), logging.Int("roots", len(roots)))
	return files, nil
}

func (s *Scanner) scanRoot(ctx context.Context, root string) ([]MediaFile, error) {
	var files []MediaFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if s.skipDir(name) {
				s.logger.Debug("skipping directory", logging.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if s.skipFile(name) {
			s.logger.Debug("skipping file", logging.String("path", path))
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %q: %w", path, err)
		}
		hidden := hasHiddenComponent(rel)
		if s.opts.ExcludeHidden && hidden {
			s.logger.Debug("skipping hidden path", logging.String("path", path))
			return nil
		}

		ext := strings.ToLower(filepath.Ext(name))
		if s.opts.MediaOnly {
			if _, ok := s.mediaExts[ext]; !ok {
				s.logger.Debug("skipping non-media file", logging.String("path", path))
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %q: %w", path, err)
		}
		files = append(files, MediaFile{
			Path:    path,
			RelPath: rel,
			Size:    info.Size(),
			Ext:     ext,
			Hidden:  hidden,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}

func (s *Scanner) skipDir(name string) bool {
	if _, ok := skipDirectories[name]; ok {
		return true
	}
	if _, ok := s.skipNames[name]; ok {
		return true
	}
	if s.opts.ExcludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return false
}

func (s *Scanner) skipFile(name string) bool {
	if _, ok := skipFiles[name]; ok {
		return true
	}
	_, ok := s.skipNames[name]
	return ok
}

func hasHiddenComponent(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}

// IsMediaExtension reports whether ext (with or without dot) belongs to the
// built-in media set.
func IsMediaExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	_, ok := mediaExtensions[ext]
	return ok
}
