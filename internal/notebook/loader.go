package notebook

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const checkpointDir = ".ipynb_checkpoints"

// LoaderConfig configures how notebooks are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the root directory where notebooks live.
	BasePath string
	// Pattern limits discovered files to those matching the supplied glob
	// (defaults to "*.ipynb").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into decoded notebook documents.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.ipynb"
	}

	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// NewOSLoader roots a loader at dir on the host filesystem.
func NewOSLoader(dir string, cfg LoaderConfig) *Loader {
	cfg.BasePath = "."
	return NewLoader(os.DirFS(dir), cfg)
}

// LoadFile reads and decodes a single notebook.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rel, err := l.makeRelative(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("notebook loader read %s: %w", rel, err)
	}

	return Decode(rel, data)
}

// Discover walks the configured filesystem and returns matching notebook
// paths in sorted order. Checkpoint copies are always skipped.
func (l *Loader) Discover(ctx context.Context, dir string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.ToSlash(filepath.Clean(root))

	var paths []string
	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == checkpointDir {
				return fs.SkipDir
			}
			if !l.recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		matched, err := filepath.Match(l.pattern, d.Name())
		if err != nil {
			return fmt.Errorf("notebook loader pattern %q: %w", l.pattern, err)
		}
		if matched {
			paths = append(paths, filepath.ToSlash(path))
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("notebook loader walk %s: %w", root, walkErr)
	}

	sort.Strings(paths)
	return paths, nil
}

func (l *Loader) makeRelative(path string) (string, error) {
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ".", nil
	}
	if l.basePath == "." || l.basePath == "" {
		return cleaned, nil
	}
	rel, err := filepath.Rel(l.basePath, cleaned)
	if err != nil {
		return "", fmt.Errorf("notebook loader resolve %s: %w", path, err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("notebook loader: %s escapes base path %s", path, l.basePath)
	}
	return rel, nil
}
