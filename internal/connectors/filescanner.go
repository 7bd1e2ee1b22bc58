package connectors

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type FileMeta struct {
	Path     string
	Size     int64
	Modified time.Time
}

type DiscoveryOptions struct {
	Recursive      bool
	MinSize        int64
	MaxSize        int64
	ModifiedAfter  time.Time
	ModifiedBefore time.Time
	Verbose        bool
}

// DiscoverFiles walks root and returns metadata for every file whose
// extension matches one of exts (case-insensitive, with or without the
// leading dot), subject to the size and modification-time filters.
func DiscoverFiles(root string, exts []string, options DiscoveryOptions) ([]FileMeta, error) {
	if root == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}

	stat, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext == "" {
			return nil, fmt.Errorf("file extension cannot be empty")
		}
		wanted["."+ext] = struct{}{}
	}

	var files []FileMeta
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if d.IsDir() {
			if path != root && !options.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("error getting file info for %s: %w", path, err)
		}

		if options.MinSize > 0 && info.Size() < options.MinSize {
			return nil
		}
		if options.MaxSize > 0 && info.Size() > options.MaxSize {
			return nil
		}
		if !options.ModifiedAfter.IsZero() && info.ModTime().Before(options.ModifiedAfter) {
			return nil
		}
		if !options.ModifiedBefore.IsZero() && info.ModTime().After(options.ModifiedBefore) {
			return nil
		}

		if options.Verbose {
			log.Printf("[INFO] discovered %s (%s)", path, humanize.Bytes(uint64(info.Size())))
		}
		files = append(files, FileMeta{
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, fmt.Errorf("directory walk error: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no matching files found in %s", root)
	}

	return files, nil
}
