// Package fileingest discovers note files under a directory tree.
package fileingest

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultExtensions are the file types imported as notes.
var DefaultExtensions = []string{".md", ".markdown", ".txt", ".html"}

// FileMeta holds metadata about a file to be ingested.
type FileMeta struct {
	Path    string
	Name    string
	Title   string // Name without extension
	Size    int64
	ModTime time.Time
}

// Discover walks rootDir and returns the files whose extension is in exts,
// sorted by path. Hidden files and directories are skipped, as are
// directories that cannot be read. An empty exts uses DefaultExtensions.
func Discover(ctx context.Context, rootDir string, exts []string) ([]FileMeta, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = struct{}{}
	}

	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New(rootDir + " is not a directory")
	}

	var files []FileMeta
	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) && d != nil && d.IsDir() {
				log.Warnf("Skipping unreadable directory %s", path)
				return filepath.SkipDir
			}
			return walkErr
		}
		if path == rootDir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			return nil
		}
		meta, err := ExtractFileMeta(path)
		if err != nil {
			log.Debugf("Skipping %s: %v", path, err)
			return nil
		}
		files = append(files, meta)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ExtractFileMeta stats path.
func ExtractFileMeta(path string) (FileMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileMeta{}, err
	}
	name := info.Name()
	title := strings.TrimSuffix(name, filepath.Ext(name))
	if title == "" {
		title = name
	}
	return FileMeta{
		Path:    path,
		Name:    name,
		Title:   title,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
