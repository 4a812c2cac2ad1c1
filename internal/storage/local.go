package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/timmy/shotctl/internal/domain"
)

// LocalStorage writes captures to the local filesystem.
type LocalStorage struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// NewLocalStorage returns a LocalStorage using 0755 directories and 0644 files.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{dirPerm: 0o755, filePerm: 0o644}
}

// Save writes data to path, creating missing parent directories. An
// existing file is overwritten.
// Parameters:
//   - path: destination file.
//   - data: bytes to write.
// Returns:
//   - error: *domain.WriteError naming path on failure.
func (s *LocalStorage) Save(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, s.dirPerm); err != nil {
			return &domain.WriteError{Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, data, s.filePerm); err != nil {
		return &domain.WriteError{Path: path, Err: err}
	}
	return nil
}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true}

// ListImages returns the image files directly inside dir, newest first.
// Returns:
//   - []string: paths, ordered by modification time.
//   - error: *domain.ReadError when dir cannot be read.
func (s *LocalStorage) ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.ReadError{Path: dir, Err: err}
	}

	type found struct {
		path    string
		modTime int64
	}
	var images []found
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		images = append(images, found{filepath.Join(dir, e.Name()), info.ModTime().UnixNano()})
	}
	sort.SliceStable(images, func(i, j int) bool { return images[i].modTime > images[j].modTime })

	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.path
	}
	return paths, nil
}
