package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Bucket is one flat directory of photos. Every operation flattens the given
// filename to its base name before building a path, so callers cannot reach
// outside the directory.
type Bucket struct {
	dir string
}

// Dir returns the directory backing this bucket.
func (b *Bucket) Dir() string { return b.dir }

// Save writes data under the sanitized filename, replacing any existing file
// of the same name.
func (b *Bucket) Save(filename string, data []byte) error {
	name, err := CleanName(filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(b.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

// Read returns the contents of a stored file.
func (b *Bucket) Read(filename string) ([]byte, error) {
	name, err := CleanName(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(b.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Path resolves a stored file to its full path, verifying it exists.
func (b *Bucket) Path(filename string) (string, error) {
	name, err := CleanName(filename)
	if err != nil {
		return "", err
	}
	full := filepath.Join(b.dir, name)
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return full, nil
}

// Delete removes a stored file.
func (b *Bucket) Delete(filename string) error {
	name, err := CleanName(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(b.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// List returns the regular files in the bucket, sorted by name.
func (b *Bucket) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", b.dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info, likely by the sweeper.
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// CleanName reports the name a file is stored under: the base name of the
// given filename, with surrounding whitespace removed.
func CleanName(filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, filename)
	}
	return name, nil
}
