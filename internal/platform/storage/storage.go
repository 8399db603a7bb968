// Package storage provides file storage for uploaded medical exam documents.
// It defines the FileStore interface, a disk-backed implementation, and an
// in-memory implementation suitable for testing.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrMissingFileName    = errors.New("file name is required")
)

// MaxFileSize is the maximum allowed upload size in bytes (10 MB).
const MaxFileSize = 10 * 1024 * 1024

// AllowedContentTypes lists accepted exam document MIME types.
var AllowedContentTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"application/pdf": true,
}

// FileStore defines the contract for upload storage backends.
type FileStore interface {
	Save(ctx context.Context, fileName, contentType string, size int64, content io.Reader) (string, error)
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)
	Delete(ctx context.Context, storedName string) error
}

// ValidateUpload checks an upload's name, declared size, and content type
// before any bytes are written.
func ValidateUpload(fileName, contentType string, size int64) error {
	if strings.TrimSpace(fileName) == "" {
		return ErrMissingFileName
	}
	if size > MaxFileSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, MaxFileSize)
	}
	if !AllowedContentTypes[contentType] {
		return fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}
	return nil
}

// DiskStore stores uploads as files under a base directory. Stored names are
// randomized so that user-supplied names never touch the filesystem.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates the base directory if needed and returns a DiskStore.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// Save writes the content to disk under a randomized name and returns that
// name. The original extension is preserved so downloads keep a sensible
// file type.
func (s *DiskStore) Save(ctx context.Context, fileName, contentType string, size int64, content io.Reader) (string, error) {
	if err := ValidateUpload(fileName, contentType, size); err != nil {
		return "", err
	}

	storedName, err := randomName(fileName)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.baseDir, storedName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(content, MaxFileSize+1))
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing file: %w", err)
	}
	if written > MaxFileSize {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	return storedName, nil
}

// Open returns the stored file's content for reading.
func (s *DiskStore) Open(ctx context.Context, storedName string) (io.ReadCloser, error) {
	if !validStoredName(storedName) {
		return nil, ErrFileNotFound
	}
	f, err := os.Open(filepath.Join(s.baseDir, storedName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

// Delete removes the stored file. Deleting a missing file is not an error.
func (s *DiskStore) Delete(ctx context.Context, storedName string) error {
	if !validStoredName(storedName) {
		return ErrFileNotFound
	}
	err := os.Remove(filepath.Join(s.baseDir, storedName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// validStoredName rejects anything that is not a bare randomized file name,
// which keeps path traversal out of the base directory.
func validStoredName(name string) bool {
	return name != "" && name == filepath.Base(name) && !strings.HasPrefix(name, ".")
}

// randomName generates a random hex name, keeping the original extension.
func randomName(fileName string) (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generating file name: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	return hex.EncodeToString(buf[:]) + ext, nil
}

// MemStore is an in-memory FileStore for tests.
type MemStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string][]byte)}
}

func (s *MemStore) Save(ctx context.Context, fileName, contentType string, size int64, content io.Reader) (string, error) {
	if err := ValidateUpload(fileName, contentType, size); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > MaxFileSize {
		return "", ErrFileTooLarge
	}
	storedName, err := randomName(fileName)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.files[storedName] = data
	s.mu.Unlock()
	return storedName, nil
}

func (s *MemStore) Open(ctx context.Context, storedName string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.files[storedName]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrFileNotFound
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (s *MemStore) Delete(ctx context.Context, storedName string) error {
	s.mu.Lock()
	delete(s.files, storedName)
	s.mu.Unlock()
	return nil
}
