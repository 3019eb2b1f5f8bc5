package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects on disk under a base directory and serves them through signed links.
type LocalStore struct {
	baseDir string
	baseURL string
	signer  *SignedURLSigner
}

// NewLocalStore ensures the base directory exists and returns a handle. Download links are
// rendered as "<baseURL>/files/<token>".
func NewLocalStore(baseDir, baseURL string, signer *SignedURLSigner) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if signer == nil {
		return nil, fmt.Errorf("local storage requires a url signer")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/"), signer: signer}, nil
}

// Put writes data to key under the base directory.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	url, err := s.URL(key)
	if err != nil {
		return nil, err
	}
	return &Object{Key: key, URL: url, ContentType: contentType, Size: len(data)}, nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// URL returns a freshly signed download link for key.
func (s *LocalStore) URL(key string) (string, error) {
	token, _, err := s.signer.Generate(key)
	if err != nil {
		return "", fmt.Errorf("sign download url: %w", err)
	}
	return s.baseURL + "/files/" + token, nil
}

// Open validates a download token and opens the file it refers to.
func (s *LocalStore) Open(token string) (*os.File, string, error) {
	key, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", err
	}
	path, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("open upload file: %w", err)
	}
	return file, key, nil
}

// resolve maps a key to a path, refusing keys that escape the base directory.
func (s *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.baseDir, clean), nil
}
