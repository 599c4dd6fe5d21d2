package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/getveil/veil/pkg/crypto"
	"github.com/getveil/veil/pkg/models"
)

const recordExtension = ".enc"

var _ models.MappingStore = &FileStore{}

// FileStore keeps one encrypted record per mapping key under a single
// directory.
type FileStore struct {
	dir   string
	key   []byte
	locks *keyedMutex
}

func NewFileStore(dir, secret string) (*FileStore, error) {
	if secret == "" {
		return nil, errors.New("mapping store encryption secret not set")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create mapping store directory: %w", err)
	}
	return &FileStore{
		dir:   dir,
		key:   crypto.DeriveKey(secret),
		locks: newKeyedMutex(),
	}, nil
}

func (s *FileStore) Put(_ context.Context, key string, mapping models.Mapping) error {
	path, err := s.recordPath(key)
	if err != nil {
		return err
	}
	plaintext, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to serialize mapping: %w", err)
	}
	record, err := crypto.Encrypt(plaintext, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt mapping: %w", err)
	}

	unlock := s.locks.lock(key)
	defer unlock()
	return os.WriteFile(path, record, 0o600)
}

func (s *FileStore) Get(_ context.Context, key string) (models.Mapping, error) {
	path, err := s.recordPath(key)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(key)
	record, err := os.ReadFile(path)
	unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.NewNotFoundError("mapping " + key)
		}
		return nil, err
	}

	plaintext, err := crypto.Decrypt(record, s.key)
	if err != nil {
		return nil, models.NewMappingCorruptError(key, err)
	}
	var mapping models.Mapping
	if err := json.Unmarshal(plaintext, &mapping); err != nil {
		return nil, models.NewMappingCorruptError(key, err)
	}
	return mapping, nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	path, err := s.recordPath(key)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(key)
	defer unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.NewNotFoundError("mapping " + key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExtension) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// recordPath rejects keys that could escape the store directory. Keys are
// expected to be UUIDs or similar opaque tokens.
func (s *FileStore) recordPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\.`) {
		return "", fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+recordExtension), nil
}
