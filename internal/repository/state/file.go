package state

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"autoparts-storefront/internal/domain"
)

type fileRepo struct {
	dir string
}

// NewFile returns a Backend storing one file per key under dir.
func NewFile(dir string) (Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &fileRepo{dir: dir}, nil
}

func (r *fileRepo) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(r.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *fileRepo) Put(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(r.dir, ".state-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path(key))
}

func (r *fileRepo) Delete(_ context.Context, key string) error {
	err := os.Remove(r.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (r *fileRepo) Ping(context.Context) error {
	_, err := os.Stat(r.dir)
	return err
}

// Keys carry client ids and colons, so they are hex-encoded into file names.
func (r *fileRepo) path(key string) string {
	return filepath.Join(r.dir, hex.EncodeToString([]byte(key))+".json")
}
