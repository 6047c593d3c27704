package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/jhoicas/storefront-client/internal/domain/repository"
)

var _ repository.KeyValueStore = (*FileStore)(nil)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore guarda cada clave en un archivo <dir>/<prefix><key>.json.
// Las escrituras son atómicas (archivo temporal + rename) para que un corte
// a mitad de escritura no deje JSON truncado.
type FileStore struct {
	dir    string
	prefix string
	mu     sync.Mutex
}

// NewFileStore crea el directorio si no existe.
func NewFileStore(dir, prefix string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: directorio vacío")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file store: crear %s: %w", dir, err)
	}
	return &FileStore{dir: dir, prefix: prefix}, nil
}

func (s *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("file store: clave inválida %q", key)
	}
	return filepath.Join(s.dir, s.prefix+key+".json"), nil
}

// Get lee la clave; nil si no existe.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store: leer %s: %w", key, err)
	}
	return b, nil
}

// Set escribe la clave completa.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+key+"-*")
	if err != nil {
		return fmt.Errorf("file store: temporal: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file store: escribir %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file store: cerrar %s: %w", key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file store: reemplazar %s: %w", key, err)
	}
	return nil
}

// Remove borra la clave; no falla si no existe.
func (s *FileStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file store: borrar %s: %w", key, err)
	}
	return nil
}
