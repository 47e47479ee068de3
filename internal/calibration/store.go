package calibration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by a Store that holds no record yet.
var ErrNotFound = errors.New("calibration record not found")

// Store persists one calibration record. Writes are last-writer-wins.
type Store interface {
	Load(ctx context.Context) (Model, error)
	Save(ctx context.Context, m Model) error
	Kind() string
}

// FileStore keeps the record in a single file, YAML when the extension is
// .yaml or .yml and JSON otherwise. Saves write a temp file in the same
// directory and rename it over the target.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file need not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Kind implements Store.
func (s *FileStore) Kind() string { return "file" }

func (s *FileStore) yaml() bool {
	ext := strings.ToLower(filepath.Ext(s.path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the record. A missing file is ErrNotFound.
func (s *FileStore) Load(_ context.Context) (Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Model{}, ErrNotFound
	}
	if err != nil {
		return Model{}, fmt.Errorf("read calibration: %w", err)
	}
	var m Model
	if s.yaml() {
		err = yaml.Unmarshal(data, &m)
	} else {
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return Model{}, fmt.Errorf("decode calibration %s: %w", s.path, err)
	}
	return m, nil
}

// Save atomically replaces the record.
func (s *FileStore) Save(_ context.Context, m Model) error {
	var (
		data []byte
		err  error
	)
	if s.yaml() {
		data, err = yaml.Marshal(m)
	} else {
		data, err = json.MarshalIndent(m, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode calibration: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("calibration dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".calibration-*")
	if err != nil {
		return fmt.Errorf("calibration temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write calibration: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close calibration: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename calibration: %w", err)
	}
	return nil
}
