package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmrzaf/colgen/internal/schema"
)

var (
	ErrNotFound   = errors.New("schema not found")
	ErrOutsideDir = errors.New("schema path outside schemas directory")
)

type Repository interface {
	List() ([]*schema.Schema, error)
	Get(id string) (*schema.Schema, error)
	GetByPath(path string) (*schema.Schema, error)
}

// FileRepository serves schema files from one directory. Lookups by path are
// confined to that directory.
type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func (r *FileRepository) List() ([]*schema.Schema, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*schema.Schema{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}

	out := make([]*schema.Schema, 0)
	for _, entry := range entries {
		if entry.IsDir() || !isSchemaFile(entry.Name()) {
			continue
		}
		s, err := LoadFile(filepath.Join(r.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FileRepository) Get(id string) (*schema.Schema, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.ID == id || s.Name == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// GetByPath loads a schema file named relative to the directory, which
// also reaches files in subdirectories that List skips.
func (r *FileRepository) GetByPath(path string) (*schema.Schema, error) {
	full, err := r.confine(path)
	if err != nil {
		return nil, err
	}
	if !isSchemaFile(full) {
		return nil, fmt.Errorf("unsupported schema file %q", path)
	}
	s, err := LoadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return s, err
}

func (r *FileRepository) confine(path string) (string, error) {
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return "", err
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(base, full)
	}
	full = filepath.Clean(full)
	rel, err := filepath.Rel(base, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideDir, path)
	}
	return full, nil
}

func isSchemaFile(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadFile decodes a schema file by extension. A missing id defaults to the
// file name without extension.
func LoadFile(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s schema.Schema
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &s)
	} else {
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if s.ID == "" {
		s.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if s.Dialect == "" {
		s.Dialect = schema.DialectGoogleSQL
	}
	return &s, nil
}
