// Package artifact persists model artifacts as JSON files on local disk.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"insight_server/core/port/out"
	"insight_server/pkg/logger"
	"insight_server/pkg/mlkit"

	"github.com/goccy/go-json"
)

const (
	vectorizerFile = "vectorizer.json"
	classifierFile = "classifier.json"
)

// FileStore loads and saves model artifacts under a single directory.
// Absent files are not errors; loaders return (nil, nil).
type FileStore struct {
	dir string
	log *logger.Logger
}

var _ out.ArtifactStore = (*FileStore)(nil)

// NewFileStore creates the store and its directory.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "artifacts"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &FileStore{
		dir: dir,
		log: logger.Default().WithField("adapter", "artifact"),
	}, nil
}

// LoadVectorizer reads the persisted TF-IDF vectorizer, if any.
func (s *FileStore) LoadVectorizer(_ context.Context) (*mlkit.TfidfVectorizer, error) {
	var vectorizer mlkit.TfidfVectorizer
	found, err := s.load(vectorizerFile, &vectorizer)
	if err != nil || !found {
		return nil, err
	}
	return &vectorizer, nil
}

// SaveVectorizer writes the fitted vectorizer atomically.
func (s *FileStore) SaveVectorizer(_ context.Context, vectorizer *mlkit.TfidfVectorizer) error {
	data, err := json.Marshal(vectorizer)
	if err != nil {
		return fmt.Errorf("marshal vectorizer: %w", err)
	}
	path := filepath.Join(s.dir, vectorizerFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write vectorizer: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename vectorizer: %w", err)
	}
	s.log.WithField("path", path).Info("vectorizer artifact saved")
	return nil
}

// LoadClassifier reads the persisted linear classifier, if any. A present
// but malformed artifact is an error; the caller decides how to degrade.
func (s *FileStore) LoadClassifier(_ context.Context) (*mlkit.LinearModel, error) {
	var model mlkit.LinearModel
	found, err := s.load(classifierFile, &model)
	if err != nil || !found {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("classifier artifact invalid: %w", err)
	}
	return &model, nil
}

func (s *FileStore) load(name string, dest any) (bool, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read artifact %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode artifact %s: %w", name, err)
	}
	return true, nil
}
