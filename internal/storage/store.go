package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/paraulins/internal/interfaces"
	"github.com/ternarybob/paraulins/internal/models"
)

// Store persists the whole children document as a single JSON file. Every
// mutation is a full read-modify-write of the document, serialized through
// one mutex so interleaved SaveChild calls cannot drop an update. The
// on-disk shape is exactly the wire format the web client and older
// installs expect.
type Store struct {
	path   string
	logger arbor.ILogger
	mu     sync.Mutex
}

// NewStore creates a document store over the given file path, creating an
// empty document if none exists yet.
func NewStore(path string, logger arbor.ILogger) (interfaces.ChildStore, error) {
	s := &Store{
		path:   path,
		logger: logger,
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(models.NewDocument()); err != nil {
			return nil, fmt.Errorf("failed to initialize data file: %w", err)
		}
	}
	return s, nil
}

// Load returns the whole persisted document. A missing or corrupt file is
// treated as a first run: the caller gets an empty document, and corruption
// is warn-logged so the condition stays observable.
func (s *Store) Load() (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *Store) load() *models.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Data file unreadable, starting empty")
		}
		return models.NewDocument()
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Data file unparseable, starting empty")
		return models.NewDocument()
	}

	doc.Normalize()
	return &doc
}

// Save overwrites the persisted document. The document is fully serialized
// first and swapped in with a rename, so a load never observes a partial
// write.
func (s *Store) Save(doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

func (s *Store) save(doc *models.Document) error {
	doc.Normalize()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".data-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// Children returns every child in the document.
func (s *Store) Children() ([]models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Children, nil
}

// Child returns the child with the exact name, or nil if absent.
func (s *Store) Child(name string) (*models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	for i := range doc.Children {
		if doc.Children[i].Name == name {
			return &doc.Children[i], nil
		}
	}
	return nil, nil
}

// SaveChild replaces any same-named child with the given fully mutated one
// and persists the document. This is a whole-child replace; name equality
// is exact and case-sensitive.
func (s *Store) SaveChild(child models.Child) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	kept := doc.Children[:0]
	for _, c := range doc.Children {
		if c.Name != child.Name {
			kept = append(kept, c)
		}
	}
	doc.Children = append(kept, child)

	if err := s.save(doc); err != nil {
		return fmt.Errorf("failed to save child %s: %w", child.Name, err)
	}
	return nil
}

// DeleteChild removes the named child. The document is only rewritten when
// a removal actually occurred.
func (s *Store) DeleteChild(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	kept := doc.Children[:0]
	removed := false
	for _, c := range doc.Children {
		if c.Name == name {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return false, nil
	}

	doc.Children = kept
	if err := s.save(doc); err != nil {
		return false, fmt.Errorf("failed to delete child %s: %w", name, err)
	}
	return true, nil
}
