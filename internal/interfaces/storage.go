package interfaces

import (
	"github.com/ternarybob/paraulins/internal/models"
)

// ChildStore is the persistence contract for the children document. The
// unit of persistence is the whole child: callers read-modify-write a fully
// mutated Child, never a delta.
type ChildStore interface {
	// Load returns the whole persisted document. A missing or unparseable
	// file yields an empty document, never an error.
	Load() (*models.Document, error)

	// Save serializes and overwrites the persisted document atomically.
	Save(doc *models.Document) error

	// Children returns every child in the document.
	Children() ([]models.Child, error)

	// Child returns the child with the exact name, or nil if absent.
	Child(name string) (*models.Child, error)

	// SaveChild replaces any same-named child with the given one.
	SaveChild(child models.Child) error

	// DeleteChild removes the named child and reports whether it existed.
	DeleteChild(name string) (bool, error)
}
