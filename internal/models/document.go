package models

// Document is the root persisted structure: the full ordered collection of
// children. Children own their words which own their recordings; there are
// no shared or back references.
type Document struct {
	Children []Child `json:"children"`
}

// NewDocument returns an empty document, the state a first run starts from.
func NewDocument() *Document {
	return &Document{Children: []Child{}}
}

// Normalize repairs shapes produced by older persisted documents so the
// in-memory invariants hold: nil slices become empty, and recordings that
// predate month/day tracking default those fields to 1.
func (d *Document) Normalize() {
	if d.Children == nil {
		d.Children = []Child{}
	}
	for ci := range d.Children {
		child := &d.Children[ci]
		if child.Words == nil {
			child.Words = []Word{}
		}
		for wi := range child.Words {
			word := &child.Words[wi]
			if word.Recordings == nil {
				word.Recordings = []Recording{}
			}
			for ri := range word.Recordings {
				rec := &word.Recordings[ri]
				if rec.Month == 0 {
					rec.Month = 1
				}
				if rec.Day == 0 {
					rec.Day = 1
				}
			}
		}
	}
}
