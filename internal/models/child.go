package models

import (
	"strings"

	"github.com/ternarybob/paraulins/internal/common"
)

// Child is a tracked person owning a vocabulary of words. Names are unique
// across the store (case-sensitive exact match); uniqueness is enforced by
// the document store's whole-child replace.
type Child struct {
	Name  string `json:"name"`
	Words []Word `json:"words"`
}

// NewChild creates a child with an empty vocabulary. The name must be
// non-empty after trimming surrounding whitespace; the trimmed form is what
// gets stored.
func NewChild(name string) (Child, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Child{}, common.WrapError(common.ErrValidation, "child name cannot be empty", nil)
	}
	return Child{Name: name, Words: []Word{}}, nil
}

// AddWord appends a word to the vocabulary. Adding a word whose text
// exactly matches an existing one is a silent no-op; callers that need a
// conflict surface the duplicate before calling this.
func (c *Child) AddWord(word Word) {
	for _, w := range c.Words {
		if w.Text == word.Text {
			return
		}
	}
	c.Words = append(c.Words, word)
}

// GetWord returns a pointer to the word with exactly matching text, or nil.
// The pointer aliases the child's slice so mutations stick.
func (c *Child) GetWord(text string) *Word {
	for i := range c.Words {
		if c.Words[i].Text == text {
			return &c.Words[i]
		}
	}
	return nil
}

// RemoveWord deletes the word with exactly matching text and reports
// whether a match existed.
func (c *Child) RemoveWord(text string) bool {
	for i := range c.Words {
		if c.Words[i].Text == text {
			c.Words = append(c.Words[:i], c.Words[i+1:]...)
			return true
		}
	}
	return false
}

// ToMap converts the child to its plain-mapping representation.
func (c *Child) ToMap() map[string]interface{} {
	words := make([]interface{}, 0, len(c.Words))
	for i := range c.Words {
		words = append(words, c.Words[i].ToMap())
	}
	return map[string]interface{}{
		"name":  c.Name,
		"words": words,
	}
}

// ChildFromMap builds a Child from its plain-mapping representation.
func ChildFromMap(data map[string]interface{}) (Child, error) {
	name, _ := data["name"].(string)
	child, err := NewChild(name)
	if err != nil {
		return Child{}, err
	}
	if list, ok := data["words"].([]interface{}); ok {
		for _, entry := range list {
			wordData, ok := entry.(map[string]interface{})
			if !ok {
				return Child{}, common.WrapError(common.ErrValidation, "word entry is not a mapping", nil)
			}
			word, err := WordFromMap(wordData)
			if err != nil {
				return Child{}, err
			}
			child.AddWord(word)
		}
	}
	return child, nil
}
