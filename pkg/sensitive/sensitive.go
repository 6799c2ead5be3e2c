package sensitive

import (
	"fmt"
	"path/filepath"

	"github.com/importcjj/sensitive"
)

const SensitiveROOT = "resources/sensitive/"

type SensitiveType string

const (
	FILE_VIOLENCE SensitiveType = "violence.txt"
	FILE_ADULT    SensitiveType = "adult.txt"
	ALL_FILE      SensitiveType = "all_sensitive.txt"
)

// Word wraps the sensitive-word trie used to keep stored summaries clean.
type Word struct {
	Filter *sensitive.Filter
}

// NewWord builds a filter from one of the bundled wordlist files under root.
// An empty root falls back to SensitiveROOT.
func NewWord(root string, t SensitiveType) (*Word, error) {
	filter := sensitive.New()

	if root == "" {
		root = SensitiveROOT
	}

	loadFile := filepath.Join(root, string(ALL_FILE))
	switch t {
	case FILE_VIOLENCE:
		loadFile = filepath.Join(root, string(FILE_VIOLENCE))
	case FILE_ADULT:
		loadFile = filepath.Join(root, string(FILE_ADULT))
	case ALL_FILE:
		loadFile = filepath.Join(root, string(ALL_FILE))
	}

	if err := filter.LoadWordDict(loadFile); err != nil {
		return nil, fmt.Errorf("load wordlist %s: %w", loadFile, err)
	}

	return &Word{Filter: filter}, nil
}

// Mask replaces every listed word in text with '*' runes.
func (w *Word) Mask(text string) string {
	return w.Filter.Replace(text, '*')
}

// Validate reports whether text is free of listed words; when it is not, the
// first offending word is returned.
func (w *Word) Validate(text string) (bool, string) {
	return w.Filter.Validate(text)
}
