package vault

import "errors"

// ErrNotDir is returned when the vault root is not a directory.
var ErrNotDir = errors.New("vault root is not a directory")

// Note represents a parsed markdown note
type Note struct {
	Path        string
	Frontmatter map[string]interface{}
	Content     string // The markdown content after frontmatter
}
