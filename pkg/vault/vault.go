package vault

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mklimuk/marktask/pkg/tasks"
)

// Vault collects tasks from every markdown note under Root.
type Vault struct {
	Root   string
	Parser *tasks.Parser
	// Tag, when set, limits collection to notes carrying that frontmatter tag.
	Tag string
}

// New creates a Vault rooted at root.
func New(root string, parser *tasks.Parser) *Vault {
	if parser == nil {
		parser = tasks.NewParser(nil)
	}
	return &Vault{Root: root, Parser: parser}
}

// Tasks walks the vault in lexical path order. Hidden directories such as
// .git and .obsidian are skipped, as are notes that fail to parse.
func (v *Vault) Tasks(ctx context.Context) ([]tasks.Task, error) {
	info, err := os.Stat(v.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", v.Root, ErrNotDir)
	}

	var out []tasks.Task
	err = filepath.Walk(v.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() && path != v.Root && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if info.IsDir() || !IsNote(path) {
			return nil
		}

		note, err := ReadNote(path)
		if err != nil {
			log.Printf("vault: skipping %s: %v", path, err)
			return nil
		}
		out = append(out, v.NoteTasks(note)...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault: %w", err)
	}
	return out, nil
}

// NoteTasks parses the body of a single note, honouring the Tag
// restriction. Sources that do not read from the filesystem use it directly.
func (v *Vault) NoteTasks(note *Note) []tasks.Task {
	if v.Tag != "" && !hasTag(note.Tags(), v.Tag) {
		return nil
	}
	return v.Parser.Parse(note.Content)
}

// IsNote reports whether path names a markdown note.
func IsNote(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

func hasTag(tags []string, want string) bool {
	want = strings.TrimPrefix(want, "#")
	for _, t := range tags {
		if strings.TrimPrefix(t, "#") == want {
			return true
		}
	}
	return false
}
