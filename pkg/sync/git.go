package sync

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/mklimuk/marktask/pkg/tasks"
	"github.com/mklimuk/marktask/pkg/vault"
)

// GitSource reads vault tasks as they were committed at a revision.
// The working tree is never touched.
type GitSource struct {
	RepoPath string
	Revision string
	Vault    *vault.Vault
}

// NewGitSource creates a GitSource. An empty revision means HEAD.
func NewGitSource(repoPath, revision string, v *vault.Vault) *GitSource {
	if revision == "" {
		revision = "HEAD"
	}
	if v == nil {
		v = vault.New(repoPath, nil)
	}
	return &GitSource{RepoPath: repoPath, Revision: revision, Vault: v}
}

// Tasks parses every markdown blob in the revision's tree, in path order.
func (g *GitSource) Tasks(ctx context.Context) ([]tasks.Task, error) {
	r, err := git.PlainOpen(g.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repo: %w", err)
	}

	hash, err := r.ResolveRevision(plumbing.Revision(g.Revision))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", g.Revision, err)
	}

	commit, err := r.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree: %w", err)
	}

	var files []*object.File
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if vault.IsNote(f.Name) && !hidden(f.Name) {
			files = append(files, f)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk tree: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var out []tasks.Task
	for _, f := range files {
		contents, err := f.Contents()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		note, err := vault.ParseNote(f.Name, []byte(contents))
		if err != nil {
			log.Printf("git: skipping %s at %s: %v", f.Name, g.Revision, err)
			continue
		}
		out = append(out, g.Vault.NoteTasks(note)...)
	}
	return out, nil
}

// hidden reports whether any path segment starts with a dot.
func hidden(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
