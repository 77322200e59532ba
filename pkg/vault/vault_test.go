package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mklimuk/marktask/pkg/dates"
	"github.com/mklimuk/marktask/pkg/tasks"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParseNote(t *testing.T) {
	data := "---\ncreated: 2024-01-01\ntags:\n  - work\n  - go\n---\n# Title\n- [ ] Write tests\n"

	note, err := ParseNote("note.md", []byte(data))
	if err != nil {
		t.Fatalf("ParseNote: %v", err)
	}
	if note.Frontmatter["created"] == nil {
		t.Errorf("expected created in frontmatter, got %v", note.Frontmatter)
	}
	if tags := note.Tags(); len(tags) != 2 || tags[0] != "work" {
		t.Errorf("tags = %v", tags)
	}
	if note.Content != "# Title\n- [ ] Write tests" {
		t.Errorf("content = %q", note.Content)
	}
}

func TestParseNoteWithoutFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		content string
	}{
		{"plain body", "- [ ] a\n- [x] b", "- [ ] a\n- [x] b"},
		{"rule later in file", "text\n---\nmore", "text\n---\nmore"},
		{"unterminated block", "---\n- [ ] a", "---\n- [ ] a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := ParseNote("n.md", []byte(tt.data))
			if err != nil {
				t.Fatalf("ParseNote: %v", err)
			}
			if note.Frontmatter != nil {
				t.Errorf("frontmatter = %v, want nil", note.Frontmatter)
			}
			if note.Content != tt.content {
				t.Errorf("content = %q, want %q", note.Content, tt.content)
			}
		})
	}
}

func TestParseNoteBadFrontmatter(t *testing.T) {
	if _, err := ParseNote("bad.md", []byte("---\n: : :\n  - [\n---\nbody")); err == nil {
		t.Error("expected frontmatter error")
	}
}

func TestTagsSingleString(t *testing.T) {
	note := &Note{Frontmatter: map[string]interface{}{"tags": "inbox"}}
	if tags := note.Tags(); len(tags) != 1 || tags[0] != "inbox" {
		t.Errorf("tags = %v", tags)
	}
}

func TestVaultTasks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.md"), "- [ ] second note task")
	writeFile(t, filepath.Join(root, "a.md"), "---\ntags: [home]\n---\n- [x] first note task\n- [ ] overdue 📅 2024-01-01")
	writeFile(t, filepath.Join(root, "sub", "c.MD"), "- [ ] nested task")
	writeFile(t, filepath.Join(root, "notes.txt"), "- [ ] not a note")
	writeFile(t, filepath.Join(root, ".obsidian", "x.md"), "- [ ] hidden")
	writeFile(t, filepath.Join(root, "broken.md"), "---\n: : :\n  - [\n---\n- [ ] skipped")

	clock := dates.FixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local))
	v := New(root, tasks.NewParser(clock))

	got, err := v.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}

	want := []string{"first note task", "overdue", "second note task", "nested task"}
	if len(got) != len(want) {
		t.Fatalf("got %d tasks %+v, want %d", len(got), got, len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("task %d = %q, want %q", i, got[i].Name, name)
		}
	}
	if !got[1].Overdue {
		t.Error("expected overdue task")
	}

	v.Tag = "#home"
	tagged, err := v.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks with tag: %v", err)
	}
	if len(tagged) != 2 {
		t.Errorf("tagged tasks = %d, want 2", len(tagged))
	}
}

func TestVaultNotDir(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.md")
	writeFile(t, file, "")

	_, err := New(file, nil).Tasks(context.Background())
	if !errors.Is(err, ErrNotDir) {
		t.Errorf("err = %v, want ErrNotDir", err)
	}

	if _, err := New(filepath.Join(root, "missing"), nil).Tasks(context.Background()); err == nil {
		t.Error("expected error for missing vault")
	}
}

func TestVaultCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "- [ ] a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(root, nil).Tasks(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
