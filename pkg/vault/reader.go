package vault

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadNote reads a markdown file and parses its frontmatter and content
func ReadNote(path string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseNote(path, data)
}

// ParseNote splits data into YAML frontmatter and markdown body.
// Frontmatter is only recognised when the first line is "---".
func ParseNote(path string, data []byte) (*Note, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var frontmatterLines []string
	var contentLines []string
	inFrontmatter := false
	lineCount := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineCount++

		if lineCount == 1 && strings.TrimSuffix(line, "\r") == "---" {
			inFrontmatter = true
			continue
		}

		if inFrontmatter {
			if strings.TrimSuffix(line, "\r") == "---" {
				inFrontmatter = false
				continue
			}
			frontmatterLines = append(frontmatterLines, line)
		} else {
			contentLines = append(contentLines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// An unterminated block is body text, not frontmatter.
	if inFrontmatter {
		contentLines = append(append([]string{"---"}, frontmatterLines...), contentLines...)
		frontmatterLines = nil
	}

	var fm map[string]interface{}
	if fmData := strings.Join(frontmatterLines, "\n"); len(fmData) > 0 {
		if err := yaml.Unmarshal([]byte(fmData), &fm); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}

	return &Note{
		Path:        path,
		Frontmatter: fm,
		Content:     strings.Join(contentLines, "\n"),
	}, nil
}

// Tags returns the frontmatter "tags" list, accepting a YAML list or a
// single string.
func (n *Note) Tags() []string {
	switch v := n.Frontmatter["tags"].(type) {
	case string:
		return []string{v}
	case []interface{}:
		var tags []string
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}
