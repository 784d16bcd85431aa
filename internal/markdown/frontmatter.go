package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML metadata block at the top of a post.
type Frontmatter struct {
	Title   string   `yaml:"title,omitempty"`
	Author  string   `yaml:"author,omitempty"`
	Date    string   `yaml:"date,omitempty"`
	Summary string   `yaml:"summary,omitempty"`
	Status  string   `yaml:"status,omitempty"`
	Note    string   `yaml:"note,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
}

const delimiter = "---"

// ParseFrontmatter splits content into its frontmatter and body.
// Content that does not open with --- on its first line, or whose block is
// never closed, has no frontmatter and is returned whole as the body.
func ParseFrontmatter(content []byte) (*Frontmatter, []byte, error) {
	lines := bytes.SplitAfter(content, []byte("\n"))
	if len(lines) == 0 || string(bytes.TrimSpace(lines[0])) != delimiter {
		return nil, content, nil
	}

	offset := len(lines[0])
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if string(bytes.TrimSpace(line)) == delimiter {
			raw := content[len(lines[0]):offset]
			fm := &Frontmatter{}
			if err := yaml.Unmarshal(raw, fm); err != nil {
				return nil, content, fmt.Errorf("parse frontmatter: %w", err)
			}
			return fm, content[offset+len(line):], nil
		}
		offset += len(line)
	}

	return nil, content, nil // unclosed frontmatter
}

// Encode renders the frontmatter as a --- delimited YAML block.
func (fm *Frontmatter) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}

	buf.WriteString(delimiter + "\n")
	return buf.Bytes(), nil
}
