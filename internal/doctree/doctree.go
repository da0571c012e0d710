package doctree

import "strings"

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections, or pages for PDFs
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// Text flattens the tree depth-first, joining non-empty node texts with sep.
func (t *DocTree) Text(sep string) string {
	var sb strings.Builder
	first := true
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Text != "" {
				if !first {
					sb.WriteString(sep)
				}
				sb.WriteString(n.Text)
				first = false
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return sb.String()
}

// Chunk is a fixed-size slice of extracted document text.
type Chunk struct {
	Text   string // Chunk text content
	Index  int    // Sequence number within the document
	Offset int    // Rune offset of Text within the source text
}
