package parser

import (
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dgallion1/pdfsum/internal/doctree"
)

// TextParser handles plain text files.
type TextParser struct{}

var blankLines = regexp.MustCompile(`\n[ \t]*\n\s*`)

// Parse splits on blank lines; each paragraph becomes a node.
func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	tree := &doctree.DocTree{
		Title: strings.TrimSuffix(filename, filepath.Ext(filename)),
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	for _, para := range blankLines.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		tree.Children = append(tree.Children, &doctree.DocNode{Text: para})
	}
	return tree, nil
}
