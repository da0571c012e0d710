package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfsum/internal/doctree"
)

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// Options tunes parser behavior.
type Options struct {
	// PDFFallbackPdftotext retries failed PDF reads with the pdftotext binary.
	PDFFallbackPdftotext bool
}

type format struct {
	label string
	sep   string // joins node texts when flattening
	new   func(Options) Parser
}

var formats = map[string]format{
	".pdf": {label: "PDF", sep: "", new: func(o Options) Parser {
		return &PDFParser{FallbackPdftotext: o.PDFFallbackPdftotext}
	}},
	".docx":     {label: "DOCX", sep: "\n\n", new: func(Options) Parser { return &DOCXParser{} }},
	".md":       {label: "Markdown", sep: "\n\n", new: func(Options) Parser { return &MarkdownParser{} }},
	".markdown": {label: "Markdown", sep: "\n\n", new: func(Options) Parser { return &MarkdownParser{} }},
	".html":     {label: "HTML", sep: "\n\n", new: func(Options) Parser { return &HTMLParser{} }},
	".htm":      {label: "HTML", sep: "\n\n", new: func(Options) Parser { return &HTMLParser{} }},
	".csv":      {label: "CSV", sep: "\n", new: func(Options) Parser { return &CSVParser{} }},
	".txt":      {label: "text", sep: "\n\n", new: func(Options) Parser { return &TextParser{} }},
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	f, ok := formats[ext(filename)]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
	return f.new(opts), nil
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, ok := formats[ext(filename)]
	return ok
}

// FormatLabel names the document format for messages, e.g. "PDF".
func FormatLabel(filename string) string {
	return lookup(filename).label
}

// ExtractText parses r and flattens the tree. PDF pages are concatenated in
// order with no separator; other formats join blocks with blank lines.
// Files without a known extension are read as PDF.
func ExtractText(r io.Reader, filename string, opts Options) (string, error) {
	f := lookup(filename)
	tree, err := f.new(opts).Parse(r, filepath.Base(filename))
	if err != nil {
		return "", err
	}
	return tree.Text(f.sep), nil
}

// ExtractFile opens path and extracts its text. The file is closed before
// ExtractFile returns.
func ExtractFile(path string, opts Options) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ExtractText(f, path, opts)
}

func lookup(filename string) format {
	if f, ok := formats[ext(filename)]; ok {
		return f
	}
	return formats[".pdf"]
}

func ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// sections accumulates heading-delimited blocks as a flat list of nodes. The
// heading text leads each node's Text so flattened output keeps it.
type sections struct {
	tree    *doctree.DocTree
	current *doctree.DocNode
}

func newSections(title string) *sections {
	return &sections{tree: &doctree.DocTree{Title: title}}
}

func (s *sections) heading(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	s.current = &doctree.DocNode{Title: title, Text: title}
	s.tree.Children = append(s.tree.Children, s.current)
}

func (s *sections) block(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if s.current == nil {
		s.current = &doctree.DocNode{}
		s.tree.Children = append(s.tree.Children, s.current)
	}
	if s.current.Text != "" {
		s.current.Text += "\n\n"
	}
	s.current.Text += text
}
