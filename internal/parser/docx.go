package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfsum/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files.
type DOCXParser struct{}

// Parse starts a section at each paragraph styled as a heading.
func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	s := newSections(strings.TrimSuffix(filename, filepath.Ext(filename)))
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if isDocxHeading(para) {
			s.heading(text)
		} else {
			s.block(text)
		}
	}
	return s.tree, nil
}

// isDocxHeading matches both style ids ("Heading1") and names ("heading 1").
func isDocxHeading(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	return style == "title" || strings.HasPrefix(style, "heading")
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch rc := rc.(type) {
			case *docx.Text:
				buf.WriteString(rc.Text)
			case *docx.Tab:
				buf.WriteByte('\t')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
