package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfsum/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

// Parse produces one node per page. Page text is kept verbatim so that
// concatenating the nodes yields the document text in page order.
func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	pages, err := readPDFPages(data)
	if err != nil && p.FallbackPdftotext {
		if fbPages, fbErr := pdftotextPages(data); fbErr == nil {
			pages, err = fbPages, nil
		}
	}
	if err != nil {
		return nil, err
	}

	tree := &doctree.DocTree{
		Title: strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
	}
	for i, text := range pages {
		if text == "" {
			continue
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			Title: fmt.Sprintf("Page %d", i+1),
			Text:  text,
			Page:  i + 1,
		})
	}
	return tree, nil
}

// readPDFPages returns the plain text of every page, in order. Null pages
// yield an empty string. The library panics on some malformed inputs; those
// panics are reported as errors.
func readPDFPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	pages = make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages[i-1] = text
	}
	return pages, nil
}

// pdftotextPages shells out to pdftotext, which separates pages with form feeds.
func pdftotextPages(data []byte) ([]string, error) {
	// pdftotext reads from a path, so spill to a temp file.
	tmp, err := os.CreateTemp("", "pdfsum-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", "-layout", tmpPath, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	pages := strings.Split(string(out), "\f")
	// pdftotext terminates the last page with a form feed as well.
	if n := len(pages); n > 0 && pages[n-1] == "" {
		pages = pages[:n-1]
	}
	return pages, nil
}
