package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/pdfsum/internal/pdftest"
)

func TestForFile_Extensions(t *testing.T) {
	supported := []string{"a.pdf", "A.PDF", "b.docx", "c.md", "d.markdown", "e.html", "f.htm", "g.csv", "h.txt"}
	for _, name := range supported {
		if !IsSupportedExtension(name) {
			t.Errorf("expected %q to be supported", name)
		}
		if _, err := ForFile(name, Options{}); err != nil {
			t.Errorf("ForFile(%q): unexpected error %v", name, err)
		}
	}
	for _, name := range []string{"x.exe", "noext", "y.doc"} {
		if IsSupportedExtension(name) {
			t.Errorf("expected %q to be unsupported", name)
		}
		if _, err := ForFile(name, Options{}); err == nil {
			t.Errorf("ForFile(%q): expected error", name)
		}
	}
}

func TestForFile_PDFOptions(t *testing.T) {
	p, err := ForFile("doc.pdf", Options{PDFFallbackPdftotext: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pdf, ok := p.(*PDFParser)
	if !ok {
		t.Fatalf("expected *PDFParser, got %T", p)
	}
	if !pdf.FallbackPdftotext {
		t.Error("expected fallback option to be carried through")
	}
}

func TestFormatLabel(t *testing.T) {
	tests := map[string]string{
		"doc.pdf":   "PDF",
		"doc.docx":  "DOCX",
		"doc.md":    "Markdown",
		"doc.htm":   "HTML",
		"doc.csv":   "CSV",
		"doc.txt":   "text",
		"upload-42": "PDF",
	}
	for name, want := range tests {
		if got := FormatLabel(name); got != want {
			t.Errorf("FormatLabel(%q): expected %q, got %q", name, want, got)
		}
	}
}

func TestExtractText_PDFPagesConcatenatedWithoutSeparator(t *testing.T) {
	data := pdftest.Build("Alpha.", "Beta.")
	text, err := ExtractText(strings.NewReader(string(data)), "doc.pdf", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Each page reads back as "\n" + text.
	if text != "\nAlpha.\nBeta." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestExtractText_TextJoinsParagraphs(t *testing.T) {
	text, err := ExtractText(strings.NewReader("one\n\n\ntwo"), "notes.txt", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "one\n\ntwo" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestExtractFile_UnknownExtensionReadAsPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload")
	if err := os.WriteFile(path, pdftest.Build("Hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	text, err := ExtractFile(path, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "\nHello" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "missing.pdf"), Options{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
