package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfsum/internal/doctree"
)

// CSVParser handles CSV files. Each data row becomes one line of
// "header: value" pairs so the columns stay readable once flattened.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{
		Title: strings.TrimSuffix(filename, filepath.Ext(filename)),
	}
	if len(records) == 0 {
		return tree, nil
	}

	headers := records[0]
	for i, row := range records[1:] {
		pairs := make([]string, 0, len(row))
		for j, cell := range row {
			if j < len(headers) && headers[j] != "" {
				pairs = append(pairs, headers[j]+": "+cell)
			} else {
				pairs = append(pairs, cell)
			}
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			Title: fmt.Sprintf("Row %d", i+2), // 1-indexed, header is row 1
			Text:  strings.Join(pairs, ", "),
		})
	}
	return tree, nil
}
