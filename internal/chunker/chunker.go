package chunker

import (
	"unicode/utf8"

	"github.com/dgallion1/pdfsum/internal/doctree"
)

// DefaultChunkSize is the chunk length, in characters, used when none is given.
const DefaultChunkSize = 1000

// Split cuts text into contiguous, non-overlapping chunks of size characters.
// Boundaries are purely positional and may fall mid-word or mid-sentence; only
// the last chunk may be shorter. Characters are runes, so a multi-byte UTF-8
// sequence is never split. Concatenating the chunk texts reproduces text.
func Split(text string, size int) []doctree.Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if text == "" {
		return nil
	}

	chunks := make([]doctree.Chunk, 0, Count(text, size))
	start, runes, offset := 0, 0, 0
	for i := range text {
		if runes == size {
			chunks = append(chunks, doctree.Chunk{
				Text:   text[start:i],
				Index:  len(chunks),
				Offset: offset,
			})
			offset += runes
			start, runes = i, 0
		}
		runes++
	}
	chunks = append(chunks, doctree.Chunk{
		Text:   text[start:],
		Index:  len(chunks),
		Offset: offset,
	})
	return chunks
}

// Count returns ceil(L/size) where L is the rune length of text.
func Count(text string, size int) int {
	if size <= 0 {
		size = DefaultChunkSize
	}
	n := utf8.RuneCountInString(text)
	return (n + size - 1) / size
}
