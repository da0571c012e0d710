package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dgallion1/pdfsum/internal/doctree"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	text := "A short document that fits in one chunk."
	chunks := Split(text, 1000)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("expected chunk text %q, got %q", text, chunks[0].Text)
	}
	if chunks[0].Index != 0 || chunks[0].Offset != 0 {
		t.Errorf("expected index=0 offset=0, got index=%d offset=%d", chunks[0].Index, chunks[0].Offset)
	}
}

func TestSplit_ChunkCountAndLossless(t *testing.T) {
	tests := []struct {
		name   string
		length int
		size   int
		want   int
	}{
		{"exact multiple", 3000, 1000, 3},
		{"remainder", 2501, 1000, 3},
		{"one less than size", 999, 1000, 1},
		{"size one", 7, 1, 7},
		{"size larger than text", 10, 50, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text := strings.Repeat("abcdefghij", tc.length/10+1)[:tc.length]
			chunks := Split(text, tc.size)
			if len(chunks) != tc.want {
				t.Fatalf("expected %d chunks, got %d", tc.want, len(chunks))
			}
			if Count(text, tc.size) != tc.want {
				t.Errorf("expected Count=%d, got %d", tc.want, Count(text, tc.size))
			}

			if joined := strings.Join(texts(chunks), ""); joined != text {
				t.Errorf("concatenated chunks do not reproduce the input")
			}
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
				}
				if c.Offset != i*tc.size {
					t.Errorf("chunk %d: expected offset %d, got %d", i, i*tc.size, c.Offset)
				}
				n := utf8.RuneCountInString(c.Text)
				if i < len(chunks)-1 && n != tc.size {
					t.Errorf("chunk %d: expected %d runes, got %d", i, tc.size, n)
				}
				if n > tc.size || n == 0 {
					t.Errorf("chunk %d: length %d out of bounds", i, n)
				}
			}
		})
	}
}

func TestSplit_PositionalBoundaries(t *testing.T) {
	// Boundaries fall mid-word; no sentence awareness.
	chunks := Split("hello world", 4)
	want := []string{"hell", "o wo", "rld"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Text)
		}
	}
}

func TestSplit_MultiByteRunesStayWhole(t *testing.T) {
	text := "héllo wörld ünïcødé"
	chunks := Split(text, 3)

	if len(chunks) != Count(text, 3) {
		t.Fatalf("expected %d chunks, got %d", Count(text, 3), len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c.Text) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, c.Text)
		}
	}
	if strings.Join(texts(chunks), "") != text {
		t.Error("concatenated chunks do not reproduce the input")
	}
}

func TestSplit_EmptyText(t *testing.T) {
	if chunks := Split("", 1000); len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
	if n := Count("", 1000); n != 0 {
		t.Errorf("expected Count=0, got %d", n)
	}
}

func TestSplit_NonPositiveSizeUsesDefault(t *testing.T) {
	text := strings.Repeat("x", 2500)
	for _, size := range []int{0, -5} {
		chunks := Split(text, size)
		if len(chunks) != 3 {
			t.Errorf("size %d: expected 3 chunks with default size, got %d", size, len(chunks))
		}
	}
}

func texts(chunks []doctree.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
