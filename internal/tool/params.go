package tool

import (
	"errors"
	"fmt"

	"github.com/dgallion1/pdfsum/internal/chunker"
)

// Params bounds summary length (in model tokens) and sets the chunk size
// (in characters).
type Params struct {
	MaxLength int
	MinLength int
	ChunkSize int
}

// DefaultParams returns the standard summarization settings.
func DefaultParams() Params {
	return Params{
		MaxLength: 200,
		MinLength: 50,
		ChunkSize: chunker.DefaultChunkSize,
	}
}

var errNonPositiveChunk = errors.New("chunk size must be positive")

// Validate rejects parameters no backend can honor.
func (p Params) Validate() error {
	if p.ChunkSize <= 0 {
		return fmt.Errorf("%w: %d", errNonPositiveChunk, p.ChunkSize)
	}
	if p.MaxLength < 0 || p.MinLength < 0 {
		return fmt.Errorf("lengths must be non-negative: min=%d max=%d", p.MinLength, p.MaxLength)
	}
	if p.MaxLength > 0 && p.MinLength > p.MaxLength {
		return fmt.Errorf("min length %d exceeds max length %d", p.MinLength, p.MaxLength)
	}
	return nil
}
