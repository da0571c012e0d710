package summarize

import (
	"fmt"
	"strings"
)

// SystemPrompt frames chat models as a summarization pipeline.
const SystemPrompt = `You are an abstractive summarization engine. Given a passage of text extracted from a document, write a faithful summary of it.

Rules:
- Use only information present in the passage
- Write plain prose: no headings, no bullet points, no preamble such as "This passage"
- The passage may start or end mid-sentence; summarize what is there
- Respond with ONLY the summary text`

// defaultResponseTokens bounds chat responses when no MaxLength is given.
const defaultResponseTokens = 1024

// BuildChunkPrompt creates the user prompt for summarizing one chunk,
// including the requested length bounds.
func BuildChunkPrompt(text string, opts Options) string {
	var sb strings.Builder
	switch {
	case opts.MinLength > 0 && opts.MaxLength > 0:
		sb.WriteString(fmt.Sprintf("Summarize the passage in between %d and %d tokens.\n", opts.MinLength, opts.MaxLength))
	case opts.MaxLength > 0:
		sb.WriteString(fmt.Sprintf("Summarize the passage in at most %d tokens.\n", opts.MaxLength))
	case opts.MinLength > 0:
		sb.WriteString(fmt.Sprintf("Summarize the passage in at least %d tokens.\n", opts.MinLength))
	default:
		sb.WriteString("Summarize the passage.\n")
	}
	sb.WriteString("---\n")
	sb.WriteString(text)
	return sb.String()
}

func responseTokens(opts Options) int {
	if opts.MaxLength > 0 {
		return opts.MaxLength
	}
	return defaultResponseTokens
}
