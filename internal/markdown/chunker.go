package markdown

import "strings"

// chunkSeparator joins paragraphs inside a chunk and counts toward the
// maxLength check.
const chunkSeparator = "\n\n"

// ChunkText splits section text into retrieval-sized chunks along blank-line
// paragraph boundaries.
//
// Paragraphs accumulate into a buffer; when adding the next paragraph would
// push the buffer past maxLength the buffer is flushed and the paragraph
// starts a new one. A single paragraph longer than maxLength becomes its own
// oversized chunk; paragraphs are never split mid-way. Chunks are trimmed
// of surrounding whitespace.
func ChunkText(text string, maxLength int) []string {
	paragraphs := strings.Split(text, chunkSeparator)

	var chunks []string
	var current strings.Builder

	for _, para := range paragraphs {
		if current.Len()+len(para)+len(chunkSeparator) > maxLength {
			if current.Len() > 0 {
				chunks = append(chunks, strings.TrimSpace(current.String()))
				current.Reset()
			}
			current.WriteString(para)
			continue
		}

		if current.Len() > 0 {
			current.WriteString(chunkSeparator)
		}
		current.WriteString(para)
	}

	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	return chunks
}
