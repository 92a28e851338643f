package ingest

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunk is a contiguous span of extracted document text. SourceIndex is
// the byte offset of the span in the source text; chunks are immutable
// once created.
type Chunk struct {
	Text        string
	SourceIndex int
	Length      int
}

// Chunker splits text into overlapping chunks of a target size. Adjacent
// chunks share exactly the configured overlap: each chunk starts at the
// previous cut minus the overlap, so splitting is deterministic for a
// given input and configuration.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split cuts text into chunks. Cuts prefer, in order, a paragraph break,
// a line break, a sentence end, then a word boundary near the target
// size, falling back to a hard cut. Every cut lands on a rune boundary,
// so no chunk ever carries a torn UTF-8 sequence. Whitespace-only input
// yields no chunks.
func (c *Chunker) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	n := len(text)
	if n <= c.size {
		return []Chunk{{Text: text, SourceIndex: 0, Length: n}}
	}

	var chunks []Chunk
	start := 0
	for start < n {
		end := start + c.size
		if end >= n {
			end = n
		} else {
			end = c.cut(text, start, end)
			for end > start && !utf8.RuneStart(text[end]) {
				end--
			}
			// A cut pulled back for alignment must still clear the
			// overlap, or the next chunk would not advance.
			for end <= start+c.overlap && end < n {
				_, w := utf8.DecodeRuneInString(text[end:])
				end += w
			}
		}
		chunks = append(chunks, Chunk{
			Text:        text[start:end],
			SourceIndex: start,
			Length:      end - start,
		})
		if end == n {
			break
		}
		start = end - c.overlap
		for start < n && !utf8.RuneStart(text[start]) {
			start++
		}
	}
	return chunks
}

var sentenceEnders = []string{". ", "! ", "? "}

// cut finds the split position for the chunk starting at start, scanning
// backward from the hard limit end within a bounded window. The window
// never reaches back past start+overlap, which keeps every chunk strictly
// advancing.
func (c *Chunker) cut(text string, start, end int) int {
	floor := end - c.size/5
	if min := start + c.overlap + 1; floor < min {
		floor = min
	}
	if floor >= end {
		return end
	}
	window := text[floor:end]

	if i := strings.LastIndex(window, "\n\n"); i >= 0 {
		return floor + i + 2
	}
	if i := strings.LastIndex(window, "\n"); i >= 0 {
		return floor + i + 1
	}
	best := -1
	for _, sep := range sentenceEnders {
		if i := strings.LastIndex(window, sep); i >= 0 && i+len(sep) > best {
			best = i + len(sep)
		}
	}
	if best > 0 {
		return floor + best
	}
	if i := strings.LastIndex(window, " "); i >= 0 {
		return floor + i + 1
	}
	return end
}
