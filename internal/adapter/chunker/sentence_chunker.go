package chunker

import (
	"fmt"
	"strings"

	"swissvote/internal/domain"
)

// SentenceChunker splits text into overlapping windows of at most
// maxChars characters, preferring to cut at sentence boundaries.
type SentenceChunker struct {
	maxChars int
	overlap  int
}

// NewSentenceChunker validates the window parameters. The overlap must
// be strictly smaller than the window size or the scan cannot make
// forward progress.
func NewSentenceChunker(maxChars, overlap int) (*SentenceChunker, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxChars)
	}
	if overlap < 0 || overlap >= maxChars {
		return nil, fmt.Errorf("overlap must be in [0, %d), got %d", maxChars, overlap)
	}
	return &SentenceChunker{maxChars: maxChars, overlap: overlap}, nil
}

// Chunk splits text into non-empty segments. Each window of maxChars is
// shortened to end after the last sentence terminator found inside it;
// if none exists the hard character boundary is used. Consecutive
// windows overlap by up to overlap characters.
func (c *SentenceChunker) Chunk(text string) []string {
	runes := []rune(text)
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}

	var chunks []string
	start := 0

	for start < len(runes) {
		end := start + c.maxChars
		if end < len(runes) {
			if cut := lastSentenceEnd(runes, start, end); cut > start {
				end = cut + 1
			}
		} else {
			end = len(runes)
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Clamp so short sentences cannot stall the scan.
			next = start + 1
		}
		start = next
	}

	return chunks
}

// lastSentenceEnd returns the index of the last sentence terminator in
// runes[start:end], or -1 if there is none.
func lastSentenceEnd(runes []rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		switch runes[i] {
		case '.', '!', '?':
			return i
		}
	}
	return -1
}

// ChunkKey derives the globally unique, deterministic key for a chunk.
func ChunkKey(voteID, language string, index int) string {
	return fmt.Sprintf("%s_%s_%d", voteID, language, index)
}

// PrepareBrochure chunks every language version of a brochure and
// attaches the deterministic chunk keys. Languages are processed in the
// fixed priority order so re-runs produce identical output.
func (c *SentenceChunker) PrepareBrochure(voteID string, texts map[string]string) []domain.Chunk {
	var prepared []domain.Chunk

	for _, lang := range domain.SupportedLanguages {
		text := texts[lang]
		if text == "" {
			continue
		}
		for idx, chunk := range c.Chunk(text) {
			prepared = append(prepared, domain.Chunk{
				VoteID:   voteID,
				Language: lang,
				Index:    idx,
				Text:     chunk,
				Key:      ChunkKey(voteID, lang, idx),
			})
		}
	}

	return prepared
}
