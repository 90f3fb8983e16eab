package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"osindexer/internal/domain"
)

// WindowChunker splits text into fixed-size windows of runes, with
// adjacent windows sharing overlap runes.
type WindowChunker struct {
	maxChars int
	overlap  int
}

func NewWindowChunker(maxChars, overlap int) (*WindowChunker, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("max chunk size must be positive, got %d", maxChars)
	}
	// overlap >= maxChars would make the window never advance.
	if overlap < 0 || overlap >= maxChars {
		return nil, fmt.Errorf("overlap must be in [0, max), got overlap=%d max=%d", overlap, maxChars)
	}
	return &WindowChunker{
		maxChars: maxChars,
		overlap:  overlap,
	}, nil
}

func (c *WindowChunker) Chunk(doc domain.Document) ([]domain.Chunk, error) {
	runes := []rune(doc.Text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := c.maxChars - c.overlap
	var chunks []domain.Chunk

	start := 0
	for ordinal := 0; ; ordinal++ {
		end := start + c.maxChars
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, domain.Chunk{
			ID:      generateChunkID(doc.Path, ordinal),
			DocPath: doc.Path,
			Ordinal: ordinal,
			Text:    string(runes[start:end]),
		})

		if end == len(runes) {
			break
		}
		start += step
	}

	return chunks, nil
}

// generateChunkID derives a stable ID from the source path and the
// chunk's ordinal, so re-indexing the same file overwrites in place.
func generateChunkID(path string, ordinal int) string {
	data := fmt.Sprintf("%s:%d", path, ordinal)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}
