package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"osindexer/internal/adapter/fs"
	"osindexer/internal/domain"
	"osindexer/internal/port"
)

// ProgressFunc reports pipeline progress to the caller.
type ProgressFunc func(processed, total int, currentFile string)

// IngestUseCase runs the load -> chunk -> embed -> upsert pipeline.
type IngestUseCase struct {
	walker    port.FileWalker
	chunker   port.Chunker
	embedder  port.Embedder
	index     port.SearchIndex
	manifest  port.Manifest // optional, nil disables incremental skip
	indexName string
	batchSize int
	log       *logrus.Entry
}

// NewIngestUseCase creates a new ingest use case.
func NewIngestUseCase(
	walker port.FileWalker,
	chunker port.Chunker,
	embedder port.Embedder,
	index port.SearchIndex,
	manifest port.Manifest,
	indexName string,
	batchSize int,
) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &IngestUseCase{
		walker:    walker,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		manifest:  manifest,
		indexName: indexName,
		batchSize: batchSize,
		log:       logrus.WithField("component", "ingest"),
	}
}

// Ingest processes every matching file under root. Per-file failures
// are collected in the result; they do not abort the run.
func (u *IngestUseCase) Ingest(ctx context.Context, root string, progress ProgressFunc) (*domain.IngestResult, error) {
	// Local problems surface before any remote call is made.
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("local path not accessible: %w", err)
	}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	if err := u.index.EnsureIndex(ctx, u.indexName, u.embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("failed to ensure index %s: %w", u.indexName, err)
	}

	result := &domain.IngestResult{}

	for i, file := range files {
		if progress != nil {
			progress(i, len(files), file.Path)
		}

		skipped, chunks, err := u.ingestFile(ctx, file.Path)
		if err != nil {
			result.Failed = append(result.Failed, domain.FileError{Path: file.Path, Err: err.Error()})
			u.log.WithField("file", file.Path).WithError(err).Warn("failed to ingest file")
			continue
		}
		if skipped {
			result.FilesSkipped++
			continue
		}
		result.FilesIngested++
		result.ChunksIndexed += chunks
		result.Succeeded = append(result.Succeeded, file.Path)
	}

	if progress != nil {
		progress(len(files), len(files), "")
	}

	return result, nil
}

func (u *IngestUseCase) ingestFile(ctx context.Context, path string) (skipped bool, chunks int, err error) {
	text, err := fs.ReadFile(path)
	if err != nil {
		return false, 0, fmt.Errorf("failed to read file: %w", err)
	}

	hash := contentHash(text)
	if u.manifest != nil {
		entry, found, err := u.manifest.Get(path)
		if err == nil && found && entry.ContentHash == hash {
			return true, 0, nil
		}
	}

	chunkList, err := u.chunker.Chunk(domain.Document{Path: path, Text: text})
	if err != nil {
		return false, 0, fmt.Errorf("failed to chunk file: %w", err)
	}
	if len(chunkList) == 0 {
		u.log.WithField("file", path).Debug("empty document, nothing to index")
		return true, 0, nil
	}

	for start := 0; start < len(chunkList); start += u.batchSize {
		end := start + u.batchSize
		if end > len(chunkList) {
			end = len(chunkList)
		}
		batch := chunkList[start:end]

		texts := make([]string, len(batch))
		for j, chunk := range batch {
			texts[j] = chunk.Text
		}

		vectors, err := u.embedder.Embed(ctx, texts)
		if err != nil {
			return false, 0, fmt.Errorf("embedding failed: %w", err)
		}
		if len(vectors) != len(batch) {
			return false, 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
		}

		records := make([]domain.IndexRecord, len(batch))
		for j, chunk := range batch {
			records[j] = domain.IndexRecord{
				ID:      chunk.ID,
				Text:    chunk.Text,
				Vector:  vectors[j],
				Source:  chunk.DocPath,
				Ordinal: chunk.Ordinal,
			}
		}

		if err := u.index.Upsert(ctx, u.indexName, records); err != nil {
			return false, 0, fmt.Errorf("upsert failed: %w", err)
		}
	}

	if u.manifest != nil {
		entry := port.ManifestEntry{
			Path:        path,
			ContentHash: hash,
			Chunks:      len(chunkList),
			IndexedAt:   time.Now().Unix(),
		}
		if err := u.manifest.Put(entry); err != nil {
			u.log.WithField("file", path).WithError(err).Warn("failed to update manifest")
		}
	}

	return false, len(chunkList), nil
}

func contentHash(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
