package domain

import "encoding/json"

// Document is a loaded file: its raw text plus the source path.
type Document struct {
	Path string
	Text string
}

// Chunk is a bounded segment of a document's text.
type Chunk struct {
	ID      string
	DocPath string
	Ordinal int
	Text    string
}

// IndexRecord is the tuple persisted in the remote index.
type IndexRecord struct {
	ID      string
	Text    string
	Vector  []float32
	Source  string
	Ordinal int
}

// IndexInfo describes one remote index's settings and mappings.
type IndexInfo struct {
	Name     string
	Settings json.RawMessage
	Mappings json.RawMessage
}

// IndexReport is the reporter's aggregate view of the remote store.
type IndexReport struct {
	Indices  []IndexInfo
	DocCount int
}

// FileError records a per-file ingest failure.
type FileError struct {
	Path string
	Err  string
}

// IngestResult summarizes one ingest run.
type IngestResult struct {
	FilesIngested int
	FilesSkipped  int
	ChunksIndexed int
	Succeeded     []string
	Failed        []FileError
}
