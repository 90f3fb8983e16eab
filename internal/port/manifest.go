package port

// ManifestEntry records what was last indexed for a local file.
type ManifestEntry struct {
	Path        string
	ContentHash string
	Chunks      int
	IndexedAt   int64
}

// Manifest tracks indexed files so unchanged ones can be skipped.
type Manifest interface {
	Get(path string) (ManifestEntry, bool, error)

	Put(entry ManifestEntry) error

	Close() error
}
