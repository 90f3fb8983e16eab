package usecase

import (
	"context"
	"errors"
	"fmt"

	"osindexer/internal/domain"
	"osindexer/internal/port"
)

// ReportUseCase reads aggregate metadata from the remote index.
type ReportUseCase struct {
	index     port.SearchIndex
	indexName string
}

func NewReportUseCase(index port.SearchIndex, indexName string) *ReportUseCase {
	return &ReportUseCase{
		index:     index,
		indexName: indexName,
	}
}

// Report lists every index's settings and mappings and counts the
// documents in the configured index. A configured index that does not
// exist yet reports a count of zero.
func (u *ReportUseCase) Report(ctx context.Context) (*domain.IndexReport, error) {
	infos, err := u.index.Info(ctx, "*")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch index info: %w", err)
	}

	count, err := u.index.Count(ctx, u.indexName)
	if err != nil {
		if !errors.Is(err, port.ErrIndexNotFound) {
			return nil, fmt.Errorf("failed to count documents in %s: %w", u.indexName, err)
		}
		count = 0
	}

	return &domain.IndexReport{
		Indices:  infos,
		DocCount: count,
	}, nil
}
