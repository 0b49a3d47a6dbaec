package history

import (
	"context"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	historystore "github.com/de-tools/report-atlas/pkg/store/duckdb/history"
)

// Recorder translates run outcomes to and from the history store.
type Recorder struct {
	store historystore.Store
}

func NewRecorder(store historystore.Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(ctx context.Context, run domain.RunOutcome) error {
	if err := r.store.AddRun(ctx, adapters.MapDomainRunToStore(run), adapters.MapDomainJobOutcomesToStore(run)); err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first, with their job outcomes.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]domain.RunOutcome, error) {
	runs, err := r.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	result := make([]domain.RunOutcome, 0, len(runs))
	for _, run := range runs {
		outcomes, err := r.store.ListOutcomes(ctx, run.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list outcomes of run %s: %w", run.ID, err)
		}
		result = append(result, adapters.MapStoreRunToDomain(run, outcomes))
	}
	return result, nil
}
