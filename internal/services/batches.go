package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/resumodo/jobmatch/internal/events"
	"github.com/resumodo/jobmatch/internal/models"
	"github.com/resumodo/jobmatch/internal/store"
	log "github.com/sirupsen/logrus"
)

// ErrNotFound is returned by explicit lookups of resume or batch ids that
// don't exist. Deletes of an already-gone batch are a no-op instead.
var ErrNotFound = errors.New("not found")

// Batches merges match results into a resume's history as immutable batches
// and removes them with the cascade rules the jobsByResume collection needs.
type Batches struct {
	store *store.Store
	bus   EventBus.Bus
}

func NewBatches(store *store.Store, bus EventBus.Bus) *Batches {
	return &Batches{store: store, bus: bus}
}

// Add appends one completed match run to the resume's batch list and
// refreshes the cached lastExtraction. The batch list is append-only and
// stays in insertion order.
func (b *Batches) Add(ctx context.Context, resumeID string, jobs []models.JobRecord) (models.Batch, error) {
	jobsByResume, err := b.store.JobsByResume(ctx)
	if err != nil {
		return models.Batch{}, err
	}

	batch := models.Batch{
		BatchID:        nextTimeID(),
		ExtractionDate: time.Now(),
		Jobs:           jobs,
	}

	data := jobsByResume[resumeID]
	data.Batches = append(data.Batches, batch)
	data.LastExtraction = batch.ExtractionDate
	jobsByResume[resumeID] = data

	if err = b.store.SaveJobsByResume(ctx, jobsByResume); err != nil {
		return models.Batch{}, err
	}

	log.Infof("saved batch %s with %d jobs for resume %s", batch.BatchID, len(jobs), resumeID)
	b.bus.Publish(events.BatchSavedTopic, events.BatchSaved{
		ResumeID: resumeID,
		BatchID:  batch.BatchID,
		JobCount: len(jobs),
	})
	return batch, nil
}

// Delete removes exactly one batch. When the last batch goes, the resume's
// whole jobsByResume entry goes with it; the Resume record itself is not
// touched. Deleting a batch id that isn't there is a no-op.
func (b *Batches) Delete(ctx context.Context, resumeID, batchID string) error {
	jobsByResume, err := b.store.JobsByResume(ctx)
	if err != nil {
		return err
	}

	data, ok := jobsByResume[resumeID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "resume %s has no batches", resumeID)
	}

	remaining := make([]models.Batch, 0, len(data.Batches))
	for _, batch := range data.Batches {
		if batch.BatchID != batchID {
			remaining = append(remaining, batch)
		}
	}

	if len(remaining) == 0 {
		delete(jobsByResume, resumeID)
	} else {
		// Historical recompute rule: lastExtraction follows whatever batch
		// sits at index 0 after the filter, not the max extraction date.
		// Display code relies on it only while batches stay in insertion
		// order, so keep it literal.
		jobsByResume[resumeID] = models.ResumeJobs{
			Batches:        remaining,
			LastExtraction: remaining[0].ExtractionDate,
		}
	}

	if err = b.store.SaveJobsByResume(ctx, jobsByResume); err != nil {
		return err
	}

	b.bus.Publish(events.BatchDeletedTopic, events.BatchDeleted{
		ResumeID: resumeID,
		BatchID:  batchID,
	})
	return nil
}

// ForResume looks up the match history of one resume, failing loudly when
// the resume has none.
func (b *Batches) ForResume(ctx context.Context, resumeID string) (models.ResumeJobs, error) {
	jobsByResume, err := b.store.JobsByResume(ctx)
	if err != nil {
		return models.ResumeJobs{}, err
	}

	data, ok := jobsByResume[resumeID]
	if !ok {
		return models.ResumeJobs{}, errors.Wrapf(ErrNotFound, "resume %s has no batches", resumeID)
	}
	return data, nil
}

// All returns the whole jobsByResume map for cross-resume views.
func (b *Batches) All(ctx context.Context) (map[string]models.ResumeJobs, error) {
	return b.store.JobsByResume(ctx)
}
