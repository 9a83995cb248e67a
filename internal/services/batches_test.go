package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/resumodo/jobmatch/internal/models"
	"github.com/resumodo/jobmatch/internal/query"
	"github.com/resumodo/jobmatch/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *store.Store {
	return store.New(store.NewMemory())
}

func testJobs(ids ...string) []models.JobRecord {
	jobs := make([]models.JobRecord, len(ids))
	for i, id := range ids {
		jobs[i] = models.JobRecord{JobID: id, Title: "Engineer", Company: "Initech"}
	}
	return jobs
}

func Test_Batches_AddThenFlattenThenGroup_RoundTrips(t *testing.T) {
	st := newTestStore()
	batches := NewBatches(st, EventBus.New())
	ctx := context.Background()

	input := testJobs("j1", "j2", "j3")
	batch, err := batches.Add(ctx, "r1", input)
	require.NoError(t, err)

	data, err := batches.ForResume(ctx, "r1")
	require.NoError(t, err)

	grouped := query.GroupByBatch(query.Flatten(data))
	require.Len(t, grouped, 1)

	group := grouped[batch.BatchID]
	require.Len(t, group, 3)
	for i, job := range group {
		assert.Equal(t, input[i].JobID, job.JobID)
	}
}

func Test_Batches_Add_RefreshesLastExtraction(t *testing.T) {
	st := newTestStore()
	batches := NewBatches(st, EventBus.New())
	ctx := context.Background()

	first, err := batches.Add(ctx, "r1", testJobs("j1"))
	require.NoError(t, err)
	second, err := batches.Add(ctx, "r1", testJobs("j2"))
	require.NoError(t, err)

	data, err := batches.ForResume(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, data.Batches, 2)
	assert.Equal(t, first.BatchID, data.Batches[0].BatchID)
	assert.True(t, data.LastExtraction.Equal(second.ExtractionDate))
}

func Test_Batches_BatchIDsAreUniqueAndIncreasing(t *testing.T) {
	st := newTestStore()
	batches := NewBatches(st, EventBus.New())
	ctx := context.Background()

	var previous int64
	for i := 0; i < 50; i++ {
		batch, err := batches.Add(ctx, "r1", testJobs("j"))
		require.NoError(t, err)

		id, err := strconv.ParseInt(batch.BatchID, 10, 64)
		require.NoError(t, err)
		assert.Greater(t, id, previous)
		previous = id
	}
}

func Test_Batches_DeleteLastBatch_RemovesEntryButNotResumeRecord(t *testing.T) {
	st := newTestStore()
	resumes := NewResumes(st)
	batches := NewBatches(st, EventBus.New())
	ctx := context.Background()

	resume, err := resumes.Save(ctx, "cv.pdf", "data:application/pdf;base64,xx")
	require.NoError(t, err)

	batch, err := batches.Add(ctx, resume.ID, testJobs("j1"))
	require.NoError(t, err)

	require.NoError(t, batches.Delete(ctx, resume.ID, batch.BatchID))

	_, err = batches.ForResume(ctx, resume.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	stored, err := st.Resumes(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Equal(t, resume.ID, stored[0].ID)
}

func Test_Batches_Delete_RecomputesLastExtractionFromFirstRemaining(t *testing.T) {
	st := newTestStore()
	batches := NewBatches(st, EventBus.New())
	ctx := context.Background()

	first, err := batches.Add(ctx, "r1", testJobs("j1"))
	require.NoError(t, err)
	second, err := batches.Add(ctx, "r1", testJobs("j2"))
	require.NoError(t, err)
	third, err := batches.Add(ctx, "r1", testJobs("j3"))
	require.NoError(t, err)

	// Removing the first batch promotes whatever now sits at index 0, which
	// is the second batch, not the most recent one. This pins the literal
	// recompute rule the views rely on.
	require.NoError(t, batches.Delete(ctx, "r1", first.BatchID))

	data, err := batches.ForResume(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, data.LastExtraction.Equal(second.ExtractionDate))
	assert.False(t, data.LastExtraction.Equal(third.ExtractionDate))
}

func Test_Batches_Delete_MissingBatchIsNoOp(t *testing.T) {
	st := newTestStore()
	batches := NewBatches(st, EventBus.New())
	ctx := context.Background()

	_, err := batches.Add(ctx, "r1", testJobs("j1"))
	require.NoError(t, err)

	assert.NoError(t, batches.Delete(ctx, "r1", "nonexistent"))

	data, err := batches.ForResume(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, data.Batches, 1)
}

func Test_Batches_Delete_UnknownResumeFailsWithNotFound(t *testing.T) {
	batches := NewBatches(newTestStore(), EventBus.New())

	err := batches.Delete(context.Background(), "ghost", "b1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func Test_Batches_ExtractionDateIsRecent(t *testing.T) {
	batches := NewBatches(newTestStore(), EventBus.New())

	batch, err := batches.Add(context.Background(), "r1", testJobs("j1"))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), batch.ExtractionDate, time.Minute)
}
