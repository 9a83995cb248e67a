package query

import (
	"testing"
	"time"

	"github.com/resumodo/jobmatch/internal/models"
	"github.com/stretchr/testify/assert"
)

func score(v float64) *float64 {
	return &v
}

func batchOfScores(batchID string, extracted time.Time, scores ...float64) models.Batch {
	jobs := make([]models.JobRecord, len(scores))
	for i, s := range scores {
		jobs[i] = models.JobRecord{JobID: batchID + "-" + string(rune('a'+i)), HybridScore: score(s)}
	}
	return models.Batch{BatchID: batchID, ExtractionDate: extracted, Jobs: jobs}
}

func Test_Flatten_AnnotatesJobsWithBatch(t *testing.T) {
	extracted := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	data := models.ResumeJobs{Batches: []models.Batch{batchOfScores("b1", extracted, 90, 70)}}

	jobs := Flatten(data)

	assert.Len(t, jobs, 2)
	assert.Equal(t, "b1", jobs[0].BatchID)
	assert.Equal(t, extracted.Format(time.RFC3339), jobs[0].ExtractionDate)
}

func Test_Sort_ByMatch_AcrossBatches(t *testing.T) {
	now := time.Now()
	data := models.ResumeJobs{Batches: []models.Batch{
		batchOfScores("a", now, 90, 70, 50),
		batchOfScores("b", now, 95, 40),
	}}

	sorted := Sort(Flatten(data), SortByMatch)

	got := make([]float64, len(sorted))
	for i, job := range sorted {
		got[i] = job.HybridScoreOrZero()
	}
	assert.Equal(t, []float64{95, 90, 70, 50, 40}, got)
}

func Test_Sort_ByMatch_MissingScoreRanksAsZero(t *testing.T) {
	jobs := []models.JobRecord{
		{JobID: "unscored"},
		{JobID: "scored", HybridScore: score(10)},
	}

	sorted := Sort(jobs, SortByMatch)
	assert.Equal(t, "scored", sorted[0].JobID)
	assert.Equal(t, "unscored", sorted[1].JobID)
}

func Test_Sort_ByCompany_IsStableForTies(t *testing.T) {
	jobs := []models.JobRecord{
		{JobID: "1", Company: "Acme"},
		{JobID: "2", Company: "Acme"},
		{JobID: "3", Company: "Aardvark"},
	}

	sorted := Sort(jobs, SortByCompany)
	assert.Equal(t, []string{"3", "1", "2"}, []string{sorted[0].JobID, sorted[1].JobID, sorted[2].JobID})
}

func Test_GroupByBatch_RoundTripsBatchJobs(t *testing.T) {
	extracted := time.Now()
	batch := batchOfScores("b1", extracted, 80, 60, 40)
	data := models.ResumeJobs{Batches: []models.Batch{batch}}

	grouped := GroupByBatch(Flatten(data))

	assert.Len(t, grouped, 1)
	group := grouped["b1"]
	assert.Len(t, group, 3)
	for i, job := range group {
		assert.Equal(t, batch.Jobs[i].JobID, job.JobID)
	}
}

func Test_Filter_SearchTextMatchesAnyOfThreeFields(t *testing.T) {
	jobs := []models.JobRecord{
		{JobID: "1", Title: "Go Developer"},
		{JobID: "2", Company: "Golang Shop"},
		{JobID: "3", Description: "we use go daily"},
		{JobID: "4", Title: "Accountant"},
	}

	filtered := Filter(jobs, Filters{SearchText: "go"})
	assert.Len(t, filtered, 3)
}

func Test_Filter_ExactFiltersComposeWithAnd(t *testing.T) {
	jobs := []models.JobRecord{
		{JobID: "1", Location: "Berlin", JobType: "Full-time"},
		{JobID: "2", Location: "Berlin", JobType: "Contract"},
		{JobID: "3", Location: "Remote", JobType: "Full-time"},
	}

	filtered := Filter(jobs, Filters{Location: "Berlin", JobType: "Full-time"})
	assert.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].JobID)

	// "all" and empty both disable a filter.
	assert.Len(t, Filter(jobs, Filters{Location: FilterAll}), 3)
	assert.Len(t, Filter(jobs, Filters{}), 3)
}

func Test_Filter_PostedWithinLast24h(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	jobs := []models.JobRecord{
		{JobID: "fresh", PostedDate: now.Add(-10 * time.Hour).Format(time.RFC3339)},
		{JobID: "stale", PostedDate: now.Add(-30 * time.Hour).Format(time.RFC3339)},
	}

	filtered := filterAt(jobs, Filters{PostedWithin: PostedLast24h}, now)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "fresh", filtered[0].JobID)
}

func Test_Filter_UnparseableDateOnlyCountsAsOld(t *testing.T) {
	jobs := []models.JobRecord{{JobID: "1", PostedDate: "yesterday-ish"}}

	assert.Empty(t, filterAt(jobs, Filters{PostedWithin: PostedLast24h}, time.Now()))
	assert.Empty(t, filterAt(jobs, Filters{PostedWithin: PostedLast3d}, time.Now()))
	assert.Len(t, filterAt(jobs, Filters{PostedWithin: PostedOlderThan3}, time.Now()), 1)
	assert.Len(t, filterAt(jobs, Filters{PostedWithin: PostedAll}, time.Now()), 1)
}

func Test_TopN_TakesPrefixWithoutSorting(t *testing.T) {
	jobs := []models.JobRecord{{JobID: "1"}, {JobID: "2"}, {JobID: "3"}}

	top := TopN(jobs, 2)
	assert.Equal(t, []string{"1", "2"}, []string{top[0].JobID, top[1].JobID})

	assert.Len(t, TopN(jobs, 10), 3)
}

func Test_AverageHybridScore_EmptyInputReturnsSentinel(t *testing.T) {
	_, ok := AverageHybridScore(nil)
	assert.False(t, ok)
}

func Test_AverageHybridScore_MissingScoresCountAsZero(t *testing.T) {
	jobs := []models.JobRecord{
		{HybridScore: score(90)},
		{}, // unscored, divides the sum anyway
	}

	avg, ok := AverageHybridScore(jobs)
	assert.True(t, ok)
	assert.InDelta(t, 45, avg, 0.001)
}

func Test_Locations_ReturnsSortedDistinctValues(t *testing.T) {
	jobs := []models.JobRecord{
		{Location: "Remote"},
		{Location: "Berlin"},
		{Location: "Remote"},
	}

	assert.Equal(t, []string{"Berlin", "Remote"}, Locations(jobs))
}

func Test_SortBatchesByDate_NewestFirstWithoutMutatingInput(t *testing.T) {
	old := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	batches := []models.Batch{
		{BatchID: "old", ExtractionDate: old},
		{BatchID: "new", ExtractionDate: recent},
	}

	sorted := SortBatchesByDate(batches)
	assert.Equal(t, "new", sorted[0].BatchID)
	assert.Equal(t, "old", batches[0].BatchID)
}
