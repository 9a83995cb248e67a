// Package query derives filtered, sorted, grouped and paginated views over
// the job batches of one resume, or over the union of all resumes. All
// functions are pure: inputs are never mutated and results are fresh slices.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/resumodo/jobmatch/internal/models"
	"github.com/samber/lo"
)

// Recency buckets for the posted-date filter.
type PostedWithin string

const (
	PostedAll        PostedWithin = "all"
	PostedLast24h    PostedWithin = "last24h"
	PostedLast3d     PostedWithin = "last3d"
	PostedOlderThan3 PostedWithin = "olderThan3d"
)

type SortKey string

const (
	SortByMatch   SortKey = "match"
	SortByDate    SortKey = "date"
	SortByCompany SortKey = "company"
)

// FilterAll disables an exact-match filter; an empty string does the same.
const FilterAll = "all"

// Filters compose with logical AND. SearchText matches case-insensitively
// as a substring of title, company or description.
type Filters struct {
	SearchText   string
	Location     string
	JobType      string
	BatchID      string
	PostedWithin PostedWithin
}

// Flatten concatenates every batch's jobs in batch insertion order, each job
// annotated with the batch it came from.
func Flatten(data models.ResumeJobs) []models.JobRecord {
	var jobs []models.JobRecord
	for _, batch := range data.Batches {
		for _, job := range batch.Jobs {
			job.BatchID = batch.BatchID
			job.ExtractionDate = batch.ExtractionDate.Format(time.RFC3339)
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// FlattenAll flattens across every resume's batches, for dashboard views.
func FlattenAll(all map[string]models.ResumeJobs) []models.JobRecord {
	resumeIDs := lo.Keys(all)
	sort.Strings(resumeIDs)

	var jobs []models.JobRecord
	for _, resumeID := range resumeIDs {
		for _, job := range Flatten(all[resumeID]) {
			job.ResumeID = resumeID
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// Filter returns the jobs satisfying every set filter.
func Filter(jobs []models.JobRecord, f Filters) []models.JobRecord {
	return filterAt(jobs, f, time.Now())
}

func filterAt(jobs []models.JobRecord, f Filters, now time.Time) []models.JobRecord {
	search := strings.ToLower(f.SearchText)
	return lo.Filter(jobs, func(job models.JobRecord, _ int) bool {
		if search != "" && !matchesSearch(job, search) {
			return false
		}
		if !matchesExact(job.Location, f.Location) {
			return false
		}
		if !matchesExact(job.JobType, f.JobType) {
			return false
		}
		if !matchesExact(job.BatchID, f.BatchID) {
			return false
		}
		return matchesPostedWithin(job, f.PostedWithin, now)
	})
}

func matchesSearch(job models.JobRecord, search string) bool {
	return strings.Contains(strings.ToLower(job.Title), search) ||
		strings.Contains(strings.ToLower(job.Company), search) ||
		strings.Contains(strings.ToLower(job.Description), search)
}

func matchesExact(value, filter string) bool {
	return filter == "" || filter == FilterAll || value == filter
}

func matchesPostedWithin(job models.JobRecord, within PostedWithin, now time.Time) bool {
	if within == "" || within == PostedAll {
		return true
	}

	posted, ok := job.PostedTime()
	if !ok {
		// A job without a usable posted date only counts as old.
		return within == PostedOlderThan3
	}

	age := now.Sub(posted)
	switch within {
	case PostedLast24h:
		return age <= 24*time.Hour
	case PostedLast3d:
		return age <= 3*24*time.Hour
	case PostedOlderThan3:
		return age > 3*24*time.Hour
	default:
		return true
	}
}

// Sort returns a sorted copy. The sort is stable so ties keep their input
// order.
func Sort(jobs []models.JobRecord, key SortKey) []models.JobRecord {
	sorted := make([]models.JobRecord, len(jobs))
	copy(sorted, jobs)

	switch key {
	case SortByMatch:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].HybridScoreOrZero() > sorted[j].HybridScoreOrZero()
		})
	case SortByDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			ti, _ := sorted[i].PostedTime()
			tj, _ := sorted[j].PostedTime()
			return ti.After(tj)
		})
	case SortByCompany:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Company < sorted[j].Company
		})
	}
	return sorted
}

// GroupByBatch buckets jobs by their annotated batch id, preserving each
// group's relative order from the input.
func GroupByBatch(jobs []models.JobRecord) map[string][]models.JobRecord {
	return lo.GroupBy(jobs, func(job models.JobRecord) string {
		return job.BatchID
	})
}

// TopN takes the first n elements of an already-sorted sequence. It does not
// sort: callers wanting "top matches" sort by match first.
func TopN(jobs []models.JobRecord, n int) []models.JobRecord {
	if n > len(jobs) {
		n = len(jobs)
	}
	out := make([]models.JobRecord, n)
	copy(out, jobs[:n])
	return out
}

// AverageHybridScore is the mean hybrid score over all jobs, counting a
// missing score as 0. ok is false for an empty input so callers can render
// "N/A" instead of dividing by zero.
func AverageHybridScore(jobs []models.JobRecord) (float64, bool) {
	if len(jobs) == 0 {
		return 0, false
	}

	sum := lo.SumBy(jobs, func(job models.JobRecord) float64 {
		return job.HybridScoreOrZero()
	})
	return sum / float64(len(jobs)), true
}

// Locations lists the distinct locations present in jobs, sorted, for filter
// dropdowns.
func Locations(jobs []models.JobRecord) []string {
	return distinct(jobs, func(job models.JobRecord) string { return job.Location })
}

// JobTypes lists the distinct job types present in jobs, sorted.
func JobTypes(jobs []models.JobRecord) []string {
	return distinct(jobs, func(job models.JobRecord) string { return job.JobType })
}

func distinct(jobs []models.JobRecord, field func(models.JobRecord) string) []string {
	values := lo.Uniq(lo.Map(jobs, func(job models.JobRecord, _ int) string {
		return field(job)
	}))
	sort.Strings(values)
	return values
}

// SortBatchesByDate returns the batches newest first, for extraction
// selectors. The stored batch list itself stays in insertion order.
func SortBatchesByDate(batches []models.Batch) []models.Batch {
	sorted := make([]models.Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExtractionDate.After(sorted[j].ExtractionDate)
	})
	return sorted
}
