package models

import "time"

// postedDateLayouts covers the formats the external matcher has been seen
// emitting for posted_date.
var postedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// JobRecord is a snapshot of one job posting together with the scoring
// metadata the matching service attached to it. Score and skill fields are
// pointers/nil-able on purpose: nil means "not computed", which is distinct
// from a computed zero.
type JobRecord struct {
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	JobType     string `json:"job_type"`
	Salary      string `json:"salary,omitempty"`
	URL         string `json:"url"`
	SourceAPI   string `json:"source_api"`
	PostedDate  string `json:"posted_date"`
	Description string `json:"description"`

	HybridScore     *float64 `json:"hybridScore,omitempty"`
	SemanticScore   *float64 `json:"semanticScore,omitempty"`
	KeywordScore    *float64 `json:"keywordScore,omitempty"`
	ExperienceScore *float64 `json:"experienceScore,omitempty"`

	MatchedSkills        []string `json:"matchedSkills,omitempty"`
	MissingSkills        []string `json:"missingSkills,omitempty"`
	RequiredSkills       []string `json:"requiredSkills,omitempty"`
	MatchedSkillsCount   *int     `json:"matchedSkillsCount,omitempty"`
	RequiredSkillsCount  *int     `json:"requiredSkillsCount,omitempty"`
	SkillMatchPercentage *float64 `json:"skillMatchPercentage,omitempty"`

	CandidateExperience *float64 `json:"candidateExperience,omitempty"`
	CandidateSeniority  string   `json:"candidateSeniority,omitempty"`
	RequiredExperience  *float64 `json:"requiredExperience,omitempty"`

	Rank *int `json:"rank,omitempty"`

	// Local annotations added when a job is flattened out of a batch or
	// copied into the applied list. Never sent to the matcher.
	ResumeID       string `json:"resumeId,omitempty"`
	ResumeFilename string `json:"resumeFilename,omitempty"`
	BatchID        string `json:"batchId,omitempty"`
	ExtractionDate string `json:"extractionDate,omitempty"`
}

// HybridScoreOrZero is the value every ranking decision uses: missing scores
// rank below any computed score.
func (j JobRecord) HybridScoreOrZero() float64 {
	if j.HybridScore == nil {
		return 0
	}
	return *j.HybridScore
}

// PostedTime parses PostedDate. ok is false when the field is empty or in a
// format we don't recognize; such jobs only satisfy the loosest recency
// filters.
func (j JobRecord) PostedTime() (time.Time, bool) {
	if j.PostedDate == "" {
		return time.Time{}, false
	}
	for _, layout := range postedDateLayouts {
		if t, err := time.Parse(layout, j.PostedDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Batch is one completed match run for one resume. Jobs keep the matcher's
// ranking order.
type Batch struct {
	BatchID        string      `json:"batchId"`
	ExtractionDate time.Time   `json:"extractionDate"`
	Jobs           []JobRecord `json:"jobs"`
}

// ResumeJobs is the per-resume value stored in the jobsByResume collection.
// Batches are append-only in insertion order. LastExtraction is a cached
// denormalization and must be refreshed whenever batches change.
type ResumeJobs struct {
	Batches        []Batch   `json:"batches"`
	LastExtraction time.Time `json:"lastExtraction"`
}

// JobCount sums the jobs across all batches.
func (r ResumeJobs) JobCount() int {
	total := 0
	for _, batch := range r.Batches {
		total += len(batch.Jobs)
	}
	return total
}
