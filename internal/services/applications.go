package services

import (
	"context"
	"sort"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/resumodo/jobmatch/internal/events"
	"github.com/resumodo/jobmatch/internal/models"
	"github.com/resumodo/jobmatch/internal/store"
	log "github.com/sirupsen/logrus"
)

// UnknownResumeGroup is the bucket for applications whose originating resume
// is no longer known. It always sorts last in grouped listings.
const UnknownResumeGroup = "Unknown resume"

// Attribution links an application back to the resume and batch that
// produced the job. Empty fields fall back to whatever the job itself
// already carries.
type Attribution struct {
	ResumeID       string
	ResumeFilename string
	BatchID        string
	ExtractionDate string
}

// AppliedGroup is one resume's applications in a grouped listing.
type AppliedGroup struct {
	ResumeFilename string
	Jobs           []models.AppliedJob
}

// Applications tracks jobs the user applied to, deduplicated by job id.
type Applications struct {
	store *store.Store
	bus   EventBus.Bus
}

func NewApplications(store *store.Store, bus EventBus.Bus) *Applications {
	return &Applications{store: store, bus: bus}
}

// Record stores an independent copy of the job with an applied timestamp.
// Applying to an already-applied job id is a no-op.
func (a *Applications) Record(ctx context.Context, job models.JobRecord, attribution Attribution) error {
	applied, err := a.store.AppliedJobs(ctx)
	if err != nil {
		return err
	}

	for _, existing := range applied {
		if existing.JobID == job.JobID {
			log.Debugf("job %s already applied, skipping", job.JobID)
			return nil
		}
	}

	if attribution.ResumeID != "" {
		job.ResumeID = attribution.ResumeID
	}
	if attribution.ResumeFilename != "" {
		job.ResumeFilename = attribution.ResumeFilename
	}
	if attribution.BatchID != "" {
		job.BatchID = attribution.BatchID
	}
	if attribution.ExtractionDate != "" {
		job.ExtractionDate = attribution.ExtractionDate
	}

	applied = append(applied, models.AppliedJob{
		JobRecord: job,
		AppliedAt: time.Now(),
	})
	if err = a.store.SaveAppliedJobs(ctx, applied); err != nil {
		return err
	}

	a.bus.Publish(events.ApplicationRecordedTopic, events.ApplicationRecorded{
		JobID:   job.JobID,
		Company: job.Company,
	})
	return nil
}

func (a *Applications) IsApplied(ctx context.Context, jobID string) (bool, error) {
	applied, err := a.store.AppliedJobs(ctx)
	if err != nil {
		return false, err
	}

	for _, existing := range applied {
		if existing.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

// List returns every application, most recent first.
func (a *Applications) List(ctx context.Context) ([]models.AppliedJob, error) {
	applied, err := a.store.AppliedJobs(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(applied, func(i, j int) bool {
		return applied[i].AppliedAt.After(applied[j].AppliedAt)
	})
	return applied, nil
}

// ListGroupedByResume groups applications by the filename of the resume they
// were attributed to. Groups come back sorted by filename with the unknown
// bucket last; within a group jobs are most recent first.
func (a *Applications) ListGroupedByResume(ctx context.Context) ([]AppliedGroup, error) {
	applied, err := a.List(ctx)
	if err != nil {
		return nil, err
	}

	byFilename := make(map[string][]models.AppliedJob)
	for _, job := range applied {
		filename := job.ResumeFilename
		if filename == "" {
			filename = UnknownResumeGroup
		}
		byFilename[filename] = append(byFilename[filename], job)
	}

	groups := make([]AppliedGroup, 0, len(byFilename))
	for filename, jobs := range byFilename {
		groups = append(groups, AppliedGroup{ResumeFilename: filename, Jobs: jobs})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].ResumeFilename == UnknownResumeGroup {
			return false
		}
		if groups[j].ResumeFilename == UnknownResumeGroup {
			return true
		}
		return groups[i].ResumeFilename < groups[j].ResumeFilename
	})
	return groups, nil
}
