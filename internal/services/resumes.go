package services

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/resumodo/jobmatch/internal/models"
	"github.com/resumodo/jobmatch/internal/store"
	log "github.com/sirupsen/logrus"
)

// Resumes manages the uploaded-resume collection. A resume's identity for
// merge purposes is its exact filename: uploading the same name again
// refreshes the existing record instead of duplicating it.
type Resumes struct {
	store *store.Store
}

func NewResumes(store *store.Store) *Resumes {
	return &Resumes{store: store}
}

// Save records an upload. Re-uploads by filename refresh UploadedAt and the
// stored file reference; new filenames get a fresh time-derived id.
func (r *Resumes) Save(ctx context.Context, filename, fileURL string) (models.Resume, error) {
	resumes, err := r.store.Resumes(ctx)
	if err != nil {
		return models.Resume{}, err
	}

	for i, existing := range resumes {
		if existing.Filename == filename {
			resumes[i].UploadedAt = time.Now()
			resumes[i].FileURL = fileURL
			if err = r.store.SaveResumes(ctx, resumes); err != nil {
				return models.Resume{}, err
			}
			log.Infof("refreshed resume %s (%s)", existing.ID, filename)
			return resumes[i], nil
		}
	}

	resume := models.Resume{
		ID:         nextTimeID(),
		Filename:   filename,
		FileURL:    fileURL,
		UploadedAt: time.Now(),
	}
	resumes = append(resumes, resume)
	if err = r.store.SaveResumes(ctx, resumes); err != nil {
		return models.Resume{}, err
	}

	log.Infof("saved new resume %s (%s)", resume.ID, filename)
	return resume, nil
}

// GetByID fails loudly for unknown ids.
func (r *Resumes) GetByID(ctx context.Context, resumeID string) (models.Resume, error) {
	resumes, err := r.store.Resumes(ctx)
	if err != nil {
		return models.Resume{}, err
	}

	for _, resume := range resumes {
		if resume.ID == resumeID {
			return resume, nil
		}
	}
	return models.Resume{}, errors.Wrapf(ErrNotFound, "resume %s", resumeID)
}

// List returns every resume decorated with its job count and last extraction
// date, most recently extracted first. Resumes without batches fall back to
// their upload time.
func (r *Resumes) List(ctx context.Context) ([]models.ResumeSummary, error) {
	resumes, err := r.store.Resumes(ctx)
	if err != nil {
		return nil, err
	}
	jobsByResume, err := r.store.JobsByResume(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ResumeSummary, 0, len(resumes))
	for _, resume := range resumes {
		summary := models.ResumeSummary{Resume: resume, LastExtraction: resume.UploadedAt}
		if data, ok := jobsByResume[resume.ID]; ok {
			summary.JobCount = data.JobCount()
			summary.LastExtraction = data.LastExtraction
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastExtraction.After(summaries[j].LastExtraction)
	})
	return summaries, nil
}

// Delete removes the resume and cascades to its whole match history.
// Applications already recorded from that history are independent copies and
// stay. Deleting an unknown id is a no-op.
func (r *Resumes) Delete(ctx context.Context, resumeID string) error {
	resumes, err := r.store.Resumes(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Resume, 0, len(resumes))
	for _, resume := range resumes {
		if resume.ID != resumeID {
			kept = append(kept, resume)
		}
	}
	if err = r.store.SaveResumes(ctx, kept); err != nil {
		return err
	}

	jobsByResume, err := r.store.JobsByResume(ctx)
	if err != nil {
		return err
	}
	delete(jobsByResume, resumeID)
	return r.store.SaveJobsByResume(ctx, jobsByResume)
}
