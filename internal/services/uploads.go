package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/resumodo/jobmatch/internal/logger"
	"github.com/resumodo/jobmatch/internal/metrics"
	"github.com/resumodo/jobmatch/internal/models"
	log "github.com/sirupsen/logrus"
)

// JobMatcher is the external matching service: resume file in, scored job
// records out.
type JobMatcher interface {
	MatchResume(ctx context.Context, filename string, file io.Reader) ([]models.JobRecord, error)
}

// Uploads runs the upload pipeline: match the file against the external
// service, merge-save the resume record, append the result as a new batch.
// Each step is one-shot; a failure surfaces to the caller with nothing
// rolled back, matching the single-write store model.
type Uploads struct {
	matcher JobMatcher
	resumes *Resumes
	batches *Batches
}

func NewUploads(matcher JobMatcher, resumes *Resumes, batches *Batches) *Uploads {
	return &Uploads{matcher: matcher, resumes: resumes, batches: batches}
}

func (u *Uploads) MatchAndStore(ctx context.Context, filename string, content []byte) (models.Resume, models.Batch, error) {

	start := time.Now()
	jobs, err := u.matcher.MatchResume(ctx, filename, bytes.NewReader(content))
	metrics.MatchRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeMatcherApi).
			Errorf("matching %s failed: %v", filename, err)
		return models.Resume{}, models.Batch{}, err
	}

	resume, err := u.resumes.Save(ctx, filename, DataURL(filename, content))
	if err != nil {
		return models.Resume{}, models.Batch{}, err
	}

	batch, err := u.batches.Add(ctx, resume.ID, jobs)
	if err != nil {
		return models.Resume{}, models.Batch{}, err
	}
	return resume, batch, nil
}

// DataURL encodes file content the way the browser's FileReader would, so
// the stored fileUrl can be rendered or downloaded later without the
// original file.
func DataURL(filename string, content []byte) string {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(content)
}
