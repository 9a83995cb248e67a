package store

import (
	"context"
	"encoding/json"

	"github.com/resumodo/jobmatch/internal/models"
)

// Collection keys in the substrate. The layout mirrors the three logical
// collections of the client: a list of resumes, a map of resume id to its
// match history, and a flat list of applied jobs.
const (
	keyResumes      = "resumes"
	keyJobsByResume = "jobsByResume"
	keyAppliedJobs  = "appliedJobs"
)

// Store is the typed facade over the KV substrate. Every read decodes a
// fresh snapshot, so mutating a returned value never affects stored state
// until it is written back. Every write replaces the whole collection.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) Resumes(ctx context.Context) ([]models.Resume, error) {
	return load(ctx, s.kv, keyResumes, []models.Resume{})
}

func (s *Store) SaveResumes(ctx context.Context, resumes []models.Resume) error {
	return save(ctx, s.kv, keyResumes, resumes)
}

func (s *Store) JobsByResume(ctx context.Context) (map[string]models.ResumeJobs, error) {
	return load(ctx, s.kv, keyJobsByResume, map[string]models.ResumeJobs{})
}

func (s *Store) SaveJobsByResume(ctx context.Context, jobsByResume map[string]models.ResumeJobs) error {
	return save(ctx, s.kv, keyJobsByResume, jobsByResume)
}

func (s *Store) AppliedJobs(ctx context.Context) ([]models.AppliedJob, error) {
	return load(ctx, s.kv, keyAppliedJobs, []models.AppliedJob{})
}

func (s *Store) SaveAppliedJobs(ctx context.Context, applied []models.AppliedJob) error {
	return save(ctx, s.kv, keyAppliedJobs, applied)
}

func load[T any](ctx context.Context, kv KV, key string, empty T) (T, error) {
	data, err := kv.Load(ctx, key)
	if err != nil {
		return empty, &StorageError{Key: key, Op: "load", Err: err}
	}
	if data == nil {
		return empty, nil
	}

	var value T
	if err = json.Unmarshal(data, &value); err != nil {
		return empty, &StorageError{Key: key, Op: "decode", Err: err}
	}
	return value, nil
}

func save[T any](ctx context.Context, kv KV, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &StorageError{Key: key, Op: "encode", Err: err}
	}
	if err = kv.Save(ctx, key, data); err != nil {
		return &StorageError{Key: key, Op: "save", Err: err}
	}
	return nil
}
