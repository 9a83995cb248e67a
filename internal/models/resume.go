package models

import "time"

// Resume is one uploaded document. Identity for merge purposes is the exact
// filename: re-uploading the same name refreshes UploadedAt instead of
// creating a duplicate record.
type Resume struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileURL    string    `json:"fileUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ResumeSummary is a Resume decorated with derived match-history fields for
// list views. LastExtraction falls back to UploadedAt when the resume has no
// batches yet.
type ResumeSummary struct {
	Resume
	JobCount       int       `json:"jobCount"`
	LastExtraction time.Time `json:"lastExtraction"`
}
