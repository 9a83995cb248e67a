package models

import "time"

// AppliedJob is an independent copy of a job the user applied to. Deleting
// the resume or batch it came from does not retract it.
type AppliedJob struct {
	JobRecord
	AppliedAt time.Time `json:"appliedAt"`
}
