package events

var BatchSavedTopic = "BatchSavedEvent"

type BatchSaved struct {
	ResumeID string
	BatchID  string
	JobCount int
}

var BatchDeletedTopic = "BatchDeletedEvent"

type BatchDeleted struct {
	ResumeID string
	BatchID  string
}

var ApplicationRecordedTopic = "ApplicationRecordedEvent"

type ApplicationRecorded struct {
	JobID   string
	Company string
}
