package history

import "time"

const SchemaVersion = 1

// Snapshot records the outcome of one scan-and-check pass.
type Snapshot struct {
	RunID          string        `json:"run_id"`
	ProjectKey     string        `json:"project_key"`
	SchemaVersion  int           `json:"schema_version"`
	Timestamp      time.Time     `json:"timestamp"`
	FileCount      int           `json:"file_count"`
	ClassCount     int           `json:"class_count"`
	ViolationCount int           `json:"violation_count"`
	ParseErrors    int           `json:"parse_errors"`
	Duration       time.Duration `json:"duration"`
}
