package agency

import "time"

// ProgressUpdate is the JSON payload delivered to the caller's webhook.
// The webhook sender fills in TaskID before delivery.
type ProgressUpdate struct {
	TaskID    string    `json:"task_id"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// NewProgress builds a progress update stamped with the current time.
func NewProgress(status Status, message string) ProgressUpdate {
	return ProgressUpdate{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
