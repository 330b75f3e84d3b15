package agency

// Status is the lifecycle state of a task in the record store.
type Status string

const (
	StatusWaiting    Status = "Waiting"
	StatusProcessing Status = "Processing"
	StatusComplete   Status = "Complete"
	StatusError      Status = "Error"
)

// ExecutionMode selects when a task runs.
type ExecutionMode string

const (
	// ModeInstant runs the task immediately in the background.
	ModeInstant ExecutionMode = "Instant"

	// ModeScheduled defers execution. Not implemented; invoking it fails
	// with workflow.ErrNotImplemented rather than silently dropping the task.
	ModeScheduled ExecutionMode = "Scheduled"
)

// Task is one end-to-end content-generation request. The ID is assigned by
// the record store when the task page is created; the orchestrator mutates
// the task only through record-store updates keyed by that ID.
type Task struct {
	ID         string        `json:"task_id"`
	Params     ContentParams `json:"params"`
	Mode       ExecutionMode `json:"mode"`
	WebhookURL string        `json:"webhook_url,omitempty"`
}
