package record

import (
	"context"

	agency "github.com/PmSerg/social-media-agent-system"
)

// CreateTask makes a new task record in Waiting status.
func CreateTask(ctx context.Context, s Store, title, command string, mode agency.ExecutionMode, description string) (string, error) {
	fields := Fields{
		FieldStatus: string(agency.StatusWaiting),
	}
	if command != "" {
		fields[FieldCommand] = command
	}
	if mode != "" {
		fields[FieldMode] = string(mode)
	}
	if description != "" {
		fields[FieldDescription] = description
	}
	return s.Create(ctx, title, fields)
}

// SetStatus updates a task's status field.
func SetStatus(ctx context.Context, s Store, id string, status agency.Status) error {
	return s.Update(ctx, id, Fields{FieldStatus: string(status)})
}

// SetError marks a task failed and records the error message.
func SetError(ctx context.Context, s Store, id, message string) error {
	return s.Update(ctx, id, Fields{
		FieldStatus: string(agency.StatusError),
		FieldError:  message,
	})
}

// SetContent stores generated copy on the task.
func SetContent(ctx context.Context, s Store, id, content string) error {
	return s.Update(ctx, id, Fields{FieldContent: content})
}

// SetResearch stores the research projection on the task.
func SetResearch(ctx context.Context, s Store, id string, research *agency.ResearchResult) error {
	return s.Update(ctx, id, Fields{FieldResearch: research.Excerpt(TextLimit)})
}

// SetArchetype records which persona voiced the content.
func SetArchetype(ctx context.Context, s Store, id, name string) error {
	return s.Update(ctx, id, Fields{FieldArchetype: name})
}

// WaitingTasks returns tasks still awaiting execution, newest first.
func WaitingTasks(ctx context.Context, s Store, limit int) ([]Record, error) {
	return s.Query(ctx, Filter{Field: FieldStatus, Equals: string(agency.StatusWaiting)}, limit)
}
