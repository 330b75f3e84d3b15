package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	agency "github.com/PmSerg/social-media-agent-system"
	"github.com/PmSerg/social-media-agent-system/agent"
	"github.com/PmSerg/social-media-agent-system/archetype"
	"github.com/PmSerg/social-media-agent-system/record"
	"github.com/PmSerg/social-media-agent-system/webhook"
)

// defaultStepPause is the delay between workflow steps. It keeps downstream
// consumers of progress notifications from receiving bursts.
const defaultStepPause = 500 * time.Millisecond

// Runner executes workflow definitions against registered agents. It owns
// the task lifecycle: status persistence, per-step notifications, and
// terminal success or error handling.
type Runner struct {
	loader   *Loader
	store    record.Store
	notifier webhook.Notifier
	agents   map[string]agent.Agent
	selector *archetype.Selector
	log      *slog.Logger

	stepPause time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStepPause overrides the delay between steps.
func WithStepPause(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.stepPause = d
	}
}

// WithSelector overrides the persona selector, e.g. with a seeded source.
func WithSelector(s *archetype.Selector) RunnerOption {
	return func(r *Runner) {
		r.selector = s
	}
}

// WithRunnerLogger sets the logger.
func WithRunnerLogger(log *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.log = log
	}
}

// NewRunner creates a runner. Agents are registered under their Name().
func NewRunner(loader *Loader, store record.Store, notifier webhook.Notifier, agents []agent.Agent, opts ...RunnerOption) *Runner {
	r := &Runner{
		loader:    loader,
		store:     store,
		notifier:  notifier,
		agents:    make(map[string]agent.Agent, len(agents)),
		selector:  archetype.NewSelector(rand.New(rand.NewSource(time.Now().UnixNano()))),
		log:       slog.Default(),
		stepPause: defaultStepPause,
	}
	for _, a := range agents {
		r.agents[a.Name()] = a
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Commands returns the available command names.
func (r *Runner) Commands() ([]string, error) {
	return r.loader.List()
}

// Describe loads a command definition without executing it.
func (r *Runner) Describe(command string) (*Definition, error) {
	return r.loader.Load(command)
}

// Execute runs a task through its command's workflow. Instant tasks run all
// steps in order; scheduled tasks are rejected with ErrNotImplemented.
// The returned error is also persisted to the task record and sent to the
// webhook target, so callers running in a goroutine may log and discard it.
func (r *Runner) Execute(ctx context.Context, command string, task agency.Task) error {
	if task.Mode == agency.ModeScheduled {
		return ErrNotImplemented
	}

	// The caller usually pre-validates the command, but the definition can
	// disappear or break between validation and execution. The task record
	// already exists at this point, so route load failures through the
	// terminal error path rather than stranding the record in Waiting.
	def, err := r.loader.Load(command)
	if err != nil {
		return r.fail(ctx, task, err)
	}

	persona := r.selector.Pick()
	run := agent.NewContext(task.ID, task.Params, persona)

	r.log.Info("workflow starting", "task_id", task.ID, "command", def.Name,
		"steps", len(def.Steps), "archetype", persona.Name)

	r.setStatus(ctx, task.ID, agency.StatusProcessing)
	if err := record.SetArchetype(ctx, r.store, task.ID, persona.Name); err != nil {
		r.log.Warn("archetype persist failed", "task_id", task.ID, "error", err)
	}
	r.notify(ctx, task, agency.NewProgress(agency.StatusProcessing,
		fmt.Sprintf("🚀 Starting execution of /%s", def.Name)))

	for i, step := range def.Steps {
		if i > 0 && r.stepPause > 0 {
			select {
			case <-time.After(r.stepPause):
			case <-ctx.Done():
				return r.fail(ctx, task, &StepError{StepName: step.Agent, Err: ctx.Err()})
			}
		}

		impl, ok := r.agents[step.Agent]
		if !ok {
			return r.fail(ctx, task, &StepError{StepName: step.Agent,
				Err: fmt.Errorf("%w: %q", ErrUnknownAgent, step.Agent)})
		}

		update := agency.NewProgress(agency.StatusProcessing,
			fmt.Sprintf("🔄 Step %d: %s starting...", i+1, step.Agent))
		update.Agent = step.Agent
		r.notify(ctx, task, update)
		r.setAgentStatus(ctx, task.ID, step.Agent+" running")

		// Each step gets its own copy so one agent's parameter tweaks
		// never leak into the next.
		result, err := impl.Execute(ctx, run, run.Params.Clone())
		if err != nil {
			return r.fail(ctx, task, &StepError{StepName: step.Agent, Err: err})
		}
		run.SetResult(step.Agent, result)
		r.persistResult(ctx, task.ID, step.Agent, result)
		r.setAgentStatus(ctx, task.ID, step.Agent+" complete")

		// The notification carries the result itself; only record-store
		// writes go through the excerpt projection.
		done := agency.NewProgress(agency.StatusProcessing,
			fmt.Sprintf("✅ Step %d: %s complete", i+1, step.Agent))
		done.Agent = step.Agent
		done.Data = map[string]any{"result": result}
		r.notify(ctx, task, done)
	}

	r.setStatus(ctx, task.ID, agency.StatusComplete)

	final := agency.NewProgress(agency.StatusComplete, "🎉 Task completed successfully!")
	final.Data = resultData(run)
	r.notify(ctx, task, final)

	r.log.Info("workflow complete", "task_id", task.ID, "command", def.Name)
	return nil
}

// fail records the terminal error, notifies the webhook target, and returns
// the error for the caller.
func (r *Runner) fail(ctx context.Context, task agency.Task, stepErr error) error {
	r.log.Error("workflow failed", "task_id", task.ID, "error", stepErr)

	if err := record.SetError(ctx, r.store, task.ID, stepErr.Error()); err != nil {
		r.log.Warn("error persist failed", "task_id", task.ID, "error", err)
	}
	r.notify(ctx, task, agency.NewProgress(agency.StatusError,
		fmt.Sprintf("❌ Error: %v", stepErr)))
	return stepErr
}

// persistResult writes a step result to the task record. Persistence
// failures are logged and do not fail the run.
func (r *Runner) persistResult(ctx context.Context, taskID, agentName string, result agency.Result) {
	var err error
	switch agentName {
	case agent.ResearchAgentName:
		if research, ok := result.(*agency.ResearchResult); ok {
			err = record.SetResearch(ctx, r.store, taskID, research)
		}
	case agent.CopywriterAgentName:
		if content, ok := result.(*agency.ContentResult); ok {
			err = record.SetContent(ctx, r.store, taskID, content.Content)
		}
	}
	if err != nil {
		r.log.Warn("result persist failed", "task_id", taskID, "agent", agentName, "error", err)
	}
}

func (r *Runner) setAgentStatus(ctx context.Context, taskID, status string) {
	if err := r.store.Update(ctx, taskID, record.Fields{record.FieldAgentStatus: status}); err != nil {
		r.log.Warn("agent status persist failed", "task_id", taskID, "error", err)
	}
}

func (r *Runner) setStatus(ctx context.Context, taskID string, status agency.Status) {
	if err := record.SetStatus(ctx, r.store, taskID, status); err != nil {
		r.log.Warn("status persist failed", "task_id", taskID, "status", status, "error", err)
	}
}

func (r *Runner) notify(ctx context.Context, task agency.Task, update agency.ProgressUpdate) {
	if r.notifier == nil {
		return
	}
	r.notifier.Notify(ctx, task.ID, task.WebhookURL, update)
}

// resultData carries every step's full result in the final notification.
func resultData(run *agent.Context) map[string]any {
	data := make(map[string]any)
	for name, result := range run.Results() {
		data[name] = result
	}
	return data
}
