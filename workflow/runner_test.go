package workflow

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agency "github.com/PmSerg/social-media-agent-system"
	"github.com/PmSerg/social-media-agent-system/agent"
	"github.com/PmSerg/social-media-agent-system/archetype"
	"github.com/PmSerg/social-media-agent-system/record"
)

// stubAgent returns a fixed result or error and counts invocations.
type stubAgent struct {
	name   string
	result agency.Result
	err    error
	calls  int
}

func (s *stubAgent) Name() string { return s.name }

func (s *stubAgent) Execute(_ context.Context, run *agent.Context, _ agency.ContentParams) (agency.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// recordingNotifier captures every progress update.
type recordingNotifier struct {
	updates []agency.ProgressUpdate
	targets []string
}

func (n *recordingNotifier) Notify(_ context.Context, taskID, targetURL string, update agency.ProgressUpdate) {
	n.updates = append(n.updates, update)
	n.targets = append(n.targets, targetURL)
}

func stubResearch() *stubAgent {
	return &stubAgent{
		name: agent.ResearchAgentName,
		result: &agency.ResearchResult{
			Summary:     "Digital banking keeps growing.",
			KeyFindings: []string{"Mobile adoption is up"},
		},
	}
}

func stubCopywriter() *stubAgent {
	return &stubAgent{
		name: agent.CopywriterAgentName,
		result: &agency.ContentResult{
			Content:        "Banking made simple.",
			Hashtags:       []string{"Banking"},
			CharacterCount: 20,
		},
	}
}

func testRunner(t *testing.T, store record.Store, notifier *recordingNotifier, agents ...agent.Agent) *Runner {
	t.Helper()
	dir := t.TempDir()
	writeCommand(t, dir, "create-content", sampleCommand)
	return NewRunner(NewLoader(dir), store, notifier, agents,
		WithStepPause(0),
		WithSelector(archetype.NewSelector(rand.New(rand.NewSource(1)))))
}

func createTask(t *testing.T, store record.Store) agency.Task {
	t.Helper()
	id, err := record.CreateTask(context.Background(), store,
		"digital banking", "/create-content", agency.ModeInstant, "make a post")
	require.NoError(t, err)
	return agency.Task{
		ID:         id,
		Params:     agency.ContentParams{Topic: "digital banking", Platform: "twitter"},
		Mode:       agency.ModeInstant,
		WebhookURL: "https://hooks.example.com/progress",
	}
}

func TestRunnerExecute(t *testing.T) {
	store := record.NewMemory()
	notifier := &recordingNotifier{}
	research := stubResearch()
	copywriter := stubCopywriter()
	runner := testRunner(t, store, notifier, research, copywriter)
	task := createTask(t, store)

	err := runner.Execute(context.Background(), "/create-content", task)
	require.NoError(t, err)

	assert.Equal(t, 1, research.calls)
	assert.Equal(t, 1, copywriter.calls)

	rec, err := store.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, string(agency.StatusComplete), rec.Fields[record.FieldStatus])
	assert.Equal(t, "Banking made simple.", rec.Fields[record.FieldContent])
	assert.Contains(t, rec.Fields[record.FieldResearch], "Digital banking keeps growing.")
	assert.NotEmpty(t, rec.Fields[record.FieldArchetype])
	assert.Equal(t, "copywriter complete", rec.Fields[record.FieldAgentStatus])

	// Starting, 2x(step start + step done), final complete.
	require.Len(t, notifier.updates, 6)
	assert.Contains(t, notifier.updates[0].Message, "🚀 Starting execution of /create-content")
	assert.Equal(t, agent.ResearchAgentName, notifier.updates[1].Agent)
	assert.Contains(t, notifier.updates[2].Message, "✅ Step 1: research complete")
	assert.Contains(t, notifier.updates[4].Message, "✅ Step 2: copywriter complete")

	final := notifier.updates[5]
	assert.Equal(t, agency.StatusComplete, final.Status)
	data, ok := final.Data.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, data, agent.CopywriterAgentName)

	for _, target := range notifier.targets {
		assert.Equal(t, task.WebhookURL, target)
	}
}

func TestRunnerNotificationsCarryFullResults(t *testing.T) {
	store := record.NewMemory()
	notifier := &recordingNotifier{}

	longSummary := strings.Repeat("Digital banking adoption keeps accelerating. ", 30)
	research := &stubAgent{
		name: agent.ResearchAgentName,
		result: &agency.ResearchResult{
			Sources:     []agency.Source{{Title: "Fintech report", URL: "https://example.com/report"}},
			Summary:     longSummary,
			KeyFindings: []string{"Mobile adoption is up"},
		},
	}
	copywriter := stubCopywriter()
	runner := testRunner(t, store, notifier, research, copywriter)
	task := createTask(t, store)

	require.NoError(t, runner.Execute(context.Background(), "create-content", task))

	// Step-complete payloads carry the result struct itself, untruncated.
	stepData, ok := notifier.updates[2].Data.(map[string]any)
	require.True(t, ok)
	stepResult, ok := stepData["result"].(*agency.ResearchResult)
	require.True(t, ok)
	assert.Equal(t, longSummary, stepResult.Summary)
	assert.Equal(t, "https://example.com/report", stepResult.Sources[0].URL)

	// So does the terminal notification, keyed by agent.
	finalData, ok := notifier.updates[5].Data.(map[string]any)
	require.True(t, ok)
	finalResearch, ok := finalData[agent.ResearchAgentName].(*agency.ResearchResult)
	require.True(t, ok)
	assert.Equal(t, longSummary, finalResearch.Summary)
	finalContent, ok := finalData[agent.CopywriterAgentName].(*agency.ContentResult)
	require.True(t, ok)
	assert.Equal(t, "Banking made simple.", finalContent.Content)
	assert.Equal(t, []string{"Banking"}, finalContent.Hashtags)
}

func TestRunnerResearchFailureStopsWorkflow(t *testing.T) {
	store := record.NewMemory()
	notifier := &recordingNotifier{}
	research := &stubAgent{name: agent.ResearchAgentName,
		err: agency.NewTransientError("search backend down", 503, nil)}
	copywriter := stubCopywriter()
	runner := testRunner(t, store, notifier, research, copywriter)
	task := createTask(t, store)

	err := runner.Execute(context.Background(), "create-content", task)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, agent.ResearchAgentName, stepErr.StepName)
	assert.True(t, agency.IsTransient(err))

	assert.Equal(t, 0, copywriter.calls, "downstream steps must not run")

	rec, getErr := store.Get(context.Background(), task.ID)
	require.NoError(t, getErr)
	assert.Equal(t, string(agency.StatusError), rec.Fields[record.FieldStatus])
	assert.Contains(t, rec.Fields[record.FieldError], "search backend down")

	last := notifier.updates[len(notifier.updates)-1]
	assert.Equal(t, agency.StatusError, last.Status)
	assert.Contains(t, last.Message, "❌ Error:")
}

func TestRunnerScheduledNotImplemented(t *testing.T) {
	store := record.NewMemory()
	notifier := &recordingNotifier{}
	runner := testRunner(t, store, notifier, stubResearch(), stubCopywriter())

	task := createTask(t, store)
	task.Mode = agency.ModeScheduled

	err := runner.Execute(context.Background(), "create-content", task)
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Empty(t, notifier.updates, "rejected before any notification")
}

func TestRunnerUnknownCommand(t *testing.T) {
	store := record.NewMemory()
	notifier := &recordingNotifier{}
	runner := testRunner(t, store, notifier, stubResearch(), stubCopywriter())
	task := createTask(t, store)

	err := runner.Execute(context.Background(), "no-such-command", task)
	assert.ErrorIs(t, err, ErrCommandNotFound)

	// The task record exists by the time the runner loads the definition,
	// so a load failure is a terminal error, not a silent return.
	rec, getErr := store.Get(context.Background(), task.ID)
	require.NoError(t, getErr)
	assert.Equal(t, string(agency.StatusError), rec.Fields[record.FieldStatus])

	require.Len(t, notifier.updates, 1)
	assert.Equal(t, agency.StatusError, notifier.updates[0].Status)
	assert.Contains(t, notifier.updates[0].Message, "❌ Error:")
}

func TestRunnerUnknownAgent(t *testing.T) {
	store := record.NewMemory()
	notifier := &recordingNotifier{}
	// Only research registered; the command's copywriter step cannot resolve.
	runner := testRunner(t, store, notifier, stubResearch())
	task := createTask(t, store)

	err := runner.Execute(context.Background(), "create-content", task)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAgent)

	rec, getErr := store.Get(context.Background(), task.ID)
	require.NoError(t, getErr)
	assert.Equal(t, string(agency.StatusError), rec.Fields[record.FieldStatus])
}

func TestRunnerNilNotifier(t *testing.T) {
	store := record.NewMemory()
	dir := t.TempDir()
	writeCommand(t, dir, "create-content", sampleCommand)
	runner := NewRunner(NewLoader(dir), store, nil,
		[]agent.Agent{stubResearch(), stubCopywriter()}, WithStepPause(0))
	task := createTask(t, store)

	err := runner.Execute(context.Background(), "create-content", task)
	require.NoError(t, err, "notification delivery is best-effort")
}

func TestRunnerPausesBetweenSteps(t *testing.T) {
	store := record.NewMemory()
	notifier := &recordingNotifier{}
	dir := t.TempDir()
	writeCommand(t, dir, "create-content", sampleCommand)
	runner := NewRunner(NewLoader(dir), store, notifier,
		[]agent.Agent{stubResearch(), stubCopywriter()}, WithStepPause(30*time.Millisecond))
	task := createTask(t, store)

	start := time.Now()
	err := runner.Execute(context.Background(), "create-content", task)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRunnerContextCancelledDuringPause(t *testing.T) {
	store := record.NewMemory()
	notifier := &recordingNotifier{}
	dir := t.TempDir()
	writeCommand(t, dir, "create-content", sampleCommand)
	copywriter := stubCopywriter()
	runner := NewRunner(NewLoader(dir), store, notifier,
		[]agent.Agent{stubResearch(), copywriter}, WithStepPause(time.Second))
	task := createTask(t, store)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := runner.Execute(ctx, "create-content", task)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, copywriter.calls)
}

func TestRunnerCommands(t *testing.T) {
	store := record.NewMemory()
	runner := testRunner(t, store, &recordingNotifier{}, stubResearch(), stubCopywriter())

	names, err := runner.Commands()
	require.NoError(t, err)
	assert.Equal(t, []string{"create-content"}, names)

	def, err := runner.Describe("create-content")
	require.NoError(t, err)
	assert.Len(t, def.Steps, 2)
}
