package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agency "github.com/PmSerg/social-media-agent-system"
	"github.com/PmSerg/social-media-agent-system/archetype"
	"github.com/PmSerg/social-media-agent-system/completion"
)

// fakeCompleter returns canned responses in order and records requests.
type fakeCompleter struct {
	responses []string
	errs      []error
	requests  []completion.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req completion.Request) (string, error) {
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", nil
}

// fakeSearcher returns a fixed source list.
type fakeSearcher struct {
	sources []agency.Source
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, numResults int) ([]agency.Source, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.sources) > numResults {
		return f.sources[:numResults], nil
	}
	return f.sources, nil
}

func newRun(t *testing.T, params agency.ContentParams) *Context {
	t.Helper()
	persona, ok := archetype.ByName("Caregiver")
	require.True(t, ok)
	return NewContext("task-1", params, persona)
}

func TestContextResults(t *testing.T) {
	run := newRun(t, agency.ContentParams{Topic: "fintech"})

	_, ok := run.Research()
	assert.False(t, ok)

	research := &agency.ResearchResult{Summary: "overview"}
	run.SetResult(ResearchAgentName, research)

	got, ok := run.Research()
	require.True(t, ok)
	assert.Equal(t, "overview", got.Summary)

	all := run.Results()
	assert.Len(t, all, 1)

	// Mutating the copy must not affect the run context.
	delete(all, ResearchAgentName)
	_, ok = run.Result(ResearchAgentName)
	assert.True(t, ok)
}
