package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agency "github.com/PmSerg/social-media-agent-system"
)

func testSources() []agency.Source {
	return []agency.Source{
		{Title: "Digital banking trends", URL: "https://example.com/1", Snippet: "Mobile-first banking is growing.", Position: 1},
		{Title: "Fintech report", URL: "https://example.com/2", Snippet: "Adoption rose 40% year over year.", Position: 2},
	}
}

func TestResearchExecute(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`{"findings": ["Mobile-first adoption is accelerating", "Trust drives retention"],
		  "summary": "Digital banking keeps growing.",
		  "statistics": ["40% YoY adoption growth"],
		  "trends": ["Embedded finance"]}`,
	}}
	searcher := &fakeSearcher{sources: testSources()}
	agent := NewResearch(completer, searcher, nil)

	run := newRun(t, agency.ContentParams{Topic: "digital banking", Depth: "quick"})
	result, err := agent.Execute(context.Background(), run, run.Params)
	require.NoError(t, err)

	research, ok := result.(*agency.ResearchResult)
	require.True(t, ok)
	assert.Len(t, research.Sources, 2)
	assert.Equal(t, "Digital banking keeps growing.", research.Summary)
	assert.Len(t, research.KeyFindings, 2)
	assert.Equal(t, []string{"Embedded finance"}, research.Trends)

	// The query is framed with the persona's search terms.
	require.Len(t, searcher.queries, 1)
	assert.Contains(t, searcher.queries[0], "digital banking")
	assert.Contains(t, searcher.queries[0], "trust")

	// Analysis requests are deterministic and JSON-mode.
	require.Len(t, completer.requests, 1)
	assert.InDelta(t, 0.3, completer.requests[0].Temperature, 0.001)
	assert.True(t, completer.requests[0].JSONMode)
}

func TestResearchDepthControlsResultCount(t *testing.T) {
	many := make([]agency.Source, 25)
	for i := range many {
		many[i] = agency.Source{Title: "t", URL: "https://example.com", Snippet: "s", Position: i + 1}
	}
	completer := &fakeCompleter{responses: []string{`{"findings": ["f"], "summary": "s"}`}}
	searcher := &fakeSearcher{sources: many}
	agent := NewResearch(completer, searcher, nil)

	run := newRun(t, agency.ContentParams{Topic: "x", Depth: "quick"})
	result, err := agent.Execute(context.Background(), run, run.Params)
	require.NoError(t, err)

	research := result.(*agency.ResearchResult)
	assert.Len(t, research.Sources, 5, "quick depth requests 5 results")
}

func TestResearchDropsMalformedSources(t *testing.T) {
	sources := append(testSources(),
		agency.Source{URL: "https://example.com/untitled", Snippet: "no title"},
		agency.Source{Title: "No link"})
	completer := &fakeCompleter{responses: []string{`{"findings": ["f"], "summary": "s"}`}}
	searcher := &fakeSearcher{sources: sources}
	agent := NewResearch(completer, searcher, nil)

	run := newRun(t, agency.ContentParams{Topic: "digital banking"})
	result, err := agent.Execute(context.Background(), run, run.Params)
	require.NoError(t, err)

	research := result.(*agency.ResearchResult)
	require.Len(t, research.Sources, 2)
	for _, src := range research.Sources {
		assert.NoError(t, src.Validate())
	}
}

func TestResearchEmptySourcesDegrades(t *testing.T) {
	completer := &fakeCompleter{}
	searcher := &fakeSearcher{}
	agent := NewResearch(completer, searcher, nil)

	run := newRun(t, agency.ContentParams{Topic: "obscure topic"})
	result, err := agent.Execute(context.Background(), run, run.Params)
	require.NoError(t, err)

	research := result.(*agency.ResearchResult)
	assert.Equal(t, []string{"No search results available"}, research.KeyFindings)
	assert.Equal(t, "Unable to find relevant information.", research.Summary)
	assert.Empty(t, completer.requests, "no analysis without sources")
}

func TestResearchAnalysisErrorPropagates(t *testing.T) {
	completer := &fakeCompleter{errs: []error{agency.NewTransientError("rate limited", 429, nil)}}
	searcher := &fakeSearcher{sources: testSources()}
	agent := NewResearch(completer, searcher, nil)

	run := newRun(t, agency.ContentParams{Topic: "digital banking"})
	_, err := agent.Execute(context.Background(), run, run.Params)
	require.Error(t, err)
	assert.True(t, agency.IsTransient(err))
}

func TestResearchUnparseableAnalysisDegrades(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"this is not json"}}
	searcher := &fakeSearcher{sources: testSources()}
	agent := NewResearch(completer, searcher, nil)

	run := newRun(t, agency.ContentParams{Topic: "digital banking"})
	result, err := agent.Execute(context.Background(), run, run.Params)
	require.NoError(t, err)

	research := result.(*agency.ResearchResult)
	assert.Equal(t, []string{"Analysis error occurred"}, research.KeyFindings)
	assert.Equal(t, "Unable to analyze results.", research.Summary)
}

func TestResearchFencedAnalysisParses(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		"```json\n{\"findings\": [\"f1\"], \"summary\": \"fenced\"}\n```",
	}}
	searcher := &fakeSearcher{sources: testSources()}
	agent := NewResearch(completer, searcher, nil)

	run := newRun(t, agency.ContentParams{Topic: "digital banking"})
	result, err := agent.Execute(context.Background(), run, run.Params)
	require.NoError(t, err)

	research := result.(*agency.ResearchResult)
	assert.Equal(t, "fenced", research.Summary)
}
