package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	agency "github.com/PmSerg/social-media-agent-system"
	"github.com/PmSerg/social-media-agent-system/completion"
	"github.com/PmSerg/social-media-agent-system/search"
)

// ResearchAgentName is the identifier workflow steps use for the research agent.
const ResearchAgentName = "research"

// Result counts per research depth.
var depthResults = map[string]int{
	"quick":    5,
	"standard": 10,
	"deep":     20,
}

// maxAnalyzedSources caps how many hits feed the analysis prompt.
const maxAnalyzedSources = 10

// Research performs a web search and distills the hits into findings via the
// completion service.
type Research struct {
	completer completion.Completer
	searcher  search.Provider
	log       *slog.Logger
}

// NewResearch creates the research agent.
func NewResearch(completer completion.Completer, searcher search.Provider, log *slog.Logger) *Research {
	if log == nil {
		log = slog.Default()
	}
	return &Research{completer: completer, searcher: searcher, log: log}
}

// Name returns the agent identifier.
func (a *Research) Name() string { return ResearchAgentName }

// Execute searches the web for the topic and analyzes the results.
// Search failures degrade to an empty source list; analysis parse failures
// degrade to a minimal result. Completion call failures propagate and fail
// the step.
func (a *Research) Execute(ctx context.Context, run *Context, params agency.ContentParams) (agency.Result, error) {
	numResults := depthResults["standard"]
	if n, ok := depthResults[strings.ToLower(params.Depth)]; ok {
		numResults = n
	}

	// Persona framing skews sources toward the voice the copy will take.
	query := params.Topic + " " + run.Archetype.QueryTerms()

	a.log.Info("research starting", "task_id", run.TaskID, "topic", params.Topic, "depth", params.Depth)

	sources, err := a.searcher.Search(ctx, query, numResults)
	if err != nil {
		a.log.Warn("search degraded", "task_id", run.TaskID, "error", err)
		sources = nil
	}
	sources = a.validSources(run.TaskID, sources)
	if len(sources) > maxAnalyzedSources {
		sources = sources[:maxAnalyzedSources]
	}

	if len(sources) == 0 {
		return &agency.ResearchResult{
			KeyFindings: []string{"No search results available"},
			Summary:     "Unable to find relevant information.",
		}, nil
	}

	analysis, err := a.analyze(ctx, params.Topic, sources, params.FocusAreas)
	if err != nil {
		return nil, fmt.Errorf("research analysis: %w", err)
	}

	result := &agency.ResearchResult{
		Sources:     sources,
		KeyFindings: capStrings(analysis.Findings, 5),
		Summary:     analysis.Summary,
		Statistics:  capStrings(analysis.Statistics, 5),
		Trends:      capStrings(analysis.Trends, 3),
	}

	a.log.Info("research complete", "task_id", run.TaskID,
		"sources", len(result.Sources), "findings", len(result.KeyFindings))
	return result, nil
}

// validSources drops hits missing their mandatory fields. Search providers
// beyond the built-in client are not trusted to pre-clean their results.
func (a *Research) validSources(taskID string, sources []agency.Source) []agency.Source {
	valid := sources[:0]
	for _, src := range sources {
		if err := src.Validate(); err != nil {
			a.log.Warn("dropping malformed source", "task_id", taskID, "error", err)
			continue
		}
		valid = append(valid, src)
	}
	return valid
}

type analysisJSON struct {
	Findings   []string `json:"findings"`
	Summary    string   `json:"summary"`
	Statistics []string `json:"statistics"`
	Trends     []string `json:"trends"`
}

func (a *Research) analyze(ctx context.Context, topic string, sources []agency.Source, focusAreas []string) (*analysisJSON, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Analyze the following search results about: %s\n", topic)
	if len(focusAreas) > 0 {
		fmt.Fprintf(&prompt, "Focus on these areas: %s\n", strings.Join(focusAreas, ", "))
	}
	prompt.WriteString("\nSearch Results:\n")
	for i, src := range sources {
		fmt.Fprintf(&prompt, "%d. %s\n   %s\n   Source: %s\n\n", i+1, src.Title, src.Snippet, src.URL)
	}
	prompt.WriteString(`Please provide:
1. Key Findings: List 3-5 most important findings
2. Summary: 2-3 sentence overview
3. Statistics: Any relevant numbers or data points
4. Trends: Current or emerging trends

Format as JSON with keys: findings (list), summary (string), statistics (list), trends (list)`)

	raw, err := a.completer.Complete(ctx, completion.Request{
		System:      "You are a research analyst. Analyze information and extract key insights.",
		Prompt:      prompt.String(),
		Temperature: 0.3,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	var analysis analysisJSON
	if err := json.Unmarshal([]byte(stripFences(raw)), &analysis); err != nil {
		a.log.Warn("analysis response not parseable, using minimal result", "error", err)
		return &analysisJSON{
			Findings: []string{"Analysis error occurred"},
			Summary:  "Unable to analyze results.",
		}, nil
	}
	return &analysis, nil
}

func capStrings(in []string, max int) []string {
	if len(in) > max {
		return in[:max]
	}
	return in
}

// stripFences removes a surrounding markdown code fence from a model
// response, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ Agent = (*Research)(nil)
