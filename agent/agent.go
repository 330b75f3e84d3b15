// Package agent implements the pipeline's work steps. Each agent takes the
// run context plus derived parameters and returns a typed result; the
// workflow runner owns sequencing, persistence, and notifications.
package agent

import (
	"context"

	agency "github.com/PmSerg/social-media-agent-system"
	"github.com/PmSerg/social-media-agent-system/archetype"
)

// Agent is one unit of work in a workflow.
type Agent interface {
	// Name is the agent identifier workflow steps refer to.
	Name() string

	// Execute runs the step. params is the per-step parameter derivation;
	// run carries the task identity and earlier step results.
	Execute(ctx context.Context, run *Context, params agency.ContentParams) (agency.Result, error)
}

// Context accumulates step results for one task run. It is owned by a single
// in-flight run and is not shared across tasks, so access is unsynchronized.
type Context struct {
	TaskID    string
	Params    agency.ContentParams
	Archetype archetype.Archetype

	results map[string]agency.Result
}

// NewContext creates the run context for one task. The persona is recorded
// up front so research framing and copy voice stay consistent.
func NewContext(taskID string, params agency.ContentParams, persona archetype.Archetype) *Context {
	return &Context{
		TaskID:    taskID,
		Params:    params,
		Archetype: persona,
		results:   make(map[string]agency.Result),
	}
}

// SetResult stores a completed step's result under the agent name.
func (c *Context) SetResult(agentName string, result agency.Result) {
	c.results[agentName] = result
}

// Result returns the stored result for an agent, if any.
func (c *Context) Result(agentName string) (agency.Result, bool) {
	r, ok := c.results[agentName]
	return r, ok
}

// Results returns a copy of all accumulated results keyed by agent name.
func (c *Context) Results() map[string]agency.Result {
	out := make(map[string]agency.Result, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out
}

// Research returns the research step's result when it has completed.
func (c *Context) Research() (*agency.ResearchResult, bool) {
	r, ok := c.results[ResearchAgentName]
	if !ok {
		return nil, false
	}
	rr, ok := r.(*agency.ResearchResult)
	return rr, ok
}
