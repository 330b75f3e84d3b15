// Package agency defines the shared types for the social media agent system.
//
// The system runs a short, linear content pipeline: a task names a topic and
// a target platform, a research step gathers and distills web sources, and a
// copywriter step turns the research into platform-optimized copy. Progress
// is persisted to an external record store and reported to the caller over
// webhook notifications.
//
// This package holds the data model (tasks, step results, progress payloads)
// and the categorized error type used to decide retry behavior. The moving
// parts live in subpackages:
//
//   - [github.com/PmSerg/social-media-agent-system/workflow]: the orchestrator
//     that executes a named step sequence for one task
//   - [github.com/PmSerg/social-media-agent-system/agent]: the research and
//     copywriter steps
//   - [github.com/PmSerg/social-media-agent-system/webhook]: best-effort
//     notification delivery with exponential backoff
//   - [github.com/PmSerg/social-media-agent-system/record]: the external
//     task record store
//   - [github.com/PmSerg/social-media-agent-system/completion]: LLM
//     completion providers (OpenAI, Anthropic, Google)
//   - [github.com/PmSerg/social-media-agent-system/search]: the web search
//     provider
package agency
