// Package mcp exposes the agency's operations as Model Context Protocol
// tools, so MCP clients can run workflow commands, list the available
// commands, and check task status without going through the HTTP API.
//
// The server speaks stdio, the standard transport for MCP servers invoked
// as subprocesses:
//
//	svc := mcp.NewService(runner, store)
//	if err := mcp.ServeStdio(svc); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	agency "github.com/PmSerg/social-media-agent-system"
	"github.com/PmSerg/social-media-agent-system/record"
	"github.com/PmSerg/social-media-agent-system/workflow"
)

// Service implements the tool operations behind the MCP surface. Unlike the
// HTTP handler, tool calls run the workflow synchronously: the MCP client
// holds the request open and gets the finished task back.
type Service struct {
	runner *workflow.Runner
	store  record.Store
}

// NewService creates the tool service over a configured runner and store.
func NewService(runner *workflow.Runner, store record.Store) *Service {
	return &Service{runner: runner, store: store}
}

// ExecuteCommandArgs are the arguments for the execute_command tool.
type ExecuteCommandArgs struct {
	Command    string               `json:"command"`
	Params     agency.ContentParams `json:"params"`
	WebhookURL string               `json:"webhook_url,omitempty"`
}

// ExecuteCommand runs a workflow command to completion and returns the task
// record fields as JSON.
func (s *Service) ExecuteCommand(ctx context.Context, args ExecuteCommandArgs) (string, error) {
	if args.Command == "" {
		return "", fmt.Errorf("command is required")
	}
	if args.Params.Topic == "" {
		return "", fmt.Errorf("params.topic is required")
	}
	if _, err := s.runner.Describe(args.Command); err != nil {
		return "", err
	}

	taskID, err := record.CreateTask(ctx, s.store, args.Params.Topic, args.Command, agency.ModeInstant, "")
	if err != nil {
		return "", fmt.Errorf("create task record: %w", err)
	}

	task := agency.Task{
		ID:         taskID,
		Params:     args.Params,
		Mode:       agency.ModeInstant,
		WebhookURL: args.WebhookURL,
	}
	if err := s.runner.Execute(ctx, args.Command, task); err != nil {
		return "", err
	}

	return s.taskJSON(ctx, taskID)
}

// ListCommands returns the available commands with their step sequences.
func (s *Service) ListCommands(ctx context.Context) (string, error) {
	names, err := s.runner.Commands()
	if err != nil {
		return "", err
	}

	type commandInfo struct {
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Agents      []string `json:"agents"`
	}
	infos := make([]commandInfo, 0, len(names))
	for _, name := range names {
		def, err := s.runner.Describe(name)
		if err != nil {
			continue
		}
		infos = append(infos, commandInfo{
			Name:        "/" + def.Name,
			Description: def.Description,
			Agents:      def.AgentNames(),
		})
	}

	out, err := json.Marshal(map[string]any{"commands": infos})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// TaskStatusArgs are the arguments for the task_status tool.
type TaskStatusArgs struct {
	TaskID string `json:"task_id"`
}

// TaskStatus returns a task's record fields as JSON.
func (s *Service) TaskStatus(ctx context.Context, args TaskStatusArgs) (string, error) {
	if args.TaskID == "" {
		return "", fmt.Errorf("task_id is required")
	}
	return s.taskJSON(ctx, args.TaskID)
}

func (s *Service) taskJSON(ctx context.Context, taskID string) (string, error) {
	rec, err := s.store.Get(ctx, taskID)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(map[string]any{
		"task_id": rec.ID,
		"status":  rec.Fields[record.FieldStatus],
		"fields":  rec.Fields,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

const executeCommandSchema = `{
  "type": "object",
  "properties": {
    "command": {"type": "string", "description": "Workflow command, e.g. /create-content"},
    "params": {
      "type": "object",
      "properties": {
        "topic": {"type": "string", "description": "Subject the content should cover"},
        "platform": {"type": "string", "enum": ["twitter", "linkedin", "facebook", "instagram", "threads", "telegram"]},
        "tone": {"type": "string"},
        "keywords": {"type": "array", "items": {"type": "string"}},
        "call_to_action": {"type": "string"},
        "depth": {"type": "string", "enum": ["quick", "standard", "deep"]}
      },
      "required": ["topic"]
    },
    "webhook_url": {"type": "string", "description": "Optional progress notification target"}
  },
  "required": ["command", "params"]
}`

const listCommandsSchema = `{"type": "object", "properties": {}}`

const taskStatusSchema = `{
  "type": "object",
  "properties": {
    "task_id": {"type": "string", "description": "Task record identifier"}
  },
  "required": ["task_id"]
}`

// NewServer creates an MCP server exposing the service's operations as tools.
func NewServer(svc *Service, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "social-media-agent-system",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewToolWithRawSchema("execute_command",
			"Run a content workflow command and return the finished task record",
			json.RawMessage(executeCommandSchema)),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args ExecuteCommandArgs
			if err := decodeArgs(req, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			out, err := svc.ExecuteCommand(ctx, args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(out), nil
		})

	s.AddTool(
		mcp.NewToolWithRawSchema("list_commands",
			"List the workflow commands available on this server",
			json.RawMessage(listCommandsSchema)),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			out, err := svc.ListCommands(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(out), nil
		})

	s.AddTool(
		mcp.NewToolWithRawSchema("task_status",
			"Return the record fields of a task by its identifier",
			json.RawMessage(taskStatusSchema)),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args TaskStatusArgs
			if err := decodeArgs(req, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			out, err := svc.TaskStatus(ctx, args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(out), nil
		})

	return s
}

// decodeArgs round-trips the request arguments through JSON into a typed
// argument struct.
func decodeArgs(req mcp.CallToolRequest, v any) error {
	if req.Params.Arguments == nil {
		return nil
	}
	data, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return fmt.Errorf("marshal arguments: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}
	return nil
}

// ServeStdio starts the MCP server over stdin/stdout.
func ServeStdio(svc *Service, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(svc, opts...))
}
