package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	agency "github.com/PmSerg/social-media-agent-system"
	"github.com/PmSerg/social-media-agent-system/record"
	"github.com/PmSerg/social-media-agent-system/workflow"
)

// Server exposes the agency over HTTP.
type Server struct {
	runner *workflow.Runner
	store  record.Store
	cfg    *Config
	log    *slog.Logger
}

// NewServer creates the HTTP server around a configured runner and store.
func NewServer(runner *workflow.Runner, store record.Store, cfg *Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{runner: runner, store: store, cfg: cfg, log: log}
}

// Routes builds the HTTP mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /execute-command", s.handleExecute)
	mux.HandleFunc("GET /commands", s.handleCommands)
	mux.HandleFunc("GET /tasks/{id}", s.handleTask)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	return mux
}

// executeRequest is the POST /execute-command body.
type executeRequest struct {
	Command       string               `json:"command"`
	Params        agency.ContentParams `json:"params"`
	ExecutionMode string               `json:"execution_mode,omitempty"`
	WebhookURL    string               `json:"webhook_url,omitempty"`
}

// executeResponse acknowledges a task accepted for background execution.
type executeResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Warn("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Command == "" {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}
	if req.Params.Topic == "" {
		writeError(w, http.StatusBadRequest, "params.topic is required")
		return
	}

	mode := agency.ModeInstant
	switch strings.ToLower(req.ExecutionMode) {
	case "", "instant":
	case "scheduled":
		mode = agency.ModeScheduled
	default:
		writeError(w, http.StatusBadRequest, "execution_mode must be instant or scheduled")
		return
	}

	// Resolve the command before creating any record so unknown commands
	// and unsupported modes fail fast.
	if _, err := s.runner.Describe(req.Command); err != nil {
		if errors.Is(err, workflow.ErrCommandNotFound) {
			writeError(w, http.StatusNotFound, "unknown command: "+req.Command)
			return
		}
		s.log.Error("command load failed", "command", req.Command, "error", err)
		writeError(w, http.StatusInternalServerError, "command definition invalid")
		return
	}
	if mode == agency.ModeScheduled {
		writeError(w, http.StatusNotImplemented, workflow.ErrNotImplemented.Error())
		return
	}

	taskID, err := record.CreateTask(r.Context(), s.store, req.Params.Topic, req.Command, mode, "")
	if err != nil {
		s.log.Error("task record creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create task record")
		return
	}

	task := agency.Task{
		ID:         taskID,
		Params:     req.Params,
		Mode:       mode,
		WebhookURL: req.WebhookURL,
	}

	log := s.log.With("task_id", taskID, "command", req.Command)
	log.Info("task accepted")

	// The request context dies with the response; the workflow gets its own.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.TaskTimeout)
		defer cancel()
		if err := s.runner.Execute(ctx, req.Command, task); err != nil {
			log.Error("task failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, executeResponse{
		TaskID:  taskID,
		Status:  string(agency.StatusProcessing),
		Message: "Task accepted, progress will be sent to the webhook target",
	})
}

// commandInfo summarizes one workflow command for discovery.
type commandInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Agents      []string `json:"agents"`
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	names, err := s.runner.Commands()
	if err != nil {
		s.log.Error("command listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list commands")
		return
	}

	infos := make([]commandInfo, 0, len(names))
	for _, name := range names {
		def, err := s.runner.Describe(name)
		if err != nil {
			s.log.Warn("skipping invalid command", "command", name, "error", err)
			continue
		}
		infos = append(infos, commandInfo{
			Name:        "/" + def.Name,
			Description: def.Description,
			Agents:      def.AgentNames(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"commands": infos})
}

// taskResponse is the task status view assembled from the record store.
type taskResponse struct {
	TaskID    string            `json:"task_id"`
	Status    string            `json:"status"`
	Fields    map[string]string `json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, record.ErrNotFound) {
		writeError(w, http.StatusNotFound, "unknown task: "+id)
		return
	}
	if err != nil {
		s.log.Error("task lookup failed", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load task")
		return
	}

	writeJSON(w, http.StatusOK, taskResponse{
		TaskID:    rec.ID,
		Status:    rec.Fields[record.FieldStatus],
		Fields:    rec.Fields,
		CreatedAt: rec.CreatedAt,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports ready once the commands directory is readable. A
// server with no loadable commands can accept traffic but not do work.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	names, err := s.runner.Commands()
	if err != nil || len(names) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "no commands available"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
