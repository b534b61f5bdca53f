// Package scheduler runs registered tools on cron schedules. Jobs are
// persisted as JSON in the data directory and dispatched through the
// tool registry like any other invocation.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/harun/saku/pkg/tool"
)

// Job is one scheduled tool invocation.
type Job struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Tool       string         `json:"tool"`
	Args       map[string]any `json:"args,omitempty"`
	Expr       string         `json:"expr"`
	Enabled    bool           `json:"enabled"`
	CreatedAt  time.Time      `json:"created_at"`
	LastRunAt  *time.Time     `json:"last_run_at,omitempty"`
	LastStatus string         `json:"last_status,omitempty"`
}

// Service owns the cron runner and the persisted job set.
type Service struct {
	mu        sync.Mutex
	jobs      map[string]*Job
	entries   map[string]cron.EntryID
	cron      *cron.Cron
	registry  *tool.Registry
	storePath string
	started   bool
}

// NewService creates a scheduler service and loads persisted jobs.
func NewService(registry *tool.Registry, storePath string) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if storePath == "" {
		return nil, fmt.Errorf("store path is required")
	}

	s := &Service{
		jobs:      make(map[string]*Job),
		entries:   make(map[string]cron.EntryID),
		cron:      cron.New(),
		registry:  registry,
		storePath: storePath,
	}

	if err := s.loadJobs(); err != nil {
		log.Warn().Err(err).Msg("Failed to load jobs, starting with empty set")
	}

	log.Info().Int("job_count", len(s.jobs)).Msg("Scheduler initialized")
	return s, nil
}

// Add creates a new job. The cron expression uses the standard
// five-field format.
func (s *Service) Add(name, toolName string, args map[string]any, expr string) (*Job, error) {
	if name == "" {
		return nil, fmt.Errorf("job name is required")
	}
	if toolName == "" {
		return nil, fmt.Errorf("tool name is required")
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job id: %w", err)
	}

	job := &Job{
		ID:        id,
		Name:      name,
		Tool:      toolName,
		Args:      args,
		Expr:      expr,
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[id] = job
	if err := s.persistLocked(); err != nil {
		delete(s.jobs, id)
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	if s.started {
		s.scheduleLocked(job)
	}

	log.Info().
		Str("job_id", id).
		Str("tool", toolName).
		Str("expr", expr).
		Msg("Job created")
	return job, nil
}

// Remove deletes a job.
func (s *Service) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}

	if entryID, scheduled := s.entries[id]; scheduled {
		s.cron.Remove(entryID)
		delete(s.entries, id)
	}
	delete(s.jobs, id)

	if err := s.persistLocked(); err != nil {
		return fmt.Errorf("failed to persist jobs: %w", err)
	}

	log.Info().Str("job_id", id).Str("name", job.Name).Msg("Job removed")
	return nil
}

// Jobs returns all jobs, sorted by creation time.
func (s *Service) Jobs() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		copied := *job
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Start schedules all enabled jobs and starts the cron runner.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, job := range s.jobs {
		if job.Enabled {
			s.scheduleLocked(job)
		}
	}
	s.cron.Start()

	log.Info().Int("scheduled", len(s.entries)).Msg("Scheduler started")
}

// Stop stops the cron runner and waits for running jobs to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	log.Info().Msg("Scheduler stopped")
}

func (s *Service) scheduleLocked(job *Job) {
	id := job.ID
	entryID, err := s.cron.AddFunc(job.Expr, func() { s.runJob(id) })
	if err != nil {
		log.Error().Err(err).Str("job_id", id).Msg("Failed to schedule job")
		return
	}
	s.entries[id] = entryID
}

func (s *Service) runJob(id string) {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	toolName := job.Tool
	args := job.Args
	s.mu.Unlock()

	result := s.registry.Execute(context.Background(), toolName, args)
	status := resultStatus(result)

	now := time.Now().UTC()
	s.mu.Lock()
	if job, ok := s.jobs[id]; ok {
		job.LastRunAt = &now
		job.LastStatus = status
		if err := s.persistLocked(); err != nil {
			log.Warn().Err(err).Str("job_id", id).Msg("Failed to persist job state")
		}
	}
	s.mu.Unlock()

	log.Info().
		Str("job_id", id).
		Str("tool", toolName).
		Str("status", status).
		Msg("Scheduled job finished")
}

// resultStatus classifies a registry result string. The registry folds
// every failure into a formatted message, so the prefixes are the only
// signal available here.
func resultStatus(result string) string {
	switch {
	case strings.HasPrefix(result, "Unknown tool: "):
		return tool.StatusUnknownTool
	case strings.HasPrefix(result, "Invalid parameters: "):
		return tool.StatusInvalid
	case strings.HasPrefix(result, "Error executing "):
		return tool.StatusError
	default:
		return tool.StatusOK
	}
}

func (s *Service) loadJobs() error {
	data, err := os.ReadFile(s.storePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read jobs file: %w", err)
	}

	var jobs []*Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return fmt.Errorf("failed to parse jobs file: %w", err)
	}
	for _, job := range jobs {
		s.jobs[job.ID] = job
	}
	return nil
}

func (s *Service) persistLocked() error {
	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })

	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.storePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.storePath, data, 0644)
}
