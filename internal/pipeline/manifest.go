package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

// Manifest records the execution state of one pipeline run. It is written
// after every stage so the artifacts directory always explains itself.
type Manifest struct {
	RunID     string    `json:"run_id"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CurrentStage types.Stage                 `json:"current_stage"`
	Stages       map[types.Stage]*StageState `json:"stages"`

	Result *types.PipelineResult `json:"result,omitempty"`
}

// StageState tracks the state of a single pipeline stage
type StageState struct {
	Status      types.StageStatus `json:"status"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Degraded    bool              `json:"degraded,omitempty"`
	Error       string            `json:"error,omitempty"`
	Output      json.RawMessage   `json:"output,omitempty"`
}

// NewManifest creates a manifest for a fresh run
func NewManifest(runID, topic string) *Manifest {
	now := time.Now()
	return &Manifest{
		RunID:        runID,
		Topic:        topic,
		CreatedAt:    now,
		UpdatedAt:    now,
		CurrentStage: types.StageInit,
		Stages:       make(map[types.Stage]*StageState),
	}
}

// Save writes the manifest to path atomically
func (m *Manifest) Save(path string) error {
	m.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename manifest: %w", err)
	}

	return nil
}

// state returns the state for a stage, creating it if needed
func (m *Manifest) state(stage types.Stage) *StageState {
	if m.Stages[stage] == nil {
		m.Stages[stage] = &StageState{Status: types.StatusPending}
	}
	return m.Stages[stage]
}

// StartStage marks a stage as running
func (m *Manifest) StartStage(stage types.Stage) {
	s := m.state(stage)
	now := time.Now()
	s.Status = types.StatusRunning
	s.StartedAt = &now
	m.CurrentStage = stage
}

// CompleteStage marks a stage as completed, noting whether its output is
// a degraded (placeholder/simulated) artifact.
func (m *Manifest) CompleteStage(stage types.Stage, degraded bool, output interface{}) {
	s := m.state(stage)
	now := time.Now()
	s.CompletedAt = &now
	s.Degraded = degraded
	if degraded {
		s.Status = types.StatusDegraded
	} else {
		s.Status = types.StatusCompleted
	}

	if output != nil {
		if data, err := json.Marshal(output); err == nil {
			s.Output = data
		}
	}
}

// FailStage marks a stage as failed with the cause
func (m *Manifest) FailStage(stage types.Stage, err error) {
	s := m.state(stage)
	now := time.Now()
	s.CompletedAt = &now
	s.Status = types.StatusFailed
	s.Error = err.Error()
}
