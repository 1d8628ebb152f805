package types

import (
	"fmt"
	"time"
)

// UserInput holds the answers collected at startup.
type UserInput struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Chunk is a group of whitespace-delimited tokens from one file.
type Chunk struct {
	Index int    `json:"index"`
	File  string `json:"file"`
	Text  string `json:"text"`
}

// Chunk result statuses.
const (
	ChunkMerged  = "merged"
	ChunkSkipped = "skipped"
)

// ChunkResult records what happened to one chunk's model reply.
type ChunkResult struct {
	RunID            string    `json:"run_id,omitempty"`
	Index            int       `json:"index"`
	File             string    `json:"file"`
	Status           string    `json:"status"`
	Reason           string    `json:"reason,omitempty"`
	Raw              string    `json:"raw,omitempty"`
	Model            string    `json:"model,omitempty"`
	PathsMerged      int       `json:"paths_merged"`
	ComponentsMerged int       `json:"components_merged"`
	CreatedAt        time.Time `json:"created_at"`
}

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Run records one generation run.
type Run struct {
	ID          string    `json:"id"`
	SourcePath  string    `json:"source_path"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Model       string    `json:"model"`
	ChunkCount  int       `json:"chunk_count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FilesystemError reports a failed filesystem operation on Path.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
