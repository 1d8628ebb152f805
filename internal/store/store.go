package store

import "github.com/yourorg/codespec/pkg/types"

// Store records generation runs and what happened to each chunk.
type Store interface {
	CreateRun(in types.UserInput, model string, chunkCount int) (*types.Run, error)
	UpdateRunStatus(id, status string) error
	ListRuns() ([]types.Run, error)

	SaveChunkResult(res *types.ChunkResult) error
	GetChunkResults(runID string) ([]types.ChunkResult, error)

	Close() error
}
