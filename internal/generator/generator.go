package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/codespec/internal/config"
	"github.com/yourorg/codespec/internal/store"
	"github.com/yourorg/codespec/pkg/types"
)

// LLMConfig is an alias of config.LLMConfig.
type LLMConfig = config.LLMConfig

// ProgressFunc reports generation progress.
type ProgressFunc func(stage string)

// Options tune a Generate call. The zero value is usable.
type Options struct {
	// Store records the run and its chunk results when non-nil.
	Store store.Store
	// Model is recorded alongside the run.
	Model string
	// Prepare rewrites chunk text before it is sent to the model.
	Prepare    func(string) string
	Logger     *slog.Logger
	OnProgress ProgressFunc
}

// Result is the outcome of a completed run.
type Result struct {
	RunID    string
	Document *types.Document
	Chunks   []types.ChunkResult
}

// Skipped returns the number of chunks whose reply was not merged.
func (r *Result) Skipped() int {
	n := 0
	for _, c := range r.Chunks {
		if c.Status != types.ChunkMerged {
			n++
		}
	}
	return n
}

// Generate processes chunks in order, one model call at a time, and
// returns the merged document. A failed model call aborts the run and no
// document is returned.
func Generate(ctx context.Context, in types.UserInput, chunks []types.Chunk, client Completer, opts Options) (*Result, error) {
	if client == nil {
		return nil, errors.New("model client is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	merger, err := NewMerger(client, in, logger)
	if err != nil {
		return nil, err
	}
	merger.Prepare = opts.Prepare

	res := &Result{}
	if opts.Store != nil {
		run, err := opts.Store.CreateRun(in, opts.Model, len(chunks))
		if err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
		res.RunID = run.ID
	}

	markFailed := func() {
		if opts.Store != nil {
			_ = opts.Store.UpdateRunStatus(res.RunID, types.RunFailed)
		}
	}

	for i, chunk := range chunks {
		report(opts.OnProgress, fmt.Sprintf("chunk %d/%d (%s): calling model", i+1, len(chunks), chunk.File))
		cr, err := merger.Process(ctx, chunk)
		if err != nil {
			markFailed()
			return nil, err
		}
		cr.RunID = res.RunID
		cr.Model = opts.Model
		if cr.Status == types.ChunkSkipped {
			report(opts.OnProgress, fmt.Sprintf("chunk %d/%d: reply skipped: %s", i+1, len(chunks), cr.Reason))
		}
		if opts.Store != nil {
			if err := opts.Store.SaveChunkResult(&cr); err != nil {
				markFailed()
				return nil, fmt.Errorf("record chunk %d: %w", chunk.Index, err)
			}
		}
		res.Chunks = append(res.Chunks, cr)
	}

	if opts.Store != nil {
		if err := opts.Store.UpdateRunStatus(res.RunID, types.RunCompleted); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}
	res.Document = merger.Document()
	logger.InfoContext(ctx, "generation finished",
		"chunks", len(chunks),
		"skipped", res.Skipped(),
		"paths", len(res.Document.Paths),
		"components", len(res.Document.Components))
	return res, nil
}

func report(fn ProgressFunc, msg string) {
	if fn != nil {
		fn(msg)
	}
}
