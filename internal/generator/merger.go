package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/codespec/pkg/types"
)

const previewLen = 120

// Merger folds model replies into one OpenAPI document, one chunk at a
// time. Later replies overwrite earlier ones key by key.
type Merger struct {
	client    Completer
	validator *ReplyValidator
	doc       *types.Document
	logger    *slog.Logger
	// Prepare, when set, rewrites chunk text before it is sent.
	Prepare func(string) string
}

// NewMerger returns a Merger seeded with the skeleton document for in.
func NewMerger(client Completer, in types.UserInput, logger *slog.Logger) (*Merger, error) {
	validator, err := NewReplyValidator()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Merger{
		client:    client,
		validator: validator,
		doc:       types.NewDocument(in.Title, in.Description),
		logger:    logger,
	}, nil
}

// Document returns the accumulated document.
func (m *Merger) Document() *types.Document {
	return m.doc
}

// Process sends one chunk to the model and merges the reply. A reply that
// cannot be used is reported in the result and leaves the document
// untouched; only a failed model call returns an error.
func (m *Merger) Process(ctx context.Context, chunk types.Chunk) (types.ChunkResult, error) {
	res := types.ChunkResult{Index: chunk.Index, File: chunk.File}

	text := chunk.Text
	if m.Prepare != nil {
		text = m.Prepare(text)
	}
	m.logger.DebugContext(ctx, "processing chunk", "index", chunk.Index, "file", chunk.File, "preview", preview(text))

	content, err := m.client.Complete(ctx, BuildChunkPrompt(text))
	if err != nil {
		return res, fmt.Errorf("chunk %d (%s): %w", chunk.Index, chunk.File, err)
	}
	res.Raw = content
	res.CreatedAt = time.Now().UTC()

	reply, err := m.validator.Parse(content)
	if err != nil {
		res.Status = types.ChunkSkipped
		res.Reason = err.Error()
		m.logger.WarnContext(ctx, "skipping model reply", "index", chunk.Index, "file", chunk.File, "err", err)
		return res, nil
	}

	res.PathsMerged = mergeInto(m.doc.Paths, reply.Paths)
	res.ComponentsMerged = mergeInto(m.doc.Components, reply.Components)
	res.Status = types.ChunkMerged
	m.logger.DebugContext(ctx, "merged model reply",
		"index", chunk.Index,
		"paths_merged", res.PathsMerged,
		"components_merged", res.ComponentsMerged,
		"paths_total", len(m.doc.Paths),
		"components_total", len(m.doc.Components))
	return res, nil
}

// mergeInto overwrites dst[k] with src[k] for every key in src.
func mergeInto(dst, src map[string]map[string]any) int {
	for k, v := range src {
		dst[k] = v
	}
	return len(src)
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
