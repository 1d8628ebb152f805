package source

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/yourorg/codespec/pkg/types"
)

// DefaultChunkSize is the number of tokens per chunk.
const DefaultChunkSize = 2048

// Tokenize splits text on runs of whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// ChunkTokens groups tokens into space-joined chunks of size tokens; the
// last chunk may be shorter.
func ChunkTokens(tokens []string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, (len(tokens)+size-1)/size)
	for i := 0; i < len(tokens); i += size {
		end := i + size
		if end > len(tokens) {
			end = len(tokens)
		}
		out = append(out, strings.Join(tokens[i:end], " "))
	}
	return out
}

// SplitFiles reads every entry under baseDir and chunks it, file by file in
// the given order. A chunk never holds tokens from two files.
func SplitFiles(entries []string, baseDir string, size int, logger *slog.Logger) ([]types.Chunk, error) {
	var chunks []types.Chunk
	for _, name := range entries {
		text, err := ReadText(filepath.Join(baseDir, name))
		if err != nil {
			return nil, err
		}
		parts := ChunkTokens(Tokenize(text), size)
		for _, p := range parts {
			chunks = append(chunks, types.Chunk{Index: len(chunks), File: name, Text: p})
		}
		if logger != nil {
			logger.Debug("chunked file", "file", name, "chunks", len(parts))
		}
	}
	return chunks, nil
}
