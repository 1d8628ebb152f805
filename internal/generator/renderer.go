package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/yourorg/codespec/pkg/types"
)

// Output file names.
const (
	JSONFileName = "openapi.json"
	YAMLFileName = "openapi.yaml"
)

// WriteJSON writes doc as 2-space indented JSON to outputDir/openapi.json,
// replacing any existing file, and returns the path written.
func WriteJSON(doc *types.Document, outputDir string) (string, error) {
	if doc == nil {
		return "", errors.New("doc is nil")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode openapi json: %w", err)
	}
	return writeOutput(outputDir, JSONFileName, buf.Bytes())
}

// WriteYAML writes doc as YAML to outputDir/openapi.yaml.
func WriteYAML(doc *types.Document, outputDir string) (string, error) {
	if doc == nil {
		return "", errors.New("doc is nil")
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode openapi yaml: %w", err)
	}
	return writeOutput(outputDir, YAMLFileName, data)
}

// WriteFormats writes doc once per format and returns the paths written.
func WriteFormats(doc *types.Document, outputDir string, formats []string) ([]string, error) {
	var written []string
	for _, format := range formats {
		var (
			path string
			err  error
		)
		switch format {
		case "json":
			path, err = WriteJSON(doc, outputDir)
		case "yaml":
			path, err = WriteYAML(doc, outputDir)
		default:
			err = fmt.Errorf("unknown output format %q", format)
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeOutput(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &types.FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &types.FilesystemError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}

// ValidateOpenAPI loads a written document and returns the problems found.
// An empty result means the document is a valid OpenAPI 3 description.
func ValidateOpenAPI(ctx context.Context, path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{err.Error()}
	}
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return []string{fmt.Sprintf("load: %v", err)}
	}
	var errs []string
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		errs = append(errs, "missing or empty paths")
	}
	if err := spec.Validate(ctx); err != nil {
		errs = append(errs, err.Error())
	}
	return errs
}
