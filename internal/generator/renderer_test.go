package generator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/yourorg/codespec/pkg/types"
)

func TestWriteJSONSkeleton(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteJSON(types.NewDocument("Pets", "pet store"), dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "openapi.json" {
		t.Fatalf("unexpected file %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"openapi\": \"3.0.0\",\n  \"info\": {\n    \"title\": \"Pets\",\n    \"description\": \"pet store\",\n    \"version\": \"1.0.0\"\n  },\n  \"paths\": {}\n}\n"
	if string(data) != want {
		t.Fatalf("unexpected skeleton:\n%s", data)
	}
}

func TestWriteJSONOverwritesAndKeepsHTML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "openapi.json"), []byte("old content that is longer"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := types.NewDocument("A & B", "<api>")
	doc.Paths["/a"] = map[string]any{"get": map[string]any{"summary": "list"}}
	doc.Components["schemas"] = map[string]any{"User": map[string]any{"type": "object"}}

	path, err := WriteJSON(doc, dir)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"title": "A & B"`) || !strings.Contains(string(data), `"description": "<api>"`) {
		t.Fatalf("expected unescaped html characters:\n%s", data)
	}
	var back types.Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("written file is not json: %v", err)
	}
	if _, ok := back.Paths["/a"]; !ok {
		t.Fatalf("expected /a in written paths")
	}
	if _, ok := back.Components["schemas"]; !ok {
		t.Fatalf("expected components.schemas in written file")
	}
}

func TestWriteJSONFailureIsFilesystemError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := WriteJSON(types.NewDocument("t", "d"), filepath.Join(blocker, "out"))
	var fsErr *types.FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("expected FilesystemError, got %v", err)
	}
}

func TestWriteFormatsYAML(t *testing.T) {
	dir := t.TempDir()
	doc := types.NewDocument("Pets", "")
	doc.Paths["/pets"] = map[string]any{"get": map[string]any{"summary": "list pets"}}

	written, err := WriteFormats(doc, dir, []string{"json", "yaml"})
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 files, got %v", written)
	}
	data, err := os.ReadFile(filepath.Join(dir, "openapi.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var spec map[string]interface{}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		t.Fatal(err)
	}
	if spec["openapi"] != "3.0.0" {
		t.Fatalf("unexpected openapi version %v", spec["openapi"])
	}
	if _, ok := spec["components"]; ok {
		t.Fatalf("expected empty components to be omitted")
	}

	if _, err := WriteFormats(doc, dir, []string{"markdown"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestValidateOpenAPI(t *testing.T) {
	dir := t.TempDir()
	doc := types.NewDocument("Pets", "pet store")
	doc.Paths["/pets"] = map[string]any{
		"get": map[string]any{
			"summary": "list pets",
			"responses": map[string]any{
				"200": map[string]any{"description": "ok"},
			},
		},
	}
	path, err := WriteJSON(doc, dir)
	if err != nil {
		t.Fatal(err)
	}
	if errs := ValidateOpenAPI(context.Background(), path); len(errs) != 0 {
		t.Fatalf("expected valid document, got %v", errs)
	}

	empty, err := WriteJSON(types.NewDocument("Empty", ""), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if errs := ValidateOpenAPI(context.Background(), empty); len(errs) == 0 {
		t.Fatalf("expected a warning for empty paths")
	}

	if errs := ValidateOpenAPI(context.Background(), filepath.Join(dir, "missing.json")); len(errs) == 0 {
		t.Fatalf("expected error for missing file")
	}
}
