package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "chatcmpl-test", "object": "chat.completion", "created": 1, "model": "gpt-3.5-turbo",
			"choices": []map[string]interface{}{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// isolate points every path the command touches at a temp dir.
func isolate(t *testing.T, baseURL string) (outDir, dbPath string) {
	t.Helper()
	tmp := t.TempDir()
	outDir = filepath.Join(tmp, "out")
	dbPath = filepath.Join(tmp, "history.db")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", baseURL+"/v1/")
	t.Setenv("CODESPEC_OUTPUT_DIR", outDir)
	t.Setenv("CODESPEC_STORE_PATH", dbPath)
	t.Setenv("CODESPEC_STORE_ENABLED", "true")
	return outDir, dbPath
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0\n", out)
}

func TestRunWritesOpenAPIFile(t *testing.T) {
	srv := chatServer(t, `{"paths":{"/a":{"get":{"summary":"a"}}},"components":{"schemas":{"A":{"type":"object"}}}}`)
	outDir, _ := isolate(t, srv.URL)

	apiDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(apiDir, "routes.txt"), []byte("GET /a\nPOST /b"), 0o644))

	out, err := execute(t, apiDir+"\nMy API\nDescribed\n")
	require.NoError(t, err)
	assert.Contains(t, out, "OpenAPI spec file generated successfully!")

	data, err := os.ReadFile(filepath.Join(outDir, "openapi.json"))
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "3.0.0", doc["openapi"])
	assert.Equal(t, map[string]interface{}{"title": "My API", "description": "Described", "version": "1.0.0"}, doc["info"])
	assert.Contains(t, doc["paths"], "/a")
	assert.Contains(t, doc["components"], "schemas")

	history, err := execute(t, "", "--history")
	require.NoError(t, err)
	assert.Contains(t, history, "completed")
	assert.Contains(t, history, "My API")
}

func TestRunMissingDirectoryFails(t *testing.T) {
	srv := chatServer(t, `{}`)
	outDir, _ := isolate(t, srv.URL)

	_, err := execute(t, filepath.Join(t.TempDir(), "missing")+"\nT\nD\n")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(outDir, "openapi.json"))
	assert.True(t, os.IsNotExist(statErr), "no output expected after a fatal error")
}

func TestRunRejectsPositionalArgs(t *testing.T) {
	_, err := execute(t, "", "extra")
	require.Error(t, err)
}
