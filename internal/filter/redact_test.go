package filter

import (
	"strings"
	"testing"
)

func testConfig() RedactConfig {
	return RedactConfig{
		Enabled:     true,
		Fields:      []string{"password", "api_key", "apikey", "token"},
		Replacement: "***",
	}
}

func TestRedactAssignments(t *testing.T) {
	r := NewRedactor(testConfig())
	cases := map[string]string{
		`dbPassword = "hunter2"`:             `dbPassword = "***"`,
		`{"api_key": "sk-123", "name": "x"}`: `{"api_key": "***", "name": "x"}`,
		"ACCESS_TOKEN: abc.def":              "ACCESS_TOKEN: ***",
		`const password = 'p@ss'`:            `const password = '***'`,
		`router.GET("/users", listUsers)`:    `router.GET("/users", listUsers)`,
		`tokens := strings.Fields(text)`:     `tokens := strings.Fields(text)`,
		`apiKey := "sk-123"`:                 `apiKey := "***"`,
		"token := `sk-live-abc`":             "token := `***`",
		`password := os.Getenv("PW")`:        `password := os.Getenv("PW")`,
	}
	for in, want := range cases {
		if got := r.Redact(in); got != want {
			t.Fatalf("Redact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedactDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	r := NewRedactor(cfg)
	if r != nil {
		t.Fatalf("expected nil redactor when disabled")
	}
	in := `password = "hunter2"`
	if got := r.Redact(in); got != in {
		t.Fatalf("nil redactor changed text: %q", got)
	}
}

func TestRedactNoFields(t *testing.T) {
	cfg := testConfig()
	cfg.Fields = []string{" ", ""}
	if NewRedactor(cfg) != nil {
		t.Fatalf("expected nil redactor without fields")
	}
}

func TestRedactMultipleOnOneLine(t *testing.T) {
	r := NewRedactor(testConfig())
	got := r.Redact(`password=a1 token=b2 user=c3`)
	if strings.Contains(got, "a1") || strings.Contains(got, "b2") {
		t.Fatalf("secrets left in %q", got)
	}
	if !strings.Contains(got, "user=c3") {
		t.Fatalf("unrelated value redacted: %q", got)
	}
}
