package analyzer

import "testing"

func TestIsKeyFile(t *testing.T) {
	longImports := "import os\nimport sys\n" + string(make([]byte, 100))

	tests := []struct {
		path    string
		content string
		key     bool
	}{
		{"package.json", "{}", true},
		{"src/main.py", "", true},
		{"cmd/server.go", "", true},
		{"pkg/__init__.py", "", true},
		{"lib/helpers.py", longImports, true},
		{"lib/helpers.py", "x = 1", false},
		{"notes.txt", "short", false},
	}

	for _, test := range tests {
		if got := isKeyFile(test.path, test.content); got != test.key {
			t.Errorf("isKeyFile(%q) = %v, expected %v", test.path, got, test.key)
		}
	}
}

func TestExtractDependencies(t *testing.T) {
	deps := make(map[string]string)

	extractDependencies("web/package.json", `{
		"dependencies": {"express": "^4.18.0"},
		"devDependencies": {"jest": "^29.0.0"}
	}`, deps)

	if deps["express"] != "^4.18.0" {
		t.Errorf("expected express dependency, got %v", deps)
	}
	if deps["jest"] != "^29.0.0" {
		t.Errorf("expected jest dev dependency, got %v", deps)
	}
}

func TestExtractDependencies_IgnoresOtherManifests(t *testing.T) {
	deps := make(map[string]string)
	extractDependencies("requirements.txt", "flask==2.0.0", deps)
	if len(deps) != 0 {
		t.Errorf("expected no dependencies, got %v", deps)
	}
}

func TestExtractDependencies_BrokenManifest(t *testing.T) {
	deps := make(map[string]string)
	extractDependencies("package.json", "{not json", deps)
	if len(deps) != 0 {
		t.Errorf("expected broken manifest to be skipped, got %v", deps)
	}
}
