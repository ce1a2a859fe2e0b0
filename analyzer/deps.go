package analyzer

import (
	"encoding/json"
	"strings"
)

// Package manager and build configuration files worth reporting separately.
var configFileNames = map[string]bool{
	"package.json":       true,
	"package-lock.json":  true,
	"yarn.lock":          true,
	"pnpm-lock.yaml":     true,
	"requirements.txt":   true,
	"pyproject.toml":     true,
	"setup.py":           true,
	"setup.cfg":          true,
	"pipfile":            true,
	"pom.xml":            true,
	"build.gradle":       true,
	"build.gradle.kts":   true,
	"cargo.toml":         true,
	"cargo.lock":         true,
	"go.mod":             true,
	"go.sum":             true,
	"composer.json":      true,
	"composer.lock":      true,
	"gemfile":            true,
	"dockerfile":         true,
	"docker-compose.yml": true,
	"makefile":           true,
	".gitignore":         true,
	"readme.md":          true,
}

func isConfigFile(path string) bool {
	return configFileNames[strings.ToLower(baseName(path))]
}

// Entrypoint-ish file names that usually reveal how the project is started.
var keyFileNameHints = []string{"main", "index", "app", "server", "__init__", "setup", "config"}

// Import keywords whose presence in the file head reveals used frameworks.
var importKeywords = []string{"import", "require", "include", "using", "from"}

// isKeyFile reports whether a file is important for AI framework detection:
// dependency manifests, entrypoints and files with import statements.
func isKeyFile(path string, content string) bool {
	name := strings.ToLower(baseName(path))
	if configFileNames[name] {
		return true
	}

	for _, hint := range keyFileNameHints {
		if strings.Contains(name, hint) {
			return true
		}
	}

	if len(content) > 100 {
		head := strings.ToLower(content[:min(len(content), 500)])
		for _, keyword := range importKeywords {
			if strings.Contains(head, keyword) {
				return true
			}
		}
	}

	return false
}

// extractDependencies pulls dependency name to version pairs out of a
// package.json manifest. Other manifest formats are listed as config files
// but not parsed.
func extractDependencies(path string, content string, into map[string]string) {
	if strings.ToLower(baseName(path)) != "package.json" {
		return
	}

	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		// Broken manifests are common enough in the wild, just skip them
		return
	}

	for name, version := range manifest.Dependencies {
		into[name] = version
	}
	for name, version := range manifest.DevDependencies {
		into[name] = version
	}
}
