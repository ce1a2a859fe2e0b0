// Package prompt assembles LLM prompts from a repository analysis while
// keeping the payload inside a configurable token budget.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opengs/readmegen/analyzer"
)

// Default token budget for an assembled user prompt.
const DefaultMaxTokens = 6000

// Limits mirroring the shape of the generated context block.
const (
	defaultFileListLimit       = 20
	defaultDetectionFiles      = 10
	defaultDetectionSnippetCap = 1500
	defaultReadmeFiles         = 5
	defaultReadmeSnippetCap    = 1000
)

// Content markers that reveal how a project is configured at runtime. Files
// mentioning them are worth quoting in the readme prompt.
var runtimeHints = []string{"argparse", "os.getenv", "os.environ", "flag.", "api_key", "api key", "secret_key"}

const detectionSystemPrompt = "You are an expert software engineer who can identify frameworks, " +
	"technologies, and project types from code. Always respond with valid JSON only."

const readmeSystemPrompt = "You are an expert technical writer and software developer. Generate " +
	"comprehensive, professional README files that are clear, well-structured, and include all " +
	"necessary information for users to understand and use the project."

type Option func(b *Builder)

// WithMaxTokens changes the token budget of assembled user prompts.
func WithMaxTokens(maxTokens int) Option {
	return func(b *Builder) {
		b.maxTokens = maxTokens
	}
}

// WithBytesPerToken changes the ratio used by the token estimator.
func WithBytesPerToken(bytesPerToken int) Option {
	return func(b *Builder) {
		b.bytesPerToken = bytesPerToken
	}
}

// WithFileListLimit changes how many entries of the file structure sample
// are included in prompts.
func WithFileListLimit(limit int) Option {
	return func(b *Builder) {
		b.fileListLimit = limit
	}
}

// Builder renders detection and readme prompts from an [analyzer.Analysis].
type Builder struct {
	maxTokens     int
	bytesPerToken int
	fileListLimit int
	estimator     Estimator
}

func New(options ...Option) *Builder {
	b := &Builder{
		maxTokens:     DefaultMaxTokens,
		bytesPerToken: DefaultBytesPerToken,
		fileListLimit: defaultFileListLimit,
	}

	for _, option := range options {
		option(b)
	}

	b.estimator = NewEstimator(b.bytesPerToken)
	return b
}

// DetectionPrompt builds the prompt asking the model to identify frameworks,
// technologies and the project type as strict JSON.
func (b *Builder) DetectionPrompt(analysis *analyzer.Analysis) (system string, user string) {
	var context strings.Builder
	fmt.Fprintf(&context, "Repository: %s\n", analysis.RepoName)
	fmt.Fprintf(&context, "File extensions found: %s\n", strings.Join(analysis.Languages, ", "))
	fmt.Fprintf(&context, "Total files: %d\n", analysis.TotalFiles)

	context.WriteString("\nKey file contents:\n")
	for _, file := range analysis.KeyFiles(defaultDetectionFiles) {
		fmt.Fprintf(&context, "\n--- %s ---\n%s\n", file.Path, snippet(file.Content, defaultDetectionSnippetCap))
	}

	user = `Based on the codebase analysis below, identify:

1. **Frameworks**: All frameworks being used (e.g., React, Django, Express.js, Spring Boot, etc.)
2. **Technologies**: Technologies, libraries, and tools (e.g., Docker, Redis, PostgreSQL, etc.)
3. **Project Type**: What type of project this is (e.g., Web Application, API, CLI Tool, Library, etc.)

Be comprehensive and look for evidence in:
- Package/dependency files (package.json, requirements.txt, etc.)
- Import statements and includes
- Configuration files
- Code patterns and structure

Return your analysis as a JSON object with this exact structure:
{
    "frameworks": ["Framework1", "Framework2"],
    "technologies": ["Technology1", "Technology2"],
    "project_type": "Project Type Description"
}

Codebase Analysis:
` + context.String() + `

Respond with ONLY the JSON object, no additional text.`

	return detectionSystemPrompt, fit(user, b.estimator, b.bytesPerToken, b.maxTokens)
}

// ReadmePrompt builds the prompt asking the model for the complete README.md.
func (b *Builder) ReadmePrompt(analysis *analyzer.Analysis) (system string, user string) {
	var context strings.Builder
	context.WriteString("Repository Analysis:\n")
	fmt.Fprintf(&context, "- Name: %s\n", analysis.RepoName)
	fmt.Fprintf(&context, "- Total Files: %d\n", analysis.TotalFiles)
	fmt.Fprintf(&context, "- Total Lines of Code: %d\n", analysis.TotalLines)
	fmt.Fprintf(&context, "- Languages: %s\n", strings.Join(analysis.Languages, ", "))
	frameworks := append(append([]string{}, analysis.Frameworks...), analysis.Technologies...)
	fmt.Fprintf(&context, "- Frameworks/Technologies: %s\n", strings.Join(frameworks, ", "))
	if analysis.ProjectType != "" {
		fmt.Fprintf(&context, "- Project Type: %s\n", analysis.ProjectType)
	}
	fmt.Fprintf(&context, "- Configuration files: %s\n", strings.Join(analysis.ConfigFiles, ", "))

	context.WriteString("\nFile Structure (sample):\n")
	for i, file := range analysis.Files {
		if i == b.fileListLimit {
			fmt.Fprintf(&context, "... and %d more files\n", len(analysis.Files)-b.fileListLimit)
			break
		}
		fmt.Fprintf(&context, "- %s (%d lines)\n", file.Path, file.Lines)
	}

	context.WriteString("\nKey File Contents (snippets):\n")
	for _, file := range b.importantFiles(analysis) {
		fmt.Fprintf(&context, "\n--- %s ---\n%s...\n", file.Path, snippet(file.Content, defaultReadmeSnippetCap))
	}

	user = `Based on the following repository analysis, generate a comprehensive README.md file that includes:

1. **Project Title and Description**: Clear, engaging description of what the project does
2. **Features**: Key features and capabilities
3. **Technology Stack**: Languages, frameworks, and tools used
4. **Prerequisites**: System requirements, dependencies, and any API keys or environment variables needed
5. **Installation**: Step-by-step setup instructions IF ANY REQUIRED
6. **Usage**: How to run and use the project with examples. Include command-line arguments if found.
7. **Project Structure**: Overview of the codebase organization
8. **Configuration**: Any environment variables or config files needed
9. **API Documentation**: If applicable, document key endpoints or functions IF ANY PRESENT
10. **Contributing**: Guidelines for contributors
11. **License**: License information IF ALREADY MENTIONED
12. **Contact**: Author/maintainer information IF ALREADY MENTIONED

Make the README professional, well-formatted with proper markdown, and comprehensive enough that someone can understand and set up the project from scratch.
Pay close attention to the code snippets to find requirements like API keys or specific commands to run the project.

Repository Analysis:
` + context.String() + `

Generate a complete README.md file.`

	return readmeSystemPrompt, fit(user, b.estimator, b.bytesPerToken, b.maxTokens)
}

// importantFiles selects files worth quoting in the readme prompt:
// entrypoint-ish names first, then files whose content hints at runtime
// configuration like API keys or argument parsing.
func (b *Builder) importantFiles(analysis *analyzer.Analysis) []analyzer.FileInfo {
	seen := make(map[string]bool)
	var important []analyzer.FileInfo

	add := func(file analyzer.FileInfo) {
		if seen[file.Path] || len(important) >= defaultReadmeFiles {
			return
		}
		seen[file.Path] = true
		important = append(important, file)
	}

	for _, file := range analysis.KeyFiles(b.fileListLimit) {
		add(file)
	}
	for _, file := range analysis.Files {
		head := strings.ToLower(snippet(file.Content, defaultReadmeSnippetCap))
		for _, hint := range runtimeHints {
			if strings.Contains(head, hint) {
				add(file)
				break
			}
		}
	}

	sort.Slice(important, func(i, j int) bool { return important[i].Path < important[j].Path })
	return important
}

func snippet(content string, limit int) string {
	if len(content) > limit {
		return content[:limit]
	}
	return content
}
