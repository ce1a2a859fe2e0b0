package analyzer

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Extensions of files worth feeding to the LLM: programming and scripting
// languages, markup, stylesheets, data and build configuration.
var textExtensions = map[string]bool{
	// Programming languages
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".java": true, ".cpp": true, ".cc": true, ".c": true, ".h": true,
	".hpp": true, ".cs": true, ".php": true, ".rb": true, ".go": true,
	".rs": true, ".swift": true, ".kt": true, ".kts": true, ".scala": true,
	".r": true, ".jl": true, ".dart": true, ".pl": true, ".pm": true,
	".lua": true, ".groovy": true, ".vb": true, ".fs": true, ".fsx": true,
	".f90": true, ".f95": true, ".asm": true, ".s": true, ".d": true,
	".nim": true, ".clj": true, ".cljs": true, ".edn": true, ".erl": true,
	".hrl": true, ".ex": true, ".exs": true, ".elm": true, ".ml": true,
	".mli": true, ".hs": true, ".lhs": true, ".purs": true, ".ada": true,
	".adb": true, ".v": true, ".sv": true, ".vhd": true, ".vhdl": true,
	".lisp": true, ".scm": true, ".rkt": true, ".awk": true, ".ps1": true,
	".bat": true, ".cmd": true, ".sh": true, ".zsh": true, ".fish": true,
	".tcl": true, ".bas": true, ".pas": true, ".cr": true, ".vala": true,
	".hx": true, ".m": true, ".mm": true, ".cu": true, ".cuh": true,
	".cl": true, ".glsl": true, ".vert": true, ".frag": true, ".wgsl": true,
	".metal": true, ".odin": true, ".zig": true, ".pony": true,
	// Web, markup and templates
	".html": true, ".htm": true, ".xhtml": true, ".xml": true, ".svg": true,
	".xsd": true, ".xslt": true, ".jsp": true, ".asp": true, ".aspx": true,
	".ejs": true, ".hbs": true, ".handlebars": true, ".mustache": true,
	".twig": true, ".liquid": true, ".pug": true, ".haml": true,
	".slim": true, ".md": true, ".markdown": true, ".rst": true,
	".adoc": true, ".asciidoc": true, ".tex": true, ".latex": true,
	".sty": true, ".bib": true, ".rmd": true, ".ipynb": true,
	// Stylesheets
	".css": true, ".scss": true, ".sass": true, ".less": true, ".styl": true,
	// Data and configuration
	".json": true, ".jsonc": true, ".json5": true, ".yaml": true,
	".yml": true, ".toml": true, ".ini": true, ".cfg": true, ".conf": true,
	".env": true, ".properties": true, ".plist": true, ".rc": true,
	".config": true, ".tsv": true, ".csv": true, ".sql": true,
	// Build and packaging
	".gradle": true, ".pom": true, ".sbt": true, ".cmake": true,
	".make": true, ".mak": true, ".mk": true, ".ninja": true,
	".bazel": true, ".bzl": true, ".csproj": true, ".vbproj": true,
	".fsproj": true, ".sln": true, ".vcxproj": true, ".props": true,
	".targets": true, ".gyp": true, ".am": true, ".ac": true, ".m4": true,
	".spec": true, ".ebuild": true, ".lock": true, ".mod": true, ".sum": true,
	// Misc
	".txt": true, ".log": true, ".license": true, ".notice": true,
	".authors": true, ".todo": true, ".editorconfig": true,
	".gitignore": true, ".gitattributes": true, ".dockerignore": true,
}

// Files that carry no extension but are well known project text files.
var wellKnownNames = map[string]bool{
	"makefile":       true,
	"dockerfile":     true,
	"readme":         true,
	"license":        true,
	"licence":        true,
	"changelog":      true,
	"authors":        true,
	"contributors":   true,
	"notice":         true,
	"copying":        true,
	"vagrantfile":    true,
	"procfile":       true,
	"jenkinsfile":    true,
	"gemfile":        true,
	"rakefile":       true,
	"cmakelists.txt": true,
}

// isTextPath reports whether the path alone marks the file as text.
func isTextPath(path string) bool {
	name := strings.ToLower(baseName(path))
	if wellKnownNames[name] {
		return true
	}

	ext := extension(path)
	if ext == "" {
		return false
	}
	return textExtensions[ext]
}

// isTextContent sniffs the head of the file content. Binary files report a
// non-text mime type and are skipped, never an error.
func isTextContent(head []byte) bool {
	if len(head) == 0 {
		return false
	}

	mime := mimetype.Detect(head)
	for m := mime; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return strings.HasPrefix(mime.String(), "text/")
}

func baseName(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// extension returns the lowercased extension with the leading dot of the last
// path element, or empty string.
func extension(path string) string {
	name := baseName(path)
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(name[idx:])
}
