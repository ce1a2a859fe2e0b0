// Package readmegen analyzes a codebase and generates a README document for
// it with the help of a chat completions LLM API.
//
// The pipeline is linear: a [source.Source] enumerates repository files, the
// [analyzer] filters and reads the text ones, the [prompt] package assembles
// a budgeted prompt from the analysis, and an [llm.Completer] turns it into
// the final README markdown.
package readmegen

// Version of the generator.
const Version = "0.2.0"
