package analyzer

// FileInfo describes a single text file of the repository.
type FileInfo struct {
	// Path relative to the repository root
	Path string `json:"path"`
	// Size of the original content in bytes
	Size int64 `json:"size"`
	// Number of lines in the original content
	Lines int `json:"lines"`
	// File extension with leading dot, lowercased. Empty if none
	Extension string `json:"extension"`
	// Content truncated to the analyzer content cap
	Content string `json:"content,omitempty"`
	// True if the file is likely to reveal frameworks and project structure
	Key bool `json:"key"`
}

// Analysis is the aggregated picture of a repository used for prompt assembly.
type Analysis struct {
	RepoName   string `json:"repoName"`
	TotalFiles int    `json:"totalFiles"`
	TotalLines int    `json:"totalLines"`

	// Files sorted by path
	Files []FileInfo `json:"files"`
	// Extensions seen in the repository, sorted
	Languages []string `json:"languages"`
	// Detected package manager and build configuration files, sorted by path
	ConfigFiles []string `json:"configFiles"`
	// Dependencies extracted from manifest files, name to version constraint
	Dependencies map[string]string `json:"dependencies,omitempty"`

	// Filled by AI detection after the analysis itself is complete
	Frameworks   []string `json:"frameworks,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	ProjectType  string   `json:"projectType,omitempty"`
}

// KeyFiles returns files flagged as key, at most limit entries.
func (a *Analysis) KeyFiles(limit int) []FileInfo {
	var key []FileInfo
	for _, file := range a.Files {
		if !file.Key {
			continue
		}
		key = append(key, file)
		if len(key) == limit {
			break
		}
	}
	return key
}

// StripContent returns a copy of the analysis with file contents removed.
// Used before persisting the analysis so reports stay small.
func (a *Analysis) StripContent() *Analysis {
	stripped := *a
	stripped.Files = make([]FileInfo, len(a.Files))
	for i, file := range a.Files {
		file.Content = ""
		stripped.Files[i] = file
	}
	return &stripped
}
