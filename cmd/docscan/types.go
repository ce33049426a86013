package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIClass is a JSON-friendly class representation.
type CLIClass struct {
	File        string `json:"file"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Superclass  string `json:"superclass,omitempty"`
	IsComponent bool   `json:"is_component"`
	Rule        string `json:"rule,omitempty"`
	StartLine   int    `json:"start_line"`
	StartCol    int    `json:"start_col"`
	EndLine     int    `json:"end_line"`
	EndCol      int    `json:"end_col"`
}

// CLIFile is a JSON-friendly file representation.
type CLIFile struct {
	ID        int64  `json:"id"`
	Path      string `json:"path"`
	Language  string `json:"language"`
	LineCount int    `json:"line_count"`
	Reexport  string `json:"reexport,omitempty"`
}

type CLILanguageSummary struct {
	Language   string `json:"language"`
	Files      int    `json:"files"`
	Classes    int    `json:"classes"`
	Components int    `json:"components"`
}

// CLISummary is a JSON-friendly index summary.
type CLISummary struct {
	Files      int                  `json:"files"`
	Classes    int                  `json:"classes"`
	Components int                  `json:"components"`
	Languages  []CLILanguageSummary `json:"languages"`
	Rules      map[string]int       `json:"rules"`
}
