// Package analyzer matches candidate skills against vacancy requirements and
// rewrites resumes towards a vacancy.
package analyzer

import "context"

// Sources reported in Result.Source.
const (
	SourceKeyword = "keyword"
	SourceOpenAI  = "openai"
)

// Request describes one vacancy analysis. Title, Text and Tags describe the
// vacancy; Skills are the candidate's.
type Request struct {
	Title  string
	Text   string
	Tags   []string
	Skills []string
}

type Result struct {
	RequiredSkills  []string
	MatchingSkills  []string
	MissingSkills   []string
	MatchScore      int
	Recommendations []string
	Source          string
}

// AdaptRequest asks for a resume rewritten towards a vacancy.
type AdaptRequest struct {
	Request
	ResumeName    string
	ResumeContent string
}

type Adaptation struct {
	Content     string
	Skills      []string
	Adaptations []string
	MatchScore  int
	Source      string
}

// Analyzer is implemented by the keyword matcher and the OpenAI backend.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
	Adapt(ctx context.Context, req AdaptRequest) (*Adaptation, error)
}
