// Package domain holds the analyze wire types and the ports other modules consume
package domain

import (
	"time"

	"safeharbor/internal/core/contacts"
	"safeharbor/internal/core/crisis"
	"safeharbor/internal/core/lexicon"
)

// AnalyzeInput is the body of POST /analyze
type AnalyzeInput struct {
	Text   string                `json:"text"`
	Config *crisis.PartialConfig `json:"config,omitempty"`
}

// BatchItem is one text in a batch. ID is assigned when empty
type BatchItem struct {
	ID   string `json:"id,omitempty" validate:"omitempty,max=128"`
	Text string `json:"text"`
}

// BatchInput is the body of POST /analyze/batch
type BatchInput struct {
	Items  []BatchItem           `json:"items"            validate:"required,min=1,dive"`
	Config *crisis.PartialConfig `json:"config,omitempty"`
}

// Details mirrors crisis.Details on the wire
type Details struct {
	Category  string   `json:"category,omitempty"`
	Matches   []string `json:"matches,omitempty"`
	Family    string   `json:"family,omitempty"`
	PatternID string   `json:"pattern_id,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	MatchType string   `json:"match_type,omitempty"`
}

// Indicator is one piece of evidence
type Indicator struct {
	Type        crisis.Kind `json:"type"`
	Severity    int         `json:"severity"`
	Confidence  float64     `json:"confidence"`
	Description string      `json:"description"`
	Details     Details     `json:"details"`
}

// Config is the effective configuration echoed back
type Config struct {
	EnableKeywordDetection  bool    `json:"enable_keyword_detection"`
	EnablePatternMatching   bool    `json:"enable_pattern_matching"`
	EnableSentimentAnalysis bool    `json:"enable_sentiment_analysis"`
	SeverityThreshold       float64 `json:"severity_threshold"`
	ConfidenceThreshold     float64 `json:"confidence_threshold"`
	MaxAnalysisLength       int     `json:"max_analysis_length"`
}

// Metadata describes how an analysis ran
type Metadata struct {
	AnalysisTimeMS float64 `json:"analysis_time_ms"`
	TextLength     int     `json:"text_length"`
	Config         Config  `json:"config"`
	SeverityScore  float64 `json:"severity_score"`
}

// Result is the analysis response
type Result struct {
	Level           crisis.Level `json:"level"`
	Confidence      float64      `json:"confidence"`
	Indicators      []Indicator  `json:"indicators"`
	Recommendations []string     `json:"recommendations"`
	Metadata        Metadata     `json:"metadata"`
}

// BatchItemResult pairs an item id with its result
type BatchItemResult struct {
	ID     string `json:"id"`
	Result Result `json:"result"`
}

// BatchSummary counts batch results per level
type BatchSummary struct {
	Count   int                  `json:"count"`
	Highest crisis.Level         `json:"highest"`
	ByLevel map[crisis.Level]int `json:"by_level"`
}

// BatchResult keeps items in input order
type BatchResult struct {
	Items   []BatchItemResult `json:"items"`
	Summary BatchSummary      `json:"summary"`
}

// CategorySummary describes one keyword category without its phrases
type CategorySummary struct {
	Key          string `json:"key"`
	Weight       int    `json:"weight"`
	Description  string `json:"description"`
	KeywordCount int    `json:"keyword_count"`
}

// FamilySummary describes one pattern family
type FamilySummary struct {
	Key          string  `json:"key"`
	Description  string  `json:"description"`
	Severity     int     `json:"severity"`
	Confidence   float64 `json:"confidence"`
	PatternCount int     `json:"pattern_count"`
}

// LexiconSummary is the body of GET /lexicon
type LexiconSummary struct {
	Version    int               `json:"version"`
	Categories []CategorySummary `json:"categories"`
	Families   []FamilySummary   `json:"families"`
}

// ContactList is the body of GET /contacts
type ContactList struct {
	Contacts []contacts.Contact `json:"contacts"`
}

// FromResult maps an engine result onto the wire
func FromResult(r crisis.Result) Result {
	inds := make([]Indicator, 0, len(r.Indicators))
	for _, in := range r.Indicators {
		inds = append(inds, Indicator{
			Type:        in.Kind,
			Severity:    in.Severity,
			Confidence:  in.Confidence,
			Description: in.Description,
			Details: Details{
				Category:  in.Details.Category,
				Matches:   in.Details.Matches,
				Family:    in.Details.Family,
				PatternID: in.Details.PatternID,
				Pattern:   in.Details.Pattern,
				MatchType: in.Details.MatchType,
			},
		})
	}
	recs := r.Recommendations
	if recs == nil {
		recs = []string{}
	}
	c := r.Metadata.Config
	return Result{
		Level:           r.Level,
		Confidence:      r.Confidence,
		Indicators:      inds,
		Recommendations: recs,
		Metadata: Metadata{
			AnalysisTimeMS: float64(r.Metadata.AnalysisTime) / float64(time.Millisecond),
			TextLength:     r.Metadata.TextLength,
			SeverityScore:  r.Metadata.SeverityScore,
			Config: Config{
				EnableKeywordDetection:  c.EnableKeywordDetection,
				EnablePatternMatching:   c.EnablePatternMatching,
				EnableSentimentAnalysis: c.EnableSentimentAnalysis,
				SeverityThreshold:       c.SeverityThreshold,
				ConfidenceThreshold:     c.ConfidenceThreshold,
				MaxAnalysisLength:       c.MaxAnalysisLength,
			},
		},
	}
}

// SummarizeLexicon drops the phrases and regexes, keeping counts
func SummarizeLexicon(p *lexicon.Pack) LexiconSummary {
	out := LexiconSummary{
		Version:    p.Version,
		Categories: make([]CategorySummary, 0, len(p.Categories)),
		Families:   make([]FamilySummary, 0, len(p.Families)),
	}
	for _, c := range p.Categories {
		out.Categories = append(out.Categories, CategorySummary{
			Key:          c.Key,
			Weight:       c.Weight,
			Description:  c.Description,
			KeywordCount: len(c.Keywords),
		})
	}
	for _, f := range p.Families {
		out.Families = append(out.Families, FamilySummary{
			Key:          f.Key,
			Description:  f.Description,
			Severity:     f.Severity,
			Confidence:   f.Confidence,
			PatternCount: len(f.Patterns),
		})
	}
	return out
}
