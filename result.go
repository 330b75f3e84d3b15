package agency

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Result is a step result that the orchestrator can merge into the execution
// context and project into a record-store text field.
type Result interface {
	// Excerpt returns a textual projection of the result, capped at limit
	// runes. The record store rejects rich-text values beyond 2000 characters,
	// so intermediate persistence always goes through this.
	Excerpt(limit int) string
}

// Source is one web search hit referenced by a research result.
// Title and URL are mandatory; everything else is best-effort.
type Source struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet,omitempty"`
	Position int    `json:"position,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Validate reports whether the source carries its mandatory fields.
func (s Source) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("source missing title (url %q)", s.URL)
	}
	if s.URL == "" {
		return fmt.Errorf("source %q missing url", s.Title)
	}
	return nil
}

// ResearchResult is the research step's output.
type ResearchResult struct {
	Sources     []Source `json:"sources"`
	KeyFindings []string `json:"key_findings"`
	Summary     string   `json:"summary"`
	Statistics  []string `json:"statistics,omitempty"`
	Trends      []string `json:"trends,omitempty"`
}

// Excerpt renders the summary and top findings for record-store persistence.
func (r *ResearchResult) Excerpt(limit int) string {
	var b strings.Builder
	summary := r.Summary
	if summary == "" {
		summary = "N/A"
	}
	fmt.Fprintf(&b, "Summary: %s\n", summary)
	if len(r.KeyFindings) > 0 {
		b.WriteString("\nKey Findings:\n")
		for i, finding := range r.KeyFindings {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", finding)
		}
	}
	return TruncateRunes(b.String(), limit)
}

// ContentResult is the copywriter step's output.
//
// CharacterCount always equals the rune length of Content. Construct results
// with NewContentResult and change the text through SetContent so the two
// cannot drift.
type ContentResult struct {
	Content            string   `json:"content"`
	Hashtags           []string `json:"hashtags"`
	CharacterCount     int      `json:"character_count"`
	PlatformOptimized  bool     `json:"platform_optimized"`
	Tone               string   `json:"tone"`
	EngagementTips     []string `json:"engagement_tips,omitempty"`
	OptimalPostingTime string   `json:"optimal_posting_time,omitempty"`

	// CTAEffectiveness scores the call-to-action from 1 to 10. Zero means
	// not scored.
	CTAEffectiveness int `json:"cta_effectiveness,omitempty"`
}

// NewContentResult creates a content result with the character count derived
// from the content.
func NewContentResult(content, tone string) *ContentResult {
	return &ContentResult{
		Content:        content,
		CharacterCount: utf8.RuneCountInString(content),
		Tone:           tone,
	}
}

// SetContent replaces the content and recomputes the character count.
func (r *ContentResult) SetContent(content string) {
	r.Content = content
	r.CharacterCount = utf8.RuneCountInString(content)
}

// Excerpt returns the content itself, capped for record-store persistence.
func (r *ContentResult) Excerpt(limit int) string {
	return TruncateRunes(r.Content, limit)
}

// TruncateRunes caps s at limit runes. A limit of zero or less leaves s
// unchanged.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
