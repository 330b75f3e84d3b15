package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	agency "github.com/PmSerg/social-media-agent-system"
	"github.com/PmSerg/social-media-agent-system/completion"
	"github.com/PmSerg/social-media-agent-system/platform"
)

// CopywriterAgentName is the identifier workflow steps use for the copywriter agent.
const CopywriterAgentName = "copywriter"

// Copywriter turns research into platform-optimized copy in the selected
// persona's voice.
type Copywriter struct {
	completer completion.Completer
	log       *slog.Logger
}

// NewCopywriter creates the copywriter agent.
func NewCopywriter(completer completion.Completer, log *slog.Logger) *Copywriter {
	if log == nil {
		log = slog.Default()
	}
	return &Copywriter{completer: completer, log: log}
}

// Name returns the agent identifier.
func (a *Copywriter) Name() string { return CopywriterAgentName }

// Execute generates copy, enforces the platform ceiling, and attaches
// hashtags plus engagement metadata. Content generation failures propagate;
// hashtag generation falls back to topic-derived tags.
func (a *Copywriter) Execute(ctx context.Context, run *Context, params agency.ContentParams) (agency.Result, error) {
	platformName := strings.ToLower(params.Platform)
	if platformName == "" {
		platformName = "linkedin"
	}
	tone := strings.ToLower(params.Tone)
	if tone == "" {
		tone = platform.DefaultTone(platformName)
	}
	if tone == "" {
		tone = "professional"
	}

	research, _ := run.Research()

	a.log.Info("generating content", "task_id", run.TaskID,
		"platform", platformName, "tone", tone, "archetype", run.Archetype.Name)

	content, err := a.generate(ctx, run, params, platformName, tone, research)
	if err != nil {
		return nil, fmt.Errorf("content generation: %w", err)
	}

	optimized := platform.Optimize(content, platformName)
	hashtags := a.hashtags(ctx, run, params.Topic, platformName, research)

	result := agency.NewContentResult(optimized, tone)
	result.Hashtags = hashtags
	result.PlatformOptimized = true
	result.EngagementTips = engagementTips(platformName, tone)
	result.OptimalPostingTime = platform.PostingTime(platformName)
	result.CTAEffectiveness = scoreCTA(optimized, params.CallToAction)

	a.log.Info("content generated", "task_id", run.TaskID,
		"chars", result.CharacterCount, "hashtags", len(result.Hashtags))
	return result, nil
}

func (a *Copywriter) generate(ctx context.Context, run *Context, params agency.ContentParams, platformName, tone string, research *agency.ResearchResult) (string, error) {
	charLimit := platform.CharLimit(platformName)
	if params.MaxLength > 0 && params.MaxLength < charLimit {
		charLimit = params.MaxLength
	}

	persona := run.Archetype

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Create %s content about: %s\n\n", platformName, params.Topic)
	fmt.Fprintf(&prompt, "Platform: %s (max %d characters)\n", platformName, charLimit)
	fmt.Fprintf(&prompt, "Base Tone: %s - %s\n\n", tone, platform.ToneGuidance(tone))
	fmt.Fprintf(&prompt, "Brand Voice: %s\n", persona.Voice)
	fmt.Fprintf(&prompt, "Archetype: %s - %s\n", persona.Name, persona.Description)
	fmt.Fprintf(&prompt, "Personality Traits: %s\n\n", persona.TraitList())
	if len(params.Keywords) > 0 {
		fmt.Fprintf(&prompt, "Include these keywords naturally: %s\n", strings.Join(params.Keywords, ", "))
	}
	if params.CallToAction != "" {
		fmt.Fprintf(&prompt, "End with this call-to-action: %s\n", params.CallToAction)
	}
	fmt.Fprintf(&prompt, "\nResearch Context:\n%s\n\n", researchContext(research))
	fmt.Fprintf(&prompt, `Requirements:
1. Write in the %s voice - be %s
2. Optimize for %s best practices
3. Make it engaging and shareable
4. Include relevant insights from research
5. Stay within character limit
6. Use appropriate formatting for the platform

Generate only the post content, no explanations.`, persona.Name, persona.TraitList(), platformName)

	system := fmt.Sprintf(
		"You are a social media copywriter for Kea brand. You embody the %s archetype: %s. Your voice is %s.",
		persona.Name, persona.Description, persona.Voice)

	raw, err := a.completer.Complete(ctx, completion.Request{
		System:      system,
		Prompt:      prompt.String(),
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// hashtags asks the completion service for tags and falls back to
// topic-derived tags on any failure.
func (a *Copywriter) hashtags(ctx context.Context, run *Context, topic, platformName string, research *agency.ResearchResult) []string {
	count := 5
	if platformName == "twitter" {
		count = 3
	}

	var researchKeywords []string
	if research != nil {
		researchKeywords = extractKeywords(research.KeyFindings)
	}
	if len(researchKeywords) > 5 {
		researchKeywords = researchKeywords[:5]
	}

	persona := run.Archetype
	prompt := fmt.Sprintf(`Generate %d relevant hashtags for a %s post about: %s

Brand archetype: %s
Hashtag themes: %s
Additional context: %s

Requirements:
- Popular and trending hashtags
- Mix of broad and specific tags
- Align with %s archetype values
- No spaces, proper camelCase
- Return as JSON object with a "hashtags" array

Example: {"hashtags": ["TrustedBanking", "InnovativeFinance", "SimpleBusiness"]}`,
		count, platformName, topic,
		persona.Name, strings.Join(persona.HashtagHints(), ", "),
		strings.Join(researchKeywords, ", "), persona.Name)

	raw, err := a.completer.Complete(ctx, completion.Request{
		System:      fmt.Sprintf("You are a social media hashtag expert for Kea brand with %s personality.", persona.Name),
		Prompt:      prompt,
		Temperature: 0.5,
		JSONMode:    true,
	})
	if err != nil {
		a.log.Warn("hashtag generation failed, using fallback", "task_id", run.TaskID, "error", err)
		return platform.FallbackHashtags(topic, platformName)
	}

	tags := parseHashtags(stripFences(raw))
	if len(tags) == 0 {
		return platform.FallbackHashtags(topic, platformName)
	}
	return platform.CleanHashtags(tags)
}

// parseHashtags accepts either {"hashtags": [...]} or a bare JSON array.
func parseHashtags(raw string) []string {
	var wrapper struct {
		Hashtags []string `json:"hashtags"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err == nil && len(wrapper.Hashtags) > 0 {
		return wrapper.Hashtags
	}
	var bare []string
	if err := json.Unmarshal([]byte(raw), &bare); err == nil {
		return bare
	}
	return nil
}

// researchContext renders the research result for the generation prompt.
func researchContext(research *agency.ResearchResult) string {
	if research == nil {
		return "No research data available."
	}

	var parts []string
	if research.Summary != "" {
		parts = append(parts, "Summary: "+research.Summary)
	}
	if len(research.KeyFindings) > 0 {
		parts = append(parts, "Key Findings:")
		for _, finding := range capStrings(research.KeyFindings, 3) {
			parts = append(parts, "- "+finding)
		}
	}
	if len(research.Statistics) > 0 {
		parts = append(parts, "\nRelevant Statistics:")
		for _, stat := range capStrings(research.Statistics, 2) {
			parts = append(parts, "- "+stat)
		}
	}
	if len(research.Trends) > 0 {
		parts = append(parts, "\nCurrent Trends:")
		for _, trend := range capStrings(research.Trends, 2) {
			parts = append(parts, "- "+trend)
		}
	}
	if len(parts) == 0 {
		return "No structured research data."
	}
	return strings.Join(parts, "\n")
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
}

// extractKeywords pulls candidate hashtag context words from findings.
func extractKeywords(findings []string) []string {
	var keywords []string
	seen := make(map[string]bool)
	for _, finding := range findings {
		for _, word := range strings.Fields(strings.ToLower(finding)) {
			word = strings.Trim(word, `.,!?";`)
			if len(word) > 3 && !stopWords[word] && !seen[word] {
				seen[word] = true
				keywords = append(keywords, word)
			}
		}
	}
	if len(keywords) > 10 {
		keywords = keywords[:10]
	}
	return keywords
}

// engagementTips returns up to three platform and tone specific tips.
func engagementTips(platformName, tone string) []string {
	var tips []string
	switch platformName {
	case "linkedin":
		tips = []string{
			"Post during business hours (9-10 AM or 4-5 PM) for maximum visibility",
			"Ask a thought-provoking question to encourage comments",
			"Tag relevant people or companies to expand reach",
			"Use LinkedIn polls for increased engagement",
		}
	case "twitter":
		tips = []string{
			"Tweet during peak hours (9-10 AM or 7-9 PM EST)",
			"Use 1-2 hashtags maximum for better engagement",
			"Include a compelling visual or GIF",
			"Retweet with comment for additional visibility",
		}
	}

	switch tone {
	case "professional":
		tips = append(tips, "Share data or statistics to add credibility")
	case "casual":
		tips = append(tips, "Use emojis sparingly to add personality")
	}

	if len(tips) > 3 {
		tips = tips[:3]
	}
	return tips
}

var actionWords = []string{"learn", "discover", "join", "share", "comment", "download", "sign up", "register"}

var urgencyWords = []string{"now", "today", "limited", "exclusive", "don't miss"}

// scoreCTA rates call-to-action effectiveness from 1 to 10. Without a
// requested CTA the score is a neutral 5.
func scoreCTA(content, requested string) int {
	if requested == "" {
		return 5
	}

	lower := strings.ToLower(content)
	score := 5

	if strings.Contains(lower, strings.ToLower(requested)) {
		score += 2
	}
	for _, word := range actionWords {
		if strings.Contains(lower, word) {
			score++
			break
		}
	}
	if len(content) > 100 {
		lastQuarter := lower[len(lower)-len(lower)/4:]
		for _, word := range actionWords {
			if strings.Contains(lastQuarter, word) {
				score++
				break
			}
		}
	}
	for _, word := range urgencyWords {
		if strings.Contains(lower, word) {
			score++
			break
		}
	}

	if score > 10 {
		score = 10
	}
	return score
}

var _ Agent = (*Copywriter)(nil)
