// Package platform holds per-platform publishing constraints and the
// deterministic post-processing applied to generated copy: character-ceiling
// enforcement, tone guidance, hashtag cleanup, and posting-time suggestions.
package platform

import "strings"

// Profile describes one social platform's publishing constraints.
type Profile struct {
	Name        string
	CharLimit   int
	DefaultTone string
	PostingTime string
	GenericTags []string
}

// DefaultCharLimit applies when the platform is unknown.
const DefaultCharLimit = 3000

// MaxHashtags is the hashtag ceiling for any platform.
const MaxHashtags = 5

// maxHashtagLen caps a single tag.
const maxHashtagLen = 30

var profiles = map[string]Profile{
	"twitter": {
		Name:        "Twitter",
		CharLimit:   280,
		DefaultTone: "casual",
		PostingTime: "Weekdays, 9-10 AM or 7-9 PM EST",
		GenericTags: []string{"Trending"},
	},
	"linkedin": {
		Name:        "LinkedIn",
		CharLimit:   3000,
		DefaultTone: "professional",
		PostingTime: "Tuesday-Thursday, 9-10 AM or 4-5 PM (local time)",
		GenericTags: []string{"Business", "Professional"},
	},
	"facebook": {
		Name:        "Facebook",
		CharLimit:   63206,
		PostingTime: "Wednesday-Friday, 1-4 PM (local time)",
	},
	"instagram": {
		Name:        "Instagram",
		CharLimit:   2200,
		PostingTime: "Monday-Friday, 11 AM-1 PM or 7-9 PM (local time)",
	},
	"threads": {
		Name:      "Threads",
		CharLimit: 500,
	},
	"telegram": {
		Name:      "Telegram",
		CharLimit: 4096,
	},
}

var toneGuidance = map[string]string{
	"professional": "Use formal language, industry terms, and data-driven insights.",
	"casual":       "Use conversational language, relatable examples, and friendly tone.",
	"playful":      "Use humor, wordplay, and engaging language while staying respectful.",
}

// Lookup returns the profile for a platform name, case-insensitively.
func Lookup(name string) (Profile, bool) {
	p, ok := profiles[strings.ToLower(name)]
	return p, ok
}

// CharLimit returns the platform's character ceiling, or DefaultCharLimit for
// unknown platforms.
func CharLimit(name string) int {
	if p, ok := Lookup(name); ok {
		return p.CharLimit
	}
	return DefaultCharLimit
}

// DefaultTone returns the platform's default tone, or empty when the
// platform has none.
func DefaultTone(name string) string {
	p, _ := Lookup(name)
	return p.DefaultTone
}

// ToneGuidance returns prompt guidance for a tone, or empty for unknown tones.
func ToneGuidance(tone string) string {
	return toneGuidance[strings.ToLower(tone)]
}

// PostingTime suggests when to publish on the platform.
func PostingTime(name string) string {
	if p, ok := Lookup(name); ok && p.PostingTime != "" {
		return p.PostingTime
	}
	return "Check your analytics for best times"
}
