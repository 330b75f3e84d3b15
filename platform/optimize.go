package platform

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// hashtagReserve keeps room for appended hashtags on tight platforms.
const hashtagReserve = 20

var multiNewline = regexp.MustCompile(`\n{3,}`)

// Optimize enforces the platform's character ceiling with graceful
// truncation: whole sentences are kept where possible, otherwise the text is
// hard-cut with an ellipsis. The result never exceeds the ceiling.
func Optimize(content, name string) string {
	limit := CharLimit(name)

	switch strings.ToLower(name) {
	case "twitter":
		if utf8.RuneCountInString(content) > limit {
			content = fitSentences(content, limit-hashtagReserve)
		}
	case "linkedin":
		content = multiNewline.ReplaceAllString(content, "\n\n")
		if utf8.RuneCountInString(content) > limit {
			content = cutAtSentence(content, limit)
		}
	default:
		if utf8.RuneCountInString(content) > limit {
			content = fitSentences(content, limit)
		}
	}

	return strings.TrimSpace(content)
}

// fitSentences keeps leading whole sentences that fit within limit runes.
// When not even the first sentence fits, it hard-truncates with an ellipsis.
func fitSentences(content string, limit int) string {
	sentences := strings.Split(content, ". ")
	var b strings.Builder
	for _, sentence := range sentences {
		// The last split piece keeps its terminal period; strip it so the
		// re-added separator never doubles it.
		candidate := strings.TrimSuffix(sentence, ".") + ". "
		if utf8.RuneCountInString(b.String())+utf8.RuneCountInString(candidate) > limit {
			break
		}
		b.WriteString(candidate)
	}
	out := strings.TrimRight(b.String(), " ")
	if out == "" {
		runes := []rune(content)
		out = string(runes[:limit-3]) + "..."
	}
	return out
}

// cutAtSentence hard-cuts near the limit, then backs up to the last sentence
// end if one sits in the final fifth of the allowance.
func cutAtSentence(content string, limit int) string {
	runes := []rune(content)
	cut := limit - 50
	if cut > len(runes) {
		cut = len(runes)
	}
	head := string(runes[:cut])
	if idx := strings.LastIndex(head, "."); idx >= 0 {
		if utf8.RuneCountInString(head[:idx]) > limit*4/5 {
			return head[:idx+1]
		}
	}
	return head + "..."
}
