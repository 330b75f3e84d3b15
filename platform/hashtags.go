package platform

import "strings"

// CleanHashtags normalizes generated hashtags: whitespace and leading '#'
// stripped, empty and overlong tags dropped, count capped at MaxHashtags.
func CleanHashtags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" || len(tag) > maxHashtagLen {
			continue
		}
		cleaned = append(cleaned, tag)
		if len(cleaned) == MaxHashtags {
			break
		}
	}
	return cleaned
}

// FallbackHashtags derives tags from the topic words when generation fails,
// padded with the platform's generic tags.
func FallbackHashtags(topic, name string) []string {
	var tags []string
	words := strings.Fields(strings.ToLower(topic))
	for i, word := range words {
		if i == 3 {
			break
		}
		word = strings.Trim(word, `.,!?";`)
		if len(word) > 3 {
			tags = append(tags, strings.ToUpper(word[:1])+word[1:])
		}
	}
	if p, ok := Lookup(name); ok {
		tags = append(tags, p.GenericTags...)
	}
	return CleanHashtags(tags)
}
