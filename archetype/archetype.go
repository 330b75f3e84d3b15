// Package archetype holds the brand persona table and the weighted selector
// used to vary voice across content runs.
package archetype

import "strings"

// Archetype is a persona profile that biases research framing and copy tone.
type Archetype struct {
	Name        string
	Voice       string
	Traits      []string
	Description string

	// Weight is the relative selection share. Weights across the table
	// sum to 100, so Weight is also the selection percentage.
	Weight int
}

// TraitList renders the traits as a comma-separated string for prompts.
func (a Archetype) TraitList() string {
	return strings.Join(a.Traits, ", ")
}

// QueryTerms returns search-query framing for the persona, appended to the
// research topic so sources skew toward the voice the copy will take.
func (a Archetype) QueryTerms() string {
	switch a.Name {
	case "Caregiver":
		return "support trust reliability customer care"
	case "Explorer":
		return "innovative solutions new opportunities technology"
	default:
		return "simple practical easy everyday business"
	}
}

// HashtagHints returns hashtag themes aligned with the persona.
func (a Archetype) HashtagHints() []string {
	switch a.Name {
	case "Caregiver":
		return []string{"support", "trust", "together", "community"}
	case "Explorer":
		return []string{"innovation", "future", "technology", "solutions"}
	default:
		return []string{"simple", "practical", "business", "everyday"}
	}
}

var table = []Archetype{
	{
		Name:        "Caregiver",
		Voice:       "Caregiver Professional",
		Traits:      []string{"empathetic", "supportive", "nurturing", "understanding"},
		Description: "Nurturing businesses with empathy and support",
		Weight:      35,
	},
	{
		Name:        "Explorer",
		Voice:       "Explorer Innovative",
		Traits:      []string{"innovative", "pioneering", "bold", "adventurous"},
		Description: "Boldly exploring new opportunities through tech",
		Weight:      35,
	},
	{
		Name:        "Regular Guy",
		Voice:       "Regular Guy Friendly",
		Traits:      []string{"simple", "friendly", "relatable", "approachable"},
		Description: "Keeping it simple, friendly, and relatable",
		Weight:      30,
	},
}

// All returns the full persona table in declaration order.
func All() []Archetype {
	out := make([]Archetype, len(table))
	copy(out, table)
	return out
}

// ByName looks up a persona by its display name, case-insensitively.
func ByName(name string) (Archetype, bool) {
	for _, a := range table {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Archetype{}, false
}

// Default is the persona used when no selection was recorded.
func Default() Archetype {
	return table[0]
}
