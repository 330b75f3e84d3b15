package agency

// ContentParams carries the caller-supplied options for a content task.
// Known options are typed fields; anything else the caller sends is kept in
// Extra so new options can flow through without a schema change.
type ContentParams struct {
	Topic        string   `json:"topic"`
	Platform     string   `json:"platform"`
	Tone         string   `json:"tone,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	CallToAction string   `json:"call_to_action,omitempty"`
	Depth        string   `json:"depth,omitempty"`
	FocusAreas   []string `json:"focus_areas,omitempty"`

	// MaxLength is a character ceiling for the generated copy. Zero means
	// the platform default applies.
	MaxLength int `json:"max_length,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Clone returns a copy that can be mutated per step without touching the
// caller's original parameters.
func (p ContentParams) Clone() ContentParams {
	out := p
	out.Keywords = append([]string(nil), p.Keywords...)
	out.FocusAreas = append([]string(nil), p.FocusAreas...)
	if p.Extra != nil {
		out.Extra = make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = v
		}
	}
	return out
}
