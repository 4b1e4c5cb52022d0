package entity

import (
	"encoding/json"
	"sort"
	"strings"
)

// Well-known chunk labels
const (
	LabelProduct    = "product"
	LabelEcommerce  = "ecommerce"
	LabelRestaurant = "restaurant"
	LabelMenu       = "menu"
	LabelSupport    = "support"
	LabelFAQ        = "faq"
	LabelGeneral    = "general"
)

// LabelSet is a set of label tokens. The comma-joined form only exists in storage adapters.
type LabelSet map[string]struct{}

func NewLabelSet(labels ...string) LabelSet {
	set := make(LabelSet, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l != "" {
			set[l] = struct{}{}
		}
	}
	return set
}

// ParseLabels decodes the comma-joined storage encoding
func ParseLabels(encoded string) LabelSet {
	if encoded == "" {
		return LabelSet{}
	}
	return NewLabelSet(strings.Split(encoded, ",")...)
}

func (s LabelSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

func (s LabelSet) HasAny(labels ...string) bool {
	for _, l := range labels {
		if s.Has(l) {
			return true
		}
	}
	return false
}

// Slice returns labels sorted
func (s LabelSet) Slice() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Encode produces the comma-joined storage encoding
func (s LabelSet) Encode() string {
	return strings.Join(s.Slice(), ",")
}

func (s LabelSet) Union(other LabelSet) LabelSet {
	out := make(LabelSet, len(s)+len(other))
	for l := range s {
		out[l] = struct{}{}
	}
	for l := range other {
		out[l] = struct{}{}
	}
	return out
}

func (s LabelSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *LabelSet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	*s = NewLabelSet(labels...)
	return nil
}

// CollectLabels returns the union of labels carried by chunks
func CollectLabels(chunks []Chunk) LabelSet {
	out := LabelSet{}
	for _, c := range chunks {
		for l := range c.Labels {
			out[l] = struct{}{}
		}
	}
	return out
}
