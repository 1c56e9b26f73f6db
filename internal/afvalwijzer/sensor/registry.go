package sensor

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultIcon = "mdi:recycle"

// Category describes a waste fraction. Label must match the category label
// in the municipal table.
type Category struct {
	Key   string
	Label string
	Unit  string
	Icon  string
}

// Registry holds category metadata by configuration key. Unknown keys get a
// generated category instead of an error.
type Registry struct {
	known map[string]Category
}

// NewRegistry returns a registry with the Groningen categories.
func NewRegistry() *Registry {
	r := &Registry{known: make(map[string]Category)}
	for _, c := range []Category{
		{Key: "restafval", Label: "Grijze container"},
		{Key: "papier", Label: "Oud papier"},
		{Key: "gft", Label: "Groene container"},
		{Key: "kleding", Label: "Kleding, textiel en schoenen"},
		{Key: "kerstboom", Label: "Kerstboom"},
		{Key: "chemokar", Label: "Standplaats Chemokar"},
		{Key: "kleinchemisch", Label: "Klein chemisch afval"},
	} {
		r.Register(c)
	}
	return r
}

func (r *Registry) Register(c Category) {
	c.Key = normalizeKey(c.Key)
	if c.Icon == "" {
		c.Icon = DefaultIcon
	}
	r.known[c.Key] = c
}

// Lookup returns the category for key. The bool reports whether key was
// known; for unknown keys a category labelled with the title-cased key is
// synthesized.
func (r *Registry) Lookup(key string) (Category, bool) {
	key = normalizeKey(key)
	if c, ok := r.known[key]; ok {
		return c, true
	}
	return Category{
		Key:   key,
		Label: cases.Title(language.Und).String(key),
		Unit:  "",
		Icon:  DefaultIcon,
	}, false
}

// Keys lists the known keys in alphabetical order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.known))
	for k := range r.known {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
