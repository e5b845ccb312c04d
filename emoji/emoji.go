// Package emoji provides the reaction emoji catalog.
package emoji

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed emojis.json
var catalogJSON []byte

// An Entry describes a single emoji in the catalog.
type Entry struct {
	Char string `json:"char"`
	Name string `json:"name"`
}

// DefaultSlug is the reaction offered when no available emojis are
// configured.
const DefaultSlug = "thumbsup"

// A Catalog holds the full emoji reference table and the subset that is
// available for reacting. It is immutable after construction and meant to
// be built once at startup and shared by reference.
type Catalog struct {
	all       map[string]Entry
	available map[string]Entry
}

// New builds a catalog from the embedded emoji data. The available slugs
// select the subset users may react with; an empty list falls back to a
// single thumbs up. Slugs not present in the reference table are rejected.
func New(available []string) (*Catalog, error) {
	var all map[string]Entry
	if err := json.Unmarshal(catalogJSON, &all); err != nil {
		return nil, fmt.Errorf("parse emoji catalog: %w", err)
	}
	if len(available) == 0 {
		available = []string{DefaultSlug}
	}
	sub := make(map[string]Entry, len(available))
	for _, slug := range available {
		slug = strings.ToLower(slug)
		e, ok := all[slug]
		if !ok {
			return nil, fmt.Errorf("unknown emoji slug %q", slug)
		}
		sub[slug] = e
	}
	return &Catalog{
		all:       all,
		available: sub,
	}, nil
}

// All returns the full reference table.
func (c *Catalog) All() map[string]Entry {
	return c.all
}

// Available returns the subset available for reacting.
func (c *Catalog) Available() map[string]Entry {
	return c.available
}

// Glyph resolves a slug to its display character. Lookup is
// case-insensitive and restricted to the available subset. The boolean
// reports whether the slug is known; callers must branch on it since an
// unrecognized reaction has no glyph to show.
func (c *Catalog) Glyph(slug string) (string, bool) {
	e, ok := c.available[strings.ToLower(slug)]
	if !ok {
		return "", false
	}
	return e.Char, true
}
