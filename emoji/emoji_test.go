package emoji

import (
	"testing"
)

func TestNew_Default(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	avail := c.Available()
	if len(avail) != 1 {
		t.Fatalf("Got %d available emojis, want 1", len(avail))
	}
	e, ok := avail[DefaultSlug]
	if !ok {
		t.Fatalf("Default catalog does not contain %q", DefaultSlug)
	}
	if e.Char != "👍" {
		t.Errorf("Got default char %q, want 👍", e.Char)
	}
}

func TestNew_UnknownSlug(t *testing.T) {
	_, err := New([]string{"thumbsup", "no-such-emoji"})
	if err == nil {
		t.Error("New() with unknown slug should return an error")
	}
}

func TestCatalog_Glyph(t *testing.T) {
	c, err := New([]string{"thumbsup", "heart", "party"})
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	tests := []struct {
		name     string
		slug     string
		wantChar string
		wantOK   bool
	}{
		{
			name:     "Available",
			slug:     "party",
			wantChar: "🎉",
			wantOK:   true,
		},
		{
			name:     "CaseInsensitive",
			slug:     "HEART",
			wantChar: "❤️",
			wantOK:   true,
		},
		{
			name:   "NotAvailable",
			slug:   "rocket", // in the full catalog but not configured
			wantOK: false,
		},
		{
			name:   "Unknown",
			slug:   "💩not-a-slug",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			char, ok := c.Glyph(tt.slug)
			if ok != tt.wantOK {
				t.Fatalf("Glyph(%q) ok = %v, want %v", tt.slug, ok, tt.wantOK)
			}
			if char != tt.wantChar {
				t.Errorf("Glyph(%q) = %q, want %q", tt.slug, char, tt.wantChar)
			}
		})
	}
}

func TestCatalog_All(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	all := c.All()
	if len(all) < len(c.Available()) {
		t.Error("Full catalog is smaller than the available subset")
	}
	if _, ok := all["rocket"]; !ok {
		t.Error("Full catalog should contain rocket even when not available")
	}
}
