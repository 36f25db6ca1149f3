package core

import (
	"reflect"
	"testing"
)

func TestImagePoolDeduplicates(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "repeats removed in first-seen order",
			input:    []string{"a", "b", "a", "c", "b"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "empty strings skipped",
			input:    []string{"", "a", "", "a"},
			expected: []string{"a"},
		},
		{
			name:     "no duplicates untouched",
			input:    []string{"x", "y", "z"},
			expected: []string{"x", "y", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewImagePool()
			pool.AddAll(tt.input)
			if got := pool.URLs(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			if pool.Len() != len(tt.expected) {
				t.Errorf("Expected len %d, got %d", len(tt.expected), pool.Len())
			}
		})
	}
}

func TestImagePoolContains(t *testing.T) {
	pool := NewImagePool()
	pool.Add("https://img.test/a.png")

	if !pool.Contains("https://img.test/a.png") {
		t.Error("Expected pool to contain added URL")
	}
	if pool.Contains("https://img.test/b.png") {
		t.Error("Did not expect pool to contain unseen URL")
	}
}

func TestImagePoolURLsIsACopy(t *testing.T) {
	pool := NewImagePool()
	pool.Add("a")

	urls := pool.URLs()
	urls[0] = "mutated"

	if got := pool.URLs()[0]; got != "a" {
		t.Errorf("Pool was mutated through returned slice: %q", got)
	}
}

func TestBlockLink(t *testing.T) {
	tests := []struct {
		name     string
		content  map[string]any
		expected string
	}{
		{"link preferred", map[string]any{"link": "L", "url": "U"}, "L"},
		{"url fallback", map[string]any{"url": "U"}, "U"},
		{"empty link falls back to url", map[string]any{"link": "", "url": "U"}, "U"},
		{"non-string link ignored", map[string]any{"link": 42}, ""},
		{"nil content", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Block{Content: tt.content}
			if got := b.Link(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBlockSetLink(t *testing.T) {
	t.Run("overwrites both fields when present", func(t *testing.T) {
		b := Block{Content: map[string]any{"link": "old", "url": "old"}}
		b.SetLink("new")
		if b.Content["link"] != "new" || b.Content["url"] != "new" {
			t.Errorf("Expected both fields overwritten, got %v", b.Content)
		}
	})

	t.Run("creates link when neither field exists", func(t *testing.T) {
		b := Block{Content: map[string]any{"title": "t"}}
		b.SetLink("new")
		if b.Content["link"] != "new" {
			t.Errorf("Expected link field created, got %v", b.Content)
		}
		if _, ok := b.Content["url"]; ok {
			t.Error("Did not expect url field to be created")
		}
	})

	t.Run("only url present", func(t *testing.T) {
		b := Block{Content: map[string]any{"url": "old"}}
		b.SetLink("new")
		if b.Content["url"] != "new" {
			t.Errorf("Expected url overwritten, got %v", b.Content)
		}
		if _, ok := b.Content["link"]; ok {
			t.Error("Did not expect link field to be created alongside url")
		}
	})

	t.Run("nil content", func(t *testing.T) {
		b := Block{}
		b.SetLink("new")
		if b.Content["link"] != "new" {
			t.Errorf("Expected link set on fresh content, got %v", b.Content)
		}
	})
}

func TestBlockImageURL(t *testing.T) {
	b := Block{Content: map[string]any{"image_url": "img"}}
	if got := b.ImageURL(); got != "img" {
		t.Errorf("Expected img, got %q", got)
	}

	b.SetImageURL("new")
	if got := b.ImageURL(); got != "new" {
		t.Errorf("Expected new, got %q", got)
	}

	var empty Block
	if got := empty.ImageURL(); got != "" {
		t.Errorf("Expected empty, got %q", got)
	}
	empty.SetImageURL("x")
	if got := empty.ImageURL(); got != "x" {
		t.Errorf("Expected x after set on nil content, got %q", got)
	}
}
