package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	URL   string  `json:"url" validate:"required,url"`
	Slug  string  `json:"slug" validate:"omitempty,slug"`
	Title *string `json:"title" validate:"omitnil,max=5"`
}

func TestStruct_FirstFailureWins(t *testing.T) {
	err := Struct(payload{Slug: "bad slug!"})

	assert.EqualError(t, err, "url is required")
}

func TestStruct(t *testing.T) {
	long := "too long title"

	tests := []struct {
		name    string
		in      payload
		wantErr string
	}{
		{"valid", payload{URL: "https://example.com", Slug: "abc_1-2"}, ""},
		{"missing url", payload{}, "url is required"},
		{"invalid url", payload{URL: "not-a-url"}, "url must be a valid URL"},
		{"bad slug", payload{URL: "https://example.com", Slug: "a/b"}, "slug must be"},
		{"reserved slug", payload{URL: "https://example.com", Slug: "links"}, "slug must be"},
		{"title too long", payload{URL: "https://example.com", Title: &long}, "title must be at most 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug     string
		expected bool
	}{
		{"abc123", true},
		{"my-link_2", true},
		{"", false},
		{"health", false},
		{"links", false},
		{"Health", true},
		{"LINKS", true},
		{"with space", false},
		{"ünïcode", false},
		{"a-very-long-slug-that-goes-on-and-on-and-on-until-it-exceeds-the-limit", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidSlug(tt.slug))
		})
	}
}
