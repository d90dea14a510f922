package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	slug := GenerateSlug()

	assert.Len(t, slug, SlugLength)
	assert.Regexp(t, "^[a-zA-Z0-9]+$", slug)
}

func TestGenerateSlug_Uniqueness(t *testing.T) {
	slugs := make(map[string]bool, 1000)

	for range 1000 {
		slugs[GenerateSlug()] = true
	}

	// 62^6 possibilities, a handful of collisions would already be suspicious
	assert.Greater(t, len(slugs), 990)
}
