package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSlug(t *testing.T) {
	slug := newSlug("Lakeside Cottage, Bahir Dar!")
	require.True(t, strings.HasPrefix(slug, "lakeside-cottage-bahir-dar-"))

	for _, r := range slug {
		ok := r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		require.True(t, ok, "unexpected rune %q in slug %q", r, slug)
	}
}

func TestNewSlug_EqualTitlesDiffer(t *testing.T) {
	first := newSlug("Cozy Loft")
	second := newSlug("Cozy Loft")
	require.NotEqual(t, first, second)
}

func TestNewSlug_EmptyTitle(t *testing.T) {
	slug := newSlug("!!!")
	require.NotEmpty(t, slug)
	require.False(t, strings.HasPrefix(slug, "-"))
}
