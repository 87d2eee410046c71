package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreviewImageURL(t *testing.T) {
	cases := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "short prompt",
			prompt: "sunset over mountains",
			want:   PreviewImageTemplate + "sunset+over+mountains",
		},
		{
			name:   "exactly forty characters",
			prompt: strings.Repeat("a", 40),
			want:   PreviewImageTemplate + strings.Repeat("a", 40),
		},
		{
			name:   "truncated with ellipsis",
			prompt: "a very long prompt describing a cat flying over the ocean at dawn",
			want:   PreviewImageTemplate + "a+very+long+prompt+describing+a+cat+flyi...",
		},
		{
			name:   "multibyte characters counted once",
			prompt: strings.Repeat("é", 41),
			want:   PreviewImageTemplate + strings.Repeat("é", 40) + "...",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, PreviewImageURL(tc.prompt))
		})
	}
}

func TestPreviewImageURLIsDeterministic(t *testing.T) {
	require.Equal(t, PreviewImageURL("a cat flying"), PreviewImageURL("a cat flying"))
	require.Contains(t, PreviewImageURL("a cat flying"), "a+cat+flying")
	require.NotContains(t, PreviewImageURL("a cat flying"), "a cat flying")
}
