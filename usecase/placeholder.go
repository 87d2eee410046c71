// usecase/placeholder.go
package usecase

import "strings"

const (
	PreviewImageTemplate = "https://dummyimage.com/1024x576/111827/ffffff&text="
	SampleVideoURL       = "https://sample-videos.com/video321/mp4/720/big_buck_bunny_720p_1mb.mp4"

	maxPreviewTextLen = 40
	ellipsis          = "..."
)

// PreviewImageURL derives the placeholder image URL for prompt. The display
// text is the prompt cut to 40 characters (with "..." appended when cut),
// spaces replaced by '+'.
func PreviewImageURL(prompt string) string {
	text := prompt
	if runes := []rune(prompt); len(runes) > maxPreviewTextLen {
		text = string(runes[:maxPreviewTextLen]) + ellipsis
	}
	return PreviewImageTemplate + strings.ReplaceAll(text, " ", "+")
}
