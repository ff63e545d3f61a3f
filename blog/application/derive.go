package application

import (
	"regexp"
	"strings"
)

const wordsPerMinute = 200

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe token from a post title: lowercase, every
// maximal run of non-alphanumeric characters collapsed to a single hyphen,
// leading and trailing hyphens trimmed.
//
// Slugify("My Amazing Blog Post!") == "my-amazing-blog-post"
func Slugify(title string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// ReadTime estimates reading minutes for markdown content at 200 words per
// minute, rounding up. Non-empty content always takes at least one minute.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
