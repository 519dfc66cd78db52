// Package content renders article markdown for publication
package content

import (
	"bytes"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// charsPerMinute is the reading speed used to estimate read time
const charsPerMinute = 1000

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	// UGCPolicy keeps formatting, links and images and strips scripts, styles and event handlers
	htmlSanitizer = bluemonday.UGCPolicy()
)

// Render converts article markdown to sanitised HTML
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// ReadTime estimates the reading time of an article, e.g. "3 min read".
// Empty content still reads as one minute.
func ReadTime(source string) string {
	minutes := int(math.Ceil(float64(utf8.RuneCountInString(source)) / charsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
