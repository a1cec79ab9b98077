package assist

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderHTML converts a markdown assistant reply to HTML for clients that
// display rich replies.
func RenderHTML(reply string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(reply), &buf); err != nil {
		return "", fmt.Errorf("render reply: %w", err)
	}
	return buf.String(), nil
}
