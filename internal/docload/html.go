package docload

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// htmlTitle returns the <title> of data when it looks like an HTML page,
// and "" otherwise. File-host share links often serve a viewer page
// instead of the raw file; surfacing the title makes the decode failure
// diagnosable.
func htmlTitle(data []byte) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	if !bytes.Contains(lower, []byte("<html")) && !bytes.Contains(lower, []byte("<!doctype html")) {
		return ""
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return findTitle(doc)
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var buf strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				buf.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}
