package docload

import (
	"bytes"
	"strings"

	"github.com/fumiama/go-docx"
)

// openDOCX decodes a .docx paper. Word files carry no fixed pagination or
// raster form, so the whole body becomes a single text-layer-only page and
// OCR never applies.
func openDOCX(data []byte) (*Document, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if title := htmlTitle(data); title != "" {
			return nil, &DecodeError{Kind: KindDOCX, PageTitle: title, Err: err}
		}
		return nil, &DecodeError{Kind: KindDOCX, Err: err}
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}

	return &Document{
		kind:      KindDOCX,
		raw:       data,
		docxPages: []string{sb.String()},
	}, nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
