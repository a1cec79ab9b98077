package docload

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
	pdflib "github.com/ledongthuc/pdf"
)

// renderBaseDPI is the DPI corresponding to render scale 1.0.
const renderBaseDPI = 72

// Document is a decoded exam paper. Page indices are 1-based. Methods are
// safe for concurrent use: the underlying MuPDF handle is a single shared
// rendering resource and calls into it are serialized.
type Document struct {
	kind Kind
	raw  []byte

	mu   sync.Mutex
	fitz *fitz.Document

	// docx papers carry no raster; their text is pre-extracted.
	docxPages []string
}

// Open decodes data as a document of the given kind. Undecodable bytes
// come back as *DecodeError; HTML pages masquerading as documents get a
// message that includes the page title.
func (l *Loader) Open(data []byte, kind Kind) (*Document, error) {
	switch kind {
	case KindDOCX:
		return openDOCX(data)
	default:
		return openPDF(data)
	}
}

func openPDF(data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		if title := htmlTitle(data); title != "" {
			return nil, &DecodeError{Kind: KindPDF, PageTitle: title, Err: err}
		}
		return nil, &DecodeError{Kind: KindPDF, Err: err}
	}
	return &Document{kind: KindPDF, raw: data, fitz: doc}, nil
}

// Kind returns the document's content kind.
func (d *Document) Kind() Kind {
	return d.kind
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if d.kind == KindDOCX {
		return len(d.docxPages)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fitz.NumPage()
}

// TextLayer returns page n's embedded text. If the primary extractor
// errors on the page, the secondary parser is consulted before giving up.
func (d *Document) TextLayer(n int) (string, error) {
	if n < 1 || n > d.PageCount() {
		return "", fmt.Errorf("page %d out of range [1,%d]", n, d.PageCount())
	}
	if d.kind == KindDOCX {
		return d.docxPages[n-1], nil
	}

	d.mu.Lock()
	text, err := d.fitz.Text(n - 1)
	d.mu.Unlock()
	if err == nil {
		return text, nil
	}
	return d.fallbackTextLayer(n, err)
}

// fallbackTextLayer re-reads the page through ledongthuc/pdf, which copes
// with some content streams MuPDF's text extractor rejects.
func (d *Document) fallbackTextLayer(n int, primaryErr error) (string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(d.raw), int64(len(d.raw)))
	if err != nil {
		return "", fmt.Errorf("text layer page %d: %w", n, primaryErr)
	}
	page := reader.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("text layer page %d: %w", n, primaryErr)
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("text layer page %d: %w", n, primaryErr)
	}
	return text, nil
}

// RenderPage rasterizes page n at the given scale (1.0 is 72 DPI; OCR
// renders at 2.0). Out-of-range indices and render failures come back as
// *PageRenderError. DOCX papers have no raster representation.
func (d *Document) RenderPage(n int, scale float64) (image.Image, error) {
	if n < 1 || n > d.PageCount() {
		return nil, &PageRenderError{Page: n, Err: fmt.Errorf("out of range [1,%d]", d.PageCount())}
	}
	if d.kind == KindDOCX {
		return nil, &PageRenderError{Page: n, Err: fmt.Errorf("docx documents have no raster pages")}
	}
	if scale <= 0 {
		scale = 1.0
	}

	d.mu.Lock()
	img, err := d.fitz.ImageDPI(n-1, renderBaseDPI*scale)
	d.mu.Unlock()
	if err != nil {
		return nil, &PageRenderError{Page: n, Err: err}
	}
	return img, nil
}

// Close releases the underlying decoder.
func (d *Document) Close() error {
	if d.fitz == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fitz.Close()
}
