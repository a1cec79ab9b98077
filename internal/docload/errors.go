package docload

import "fmt"

// FetchError reports a failed HTTP retrieval of the document URL.
// StatusCode is zero when the request never produced a response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError reports bytes that could not be parsed as a document. When
// the bytes turn out to be an HTML page (a share-link viewer instead of
// the raw file), PageTitle carries its <title> for a clearer message.
type DecodeError struct {
	Kind      Kind
	PageTitle string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.PageTitle != "" {
		return fmt.Sprintf("decode %s: got an HTML page (%q), not a document", e.Kind, e.PageTitle)
	}
	return fmt.Sprintf("decode %s: %s", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// PageRenderError reports a failed or out-of-range page render.
type PageRenderError struct {
	Page int
	Err  error
}

func (e *PageRenderError) Error() string {
	return fmt.Sprintf("render page %d: %s", e.Page, e.Err)
}

func (e *PageRenderError) Unwrap() error {
	return e.Err
}
