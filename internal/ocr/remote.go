package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"
)

// RemoteEngine calls an HTTP OCR service for deployments that cannot ship
// a local tesseract binary. The wire contract is a small JSON
// request/response: {"image": <base64 png>, "language": "eng"} in,
// {"text": "..."} out.
type RemoteEngine struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRemoteEngine(baseURL, apiKey string) *RemoteEngine {
	return &RemoteEngine{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type remoteRequest struct {
	Image          string `json:"image"`
	Language       string `json:"language"`
	Whitelist      string `json:"whitelist,omitempty"`
	PreserveSpaces bool   `json:"preserve_spaces,omitempty"`
}

type remoteResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func (r *RemoteEngine) Recognize(ctx context.Context, img image.Image, opts Options) (string, error) {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return "", &RecognitionError{Engine: "remote", Err: fmt.Errorf("encode png: %w", err)}
	}

	lang := opts.Language
	if lang == "" {
		lang = "eng"
	}
	body, err := json.Marshal(remoteRequest{
		Image:          base64.StdEncoding.EncodeToString(pngBuf.Bytes()),
		Language:       lang,
		Whitelist:      opts.Whitelist,
		PreserveSpaces: opts.PreserveSpaces,
	})
	if err != nil {
		return "", &RecognitionError{Engine: "remote", Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/recognize", bytes.NewReader(body))
	if err != nil {
		return "", &RecognitionError{Engine: "remote", Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return "", &RecognitionError{Engine: "remote", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &RecognitionError{Engine: "remote", Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &RecognitionError{
			Engine:     "remote",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 200)),
		}
	}

	var apiResp remoteResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", &RecognitionError{Engine: "remote", Err: fmt.Errorf("decode response: %w", err)}
	}
	if apiResp.Error != "" {
		return "", &RecognitionError{Engine: "remote", Err: fmt.Errorf("service error: %s", apiResp.Error)}
	}
	return apiResp.Text, nil
}

// Close releases idle connections.
func (r *RemoteEngine) Close() {
	r.httpClient.CloseIdleConnections()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
