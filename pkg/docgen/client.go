package docgen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"archcanvas/pkg/errors"
	"archcanvas/pkg/httputil"
	"archcanvas/pkg/observability"
)

// Artifact is one generated document with its suggested filename.
type Artifact struct {
	Filename string
	Data     []byte
}

// Bundle is the sparse result of a generation call. Fields are nil when the
// service did not produce that artifact; callers handle each independently.
type Bundle struct {
	PDF        *Artifact
	Markdown   *Artifact
	DiagramPNG *Artifact
}

// Empty reports whether the bundle carries no artifacts at all.
func (b Bundle) Empty() bool {
	return b.PDF == nil && b.Markdown == nil && b.DiagramPNG == nil
}

// wireArtifact is the service's representation of one artifact. Binary
// content arrives base64-encoded; markdown arrives as plain UTF-8 text.
type wireArtifact struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type wireBundle struct {
	PDF        *wireArtifact `json:"pdf,omitempty"`
	Markdown   *wireArtifact `json:"markdown,omitempty"`
	DiagramPNG *wireArtifact `json:"diagram_png,omitempty"`
}

type wireError struct {
	Error string `json:"error"`
}

// Client calls the documentation-generation service.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates a Client for the service at baseURL. The token source
// is consulted once per request.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		http:    NewHTTPClient(),
		tokens:  tokens,
	}
}

// Generate submits a generation request and decodes the returned bundle.
// A single call makes a single network attempt: failures surface to the
// caller immediately, and retrying is a fresh user-initiated export.
// Transient failures (network errors, 5xx responses) are marked with
// [httputil.RetryableError] so the caller can tell the user a re-run may
// succeed.
func (c *Client) Generate(ctx context.Context, req Request) (Bundle, error) {
	if req.SessionID == "" {
		return Bundle{}, errors.New(errors.ErrCodeInvalidSession, "generation requires a session id")
	}
	return c.generate(ctx, req)
}

func (c *Client) generate(ctx context.Context, req Request) (Bundle, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Bundle{}, errors.Wrap(errors.ErrCodeInternal, err, "encode generation request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(payload))
	if err != nil {
		return Bundle{}, errors.Wrap(errors.ErrCodeInternal, err, "build generation request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return Bundle{}, errors.Wrap(errors.ErrCodeUnauthorized, err, "resolve credential")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	u := httpReq.URL
	observability.HTTP().OnRequest(ctx, http.MethodPost, u.Host, u.Path)
	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodPost, u.Host, u.Path, err)
		return Bundle{}, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "generation request")}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodPost, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return Bundle{}, err
	}

	var wire wireBundle
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Bundle{}, errors.Wrap(errors.ErrCodeNetwork, err, "decode generation response")
	}
	return decodeBundle(wire)
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "generation service rejected the credential: %s", readError(resp.Body))
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "generation service: status %d", resp.StatusCode)}
	default:
		return errors.New(errors.ErrCodeNetwork, "generation service: status %d: %s", resp.StatusCode, readError(resp.Body))
	}
}

// readError extracts the service's error message, falling back to the raw
// body when it is not the expected JSON shape.
func readError(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no details"
	}
	var we wireError
	if json.Unmarshal(raw, &we) == nil && we.Error != "" {
		return we.Error
	}
	return string(raw)
}

// decodeBundle converts wire artifacts to their in-memory forms. PDF and
// PNG content is base64-decoded; markdown is validated as UTF-8 text.
func decodeBundle(wire wireBundle) (Bundle, error) {
	var b Bundle
	var err error

	if b.PDF, err = decodeBinary(wire.PDF, "pdf"); err != nil {
		return Bundle{}, err
	}
	if b.DiagramPNG, err = decodeBinary(wire.DiagramPNG, "diagram image"); err != nil {
		return Bundle{}, err
	}
	if b.Markdown, err = decodeText(wire.Markdown); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

func decodeBinary(w *wireArtifact, kind string) (*Artifact, error) {
	if w == nil {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(w.Content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode %s artifact", kind)
	}
	return &Artifact{Filename: w.Filename, Data: data}, nil
}

func decodeText(w *wireArtifact) (*Artifact, error) {
	if w == nil {
		return nil, nil
	}
	if !utf8.ValidString(w.Content) {
		return nil, errors.New(errors.ErrCodeNetwork, "markdown artifact is not valid UTF-8")
	}
	return &Artifact{Filename: w.Filename, Data: []byte(w.Content)}, nil
}
